package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masterclass-hub/backend/internal/models"
)

func TestGenerateValidateRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 1)
	userID := uuid.New()

	token, err := svc.Generate(userID, "staff@example.com", models.RoleStaff)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "staff@example.com", claims.Email)
	assert.Equal(t, models.RoleStaff, claims.Role)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := NewJWTService("secret-a", 1).Generate(uuid.New(), "a@example.com", models.RoleAdmin)
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", 1).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	token, err := NewJWTService("secret", -1).Generate(uuid.New(), "a@example.com", models.RoleAdmin)
	require.NoError(t, err)

	_, err = NewJWTService("secret", -1).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewJWTService("secret", 1)
	for _, s := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Validate(s)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", s)
	}
}

package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masterclass-hub/backend/config"
)

func TestSendPostsFullPayload(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	m := NewMattermost(config.MattermostConfig{
		WebhookURL: srv.URL,
		Username:   "Masterclasses",
		IconURL:    "https://cdn.example.com/bot.png",
		Channel:    "proposals",
	}, nil)

	require.NoError(t, m.Send(context.Background(), "hello"))
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, "Masterclasses", got.Username)
	assert.Equal(t, "https://cdn.example.com/bot.png", got.IconURL)
	assert.Equal(t, "proposals", got.Channel)
}

func TestSendRejectsNonOKBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"accepted"}`))
	}))
	defer srv.Close()

	m := NewMattermost(config.MattermostConfig{WebhookURL: srv.URL}, nil)
	assert.Error(t, m.Send(context.Background(), "hello"))
}

func TestSendRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad hook", http.StatusBadRequest)
	}))
	defer srv.Close()

	m := NewMattermost(config.MattermostConfig{WebhookURL: srv.URL}, nil)
	assert.Error(t, m.Send(context.Background(), "hello"))
}

func TestSendUnconfigured(t *testing.T) {
	m := NewMattermost(config.MattermostConfig{}, nil)
	assert.False(t, m.Enabled())
	assert.Error(t, m.Send(context.Background(), "hello"))
}

func TestSubmissionMessage(t *testing.T) {
	msg := SubmissionMessage("Go Concurrency", "45 min", "ann@example.com")
	assert.Contains(t, msg, "Go Concurrency")
	assert.Contains(t, msg, "45 min")
	assert.Contains(t, msg, "ann@example.com")
}

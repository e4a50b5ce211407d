package models

import "time"

// Submission review states.
const (
	SubmissionStatusPending   = "pending"
	SubmissionStatusApproved  = "approved"
	SubmissionStatusRejected  = "rejected"
	SubmissionStatusScheduled = "scheduled"
)

// ValidSubmissionStatus reports whether s is a known review state.
func ValidSubmissionStatus(s string) bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusApproved, SubmissionStatusRejected, SubmissionStatusScheduled:
		return true
	}
	return false
}

// VideoSubmission is a pending-review session proposal. It stays independent
// of Video until staff promote it through the admin surface.
type VideoSubmission struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	Email       string    `json:"email"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

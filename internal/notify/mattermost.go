package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/masterclass-hub/backend/config"
)

// Mattermost posts messages to a Mattermost incoming webhook.
type Mattermost struct {
	cfg    config.MattermostConfig
	client *http.Client
	logger *zap.Logger
}

// NewMattermost creates a webhook notifier.
func NewMattermost(cfg config.MattermostConfig, logger *zap.Logger) *Mattermost {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mattermost{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Enabled reports whether a webhook URL is configured.
func (m *Mattermost) Enabled() bool {
	return m.cfg.WebhookURL != ""
}

type webhookPayload struct {
	Text     string `json:"text"`
	Username string `json:"username,omitempty"`
	IconURL  string `json:"icon_url,omitempty"`
	Channel  string `json:"channel,omitempty"`
}

// Send posts a markdown message. Mattermost answers the literal body "ok" on
// success; anything else is treated as failure.
func (m *Mattermost) Send(ctx context.Context, text string) error {
	if !m.Enabled() {
		return fmt.Errorf("mattermost webhook not configured")
	}
	body, err := json.Marshal(webhookPayload{
		Text:     text,
		Username: m.cfg.Username,
		IconURL:  m.cfg.IconURL,
		Channel:  m.cfg.Channel,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode != http.StatusOK || string(raw) != "ok" {
		return fmt.Errorf("webhook rejected: status %d body %q", resp.StatusCode, raw)
	}
	return nil
}

// SubmissionMessage formats the announcement for a new session proposal.
func SubmissionMessage(title, duration, email string) string {
	return fmt.Sprintf("#### New masterclass proposal\n**%s**\nDuration: %s\nProposed by: %s",
		title, duration, email)
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"explore-sync.backend/internal/config"
	"explore-sync.backend/pkg/logger"
)

// SlackNotifier posts run reports to a Slack incoming webhook. When no
// webhook is configured it becomes a no-op so local runs stay quiet.
type SlackNotifier struct {
	cfg    config.SlackConfig
	client *http.Client
}

func NewSlackNotifier(cfg config.SlackConfig) *SlackNotifier {
	return &SlackNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type slackPayload struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

func (n *SlackNotifier) Notify(ctx context.Context, message string) error {
	if n.cfg.WebhookURL == "" {
		logger.WithContext(ctx).Debug("slack webhook not configured, skipping notification")
		return nil
	}

	body, err := json.Marshal(slackPayload{Channel: n.cfg.Channel, Text: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}

	logger.WithContext(ctx).Info("run report delivered", zap.String("channel", n.cfg.Channel))
	return nil
}

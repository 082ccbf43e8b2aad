package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// WebhookNotifier posts status messages to a chat webhook. Transient
// delivery failures are retried with backoff; only an exhausted retry
// budget surfaces as an error.
type WebhookNotifier struct {
	client     *retryablehttp.Client
	webhookURL string
	channel    string
}

type webhookPayload struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// NewWebhookNotifier creates a notifier for the given webhook URL and channel.
func NewWebhookNotifier(webhookURL, channel string) (*WebhookNotifier, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("webhook URL is required")
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = nil

	return &WebhookNotifier{
		client:     client,
		webhookURL: webhookURL,
		channel:    channel,
	}, nil
}

func (n *WebhookNotifier) Notify(ctx context.Context, message string) error {
	payload, err := json.Marshal(webhookPayload{
		Channel: n.channel,
		Text:    message,
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook rejected notification: status %d", resp.StatusCode)
	}

	slog.Info("Notification delivered", "channel", n.channel)
	return nil
}

package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"socialite/pkg/logger"
)

// WebhookClient delivers notification pushes to an external gateway over
// HTTP. The gateway owns device registration and fan-out to APNs/FCM; this
// backend only tells it who should be poked and why.
type WebhookClient struct {
	url        string
	httpClient *http.Client
	log        *logger.Logger
}

// Payload is the body POSTed to the gateway for each notification.
type Payload struct {
	Receiver string                 `json:"receiver"`
	Title    string                 `json:"title,omitempty"`
	Body     string                 `json:"body"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

func NewWebhookClient(gatewayURL string, log *logger.Logger) *WebhookClient {
	return &WebhookClient{
		url: strings.TrimSuffix(gatewayURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Send posts one notification to the gateway. A non-2xx status is an error
// so the worker can retry via the pending queue.
func (c *WebhookClient) Send(ctx context.Context, receiver, title, body string, data map[string]interface{}) error {
	payload, err := json.Marshal(Payload{
		Receiver: receiver,
		Title:    title,
		Body:     body,
		Data:     data,
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("push gateway error: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	c.log.WithField("receiver", receiver).Debug("push delivered")
	return nil
}

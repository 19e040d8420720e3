package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// WebhookClient posts chat messages to incoming-webhook URLs.
type WebhookClient struct {
	Client    *http.Client
	UserAgent string
}

func NewWebhookClient(userAgent string) *WebhookClient {
	return &WebhookClient{
		Client:    &http.Client{Timeout: HTTP_CLIENT_TIMEOUT},
		UserAgent: userAgent,
	}
}

// PostMessage sends {field: content} as JSON. Any non-2xx answer is an error.
func (wc *WebhookClient) PostMessage(ctx context.Context, webhookURL, field, content string) error {
	body, err := json.Marshal(map[string]string{field: content})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if wc.UserAgent != "" {
		req.Header.Set("User-Agent", wc.UserAgent)
	}

	resp, err := wc.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %s: %s", resp.Status, getPreview(respBody))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func getPreview(respBody []byte) string {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return raw
}

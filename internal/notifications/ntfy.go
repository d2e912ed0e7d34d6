package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const userAgent = "ssdwatch/0.1.0"

// NtfyMessenger posts messages to an ntfy topic URL. Channel and target are
// ignored; the topic URL is the destination.
type NtfyMessenger struct {
	Endpoint string
	Title    string
	Client   *http.Client
}

// Send posts message as the request body.
func (n *NtfyMessenger) Send(ctx context.Context, _, _, message string) error {
	if n == nil || n.Client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.Endpoint, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if title := strings.TrimSpace(n.Title); title != "" {
		req.Header.Set("Title", title)
	}
	req.Header.Set("Tags", "ssdwatch,floppy_disk")
	if strings.HasPrefix(message, errorPrefix) {
		req.Header.Set("Priority", "high")
	}

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

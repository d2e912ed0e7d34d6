package notifications

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"ssdwatch/internal/config"
	"ssdwatch/internal/openclaw"
)

// Messenger delivers a formatted message to a target on a channel.
type Messenger interface {
	Send(ctx context.Context, channel, target, message string) error
}

// Discard is a Messenger that delivers nothing. The notifier still prints the
// message to stdout.
type Discard struct{}

func (Discard) Send(context.Context, string, string, string) error { return nil }

// NewMessenger builds the messenger selected by notifications.backend.
func NewMessenger(cfg *config.Config) (Messenger, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Notifications.Backend)) {
	case "", "openclaw":
		return openclaw.New(cfg.Browser.Binary), nil
	case "ntfy":
		topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
		if topic == "" {
			return nil, fmt.Errorf("ntfy backend requires notifications.ntfy_topic")
		}
		return &NtfyMessenger{
			Endpoint: topic,
			Title:    cfg.Notifications.Title,
			Client:   &http.Client{Timeout: cfg.RequestTimeout()},
		}, nil
	case "stdout":
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("unsupported notifications backend %q", cfg.Notifications.Backend)
	}
}

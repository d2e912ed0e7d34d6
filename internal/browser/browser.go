package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ssdwatch/internal/openclaw"
)

const (
	BackendOpenClaw = "openclaw"
	BackendChrome   = "chromedp"
)

// Browser is the browsing capability consumed by the fetch adapter. Handles are
// opaque tab identifiers owned by the backend.
type Browser interface {
	Open(ctx context.Context, url string, timeout time.Duration) (string, error)
	Evaluate(ctx context.Context, handle, fn string, timeout time.Duration) (json.RawMessage, error)
	Close(ctx context.Context, handle string) error
}

// Starter is implemented by backends that need a session started before the
// first Open.
type Starter interface {
	Start(ctx context.Context) error
}

// Stopper is implemented by backends that own resources beyond single tabs.
type Stopper interface {
	Stop() error
}

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Binary     string
	Headless   bool
	ChromePath string
	UserAgent  string
}

// New builds the configured backend.
func New(opts Options) (Browser, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendOpenClaw:
		return openclaw.New(opts.Binary), nil
	case BackendChrome:
		return NewChrome(ChromeOptions{
			Headless:  opts.Headless,
			ExecPath:  opts.ChromePath,
			UserAgent: opts.UserAgent,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported browser backend %q", opts.Backend)
	}
}

// Start starts b when it implements Starter.
func Start(ctx context.Context, b Browser) error {
	if s, ok := b.(Starter); ok {
		return s.Start(ctx)
	}
	return nil
}

// Stop stops b when it implements Stopper.
func Stop(b Browser) error {
	if s, ok := b.(Stopper); ok {
		return s.Stop()
	}
	return nil
}

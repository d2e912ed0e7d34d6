package openclaw

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ssdwatch/internal/services"
)

const (
	// DefaultBinary is the CLI executable name.
	DefaultBinary = "openclaw"

	// processGrace pads the subprocess deadline beyond the timeout handed to
	// the CLI so the CLI can report its own timeout first.
	processGrace = 30 * time.Second

	startTimeout = 60 * time.Second
	closeTimeout = 30 * time.Second
	sendTimeout  = 60 * time.Second

	// MaxMessageLength keeps messages under Telegram's 4096 character cap.
	MaxMessageLength = 3500
	truncationSuffix = "\n…(truncated)"
)

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps openclaw CLI interactions.
type Client struct {
	binary string
	exec   Executor
}

// New constructs an openclaw client. An empty binary selects DefaultBinary.
func New(binary string, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	client := &Client{binary: binary, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Binary returns the configured executable.
func (c *Client) Binary() string {
	return c.binary
}

// Start ensures the managed browser is running.
func (c *Client) Start(ctx context.Context) error {
	_, err := c.run(ctx, startTimeout, "browser", "start")
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "openclaw", "browser start", "", err)
	}
	return nil
}

// Open loads url in a new tab and returns the tab's target id.
func (c *Client) Open(ctx context.Context, url string, timeout time.Duration) (string, error) {
	out, err := c.run(ctx, timeout+processGrace,
		"browser", "open", "--json", "--expect-final", "--timeout", millis(timeout), url)
	if err != nil {
		return "", err
	}
	var payload struct {
		TargetID string `json:"targetId"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return "", fmt.Errorf("decode open response: %w", err)
	}
	if strings.TrimSpace(payload.TargetID) == "" {
		return "", fmt.Errorf("no targetId from open: %s", preview(out))
	}
	return payload.TargetID, nil
}

// Evaluate runs fn in the tab and returns the raw JSON result.
func (c *Client) Evaluate(ctx context.Context, handle, fn string, timeout time.Duration) (json.RawMessage, error) {
	out, err := c.run(ctx, timeout+processGrace,
		"browser", "evaluate", "--json", "--expect-final", "--timeout", millis(timeout),
		"--target-id", handle, "--fn", fn)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, fmt.Errorf("decode evaluate response: %w", err)
	}
	return payload.Result, nil
}

// Close closes the tab.
func (c *Client) Close(ctx context.Context, handle string) error {
	_, err := c.run(ctx, closeTimeout, "browser", "close", handle)
	return err
}

// Send delivers message to target over channel. Messages longer than
// MaxMessageLength are truncated.
func (c *Client) Send(ctx context.Context, channel, target, message string) error {
	message = Truncate(message, MaxMessageLength)
	_, err := c.run(ctx, sendTimeout,
		"message", "send", "--channel", channel, "--target", target, "--message", message)
	return err
}

// Truncate shortens message to at most limit runes, marking the cut.
func Truncate(message string, limit int) string {
	runes := []rune(message)
	if limit <= 0 || len(runes) <= limit {
		return message
	}
	keep := limit - len([]rune(truncationSuffix))
	if keep < 0 {
		keep = 0
	}
	return strings.TrimRight(string(runes[:keep]), " \t\n") + truncationSuffix
}

func (c *Client) run(ctx context.Context, timeout time.Duration, args ...string) ([]byte, error) {
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	out, err := c.exec.Run(runCtx, c.binary, args)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s %s after %s", services.ErrTimeout, c.binary, strings.Join(args[:min(2, len(args))], " "), timeout)
		}
		return nil, err
	}
	return out, nil
}

func millis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}

func preview(out []byte) string {
	s := strings.TrimSpace(string(out))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

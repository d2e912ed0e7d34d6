package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"ssdwatch/internal/services"
)

// ErrUnknownHandle is returned for handles that were never opened or are
// already closed.
var ErrUnknownHandle = errors.New("unknown browser handle")

// ChromeOptions configures the in-process Chrome backend.
type ChromeOptions struct {
	Headless  bool
	ExecPath  string
	UserAgent string
}

type tab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Chrome drives a local Chrome through the DevTools protocol.
type Chrome struct {
	opts ChromeOptions

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	tabs          map[string]tab
	seq           int
}

// NewChrome constructs the backend. Chrome is launched on Start or on the
// first Open.
func NewChrome(opts ChromeOptions) *Chrome {
	return &Chrome{opts: opts, tabs: make(map[string]tab)}
}

// Start launches Chrome if it is not already running.
func (c *Chrome) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked(ctx)
}

func (c *Chrome) startLocked(ctx context.Context) error {
	if c.browserCtx != nil {
		return nil
	}
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts, chromedp.Flag("headless", c.opts.Headless))
	if path := strings.TrimSpace(c.opts.ExecPath); path != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(path))
	}
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(ua))
	}

	// The browser outlives any single request context; Stop tears it down.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	stop := context.AfterFunc(ctx, browserCancel)
	err := chromedp.Run(browserCtx)
	stop()
	if err != nil {
		browserCancel()
		allocCancel()
		return services.Wrap(services.ErrExternalTool, "chrome", "start", "", err)
	}
	c.allocCancel = allocCancel
	c.browserCtx = browserCtx
	c.browserCancel = browserCancel
	return nil
}

// Open creates a tab and navigates it to url.
func (c *Chrome) Open(ctx context.Context, url string, timeout time.Duration) (string, error) {
	c.mu.Lock()
	if err := c.startLocked(ctx); err != nil {
		c.mu.Unlock()
		return "", err
	}
	tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)
	c.seq++
	handle := "tab-" + strconv.Itoa(c.seq)
	c.tabs[handle] = tab{ctx: tabCtx, cancel: tabCancel}
	c.mu.Unlock()

	// Allocate the target on the long-lived tab context before applying the
	// request timeout; cancelling a timeout context on first Run closes the tab.
	if err := chromedp.Run(tabCtx); err != nil {
		c.forget(handle)
		return "", fmt.Errorf("create tab: %w", err)
	}

	runCtx, cancel := boundedContext(ctx, tabCtx, timeout)
	defer cancel()
	if err := chromedp.Run(runCtx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		c.forget(handle)
		return "", mapDeadline(err, "navigate", timeout)
	}
	return handle, nil
}

// Evaluate runs fn, a zero-argument function source, in the tab.
func (c *Chrome) Evaluate(ctx context.Context, handle, fn string, timeout time.Duration) (json.RawMessage, error) {
	t, ok := c.lookup(handle)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandle, handle)
	}
	runCtx, cancel := boundedContext(ctx, t.ctx, timeout)
	defer cancel()

	var raw []byte
	if err := chromedp.Run(runCtx, chromedp.Evaluate("("+fn+")()", &raw)); err != nil {
		return nil, mapDeadline(err, "evaluate", timeout)
	}
	return json.RawMessage(raw), nil
}

// Close closes the tab.
func (c *Chrome) Close(_ context.Context, handle string) error {
	c.mu.Lock()
	t, ok := c.tabs[handle]
	delete(c.tabs, handle)
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, handle)
	}
	err := chromedp.Cancel(t.ctx)
	t.cancel()
	return err
}

// Stop closes every tab and the browser process.
func (c *Chrome) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for handle, t := range c.tabs {
		t.cancel()
		delete(c.tabs, handle)
	}
	if c.browserCancel != nil {
		c.browserCancel()
		c.browserCancel = nil
	}
	if c.allocCancel != nil {
		c.allocCancel()
		c.allocCancel = nil
	}
	c.browserCtx = nil
	return nil
}

func (c *Chrome) lookup(handle string) (tab, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tabs[handle]
	return t, ok
}

func (c *Chrome) forget(handle string) {
	c.mu.Lock()
	t, ok := c.tabs[handle]
	delete(c.tabs, handle)
	c.mu.Unlock()
	if ok {
		t.cancel()
	}
}

// boundedContext derives from the tab context, applies timeout, and also ends
// when the caller's ctx ends.
func boundedContext(caller, tabCtx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(tabCtx)
	if timeout > 0 {
		var timeoutCancel context.CancelFunc
		runCtx, timeoutCancel = context.WithTimeout(runCtx, timeout)
		prev := cancel
		cancel = func() { timeoutCancel(); prev() }
	}
	stop := context.AfterFunc(caller, cancel)
	return runCtx, func() { stop(); cancel() }
}

func mapDeadline(err error, op string, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: chrome %s after %s", services.ErrTimeout, op, timeout)
	}
	return fmt.Errorf("chrome %s: %w", op, err)
}

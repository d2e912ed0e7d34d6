package crawl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"ssdwatch/internal/browser"
	"ssdwatch/internal/extract"
	"ssdwatch/internal/logging"
	"ssdwatch/internal/pacing"
	"ssdwatch/internal/product"
	"ssdwatch/internal/services"
)

const (
	DefaultURLTemplate = "https://www.amazon.co.uk/dp/{id}"
	DefaultOpenTimeout = 60 * time.Second
	DefaultEvalTimeout = 60 * time.Second

	// closeGrace bounds tab cleanup once the item context has ended.
	closeGrace = 30 * time.Second
)

// Options tunes the fetcher.
type Options struct {
	URLTemplate string
	OpenTimeout time.Duration
	EvalTimeout time.Duration
	Script      string
	Logger      *slog.Logger
}

// Fetcher opens one product page per identifier and extracts its fields.
type Fetcher struct {
	browser     browser.Browser
	pacer       *pacing.Pacer
	urlTemplate string
	openTimeout time.Duration
	evalTimeout time.Duration
	script      string
	logger      *slog.Logger
}

// NewFetcher constructs a fetcher. Zero options fall back to defaults.
func NewFetcher(b browser.Browser, pacer *pacing.Pacer, opts Options) *Fetcher {
	f := &Fetcher{
		browser:     b,
		pacer:       pacer,
		urlTemplate: strings.TrimSpace(opts.URLTemplate),
		openTimeout: opts.OpenTimeout,
		evalTimeout: opts.EvalTimeout,
		script:      opts.Script,
		logger:      opts.Logger,
	}
	if f.urlTemplate == "" {
		f.urlTemplate = DefaultURLTemplate
	}
	if f.openTimeout <= 0 {
		f.openTimeout = DefaultOpenTimeout
	}
	if f.evalTimeout <= 0 {
		f.evalTimeout = DefaultEvalTimeout
	}
	if f.script == "" {
		f.script = extract.Script()
	}
	if f.logger == nil {
		f.logger = logging.NewNop()
	}
	f.logger = logging.NewComponentLogger(f.logger, "crawl")
	return f
}

// URLFor substitutes id into the product address template.
func (f *Fetcher) URLFor(id string) string {
	return ProductURL(f.urlTemplate, id)
}

// ProductURL substitutes id into template.
func ProductURL(template, id string) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultURLTemplate
	}
	return strings.ReplaceAll(template, "{id}", id)
}

// Fetch runs open, pace, evaluate, close, pace for one identifier. Missing
// title or price is not an error; the record carries empty fields instead.
func (f *Fetcher) Fetch(ctx context.Context, id string) (product.Record, error) {
	ctx = services.WithIdentifier(ctx, id)
	logger := logging.WithContext(ctx, f.logger)
	address := f.URLFor(id)

	logger.Debug("opening product page", logging.String("url", address))
	handle, err := f.browser.Open(ctx, address, f.openTimeout)
	if err != nil {
		return product.Record{}, services.Wrap(services.ErrFetch, "crawl", "open", id, err)
	}
	defer f.closeTab(ctx, logger, handle)

	if err := f.pacer.Delay(ctx); err != nil {
		return product.Record{}, err
	}

	raw, err := f.browser.Evaluate(ctx, handle, f.script, f.evalTimeout)
	if err != nil {
		return product.Record{}, services.Wrap(services.ErrFetch, "crawl", "evaluate", id, err)
	}
	result, err := extract.Decode(raw)
	if err != nil {
		return product.Record{}, services.Wrap(services.ErrFetch, "crawl", "decode", id, err)
	}

	record := product.Record{
		Identifier: id,
		Title:      result.Title,
		Price:      result.Price,
		URL:        result.URL,
	}
	if record.URL == "" {
		record.URL = address
	}
	logger.Info("product extracted",
		logging.String("title", record.DisplayTitle(60)),
		logging.String("price", record.Price),
	)
	return record, nil
}

// closeTab releases the tab and paces before the next item. Close failures are
// logged and otherwise ignored.
func (f *Fetcher) closeTab(ctx context.Context, logger *slog.Logger, handle string) {
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeGrace)
	defer cancel()
	if err := f.browser.Close(closeCtx, handle); err != nil {
		logger.Warn("failed to close browser tab",
			logging.String("handle", handle),
			logging.Error(err),
		)
	}
	if err := f.pacer.Delay(ctx); err != nil {
		logger.Debug("pacing interrupted", logging.Error(err))
	}
}

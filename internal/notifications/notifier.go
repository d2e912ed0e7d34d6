package notifications

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"ssdwatch/internal/history"
	"ssdwatch/internal/logging"
	"ssdwatch/internal/product"
	"ssdwatch/internal/services"
)

// Store is the slice of the history store the notifier needs.
type Store interface {
	LowestBefore(ctx context.Context, day time.Time) (history.Observation, bool, error)
	LastNotified(ctx context.Context, ids []string) (map[string]history.Notified, error)
	RecordRun(ctx context.Context, runID string, matches []product.Record, at time.Time) error
	MarkNotified(ctx context.Context, records []product.Record, at time.Time) error
}

// Options configures a Notifier.
type Options struct {
	Channel         string
	Target          string
	Title           string
	TopN            int
	OnlyChanges     bool
	TrackerTemplate string
	// DryRun prints the message without delivering or persisting it.
	DryRun bool
	Stdout io.Writer
	Logger *slog.Logger
	Now    func() time.Time
}

// Notifier formats and delivers the digest for one run.
type Notifier struct {
	messenger Messenger
	store     Store
	opts      Options
	logger    *slog.Logger
}

// NewNotifier constructs a notifier. store may be nil, in which case no
// history comparison or persistence happens.
func NewNotifier(messenger Messenger, store Store, opts Options) *Notifier {
	if messenger == nil {
		messenger = Discard{}
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TopN <= 0 {
		opts.TopN = 5
	}
	return &Notifier{
		messenger: messenger,
		store:     store,
		opts:      opts,
		logger:    logging.NewComponentLogger(opts.Logger, "notify"),
	}
}

// Notify builds the digest for matches, prints it, and delivers it. A delivery
// failure is returned marked services.ErrDelivery after the message has been
// printed.
func (n *Notifier) Notify(ctx context.Context, runID string, matches []product.Record) (Digest, error) {
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, n.logger)
	now := n.opts.Now()

	in := DigestInput{
		Now:             now,
		Title:           n.opts.Title,
		TopN:            n.opts.TopN,
		TrackerTemplate: n.opts.TrackerTemplate,
	}
	n.loadHistory(ctx, logger, now, matches, &in)

	digest := BuildDigest(matches, in)
	message := digest.Message()
	if _, err := fmt.Fprintln(n.opts.Stdout, message); err != nil {
		logger.Warn("failed to write digest to stdout", logging.Error(err))
	}

	if n.opts.DryRun {
		logger.Info("dry run; delivery skipped", logging.Int("matches", len(matches)))
		return digest, nil
	}

	if n.opts.OnlyChanges && len(matches) > 0 && !digest.Changed() {
		logger.Info("no price changes since last notification; delivery skipped", logging.Int("matches", len(matches)))
		n.persist(ctx, logger, runID, digest, now, false)
		return digest, nil
	}

	if err := n.messenger.Send(ctx, n.opts.Channel, n.opts.Target, message); err != nil {
		return digest, services.Wrap(services.ErrDelivery, "notifications", "send", n.opts.Channel, err)
	}
	attrs := []logging.Attr{logging.Int("matches", len(matches)), logging.String("channel", n.opts.Channel)}
	if best, ok := digest.Best(); ok {
		attrs = append(attrs, logging.String("best_price", product.FormatGBP(best.Price)))
	}
	logger.Info("digest delivered", logging.Args(attrs...)...)

	n.persist(ctx, logger, runID, digest, now, true)
	return digest, nil
}

// NotifyError delivers a short failure alert. It is best-effort; callers log
// the returned error.
func (n *Notifier) NotifyError(ctx context.Context, cause error) error {
	if n.opts.DryRun {
		return nil
	}
	message := ErrorMessage(n.opts.Title, n.opts.Now(), cause)
	if err := n.messenger.Send(ctx, n.opts.Channel, n.opts.Target, message); err != nil {
		return services.Wrap(services.ErrDelivery, "notifications", "send error alert", n.opts.Channel, err)
	}
	return nil
}

// SendTest delivers a fixed test message.
func (n *Notifier) SendTest(ctx context.Context) error {
	message := fmt.Sprintf("%s: test notification (%s)", n.opts.Title, n.opts.Now().Local().Format(time.RFC1123))
	if _, err := fmt.Fprintln(n.opts.Stdout, message); err != nil {
		n.logger.Warn("failed to write test message to stdout", logging.Error(err))
	}
	if err := n.messenger.Send(ctx, n.opts.Channel, n.opts.Target, message); err != nil {
		return services.Wrap(services.ErrDelivery, "notifications", "send test", n.opts.Channel, err)
	}
	return nil
}

// loadHistory fills the comparison fields of in. History is advisory, so
// read failures are logged and the digest is built without it.
func (n *Notifier) loadHistory(ctx context.Context, logger *slog.Logger, now time.Time, matches []product.Record, in *DigestInput) {
	if n.store == nil {
		return
	}
	if obs, ok, err := n.store.LowestBefore(ctx, now); err != nil {
		logging.WarnWithContext(logger, "failed to read previous lowest price", "history_read_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "comparison reports no prior data"),
		)
	} else if ok {
		in.Yesterday, in.HasYesterday = obs.Price, true
	}

	ids := make([]string, 0, len(matches))
	for _, rec := range matches {
		ids = append(ids, rec.Identifier)
	}
	last, err := n.store.LastNotified(ctx, ids)
	if err != nil {
		logging.WarnWithContext(logger, "failed to read last notified prices", "history_read_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "every match is reported as new"),
		)
		return
	}
	in.LastNotified = last
}

func (n *Notifier) persist(ctx context.Context, logger *slog.Logger, runID string, digest Digest, now time.Time, delivered bool) {
	if n.store == nil {
		return
	}
	records := digest.Records()
	if err := n.store.RecordRun(ctx, runID, records, now); err != nil {
		logging.ErrorWithContext(logger, "failed to record run history", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.history_db permissions"),
		)
		return
	}
	if !delivered {
		return
	}
	if err := n.store.MarkNotified(ctx, records, now); err != nil {
		logging.ErrorWithContext(logger, "failed to mark matches notified", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.history_db permissions"),
		)
	}
}

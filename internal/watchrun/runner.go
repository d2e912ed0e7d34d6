package watchrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"ssdwatch/internal/browser"
	"ssdwatch/internal/config"
	"ssdwatch/internal/crawl"
	"ssdwatch/internal/history"
	"ssdwatch/internal/lock"
	"ssdwatch/internal/logging"
	"ssdwatch/internal/matcher"
	"ssdwatch/internal/notifications"
	"ssdwatch/internal/pacing"
	"ssdwatch/internal/product"
	"ssdwatch/internal/services"
	"ssdwatch/internal/sources"
)

// Deps overrides collaborators normally built from configuration.
type Deps struct {
	Browser   browser.Browser
	Messenger notifications.Messenger
	Pacer     *pacing.Pacer
	Logger    *slog.Logger
	Stdout    io.Writer
	Now       func() time.Time

	// Guard is a run lock already held by the caller. RunOnce then skips its
	// own acquisition and leaves release to the caller.
	Guard *lock.Guard
}

// Options tunes a single run.
type Options struct {
	// DryRun prints the digest without delivering it or writing history.
	DryRun bool
}

// Outcome summarizes a finished run.
type Outcome struct {
	RunID   string
	Skipped bool
	Records []product.Record
	Matches []product.Record
	Digest  notifications.Digest
}

// Runner executes guarded pipeline runs.
type Runner struct {
	cfg    *config.Config
	deps   Deps
	opts   Options
	logger *slog.Logger
}

// New constructs a Runner.
func New(cfg *config.Config, deps Deps, opts Options) *Runner {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Runner{
		cfg:    cfg,
		deps:   deps,
		opts:   opts,
		logger: logging.NewComponentLogger(deps.Logger, "run"),
	}
}

// AcquireLock takes the run lock named by cfg without blocking. acquired is
// false when another run holds it.
func AcquireLock(cfg *config.Config) (*lock.Guard, bool, error) {
	guard, acquired, err := lock.Acquire(cfg.Paths.LockFile)
	if err != nil {
		return nil, false, services.Wrap(services.ErrConfiguration, "run", "lock", cfg.Paths.LockFile, err)
	}
	return guard, acquired, nil
}

// RunOnce performs one run. Lock contention returns a skipped outcome and a
// nil error.
func (r *Runner) RunOnce(ctx context.Context) (Outcome, error) {
	if r.cfg == nil {
		return Outcome{}, services.Wrap(services.ErrConfiguration, "run", "start", "config is required", nil)
	}

	if r.deps.Guard == nil {
		guard, acquired, err := AcquireLock(r.cfg)
		if err != nil {
			return Outcome{}, err
		}
		if !acquired {
			r.logger.Debug("another run holds the lock; exiting", logging.String("lock_path", r.cfg.Paths.LockFile))
			return Outcome{Skipped: true}, nil
		}
		defer func() {
			if err := guard.Release(); err != nil {
				r.logger.Warn("failed to release run lock", logging.Error(err))
			}
		}()
	}

	outcome := Outcome{RunID: uuid.NewString()}
	ctx = services.WithRunID(ctx, outcome.RunID)
	logger := logging.WithContext(ctx, r.logger)
	started := r.deps.Now()

	ids, err := sources.Load(r.cfg.Paths.SourceList)
	if err != nil {
		return outcome, err
	}
	if dups := sources.Duplicates(ids); len(dups) > 0 {
		logging.WarnWithContext(logger, "source list contains duplicate identifiers", "source_duplicates",
			logging.String("identifiers", strings.Join(dups, ",")),
			logging.String(logging.FieldImpact, "duplicates are fetched and reported more than once"),
		)
	}
	logger.Info("run started", logging.Int("identifiers", len(ids)), logging.Bool("dry_run", r.opts.DryRun))

	messenger, err := r.messenger()
	if err != nil {
		return outcome, services.Wrap(services.ErrConfiguration, "run", "messenger", r.cfg.Notifications.Backend, err)
	}

	var store notifications.Store
	if hs, err := history.Open(r.cfg.Paths.HistoryDB); err != nil {
		logging.WarnWithContext(logger, "history unavailable; continuing without it", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no day-over-day comparison or change tracking"),
		)
	} else {
		store = hs
		defer hs.Close()
	}

	notifier := notifications.NewNotifier(messenger, store, notifications.Options{
		Channel:         r.cfg.Notifications.Channel,
		Target:          r.cfg.Notifications.Target,
		Title:           r.cfg.Notifications.Title,
		TopN:            r.cfg.Notifications.TopN,
		OnlyChanges:     r.cfg.Notifications.OnlyChanges,
		TrackerTemplate: r.cfg.Site.TrackerURLTemplate,
		DryRun:          r.opts.DryRun,
		Stdout:          r.deps.Stdout,
		Logger:          r.deps.Logger,
		Now:             r.deps.Now,
	})

	records, err := r.crawl(ctx, logger, ids)
	if err != nil {
		r.alert(ctx, logger, notifier, err)
		return outcome, err
	}
	outcome.Records = records
	outcome.Matches = r.filter(logger, records)

	digest, err := notifier.Notify(ctx, outcome.RunID, outcome.Matches)
	outcome.Digest = digest
	if err != nil {
		return outcome, err
	}

	logger.Info("run finished",
		logging.Int("records", len(outcome.Records)),
		logging.Int("matches", len(outcome.Matches)),
		logging.Duration("elapsed", r.deps.Now().Sub(started)),
	)
	return outcome, nil
}

func (r *Runner) crawl(ctx context.Context, logger *slog.Logger, ids []string) ([]product.Record, error) {
	b := r.deps.Browser
	if b == nil {
		built, err := browser.New(browser.Options{
			Backend:    r.cfg.Browser.Backend,
			Binary:     r.cfg.Browser.Binary,
			Headless:   r.cfg.Browser.Headless,
			ChromePath: r.cfg.Browser.ChromePath,
			UserAgent:  r.cfg.Browser.UserAgent,
		})
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "run", "browser", r.cfg.Browser.Backend, err)
		}
		b = built
	}
	if err := browser.Start(ctx, b); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "browser", "start", r.cfg.Browser.Backend, err)
	}
	defer func() {
		if err := browser.Stop(b); err != nil {
			logger.Warn("failed to stop browser", logging.Error(err))
		}
	}()

	pacer := r.deps.Pacer
	if pacer == nil {
		pacer = pacing.New(r.cfg.PacingBounds())
	}
	fetcher := crawl.NewFetcher(b, pacer, crawl.Options{
		URLTemplate: r.cfg.Site.URLTemplate,
		OpenTimeout: r.cfg.OpenTimeout(),
		EvalTimeout: r.cfg.EvalTimeout(),
		Logger:      r.deps.Logger,
	})
	return crawl.Run(ctx, ids, fetcher)
}

func (r *Runner) filter(logger *slog.Logger, records []product.Record) []product.Record {
	rules := matcher.DefaultRules()
	for _, rec := range records {
		if reason := matcher.Classify(rec.Title, rules...); reason != "" {
			logger.Debug("record rejected",
				logging.Identifier(rec.Identifier),
				logging.String("reason", reason),
				logging.String("title", rec.DisplayTitle(60)),
			)
		}
	}
	return matcher.Filter(records, rules...)
}

// alert sends the failure message for fetch errors when enabled. Failures of
// the alert itself are only logged.
func (r *Runner) alert(ctx context.Context, logger *slog.Logger, notifier *notifications.Notifier, cause error) {
	if !r.cfg.Notifications.NotifyErrors || !errors.Is(cause, services.ErrFetch) {
		return
	}
	if err := notifier.NotifyError(context.WithoutCancel(ctx), cause); err != nil {
		logging.WarnWithContext(logger, "failed to deliver error alert", "error_alert_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run failure was not reported to the channel"),
		)
	}
}

func (r *Runner) messenger() (notifications.Messenger, error) {
	if r.deps.Messenger != nil {
		return r.deps.Messenger, nil
	}
	m, err := notifications.NewMessenger(r.cfg)
	if err != nil {
		return nil, fmt.Errorf("build messenger: %w", err)
	}
	return m, nil
}

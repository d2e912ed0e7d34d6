package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"ssdwatch/internal/product"
)

// Store manages price history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the history database and applies migrations.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// RecordRun stores a run together with its matched records.
func (s *Store) RecordRun(ctx context.Context, runID string, matches []product.Record, at time.Time) error {
	if strings.TrimSpace(runID) == "" {
		return errors.New("run id is empty")
	}
	if at.IsZero() {
		at = s.now()
	}
	stamp := at.UTC().Format(time.RFC3339Nano)
	day := at.Local().Format(DayLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, match_count) VALUES (?, ?, ?)`,
		runID, stamp, len(matches),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, rec := range matches {
		price, ok := rec.PriceValue()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO observations (
                run_id, identifier, title, price_text, price, url, observed_at, observed_day
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, rec.Identifier, rec.Title, rec.Price, nullableFloat(price, ok), rec.URL, stamp, day,
		); err != nil {
			return fmt.Errorf("insert observation %s: %w", rec.Identifier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// LowestOn returns the cheapest priced observation recorded on the local day
// containing day. The boolean is false when nothing priced was stored.
func (s *Store) LowestOn(ctx context.Context, day time.Time) (Observation, bool, error) {
	return s.lowestOnDay(ctx, day.Local().Format(DayLayout))
}

// LowestBefore is LowestOn for the most recent local day before day that has
// priced observations, however far back that is.
func (s *Store) LowestBefore(ctx context.Context, day time.Time) (Observation, bool, error) {
	var latest sql.NullString
	if err := s.db.QueryRowContext(ctx,
		`SELECT MAX(observed_day) FROM observations WHERE observed_day < ? AND price IS NOT NULL`,
		day.Local().Format(DayLayout),
	).Scan(&latest); err != nil {
		return Observation{}, false, fmt.Errorf("latest priced day: %w", err)
	}
	if !latest.Valid {
		return Observation{}, false, nil
	}
	return s.lowestOnDay(ctx, latest.String)
}

func (s *Store) lowestOnDay(ctx context.Context, day string) (Observation, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+observationColumns+` FROM observations
         WHERE observed_day = ? AND price IS NOT NULL
         ORDER BY price ASC, id ASC LIMIT 1`,
		day,
	)
	obs, err := scanObservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Observation{}, false, nil
	}
	if err != nil {
		return Observation{}, false, fmt.Errorf("lowest on day %s: %w", day, err)
	}
	return obs, true, nil
}

// LastNotified returns the last delivered price for each identifier that has one.
func (s *Store) LastNotified(ctx context.Context, ids []string) (map[string]Notified, error) {
	out := make(map[string]Notified, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT identifier, price_text, price, notified_at FROM notified WHERE identifier IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query notified: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			n       Notified
			price   sql.NullFloat64
			stamped string
		)
		if err := rows.Scan(&n.Identifier, &n.PriceText, &price, &stamped); err != nil {
			return nil, fmt.Errorf("scan notified: %w", err)
		}
		n.Price, n.HasPrice = price.Float64, price.Valid
		n.NotifiedAt = parseTime(stamped)
		out[n.Identifier] = n
	}
	return out, rows.Err()
}

// MarkNotified records the prices that were just delivered.
func (s *Store) MarkNotified(ctx context.Context, records []product.Record, at time.Time) error {
	if len(records) == 0 {
		return nil
	}
	if at.IsZero() {
		at = s.now()
	}
	stamp := at.UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin notified tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, rec := range records {
		price, ok := rec.PriceValue()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO notified (identifier, price_text, price, notified_at) VALUES (?, ?, ?, ?)
             ON CONFLICT(identifier) DO UPDATE SET
                price_text = excluded.price_text,
                price = excluded.price,
                notified_at = excluded.notified_at`,
			rec.Identifier, rec.Price, nullableFloat(price, ok), stamp,
		); err != nil {
			return fmt.Errorf("mark notified %s: %w", rec.Identifier, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit notified: %w", err)
	}
	return nil
}

// DailyMinimums returns the per-day lowest price for identifier over the last
// days days ending at now, oldest first.
func (s *Store) DailyMinimums(ctx context.Context, identifier string, days int, now time.Time) ([]DailyMin, error) {
	if days <= 0 {
		days = 30
	}
	if now.IsZero() {
		now = s.now()
	}
	since := now.Local().AddDate(0, 0, -(days - 1)).Format(DayLayout)
	rows, err := s.db.QueryContext(ctx,
		`SELECT observed_day, MIN(price) FROM observations
         WHERE identifier = ? AND price IS NOT NULL AND observed_day >= ?
         GROUP BY observed_day ORDER BY observed_day ASC`,
		identifier, since,
	)
	if err != nil {
		return nil, fmt.Errorf("query daily minimums: %w", err)
	}
	defer rows.Close()

	var out []DailyMin
	for rows.Next() {
		var d DailyMin
		if err := rows.Scan(&d.Day, &d.Price); err != nil {
			return nil, fmt.Errorf("scan daily minimum: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Summary aggregates stored observations per identifier, most recently seen first.
func (s *Store) Summary(ctx context.Context) ([]ItemSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT o.identifier,
                (SELECT title FROM observations l WHERE l.identifier = o.identifier ORDER BY l.id DESC LIMIT 1),
                (SELECT price_text FROM observations l WHERE l.identifier = o.identifier ORDER BY l.id DESC LIMIT 1),
                MIN(o.price),
                COUNT(1),
                MAX(o.observed_at)
         FROM observations o
         GROUP BY o.identifier
         ORDER BY MAX(o.observed_at) DESC, o.identifier ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	var out []ItemSummary
	for rows.Next() {
		var (
			item     ItemSummary
			lowest   sql.NullFloat64
			lastSeen string
		)
		if err := rows.Scan(&item.Identifier, &item.Title, &item.LatestPrice, &lowest, &item.Observations, &lastSeen); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		item.LowestPrice, item.HasLowest = lowest.Float64, lowest.Valid
		item.LastSeen = parseTime(lastSeen)
		out = append(out, item)
	}
	return out, rows.Err()
}

// Runs lists the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, match_count FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run     Run
			started string
		)
		if err := rows.Scan(&run.ID, &started, &run.MatchCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTime(started)
		out = append(out, run)
	}
	return out, rows.Err()
}

package watchrun

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ssdwatch/internal/config"
	"ssdwatch/internal/logging"
)

// currentLogName is the stable symlink pointing at today's log file.
const currentLogName = "ssdwatch.log"

// LoggerOptions overrides the configured logging settings.
type LoggerOptions struct {
	Level       string
	Development bool
}

// OpenLogger builds the process logger: console or JSON on stderr plus JSON in
// a dated file under log_dir. It refreshes the ssdwatch.log pointer and prunes
// files past the retention window. The returned path is the dated file.
func OpenLogger(cfg *config.Config, opts LoggerOptions) (*slog.Logger, string, error) {
	if cfg == nil {
		return nil, "", fmt.Errorf("config is required")
	}
	level := strings.TrimSpace(opts.Level)
	if level == "" {
		level = cfg.Logging.Level
	}
	logDir := strings.TrimSpace(cfg.Paths.LogDir)

	var logPath string
	if logDir != "" {
		logPath = logging.DatedLogPath(logDir, time.Now())
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		FilePath:    logPath,
		Development: opts.Development,
	})
	if err != nil {
		return nil, "", fmt.Errorf("init logger: %w", err)
	}
	if logPath == "" {
		return logger, "", nil
	}

	if err := ensureCurrentLogPointer(logDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update %s link: %v\n", currentLogName, err)
	}
	logging.PruneLogs(logger, logDir, cfg.Logging.RetentionDays, logPath)
	return logger, logPath, nil
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, currentLogName)
	if existing, err := os.Readlink(current); err == nil && existing == target {
		return nil
	}
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Symlink(target, current)
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"ssdwatch/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	SourceList string `toml:"source_list"`
	LockFile   string `toml:"lock_file"`
	HistoryDB  string `toml:"history_db"`
}

// Site contains address templates. {id} is replaced with the product identifier.
type Site struct {
	URLTemplate        string `toml:"url_template"`
	TrackerURLTemplate string `toml:"tracker_url_template"`
}

// Browser selects and tunes the browsing backend.
type Browser struct {
	Backend     string `toml:"backend"`
	Binary      string `toml:"binary"`
	OpenTimeout int    `toml:"open_timeout"`
	EvalTimeout int    `toml:"eval_timeout"`
	Headless    bool   `toml:"headless"`
	ChromePath  string `toml:"chrome_path"`
	UserAgent   string `toml:"user_agent"`
}

// Pacing bounds the random delay between browser actions.
type Pacing struct {
	MinDelaySeconds float64 `toml:"min_delay_seconds"`
	MaxDelaySeconds float64 `toml:"max_delay_seconds"`
}

// Notifications controls how the digest is delivered.
type Notifications struct {
	Backend        string `toml:"backend"`
	Channel        string `toml:"channel"`
	Target         string `toml:"target"`
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	OnlyChanges    bool   `toml:"only_changes"`
	TopN           int    `toml:"top_n"`
	Title          string `toml:"title"`
	NotifyErrors   bool   `toml:"notify_errors"`
}

// Schedule configures the watch command.
type Schedule struct {
	Cron string `toml:"cron"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for ssdwatch.
//
// Configuration sections by subsystem:
//   - Paths: data, log, source list, lock, and history locations
//   - Site: product and price tracker address templates
//   - Browser: backend selection and per-action timeouts
//   - Pacing: random delay bounds between browser actions
//   - Notifications: digest delivery
//   - Schedule: cron expression for the watch command
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Site          Site          `toml:"site"`
	Browser       Browser       `toml:"browser"`
	Pacing        Pacing        `toml:"pacing"`
	Notifications Notifications `toml:"notifications"`
	Schedule      Schedule      `toml:"schedule"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. Errors are marked services.ErrConfiguration.
func Load(path string) (*Config, string, bool, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, "", false, fmt.Errorf("%w: %w", services.ErrConfiguration, err)
	}

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, fmt.Errorf("%w: %w", services.ErrConfiguration, err)
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("%w: open config: %w", services.ErrConfiguration, err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("%w: parse config: %w", services.ErrConfiguration, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, fmt.Errorf("%w: %w", services.ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, fmt.Errorf("%w: %w", services.ErrConfiguration, err)
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("ssdwatch.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, filepath.Dir(c.Paths.HistoryDB)} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// OpenTimeout returns the page open timeout.
func (c *Config) OpenTimeout() time.Duration {
	return time.Duration(c.Browser.OpenTimeout) * time.Second
}

// EvalTimeout returns the page evaluation timeout.
func (c *Config) EvalTimeout() time.Duration {
	return time.Duration(c.Browser.EvalTimeout) * time.Second
}

// PacingBounds returns the pacing interval as durations.
func (c *Config) PacingBounds() (time.Duration, time.Duration) {
	return seconds(c.Pacing.MinDelaySeconds), seconds(c.Pacing.MaxDelaySeconds)
}

// RequestTimeout returns the HTTP timeout for ntfy delivery.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Notifications.RequestTimeout) * time.Second
}

// ProductURL renders the product address for id.
func (c *Config) ProductURL(id string) string {
	return strings.ReplaceAll(c.Site.URLTemplate, "{id}", id)
}

// TrackerURL renders the price tracker address for id, or "" when disabled.
func (c *Config) TrackerURL(id string) string {
	if c.Site.TrackerURLTemplate == "" {
		return ""
	}
	return strings.ReplaceAll(c.Site.TrackerURLTemplate, "{id}", id)
}

func seconds(value float64) time.Duration {
	return time.Duration(value * float64(time.Second))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

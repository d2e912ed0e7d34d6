package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"ssdwatch/internal/services"
)

// CronParser accepts standard five-field expressions and descriptors such as
// @daily.
var CronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate ensures the configuration is usable. Failures are marked
// services.ErrValidation.
func (c *Config) Validate() error {
	checks := []func() error{
		c.validatePaths,
		c.validateSite,
		c.validateBrowser,
		c.validatePacing,
		c.validateNotifications,
		c.validateSchedule,
		c.validateLogging,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return fmt.Errorf("%w: %w", services.ErrValidation, err)
		}
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.SourceList == "" {
		return errors.New("paths.source_list must be set")
	}
	if c.Paths.LockFile == "" {
		return errors.New("paths.lock_file must be set")
	}
	return nil
}

func (c *Config) validateSite() error {
	if !strings.Contains(c.Site.URLTemplate, "{id}") {
		return fmt.Errorf("site.url_template %q must contain {id}", c.Site.URLTemplate)
	}
	if c.Site.TrackerURLTemplate != "" && !strings.Contains(c.Site.TrackerURLTemplate, "{id}") {
		return fmt.Errorf("site.tracker_url_template %q must contain {id}", c.Site.TrackerURLTemplate)
	}
	return nil
}

func (c *Config) validateBrowser() error {
	switch c.Browser.Backend {
	case "openclaw", "chromedp":
	default:
		return fmt.Errorf("browser.backend must be openclaw or chromedp, got %q", c.Browser.Backend)
	}
	if c.Browser.OpenTimeout <= 0 {
		return errors.New("browser.open_timeout must be positive")
	}
	if c.Browser.EvalTimeout <= 0 {
		return errors.New("browser.eval_timeout must be positive")
	}
	return nil
}

func (c *Config) validatePacing() error {
	if c.Pacing.MinDelaySeconds < 0 || c.Pacing.MaxDelaySeconds < 0 {
		return errors.New("pacing delays must not be negative")
	}
	if c.Pacing.MaxDelaySeconds < c.Pacing.MinDelaySeconds {
		return errors.New("pacing.max_delay_seconds must be at least pacing.min_delay_seconds")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	n := c.Notifications
	switch n.Backend {
	case "openclaw":
		if n.Target == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = defaultConfigPath
			}
			return fmt.Errorf("notifications.target is required for the openclaw backend. Set %s or edit %s (create with 'ssdwatch config init')", envTarget, defaultPath)
		}
	case "ntfy":
		if n.NtfyTopic == "" {
			return fmt.Errorf("notifications.ntfy_topic is required for the ntfy backend (or set %s)", envNtfyTopic)
		}
	case "stdout":
	default:
		return fmt.Errorf("notifications.backend must be openclaw, ntfy, or stdout, got %q", n.Backend)
	}
	if n.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	if n.TopN <= 0 {
		return errors.New("notifications.top_n must be positive")
	}
	return nil
}

func (c *Config) validateSchedule() error {
	if c.Schedule.Cron == "" {
		return nil
	}
	if _, err := CronParser.Parse(c.Schedule.Cron); err != nil {
		return fmt.Errorf("schedule.cron %q: %w", c.Schedule.Cron, err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must not be negative")
	}
	return nil
}

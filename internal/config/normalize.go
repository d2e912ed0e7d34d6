package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSite()
	if err := c.normalizeBrowser(); err != nil {
		return err
	}
	c.normalizePacing()
	c.normalizeNotifications()
	c.normalizeLogging()
	c.Schedule.Cron = strings.TrimSpace(c.Schedule.Cron)
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.SourceList, err = expandPath(strings.TrimSpace(c.Paths.SourceList)); err != nil {
		return fmt.Errorf("paths.source_list: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockFile) == "" {
		c.Paths.LockFile = defaultLockFile()
	}
	if c.Paths.LockFile, err = expandPath(strings.TrimSpace(c.Paths.LockFile)); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = filepath.Join(c.Paths.DataDir, defaultHistoryFile)
	}
	if c.Paths.HistoryDB, err = expandPath(strings.TrimSpace(c.Paths.HistoryDB)); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeSite() {
	c.Site.URLTemplate = strings.TrimSpace(c.Site.URLTemplate)
	if c.Site.URLTemplate == "" {
		c.Site.URLTemplate = defaultURLTemplate
	}
	c.Site.TrackerURLTemplate = strings.TrimSpace(c.Site.TrackerURLTemplate)
}

func (c *Config) normalizeBrowser() error {
	c.Browser.Backend = strings.ToLower(strings.TrimSpace(c.Browser.Backend))
	if c.Browser.Backend == "" {
		c.Browser.Backend = defaultBrowserBackend
	}
	c.Browser.Binary = strings.TrimSpace(c.Browser.Binary)
	if c.Browser.Binary == "" {
		c.Browser.Binary = defaultBrowserBinary
	}
	if c.Browser.OpenTimeout == 0 {
		c.Browser.OpenTimeout = defaultOpenTimeout
	}
	if c.Browser.EvalTimeout == 0 {
		c.Browser.EvalTimeout = defaultEvalTimeout
	}
	c.Browser.UserAgent = strings.TrimSpace(c.Browser.UserAgent)
	if path := strings.TrimSpace(c.Browser.ChromePath); path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return fmt.Errorf("browser.chrome_path: %w", err)
		}
		c.Browser.ChromePath = expanded
	}
	return nil
}

func (c *Config) normalizePacing() {
	if c.Pacing.MinDelaySeconds > c.Pacing.MaxDelaySeconds && c.Pacing.MaxDelaySeconds > 0 {
		c.Pacing.MinDelaySeconds, c.Pacing.MaxDelaySeconds = c.Pacing.MaxDelaySeconds, c.Pacing.MinDelaySeconds
	}
}

func (c *Config) normalizeNotifications() {
	n := &c.Notifications
	n.Backend = strings.ToLower(strings.TrimSpace(n.Backend))
	if n.Backend == "" {
		n.Backend = defaultNotifyBackend
	}
	n.Channel = strings.TrimSpace(n.Channel)
	if n.Channel == "" {
		n.Channel = defaultNotifyChannel
	}
	n.Target = strings.TrimSpace(n.Target)
	if n.Target == "" {
		if value, ok := os.LookupEnv(envTarget); ok {
			n.Target = strings.TrimSpace(value)
		}
	}
	n.NtfyTopic = strings.TrimSpace(n.NtfyTopic)
	if n.NtfyTopic == "" {
		if value, ok := os.LookupEnv(envNtfyTopic); ok {
			n.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if n.RequestTimeout == 0 {
		n.RequestTimeout = defaultRequestTimeout
	}
	if n.TopN == 0 {
		n.TopN = defaultTopN
	}
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		n.Title = defaultTitle
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

package config

import (
	"os"
	"path/filepath"
)

const (
	defaultConfigPath         = "~/.config/ssdwatch/config.toml"
	defaultDataDir            = "~/.local/share/ssdwatch"
	defaultLogDir             = "~/.local/share/ssdwatch/logs"
	defaultSourceList         = "~/.config/ssdwatch/asins.txt"
	defaultHistoryFile        = "history.db"
	defaultLockName           = "ssdwatch.lock"
	defaultURLTemplate        = "https://www.amazon.co.uk/dp/{id}"
	defaultTrackerURLTemplate = "https://uk.camelcamelcamel.com/product/{id}"
	defaultBrowserBackend     = "openclaw"
	defaultBrowserBinary      = "openclaw"
	defaultOpenTimeout        = 60
	defaultEvalTimeout        = 60
	defaultMinDelaySeconds    = 2
	defaultMaxDelaySeconds    = 6
	defaultNotifyBackend      = "openclaw"
	defaultNotifyChannel      = "telegram"
	defaultRequestTimeout     = 10
	defaultTopN               = 5
	defaultTitle              = "Today's best 4TB NVMe"
	defaultCron               = "0 8 * * *"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogRetentionDays   = 30

	envTarget    = "SSDWATCH_TARGET"
	envNtfyTopic = "SSDWATCH_NTFY_TOPIC"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			SourceList: defaultSourceList,
			LockFile:   defaultLockFile(),
		},
		Site: Site{
			URLTemplate:        defaultURLTemplate,
			TrackerURLTemplate: defaultTrackerURLTemplate,
		},
		Browser: Browser{
			Backend:     defaultBrowserBackend,
			Binary:      defaultBrowserBinary,
			OpenTimeout: defaultOpenTimeout,
			EvalTimeout: defaultEvalTimeout,
			Headless:    true,
		},
		Pacing: Pacing{
			MinDelaySeconds: defaultMinDelaySeconds,
			MaxDelaySeconds: defaultMaxDelaySeconds,
		},
		Notifications: Notifications{
			Backend:        defaultNotifyBackend,
			Channel:        defaultNotifyChannel,
			RequestTimeout: defaultRequestTimeout,
			TopN:           defaultTopN,
			Title:          defaultTitle,
			NotifyErrors:   true,
		},
		Schedule: Schedule{
			Cron: defaultCron,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

func defaultLockFile() string {
	return filepath.Join(os.TempDir(), defaultLockName)
}

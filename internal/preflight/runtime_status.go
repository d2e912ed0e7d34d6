package preflight

import (
	"context"
	"fmt"
	"strings"

	"ssdwatch/internal/config"
)

// CheckNotificationsFromConfig evaluates the delivery backend from config and,
// for ntfy, connectivity.
func CheckNotificationsFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "Notifications"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Notifications.Backend)) {
	case "stdout":
		return Result{Name: name, Passed: true, Detail: "stdout only"}
	case "ntfy":
		check := CheckNtfy(ctx, cfg.Notifications.NtfyTopic)
		check.Name = name
		if check.Passed {
			check.Detail = "ntfy " + strings.TrimSpace(cfg.Notifications.NtfyTopic)
		}
		return check
	case "", "openclaw":
		if strings.TrimSpace(cfg.Notifications.Target) == "" {
			return Result{Name: name, Detail: "Missing target"}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("openclaw %s -> %s", cfg.Notifications.Channel, cfg.Notifications.Target)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("Unsupported backend %q", cfg.Notifications.Backend)}
	}
}

package deps

import (
	"os/exec"
	"strings"

	"ssdwatch/internal/config"
)

// chromeCandidates mirrors the names chromedp's allocator searches on PATH.
var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

// Requirements lists the binaries the configured backends need. The openclaw
// CLI is required when either the browser or the messenger uses it.
func Requirements(cfg *config.Config) []Requirement {
	if cfg == nil {
		return nil
	}
	var reqs []Requirement
	browserBackend := strings.ToLower(strings.TrimSpace(cfg.Browser.Backend))
	notifyBackend := strings.ToLower(strings.TrimSpace(cfg.Notifications.Backend))

	usesOpenClaw := browserBackend == "" || browserBackend == "openclaw" || notifyBackend == "" || notifyBackend == "openclaw"
	if usesOpenClaw {
		var roles []string
		if browserBackend == "" || browserBackend == "openclaw" {
			roles = append(roles, "browser automation")
		}
		if notifyBackend == "" || notifyBackend == "openclaw" {
			roles = append(roles, "message delivery")
		}
		reqs = append(reqs, Requirement{
			Name:        "OpenClaw",
			Command:     cfg.Browser.Binary,
			Description: "Used for " + strings.Join(roles, " and "),
		})
	}
	return reqs
}

// CheckChrome reports the Chrome binary the chromedp backend will launch.
// An explicit path wins; otherwise the usual executable names are resolved
// from PATH.
func CheckChrome(explicit string) Status {
	result := Status{
		Name:        "Chrome",
		Description: "Used by the chromedp browser backend",
	}

	if path := strings.TrimSpace(explicit); path != "" {
		result.Command = path
		resolved, err := locate(path)
		if err != nil {
			result.Detail = "configured chrome " + err.Error()
			return result
		}
		result.Path = resolved
		result.Available = true
		return result
	}

	for _, name := range chromeCandidates {
		if resolved, err := exec.LookPath(name); err == nil {
			result.Command = resolved
			result.Path = resolved
			result.Available = true
			return result
		}
	}
	result.Command = chromeCandidates[0]
	result.Detail = "no chrome or chromium binary found on PATH"
	return result
}

// Check evaluates every binary the configuration needs.
func Check(cfg *config.Config) []Status {
	results := CheckBinaries(Requirements(cfg))
	if cfg != nil && strings.EqualFold(strings.TrimSpace(cfg.Browser.Backend), "chromedp") {
		results = append(results, CheckChrome(cfg.Browser.ChromePath))
	}
	return results
}

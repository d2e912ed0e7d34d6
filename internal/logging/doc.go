// Package logging assembles structured slog loggers and formatting helpers used
// across ssdwatch.
//
// It owns the console and JSON handlers, routes diagnostics to stderr and a
// dated log file (stdout carries only the digest), and exposes context-aware
// helpers so crawl and notification code can tag log lines with run ids and
// product identifiers. A no-op logger is provided for tests.
package logging

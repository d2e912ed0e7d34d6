package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"ssdwatch/internal/preflight"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
)

const statusLabelWidth = 18

// statusReport collects the lines printed by the check command.
type statusReport struct {
	colorize bool
	lines    []string
}

func newStatusReport(out io.Writer) *statusReport {
	return &statusReport{colorize: shouldColorize(out)}
}

func (r *statusReport) section(title string) {
	if len(r.lines) > 0 {
		r.lines = append(r.lines, "")
	}
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	r.lines = append(r.lines, r.paint(ansiBlue, line), r.paint(ansiBlue, rule))
}

func (r *statusReport) info(label, value string) {
	r.lines = append(r.lines, r.paint(ansiBlue, statusLine(label, "INFO", value)))
}

func (r *statusReport) result(res preflight.Result) {
	if res.Passed {
		r.lines = append(r.lines, r.paint(ansiGreen, statusLine(res.Name, "OK", res.Detail)))
		return
	}
	r.lines = append(r.lines, r.paint(ansiRed, statusLine(res.Name, "ERROR", res.Detail)))
}

func (r *statusReport) String() string {
	return strings.Join(r.lines, "\n")
}

func (r *statusReport) paint(color, line string) string {
	if !r.colorize {
		return line
	}
	return color + line + ansiReset
}

func statusLine(label, state, detail string) string {
	status := "[" + state + "]"
	if detail != "" {
		status += " " + detail
	}
	return fmt.Sprintf("  %-*s %s", statusLabelWidth, label+":", status)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

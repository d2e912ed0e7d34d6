// Package main hosts the ssdwatch CLI entrypoint and command graph.
//
// The Cobra command tree runs the price check once or on a schedule, inspects
// saved product pages offline, prints price history from the local store, and
// scaffolds configuration. Configuration and logger setup live in the command
// context so subcommands stay thin; the pipeline itself lives in
// internal/watchrun.
package main

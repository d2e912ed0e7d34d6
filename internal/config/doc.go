// Package config loads, normalizes, and validates ssdwatch configuration.
//
// Configuration lives in a TOML file (by default ~/.config/ssdwatch/config.toml)
// and is layered over repository defaults. Secrets such as the messaging target
// or ntfy topic may come from the environment, optionally seeded from .env
// files.
package config

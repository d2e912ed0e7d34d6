// Package openclaw mediates access to the openclaw CLI, which owns the local
// browser session and the outbound messaging channels.
//
// The Client satisfies both browser.Browser and notifications.Messenger. All
// subprocess calls go through an Executor so tests can script CLI output
// without a real binary on PATH.
package openclaw

// Package notifications formats the daily price digest and delivers it.
//
// A Notifier builds a Digest from the matched records and stored history,
// always echoes the message to stdout, and hands it to a Messenger: the
// openclaw CLI, an ntfy topic, or a no-op for stdout-only runs. History is
// only updated after delivery succeeds.
package notifications

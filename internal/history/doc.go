// Package history persists observed prices in SQLite.
//
// Each run is recorded with its matched products so later runs can answer
// "cheaper than yesterday?" and report whether an item changed since it was
// last notified. The store is only written after a successful delivery.
package history

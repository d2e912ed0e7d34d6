// Package watchrun wires configuration, logging and the crawl pipeline into
// the two process modes of ssdwatch: a single guarded run and a cron-driven
// watch loop that repeats it.
//
// A run takes the host lock, loads the source list, fetches every identifier
// through the configured browser, filters the records and hands the matches
// to the notifier. Lock contention ends the run quietly.
package watchrun

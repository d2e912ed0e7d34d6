// Package browser defines the browsing capability the crawl pipeline drives and
// provides the backends that satisfy it.
//
// The pipeline depends only on Open, Evaluate, and Close. Two backends exist:
// the openclaw CLI (an external process owning a persistent browser profile)
// and Chrome driven in-process through chromedp. Backends may also implement
// Starter and Stopper for session lifecycle.
package browser

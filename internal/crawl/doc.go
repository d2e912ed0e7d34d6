// Package crawl drives the per-item fetch sequence against a browser backend
// and collects the resulting product records in source order.
package crawl

// Package services defines shared utilities consumed by the crawl pipeline and
// its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, product identifiers, and component
//     names for logging.
//   - Structured error markers plus the Wrap helper that let the CLI classify
//     failures (configuration, fetch, delivery) without string matching.
//
// Use these helpers when wiring new integrations so error handling and
// observability stay uniform across the pipeline.
package services

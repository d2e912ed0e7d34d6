package crawl

import (
	"context"
	"sync"

	"ssdwatch/internal/product"
)

// Aggregator accumulates records in the order they were added.
type Aggregator struct {
	mu      sync.Mutex
	records []product.Record
}

// Add appends record.
func (a *Aggregator) Add(record product.Record) {
	a.mu.Lock()
	a.records = append(a.records, record)
	a.mu.Unlock()
}

// Len reports the number of collected records.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Records returns a copy of the collected records.
func (a *Aggregator) Records() []product.Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]product.Record, len(a.records))
	copy(out, a.records)
	return out
}

// ItemFetcher is the per-identifier fetch step.
type ItemFetcher interface {
	Fetch(ctx context.Context, id string) (product.Record, error)
}

// Run fetches ids sequentially. The first fetch error aborts the run; on
// success exactly one record per identifier is returned, in order.
func Run(ctx context.Context, ids []string, fetcher ItemFetcher) ([]product.Record, error) {
	var agg Aggregator
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return agg.Records(), err
		}
		record, err := fetcher.Fetch(ctx, id)
		if err != nil {
			return agg.Records(), err
		}
		agg.Add(record)
	}
	return agg.Records(), nil
}

package crawl_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"ssdwatch/internal/crawl"
	"ssdwatch/internal/pacing"
	"ssdwatch/internal/services"
)

type fakeBrowser struct {
	pages     map[string]string
	openErr   error
	evalErr   error
	closeErr  error
	opened    []string
	closed    []string
	events    *[]string
	lastAddrs []string
}

func (b *fakeBrowser) record(event string) {
	if b.events != nil {
		*b.events = append(*b.events, event)
	}
}

func (b *fakeBrowser) Open(_ context.Context, url string, timeout time.Duration) (string, error) {
	b.record("open")
	if b.openErr != nil {
		return "", b.openErr
	}
	if timeout <= 0 {
		return "", errors.New("missing timeout")
	}
	handle := fmt.Sprintf("h%d", len(b.opened)+1)
	b.opened = append(b.opened, handle)
	b.lastAddrs = append(b.lastAddrs, url)
	return handle, nil
}

func (b *fakeBrowser) Evaluate(_ context.Context, handle, fn string, _ time.Duration) (json.RawMessage, error) {
	b.record("evaluate")
	if b.evalErr != nil {
		return nil, b.evalErr
	}
	if !strings.Contains(fn, "#productTitle") {
		return nil, errors.New("unexpected script")
	}
	idx := len(b.opened) - 1
	payload, ok := b.pages[b.lastAddrs[idx]]
	if !ok {
		return json.RawMessage(`null`), nil
	}
	return json.RawMessage(payload), nil
}

func (b *fakeBrowser) Close(_ context.Context, handle string) error {
	b.record("close")
	b.closed = append(b.closed, handle)
	return b.closeErr
}

func countingPacer(events *[]string) *pacing.Pacer {
	return pacing.New(time.Millisecond, time.Millisecond, pacing.WithSleeper(func(context.Context, time.Duration) error {
		*events = append(*events, "pace")
		return nil
	}))
}

func TestFetchSequenceAndFields(t *testing.T) {
	var events []string
	b := &fakeBrowser{
		events: &events,
		pages: map[string]string{
			"https://www.amazon.co.uk/dp/B0TEST": `{"title":"  WD Black 4TB NVMe SSD ","price":"£219.99","url":"https://www.amazon.co.uk/dp/B0TEST?th=1"}`,
		},
	}
	f := crawl.NewFetcher(b, countingPacer(&events), crawl.Options{})

	record, err := f.Fetch(context.Background(), "B0TEST")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if record.Identifier != "B0TEST" || record.Title != "WD Black 4TB NVMe SSD" || record.Price != "£219.99" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.URL != "https://www.amazon.co.uk/dp/B0TEST?th=1" {
		t.Fatalf("expected page url, got %q", record.URL)
	}
	want := []string{"open", "pace", "evaluate", "close", "pace"}
	if strings.Join(events, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected sequence: %v", events)
	}
}

func TestFetchFallsBackToDerivedURLAndEmptyFields(t *testing.T) {
	var events []string
	b := &fakeBrowser{pages: map[string]string{}}
	f := crawl.NewFetcher(b, countingPacer(&events), crawl.Options{URLTemplate: "https://example.test/p/{id}"})

	record, err := f.Fetch(context.Background(), "X1")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if record.URL != "https://example.test/p/X1" {
		t.Fatalf("expected derived url, got %q", record.URL)
	}
	if record.HasTitle() || record.HasPrice() {
		t.Fatalf("expected empty title and price, got %+v", record)
	}
}

func TestFetchClosesTabWhenEvaluateFails(t *testing.T) {
	var events []string
	b := &fakeBrowser{evalErr: errors.New("page crashed")}
	f := crawl.NewFetcher(b, countingPacer(&events), crawl.Options{})

	_, err := f.Fetch(context.Background(), "B0FAIL")
	if !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
	if len(b.closed) != 1 || b.closed[0] != "h1" {
		t.Fatalf("expected tab h1 closed, got %v", b.closed)
	}
}

func TestFetchOpenFailureIsFetchError(t *testing.T) {
	var events []string
	b := &fakeBrowser{openErr: fmt.Errorf("%w: open timed out", services.ErrTimeout)}
	f := crawl.NewFetcher(b, countingPacer(&events), crawl.Options{})

	_, err := f.Fetch(context.Background(), "B0SLOW")
	if !errors.Is(err, services.ErrFetch) || !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected fetch and timeout markers, got %v", err)
	}
	if len(b.closed) != 0 {
		t.Fatalf("expected no close without a handle, got %v", b.closed)
	}
	if len(events) != 0 {
		t.Fatalf("expected no pacing after failed open, got %v", events)
	}
}

func TestFetchIgnoresCloseFailure(t *testing.T) {
	var events []string
	b := &fakeBrowser{
		closeErr: errors.New("tab already gone"),
		pages:    map[string]string{"https://www.amazon.co.uk/dp/B0OK": `{"title":"Samsung 990 PRO 4TB NVMe","price":null}`},
	}
	f := crawl.NewFetcher(b, countingPacer(&events), crawl.Options{})

	record, err := f.Fetch(context.Background(), "B0OK")
	if err != nil {
		t.Fatalf("expected close failure to be ignored, got %v", err)
	}
	if record.Title != "Samsung 990 PRO 4TB NVMe" || record.Price != "" {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestRunReturnsOneRecordPerIdentifier(t *testing.T) {
	var events []string
	b := &fakeBrowser{pages: map[string]string{
		"https://www.amazon.co.uk/dp/A": `{"title":"a","price":"£1.00"}`,
		"https://www.amazon.co.uk/dp/B": `{"title":"b","price":"£2.00"}`,
		"https://www.amazon.co.uk/dp/C": `{"title":"c"}`,
	}}
	f := crawl.NewFetcher(b, countingPacer(&events), crawl.Options{})

	records, err := crawl.Run(context.Background(), []string{"A", "B", "C"}, f)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, id := range []string{"A", "B", "C"} {
		if records[i].Identifier != id {
			t.Fatalf("record %d: expected %s, got %s", i, id, records[i].Identifier)
		}
	}
	if len(events) != 6 {
		t.Fatalf("expected two pacing delays per item, got %d", len(events))
	}
}

func TestRunAbortsOnFirstError(t *testing.T) {
	var events []string
	b := &fakeBrowser{evalErr: errors.New("boom")}
	f := crawl.NewFetcher(b, countingPacer(&events), crawl.Options{})

	records, err := crawl.Run(context.Background(), []string{"A", "B"}, f)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
	if len(b.opened) != 1 {
		t.Fatalf("expected run to stop after first item, opened %d", len(b.opened))
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	var events []string
	f := crawl.NewFetcher(&fakeBrowser{}, countingPacer(&events), crawl.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := crawl.Run(ctx, []string{"A"}, f); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAggregatorRecordsIsCopy(t *testing.T) {
	var agg crawl.Aggregator
	agg.Add(productRecord("A"))
	agg.Add(productRecord("A"))
	got := agg.Records()
	got[0].Identifier = "mutated"
	if agg.Records()[0].Identifier != "A" || agg.Len() != 2 {
		t.Fatalf("aggregator state leaked or deduplicated: %+v", agg.Records())
	}
}

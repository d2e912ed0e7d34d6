package notifications_test

import (
	"strings"
	"testing"
	"time"

	"ssdwatch/internal/history"
	"ssdwatch/internal/notifications"
	"ssdwatch/internal/product"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

func sampleMatches() []product.Record {
	return []product.Record{
		{Identifier: "B0A", Title: "Samsung 990 PRO 4TB PCIe 4.0 NVMe M.2", Price: "£289.99", URL: "https://www.amazon.co.uk/dp/B0A"},
		{Identifier: "B0B", Title: "Crucial P3 Plus 4TB NVMe", URL: "https://www.amazon.co.uk/dp/B0B"},
		{Identifier: "B0C", Title: "WD Black SN850X 4TB NVMe", Price: "£219.50", URL: "https://www.amazon.co.uk/dp/B0C"},
		{Identifier: "B0D", Title: "Lexar NM790 4TB M.2", Price: "£1,219.00", URL: "https://www.amazon.co.uk/dp/B0D"},
	}
}

func TestBuildDigestOrdersByPriceUnpricedLast(t *testing.T) {
	d := notifications.BuildDigest(sampleMatches(), notifications.DigestInput{Now: fixedNow, Title: "Today's best 4TB NVMe", TopN: 5})
	var got []string
	for _, e := range d.Entries {
		got = append(got, e.Record.Identifier)
	}
	if strings.Join(got, ",") != "B0C,B0A,B0D,B0B" {
		t.Fatalf("unexpected order: %v", got)
	}
	best, ok := d.Best()
	if !ok || best.Record.Identifier != "B0C" || best.Price != 219.50 {
		t.Fatalf("unexpected best: %+v ok=%v", best, ok)
	}
}

func TestDigestComparison(t *testing.T) {
	tests := []struct {
		name      string
		yesterday float64
		has       bool
		want      string
	}{
		{"no data", 0, false, "Cheaper than yesterday? NO (no prior data)"},
		{"cheaper", 229.50, true, "Cheaper than yesterday? YES (-£10.00)"},
		{"dearer", 200.00, true, "Cheaper than yesterday? NO (+£19.50)"},
		{"same", 219.50, true, "Cheaper than yesterday? NO (£0.00)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := notifications.BuildDigest(sampleMatches(), notifications.DigestInput{Yesterday: tt.yesterday, HasYesterday: tt.has})
			if got := d.Comparison(); got != tt.want {
				t.Fatalf("Comparison() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDigestMessage(t *testing.T) {
	d := notifications.BuildDigest(sampleMatches(), notifications.DigestInput{
		Now:             fixedNow,
		Title:           "Today's best 4TB NVMe",
		TopN:            2,
		TrackerTemplate: "https://uk.camelcamelcamel.com/product/{id}",
		LastNotified: map[string]history.Notified{
			"B0A": {Identifier: "B0A", Price: 299.99, HasPrice: true, PriceText: "£299.99"},
			"B0C": {Identifier: "B0C", Price: 219.50, HasPrice: true, PriceText: "£219.50"},
		},
	})
	msg := d.Message()

	wantLines := []string{
		"Today's best 4TB NVMe (2026-03-10)",
		"Best: WD Black SN850X 4TB NVMe — £219.50",
		"https://www.amazon.co.uk/dp/B0C",
		"Price history: https://uk.camelcamelcamel.com/product/B0C",
		"Cheaper than yesterday? NO (no prior data)",
		"Top deals:",
		"1. £219.50 — WD Black SN850X 4TB NVMe",
		"2. £289.99 — Samsung 990 PRO 4TB PCIe 4.0 NVMe M.2 [down from £299.99]",
	}
	for _, line := range wantLines {
		if !strings.Contains(msg, line) {
			t.Fatalf("message missing %q:\n%s", line, msg)
		}
	}
	if strings.Contains(msg, "Lexar") {
		t.Fatalf("expected top deals limited to 2:\n%s", msg)
	}
	if strings.Contains(msg, "1. £219.50 — WD Black SN850X 4TB NVMe [") {
		t.Fatalf("unchanged entry should carry no marker:\n%s", msg)
	}
}

func TestDigestMessageWithoutPricedItems(t *testing.T) {
	empty := notifications.BuildDigest(nil, notifications.DigestInput{Title: "Daily"})
	if msg := empty.Message(); !strings.Contains(msg, "ERROR: No priced 4TB NVMe items found.") {
		t.Fatalf("unexpected empty message: %q", msg)
	}

	unpriced := notifications.BuildDigest([]product.Record{{Identifier: "B0B", Title: "Crucial P3 Plus 4TB NVMe", URL: "u"}}, notifications.DigestInput{Title: "Daily"})
	msg := unpriced.Message()
	if !strings.Contains(msg, "No priced 4TB NVMe items found.") || !strings.Contains(msg, "1. Crucial P3 Plus 4TB NVMe") {
		t.Fatalf("unexpected unpriced message: %q", msg)
	}
}

func TestDigestChangeClassification(t *testing.T) {
	last := map[string]history.Notified{
		"same":  {Price: 100, HasPrice: true},
		"down":  {Price: 120, HasPrice: true},
		"up":    {Price: 80, HasPrice: true},
		"blank": {},
	}
	records := []product.Record{
		{Identifier: "same", Price: "£100.00"},
		{Identifier: "down", Price: "£100.00"},
		{Identifier: "up", Price: "£100.00"},
		{Identifier: "blank"},
		{Identifier: "fresh", Price: "£100.00"},
	}
	d := notifications.BuildDigest(records, notifications.DigestInput{LastNotified: last})
	want := map[string]notifications.Change{
		"same":  notifications.ChangeUnchanged,
		"down":  notifications.ChangeDown,
		"up":    notifications.ChangeUp,
		"blank": notifications.ChangeUnchanged,
		"fresh": notifications.ChangeNew,
	}
	for _, e := range d.Entries {
		if e.Change != want[e.Record.Identifier] {
			t.Fatalf("%s: got %s, want %s", e.Record.Identifier, e.Change, want[e.Record.Identifier])
		}
	}
	if !d.Changed() {
		t.Fatal("expected digest to report changes")
	}

	unchanged := notifications.BuildDigest(records[:1], notifications.DigestInput{LastNotified: last})
	if unchanged.Changed() {
		t.Fatal("expected no change")
	}
}

func TestErrorMessage(t *testing.T) {
	msg := notifications.ErrorMessage("Daily", fixedNow, nil)
	if msg != "ERROR: Daily (2026-03-10) check failed: unknown error" {
		t.Fatalf("unexpected message %q", msg)
	}
}

package notifications

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"ssdwatch/internal/history"
	"ssdwatch/internal/product"
)

const (
	titleLimit  = 80
	errorPrefix = "ERROR:"
)

// Change describes how an item's price moved since it was last notified.
type Change string

const (
	ChangeNew       Change = "new"
	ChangeDown      Change = "down"
	ChangeUp        Change = "up"
	ChangeUnchanged Change = "unchanged"
)

// Entry is one matched record with its parsed price and change status.
type Entry struct {
	Record      product.Record
	Price       float64
	HasPrice    bool
	Change      Change
	Previous    float64
	HasPrevious bool
	TrackerURL  string
}

// Digest is the formatted summary of one run.
type Digest struct {
	Date         time.Time
	Title        string
	Entries      []Entry
	TopN         int
	Yesterday    float64
	HasYesterday bool
}

// DigestInput carries everything BuildDigest needs beyond the matches.
type DigestInput struct {
	Now             time.Time
	Title           string
	TopN            int
	TrackerTemplate string
	// Yesterday is the lowest price of the most recent earlier day on record.
	Yesterday    float64
	HasYesterday bool
	LastNotified map[string]history.Notified
}

// BuildDigest ranks matches by price, unpriced last, keeping input order for
// ties.
func BuildDigest(matches []product.Record, in DigestInput) Digest {
	entries := make([]Entry, 0, len(matches))
	for _, rec := range matches {
		price, ok := rec.PriceValue()
		entry := Entry{Record: rec, Price: price, HasPrice: ok, TrackerURL: trackerURL(in.TrackerTemplate, rec.Identifier)}
		entry.Change, entry.Previous, entry.HasPrevious = classifyChange(entry, in.LastNotified)
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.HasPrice != b.HasPrice {
			return a.HasPrice
		}
		return a.HasPrice && a.Price < b.Price
	})
	return Digest{
		Date:         in.Now,
		Title:        in.Title,
		Entries:      entries,
		TopN:         in.TopN,
		Yesterday:    in.Yesterday,
		HasYesterday: in.HasYesterday,
	}
}

func classifyChange(entry Entry, last map[string]history.Notified) (Change, float64, bool) {
	prev, ok := last[entry.Record.Identifier]
	if !ok {
		return ChangeNew, 0, false
	}
	switch {
	case entry.HasPrice && prev.HasPrice:
		switch {
		case nearlyEqual(entry.Price, prev.Price):
			return ChangeUnchanged, prev.Price, true
		case entry.Price < prev.Price:
			return ChangeDown, prev.Price, true
		default:
			return ChangeUp, prev.Price, true
		}
	case !entry.HasPrice && !prev.HasPrice:
		return ChangeUnchanged, 0, false
	case entry.HasPrice:
		return ChangeDown, 0, false
	default:
		return ChangeUp, prev.Price, prev.HasPrice
	}
}

// Best returns the cheapest priced entry.
func (d Digest) Best() (Entry, bool) {
	if len(d.Entries) == 0 || !d.Entries[0].HasPrice {
		return Entry{}, false
	}
	return d.Entries[0], true
}

// Changed reports whether any entry differs from what was last notified.
func (d Digest) Changed() bool {
	for _, e := range d.Entries {
		if e.Change != ChangeUnchanged {
			return true
		}
	}
	return false
}

// Records returns the entries' records in ranked order.
func (d Digest) Records() []product.Record {
	out := make([]product.Record, 0, len(d.Entries))
	for _, e := range d.Entries {
		out = append(out, e.Record)
	}
	return out
}

// Comparison renders the "cheaper than yesterday?" verdict.
func (d Digest) Comparison() string {
	best, ok := d.Best()
	if !ok || !d.HasYesterday {
		return "Cheaper than yesterday? NO (no prior data)"
	}
	delta := round2(best.Price - d.Yesterday)
	switch {
	case delta < 0:
		return "Cheaper than yesterday? YES (-" + product.FormatGBP(-delta) + ")"
	case delta > 0:
		return "Cheaper than yesterday? NO (+" + product.FormatGBP(delta) + ")"
	default:
		return "Cheaper than yesterday? NO (" + product.FormatGBP(0) + ")"
	}
}

// Message renders the digest as plain text.
func (d Digest) Message() string {
	var b strings.Builder
	header := strings.TrimSpace(d.Title)
	if !d.Date.IsZero() {
		header = fmt.Sprintf("%s (%s)", header, d.Date.Local().Format(history.DayLayout))
	}
	b.WriteString(header)
	b.WriteByte('\n')

	best, ok := d.Best()
	if !ok {
		b.WriteString(errorPrefix + " No priced 4TB NVMe items found.")
		if len(d.Entries) > 0 {
			b.WriteString("\n\nUnpriced matches:")
			for i, e := range d.Entries {
				fmt.Fprintf(&b, "\n%d. %s\n   %s", i+1, e.Record.DisplayTitle(titleLimit), e.Record.URL)
			}
		}
		return b.String()
	}

	fmt.Fprintf(&b, "Best: %s — %s\n", best.Record.DisplayTitle(titleLimit), product.FormatGBP(best.Price))
	b.WriteString(best.Record.URL)
	b.WriteByte('\n')
	if best.TrackerURL != "" {
		b.WriteString("Price history: ")
		b.WriteString(best.TrackerURL)
		b.WriteByte('\n')
	}
	b.WriteString(d.Comparison())
	b.WriteString("\n\nTop deals:")

	limit := d.TopN
	if limit <= 0 || limit > len(d.Entries) {
		limit = len(d.Entries)
	}
	for i, e := range d.Entries[:limit] {
		fmt.Fprintf(&b, "\n%d. %s — %s%s", i+1,
			product.FormatOptionalGBP(e.Price, e.HasPrice),
			e.Record.DisplayTitle(titleLimit),
			changeSuffix(e),
		)
		b.WriteString("\n   ")
		b.WriteString(e.Record.URL)
		if e.TrackerURL != "" {
			b.WriteString("\n   ")
			b.WriteString(e.TrackerURL)
		}
	}
	return b.String()
}

func changeSuffix(e Entry) string {
	switch e.Change {
	case ChangeNew:
		return " [new]"
	case ChangeDown:
		if e.HasPrevious {
			return " [down from " + product.FormatGBP(e.Previous) + "]"
		}
		return " [now priced]"
	case ChangeUp:
		if e.HasPrevious {
			return " [up from " + product.FormatGBP(e.Previous) + "]"
		}
		return " [price gone]"
	default:
		return ""
	}
}

// ErrorMessage renders the failure alert for a run that did not complete.
func ErrorMessage(title string, now time.Time, err error) string {
	detail := "unknown error"
	if err != nil {
		detail = strings.TrimSpace(err.Error())
	}
	header := strings.TrimSpace(title)
	if !now.IsZero() {
		header = fmt.Sprintf("%s (%s)", header, now.Local().Format(history.DayLayout))
	}
	return errorPrefix + " " + header + " check failed: " + detail
}

func trackerURL(template, id string) string {
	if strings.TrimSpace(template) == "" {
		return ""
	}
	return strings.ReplaceAll(template, "{id}", id)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

// Package product holds the record shape shared by the crawl, match, and
// notification stages, plus the GBP price helpers used to rank records.
package product

import "strings"

// Record is the extraction result for a single identifier. Title and Price are
// empty when the page did not expose them; URL is always populated.
type Record struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title,omitempty"`
	Price      string `json:"price,omitempty"`
	URL        string `json:"url"`
}

// HasTitle reports whether the record carries a non-blank title.
func (r Record) HasTitle() bool {
	return strings.TrimSpace(r.Title) != ""
}

// HasPrice reports whether the record carries a non-blank price string.
func (r Record) HasPrice() bool {
	return strings.TrimSpace(r.Price) != ""
}

// PriceValue parses the raw price string. ok is false when no amount is present.
func (r Record) PriceValue() (float64, bool) {
	return ParsePrice(r.Price)
}

// DisplayTitle returns the trimmed title truncated to limit runes, falling back
// to the identifier when the title is absent.
func (r Record) DisplayTitle(limit int) string {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return r.Identifier
	}
	runes := []rune(title)
	if limit > 0 && len(runes) > limit {
		return strings.TrimSpace(string(runes[:limit]))
	}
	return title
}

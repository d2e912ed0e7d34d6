// Package matcher classifies extracted product records by title.
//
// A record qualifies when its trimmed title is non-empty and every rule in the
// ordered list accepts it. Rules never look at price or any external state, so
// Filter is a pure function of the titles it is given.
package matcher

import (
	"strings"

	"ssdwatch/internal/product"
)

// ReasonEmptyTitle is reported by Classify for records without a title.
const ReasonEmptyTitle = "empty_title"

// Classify returns the name of the first failing check, or "" when the title
// qualifies. Checks run in order: empty title, then each rule.
func Classify(title string, rules ...Rule) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ReasonEmptyTitle
	}
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	for _, rule := range rules {
		if !rule.Match(title) {
			return rule.Name()
		}
	}
	return ""
}

// Matches reports whether title qualifies under rules (DefaultRules when none
// are given).
func Matches(title string, rules ...Rule) bool {
	return Classify(title, rules...) == ""
}

// Filter returns the qualifying records in input order.
func Filter(records []product.Record, rules ...Rule) []product.Record {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	out := make([]product.Record, 0, len(records))
	for _, rec := range records {
		if Classify(rec.Title, rules...) == "" {
			out = append(out, rec)
		}
	}
	return out
}

package product

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var priceRE = regexp.MustCompile(`([0-9]+(?:\.[0-9]{2})?)`)

var gbpPrinter = message.NewPrinter(language.BritishEnglish)

// ParsePrice extracts the first amount from a display price such as "£1,299.99".
// Thousands separators are dropped before matching.
func ParsePrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, ",", "")
	match := priceRE.FindString(raw)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// FormatGBP renders an amount as pounds with two decimals and locale grouping.
func FormatGBP(value float64) string {
	return gbpPrinter.Sprintf("£%.2f", value)
}

// FormatOptionalGBP renders ok=false as an em dash placeholder.
func FormatOptionalGBP(value float64, ok bool) string {
	if !ok {
		return "—"
	}
	return FormatGBP(value)
}

package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FromHTML applies the selector chain to a saved page. pageURL is reported as
// the result URL because static HTML carries no location.
func FromHTML(r io.Reader, pageURL string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("parse html: %w", err)
	}
	return FromDocument(doc, pageURL), nil
}

// FromDocument is FromHTML for an already parsed document.
func FromDocument(doc *goquery.Document, pageURL string) Result {
	return Result{
		Title: firstText(doc, TitleSelector),
		Price: firstText(doc, PriceSelectors...),
		URL:   strings.TrimSpace(pageURL),
	}
}

// MatchedSelector returns the price selector that produced a value, or "".
func MatchedSelector(doc *goquery.Document) string {
	for _, sel := range PriceSelectors {
		if firstNonEmpty(doc.Find(sel)) != "" {
			return sel
		}
	}
	return ""
}

func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if value := firstNonEmpty(doc.Find(sel)); value != "" {
			return value
		}
	}
	return ""
}

// firstNonEmpty returns the trimmed text of the first matched element that
// has any. Blank matches are skipped so a later sibling can still supply it.
func firstNonEmpty(sel *goquery.Selection) string {
	var value string
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		value = strings.TrimSpace(s.Text())
		return value == ""
	})
	return value
}

package extract_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"ssdwatch/internal/extract"
)

const pageTemplate = `<html><body>
<span id="productTitle">
   Acme 4TB NVMe M.2 SSD
</span>
%s
</body></html>`

func page(priceMarkup string) string {
	return strings.Replace(pageTemplate, "%s", priceMarkup, 1)
}

func TestFromHTMLPrefersPrimarySelector(t *testing.T) {
	html := page(`
<div id="corePriceDisplay_desktop_feature_div">
  <span class="a-price"><span class="a-offscreen">£219.99</span></span>
  <span class="a-offscreen">£239.99</span>
</div>
<span class="a-price"><span class="a-offscreen">£9.99</span></span>`)

	res, err := extract.FromHTML(strings.NewReader(html), "https://example.test/dp/A")
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}
	if res.Title != "Acme 4TB NVMe M.2 SSD" {
		t.Fatalf("unexpected title %q", res.Title)
	}
	if res.Price != "£219.99" {
		t.Fatalf("expected primary price, got %q", res.Price)
	}
	if res.URL != "https://example.test/dp/A" {
		t.Fatalf("unexpected url %q", res.URL)
	}
}

func TestFromHTMLFallsBackToSecondarySelector(t *testing.T) {
	html := page(`
<div id="corePriceDisplay_desktop_feature_div">
  <span class="a-price"><span class="a-offscreen">  </span></span>
  <span class="a-offscreen">£239.99</span>
</div>
<span class="a-price"><span class="a-offscreen">£9.99</span></span>`)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res := extract.FromDocument(doc, "u")
	if res.Price != "£239.99" {
		t.Fatalf("expected secondary price, got %q", res.Price)
	}
	if got := extract.MatchedSelector(doc); got != extract.PriceSelectors[1] {
		t.Fatalf("expected secondary selector, got %q", got)
	}
}

func TestFromHTMLSkipsBlankMatchesWithinSelector(t *testing.T) {
	html := page(`
<div id="corePriceDisplay_desktop_feature_div">
  <span class="a-price"><span class="a-offscreen"></span></span>
  <span class="a-price"><span class="a-offscreen">£229.00</span></span>
</div>`)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res := extract.FromDocument(doc, "u"); res.Price != "£229.00" {
		t.Fatalf("expected later primary match, got %q", res.Price)
	}
	if got := extract.MatchedSelector(doc); got != extract.PriceSelectors[0] {
		t.Fatalf("expected primary selector, got %q", got)
	}
}

func TestFromHTMLFallsBackToPageWidePrice(t *testing.T) {
	html := page(`<span class="a-price"><span class="a-offscreen">£199.00</span></span>`)
	res, err := extract.FromHTML(strings.NewReader(html), "u")
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}
	if res.Price != "£199.00" {
		t.Fatalf("expected page-wide price, got %q", res.Price)
	}
}

func TestFromHTMLWithoutPriceKeepsRecord(t *testing.T) {
	res, err := extract.FromHTML(strings.NewReader(page("")), "u")
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}
	if res.Price != "" {
		t.Fatalf("expected empty price, got %q", res.Price)
	}
	if res.Title == "" {
		t.Fatal("expected title to survive missing price")
	}
}

func TestScriptPreservesSelectorOrder(t *testing.T) {
	script := extract.Script()
	last := -1
	for _, sel := range extract.PriceSelectors {
		idx := strings.Index(script, `"`+sel+`"`)
		if idx < 0 {
			t.Fatalf("selector %q missing from script", sel)
		}
		if idx <= last {
			t.Fatalf("selector %q out of order", sel)
		}
		last = idx
	}
	if !strings.HasPrefix(script, "() => {") {
		t.Fatalf("expected arrow function, got %q", script[:20])
	}
	if !strings.Contains(script, `"#productTitle"`) || !strings.Contains(script, "location.href") {
		t.Fatal("expected title selector and location in script")
	}
}

func TestScriptChecksEveryMatchOfASelector(t *testing.T) {
	script := extract.Script()
	if !strings.Contains(script, "document.querySelectorAll(sel)") {
		t.Fatalf("expected all-matches lookup, got:\n%s", script)
	}
	if strings.Contains(script, "document.querySelector(sel)") {
		t.Fatal("single-match lookup stops at a blank first element")
	}
	if !strings.Contains(script, "if (value) return value;") {
		t.Fatal("expected blank matches to be skipped")
	}
}

func TestDecode(t *testing.T) {
	res, err := extract.Decode([]byte(`{"title":"  Acme 4TB NVMe ","price":null,"url":"https://x/dp/A"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Title != "Acme 4TB NVMe" || res.Price != "" || res.URL != "https://x/dp/A" {
		t.Fatalf("unexpected result %+v", res)
	}

	empty, err := extract.Decode([]byte("null"))
	if err != nil || empty != (extract.Result{}) {
		t.Fatalf("expected empty result, got %+v %v", empty, err)
	}

	if _, err := extract.Decode([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the decoded output of the page-side extraction function.
type Result struct {
	Title string `json:"title"`
	Price string `json:"price"`
	URL   string `json:"url"`
}

// wire mirrors Result with nullable fields as the page returns them.
type wire struct {
	Title *string `json:"title"`
	Price *string `json:"price"`
	URL   *string `json:"url"`
}

// Script returns the page-side function evaluated against an open page.
func Script() string {
	return BuildScript(TitleSelector, PriceSelectors)
}

// BuildScript renders a zero-argument arrow function returning
// {title, price, url}. Each selector yields the first of its matches with
// non-empty text; missing elements produce null fields.
func BuildScript(titleSelector string, priceSelectors []string) string {
	quoted := make([]string, 0, len(priceSelectors))
	for _, sel := range priceSelectors {
		quoted = append(quoted, jsString(sel))
	}
	var b strings.Builder
	b.WriteString("() => {\n")
	b.WriteString("  const text = (sel) => {\n")
	b.WriteString("    for (const el of document.querySelectorAll(sel)) {\n")
	b.WriteString("      const value = (el.innerText || el.textContent || \"\").trim();\n")
	b.WriteString("      if (value) return value;\n")
	b.WriteString("    }\n")
	b.WriteString("    return null;\n")
	b.WriteString("  };\n")
	fmt.Fprintf(&b, "  const priceSelectors = [%s];\n", strings.Join(quoted, ", "))
	b.WriteString("  let price = null;\n")
	b.WriteString("  for (const sel of priceSelectors) {\n")
	b.WriteString("    price = text(sel);\n")
	b.WriteString("    if (price !== null) break;\n")
	b.WriteString("  }\n")
	fmt.Fprintf(&b, "  return { title: text(%s), price, url: location.href };\n", jsString(titleSelector))
	b.WriteString("}")
	return b.String()
}

// Decode parses the JSON value returned by the extraction function. A JSON
// null or empty payload decodes to an empty Result.
func Decode(raw []byte) (Result, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return Result{}, nil
	}
	var w wire
	if err := json.Unmarshal([]byte(trimmed), &w); err != nil {
		return Result{}, fmt.Errorf("decode extraction result: %w", err)
	}
	return Result{
		Title: deref(w.Title),
		Price: deref(w.Price),
		URL:   deref(w.URL),
	}, nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func jsString(s string) string {
	encoded, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(encoded)
}

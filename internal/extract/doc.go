// Package extract defines how product fields are read out of a rendered page.
//
// The selector chain is declared once and rendered two ways: as the page-side
// JavaScript function handed to the browsing capability, and as a goquery walk
// over saved HTML for offline inspection. Both implementations follow the same
// rule: a selector yields a value when it matches an element whose trimmed text
// is non-empty, and the first selector that yields a value wins.
package extract

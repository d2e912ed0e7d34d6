package extract

// TitleSelector locates the product title element.
const TitleSelector = "#productTitle"

// PriceSelectors are tried in order. Later entries are strictly less specific:
// the desktop feature container's primary price, the same container's generic
// offscreen price, then any offscreen price on the page.
var PriceSelectors = []string{
	"#corePriceDisplay_desktop_feature_div .a-price .a-offscreen",
	"#corePriceDisplay_desktop_feature_div .a-offscreen",
	".a-price .a-offscreen",
}

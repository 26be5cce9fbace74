package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// UnknownProductName is returned when no heading or title yields a usable name.
const UnknownProductName = "商品名不明"

// Price bounds in whole yen. Candidates outside this range are stray
// numbers (SKU codes, phone numbers), never prices.
const (
	MinPrice = 100
	MaxPrice = 10_000_000
)

var (
	yenAmountRe   = regexp.MustCompile(`[¥￥]?\s*([0-9,]+)\s*円?`)
	yenSuffixedRe = regexp.MustCompile(`[¥￥]?\s*([0-9,]{3,})\s*円`)
	pipeSuffixRe  = regexp.MustCompile(`[|｜].*$`)
)

// attrPattern selects elements by attribute in priority order. Retail
// templates mark prices inconsistently, so matching stays loose: any
// attribute value mentioning "price" or "value" is a candidate.
type attrPattern struct {
	name  string
	match func(key, value string) bool
}

var pricePatterns = []attrPattern{
	{name: "attr_contains_price", match: func(_, value string) bool {
		return strings.Contains(strings.ToLower(value), "price")
	}},
	{name: "attr_contains_value", match: func(_, value string) bool {
		return strings.Contains(strings.ToLower(value), "value")
	}},
	{name: "itemprop_price", match: func(key, value string) bool {
		return key == "itemprop" && value == "price"
	}},
}

// Extractor pulls price and product name out of loosely structured HTML.
type Extractor struct {
	siteSuffixRe *regexp.Regexp
}

// New constructs an extractor. siteName is the retailer name stripped
// from trailing "- <site>" title suffixes; empty disables that rule.
func New(siteName string) *Extractor {
	e := &Extractor{}
	if siteName != "" {
		e.siteSuffixRe = regexp.MustCompile(`(?i)\s*-\s*` + regexp.QuoteMeta(siteName) + `.*$`)
	}
	return e
}

// ExtractPrice locates a plausible yen price in the page. The second
// return value is false when no candidate within bounds exists.
func (e *Extractor) ExtractPrice(html string) (int64, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, false
	}

	for _, pattern := range pricePatterns {
		price, ok := findByPattern(doc, pattern)
		if ok {
			return price, true
		}
	}

	// Structured lookup failed; scan the flattened text for anything
	// that reads like "1,234円". The unit character is mandatory here.
	for _, m := range yenSuffixedRe.FindAllStringSubmatch(doc.Text(), -1) {
		if price, ok := parsePrice(m[1]); ok {
			return price, true
		}
	}

	return 0, false
}

func findByPattern(doc *goquery.Document, pattern attrPattern) (int64, bool) {
	var (
		price int64
		found bool
	)
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		node := s.Get(0)
		matched := false
		for _, attr := range node.Attr {
			if pattern.match(attr.Key, attr.Val) {
				matched = true
				break
			}
		}
		if !matched {
			return true
		}
		m := yenAmountRe.FindStringSubmatch(s.Text())
		if m == nil {
			return true
		}
		if parsed, ok := parsePrice(m[1]); ok {
			price = parsed
			found = true
			return false
		}
		return true
	})
	return price, found
}

func parsePrice(raw string) (int64, bool) {
	price, err := strconv.ParseInt(strings.ReplaceAll(raw, ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	if price < MinPrice || price > MaxPrice {
		return 0, false
	}
	return price, true
}

// ExtractProductName finds a human-readable product name, falling back
// to UnknownProductName. Never returns an empty string.
func (e *Extractor) ExtractProductName(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return UnknownProductName
	}

	candidates := []*goquery.Selection{
		doc.Find("h1").First(),
		productHeading(doc),
		doc.Find("title").First(),
	}

	for _, sel := range candidates {
		if sel == nil || sel.Length() == 0 {
			continue
		}
		name := e.cleanName(sel.Text())
		if len([]rune(name)) > 3 {
			return name
		}
	}

	return UnknownProductName
}

func productHeading(doc *goquery.Document) *goquery.Selection {
	var heading *goquery.Selection
	doc.Find("h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if strings.Contains(strings.ToLower(class), "product") {
			heading = s
			return false
		}
		return true
	})
	return heading
}

func (e *Extractor) cleanName(text string) string {
	text = strings.TrimSpace(text)
	text = pipeSuffixRe.ReplaceAllString(text, "")
	if e.siteSuffixRe != nil {
		text = e.siteSuffixRe.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

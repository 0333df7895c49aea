package goquery

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Markers recognized in the source markup. These are the obfuscated class
// names the directory currently emits; they are matched by substring to
// tolerate trailing modifier classes.
const (
	listingMarker     = "Nv2PK"   // root of one business listing
	resultsAreaMarker = "m6QErb"  // the scrollable results panel
	nameMarker        = "qBF1Pd"  // headline container, with fontHeadlineSmall
	headlineMarker    = "fontHeadlineSmall"
	ratingMarker      = "ZkP5Je" // rating + review count container
	ratingValueMarker = "MW4etd" // numeric rating
	reviewCountMarker = "UY7F9"  // parenthesized review count
	infoMarker        = "W4Efsd" // category / address / hours lines
	phoneMarker       = "UsdlK"  // phone number span
	websiteMarker     = "lcr4fd" // website anchor, with S9kvJb
	websiteAltMarker  = "S9kvJb"
)

// Scanner locates the repeating listing fragments inside a full
// search-results document. It never mutates the document; fragments are
// views into it and callers may re-scan at will.
type Scanner struct{}

// NewScanner creates a new Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Fragments returns the listing fragments in document order.
func (s *Scanner) Fragments(doc *goquery.Document) []*goquery.Selection {
	return findAll(doc.Selection, "div", ClassContains(listingMarker))
}

// Diagnostics inspects a document that yielded zero fragments. When the
// results-area marker is present it returns the sorted set of all distinct
// class names found on any element, for human troubleshooting of marker
// drift. It returns nil when the results area itself is missing, which
// usually means the file is not a saved results page at all.
func (s *Scanner) Diagnostics(doc *goquery.Document) []string {
	if findFirst(doc.Selection, "div", ClassContains(resultsAreaMarker)) == nil {
		return nil
	}

	seen := make(map[string]bool)
	doc.Find("[class]").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		for _, name := range strings.Fields(class) {
			seen[name] = true
		}
	})

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

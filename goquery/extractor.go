// Package goquery implements the listing extraction engine on top of
// github.com/PuerkitoBio/goquery. It locates listing fragments by
// class-marker heuristics and pulls typed fields out of inconsistent,
// partially present markup.
package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tlegrand/mapscan"
	"golang.org/x/sync/errgroup"
)

// Compile-time interface verification.
var _ mapscan.ListingExtractor = (*Extractor)(nil)

// Extractor extracts business records from saved search-results markup.
// Fragments are processed independently; a malformed fragment is recorded
// as a failure and never aborts the batch.
type Extractor struct {
	scanner *Scanner

	// Concurrency bounds parallel fragment extraction. Zero or negative
	// means the default. The report always preserves fragment encounter
	// order regardless of scheduling.
	Concurrency int
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{scanner: NewScanner()}
}

// ExtractAll parses the document, extracts every listing fragment, applies
// defaults and overrides, and returns the aggregated report. A document
// that cannot be parsed yields an empty report with all counts zero.
func (e *Extractor) ExtractAll(html string, ov mapscan.Overrides) *mapscan.Report {
	report := &mapscan.Report{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return report
	}

	fragments := e.scanner.Fragments(doc)
	if len(fragments) == 0 {
		report.Diagnostics = e.scanner.Diagnostics(doc)
		return report
	}
	report.Attempted = len(fragments)

	type result struct {
		business *mapscan.Business
		err      error
	}
	results := make([]result, len(fragments))

	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, frag := range fragments {
		g.Go(func() error {
			b, err := e.extractOne(frag)
			results[i] = result{business: b, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.err != nil {
			report.Failed++
			report.Failures = append(report.Failures, mapscan.ErrorMessage(r.err))
			continue
		}
		r.business.ApplyDefaults(ov)
		report.Records = append(report.Records, r.business)
		report.Succeeded++
	}
	return report
}

// extractOne applies the field extractors to a single listing fragment.
// Absence of an optional sub-element never aborts extraction of the other
// fields; only a missing name rejects the fragment. Panics from malformed
// markup are recovered into a per-fragment failure.
func (e *Extractor) extractOne(frag *goquery.Selection) (b *mapscan.Business, err error) {
	defer func() {
		if r := recover(); r != nil {
			b = nil
			err = mapscan.Errorf(mapscan.EINTERNAL, "listing extraction panic: %v", r)
		}
	}()

	name := extractName(frag)
	if name == "" {
		return nil, mapscan.Errorf(mapscan.EUNPROCESSABLE, "missing business name")
	}

	b = &mapscan.Business{Name: name}
	b.Rating, b.ReviewCount = extractRating(frag)
	if address, ok := extractAddress(frag); ok {
		b.Address = address
		b.City = mapscan.InferCity(address)
	}
	b.Phone = extractPhone(frag)
	b.Website = extractWebsite(frag)
	b.OpenStatus = extractOpenStatus(frag)
	return b, nil
}

func extractName(frag *goquery.Selection) string {
	el := findFirst(frag, "div", ClassContainsAll(nameMarker, headlineMarker))
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// reviewCountRe captures the digits of a parenthesized count, e.g. "(128)".
var reviewCountRe = regexp.MustCompile(`\((\d+)\)`)

// extractRating returns the parsed rating (nil when absent or unparseable)
// and the review count (zero when absent). Both live inside the same
// rating container; the rating value uses a locale-dependent decimal comma.
func extractRating(frag *goquery.Selection) (*float64, int) {
	container := findFirst(frag, "span", ClassContains(ratingMarker))
	if container == nil {
		return nil, 0
	}

	var rating *float64
	if el := findFirst(container, "span", ClassContains(ratingValueMarker)); el != nil {
		text := strings.ReplaceAll(strings.TrimSpace(el.Text()), ",", ".")
		if v, parseErr := strconv.ParseFloat(text, 64); parseErr == nil {
			rating = &v
		}
	}

	count := 0
	if el := findFirst(container, "span", ClassContains(reviewCountMarker)); el != nil {
		if m := reviewCountRe.FindStringSubmatch(el.Text()); m != nil {
			count, _ = strconv.Atoi(m[1])
		}
	}
	return rating, count
}

// addressKeywords identify a line of info text as an address. Matched
// case-insensitively as substrings, so "Bd" and "boulevard" both hit.
var addressKeywords = []string{"rue", "avenue", "boulevard", "place", "bd"}

func containsAddressKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range addressKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// extractAddress scans the info lines for one containing an address
// keyword. Compound lines mix category and address around a middle-dot
// separator; in that case the first segment still carrying a keyword is
// the address.
func extractAddress(frag *goquery.Selection) (string, bool) {
	for _, el := range findAll(frag, "div", ClassContains(infoMarker)) {
		text := strings.TrimSpace(el.Text())
		if text == "" || !containsAddressKeyword(text) {
			continue
		}
		if strings.Contains(text, "·") {
			for _, part := range strings.Split(text, "·") {
				part = strings.TrimSpace(part)
				if containsAddressKeyword(part) {
					return part, true
				}
			}
			continue
		}
		return text, true
	}
	return "", false
}

func extractPhone(frag *goquery.Selection) string {
	el := findFirst(frag, "span", ClassContains(phoneMarker))
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

func extractWebsite(frag *goquery.Selection) string {
	el := findFirst(frag, "a", ClassContainsAll(websiteMarker, websiteAltMarker))
	if el == nil {
		return ""
	}
	href, _ := el.Attr("href")
	return href
}

// statusColorTriplets are the inline-style colors the directory uses for
// open-status text: red for closed, green for open, orange for closing
// soon. The matched element's own text becomes the status string.
var statusColorTriplets = []string{
	"220,54,46", // closed
	"25,134,57", // open
	"178,108,0", // closing soon
}

// extractOpenStatus classifies styled spans by their inline color triplet.
// Later matches overwrite earlier ones; well-formed input has at most one
// status span per fragment.
func extractOpenStatus(frag *goquery.Selection) string {
	status := ""
	for _, el := range findAll(frag, "span", AttrPresent("style")) {
		text := strings.TrimSpace(el.Text())
		if text == "" {
			continue
		}
		for _, triplet := range statusColorTriplets {
			if StyleColorEquals(triplet)(el) {
				status = text
				break
			}
		}
	}
	return status
}

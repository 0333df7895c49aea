package mapscan

// Report holds the outcome of extracting one search-results document.
// It is created fresh per document and not mutated after being returned.
type Report struct {
	// Records are the successfully extracted businesses, in the order
	// their fragments appear in the document.
	Records []*Business `json:"records"`

	// Attempted is the number of listing fragments found.
	Attempted int `json:"attempted"`

	// Succeeded and Failed partition Attempted.
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`

	// Failures holds one human-readable reason per failed fragment, in
	// fragment encounter order.
	Failures []string `json:"failures,omitempty"`

	// Diagnostics lists the distinct element class names observed in the
	// document. It is only populated when zero fragments were found and a
	// results area was present, to help troubleshoot marker drift.
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// ListingExtractor extracts business listings from raw search-results
// markup. Implementations never propagate per-fragment errors: a fragment
// that cannot be extracted is recorded as a failure in the report and the
// batch continues. A document that cannot be parsed at all yields an empty
// report with all counts zero.
type ListingExtractor interface {
	ExtractAll(html string, ov Overrides) *Report
}

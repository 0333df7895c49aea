package mock

import "github.com/tlegrand/mapscan"

var _ mapscan.ListingExtractor = (*ListingExtractor)(nil)

// ListingExtractor is a mock implementation of mapscan.ListingExtractor.
type ListingExtractor struct {
	ExtractAllFn func(html string, ov mapscan.Overrides) *mapscan.Report
}

func (e *ListingExtractor) ExtractAll(html string, ov mapscan.Overrides) *mapscan.Report {
	return e.ExtractAllFn(html, ov)
}

// Package bloom provides business-name deduplication using Bloom filters.
// The delivery loop uses it to skip remote duplicate checks for names it
// has already pushed in the same session.
package bloom

import (
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter wraps a Bloom filter keyed by normalized business name.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected names
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a business name to the filter.
func (f *Filter) Add(name string) {
	f.f.AddString(normalize(name))
}

// Test returns true if the name might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(name string) bool {
	return f.f.TestString(normalize(name))
}

// EstimatedCount returns the approximate number of names in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// normalize folds case and surrounding whitespace so "Café Martin " and
// "café martin" collide.
func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

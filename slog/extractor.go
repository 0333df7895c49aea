// Package slog provides logging decorators for mapscan domain interfaces.
package slog

import (
	"log/slog"
	"time"

	"github.com/tlegrand/mapscan"
)

// Ensure LoggingExtractor implements mapscan.ListingExtractor.
var _ mapscan.ListingExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a ListingExtractor with structured logging of
// batch outcomes.
type LoggingExtractor struct {
	next   mapscan.ListingExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next mapscan.ListingExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractAll delegates to the wrapped extractor and logs the report summary.
func (e *LoggingExtractor) ExtractAll(html string, ov mapscan.Overrides) *mapscan.Report {
	begin := time.Now()
	report := e.next.ExtractAll(html, ov)

	e.logger.Info("extraction complete",
		"attempted", report.Attempted,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"duration", time.Since(begin),
	)
	for _, reason := range report.Failures {
		e.logger.Warn("fragment rejected", "reason", reason)
	}
	if report.Attempted == 0 && len(report.Diagnostics) > 0 {
		e.logger.Warn("no listing markers found",
			"distinct_classes", len(report.Diagnostics),
		)
	}
	return report
}

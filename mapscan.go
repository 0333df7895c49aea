// Package mapscan extracts structured business-listing records from saved
// search-result markup of a map-based business directory and stages them
// for delivery to a Notion workspace database.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, notion/).
package mapscan

// Package types provides type definitions for structured data used throughout the company enricher.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// TimestampLayout is the ISO-8601 layout used for every timestamp the service emits.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Source records where enrichment data came from
type Source struct {
	URL       string `json:"url"`
	Timestamp string `json:"timestamp"`
}

// Structured is the four-field business summary produced by the model or the heuristic extractor
type Structured struct {
	Summary    string   `json:"summary"`
	WhatTheyDo []string `json:"whatTheyDo"`
	Keywords   []string `json:"keywords"`
	Signals    []string `json:"signals"`
}

// EnrichmentRecord is the unit of value returned to callers and stored in the cache.
type EnrichmentRecord struct {
	Summary    string   `json:"summary"`
	WhatTheyDo []string `json:"whatTheyDo"`
	Keywords   []string `json:"keywords"`
	Signals    []string `json:"signals"`
	Sources    []Source `json:"sources"`
	EnrichedAt string   `json:"enrichedAt"`
}

// NewEnrichmentRecord wraps a structured result with provenance for websiteURL.
// Nil sequences are replaced with empty ones so the JSON form never carries null.
func NewEnrichmentRecord(s Structured, websiteURL string, now time.Time) EnrichmentRecord {
	ts := FormatTimestamp(now)
	return EnrichmentRecord{
		Summary:    s.Summary,
		WhatTheyDo: nonNil(s.WhatTheyDo),
		Keywords:   nonNil(s.Keywords),
		Signals:    nonNil(s.Signals),
		Sources:    []Source{{URL: websiteURL, Timestamp: ts}},
		EnrichedAt: ts,
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

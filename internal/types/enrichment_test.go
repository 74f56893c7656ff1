package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 123456789, time.FixedZone("EST", -5*3600))
	assert.Equal(t, "2024-03-05T19:07:09.123Z", FormatTimestamp(ts))
}

func TestNewEnrichmentRecord(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s := Structured{
		Summary:    "Acme builds rockets.",
		WhatTheyDo: []string{"Rockets", "Launches", "Satellites"},
		Keywords:   []string{"acme.com", "rockets"},
		Signals:    []string{"Expanding team"},
	}

	rec := NewEnrichmentRecord(s, "https://acme.com", now)

	assert.Equal(t, s.Summary, rec.Summary)
	assert.Equal(t, s.WhatTheyDo, rec.WhatTheyDo)
	assert.Equal(t, s.Keywords, rec.Keywords)
	assert.Equal(t, s.Signals, rec.Signals)
	require.Len(t, rec.Sources, 1)
	assert.Equal(t, "https://acme.com", rec.Sources[0].URL)
	assert.Equal(t, "2024-01-02T03:04:05.000Z", rec.Sources[0].Timestamp)
	assert.Equal(t, "2024-01-02T03:04:05.000Z", rec.EnrichedAt)
}

func TestNewEnrichmentRecord_NilSequencesSerializeAsEmptyArrays(t *testing.T) {
	rec := NewEnrichmentRecord(Structured{Summary: "x"}, "https://x.com", time.Now())

	jsonBytes, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(jsonBytes), `"whatTheyDo":[]`)
	assert.Contains(t, string(jsonBytes), `"keywords":[]`)
	assert.Contains(t, string(jsonBytes), `"signals":[]`)
	assert.NotContains(t, string(jsonBytes), "null")
}

func TestEnrichmentRecord_JSONKeys(t *testing.T) {
	rec := NewEnrichmentRecord(Structured{Summary: "s", WhatTheyDo: []string{"a"}}, "https://x.com", time.Now())

	jsonBytes, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(jsonBytes, &raw))
	for _, key := range []string{"summary", "whatTheyDo", "keywords", "signals", "sources", "enrichedAt"} {
		assert.Contains(t, raw, key)
	}
}

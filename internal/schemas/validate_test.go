package schemas

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/company-enricher/internal/types"
)

func validRecord() types.EnrichmentRecord {
	return types.NewEnrichmentRecord(types.Structured{
		Summary:    "Acme builds rockets.",
		WhatTheyDo: []string{"Rockets"},
		Keywords:   []string{"acme.com", "space"},
		Signals:    []string{"Expanding team"},
	}, "https://acme.com", time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC))
}

func TestEnrichmentRecordSchema_ValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(EnrichmentRecordSchema()), &v))
	assert.Equal(t, "object", v["type"])
}

func TestValidateRecord_Valid(t *testing.T) {
	assert.NoError(t, ValidateRecord(validRecord()))
}

func TestValidateRecord_EmptySequencesAreValid(t *testing.T) {
	record := types.NewEnrichmentRecord(types.Structured{Summary: "x"}, "https://acme.com", time.Now())
	assert.NoError(t, ValidateRecord(record))
}

func TestValidateRecord_NullSequence(t *testing.T) {
	record := validRecord()
	record.Signals = nil

	err := ValidateRecord(record)
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "signals", validationErr.Errors[0].Field)
}

func TestValidateRecord_BadTimestamp(t *testing.T) {
	record := validRecord()
	record.EnrichedAt = "2024-05-01 10:30:00"

	err := ValidateRecord(record)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enrichedAt")
}

func TestValidateRecord_MissingSource(t *testing.T) {
	record := validRecord()
	record.Sources = []types.Source{}

	var validationErr *ValidationError
	require.ErrorAs(t, ValidateRecord(record), &validationErr)
	assert.Equal(t, "sources", validationErr.Errors[0].Field)
}

func TestValidateJSONString_MissingField(t *testing.T) {
	err := ValidateJSONString(EnrichmentRecordSchema(), `{"summary":"x"}`)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidateJSONString_InvalidSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
}

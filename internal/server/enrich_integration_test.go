package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jonathan/company-enricher/internal/cache"
	"github.com/jonathan/company-enricher/internal/enrich"
	"github.com/jonathan/company-enricher/internal/fetch"
	"github.com/jonathan/company-enricher/internal/llm"
	"github.com/jonathan/company-enricher/internal/metrics"
)

// countingFetcher serves fixed page text and counts calls.
type countingFetcher struct {
	calls atomic.Int32
}

func (f *countingFetcher) Fetch(_ context.Context, url string) (*fetch.Result, error) {
	f.calls.Add(1)
	return &fetch.Result{URL: url, Text: "Acme raised a seed round for its cloud platform", StatusCode: http.StatusOK}, nil
}

func newServiceServer(t *testing.T, fetcher enrich.Fetcher) *Server {
	t.Helper()
	logger := zaptest.NewLogger(t)
	service := enrich.NewService(cache.NewMemory(0), fetcher, llm.NewStructurer(nil, 0), enrich.Options{
		DedupeInflight: true,
		Logger:         logger,
	})
	return New(Config{}, service, metrics.New(nil), logger)
}

func TestEnrichEndpoint_ValidationNeverFetches(t *testing.T) {
	fetcher := &countingFetcher{}
	s := newServiceServer(t, fetcher)

	for _, body := range []string{`{}`, `{"website":""}`} {
		w := doRequest(t, s, http.MethodPost, "/api/enrich", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Website URL is required", decodeError(t, w))
	}
	assert.Equal(t, int32(0), fetcher.calls.Load())
}

func TestEnrichEndpoint_SecondRequestServedFromCache(t *testing.T) {
	fetcher := &countingFetcher{}
	s := newServiceServer(t, fetcher)

	first := doRequest(t, s, http.MethodPost, "/api/enrich", `{"website":"https://acme.com"}`)
	require.Equal(t, http.StatusOK, first.Code)

	second := doRequest(t, s, http.MethodPost, "/api/enrich", `{"website":"https://acme.com"}`)
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

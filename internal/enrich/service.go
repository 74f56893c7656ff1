// Package enrich coordinates the enrichment pipeline: cache lookup, website fetch,
// model structuring with heuristic fallback, record assembly and cache write.
package enrich

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/company-enricher/internal/cache"
	"github.com/jonathan/company-enricher/internal/fetch"
	"github.com/jonathan/company-enricher/internal/heuristic"
	"github.com/jonathan/company-enricher/internal/llm"
	"github.com/jonathan/company-enricher/internal/metrics"
	"github.com/jonathan/company-enricher/internal/types"
)

// Fetcher retrieves a website's cleaned text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// Structurer asks a model to summarize website text.
type Structurer interface {
	Structure(ctx context.Context, text, websiteURL string) (llm.Outcome, error)
}

// Request is the body of an enrichment call.
type Request struct {
	Website string `json:"website" validate:"required"`
}

// Options tunes the Service.
type Options struct {
	// DedupeInflight collapses concurrent misses for the same URL into one fetch.
	DedupeInflight bool
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
	Now            func() time.Time
}

// Service is the enrichment orchestrator.
type Service struct {
	cache      cache.Cache
	fetcher    Fetcher
	structurer Structurer
	validate   *validator.Validate
	group      *singleflight.Group
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the pipeline stages together.
func NewService(c cache.Cache, f Fetcher, s Structurer, opts Options) *Service {
	svc := &Service{
		cache:      c,
		fetcher:    f,
		structurer: s,
		validate:   validator.New(),
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		now:        opts.Now,
	}
	if opts.DedupeInflight {
		svc.group = &singleflight.Group{}
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// Enrich returns the enrichment record for website, serving it from cache when present.
//
// Errors are *ValidationError for an empty website, *fetch.Error when the site could
// not be retrieved and *llm.ProviderError for quota, auth or network failures at the
// model provider. Nothing is cached when an error is returned.
func (s *Service) Enrich(ctx context.Context, website string) (types.EnrichmentRecord, error) {
	if err := s.validate.Struct(Request{Website: website}); err != nil {
		s.metrics.IncOutcome(metrics.OutcomeInvalid)
		return types.EnrichmentRecord{}, &ValidationError{Field: "website", Message: "Website URL is required"}
	}

	if record, ok := s.cache.Get(website); ok {
		s.metrics.IncOutcome(metrics.OutcomeCacheHit)
		s.logger.Debug("cache hit", zap.String("website", website))
		return record, nil
	}

	if s.group == nil {
		return s.enrichMiss(ctx, website)
	}

	// The shared call must not die with whichever caller happened to start it.
	sharedCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(website, func() (any, error) {
		if record, ok := s.cache.Get(website); ok {
			return record, nil
		}
		return s.enrichMiss(sharedCtx, website)
	})
	if shared {
		s.logger.Debug("joined in-flight enrichment", zap.String("website", website))
	}
	if err != nil {
		return types.EnrichmentRecord{}, err
	}
	return v.(types.EnrichmentRecord), nil
}

// enrichMiss runs FETCH → STRUCTURE → ASSEMBLE → CACHE_WRITE for a URL not in the cache.
func (s *Service) enrichMiss(ctx context.Context, website string) (types.EnrichmentRecord, error) {
	log := s.logger.With(zap.String("website", website))

	start := s.now()
	page, err := s.fetcher.Fetch(ctx, website)
	s.metrics.ObserveFetch(s.now().Sub(start))
	if err != nil {
		s.metrics.IncOutcome(metrics.OutcomeFetchErr)
		log.Warn("website fetch failed", zap.Error(err))
		return types.EnrichmentRecord{}, err
	}

	outcome, err := s.structurer.Structure(ctx, page.Text, website)
	if err != nil {
		s.metrics.IncOutcome(metrics.OutcomeAIErr)
		log.Error("AI provider failed", zap.Error(err))
		return types.EnrichmentRecord{}, err
	}

	structured := outcome.Result
	source := metrics.OutcomeAI
	if !outcome.Structured() {
		source = metrics.OutcomeHeuristic
		if errors.Is(outcome.Unavailable, llm.ErrNotConfigured) {
			log.Debug("AI not configured, using heuristic enrichment")
		} else {
			log.Warn("AI structuring unavailable, using heuristic enrichment", zap.Error(outcome.Unavailable))
		}
		structured = heuristic.Extract(page.Text, heuristic.Domain(website), website)
	}

	record := types.NewEnrichmentRecord(structured, website, s.now())
	s.cache.Set(website, record)

	s.metrics.IncOutcome(source)
	log.Info("website enriched",
		zap.String("source", source),
		zap.Int("text_chars", len(page.Text)),
		zap.Bool("rendered", page.Rendered))
	return record, nil
}

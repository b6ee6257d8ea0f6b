// Package search runs a business search end to end: prompt, generate,
// parse and enrich.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackzampolin/mapscrape/internal/extract"
	"github.com/jackzampolin/mapscrape/internal/metrics"
	"github.com/jackzampolin/mapscrape/internal/prompts"
	"github.com/jackzampolin/mapscrape/internal/prompts/places"
	"github.com/jackzampolin/mapscrape/internal/providers"
	"github.com/jackzampolin/mapscrape/internal/types"
)

// Searcher runs a single search.
type Searcher interface {
	Search(ctx context.Context, q types.SearchQuery, provider string) (*types.ExtractionResult, error)
}

// Config holds dependencies for a Service.
type Config struct {
	Registry *providers.Registry
	Prompts  *prompts.Resolver
	Metrics  *metrics.Recorder
	Logger   *slog.Logger

	// NewID generates place IDs (defaults to UUIDs)
	NewID func() string
}

// Service turns a query into an ExtractionResult.
type Service struct {
	registry *providers.Registry
	prompts  *prompts.Resolver
	parser   *extract.Parser
	metrics  *metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new search service.
func NewService(cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	parser := extract.NewParser()
	if cfg.NewID != nil {
		parser.NewID = cfg.NewID
	}
	return &Service{
		registry: cfg.Registry,
		prompts:  cfg.Prompts,
		parser:   parser,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		now:      time.Now,
	}
}

// Search sends "<category> in <location>" to the named provider (or the
// default when empty) and extracts places from the returned table.
//
// Configuration problems are returned as-is before any request is sent.
// Generator failures are wrapped in *UpstreamError. An empty table is
// not an error.
func (s *Service) Search(ctx context.Context, q types.SearchQuery, provider string) (*types.ExtractionResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	gen, err := s.generator(provider)
	if err != nil {
		s.metrics.RecordSearch(provider, metrics.OutcomeConfigError, 0, 0)
		return nil, err
	}

	query := q.String()
	system, user := places.Render(s.prompts, query)

	logger := s.logger.With("query", query, "provider", gen.Name())
	logger.Info("search started")

	done := s.metrics.SearchStarted()
	start := time.Now()
	resp, err := gen.Generate(ctx, &providers.GenerateRequest{
		SystemInstruction: system,
		Prompt:            user,
		EnableMaps:        true,
	})
	elapsed := time.Since(start)
	done()

	if err != nil {
		if errors.Is(err, providers.ErrMissingCredential) {
			s.metrics.RecordSearch(gen.Name(), metrics.OutcomeConfigError, 0, elapsed)
			logger.Warn("search rejected", "error", err)
			return nil, err
		}
		s.metrics.RecordSearch(gen.Name(), metrics.OutcomeUpstream, 0, elapsed)
		logger.Error("generation failed", "error", err, "elapsed", elapsed)
		return nil, &UpstreamError{Provider: gen.Name(), Err: err}
	}

	found := s.parser.Parse(resp.Text)
	if len(found) > 0 && len(resp.Citations) > 0 {
		found = extract.EnrichWithCitations(found, resp.Citations)
	}

	outcome := metrics.OutcomeSuccess
	if len(found) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	s.metrics.RecordSearch(gen.Name(), outcome, len(found), elapsed)
	s.metrics.RecordTokens(gen.Name(), resp.PromptTokens, resp.CompletionTokens)

	logger.Info("search complete",
		"places", len(found),
		"citations", len(resp.Citations),
		"model", resp.ModelUsed,
		"elapsed", elapsed,
	)

	return &types.ExtractionResult{
		Places:    found,
		Text:      resp.Text,
		Query:     query,
		Category:  q.Category,
		Location:  q.Location,
		Provider:  gen.Name(),
		CreatedAt: s.now(),
	}, nil
}

func (s *Service) generator(name string) (providers.Generator, error) {
	if s.registry == nil {
		return nil, ErrNoProvider
	}
	g, err := s.registry.Get(name)
	if err != nil {
		if name == "" {
			name = s.registry.DefaultName()
		}
		return nil, fmt.Errorf("%w: %q", ErrNoProvider, name)
	}
	return g, nil
}

var _ Searcher = (*Service)(nil)

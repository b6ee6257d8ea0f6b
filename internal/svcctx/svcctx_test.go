package svcctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jackzampolin/mapscrape/internal/csvexport"
	"github.com/jackzampolin/mapscrape/internal/metrics"
	"github.com/jackzampolin/mapscrape/internal/providers"
)

func TestExtractors_EmptyContext(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, ServicesFrom(ctx))
	assert.Nil(t, RegistryFrom(ctx))
	assert.Nil(t, SessionFrom(ctx))
	assert.Nil(t, ExporterFrom(ctx))
	assert.NotNil(t, LoggerFrom(ctx), "falls back to slog.Default")
	assert.Equal(t, "gemini", ConfigFrom(ctx).Defaults.Provider, "falls back to DefaultConfig")
}

func TestExtractors_WithServices(t *testing.T) {
	s := &Services{
		Registry: providers.NewRegistry(),
		Metrics:  metrics.NewRecorder(),
		Exporter: csvexport.New(),
	}
	ctx := WithServices(context.Background(), s)

	assert.Same(t, s, ServicesFrom(ctx))
	assert.Same(t, s.Registry, RegistryFrom(ctx))
	assert.Same(t, s.Metrics, MetricsFrom(ctx))
	assert.Same(t, s.Exporter, ExporterFrom(ctx))
	assert.Nil(t, HomeFrom(ctx))
	assert.Nil(t, PromptResolverFrom(ctx))
}

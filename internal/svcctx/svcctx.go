// Package svcctx carries the server's services on request contexts. It is
// its own package so endpoints and server can both import it.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/mapscrape/internal/config"
	"github.com/jackzampolin/mapscrape/internal/csvexport"
	"github.com/jackzampolin/mapscrape/internal/home"
	"github.com/jackzampolin/mapscrape/internal/metrics"
	"github.com/jackzampolin/mapscrape/internal/prompts"
	"github.com/jackzampolin/mapscrape/internal/providers"
	"github.com/jackzampolin/mapscrape/internal/search"
)

// Services is everything a handler may need. Any field may be nil.
type Services struct {
	Registry      *providers.Registry
	Session       *search.Session
	Prompts       *prompts.Resolver
	Metrics       *metrics.Recorder
	Exporter      *csvexport.Exporter
	ConfigManager *config.Manager
	Logger        *slog.Logger
	Home          *home.Dir
}

type servicesKey struct{}

func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom returns the attached Services or nil.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// field reads one field, returning the zero value when nothing is attached.
func field[T any](ctx context.Context, get func(*Services) T) T {
	var zero T
	if s := ServicesFrom(ctx); s != nil {
		return get(s)
	}
	return zero
}

func RegistryFrom(ctx context.Context) *providers.Registry {
	return field(ctx, func(s *Services) *providers.Registry { return s.Registry })
}

func SessionFrom(ctx context.Context) *search.Session {
	return field(ctx, func(s *Services) *search.Session { return s.Session })
}

func PromptResolverFrom(ctx context.Context) *prompts.Resolver {
	return field(ctx, func(s *Services) *prompts.Resolver { return s.Prompts })
}

func MetricsFrom(ctx context.Context) *metrics.Recorder {
	return field(ctx, func(s *Services) *metrics.Recorder { return s.Metrics })
}

func ExporterFrom(ctx context.Context) *csvexport.Exporter {
	return field(ctx, func(s *Services) *csvexport.Exporter { return s.Exporter })
}

func HomeFrom(ctx context.Context) *home.Dir {
	return field(ctx, func(s *Services) *home.Dir { return s.Home })
}

// ConfigFrom returns the live Config, or DefaultConfig without a manager.
func ConfigFrom(ctx context.Context) *config.Config {
	if mgr := field(ctx, func(s *Services) *config.Manager { return s.ConfigManager }); mgr != nil {
		return mgr.Get()
	}
	return config.DefaultConfig()
}

// LoggerFrom falls back to slog.Default.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if l := field(ctx, func(s *Services) *slog.Logger { return s.Logger }); l != nil {
		return l
	}
	return slog.Default()
}

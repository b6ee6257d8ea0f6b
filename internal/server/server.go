package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jackzampolin/mapscrape/internal/api"
	"github.com/jackzampolin/mapscrape/internal/config"
	"github.com/jackzampolin/mapscrape/internal/csvexport"
	"github.com/jackzampolin/mapscrape/internal/home"
	"github.com/jackzampolin/mapscrape/internal/metrics"
	"github.com/jackzampolin/mapscrape/internal/prompts"
	"github.com/jackzampolin/mapscrape/internal/prompts/places"
	"github.com/jackzampolin/mapscrape/internal/providers"
	"github.com/jackzampolin/mapscrape/internal/search"
	"github.com/jackzampolin/mapscrape/internal/server/endpoints"
	"github.com/jackzampolin/mapscrape/internal/svcctx"
)

const (
	shutdownGrace = 30 * time.Second
	// Grounded searches can take minutes, so writes get a long deadline.
	writeTimeout = 6 * time.Minute
)

// Config configures a Server. Zero values pick 127.0.0.1:8080 and slog.Default.
type Config struct {
	Host string
	// Port "0" binds a free port; see Server.Addr.
	Port string

	// ConfigManager supplies providers and prompt overrides and reloads them on change.
	ConfigManager *config.Manager
	// Registry, when set, is used as is and never reloaded from config.
	Registry *providers.Registry

	Home   *home.Dir
	Logger *slog.Logger
}

// Server serves the mapscrape HTTP API and web page around one search session.
type Server struct {
	http     *http.Server
	services *svcctx.Services
	routes   *api.Registry
	logger   *slog.Logger

	mu       sync.RWMutex
	listener net.Listener
}

// New wires the services and routes. It does not bind a port.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	services := buildServices(cfg)
	if name := services.Registry.DefaultName(); name == "" || !services.Registry.Has(name) {
		cfg.Logger.Warn("default provider not registered, searches fail until config is fixed",
			"default", name)
	}

	s := &Server{services: services, routes: api.NewRegistry(), logger: cfg.Logger}
	for _, ep := range endpoints.All() {
		s.routes.Register(ep)
	}

	mux := http.NewServeMux()
	s.routes.RegisterRoutes(mux, s.requireInit)

	s.http = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  2 * time.Minute,
	}
	return s, nil
}

func buildServices(cfg Config) *svcctx.Services {
	registry := cfg.Registry
	if registry == nil {
		registry = providers.NewRegistry()
		registry.SetLogger(cfg.Logger)
	}

	resolver := prompts.NewResolver(cfg.Logger)
	places.RegisterPrompts(resolver)

	if mgr := cfg.ConfigManager; mgr != nil {
		apply := func(c *config.Config) {
			if cfg.Registry == nil {
				registry.Reload(c.ToProviderRegistryConfig())
			}
			resolver.SetOverrides(c.PromptOverrides())
		}
		apply(mgr.Get())
		mgr.OnChange(func(c *config.Config) {
			apply(c)
			cfg.Logger.Info("config reloaded",
				"providers", registry.List(), "default", registry.DefaultName())
		})
	}

	recorder := metrics.NewRecorder()
	service := search.NewService(search.Config{
		Registry: registry,
		Prompts:  resolver,
		Metrics:  recorder,
		Logger:   cfg.Logger,
	})

	return &svcctx.Services{
		Registry:      registry,
		Session:       search.NewSession(service, recorder, cfg.Logger),
		Prompts:       resolver,
		Metrics:       recorder,
		Exporter:      csvexport.New(),
		ConfigManager: cfg.ConfigManager,
		Logger:        cfg.Logger,
		Home:          cfg.Home,
	}
}

// Start binds the listener and serves until ctx is done, then shuts down
// gracefully. A second concurrent Start fails.
func (s *Server) Start(ctx context.Context) error {
	ln, err := s.bind()
	if err != nil {
		return err
	}
	defer s.unbind()

	s.logger.Info("listening", "addr", ln.Addr().String(),
		"providers", s.services.Registry.List(), "default", s.services.Registry.DefaultName())

	served := make(chan error, 1)
	go func() { served <- s.http.Serve(ln) }()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown incomplete", "error", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) bind() (net.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil, errors.New("server already running")
	}
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	}
	s.listener = ln
	return ln, nil
}

func (s *Server) unbind() {
	s.mu.Lock()
	s.listener = nil
	s.mu.Unlock()
}

// IsRunning reports whether Start currently holds a listener.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listener != nil
}

// Addr is the bound address while running, else the configured one.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.http.Addr
}

// Handler returns the routed handler with services attached.
func (s *Server) Handler() http.Handler { return s.http.Handler }

func (s *Server) Registry() *providers.Registry { return s.services.Registry }

func (s *Server) Session() *search.Session { return s.services.Session }

func (s *Server) Metrics() *metrics.Recorder { return s.services.Metrics }

func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(svcctx.WithServices(r.Context(), s.services)))
	})
}

// requireInit answers 503 until the session and registry exist.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.services == nil || s.services.Session == nil || s.services.Registry == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}

package api

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// Route describes one registered HTTP route.
type Route struct {
	Method       string `json:"method" yaml:"method"`
	Path         string `json:"path" yaml:"path"`
	RequiresInit bool   `json:"requires_init" yaml:"requires_init"`
}

// Pattern returns the ServeMux pattern, e.g. "GET /api/search".
func (r Route) Pattern() string {
	return r.Method + " " + r.Path
}

// Registry holds the endpoints served by mapscrape and exposed as "api" commands.
type Registry struct {
	endpoints []Endpoint
	patterns  map[string]bool
}

// NewRegistry creates a new endpoint registry.
func NewRegistry() *Registry {
	return &Registry{patterns: make(map[string]bool)}
}

// Register adds an endpoint. It panics on a duplicate method and path,
// as http.ServeMux would at route registration.
func (r *Registry) Register(ep Endpoint) {
	method, path, _ := ep.Route()
	pattern := method + " " + path
	if r.patterns[pattern] {
		panic(fmt.Sprintf("api: duplicate endpoint %s", pattern))
	}
	r.patterns[pattern] = true
	r.endpoints = append(r.endpoints, ep)
}

// RegisterRoutes mounts every endpoint on mux. Handlers of endpoints that
// report RequiresInit are wrapped with initMiddleware.
func (r *Registry) RegisterRoutes(mux *http.ServeMux, initMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		if ep.RequiresInit() {
			handler = initMiddleware(handler)
		}
		mux.HandleFunc(method+" "+path, handler)
	}
}

// Routes lists the registered routes in registration order.
func (r *Registry) Routes() []Route {
	routes := make([]Route, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		method, path, _ := ep.Route()
		routes = append(routes, Route{Method: method, Path: path, RequiresInit: ep.RequiresInit()})
	}
	return routes
}

// BuildCommands returns the "api" command with one subcommand per endpoint
// that has a CLI counterpart, plus "routes". getServerURL is evaluated when
// a command runs, after flags are parsed.
func (r *Registry) BuildCommands(getServerURL func() string) *cobra.Command {
	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Commands that call the running server",
		Long: `API commands call the running mapscrape server via HTTP.

These commands require a running server (mapscrape serve).
Use --server to specify a custom server URL.

Examples:
  mapscrape api health
  mapscrape api search --category "Coffee Shops" --location "Baku, Azerbaijan"
  mapscrape api export --out coffee.csv`,
	}

	for _, ep := range r.endpoints {
		if cmd := ep.Command(getServerURL); cmd != nil {
			apiCmd.AddCommand(cmd)
		}
	}

	apiCmd.AddCommand(&cobra.Command{
		Use:   "routes",
		Short: "List the server's HTTP routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Output(r.Routes())
		},
	})

	return apiCmd
}

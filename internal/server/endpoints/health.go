package endpoints

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/mapscrape/internal/api"
	"github.com/jackzampolin/mapscrape/internal/search"
	"github.com/jackzampolin/mapscrape/internal/svcctx"
)

// HealthResponse reports liveness or readiness.
type HealthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider,omitempty"`
}

func printHealth(resp HealthResponse) {
	fmt.Printf("Status:   %s\n", resp.Status)
	if resp.Provider != "" {
		fmt.Printf("Provider: %s\n", resp.Provider)
	}
}

func healthCommand(use, short, path string, getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp HealthResponse
			if err := api.NewClient(getServerURL()).Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			printHealth(resp)
			return nil
		},
	}
}

// HealthEndpoint serves GET /health. It answers as long as the process is up.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Health check
//	@Description	Returns ok while the HTTP server is responding
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return healthCommand("health", "Check server health", "/health", getServerURL)
}

// ReadyEndpoint serves GET /ready. Searches can only succeed once it is ok.
type ReadyEndpoint struct{}

func (e *ReadyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/ready", e.handler
}

func (e *ReadyEndpoint) RequiresInit() bool { return false }

// readiness reports whether a search could be dispatched right now.
func readiness(ctx context.Context) (int, HealthResponse) {
	registry := svcctx.RegistryFrom(ctx)
	if registry == nil || svcctx.SessionFrom(ctx) == nil {
		return http.StatusServiceUnavailable, HealthResponse{Status: "not_initialized"}
	}
	name := registry.DefaultName()
	if name == "" || !registry.Has(name) {
		return http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Provider: "not_configured"}
	}
	return http.StatusOK, HealthResponse{Status: "ok", Provider: name}
}

// handler godoc
//
//	@Summary		Readiness check
//	@Description	Returns ok only when the default provider is registered
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/ready [get]
func (e *ReadyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	code, resp := readiness(r.Context())
	writeJSON(w, code, resp)
}

func (e *ReadyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return healthCommand("ready", "Check that the default provider is registered", "/ready", getServerURL)
}

// StatusResponse combines provider and session state.
type StatusResponse struct {
	Server    string          `json:"server"`
	Providers ProvidersStatus `json:"providers"`
	Session   search.Status   `json:"session"`
	Places    int             `json:"places"`
}

// ProvidersStatus lists registered providers and the default.
type ProvidersStatus struct {
	Registered []string `json:"registered"`
	Default    string   `json:"default"`
}

// StatusEndpoint serves GET /status.
type StatusEndpoint struct{}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Server status
//	@Description	Registered providers and the state of the current search
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := StatusResponse{Server: "running", Session: search.Status{State: search.StateIdle}}

	if reg := svcctx.RegistryFrom(ctx); reg != nil {
		resp.Providers = ProvidersStatus{Registered: reg.List(), Default: reg.DefaultName()}
	}
	if sess := svcctx.SessionFrom(ctx); sess != nil {
		resp.Session, resp.Places = sess.Status(), sess.Result().Count()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show providers and the current search state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp StatusResponse
			if err := api.NewClient(getServerURL()).Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// WaitCommand polls /ready at a fixed interval until it answers 200.
func WaitCommand(getServerURL func() string) *cobra.Command {
	var (
		attempts uint
		delay    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Block until the server is ready",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			probe := func() error { return client.Get(ctx, "/ready", &resp) }
			if err := retry.Do(probe,
				retry.Context(ctx),
				retry.Attempts(attempts),
				retry.Delay(delay),
				retry.DelayType(retry.FixedDelay),
				retry.LastErrorOnly(true),
			); err != nil {
				return fmt.Errorf("server not ready: %w", err)
			}
			printHealth(resp)
			return nil
		},
	}
	cmd.Flags().UintVar(&attempts, "attempts", 30, "Maximum number of readiness checks")
	cmd.Flags().DurationVar(&delay, "delay", time.Second, "Delay between checks")
	return cmd
}

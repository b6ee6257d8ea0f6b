package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/mapscrape/internal/api"
	"github.com/jackzampolin/mapscrape/internal/svcctx"
)

// MetricsEndpoint handles GET /metrics in the Prometheus text format.
type MetricsEndpoint struct{}

func (e *MetricsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/metrics", e.handler
}

func (e *MetricsEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Prometheus metrics
//	@Description	Search, token and export counters
//	@Tags			metrics
//	@Produce		plain
//	@Success		200	{string}	string
//	@Failure		503	{object}	ErrorResponse
//	@Router			/metrics [get]
func (e *MetricsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	recorder := svcctx.MetricsFrom(r.Context())
	if recorder == nil {
		writeError(w, http.StatusServiceUnavailable, "metrics not initialized")
		return
	}
	recorder.Handler().ServeHTTP(w, r)
}

func (e *MetricsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print the server's Prometheus metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			data, _, err := client.GetRaw(cmd.Context(), "/metrics")
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

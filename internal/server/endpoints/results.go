package endpoints

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/mapscrape/internal/api"
	"github.com/jackzampolin/mapscrape/internal/csvexport"
	"github.com/jackzampolin/mapscrape/internal/svcctx"
)

// errNoResults is returned by the results endpoints when the session holds nothing.
const errNoResults = "no results available, run a search first"

// ResultsEndpoint handles GET /api/results.
type ResultsEndpoint struct{}

func (e *ResultsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/results", e.handler
}

func (e *ResultsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Current results
//	@Description	The places extracted by the most recent successful search
//	@Tags			results
//	@Produce		json
//	@Success		200	{object}	SearchResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/results [get]
func (e *ResultsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	session := svcctx.SessionFrom(r.Context())
	result := session.Result()
	if result == nil {
		writeError(w, http.StatusNotFound, errNoResults)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Query:  result.Query,
		Places: nonNilPlaces(result.Places),
		Count:  result.Count(),
		Status: session.Status(),
	})
}

func (e *ResultsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "Show the server's current results",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SearchResponse
			if err := client.Get(cmd.Context(), "/api/results", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ExportEndpoint handles GET /api/results/export.
type ExportEndpoint struct{}

func (e *ExportEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/results/export", e.handler
}

func (e *ExportEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Export results as CSV
//	@Description	Download the current places as a UTF-8 CSV with a byte order mark.
//	@Description	The file name is derived from the searched category and location.
//	@Tags			results,export
//	@Produce		text/csv
//	@Success		200	{file}		file
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/results/export [get]
func (e *ExportEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result := svcctx.SessionFrom(ctx).Result()
	if result.Count() == 0 {
		writeError(w, http.StatusNotFound, errNoResults)
		return
	}

	exporter := svcctx.ExporterFrom(ctx)
	if exporter == nil {
		writeError(w, http.StatusInternalServerError, "exporter not available")
		return
	}

	data, err := exporter.Export(result.Places)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := exporter.Filename(result.Category, result.Location)
	svcctx.MetricsFrom(ctx).RecordExport(len(result.Places))
	svcctx.LoggerFrom(ctx).Info("exported results", "file", filename, "places", len(result.Places))

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (e *ExportEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		out   string
		check bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the server's current results as CSV",
		Long: `Download the server's current results as CSV.

Without --out the file is written to the current directory using the
name the server suggests (e.g. coffee-shops-baku--azerbaijan.csv).
With --check the download is parsed back first and nothing is written
unless every row has the seven export columns.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			data, header, err := client.GetRaw(cmd.Context(), "/api/results/export")
			if err != nil {
				return err
			}

			if check {
				rows, err := csvexport.Check(data)
				if err != nil {
					return fmt.Errorf("export failed check: %w", err)
				}
				fmt.Printf("Checked %d rows\n", rows)
			}

			path := out
			if path == "" {
				path = dispositionFilename(header.Get("Content-Disposition"))
			}
			if path == "" {
				return fmt.Errorf("server did not suggest a file name, use --out")
			}

			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Printf("Wrote %s (%d bytes)\n", path, len(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output file path")
	cmd.Flags().BoolVar(&check, "check", false, "Parse the CSV back and verify its columns before writing")
	return cmd
}

func dispositionFilename(header string) string {
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	name := filepath.Base(params["filename"])
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/mapscrape/internal/api"
	"github.com/jackzampolin/mapscrape/internal/csvexport"
	"github.com/jackzampolin/mapscrape/internal/search"
	"github.com/jackzampolin/mapscrape/internal/svcctx"
	"github.com/jackzampolin/mapscrape/internal/types"
)

// maxSearchBody bounds POST /api/search request bodies.
const maxSearchBody = 64 << 10

const searchRequestSchema = `{
  "type": "object",
  "properties": {
    "category": {"type": "string", "minLength": 1, "pattern": "\\S"},
    "location": {"type": "string", "minLength": 1, "pattern": "\\S"},
    "provider": {"type": "string"}
  },
  "required": ["category", "location"],
  "additionalProperties": false
}`

var searchSchema = jsonschema.MustCompileString("search_request.json", searchRequestSchema)

// SearchRequest is the request body for running a search.
type SearchRequest struct {
	Category string `json:"category"`
	Location string `json:"location"`
	Provider string `json:"provider,omitempty"`
}

// SearchResponse is the response for a completed search.
type SearchResponse struct {
	Query  string        `json:"query"`
	Places []types.Place `json:"places"`
	Count  int           `json:"count"`
	Status search.Status `json:"status"`
}

// CSV renders the places as CSV without the byte order mark.
func (r SearchResponse) CSV() string {
	return csvexport.Build(r.Places)
}

// SearchEndpoint handles POST /api/search.
type SearchEndpoint struct{}

func (e *SearchEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/search", e.handler
}

func (e *SearchEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Search for businesses
//	@Description	Ask the provider for "<category> in <location>" and extract the returned table.
//	@Description	Only one search runs at a time; the result replaces the previous one.
//	@Tags			search
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SearchRequest	true	"Search request"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/search [post]
func (e *SearchEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSearchRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := svcctx.SessionFrom(r.Context())
	q := types.SearchQuery{Category: req.Category, Location: req.Location}

	result, err := session.Search(r.Context(), q, req.Provider)
	if err != nil {
		writeError(w, searchErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Query:  result.Query,
		Places: nonNilPlaces(result.Places),
		Count:  result.Count(),
		Status: session.Status(),
	})
}

func decodeSearchRequest(r *http.Request) (SearchRequest, error) {
	var req SearchRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSearchBody))
	if err != nil {
		return req, errors.New("invalid request body")
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return req, errors.New("invalid request body")
	}
	if err := searchSchema.Validate(doc); err != nil {
		return req, fmt.Errorf("invalid search request: %s", schemaMessage(err))
	}

	if err := json.Unmarshal(body, &req); err != nil {
		return req, errors.New("invalid request body")
	}
	return req, nil
}

// schemaMessage reduces a validation error to its most specific cause.
func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return ve.Message
	}
	return ve.InstanceLocation + ": " + ve.Message
}

func searchErrorStatus(err error) int {
	switch {
	case errors.Is(err, search.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, types.ErrEmptyQuery):
		return http.StatusBadRequest
	case search.IsConfigError(err):
		return http.StatusServiceUnavailable
	case search.IsUpstreamError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func nonNilPlaces(places []types.Place) []types.Place {
	if places == nil {
		return []types.Place{}
	}
	return places
}

func (e *SearchEndpoint) Command(getServerURL func() string) *cobra.Command {
	var req SearchRequest
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a search on the server",
		Long: `Run a search on the server. The result replaces the server's current result
and can be downloaded afterwards with "mapscrape api export".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Category == "" || req.Location == "" {
				return fmt.Errorf("--category and --location are required")
			}
			client := api.NewClient(getServerURL())
			var resp SearchResponse
			if err := client.Post(cmd.Context(), "/api/search", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&req.Category, "category", "", "Business category (required)")
	cmd.Flags().StringVar(&req.Location, "location", "", "Location (required)")
	cmd.Flags().StringVar(&req.Provider, "provider", "", "Provider name (defaults to the configured default)")
	return cmd
}

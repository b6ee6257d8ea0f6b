package endpoints

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/mapscrape/internal/api"
	"github.com/jackzampolin/mapscrape/internal/prompts"
	"github.com/jackzampolin/mapscrape/internal/svcctx"
)

// PromptsListResponse holds every registered prompt after overrides.
type PromptsListResponse struct {
	Prompts []prompts.ResolvedPrompt `json:"prompts"`
}

// resolverFor fetches the prompt resolver or answers 500 itself.
func resolverFor(w http.ResponseWriter, r *http.Request) *prompts.Resolver {
	res := svcctx.PromptResolverFrom(r.Context())
	if res == nil {
		writeError(w, http.StatusInternalServerError, "prompt resolver not available")
	}
	return res
}

// ListPromptsEndpoint serves GET /api/prompts.
type ListPromptsEndpoint struct{}

func (e *ListPromptsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/prompts", e.handler
}

func (e *ListPromptsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List prompts
//	@Description	The system and user prompts as they will be sent, with overrides applied
//	@Tags			prompts
//	@Produce		json
//	@Success		200	{object}	PromptsListResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/prompts [get]
func (e *ListPromptsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	if res := resolverFor(w, r); res != nil {
		writeJSON(w, http.StatusOK, PromptsListResponse{Prompts: res.AllResolved()})
	}
}

// Command builds "prompts" with a "get <key>" child.
func (e *ListPromptsEndpoint) Command(getServerURL func() string) *cobra.Command {
	list := &cobra.Command{
		Use:   "prompts",
		Short: "Show the prompts sent to the provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp PromptsListResponse
			if err := api.NewClient(getServerURL()).Get(cmd.Context(), "/api/prompts", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	list.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Show one prompt, e.g. places.system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp prompts.ResolvedPrompt
			path := "/api/prompts/" + url.PathEscape(args[0])
			if err := api.NewClient(getServerURL()).Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	})
	return list
}

// GetPromptEndpoint serves GET /api/prompts/{key}.
type GetPromptEndpoint struct{}

func (e *GetPromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/prompts/{key}", e.handler
}

func (e *GetPromptEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get a prompt
//	@Description	One prompt by key, with its override state
//	@Tags			prompts
//	@Produce		json
//	@Param			key	path		string	true	"Prompt key, e.g. places.system"
//	@Success		200	{object}	prompts.ResolvedPrompt
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/prompts/{key} [get]
func (e *GetPromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(r.PathValue("key"))
	if err != nil || key == "" {
		writeError(w, http.StatusBadRequest, "invalid prompt key")
		return
	}
	res := resolverFor(w, r)
	if res == nil {
		return
	}
	resolved, err := res.Resolve(key)
	if err != nil {
		writeError(w, http.StatusNotFound, "prompt not found: "+key)
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}

// Command is nil; the CLI form lives under "prompts get".
func (e *GetPromptEndpoint) Command(func() string) *cobra.Command { return nil }

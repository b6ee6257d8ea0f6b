package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/mapscrape/internal/api"
	"github.com/jackzampolin/mapscrape/internal/svcctx"
)

// CategoriesResponse lists the preset business categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// CategoriesEndpoint handles GET /api/categories.
type CategoriesEndpoint struct{}

func (e *CategoriesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/categories", e.handler
}

func (e *CategoriesEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		List preset categories
//	@Description	Business categories offered by the search form
//	@Tags			search
//	@Produce		json
//	@Success		200	{object}	CategoriesResponse
//	@Router			/api/categories [get]
func (e *CategoriesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: svcctx.ConfigFrom(r.Context()).Categories()})
}

func (e *CategoriesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List preset business categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp CategoriesResponse
			if err := client.Get(cmd.Context(), "/api/categories", &resp); err != nil {
				return err
			}
			if api.GetOutputFormat() == api.OutputFormatCSV {
				for _, c := range resp.Categories {
					fmt.Println(c)
				}
				return nil
			}
			return api.Output(resp)
		},
	}
}

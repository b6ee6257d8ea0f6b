package endpoints

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/mapscrape/internal/api"
	"github.com/jackzampolin/mapscrape/web"
)

// StaticEndpoint serves the embedded search page. Paths that are not
// files get index.html, except under /api/, which gets a JSON 404.
type StaticEndpoint struct{}

var _ api.Endpoint = (*StaticEndpoint)(nil)

func (e *StaticEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/{path...}", e.handler
}

func (e *StaticEndpoint) RequiresInit() bool { return false }

func (e *StaticEndpoint) Command(func() string) *cobra.Command { return nil }

func (e *StaticEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, "unknown endpoint: "+r.URL.Path)
		return
	}

	dist, err := web.DistFS()
	if err != nil {
		http.Error(w, "web UI not embedded", http.StatusInternalServerError)
		return
	}

	if name := strings.TrimPrefix(path.Clean(r.URL.Path), "/"); name != "" {
		if st, err := fs.Stat(dist, name); err == nil && !st.IsDir() {
			http.ServeFileFS(w, r, dist, name)
			return
		}
	}

	page, err := fs.ReadFile(dist, "index.html")
	if err != nil {
		http.Error(w, "web UI not embedded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

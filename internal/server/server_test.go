package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/mapscrape/internal/csvexport"
	"github.com/jackzampolin/mapscrape/internal/providers"
	"github.com/jackzampolin/mapscrape/internal/server/endpoints"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, gens map[string]providers.Generator, def string) *Server {
	t.Helper()
	reg := providers.NewRegistry()
	for name, g := range gens {
		reg.Register(name, g)
	}
	reg.SetDefault(def)

	srv, err := New(Config{Port: "0", Registry: reg, Logger: quietLogger()})
	require.NoError(t, err)
	return srv
}

func mockServer(t *testing.T) (*Server, *providers.MockClient) {
	t.Helper()
	mock := providers.NewMockClient()
	mock.Latency = 0
	return newTestServer(t, map[string]providers.Generator{"mock": mock}, "mock"), mock
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const coffeeSearch = `{"category":"Coffee Shops","location":"Baku, Azerbaijan"}`

func TestServer_Health(t *testing.T) {
	srv, _ := mockServer(t)

	rec := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeJSON[endpoints.HealthResponse](t, rec).Status)
}

func TestServer_Ready(t *testing.T) {
	t.Run("default provider registered", func(t *testing.T) {
		srv, _ := mockServer(t)
		rec := do(t, srv, http.MethodGet, "/ready", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "mock", decodeJSON[endpoints.HealthResponse](t, rec).Provider)
	})

	t.Run("no provider", func(t *testing.T) {
		srv := newTestServer(t, nil, "gemini")
		rec := do(t, srv, http.MethodGet, "/ready", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "degraded", decodeJSON[endpoints.HealthResponse](t, rec).Status)
	})
}

func TestServer_Status(t *testing.T) {
	srv, _ := mockServer(t)

	resp := decodeJSON[endpoints.StatusResponse](t, do(t, srv, http.MethodGet, "/status", ""))
	assert.Equal(t, "running", resp.Server)
	assert.Equal(t, []string{"mock"}, resp.Providers.Registered)
	assert.Equal(t, "idle", string(resp.Session.State))
	assert.Zero(t, resp.Places)

	do(t, srv, http.MethodPost, "/api/search", coffeeSearch)
	resp = decodeJSON[endpoints.StatusResponse](t, do(t, srv, http.MethodGet, "/status", ""))
	assert.True(t, resp.Session.Complete)
	assert.Equal(t, 3, resp.Places)
}

func TestServer_Categories(t *testing.T) {
	srv, _ := mockServer(t)

	resp := decodeJSON[endpoints.CategoriesResponse](t, do(t, srv, http.MethodGet, "/api/categories", ""))
	require.Len(t, resp.Categories, 10)
	assert.Equal(t, "Coffee Shops", resp.Categories[0])
}

func TestServer_SearchAndExport(t *testing.T) {
	srv, mock := mockServer(t)

	rec := do(t, srv, http.MethodPost, "/api/search", coffeeSearch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeJSON[endpoints.SearchResponse](t, rec)
	assert.Equal(t, "Coffee Shops in Baku, Azerbaijan", resp.Query)
	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Places, 3)
	assert.Equal(t, "https://maps.google.com/?cid=1001", resp.Places[0].GoogleMapsURL)
	assert.True(t, resp.Status.Complete)
	assert.True(t, mock.LastRequest().EnableMaps)

	results := decodeJSON[endpoints.SearchResponse](t, do(t, srv, http.MethodGet, "/api/results", ""))
	assert.Equal(t, resp.Places, results.Places)

	rec = do(t, srv, http.MethodGet, "/api/results/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, csvexport.ContentType, rec.Header().Get("Content-Type"))

	_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "coffee-shops-baku--azerbaijan.csv", params["filename"])

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, csvexport.BOM+`"Name","Address"`))
	rows, err := csvexport.Parse(body)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, "https://maps.google.com/?cid=1002", rows[2][6])

	metricsBody := do(t, srv, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, metricsBody, `mapscrape_searches_total{outcome="success",provider="mock"} 1`)
	assert.Contains(t, metricsBody, "mapscrape_exports_total 1")
}

func TestServer_SearchValidation(t *testing.T) {
	srv, mock := mockServer(t)

	bodies := map[string]string{
		"not json":         `{`,
		"missing location": `{"category":"Hotels"}`,
		"blank category":   `{"category":"   ","location":"Oslo"}`,
		"wrong type":       `{"category":1,"location":"Oslo"}`,
		"unknown field":    `{"category":"Hotels","location":"Oslo","page":2}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/search", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeJSON[endpoints.ErrorResponse](t, rec).Error)
		})
	}
	assert.Zero(t, mock.RequestCount())
}

func TestServer_SearchErrors(t *testing.T) {
	t.Run("missing credential", func(t *testing.T) {
		srv := newTestServer(t, map[string]providers.Generator{
			"gemini": providers.NewGeminiClient(providers.GeminiConfig{}),
		}, "gemini")

		rec := do(t, srv, http.MethodPost, "/api/search", coffeeSearch)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, providers.ErrMissingCredential.Error(), decodeJSON[endpoints.ErrorResponse](t, rec).Error)
	})

	t.Run("unknown provider", func(t *testing.T) {
		srv, _ := mockServer(t)
		rec := do(t, srv, http.MethodPost, "/api/search", `{"category":"Hotels","location":"Oslo","provider":"nope"}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		srv, mock := mockServer(t)
		mock.ShouldFail = true
		mock.FailMessage = "Resource has been exhausted"

		rec := do(t, srv, http.MethodPost, "/api/search", coffeeSearch)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "Resource has been exhausted", decodeJSON[endpoints.ErrorResponse](t, rec).Error)
		assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/results", "").Code)
	})

	t.Run("busy", func(t *testing.T) {
		srv, mock := mockServer(t)
		mock.Block = make(chan struct{})

		first := make(chan int, 1)
		go func() {
			first <- do(t, srv, http.MethodPost, "/api/search", coffeeSearch).Code
		}()
		require.Eventually(t, srv.Session().Busy, 2*time.Second, 5*time.Millisecond)

		rec := do(t, srv, http.MethodPost, "/api/search", coffeeSearch)
		assert.Equal(t, http.StatusConflict, rec.Code)

		close(mock.Block)
		assert.Equal(t, http.StatusOK, <-first)
	})
}

func TestServer_NoResults(t *testing.T) {
	srv, mock := mockServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/results", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/results/export", "").Code)

	mock.ResponseText = "No table today."
	rec := do(t, srv, http.MethodPost, "/api/search", coffeeSearch)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[endpoints.SearchResponse](t, rec)
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Places)
	assert.Equal(t, "No business data found. Try refining the location or category.", resp.Status.Message)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/results/export", "").Code)
}

func TestServer_Prompts(t *testing.T) {
	srv, _ := mockServer(t)

	list := decodeJSON[endpoints.PromptsListResponse](t, do(t, srv, http.MethodGet, "/api/prompts", ""))
	require.Len(t, list.Prompts, 2)
	assert.Equal(t, "places.system", list.Prompts[0].Key)
	assert.Equal(t, "places.user", list.Prompts[1].Key)
	assert.Contains(t, list.Prompts[1].Variables, "Query")

	rec := do(t, srv, http.MethodGet, "/api/prompts/places.user", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/prompts/missing", "").Code)
}

func TestServer_Static(t *testing.T) {
	srv, _ := mockServer(t)

	for _, path := range []string{"/", "/some/page"} {
		rec := do(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "mapscrape")
	}

	rec := do(t, srv, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestServer_Lifecycle(t *testing.T) {
	srv, _ := mockServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start(ctx)
	}()

	require.Eventually(t, srv.IsRunning, 2*time.Second, 10*time.Millisecond)
	baseURL := fmt.Sprintf("http://%s", srv.Addr())
	require.NoError(t, waitForServer(ctx, baseURL, 5*time.Second))

	assert.Error(t, srv.Start(ctx), "second Start should fail")

	cancel()
	select {
	case err := <-serverErr:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, srv.IsRunning())
}

// waitForServer polls the server until it responds or timeout.
func waitForServer(ctx context.Context, baseURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
		if err != nil {
			return err
		}

		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		time.Sleep(50 * time.Millisecond)
	}

	return fmt.Errorf("server not ready after %s", timeout)
}

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RecordSearch(t *testing.T) {
	r := NewRecorder()

	r.RecordSearch("gemini", OutcomeSuccess, 12, 3*time.Second)
	r.RecordSearch("gemini", OutcomeSuccess, 4, time.Second)
	r.RecordSearch("gemini", OutcomeUpstream, 0, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.searches.WithLabelValues("gemini", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.searches.WithLabelValues("gemini", OutcomeUpstream)))
	assert.Equal(t, 1, testutil.CollectAndCount(r.places))
}

func TestRecorder_InFlight(t *testing.T) {
	r := NewRecorder()

	done := r.SearchStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(r.inFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(r.inFlight))
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	r.RecordSearch("x", OutcomeSuccess, 1, time.Second)
	r.RecordTokens("x", 1, 1)
	r.RecordExport(3)
	r.SearchStarted()()
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.RecordExport(7)
	r.RecordTokens("gemini", 100, 50)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, "mapscrape_exports_total 1"))
	assert.True(t, strings.Contains(text, "mapscrape_exported_places_total 7"))
	assert.True(t, strings.Contains(text, `mapscrape_tokens_total{kind="prompt",provider="gemini"} 100`))
}

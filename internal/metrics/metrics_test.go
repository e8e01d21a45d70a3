package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/risk/score", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	handler := Middleware(mux)

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "POST /api/risk/score", "201"))
	unmatchedBefore := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/risk/score", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-admin/setup.php", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "POST /api/risk/score", "201")))
	assert.Equal(t, unmatchedBefore+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestMiddleware_SkipsMetricsEndpoint(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "200"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, before, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "200")))
}

func TestRecordHelpers(t *testing.T) {
	scored := testutil.ToFloat64(HazardsScored)
	reloadsOK := testutil.ToFloat64(RulesetReloads.WithLabelValues("success"))
	baseline := testutil.ToFloat64(TriageLines.WithLabelValues("baseline"))

	RecordScore("slope-work", []float64{85.05, 12})
	RulesetReloaded(true)
	RecordTriage(4, 1, 2, 1)

	assert.Equal(t, scored+2, testutil.ToFloat64(HazardsScored))
	assert.Equal(t, reloadsOK+1, testutil.ToFloat64(RulesetReloads.WithLabelValues("success")))
	assert.Equal(t, baseline+2, testutil.ToFloat64(TriageLines.WithLabelValues("baseline")))
}

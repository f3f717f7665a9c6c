package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveQuery(t *testing.T) {
	before := testutil.ToFloat64(QueriesTotal.WithLabelValues("dot", OutcomeOK))
	rowsBefore := testutil.ToFloat64(RowsReturned.WithLabelValues("dot"))

	Prometheus{}.ObserveQuery("dot", OutcomeOK, 5*time.Millisecond, 3)

	assert.Equal(t, before+1, testutil.ToFloat64(QueriesTotal.WithLabelValues("dot", OutcomeOK)))
	assert.Equal(t, rowsBefore+3, testutil.ToFloat64(RowsReturned.WithLabelValues("dot")))
}

func TestObserveQuery_EmptyStrategy(t *testing.T) {
	before := testutil.ToFloat64(QueriesTotal.WithLabelValues("unknown", OutcomeInvalid))

	Prometheus{}.ObserveQuery("", OutcomeInvalid, time.Millisecond, 0)

	assert.Equal(t, before+1, testutil.ToFloat64(QueriesTotal.WithLabelValues("unknown", OutcomeInvalid)))
}

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/housing/dot", "200"))

	ObserveRequest("GET", "/housing/dot", "200", time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/housing/dot", "200")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	Prometheus{}.ObserveQuery("jq", OutcomeOK, time.Millisecond, 1)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "housing_queries_total")
	assert.Contains(t, rec.Body.String(), "housing_query_duration_seconds")
}

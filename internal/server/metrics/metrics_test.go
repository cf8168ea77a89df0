package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector_Exposition(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := NewPrometheusCollector(reg)

	c.RecordOperation("mutation")
	c.RecordOperation("mutation")
	c.RecordOperation("query")
	c.RecordAuthFailure()
	c.RecordBookAdded()
	c.RecordEventPublished()
	c.SetSubscribers(3)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `librarium_graphql_operations_total{kind="mutation"} 2`), body)
	assert.Contains(t, body, "librarium_auth_failures_total 1")
	assert.Contains(t, body, "librarium_books_added_total 1")
	assert.Contains(t, body, "librarium_events_published_total 1")
	assert.Contains(t, body, "librarium_subscribers 3")
}

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry("scholarsync", reg)

	require.NotNil(t, m)

	m.RequestsTotal.WithLabelValues("GET", "/api/papers", "200").Inc()
	m.RequestDuration.WithLabelValues("/api/papers").Observe(0.05)
	m.SearchesTotal.Inc()
	m.PapersSaved.Inc()
	m.PapersDeleted.Inc()
	m.ListsCreated.Inc()
	m.ListsDeleted.Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}

	assert.True(t, names["scholarsync_http_requests_total"])
	assert.True(t, names["scholarsync_http_request_duration_seconds"])
	assert.True(t, names["scholarsync_searches_total"])
	assert.True(t, names["scholarsync_papers_saved_total"])
	assert.True(t, names["scholarsync_reading_lists_created_total"])
}

func TestNewMetricsWithRegistryIsolated(t *testing.T) {
	// Two fresh registries can hold the same metric names without panicking.
	_ = NewMetricsWithRegistry("scholarsync", prometheus.NewRegistry())
	_ = NewMetricsWithRegistry("scholarsync", prometheus.NewRegistry())
}

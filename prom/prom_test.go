package prom

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Build(t *testing.T) {
	c := NewCollector(nil)

	c.RecordBuild(120, 7, 20*time.Millisecond, nil)
	c.RecordBuild(0, 0, time.Millisecond, errors.New("boom"))
	c.RecordBuild(30, 2, 5*time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.builds.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.builds.WithLabelValues("error")))
}

func TestCollector_Nearest(t *testing.T) {
	c := NewCollector(nil)

	c.RecordNearest(3, time.Millisecond, nil)
	c.RecordNearest(3, time.Millisecond, errors.New("missing"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.nearest.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.nearest.WithLabelValues("error")))
}

func TestCollector_HTTP(t *testing.T) {
	c := NewCollector(nil)

	c.RecordHTTP("GET", "/api/layer/{layer}/ballmapper", 200, time.Second)
	c.RecordHTTP("GET", "/api/layer/{layer}/ballmapper", 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/api/layer/{layer}/ballmapper", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/api/layer/{layer}/ballmapper", "404")))
}

func TestCollector_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordBuild(10, 2, time.Millisecond, nil)
	c.RecordHTTP("GET", "/health", 200, time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["ballmap_builds_total"])
	assert.True(t, names["ballmap_build_duration_seconds"])
	assert.True(t, names["ballmap_build_points"])
	assert.True(t, names["ballmap_http_requests_total"])

	assert.Panics(t, func() { NewCollector(reg) }, "duplicate registration must fail")
}

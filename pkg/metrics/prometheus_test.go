package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_CountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p := NewPrometheus(NewPrometheusOptions{Subsystem: "test", Registry: prometheus.NewRegistry()})

	r := gin.New()
	p.Use(r)
	r.GET("/api/journal/entries/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/journal/entries/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	require.Equal(t, 2.0, testutil.ToFloat64(p.reqCnt.WithLabelValues("204", http.MethodGet, "/api/journal/entries/:id")))
}

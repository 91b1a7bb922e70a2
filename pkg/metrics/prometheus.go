package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultMetricPath = "/metrics"

type Logger interface {
	Errorf(format string, v ...interface{})
}

// URLLabelFn maps a request to its "url" label; use route templates to bound cardinality.
type URLLabelFn func(c *gin.Context) string

// Prometheus collects HTTP metrics for a gin engine and serves them on a separate listener.
type Prometheus struct {
	reqCnt *prometheus.CounterVec
	reqDur *prometheus.HistogramVec
	resSz  *prometheus.SummaryVec

	urlLabel URLLabelFn
	logger   Logger
	server   *http.Server
}

type NewPrometheusOptions struct {
	Subsystem string
	URLLabel  URLLabelFn
	Logger    Logger
	Registry  prometheus.Registerer
}

func NewPrometheus(o NewPrometheusOptions) *Prometheus {
	labels := []string{"code", "method", "url"}
	p := &Prometheus{
		reqCnt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: o.Subsystem, Name: "req_total",
			Help: "How many HTTP requests processed, partitioned by status code and HTTP method.",
		}, labels),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: o.Subsystem, Name: "req_dur_ms",
			Help: "The HTTP request latencies in milliseconds.", Buckets: HistogramBuckets,
		}, labels),
		resSz: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Namespace: namespace, Subsystem: o.Subsystem, Name: "resp_sz_bytes",
			Help: "The HTTP response sizes in bytes.",
		}, labels),
		urlLabel: o.URLLabel,
		logger:   o.Logger,
	}
	if p.urlLabel == nil {
		p.urlLabel = func(c *gin.Context) string {
			if fp := c.FullPath(); fp != "" {
				return fp
			}
			return "unmatched"
		}
	}
	reg := o.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{p.reqCnt, p.reqDur, p.resSz} {
		if err := reg.Register(c); err != nil && p.logger != nil {
			p.logger.Errorf("metric could not be registered in Prometheus, err=%v", err)
		}
	}
	return p
}

// HandlerFunc records request count, latency and response size.
func (p *Prometheus) HandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		url := p.urlLabel(c)
		p.reqDur.WithLabelValues(status, c.Request.Method, url).Observe(MillisecondsSince(start))
		p.reqCnt.WithLabelValues(status, c.Request.Method, url).Inc()
		p.resSz.WithLabelValues(status, c.Request.Method, url).Observe(float64(c.Writer.Size()))
	}
}

// Use attaches the middleware to e.
func (p *Prometheus) Use(e *gin.Engine) {
	e.Use(p.HandlerFunc())
}

// Serve exposes /metrics on addr until Shutdown is called.
func (p *Prometheus) Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle(defaultMetricPath, promhttp.Handler())
	p.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := p.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && p.logger != nil {
			p.logger.Errorf("metrics server error: %v", err)
		}
	}()
}

func (p *Prometheus) Shutdown(ctx context.Context) error {
	if p.server == nil {
		return nil
	}
	return p.server.Shutdown(ctx)
}

// MillisecondsSince returns the elapsed time since start in fractional milliseconds.
func MillisecondsSince(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / float64(time.Millisecond)
}

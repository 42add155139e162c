// Package metrics records build and development server measurements with Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/loom/internal/core/ports"
)

const namespace = "loom"

var _ ports.Metrics = (*Recorder)(nil)

// Recorder implements ports.Metrics on a Prometheus registry.
type Recorder struct {
	reg *prom.Registry

	buildDuration *prom.HistogramVec
	builds        *prom.CounterVec
	nodeDuration  *prom.HistogramVec
	nodeResults   *prom.CounterVec
	sseClients    prom.Gauge
	proxied       *prom.CounterVec
}

// NewRecorder constructs the collectors and registers them on reg.
// A nil reg creates a private registry.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		reg: reg,
		buildDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of complete builds",
			Buckets:   prom.DefBuckets,
		}, []string{"outcome"}),
		builds: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Builds by outcome",
		}, []string{"outcome"}),
		nodeDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "node_duration_seconds",
			Help:      "Duration of individual pipeline nodes",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		nodeResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "node_results_total",
			Help:      "Pipeline node results by kind and outcome",
		}, []string{"kind", "result"}),
		sseClients: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "build_event_clients",
			Help:      "Connected build event stream clients",
		}),
		proxied: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "proxy_requests_total",
			Help:      "Proxied requests by route prefix and relayed status code",
		}, []string{"prefix", "code"}),
	}
	reg.MustRegister(r.buildDuration, r.builds, r.nodeDuration, r.nodeResults, r.sseClients, r.proxied)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveBuild records a finished build.
func (r *Recorder) ObserveBuild(outcome string, d time.Duration) {
	r.buildDuration.WithLabelValues(outcome).Observe(d.Seconds())
	r.builds.WithLabelValues(outcome).Inc()
}

// ObserveNode records one pipeline node run.
func (r *Recorder) ObserveNode(kind string, d time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failed"
	}
	r.nodeDuration.WithLabelValues(kind).Observe(d.Seconds())
	r.nodeResults.WithLabelValues(kind, result).Inc()
}

// SSEClientConnected increments the connected client gauge.
func (r *Recorder) SSEClientConnected() {
	r.sseClients.Inc()
}

// SSEClientDisconnected decrements the connected client gauge.
func (r *Recorder) SSEClientDisconnected() {
	r.sseClients.Dec()
}

// ObserveProxy records a proxied request.
func (r *Recorder) ObserveProxy(prefix string, status int) {
	r.proxied.WithLabelValues(prefix, strconv.Itoa(status)).Inc()
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Intent outcomes recorded by the writer.
const (
	ResultStored   = "stored"
	ResultUnstored = "unstored"
	ResultInvalid  = "invalid"
	ResultFailed   = "failed"
)

// Metrics holds the service collectors. A nil *Metrics is a no-op.
type Metrics struct {
	reg *prometheus.Registry

	intentsTotal    *prometheus.CounterVec
	fallbackServed  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		intentsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_intents_total",
				Help: "Intake submissions by outcome",
			},
			[]string{"result"},
		),
		fallbackServed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_fallback_served_total",
				Help: "Read responses served from the static fallback payload",
			},
			[]string{"payload"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intake_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"route", "method", "status"},
		),
	}
}

func (m *Metrics) IntentRecorded(result string) {
	if m == nil {
		return
	}
	m.intentsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) FallbackServed(payload string) {
	if m == nil {
		return
	}
	m.fallbackServed.WithLabelValues(payload).Inc()
}

func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
}

// Registry exposes the underlying registry (tests gather from it).
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the exposition format for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

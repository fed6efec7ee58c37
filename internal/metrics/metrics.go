// Package metrics expone los contadores Prometheus del servidor.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los instrumentos del servidor HTTP y del hub websocket.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	WSClients        prometheus.Gauge
	CSRFRejections   prometheus.Counter
}

// New crea el registry con los collectors del proceso incluidos.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edustack",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total de requests HTTP por método, ruta y status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "edustack",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de requests HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "edustack",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Requests HTTP en curso.",
		}),
		WSClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "edustack",
			Subsystem: "realtime",
			Name:      "ws_clients",
			Help:      "Clientes websocket conectados.",
		}),
		CSRFRejections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "edustack",
			Subsystem: "security",
			Name:      "csrf_rejections_total",
			Help:      "Requests rechazados por el gate CSRF.",
		}),
	}

	reg.MustRegister(prometheus.NewGoCollector())

	return m
}

// Handler retorna el handler de /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

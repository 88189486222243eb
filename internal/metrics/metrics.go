// Package metrics метрики Prometheus для обращений к движку и ошибок валидации.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "houseprice"

// Metrics набор метрик шлюза на собственном реестре
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests   *prometheus.CounterVec
	upstreamDuration   *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
	predictions        *prometheus.CounterVec
}

// New создает и регистрирует метрики
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)

	m := &Metrics{
		registry: registry,
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Обращения к движку оценки по эндпоинту и исходу.",
		}, []string{"endpoint", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Длительность обращений к движку оценки.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		}, []string{"endpoint"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Отклоненные формы по первому невалидному полю.",
		}, []string{"field"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Завершенные запросы на оценку по результату.",
		}, []string{"result"}),
	}

	registry.MustRegister(m.upstreamRequests, m.upstreamDuration, m.validationFailures, m.predictions)
	return m
}

// ObserveUpstream учитывает одно обращение к движку
func (m *Metrics) ObserveUpstream(endpoint, outcome string, duration time.Duration) {
	m.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.upstreamDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// ObserveValidationFailure учитывает отклоненную форму
func (m *Metrics) ObserveValidationFailure(field string) {
	m.validationFailures.WithLabelValues(field).Inc()
}

// ObservePrediction учитывает итог запроса на оценку (success, invalid, unavailable или canceled)
func (m *Metrics) ObservePrediction(result string) {
	m.predictions.WithLabelValues(result).Inc()
}

// Handler отдает метрики в текстовом формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

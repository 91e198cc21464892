package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kgeyst.com/digiteye/pkg/digiteye/domain"
	"kgeyst.com/digiteye/pkg/digiteye/infrastructure/retryhttp"
)

// Metrics keeps its collectors on a dedicated registry. It implements retryhttp.Observer.
type Metrics struct {
	registry       *prometheus.Registry
	attemptsTotal  *prometheus.CounterVec
	backoffSeconds prometheus.Counter
	queriesTotal   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		attemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "digiteye_request_attempts_total",
				Help: "HTTP attempts made against the model endpoint, by outcome",
			},
			[]string{"outcome"}, // success | retryable | terminal
		),
		backoffSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "digiteye_request_backoff_seconds_total",
			Help: "Time spent sleeping between attempts",
		}),
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "digiteye_vision_queries_total",
				Help: "Vision queries, by result",
			},
			[]string{"result"}, // answered | failed
		),
	}
	m.registry.MustRegister(m.attemptsTotal, m.backoffSeconds, m.queriesTotal)
	return m
}

func (m *Metrics) ObserveAttempt(outcome retryhttp.Outcome) {
	m.attemptsTotal.WithLabelValues(outcome.String()).Inc()
}

func (m *Metrics) ObserveBackoff(delay time.Duration) {
	m.backoffSeconds.Add(delay.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type visionModelDecorator struct {
	wrappedVisionModel domain.VisionModel
	metrics            *Metrics
}

// NewVisionModelDecorator counts answered and failed queries.
func NewVisionModelDecorator(wrappedVisionModel domain.VisionModel, metrics *Metrics) domain.VisionModel {
	return &visionModelDecorator{
		wrappedVisionModel: wrappedVisionModel,
		metrics:            metrics,
	}
}

func (v *visionModelDecorator) Ask(image []byte, mimeType, prompt, credential string) (string, error) {
	answer, err := v.wrappedVisionModel.Ask(image, mimeType, prompt, credential)
	if err != nil {
		v.metrics.queriesTotal.WithLabelValues("failed").Inc()
		return "", err
	}
	v.metrics.queriesTotal.WithLabelValues("answered").Inc()
	return answer, nil
}

// Package metrics records timing engine evaluations with Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aristath/tradedesk/internal/modules/calendar"
)

// Recorder collects evaluation, poller and stream metrics on its own registry.
type Recorder struct {
	registry      *prometheus.Registry
	evaluations   *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	polls         *prometheus.CounterVec
	lastSnapshot  prometheus.Gauge
	streamClients prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradedesk_evaluations_total",
				Help: "Total number of timing evaluations",
			},
			[]string{"operation", "result"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradedesk_errors_total",
				Help: "Total number of evaluation errors by kind",
			},
			[]string{"kind"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradedesk_evaluation_duration_seconds",
				Help:    "Duration of timing evaluations in seconds",
				Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .05, .1},
			},
			[]string{"operation"},
		),
		polls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradedesk_polls_total",
				Help: "Total number of scheduled snapshot polls",
			},
			[]string{"result"},
		),
		lastSnapshot: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tradedesk_last_snapshot_timestamp_seconds",
				Help: "Unix time of the last successful snapshot",
			},
		),
		streamClients: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tradedesk_stream_clients",
				Help: "Number of connected stream clients",
			},
		),
	}
}

// ObserveEvaluation records one query evaluation.
func (r *Recorder) ObserveEvaluation(operation string, elapsed time.Duration, err error) {
	r.latency.WithLabelValues(operation).Observe(elapsed.Seconds())
	if err != nil {
		r.evaluations.WithLabelValues(operation, "error").Inc()
		r.errorsTotal.WithLabelValues(ErrorKind(err)).Inc()
		return
	}
	r.evaluations.WithLabelValues(operation, "ok").Inc()
}

// RecordPoll records a poller run.
func (r *Recorder) RecordPoll(err error, generatedAt time.Time) {
	if err != nil {
		r.polls.WithLabelValues("error").Inc()
		return
	}
	r.polls.WithLabelValues("ok").Inc()
	r.lastSnapshot.Set(float64(generatedAt.Unix()))
}

// StreamConnected records a new stream client.
func (r *Recorder) StreamConnected() {
	r.streamClients.Inc()
}

// StreamDisconnected records a stream client leaving.
func (r *Recorder) StreamDisconnected() {
	r.streamClients.Dec()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ErrorKind labels an error by its timing error kind.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, calendar.ErrConfiguration):
		return "configuration"
	case errors.Is(err, calendar.ErrData):
		return "data"
	case errors.Is(err, calendar.ErrRange):
		return "range"
	}
	return "other"
}

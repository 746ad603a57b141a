package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the playback orchestrator.
type Metrics struct {
	registry              *prometheus.Registry
	requestsTotal         prometheus.Counter
	playersCreatedTotal   prometheus.Counter
	sessionsResolvedTotal prometheus.Counter
	seeksTotal            prometheus.Counter
	staleEventsTotal      prometheus.Counter
	timestampUpdatesTotal prometheus.Counter
	activePlayers         prometheus.Gauge
	errorsTotal           prometheus.Counter
}

// New creates and registers Prometheus metrics for the orchestrator.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_requests_total",
		Help: "Total number of HTTP requests received",
	})
	playersCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_players_created_total",
		Help: "Total number of player sessions created",
	})
	sessionsResolvedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_sessions_resolved_total",
		Help: "Total number of playback sessions resolved for a time range",
	})
	seeksTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_seeks_total",
		Help: "Total number of seeks issued through the controller",
	})
	staleEventsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_stale_events_dropped_total",
		Help: "Total number of lifecycle events dropped for superseded sessions",
	})
	timestampUpdatesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_timestamp_updates_total",
		Help: "Total number of timestamp updates forwarded to callers",
	})
	activePlayers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "playback_active_players",
		Help: "Number of live player sessions",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "playback_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})

	registry.MustRegister(
		requestsTotal,
		playersCreatedTotal,
		sessionsResolvedTotal,
		seeksTotal,
		staleEventsTotal,
		timestampUpdatesTotal,
		activePlayers,
		errorsTotal,
	)

	return &Metrics{
		registry:              registry,
		requestsTotal:         requestsTotal,
		playersCreatedTotal:   playersCreatedTotal,
		sessionsResolvedTotal: sessionsResolvedTotal,
		seeksTotal:            seeksTotal,
		staleEventsTotal:      staleEventsTotal,
		timestampUpdatesTotal: timestampUpdatesTotal,
		activePlayers:         activePlayers,
		errorsTotal:           errorsTotal,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncPlayersCreated increments the players created counter.
func (m *Metrics) IncPlayersCreated() {
	m.playersCreatedTotal.Inc()
}

// IncSessionsResolved increments the sessions resolved counter.
func (m *Metrics) IncSessionsResolved() {
	m.sessionsResolvedTotal.Inc()
}

// IncSeeks increments the seeks counter.
func (m *Metrics) IncSeeks() {
	m.seeksTotal.Inc()
}

// IncStaleEventsDropped increments the stale events dropped counter.
func (m *Metrics) IncStaleEventsDropped() {
	m.staleEventsTotal.Inc()
}

// IncTimestampUpdates increments the forwarded timestamp updates counter.
func (m *Metrics) IncTimestampUpdates() {
	m.timestampUpdatesTotal.Inc()
}

// SetActivePlayers sets the live player sessions gauge.
func (m *Metrics) SetActivePlayers(n int) {
	m.activePlayers.Set(float64(n))
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values (e.g.
// active players).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}

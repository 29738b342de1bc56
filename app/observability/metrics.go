package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the standings board.
type Metrics struct {
	reloads        *prometheus.CounterVec
	profileLookups *prometheus.CounterVec
	players        prometheus.Gauge
	matched        prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	chartRenders   *prometheus.CounterVec
}

// NewMetrics registers the collectors on registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ServiceName,
			Name:      "reloads_total",
			Help:      "Standings reloads by result.",
		}, []string{"result"}),
		profileLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ServiceName,
			Name:      "profile_lookups_total",
			Help:      "Profile file lookups by outcome.",
		}, []string{"outcome"}),
		players: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ServiceName,
			Name:      "players",
			Help:      "Players in the current standings snapshot.",
		}),
		matched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ServiceName,
			Name:      "players_with_profile",
			Help:      "Players in the current snapshot with a matched profile.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ServiceName,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		chartRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ServiceName,
			Name:      "chart_renders_total",
			Help:      "Chart renders by kind and theme.",
		}, []string{"kind", "theme"}),
	}

	registry.MustRegister(m.reloads, m.profileLookups, m.players, m.matched, m.httpRequests, m.chartRenders)
	return m
}

// RecordReload counts a reload attempt.
func (m *Metrics) RecordReload(err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.reloads.WithLabelValues(result).Inc()
}

// RecordProfileLookup counts a profile lookup outcome.
func (m *Metrics) RecordProfileLookup(outcome string) {
	m.profileLookups.WithLabelValues(outcome).Inc()
}

// SetSnapshotSize publishes the size of the current snapshot.
func (m *Metrics) SetSnapshotSize(players, matched int) {
	m.players.Set(float64(players))
	m.matched.Set(float64(matched))
}

// RecordChartRender counts a rendered chart.
func (m *Metrics) RecordChartRender(kind, theme string) {
	m.chartRenders.WithLabelValues(kind, theme).Inc()
}

// RecordHTTPRequest counts a served request.
func (m *Metrics) RecordHTTPRequest(route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	if status == 0 {
		status = http.StatusOK
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

package stats

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes run counters in Prometheus form so long simulations can be
// watched while they run.
type Metrics struct {
	registry *prometheus.Registry

	rounds  prometheus.Counter
	entries prometheus.Counter
	wins    *prometheus.CounterVec
	losses  prometheus.Counter
	skips   *prometheus.CounterVec
	winRate prometheus.Gauge
}

// NewMetrics builds a metrics set on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "doubledown",
			Name:      "rounds_total",
			Help:      "Outcomes observed, entered or not.",
		}),
		entries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "doubledown",
			Name:      "entries_total",
			Help:      "Decisions that entered a bet.",
		}),
		wins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doubledown",
			Name:      "wins_total",
			Help:      "Entries won, by ladder level.",
		}, []string{"level"}),
		losses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "doubledown",
			Name:      "losses_total",
			Help:      "Entries that exhausted the ladder.",
		}),
		skips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doubledown",
			Name:      "skips_total",
			Help:      "Rounds skipped, by reason.",
		}, []string{"reason"}),
		winRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "doubledown",
			Name:      "win_rate",
			Help:      "Wins over resolved entries.",
		}),
	}
	m.registry.MustRegister(m.rounds, m.entries, m.wins, m.losses, m.skips, m.winRate)
	return m
}

// ObserveRound counts one observed outcome.
func (m *Metrics) ObserveRound() {
	m.rounds.Inc()
}

// ObserveEntry counts one entered decision.
func (m *Metrics) ObserveEntry() {
	m.entries.Inc()
}

// ObserveWin counts a win at a ladder level.
func (m *Metrics) ObserveWin(level int) {
	m.wins.WithLabelValues(strconv.Itoa(level)).Inc()
}

// ObserveLoss counts a lost entry.
func (m *Metrics) ObserveLoss() {
	m.losses.Inc()
}

// ObserveSkip counts a skipped round under its reason.
func (m *Metrics) ObserveSkip(reason string) {
	m.skips.WithLabelValues(reason).Inc()
}

// SetWinRate publishes the current win rate.
func (m *Metrics) SetWinRate(rate float64) {
	m.winRate.Set(rate)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

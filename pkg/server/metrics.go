package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haneul-mud/haneul/pkg/interp"
)

// Metrics holds Prometheus metric descriptors for the game server. Each
// instance has its own registry. A nil *Metrics records nothing.
type Metrics struct {
	registry  *prometheus.Registry
	startTime time.Time

	connectionsTotal *prometheus.CounterVec
	dispatchTotal    *prometheus.CounterVec
	loginsTotal      *prometheus.CounterVec
	dupesTotal       *prometheus.CounterVec
	connsByState     *prometheus.GaugeVec
	playersOnline    prometheus.Gauge
	uptimeSeconds    prometheus.Gauge
	memoryHeapBytes  prometheus.Gauge
	goroutines       prometheus.Gauge
}

// NewMetrics creates and registers Prometheus metrics for the game.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
		connectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "haneul_connections_total",
			Help: "Total connections since server start.",
		}, []string{"transport"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "haneul_commands_dispatched_total",
			Help: "Interpreted input lines by where dispatch stopped.",
		}, []string{"outcome"}),
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "haneul_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		dupesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "haneul_duplicate_logins_total",
			Help: "Logins that found their player already in the game, by resolution.",
		}, []string{"mode"}),
		connsByState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "haneul_connections",
			Help: "Open connections by connection state.",
		}, []string{"state"}),
		playersOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "haneul_players_online",
			Help: "Player characters in the world, linked or not.",
		}),
		uptimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "haneul_uptime_seconds",
			Help: "Server uptime in seconds.",
		}),
		memoryHeapBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "haneul_memory_heap_bytes",
			Help: "Go heap memory allocated in bytes.",
		}),
		goroutines: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "haneul_goroutines",
			Help: "Number of active goroutines.",
		}),
	}

	m.registry.MustRegister(
		m.connectionsTotal,
		m.dispatchTotal,
		m.loginsTotal,
		m.dupesTotal,
		m.connsByState,
		m.playersOnline,
		m.uptimeSeconds,
		m.memoryHeapBytes,
		m.goroutines,
	)
	return m
}

// Connected counts a new connection.
func (m *Metrics) Connected(t TransportType) {
	if m == nil {
		return
	}
	m.connectionsTotal.WithLabelValues(t.String()).Inc()
}

// Dispatched counts one interpreted line.
func (m *Metrics) Dispatched(o interp.Outcome) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(o.String()).Inc()
}

// Login counts one login attempt.
func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.loginsTotal.WithLabelValues(result).Inc()
}

// Dupe counts one duplicate-login resolution.
func (m *Metrics) Dupe(mode DupeMode) {
	if m == nil {
		return
	}
	m.dupesTotal.WithLabelValues(mode.String()).Inc()
}

// Observe refreshes the gauges that describe game state. It must run on
// the game thread.
func (m *Metrics) Observe(g *Game) {
	if m == nil {
		return
	}
	m.connsByState.Reset()
	for _, d := range g.Conns.AllDescriptors() {
		m.connsByState.WithLabelValues(d.State.String()).Inc()
	}
	players := 0
	for _, ch := range g.World.Characters() {
		if !ch.IsNPC() {
			players++
		}
	}
	m.playersOnline.Set(float64(players))
}

// updateRuntime refreshes the process gauges.
func (m *Metrics) updateRuntime() {
	m.uptimeSeconds.Set(time.Since(m.startTime).Seconds())
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	m.memoryHeapBytes.Set(float64(mem.HeapAlloc))
	m.goroutines.Set(float64(runtime.NumGoroutine()))
}

// Handler returns an http.Handler that updates metrics before serving them.
func (m *Metrics) Handler() http.Handler {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.updateRuntime()
		h.ServeHTTP(w, r)
	})
}

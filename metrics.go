package aspen

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsPluginKey is the global plugin key of the MetricsPlugin.
const MetricsPluginKey = "metrics"

// MetricsPlugin is a global plugin exporting loop and loader metrics to
// Prometheus. Collectors have no per-scene labels.
type MetricsPlugin struct {
	BasePlugin

	registry   prometheus.Registerer
	collectors []prometheus.Collector

	stepDuration   prometheus.Histogram
	renderDuration prometheus.Histogram
	activeScenes   prometheus.Gauge
	frames         prometheus.Counter
	timerEvents    prometheus.Counter
	loaderFiles    *prometheus.CounterVec

	stepStart   time.Time
	renderStart time.Time
}

// NewMetricsPlugin is the PluginFactory for MetricsPlugin. Install it with
// a prometheus.Registerer as data, or nil for a private registry.
func NewMetricsPlugin(pm *PluginManager) Plugin {
	return &MetricsPlugin{BasePlugin: NewBasePlugin(pm)}
}

func (m *MetricsPlugin) Init(data any) {
	reg, _ := data.(prometheus.Registerer)
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m.registry = reg

	m.stepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "aspen_step_duration_seconds",
		Help:    "Time spent in one game step",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.016, 0.033, 0.05, 0.1},
	})
	m.renderDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "aspen_render_duration_seconds",
		Help:    "Time spent rendering one frame",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.016, 0.033, 0.05, 0.1},
	})
	m.activeScenes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "aspen_active_scenes",
		Help: "Scenes currently running",
	})
	m.frames = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aspen_steps_total",
		Help: "Game steps run",
	})
	m.timerEvents = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aspen_timer_events_total",
		Help: "Timer event callbacks dispatched",
	})
	m.loaderFiles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aspen_loader_files_total",
		Help: "Loader jobs finished",
	}, []string{"result"}) // "ok" or "error"

	m.collectors = []prometheus.Collector{
		m.stepDuration, m.renderDuration, m.activeScenes,
		m.frames, m.timerEvents, m.loaderFiles,
	}
	for _, c := range m.collectors {
		if err := reg.Register(c); err != nil {
			warnf("metrics: %v", err)
		}
	}
}

// Start observes the game loop.
func (m *MetricsPlugin) Start() {
	g := m.game
	if g == nil {
		return
	}
	On(g.events, GamePreStep, m, func(Step) { m.stepStart = time.Now() })
	On(g.events, GamePostStep, m, func(Step) {
		m.stepDuration.Observe(time.Since(m.stepStart).Seconds())
		m.frames.Inc()
		m.activeScenes.Set(float64(len(g.scene.GetScenes(true, false))))
	})
	On(g.events, GamePreRender, m, func(*ebiten.Image) { m.renderStart = time.Now() })
	On(g.events, GamePostRender, m, func(*ebiten.Image) {
		m.renderDuration.Observe(time.Since(m.renderStart).Seconds())
	})
}

// Stop detaches from the game loop. Collected values are kept.
func (m *MetricsPlugin) Stop() {
	if m.game != nil {
		m.game.events.RemoveOwner(m)
	}
}

// Registerer returns the registerer the collectors were added to.
func (m *MetricsPlugin) Registerer() prometheus.Registerer { return m.registry }

func (m *MetricsPlugin) observeFile(err error) {
	if err != nil {
		m.loaderFiles.WithLabelValues("error").Inc()
		return
	}
	m.loaderFiles.WithLabelValues("ok").Inc()
}

func (m *MetricsPlugin) observeTimer() { m.timerEvents.Inc() }

// Destroy unregisters every collector.
func (m *MetricsPlugin) Destroy() {
	m.Stop()
	if m.registry != nil {
		for _, c := range m.collectors {
			m.registry.Unregister(c)
		}
	}
	m.collectors = nil
	m.BasePlugin.Destroy()
}

package aspen

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func newMetricsGame(t *testing.T, scenes ...Sceneable) (*testGame, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	g := newTestGameWith(t, func(c *GameConfig) {
		c.Metrics = true
		c.MetricsRegisterer = reg
	}, scenes...)
	return g, reg
}

// metricValue returns the value of the counter or gauge called name whose
// labels include every pair in labels, and whether it was found.
func metricValue(t *testing.T, reg *prometheus.Registry, name string, labels ...string) (float64, bool) {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	metrics:
		for _, m := range f.GetMetric() {
			for i := 0; i+1 < len(labels); i += 2 {
				found := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == labels[i] && lp.GetValue() == labels[i+1] {
						found = true
					}
				}
				if !found {
					continue metrics
				}
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue(), true
			}
			if g := m.GetGauge(); g != nil {
				return g.GetValue(), true
			}
		}
	}
	return 0, false
}

func TestMetricsInstalledFromConfig(t *testing.T) {
	g, reg := newMetricsGame(t, newRecordScene("a"))
	m, ok := g.Plugins().Get(MetricsPluginKey, false).(*MetricsPlugin)
	if !ok || !g.Plugins().IsActive(MetricsPluginKey) {
		t.Fatal("metrics plugin not running")
	}
	if m.Registerer() != prometheus.Registerer(reg) {
		t.Error("collectors registered with another registerer")
	}

	plain := newTestGame(t, newRecordScene("a"))
	if plain.Plugins().Get(MetricsPluginKey, false) != nil {
		t.Error("metrics plugin installed without Metrics set")
	}
}

func TestMetricsCountSteps(t *testing.T) {
	g, reg := newMetricsGame(t, newRecordScene("a"))
	g.step(3)

	if v, _ := metricValue(t, reg, "aspen_steps_total"); v != 3 {
		t.Errorf("aspen_steps_total = %v, want 3", v)
	}
	if v, _ := metricValue(t, reg, "aspen_active_scenes"); v != 1 {
		t.Errorf("aspen_active_scenes = %v, want 1", v)
	}

	g.Scenes().Sleep("a", nil)
	g.step(1)
	if v, _ := metricValue(t, reg, "aspen_active_scenes"); v != 0 {
		t.Errorf("aspen_active_scenes after sleep = %v, want 0", v)
	}
}

func TestMetricsTimerEvents(t *testing.T) {
	s := newRecordScene("a")
	g, reg := newMetricsGame(t, s)
	fired := 0
	s.Time().AddEvent(TimerConfig{Delay: 10, Repeat: 1, Callback: func() { fired++ }})
	s.Time().AddEvent(TimerConfig{Delay: 10})
	g.step(4)

	if fired != 2 {
		t.Fatalf("fired = %d, want 2", fired)
	}
	if v, _ := metricValue(t, reg, "aspen_timer_events_total"); v != 2 {
		t.Errorf("aspen_timer_events_total = %v, want 2", v)
	}
}

func TestMetricsLoaderFiles(t *testing.T) {
	s := newRecordScene("a")
	g, reg := newMetricsGame(t, s)
	l := s.Load()
	l.Add("ok", CacheText, value("x"))
	l.Add("ok2", CacheText, value("y"))
	l.Add("bad", CacheText, func(context.Context) (any, error) { return nil, context.Canceled })
	l.Start()
	stepUntilLoaded(t, g, l)

	if v, _ := metricValue(t, reg, "aspen_loader_files_total", "result", "ok"); v != 2 {
		t.Errorf("ok files = %v, want 2", v)
	}
	if v, _ := metricValue(t, reg, "aspen_loader_files_total", "result", "error"); v != 1 {
		t.Errorf("error files = %v, want 1", v)
	}
}

func TestMetricsStopAndDestroy(t *testing.T) {
	g, reg := newMetricsGame(t, newRecordScene("a"))
	g.step(1)

	g.Plugins().Stop(MetricsPluginKey)
	g.step(2)
	if v, _ := metricValue(t, reg, "aspen_steps_total"); v != 1 {
		t.Errorf("stopped plugin counted steps: %v", v)
	}

	g.Destroy(false)
	g.step(1)
	if _, ok := metricValue(t, reg, "aspen_steps_total"); ok {
		t.Error("collectors still registered after destroy")
	}
}

package aspen

import (
	"math"
	"slices"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestProxyLaunchAppliesNextStep(t *testing.T) {
	a, b := newRecordScene("a"), newRecordScene("b")
	g := newTestGame(t, a, b)

	a.Proxy().Launch("b", "launched")
	if b.Sys().IsActive() {
		t.Fatal("Launch applied immediately")
	}
	g.step(1)
	if !b.Sys().IsActive() || !a.Sys().IsActive() {
		t.Fatalf("after step a=%v b=%v, want both running", a.Sys().GetStatus(), b.Sys().GetStatus())
	}
	if b.data[0] != "launched" {
		t.Errorf("b data = %v, want launched", b.data[0])
	}
}

func TestProxyLaunchSelfIgnored(t *testing.T) {
	a := newRecordScene("a")
	g := newTestGame(t, a)
	a.Proxy().Launch("a", nil).Launch("", nil)
	g.step(1)
	if len(a.log) != 2 {
		t.Errorf("self launch restarted the scene: %v", a.log)
	}
}

func TestProxyStartReplacesScene(t *testing.T) {
	a, b := newRecordScene("a"), newRecordScene("b")
	g := newTestGame(t, a, b)

	a.Proxy().Start("b", nil)
	g.step(1)
	if got := a.Sys().GetStatus(); got != StatusShutdown {
		t.Errorf("a status = %v, want shutdown", got)
	}
	if !b.Sys().IsActive() {
		t.Error("b not running")
	}
}

func TestProxyRestart(t *testing.T) {
	a := newRecordScene("a")
	g := newTestGame(t, a)
	a.Proxy().Restart("again")
	g.step(1)
	if !slices.Equal(a.log, []string{"init", "create", "init", "create"}) {
		t.Errorf("hooks = %v", a.log)
	}
	if a.data[1] != "again" {
		t.Errorf("restart data = %v, want again", a.data[1])
	}
}

func TestProxySwitchAndStop(t *testing.T) {
	a, b := newRecordScene("a"), newRecordScene("b")
	g := newTestGame(t, a, b)

	a.Proxy().Switch("b", nil)
	g.step(1)
	if !a.Sys().IsSleeping() || !b.Sys().IsActive() {
		t.Fatalf("after switch a=%v b=%v", a.Sys().GetStatus(), b.Sys().GetStatus())
	}

	b.Proxy().Stop("", nil)
	g.step(1)
	if got := b.Sys().GetStatus(); got != StatusShutdown {
		t.Errorf("b status = %v, want shutdown", got)
	}
}

func TestProxyDefaultsToOwnKey(t *testing.T) {
	a := newRecordScene("a")
	newTestGame(t, a)
	p := a.Proxy()

	if p.Key() != "a" {
		t.Errorf("Key = %q, want a", p.Key())
	}
	p.Pause("", nil)
	if !p.IsPaused("") {
		t.Error("Pause with empty key did not pause own scene")
	}
	p.SetActive(true, "", nil)
	if !p.IsActive("") {
		t.Error("SetActive(true) did not resume")
	}
	p.SetVisible(false, "")
	if p.IsVisible("") {
		t.Error("SetVisible(false) left the scene visible")
	}
	if p.GetStatus("missing") != StatusPending {
		t.Error("GetStatus of a missing scene is not pending")
	}
	if p.Get("a") != a.Scene {
		t.Error("Get(a) did not return own scene")
	}
}

func TestProxyTransition(t *testing.T) {
	a, b := newRecordScene("a"), newRecordScene("b")
	g := newTestGame(t, a, b)

	var progress []float64
	var events []string
	On(a.Events(), SceneTransitionOut, nil, func(Transition) { events = append(events, "out") })
	On(b.Events(), SceneTransitionStart, nil, func(tr Transition) {
		if tr.Scene != a.Scene {
			t.Error("transition start does not name the source scene")
		}
		events = append(events, "start")
	})
	On(b.Events(), SceneTransitionComplete, nil, func(Transition) { events = append(events, "complete") })

	ok := a.Proxy().Transition(TransitionConfig{
		Target:    "b",
		Duration:  100,
		MoveAbove: true,
		Data:      "in",
		OnUpdate:  func(p float64) { progress = append(progress, p) },
	})
	if !ok {
		t.Fatal("Transition = false, want true")
	}
	if !b.Sys().IsActive() || !b.Sys().IsTransitionIn() || !a.Sys().IsTransitionOut() {
		t.Fatal("transition did not start the target")
	}
	if a.Proxy().Transition(TransitionConfig{Target: "b"}) {
		t.Error("second transition while transitioning = true")
	}

	g.step(7)
	if !slices.Equal(events, []string{"start", "out", "complete"}) {
		t.Errorf("events = %v, want [start out complete]", events)
	}
	if len(progress) != 7 || progress[6] != 1 {
		t.Errorf("progress = %v, want 7 values ending at 1", progress)
	}
	assertNear(t, "progress[0]", progress[0], 0.16)
	if b.Sys().IsTransitioning() {
		t.Error("target still flagged as transitioning")
	}
	if got := a.Sys().GetStatus(); got != StatusShutdown {
		t.Errorf("source status on completion = %v, want shutdown", got)
	}

	updates := a.updates
	g.step(1)
	if a.updates != updates {
		t.Errorf("source updated %d more times after completing", a.updates-updates)
	}
	if b.data[0] != "in" {
		t.Errorf("target data = %v, want in", b.data[0])
	}
}

func TestProxyTransitionSleep(t *testing.T) {
	a, b := newRecordScene("a"), newRecordScene("b")
	g := newTestGame(t, a, b)

	a.Proxy().Transition(TransitionConfig{Target: "b", Duration: 16, Sleep: true})
	g.step(1)
	if !a.Sys().IsSleeping() {
		t.Errorf("source status = %v, want sleeping", a.Sys().GetStatus())
	}
}

func TestProxyTransitionInvalidTargets(t *testing.T) {
	a, b := newRecordScene("a"), newRecordScene("b")
	newTestGame(t, a, b)
	p := a.Proxy()

	if p.Transition(TransitionConfig{Target: "missing"}) {
		t.Error("transition to a missing scene = true")
	}
	if p.Transition(TransitionConfig{Target: "a"}) {
		t.Error("transition to self = true")
	}
	p.Manager().Run("b", nil)
	if p.Transition(TransitionConfig{Target: "b"}) {
		t.Error("transition to a running scene = true")
	}
}

func TestProxyTransitionInput(t *testing.T) {
	tests := []struct {
		name       string
		allowInput bool
	}{
		{"blocked", false},
		{"allowed", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := newRecordScene("a"), newRecordScene("b")
			g := newTestGame(t, a, b)

			a.Proxy().Transition(TransitionConfig{Target: "b", Duration: 48, AllowInput: tt.allowInput})
			if a.Input().Enabled != tt.allowInput || b.Input().Enabled != tt.allowInput {
				t.Errorf("during transition a=%v b=%v, want %v", a.Input().Enabled, b.Input().Enabled, tt.allowInput)
			}
			g.step(3)
			if a.Sys().IsTransitioning() || b.Sys().IsTransitioning() {
				t.Fatal("transition did not complete")
			}
			if !b.Input().Enabled {
				t.Error("target input not enabled after the transition")
			}
		})
	}
}

func TestProxyTransitionRemovesSource(t *testing.T) {
	a, b := newRecordScene("a"), newRecordScene("b")
	g := newTestGame(t, a, b)

	a.Proxy().Transition(TransitionConfig{Target: "b", Duration: 16, Remove: true})
	g.step(2)
	if g.Scenes().GetScene("a") != nil {
		t.Error("source still in the manager")
	}
	if got := stackKeys(g.Scenes()); !slices.Equal(got, []string{"b"}) {
		t.Errorf("scenes = %v, want [b]", got)
	}
	if !b.Sys().IsActive() {
		t.Errorf("target status = %v, want running", b.Sys().GetStatus())
	}
}

func TestProxyTransitionEase(t *testing.T) {
	a, b := newRecordScene("a"), newRecordScene("b")
	g := newTestGame(t, a, b)

	var progress []float64
	a.Proxy().Transition(TransitionConfig{
		Target:   "b",
		Duration: 100,
		Ease:     ease.InQuad,
		OnUpdate: func(p float64) { progress = append(progress, p) },
	})
	g.step(7)
	if len(progress) != 7 {
		t.Fatalf("progress = %v, want 7 values", progress)
	}
	for i, want := range map[int]float64{0: 0.0256, 3: 0.4096, 6: 1} {
		if math.Abs(progress[i]-want) > 1e-6 {
			t.Errorf("progress[%d] = %v, want %v", i, progress[i], want)
		}
	}
}

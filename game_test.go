package aspen

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestGameBootOnce(t *testing.T) {
	cfg := DefaultGameConfig()
	cfg.InputSource = NewVirtualInput()
	cfg.PluginCache = testPluginCache()
	g := NewGame(cfg)

	var log []string
	On(g.Events(), GameBoot, t, func(*Game) { log = append(log, "boot") })
	On(g.Events(), GameReady, t, func(*Game) { log = append(log, "ready") })
	g.Boot()
	g.Boot()

	if !slices.Equal(log, []string{"boot", "ready"}) {
		t.Errorf("events = %v, want [boot ready]", log)
	}
	if !g.IsBooted() || !g.IsRunning() || !g.HasFocus() {
		t.Errorf("booted=%v running=%v focus=%v", g.IsBooted(), g.IsRunning(), g.HasFocus())
	}
	if !g.Scenes().IsBooted() {
		t.Error("scene manager not booted with the game")
	}
}

func TestGameStepOrder(t *testing.T) {
	s := newRecordScene("a")
	g := newTestGame(t, s)
	var log []string
	On(g.Events(), GamePreStep, t, func(Step) { log = append(log, "pre") })
	On(g.Events(), GameStep, t, func(Step) { log = append(log, "step") })
	On(g.Events(), GamePostStep, t, func(st Step) {
		log = append(log, "post")
		if st.Delta != 16 {
			t.Errorf("Delta = %v, want 16", st.Delta)
		}
	})
	g.step(1)

	if !slices.Equal(log, []string{"pre", "step", "post"}) {
		t.Errorf("events = %v", log)
	}
	if s.updates != 1 {
		t.Errorf("scene updates = %d, want 1", s.updates)
	}
}

func TestGamePauseResume(t *testing.T) {
	s := newRecordScene("a")
	g := newTestGame(t, s)
	var log []string
	On(g.Events(), GamePause, t, func(*Game) { log = append(log, "pause") })
	On(g.Events(), GameResume, t, func(*Game) { log = append(log, "resume") })

	g.step(1)
	g.Pause()
	g.Pause()
	g.step(3)
	if s.updates != 1 || !g.IsPaused() {
		t.Errorf("updates=%d paused=%v while paused", s.updates, g.IsPaused())
	}
	g.Resume()
	g.Resume()
	g.step(1)
	if s.updates != 2 {
		t.Errorf("updates = %d after resume, want 2", s.updates)
	}
	if !slices.Equal(log, []string{"pause", "resume"}) {
		t.Errorf("events = %v", log)
	}
}

func TestGameBlurFocus(t *testing.T) {
	g := newTestGame(t)
	var log []string
	On(g.Events(), GameBlur, t, func(*Game) { log = append(log, "blur") })
	On(g.Events(), GameFocus, t, func(*Game) { log = append(log, "focus") })
	g.OnBlur()
	if g.HasFocus() {
		t.Error("HasFocus after blur")
	}
	g.OnFocus()
	if !g.HasFocus() || !slices.Equal(log, []string{"blur", "focus"}) {
		t.Errorf("focus=%v events=%v", g.HasFocus(), log)
	}
}

func TestGameDestroyOnNextStep(t *testing.T) {
	s := newRecordScene("a")
	g := newTestGame(t, s)
	g.Registry().Set("score", 3)
	destroyed := 0
	On(g.Events(), GameDestroy, t, func(*Game) { destroyed++ })

	g.Destroy(false)
	if g.IsDestroyed() {
		t.Fatal("destroyed before the next step")
	}
	g.step(1)
	if !g.IsDestroyed() || g.IsRunning() || destroyed != 1 {
		t.Fatalf("destroyed=%v running=%v events=%d", g.IsDestroyed(), g.IsRunning(), destroyed)
	}
	if s.updates != 0 {
		t.Errorf("scene updated during the destroy step")
	}
	if g.Scenes().Len() != 0 {
		t.Errorf("scenes left: %v", stackKeys(g.Scenes()))
	}

	g.step(2)
	if s.updates != 0 {
		t.Error("destroyed game kept stepping")
	}
	if err := g.RunHeadless(context.Background(), 3); !errors.Is(err, ErrGameDestroyed) {
		t.Errorf("RunHeadless err = %v, want ErrGameDestroyed", err)
	}
}

func TestRunHeadlessFrames(t *testing.T) {
	s := newRecordScene("a")
	g := newTestGameWith(t, func(c *GameConfig) { c.FPS.Limit = 1000 }, s)
	if err := g.RunHeadless(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
	if g.Loop().Frame() != 5 || s.updates != 5 {
		t.Errorf("frames=%d updates=%d, want 5 5", g.Loop().Frame(), s.updates)
	}

	// A second run continues the same loop.
	if err := g.RunHeadless(context.Background(), 2); err != nil {
		t.Fatal(err)
	}
	if g.Loop().Frame() != 7 {
		t.Errorf("frames = %d, want 7", g.Loop().Frame())
	}
}

func TestRunHeadlessCancelled(t *testing.T) {
	g := newTestGame(t, newRecordScene("a"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.RunHeadless(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestGameLayoutUsesConfigSize(t *testing.T) {
	g := newTestGameWith(t, func(c *GameConfig) {
		c.Width = 320
		c.Height = 240
	})
	if w, h := g.Layout(1920, 1080); w != 320 || h != 240 {
		t.Errorf("Layout = %d x %d, want 320 x 240", w, h)
	}
}

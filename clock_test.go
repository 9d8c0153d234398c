package aspen

import (
	"errors"
	"math"
	"testing"
)

func newClockScene(t *testing.T) (*testGame, *Clock) {
	t.Helper()
	s := newRecordScene("clock")
	g := newTestGame(t, s)
	return g, s.Time()
}

func TestDelayedCallFiresOnce(t *testing.T) {
	g, c := newClockScene(t)
	n := 0
	c.DelayedCall(50, func() { n++ })

	g.step(3)
	if n != 0 {
		t.Fatalf("fired after 48ms")
	}
	g.step(1)
	if n != 1 {
		t.Fatalf("calls after 64ms = %d, want 1", n)
	}
	g.step(10)
	if n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0 after completion", c.Len())
	}
}

func TestTimerActiveFromNextUpdate(t *testing.T) {
	g, c := newClockScene(t)
	c.DelayedCall(1000, nil)
	if c.Len() != 0 {
		t.Errorf("Len before update = %d, want 0", c.Len())
	}
	g.step(1)
	if c.Len() != 1 {
		t.Errorf("Len after update = %d, want 1", c.Len())
	}
}

func TestRepeatCatchesUp(t *testing.T) {
	g, c := newClockScene(t)
	n := 0
	if _, err := c.AddEvent(TimerConfig{Delay: 5, Repeat: 5, Callback: func() { n++ }}); err != nil {
		t.Fatal(err)
	}
	g.step(1)
	if n != 3 {
		t.Errorf("calls after first frame = %d, want 3", n)
	}
	g.step(5)
	if n != 6 {
		t.Errorf("calls = %d, want 6", n)
	}
}

func TestLoopingTimer(t *testing.T) {
	g, c := newClockScene(t)
	n := 0
	e, _ := c.AddEvent(TimerConfig{Delay: 16, Loop: true, Callback: func() { n++ }})
	g.step(10)
	if n != 10 {
		t.Errorf("calls = %d, want 10", n)
	}
	if !e.Loop() || e.RepeatCount() <= 0 {
		t.Errorf("Loop=%v RepeatCount=%d", e.Loop(), e.RepeatCount())
	}
}

func TestZeroDelayLoopRejected(t *testing.T) {
	_, c := newClockScene(t)
	if _, err := c.AddEvent(TimerConfig{Loop: true}); !errors.Is(err, ErrZeroDelayLoop) {
		t.Errorf("loop err = %v, want ErrZeroDelayLoop", err)
	}
	if _, err := c.AddEvent(TimerConfig{Repeat: 2}); !errors.Is(err, ErrZeroDelayLoop) {
		t.Errorf("repeat err = %v, want ErrZeroDelayLoop", err)
	}
	if _, err := c.AddEvent(TimerConfig{}); err != nil {
		t.Errorf("one-shot zero delay err = %v, want nil", err)
	}
}

func TestClockTimeScaleAndPause(t *testing.T) {
	g, c := newClockScene(t)
	n := 0
	c.TimeScale = 0.5
	c.DelayedCall(16, func() { n++ })
	g.step(1)
	if n != 0 {
		t.Fatal("half-speed timer fired after one frame")
	}
	g.step(1)
	if n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}

	c.TimeScale = 1
	c.Paused = true
	c.DelayedCall(16, func() { n++ })
	g.step(5)
	if n != 1 {
		t.Errorf("paused clock fired")
	}
	if c.Now() != g.now {
		t.Errorf("Now = %v, want %v while paused", c.Now(), g.now)
	}
}

func TestTimerTimeScaleAndStartAt(t *testing.T) {
	g, c := newClockScene(t)
	var order []string
	c.AddEvent(TimerConfig{Delay: 32, TimeScale: 2, Callback: func() { order = append(order, "fast") }})
	c.AddEvent(TimerConfig{Delay: 50, StartAt: 40, Callback: func() { order = append(order, "late") }})
	g.step(1)
	if len(order) != 2 {
		t.Errorf("calls after one frame = %v, want both", order)
	}
}

func TestTimerPausedField(t *testing.T) {
	g, c := newClockScene(t)
	n := 0
	e, _ := c.AddEvent(TimerConfig{Delay: 16, Paused: true, Callback: func() { n++ }})
	g.step(3)
	if n != 0 {
		t.Fatal("paused timer fired")
	}
	e.Paused = false
	g.step(1)
	if n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestTimerRemove(t *testing.T) {
	g, c := newClockScene(t)
	var fired []string
	a, _ := c.AddEvent(TimerConfig{Delay: 1000, Callback: func() { fired = append(fired, "a") }})
	b, _ := c.AddEvent(TimerConfig{Delay: 1000, Callback: func() { fired = append(fired, "b") }})
	g.step(1)

	a.Remove(true)
	b.Remove(false)
	g.step(2)
	if len(fired) != 1 || fired[0] != "a" {
		t.Errorf("fired = %v, want [a]", fired)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestRemoveEventAndRemoveAll(t *testing.T) {
	g, c := newClockScene(t)
	n := 0
	pending := c.DelayedCall(16, func() { n++ })
	c.RemoveEvent(pending)
	g.step(2)
	if n != 0 {
		t.Error("removed pending timer fired")
	}

	c.DelayedCall(1000, nil)
	c.DelayedCall(1000, nil)
	g.step(1)
	c.RemoveAllEvents()
	g.step(1)
	if c.Len() != 0 {
		t.Errorf("Len after RemoveAllEvents = %d, want 0", c.Len())
	}

	c.DelayedCall(16, func() { n++ })
	c.ClearPendingEvents()
	g.step(2)
	if n != 0 {
		t.Error("cleared pending timer fired")
	}
}

func TestTimerProgress(t *testing.T) {
	g, c := newClockScene(t)
	e, _ := c.AddEvent(TimerConfig{Delay: 100, Repeat: 1})
	g.step(3)

	assertNear(t, "Elapsed", e.Elapsed(), 48)
	assertNear(t, "Progress", e.Progress(), 0.48)
	assertNear(t, "Remaining", e.Remaining(), 52)
	assertNear(t, "OverallProgress", e.OverallProgress(), 0.24)
	assertNear(t, "OverallRemaining", e.OverallRemaining(), 152)
	assertNear(t, "ElapsedSeconds", e.ElapsedSeconds(), 0.048)
	if e.RepeatCount() != 1 || e.HasDispatched() {
		t.Errorf("RepeatCount=%d HasDispatched=%v", e.RepeatCount(), e.HasDispatched())
	}
}

func TestTimersStopOnSceneShutdown(t *testing.T) {
	s := newRecordScene("clock")
	g := newTestGame(t, s)
	n := 0
	s.Time().AddEvent(TimerConfig{Delay: 16, Loop: true, Callback: func() { n++ }})
	g.step(2)

	g.Scenes().Stop("clock", nil)
	g.Scenes().Start("clock", nil)
	g.step(3)
	if n != 2 {
		t.Errorf("calls = %d, want 2; timers survived shutdown", n)
	}
}

func TestAddTimerRewinds(t *testing.T) {
	g, c := newClockScene(t)
	n := 0
	e, _ := NewTimerEvent(TimerConfig{Delay: 16, Callback: func() { n++ }})
	c.AddTimer(e)
	g.step(1)
	if n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
	g.step(1)
	e.Reset(TimerConfig{Delay: 16, Callback: func() { n++ }})
	c.AddTimer(e)
	g.step(1)
	if n != 2 {
		t.Errorf("calls after AddTimer = %d, want 2", n)
	}
}

func TestRemoveEventCancelsScheduledRemoval(t *testing.T) {
	g, c := newClockScene(t)
	n := 0
	e, _ := c.AddEvent(TimerConfig{Delay: 100, Loop: true, Callback: func() { n++ }})
	g.step(1)

	c.RemoveAllEvents()
	c.RemoveEvent(e)
	c.AddTimer(e)
	g.step(20)
	if n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestNegativeRepeatLoops(t *testing.T) {
	g, c := newClockScene(t)
	if _, err := c.AddEvent(TimerConfig{Repeat: -1}); !errors.Is(err, ErrZeroDelayLoop) {
		t.Errorf("zero delay err = %v, want ErrZeroDelayLoop", err)
	}

	n := 0
	e, err := c.AddEvent(TimerConfig{Delay: 40, Repeat: -1, Callback: func() { n++ }})
	if err != nil {
		t.Fatal(err)
	}
	if !e.Loop() {
		t.Error("Repeat -1 did not loop")
	}
	g.step(3)
	if n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
	assertNear(t, "Progress", e.Progress(), 0.2)
	assertNear(t, "OverallProgress", e.OverallProgress(), 0.2)
	if r := e.OverallRemaining(); !math.IsInf(r, 1) {
		t.Errorf("OverallRemaining = %v, want +Inf", r)
	}
	g.step(20)
	if n != 9 {
		t.Errorf("calls after 368ms = %d, want 9", n)
	}
}

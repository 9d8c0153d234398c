package aspen

import "math"

// infiniteRepeat is the repeat count of a looping timer.
const infiniteRepeat = math.MaxInt

// TimerConfig describes a TimerEvent. Times are in milliseconds.
type TimerConfig struct {
	// Delay between dispatches.
	Delay float64
	// Repeat is the number of extra dispatches after the first. A negative
	// Repeat loops like Loop.
	Repeat int
	// Loop repeats forever and overrides Repeat.
	Loop     bool
	Callback func()
	// TimeScale multiplies the clock delta for this timer. Zero means 1.
	TimeScale float64
	// StartAt is the elapsed time the timer starts with.
	StartAt float64
	Paused  bool
}

// TimerEvent is a delayed, optionally repeating callback run by a Clock.
type TimerEvent struct {
	delay         float64
	repeat        int
	repeatCount   int
	loop          bool
	callback      func()
	TimeScale     float64
	startAt       float64
	elapsed       float64
	Paused        bool
	hasDispatched bool
}

// NewTimerEvent creates a timer from cfg. A repeating or looping timer with
// no delay returns ErrZeroDelayLoop.
func NewTimerEvent(cfg TimerConfig) (*TimerEvent, error) {
	e := &TimerEvent{}
	if err := e.Reset(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset reconfigures the timer from cfg and rewinds it.
func (e *TimerEvent) Reset(cfg TimerConfig) error {
	loop := cfg.Loop || cfg.Repeat < 0
	if cfg.Delay <= 0 && (cfg.Repeat != 0 || loop) {
		return ErrZeroDelayLoop
	}
	e.delay = max(cfg.Delay, 0)
	e.loop = loop
	e.repeat = cfg.Repeat
	if loop {
		e.repeat = infiniteRepeat
	}
	e.repeatCount = e.repeat
	e.callback = cfg.Callback
	e.TimeScale = cfg.TimeScale
	if e.TimeScale == 0 {
		e.TimeScale = 1
	}
	e.startAt = cfg.StartAt
	e.elapsed = cfg.StartAt
	e.Paused = cfg.Paused
	e.hasDispatched = false
	return nil
}

func (e *TimerEvent) Delay() float64 { return e.delay }
func (e *TimerEvent) Loop() bool     { return e.loop }

// Progress returns the progress through the current iteration, 0 to 1.
func (e *TimerEvent) Progress() float64 {
	if e.delay == 0 {
		return 1
	}
	return e.elapsed / e.delay
}

// OverallProgress returns the progress across every repeat, 0 to 1. Looping
// timers report the progress of the current iteration.
func (e *TimerEvent) OverallProgress() float64 {
	if e.repeat <= 0 || e.loop {
		return e.Progress()
	}
	total := e.delay + e.delay*float64(e.repeat)
	done := e.elapsed + e.delay*float64(e.repeat-e.repeatCount)
	return done / total
}

// RepeatCount returns the dispatches left after the current one.
func (e *TimerEvent) RepeatCount() int { return e.repeatCount }

// Elapsed returns the time elapsed in the current iteration.
func (e *TimerEvent) Elapsed() float64 { return e.elapsed }

// ElapsedSeconds returns Elapsed in seconds.
func (e *TimerEvent) ElapsedSeconds() float64 { return e.elapsed * 0.001 }

// Remaining returns the time left in the current iteration.
func (e *TimerEvent) Remaining() float64 { return e.delay - e.elapsed }

// RemainingSeconds returns Remaining in seconds.
func (e *TimerEvent) RemainingSeconds() float64 { return e.Remaining() * 0.001 }

// OverallRemaining returns the time left across every repeat, +Inf for a
// looping timer.
func (e *TimerEvent) OverallRemaining() float64 {
	if e.loop {
		return math.Inf(1)
	}
	return e.delay*float64(1+e.repeatCount) - e.elapsed
}

// OverallRemainingSeconds returns OverallRemaining in seconds.
func (e *TimerEvent) OverallRemainingSeconds() float64 { return e.OverallRemaining() * 0.001 }

// HasDispatched reports whether the current iteration's callback has run.
func (e *TimerEvent) HasDispatched() bool { return e.hasDispatched }

// Remove ends the timer at the next clock update. dispatch runs the callback
// one last time.
func (e *TimerEvent) Remove(dispatch bool) {
	e.elapsed = e.delay
	e.hasDispatched = !dispatch
	e.repeatCount = 0
}

func (e *TimerEvent) destroy() {
	e.callback = nil
}

package aspen

// TimeStep turns raw frame timestamps into smoothed deltas. All times are in
// milliseconds.
type TimeStep struct {
	game *Game
	cfg  FPSConfig

	started bool
	running bool

	// target and min are frame times in ms for the target and min fps.
	target float64
	min    float64

	startTime float64
	time      float64
	now       float64
	lastTime  float64
	delta     float64
	rawDelta  float64
	frame     int

	actualFPS        float64
	nextFPSUpdate    float64
	framesThisSecond int

	history    []float64
	deltaIndex int
	coolDown   int
	inFocus    bool

	callback func(time, delta float64)
}

func newTimeStep(game *Game, cfg FPSConfig) *TimeStep {
	ts := &TimeStep{
		game:      game,
		cfg:       cfg,
		target:    1000 / cfg.Target,
		min:       1000 / cfg.Min,
		actualFPS: cfg.Target,
		history:   make([]float64, cfg.DeltaHistory),
		inFocus:   true,
	}
	ts.delta = ts.target
	return ts
}

// Start begins calling callback from Tick. now is the current timestamp.
func (ts *TimeStep) Start(now float64, callback func(time, delta float64)) {
	if ts.started {
		return
	}
	ts.started = true
	ts.running = true
	ts.callback = callback
	ts.startTime = now
	ts.nextFPSUpdate = now + 1000
	ts.ResetDelta(now)
}

// Tick advances the loop to the timestamp now and calls the callback with
// the smoothed delta.
func (ts *TimeStep) Tick(now float64) {
	if !ts.running {
		return
	}
	ts.now = now

	raw := now - ts.lastTime
	if raw < 0 {
		raw = 0
	}
	ts.rawDelta = raw

	dt := raw
	if ts.cfg.SmoothStep && len(ts.history) > 0 {
		if ts.coolDown > 0 || !ts.inFocus {
			ts.coolDown--
			dt = min(dt, ts.target)
		}
		if dt > ts.min {
			dt = min(ts.history[ts.deltaIndex], ts.min)
		}
		ts.history[ts.deltaIndex] = dt
		ts.deltaIndex = (ts.deltaIndex + 1) % len(ts.history)

		var sum float64
		for _, v := range ts.history {
			sum += v
		}
		dt = sum / float64(len(ts.history))
	}

	ts.delta = dt
	ts.time += raw

	if now > ts.nextFPSUpdate {
		ts.actualFPS = 0.25*float64(ts.framesThisSecond) + 0.75*ts.actualFPS
		ts.nextFPSUpdate = now + 1000
		ts.framesThisSecond = 0
	}
	ts.framesThisSecond++

	if ts.callback != nil {
		ts.callback(ts.time, dt)
	}
	ts.lastTime = now
	ts.frame++
}

// ResetDelta fills the delta history with the target frame time and clamps
// deltas for the next PanicMax frames.
func (ts *TimeStep) ResetDelta(now float64) {
	ts.now = now
	ts.lastTime = now
	for i := range ts.history {
		ts.history[i] = ts.target
	}
	ts.delta = ts.target
	ts.deltaIndex = 0
	ts.coolDown = ts.cfg.PanicMax
}

// Sleep stops ticking until Wake.
func (ts *TimeStep) Sleep() {
	ts.running = false
}

// Wake resumes ticking. seamless keeps the loop time continuous across the
// sleep; otherwise the sleep duration is added to the loop time.
func (ts *TimeStep) Wake(now float64, seamless bool) {
	if ts.running || !ts.started {
		return
	}
	if seamless {
		ts.startTime += now - ts.lastTime
	}
	ts.running = true
	ts.ResetDelta(now)
}

// Stop halts the loop permanently.
func (ts *TimeStep) Stop() {
	ts.running = false
	ts.started = false
	ts.callback = nil
}

func (ts *TimeStep) blur()  { ts.inFocus = false }
func (ts *TimeStep) focus() { ts.inFocus = true; ts.ResetDelta(ts.now) }

func (ts *TimeStep) Time() float64      { return ts.time }
func (ts *TimeStep) Now() float64       { return ts.now }
func (ts *TimeStep) StartTime() float64 { return ts.startTime }
func (ts *TimeStep) Delta() float64     { return ts.delta }
func (ts *TimeStep) RawDelta() float64  { return ts.rawDelta }
func (ts *TimeStep) Frame() int         { return ts.frame }
func (ts *TimeStep) ActualFPS() float64 { return ts.actualFPS }
func (ts *TimeStep) Running() bool      { return ts.running }

// TargetFrameTime returns the target frame time in ms.
func (ts *TimeStep) TargetFrameTime() float64 { return ts.target }

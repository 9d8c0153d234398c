package aspen

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenConfig controls the timing of a Tween. Times are in ms.
type TweenConfig struct {
	Duration float64
	Delay    float64
	// Repeat is the number of extra plays; -1 repeats forever.
	Repeat int
	// Yoyo plays each repetition forward then back.
	Yoyo bool
	// Ease defaults to ease.Linear.
	Ease ease.TweenFunc

	OnStart    func(*Tween)
	OnUpdate   func(*Tween)
	OnRepeat   func(*Tween)
	OnComplete func(*Tween)
}

// TweenProp animates one float64 field to To.
type TweenProp struct {
	Field *float64
	To    float64
}

type tweenTrack struct {
	field    *float64
	from, to float64
	tw       *gween.Tween
}

type tweenState uint8

const (
	tweenActive tweenState = iota
	tweenComplete
	tweenKilled
)

// Tween animates any number of float64 fields together. A Tween with a
// target node stops when the node is disposed and marks it dirty on every
// update.
type Tween struct {
	cfg    TweenConfig
	target *Node
	props  []TweenProp
	tracks []tweenTrack

	// TimeScale multiplies the delta passed to Update.
	TimeScale float64
	Paused    bool

	state    tweenState
	started  bool
	delay    float64
	repeat   int
	reversed bool
	counter  float64
}

// NewTween creates a tween of props. target may be nil.
func NewTween(target *Node, cfg TweenConfig, props ...TweenProp) *Tween {
	if cfg.Ease == nil {
		cfg.Ease = ease.Linear
	}
	return &Tween{
		cfg:       cfg,
		target:    target,
		props:     props,
		TimeScale: 1,
		state:     tweenActive,
		delay:     cfg.Delay,
		repeat:    cfg.Repeat,
	}
}

// NewCounter creates a tween of a number not bound to any field; read it
// with Value.
func NewCounter(from, to float64, cfg TweenConfig) *Tween {
	t := NewTween(nil, cfg)
	t.counter = from
	t.props = []TweenProp{{Field: &t.counter, To: to}}
	return t
}

// TweenPosition animates node.X and node.Y.
func TweenPosition(node *Node, x, y float64, cfg TweenConfig) *Tween {
	return NewTween(node, cfg, TweenProp{&node.X, x}, TweenProp{&node.Y, y})
}

// TweenScale animates node.ScaleX and node.ScaleY.
func TweenScale(node *Node, sx, sy float64, cfg TweenConfig) *Tween {
	return NewTween(node, cfg, TweenProp{&node.ScaleX, sx}, TweenProp{&node.ScaleY, sy})
}

// TweenAlpha animates node.Alpha.
func TweenAlpha(node *Node, alpha float64, cfg TweenConfig) *Tween {
	return NewTween(node, cfg, TweenProp{&node.Alpha, alpha})
}

// TweenRotation animates node.Rotation.
func TweenRotation(node *Node, rotation float64, cfg TweenConfig) *Tween {
	return NewTween(node, cfg, TweenProp{&node.Rotation, rotation})
}

// TweenColor animates every component of node.Color.
func TweenColor(node *Node, to Color, cfg TweenConfig) *Tween {
	return NewTween(node, cfg,
		TweenProp{&node.Color.R, to.R},
		TweenProp{&node.Color.G, to.G},
		TweenProp{&node.Color.B, to.B},
		TweenProp{&node.Color.A, to.A},
	)
}

// Target returns the tween's node, or nil.
func (t *Tween) Target() *Node { return t.target }

// Value returns the current value of a counter tween, or of the first
// animated field.
func (t *Tween) Value() float64 {
	if len(t.props) == 0 {
		return 0
	}
	return *t.props[0].Field
}

// IsPlaying reports whether the tween is running and not paused.
func (t *Tween) IsPlaying() bool { return t.state == tweenActive && !t.Paused }

// IsFinished reports whether the tween completed or was stopped.
func (t *Tween) IsFinished() bool { return t.state == tweenComplete || t.state == tweenKilled }

// Pause freezes the tween.
func (t *Tween) Pause() { t.Paused = true }

// Resume continues a paused tween.
func (t *Tween) Resume() { t.Paused = false }

// Stop kills the tween where it is. OnComplete does not run.
func (t *Tween) Stop() { t.state = tweenKilled }

// Complete jumps to the end values and runs OnComplete.
func (t *Tween) Complete() {
	if t.IsFinished() {
		return
	}
	if !t.started {
		t.begin()
	}
	for _, tr := range t.tracks {
		if t.cfg.Yoyo {
			*tr.field = tr.from
		} else {
			*tr.field = tr.to
		}
	}
	t.finish()
}

func (t *Tween) begin() {
	t.started = true
	t.tracks = make([]tweenTrack, len(t.props))
	for i, p := range t.props {
		t.tracks[i] = tweenTrack{field: p.Field, from: *p.Field, to: p.To}
	}
	t.startPhase()
	if t.cfg.OnStart != nil {
		t.cfg.OnStart(t)
	}
}

func (t *Tween) startPhase() {
	d := float32(t.cfg.Duration)
	for i := range t.tracks {
		tr := &t.tracks[i]
		a, b := tr.from, tr.to
		if t.reversed {
			a, b = b, a
		}
		tr.tw = gween.New(float32(a), float32(b), d, t.cfg.Ease)
	}
}

func (t *Tween) finish() {
	t.state = tweenComplete
	if t.target != nil {
		t.target.MarkDirty()
	}
	if t.cfg.OnComplete != nil {
		t.cfg.OnComplete(t)
	}
}

// Update advances the tween by delta ms and reports whether it is finished.
func (t *Tween) Update(delta float64) bool {
	if t.IsFinished() {
		return true
	}
	if t.Paused {
		return false
	}
	if t.target != nil && t.target.IsDisposed() {
		t.state = tweenKilled
		return true
	}
	delta *= t.TimeScale
	if t.delay > 0 {
		t.delay -= delta
		if t.delay > 0 {
			return false
		}
		delta = -t.delay
		t.delay = 0
	}
	if !t.started {
		t.begin()
	}

	done := true
	for i := range t.tracks {
		tr := &t.tracks[i]
		v, finished := tr.tw.Update(float32(delta))
		*tr.field = float64(v)
		if !finished {
			done = false
		}
	}
	if t.target != nil {
		t.target.MarkDirty()
	}
	if t.cfg.OnUpdate != nil {
		t.cfg.OnUpdate(t)
	}
	if !done {
		return false
	}

	if t.cfg.Yoyo && !t.reversed {
		t.reversed = true
		t.startPhase()
		return false
	}
	if t.repeat != 0 {
		if t.repeat > 0 {
			t.repeat--
		}
		t.reversed = false
		t.startPhase()
		if t.cfg.OnRepeat != nil {
			t.cfg.OnRepeat(t)
		}
		return false
	}
	t.finish()
	return true
}

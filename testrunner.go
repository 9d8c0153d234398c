package aspen

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// testStep is a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Key    string  `json:"key,omitempty"`
	Scene  string  `json:"scene,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`

	code ebiten.Key
}

type testScript struct {
	Steps []testStep `json:"steps"`
}

// ErrNoVirtualInput is returned by TestRunner.Attach when the game does not
// read its input from a VirtualInput.
var ErrNoVirtualInput = errors.New("aspen: test runner needs a VirtualInput source")

// TestRunner plays a JSON script of input and scene actions against a game
// whose input source is a VirtualInput. One step runs per game step, after
// the previous step's queued input has been consumed.
//
//	{"steps": [
//	  {"action": "start", "scene": "menu"},
//	  {"action": "click", "x": 100, "y": 200},
//	  {"action": "key", "key": "SPACE"},
//	  {"action": "wait", "frames": 3},
//	  {"action": "screenshot", "label": "after"}
//	]}
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool

	game  *Game
	input *VirtualInput
	// Shots receives "screenshot" steps. Without it they are skipped.
	Shots *Screenshotter
}

// LoadTestScript parses a JSON test script. Key names are resolved with
// ParseKey.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i := range script.Steps {
		st := &script.Steps[i]
		switch st.Action {
		case "key", "keydown", "keyup":
			code, ok := ParseKey(st.Key)
			if !ok {
				return nil, fmt.Errorf("parse test script: step %d: unknown key %q", i, st.Key)
			}
			st.code = code
		case "start", "stop":
			if st.Scene == "" {
				return nil, fmt.Errorf("parse test script: step %d: %s needs a scene", i, st.Action)
			}
		case "click", "drag", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Attach runs the script on g, one step per game step.
func (r *TestRunner) Attach(g *Game) error {
	vi, ok := g.input.Source().(*VirtualInput)
	if !ok {
		return ErrNoVirtualInput
	}
	r.game = g
	r.input = vi
	On(g.events, GamePreStep, r, func(Step) { r.step() })
	return nil
}

// Detach stops the runner.
func (r *TestRunner) Detach() {
	if r.game != nil {
		r.game.events.RemoveOwner(r)
		r.game = nil
	}
}

// Done reports whether every step has run and its input been consumed.
func (r *TestRunner) Done() bool {
	return r.done
}

func (r *TestRunner) step() {
	if r.done {
		return
	}
	if r.input.Pending() {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.finish()
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		if r.Shots != nil {
			r.Shots.Queue(st.Label)
		}
	case "click":
		r.input.Click(st.X, st.Y)
	case "drag":
		r.input.Drag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "key":
		r.input.KeyPress(st.code)
	case "keydown":
		r.input.KeyDown(st.code)
	case "keyup":
		r.input.KeyUp(st.code)
	case "start":
		r.game.scene.Start(st.Scene, nil)
	case "stop":
		r.game.scene.Stop(st.Scene, nil)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this step counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !r.input.Pending() {
		r.finish()
	}
}

func (r *TestRunner) finish() {
	r.done = true
	if r.game != nil {
		logf("test script finished after %d steps", len(r.steps))
	}
}

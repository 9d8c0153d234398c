package aspen

import (
	"errors"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "click", "x": 100, "y": 200},
			{"action": "key", "key": "SPACE"},
			{"action": "drag", "fromX": 1, "fromY": 2, "toX": 3, "toY": 4, "frames": 5},
			{"action": "wait", "frames": 3},
			{"action": "start", "scene": "menu"}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("LoadTestScript: %v", err)
	}
	if len(runner.steps) != 6 {
		t.Fatalf("steps = %d, want 6", len(runner.steps))
	}
	if runner.steps[1].X != 100 || runner.steps[1].Y != 200 {
		t.Errorf("click = %+v", runner.steps[1])
	}
	if runner.steps[2].code != ebiten.KeySpace {
		t.Errorf("key code = %v, want space", runner.steps[2].code)
	}
	if d := runner.steps[3]; d.FromX != 1 || d.ToY != 4 || d.Frames != 5 {
		t.Errorf("drag = %+v", d)
	}
	if runner.steps[5].Scene != "menu" {
		t.Errorf("start scene = %q", runner.steps[5].Scene)
	}
}

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"invalid json", `not json`, "parse test script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "fly"}]}`, "unknown action"},
		{"unknown key", `{"steps": [{"action": "key", "key": "NOPE"}]}`, "unknown key"},
		{"scene missing", `{"steps": [{"action": "stop"}]}`, "needs a scene"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestTestRunnerPlaysInput(t *testing.T) {
	g, s, n := newInputScene(t)
	clicks := 0
	n.OnClick = func(PointerEvent) { clicks++ }
	space := s.Input().Keyboard().AddKey(ebiten.KeySpace, true, false)
	presses := 0
	On(space.Events(), KeyDown, t, func(*Key) { presses++ })

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "click", "x": 120, "y": 130},
		{"action": "key", "key": "SPACE"},
		{"action": "screenshot", "label": "done"},
		{"action": "wait", "frames": 2}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	runner.Shots = NewScreenshotter(g.Game, t.TempDir())
	if err := runner.Attach(g.Game); err != nil {
		t.Fatal(err)
	}

	// Click and key each take two steps, the screenshot one and the wait
	// two, plus the step that notices the script is over.
	steps := 0
	for !runner.Done() && steps < 20 {
		g.step(1)
		steps++
	}
	if !runner.Done() || steps != 8 {
		t.Fatalf("Done=%v after %d steps, want 8", runner.Done(), steps)
	}
	if clicks != 1 || presses != 1 {
		t.Errorf("clicks=%d presses=%d, want 1 1", clicks, presses)
	}
	if runner.Shots.Pending() != 1 {
		t.Errorf("queued screenshots = %d, want 1", runner.Shots.Pending())
	}
}

func TestTestRunnerScenes(t *testing.T) {
	g := newTestGame(t, newRecordScene("a"), newRecordScene("b"))
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "start", "scene": "b"},
		{"action": "stop", "scene": "a"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	runner.Attach(g.Game)
	g.step(2)

	if !runner.Done() {
		t.Fatal("runner not done")
	}
	if !g.Scenes().IsActive("b") || g.Scenes().IsActive("a") {
		t.Errorf("a active=%v b active=%v", g.Scenes().IsActive("a"), g.Scenes().IsActive("b"))
	}

	runner.Detach()
	g.step(1)
	if g.Events().ListenerCount(GamePreStep.Name) != 0 {
		t.Error("detached runner still listening")
	}
}

func TestTestRunnerNeedsVirtualInput(t *testing.T) {
	g := newTestGame(t)
	g.InputManager().SetSource(NewEbitenInput())
	runner, _ := LoadTestScript([]byte(`{"steps": [{"action": "wait"}]}`))
	if err := runner.Attach(g.Game); !errors.Is(err, ErrNoVirtualInput) {
		t.Errorf("Attach err = %v, want ErrNoVirtualInput", err)
	}
}

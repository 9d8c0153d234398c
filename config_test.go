package aspen

import "testing"

func TestDefaultGameConfig(t *testing.T) {
	c := DefaultGameConfig()
	if c.Width != 800 || c.Height != 600 {
		t.Errorf("size = %dx%d, want 800x600", c.Width, c.Height)
	}
	if c.FPS.Target != 60 || c.FPS.Min != 5 || !c.FPS.SmoothStep {
		t.Errorf("FPS = %+v", c.FPS)
	}
	if !c.Input.Keyboard || !c.Input.Mouse || !c.Input.Gamepad || !c.Input.TopOnly {
		t.Errorf("Input = %+v", c.Input)
	}
	if c.Loader.MaxParallel != 32 {
		t.Errorf("Loader.MaxParallel = %d, want 32", c.Loader.MaxParallel)
	}
}

func TestNormalizeFillsZeroFields(t *testing.T) {
	var c GameConfig
	c.FPS.PanicMax = -3
	c.normalize()
	if c.Width != 800 || c.Height != 600 || c.FPS.Target != 60 || c.FPS.DeltaHistory != 10 {
		t.Errorf("normalized = %dx%d target=%v history=%d", c.Width, c.Height, c.FPS.Target, c.FPS.DeltaHistory)
	}
	if c.FPS.PanicMax != 0 {
		t.Errorf("PanicMax = %d, want 0", c.FPS.PanicMax)
	}
	if c.Input.DragDeadZone != defaultDragDeadZone || c.Loader.MaxParallel != 32 {
		t.Errorf("DragDeadZone=%v MaxParallel=%d", c.Input.DragDeadZone, c.Loader.MaxParallel)
	}
	if c.PluginCache != DefaultPluginCache || c.InputPluginCache != DefaultInputPluginCache {
		t.Error("nil caches not defaulted")
	}
	if c.Input.Keyboard {
		t.Error("normalize defaulted a boolean")
	}
}

func TestLoadGameConfigFromEnv(t *testing.T) {
	t.Setenv("ASPEN_TITLE", "env game")
	t.Setenv("ASPEN_WIDTH", "1280")
	t.Setenv("ASPEN_DEBUG", "true")
	t.Setenv("ASPEN_PHYSICS_DEFAULT", "arcade")
	t.Setenv("ASPEN_FPS_TARGET", "30")
	t.Setenv("ASPEN_INPUT_GAMEPAD", "false")
	t.Setenv("ASPEN_INPUT_DRAG_DEAD_ZONE", "8.5")
	t.Setenv("ASPEN_LOADER_MAX_PARALLEL", "4")

	c, err := LoadGameConfig(DefaultGameConfig())
	if err != nil {
		t.Fatal(err)
	}
	if c.Title != "env game" || c.Width != 1280 || !c.Debug || c.DefaultPhysics != "arcade" {
		t.Errorf("top-level = %q %d %v %q", c.Title, c.Width, c.Debug, c.DefaultPhysics)
	}
	if c.Height != 600 {
		t.Errorf("unset Height = %d, want base 600", c.Height)
	}
	if c.FPS.Target != 30 || c.FPS.Min != 5 {
		t.Errorf("FPS = %+v", c.FPS)
	}
	if c.Input.Gamepad || !c.Input.Keyboard || c.Input.DragDeadZone != 8.5 {
		t.Errorf("Input = %+v", c.Input)
	}
	if c.Loader.MaxParallel != 4 {
		t.Errorf("MaxParallel = %d, want 4", c.Loader.MaxParallel)
	}
}

func TestLoadGameConfigBadValue(t *testing.T) {
	t.Setenv("ASPEN_WIDTH", "wide")
	base := DefaultGameConfig()
	c, err := LoadGameConfig(base)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if c.Width != base.Width {
		t.Errorf("Width = %d after failed parse, want %d", c.Width, base.Width)
	}
}

func TestInputFlag(t *testing.T) {
	c := DefaultGameConfig()
	c.Input.Touch = false
	for key, want := range map[string]bool{
		"inputKeyboard": true,
		"inputMouse":    true,
		"inputTouch":    false,
		"inputGamepad":  true,
		"other":         false,
	} {
		if got := c.inputFlag(key); got != want {
			t.Errorf("inputFlag(%q) = %v, want %v", key, got, want)
		}
	}
}

package aspen

import "testing"

func padSnapshot(id int, pressed ...int) GamepadSnapshot {
	gp := GamepadSnapshot{
		ID:       id,
		Name:     "test pad",
		Standard: true,
		Buttons:  make([]float64, PadHome+1),
		Axes:     []float64{0.05, -0.5, 0.9, 0},
	}
	for _, b := range pressed {
		gp.Buttons[b] = 1
	}
	return gp
}

func TestGamepadConnectDisconnect(t *testing.T) {
	s := newRecordScene("a")
	g := newTestGame(t, s)
	gp := s.Input().Gamepad()
	var log []string
	On(gp.Events(), GamepadConnected, t, func(p *Gamepad) { log = append(log, "connected") })
	On(gp.Events(), GamepadDisconnected, t, func(p *Gamepad) { log = append(log, "disconnected") })

	g.vi.SetGamepad(padSnapshot(3))
	g.step(1)
	pad := gp.Pad1()
	if pad == nil || pad.ID != 3 || pad.Name != "test pad" || !pad.Standard {
		t.Fatalf("Pad1 = %+v", pad)
	}
	if gp.Total() != 1 || gp.Pad2() != nil {
		t.Errorf("Total = %d", gp.Total())
	}

	g.vi.RemoveGamepad(3)
	g.step(1)
	if gp.Total() != 0 || pad.Connected {
		t.Errorf("Total=%d Connected=%v after unplug", gp.Total(), pad.Connected)
	}

	g.vi.SetGamepad(padSnapshot(3))
	g.step(1)
	if gp.Pad1() != pad {
		t.Error("reconnected pad got a new slot")
	}
	want := []string{"connected", "disconnected", "connected"}
	if len(log) != len(want) {
		t.Fatalf("events = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("events = %v, want %v", log, want)
			break
		}
	}
}

func TestGamepadButtons(t *testing.T) {
	s := newRecordScene("a")
	g := newTestGame(t, s)
	gp := s.Input().Gamepad()
	var downs, ups []int
	On(gp.Events(), GamepadButtonDown, t, func(ev ButtonEvent) { downs = append(downs, ev.Button.Index) })
	On(gp.Events(), GamepadButtonUp, t, func(ev ButtonEvent) { ups = append(ups, ev.Button.Index) })

	g.vi.SetGamepad(padSnapshot(0, PadA, PadUp))
	g.step(1)
	pad := gp.Pad1()
	if !pad.A() || !pad.Up() || pad.B() || pad.Down() {
		t.Errorf("A=%v Up=%v B=%v Down=%v", pad.A(), pad.Up(), pad.B(), pad.Down())
	}
	padDowns := 0
	On(pad.Events(), GamepadButtonDown, t, func(ButtonEvent) { padDowns++ })

	g.step(1)
	if len(downs) != 2 {
		t.Errorf("held buttons re-emitted: downs = %v", downs)
	}

	g.vi.SetGamepad(padSnapshot(0, PadB))
	g.step(1)
	if len(ups) != 2 || padDowns != 1 || !pad.B() {
		t.Errorf("ups=%v padDowns=%d B=%v", ups, padDowns, pad.B())
	}
	if pad.IsButtonDown(99) || pad.ButtonValue(-1) != 0 {
		t.Error("out of range button reported")
	}
}

func TestGamepadAnalog(t *testing.T) {
	s := newRecordScene("a")
	g := newTestGame(t, s)
	gp := s.Input().Gamepad()

	snap := padSnapshot(0)
	snap.Buttons[PadR2] = 0.4
	g.vi.SetGamepad(snap)
	g.step(1)
	pad := gp.Pad1()

	assertNear(t, "R2", pad.R2(), 0.4)
	if pad.Buttons[PadR2].Pressed {
		t.Error("half-pulled trigger counted as pressed")
	}
	if pad.LeftStick != (Vec2{0, -0.5}) {
		t.Errorf("LeftStick = %v, want dead-zoned {0 -0.5}", pad.LeftStick)
	}
	assertNear(t, "right x", pad.RightStick.X, 0.9)
	if pad.AxisTotal() != 4 || pad.AxisValue(7) != 0 {
		t.Errorf("AxisTotal=%d", pad.AxisTotal())
	}

	pad.SetAxisThreshold(0)
	assertNear(t, "axis 0", pad.AxisValue(0), 0.05)
}

func TestGamepadDisabledByConfig(t *testing.T) {
	s := newRecordScene("a")
	g := newTestGameWith(t, func(c *GameConfig) { c.Input.Gamepad = false }, s)
	if s.Input().Gamepad() != nil {
		t.Error("gamepad plugin installed with gamepads disabled")
	}
	g.vi.SetGamepad(padSnapshot(0))
	g.step(1)
	if len(g.InputManager().Gamepads()) != 0 {
		t.Error("manager reported gamepads with gamepads disabled")
	}
}

func TestGamepadIgnoredWhileSceneInactive(t *testing.T) {
	s := newRecordScene("a")
	g := newTestGame(t, s)
	gp := s.Input().Gamepad()

	g.Scenes().Sleep("a", nil)
	g.vi.SetGamepad(padSnapshot(0))
	g.step(1)
	if gp.Total() != 0 {
		t.Error("sleeping scene picked up a pad")
	}
	g.Scenes().Wake("a", nil)
	g.step(1)
	if gp.Total() != 1 {
		t.Errorf("Total after wake = %d, want 1", gp.Total())
	}
}

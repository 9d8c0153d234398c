package aspen

import "slices"

// CameraManager is the scene plugin owning a scene's cameras, injected as
// "cameras". Cameras are created from the scene's camera config when the
// scene starts, or a single full-screen main camera when there is none.
type CameraManager struct {
	ScenePluginBase
	cameras []*Camera
	Main    *Camera

	rt renderTexturePool
}

func init() {
	DefaultPluginCache.Register("CameraManager", func(scene *Scene, pm *PluginManager, key string) ScenePlugin {
		return newCameraManager(scene, pm, key)
	}, "cameras", false)
}

func newCameraManager(scene *Scene, pm *PluginManager, key string) *CameraManager {
	cm := &CameraManager{ScenePluginBase: NewScenePluginBase(scene, pm, key)}
	On(cm.systems.events, SceneStart, cm, func(*Systems) { cm.start() })
	return cm
}

func (cm *CameraManager) Boot() {
	cm.fromConfig()
	On(cm.systems.events, SceneDestroy, cm, func(*Systems) { cm.Destroy() })
}

func (cm *CameraManager) start() {
	if len(cm.cameras) == 0 {
		cm.fromConfig()
	}
	ev := cm.systems.events
	On(ev, SceneUpdate, cm, func(st Step) { cm.update(st.Delta) })
	Once(ev, SceneShutdown, cm, func(SceneData) { cm.shutdown() })
}

func (cm *CameraManager) fromConfig() {
	cfgs := cm.systems.settings.Cameras
	if len(cfgs) == 0 {
		w, h := cm.screenSize()
		cm.Add(0, 0, w, h, true, "main")
		return
	}
	w, h := cm.screenSize()
	for _, cfg := range cfgs {
		cw, ch := cfg.Width, cfg.Height
		if cw <= 0 {
			cw = w
		}
		if ch <= 0 {
			ch = h
		}
		cam := cm.Add(cfg.X, cfg.Y, cw, ch, false, cfg.Name)
		if cfg.Zoom > 0 {
			cam.Zoom = cfg.Zoom
		}
		cam.Rotation = cfg.Rotation
		cam.BackgroundColor = cfg.BackgroundColor
		cam.Visible = !cfg.Hidden
		if cfg.ScrollX != 0 || cfg.ScrollY != 0 {
			cam.CenterOn(cfg.ScrollX, cfg.ScrollY)
		}
	}
	cm.Main = cm.cameras[0]
}

func (cm *CameraManager) screenSize() (float64, float64) {
	if g := cm.systems.game; g != nil {
		return float64(g.config.Width), float64(g.config.Height)
	}
	def := DefaultGameConfig()
	return float64(def.Width), float64(def.Height)
}

// Add creates a camera with the given viewport. makeMain makes it the main
// camera; the first camera is always main.
func (cm *CameraManager) Add(x, y, width, height float64, makeMain bool, name string) *Camera {
	cam := NewCamera(name, Rect{X: x, Y: y, Width: width, Height: height})
	cm.cameras = append(cm.cameras, cam)
	if makeMain || cm.Main == nil {
		cm.Main = cam
	}
	return cam
}

// AddExisting adds a camera created elsewhere.
func (cm *CameraManager) AddExisting(cam *Camera, makeMain bool) *Camera {
	if cam == nil || slices.Contains(cm.cameras, cam) {
		return cam
	}
	cm.cameras = append(cm.cameras, cam)
	if makeMain || cm.Main == nil {
		cm.Main = cam
	}
	return cam
}

// Get returns the first camera named name.
func (cm *CameraManager) Get(name string) *Camera {
	for _, c := range cm.cameras {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Cameras returns every camera in render order.
func (cm *CameraManager) Cameras() []*Camera { return cm.cameras }

// Remove removes cam. The next camera becomes main if cam was main.
func (cm *CameraManager) Remove(cam *Camera) {
	cm.cameras = slices.DeleteFunc(cm.cameras, func(c *Camera) bool { return c == cam })
	if cm.Main == cam {
		cm.Main = nil
		if len(cm.cameras) > 0 {
			cm.Main = cm.cameras[0]
		}
	}
}

// ResetAll removes every camera and creates a new full-screen main camera.
func (cm *CameraManager) ResetAll() *Camera {
	cm.cameras = nil
	cm.Main = nil
	w, h := cm.screenSize()
	return cm.Add(0, 0, w, h, true, "main")
}

// CameraAt returns the top-most visible camera whose viewport contains the
// screen point, or nil.
func (cm *CameraManager) CameraAt(x, y float64) *Camera {
	for i := len(cm.cameras) - 1; i >= 0; i-- {
		c := cm.cameras[i]
		if c.Visible && c.Viewport.Contains(x, y) {
			return c
		}
	}
	return nil
}

func (cm *CameraManager) update(delta float64) {
	for _, c := range cm.cameras {
		c.update(delta)
	}
}

func (cm *CameraManager) shutdown() {
	ev := cm.systems.events
	ev.Off(SceneUpdate.Name, cm)
	ev.Off(SceneShutdown.Name, cm)
	cm.cameras = nil
	cm.Main = nil
}

// Destroy releases every camera.
func (cm *CameraManager) Destroy() {
	if cm.systems == nil {
		return
	}
	cm.shutdown()
	cm.systems.events.RemoveOwner(cm)
	cm.rt.clear()
	cm.ScenePluginBase.Destroy()
}

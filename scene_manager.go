package aspen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

type sceneOp uint8

const (
	opStart sceneOp = iota
	opStop
	opRun
	opSwitch
	opRemove
	opBringToTop
	opSendToBack
	opMoveUp
	opMoveDown
	opMoveAbove
	opMoveBelow
	opSwapPosition
)

type queuedOp struct {
	op         sceneOp
	keyA, keyB string
	data       any
}

type pendingAdd struct {
	key       string
	scene     Sceneable
	autoStart bool
	data      any
}

type bootData struct {
	autoStart bool
	data      any
}

// SceneManager owns every scene in a game, runs their lifecycles and keeps
// their update and render order. Index 0 is the bottom of the stack and
// renders first; the last scene is on top and updates first.
type SceneManager struct {
	game   *Game
	keys   map[string]*Scene
	scenes []*Scene

	pending []pendingAdd
	start   []string
	queue   []queuedOp
	data    map[string]bootData

	isProcessing bool
	isBooted     bool
}

func newSceneManager(game *Game, initial []Sceneable) *SceneManager {
	sm := &SceneManager{
		game: game,
		keys: make(map[string]*Scene),
		data: make(map[string]bootData),
	}
	for i, sc := range initial {
		if sc == nil {
			continue
		}
		sm.pending = append(sm.pending, pendingAdd{
			key:       sc.Base().sys.settings.Key,
			scene:     sc,
			autoStart: i == 0,
		})
	}
	Once(game.events, GameReady, sm, func(*Game) { sm.bootQueue() })
	return sm
}

// IsProcessing reports whether the manager is inside an update or render.
// Structural changes made while processing are queued for the next frame.
func (sm *SceneManager) IsProcessing() bool { return sm.isProcessing }

// IsBooted reports whether the manager has processed its boot queue.
func (sm *SceneManager) IsBooted() bool { return sm.isBooted }

func (sm *SceneManager) bootQueue() {
	if sm.isBooted {
		return
	}
	for _, entry := range sm.pending {
		scene := entry.scene.Base()
		key, err := sm.resolveKey(entry.key, scene)
		if err != nil {
			warnf("boot scene: %v", err)
			continue
		}
		scene.controller = entry.scene
		sm.createSceneFromInstance(key, scene)
		sm.keys[key] = scene
		sm.scenes = append(sm.scenes, scene)

		settings := scene.sys.settings
		if d, ok := sm.data[key]; ok {
			settings.Data = d.data
			if d.autoStart {
				entry.autoStart = true
			}
		}
		if entry.autoStart || settings.Active {
			sm.start = append(sm.start, key)
		}
	}
	sm.pending = nil
	clear(sm.data)
	sm.isBooted = true

	start := sm.start
	sm.start = nil
	for _, key := range start {
		sm.Start(key, nil)
	}
}

func (sm *SceneManager) processQueue() {
	if len(sm.pending) == 0 && len(sm.queue) == 0 {
		return
	}
	if len(sm.pending) > 0 {
		pending := slices.Clone(sm.pending)
		for _, entry := range pending {
			if _, err := sm.Add(entry.key, entry.scene, entry.autoStart, entry.data); err != nil {
				warnf("add scene: %v", err)
			}
		}
		sm.pending = nil
		start := sm.start
		sm.start = nil
		for _, key := range start {
			sm.Start(key, nil)
		}
		return
	}
	queue := sm.queue
	sm.queue = nil
	for _, q := range queue {
		sm.runOp(q)
	}
}

func (sm *SceneManager) runOp(q queuedOp) {
	switch q.op {
	case opStart:
		sm.Start(q.keyA, q.data)
	case opStop:
		sm.Stop(q.keyA, q.data)
	case opRun:
		sm.Run(q.keyA, q.data)
	case opSwitch:
		sm.Switch(q.keyA, q.keyB, q.data)
	case opRemove:
		sm.Remove(q.keyA)
	case opBringToTop:
		sm.BringToTop(q.keyA)
	case opSendToBack:
		sm.SendToBack(q.keyA)
	case opMoveUp:
		sm.MoveUp(q.keyA)
	case opMoveDown:
		sm.MoveDown(q.keyA)
	case opMoveAbove:
		sm.MoveAbove(q.keyA, q.keyB)
	case opMoveBelow:
		sm.MoveBelow(q.keyA, q.keyB)
	case opSwapPosition:
		sm.SwapPosition(q.keyA, q.keyB)
	}
}

func (sm *SceneManager) queueOp(op sceneOp, keyA, keyB string, data any) {
	sm.queue = append(sm.queue, queuedOp{op: op, keyA: keyA, keyB: keyB, data: data})
}

// Add registers a scene under key. The scene's configured key wins when
// set. Before boot, or while processing, the add is queued and the returned
// scene is nil.
func (sm *SceneManager) Add(key string, sc Sceneable, autoStart bool, data any) (*Scene, error) {
	if sc == nil {
		return nil, fmt.Errorf("add scene %q: nil scene", key)
	}
	if sm.isProcessing || !sm.isBooted {
		sm.pending = append(sm.pending, pendingAdd{key: key, scene: sc, autoStart: autoStart, data: data})
		if !sm.isBooted {
			sm.data[key] = bootData{autoStart: autoStart, data: data}
		}
		return nil, nil
	}

	scene := sc.Base()
	key, err := sm.resolveKey(key, scene)
	if err != nil {
		return nil, err
	}
	scene.controller = sc
	sm.createSceneFromInstance(key, scene)
	sm.keys[key] = scene
	sm.scenes = append(sm.scenes, scene)

	settings := scene.sys.settings
	if d, ok := sm.data[key]; ok {
		settings.Data = d.data
		if d.autoStart {
			autoStart = true
		}
		delete(sm.data, key)
	}
	if data != nil {
		settings.Data = data
	}

	if autoStart || settings.Active {
		if len(sm.pending) > 0 {
			sm.start = append(sm.start, key)
		} else {
			sm.Start(key, data)
		}
	}
	return scene, nil
}

func (sm *SceneManager) resolveKey(key string, scene *Scene) (string, error) {
	if k := scene.sys.settings.Key; k != "" {
		key = k
	}
	if key == "" {
		key = "default"
	}
	if _, ok := sm.keys[key]; ok {
		return "", fmt.Errorf("%w: %q", ErrDuplicateSceneKey, key)
	}
	return key, nil
}

func (sm *SceneManager) createSceneFromInstance(key string, scene *Scene) {
	scene.sys.settings.Key = key
	scene.sys.Init(sm.game)
}

// Remove destroys the scene under key. Scenes in a transition are skipped.
func (sm *SceneManager) Remove(key string) {
	if sm.isProcessing {
		sm.queueOp(opRemove, key, "", nil)
		return
	}
	scene := sm.GetScene(key)
	if scene == nil || scene.sys.IsTransitioning() {
		return
	}
	sys := scene.sys
	if loader := sys.Load(); loader != nil {
		loader.Events().Off(LoaderComplete.Name, sm)
	}
	sys.Destroy()
	delete(sm.keys, key)
	sm.scenes = slices.DeleteFunc(sm.scenes, func(s *Scene) bool { return s == scene })
}

func (sm *SceneManager) bootScene(scene *Scene) {
	sys := scene.sys
	settings := sys.settings
	sys.sceneUpdate = nil

	if scene.runInit(settings.Data) {
		settings.Status = StatusInit
		if settings.IsTransition {
			Emit(sys.events, SceneTransitionInit, Transition{Scene: settings.TransitionFrom, Duration: settings.TransitionDuration})
		}
	}

	loader := sys.Load()
	if loader != nil {
		// a restart during LOADING abandons the previous load
		loader.stop()
		if err := loader.Reset(); err != nil {
			warnf("boot %q: %v", settings.Key, err)
		}
	}
	if scene.runPreload() && loader != nil && loader.Pending() > 0 {
		settings.Status = StatusLoading
		Once(loader.Events(), LoaderComplete, sm, func(LoaderResult) { sm.create(scene) })
		loader.Start()
		return
	}
	sm.create(scene)
}

func (sm *SceneManager) create(scene *Scene) {
	sys := scene.sys
	settings := sys.settings

	settings.Status = StatusCreating
	scene.runCreate(settings.Data)
	if settings.Status == StatusDestroyed {
		return
	}
	if settings.IsTransition {
		Emit(sys.events, SceneTransitionStart, Transition{Scene: settings.TransitionFrom, Duration: settings.TransitionDuration})
	}
	sys.sceneUpdate = scene.updateHook()
	settings.Status = StatusRunning
	Emit(sys.events, SceneCreate, scene)
}

// Update steps every running scene, top of the stack first.
func (sm *SceneManager) Update(time, delta float64) {
	sm.processQueue()
	sm.isProcessing = true
	defer func() { sm.isProcessing = false }()
	for i := len(sm.scenes) - 1; i >= 0; i-- {
		if i >= len(sm.scenes) {
			continue
		}
		sys := sm.scenes[i].sys
		if st := sys.settings.Status; st > StatusStart && st <= StatusRunning {
			sys.Step(time, delta)
		}
	}
}

// Render draws every visible scene, bottom of the stack first.
func (sm *SceneManager) Render(screen *ebiten.Image) {
	sm.isProcessing = true
	defer func() { sm.isProcessing = false }()
	for i := 0; i < len(sm.scenes); i++ {
		sys := sm.scenes[i].sys
		if st := sys.settings.Status; sys.settings.Visible && st >= StatusLoading && st < StatusSleeping {
			sys.Render(screen)
		}
	}
}

// GetScene returns the scene under key, or nil.
func (sm *SceneManager) GetScene(key string) *Scene {
	return sm.keys[key]
}

// GetScenes returns the scenes in stack order. activeOnly keeps only
// running scenes; reverse returns the top of the stack first.
func (sm *SceneManager) GetScenes(activeOnly, reverse bool) []*Scene {
	out := make([]*Scene, 0, len(sm.scenes))
	for _, s := range sm.scenes {
		if !activeOnly || s.sys.IsActive() {
			out = append(out, s)
		}
	}
	if reverse {
		slices.Reverse(out)
	}
	return out
}

// GetAt returns the scene at index, or nil.
func (sm *SceneManager) GetAt(index int) *Scene {
	if index < 0 || index >= len(sm.scenes) {
		return nil
	}
	return sm.scenes[index]
}

// GetIndex returns the stack index of the scene under key, or -1.
func (sm *SceneManager) GetIndex(key string) int {
	scene := sm.GetScene(key)
	if scene == nil {
		return -1
	}
	return slices.Index(sm.scenes, scene)
}

// Len returns the number of scenes.
func (sm *SceneManager) Len() int { return len(sm.scenes) }

func (sm *SceneManager) IsActive(key string) bool {
	s := sm.GetScene(key)
	return s != nil && s.sys.IsActive()
}

func (sm *SceneManager) IsPaused(key string) bool {
	s := sm.GetScene(key)
	return s != nil && s.sys.IsPaused()
}

func (sm *SceneManager) IsVisible(key string) bool {
	s := sm.GetScene(key)
	return s != nil && s.sys.IsVisible()
}

func (sm *SceneManager) IsSleeping(key string) bool {
	s := sm.GetScene(key)
	return s != nil && s.sys.IsSleeping()
}

// Pause pauses the scene under key if it is running.
func (sm *SceneManager) Pause(key string, data any) {
	if s := sm.GetScene(key); s != nil {
		s.sys.Pause(data)
	}
}

// Resume resumes the scene under key if it is paused.
func (sm *SceneManager) Resume(key string, data any) {
	if s := sm.GetScene(key); s != nil {
		s.sys.Resume(data)
	}
}

// Sleep puts the scene under key to sleep.
func (sm *SceneManager) Sleep(key string, data any) {
	if s := sm.GetScene(key); s != nil && !s.sys.IsTransitioning() {
		s.sys.Sleep(data)
	}
}

// Wake wakes the scene under key.
func (sm *SceneManager) Wake(key string, data any) {
	if s := sm.GetScene(key); s != nil {
		s.sys.Wake(data)
	}
}

// Run wakes a sleeping scene, resumes a paused one, or starts it otherwise.
func (sm *SceneManager) Run(key string, data any) {
	scene := sm.GetScene(key)
	if scene == nil {
		for _, p := range sm.pending {
			if p.key == key {
				sm.queueOp(opStart, key, "", data)
				return
			}
		}
		return
	}
	switch {
	case scene.sys.IsSleeping():
		scene.sys.Wake(data)
	case scene.sys.IsPaused():
		scene.sys.Resume(data)
	default:
		sm.Start(key, data)
	}
}

// Start starts the scene under key, restarting it if it is already running.
// Before boot the request is remembered and honoured at boot.
func (sm *SceneManager) Start(key string, data any) {
	if !sm.isBooted {
		sm.data[key] = bootData{autoStart: true, data: data}
		return
	}
	scene := sm.GetScene(key)
	if scene == nil {
		for _, p := range sm.pending {
			if p.key == key {
				sm.queueOp(opStart, key, "", data)
				return
			}
		}
		warnf("start: %v %q", ErrUnknownScene, key)
		return
	}
	sys := scene.sys
	if loader := sys.Load(); loader != nil {
		loader.Events().Off(LoaderComplete.Name, sm)
	}
	if st := sys.settings.Status; st >= StatusStart && st <= StatusPaused {
		sys.Shutdown(nil)
	}
	sys.sceneUpdate = nil
	sys.Start(data)
	sm.bootScene(scene)
}

// Stop shuts the scene under key down. Scenes in a transition and scenes
// already shut down are skipped.
func (sm *SceneManager) Stop(key string, data any) {
	scene := sm.GetScene(key)
	if scene == nil || scene.sys.IsTransitioning() || scene.sys.settings.Status == StatusShutdown {
		return
	}
	if loader := scene.sys.Load(); loader != nil {
		loader.Events().Off(LoaderComplete.Name, sm)
	}
	scene.sys.Shutdown(data)
}

// Switch sleeps the scene under from and wakes or starts the scene under to.
func (sm *SceneManager) Switch(from, to string, data any) {
	sceneA := sm.GetScene(from)
	sceneB := sm.GetScene(to)
	if sceneA == nil || sceneB == nil || sceneA == sceneB {
		return
	}
	sm.Sleep(from, nil)
	if sm.IsSleeping(to) {
		sm.Wake(to, data)
	} else {
		sm.Start(to, data)
	}
}

// BringToTop moves the scene under key to the top of the stack.
func (sm *SceneManager) BringToTop(key string) {
	if sm.isProcessing {
		sm.queueOp(opBringToTop, key, "", nil)
		return
	}
	i := sm.GetIndex(key)
	if i != -1 && i < len(sm.scenes)-1 {
		s := sm.scenes[i]
		sm.scenes = slices.Delete(sm.scenes, i, i+1)
		sm.scenes = append(sm.scenes, s)
	}
}

// SendToBack moves the scene under key to the bottom of the stack.
func (sm *SceneManager) SendToBack(key string) {
	if sm.isProcessing {
		sm.queueOp(opSendToBack, key, "", nil)
		return
	}
	i := sm.GetIndex(key)
	if i > 0 {
		s := sm.scenes[i]
		sm.scenes = slices.Delete(sm.scenes, i, i+1)
		sm.scenes = slices.Insert(sm.scenes, 0, s)
	}
}

// MoveUp swaps the scene under key with the one above it.
func (sm *SceneManager) MoveUp(key string) {
	if sm.isProcessing {
		sm.queueOp(opMoveUp, key, "", nil)
		return
	}
	i := sm.GetIndex(key)
	if i != -1 && i < len(sm.scenes)-1 {
		sm.scenes[i], sm.scenes[i+1] = sm.scenes[i+1], sm.scenes[i]
	}
}

// MoveDown swaps the scene under key with the one below it.
func (sm *SceneManager) MoveDown(key string) {
	if sm.isProcessing {
		sm.queueOp(opMoveDown, key, "", nil)
		return
	}
	i := sm.GetIndex(key)
	if i > 0 {
		sm.scenes[i], sm.scenes[i-1] = sm.scenes[i-1], sm.scenes[i]
	}
}

// MoveAbove places the scene under keyB directly above the scene under keyA.
func (sm *SceneManager) MoveAbove(keyA, keyB string) {
	if keyA == keyB {
		return
	}
	if sm.isProcessing {
		sm.queueOp(opMoveAbove, keyA, keyB, nil)
		return
	}
	indexA := sm.GetIndex(keyA)
	indexB := sm.GetIndex(keyB)
	if indexA == -1 || indexB == -1 || indexB == indexA+1 {
		return
	}
	b := sm.scenes[indexB]
	sm.scenes = slices.Delete(sm.scenes, indexB, indexB+1)
	at := indexA + 1
	if indexB < indexA {
		at = indexA
	}
	sm.scenes = slices.Insert(sm.scenes, at, b)
}

// MoveBelow places the scene under keyB directly below the scene under keyA.
func (sm *SceneManager) MoveBelow(keyA, keyB string) {
	if keyA == keyB {
		return
	}
	if sm.isProcessing {
		sm.queueOp(opMoveBelow, keyA, keyB, nil)
		return
	}
	indexA := sm.GetIndex(keyA)
	indexB := sm.GetIndex(keyB)
	if indexA == -1 || indexB == -1 || indexB == indexA-1 {
		return
	}
	b := sm.scenes[indexB]
	sm.scenes = slices.Delete(sm.scenes, indexB, indexB+1)
	at := indexA
	if indexB < indexA {
		at = indexA - 1
	}
	sm.scenes = slices.Insert(sm.scenes, at, b)
}

// SwapPosition swaps the stack positions of two scenes.
func (sm *SceneManager) SwapPosition(keyA, keyB string) {
	if keyA == keyB {
		return
	}
	if sm.isProcessing {
		sm.queueOp(opSwapPosition, keyA, keyB, nil)
		return
	}
	indexA := sm.GetIndex(keyA)
	indexB := sm.GetIndex(keyB)
	if indexA != -1 && indexB != -1 {
		sm.scenes[indexA], sm.scenes[indexB] = sm.scenes[indexB], sm.scenes[indexA]
	}
}

// Dump logs and returns one line per scene with its key and status, top of
// the stack first.
func (sm *SceneManager) Dump() string {
	var b strings.Builder
	b.WriteString("scenes:\n")
	for i := len(sm.scenes) - 1; i >= 0; i-- {
		sys := sm.scenes[i].sys
		flag := " "
		if sys.settings.Active {
			flag = "*"
		}
		fmt.Fprintf(&b, "%s %s (%s)\n", flag, sys.settings.Key, sys.settings.Status)
	}
	logf("%s", b.String())
	return b.String()
}

// Destroy destroys every scene.
func (sm *SceneManager) Destroy() {
	for _, s := range sm.scenes {
		s.sys.Destroy()
	}
	clear(sm.keys)
	sm.scenes = nil
	sm.pending = nil
	sm.start = nil
	sm.queue = nil
}

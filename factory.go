package aspen

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// GameObjectFactoryFunc builds a node for GameObjectFactory.Make. cfg is
// whatever the caller passed to Make.
type GameObjectFactoryFunc func(add *GameObjectFactory, cfg any) *Node

var (
	gameObjectMu    sync.RWMutex
	gameObjectFuncs = map[string]GameObjectFactoryFunc{}
)

// RegisterGameObject makes fn available to every scene's factory under key,
// replacing any previous registration.
func RegisterGameObject(key string, fn GameObjectFactoryFunc) {
	gameObjectMu.Lock()
	defer gameObjectMu.Unlock()
	gameObjectFuncs[key] = fn
}

// RemoveGameObject removes the factory registered under key.
func RemoveGameObject(key string) {
	gameObjectMu.Lock()
	defer gameObjectMu.Unlock()
	delete(gameObjectFuncs, key)
}

func lookupGameObject(key string) (GameObjectFactoryFunc, bool) {
	gameObjectMu.RLock()
	defer gameObjectMu.RUnlock()
	fn, ok := gameObjectFuncs[key]
	return fn, ok
}

// GameObjectFactory is the scene plugin injected as "add". Every node it
// creates is added to the scene's display list.
type GameObjectFactory struct {
	ScenePluginBase
	displayList *DisplayList
	updateList  *UpdateList
}

func init() {
	DefaultPluginCache.Register("GameObjectFactory", func(scene *Scene, pm *PluginManager, key string) ScenePlugin {
		return newGameObjectFactory(scene, pm, key)
	}, "add", false)
}

func newGameObjectFactory(scene *Scene, pm *PluginManager, key string) *GameObjectFactory {
	return &GameObjectFactory{ScenePluginBase: NewScenePluginBase(scene, pm, key)}
}

func (f *GameObjectFactory) Boot() {
	f.displayList = f.systems.DisplayList()
	f.updateList = f.systems.UpdateList()
	On(f.systems.events, SceneDestroy, f, func(*Systems) { f.Destroy() })
}

// Existing adds a node created elsewhere to the display list. Nodes with an
// OnPreUpdate hook also join the update list.
func (f *GameObjectFactory) Existing(n *Node) *Node {
	if n == nil {
		return nil
	}
	if f.displayList != nil {
		f.displayList.Add(n)
	}
	if n.OnPreUpdate != nil && f.updateList != nil {
		f.updateList.Add(n)
	}
	return n
}

// Container adds an empty container at (x, y).
func (f *GameObjectFactory) Container(name string, x, y float64) *Node {
	n := NewContainer(name)
	n.SetPosition(x, y)
	return f.Existing(n)
}

// Sprite adds a sprite at (x, y).
func (f *GameObjectFactory) Sprite(name string, img *ebiten.Image, x, y float64) *Node {
	n := NewSprite(name, img)
	n.SetPosition(x, y)
	return f.Existing(n)
}

// Image adds a sprite using the image stored in the game's binary cache
// under key. It returns nil if the key is missing or not an image.
func (f *GameObjectFactory) Image(name, key string, x, y float64) *Node {
	img := f.cachedImage(key)
	if img == nil {
		warnf("image %q not in cache", key)
		return nil
	}
	return f.Sprite(name, img, x, y)
}

// Rect adds a solid rectangle at (x, y).
func (f *GameObjectFactory) Rect(name string, x, y, w, h float64, c Color) *Node {
	n := NewRect(name, w, h, c)
	n.SetPosition(x, y)
	return f.Existing(n)
}

// Make builds a node with the factory registered under key and adds it.
// It returns nil if no factory is registered.
func (f *GameObjectFactory) Make(key string, cfg any) *Node {
	fn, ok := lookupGameObject(key)
	if !ok {
		warnf("no game object factory for %q", key)
		return nil
	}
	n := fn(f, cfg)
	if n == nil {
		return nil
	}
	if n.Parent == nil {
		f.Existing(n)
	}
	return n
}

func (f *GameObjectFactory) cachedImage(key string) *ebiten.Image {
	if f.systems == nil || f.systems.game == nil {
		return nil
	}
	img, _ := f.systems.game.cache.Binary().Get(key).(*ebiten.Image)
	return img
}

// Destroy releases the factory.
func (f *GameObjectFactory) Destroy() {
	if f.systems == nil {
		return
	}
	f.systems.events.RemoveOwner(f)
	f.displayList = nil
	f.updateList = nil
	f.ScenePluginBase.Destroy()
}

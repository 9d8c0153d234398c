// Package aspen is a scene-based 2D game engine core for [Ebitengine].
//
// A [Game] owns a registry, a [CacheManager], a [PluginManager], an
// [InputManager] and a [SceneManager]. Each [Scene] receives a set of
// plugins (clock, display list, cameras, input, tweens, loader, data and
// more) assembled from a [PluginCache] and injected under short aliases.
//
// # Quick start
//
// Embed *Scene in a struct and implement the hooks you need:
//
//	type Level struct{ *aspen.Scene }
//
//	func (l *Level) Preload() {
//		l.Load().Fsys = assets
//		l.Load().AddImage("hero", "hero.png")
//	}
//
//	func (l *Level) Create(data any) {
//		hero := l.Add().Image("hero", "hero", 100, 50)
//		l.Tweens().Position(hero, 400, 50, aspen.TweenConfig{Duration: 1000, Yoyo: true, Repeat: -1})
//	}
//
//	cfg := aspen.DefaultGameConfig()
//	cfg.Scenes = []aspen.Sceneable{&Level{aspen.NewScene(aspen.SceneConfig{Key: "level"})}}
//	aspen.NewGame(cfg).Run()
//
// # Scenes
//
// Scenes move through pending, init, start, loading, creating, running,
// paused, sleeping, shutdown and destroyed. The [SceneManager] queues
// operations requested during an update and applies them before the next
// one. Inside a scene, [SceneProxy] (alias "scene") addresses other scenes
// and runs transitions.
//
// # Events
//
// Every emitter carries typed events. Listeners are bound to an owner so a
// plugin can drop all of its subscriptions at once:
//
//	aspen.On(scene.Events(), aspen.SceneUpdate, p, func(st aspen.Step) { ... })
//	scene.Events().RemoveOwner(p)
//
// # Input
//
// Raw input is polled once per step from a [RawInput]: [EbitenInput] in a
// window, [VirtualInput] in tests. Pointer events reach the topmost scene
// first. Keyboard and gamepad sub-plugins hang off each scene's
// [InputPlugin].
//
// # Testing
//
// Run a game headless with [Game.RunHeadless] and drive it with a
// [VirtualInput] or a JSON [TestRunner] script.
//
// [Ebitengine]: https://ebitengine.org
package aspen

// Package ecs bridges aspen input into a [Donburi] world.
//
// [NewDonburiStore] publishes every interaction event (pointer, click,
// drag, pinch) of a scene's InputPlugin as a typed Donburi event. Nodes are
// linked to entities with [Store.Spawn] or [Store.Link]; only linked nodes
// produce node events.
//
//	store := ecs.NewDonburiStore(world)
//	store.Attach(scene)
//	hero := store.Spawn(scene.Add().Rect("hero", 0, 0, 32, 32, aspen.ColorWhite))
//	ecs.InteractionEventType.Subscribe(world, onInteraction)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

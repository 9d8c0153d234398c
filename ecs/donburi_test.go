package ecs

import (
	"testing"

	"github.com/phanxgames/aspen"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

var _ aspen.EntityStore = (*Store)(nil)

func TestStoreEmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []aspen.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e aspen.InteractionEvent) {
		received = append(received, e)
	})

	store.EmitEvent(aspen.InteractionEvent{
		Type:     aspen.EventPointerDown,
		EntityID: 42,
		GlobalX:  100,
		GlobalY:  200,
		Button:   aspen.MouseButtonLeft,
	})
	store.EmitEvent(aspen.InteractionEvent{
		Type:       aspen.EventPinch,
		Scale:      2.0,
		ScaleDelta: 0.5,
	})

	if len(received) != 0 {
		t.Fatalf("received %d events before processing, want 0", len(received))
	}
	InteractionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("received %d events, want 2", len(received))
	}
	if e := received[0]; e.Type != aspen.EventPointerDown || e.EntityID != 42 || e.GlobalX != 100 || e.GlobalY != 200 {
		t.Errorf("event 0 = %+v", e)
	}
	if e := received[1]; e.Type != aspen.EventPinch || e.Scale != 2.0 {
		t.Errorf("event 1 = %+v", e)
	}
}

func TestStoreMultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	InteractionEventType.Subscribe(world, func(donburi.World, aspen.InteractionEvent) { count1++ })
	InteractionEventType.Subscribe(world, func(donburi.World, aspen.InteractionEvent) { count2++ })

	store.EmitEvent(aspen.InteractionEvent{Type: aspen.EventClick})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("subscriber calls = %d, %d, want 1, 1", count1, count2)
	}
}

func TestStoreSpawnLinksNode(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	n := aspen.NewContainer("hero")

	e := store.Spawn(n)
	if n.EntityID != uint32(e.Id()) {
		t.Fatalf("EntityID = %d, want %d", n.EntityID, e.Id())
	}
	got, ok := store.Entity(n.EntityID)
	if !ok || got != e {
		t.Errorf("Entity(%d) = %v, %v, want %v, true", n.EntityID, got, ok, e)
	}
	if store.Node(n.EntityID) != n {
		t.Errorf("Node(%d) did not return the spawned node", n.EntityID)
	}

	store.Unlink(n.EntityID)
	if _, ok := store.Entity(n.EntityID); ok {
		t.Error("Entity found after Unlink")
	}
	if world.Valid(e) {
		t.Error("entity still valid after Unlink")
	}
}

func TestStoreUnknownEntity(t *testing.T) {
	store := NewDonburiStore(donburi.NewWorld())
	if _, ok := store.Entity(99); ok {
		t.Error("Entity(99) found in an empty store")
	}
	if store.Node(99) != nil {
		t.Error("Node(99) != nil in an empty store")
	}
}

package ecs

import (
	"github.com/phanxgames/aspen"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type carrying aspen interaction
// events. Events are queued until ProcessEvents runs.
var InteractionEventType = events.NewEventType[aspen.InteractionEvent]()

// NodeData links an entity to its display node.
type NodeData struct {
	Node *aspen.Node
}

// NodeComponent is attached to entities created by Store.Spawn.
var NodeComponent = donburi.NewComponentType[NodeData]()

// Store is an aspen.EntityStore backed by a Donburi world.
type Store struct {
	world    donburi.World
	entities map[uint32]donburi.Entity
}

// NewDonburiStore creates a Store publishing to world.
func NewDonburiStore(world donburi.World) *Store {
	return &Store{world: world, entities: make(map[uint32]donburi.Entity)}
}

// World returns the store's world.
func (s *Store) World() donburi.World { return s.world }

// EmitEvent publishes event to InteractionEventType.
func (s *Store) EmitEvent(event aspen.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// Attach makes s the entity store of scene's input plugin.
func (s *Store) Attach(scene *aspen.Scene) {
	if ip := scene.Input(); ip != nil {
		ip.SetEntityStore(s)
	}
}

// Spawn creates an entity holding n and links them.
func (s *Store) Spawn(n *aspen.Node) donburi.Entity {
	e := s.world.Create(NodeComponent)
	NodeComponent.SetValue(s.world.Entry(e), NodeData{Node: n})
	s.Link(e, n)
	return e
}

// Link sets n's entity ID from e.
func (s *Store) Link(e donburi.Entity, n *aspen.Node) {
	id := uint32(e.Id())
	n.EntityID = id
	s.entities[id] = e
}

// Entity returns the entity linked under an event's EntityID.
func (s *Store) Entity(id uint32) (donburi.Entity, bool) {
	e, ok := s.entities[id]
	if !ok || !s.world.Valid(e) {
		return 0, false
	}
	return e, true
}

// Node returns the node of a spawned entity, or nil.
func (s *Store) Node(id uint32) *aspen.Node {
	e, ok := s.Entity(id)
	if !ok {
		return nil
	}
	entry := s.world.Entry(e)
	if !entry.HasComponent(NodeComponent) {
		return nil
	}
	return NodeComponent.Get(entry).Node
}

// Unlink forgets id and removes its entity from the world.
func (s *Store) Unlink(id uint32) {
	e, ok := s.Entity(id)
	if ok {
		s.world.Remove(e)
	}
	delete(s.entities, id)
}

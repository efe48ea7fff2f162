package ecs

import "fmt"

// Entity is an opaque handle to a stored entity. The index identifies a
// reusable slot; the generation guards against stale handles referencing a
// slot that was destroyed and recycled. The zero value is never a live entity.
type Entity struct {
	index      uint32
	generation uint32
}

// Index returns the backing slot index of the entity.
func (e Entity) Index() uint32 {
	return e.index
}

// Generation returns the generation counter associated with the entity.
func (e Entity) Generation() uint32 {
	return e.generation
}

// IsZero reports whether the handle is the zero value.
func (e Entity) IsZero() bool {
	return e.index == 0 && e.generation == 0
}

// Pack encodes the handle into a single uint64, index in the upper half.
// Used by integer-keyed side tables that cannot hold struct keys.
func (e Entity) Pack() uint64 {
	return uint64(e.index)<<32 | uint64(e.generation)
}

// UnpackEntity decodes a handle produced by Pack.
func UnpackEntity(v uint64) Entity {
	return Entity{index: uint32(v >> 32), generation: uint32(v)}
}

// EntityFromParts constructs a handle from raw components.
func EntityFromParts(index, generation uint32) Entity {
	return Entity{index: index, generation: generation}
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity(%d:%d)", e.index, e.generation)
}

// entityLocation records where an entity's data currently lives.
// A nil arch means the slot holds no live entity.
type entityLocation struct {
	arch *Archetype
	slot uint32
}

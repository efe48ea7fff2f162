package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/gridworld/ecs"
)

func TestEntityPackRoundTrip(t *testing.T) {
	tests := []struct {
		index      uint32
		generation uint32
	}{
		{0, 0},
		{0, 1},
		{1, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{12345, 67890},
	}

	for _, tt := range tests {
		e := ecs.EntityFromParts(tt.index, tt.generation)
		back := ecs.UnpackEntity(e.Pack())
		assert.Equal(t, e, back)
		assert.Equal(t, tt.index, back.Index())
		assert.Equal(t, tt.generation, back.Generation())
	}
}

func TestEntityValidAfterCreate(t *testing.T) {
	w, _ := newTestWorld()

	e := w.CreateEntity()
	assert.True(t, w.IsEntityValid(e))
	assert.False(t, e.IsZero())
}

func TestEntityInvalidAfterDestroy(t *testing.T) {
	w, _ := newTestWorld()

	e := w.CreateEntity()
	w.DestroyEntity(e)
	assert.False(t, w.IsEntityValid(e))
}

func TestStaleHandleAfterSlotRecycle(t *testing.T) {
	w, _ := newTestWorld()

	first := w.CreateEntity()
	w.DestroyEntity(first)

	// The freed index is reused with a bumped generation.
	second := w.CreateEntity()
	assert.Equal(t, first.Index(), second.Index())
	assert.NotEqual(t, first.Generation(), second.Generation())

	assert.False(t, w.IsEntityValid(first))
	assert.True(t, w.IsEntityValid(second))
}

func TestZeroHandleNeverValid(t *testing.T) {
	w, _ := newTestWorld()
	assert.False(t, w.IsEntityValid(ecs.Entity{}))
}

func TestDoubleDestroyIsNoOp(t *testing.T) {
	w, _ := newTestWorld()

	e := w.CreateEntity()
	other := w.CreateEntity()

	w.DestroyEntity(e)
	assert.Equal(t, 1, w.EntityCount())

	// Destroying again must not free someone else's slot.
	w.DestroyEntity(e)
	assert.Equal(t, 1, w.EntityCount())
	assert.True(t, w.IsEntityValid(other))
}

func TestEntityCountTracksChurn(t *testing.T) {
	w, _ := newTestWorld()

	entities := make([]ecs.Entity, 0, 100)
	for i := 0; i < 100; i++ {
		entities = append(entities, w.CreateEntity())
	}
	assert.Equal(t, 100, w.EntityCount())

	for _, e := range entities[:40] {
		w.DestroyEntity(e)
	}
	assert.Equal(t, 60, w.EntityCount())

	for i := 0; i < 40; i++ {
		w.CreateEntity()
	}
	assert.Equal(t, 100, w.EntityCount())
}

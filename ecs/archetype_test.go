package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/gridworld/ecs"
)

func TestSignatureOrderIndependent(t *testing.T) {
	_, ids := newTestRegistry()

	a := ecs.NewSignature(ids.position, ids.velocity, ids.health)
	b := ecs.NewSignature(ids.health, ids.position, ids.velocity)
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, a.IDs(), b.IDs())
}

func TestSignatureSetOps(t *testing.T) {
	_, ids := newTestRegistry()

	sig := ecs.NewSignature(ids.position)
	assert.True(t, sig.Contains(ids.position))
	assert.False(t, sig.Contains(ids.velocity))

	grown := sig.With(ids.velocity)
	assert.True(t, grown.Contains(ids.velocity))
	assert.Equal(t, 1, sig.Len(), "With must not mutate the receiver")

	shrunk := grown.Without(ids.position)
	assert.False(t, shrunk.Contains(ids.position))
	assert.True(t, shrunk.Contains(ids.velocity))

	assert.True(t, grown.ContainsAll(sig))
	assert.False(t, sig.ContainsAll(grown))
	assert.True(t, grown.Overlaps(shrunk))
}

func TestColumnLengthsAfterSwapRemove(t *testing.T) {
	w, ids := newTestWorld()

	sig := ecs.NewSignature(ids.position, ids.velocity)
	entities := make([]ecs.Entity, 0, 10)
	for i := 0; i < 10; i++ {
		e := w.CreateEntityWith(sig,
			Position{X: float32(i)},
			Velocity{DX: float32(i) * 2},
		)
		entities = append(entities, e)
	}

	// Remove from the middle; the last entity swaps into the hole.
	w.DestroyEntity(entities[3])

	for a := range w.QueryArchetypes(ids.position, ids.velocity) {
		require.Equal(t, 9, a.Len())
		assert.Len(t, ecs.ColumnOf[Position](a, ids.position), 9)
		assert.Len(t, ecs.ColumnOf[Velocity](a, ids.velocity), 9)
	}

	// Every survivor's location still points at its own data.
	for i, e := range entities {
		if i == 3 {
			continue
		}
		pos, ok := ecs.GetComponent[Position](w, e)
		require.True(t, ok, "entity %d lost its location", i)
		assert.Equal(t, float32(i), pos.X)
		vel, ok := ecs.GetComponent[Velocity](w, e)
		require.True(t, ok)
		assert.Equal(t, float32(i)*2, vel.DX)
	}
}

func TestRemoveLastSlotNoSwap(t *testing.T) {
	w, ids := newTestWorld()

	sig := ecs.NewSignature(ids.position)
	a := w.CreateEntityWith(sig, Position{X: 1})
	b := w.CreateEntityWith(sig, Position{X: 2})

	w.DestroyEntity(b)

	pos, ok := ecs.GetComponent[Position](w, a)
	require.True(t, ok)
	assert.Equal(t, float32(1), pos.X)
}

func TestMigrationPreservesSharedComponents(t *testing.T) {
	w, ids := newTestWorld()

	sig := ecs.NewSignature(ids.position, ids.velocity)
	e := w.CreateEntityWith(sig,
		Position{X: 1.5, Y: -2.25, Z: 3.75},
		Velocity{DX: 0.5, DY: 0.25, DZ: -0.125},
	)

	// Add migrates to {Position, Velocity, Health}.
	ecs.AddComponent(w, e, Health{HP: 80})
	// Remove migrates to {Position, Health}.
	w.RemoveComponent(e, ids.velocity)

	pos, ok := ecs.GetComponent[Position](w, e)
	require.True(t, ok)
	assert.Equal(t, Position{X: 1.5, Y: -2.25, Z: 3.75}, *pos)

	hp, ok := ecs.GetComponent[Health](w, e)
	require.True(t, ok)
	assert.Equal(t, int32(80), hp.HP)

	_, ok = ecs.GetComponent[Velocity](w, e)
	assert.False(t, ok)
}

func TestMatches(t *testing.T) {
	w, ids := newTestWorld()

	w.CreateEntityWith(ecs.NewSignature(ids.position, ids.velocity), Position{}, Velocity{})

	matched := 0
	for a := range w.QueryArchetypes(ids.position) {
		assert.True(t, a.Matches(ids.position))
		assert.True(t, a.Matches(ids.position, ids.velocity))
		assert.False(t, a.Matches(ids.health))
		matched++
	}
	assert.Equal(t, 1, matched)
}

func TestAddExistingComponentOverwritesInPlace(t *testing.T) {
	w, ids := newTestWorld()

	sig := ecs.NewSignature(ids.position)
	e := w.CreateEntityWith(sig, Position{X: 1})

	before := w.ArchetypeCount()
	ecs.AddComponent(w, e, Position{X: 9})
	assert.Equal(t, before, w.ArchetypeCount(), "no new archetype for an in-place overwrite")

	pos, _ := ecs.GetComponent[Position](w, e)
	assert.Equal(t, float32(9), pos.X)
}

func TestRemoveLastComponentLandsInEmptyArchetype(t *testing.T) {
	w, ids := newTestWorld()

	e := w.CreateEntityWith(ecs.NewSignature(ids.position), Position{X: 1})
	w.RemoveComponent(e, ids.position)

	assert.True(t, w.IsEntityValid(e), "entity survives losing its last component")
	_, ok := ecs.GetComponent[Position](w, e)
	assert.False(t, ok)
}

package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/gridworld/ecs"
)

func TestQueryMatchesSupersets(t *testing.T) {
	w, ids := newTestWorld()

	posOnly := ecs.NewSignature(ids.position)
	posVel := ecs.NewSignature(ids.position, ids.velocity)
	full := ecs.NewSignature(ids.position, ids.velocity, ids.health)

	for i := 0; i < 3; i++ {
		w.CreateEntityWith(posOnly)
	}
	for i := 0; i < 5; i++ {
		w.CreateEntityWith(posVel)
	}
	for i := 0; i < 7; i++ {
		w.CreateEntityWith(full)
	}
	w.Tick(0.016)

	assert.Equal(t, 15, w.CountEntitiesWith(ids.position))
	assert.Equal(t, 12, w.CountEntitiesWith(ids.position, ids.velocity))
	assert.Equal(t, 7, w.CountEntitiesWith(ids.health))
	assert.Zero(t, w.CountEntitiesWith(ids.tag))

	seen := 0
	for a := range w.QueryArchetypes(ids.position, ids.velocity) {
		assert.True(t, a.HasComponent(ids.position))
		assert.True(t, a.HasComponent(ids.velocity))
		seen++
	}
	assert.Equal(t, 2, seen)
}

func TestQuerySkipsEmptyArchetypes(t *testing.T) {
	w, ids := newTestWorld()

	sig := ecs.NewSignature(ids.position)
	e := w.CreateEntityWith(sig)
	w.Tick(0.016)

	// Migrating the sole entity out leaves the {position} archetype allocated
	// but empty; queries must not yield it.
	ecs.DeferAdd(w, e, Velocity{DX: 1})
	w.Tick(0.016)

	count := 0
	for a := range w.QueryArchetypes(ids.position) {
		assert.NotZero(t, a.Len())
		count++
	}
	assert.Equal(t, 1, count)
}

func TestQueryEarlyBreak(t *testing.T) {
	w, ids := newTestWorld()

	w.CreateEntityWith(ecs.NewSignature(ids.position))
	w.CreateEntityWith(ecs.NewSignature(ids.position, ids.velocity))
	w.CreateEntityWith(ecs.NewSignature(ids.position, ids.health))
	w.Tick(0.016)

	visited := 0
	for range w.QueryArchetypes(ids.position) {
		visited++
		break
	}
	assert.Equal(t, 1, visited)
}

func TestColumnViewMutationSticks(t *testing.T) {
	w, ids := newTestWorld()

	sig := ecs.NewSignature(ids.position)
	entities := make([]ecs.Entity, 4)
	for i := range entities {
		entities[i] = w.CreateEntityWith(sig, Position{X: float32(i)})
	}
	w.Tick(0.016)

	for a := range w.QueryArchetypes(ids.position) {
		col := ecs.ColumnOf[Position](a, ids.position)
		require.Len(t, col, 4)
		for i := range col {
			col[i].Y = col[i].X * 2
		}
	}

	for i, e := range entities {
		p, ok := ecs.GetComponent[Position](w, e)
		require.True(t, ok)
		assert.Equal(t, float32(i)*2, p.Y)
	}
}

package ecs_test

import (
	"testing"

	"github.com/plus3/gridworld/ecs"
)

func BenchmarkCreateEntityWith(b *testing.B) {
	w, ids := newTestWorld()
	sig := ecs.NewSignature(ids.position, ids.velocity)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.CreateEntityWith(sig, Position{X: 1, Y: 2}, Velocity{DX: 0.5})
	}
}

func BenchmarkDestroyEntity(b *testing.B) {
	w, ids := newTestWorld()
	sig := ecs.NewSignature(ids.position, ids.velocity)

	entities := make([]ecs.Entity, b.N)
	for i := 0; i < b.N; i++ {
		entities[i] = w.CreateEntityWith(sig)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.DestroyEntity(entities[i])
	}
}

func BenchmarkGetComponent(b *testing.B) {
	w, ids := newTestWorld()
	e := w.CreateEntityWith(ecs.NewSignature(ids.position), Position{X: 1})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ecs.GetComponent[Position](w, e)
	}
}

func BenchmarkDeferAddDrain(b *testing.B) {
	w, ids := newTestWorld()
	sig := ecs.NewSignature(ids.position)

	entities := make([]ecs.Entity, b.N)
	for i := 0; i < b.N; i++ {
		entities[i] = w.CreateEntityWith(sig)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ecs.DeferAdd(w, entities[i], Health{HP: 100})
	}
	w.Tick(0.016)
}

func BenchmarkColumnIteration(b *testing.B) {
	w, ids := newTestWorld()
	sig := ecs.NewSignature(ids.position, ids.velocity)
	for i := 0; i < 10000; i++ {
		w.CreateEntityWith(sig, Velocity{DX: 1, DY: 1, DZ: 1})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for a := range w.QueryArchetypes(ids.position, ids.velocity) {
			pos := ecs.ColumnOf[Position](a, ids.position)
			vel := ecs.ColumnOf[Velocity](a, ids.velocity)
			for j := range pos {
				pos[j].X += vel[j].DX * 0.016
			}
		}
	}
}

func BenchmarkTickIdle(b *testing.B) {
	w, _ := newTestWorld()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Tick(0.016)
	}
}

package ecs_test

import (
	"fmt"

	"github.com/plus3/gridworld/ecs"
)

type damageSystem struct {
	health ecs.ComponentID
}

func (s *damageSystem) Update(w *ecs.World, dt float64) {
	for a := range w.QueryArchetypes(s.health) {
		for i, e := range a.Entities() {
			col := ecs.ColumnOf[Health](a, s.health)
			col[i].HP -= 10
			if col[i].HP <= 0 {
				w.DeferDestroy(e)
			}
		}
	}
}

// ExampleScheduler demonstrates registering a system through the deferred
// lifecycle queue. The system mutates columns directly and queues destruction
// for entities that drop to zero; the destroys apply at the start of the next
// tick, never mid-iteration.
func ExampleScheduler() {
	registry := ecs.NewRegistry()
	health := ecs.RegisterComponent[Health](registry)

	w := ecs.NewWorld(registry, ecs.DefaultWorldConfig())
	w.DeferCreateSystem(ecs.SystemInfo{
		Name:   "damage",
		Writes: []ecs.ComponentID{health},
		Rate:   ecs.EveryTick(),
	}, &damageSystem{health: health})

	w.CreateEntityWith(ecs.NewSignature(health), Health{HP: 15})
	w.CreateEntityWith(ecs.NewSignature(health), Health{HP: 30})

	for i := 0; i < 3; i++ {
		w.Tick(0.016)
		fmt.Printf("tick %d: %d alive\n", i+1, w.EntityCount())
	}
	// Output:
	// tick 1: 2 alive
	// tick 2: 2 alive
	// tick 3: 1 alive
}

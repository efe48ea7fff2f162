package main

import (
	"math/rand"
	"sync"
	"unsafe"

	"github.com/plus3/gridworld/ecs"
	"github.com/plus3/gridworld/simd"
	"github.com/plus3/gridworld/spatial"
)

// flatten reinterprets a component column of float32 triples as one flat
// []float32 so the width-dispatched kernels can walk it contiguously.
func flatten[T Position | Velocity](col []T) []float32 {
	if len(col) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&col[0])), len(col)*3)
}

// MovementSystem integrates velocity into position through the dispatch
// layer; the kernel width is whatever the host probe selected. Large columns
// are sliced across worker goroutines; the ranges never overlap, so the
// writes stay disjoint.
type MovementSystem struct {
	ids     componentIDs
	workers int
}

// Columns shorter than this run on the tick goroutine; goroutine dispatch
// costs more than the kernel below it.
const movementParallelMin = 4096

func (s *MovementSystem) Update(w *ecs.World, dt float64) {
	for a := range w.QueryArchetypes(s.ids.position, s.ids.velocity) {
		pos := flatten(ecs.ColumnOf[Position](a, s.ids.position))
		vel := flatten(ecs.ColumnOf[Velocity](a, s.ids.velocity))
		if s.workers <= 1 || len(pos) < movementParallelMin {
			simd.ApplyVelocity(pos, vel, float32(dt))
			continue
		}

		var wg sync.WaitGroup
		for _, r := range simd.SplitRange(len(pos), s.workers) {
			wg.Add(1)
			go func(r simd.Range) {
				defer wg.Done()
				simd.ApplyVelocity(pos[r.Lo:r.Hi], vel[r.Lo:r.Hi], float32(dt))
			}(r)
		}
		wg.Wait()
	}
}

// WaveSystem advances oscillator phases and samples them with the batch sine
// kernel, scratch buffers reused across ticks.
type WaveSystem struct {
	ids componentIDs
	src []float32
}

func (s *WaveSystem) Update(w *ecs.World, dt float64) {
	for a := range w.QueryArchetypes(s.ids.phase, s.ids.wave) {
		phases := ecs.ColumnOf[Phase](a, s.ids.phase)
		waves := ecs.ColumnOf[Wave](a, s.ids.wave)

		if cap(s.src) < len(phases) {
			s.src = make([]float32, len(phases))
		}
		s.src = s.src[:len(phases)]
		for i := range phases {
			phases[i].Theta += float32(dt)
			s.src[i] = phases[i].Theta
		}
		out := unsafe.Slice((*float32)(unsafe.Pointer(&waves[0])), len(waves))
		simd.Sine(out, s.src)
	}
}

// SpatialSystem projects entity positions onto the chunk grid, moving each
// entity's occupancy when it crosses a cell boundary and dropping tracking
// for entities the churn system destroyed.
type SpatialSystem struct {
	ids     componentIDs
	manager *spatial.Manager
	known   map[uint64]spatial.Location
}

func (s *SpatialSystem) OnCreate(w *ecs.World) {
	s.known = make(map[uint64]spatial.Location)
}

func (s *SpatialSystem) Update(w *ecs.World, dt float64) {
	for a := range w.QueryArchetypes(s.ids.position) {
		entities := a.Entities()
		pos := ecs.ColumnOf[Position](a, s.ids.position)
		for i, e := range entities {
			loc := s.manager.WorldToChunk(float64(pos[i].X), float64(pos[i].Y), float64(pos[i].Z))
			packed := e.Pack()
			if prev, ok := s.known[packed]; ok {
				s.manager.MoveEntity(e, prev, loc)
			} else {
				s.manager.TrackEntity(e, loc)
			}
			s.known[packed] = loc
		}
	}

	for packed, loc := range s.known {
		if !w.IsEntityValid(ecs.UnpackEntity(packed)) {
			s.manager.StopTracking(ecs.UnpackEntity(packed), loc)
			delete(s.known, packed)
		}
	}
}

// ProbeSystem runs a radius query around a wandering point each tick, the
// read side a culling collaborator would exercise.
type ProbeSystem struct {
	manager *spatial.Manager
	radius  float64
	rng     *rand.Rand

	chunksSeen   int64
	entitiesSeen int64
}

func (s *ProbeSystem) Update(w *ecs.World, dt float64) {
	x := s.rng.Float64()*400 - 200
	z := s.rng.Float64()*400 - 200
	for c := range s.manager.GetChunksInRadius(x, 0, z, s.radius) {
		s.chunksSeen++
		s.entitiesSeen += int64(c.Count())
	}
}

// ChurnSystem keeps the deferred queues busy: tags and untags live entities,
// destroys a few and spawns replacements, all through the producer API.
type ChurnSystem struct {
	ids   componentIDs
	rng   *rand.Rand
	stamp uint32
}

func (s *ChurnSystem) Update(w *ecs.World, dt float64) {
	s.stamp++
	budget := 64
	for a := range w.QueryArchetypes(s.ids.position, s.ids.velocity) {
		for _, e := range a.Entities() {
			if budget == 0 {
				return
			}
			budget--
			switch s.rng.Intn(10) {
			case 0:
				ecs.DeferAdd(w, e, Tag{Stamp: s.stamp})
			case 1:
				w.DeferRemove(e, s.ids.tag)
			case 2:
				w.DeferDestroy(e)
				w.DeferCreate(
					ecs.NewSignature(s.ids.position, s.ids.velocity),
					Position{X: s.rng.Float32() * 100, Z: s.rng.Float32() * 100},
					Velocity{X: s.rng.Float32() - 0.5, Z: s.rng.Float32() - 0.5},
				)
			}
		}
	}
}

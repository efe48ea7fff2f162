package ecs_test

import "github.com/plus3/gridworld/ecs"

// Shared component types for tests.

type Position struct {
	X, Y, Z float32
}

type Velocity struct {
	DX, DY, DZ float32
}

type Health struct {
	HP int32
}

type Tag struct {
	Stamp uint32
}

type testIDs struct {
	position ecs.ComponentID
	velocity ecs.ComponentID
	health   ecs.ComponentID
	tag      ecs.ComponentID
}

func newTestRegistry() (*ecs.Registry, testIDs) {
	reg := ecs.NewRegistry()
	return reg, testIDs{
		position: ecs.RegisterComponent[Position](reg),
		velocity: ecs.RegisterComponent[Velocity](reg),
		health:   ecs.RegisterComponent[Health](reg),
		tag:      ecs.RegisterComponent[Tag](reg),
	}
}

func newTestWorld() (*ecs.World, testIDs) {
	reg, ids := newTestRegistry()
	cfg := ecs.DefaultWorldConfig()
	cfg.Validate = true
	return ecs.NewWorld(reg, cfg), ids
}

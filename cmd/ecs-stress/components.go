package main

import "github.com/plus3/gridworld/ecs"

// Position is a world-space position. Plain float32 triple so a column
// reinterprets as a flat []float32 for the batch kernels.
type Position struct {
	X, Y, Z float32
}

// Velocity is world units per second.
type Velocity struct {
	X, Y, Z float32
}

// Phase is an oscillator angle in radians.
type Phase struct {
	Theta float32
}

// Wave is the sampled oscillator output.
type Wave struct {
	V float32
}

// Tag marks entities the churn system has touched.
type Tag struct {
	Stamp uint32
}

type componentIDs struct {
	position ecs.ComponentID
	velocity ecs.ComponentID
	phase    ecs.ComponentID
	wave     ecs.ComponentID
	tag      ecs.ComponentID
}

func registerComponents(reg *ecs.Registry) componentIDs {
	return componentIDs{
		position: ecs.RegisterComponent[Position](reg),
		velocity: ecs.RegisterComponent[Velocity](reg),
		phase:    ecs.RegisterComponent[Phase](reg),
		wave:     ecs.RegisterComponent[Wave](reg),
		tag:      ecs.RegisterComponent[Tag](reg),
	}
}

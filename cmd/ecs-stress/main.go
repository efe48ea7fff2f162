package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"

	"github.com/plus3/gridworld/ecs"
	"github.com/plus3/gridworld/simd"
	"github.com/plus3/gridworld/spatial"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	workers := flag.Int("workers", runtime.NumCPU(), "Scheduler worker pool size (0 runs batches inline).")
	radius := flag.Float64("radius", 48, "Probe radius for spatial queries, in world units.")
	validate := flag.Bool("validate", false, "Enable the per-tick column integrity check.")
	profileMode := flag.String("profile", "", "Write a profile: cpu or mem.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	log.Println("Starting ECS stress test...")
	log.Println(simd.CapabilityString())

	// 1. Registry, world, spatial manager.
	registry := ecs.NewRegistry()
	ids := registerComponents(registry)

	logger := ecs.NewAsyncLogger(os.Stderr, 1024)
	defer logger.Close()

	world := ecs.NewWorld(registry, ecs.WorldConfig{
		Logger:   logger,
		Workers:  *workers,
		Validate: *validate,
	})
	defer world.Scheduler().Close()

	manager := spatial.NewManager(spatial.DefaultConfig())
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// 2. Register systems through the deferred lifecycle queue.
	world.DeferCreateSystem(ecs.SystemInfo{
		Name:   "movement",
		Reads:  []ecs.ComponentID{ids.velocity},
		Writes: []ecs.ComponentID{ids.position},
		Rate:   ecs.EveryTick(),
	}, &MovementSystem{ids: ids, workers: *workers})

	world.DeferCreateSystem(ecs.SystemInfo{
		Name:   "wave",
		Writes: []ecs.ComponentID{ids.phase, ids.wave},
		Rate:   ecs.EveryTick(),
	}, &WaveSystem{ids: ids})

	world.DeferCreateSystem(ecs.SystemInfo{
		Name:           "spatial-assign",
		Reads:          []ecs.ComponentID{ids.position},
		ResourceWrites: []string{"chunks"},
		Rate:           ecs.EveryTick(),
	}, &SpatialSystem{ids: ids, manager: manager})

	probe := &ProbeSystem{manager: manager, radius: *radius, rng: rand.New(rand.NewSource(rng.Int63()))}
	world.DeferCreateSystem(ecs.SystemInfo{
		Name:          "probe",
		ResourceReads: []string{"chunks"},
		Rate:          ecs.EveryTick(),
	}, probe)

	world.DeferCreateSystem(ecs.SystemInfo{
		Name:   "churn",
		Writes: []ecs.ComponentID{ids.tag},
		Rate:   ecs.Every(50 * time.Millisecond),
	}, &ChurnSystem{ids: ids, rng: rand.New(rand.NewSource(rng.Int63()))})

	// 3. Populate.
	log.Printf("Populating world with %d entities...\n", *entityCount)
	moving := ecs.NewSignature(ids.position, ids.velocity)
	oscillating := ecs.NewSignature(ids.position, ids.phase, ids.wave)
	for i := 0; i < *entityCount; i++ {
		pos := Position{
			X: rng.Float32()*400 - 200,
			Y: rng.Float32() * 64,
			Z: rng.Float32()*400 - 200,
		}
		if i%4 == 0 {
			world.CreateEntityWith(oscillating, pos, Phase{Theta: rng.Float32() * 6.28318})
		} else {
			vel := Velocity{
				X: rng.Float32()*8 - 4,
				Y: rng.Float32()*2 - 1,
				Z: rng.Float32()*8 - 4,
			}
			world.CreateEntityWith(moving, pos, vel)
		}
	}
	log.Println("Population complete.")

	// 4. Tick loop.
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Workers:        *workers,
		Capability:     simd.CapabilityString(),
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			tickStart := time.Now()
			world.Tick(float64(deltaTime) / float64(time.Second))
			report.TickTime.Samples = append(report.TickTime.Samples, time.Since(tickStart))
			report.TotalTicks++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TickTime.Finalize()
	report.FinalEntities = world.EntityCount()
	report.Archetypes = world.ArchetypeCount()
	report.Chunks = manager.ChunkCount()
	report.ProbedChunks = probe.chunksSeen
	report.ProbedEntities = probe.entitiesSeen
	report.Scheduler = world.Scheduler().GetStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

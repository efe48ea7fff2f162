package ecs

import (
	"reflect"

	"github.com/TheBitDrifter/mask"
)

// WorldConfig controls world construction.
type WorldConfig struct {
	// Logger receives warnings and errors. Defaults to a no-op logger.
	Logger Logger
	// Workers sets the scheduler's worker pool size. Zero runs every batch
	// inline on the tick goroutine.
	Workers int
	// Validate enables the column-length integrity check after every tick.
	Validate bool
}

// DefaultWorldConfig returns a config with no logging, no workers and
// validation off.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{Logger: NewNopLogger()}
}

// World owns entity identity, the archetype registry and the deferred
// operation queues, and runs the phased tick. All structural mutation happens
// on the goroutine that calls Tick; any goroutine may enqueue.
//
// A world is an explicit parameter to every storage operation that touches
// the location table, so independent worlds coexist freely (tests spin up as
// many as they like).
type World struct {
	registry   *Registry
	logger     Logger
	archetypes map[mask.Mask]*Archetype
	empty      *Archetype
	scheduler  *Scheduler

	generations []uint32
	free        []uint32
	locations   []entityLocation
	alive       int

	cmd      commandBuffers
	validate bool
	tick     uint64
}

// NewWorld creates a world over the given registry. One empty archetype
// always exists; freshly created entities without a signature land there.
func NewWorld(registry *Registry, cfg WorldConfig) *World {
	if cfg.Logger == nil {
		cfg.Logger = NewNopLogger()
	}
	w := &World{
		registry:   registry,
		logger:     cfg.Logger,
		archetypes: make(map[mask.Mask]*Archetype),
		validate:   cfg.Validate,
	}
	w.empty = w.getOrCreateArchetype(NewSignature())
	w.scheduler = newScheduler(cfg.Logger, cfg.Workers)
	return w
}

// Registry returns the component registry backing this world.
func (w *World) Registry() *Registry {
	return w.registry
}

// Scheduler returns the world's system scheduler.
func (w *World) Scheduler() *Scheduler {
	return w.scheduler
}

// TickCount returns the number of completed ticks.
func (w *World) TickCount() uint64 {
	return w.tick
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return w.alive
}

// ArchetypeCount returns the number of archetypes, including the empty one.
func (w *World) ArchetypeCount() int {
	return len(w.archetypes)
}

func (w *World) getOrCreateArchetype(sig Signature) *Archetype {
	if a, ok := w.archetypes[sig.Key()]; ok {
		return a
	}
	a := newArchetype(w.registry, sig)
	w.archetypes[sig.Key()] = a
	return a
}

func (w *World) allocSlot() Entity {
	var index uint32
	if n := len(w.free); n > 0 {
		index = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		index = uint32(len(w.generations))
		w.generations = append(w.generations, 0)
		w.locations = append(w.locations, entityLocation{})
	}
	w.generations[index]++
	w.alive++
	return Entity{index: index, generation: w.generations[index]}
}

// CreateEntity allocates an entity slot, reusing a freed index and bumping
// its generation, and places the entity in the empty archetype. O(1)
// amortized. Must be called from the tick goroutine; other goroutines use
// DeferCreate.
func (w *World) CreateEntity() Entity {
	e := w.allocSlot()
	slot := w.empty.addEntity(e)
	w.locations[e.index] = entityLocation{arch: w.empty, slot: uint32(slot)}
	return e
}

// CreateEntityWith allocates an entity directly into the archetype matching
// sig, skipping the chain of per-component migrations an incremental build-up
// would pay. Initial values are matched to columns by their dynamic type;
// values whose type is not part of sig are logged and skipped.
func (w *World) CreateEntityWith(sig Signature, values ...any) Entity {
	e := w.allocSlot()
	arch := w.getOrCreateArchetype(sig)
	slot := arch.addEntity(e)
	w.locations[e.index] = entityLocation{arch: arch, slot: uint32(slot)}

	for _, v := range values {
		if v == nil {
			w.logger.Warn("nil spawn value skipped")
			continue
		}
		t := reflect.TypeOf(v)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		id, ok := w.registry.IDOf(t)
		if !ok || !arch.setBoxed(slot, id, v) {
			w.logger.Warn("spawn value does not match signature", "type", t.String())
		}
	}
	return e
}

// DestroyEntity swap-removes the entity from its archetype, frees the slot
// and bumps its generation, invalidating every outstanding handle. A stale or
// invalid handle is a silent no-op.
func (w *World) DestroyEntity(e Entity) {
	if !w.IsEntityValid(e) {
		return
	}
	loc := w.locations[e.index]
	if err := loc.arch.removeAtSwap(w, int(loc.slot), e); err != nil {
		w.logger.Error("destroy aborted", "entity", e.String(), "err", err.Error())
		return
	}
	w.locations[e.index] = entityLocation{}
	w.generations[e.index]++
	w.free = append(w.free, e.index)
	w.alive--
}

// IsEntityValid reports whether the handle refers to a live entity: the
// slot's current generation matches and a location entry exists.
func (w *World) IsEntityValid(e Entity) bool {
	if int(e.index) >= len(w.generations) {
		return false
	}
	return w.generations[e.index] == e.generation && w.locations[e.index].arch != nil
}

// locate resolves a handle to its archetype and slot. ok is false for any
// stale or unknown handle.
func (w *World) locate(e Entity) (*Archetype, int, bool) {
	if !w.IsEntityValid(e) {
		return nil, 0, false
	}
	loc := w.locations[e.index]
	return loc.arch, int(loc.slot), true
}

// applyAdd migrates the entity into the archetype including id and returns
// the destination slot. If the entity already has the component the current
// slot is returned so the caller can overwrite the value in place. Invalid
// handles are dropped silently.
func (w *World) applyAdd(e Entity, id ComponentID) (*Archetype, int, bool) {
	arch, slot, ok := w.locate(e)
	if !ok {
		return nil, 0, false
	}
	if arch.HasComponent(id) {
		return arch, slot, true
	}
	target := w.getOrCreateArchetype(arch.signature.With(id))
	newSlot, err := arch.moveEntityTo(w, slot, target)
	if err != nil {
		w.logger.Error("component add aborted", "entity", e.String(), "err", err.Error())
		return nil, 0, false
	}
	return target, newSlot, true
}

// AddComponent sets the component value on the entity, migrating it to the
// matching archetype first when needed. Tick-goroutine only; producers on
// other goroutines use DeferAdd.
func AddComponent[T any](w *World, e Entity, value T) bool {
	id, ok := w.registry.IDOf(reflect.TypeFor[T]())
	if !ok {
		w.logger.Error("component add dropped", "err", UnregisteredComponentError{Type: reflect.TypeFor[T]()}.Error())
		return false
	}
	arch, slot, ok := w.applyAdd(e, id)
	if !ok {
		return false
	}
	arch.columns[arch.colIndex[id]].(*typedColumn[T]).data[slot] = value
	return true
}

// RemoveComponent migrates the entity to the archetype without id. Removing a
// component the entity lacks, or using a stale handle, is a silent no-op.
// Tick-goroutine only; producers on other goroutines use DeferRemove.
func (w *World) RemoveComponent(e Entity, id ComponentID) {
	arch, slot, ok := w.locate(e)
	if !ok || !arch.HasComponent(id) {
		return
	}
	target := w.getOrCreateArchetype(arch.signature.Without(id))
	if _, err := arch.moveEntityTo(w, slot, target); err != nil {
		w.logger.Error("component remove aborted", "entity", e.String(), "err", err.Error())
	}
}

// GetComponent returns a pointer to the entity's component of type T. The
// pointer is valid until the next structural mutation.
func GetComponent[T any](w *World, e Entity) (*T, bool) {
	id, ok := w.registry.IDOf(reflect.TypeFor[T]())
	if !ok {
		return nil, false
	}
	arch, slot, ok := w.locate(e)
	if !ok || !arch.HasComponent(id) {
		return nil, false
	}
	col := ColumnOf[T](arch, id)
	return &col[slot], true
}

// HasComponent reports whether the entity currently has the component.
func (w *World) HasComponent(e Entity, id ComponentID) bool {
	arch, _, ok := w.locate(e)
	return ok && arch.HasComponent(id)
}

// --- deferred producer API, safe from any goroutine ---

// DeferCreate queues entity creation with the given signature and initial
// values for the next tick's drain.
func (w *World) DeferCreate(sig Signature, values ...any) {
	w.cmd.mu.Lock()
	w.cmd.createEntities = append(w.cmd.createEntities, spawnRequest{signature: sig, values: values})
	w.cmd.mu.Unlock()
}

// DeferDestroy queues entity destruction. Stale handles are dropped at drain.
func (w *World) DeferDestroy(e Entity) {
	w.cmd.mu.Lock()
	w.cmd.destroyEntities = append(w.cmd.destroyEntities, e)
	w.cmd.mu.Unlock()
}

// DeferAdd queues a component add. The value travels through a per-type queue
// and is written straight into its column at drain, never boxed.
func DeferAdd[T any](w *World, e Entity, value T) {
	id, ok := w.registry.IDOf(reflect.TypeFor[T]())
	if !ok {
		w.logger.Error("deferred add dropped", "err", UnregisteredComponentError{Type: reflect.TypeFor[T]()}.Error())
		return
	}
	w.cmd.addQueueFor(w, id).(*typedAddQueue[T]).enqueue(e, value)
}

// DeferRemove queues a component removal.
func (w *World) DeferRemove(e Entity, id ComponentID) {
	w.cmd.mu.Lock()
	w.cmd.removes = append(w.cmd.removes, removeRequest{entity: e, component: id})
	w.cmd.mu.Unlock()
}

// Defer queues an arbitrary action to run at the end of the tick, after the
// scheduler. This is how render-goroutine work is marshalled onto the tick
// goroutine.
func (w *World) Defer(fn func()) {
	w.cmd.mu.Lock()
	w.cmd.deferred = append(w.cmd.deferred, fn)
	w.cmd.mu.Unlock()
}

// DeferCreateSystem queues registration of a system with the scheduler.
func (w *World) DeferCreateSystem(info SystemInfo, sys System) {
	w.cmd.mu.Lock()
	w.cmd.createSystems = append(w.cmd.createSystems, pendingSystem{info: info, sys: sys})
	w.cmd.mu.Unlock()
}

// DeferDestroySystem queues removal of the named system.
func (w *World) DeferDestroySystem(name string) {
	w.cmd.mu.Lock()
	w.cmd.destroySystems = append(w.cmd.destroySystems, name)
	w.cmd.mu.Unlock()
}

// DeferEnableSystem queues enabling of the named system.
func (w *World) DeferEnableSystem(name string) {
	w.cmd.mu.Lock()
	w.cmd.enableSystems = append(w.cmd.enableSystems, name)
	w.cmd.mu.Unlock()
}

// DeferDisableSystem queues disabling of the named system.
func (w *World) DeferDisableSystem(name string) {
	w.cmd.mu.Lock()
	w.cmd.disableSystems = append(w.cmd.disableSystems, name)
	w.cmd.mu.Unlock()
}

// Tick drains every deferred queue in fixed phase order, runs the scheduler,
// then applies end-of-tick deferred actions. The order guarantees that a
// destroyed entity's components are never read by this tick's systems, and
// that a component whose add was queued before the tick is visible to this
// tick's systems.
func (w *World) Tick(dt float64) {
	w.tick++

	// Phase 1: disable, then destroy systems.
	for _, name := range takeSlice(&w.cmd.mu, &w.cmd.disableSystems) {
		w.scheduler.setEnabled(name, false)
	}
	for _, name := range takeSlice(&w.cmd.mu, &w.cmd.destroySystems) {
		w.scheduler.destroy(w, name)
	}

	// Phase 2: destroy entities.
	for _, e := range takeSlice(&w.cmd.mu, &w.cmd.destroyEntities) {
		w.DestroyEntity(e)
	}

	// Phase 3: create systems, enable systems, create entities.
	for _, ps := range takeSlice(&w.cmd.mu, &w.cmd.createSystems) {
		w.scheduler.create(w, ps)
	}
	for _, name := range takeSlice(&w.cmd.mu, &w.cmd.enableSystems) {
		w.scheduler.setEnabled(name, true)
	}
	for _, req := range takeSlice(&w.cmd.mu, &w.cmd.createEntities) {
		w.CreateEntityWith(req.signature, req.values...)
	}

	// Phase 4: remove components, then add components.
	for _, r := range takeSlice(&w.cmd.mu, &w.cmd.removes) {
		w.RemoveComponent(r.entity, r.component)
	}
	w.cmd.mu.Lock()
	adds := make([]addQueue, len(w.cmd.adds))
	copy(adds, w.cmd.adds)
	w.cmd.mu.Unlock()
	for _, q := range adds {
		if q != nil {
			q.drain(w)
		}
	}

	// Phase 5: run due systems.
	w.scheduler.runTick(w, dt)

	// Phase 6: marshalled end-of-tick actions.
	for _, fn := range takeSlice(&w.cmd.mu, &w.cmd.deferred) {
		w.runDeferred(fn)
	}

	if w.validate {
		for _, a := range w.archetypes {
			if err := a.checkIntegrity(); err != nil {
				w.logger.Error("integrity check failed", "err", err.Error())
			}
		}
	}
}

func (w *World) runDeferred(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("deferred action panicked", "panic", r)
		}
	}()
	fn()
}

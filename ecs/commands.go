package ecs

import "sync"

// The world's deferred-operation queues. Any goroutine may enqueue; only the
// tick goroutine drains, so each queue is multi-producer/single-consumer. A
// single mutex guards the slice heads; handle validity is checked at drain
// time, not enqueue time, because producers may legitimately race with
// destruction across a tick boundary.

type spawnRequest struct {
	signature Signature
	values    []any
}

type removeRequest struct {
	entity    Entity
	component ComponentID
}

type pendingSystem struct {
	info SystemInfo
	sys  System
}

// addQueue is the type-erased face of one component type's deferred-add
// queue. The typed implementation keeps values unboxed until they land in
// their column.
type addQueue interface {
	drain(w *World)
	pending() int
}

type pendingAdd[T any] struct {
	entity Entity
	value  T
}

type typedAddQueue[T any] struct {
	id   ComponentID
	mu   sync.Mutex
	adds []pendingAdd[T]
}

func (q *typedAddQueue[T]) enqueue(e Entity, v T) {
	q.mu.Lock()
	q.adds = append(q.adds, pendingAdd[T]{entity: e, value: v})
	q.mu.Unlock()
}

func (q *typedAddQueue[T]) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.adds)
}

func (q *typedAddQueue[T]) drain(w *World) {
	q.mu.Lock()
	batch := q.adds
	q.adds = nil
	q.mu.Unlock()

	for _, p := range batch {
		arch, slot, ok := w.applyAdd(p.entity, q.id)
		if !ok {
			continue
		}
		col := arch.columns[arch.colIndex[q.id]].(*typedColumn[T])
		col.data[slot] = p.value
	}
}

type commandBuffers struct {
	mu              sync.Mutex
	createSystems   []pendingSystem
	destroySystems  []string
	enableSystems   []string
	disableSystems  []string
	createEntities  []spawnRequest
	destroyEntities []Entity
	removes         []removeRequest
	adds            []addQueue
	deferred        []func()
}

func (c *commandBuffers) addQueueFor(w *World, id ComponentID) addQueue {
	c.mu.Lock()
	defer c.mu.Unlock()
	for int(id) >= len(c.adds) {
		c.adds = append(c.adds, nil)
	}
	if c.adds[id] == nil {
		c.adds[id] = w.registry.newAddQueue(id)
	}
	return c.adds[id]
}

func takeSlice[T any](mu *sync.Mutex, s *[]T) []T {
	mu.Lock()
	out := *s
	*s = nil
	mu.Unlock()
	return out
}

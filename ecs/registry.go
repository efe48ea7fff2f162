package ecs

import (
	"reflect"
	"sync"
)

// MaxComponentTypes bounds the number of distinct component types a registry
// can hold. Signatures are a single 64-bit mask, so IDs stay below 64.
const MaxComponentTypes = 64

// ComponentID is the stable integer identifier assigned to a component type
// at registration. IDs are dense, starting at zero, in registration order.
type ComponentID uint32

// Registry assigns ComponentIDs and holds the per-type factories for column
// storage and deferred-add queues. Each World takes its own Registry, so
// multiple independent worlds can coexist without interference.
type Registry struct {
	mu        sync.RWMutex
	ids       map[reflect.Type]ComponentID
	types     []reflect.Type
	columns   []func() column
	addQueues []func() addQueue
}

// NewRegistry creates an empty component registry.
func NewRegistry() *Registry {
	return &Registry{
		ids: make(map[reflect.Type]ComponentID),
	}
}

// RegisterComponent assigns an ID to the component type T and records its
// column and deferred-queue factories. Must be called for each component type
// before it is stored. Registering the same type twice returns the original
// ID. Panics past MaxComponentTypes.
func RegisterComponent[T any](r *Registry) ComponentID {
	t := reflect.TypeFor[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.ids[t]; ok {
		return id
	}
	if len(r.types) >= MaxComponentTypes {
		panic("ecs: component type limit exceeded: " + t.String())
	}

	id := ComponentID(len(r.types))
	r.ids[t] = id
	r.types = append(r.types, t)
	r.columns = append(r.columns, func() column {
		return &typedColumn[T]{}
	})
	r.addQueues = append(r.addQueues, func() addQueue {
		return &typedAddQueue[T]{id: id}
	})
	return id
}

// IDOf returns the ComponentID previously assigned to t.
func (r *Registry) IDOf(t reflect.Type) (ComponentID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.ids[t]
	return id, ok
}

// TypeOf returns the component type registered under id, or nil.
func (r *Registry) TypeOf(id ComponentID) reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.types) {
		return nil
	}
	return r.types[id]
}

// Count returns the number of registered component types.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

func (r *Registry) newColumn(id ComponentID) column {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.columns) {
		panic("ecs: component id not registered")
	}
	return r.columns[id]()
}

func (r *Registry) newAddQueue(id ComponentID) addQueue {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.addQueues) {
		panic("ecs: component id not registered")
	}
	return r.addQueues[id]()
}

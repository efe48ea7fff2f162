package ecs

import (
	"fmt"
	"reflect"
)

// SlotOutOfRangeError reports a structural operation against a slot index the
// archetype does not hold. Indicates a caller bug; state is left untouched.
type SlotOutOfRangeError struct {
	Slot int
	Len  int
}

func (e SlotOutOfRangeError) Error() string {
	return fmt.Sprintf("ecs: slot %d out of range (archetype holds %d entities)", e.Slot, e.Len)
}

// EntityMismatchError reports that the entity stored at a slot is not the
// handle the caller expected. Indicates a caller bug; state is left untouched.
type EntityMismatchError struct {
	Expected Entity
	Found    Entity
}

func (e EntityMismatchError) Error() string {
	return fmt.Sprintf("ecs: slot holds %v, expected %v", e.Found, e.Expected)
}

// UnregisteredComponentError reports use of a component type that was never
// registered with the world's registry.
type UnregisteredComponentError struct {
	Type reflect.Type
}

func (e UnregisteredComponentError) Error() string {
	return "ecs: component type " + e.Type.String() + " not registered"
}

// ColumnLengthError reports a broken column invariant found by integrity
// validation: a column whose length diverged from the entity list.
type ColumnLengthError struct {
	Component ComponentID
	ColumnLen int
	EntityLen int
}

func (e ColumnLengthError) Error() string {
	return fmt.Sprintf("ecs: column %d length %d != entity count %d", e.Component, e.ColumnLen, e.EntityLen)
}

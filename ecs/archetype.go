package ecs

// Archetype stores every entity sharing one exact component signature in
// structure-of-arrays form: an ordered entity list plus one contiguous column
// per component ID. Every column's length equals the entity list's length
// after every structural operation; that invariant is what keeps slot indices
// meaningful across all columns at once.
//
// Archetypes are mutated only by the owning world's tick goroutine and are
// read-only while systems run, so concurrent reads need no locks.
type Archetype struct {
	signature Signature
	entities  []Entity
	columns   []column
	colIndex  [MaxComponentTypes]int8
}

func newArchetype(reg *Registry, sig Signature) *Archetype {
	a := &Archetype{
		signature: sig,
		columns:   make([]column, sig.Len()),
	}
	for i := range a.colIndex {
		a.colIndex[i] = -1
	}
	for i, id := range sig.IDs() {
		a.columns[i] = reg.newColumn(id)
		a.colIndex[id] = int8(i)
	}
	return a
}

// Signature returns the component set this archetype stores.
func (a *Archetype) Signature() Signature {
	return a.signature
}

// Entities returns the live entity list. Callers must not mutate it.
func (a *Archetype) Entities() []Entity {
	return a.entities
}

// Len returns the number of entities stored.
func (a *Archetype) Len() int {
	return len(a.entities)
}

// Matches reports whether every requested component ID has a column here.
// Queries use this to select eligible archetypes without touching contents.
func (a *Archetype) Matches(ids ...ComponentID) bool {
	for _, id := range ids {
		if a.colIndex[id] < 0 {
			return false
		}
	}
	return true
}

// HasComponent reports whether the archetype stores a column for id.
func (a *Archetype) HasComponent(id ComponentID) bool {
	return a.colIndex[id] >= 0
}

// addEntity appends the entity and grows every column by one default element.
// Returns the new slot.
func (a *Archetype) addEntity(e Entity) int {
	slot := len(a.entities)
	a.entities = append(a.entities, e)
	for _, col := range a.columns {
		col.appendDefault()
	}
	return slot
}

// removeAtSwap removes the entity at slot by moving the last entity's handle
// and column values into it, then truncating. The swapped-in entity's
// location entry is updated through w. Returns an error without mutating
// anything when slot is out of range or does not hold expected; corrupting a
// different entity's data is worse than dropping the operation.
func (a *Archetype) removeAtSwap(w *World, slot int, expected Entity) error {
	if slot < 0 || slot >= len(a.entities) {
		return SlotOutOfRangeError{Slot: slot, Len: len(a.entities)}
	}
	if a.entities[slot] != expected {
		return EntityMismatchError{Expected: expected, Found: a.entities[slot]}
	}

	last := len(a.entities) - 1
	if slot != last {
		moved := a.entities[last]
		a.entities[slot] = moved
		w.locations[moved.index].slot = uint32(slot)
	}
	a.entities = a.entities[:last]
	for _, col := range a.columns {
		col.swapRemove(slot)
	}
	return nil
}

// moveEntityTo migrates the entity at slot into target: every component
// present in both signatures is copied, columns only in target get a default
// element, then the source slot is swap-removed. The location table is
// retargeted before the source mutation so no observer ever finds the entity
// registered in neither archetype.
func (a *Archetype) moveEntityTo(w *World, slot int, target *Archetype) (int, error) {
	if slot < 0 || slot >= len(a.entities) {
		return 0, SlotOutOfRangeError{Slot: slot, Len: len(a.entities)}
	}

	e := a.entities[slot]
	newSlot := len(target.entities)
	target.entities = append(target.entities, e)
	for i, id := range target.signature.IDs() {
		if src := a.colIndex[id]; src >= 0 {
			target.columns[i].appendFrom(a.columns[src], slot)
		} else {
			target.columns[i].appendDefault()
		}
	}

	w.locations[e.index] = entityLocation{arch: target, slot: uint32(newSlot)}

	if err := a.removeAtSwap(w, slot, e); err != nil {
		return newSlot, err
	}
	return newSlot, nil
}

// setBoxed stores a boxed value into the column for id at slot. Reports
// whether the archetype has the column and the value matched its type.
func (a *Archetype) setBoxed(slot int, id ComponentID, v any) bool {
	idx := a.colIndex[id]
	if idx < 0 || slot < 0 || slot >= len(a.entities) {
		return false
	}
	return a.columns[idx].set(slot, v)
}

// getBoxed returns a boxed pointer to the component for id at slot, or nil.
func (a *Archetype) getBoxed(slot int, id ComponentID) any {
	idx := a.colIndex[id]
	if idx < 0 || slot < 0 || slot >= len(a.entities) {
		return nil
	}
	return a.columns[idx].get(slot)
}

// checkIntegrity verifies the column-length invariant. Run after each drain
// when validation is enabled.
func (a *Archetype) checkIntegrity() error {
	for i, col := range a.columns {
		if col.len() != len(a.entities) {
			return ColumnLengthError{
				Component: a.signature.IDs()[i],
				ColumnLen: col.len(),
				EntityLen: len(a.entities),
			}
		}
	}
	return nil
}

// ColumnOf returns the contiguous typed slice backing the column for id in a.
// The slice is valid until the next structural mutation. Returns nil when the
// archetype lacks the column or T does not match the registered type.
func ColumnOf[T any](a *Archetype, id ComponentID) []T {
	idx := a.colIndex[id]
	if idx < 0 {
		return nil
	}
	tc, ok := a.columns[idx].(*typedColumn[T])
	if !ok {
		return nil
	}
	return tc.data
}

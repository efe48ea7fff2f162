package ecs

import (
	"slices"

	"github.com/TheBitDrifter/mask"
)

// Signature is an immutable set of component IDs identifying which columns an
// archetype stores. Two archetypes are the same iff their signatures are
// equal; membership order never matters. The mask form is the map key for the
// archetype registry, the sorted ID slice drives column layout.
type Signature struct {
	bits mask.Mask
	ids  []ComponentID
}

// NewSignature builds a signature from the given component IDs. Duplicates
// are collapsed.
func NewSignature(ids ...ComponentID) Signature {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var bits mask.Mask
	for _, id := range sorted {
		bits.Mark(uint32(id))
	}
	return Signature{bits: bits, ids: sorted}
}

// With returns a copy of the signature with id added.
func (s Signature) With(id ComponentID) Signature {
	if s.Contains(id) {
		return s
	}
	ids := make([]ComponentID, 0, len(s.ids)+1)
	ids = append(ids, s.ids...)
	ids = append(ids, id)
	return NewSignature(ids...)
}

// Without returns a copy of the signature with id removed.
func (s Signature) Without(id ComponentID) Signature {
	if !s.Contains(id) {
		return s
	}
	ids := make([]ComponentID, 0, len(s.ids)-1)
	for _, existing := range s.ids {
		if existing != id {
			ids = append(ids, existing)
		}
	}
	return NewSignature(ids...)
}

// Contains reports whether id is part of the signature.
func (s Signature) Contains(id ComponentID) bool {
	var probe mask.Mask
	probe.Mark(uint32(id))
	return s.bits.ContainsAll(probe)
}

// ContainsAll reports whether every ID in other is also in s.
func (s Signature) ContainsAll(other Signature) bool {
	return s.bits.ContainsAll(other.bits)
}

// Overlaps reports whether the two signatures share any ID.
func (s Signature) Overlaps(other Signature) bool {
	return s.bits.ContainsAny(other.bits)
}

// Key returns the comparable mask form, used to index the archetype registry.
func (s Signature) Key() mask.Mask {
	return s.bits
}

// IDs returns the member IDs in ascending order. Callers must not mutate the
// returned slice.
func (s Signature) IDs() []ComponentID {
	return s.ids
}

// Len returns the number of component types in the signature.
func (s Signature) Len() int {
	return len(s.ids)
}

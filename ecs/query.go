package ecs

import "iter"

// QueryArchetypes returns a lazily-evaluated sequence of the non-empty
// archetypes whose signatures contain every requested component ID. No
// intermediate collection is built; each archetype then exposes its columns
// as contiguous typed views via ColumnOf.
//
// Safe to call concurrently from systems: archetype storage is read-only
// while the scheduler phase runs.
func (w *World) QueryArchetypes(ids ...ComponentID) iter.Seq[*Archetype] {
	return func(yield func(*Archetype) bool) {
		for _, a := range w.archetypes {
			if len(a.entities) == 0 {
				continue
			}
			if !a.Matches(ids...) {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}
}

// CountEntitiesWith returns the number of live entities holding every
// requested component.
func (w *World) CountEntitiesWith(ids ...ComponentID) int {
	total := 0
	for a := range w.QueryArchetypes(ids...) {
		total += a.Len()
	}
	return total
}

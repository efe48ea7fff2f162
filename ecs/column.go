package ecs

// column is a type-erased view over one contiguous component array. Each
// concrete component type implements it exactly once (via typedColumn) and is
// registered in the component registry at startup. Callers that only know a
// runtime ComponentID go through this interface; callers that know the static
// type use ColumnOf for a direct typed slice.
type column interface {
	// appendDefault grows the column by one zero-valued element.
	appendDefault()
	// appendFrom appends the element at slot in src, which must be a column
	// of the same concrete type.
	appendFrom(src column, slot int)
	// swapRemove moves the last element into slot and shrinks by one.
	swapRemove(slot int)
	// get returns a pointer to the element at slot, boxed.
	get(slot int) any
	// set stores a boxed value (T or *T) at slot. Reports whether the value
	// had the column's concrete type.
	set(slot int, v any) bool
	// len returns the element count.
	len() int
}

// typedColumn is the sole column implementation, one instantiation per
// registered component type. Data is a plain slice so matching archetype
// iteration touches contiguous memory.
type typedColumn[T any] struct {
	data []T
}

func (c *typedColumn[T]) appendDefault() {
	var zero T
	c.data = append(c.data, zero)
}

func (c *typedColumn[T]) appendFrom(src column, slot int) {
	s := src.(*typedColumn[T])
	c.data = append(c.data, s.data[slot])
}

func (c *typedColumn[T]) swapRemove(slot int) {
	last := len(c.data) - 1
	if slot != last {
		c.data[slot] = c.data[last]
	}
	c.data = c.data[:last]
}

func (c *typedColumn[T]) get(slot int) any {
	return &c.data[slot]
}

func (c *typedColumn[T]) set(slot int, v any) bool {
	switch val := v.(type) {
	case T:
		c.data[slot] = val
		return true
	case *T:
		c.data[slot] = *val
		return true
	}
	return false
}

func (c *typedColumn[T]) len() int {
	return len(c.data)
}

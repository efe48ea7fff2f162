package spatial

import (
	"iter"
	"math/bits"
	"sync"

	"github.com/kamstrup/intmap"

	"github.com/plus3/gridworld/ecs"
)

// blockSlots is the number of entity slots per tracker block, one bit each in
// the occupancy mask.
const blockSlots = 64

// trackerBlock holds a fixed batch of tracked entity handles plus a 64-bit
// occupancy mask. Adding an entity is a free-bit scan on the inverted mask
// and a single bit flip; iteration peels the lowest set bit. Fixed blocks
// avoid the reallocation churn a growable list pays under rapidly changing
// occupancy.
type trackerBlock struct {
	occupied uint64
	entities [blockSlots]uint64
}

// Chunk is a thread-safe set of tracked entity handles associated with one
// Location. Chunks are created lazily on first occupancy; the manager evicts
// them when the set empties. Each chunk carries its own lock so independent
// chunks never contend.
type Chunk struct {
	loc Location

	mu     sync.Mutex
	blocks []trackerBlock
	slots  *intmap.Map[uint64, int32]
	count  int
}

func newChunk(loc Location) *Chunk {
	return &Chunk{
		loc:   loc,
		slots: intmap.New[uint64, int32](blockSlots),
	}
}

// Location returns the grid cell this chunk occupies.
func (c *Chunk) Location() Location {
	return c.loc
}

// Count returns the number of tracked entities.
func (c *Chunk) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Track records the entity as occupying this chunk. Tracking an already
// tracked entity is a no-op.
func (c *Chunk) Track(e ecs.Entity) {
	packed := e.Pack()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.slots.Get(packed); exists {
		return
	}

	for b := range c.blocks {
		if c.blocks[b].occupied != ^uint64(0) {
			bit := bits.TrailingZeros64(^c.blocks[b].occupied)
			c.blocks[b].occupied |= 1 << bit
			c.blocks[b].entities[bit] = packed
			c.slots.Put(packed, int32(b*blockSlots+bit))
			c.count++
			return
		}
	}

	c.blocks = append(c.blocks, trackerBlock{})
	b := len(c.blocks) - 1
	c.blocks[b].occupied = 1
	c.blocks[b].entities[0] = packed
	c.slots.Put(packed, int32(b*blockSlots))
	c.count++
}

// Untrack removes the entity from the chunk's tracked set. Reports whether it
// was present.
func (c *Chunk) Untrack(e ecs.Entity) bool {
	packed := e.Pack()

	c.mu.Lock()
	defer c.mu.Unlock()

	slot, exists := c.slots.Get(packed)
	if !exists {
		return false
	}
	c.slots.Del(packed)
	c.blocks[slot/blockSlots].occupied &^= 1 << (slot % blockSlots)
	c.count--
	return true
}

// Contains reports whether the entity is tracked in this chunk.
func (c *Chunk) Contains(e ecs.Entity) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.slots.Get(e.Pack())
	return exists
}

// Entities returns an iterator over the tracked entity handles. The tracked
// set is snapshotted under the chunk's lock before iteration begins, so the
// caller may track and untrack while consuming it.
func (c *Chunk) Entities() iter.Seq[ecs.Entity] {
	c.mu.Lock()
	snapshot := make([]uint64, 0, c.count)
	for b := range c.blocks {
		m := c.blocks[b].occupied
		for m != 0 {
			bit := bits.TrailingZeros64(m)
			m &= m - 1
			snapshot = append(snapshot, c.blocks[b].entities[bit])
		}
	}
	c.mu.Unlock()

	return func(yield func(ecs.Entity) bool) {
		for _, packed := range snapshot {
			if !yield(ecs.UnpackEntity(packed)) {
				return
			}
		}
	}
}

// reset clears the chunk for reuse from the manager's pool.
func (c *Chunk) reset(loc Location) {
	c.mu.Lock()
	c.loc = loc
	for b := range c.blocks {
		c.blocks[b].occupied = 0
	}
	c.slots.Clear()
	c.count = 0
	c.mu.Unlock()
}

package spatial

// Table is an open-addressing hash table from packed chunk keys to chunks,
// purpose-built for the chunk registration hot path: linear probing,
// tombstone deletion and doubling growth, with no per-entry node allocation
// the way a generic map-of-pointers would pay.

const (
	slotEmpty uint8 = iota
	slotFull
	slotTombstone
)

// Growth triggers when live plus tombstone slots pass ~72% of capacity.
const (
	tableLoadNum = 72
	tableLoadDen = 100
	tableMinCap  = 16
)

// Table maps packed Location keys to *Chunk values. Not safe for concurrent
// writers; the owning manager enforces single-writer discipline.
type Table struct {
	keys  []uint64
	vals  []*Chunk
	state []uint8
	live  int
	used  int
}

// NewTable creates a table with capacity for at least the given number of
// entries before the first growth.
func NewTable(capacity int) *Table {
	size := tableMinCap
	for size*tableLoadNum/tableLoadDen < capacity {
		size <<= 1
	}
	return &Table{
		keys:  make([]uint64, size),
		vals:  make([]*Chunk, size),
		state: make([]uint8, size),
	}
}

// mix64 is a finalizer-style bit mixer (splitmix64's output stage) spreading
// the packed coordinate bits across the full word before masking.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	return t.live
}

// Put inserts or replaces the value for key.
func (t *Table) Put(key uint64, value *Chunk) {
	if (t.used+1)*tableLoadDen >= len(t.keys)*tableLoadNum {
		t.grow()
	}

	mask := uint64(len(t.keys) - 1)
	i := mix64(key) & mask
	firstTombstone := -1
	for {
		switch t.state[i] {
		case slotEmpty:
			if firstTombstone >= 0 {
				i = uint64(firstTombstone)
			} else {
				t.used++
			}
			t.keys[i] = key
			t.vals[i] = value
			t.state[i] = slotFull
			t.live++
			return
		case slotFull:
			if t.keys[i] == key {
				t.vals[i] = value
				return
			}
		case slotTombstone:
			if firstTombstone < 0 {
				firstTombstone = int(i)
			}
		}
		i = (i + 1) & mask
	}
}

// TryGet returns the value stored for key.
func (t *Table) TryGet(key uint64) (*Chunk, bool) {
	mask := uint64(len(t.keys) - 1)
	i := mix64(key) & mask
	for {
		switch t.state[i] {
		case slotEmpty:
			return nil, false
		case slotFull:
			if t.keys[i] == key {
				return t.vals[i], true
			}
		}
		i = (i + 1) & mask
	}
}

// ContainsKey reports whether key has a live entry.
func (t *Table) ContainsKey(key uint64) bool {
	_, ok := t.TryGet(key)
	return ok
}

// Remove deletes the entry for key, leaving a tombstone so later probes still
// walk past the slot. Reports whether an entry was removed.
func (t *Table) Remove(key uint64) bool {
	mask := uint64(len(t.keys) - 1)
	i := mix64(key) & mask
	for {
		switch t.state[i] {
		case slotEmpty:
			return false
		case slotFull:
			if t.keys[i] == key {
				t.state[i] = slotTombstone
				t.vals[i] = nil
				t.live--
				return true
			}
		}
		i = (i + 1) & mask
	}
}

// grow doubles capacity and rehashes live entries, discarding tombstones.
func (t *Table) grow() {
	oldKeys, oldVals, oldState := t.keys, t.vals, t.state
	size := len(oldKeys) * 2
	t.keys = make([]uint64, size)
	t.vals = make([]*Chunk, size)
	t.state = make([]uint8, size)
	t.live = 0
	t.used = 0

	for i, st := range oldState {
		if st == slotFull {
			t.Put(oldKeys[i], oldVals[i])
		}
	}
}

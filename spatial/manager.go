package spatial

import (
	"iter"
	"math"

	"github.com/kamstrup/intmap"

	"github.com/plus3/gridworld/ecs"
)

// Config sets the chunk grid cell extents in world units. Horizontal covers
// the X and Z axes, vertical covers Y.
type Config struct {
	HorizontalSize float64
	VerticalSize   float64
}

// DefaultConfig returns 16-unit cells on every axis.
func DefaultConfig() Config {
	return Config{HorizontalSize: 16, VerticalSize: 16}
}

// band is the sparse vertical storage for one (X,Z) column: occupied Y
// indices mapped to their chunks plus running [minY,maxY] bounds, so spatial
// queries prune whole columns without per-chunk iteration.
type band struct {
	ys         *intmap.Map[int32, *Chunk]
	minY, maxY int32
	count      int
}

// Manager owns the chunk grid: world-to-chunk conversion, lazy chunk
// creation, entity occupancy bookkeeping and pruned spatial queries.
//
// Registration (chunk creation and eviction) expects a single writer,
// normally the spatial-assignment system. Tracked-set mutation and the query
// surface are safe against that writer through the per-chunk locks.
type Manager struct {
	cfg     Config
	chunks  *Table
	columns *intmap.Map[uint64, *band]
	pool    []*Chunk
}

// NewManager creates a manager with the given cell extents. Non-positive
// extents fall back to the defaults.
func NewManager(cfg Config) *Manager {
	def := DefaultConfig()
	if cfg.HorizontalSize <= 0 {
		cfg.HorizontalSize = def.HorizontalSize
	}
	if cfg.VerticalSize <= 0 {
		cfg.VerticalSize = def.VerticalSize
	}
	return &Manager{
		cfg:     cfg,
		chunks:  NewTable(256),
		columns: intmap.New[uint64, *band](64),
	}
}

// Config returns the manager's cell extents.
func (m *Manager) Config() Config {
	return m.cfg
}

// ChunkCount returns the number of live (occupied) chunks.
func (m *Manager) ChunkCount() int {
	return m.chunks.Len()
}

// WorldToChunk converts a world position to its chunk cell by flooring each
// coordinate against the configured extents.
func (m *Manager) WorldToChunk(x, y, z float64) Location {
	return Location{
		X: int32(math.Floor(x / m.cfg.HorizontalSize)),
		Z: int32(math.Floor(z / m.cfg.HorizontalSize)),
		Y: int32(math.Floor(y / m.cfg.VerticalSize)),
	}
}

// ChunkToBounds returns the world-space box covered by the chunk cell.
func (m *Manager) ChunkToBounds(loc Location) AABB {
	minX := float64(loc.X) * m.cfg.HorizontalSize
	minZ := float64(loc.Z) * m.cfg.HorizontalSize
	minY := float64(loc.Y) * m.cfg.VerticalSize
	return AABB{
		MinX: minX, MinY: minY, MinZ: minZ,
		MaxX: minX + m.cfg.HorizontalSize,
		MaxY: minY + m.cfg.VerticalSize,
		MaxZ: minZ + m.cfg.HorizontalSize,
	}
}

func packColumn(x, z int32) uint64 {
	return uint64(uint32(x))<<32 | uint64(uint32(z))
}

// GetChunk returns the chunk at loc if it exists.
func (m *Manager) GetChunk(loc Location) (*Chunk, bool) {
	return m.chunks.TryGet(loc.Pack())
}

// GetOrCreateChunk returns the chunk at loc, creating it on first occupancy.
// Evicted chunk shells are recycled through an internal pool, so steady-state
// churn at a moving frontier allocates nothing.
func (m *Manager) GetOrCreateChunk(loc Location) *Chunk {
	key := loc.Pack()
	if c, ok := m.chunks.TryGet(key); ok {
		return c
	}

	var c *Chunk
	if n := len(m.pool); n > 0 {
		c = m.pool[n-1]
		m.pool = m.pool[:n-1]
		c.reset(loc)
	} else {
		c = newChunk(loc)
	}
	m.chunks.Put(key, c)
	m.bandInsert(loc, c)
	return c
}

func (m *Manager) bandInsert(loc Location, c *Chunk) {
	col := packColumn(loc.X, loc.Z)
	b, ok := m.columns.Get(col)
	if !ok {
		b = &band{
			ys:   intmap.New[int32, *Chunk](8),
			minY: loc.Y,
			maxY: loc.Y,
		}
		m.columns.Put(col, b)
	}
	b.ys.Put(loc.Y, c)
	b.count++
	if loc.Y < b.minY {
		b.minY = loc.Y
	}
	if loc.Y > b.maxY {
		b.maxY = loc.Y
	}
}

// evict removes an emptied chunk from the table and its vertical band and
// returns the shell to the pool.
func (m *Manager) evict(loc Location) {
	key := loc.Pack()
	c, ok := m.chunks.TryGet(key)
	if !ok {
		return
	}
	m.chunks.Remove(key)

	col := packColumn(loc.X, loc.Z)
	if b, ok := m.columns.Get(col); ok {
		b.ys.Del(loc.Y)
		b.count--
		if b.count == 0 {
			m.columns.Del(col)
		} else {
			// Shrink cached bounds only when an extreme was removed.
			if loc.Y == b.minY {
				for y := b.minY; y <= b.maxY; y++ {
					if _, ok := b.ys.Get(y); ok {
						b.minY = y
						break
					}
				}
			}
			if loc.Y == b.maxY {
				for y := b.maxY; y >= b.minY; y-- {
					if _, ok := b.ys.Get(y); ok {
						b.maxY = y
						break
					}
				}
			}
		}
	}

	m.pool = append(m.pool, c)
}

// TrackEntity records the entity as occupying the chunk at loc, creating the
// chunk when needed.
func (m *Manager) TrackEntity(e ecs.Entity, loc Location) {
	m.GetOrCreateChunk(loc).Track(e)
}

// StopTracking removes the entity from the chunk at loc. When the chunk's
// tracked set empties, the chunk is evicted and its shell recycled. Unknown
// chunks and untracked entities are silent no-ops.
func (m *Manager) StopTracking(e ecs.Entity, loc Location) {
	c, ok := m.chunks.TryGet(loc.Pack())
	if !ok {
		return
	}
	if c.Untrack(e) && c.Count() == 0 {
		m.evict(loc)
	}
}

// MoveEntity retargets the entity's occupancy from old to new, a no-op when
// the two cells are equal.
func (m *Manager) MoveEntity(e ecs.Entity, old, new Location) {
	if old == new {
		return
	}
	m.StopTracking(e, old)
	m.TrackEntity(e, new)
}

// GetChunksInRadius returns the chunks whose bounds lie within radius of the
// query point. Horizontal column range and cached vertical band bounds prune
// first; exact distance runs only on chunks whose column survives, never on
// the whole chunk set.
func (m *Manager) GetChunksInRadius(x, y, z, radius float64) iter.Seq[*Chunk] {
	return func(yield func(*Chunk) bool) {
		if radius < 0 {
			return
		}
		lo := m.WorldToChunk(x-radius, y-radius, z-radius)
		hi := m.WorldToChunk(x+radius, y+radius, z+radius)
		rSq := radius * radius

		for cx := lo.X; cx <= hi.X; cx++ {
			for cz := lo.Z; cz <= hi.Z; cz++ {
				b, ok := m.columns.Get(packColumn(cx, cz))
				if !ok {
					continue
				}
				yMin, yMax := max(lo.Y, b.minY), min(hi.Y, b.maxY)
				for cy := yMin; cy <= yMax; cy++ {
					c, ok := b.ys.Get(cy)
					if !ok {
						continue
					}
					if m.ChunkToBounds(c.loc).DistanceSqTo(x, y, z) > rSq {
						continue
					}
					if !yield(c) {
						return
					}
				}
			}
		}
	}
}

// GetChunksInBounds returns the chunks whose bounds intersect the box, using
// the same column-and-band pruning as the radius query.
func (m *Manager) GetChunksInBounds(box AABB) iter.Seq[*Chunk] {
	return func(yield func(*Chunk) bool) {
		lo := m.WorldToChunk(box.MinX, box.MinY, box.MinZ)
		hi := m.WorldToChunk(box.MaxX, box.MaxY, box.MaxZ)

		for cx := lo.X; cx <= hi.X; cx++ {
			for cz := lo.Z; cz <= hi.Z; cz++ {
				b, ok := m.columns.Get(packColumn(cx, cz))
				if !ok {
					continue
				}
				yMin, yMax := max(lo.Y, b.minY), min(hi.Y, b.maxY)
				for cy := yMin; cy <= yMax; cy++ {
					c, ok := b.ys.Get(cy)
					if !ok {
						continue
					}
					if !m.ChunkToBounds(c.loc).Intersects(box) {
						continue
					}
					if !yield(c) {
						return
					}
				}
			}
		}
	}
}

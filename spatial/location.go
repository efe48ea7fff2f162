// Package spatial indexes entities by fixed-size 3D grid cell ("chunk").
// Chunk occupancy is a derived projection of entity position onto the grid;
// it owns no component data. The chunk registration table expects a single
// writer (the spatial-assignment system); per-chunk tracked sets carry their
// own locks so readers on independent chunks never contend.
package spatial

import "math"

// Location identifies one chunk cell by integer grid coordinates. X and Z are
// the horizontal axes, Y the vertical.
type Location struct {
	X, Z, Y int32
}

// Coordinates pack into 21 bits each, covering ±1,048,575 chunks per axis.
const (
	coordBits = 21
	coordMask = (1 << coordBits) - 1
	coordSign = 1 << (coordBits - 1)
)

// Pack encodes the location into a single uint64, the sole key used for
// hashing and equality.
func (l Location) Pack() uint64 {
	return uint64(uint32(l.X))&coordMask |
		(uint64(uint32(l.Z))&coordMask)<<coordBits |
		(uint64(uint32(l.Y))&coordMask)<<(2*coordBits)
}

// Unpack decodes a key produced by Pack.
func Unpack(key uint64) Location {
	return Location{
		X: signExtend(key & coordMask),
		Z: signExtend((key >> coordBits) & coordMask),
		Y: signExtend((key >> (2 * coordBits)) & coordMask),
	}
}

func signExtend(v uint64) int32 {
	if v&coordSign != 0 {
		return int32(v | ^uint64(coordMask))
	}
	return int32(v)
}

// AABB is an axis-aligned box in world coordinates.
type AABB struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// Intersects reports whether the two boxes overlap, boundaries inclusive.
func (b AABB) Intersects(o AABB) bool {
	return b.MinX <= o.MaxX && b.MaxX >= o.MinX &&
		b.MinY <= o.MaxY && b.MaxY >= o.MinY &&
		b.MinZ <= o.MaxZ && b.MaxZ >= o.MinZ
}

// DistanceSqTo returns the squared distance from the point to the closest
// point on the box; zero when the point is inside.
func (b AABB) DistanceSqTo(x, y, z float64) float64 {
	dx := math.Max(0, math.Max(b.MinX-x, x-b.MaxX))
	dy := math.Max(0, math.Max(b.MinY-y, y-b.MaxY))
	dz := math.Max(0, math.Max(b.MinZ-z, z-b.MaxZ))
	return dx*dx + dy*dy + dz*dz
}

package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationPackRoundTrip(t *testing.T) {
	const maxCoord = 1<<20 - 1
	const minCoord = -(1 << 20)

	cases := []Location{
		{},
		{X: 1, Z: 2, Y: 3},
		{X: -1, Z: -2, Y: -3},
		{X: maxCoord, Z: maxCoord, Y: maxCoord},
		{X: minCoord, Z: minCoord, Y: minCoord},
		{X: maxCoord, Z: minCoord, Y: -1},
	}
	for _, loc := range cases {
		assert.Equal(t, loc, Unpack(loc.Pack()), "location %+v", loc)
	}
}

func TestLocationPackDistinct(t *testing.T) {
	// Neighboring cells on each axis must never collide.
	base := Location{X: 7, Z: -3, Y: 12}
	neighbors := []Location{
		{X: 8, Z: -3, Y: 12},
		{X: 7, Z: -2, Y: 12},
		{X: 7, Z: -3, Y: 13},
		{X: 6, Z: -3, Y: 12},
	}
	for _, n := range neighbors {
		assert.NotEqual(t, base.Pack(), n.Pack(), "collision with %+v", n)
	}
}

func TestAABBIntersects(t *testing.T) {
	a := AABB{MinX: 0, MinY: 0, MinZ: 0, MaxX: 10, MaxY: 10, MaxZ: 10}

	assert.True(t, a.Intersects(AABB{MinX: 5, MinY: 5, MinZ: 5, MaxX: 15, MaxY: 15, MaxZ: 15}))
	assert.True(t, a.Intersects(a))
	// Shared faces count as touching.
	assert.True(t, a.Intersects(AABB{MinX: 10, MinY: 0, MinZ: 0, MaxX: 20, MaxY: 10, MaxZ: 10}))
	assert.False(t, a.Intersects(AABB{MinX: 11, MinY: 0, MinZ: 0, MaxX: 20, MaxY: 10, MaxZ: 10}))
	assert.False(t, a.Intersects(AABB{MinX: 0, MinY: 20, MinZ: 0, MaxX: 10, MaxY: 30, MaxZ: 10}))
}

func TestAABBDistanceSq(t *testing.T) {
	b := AABB{MinX: 0, MinY: 0, MinZ: 0, MaxX: 10, MaxY: 10, MaxZ: 10}

	assert.Zero(t, b.DistanceSqTo(5, 5, 5))
	assert.Zero(t, b.DistanceSqTo(10, 10, 10))
	assert.Equal(t, 4.0, b.DistanceSqTo(12, 5, 5))
	assert.Equal(t, 25.0, b.DistanceSqTo(13, 14, 5))
	assert.Equal(t, 3.0, b.DistanceSqTo(-1, -1, -1))
}

package landscape

import (
	"github.com/Faultbox/landscape/pkg/heightmap"
	"github.com/Faultbox/landscape/pkg/math"
)

// geometry maps heightmap samples into the landscape's world bounding box.
type geometry struct {
	hm    *heightmap.Heightmap
	bbox  math.AABB
	quads int
	scale math.Vec3 // world units per sample step, Z per height unit
}

func newGeometry(hm *heightmap.Heightmap, bbox math.AABB) geometry {
	quads := hm.Size - 1
	size := bbox.Size()
	return geometry{
		hm:    hm,
		bbox:  bbox,
		quads: quads,
		scale: math.Vec3{
			X: size.X / float32(quads),
			Y: size.Y / float32(quads),
			Z: size.Z / heightmap.MaxValue,
		},
	}
}

// pointAt returns the world position of a sample with an explicit height,
// which may be fractional for interpolated heights.
func (g geometry) pointAt(x, y int, h float32) math.Vec3 {
	return math.Vec3{
		X: g.bbox.Min.X + float32(x)*g.scale.X,
		Y: g.bbox.Min.Y + float32(y)*g.scale.Y,
		Z: g.bbox.Min.Z + h*g.scale.Z,
	}
}

// point returns the world position of sample (x, y).
func (g geometry) point(x, y int) math.Vec3 {
	return g.pointAt(x, y, float32(g.hm.At(x, y)))
}

// uv returns the normalized texture coordinate of sample (x, y).
func (g geometry) uv(x, y int) math.Vec2 {
	n := float32(g.quads)
	return math.Vec2{X: float32(x) / n, Y: float32(y) / n}
}

// normal returns the surface normal at a sample from central differences.
func (g geometry) normal(x, y int) math.Vec3 {
	dx := g.heightZ(x+1, y) - g.heightZ(x-1, y)
	dy := g.heightZ(x, y+1) - g.heightZ(x, y-1)
	return math.Vec3{
		X: -dx / (2 * g.scale.X),
		Y: -dy / (2 * g.scale.Y),
		Z: 1,
	}.Normalize()
}

// tangent returns the surface tangent along +X at a sample.
func (g geometry) tangent(x, y int) math.Vec3 {
	dz := g.heightZ(x+1, y) - g.heightZ(x-1, y)
	return math.Vec3{X: 2 * g.scale.X, Z: dz}.Normalize()
}

// heightZ returns the world-space height offset of a sample, clamping at borders.
func (g geometry) heightZ(x, y int) float32 {
	return float32(g.hm.At(x, y)) * g.scale.Z
}

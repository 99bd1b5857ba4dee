package landscape

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/landscape/pkg/math"
)

// updatePatchInfo computes the bounding box, maximum geometric error and vertex
// buffer tile of a node, then recurses into its children. Each node scans all
// of its own samples; a parent's error does not bound its children's.
func (l *Landscape) updatePatchInfo(level, x, y int) {
	t := l.tree
	g := l.geom
	size := t.levelSize(level)
	step := size / t.patchQuads
	x0, y0 := x*size, y*size

	box := math.EmptyAABB()
	var maxError float32
	var maxPos math.Vec3
	found := false

	for ys := y0; ys <= y0+size; ys++ {
		for xs := x0; xs <= x0+size; xs++ {
			p := g.point(xs, ys)
			box.AddPoint(p)

			rx, ry := (xs-x0)%step, (ys-y0)%step
			if rx == 0 && ry == 0 {
				// a vertex of the patch at its own LOD, represented exactly
				continue
			}

			coarse := bilinear(g, xs-rx, ys-ry, step, float32(rx)/float32(step), float32(ry)/float32(step))
			diff := math32.Abs(p.Z - g.pointAt(xs, ys, coarse).Z)
			if diff > maxError || !found {
				maxError = diff
				maxPos = p
				found = true
			}
		}
	}
	if !found {
		maxPos = box.Center()
	}

	info := t.patchInfo(level, x, y)
	info.BBox = box
	info.MaxError = maxError
	info.PositionOfMaxError = maxPos
	info.RDOQuad = -1
	if size <= l.pool.tileQuads {
		info.RDOQuad = l.pool.tileIndex(x0, y0)
	}

	if level+1 == t.levelCount {
		return
	}
	x, y = x*2, y*2
	l.updatePatchInfo(level+1, x, y)
	l.updatePatchInfo(level+1, x+1, y)
	l.updatePatchInfo(level+1, x, y+1)
	l.updatePatchInfo(level+1, x+1, y+1)
}

// bilinear interpolates the raw height inside the coarse cell with corner
// (cx, cy) and side step.
func bilinear(g geometry, cx, cy, step int, fx, fy float32) float32 {
	h00 := float32(g.hm.At(cx, cy))
	h10 := float32(g.hm.At(cx+step, cy))
	h01 := float32(g.hm.At(cx, cy+step))
	h11 := float32(g.hm.At(cx+step, cy+step))

	top := h00 + (h10-h00)*fx
	bottom := h01 + (h11-h01)*fx
	return top + (bottom-top)*fy
}

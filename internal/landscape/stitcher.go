package landscape

import "go.uber.org/zap"

// stitcher turns drawn patches into tile-local triangle indices. Edges shared
// with a coarser neighbor are snapped onto the neighbor's vertex grid, so both
// sides render the shared edge at the coarser resolution and no T-junction
// cracks appear.
type stitcher struct {
	tree *quadTree
	pool *vertexPool
	log  *zap.Logger

	// clamped counts edges left unmatched since the last reset
	clamped int
}

// edgeStride returns the sample stride to use along the edge shared with the
// same-level node (nx, ny).
func (s *stitcher) edgeStride(level, nx, ny int, p Patch) int {
	n := s.tree.subdivPatch(level, nx, ny)
	if n == nil || (n.State != StateDraw && n.State != StateTerminated) {
		return p.Step
	}
	if n.LastSubdividedSize <= p.Size {
		// Same or finer: the finer side adapts to us.
		return p.Step
	}
	// Neighbors more than log2(patchQuads) levels coarser cannot be matched
	// from within this patch; keep the endpoints and accept the seam.
	stride := n.LastSubdividedSize / s.tree.patchQuads
	if stride > p.Size {
		s.clamped++
		s.log.Debug("patch edge left unmatched",
			zap.Int("level", p.Level),
			zap.Int("x", p.X),
			zap.Int("y", p.Y),
			zap.Int("size", p.Size),
			zap.Int("neighborSize", n.LastSubdividedSize),
		)
		return p.Size
	}
	return stride
}

// appendIndices appends the triangle list of p to dst. Degenerate triangles
// created by edge snapping are skipped.
func (s *stitcher) appendIndices(dst []uint16, p Patch) []uint16 {
	quad := s.pool.quads[p.RDOQuad]
	x0, y0 := p.Origin()
	x1, y1 := x0+p.Size, y0+p.Size

	left := s.edgeStride(p.Level, p.X-1, p.Y, p)
	right := s.edgeStride(p.Level, p.X+1, p.Y, p)
	top := s.edgeStride(p.Level, p.X, p.Y-1, p)
	bottom := s.edgeStride(p.Level, p.X, p.Y+1, p)

	vertex := func(x, y int) uint16 {
		sx, sy := x, y
		switch x {
		case x0:
			sy = snap(y, left)
		case x1:
			sy = snap(y, right)
		}
		switch y {
		case y0:
			sx = snap(x, top)
		case y1:
			sx = snap(x, bottom)
		}
		return quad.localIndex(sx, sy)
	}

	step := p.Step
	for y := y0; y < y1; y += step {
		for x := x0; x < x1; x += step {
			a := vertex(x, y)
			b := vertex(x+step, y)
			c := vertex(x, y+step)
			d := vertex(x+step, y+step)

			dst = appendTriangle(dst, a, b, c)
			dst = appendTriangle(dst, b, d, c)
		}
	}
	return dst
}

func appendTriangle(dst []uint16, a, b, c uint16) []uint16 {
	if a == b || b == c || a == c {
		return dst
	}
	return append(dst, a, b, c)
}

// snap rounds v down to a multiple of stride.
func snap(v, stride int) int {
	return v / stride * stride
}

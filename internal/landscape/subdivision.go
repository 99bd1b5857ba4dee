package landscape

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/landscape/pkg/math"
)

// minCameraDistance keeps the projected error finite when the camera sits on a sample.
const minCameraDistance = 1e-3

// Camera is what the subdivision engine needs to know about the viewer.
type Camera interface {
	// Position returns the camera position in world space.
	Position() math.Vec3
	// FOV returns the vertical field of view in degrees.
	FOV() float32
	// Frustum returns the view frustum, or nil to disable culling.
	Frustum() *math.Frustum
}

// Patch is a quad-tree node selected for drawing, with the LOD it is drawn at.
type Patch struct {
	Level   int
	X, Y    int // node coordinates at Level
	Size    int // side in heightmap quads
	Step    int // sample stride of the patch's own grid
	RDOQuad int
}

// Origin returns the sample coordinates of the patch's first corner.
func (p Patch) Origin() (x, y int) {
	return p.X * p.Size, p.Y * p.Size
}

// subdivider walks the quad-tree for one frame.
type subdivider struct {
	tree       *quadTree
	camera     math.Vec3
	frustum    *math.Frustum
	thresholds Thresholds

	patches []Patch
	clipped int
}

// subdivide runs the subdivision engine from the root and returns the drawn
// patches in depth-first order, appended to dst.
func (l *Landscape) subdivide(cam Camera, dst []Patch) ([]Patch, int) {
	s := subdivider{
		tree:       l.tree,
		camera:     cam.Position(),
		frustum:    cam.Frustum(),
		thresholds: l.thresholds,
		patches:    dst,
	}
	mask := math.ClipAll
	if s.frustum == nil {
		mask = 0
	}

	l.tree.clearSubdivision()
	s.subdividePatch(0, 0, 0, mask)
	return s.patches, s.clipped
}

func (s *subdivider) subdividePatch(level, x, y int, clipMask uint8) {
	t := s.tree
	idx := t.index(level, x, y)
	info := &t.info[idx]
	sub := &t.subdiv[idx]
	size := t.levelSize(level)

	if clipMask != 0 && s.frustum.Classify(info.BBox, &clipMask) == math.Outside {
		t.markSubtree(level, x, y, StateClipped, size)
		s.clipped++
		return
	}

	if level+1 == t.levelCount {
		sub.State = StateDraw
		sub.LastSubdividedSize = size
		s.emit(level, x, y, size, info.RDOQuad)
		return
	}

	if info.RDOQuad == -1 || s.needsSubdivision(info) {
		sub.State = StateSubdivided
		sub.LastSubdividedSize = size

		cx, cy := x*2, y*2
		s.subdividePatch(level+1, cx, cy, clipMask)
		s.subdividePatch(level+1, cx+1, cy, clipMask)
		s.subdividePatch(level+1, cx, cy+1, clipMask)
		s.subdividePatch(level+1, cx+1, cy+1, clipMask)
		return
	}

	// Descendants inherit this node's size so neighbors can match its edges.
	t.markSubtree(level, x, y, StateTerminated, size)
	sub.State = StateDraw
	s.emit(level, x, y, size, info.RDOQuad)
}

// needsSubdivision compares the projected error and size of a node with the
// active thresholds.
func (s *subdivider) needsSubdivision(info *PatchInfo) bool {
	errDist := math32.Max(s.camera.Distance(info.PositionOfMaxError), minCameraDistance)
	geometryError := math32.Atan(info.MaxError / errDist)

	boxDist := math32.Max(s.camera.Distance(info.BBox.Center()), minCameraDistance)
	solidAngle := math32.Atan(info.BBox.Radius() / boxDist)

	th := s.thresholds
	return solidAngle > th.SolidAngle ||
		geometryError > th.GeometryAngle ||
		info.MaxError > th.AbsHeight
}

func (s *subdivider) emit(level, x, y, size, rdoQuad int) {
	s.patches = append(s.patches, Patch{
		Level:   level,
		X:       x,
		Y:       y,
		Size:    size,
		Step:    size / s.tree.patchQuads,
		RDOQuad: rdoQuad,
	})
}

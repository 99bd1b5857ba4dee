package landscape

import (
	"fmt"

	"github.com/Faultbox/landscape/pkg/math"
)

// SubdivisionState is the per-frame decision made for a quad-tree node.
type SubdivisionState uint8

const (
	// StateUnvisited nodes were not reached this frame.
	StateUnvisited SubdivisionState = iota
	// StateClipped nodes lie outside the view frustum, or under a node that does.
	StateClipped
	// StateSubdivided nodes were split into their four children.
	StateSubdivided
	// StateTerminated nodes are covered by a drawn ancestor.
	StateTerminated
	// StateDraw nodes are drawn as one patch.
	StateDraw
)

func (s SubdivisionState) String() string {
	switch s {
	case StateUnvisited:
		return "unvisited"
	case StateClipped:
		return "clipped"
	case StateSubdivided:
		return "subdivided"
	case StateTerminated:
		return "terminated"
	case StateDraw:
		return "draw"
	default:
		return fmt.Sprintf("SubdivisionState(%d)", uint8(s))
	}
}

// PatchInfo is the precomputed, build-time data of a quad-tree node.
type PatchInfo struct {
	BBox               math.AABB
	MaxError           float32 // world Z units
	PositionOfMaxError math.Vec3
	RDOQuad            int // vertex buffer tile, -1 if the patch spans several
}

// SubdivPatch is the per-frame state of a quad-tree node.
type SubdivPatch struct {
	State SubdivisionState
	// LastSubdividedSize is the size in samples of the node at which the
	// subdivision of this area stopped. The stitcher uses it to find the edge
	// resolution of neighbors.
	LastSubdividedSize int
}

// quadTree is an implicit quad-tree stored as flat arrays, level by level.
// A node (level, x, y) lives at levelOffsets[level] + y<<level + x.
type quadTree struct {
	quads      int // heightmap size - 1
	patchQuads int
	levelCount int

	levelOffsets []int
	info         []PatchInfo
	subdiv       []SubdivPatch
}

// newQuadTree allocates the arrays for a heightmap with the given number of
// quads per side. Both counts must be powers of two with patchQuads <= quads.
func newQuadTree(quads, patchQuads int) *quadTree {
	if !isPow2(quads) || !isPow2(patchQuads) || patchQuads > quads {
		panic(fmt.Sprintf("landscape: invalid quad-tree dimensions %d/%d", quads, patchQuads))
	}

	levelCount := log2(quads/patchQuads) + 1
	offsets := make([]int, levelCount+1)
	for l := 0; l < levelCount; l++ {
		side := 1 << l
		offsets[l+1] = offsets[l] + side*side
	}
	total := offsets[levelCount]

	return &quadTree{
		quads:        quads,
		patchQuads:   patchQuads,
		levelCount:   levelCount,
		levelOffsets: offsets,
		info:         make([]PatchInfo, total),
		subdiv:       make([]SubdivPatch, total),
	}
}

// levelSize returns the side of a node at level, in heightmap quads.
func (t *quadTree) levelSize(level int) int {
	return t.quads >> level
}

// inRange reports whether (x, y) addresses a node at level.
func (t *quadTree) inRange(level, x, y int) bool {
	side := 1 << level
	return level >= 0 && level < t.levelCount && x >= 0 && y >= 0 && x < side && y < side
}

func (t *quadTree) index(level, x, y int) int {
	return t.levelOffsets[level] + y<<level + x
}

func (t *quadTree) patchInfo(level, x, y int) *PatchInfo {
	return &t.info[t.index(level, x, y)]
}

// subdivPatch returns the frame state of a node, or nil when (x, y) lies
// outside the heightmap.
func (t *quadTree) subdivPatch(level, x, y int) *SubdivPatch {
	if !t.inRange(level, x, y) {
		return nil
	}
	return &t.subdiv[t.index(level, x, y)]
}

// clearSubdivision resets all per-frame state.
func (t *quadTree) clearSubdivision() {
	clear(t.subdiv)
}

// markSubtree sets the state and size of a node and all its descendants.
func (t *quadTree) markSubtree(level, x, y int, state SubdivisionState, size int) {
	s := &t.subdiv[t.index(level, x, y)]
	s.State = state
	s.LastSubdividedSize = size

	if level+1 == t.levelCount {
		return
	}
	x, y = x*2, y*2
	t.markSubtree(level+1, x, y, state, size)
	t.markSubtree(level+1, x+1, y, state, size)
	t.markSubtree(level+1, x, y+1, state, size)
	t.markSubtree(level+1, x+1, y+1, state, size)
}

// nodeCount returns the total number of nodes.
func (t *quadTree) nodeCount() int {
	return len(t.info)
}

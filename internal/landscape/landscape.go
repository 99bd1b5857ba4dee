// Package landscape renders heightmap terrain with a quad-tree LOD scheme.
//
// The heightmap is covered by an implicit quad-tree whose nodes carry a
// precomputed bounding box and geometric error. Every frame the tree is walked
// from the root: nodes outside the frustum are culled, nodes whose projected
// error or size is too large for the camera are split, and the rest are drawn
// as fixed-resolution patches. Patch edges are snapped to coarser neighbors to
// avoid cracks, and the resulting indices are batched per shared vertex buffer.
package landscape

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/landscape/internal/logger"
	"github.com/Faultbox/landscape/pkg/heightmap"
	"github.com/Faultbox/landscape/pkg/math"
)

// ErrNotBuilt is returned when drawing a landscape without a heightmap.
var ErrNotBuilt = errors.New("landscape has no heightmap")

// FrameStats summarizes one Draw call.
type FrameStats struct {
	Patches   int
	Clipped   int
	DrawCalls int
	Indices   int
	// UnmatchedEdges counts patch edges next to a neighbor too coarse to
	// snap to. Those edges may show a seam.
	UnmatchedEdges int
}

// Triangles returns the number of triangles drawn.
func (s FrameStats) Triangles() int {
	return s.Indices / 3
}

// Illumination holds the persisted lighting parameters.
type Illumination struct {
	LightmapEnabled bool
	LightmapSize    int
}

// Landscape owns the quad-tree, the vertex buffers and the material of one terrain.
// It is not safe for concurrent use; build and draw from the render thread.
type Landscape struct {
	device Device
	opts   Options
	log    *zap.Logger

	hm            *heightmap.Heightmap
	heightmapPath string
	bbox          math.AABB

	geom     geometry
	tree     *quadTree
	pool     *vertexPool
	stitcher stitcher

	material     *Material
	cursor       *Cursor
	illumination Illumination

	// per-frame scratch
	thresholds Thresholds
	patches    []Patch
	indices    []uint16
	batch      *BatchState
}

// New creates an empty landscape drawing through device.
func New(device Device, opts Options) *Landscape {
	return &Landscape{
		device:   device,
		opts:     opts,
		log:      logger.Named("landscape"),
		material: NewTileMaskMaterial(),
		batch:    NewBatchState(IndexArrayCount),
	}
}

// BuildFromHeightmap replaces the heightmap and bounding box and rebuilds everything.
func (l *Landscape) BuildFromHeightmap(hm *heightmap.Heightmap, bbox math.AABB) error {
	return l.rebuild(hm, bbox, l.opts)
}

// SetHeightmap replaces the heightmap, keeping the bounding box.
func (l *Landscape) SetHeightmap(hm *heightmap.Heightmap) error {
	return l.rebuild(hm, l.bbox, l.opts)
}

// SetBoundingBox changes the world extents and rebuilds if a heightmap is loaded.
func (l *Landscape) SetBoundingBox(bbox math.AABB) error {
	if l.hm == nil {
		l.bbox = bbox
		return nil
	}
	return l.rebuild(l.hm, bbox, l.opts)
}

// SetQuality switches the quality tier, rebuilding the vertex buffers when the
// tier changes.
func (l *Landscape) SetQuality(q Quality) error {
	if q == l.opts.Quality {
		return nil
	}
	opts := l.opts
	opts.Quality = q
	if l.hm == nil {
		l.opts = opts
		return nil
	}
	return l.rebuild(l.hm, l.bbox, opts)
}

// SetThresholds changes the LOD thresholds. No rebuild is needed.
func (l *Landscape) SetThresholds(s ThresholdSettings) {
	l.opts.Thresholds = s
}

// LoadHeightmapFile loads a heightmap from disk and rebuilds. On failure the
// landscape keeps its previous heightmap.
func (l *Landscape) LoadHeightmapFile(path string) error {
	hm, err := heightmap.Load(path)
	if err != nil {
		l.log.Error("failed to load heightmap", zap.String("path", path), zap.Error(err))
		return err
	}
	if err := l.SetHeightmap(hm); err != nil {
		return err
	}
	l.heightmapPath = path
	return nil
}

// Rebuild recreates the quad-tree and vertex buffers from the current inputs.
func (l *Landscape) Rebuild() error {
	if l.hm == nil {
		return ErrNotBuilt
	}
	return l.rebuild(l.hm, l.bbox, l.opts)
}

// rebuild tears down and recreates the quad-tree, error metric and vertex
// buffers. The previous state survives when the new inputs are invalid.
func (l *Landscape) rebuild(hm *heightmap.Heightmap, bbox math.AABB, opts Options) error {
	if hm == nil {
		return ErrNotBuilt
	}
	if !heightmap.ValidSize(hm.Size) || len(hm.Data) != hm.Size*hm.Size {
		return fmt.Errorf("%w: got %d", heightmap.ErrInvalidSize, hm.Size)
	}
	if err := opts.validate(hm.Size); err != nil {
		return err
	}

	start := time.Now()
	quads := hm.Size - 1

	format := FormatPositionUV
	if opts.Quality.NeedsTangentSpace() {
		format = FormatPositionUVNormalTangent
	}

	geom := newGeometry(hm, bbox)
	pool := newVertexPool(quads, opts.RenderQuadWidth-1, format)
	if err := pool.allocate(l.device, geom); err != nil {
		return err
	}

	l.Release()
	l.hm, l.bbox, l.opts = hm, bbox, opts
	l.geom = geom
	l.pool = pool
	l.tree = newQuadTree(quads, opts.PatchQuadCount)
	l.stitcher = stitcher{tree: l.tree, pool: l.pool, log: l.log}
	l.updatePatchInfo(0, 0, 0)

	l.log.Info("landscape rebuilt",
		zap.Int("size", hm.Size),
		zap.Int("levels", l.tree.levelCount),
		zap.Int("nodes", l.tree.nodeCount()),
		zap.Int("rdoQuads", len(pool.quads)),
		zap.Stringer("quality", opts.Quality),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// Release frees all vertex buffers. The landscape must be rebuilt before it
// can draw again.
func (l *Landscape) Release() {
	if l.pool != nil {
		l.pool.release(l.device)
	}
	l.pool = nil
	l.tree = nil
}

// Draw renders one frame for cam.
func (l *Landscape) Draw(cam Camera) (FrameStats, error) {
	if l.tree == nil {
		return FrameStats{}, ErrNotBuilt
	}

	l.thresholds = l.opts.Thresholds.Active(cam.FOV())

	var stats FrameStats
	l.patches, stats.Clipped = l.subdivide(cam, l.patches[:0])
	stats.Patches = len(l.patches)

	l.material.CameraPosition = cam.Position()
	l.device.BindMaterial(l.material)
	l.stitcher.clamped = 0
	l.drawPatches(&stats)
	stats.UnmatchedEdges = l.stitcher.clamped

	if l.cursor != nil {
		l.device.BindMaterial(l.cursor.material(l.material))
		l.drawPatches(&stats)
	}

	l.log.Debug("landscape frame",
		zap.Int("patches", stats.Patches),
		zap.Int("clipped", stats.Clipped),
		zap.Int("drawCalls", stats.DrawCalls),
		zap.Int("indices", stats.Indices),
		zap.Int("unmatchedEdges", stats.UnmatchedEdges),
	)
	return stats, nil
}

// drawPatches stitches the patches selected this frame and issues their draw
// calls batched by vertex buffer tile.
func (l *Landscape) drawPatches(stats *FrameStats) {
	flush := func(rdoQuad int, indices []uint16) {
		l.device.DrawIndexed(l.pool.quads[rdoQuad].Buffer, indices)
		stats.DrawCalls++
		stats.Indices += len(indices)
	}

	l.batch.Reset()
	for _, p := range l.patches {
		l.indices = l.stitcher.appendIndices(l.indices[:0], p)
		l.batch.Queue(p.RDOQuad, l.indices, flush)
	}
	l.batch.Flush(flush)
}

// SetCursor enables the brush overlay; nil disables it.
func (l *Landscape) SetCursor(c *Cursor) {
	l.cursor = c
}

// Material returns the landscape material for editing textures and uniforms.
func (l *Landscape) Material() *Material {
	return l.material
}

// Heightmap returns the current heightmap, or nil.
func (l *Landscape) Heightmap() *heightmap.Heightmap {
	return l.hm
}

// HeightmapPath returns the file the heightmap was loaded from, if any.
func (l *Landscape) HeightmapPath() string {
	return l.heightmapPath
}

// BoundingBox returns the world extents.
func (l *Landscape) BoundingBox() math.AABB {
	return l.bbox
}

// Options returns the active build options.
func (l *Landscape) Options() Options {
	return l.opts
}

// LevelCount returns the number of quad-tree levels, or 0 before the first build.
func (l *Landscape) LevelCount() int {
	if l.tree == nil {
		return 0
	}
	return l.tree.levelCount
}

// RDOQuads returns the vertex buffer tiles.
func (l *Landscape) RDOQuads() []RDOQuad {
	if l.pool == nil {
		return nil
	}
	return l.pool.quads
}

// PatchInfo returns the build-time data of a node.
func (l *Landscape) PatchInfo(level, x, y int) (PatchInfo, bool) {
	if l.tree == nil || !l.tree.inRange(level, x, y) {
		return PatchInfo{}, false
	}
	return *l.tree.patchInfo(level, x, y), true
}

// Patches returns the patches drawn by the last frame. The slice is reused by
// the next Draw.
func (l *Landscape) Patches() []Patch {
	return l.patches
}

// ActiveThresholds returns the thresholds used by the last frame.
func (l *Landscape) ActiveThresholds() Thresholds {
	return l.thresholds
}

// Illumination returns the persisted lighting parameters.
func (l *Landscape) Illumination() Illumination {
	return l.illumination
}

// SetIllumination changes the persisted lighting parameters.
func (l *Landscape) SetIllumination(il Illumination) {
	l.illumination = il
}

package landscape

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/landscape/pkg/heightmap"
	"github.com/Faultbox/landscape/pkg/math"
)

func TestDrawBeforeBuild(t *testing.T) {
	l := New(NewRecordingDevice(), DefaultOptions())
	_, err := l.Draw(overheadCamera(math.Vec3{Z: 10}))
	assert.ErrorIs(t, err, ErrNotBuilt)
	assert.ErrorIs(t, l.Rebuild(), ErrNotBuilt)
	assert.Zero(t, l.LevelCount())
	assert.Nil(t, l.RDOQuads())
}

func TestRebuildIsIdempotent(t *testing.T) {
	l, dev := buildLandscape(t, noiseHeightmap(t, 257), 64, DefaultOptions())
	info := append([]PatchInfo(nil), l.tree.info...)
	quads := l.RDOQuads()

	require.NoError(t, l.Rebuild())
	assert.True(t, reflect.DeepEqual(info, l.tree.info))
	require.Len(t, l.RDOQuads(), len(quads))
	for i, q := range l.RDOQuads() {
		assert.Equal(t, quads[i].X, q.X)
		assert.Equal(t, quads[i].Y, q.Y)
		assert.NotEqual(t, quads[i].Buffer, q.Buffer)
	}
	assert.Len(t, dev.Buffers, 4, "old buffers are released")
}

func TestInvalidInputsKeepState(t *testing.T) {
	hm := noiseHeightmap(t, 65)
	l, dev := buildLandscape(t, hm, 20, DefaultOptions())

	bad := &heightmap.Heightmap{Size: 64, Data: make([]uint16, 64*64)}
	assert.ErrorIs(t, l.SetHeightmap(bad), heightmap.ErrInvalidSize)

	opts := DefaultOptions()
	opts.PatchQuadCount = 6
	l2 := New(dev, opts)
	assert.ErrorIs(t, l2.BuildFromHeightmap(hm, squareBox(65, 20)), ErrInvalidOptions)

	assert.Same(t, hm, l.Heightmap())
	assert.Equal(t, 4, l.LevelCount())
	assert.Len(t, dev.Buffers, 1)
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		size   int
		ok     bool
	}{
		{name: "defaults", modify: func(*Options) {}, size: 257, ok: true},
		{name: "patch not pow2", modify: func(o *Options) { o.PatchQuadCount = 12 }, size: 257},
		{name: "tile too wide", modify: func(o *Options) { o.RenderQuadWidth = 257 }, size: 257},
		{name: "tile not 2^n+1", modify: func(o *Options) { o.RenderQuadWidth = 100 }, size: 257},
		{name: "patch larger than map", modify: func(o *Options) { o.PatchQuadCount = 32 }, size: 17},
		{name: "small tiles", modify: func(o *Options) { o.RenderQuadWidth = 33 }, size: 257, ok: true},
		{name: "patch overflows batch", modify: func(o *Options) { o.PatchQuadCount = 128 }, size: 129},
		{name: "largest batchable patch", modify: func(o *Options) { o.PatchQuadCount = 64 }, size: 129, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			err := opts.validate(tt.size)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidOptions)
			}
		})
	}
}

func TestBuildRejectsPatchLargerThanBatch(t *testing.T) {
	opts := DefaultOptions()
	opts.PatchQuadCount = 128
	dev := NewRecordingDevice()
	l := New(dev, opts)

	err := l.BuildFromHeightmap(flatHeightmap(t, 129, 0), squareBox(129, 10))
	assert.ErrorIs(t, err, ErrInvalidOptions)
	assert.Empty(t, dev.Buffers)

	_, err = l.Draw(overheadCamera(math.Vec3{X: 64, Y: 64, Z: 500}))
	assert.ErrorIs(t, err, ErrNotBuilt)
}

func TestSetQuality(t *testing.T) {
	l, dev := buildLandscape(t, flatHeightmap(t, 257, 0), 10, DefaultOptions())
	for _, b := range dev.Buffers {
		assert.Equal(t, FormatPositionUV, b.Format)
	}

	require.NoError(t, l.SetQuality(QualityHigh))
	assert.Equal(t, QualityHigh, l.Options().Quality)
	require.Len(t, dev.Buffers, 4)
	for _, b := range dev.Buffers {
		assert.Equal(t, FormatPositionUVNormalTangent, b.Format)
	}

	before := l.RDOQuads()[0].Buffer
	require.NoError(t, l.SetQuality(QualityHigh))
	assert.Equal(t, before, l.RDOQuads()[0].Buffer, "same tier does not rebuild")
}

func TestSetBoundingBox(t *testing.T) {
	l := New(NewRecordingDevice(), DefaultOptions())
	box := squareBox(65, 5)
	require.NoError(t, l.SetBoundingBox(box))
	assert.Equal(t, box, l.BoundingBox())

	require.NoError(t, l.SetHeightmap(flatHeightmap(t, 65, heightmap.MaxValue)))
	root, _ := l.PatchInfo(0, 0, 0)
	assert.InDelta(t, 5, root.BBox.Max.Z, 1e-4)

	require.NoError(t, l.SetBoundingBox(squareBox(65, 50)))
	root, _ = l.PatchInfo(0, 0, 0)
	assert.InDelta(t, 50, root.BBox.Max.Z, 1e-4)
}

func TestLoadHeightmapFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "terrain.heightmap")
	hm := noiseHeightmap(t, 129)
	require.NoError(t, hm.Save(path))

	l, _ := buildLandscape(t, flatHeightmap(t, 65, 0), 10, DefaultOptions())
	require.NoError(t, l.LoadHeightmapFile(path))
	assert.True(t, hm.Equal(l.Heightmap()))
	assert.Equal(t, path, l.HeightmapPath())
	assert.Equal(t, 5, l.LevelCount())

	err := l.LoadHeightmapFile(filepath.Join(dir, "missing.heightmap"))
	assert.Error(t, err)
	assert.True(t, hm.Equal(l.Heightmap()), "failed load keeps the previous heightmap")
	assert.Equal(t, path, l.HeightmapPath())

	_, err = l.Draw(overheadCamera(math.Vec3{X: 64, Y: 64, Z: 1000}))
	assert.NoError(t, err)
}

func TestCursorPass(t *testing.T) {
	l, dev := buildLandscape(t, flatHeightmap(t, 257, 0), 10, DefaultOptions())
	l.Material().Textures[TextureTile0] = "grass.png"
	l.SetCursor(&Cursor{Texture: "brush.png", Center: math.Vec2{X: 0.5, Y: 0.5}, Size: 0.1})

	cam := overheadCamera(math.Vec3{X: 128, Y: 128, Z: 1e6})
	stats, err := l.Draw(cam)
	require.NoError(t, err)

	require.Len(t, dev.Materials, 2)
	assert.Equal(t, MaterialTileMask, dev.Materials[0].Name)
	assert.Equal(t, cam.pos, dev.Materials[0].CameraPosition)
	assert.False(t, dev.Materials[0].BlendAlpha)

	cursor := dev.Materials[1]
	assert.Equal(t, MaterialCursor, cursor.Name)
	assert.True(t, cursor.BlendAlpha)
	assert.Equal(t, "brush.png", cursor.Textures[TextureCursor])
	assert.Equal(t, float32(0.1), cursor.CursorSize)

	// both passes draw the same geometry
	require.Equal(t, 8, stats.DrawCalls)
	for i := 0; i < 4; i++ {
		assert.Equal(t, MaterialTileMask, dev.Draws[i].Material)
		assert.Equal(t, MaterialCursor, dev.Draws[i+4].Material)
		assert.Equal(t, dev.Draws[i].Indices, dev.Draws[i+4].Indices)
	}

	l.SetCursor(nil)
	dev.Reset()
	stats, err = l.Draw(cam)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.DrawCalls)
}

func TestFrameStats(t *testing.T) {
	l, _ := buildLandscape(t, flatHeightmap(t, 129, 0), 10, DefaultOptions())
	stats, err := l.Draw(overheadCamera(math.Vec3{X: 64, Y: 64, Z: 1e6}))
	require.NoError(t, err)

	assert.Equal(t, FrameStats{Patches: 1, DrawCalls: 1, Indices: 8 * 8 * 6}, stats)
	assert.Equal(t, 128, stats.Triangles())
}

func TestRelease(t *testing.T) {
	l, dev := buildLandscape(t, flatHeightmap(t, 257, 0), 10, DefaultOptions())
	l.Release()
	assert.Empty(t, dev.Buffers)

	_, err := l.Draw(overheadCamera(math.Vec3{Z: 10}))
	assert.ErrorIs(t, err, ErrNotBuilt)

	require.NoError(t, l.Rebuild())
	assert.Len(t, dev.Buffers, 4)
}

package landscape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/landscape/pkg/math"
)

func TestSubdivideFarCamera(t *testing.T) {
	tests := []struct {
		size    int
		patches int
		level   int
	}{
		// nodes larger than a vertex buffer tile always split
		{size: 257, patches: 4, level: 1},
		{size: 513, patches: 16, level: 2},
		{size: 129, patches: 1, level: 0},
	}
	for _, tt := range tests {
		l, _ := buildLandscape(t, flatHeightmap(t, tt.size, 0), 10, DefaultOptions())
		q := float32(tt.size - 1)

		stats, err := l.Draw(overheadCamera(math.Vec3{X: q / 2, Y: q / 2, Z: 1e6}))
		require.NoError(t, err)
		assert.Equal(t, tt.patches, stats.Patches, "size %d", tt.size)
		for _, p := range l.Patches() {
			assert.Equal(t, tt.level, p.Level)
			assert.Equal(t, (tt.size-1)>>tt.level, p.Size)
			assert.Equal(t, p.Size/DefaultPatchQuadCount, p.Step)
			assert.NotEqual(t, -1, p.RDOQuad)
		}
	}
}

func TestSubdivideStates(t *testing.T) {
	l, _ := buildLandscape(t, flatHeightmap(t, 257, 0), 10, DefaultOptions())
	_, err := l.Draw(overheadCamera(math.Vec3{X: 128, Y: 128, Z: 1e6}))
	require.NoError(t, err)

	tree := l.tree
	assert.Equal(t, StateSubdivided, tree.subdivPatch(0, 0, 0).State)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			s := tree.subdivPatch(1, x, y)
			assert.Equal(t, StateDraw, s.State)
			assert.Equal(t, 128, s.LastSubdividedSize)
		}
	}
	deep := tree.subdivPatch(tree.levelCount-1, 17, 3)
	assert.Equal(t, StateTerminated, deep.State)
	assert.Equal(t, 128, deep.LastSubdividedSize)
}

func TestSubdivideOrder(t *testing.T) {
	l, _ := buildLandscape(t, flatHeightmap(t, 257, 0), 10, DefaultOptions())
	_, err := l.Draw(overheadCamera(math.Vec3{X: 128, Y: 128, Z: 1e6}))
	require.NoError(t, err)

	var got [][2]int
	for _, p := range l.Patches() {
		got = append(got, [2]int{p.X, p.Y})
	}
	assert.Equal(t, [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, got)
}

func TestSubdivideCloseCameraReachesDeepestLevel(t *testing.T) {
	l, _ := buildLandscape(t, noiseHeightmap(t, 257), 64, DefaultOptions())

	// standing on the surface: every box containing the camera subtends more
	// than 45 degrees
	eye, ok := l.PlacePoint(math.Vec3{X: 1, Y: 1})
	require.True(t, ok)
	_, err := l.Draw(overheadCamera(eye))
	require.NoError(t, err)

	deepest := l.LevelCount() - 1
	first := l.Patches()[0]
	assert.Equal(t, deepest, first.Level)
	assert.Equal(t, 1, first.Step)
}

func TestSubdivideCoversMapOnce(t *testing.T) {
	l, _ := buildLandscape(t, noiseHeightmap(t, 257), 64, DefaultOptions())

	cameras := []math.Vec3{
		{X: 128, Y: 128, Z: 1e5},
		{X: 128, Y: 128, Z: 300},
		{X: 10, Y: 240, Z: 80},
		{X: -100, Y: 50, Z: 70},
	}
	for _, pos := range cameras {
		_, err := l.Draw(overheadCamera(pos))
		require.NoError(t, err)

		var covered [256][256]int
		for _, p := range l.Patches() {
			x0, y0, x1, y1 := patchRect(p)
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					covered[y][x]++
				}
			}
		}
		for y := range covered {
			for x := range covered[y] {
				if covered[y][x] != 1 {
					t.Fatalf("camera %v: quad (%d,%d) covered %d times", pos, x, y, covered[y][x])
				}
			}
		}
	}
}

func TestSubdivideMonotonicLOD(t *testing.T) {
	l, _ := buildLandscape(t, noiseHeightmap(t, 257), 64, DefaultOptions())

	prevPatches := 0
	prevMinSize := 1 << 30
	for z := float32(20000); z >= 70; z /= 1.5 {
		stats, err := l.Draw(overheadCamera(math.Vec3{X: 128, Y: 128, Z: z}))
		require.NoError(t, err)

		minSize := 1 << 30
		for _, p := range l.Patches() {
			minSize = min(minSize, p.Size)
		}
		assert.GreaterOrEqual(t, stats.Patches, prevPatches, "height %.1f", z)
		assert.LessOrEqual(t, minSize, prevMinSize, "height %.1f", z)
		prevPatches, prevMinSize = stats.Patches, minSize
	}
	assert.Greater(t, prevPatches, 4)
}

func TestSubdivideClipsEverythingBehindCamera(t *testing.T) {
	l, _ := buildLandscape(t, noiseHeightmap(t, 257), 64, DefaultOptions())

	// looking up into the sky
	cam := lookingCamera(math.Vec3{X: 128, Y: 128, Z: 200}, math.Vec3{X: 128, Y: 128.1, Z: 1000}, 60)
	stats, err := l.Draw(cam)
	require.NoError(t, err)

	assert.Zero(t, stats.Patches)
	assert.Equal(t, 1, stats.Clipped)
	assert.Zero(t, stats.DrawCalls)
	assert.Equal(t, StateClipped, l.tree.subdivPatch(0, 0, 0).State)
	assert.Equal(t, StateClipped, l.tree.subdivPatch(l.LevelCount()-1, 31, 31).State)
}

func TestSubdividePartialView(t *testing.T) {
	l, _ := buildLandscape(t, noiseHeightmap(t, 257), 64, DefaultOptions())

	cam := lookingCamera(math.Vec3{X: 32, Y: 32, Z: 400}, math.Vec3{X: 32, Y: 32.1, Z: 0}, 20)
	stats, err := l.Draw(cam)
	require.NoError(t, err)

	assert.Positive(t, stats.Patches)
	assert.Positive(t, stats.Clipped)

	for _, p := range l.Patches() {
		info, _ := l.PatchInfo(p.Level, p.X, p.Y)
		assert.True(t, cam.frustum.IsVisible(info.BBox), "patch %+v", p)
	}
	// the far corner is out of view
	far, _ := l.PatchInfo(1, 1, 1)
	assert.False(t, cam.frustum.IsVisible(far.BBox))
	assert.Equal(t, StateClipped, l.tree.subdivPatch(1, 1, 1).State)
}

func TestZoomRefinesMore(t *testing.T) {
	l, _ := buildLandscape(t, noiseHeightmap(t, 257), 64, DefaultOptions())
	pos := math.Vec3{X: -200, Y: 128, Z: 150}

	normal, err := l.Draw(testCamera{pos: pos, fov: 70})
	require.NoError(t, err)
	zoomed, err := l.Draw(testCamera{pos: pos, fov: 6.5})
	require.NoError(t, err)

	assert.Greater(t, zoomed.Patches, normal.Patches)
	assert.Equal(t, DefaultThresholdSettings().Zoom, l.ActiveThresholds())
}

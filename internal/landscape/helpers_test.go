package landscape

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/landscape/pkg/heightmap"
	"github.com/Faultbox/landscape/pkg/math"
)

type testCamera struct {
	pos     math.Vec3
	fov     float32
	frustum *math.Frustum
}

func (c testCamera) Position() math.Vec3    { return c.pos }
func (c testCamera) FOV() float32           { return c.fov }
func (c testCamera) Frustum() *math.Frustum { return c.frustum }

// overheadCamera looks straight down from pos without culling.
func overheadCamera(pos math.Vec3) testCamera {
	return testCamera{pos: pos, fov: 70}
}

// lookingCamera has a 60 degree frustum from eye towards target.
func lookingCamera(eye, target math.Vec3, fovDeg float32) testCamera {
	view := math.LookAt(eye, target, math.Vec3{Y: 1})
	proj := math.Perspective(Radians(fovDeg), 1, 0.1, 10000)
	return testCamera{
		pos:     eye,
		fov:     fovDeg,
		frustum: math.FrustumFromMatrix(proj.Mul(view)),
	}
}

func flatHeightmap(t *testing.T, size int, v uint16) *heightmap.Heightmap {
	t.Helper()
	hm, err := heightmap.New(size)
	require.NoError(t, err)
	for i := range hm.Data {
		hm.Data[i] = v
	}
	return hm
}

func noiseHeightmap(t *testing.T, size int) *heightmap.Heightmap {
	t.Helper()
	hm, err := heightmap.Generate(size, 7, 5)
	require.NoError(t, err)
	return hm
}

// squareBox maps one sample to one world unit with heights up to maxZ.
func squareBox(size int, maxZ float32) math.AABB {
	q := float32(size - 1)
	return math.AABB{Max: math.Vec3{X: q, Y: q, Z: maxZ}}
}

func buildLandscape(t *testing.T, hm *heightmap.Heightmap, maxZ float32, opts Options) (*Landscape, *RecordingDevice) {
	t.Helper()
	dev := NewRecordingDevice()
	l := New(dev, opts)
	require.NoError(t, l.BuildFromHeightmap(hm, squareBox(hm.Size, maxZ)))
	return l, dev
}

// patchRect returns the sample rectangle covered by p.
func patchRect(p Patch) (x0, y0, x1, y1 int) {
	x0, y0 = p.Origin()
	return x0, y0, x0 + p.Size, y0 + p.Size
}

package camera

import (
	"testing"

	"github.com/Faultbox/landscape/internal/landscape"
	"github.com/Faultbox/landscape/pkg/math"
)

var _ landscape.Camera = (*OrbitCamera)(nil)

func approx(a, b float32) bool {
	d := a - b
	return d < 1e-3 && d > -1e-3
}

func TestOrbitCameraPosition(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: 10, Y: 20, Z: 5}
	c.Distance = 100
	c.Pitch = 0
	c.Yaw = 0

	pos := c.Position()
	if !approx(pos.X, 10) || !approx(pos.Y, -80) || !approx(pos.Z, 5) {
		t.Errorf("Position() = %+v, want (10, -80, 5)", pos)
	}

	c.Pitch = 1.5707964
	pos = c.Position()
	if !approx(pos.X, 10) || !approx(pos.Y, 20) || !approx(pos.Z, 105) {
		t.Errorf("Position() looking down = %+v, want (10, 20, 105)", pos)
	}
}

func TestOrbitCameraFOV(t *testing.T) {
	c := NewOrbitCamera()
	if c.FOV() != 70 {
		t.Errorf("FOV() = %v, want 70", c.FOV())
	}
	c.ToggleZoom()
	if c.FOV() != 6.5 {
		t.Errorf("zoomed FOV() = %v, want 6.5", c.FOV())
	}
	c.ToggleZoom()
	if c.Zoomed {
		t.Error("ToggleZoom twice should restore normal view")
	}
}

func TestOrbitCameraFrustum(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: 0, Y: 0, Z: 0}
	c.Distance = 100
	c.Pitch = 0.6
	c.Aspect = 1

	f := c.Frustum()
	if !f.IsVisible(math.AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}) {
		t.Error("orbit center should be visible")
	}

	behind := c.Position().Sub(c.Center).Normalize().Scale(50).Add(c.Position())
	box := math.AABB{Min: behind.Sub(math.Vec3{X: 1, Y: 1, Z: 1}), Max: behind.Add(math.Vec3{X: 1, Y: 1, Z: 1})}
	if f.IsVisible(box) {
		t.Error("box behind the camera should be culled")
	}
}

func TestOrbitCameraConstraints(t *testing.T) {
	c := NewOrbitCamera()

	c.HandleDrag(0, 1e6)
	if c.Pitch != c.MaxPitch {
		t.Errorf("Pitch = %v, want clamped to %v", c.Pitch, c.MaxPitch)
	}
	c.HandleDrag(0, -1e6)
	if c.Pitch != c.MinPitch {
		t.Errorf("Pitch = %v, want clamped to %v", c.Pitch, c.MinPitch)
	}

	for i := 0; i < 200; i++ {
		c.HandleZoom(1)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("Distance = %v, want %v", c.Distance, c.MinDistance)
	}
}

func TestOrbitCameraMovement(t *testing.T) {
	c := NewOrbitCamera()
	c.Distance = 100

	// yaw 0 looks along +Y
	c.HandleMovement(1, 0, 0)
	if !approx(c.Center.X, 0) || !approx(c.Center.Y, 1) {
		t.Errorf("forward moved center to %+v", c.Center)
	}
	c.HandleMovement(0, 1, 0)
	if !approx(c.Center.X, 1) || !approx(c.Center.Y, 1) {
		t.Errorf("right moved center to %+v", c.Center)
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds(math.AABB{Max: math.Vec3{X: 1000, Y: 500, Z: 100}})

	if c.Center != (math.Vec3{X: 500, Y: 250, Z: 50}) {
		t.Errorf("Center = %+v", c.Center)
	}
	if !approx(c.Distance, 900) {
		t.Errorf("Distance = %v, want 900", c.Distance)
	}
}

// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/landscape/pkg/math"
)

// Up is the world up axis. Landscapes are built in the XY plane with Z as height.
var Up = math.Vec3{Z: 1}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Elevation above the XY plane (radians)
	Yaw      float32 // Rotation around Z (radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Projection, field of view in degrees
	NormalFOV float32
	ZoomFOV   float32
	Zoomed    bool
	Aspect    float32
	Near, Far float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        200.0,
		Pitch:           0.5,
		MinDistance:     2.0,
		MaxDistance:     20000.0,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		NormalFOV:       70,
		ZoomFOV:         6.5,
		Aspect:          16.0 / 9.0,
		Near:            0.5,
		Far:             50000,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	horiz := c.Distance * math32.Cos(c.Pitch)
	return math.Vec3{
		X: c.Center.X + horiz*math32.Sin(c.Yaw),
		Y: c.Center.Y - horiz*math32.Cos(c.Yaw),
		Z: c.Center.Z + c.Distance*math32.Sin(c.Pitch),
	}
}

// FOV returns the current vertical field of view in degrees.
func (c *OrbitCamera) FOV() float32 {
	if c.Zoomed {
		return c.ZoomFOV
	}
	return c.NormalFOV
}

// ToggleZoom switches between the normal and the zoomed field of view.
func (c *OrbitCamera) ToggleZoom() {
	c.Zoomed = !c.Zoomed
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, Up)
}

// ProjectionMatrix returns the perspective projection for the current FOV.
func (c *OrbitCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FOV()*math32.Pi/180, c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// Frustum returns the view frustum in world space.
func (c *OrbitCamera) Frustum() *math.Frustum {
	return math.FrustumFromMatrix(c.ViewProjection())
}

// SetViewport updates the aspect ratio from a framebuffer size.
func (c *OrbitCamera) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = clamp(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// HandleMovement pans the camera center in the XY plane relative to the view direction.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	sin, cos := math32.Sincos(c.Yaw)
	// forward points from the camera towards the center
	c.Center.X += (-sin*forward + cos*right) * speed
	c.Center.Y += (cos*forward + sin*right) * speed
	c.Center.Z += up * speed
}

// FitToBounds centers the camera on box and backs off far enough to see it.
func (c *OrbitCamera) FitToBounds(box math.AABB) {
	c.Center = box.Center()
	size := box.Size()
	c.Distance = clamp(math32.Max(size.X, size.Y)*0.9, c.MinDistance, c.MaxDistance)
	c.Pitch = clamp(0.6, c.MinPitch, c.MaxPitch) // Look down at ~35 degrees
	c.Yaw = 0
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}

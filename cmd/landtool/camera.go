package main

import (
	"github.com/Faultbox/landscape/internal/landscape"
	"github.com/Faultbox/landscape/pkg/math"
)

// fixedCamera is a camera at a fixed position. Without a target it has no
// frustum and nothing is culled.
type fixedCamera struct {
	pos     math.Vec3
	fov     float32
	frustum *math.Frustum
}

func (c *fixedCamera) Position() math.Vec3 {
	return c.pos
}

func (c *fixedCamera) FOV() float32 {
	return c.fov
}

func (c *fixedCamera) Frustum() *math.Frustum {
	return c.frustum
}

func (c *fixedCamera) lookAt(target math.Vec3) {
	up := math.Vec3{Z: 1}
	if d := target.Sub(c.pos); d.X == 0 && d.Y == 0 {
		// looking straight down
		up = math.Vec3{Y: 1}
	}
	proj := math.Perspective(landscape.Radians(c.fov), 16.0/9.0, 0.5, 50000)
	view := math.LookAt(c.pos, target, up)
	c.frustum = math.FrustumFromMatrix(proj.Mul(view))
}

package math

import "github.com/go-gl/mathgl/mgl32"

// Plane is a plane in Hessian normal form: Normal·p + D = 0.
// Points with a positive distance are on the inner side.
type Plane struct {
	Normal Vec3
	D      float32
}

// Distance returns the signed distance from p to the plane.
func (p Plane) Distance(v Vec3) float32 {
	return p.Normal.Dot(v) + p.D
}

// Frustum plane indices.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
	planeCount
)

// ClipAll is the clip mask that tests a box against every frustum plane.
const ClipAll uint8 = 1<<planeCount - 1

// Classification is the result of a box/frustum test.
type Classification int

const (
	Outside Classification = iota
	Intersecting
	Inside
)

// Frustum is a view volume described by six inward-facing planes.
type Frustum struct {
	Planes [planeCount]Plane
}

// FrustumFromMatrix extracts the frustum planes from a combined
// projection*view matrix (Gribb/Hartmann).
func FrustumFromMatrix(viewProj Mat4) *Frustum {
	m := mgl32.Mat4(viewProj)
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)

	rows := [planeCount]mgl32.Vec4{
		PlaneLeft:   r3.Add(r0),
		PlaneRight:  r3.Sub(r0),
		PlaneBottom: r3.Add(r1),
		PlaneTop:    r3.Sub(r1),
		PlaneNear:   r3.Add(r2),
		PlaneFar:    r3.Sub(r2),
	}

	f := &Frustum{}
	for i, r := range rows {
		n := r.Vec3()
		l := n.Len()
		if l == 0 {
			continue
		}
		f.Planes[i] = Plane{
			Normal: Vec3{n[0] / l, n[1] / l, n[2] / l},
			D:      r[3] / l,
		}
	}
	return f
}

// Classify tests box against the planes selected by mask. Planes the box is
// entirely inside of are cleared from mask, so callers can pass the narrowed
// mask to child volumes and skip redundant tests.
func (f *Frustum) Classify(box AABB, mask *uint8) Classification {
	for i := 0; i < planeCount; i++ {
		bit := uint8(1) << i
		if *mask&bit == 0 {
			continue
		}
		p := f.Planes[i]

		// positive vertex: the corner farthest along the plane normal
		pos, neg := box.Max, box.Min
		if p.Normal.X < 0 {
			pos.X, neg.X = box.Min.X, box.Max.X
		}
		if p.Normal.Y < 0 {
			pos.Y, neg.Y = box.Min.Y, box.Max.Y
		}
		if p.Normal.Z < 0 {
			pos.Z, neg.Z = box.Min.Z, box.Max.Z
		}

		if p.Distance(pos) < 0 {
			return Outside
		}
		if p.Distance(neg) >= 0 {
			*mask &^= bit
		}
	}
	if *mask == 0 {
		return Inside
	}
	return Intersecting
}

// IsVisible reports whether any part of box lies inside the frustum.
func (f *Frustum) IsVisible(box AABB) bool {
	mask := ClipAll
	return f.Classify(box, &mask) != Outside
}

package landscape

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/landscape/pkg/math"
)

// HeightAt returns the world Z of the full-resolution surface at world (x, y).
// The height follows the triangulation the landscape draws at its finest LOD.
// ok is false outside the landscape, before it is built or when its box has
// no extent in X or Y.
func (l *Landscape) HeightAt(x, y float32) (z float32, ok bool) {
	if l.hm == nil {
		return 0, false
	}
	b := l.bbox
	if x < b.Min.X || x > b.Max.X || y < b.Min.Y || y > b.Max.Y {
		return 0, false
	}

	g := l.geom
	if g.scale.X == 0 || g.scale.Y == 0 {
		// degenerate box, no surface to sample
		return 0, false
	}
	fx := (x - b.Min.X) / g.scale.X
	fy := (y - b.Min.Y) / g.scale.Y
	cx := min(int(fx), g.quads-1)
	cy := min(int(fy), g.quads-1)
	u := math32.Min(fx-float32(cx), 1)
	v := math32.Min(fy-float32(cy), 1)

	ha := g.heightZ(cx, cy)
	hb := g.heightZ(cx+1, cy)
	hc := g.heightZ(cx, cy+1)
	hd := g.heightZ(cx+1, cy+1)

	// cells are split on the b-c diagonal
	var h float32
	if u+v <= 1 {
		h = ha + (hb-ha)*u + (hc-ha)*v
	} else {
		h = hd + (hc-hd)*(1-u) + (hb-hd)*(1-v)
	}
	return b.Min.Z + h, true
}

// PlacePoint returns p moved onto the landscape surface.
func (l *Landscape) PlacePoint(p math.Vec3) (math.Vec3, bool) {
	z, ok := l.HeightAt(p.X, p.Y)
	if !ok {
		return p, false
	}
	p.Z = z
	return p, true
}

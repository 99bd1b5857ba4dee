package landscape

import "github.com/chewxy/math32"

// Thresholds are the subdivision limits for one camera setup.
// Angles are in radians, AbsHeight in world Z units.
type Thresholds struct {
	SolidAngle    float32
	GeometryAngle float32
	AbsHeight     float32
}

// ThresholdSettings hold the thresholds at the normal and the zoomed-in field
// of view. The active thresholds are interpolated between both by the camera FOV.
type ThresholdSettings struct {
	Normal    Thresholds
	Zoom      Thresholds
	NormalFOV float32 // degrees
	ZoomFOV   float32 // degrees
}

// DefaultThresholdSettings returns the engine defaults.
func DefaultThresholdSettings() ThresholdSettings {
	return ThresholdSettings{
		Normal: Thresholds{
			SolidAngle:    Radians(20),
			GeometryAngle: Radians(1),
			AbsHeight:     3,
		},
		Zoom: Thresholds{
			SolidAngle:    Radians(2),
			GeometryAngle: Radians(0.1),
			AbsHeight:     0.5,
		},
		NormalFOV: 70,
		ZoomFOV:   6.5,
	}
}

// Active returns the thresholds for a camera with the given FOV in degrees.
// Narrowing the FOV towards ZoomFOV tightens every threshold towards Zoom.
func (s ThresholdSettings) Active(fov float32) Thresholds {
	k := float32(1)
	if s.NormalFOV != s.ZoomFOV {
		k = clampf((fov-s.ZoomFOV)/(s.NormalFOV-s.ZoomFOV), 0, 1)
	}
	return Thresholds{
		SolidAngle:    lerpf(s.Zoom.SolidAngle, s.Normal.SolidAngle, k),
		GeometryAngle: lerpf(s.Zoom.GeometryAngle, s.Normal.GeometryAngle, k),
		AbsHeight:     lerpf(s.Zoom.AbsHeight, s.Normal.AbsHeight, k),
	}
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

func lerpf(a, b, t float32) float32 {
	return a + (b-a)*t
}

func clampf(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}

package landscape

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// Build limits.
const (
	// DefaultPatchQuadCount is the number of quads per side a drawn patch is
	// tessellated into, whatever its level.
	DefaultPatchQuadCount = 8

	// MaxRenderQuadWidth bounds the vertices per side of one vertex buffer tile.
	// 129*129 vertices is the largest power-of-two tile addressable with 16-bit indices.
	MaxRenderQuadWidth = 129

	// IndexArrayCount is the capacity of the batch index queue.
	IndexArrayCount = 10000 * 6
)

// ErrInvalidOptions is returned when build options cannot describe a quad-tree.
var ErrInvalidOptions = errors.New("invalid landscape options")

// Quality is the rendering quality tier. It selects the vertex format.
type Quality int

const (
	QualityLow Quality = iota
	QualityMedium
	QualityHigh
)

// String returns the config name of the tier.
func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// ParseQuality parses a tier name as written in config files.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(s) {
	case "low":
		return QualityLow, nil
	case "medium", "":
		return QualityMedium, nil
	case "high":
		return QualityHigh, nil
	}
	return QualityMedium, fmt.Errorf("unknown quality %q", s)
}

// NeedsTangentSpace reports whether the tier renders normal maps and therefore
// needs normal and tangent vertex streams.
func (q Quality) NeedsTangentSpace() bool {
	return q >= QualityHigh
}

// Options configure how a landscape is built and how it selects LODs.
type Options struct {
	PatchQuadCount  int
	RenderQuadWidth int
	Quality         Quality
	Thresholds      ThresholdSettings
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		PatchQuadCount:  DefaultPatchQuadCount,
		RenderQuadWidth: MaxRenderQuadWidth,
		Quality:         QualityMedium,
		Thresholds:      DefaultThresholdSettings(),
	}
}

// validate checks the options against a heightmap of the given size.
func (o Options) validate(heightmapSize int) error {
	quads := heightmapSize - 1
	if !isPow2(o.PatchQuadCount) {
		return fmt.Errorf("%w: patch quad count %d is not a power of two", ErrInvalidOptions, o.PatchQuadCount)
	}
	tile := o.RenderQuadWidth - 1
	if !isPow2(tile) || o.RenderQuadWidth > MaxRenderQuadWidth {
		return fmt.Errorf("%w: render quad width %d must be 2^n+1 and at most %d",
			ErrInvalidOptions, o.RenderQuadWidth, MaxRenderQuadWidth)
	}
	if o.PatchQuadCount > min(tile, quads) {
		return fmt.Errorf("%w: patch quad count %d exceeds tile size %d",
			ErrInvalidOptions, o.PatchQuadCount, min(tile, quads))
	}
	if n := o.PatchQuadCount * o.PatchQuadCount * 6; n > IndexArrayCount {
		return fmt.Errorf("%w: a patch of %d quads needs %d indices, batch holds %d",
			ErrInvalidOptions, o.PatchQuadCount, n, IndexArrayCount)
	}
	return nil
}

func isPow2(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

func log2(n int) int {
	return bits.Len(uint(n)) - 1
}

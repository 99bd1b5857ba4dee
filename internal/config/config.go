// Package config handles viewer configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/landscape/internal/landscape"
	"github.com/Faultbox/landscape/pkg/math"
)

// Config holds all viewer settings.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Landscape LandscapeConfig `yaml:"landscape"`
	Camera    CameraConfig    `yaml:"camera"`
	Watch     WatchConfig     `yaml:"watch"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Wireframe  bool `yaml:"wireframe"`
}

// LandscapeConfig selects the terrain and its LOD settings.
type LandscapeConfig struct {
	Heightmap       string           `yaml:"heightmap"` // .heightmap or grayscale image
	Archive         string           `yaml:"archive"`   // landscape archive; wins over heightmap
	Quality         string           `yaml:"quality"`
	PatchQuadCount  int              `yaml:"patch_quad_count"`
	RenderQuadWidth int              `yaml:"render_quad_width"`
	Extent          [3]float32       `yaml:"extent,flow"` // world size; the map is centered on the origin
	Generate        GenerateConfig   `yaml:"generate"`
	Thresholds      ThresholdsConfig `yaml:"thresholds"`
	FOV             FOVConfig        `yaml:"fov"`
}

// GenerateConfig describes the procedural heightmap used when no file is set.
type GenerateConfig struct {
	Size    int   `yaml:"size"`
	Seed    int64 `yaml:"seed"`
	Octaves int   `yaml:"octaves"`
}

// ThresholdSet holds subdivision limits, angles in degrees.
type ThresholdSet struct {
	SolidAngle    float32 `yaml:"solid_angle"`
	GeometryAngle float32 `yaml:"geometry_angle"`
	AbsHeight     float32 `yaml:"abs_height"`
}

// ThresholdsConfig holds the limits at normal and zoomed field of view.
type ThresholdsConfig struct {
	Normal ThresholdSet `yaml:"normal"`
	Zoom   ThresholdSet `yaml:"zoom"`
}

// FOVConfig holds the camera field of view in degrees.
type FOVConfig struct {
	Normal float32 `yaml:"normal"`
	Zoom   float32 `yaml:"zoom"`
}

// CameraConfig holds camera control settings.
type CameraConfig struct {
	DragSensitivity float32 `yaml:"drag_sensitivity"`
	ZoomSensitivity float32 `yaml:"zoom_sensitivity"`
	Near            float32 `yaml:"near"`
	Far             float32 `yaml:"far"`
}

// WatchConfig controls hot reload of the heightmap and archive.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Landscape: LandscapeConfig{
			Quality:         "medium",
			PatchQuadCount:  landscape.DefaultPatchQuadCount,
			RenderQuadWidth: landscape.MaxRenderQuadWidth,
			Extent:          [3]float32{1024, 1024, 160},
			Generate: GenerateConfig{
				Size:    513,
				Seed:    1,
				Octaves: 6,
			},
			Thresholds: ThresholdsConfig{
				Normal: ThresholdSet{SolidAngle: 20, GeometryAngle: 1, AbsHeight: 3},
				Zoom:   ThresholdSet{SolidAngle: 2, GeometryAngle: 0.1, AbsHeight: 0.5},
			},
			FOV: FOVConfig{Normal: 70, Zoom: 6.5},
		},
		Camera: CameraConfig{
			DragSensitivity: 0.005,
			ZoomSensitivity: 0.1,
			Near:            0.5,
			Far:             50000,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 250 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Options converts the landscape section into build options.
func (c LandscapeConfig) Options() (landscape.Options, error) {
	q, err := landscape.ParseQuality(c.Quality)
	if err != nil {
		return landscape.Options{}, err
	}
	return landscape.Options{
		PatchQuadCount:  c.PatchQuadCount,
		RenderQuadWidth: c.RenderQuadWidth,
		Quality:         q,
		Thresholds: landscape.ThresholdSettings{
			Normal:    c.Thresholds.Normal.thresholds(),
			Zoom:      c.Thresholds.Zoom.thresholds(),
			NormalFOV: c.FOV.Normal,
			ZoomFOV:   c.FOV.Zoom,
		},
	}, nil
}

// BoundingBox returns the world box of the landscape, centered on the origin
// in X and Y and resting on Z = 0.
func (c LandscapeConfig) BoundingBox() math.AABB {
	e := c.Extent
	return math.AABB{
		Min: math.Vec3{X: -e[0] / 2, Y: -e[1] / 2},
		Max: math.Vec3{X: e[0] / 2, Y: e[1] / 2, Z: e[2]},
	}
}

func (s ThresholdSet) thresholds() landscape.Thresholds {
	return landscape.Thresholds{
		SolidAngle:    landscape.Radians(s.SolidAngle),
		GeometryAngle: landscape.Radians(s.GeometryAngle),
		AbsHeight:     s.AbsHeight,
	}
}

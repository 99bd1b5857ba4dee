package landscape

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/landscape/pkg/heightmap"
	"github.com/Faultbox/landscape/pkg/math"
)

// Archive is the persisted form of a landscape.
type Archive struct {
	BoundingBox  ArchiveBox          `yaml:"bbox"`
	Heightmap    string              `yaml:"heightmap"`
	Quality      string              `yaml:"quality"`
	TileMask     string              `yaml:"tile_mask,omitempty"`
	FullColor    string              `yaml:"full_color,omitempty"`
	Tiles        []ArchiveTile       `yaml:"tiles"`
	Fog          ArchiveFog          `yaml:"fog"`
	Illumination ArchiveIllumination `yaml:"illumination"`
}

// ArchiveBox is a serialized bounding box.
type ArchiveBox struct {
	Min [3]float32 `yaml:"min,flow"`
	Max [3]float32 `yaml:"max,flow"`
}

// ArchiveTile is one detail texture layer.
type ArchiveTile struct {
	Texture string     `yaml:"texture,omitempty"`
	Tiling  [2]float32 `yaml:"tiling,flow"`
	Color   [3]float32 `yaml:"color,flow"`
}

// ArchiveFog holds fog parameters.
type ArchiveFog struct {
	Enabled bool       `yaml:"enabled"`
	Density float32    `yaml:"density"`
	Color   [3]float32 `yaml:"color,flow"`
}

// ArchiveIllumination holds lighting parameters.
type ArchiveIllumination struct {
	LightmapEnabled bool `yaml:"lightmap_enabled"`
	LightmapSize    int  `yaml:"lightmap_size"`
}

// Archive captures the persisted state. The heightmap path is stored relative
// to dir when possible.
func (l *Landscape) Archive(dir string) Archive {
	m := l.material
	a := Archive{
		BoundingBox: ArchiveBox{Min: l.bbox.Min.Array(), Max: l.bbox.Max.Array()},
		Heightmap:   relPath(dir, l.heightmapPath),
		Quality:     l.opts.Quality.String(),
		TileMask:    relPath(dir, m.Textures[TextureTileMask]),
		FullColor:   relPath(dir, m.Textures[TextureColor]),
		Fog: ArchiveFog{
			Enabled: m.Fog.Enabled,
			Density: m.Fog.Density,
			Color:   m.Fog.Color.Array(),
		},
		Illumination: ArchiveIllumination{
			LightmapEnabled: l.illumination.LightmapEnabled,
			LightmapSize:    l.illumination.LightmapSize,
		},
	}
	for i := 0; i < TileLevels; i++ {
		a.Tiles = append(a.Tiles, ArchiveTile{
			Texture: relPath(dir, m.Textures[TextureTile0+TextureSlot(i)]),
			Tiling:  [2]float32{m.Tiling[i].X, m.Tiling[i].Y},
			Color:   m.TileColor[i].Array(),
		})
	}
	return a
}

// SaveArchive writes the landscape description to a YAML file.
func (l *Landscape) SaveArchive(path string) error {
	data, err := yaml.Marshal(l.Archive(filepath.Dir(path)))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadArchive reads a landscape description, loads its heightmap and rebuilds.
// Nothing is changed if the archive or the heightmap cannot be loaded.
func (l *Landscape) LoadArchive(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var a Archive
	if err := yaml.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("parsing archive %s: %w", path, err)
	}
	return l.ApplyArchive(a, filepath.Dir(path))
}

// ApplyArchive applies a decoded archive. Relative paths resolve against dir.
func (l *Landscape) ApplyArchive(a Archive, dir string) error {
	quality, err := ParseQuality(a.Quality)
	if err != nil {
		return err
	}

	hmPath := absPath(dir, a.Heightmap)
	hm, err := heightmap.Load(hmPath)
	if err != nil {
		l.log.Error("failed to load archived heightmap", zap.String("path", hmPath), zap.Error(err))
		return err
	}

	bbox := math.AABB{
		Min: math.Vec3{X: a.BoundingBox.Min[0], Y: a.BoundingBox.Min[1], Z: a.BoundingBox.Min[2]},
		Max: math.Vec3{X: a.BoundingBox.Max[0], Y: a.BoundingBox.Max[1], Z: a.BoundingBox.Max[2]},
	}
	opts := l.opts
	opts.Quality = quality
	if err := l.rebuild(hm, bbox, opts); err != nil {
		return err
	}
	l.heightmapPath = hmPath

	m := NewTileMaskMaterial()
	setTexture(m, TextureTileMask, absPath(dir, a.TileMask))
	setTexture(m, TextureColor, absPath(dir, a.FullColor))
	for i, t := range a.Tiles {
		if i >= TileLevels {
			break
		}
		setTexture(m, TextureTile0+TextureSlot(i), absPath(dir, t.Texture))
		m.Tiling[i] = math.Vec2{X: t.Tiling[0], Y: t.Tiling[1]}
		m.TileColor[i] = math.Vec3{X: t.Color[0], Y: t.Color[1], Z: t.Color[2]}
	}
	m.Fog = Fog{
		Enabled: a.Fog.Enabled,
		Density: a.Fog.Density,
		Color:   math.Vec3{X: a.Fog.Color[0], Y: a.Fog.Color[1], Z: a.Fog.Color[2]},
	}
	l.material = m
	l.illumination = Illumination{
		LightmapEnabled: a.Illumination.LightmapEnabled,
		LightmapSize:    a.Illumination.LightmapSize,
	}
	return nil
}

func setTexture(m *Material, slot TextureSlot, path string) {
	if path != "" {
		m.Textures[slot] = path
	}
}

func relPath(dir, path string) string {
	if path == "" || dir == "" || !filepath.IsAbs(path) {
		return path
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(absDir, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func absPath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, filepath.FromSlash(path))
}

package landscape

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/landscape/pkg/math"
)

func TestArchiveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	hmPath := filepath.Join(dir, "maps", "island.heightmap")
	hm := noiseHeightmap(t, 65)
	require.NoError(t, hm.Save(hmPath))

	l := New(NewRecordingDevice(), DefaultOptions())
	require.NoError(t, l.SetBoundingBox(math.AABB{
		Min: math.Vec3{X: -100, Y: -100, Z: 0},
		Max: math.Vec3{X: 100, Y: 100, Z: 25},
	}))
	require.NoError(t, l.LoadHeightmapFile(hmPath))
	require.NoError(t, l.SetQuality(QualityHigh))

	m := l.Material()
	m.Textures[TextureTileMask] = filepath.Join(dir, "textures", "mask.png")
	m.Textures[TextureColor] = filepath.Join(dir, "textures", "color.png")
	m.Textures[TextureTile2] = filepath.Join(dir, "textures", "rock.png")
	m.Tiling[2] = math.Vec2{X: 8, Y: 4}
	m.TileColor[1] = math.Vec3{X: 0.5, Y: 0.8, Z: 0.2}
	m.Fog = Fog{Enabled: true, Density: 0.02, Color: math.Vec3{X: 0.7, Y: 0.7, Z: 0.8}}
	l.SetIllumination(Illumination{LightmapEnabled: true, LightmapSize: 1024})

	archivePath := filepath.Join(dir, "island.yaml")
	require.NoError(t, l.SaveArchive(archivePath))

	// paths inside the archive directory are stored relative
	raw, err := os.ReadFile(archivePath)
	require.NoError(t, err)
	var a Archive
	require.NoError(t, yaml.Unmarshal(raw, &a))
	assert.Equal(t, "maps/island.heightmap", a.Heightmap)
	assert.Equal(t, "textures/mask.png", a.TileMask)
	assert.Equal(t, "high", a.Quality)
	assert.Len(t, a.Tiles, TileLevels)

	loaded := New(NewRecordingDevice(), DefaultOptions())
	require.NoError(t, loaded.LoadArchive(archivePath))

	assert.True(t, hm.Equal(loaded.Heightmap()))
	assert.Equal(t, hmPath, loaded.HeightmapPath())
	assert.Equal(t, l.BoundingBox(), loaded.BoundingBox())
	assert.Equal(t, QualityHigh, loaded.Options().Quality)
	assert.Equal(t, l.Illumination(), loaded.Illumination())

	lm := loaded.Material()
	assert.Equal(t, m.Textures, lm.Textures)
	assert.Equal(t, m.Tiling, lm.Tiling)
	assert.Equal(t, m.TileColor, lm.TileColor)
	assert.Equal(t, m.Fog, lm.Fog)
	assert.Len(t, loaded.RDOQuads(), 1)
}

func TestLoadArchiveMissingHeightmap(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(archivePath, []byte(`
bbox:
  min: [0, 0, 0]
  max: [64, 64, 10]
heightmap: nowhere.heightmap
quality: low
`), 0644))

	l, _ := buildLandscape(t, flatHeightmap(t, 65, 7), 10, DefaultOptions())
	before := l.Heightmap()

	assert.Error(t, l.LoadArchive(archivePath))
	assert.Same(t, before, l.Heightmap())
	assert.Equal(t, QualityMedium, l.Options().Quality)
}

func TestLoadArchiveErrors(t *testing.T) {
	dir := t.TempDir()
	l := New(NewRecordingDevice(), DefaultOptions())

	assert.Error(t, l.LoadArchive(filepath.Join(dir, "none.yaml")))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("bbox: [not, a, box"), 0644))
	assert.Error(t, l.LoadArchive(bad))

	unknown := filepath.Join(dir, "quality.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("quality: ultra\n"), 0644))
	assert.Error(t, l.LoadArchive(unknown))
}

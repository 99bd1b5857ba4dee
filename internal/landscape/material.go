package landscape

import "github.com/Faultbox/landscape/pkg/math"

// TextureSlot names a texture binding of the landscape materials.
type TextureSlot int

const (
	TextureTile0 TextureSlot = iota
	TextureTile1
	TextureTile2
	TextureTile3
	TextureTileMask
	TextureColor
	TextureCursor
	textureSlotCount
)

// TileLevels is the number of detail texture layers blended by the tile mask.
const TileLevels = 4

var textureSlotNames = [textureSlotCount]string{
	"tile0", "tile1", "tile2", "tile3", "tilemask", "color", "cursor",
}

// String returns the sampler name the shaders use for the slot.
func (s TextureSlot) String() string {
	if s < 0 || s >= textureSlotCount {
		return "unknown"
	}
	return textureSlotNames[s]
}

// Fog holds the distance fog parameters.
type Fog struct {
	Enabled bool
	Density float32
	Color   math.Vec3
}

// Material is the set of textures and uniforms bound before landscape draws.
type Material struct {
	Name     string
	Textures map[TextureSlot]string

	// Per tile level texture repeat and tint.
	Tiling    [TileLevels]math.Vec2
	TileColor [TileLevels]math.Vec3

	CameraPosition math.Vec3
	Fog            Fog

	// BlendAlpha enables alpha blending (cursor overlay pass).
	BlendAlpha bool

	// Cursor placement in normalized landscape texture coordinates.
	CursorCenter math.Vec2
	CursorSize   float32
}

// Material names.
const (
	MaterialTileMask = "TileMask"
	MaterialCursor   = "Cursor"
)

// NewTileMaskMaterial returns the landscape material with neutral tiling.
func NewTileMaskMaterial() *Material {
	m := &Material{
		Name:     MaterialTileMask,
		Textures: make(map[TextureSlot]string),
	}
	for i := range m.Tiling {
		m.Tiling[i] = math.Vec2{X: 1, Y: 1}
		m.TileColor[i] = math.Vec3{X: 1, Y: 1, Z: 1}
	}
	return m
}

// Cursor is the editor brush overlay drawn on top of the landscape.
type Cursor struct {
	Texture string
	Center  math.Vec2 // normalized texture coordinates
	Size    float32   // normalized diameter
}

func (c *Cursor) material(base *Material) *Material {
	return &Material{
		Name:           MaterialCursor,
		Textures:       map[TextureSlot]string{TextureCursor: c.Texture},
		CameraPosition: base.CameraPosition,
		Fog:            base.Fog,
		BlendAlpha:     true,
		CursorCenter:   c.Center,
		CursorSize:     c.Size,
	}
}

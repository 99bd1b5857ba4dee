package renderer

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/landscape/internal/engine/texture"
	"github.com/Faultbox/landscape/internal/landscape"
)

// textureCache uploads landscape textures on first use. Missing or broken
// files fall back to neutral 1x1 textures.
type textureCache struct {
	log      *zap.Logger
	byPath   map[string]uint32
	white    uint32
	fullMask uint32 // all weight on tile 0
	clearTex uint32
}

func newTextureCache(log *zap.Logger) *textureCache {
	return &textureCache{
		log:      log,
		byPath:   make(map[string]uint32),
		white:    upload(texture.Solid(255, 255, 255, 255), false),
		fullMask: upload(texture.Solid(255, 0, 0, 0), false),
		clearTex: upload(texture.Solid(0, 0, 0, 0), false),
	}
}

func (c *textureCache) fallback(slot landscape.TextureSlot) uint32 {
	switch slot {
	case landscape.TextureTileMask:
		return c.fullMask
	case landscape.TextureCursor:
		return c.clearTex
	default:
		return c.white
	}
}

func (c *textureCache) get(slot landscape.TextureSlot, path string) uint32 {
	if path == "" {
		return c.fallback(slot)
	}
	if id, ok := c.byPath[path]; ok {
		return id
	}

	img, err := texture.Load(path)
	if err != nil {
		c.log.Warn("failed to load texture", zap.String("path", path), zap.Stringer("slot", slot), zap.Error(err))
		c.byPath[path] = c.fallback(slot)
		return c.byPath[path]
	}
	if slot == landscape.TextureTileMask {
		texture.NormalizeMask(img)
	}
	repeat := slot <= landscape.TextureTile3
	id := upload(img, repeat)
	c.byPath[path] = id
	c.log.Debug("texture loaded", zap.String("path", path), zap.Int("width", img.Rect.Dx()), zap.Int("height", img.Rect.Dy()))
	return id
}

func (c *textureCache) invalidate(path string) {
	id, ok := c.byPath[path]
	if !ok {
		return
	}
	delete(c.byPath, path)
	if !c.isFallback(id) {
		gl.DeleteTextures(1, &id)
	}
}

func (c *textureCache) isFallback(id uint32) bool {
	return id == c.white || id == c.fullMask || id == c.clearTex
}

func (c *textureCache) clear() {
	for path := range c.byPath {
		c.invalidate(path)
	}
	for _, id := range []uint32{c.white, c.fullMask, c.clearTex} {
		gl.DeleteTextures(1, &id)
	}
}

func upload(img *image.RGBA, repeat bool) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Rect.Dx()), int32(img.Rect.Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	wrap := int32(gl.CLAMP_TO_EDGE)
	if repeat {
		wrap = gl.REPEAT
	}
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	return id
}

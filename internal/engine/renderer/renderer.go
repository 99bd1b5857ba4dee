// Package renderer draws landscapes with OpenGL.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/landscape/internal/engine/renderer/shaders"
	"github.com/Faultbox/landscape/internal/engine/shader"
	"github.com/Faultbox/landscape/internal/landscape"
	"github.com/Faultbox/landscape/internal/logger"
	"github.com/Faultbox/landscape/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [3]float32
	Wireframe  bool
}

// Renderer owns the GL state for landscape drawing and implements
// landscape.Device.
type Renderer struct {
	config Config
	log    *zap.Logger

	tileMask *shader.Program
	cursor   *shader.Program
	current  *shader.Program

	buffers map[landscape.VertexBuffer]*meshBuffer
	next    landscape.VertexBuffer
	ebo     uint32 // stream index buffer shared by all vertex arrays

	textures *textureCache

	viewProj math.Mat4
	lightDir math.Vec3
}

var _ landscape.Device = (*Renderer)(nil)

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		log:      logger.Named("renderer"),
		buffers:  make(map[landscape.VertexBuffer]*meshBuffer),
		viewProj: math.Identity(),
		lightDir: math.Vec3{X: -0.4, Y: 0.3, Z: -1}.Normalize(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], 1.0)

	var err error
	r.tileMask, err = shader.NewProgram(shaders.LandscapeVertexShader, shaders.TileMaskFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("tile mask program: %w", err)
	}
	r.cursor, err = shader.NewProgram(shaders.LandscapeVertexShader, shaders.CursorFragmentShader)
	if err != nil {
		r.tileMask.Delete()
		return nil, fmt.Errorf("cursor program: %w", err)
	}

	gl.GenBuffers(1, &r.ebo)
	r.textures = newTextureCache(r.log)
	r.Resize(cfg.Width, cfg.Height)

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Int("buffers", len(r.buffers)))
	for id := range r.buffers {
		r.DeleteVertexBuffer(id)
	}
	r.textures.clear()
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
		r.ebo = 0
	}
	r.tileMask.Delete()
	r.cursor.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetViewProjection sets the camera matrix used by the following draws.
func (r *Renderer) SetViewProjection(m math.Mat4) {
	r.viewProj = m
}

// SetWireframe toggles polygon line mode.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
}

// Wireframe reports whether polygon line mode is on.
func (r *Renderer) Wireframe() bool {
	return r.config.Wireframe
}

// InvalidateTexture drops a cached texture so it is reloaded on next use.
func (r *Renderer) InvalidateTexture(path string) {
	r.textures.invalidate(path)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	mode := uint32(gl.FILL)
	if r.config.Wireframe {
		mode = gl.LINE
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, mode)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	r.current = nil
}

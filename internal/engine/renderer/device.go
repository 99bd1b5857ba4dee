package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/landscape/internal/landscape"
)

// Vertex attribute locations shared with landscape.vert.
const (
	attribPosition = 0
	attribTexCoord = 1
	attribNormal   = 2
	attribTangent  = 3
)

type meshBuffer struct {
	vao, vbo uint32
	format   landscape.VertexFormat
	vertices int
}

// CreateVertexBuffer implements landscape.Device.
func (r *Renderer) CreateVertexBuffer(vertices []float32, format landscape.VertexFormat) (landscape.VertexBuffer, error) {
	stride := format.Stride()
	if len(vertices) == 0 || len(vertices)%stride != 0 {
		return 0, fmt.Errorf("vertex data length %d is not a positive multiple of stride %d", len(vertices), stride)
	}

	b := &meshBuffer{format: format, vertices: len(vertices) / stride}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	strideBytes := int32(stride * 4)
	gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, strideBytes, 0)
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointerWithOffset(attribTexCoord, 2, gl.FLOAT, false, strideBytes, 3*4)
	gl.EnableVertexAttribArray(attribTexCoord)
	if format == landscape.FormatPositionUVNormalTangent {
		gl.VertexAttribPointerWithOffset(attribNormal, 3, gl.FLOAT, false, strideBytes, 5*4)
		gl.EnableVertexAttribArray(attribNormal)
		gl.VertexAttribPointerWithOffset(attribTangent, 3, gl.FLOAT, false, strideBytes, 8*4)
		gl.EnableVertexAttribArray(attribTangent)
	}

	// element array binding is part of the VAO
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &b.vbo)
		gl.DeleteVertexArrays(1, &b.vao)
		return 0, fmt.Errorf("creating vertex buffer: GL error 0x%x", code)
	}

	r.next++
	r.buffers[r.next] = b
	r.log.Debug("vertex buffer created",
		zap.Uint32("id", uint32(r.next)),
		zap.Int("vertices", b.vertices),
		zap.Int("stride", stride),
	)
	return r.next, nil
}

// DeleteVertexBuffer implements landscape.Device.
func (r *Renderer) DeleteVertexBuffer(buf landscape.VertexBuffer) {
	b, ok := r.buffers[buf]
	if !ok {
		return
	}
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
	delete(r.buffers, buf)
}

// BindMaterial implements landscape.Device.
func (r *Renderer) BindMaterial(m *landscape.Material) {
	prog := r.tileMask
	if m.Name == landscape.MaterialCursor {
		prog = r.cursor
	}
	prog.Use()
	r.current = prog

	prog.SetMat4("uViewProj", r.viewProj.Ptr())
	prog.SetVec3("uCameraPosition", m.CameraPosition.X, m.CameraPosition.Y, m.CameraPosition.Z)
	prog.SetVec3("uLightDir", r.lightDir.X, r.lightDir.Y, r.lightDir.Z)

	for i := 0; i < landscape.TileLevels; i++ {
		prog.SetVec2(fmt.Sprintf("uTiling[%d]", i), m.Tiling[i].X, m.Tiling[i].Y)
		c := m.TileColor[i]
		prog.SetVec3(fmt.Sprintf("uTileColor[%d]", i), c.X, c.Y, c.Z)
	}

	fog := m.Fog
	prog.SetInt("uFogEnabled", boolInt(fog.Enabled))
	prog.SetFloat("uFogDensity", fog.Density)
	prog.SetVec3("uFogColor", fog.Color.X, fog.Color.Y, fog.Color.Z)

	prog.SetVec2("uCursorCenter", m.CursorCenter.X, m.CursorCenter.Y)
	prog.SetFloat("uCursorSize", max(m.CursorSize, 1e-6))

	for slot := landscape.TextureTile0; slot <= landscape.TextureCursor; slot++ {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(slot))
		gl.BindTexture(gl.TEXTURE_2D, r.textures.get(slot, m.Textures[slot]))
		prog.SetInt(slot.String(), int32(slot))
	}

	if m.BlendAlpha {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthFunc(gl.LEQUAL)
		gl.DepthMask(false)
	} else {
		gl.Disable(gl.BLEND)
		gl.DepthFunc(gl.LESS)
		gl.DepthMask(true)
	}
}

// DrawIndexed implements landscape.Device.
func (r *Renderer) DrawIndexed(buf landscape.VertexBuffer, indices []uint16) {
	b, ok := r.buffers[buf]
	if !ok || len(indices) == 0 || r.current == nil {
		return
	}
	r.current.SetInt("uTangentSpace", boolInt(b.format == landscape.FormatPositionUVNormalTangent))

	gl.BindVertexArray(b.vao)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*2, gl.Ptr(indices), gl.STREAM_DRAW)
	gl.DrawElements(gl.TRIANGLES, int32(len(indices)), gl.UNSIGNED_SHORT, nil)
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

package landscape

// VertexFormat describes the interleaved float32 layout of a vertex buffer.
type VertexFormat int

const (
	// FormatPositionUV is position (3) + texture coordinate (2).
	FormatPositionUV VertexFormat = iota
	// FormatPositionUVNormalTangent adds normal (3) and tangent (3) streams.
	FormatPositionUVNormalTangent
)

// Stride returns the number of float32 values per vertex.
func (f VertexFormat) Stride() int {
	if f == FormatPositionUVNormalTangent {
		return 11
	}
	return 5
}

// VertexBuffer is a device handle for an uploaded vertex buffer.
type VertexBuffer uint32

// Device is the renderer the landscape draws through. Implementations own the
// GPU objects; the landscape only keeps handles.
type Device interface {
	// CreateVertexBuffer uploads a static vertex buffer.
	CreateVertexBuffer(vertices []float32, format VertexFormat) (VertexBuffer, error)
	// DeleteVertexBuffer releases a buffer created by CreateVertexBuffer.
	DeleteVertexBuffer(buf VertexBuffer)
	// BindMaterial makes m current for the following draws.
	BindMaterial(m *Material)
	// DrawIndexed draws a triangle list from buf. indices is only valid for
	// the duration of the call.
	DrawIndexed(buf VertexBuffer, indices []uint16)
}

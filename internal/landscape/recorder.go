package landscape

import "fmt"

// RecordedBuffer is a vertex buffer kept by a RecordingDevice.
type RecordedBuffer struct {
	Vertices []float32
	Format   VertexFormat
}

// RecordedDraw is one DrawIndexed call.
type RecordedDraw struct {
	Buffer   VertexBuffer
	Material string
	Indices  []uint16
}

// RecordingDevice is a Device that keeps everything in memory. It backs
// headless tools and tests.
type RecordingDevice struct {
	Buffers   map[VertexBuffer]*RecordedBuffer
	Draws     []RecordedDraw
	Materials []*Material

	next    VertexBuffer
	current *Material
}

// NewRecordingDevice creates an empty recorder.
func NewRecordingDevice() *RecordingDevice {
	return &RecordingDevice{
		Buffers: make(map[VertexBuffer]*RecordedBuffer),
	}
}

// CreateVertexBuffer implements Device.
func (d *RecordingDevice) CreateVertexBuffer(vertices []float32, format VertexFormat) (VertexBuffer, error) {
	if len(vertices)%format.Stride() != 0 {
		return 0, fmt.Errorf("vertex data length %d is not a multiple of stride %d", len(vertices), format.Stride())
	}
	d.next++
	data := make([]float32, len(vertices))
	copy(data, vertices)
	d.Buffers[d.next] = &RecordedBuffer{Vertices: data, Format: format}
	return d.next, nil
}

// DeleteVertexBuffer implements Device.
func (d *RecordingDevice) DeleteVertexBuffer(buf VertexBuffer) {
	delete(d.Buffers, buf)
}

// BindMaterial implements Device.
func (d *RecordingDevice) BindMaterial(m *Material) {
	d.current = m
	d.Materials = append(d.Materials, m)
}

// DrawIndexed implements Device.
func (d *RecordingDevice) DrawIndexed(buf VertexBuffer, indices []uint16) {
	draw := RecordedDraw{
		Buffer:  buf,
		Indices: append([]uint16(nil), indices...),
	}
	if d.current != nil {
		draw.Material = d.current.Name
	}
	d.Draws = append(d.Draws, draw)
}

// Reset forgets recorded draws and materials but keeps buffers.
func (d *RecordingDevice) Reset() {
	d.Draws = d.Draws[:0]
	d.Materials = d.Materials[:0]
	d.current = nil
}

// IndexCount returns the number of indices drawn since the last Reset.
func (d *RecordingDevice) IndexCount() int {
	n := 0
	for _, dr := range d.Draws {
		n += len(dr.Indices)
	}
	return n
}

package landscape

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexPoolLayout(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		quality   Quality
		tiles     int
		tileQuads int
		stride    int
	}{
		{name: "single tile", size: 65, quality: QualityMedium, tiles: 1, tileQuads: 64, stride: 5},
		{name: "four tiles", size: 257, quality: QualityLow, tiles: 4, tileQuads: 128, stride: 5},
		{name: "sixteen tiles", size: 513, quality: QualityMedium, tiles: 16, tileQuads: 128, stride: 5},
		{name: "tangent space", size: 257, quality: QualityHigh, tiles: 4, tileQuads: 128, stride: 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Quality = tt.quality
			l, dev := buildLandscape(t, flatHeightmap(t, tt.size, 0), 10, opts)

			quads := l.RDOQuads()
			require.Len(t, quads, tt.tiles)
			require.Len(t, dev.Buffers, tt.tiles)

			width := tt.tileQuads + 1
			for i, q := range quads {
				assert.Equal(t, tt.tileQuads, q.Quads)
				buf := dev.Buffers[q.Buffer]
				require.NotNil(t, buf, "tile %d", i)
				assert.Equal(t, tt.stride, buf.Format.Stride())
				assert.Len(t, buf.Vertices, width*width*tt.stride)
			}
		})
	}
}

func TestVertexPoolRasterOrder(t *testing.T) {
	l, _ := buildLandscape(t, flatHeightmap(t, 513, 0), 10, DefaultOptions())

	for i, q := range l.RDOQuads() {
		assert.Equal(t, (i%4)*128, q.X, "tile %d", i)
		assert.Equal(t, (i/4)*128, q.Y, "tile %d", i)
	}
}

func TestVertexPoolSharedEdges(t *testing.T) {
	l, dev := buildLandscape(t, noiseHeightmap(t, 257), 40, DefaultOptions())
	quads := l.RDOQuads()
	require.Len(t, quads, 4)

	vertex := func(q RDOQuad, x, y int) []float32 {
		buf := dev.Buffers[q.Buffer]
		i := int(q.localIndex(x, y)) * buf.Format.Stride()
		return buf.Vertices[i : i+buf.Format.Stride()]
	}

	// tile 0 and tile 1 share the column x = 128, tile 0 and tile 2 the row y = 128
	for i := 0; i <= 128; i++ {
		assert.Equal(t, vertex(quads[0], 128, i), vertex(quads[1], 128, i))
		assert.Equal(t, vertex(quads[0], i, 128), vertex(quads[2], i, 128))
	}

	// the far corner of the map is present
	last := vertex(quads[3], 256, 256)
	assert.Equal(t, float32(256), last[0])
	assert.Equal(t, float32(256), last[1])
	assert.Equal(t, float32(1), last[3])
	assert.Equal(t, float32(1), last[4])
}

func TestVertexPositions(t *testing.T) {
	hm := flatHeightmap(t, 17, 0)
	hm.Set(4, 8, 65535)
	dev := NewRecordingDevice()
	l := New(dev, DefaultOptions())
	bbox := squareBox(17, 30)
	bbox.Min.X, bbox.Min.Y, bbox.Min.Z = -16, -16, -10
	bbox.Max.X, bbox.Max.Y = 16, 16
	require.NoError(t, l.BuildFromHeightmap(hm, bbox))

	q := l.RDOQuads()[0]
	buf := dev.Buffers[q.Buffer]
	i := int(q.localIndex(4, 8)) * 5
	v := buf.Vertices[i : i+5]
	assert.Equal(t, float32(-8), v[0])
	assert.Equal(t, float32(0), v[1])
	assert.InDelta(t, 30, v[2], 1e-3)
	assert.Equal(t, float32(0.25), v[3])
	assert.Equal(t, float32(0.5), v[4])

	i = int(q.localIndex(0, 0)) * 5
	assert.Equal(t, []float32{-16, -16, -10, 0, 0}, buf.Vertices[i:i+5])
}

func TestTangentSpaceFlat(t *testing.T) {
	opts := DefaultOptions()
	opts.Quality = QualityHigh
	l, dev := buildLandscape(t, flatHeightmap(t, 17, 500), 10, opts)

	buf := dev.Buffers[l.RDOQuads()[0].Buffer]
	for i := 0; i < len(buf.Vertices); i += 11 {
		assert.Equal(t, []float32{0, 0, 1}, buf.Vertices[i+5:i+8])
		assert.Equal(t, []float32{1, 0, 0}, buf.Vertices[i+8:i+11])
	}
}

type failingDevice struct {
	*RecordingDevice
	failAfter int
}

var errOutOfMemory = errors.New("out of video memory")

func (d *failingDevice) CreateVertexBuffer(vertices []float32, format VertexFormat) (VertexBuffer, error) {
	if len(d.Buffers) >= d.failAfter {
		return 0, errOutOfMemory
	}
	return d.RecordingDevice.CreateVertexBuffer(vertices, format)
}

func TestVertexPoolAllocationFailure(t *testing.T) {
	dev := &failingDevice{RecordingDevice: NewRecordingDevice(), failAfter: 2}
	l := New(dev, DefaultOptions())

	err := l.BuildFromHeightmap(flatHeightmap(t, 257, 0), squareBox(257, 10))
	require.ErrorIs(t, err, errOutOfMemory)
	assert.Empty(t, dev.Buffers, "partially created buffers are released")
	assert.Zero(t, l.LevelCount())
}

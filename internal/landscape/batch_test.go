package landscape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/landscape/pkg/math"
)

type flushed struct {
	rdoQuad int
	indices []uint16
}

func recordFlushes(out *[]flushed) flushFunc {
	return func(rdoQuad int, indices []uint16) {
		*out = append(*out, flushed{rdoQuad, append([]uint16(nil), indices...)})
	}
}

func TestBatchStateFlushesOnTileChange(t *testing.T) {
	var got []flushed
	flush := recordFlushes(&got)
	b := NewBatchState(100)

	b.Queue(0, []uint16{0, 1, 2}, flush)
	b.Queue(0, []uint16{3, 4, 5}, flush)
	assert.Empty(t, got)
	assert.Equal(t, 6, b.Len())

	b.Queue(2, []uint16{6, 7, 8}, flush)
	b.Queue(0, []uint16{9, 10, 11}, flush)
	b.Flush(flush)

	assert.Equal(t, []flushed{
		{0, []uint16{0, 1, 2, 3, 4, 5}},
		{2, []uint16{6, 7, 8}},
		{0, []uint16{9, 10, 11}},
	}, got)
	assert.Zero(t, b.Len())
}

func TestBatchStateCapacity(t *testing.T) {
	var got []flushed
	flush := recordFlushes(&got)
	b := NewBatchState(6)

	b.Queue(1, []uint16{0, 1, 2}, flush)
	b.Queue(1, []uint16{3, 4, 5}, flush)
	b.Queue(1, []uint16{6, 7, 8}, flush)
	b.Flush(flush)

	require.Len(t, got, 2)
	assert.Equal(t, []uint16{0, 1, 2, 3, 4, 5}, got[0].indices)
	assert.Equal(t, []uint16{6, 7, 8}, got[1].indices)
}

func TestBatchStateEmpty(t *testing.T) {
	var got []flushed
	b := NewBatchState(10)
	b.Flush(recordFlushes(&got))
	assert.Empty(t, got)

	b.Queue(3, []uint16{1, 2, 3}, recordFlushes(&got))
	b.Reset()
	b.Flush(recordFlushes(&got))
	assert.Empty(t, got)
}

func TestDrawBatchesByTile(t *testing.T) {
	l, dev := buildLandscape(t, noiseHeightmap(t, 513), 64, DefaultOptions())
	stats, err := l.Draw(overheadCamera(math.Vec3{X: 100, Y: 300, Z: 90}))
	require.NoError(t, err)

	var want []uint16
	tileChanges := 0
	for i, p := range l.Patches() {
		want = l.stitcher.appendIndices(want, p)
		if i == 0 || p.RDOQuad != l.Patches()[i-1].RDOQuad {
			tileChanges++
		}
	}

	var got []uint16
	for _, d := range dev.Draws {
		assert.Equal(t, MaterialTileMask, d.Material)
		assert.LessOrEqual(t, len(d.Indices), IndexArrayCount)
		got = append(got, d.Indices...)
	}
	assert.Equal(t, want, got)
	assert.GreaterOrEqual(t, len(dev.Draws), tileChanges)
	assert.Equal(t, len(dev.Draws), stats.DrawCalls)
	assert.Equal(t, len(want), stats.Indices)

	buffers := make(map[VertexBuffer]bool)
	for _, q := range l.RDOQuads() {
		buffers[q.Buffer] = true
	}
	for _, d := range dev.Draws {
		assert.True(t, buffers[d.Buffer])
	}
}

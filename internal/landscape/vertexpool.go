package landscape

import (
	"fmt"
)

// RDOQuad is one vertex buffer tile of the heightmap. Every quad-tree node no
// larger than a tile draws from the buffer of the tile that contains it.
type RDOQuad struct {
	X, Y   int // origin in samples
	Quads  int // quads per side
	Buffer VertexBuffer
}

// Width returns the vertices per side of the tile.
func (q RDOQuad) Width() int {
	return q.Quads + 1
}

// localIndex returns the vertex index of sample (x, y) within the tile.
func (q RDOQuad) localIndex(x, y int) uint16 {
	return uint16((y-q.Y)*q.Width() + (x - q.X))
}

// vertexPool owns the vertex buffer tiles of a landscape.
type vertexPool struct {
	tileQuads   int
	tilesPerRow int
	format      VertexFormat
	quads       []RDOQuad
}

// newVertexPool lays out the tile grid without creating buffers.
func newVertexPool(heightmapQuads, tileQuads int, format VertexFormat) *vertexPool {
	tileQuads = min(tileQuads, heightmapQuads)
	return &vertexPool{
		tileQuads:   tileQuads,
		tilesPerRow: heightmapQuads / tileQuads,
		format:      format,
	}
}

// tileIndex returns the tile containing the node whose origin is sample (x, y).
func (p *vertexPool) tileIndex(x, y int) int {
	return (y/p.tileQuads)*p.tilesPerRow + x/p.tileQuads
}

// allocate builds and uploads every tile in raster order.
func (p *vertexPool) allocate(dev Device, g geometry) error {
	p.quads = make([]RDOQuad, 0, p.tilesPerRow*p.tilesPerRow)
	scratch := make([]float32, 0, (p.tileQuads+1)*(p.tileQuads+1)*p.format.Stride())

	for ty := 0; ty < p.tilesPerRow; ty++ {
		for tx := 0; tx < p.tilesPerRow; tx++ {
			q := RDOQuad{
				X:     tx * p.tileQuads,
				Y:     ty * p.tileQuads,
				Quads: p.tileQuads,
			}
			scratch = appendTileVertices(scratch[:0], g, q, p.format)

			buf, err := dev.CreateVertexBuffer(scratch, p.format)
			if err != nil {
				p.release(dev)
				return fmt.Errorf("vertex buffer for tile %d,%d: %w", tx, ty, err)
			}
			q.Buffer = buf
			p.quads = append(p.quads, q)
		}
	}
	return nil
}

// release deletes every buffer the pool created.
func (p *vertexPool) release(dev Device) {
	for _, q := range p.quads {
		dev.DeleteVertexBuffer(q.Buffer)
	}
	p.quads = nil
}

// appendTileVertices writes the interleaved vertices of a tile, including its
// far row and column so neighboring tiles share an edge.
func appendTileVertices(dst []float32, g geometry, q RDOQuad, format VertexFormat) []float32 {
	for y := q.Y; y <= q.Y+q.Quads; y++ {
		for x := q.X; x <= q.X+q.Quads; x++ {
			p := g.point(x, y)
			uv := g.uv(x, y)
			dst = append(dst, p.X, p.Y, p.Z, uv.X, uv.Y)

			if format == FormatPositionUVNormalTangent {
				n := g.normal(x, y)
				t := g.tangent(x, y)
				dst = append(dst, n.X, n.Y, n.Z, t.X, t.Y, t.Z)
			}
		}
	}
	return dst
}

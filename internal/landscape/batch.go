package landscape

// flushFunc issues one draw call for the indices queued against a tile.
type flushFunc func(rdoQuad int, indices []uint16)

// BatchState accumulates patch indices per vertex buffer tile and flushes a
// draw call whenever the tile changes. It is owned by the caller and passed
// through the draw pass, so flush order depends only on the order patches are
// queued in.
type BatchState struct {
	rdoQuad  int
	indices  []uint16
	capacity int
}

// NewBatchState creates a queue holding at most capacity indices.
func NewBatchState(capacity int) *BatchState {
	return &BatchState{
		rdoQuad:  -1,
		indices:  make([]uint16, 0, capacity),
		capacity: capacity,
	}
}

// Reset empties the queue without drawing.
func (b *BatchState) Reset() {
	b.rdoQuad = -1
	b.indices = b.indices[:0]
}

// Len returns the number of queued indices.
func (b *BatchState) Len() int {
	return len(b.indices)
}

// Queue appends the indices of one patch drawn from rdoQuad. Pending indices
// of another tile are flushed first. The queue also flushes early rather than
// grow past its capacity.
func (b *BatchState) Queue(rdoQuad int, indices []uint16, flush flushFunc) {
	if len(b.indices) > 0 && (rdoQuad != b.rdoQuad || len(b.indices)+len(indices) > b.capacity) {
		b.Flush(flush)
	}
	b.rdoQuad = rdoQuad
	b.indices = append(b.indices, indices...)
}

// Flush draws whatever is queued.
func (b *BatchState) Flush(flush flushFunc) {
	if len(b.indices) == 0 {
		return
	}
	flush(b.rdoQuad, b.indices)
	b.indices = b.indices[:0]
}

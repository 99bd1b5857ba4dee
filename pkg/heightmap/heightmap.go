// Package heightmap provides the square 16-bit height grid a landscape is built from,
// along with its binary file format and image import.
package heightmap

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
	"os"
	"path/filepath"
)

// MaxValue is the largest height sample.
const MaxValue = 0xFFFF

// Heightmap format errors.
var (
	ErrInvalidSize            = errors.New("heightmap size must be 2^n+1")
	ErrTruncatedData          = errors.New("truncated heightmap data")
	ErrUnsupportedPixelFormat = errors.New("unsupported heightmap pixel format")
)

// headerSize is the byte size of the size + tile size header.
const headerSize = 8

// Heightmap is a Size x Size grid of height samples in row-major order.
type Heightmap struct {
	Size int
	Data []uint16
}

// ValidSize reports whether size-1 is a power of two greater than one.
func ValidSize(size int) bool {
	n := size - 1
	return n >= 2 && bits.OnesCount(uint(n)) == 1
}

// New creates a flat heightmap.
func New(size int) (*Heightmap, error) {
	if !ValidSize(size) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	return &Heightmap{
		Size: size,
		Data: make([]uint16, size*size),
	}, nil
}

// At returns the sample at (x, y). Coordinates are clamped to the grid.
func (h *Heightmap) At(x, y int) uint16 {
	x = clamp(x, 0, h.Size-1)
	y = clamp(y, 0, h.Size-1)
	return h.Data[y*h.Size+x]
}

// Set writes the sample at (x, y).
func (h *Heightmap) Set(x, y int, v uint16) {
	h.Data[y*h.Size+x] = v
}

// Clone returns a deep copy.
func (h *Heightmap) Clone() *Heightmap {
	data := make([]uint16, len(h.Data))
	copy(data, h.Data)
	return &Heightmap{Size: h.Size, Data: data}
}

// Equal reports whether both heightmaps hold the same samples.
func (h *Heightmap) Equal(other *Heightmap) bool {
	if other == nil || h.Size != other.Size {
		return false
	}
	for i, v := range h.Data {
		if other.Data[i] != v {
			return false
		}
	}
	return true
}

// Range returns the smallest and largest sample.
func (h *Heightmap) Range() (lo, hi uint16) {
	lo = MaxValue
	for _, v := range h.Data {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// Parse decodes a heightmap from its binary form:
// int32 size, int32 tile size, then size*size little-endian uint16 samples.
func Parse(data []byte) (*Heightmap, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedData)
	}

	r := bytes.NewReader(data)
	var size, tileSize int32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, fmt.Errorf("%w: reading size", ErrTruncatedData)
	}
	if err := binary.Read(r, binary.LittleEndian, &tileSize); err != nil {
		return nil, fmt.Errorf("%w: reading tile size", ErrTruncatedData)
	}

	if !ValidSize(int(size)) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	// check the payload before allocating so a corrupt header cannot
	// request an arbitrarily large map
	if samples := int64(size) * int64(size); samples*2 > int64(r.Len()) {
		return nil, fmt.Errorf("%w: expected %d samples, have %d bytes", ErrTruncatedData, samples, r.Len())
	}

	h, err := New(int(size))
	if err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, h.Data); err != nil {
		return nil, fmt.Errorf("%w: reading samples", ErrTruncatedData)
	}
	return h, nil
}

// Encode returns the binary form read by Parse.
func (h *Heightmap) Encode() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, headerSize+len(h.Data)*2))
	binary.Write(buf, binary.LittleEndian, int32(h.Size))
	binary.Write(buf, binary.LittleEndian, int32(h.Size-1))
	binary.Write(buf, binary.LittleEndian, h.Data)
	return buf.Bytes()
}

// Load reads a heightmap from disk. Files with an image extension go through
// LoadImage, anything else is parsed as the binary format.
func Load(path string) (*Heightmap, error) {
	if IsImagePath(path) {
		return LoadImage(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	h, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return h, nil
}

// Save writes the binary form to path, creating parent directories.
func (h *Heightmap) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, h.Encode(), 0644)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

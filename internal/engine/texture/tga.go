// Package texture decodes landscape texture files into RGBA images.
package texture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
)

// TGA image types.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// ErrTGATruncated is returned when TGA pixel data ends early.
var ErrTGATruncated = errors.New("tga: data truncated")

type tgaHeader struct {
	idLength     int
	colorMapType uint8
	imageType    uint8
	width        int
	height       int
	bpp          int
	topToBottom  bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, ErrTGATruncated
	}
	h := tgaHeader{
		idLength:     int(data[0]),
		colorMapType: data[1],
		imageType:    data[2],
		width:        int(binary.LittleEndian.Uint16(data[12:])),
		height:       int(binary.LittleEndian.Uint16(data[14:])),
		bpp:          int(data[16]),
		topToBottom:  data[17]&0x20 != 0,
	}
	switch {
	case h.colorMapType != 0:
		return h, fmt.Errorf("tga: color-mapped images not supported")
	case h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE:
		return h, fmt.Errorf("tga: unsupported image type %d", h.imageType)
	case h.bpp != 24 && h.bpp != 32:
		return h, fmt.Errorf("tga: unsupported bit depth %d", h.bpp)
	}
	return h, nil
}

// DecodeTGA decodes an uncompressed or RLE compressed 24/32-bit TGA image.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	offset := tgaHeaderSize + h.idLength
	if offset > len(data) {
		return nil, ErrTGATruncated
	}
	src := data[offset:]
	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	pixelSize := h.bpp / 8

	// put stores the BGR(A) pixel px at position i in file order.
	put := func(i int, px []byte) {
		x, y := i%h.width, i/h.width
		if !h.topToBottom {
			y = h.height - 1 - y
		}
		o := img.PixOffset(x, y)
		img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = px[2], px[1], px[0], 255
		if pixelSize == 4 {
			img.Pix[o+3] = px[3]
		}
	}

	count := h.width * h.height
	if h.imageType == TGATypeUncompressed {
		if len(src) < count*pixelSize {
			return nil, ErrTGATruncated
		}
		for i := 0; i < count; i++ {
			put(i, src[i*pixelSize:])
		}
		return img, nil
	}

	i, pos := 0, 0
	for i < count {
		if pos >= len(src) {
			return nil, ErrTGATruncated
		}
		packet := src[pos]
		pos++
		n := int(packet&0x7F) + 1
		repeat := packet&0x80 != 0

		need := pixelSize
		if !repeat {
			need = n * pixelSize
		}
		if pos+need > len(src) {
			return nil, ErrTGATruncated
		}
		for k := 0; k < n && i < count; k++ {
			if repeat {
				put(i, src[pos:])
			} else {
				put(i, src[pos+k*pixelSize:])
			}
			i++
		}
		pos += need
	}
	return img, nil
}

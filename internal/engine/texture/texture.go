package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// Decode decodes texture data. TGA is detected by the file extension of
// name, everything else by the registered image decoders.
func Decode(data []byte, name string) (*image.RGBA, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return ToRGBA(img), nil
}

// Load reads and decodes a texture file.
func Load(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, path)
}

// ToRGBA converts any image to *image.RGBA with its origin at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}

// NormalizeMask rescales the four channels of a tile mask so that the tile
// weights of every pixel sum to 255. Pixels with no weight select tile 0.
func NormalizeMask(img *image.RGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		px := img.Pix[i : i+4]
		sum := int(px[0]) + int(px[1]) + int(px[2]) + int(px[3])
		if sum == 0 {
			px[0] = 255
			continue
		}
		if sum == 255 {
			continue
		}
		total := 0
		for c := 1; c < 4; c++ {
			px[c] = uint8(int(px[c]) * 255 / sum)
			total += int(px[c])
		}
		px[0] = uint8(255 - total)
	}
}

// Solid returns a 1x1 texture of one color.
func Solid(r, g, b, a uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	copy(img.Pix, []uint8{r, g, b, a})
	return img
}

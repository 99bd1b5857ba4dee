package heightmap

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Registered decoders for heightmap images.
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

var imageExts = map[string]bool{
	".png":  true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

// IsImagePath reports whether path has a supported image extension.
func IsImagePath(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// BuildFromImage converts a grayscale image into a heightmap.
// 16-bit images are copied as is, 8-bit samples are expanded to the full range.
func BuildFromImage(img image.Image) (*Heightmap, error) {
	b := img.Bounds()
	if b.Dx() != b.Dy() {
		return nil, fmt.Errorf("%w: image is %dx%d", ErrInvalidSize, b.Dx(), b.Dy())
	}

	h, err := New(b.Dx())
	if err != nil {
		return nil, err
	}

	switch src := img.(type) {
	case *image.Gray16:
		for y := 0; y < h.Size; y++ {
			for x := 0; x < h.Size; x++ {
				h.Set(x, y, src.Gray16At(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
	case *image.Gray:
		for y := 0; y < h.Size; y++ {
			for x := 0; x < h.Size; x++ {
				h.Set(x, y, uint16(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)*257)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedPixelFormat, img)
	}
	return h, nil
}

// LoadImage decodes a PNG, TIFF or BMP file and converts it with BuildFromImage.
func LoadImage(path string) (*Heightmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	h, err := BuildFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%s image %s: %w", format, filepath.Base(path), err)
	}
	return h, nil
}

// Image returns the heightmap as a 16-bit grayscale image.
func (h *Heightmap) Image() *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, h.Size, h.Size))
	for y := 0; y < h.Size; y++ {
		for x := 0; x < h.Size; x++ {
			v := h.At(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(v >> 8)
			img.Pix[i+1] = uint8(v)
		}
	}
	return img
}

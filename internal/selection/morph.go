package selection

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
)

// Grow expands the selection outward by radius pixels (morphological
// dilation) and returns a new mask. A radius of zero or less returns a copy.
func Grow(m *Mask, radius float64) *Mask {
	if radius <= 0 {
		return m.Clone()
	}
	return fromImage(effect.Dilate(m.toGray(), radius))
}

// Shrink contracts the selection by radius pixels (morphological erosion)
// and returns a new mask. A radius of zero or less returns a copy.
func Shrink(m *Mask, radius float64) *Mask {
	if radius <= 0 {
		return m.Clone()
	}
	return fromImage(effect.Erode(m.toGray(), radius))
}

// toGray renders the mask as a black/white image, selected cells white.
func (m *Mask) toGray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, b := range m.Bits {
		if b != 0 {
			g.Pix[i] = 255
		}
	}
	return g
}

// fromImage thresholds img at mid-grey and reads white pixels as selected.
func fromImage(img image.Image) *Mask {
	g := segment.Threshold(img, 128)
	w, h := g.Rect.Dx(), g.Rect.Dy()
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+w]
		for x, v := range row {
			if v != 0 {
				m.Bits[y*w+x] = 1
			}
		}
	}
	return m
}

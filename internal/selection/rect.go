package selection

import (
	"image"
	"math"
)

// NormRect is a rectangle in image-relative coordinates: X and Width are
// fractions of the image width, Y and Height fractions of the image height.
// Width and Height may be negative (a drag towards the top-left).
type NormRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Pixels converts r into a pixel rectangle for a width × height image.
// Edges are rounded to the nearest pixel boundary and the result is clamped
// to the image; it may be empty.
func (r NormRect) Pixels(width, height int) image.Rectangle {
	x, w := r.X, r.Width
	if w < 0 {
		x, w = x+w, -w
	}
	y, h := r.Y, r.Height
	if h < 0 {
		y, h = y+h, -h
	}

	px := image.Rect(
		int(math.Round(x*float64(width))),
		int(math.Round(y*float64(height))),
		int(math.Round((x+w)*float64(width))),
		int(math.Round((y+h)*float64(height))),
	)
	return px.Intersect(image.Rect(0, 0, width, height))
}

// SelectRect returns a width × height mask with the normalised rectangle r
// selected. A rectangle with zero area, or one lying entirely outside the
// image, selects nothing.
func SelectRect(width, height int, r NormRect) *Mask {
	return SelectPixelRect(width, height, r.Pixels(width, height))
}

// SelectPixelRect returns a width × height mask with the pixel rectangle r
// (Min inclusive, Max exclusive) selected, clipped to the mask.
func SelectPixelRect(width, height int, r image.Rectangle) *Mask {
	mask := NewMask(width, height)
	r = r.Intersect(image.Rect(0, 0, width, height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := mask.Bits[y*width : (y+1)*width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = 1
		}
	}
	return mask
}

package selection

import (
	"image"
	"math"
)

// Paint applies one freehand brush stroke to m and returns the result as a
// new mask.
//
// The stroke is a polyline in pixel coordinates. A disc of the given radius
// is stamped along every segment, spaced closely enough that the painted
// band has no gaps. With erase set the band is removed from the selection
// instead of added. A single-point stroke stamps one disc; an empty stroke
// returns an unchanged copy. Parts of the stroke outside the mask are
// clipped.
func Paint(m *Mask, stroke []image.Point, radius float64, erase bool) *Mask {
	out := m.Clone()
	if len(stroke) == 0 {
		return out
	}
	if radius < 0 {
		radius = 0
	}

	stamp := func(cx, cy float64) {
		x0 := int(math.Floor(cx - radius))
		x1 := int(math.Ceil(cx + radius))
		y0 := int(math.Floor(cy - radius))
		y1 := int(math.Ceil(cy + radius))
		r2 := radius * radius
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				dx, dy := float64(x)-cx, float64(y)-cy
				if dx*dx+dy*dy <= r2 {
					out.Set(x, y, !erase)
				}
			}
		}
	}

	step := math.Max(radius/2, 0.5)
	prev := stroke[0]
	stamp(float64(prev.X), float64(prev.Y))

	for _, p := range stroke[1:] {
		dx := float64(p.X - prev.X)
		dy := float64(p.Y - prev.Y)
		n := int(math.Ceil(math.Hypot(dx, dy) / step))
		for k := 1; k <= n; k++ {
			t := float64(k) / float64(n)
			cx := float64(prev.X) + dx*t
			cy := float64(prev.Y) + dy*t
			stamp(math.Round(cx), math.Round(cy))
		}
		prev = p
	}
	return out
}

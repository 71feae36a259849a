package vectorize

import (
	"image"
	"math"

	"golang.org/x/image/vector"

	"github.com/ironsheep/region-tools-mcp/internal/selection"
)

// Rasterize converts pixel-space paths back into a width × height mask.
//
// Anchors are treated as cell centres, the same convention Trace emits. A
// cell is selected when its centre region is at least half covered by a
// path's interior, or when a straight path edge passes through it, so that
// tracing a mask and rasterising the result reproduces the boundary cells.
// Segments whose handles have been moved off their anchors are drawn as
// cubic Béziers. Paths are filled independently and unioned.
func Rasterize(paths []Path, width, height int) *selection.Mask {
	mask := selection.NewMask(width, height)
	if width <= 0 || height <= 0 {
		return mask
	}

	coverage := image.NewAlpha(image.Rect(0, 0, width, height))
	z := vector.NewRasterizer(width, height)

	for _, path := range paths {
		if len(path) < 2 {
			continue
		}

		z.Reset(width, height)
		first := path[0].Anchor
		z.MoveTo(centre(first))
		for i := 1; i < len(path); i++ {
			a, b := path[i-1], path[i]
			if isStraight(a, b) {
				z.LineTo(centre(b.Anchor))
				drawLine(mask, a.Anchor, b.Anchor)
				continue
			}
			c1x, c1y := centre(a.HandleOut)
			c2x, c2y := centre(b.HandleIn)
			ex, ey := centre(b.Anchor)
			z.CubeTo(c1x, c1y, c2x, c2y, ex, ey)
		}
		z.ClosePath()
		z.Draw(coverage, coverage.Bounds(), image.Opaque, image.Point{})
	}

	for i, a := range coverage.Pix {
		if a >= 128 {
			mask.Bits[i] = 1
		}
	}
	return mask
}

func centre(p Point) (float32, float32) {
	return float32(p.X + 0.5), float32(p.Y + 0.5)
}

func isStraight(a, b ContourPoint) bool {
	return a.HandleOut == a.Anchor && b.HandleIn == b.Anchor
}

// drawLine selects the cells along the segment a-b (Bresenham).
func drawLine(m *selection.Mask, a, b Point) {
	x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
	x1, y1 := int(math.Round(b.X)), int(math.Round(b.Y))

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	e := dx + dy
	for {
		m.Set(x0, y0, true)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

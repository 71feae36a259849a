package selection

import (
	"fmt"

	"github.com/ironsheep/region-tools-mcp/internal/imaging"
	"github.com/ironsheep/region-tools-mcp/internal/logging"
)

// Select builds a mask of pixels whose color is within tolerance of the
// seed pixel's color.
//
// Parameters:
//   - buf: Source pixels. Not modified.
//   - seedX, seedY: Seed coordinates; must lie inside buf.
//   - tolerance: Maximum Euclidean RGB distance from the seed color,
//     inclusive. Alpha is ignored. Must be non-negative.
//   - contiguous: When true only pixels 4-connected to the seed through
//     admitted pixels are selected (magic wand). When false every matching
//     pixel in the image is selected.
//
// Every candidate is compared against the seed's own color, never against
// the neighbour it was reached from, so long gradients cannot drift the
// selection. The contiguous walk uses an explicit queue and handles images
// of any size.
//
// Select panics on an out-of-range seed or a negative tolerance.
func Select(buf *imaging.Buffer, seedX, seedY int, tolerance float64, contiguous bool) *Mask {
	if !buf.In(seedX, seedY) {
		panic(fmt.Sprintf("selection: seed (%d,%d) outside %dx%d image", seedX, seedY, buf.Width, buf.Height))
	}
	if tolerance < 0 {
		panic(fmt.Sprintf("selection: negative tolerance %v", tolerance))
	}

	mask := NewMask(buf.Width, buf.Height)
	seed := buf.RGBAt(seedX, seedY)
	limit := tolerance * tolerance

	similar := func(i int) bool {
		return float64(buf.RGBIndex(i).DistanceSquared(seed)) <= limit
	}

	if !contiguous {
		n := 0
		for i := range mask.Bits {
			if similar(i) {
				mask.Bits[i] = 1
				n++
			}
		}
		logging.Logger().Debug("global color select", "seed", seed, "tolerance", tolerance, "selected", n)
		return mask
	}

	w, h := buf.Width, buf.Height
	start := seedY*w + seedX
	queue := []int{start}
	mask.Bits[start] = 1

	visit := func(j int) {
		if mask.Bits[j] == 0 && similar(j) {
			mask.Bits[j] = 1
			queue = append(queue, j)
		}
	}

	for head := 0; head < len(queue); head++ {
		i := queue[head]
		x, y := i%w, i/w
		if x > 0 {
			visit(i - 1)
		}
		if x < w-1 {
			visit(i + 1)
		}
		if y > 0 {
			visit(i - w)
		}
		if y < h-1 {
			visit(i + w)
		}
	}

	logging.Logger().Debug("flood fill select", "seed", seed, "tolerance", tolerance, "selected", len(queue))
	return mask
}

package vectorize

// Simplify reduces a polyline with the Ramer–Douglas–Peucker algorithm.
//
// toleranceSquared is compared against the squared perpendicular distance of
// each interior point from the chord of its span: when the farthest point of
// a span lies closer than the tolerance the span collapses to its endpoints,
// otherwise it is split at that point. The first and last points are always
// kept and no point is ever added. When a span's endpoints coincide, as for
// a closed loop, distance to that single point is used.
//
// Spans are processed from an explicit stack, so the call depth does not
// depend on the length of the input.
func Simplify(points []Point, toleranceSquared float64) []Point {
	n := len(points)
	if n <= 2 {
		return append([]Point(nil), points...)
	}

	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true

	type span struct{ first, last int }
	stack := []span{{0, n - 1}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.last-s.first < 2 {
			continue
		}

		index, dmax := -1, -1.0
		a, b := points[s.first], points[s.last]
		for i := s.first + 1; i < s.last; i++ {
			if d := perpendicularDistanceSquared(points[i], a, b); d > dmax {
				index, dmax = i, d
			}
		}
		if dmax < toleranceSquared {
			continue
		}

		keep[index] = true
		stack = append(stack, span{s.first, index}, span{index, s.last})
	}

	out := make([]Point, 0, n)
	for i, p := range points {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// perpendicularDistanceSquared returns the squared perpendicular distance
// from p to the infinite line through a and b, or the squared distance to a
// when a and b coincide.
func perpendicularDistanceSquared(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	px, py := p.X-a.X, p.Y-a.Y

	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return px*px + py*py
	}

	cross := px*dy - py*dx
	return cross * cross / lenSq
}

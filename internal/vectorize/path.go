package vectorize

// Point is a 2D coordinate. Traced points are in pixel space (cell indices);
// normalised points are fractions of the image width and height.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ContourPoint is one vertex of a Path: an anchor plus the incoming and
// outgoing Bézier control handles. Freshly traced points have both handles
// on the anchor, so every segment is straight until an editor bends it.
type ContourPoint struct {
	Anchor    Point `json:"anchor"`
	HandleIn  Point `json:"handle_in"`
	HandleOut Point `json:"handle_out"`
}

// Path is a closed outline. The last point repeats the first anchor.
type Path []ContourPoint

// straight returns a ContourPoint whose handles coincide with p.
func straight(p Point) ContourPoint {
	return ContourPoint{Anchor: p, HandleIn: p, HandleOut: p}
}

// newPath converts a polyline into a Path of straight segments, appending
// the first point again if the polyline is not already closed.
func newPath(pts []Point) Path {
	path := make(Path, 0, len(pts)+1)
	for _, p := range pts {
		path = append(path, straight(p))
	}
	if len(pts) > 0 && pts[0] != pts[len(pts)-1] {
		path = append(path, straight(pts[0]))
	}
	return path
}

// Anchors returns the anchor coordinates of the path in order.
func (p Path) Anchors() []Point {
	pts := make([]Point, len(p))
	for i, cp := range p {
		pts[i] = cp.Anchor
	}
	return pts
}

// Closed reports whether the path ends on its first anchor.
func (p Path) Closed() bool {
	return len(p) > 1 && p[0].Anchor == p[len(p)-1].Anchor
}

// Normalize divides every coordinate by the image size, mapping pixel space
// onto [0,1] image-relative space. The input paths are not modified.
func Normalize(paths []Path, width, height int) []Path {
	sx, sy := 1/float64(width), 1/float64(height)
	return transform(paths, sx, sy)
}

// Denormalize maps image-relative paths back into pixel space.
func Denormalize(paths []Path, width, height int) []Path {
	return transform(paths, float64(width), float64(height))
}

func transform(paths []Path, sx, sy float64) []Path {
	scale := func(p Point) Point { return Point{X: p.X * sx, Y: p.Y * sy} }

	out := make([]Path, len(paths))
	for i, path := range paths {
		np := make(Path, len(path))
		for j, cp := range path {
			np[j] = ContourPoint{
				Anchor:    scale(cp.Anchor),
				HandleIn:  scale(cp.HandleIn),
				HandleOut: scale(cp.HandleOut),
			}
		}
		out[i] = np
	}
	return out
}

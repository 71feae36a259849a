package vectorize

import (
	"image"

	"github.com/ironsheep/region-tools-mcp/internal/logging"
	"github.com/ironsheep/region-tools-mcp/internal/selection"
)

// DefaultTolerance is the squared-pixel simplification tolerance used by
// Trace. It turns a stair-stepped pixel boundary into a handful of corners
// while keeping the outline within about a pixel of the selection.
const DefaultTolerance = 1.5

// moore lists the 8 neighbour offsets clockwise in image coordinates
// (Y down), starting east: E, SE, S, SW, W, NW, N, NE.
var moore = [8]image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// startOrder is the order in which neighbours of a start cell are tried
// when picking the initial backtrack: W, N, E, S, then the diagonals.
var startOrder = [8]int{4, 6, 0, 2, 5, 7, 1, 3}

func direction(dx, dy int) int {
	for i, d := range moore {
		if d.X == dx && d.Y == dy {
			return i
		}
	}
	return -1
}

// Trace outlines every connected component of selected cells using
// DefaultTolerance. See TraceWithTolerance.
func Trace(m *selection.Mask) []Path {
	return TraceWithTolerance(m, DefaultTolerance)
}

// TraceWithTolerance outlines every connected component of selected cells in
// m and returns one closed, simplified Path per component, in pixel space.
//
// # Algorithm
//
//  1. Scan cells in row-major order. Each selected cell not yet visited seeds
//     a breadth-first search over its 4-connected component; every cell of
//     the component is marked visited. The outline starts at the first
//     boundary cell the search reaches (one touching the image edge or an
//     unselected 4-neighbour), which is always the seed itself: the first
//     cell of a component in row-major order has no selected cell above it.
//     Each path therefore begins at its component's top-left-most cell.
//  2. Walk the boundary with Moore-neighbour tracing: from the current cell,
//     scan its 8 neighbours clockwise starting just after the cell the walk
//     backtracked from; the first selected neighbour is the next boundary
//     cell and the empty neighbour examined just before it becomes the new
//     backtrack. The initial backtrack is an actual empty neighbour of the
//     start cell.
//  3. Stop on returning to the start cell, or when a cell has no selected
//     neighbour (an isolated pixel).
//  4. Close the walk, simplify it with Simplify(points, toleranceSquared)
//     and drop it when fewer than 3 distinct points remain.
//
// Masks are normally cleaned first; holes in an uncleaned mask are ignored
// because only the outer boundary of each component is followed.
func TraceWithTolerance(m *selection.Mask, toleranceSquared float64) []Path {
	visited := make([]bool, len(m.Bits))
	var paths []Path
	skipped := 0

	for i, b := range m.Bits {
		if b == 0 || visited[i] {
			continue
		}

		start := markComponent(m, i, visited)
		walk := followBoundary(m, start)
		closed := append(walk, walk[0])

		simplified := Simplify(closed, toleranceSquared)
		if distinct(simplified) < 3 {
			skipped++
			continue
		}
		paths = append(paths, newPath(simplified))
	}

	logging.Logger().Debug("traced selection", "paths", len(paths), "degenerate", skipped)
	return paths
}

// markComponent marks the 4-connected component containing seed as visited
// and returns its first boundary cell in BFS order.
func markComponent(m *selection.Mask, seed int, visited []bool) image.Point {
	w, h := m.Width, m.Height
	queue := []int{seed}
	visited[seed] = true
	start := -1

	for head := 0; head < len(queue); head++ {
		i := queue[head]
		x, y := i%w, i/w

		if start < 0 && isBoundary(m, x, y) {
			start = i
		}

		for _, d := range [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := x+d.X, y+d.Y
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			j := ny*w + nx
			if !visited[j] && m.Bits[j] != 0 {
				visited[j] = true
				queue = append(queue, j)
			}
		}
	}

	if start < 0 {
		// Unreachable: the first cell of a component in row-major order
		// always has an unselected or missing upper neighbour.
		start = seed
	}
	return image.Pt(start%w, start/w)
}

func isBoundary(m *selection.Mask, x, y int) bool {
	if x == 0 || y == 0 || x == m.Width-1 || y == m.Height-1 {
		return true
	}
	return !m.At(x-1, y) || !m.At(x+1, y) || !m.At(x, y-1) || !m.At(x, y+1)
}

// followBoundary performs the Moore-neighbour walk from start and returns
// the visited boundary cells, without repeating start at the end.
func followBoundary(m *selection.Mask, start image.Point) []Point {
	pts := []Point{{X: float64(start.X), Y: float64(start.Y)}}

	back := -1
	for _, d := range startOrder {
		if !m.At(start.X+moore[d].X, start.Y+moore[d].Y) {
			back = d
			break
		}
	}
	if back < 0 {
		return pts
	}

	cur := start
	// Each boundary cell can be entered from at most 4 sides.
	limit := 4*len(m.Bits) + 8

	for step := 0; step < limit; step++ {
		found := false
		for k := 1; k <= 8; k++ {
			d := (back + k) % 8
			next := cur.Add(moore[d])
			if !m.At(next.X, next.Y) {
				continue
			}
			prev := cur.Add(moore[(back+k-1)%8])
			back = direction(prev.X-next.X, prev.Y-next.Y)
			cur = next
			found = true
			break
		}

		if !found || cur == start {
			break
		}
		pts = append(pts, Point{X: float64(cur.X), Y: float64(cur.Y)})
	}
	return pts
}

// distinct counts the different points in pts.
func distinct(pts []Point) int {
	seen := make(map[Point]struct{}, len(pts))
	for _, p := range pts {
		seen[p] = struct{}{}
	}
	return len(seen)
}

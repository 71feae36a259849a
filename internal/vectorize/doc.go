// Package vectorize turns selection masks into compact closed outlines and
// back.
//
// Trace follows the outer boundary of every connected selected component
// with Moore-neighbour tracing and reduces the stair-stepped result with
// Simplify (Ramer–Douglas–Peucker). Each outline is returned as a Path of
// ContourPoints whose Bézier handles start on their anchors, so segments are
// straight until an editor bends them.
//
// # Coordinate Spaces
//
// Trace, Simplify and Rasterize work in pixel space, where a point (x, y)
// names the cell at column x and row y. Normalize and Denormalize convert to
// and from image-relative [0,1] space; conversion happens only at the
// boundary with callers that store shapes independently of resolution.
//
// # Degenerate Components
//
// Components that simplify to fewer than 3 distinct points (isolated
// pixels, one-pixel-wide lines, 2×2 blocks) produce no path.
package vectorize

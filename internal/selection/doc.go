// Package selection builds and edits selection masks over pixel buffers.
//
// A Mask marks which pixels of an image are selected. Masks are produced by
// the region selectors (Select for color similarity, SelectRect and
// SelectPixelRect for rectangles), merged with Combine, edited with Paint,
// Grow and Shrink, and made solid with Clean before they are vectorised or
// inpainted.
//
// # Immutability
//
// Every function returns a freshly allocated mask and leaves its inputs
// untouched. A caller keeping a history of selections can hold on to older
// masks without copying them.
//
// # Connectivity
//
// Flood fill, hole filling and Components use 4-connectivity (edge
// neighbours only). All traversals are queue based, so megapixel regions do
// not grow the call stack.
//
// # Preconditions
//
// Seeds outside the image, negative tolerances and masks of different sizes
// are caller bugs and cause a panic rather than an error.
package selection

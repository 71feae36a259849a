// Package inpaint removes selected content from an image by repainting the
// selected pixels.
//
// Manual mode paints every selected pixel one fixed color. Auto mode treats
// each 4-connected selected region separately: it builds a coarse color
// histogram of the region's own pixels and fills the region with the average
// color of the most populated bin. That keeps the fill close to the real
// paper or background color of, say, a speech bubble, while anti-aliased
// lettering pixels are outvoted.
//
// Both modes clean the mask first (see selection.Clean) and return a new
// buffer.
package inpaint

// Package imaging provides the pixel buffer and color types shared by the
// region packages, plus loading and saving of image files.
//
// All operations work in pixel space with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward.
//
// # Pixel Buffers
//
// A Buffer is a plain Width × Height × 4 byte array in row-major RGBA order.
// Any image.Image is converted into one with FromImage, which normalises the
// color model through github.com/disintegration/imaging. Buffers are treated
// as immutable once built: selection and inpainting read them and produce new
// buffers.
//
// # Colors
//
// Color holds 8-bit RGB. ParseHexColor accepts "#RRGGBB" and "#RGB" forms and
// reports bad input with an error wrapping ErrInvalidColor.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Buffers returned from the
// cache are shared and must not be modified.
package imaging

package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Buffer is a decoded raster image: Width × Height pixels, four unsigned
// 8-bit channels (R, G, B, A, non-premultiplied) per pixel, row-major.
//
// Pixel (x, y) starts at Pix[(y*Width+x)*4]. Operations in this module never
// modify a Buffer they are given; they return a new one.
type Buffer struct {
	// Width is the image width in pixels.
	Width int

	// Height is the image height in pixels.
	Height int

	// Pix holds Width*Height*4 bytes of RGBA data.
	Pix []uint8
}

// NewBuffer allocates a transparent black buffer of the given size.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// FromImage converts any decoded image into a Buffer.
//
// The conversion goes through imaging.Clone, which yields non-premultiplied
// NRGBA regardless of the source color model (paletted GIFs, YCbCr JPEGs,
// 16-bit PNGs). The origin of the result is always (0, 0).
func FromImage(img image.Image) *Buffer {
	n := imaging.Clone(img)
	w, h := n.Rect.Dx(), n.Rect.Dy()

	buf := NewBuffer(w, h)
	for y := 0; y < h; y++ {
		src := n.Pix[y*n.Stride : y*n.Stride+w*4]
		copy(buf.Pix[y*w*4:(y+1)*w*4], src)
	}
	return buf
}

// ToImage returns the buffer as an *image.NRGBA backed by a copy of Pix.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pix)
	return img
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// In reports whether (x, y) lies inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// RGBAt returns the color of pixel (x, y) without its alpha channel.
// The coordinates must be in range.
func (b *Buffer) RGBAt(x, y int) Color {
	return b.RGBIndex(y*b.Width + x)
}

// RGBIndex returns the color of the pixel with row-major index i.
func (b *Buffer) RGBIndex(i int) Color {
	o := i * 4
	return Color{R: b.Pix[o], G: b.Pix[o+1], B: b.Pix[o+2]}
}

// SetIndex writes an opaque color to the pixel with row-major index i.
func (b *Buffer) SetIndex(i int, c Color) {
	o := i * 4
	b.Pix[o] = c.R
	b.Pix[o+1] = c.G
	b.Pix[o+2] = c.B
	b.Pix[o+3] = 255
}

// EncodePNGBase64 encodes the buffer as a base64 PNG string.
func EncodePNGBase64(b *Buffer) (string, error) {
	var out bytes.Buffer
	if err := png.Encode(&out, b.ToImage()); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(out.Bytes()), nil
}

// EncodePNG encodes the buffer as PNG bytes.
func EncodePNG(b *Buffer) ([]byte, error) {
	var out bytes.Buffer
	if err := png.Encode(&out, b.ToImage()); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return out.Bytes(), nil
}

package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropResult contains the cropped image data
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop extracts the pixel rectangle r from buf and returns it as a base64
// PNG, resized by scale when scale is positive and not 1.
//
// keep, when non-nil, holds one byte per pixel of buf in row-major order
// (a selection mask). Pixels whose keep byte is zero are made fully
// transparent before cropping, which cuts the selection out of the image.
func Crop(buf *Buffer, r image.Rectangle, scale float64, keep []uint8) (*CropResult, error) {
	bounds := image.Rect(0, 0, buf.Width, buf.Height)

	// Validate coordinates
	if !r.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, bounds)
	}
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region %v: empty", r)
	}
	if keep != nil && len(keep) != buf.Width*buf.Height {
		return nil, fmt.Errorf("keep has %d entries, image has %d pixels", len(keep), buf.Width*buf.Height)
	}

	src := buf.ToImage()
	if keep != nil {
		for i, k := range keep {
			if k == 0 {
				src.Pix[i*4+3] = 0
			}
		}
	}

	cropped := imaging.Crop(src, r)

	if scale != 1.0 && scale > 0 {
		newWidth := max(int(float64(cropped.Bounds().Dx())*scale), 1)
		newHeight := max(int(float64(cropped.Bounds().Dy())*scale), 1)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	encoded, err := EncodePNGBase64(FromImage(cropped))
	if err != nil {
		return nil, err
	}

	return &CropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

package ocr

import (
	"image"

	"github.com/ironsheep/region-tools-mcp/internal/selection"
)

// TextMask selects the union of the given region boxes on a width × height
// grid. Each box is grown by padding pixels on every side and clipped to the
// grid; a negative padding is treated as zero.
func TextMask(width, height int, regions []TextRegion, padding int) *selection.Mask {
	if padding < 0 {
		padding = 0
	}

	mask := selection.NewMask(width, height)
	for _, r := range regions {
		rect := image.Rect(r.Bounds.X1, r.Bounds.Y1, r.Bounds.X2, r.Bounds.Y2).Inset(-padding)
		mask = selection.Combine(mask, selection.SelectPixelRect(width, height, rect), selection.Union)
	}
	return mask
}

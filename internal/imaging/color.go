package imaging

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned when a color string cannot be decoded.
var ErrInvalidColor = errors.New("invalid color")

// Color represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type Color struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// White is the fallback fill color.
var White = Color{R: 255, G: 255, B: 255}

// ParseHexColor decodes a hex color string.
//
// Accepted forms are "#RRGGBB", "RRGGBB", "#RGB" and "RGB", case-insensitive.
// Anything else, including trailing characters, yields an error wrapping
// ErrInvalidColor.
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimSpace(s)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 4 && len(hex) != 7 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	for _, r := range hex[1:] {
		if !isHexDigit(r) {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
	}

	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// Hex formats the color as "#RRGGBB" with uppercase digits.
func (c Color) Hex() string {
	cf := colorful.Color{R: float64(c.R) / 255.0, G: float64(c.G) / 255.0, B: float64(c.B) / 255.0}
	return strings.ToUpper(cf.Hex())
}

// DistanceSquared returns the squared Euclidean distance between two colors
// in RGB space.
func (c Color) DistanceSquared(o Color) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

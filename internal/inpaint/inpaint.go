package inpaint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/region-tools-mcp/internal/imaging"
	"github.com/ironsheep/region-tools-mcp/internal/logging"
	"github.com/ironsheep/region-tools-mcp/internal/selection"
)

// ErrUnknownMode is returned by ParseMode for an unrecognised name.
var ErrUnknownMode = errors.New("unknown inpaint mode")

// Mode selects how selected pixels are repainted.
type Mode int

const (
	// Auto fills each connected region with its own dominant color.
	Auto Mode = iota
	// Manual fills every selected pixel with one caller-supplied color.
	Manual
)

func (m Mode) String() string {
	switch m {
	case Auto:
		return "auto"
	case Manual:
		return "manual"
	default:
		return "unknown"
	}
}

// ParseMode maps "auto" or "manual" onto a Mode. The empty string means
// Auto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "manual":
		return Manual, nil
	default:
		return Auto, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Options controls Inpaint.
type Options struct {
	Mode Mode

	// Color is the hex fill color used in Manual mode ("#RRGGBB" or "#RGB").
	Color string
}

// binShift quantises each channel into 8 coarse bins (value / 32).
const binShift = 5

// Inpaint repaints the selected pixels of buf and returns the result as a
// new buffer; buf and m are not modified.
//
// The mask is cleaned first so enclosed holes are repainted too. Every
// repainted pixel becomes fully opaque and every other pixel is copied
// unchanged. In Manual mode an undecodable Options.Color is reported as an
// error wrapping imaging.ErrInvalidColor and no buffer is returned.
//
// The mask must have the buffer's dimensions; a mismatch panics.
func Inpaint(buf *imaging.Buffer, m *selection.Mask, opts Options) (*imaging.Buffer, error) {
	if m.Width != buf.Width || m.Height != buf.Height {
		panic(fmt.Sprintf("inpaint: mask is %dx%d, buffer is %dx%d",
			m.Width, m.Height, buf.Width, buf.Height))
	}

	cleaned := selection.Clean(m)
	out := buf.Clone()

	switch opts.Mode {
	case Manual:
		c, err := imaging.ParseHexColor(opts.Color)
		if err != nil {
			return nil, err
		}
		for i, b := range cleaned.Bits {
			if b != 0 {
				out.SetIndex(i, c)
			}
		}
		logging.Logger().Debug("inpainted selection", "mode", opts.Mode, "color", c.Hex())

	case Auto:
		regions := cleaned.Components()
		for _, region := range regions {
			c := DominantColor(buf, region)
			for _, i := range region {
				out.SetIndex(i, c)
			}
		}
		logging.Logger().Debug("inpainted selection", "mode", opts.Mode, "regions", len(regions))

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(opts.Mode))
	}

	return out, nil
}

// DominantColor samples the pixels of buf at the given row-major indices and
// returns the average original color of the most populated coarse color bin.
//
// Colors are binned by dividing each channel by 32. When several bins share
// the highest count, the one whose first pixel appears earliest in indices
// wins. The average is rounded to the nearest channel value, halves up. An
// empty sample yields imaging.White.
func DominantColor(buf *imaging.Buffer, indices []int) imaging.Color {
	if len(indices) == 0 {
		return imaging.White
	}

	type bin struct {
		first   int
		count   int
		r, g, b int
	}
	bins := make(map[int]*bin)

	for order, i := range indices {
		c := buf.RGBIndex(i)
		key := int(c.R>>binShift)<<6 | int(c.G>>binShift)<<3 | int(c.B>>binShift)
		bn, ok := bins[key]
		if !ok {
			bn = &bin{first: order}
			bins[key] = bn
		}
		bn.count++
		bn.r += int(c.R)
		bn.g += int(c.G)
		bn.b += int(c.B)
	}

	var best *bin
	for _, bn := range bins {
		if best == nil || bn.count > best.count || (bn.count == best.count && bn.first < best.first) {
			best = bn
		}
	}

	half := best.count / 2
	return imaging.Color{
		R: uint8((best.r + half) / best.count),
		G: uint8((best.g + half) / best.count),
		B: uint8((best.b + half) / best.count),
	}
}

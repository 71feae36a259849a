package selection

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by ParseCombineMode for an unrecognised name.
var ErrUnknownMode = errors.New("unknown combine mode")

// CombineMode selects how a newly computed mask merges into a standing one.
type CombineMode int

const (
	// Replace discards the existing selection.
	Replace CombineMode = iota
	// Union adds the incoming region to the existing selection.
	Union
	// Subtract removes the incoming region from the existing selection.
	Subtract
)

func (m CombineMode) String() string {
	switch m {
	case Replace:
		return "replace"
	case Union:
		return "union"
	case Subtract:
		return "subtract"
	default:
		return "unknown"
	}
}

// ParseCombineMode maps "replace", "union"/"add" and "subtract"/"remove"
// onto a CombineMode. The empty string means Replace.
func ParseCombineMode(s string) (CombineMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replace":
		return Replace, nil
	case "union", "add":
		return Union, nil
	case "subtract", "remove":
		return Subtract, nil
	default:
		return Replace, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Combine merges incoming into existing and returns a new mask; neither
// input is modified, so earlier selections can still be recalled.
//
// A nil existing mask is treated as empty. Masks of different sizes panic.
func Combine(existing, incoming *Mask, mode CombineMode) *Mask {
	if existing == nil || mode == Replace {
		if mode == Subtract {
			return NewMask(incoming.Width, incoming.Height)
		}
		return incoming.Clone()
	}
	mustMatch(existing, incoming)

	out := NewMask(incoming.Width, incoming.Height)
	for i := range out.Bits {
		a := existing.Bits[i] != 0
		b := incoming.Bits[i] != 0
		switch mode {
		case Union:
			if a || b {
				out.Bits[i] = 1
			}
		case Subtract:
			if a && !b {
				out.Bits[i] = 1
			}
		default:
			panic(fmt.Sprintf("selection: invalid combine mode %d", int(mode)))
		}
	}
	return out
}

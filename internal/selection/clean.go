package selection

import "github.com/ironsheep/region-tools-mcp/internal/logging"

// Clean fills enclosed holes: every 4-connected component of unselected
// cells that does not touch the mask border becomes selected. Components
// touching the border form the exterior and stay unselected.
//
// The input is not modified. Clean only ever adds cells and is idempotent.
func Clean(m *Mask) *Mask {
	out := m.Clone()
	visited := make([]bool, len(m.Bits))
	w, h := m.Width, m.Height
	holes, filled := 0, 0

	for i, b := range m.Bits {
		if b != 0 || visited[i] {
			continue
		}

		cells := m.collect(i, 0, visited)
		enclosed := true
		for _, c := range cells {
			x, y := c%w, c/w
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				enclosed = false
				break
			}
		}
		if !enclosed {
			continue
		}

		for _, c := range cells {
			out.Bits[c] = 1
		}
		holes++
		filled += len(cells)
	}

	if holes > 0 {
		logging.Logger().Debug("filled enclosed holes", "holes", holes, "cells", filled)
	}
	return out
}

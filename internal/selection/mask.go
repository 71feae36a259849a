package selection

import (
	"fmt"
	"image"
)

// Mask is a selection over a Width × Height pixel grid.
//
// Bits holds one byte per cell in row-major order: Bits[y*Width+x] is 1 when
// pixel (x, y) is selected and 0 otherwise. A mask always has the dimensions
// of the buffer it was derived from.
type Mask struct {
	Width  int
	Height int
	Bits   []uint8
}

// NewMask allocates an empty mask.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Bits:   make([]uint8, width*height),
	}
}

// At reports whether (x, y) is selected. Coordinates outside the mask read
// as unselected.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x] != 0
}

// Set marks (x, y) as selected or unselected. Out-of-range coordinates are
// ignored.
func (m *Mask) Set(x, y int, selected bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	if selected {
		m.Bits[y*m.Width+x] = 1
	} else {
		m.Bits[y*m.Width+x] = 0
	}
}

// Count returns the number of selected cells.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b != 0 {
			n++
		}
	}
	return n
}

// Empty reports whether no cell is selected.
func (m *Mask) Empty() bool {
	for _, b := range m.Bits {
		if b != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether two masks have the same size and selection.
func (m *Mask) Equal(o *Mask) bool {
	if m.Width != o.Width || m.Height != o.Height {
		return false
	}
	for i := range m.Bits {
		if (m.Bits[i] != 0) != (o.Bits[i] != 0) {
			return false
		}
	}
	return true
}

// Contains reports whether every cell selected in o is also selected in m.
func (m *Mask) Contains(o *Mask) bool {
	mustMatch(m, o)
	for i := range o.Bits {
		if o.Bits[i] != 0 && m.Bits[i] == 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	bits := make([]uint8, len(m.Bits))
	copy(bits, m.Bits)
	return &Mask{Width: m.Width, Height: m.Height, Bits: bits}
}

// Bounds returns the smallest rectangle containing every selected cell,
// or the zero rectangle for an empty mask.
func (m *Mask) Bounds() image.Rectangle {
	minX, minY := m.Width, m.Height
	maxX, maxY := -1, -1
	for y := 0; y < m.Height; y++ {
		row := m.Bits[y*m.Width : (y+1)*m.Width]
		for x, b := range row {
			if b == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Components returns the 4-connected components of selected cells. Each
// component is a list of row-major indices; components are ordered by their
// first cell in row-major order and cells within a component by BFS order.
func (m *Mask) Components() [][]int {
	visited := make([]bool, len(m.Bits))
	var comps [][]int

	for i, b := range m.Bits {
		if b == 0 || visited[i] {
			continue
		}
		comps = append(comps, m.collect(i, 1, visited))
	}
	return comps
}

// collect runs a queue-based BFS from start over 4-neighbours whose Bits
// value equals want, marking them in visited, and returns the visited
// indices in BFS order.
func (m *Mask) collect(start int, want uint8, visited []bool) []int {
	w, h := m.Width, m.Height
	cells := []int{start}
	visited[start] = true

	for head := 0; head < len(cells); head++ {
		i := cells[head]
		x, y := i%w, i/w

		if x > 0 {
			cells = m.admit(cells, i-1, want, visited)
		}
		if x < w-1 {
			cells = m.admit(cells, i+1, want, visited)
		}
		if y > 0 {
			cells = m.admit(cells, i-w, want, visited)
		}
		if y < h-1 {
			cells = m.admit(cells, i+w, want, visited)
		}
	}
	return cells
}

func (m *Mask) admit(cells []int, j int, want uint8, visited []bool) []int {
	if visited[j] || boolBit(m.Bits[j]) != want {
		return cells
	}
	visited[j] = true
	return append(cells, j)
}

func boolBit(b uint8) uint8 {
	if b != 0 {
		return 1
	}
	return 0
}

// mustMatch panics when two masks differ in size. Mixing masks from
// different images is a caller bug, not a recoverable condition.
func mustMatch(a, b *Mask) {
	if a.Width != b.Width || a.Height != b.Height {
		panic(fmt.Sprintf("selection: mask size mismatch %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height))
	}
}

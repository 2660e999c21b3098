// Package shapes implements canonical storage of polyominoes and their
// unique rotations — the supporting utility the solver and generator
// depend on for rotation geometry and bounding-box queries.
package shapes

import (
	"sort"

	"github.com/rybkr/polypuzzle/internal/board"
)

// Shape is a normalized, connected set of cells: the minimum row and
// minimum column across its cells are both zero. Cells are stored sorted
// in row-major order so that equality is a simple slice comparison.
type Shape struct {
	Cells []board.Cell
}

// normalize shifts cells so the minimum row and column are zero, then
// sorts them into canonical row-major order.
func normalize(cells []board.Cell) Shape {
	if len(cells) == 0 {
		return Shape{}
	}
	minRow, minCol := cells[0].Row, cells[0].Col
	for _, c := range cells[1:] {
		if c.Row < minRow {
			minRow = c.Row
		}
		if c.Col < minCol {
			minCol = c.Col
		}
	}
	out := make([]board.Cell, len(cells))
	for i, c := range cells {
		out[i] = board.Cell{Row: c.Row - minRow, Col: c.Col - minCol}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return Shape{Cells: out}
}

// rotateClockwise maps every cell (r,c) -> (c,-r), the 90° clockwise
// rotation named in the data model, then renormalizes.
func (s Shape) rotateClockwise() Shape {
	rotated := make([]board.Cell, len(s.Cells))
	for i, c := range s.Cells {
		rotated[i] = board.Cell{Row: c.Col, Col: -c.Row}
	}
	return normalize(rotated)
}

// Equal reports whether two shapes have equal cell sets. Both shapes must
// already be normalized (callers never construct an un-normalized Shape
// outside this package).
func (s Shape) Equal(other Shape) bool {
	if len(s.Cells) != len(other.Cells) {
		return false
	}
	for i := range s.Cells {
		if s.Cells[i] != other.Cells[i] {
			return false
		}
	}
	return true
}

// CellCount returns the number of cells in the shape, stable across every
// rotation of the same entry.
func (s Shape) CellCount() int {
	return len(s.Cells)
}

// Bounds returns the {height, width} bounding box of the shape. Because
// shapes are normalized, the minimum row and column are always zero, so
// height and width are simply one more than the maximum row/column.
func (s Shape) Bounds() (height, width int) {
	for _, c := range s.Cells {
		if c.Row+1 > height {
			height = c.Row + 1
		}
		if c.Col+1 > width {
			width = c.Col + 1
		}
	}
	return height, width
}

// isConnected reports whether the shape's cells form a single orthogonally
// connected component — every downstream placement/coverage invariant in
// the solver assumes shapes are single polyominoes, so this is checked
// once at library build time rather than trusted from the input.
func isConnected(cells []board.Cell) bool {
	if len(cells) == 0 {
		return false
	}
	set := make(map[board.Cell]bool, len(cells))
	for _, c := range cells {
		set[c] = true
	}

	visited := make(map[board.Cell]bool, len(cells))
	queue := []board.Cell{cells[0]}
	visited[cells[0]] = true

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range []board.Cell{
			{Row: cur.Row - 1, Col: cur.Col},
			{Row: cur.Row + 1, Col: cur.Col},
			{Row: cur.Row, Col: cur.Col - 1},
			{Row: cur.Row, Col: cur.Col + 1},
		} {
			if set[nb] && !visited[nb] {
				visited[nb] = true
				queue = append(queue, nb)
			}
		}
	}
	return len(visited) == len(cells)
}

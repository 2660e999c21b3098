package solver

import (
	"sort"

	"github.com/rybkr/polypuzzle/internal/board"
	"github.com/rybkr/polypuzzle/internal/shapes"
)

// Placement is a shape identifier, a rotation index into the shape's
// rotation list, a top-left anchor, and the derived absolute cell set.
// The mask/row/col fields are precomputed at enumeration time so that
// pushing or popping a placement during backtracking is a handful of
// word-wise bitset updates rather than a cell-by-cell scan.
type Placement struct {
	ShapeID  string
	Rotation int
	Anchor   board.Cell
	Cells    []board.Cell

	mask      board.CellSet
	rowCounts []int
	colCounts []int
	minIndex  int // index of the lexicographically smallest absolute cell
}

func buildPlacement(grid *board.Grid, shapeID string, rotation int, anchor board.Cell, shape shapes.Shape) Placement {
	cells := make([]board.Cell, len(shape.Cells))
	mask := grid.NewCellSet()
	rowCounts := make([]int, grid.Rows)
	colCounts := make([]int, grid.Cols)

	for i, rel := range shape.Cells {
		c := board.Cell{Row: anchor.Row + rel.Row, Col: anchor.Col + rel.Col}
		cells[i] = c
		mask.Set(c.Index(grid.Cols))
		rowCounts[c.Row]++
		colCounts[c.Col]++
	}

	return Placement{
		ShapeID:   shapeID,
		Rotation:  rotation,
		Anchor:    anchor,
		Cells:     cells,
		mask:      mask,
		rowCounts: rowCounts,
		colCounts: colCounts,
		minIndex:  cells[0].Index(grid.Cols),
	}
}

// enumeratePlacements produces every pre-valid placement (no absolute cell
// in avoid) of every rotation of every shape named in shapeIDs, anchored
// everywhere it fits within the grid. Which cells avoid holds is up to the
// caller: SolveCounts passes only the Blocked cells, while instancesFor's
// callers also include locked cells.
func enumeratePlacements(lib *shapes.Library, grid *board.Grid, shapeIDs []string, avoid board.CellSet) []Placement {
	ids := make([]string, len(shapeIDs))
	copy(ids, shapeIDs)
	sort.Strings(ids) // deterministic shape-processing order

	var out []Placement
	for _, id := range ids {
		entry, ok := lib.Lookup(id)
		if !ok {
			continue
		}
		for rot, rotation := range entry.Rotations {
			height, width := rotation.Bounds()
			if height > grid.Rows || width > grid.Cols {
				continue // cellCount > R*C or just too large for this axis
			}
			for r0 := 0; r0 <= grid.Rows-height; r0++ {
				for c0 := 0; c0 <= grid.Cols-width; c0++ {
					p := buildPlacement(grid, id, rot, board.Cell{Row: r0, Col: c0}, rotation)
					if p.mask.Intersects(avoid) {
						continue
					}
					out = append(out, p)
				}
			}
		}
	}
	return out
}

// sortByMinCell orders placements by the linear index of their
// lexicographically smallest absolute cell, giving deterministic
// exploration order in free-count mode regardless of insertion order.
func sortByMinCell(placements []Placement) {
	sort.SliceStable(placements, func(i, j int) bool {
		return placements[i].minIndex < placements[j].minIndex
	})
}

// blockedCellSet returns the set of every Blocked cell in the grid.
func blockedCellSet(grid *board.Grid) board.CellSet {
	set := grid.NewCellSet()
	grid.Each(func(c board.Cell, state board.CellState) {
		if state.Kind == board.Blocked {
			set.Set(c.Index(grid.Cols))
		}
	})
	return set
}

// lockedCellSet returns the set of every locked cell in the grid,
// regardless of color.
func lockedCellSet(grid *board.Grid) board.CellSet {
	set := grid.NewCellSet()
	grid.Each(func(c board.Cell, state board.CellState) {
		if state.Kind == board.Locked {
			set.Set(c.Index(grid.Cols))
		}
	})
	return set
}

// lockedCountsFor returns the per-row and per-column counts contributed by
// cells already LockedFor the given color — the "base count" that a
// color's placements only need to top up to reach its requirement exactly.
func lockedCountsFor(grid *board.Grid, color board.Color) (rows, cols []int) {
	rows = make([]int, grid.Rows)
	cols = make([]int, grid.Cols)
	grid.Each(func(c board.Cell, state board.CellState) {
		if state.Kind == board.Locked && state.Color == color {
			rows[c.Row]++
			cols[c.Col]++
		}
	})
	return rows, cols
}

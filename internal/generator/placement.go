package generator

import (
	"math/rand"

	"github.com/rybkr/polypuzzle/internal/board"
	"github.com/rybkr/polypuzzle/internal/shapes"
	"github.com/rybkr/polypuzzle/internal/solver"
)

// pickedShape is one shape-list entry: a shape id and the specific
// rotation chosen for it in Phase 2. The rotation is fixed at selection
// time; the placement subroutine only chooses the anchor.
type pickedShape struct {
	ID        string
	Rotation  int
	CellCount int
}

// candidateAnchors returns every anchor at which shape (already rotated)
// lands entirely on Empty cells.
func candidateAnchors(grid *board.Grid, shape shapes.Shape) []board.Cell {
	height, width := shape.Bounds()
	if height > grid.Rows || width > grid.Cols {
		return nil
	}

	var anchors []board.Cell
	for r0 := 0; r0 <= grid.Rows-height; r0++ {
		for c0 := 0; c0 <= grid.Cols-width; c0++ {
			anchor := board.Cell{Row: r0, Col: c0}
			if allEmpty(grid, anchor, shape) {
				anchors = append(anchors, anchor)
			}
		}
	}
	return anchors
}

func allEmpty(grid *board.Grid, anchor board.Cell, shape shapes.Shape) bool {
	for _, rel := range shape.Cells {
		c := board.Cell{Row: anchor.Row + rel.Row, Col: anchor.Col + rel.Col}
		state, err := grid.At(c)
		if err != nil || state.Kind != board.Empty {
			return false
		}
	}
	return true
}

func absoluteCells(anchor board.Cell, shape shapes.Shape) []board.Cell {
	cells := make([]board.Cell, len(shape.Cells))
	for i, rel := range shape.Cells {
		cells[i] = board.Cell{Row: anchor.Row + rel.Row, Col: anchor.Col + rel.Col}
	}
	return cells
}

// placeShapes places each color's picked shapes in turn: for each color in
// input order, for each shape in its list, enumerate every anchor landing
// entirely on Empty cells, pick one uniformly at random, and fill those
// cells with the color. Returns false if any shape has no valid anchor.
// Alongside the flat cell lists it returns the solver.Placement record for
// every shape it placed, so a generated puzzle's Solution.Placements is a
// witness a caller can hand straight back to the solver.
func placeShapes(grid *board.Grid, lib *shapes.Library, colors []board.Color, shapeLists map[board.Color][]pickedShape, rng *rand.Rand) (map[board.Color][]board.Cell, map[board.Color][]solver.Placement, bool) {
	placed := make(map[board.Color][]board.Cell, len(colors))
	placements := make(map[board.Color][]solver.Placement, len(colors))

	for _, color := range colors {
		for _, picked := range shapeLists[color] {
			entry, ok := lib.Lookup(picked.ID)
			if !ok {
				return nil, nil, false
			}
			rotation := entry.Rotations[picked.Rotation]

			anchors := candidateAnchors(grid, rotation)
			if len(anchors) == 0 {
				return nil, nil, false
			}
			anchor := anchors[rng.Intn(len(anchors))]
			cells := absoluteCells(anchor, rotation)
			for _, c := range cells {
				grid.Set(c, board.CellState{Kind: board.Filled, Color: color})
			}
			placed[color] = append(placed[color], cells...)
			placements[color] = append(placements[color], solver.Placement{
				ShapeID:  picked.ID,
				Rotation: picked.Rotation,
				Anchor:   anchor,
				Cells:    cells,
			})
		}
	}
	return placed, placements, true
}

package generator

import (
	"github.com/rybkr/polypuzzle/internal/board"
	"github.com/rybkr/polypuzzle/internal/solver"
)

// Puzzle is a fully specified, witnessed-solvable puzzle instance: the
// grid with its blockers and locks already placed, the placements that
// produced it, and the row/column requirements a solver must reproduce.
type Puzzle struct {
	Grid         *board.Grid
	Colors       []board.Color
	Blockers     []board.Cell
	Locks        map[board.Color][]board.Cell
	ShapeCounts  map[board.Color]map[string]int // the multiset SolveExactCounts should be given to reproduce this puzzle
	Requirements solver.Requirements
	Solution     solver.Solution
	Strategy     string
}

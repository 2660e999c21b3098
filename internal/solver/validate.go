package solver

import (
	"fmt"
	"sort"

	"github.com/rybkr/polypuzzle/internal/board"
)

// ValidationReport describes how a Solution diverges from the
// Requirements it was supposed to satisfy and whether any two colors'
// cells overlap. It is purely descriptive: nothing in the backtracking
// search consults it, and an empty report does not imply the solution
// came from a Solver (a caller-constructed Solution can be checked too).
type ValidationReport struct {
	RowDiffs map[board.Color][]int // flat (row, actual - required) pairs, only for rows whose difference is non-zero
	ColDiffs map[board.Color][]int // flat (col, actual - required) pairs, same layout as RowDiffs
	Overlaps []CellOverlap
}

// CellOverlap names a cell claimed by more than one color.
type CellOverlap struct {
	Cell   board.Cell
	Colors []board.Color
}

func (r ValidationReport) OK() bool {
	return len(r.RowDiffs) == 0 && len(r.ColDiffs) == 0 && len(r.Overlaps) == 0
}

func (r ValidationReport) String() string {
	if r.OK() {
		return "solution satisfies every requirement with no color overlap"
	}
	return fmt.Sprintf("%d row mismatches, %d column mismatches, %d cell overlaps", len(r.RowDiffs), len(r.ColDiffs), len(r.Overlaps))
}

// Validate reports every way sol fails to satisfy reqs on the given grid
// shape, plus any cross-color cell overlap. Rows/Cols is the grid's
// dimensions, needed because a color absent from sol.Cells still has an
// implicit all-zero actual count.
func Validate(sol Solution, reqs Requirements, rows, cols int) ValidationReport {
	report := ValidationReport{
		RowDiffs: make(map[board.Color][]int),
		ColDiffs: make(map[board.Color][]int),
	}

	colors := reqs.colors()
	var extra []board.Color
	for color := range sol.Cells {
		if !containsColor(colors, color) {
			extra = append(extra, color)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	colors = append(colors, extra...)

	for _, color := range colors {
		actualRows := make([]int, rows)
		actualCols := make([]int, cols)
		for _, c := range sol.Cells[color] {
			actualRows[c.Row]++
			actualCols[c.Col]++
		}

		var rowDiff []int
		for r := 0; r < rows; r++ {
			want := valueOr(reqs.Rows[color], r, 0)
			if d := actualRows[r] - want; d != 0 {
				rowDiff = append(rowDiff, r, d)
			}
		}
		if len(rowDiff) > 0 {
			report.RowDiffs[color] = rowDiff
		}

		var colDiff []int
		for c := 0; c < cols; c++ {
			want := valueOr(reqs.Cols[color], c, 0)
			if d := actualCols[c] - want; d != 0 {
				colDiff = append(colDiff, c, d)
			}
		}
		if len(colDiff) > 0 {
			report.ColDiffs[color] = colDiff
		}
	}

	owner := make(map[board.Cell][]board.Color)
	for _, color := range colors {
		for _, c := range sol.Cells[color] {
			owner[c] = append(owner[c], color)
		}
	}
	var cells []board.Cell
	for c, owners := range owner {
		if len(owners) > 1 {
			cells = append(cells, c)
		}
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
	for _, c := range cells {
		report.Overlaps = append(report.Overlaps, CellOverlap{Cell: c, Colors: owner[c]})
	}

	return report
}

func valueOr(xs []int, i, fallback int) int {
	if i < 0 || i >= len(xs) {
		return fallback
	}
	return xs[i]
}

func containsColor(colors []board.Color, c board.Color) bool {
	for _, existing := range colors {
		if existing == c {
			return true
		}
	}
	return false
}

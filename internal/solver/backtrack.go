package solver

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/rybkr/polypuzzle/internal/board"
	"github.com/rybkr/polypuzzle/internal/errs"
)

// backtrackColor searches for every distinct placement combination for one
// color that makes its row/column counts match rowReq/colReq exactly, up to
// cap solutions. rowReq/colReq are the color's full requirement; the base
// count already contributed by cells LockedFor this color is subtracted up
// front, so the search only ever needs to explain the remaining deficit —
// resolving the otherwise-ambiguous relationship between placements and
// pre-existing locked cells of the same color.
func (s *Solver) backtrackColor(ctx context.Context, color board.Color, items []candidateItem, forbidden board.CellSet, rowReq, colReq []int, cap int) ([][]Placement, errs.Kind, error) {
	baseRows, baseCols := lockedCountsFor(s.grid, color)

	targetRows := make([]int, len(rowReq))
	targetCols := make([]int, len(colReq))
	for r := range rowReq {
		targetRows[r] = rowReq[r] - baseRows[r]
		if targetRows[r] < 0 {
			return nil, errs.NoSolution, nil
		}
	}
	for c := range colReq {
		targetCols[c] = colReq[c] - baseCols[c]
		if targetCols[c] < 0 {
			return nil, errs.NoSolution, nil
		}
	}

	used := s.grid.NewCellSet()
	rowCount := make([]int, len(targetRows))
	colCount := make([]int, len(targetCols))

	var solutions [][]Placement
	var stack []Placement
	var walkErr error
	capHit := false

	countsMatch := func() bool {
		for r, v := range rowCount {
			if v != targetRows[r] {
				return false
			}
		}
		for c, v := range colCount {
			if v != targetCols[c] {
				return false
			}
		}
		return true
	}
	countsExceed := func() bool {
		for r, v := range rowCount {
			if v > targetRows[r] {
				return true
			}
		}
		for c, v := range colCount {
			if v > targetCols[c] {
				return true
			}
		}
		return false
	}

	// minIdx and skippedRun carry the state needed to stop the search from
	// permuting which instance in a run of interchangeable same-shape items
	// (shared group) took which option: within a run, used instances must
	// take non-decreasing option indices, and once one instance in a run is
	// skipped, no later instance in the same run may be used. Together these
	// force exactly one canonical assignment per distinct set of options
	// chosen, instead of one per ordering.
	var recurse func(start, minIdx int, skippedRun bool)
	recurse = func(start, minIdx int, skippedRun bool) {
		if walkErr != nil || len(solutions) >= cap {
			return
		}
		if err := ctx.Err(); err != nil {
			walkErr = err
			return
		}
		if countsExceed() {
			return
		}
		if countsMatch() {
			// A matched state has nowhere further to go: every extension
			// would exceed the target (pruned above), and every skip from
			// here reaches this same stack again. Recording once and
			// returning is both correct and the dedup.
			snapshot := make([]Placement, len(stack))
			copy(snapshot, stack)
			solutions = append(solutions, snapshot)
			if len(solutions) >= cap {
				capHit = true
			}
			return
		}
		if start >= len(items) {
			return
		}

		sameRun := start > 0 && items[start].group == items[start-1].group
		effectiveMin := 0
		effectiveSkipped := false
		if sameRun {
			effectiveMin = minIdx
			effectiveSkipped = skippedRun
		}

		// Skip this item entirely: not every instance/placement need be used.
		recurse(start+1, minIdx, true)
		if walkErr != nil || len(solutions) >= cap {
			return
		}

		if effectiveSkipped {
			// An earlier instance in this run was skipped; using this one
			// would just be a relabeling of that same choice.
			return
		}

		// Use this item via one of its non-overlapping options.
		for idx, opt := range items[start].options {
			if idx < effectiveMin {
				continue
			}
			if opt.mask.Intersects(used) || opt.mask.Intersects(forbidden) {
				continue
			}
			used.Or(opt.mask)
			for r, v := range opt.rowCounts {
				rowCount[r] += v
			}
			for c, v := range opt.colCounts {
				colCount[c] += v
			}
			stack = append(stack, opt)

			recurse(start+1, idx+1, false)

			stack = stack[:len(stack)-1]
			for r, v := range opt.rowCounts {
				rowCount[r] -= v
			}
			for c, v := range opt.colCounts {
				colCount[c] -= v
			}
			used.AndNot(opt.mask)

			if walkErr != nil || len(solutions) >= cap {
				return
			}
		}
	}
	recurse(0, 0, false)

	if capHit {
		s.options.Logger.WithFields(logrus.Fields{"color": color, "cap": cap}).Debugf("solver: per-color search hit its solution cap")
	}

	if walkErr != nil {
		return nil, errs.DeadlineExceeded, walkErr
	}
	if len(solutions) == 0 {
		return nil, errs.NoSolution, nil
	}
	return solutions, "", nil
}

// solveOneColorFunc runs one color's backtracking search given the cells
// already consumed by other colors in the current whole-puzzle branch.
type solveOneColorFunc func(ctx context.Context, color board.Color, crossForbidden board.CellSet) ([][]Placement, errs.Kind, error)

// composeWholePuzzle enumerates color-A solutions first, then for each,
// treats its cells as additional forbidden cells and searches for the next
// color's solutions, and so on, up to WholePuzzleCap combined results
// across every color.
func (s *Solver) composeWholePuzzle(ctx context.Context, colors []board.Color, solveOneColor solveOneColorFunc) (*Result, error) {
	var combos []map[board.Color][]Placement
	var lastKind errs.Kind = errs.NoRequirements

	path := make(map[board.Color][]Placement, len(colors))
	var walkErr error
	capHit := false

	var recurse func(i int, crossForbidden board.CellSet)
	recurse = func(i int, crossForbidden board.CellSet) {
		if walkErr != nil || len(combos) >= s.options.WholePuzzleCap {
			return
		}
		if err := ctx.Err(); err != nil {
			walkErr = err
			return
		}
		if i == len(colors) {
			combo := make(map[board.Color][]Placement, len(path))
			for k, v := range path {
				combo[k] = v
			}
			combos = append(combos, combo)
			if len(combos) >= s.options.WholePuzzleCap {
				capHit = true
			}
			return
		}

		color := colors[i]
		colorSolutions, kind, err := solveOneColor(ctx, color, crossForbidden)
		if err != nil {
			walkErr = err
			return
		}
		if len(colorSolutions) == 0 {
			lastKind = kind
			return
		}

		for _, placements := range colorSolutions {
			if walkErr != nil || len(combos) >= s.options.WholePuzzleCap {
				return
			}
			next := crossForbidden.Clone()
			for _, p := range placements {
				next.Or(p.mask)
			}
			path[color] = placements
			recurse(i+1, next)
			delete(path, color)
		}
	}
	recurse(0, s.grid.NewCellSet())

	if capHit {
		s.options.Logger.WithFields(logrus.Fields{"cap": s.options.WholePuzzleCap}).Debugf("solver: whole-puzzle cross-product hit its solution cap")
	}

	if walkErr != nil {
		return &Result{Kind: errs.DeadlineExceeded, Message: walkErr.Error()}, walkErr
	}
	if len(combos) == 0 {
		return &Result{Kind: lastKind, Message: "no combination of per-color solutions satisfies every requirement"}, nil
	}

	solutions := make([]Solution, len(combos))
	for i, combo := range combos {
		solutions[i] = s.buildSolution(combo)
	}
	return &Result{Success: true, Solutions: solutions}, nil
}

// buildSolution unions each color's placement cells with the cells already
// LockedFor that color, so Solution.Cells always reflects the full coverage
// a caller should expect regardless of whether cells came from a fresh
// placement or a pre-existing lock.
func (s *Solver) buildSolution(combo map[board.Color][]Placement) Solution {
	cells := make(map[board.Color][]board.Cell, len(combo))
	placements := make(map[board.Color][]Placement, len(combo))
	for color, ps := range combo {
		placements[color] = ps
		var colorCells []board.Cell
		s.grid.Each(func(c board.Cell, state board.CellState) {
			if state.Kind == board.Locked && state.Color == color {
				colorCells = append(colorCells, c)
			}
		})
		for _, p := range ps {
			colorCells = append(colorCells, p.Cells...)
		}
		cells[color] = colorCells
	}
	return Solution{Cells: cells, Placements: placements}
}

package solver

import (
	"context"

	"github.com/rybkr/polypuzzle/internal/board"
	"github.com/rybkr/polypuzzle/internal/errs"
)

// fitAllColor is the synthetic color key FitAllPieces stores its result
// under. Fit mode has no color concept of its own: every instance in the
// supplied multiset must be placed somewhere on the grid, full stop.
const fitAllColor = board.Color("*")

// FitAllPieces searches for a way to place every instance in shapeCounts
// on the grid with no overlaps and no instance left unused, stopping at
// the first WholePuzzleCap solutions found. Unlike SolveCounts and
// SolveExactCounts, there is no row/column requirement to satisfy and no
// "skip this item" branch — every instance must land somewhere.
func (s *Solver) FitAllPieces(ctx context.Context, shapeCounts map[string]int) (*Result, error) {
	avoid := s.blocked.Clone()
	avoid.Or(lockedCellSet(s.grid))

	items := instancesFor(s.lib, s.grid, shapeCounts, avoid)
	if len(items) == 0 {
		return &Result{Kind: errs.NoPlacement, Message: "no pre-valid placement exists for the requested pieces"}, nil
	}

	used := s.grid.NewCellSet()
	var stack []Placement
	var solutions [][]Placement
	var walkErr error

	// minIdx forbids permuting which instance in a run of interchangeable
	// same-shape items (shared group) took which option: instances within
	// a run must take non-decreasing option indices, so a given set of
	// options maps to exactly one assignment instead of one per ordering.
	var recurse func(start, minIdx int)
	recurse = func(start, minIdx int) {
		if walkErr != nil || len(solutions) >= s.options.WholePuzzleCap {
			return
		}
		if err := ctx.Err(); err != nil {
			walkErr = err
			return
		}
		if start >= len(items) {
			snapshot := make([]Placement, len(stack))
			copy(snapshot, stack)
			solutions = append(solutions, snapshot)
			return
		}
		effectiveMin := 0
		if start > 0 && items[start].group == items[start-1].group {
			effectiveMin = minIdx
		}
		for idx, opt := range items[start].options {
			if idx < effectiveMin {
				continue
			}
			if opt.mask.Intersects(used) || opt.mask.Intersects(avoid) {
				continue
			}
			used.Or(opt.mask)
			stack = append(stack, opt)

			recurse(start+1, idx+1)

			stack = stack[:len(stack)-1]
			used.AndNot(opt.mask)

			if walkErr != nil || len(solutions) >= s.options.WholePuzzleCap {
				return
			}
		}
	}
	recurse(0, 0)

	if walkErr != nil {
		return &Result{Kind: errs.DeadlineExceeded, Message: walkErr.Error()}, walkErr
	}
	if len(solutions) == 0 {
		return &Result{Kind: errs.NoSolution, Message: "no arrangement places every requested piece without overlap"}, nil
	}

	results := make([]Solution, len(solutions))
	for i, placements := range solutions {
		var cells []board.Cell
		for _, p := range placements {
			cells = append(cells, p.Cells...)
		}
		results[i] = Solution{
			Cells:      map[board.Color][]board.Cell{fitAllColor: cells},
			Placements: map[board.Color][]Placement{fitAllColor: placements},
		}
	}
	return &Result{Success: true, Solutions: results}, nil
}

package solver

import (
	"context"
	"sort"

	"github.com/rybkr/polypuzzle/internal/board"
	"github.com/rybkr/polypuzzle/internal/errs"
	"github.com/rybkr/polypuzzle/internal/logging"
	"github.com/rybkr/polypuzzle/internal/shapes"
)

// Hard result caps; tests depend on these defaults.
const (
	PerColorSolutionCap    = 100
	WholePuzzleSolutionCap = 50
)

// Options configures a Solver. Either cap may be lowered for a faster,
// partial search.
type Options struct {
	PerColorCap    int
	WholePuzzleCap int
	Logger         logging.Logger
}

// DefaultOptions returns the standard per-color and whole-puzzle caps.
func DefaultOptions() *Options {
	return &Options{PerColorCap: PerColorSolutionCap, WholePuzzleCap: WholePuzzleSolutionCap}
}

// Solver finds solutions to the color-counted polyomino-cover problem
// against a fixed shape library and grid. A Solver instance is scoped to
// a single solve invocation's state and is not safe for concurrent reuse
// across solves.
type Solver struct {
	lib     *shapes.Library
	grid    *board.Grid
	options *Options
	blocked board.CellSet
}

// New creates a solver for the given shape library and grid.
func New(lib *shapes.Library, grid *board.Grid, options *Options) *Solver {
	if options == nil {
		options = DefaultOptions()
	}
	options.Logger = logging.Or(options.Logger)
	return &Solver{lib: lib, grid: grid, options: options, blocked: blockedCellSet(grid)}
}

// candidateItem is one unit of backtracking choice: either a single
// pre-valid placement (free-count mode, where "using" the item always
// contributes that exact placement) or one shape instance with several
// placement options (exact-count and fit-all-pieces modes, where "using"
// the item requires choosing one of its options). group ties together
// items that are interchangeable instances of the same shape id, so the
// backtracker can forbid permuting which instance took which option;
// items with distinct group values are never treated as interchangeable.
type candidateItem struct {
	options []Placement
	group   int
}

// SolveCounts runs free-count mode: any number of shapes of each enabled
// id may be used. It enumerates color-A solutions first, then for each,
// searches for color-B solutions with color-A's cells additionally
// forbidden, capped at WholePuzzleCap combined results.
func (s *Solver) SolveCounts(ctx context.Context, reqs Requirements, enabledShapeIDs []string) (*Result, error) {
	if reqs.allZero() {
		return &Result{Kind: errs.NoRequirements, Message: "all row/column requirements are zero"}, nil
	}

	placements := enumeratePlacements(s.lib, s.grid, enabledShapeIDs, s.blocked)
	if len(placements) == 0 {
		return &Result{Kind: errs.NoPlacement, Message: "no pre-valid placement exists for the enabled shapes"}, nil
	}
	sortByMinCell(placements)

	solveOneColor := func(ctx context.Context, color board.Color, crossForbidden board.CellSet) ([][]Placement, errs.Kind, error) {
		rowReq := reqs.Rows[color]
		colReq := reqs.Cols[color]
		if allZeroInts(rowReq) && allZeroInts(colReq) {
			return [][]Placement{nil}, "", nil // vacuous solution
		}

		forbidden := s.colorForbidden(color, crossForbidden)
		items := make([]candidateItem, len(placements))
		for i, p := range placements {
			// Each item is its own distinct placement, never interchangeable
			// with another, so a unique group per index keeps the run-aware
			// dedup in backtrackColor from treating any two as instances of
			// the same shape.
			items[i] = candidateItem{options: []Placement{p}, group: i}
		}
		return s.backtrackColor(ctx, color, items, forbidden, rowReq, colReq, s.options.PerColorCap)
	}

	return s.composeWholePuzzle(ctx, reqs.colors(), solveOneColor)
}

// SolveExactCounts runs exact-count mode: each color supplies its own
// multiset of shape instances (the per-color shape lists the generator
// itself builds in Phase 2), and each instance may be used at most once.
func (s *Solver) SolveExactCounts(ctx context.Context, reqs Requirements, shapeCounts map[board.Color]map[string]int) (*Result, error) {
	if reqs.allZero() {
		return &Result{Kind: errs.NoRequirements, Message: "all row/column requirements are zero"}, nil
	}

	solveOneColor := func(ctx context.Context, color board.Color, crossForbidden board.CellSet) ([][]Placement, errs.Kind, error) {
		rowReq := reqs.Rows[color]
		colReq := reqs.Cols[color]
		if allZeroInts(rowReq) && allZeroInts(colReq) {
			return [][]Placement{nil}, "", nil
		}

		forbidden := s.colorForbidden(color, crossForbidden)
		items := instancesFor(s.lib, s.grid, shapeCounts[color], forbidden)
		if len(items) == 0 {
			return nil, errs.NoPlacement, nil
		}
		return s.backtrackColor(ctx, color, items, forbidden, rowReq, colReq, s.options.PerColorCap)
	}

	return s.composeWholePuzzle(ctx, reqs.colors(), solveOneColor)
}

// colorForbidden combines the static per-color forbidden set (blockers
// plus every locked cell, including the color's own — locked cells are
// already counted via the union in buildSolution, so a placement must
// never land on one) with the dynamic cross-color set of cells already
// consumed by other colors' placements in the current whole-puzzle
// composition branch.
func (s *Solver) colorForbidden(color board.Color, crossForbidden board.CellSet) board.CellSet {
	forbidden := s.blocked.Clone()
	forbidden.Or(lockedCellSet(s.grid))
	forbidden.Or(crossForbidden)
	return forbidden
}

// instancesFor expands a shape-id -> count multiset into one candidateItem
// per instance, each offering every pre-valid placement for its shape id.
// Instances of the same shape id share the same (read-only) option slice
// and the same group, so the backtracker can treat them as interchangeable
// and avoid exploring permutations of which instance took which option.
func instancesFor(lib *shapes.Library, grid *board.Grid, counts map[string]int, avoid board.CellSet) []candidateItem {
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var items []candidateItem
	for rank, id := range ids {
		options := enumeratePlacements(lib, grid, []string{id}, avoid)
		for i := 0; i < counts[id]; i++ {
			items = append(items, candidateItem{options: options, group: rank})
		}
	}
	return items
}

func allZeroInts(xs []int) bool {
	for _, v := range xs {
		if v != 0 {
			return false
		}
	}
	return true
}

package solver

import (
	"context"
	"testing"
	"time"

	"github.com/rybkr/polypuzzle/internal/board"
	"github.com/rybkr/polypuzzle/internal/errs"
	"github.com/rybkr/polypuzzle/internal/shapes"
)

func square4() []board.Cell {
	return []board.Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1}}
}

func line3() []board.Cell {
	return []board.Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}
}

func buildLibrary(t *testing.T) *shapes.Library {
	t.Helper()
	lib, err := shapes.Build([]shapes.Definition{
		{ID: "square-4", Name: "Square", Cells: square4()},
		{ID: "line-3", Name: "Line", Cells: line3()},
	})
	if err != nil {
		t.Fatalf("shapes.Build failed: %v", err)
	}
	return lib
}

func TestSolveCountsFillsA2x2GridWithOneSquare(t *testing.T) {
	lib := buildLibrary(t)
	grid := board.NewGrid(2, 2)
	s := New(lib, grid, nil)

	reqs := Requirements{
		Rows: map[board.Color][]int{"A": {2, 2}},
		Cols: map[board.Color][]int{"A": {2, 2}},
	}

	result, err := s.SolveCounts(context.Background(), reqs, []string{"square-4"})
	if err != nil {
		t.Fatalf("SolveCounts returned error: %v", err)
	}
	if !result.Success || len(result.Solutions) == 0 {
		t.Fatalf("expected at least one solution, got %+v", result)
	}
	if len(result.Solutions[0].Cells["A"]) != 4 {
		t.Fatalf("solution covers %d cells, want 4", len(result.Solutions[0].Cells["A"]))
	}
}

func TestSolveCountsNoRequirements(t *testing.T) {
	lib := buildLibrary(t)
	grid := board.NewGrid(2, 2)
	s := New(lib, grid, nil)

	reqs := Requirements{Rows: map[board.Color][]int{"A": {0, 0}}, Cols: map[board.Color][]int{"A": {0, 0}}}
	result, err := s.SolveCounts(context.Background(), reqs, []string{"square-4"})
	if err != nil {
		t.Fatalf("SolveCounts returned error: %v", err)
	}
	if result.Kind != errs.NoRequirements {
		t.Fatalf("Kind = %q, want NoRequirements", result.Kind)
	}
}

func TestSolveCountsNoPlacementWhenShapeTooBig(t *testing.T) {
	lib := buildLibrary(t)
	grid := board.NewGrid(1, 1)
	s := New(lib, grid, nil)

	reqs := Requirements{Rows: map[board.Color][]int{"A": {1}}, Cols: map[board.Color][]int{"A": {1}}}
	result, err := s.SolveCounts(context.Background(), reqs, []string{"square-4"})
	if err != nil {
		t.Fatalf("SolveCounts returned error: %v", err)
	}
	if result.Kind != errs.NoPlacement {
		t.Fatalf("Kind = %q, want NoPlacement", result.Kind)
	}
}

func TestSolveExactCountsRespectsInstanceLimit(t *testing.T) {
	lib := buildLibrary(t)
	grid := board.NewGrid(1, 6)
	s := New(lib, grid, nil)

	// Only one line-3 instance is available; the 1x6 row needs two to fill
	// completely, so an exact-count search asking for a full row must fail.
	reqs := Requirements{
		Rows: map[board.Color][]int{"A": {6}},
		Cols: map[board.Color][]int{"A": {1, 1, 1, 1, 1, 1}},
	}
	counts := map[board.Color]map[string]int{"A": {"line-3": 1}}

	result, err := s.SolveExactCounts(context.Background(), reqs, counts)
	if err != nil {
		t.Fatalf("SolveExactCounts returned error: %v", err)
	}
	if result.Success {
		t.Fatalf("expected failure with only one line-3 instance, got success")
	}
}

func TestSolveExactCountsSucceedsWithEnoughInstances(t *testing.T) {
	lib := buildLibrary(t)
	grid := board.NewGrid(1, 6)
	s := New(lib, grid, nil)

	reqs := Requirements{
		Rows: map[board.Color][]int{"A": {6}},
		Cols: map[board.Color][]int{"A": {1, 1, 1, 1, 1, 1}},
	}
	counts := map[board.Color]map[string]int{"A": {"line-3": 2}}

	result, err := s.SolveExactCounts(context.Background(), reqs, counts)
	if err != nil {
		t.Fatalf("SolveExactCounts returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success with two line-3 instances, got %+v", result)
	}
}

func TestSolveCountsFailsWhenShapeCannotFitBesideLockedCell(t *testing.T) {
	lib := buildLibrary(t)
	grid := board.NewGrid(1, 3)
	grid.Set(board.Cell{Row: 0, Col: 0}, board.CellState{Kind: board.Locked, Color: "A"})

	s := New(lib, grid, nil)
	reqs := Requirements{
		Rows: map[board.Color][]int{"A": {3}},
		Cols: map[board.Color][]int{"A": {1, 1, 1}},
	}

	// Only two empty cells remain beside the locked one, and the only
	// enabled shape is the 2x2 square, which has no anchor at all in a
	// one-row grid, so the search fails (with NoPlacement).
	result, err := s.SolveCounts(context.Background(), reqs, []string{"square-4"})
	if err != nil {
		t.Fatalf("SolveCounts returned error: %v", err)
	}
	if result.Success {
		t.Fatalf("expected failure: square-4 cannot fit in a 1x3 grid at all")
	}
}

func TestFitAllPiecesUsesEveryInstance(t *testing.T) {
	lib := buildLibrary(t)
	grid := board.NewGrid(1, 6)
	s := New(lib, grid, nil)

	result, err := s.FitAllPieces(context.Background(), map[string]int{"line-3": 2})
	if err != nil {
		t.Fatalf("FitAllPieces returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success placing two line-3 pieces in a 1x6 grid, got %+v", result)
	}
	if len(result.Solutions[0].Placements[fitAllColor]) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(result.Solutions[0].Placements[fitAllColor]))
	}
}

func TestFitAllPiecesFailsWhenPiecesCannotAllFit(t *testing.T) {
	lib := buildLibrary(t)
	grid := board.NewGrid(1, 5)
	s := New(lib, grid, nil)

	result, err := s.FitAllPieces(context.Background(), map[string]int{"line-3": 2})
	if err != nil {
		t.Fatalf("FitAllPieces returned error: %v", err)
	}
	if result.Success {
		t.Fatalf("two line-3 pieces cannot fit in 5 cells without overlap")
	}
}

func TestSolveCountsDeadlineExceeded(t *testing.T) {
	lib := buildLibrary(t)
	grid := board.NewGrid(4, 4)
	s := New(lib, grid, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	reqs := Requirements{Rows: map[board.Color][]int{"A": {4, 4, 4, 4}}, Cols: map[board.Color][]int{"A": {4, 4, 4, 4}}}
	_, err := s.SolveCounts(ctx, reqs, []string{"square-4"})
	if err == nil {
		t.Fatalf("expected a deadline-exceeded error")
	}
}

func TestSolveCountsReturnsEachSolutionOnlyOnce(t *testing.T) {
	lib := buildLibrary(t)
	grid := board.NewGrid(1, 4)
	s := New(lib, grid, nil)

	// Exactly one line-3 placement satisfies this requirement (anchor at
	// column 0; the only other anchor, column 1, covers column 3, whose
	// requirement is 0).
	// A correct search records it once; the regression duplicated one copy
	// per remaining skip-branch index along the matched node's skip tail.
	reqs := Requirements{
		Rows: map[board.Color][]int{"A": {3}},
		Cols: map[board.Color][]int{"A": {1, 1, 1, 0}},
	}

	result, err := s.SolveCounts(context.Background(), reqs, []string{"line-3"})
	if err != nil {
		t.Fatalf("SolveCounts returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(result.Solutions) != 1 {
		t.Fatalf("got %d solutions, want exactly 1 (no duplicates)", len(result.Solutions))
	}
}

func TestSolveExactCountsDoesNotPermuteIdenticalInstances(t *testing.T) {
	lib := buildLibrary(t)
	grid := board.NewGrid(1, 6)
	s := New(lib, grid, nil)

	// Two line-3 instances exactly tile a 1x6 row in only one way (anchors
	// at column 0 and column 3). Before constraining identical instances to
	// non-decreasing option indices, the backtracker recorded this twice:
	// once per assignment of the two anchors to the two instance slots.
	reqs := Requirements{
		Rows: map[board.Color][]int{"A": {6}},
		Cols: map[board.Color][]int{"A": {1, 1, 1, 1, 1, 1}},
	}
	counts := map[board.Color]map[string]int{"A": {"line-3": 2}}

	result, err := s.SolveExactCounts(context.Background(), reqs, counts)
	if err != nil {
		t.Fatalf("SolveExactCounts returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(result.Solutions) != 1 {
		t.Fatalf("got %d solutions, want exactly 1 (no instance-permutation duplicates)", len(result.Solutions))
	}
}

func TestFitAllPiecesDoesNotPermuteIdenticalInstances(t *testing.T) {
	lib := buildLibrary(t)
	grid := board.NewGrid(1, 6)
	s := New(lib, grid, nil)

	result, err := s.FitAllPieces(context.Background(), map[string]int{"line-3": 2})
	if err != nil {
		t.Fatalf("FitAllPieces returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(result.Solutions) != 1 {
		t.Fatalf("got %d solutions, want exactly 1 (no instance-permutation duplicates)", len(result.Solutions))
	}
}

func TestRequirementsColorsIsSorted(t *testing.T) {
	reqs := Requirements{
		Rows: map[board.Color][]int{"zebra": {0}, "ant": {0}, "mule": {0}},
		Cols: map[board.Color][]int{},
	}
	colors := reqs.colors()
	want := []board.Color{"ant", "mule", "zebra"}
	if len(colors) != len(want) {
		t.Fatalf("got %v, want %v", colors, want)
	}
	for i := range want {
		if colors[i] != want[i] {
			t.Fatalf("colors() = %v, want %v", colors, want)
		}
	}
}

func TestValidateReportsOverlapAndMismatch(t *testing.T) {
	sol := Solution{
		Cells: map[board.Color][]board.Cell{
			"A": {{Row: 0, Col: 0}, {Row: 0, Col: 1}},
			"B": {{Row: 0, Col: 1}},
		},
	}
	reqs := Requirements{
		Rows: map[board.Color][]int{"A": {3}, "B": {1}},
		Cols: map[board.Color][]int{"A": {1, 1}, "B": {0, 1}},
	}
	report := Validate(sol, reqs, 1, 2)
	if report.OK() {
		t.Fatalf("expected a non-OK report")
	}
	if len(report.Overlaps) != 1 {
		t.Fatalf("expected 1 overlap, got %d", len(report.Overlaps))
	}
	if len(report.RowDiffs["A"]) == 0 {
		t.Fatalf("expected a row mismatch for color A")
	}
}

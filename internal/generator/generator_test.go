package generator

import (
	"context"
	"testing"
	"time"

	"github.com/rybkr/polypuzzle/internal/board"
	"github.com/rybkr/polypuzzle/internal/shapes"
	"github.com/rybkr/polypuzzle/internal/solver"
)

func testLibrary(t *testing.T) *shapes.Library {
	t.Helper()
	lib, err := shapes.Build([]shapes.Definition{
		{ID: "square-4", Name: "Square", Cells: []board.Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1}}},
		{ID: "line-3", Name: "Line", Cells: []board.Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}},
		{ID: "l-4", Name: "L", Cells: []board.Cell{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 2, Col: 0}, {Row: 2, Col: 1}}},
	})
	if err != nil {
		t.Fatalf("shapes.Build failed: %v", err)
	}
	return lib
}

func TestGenerateProducesASolvablePuzzle(t *testing.T) {
	lib := testLibrary(t)
	opts := &Options{
		Rows:    6,
		Cols:    6,
		Colors:  []board.Color{"A", "B"},
		Timeout: 2 * time.Second,
		Seed:    42,
	}
	gen := New(lib, opts)

	puzzle, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if puzzle.Grid.Rows != 6 || puzzle.Grid.Cols != 6 {
		t.Fatalf("puzzle grid is %dx%d, want 6x6", puzzle.Grid.Rows, puzzle.Grid.Cols)
	}

	// Round-trip: the generator's own shape multiset must re-solve against
	// the requirements it derived.
	s := solver.New(lib, puzzle.Grid, solver.DefaultOptions())
	result, err := s.SolveExactCounts(context.Background(), puzzle.Requirements, puzzle.ShapeCounts)
	if err != nil {
		t.Fatalf("SolveExactCounts failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("generated puzzle's own shape multiset did not re-solve: %+v", result)
	}
}

func TestGenerateSolutionPlacementsMatchShapeCounts(t *testing.T) {
	lib := testLibrary(t)
	opts := &Options{
		Rows:    6,
		Cols:    6,
		Colors:  []board.Color{"A", "B"},
		Timeout: 2 * time.Second,
		Seed:    13,
	}
	gen := New(lib, opts)

	puzzle, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, color := range puzzle.Colors {
		placements := puzzle.Solution.Placements[color]
		wantInstances := 0
		for _, count := range puzzle.ShapeCounts[color] {
			wantInstances += count
		}
		if len(placements) != wantInstances {
			t.Fatalf("color %s: got %d placements, want %d (one per placed shape instance)", color, len(placements), wantInstances)
		}
		for _, p := range placements {
			if p.ShapeID == "" {
				t.Fatalf("color %s: placement has empty ShapeID", color)
			}
			entry, ok := lib.Lookup(p.ShapeID)
			if !ok {
				t.Fatalf("color %s: placement references unknown shape %q", color, p.ShapeID)
			}
			if len(p.Cells) != entry.CellCount() {
				t.Fatalf("color %s: placement for %q has %d cells, want %d", color, p.ShapeID, len(p.Cells), entry.CellCount())
			}
		}
	}
}

func TestGenerateWithBlockersAndLocks(t *testing.T) {
	lib := testLibrary(t)
	opts := &Options{
		Rows:     8,
		Cols:     8,
		Colors:   []board.Color{"A", "B"},
		Blockers: true,
		Locks:    true,
		Timeout:  3 * time.Second,
		Seed:     7,
	}
	gen := New(lib, opts)

	puzzle, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(puzzle.Blockers) == 0 {
		t.Fatalf("expected at least one blocker when Blockers is enabled")
	}
	total := 0
	for _, cs := range puzzle.Locks {
		total += len(cs)
	}
	if total == 0 {
		t.Fatalf("expected at least one locked cell when Locks is enabled")
	}
}

func TestGenerateRespectsContextDeadline(t *testing.T) {
	lib := testLibrary(t)
	opts := &Options{
		Rows:    4,
		Cols:    4,
		Colors:  []board.Color{"A", "B", "C", "D", "E", "F"}, // budget per color becomes too small to fit any shape
		Timeout: time.Second,
	}
	gen := New(lib, opts)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := gen.Generate(ctx)
	if err == nil {
		t.Fatalf("expected generation to fail when no shape fits the per-color budget")
	}
}

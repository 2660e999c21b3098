package generator

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rybkr/polypuzzle/internal/board"
	"github.com/rybkr/polypuzzle/internal/errs"
	"github.com/rybkr/polypuzzle/internal/logging"
	"github.com/rybkr/polypuzzle/internal/shapes"
	"github.com/rybkr/polypuzzle/internal/solver"
)

const innerRetryLimit = 5

// Generator builds puzzles against a fixed shape library.
type Generator struct {
	options *Options
	lib     *shapes.Library
	rng     *rand.Rand
	log     logging.Logger
}

// New creates a puzzle generator with the given options and shape library.
func New(lib *shapes.Library, options *Options) *Generator {
	if options == nil {
		options = DefaultOptions()
	}
	seed := options.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		options: options,
		lib:     lib,
		rng:     rand.New(rand.NewSource(seed)),
		log:     logging.Default(),
	}
}

// Generate runs the outer retry loop against the configured wall-clock
// budget (or ctx's deadline, whichever is sooner), returning the first
// successful single-attempt pipeline run.
func (g *Generator) Generate(ctx context.Context) (*Puzzle, error) {
	deadline := time.Now().Add(g.options.timeout())
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	attempt := 0
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return nil, errs.New(errs.DeadlineExceeded, "context canceled during generation")
		}
		attempt++
		start := time.Now()

		puzzle, err := g.runAttempt(ctx)
		g.log.WithFields(logrus.Fields{"attempt": attempt, "elapsed": time.Since(start)}).Debugf("generator: attempt finished")
		if err == nil {
			return puzzle, nil
		}
	}
	return nil, errs.New(errs.DeadlineExceeded, "no successful attempt within the generation budget")
}

// runAttempt is one single-attempt pipeline run (Phases 1-7).
func (g *Generator) runAttempt(ctx context.Context) (*Puzzle, error) {
	opts := g.options
	rows, cols := opts.Rows, opts.Cols
	colors := opts.Colors
	n := rows * cols
	k := len(colors)

	// Phase 1 — budget allocation.
	reserve := 0
	if opts.Blockers || opts.Locks {
		reserve = (rows + cols) * 2 / 3 // floor((R+C)/1.5)
	}
	perColorBudget := (n - reserve) / k

	// Phase 2 — shape selection.
	pool := g.shapePool()
	shapeLists := make(map[board.Color][]pickedShape, k)
	remainders := make(map[board.Color]int, k)
	for _, color := range colors {
		list, remainder := g.selectShapes(pool, perColorBudget)
		if len(list) == 0 {
			return nil, errs.New(errs.NoShapesFit, "no shape fits the per-color budget")
		}
		shapeLists[color] = list
		remainders[color] = remainder
	}

	// Phase 3 — blocker/lock budget.
	totalRemainder := reserve
	for _, r := range remainders {
		totalRemainder += r
	}
	var blockerBudget, lockBudget int
	switch {
	case opts.Blockers && opts.Locks:
		blockerBudget = totalRemainder / 2
		lockBudget = totalRemainder - blockerBudget
	case opts.Blockers:
		blockerBudget = totalRemainder
	case opts.Locks:
		lockBudget = totalRemainder
	}

	// Phase 4 — lock distribution.
	lockByColor := g.distributeLocks(lockBudget, colors)

	// Phase 5 — strategy.
	st := pickStrategy(g.rng)

	// Phase 6 — placement & validation.
	grid, placed, placements, blockerCells, lockCells, ok := g.attemptPlacement(ctx, rows, cols, colors, shapeLists, blockerBudget, lockByColor, st)
	if !ok {
		var err error
		grid, placed, placements, blockerCells, lockCells, err = g.fallback(colors, shapeLists, blockerBudget, lockByColor)
		if err != nil {
			return nil, err
		}
		st = chaotic // fallback's retroactive assignment has no mirror structure
	}

	// Phase 7 — requirements derivation.
	requirements := deriveRequirements(grid, colors)

	shapeCounts := make(map[board.Color]map[string]int, k)
	for _, color := range colors {
		counts := make(map[string]int)
		for _, p := range shapeLists[color] {
			counts[p.ID]++
		}
		shapeCounts[color] = counts
	}

	cells := make(map[board.Color][]board.Cell, k)
	for _, color := range colors {
		var colorCells []board.Cell
		colorCells = append(colorCells, lockCells[color]...)
		colorCells = append(colorCells, placed[color]...)
		cells[color] = colorCells
	}

	return &Puzzle{
		Grid:         grid,
		Colors:       colors,
		Blockers:     blockerCells,
		Locks:        lockCells,
		ShapeCounts:  shapeCounts,
		Requirements: requirements,
		Solution:     solver.Solution{Cells: cells, Placements: placements},
		Strategy:     strategyName(st),
	}, nil
}

func (g *Generator) shapePool() []string {
	if len(g.options.ShapePool) > 0 {
		return g.options.ShapePool
	}
	return g.lib.IDs()
}

// selectShapes repeatedly picks a uniformly random shape (and a uniformly
// random rotation index for it) from pool whose cellCount fits the
// remaining budget, until none fits (Phase 2).
func (g *Generator) selectShapes(pool []string, budget int) ([]pickedShape, int) {
	var list []pickedShape
	remaining := budget

	for {
		var eligible []string
		for _, id := range pool {
			entry, ok := g.lib.Lookup(id)
			if ok && entry.CellCount() <= remaining {
				eligible = append(eligible, id)
			}
		}
		if len(eligible) == 0 {
			break
		}
		id := eligible[g.rng.Intn(len(eligible))]
		entry, _ := g.lib.Lookup(id)
		rotation := g.rng.Intn(len(entry.Rotations))
		list = append(list, pickedShape{ID: id, Rotation: rotation, CellCount: entry.CellCount()})
		remaining -= entry.CellCount()
	}
	return list, remaining
}

// distributeLocks floor-divides lockBudget across colors, then hands the
// remainder to randomly picked colors one at a time (Phase 4).
func (g *Generator) distributeLocks(lockBudget int, colors []board.Color) map[board.Color]int {
	out := make(map[board.Color]int, len(colors))
	if len(colors) == 0 {
		return out
	}
	base := lockBudget / len(colors)
	remainder := lockBudget % len(colors)
	for _, color := range colors {
		out[color] = base
	}
	perm := g.rng.Perm(len(colors))
	for i := 0; i < remainder; i++ {
		out[colors[perm[i%len(colors)]]]++
	}
	return out
}

// attemptPlacement runs up to innerRetryLimit inner attempts of Phase 6:
// place blockers, place locks, then invoke the placement subroutine.
func (g *Generator) attemptPlacement(ctx context.Context, rows, cols int, colors []board.Color, shapeLists map[board.Color][]pickedShape, blockerBudget int, lockByColor map[board.Color]int, st strategy) (*board.Grid, map[board.Color][]board.Cell, map[board.Color][]solver.Placement, []board.Cell, map[board.Color][]board.Cell, bool) {
	for i := 0; i < innerRetryLimit; i++ {
		if ctx.Err() != nil {
			return nil, nil, nil, nil, nil, false
		}
		grid := board.NewGrid(rows, cols)

		if !placeBlockers(grid, blockerBudget, st, g.rng) {
			continue
		}
		lockCells := make(map[board.Color][]board.Cell, len(colors))
		lockOK := true
		for _, color := range colors {
			before := lockedSnapshot(grid)
			if !placeLocks(grid, lockByColor[color], color, g.rng) {
				lockOK = false
				break
			}
			lockCells[color] = newLockedCells(grid, color, before)
		}
		if !lockOK {
			continue
		}

		placed, placements, ok := placeShapes(grid, g.lib, colors, shapeLists, g.rng)
		if !ok {
			continue
		}

		blockerCells := blockedCells(grid)
		return grid, placed, placements, blockerCells, lockCells, true
	}
	return nil, nil, nil, nil, nil, false
}

// fallback implements §4.3.2: clear blockers/locks, place shapes on an
// empty grid, then retroactively assign blockers and locks to cells the
// shapes left empty.
func (g *Generator) fallback(colors []board.Color, shapeLists map[board.Color][]pickedShape, blockerBudget int, lockByColor map[board.Color]int) (*board.Grid, map[board.Color][]board.Cell, map[board.Color][]solver.Placement, []board.Cell, map[board.Color][]board.Cell, error) {
	g.log.WithFields(logrus.Fields{"blockerBudget": blockerBudget}).Warnf("generator: inner retries exhausted, falling back to retroactive blocker/lock assignment")

	rows, cols := g.options.Rows, g.options.Cols
	grid := board.NewGrid(rows, cols)

	placed, placements, ok := placeShapes(grid, g.lib, colors, shapeLists, g.rng)
	if !ok {
		return nil, nil, nil, nil, nil, errs.New(errs.NoPlacement, "fallback placement failed on an empty grid")
	}

	var empties []board.Cell
	grid.Each(func(c board.Cell, state board.CellState) {
		if state.Kind == board.Empty {
			empties = append(empties, c)
		}
	})
	g.rng.Shuffle(len(empties), func(i, j int) { empties[i], empties[j] = empties[j], empties[i] })

	var blockerCells []board.Cell
	idx := 0
	for ; idx < blockerBudget && idx < len(empties); idx++ {
		grid.Set(empties[idx], board.CellState{Kind: board.Blocked})
		blockerCells = append(blockerCells, empties[idx])
	}

	lockCells := make(map[board.Color][]board.Cell, len(colors))
	for _, color := range colors {
		count := lockByColor[color]
		for i := 0; i < count && idx < len(empties); i++ {
			grid.Set(empties[idx], board.CellState{Kind: board.Locked, Color: color})
			lockCells[color] = append(lockCells[color], empties[idx])
			idx++
		}
	}

	return grid, placed, placements, blockerCells, lockCells, nil
}

func deriveRequirements(grid *board.Grid, colors []board.Color) solver.Requirements {
	rows := make(map[board.Color][]int, len(colors))
	cols := make(map[board.Color][]int, len(colors))
	for _, color := range colors {
		rows[color] = make([]int, grid.Rows)
		cols[color] = make([]int, grid.Cols)
	}

	grid.Each(func(c board.Cell, state board.CellState) {
		if state.Kind != board.Locked && state.Kind != board.Filled {
			return
		}
		if _, tracked := rows[state.Color]; !tracked {
			return
		}
		rows[state.Color][c.Row]++
		cols[state.Color][c.Col]++
	})

	return solver.Requirements{Rows: rows, Cols: cols}
}

func blockedCells(grid *board.Grid) []board.Cell {
	var out []board.Cell
	grid.Each(func(c board.Cell, state board.CellState) {
		if state.Kind == board.Blocked {
			out = append(out, c)
		}
	})
	return out
}

func lockedSnapshot(grid *board.Grid) map[board.Cell]bool {
	snap := make(map[board.Cell]bool)
	grid.Each(func(c board.Cell, state board.CellState) {
		if state.Kind == board.Locked {
			snap[c] = true
		}
	})
	return snap
}

func newLockedCells(grid *board.Grid, color board.Color, before map[board.Cell]bool) []board.Cell {
	var out []board.Cell
	grid.Each(func(c board.Cell, state board.CellState) {
		if state.Kind == board.Locked && state.Color == color && !before[c] {
			out = append(out, c)
		}
	})
	return out
}

func strategyName(st strategy) string {
	if st == symmetrical {
		return "symmetrical"
	}
	return "chaotic"
}

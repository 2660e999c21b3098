package generator

import (
	"math/rand"

	"github.com/rybkr/polypuzzle/internal/board"
)

type strategy int

const (
	symmetrical strategy = iota
	chaotic
)

func pickStrategy(rng *rand.Rand) strategy {
	if rng.Intn(2) == 0 {
		return symmetrical
	}
	return chaotic
}

// placeBlockers places exactly count Blocked cells on grid, dispatching on
// strategy. Symmetrical mode mirrors every pick across all four quadrants
// in one step; chaotic mode places one cell at a time. Both modes are
// capped at 10×count outer attempts so a nearly-full grid can't spin
// forever looking for an empty cell to mirror or place on. Returns false
// if the cap is exhausted before count is reached.
func placeBlockers(grid *board.Grid, count int, st strategy, rng *rand.Rand) bool {
	if count == 0 {
		return true
	}
	placed := 0
	maxAttempts := 10 * count

	for attempt := 0; attempt < maxAttempts && placed < count; attempt++ {
		switch st {
		case symmetrical:
			r := rng.Intn((grid.Rows + 1) / 2)
			c := rng.Intn((grid.Cols + 1) / 2)
			for _, mirror := range quadrantMirrors(grid, r, c) {
				if placed >= count {
					break
				}
				if setIfEmpty(grid, mirror, board.CellState{Kind: board.Blocked}) {
					placed++
				}
			}
		case chaotic:
			c := board.Cell{Row: rng.Intn(grid.Rows), Col: rng.Intn(grid.Cols)}
			if setIfEmpty(grid, c, board.CellState{Kind: board.Blocked}) {
				placed++
			}
		}
	}
	return placed >= count
}

// placeLocks distributes count locks of color onto grid, one random Empty
// cell at a time regardless of strategy (the mirror fan-out in placeBlockers
// applies only to blockers; locks have no four-way mirror). Capped at
// 10×count attempts for the same reason as placeBlockers.
func placeLocks(grid *board.Grid, count int, color board.Color, rng *rand.Rand) bool {
	if count == 0 {
		return true
	}
	placed := 0
	maxAttempts := 10 * count

	for attempt := 0; attempt < maxAttempts && placed < count; attempt++ {
		c := board.Cell{Row: rng.Intn(grid.Rows), Col: rng.Intn(grid.Cols)}
		if setIfEmpty(grid, c, board.CellState{Kind: board.Locked, Color: color}) {
			placed++
		}
	}
	return placed >= count
}

func setIfEmpty(grid *board.Grid, c board.Cell, state board.CellState) bool {
	current, err := grid.At(c)
	if err != nil || current.Kind != board.Empty {
		return false
	}
	grid.Set(c, state)
	return true
}

// quadrantMirrors returns the four 180°-rotation-mirror positions of (r, c)
// on an R×C grid, deduplicated (a center row or column collapses mirrors
// onto each other).
func quadrantMirrors(grid *board.Grid, r, c int) []board.Cell {
	candidates := []board.Cell{
		{Row: r, Col: c},
		{Row: r, Col: grid.Cols - 1 - c},
		{Row: grid.Rows - 1 - r, Col: c},
		{Row: grid.Rows - 1 - r, Col: grid.Cols - 1 - c},
	}
	var out []board.Cell
	for _, cand := range candidates {
		dup := false
		for _, existing := range out {
			if existing == cand {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, cand)
		}
	}
	return out
}

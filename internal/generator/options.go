// Package generator builds complete, solvable polyomino-cover puzzles:
// a grid, optional blockers and color-locked cells, a witnessed solution,
// and the row/column requirements that solution implies.
package generator

import (
	"time"

	"github.com/rybkr/polypuzzle/internal/board"
)

// DefaultTimeout is the outer-loop wall-clock budget Generate retries
// within before giving up.
const DefaultTimeout = 4 * time.Second

// Options configures puzzle generation.
type Options struct {
	Rows, Cols int
	Colors     []board.Color
	Blockers   bool
	Locks      bool
	ShapePool  []string      // shape ids eligible for selection; empty means every id in the library
	Timeout    time.Duration // outer-loop wall-clock budget; 0 means DefaultTimeout
	Seed       int64         // 0 means time-seeded
}

// DefaultOptions returns a small two-color baseline with blockers enabled
// and locks disabled.
func DefaultOptions() *Options {
	return &Options{
		Rows:     5,
		Cols:     5,
		Colors:   []board.Color{"green", "blue"},
		Blockers: true,
		Timeout:  DefaultTimeout,
	}
}

func (o *Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

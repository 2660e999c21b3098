package shapes

import (
	"errors"
	"fmt"

	"github.com/rybkr/polypuzzle/internal/board"
	"github.com/rybkr/polypuzzle/internal/errs"
)

var (
	// ErrDuplicateShapeID is returned by Build when two definitions share
	// an identifier.
	ErrDuplicateShapeID = errors.New("shapes: duplicate shape id")
	// ErrInvalidDefinition is returned for an empty or disconnected cell
	// list.
	ErrInvalidDefinition = errors.New("shapes: invalid shape definition")
)

// Definition is the input form of a shape: a human name, a stable id, and
// its base cell list (not required to already be normalized).
type Definition struct {
	ID    string
	Name  string
	Cells []board.Cell
}

// Entry is a library entry: the canonical base shape plus the list of its
// unique rotations, in the order they were discovered starting from the
// base shape.
type Entry struct {
	ID        string
	Name      string
	Base      Shape
	Rotations []Shape
	cellCount int
}

// CellCount returns the entry's stable cell count, equal to the length of
// the base shape and of every rotation.
func (e Entry) CellCount() int { return e.cellCount }

// Bounds returns the bounding box of the rotation at the given index.
func (e Entry) Bounds(rotation int) (height, width int, err error) {
	if rotation < 0 || rotation >= len(e.Rotations) {
		return 0, 0, fmt.Errorf("shapes: rotation %d out of range for %q (%d rotations)", rotation, e.ID, len(e.Rotations))
	}
	h, w := e.Rotations[rotation].Bounds()
	return h, w, nil
}

// Library is an indexed, immutable collection of shape entries, built once
// and shared read-only across solver/generator invocations.
type Library struct {
	entries map[string]*Entry
	order   []string // insertion order, for deterministic iteration
}

// Build validates and indexes a set of shape definitions, generating every
// unique rotation for each. Duplicate identifiers are rejected.
func Build(defs []Definition) (*Library, error) {
	lib := &Library{entries: make(map[string]*Entry, len(defs))}

	for _, def := range defs {
		if _, exists := lib.entries[def.ID]; exists {
			return nil, fmt.Errorf("%w: %w", ErrDuplicateShapeID, errs.New(errs.DuplicateShapeID, fmt.Sprintf("%q", def.ID)))
		}
		if len(def.Cells) == 0 || !isConnected(def.Cells) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, errs.New(errs.InvalidConfig, fmt.Sprintf("%q has %d cells and must be a single orthogonally connected piece", def.ID, len(def.Cells))))
		}

		base := normalize(def.Cells)
		rotations := uniqueRotations(base)

		lib.entries[def.ID] = &Entry{
			ID:        def.ID,
			Name:      def.Name,
			Base:      base,
			Rotations: rotations,
			cellCount: base.CellCount(),
		}
		lib.order = append(lib.order, def.ID)
	}

	return lib, nil
}

// uniqueRotations iteratively rotates base 90° clockwise, stopping as soon
// as a rotation equals one already recorded (by cell-set equality, not
// order). A square yields exactly one rotation; a line yields two; a fully
// asymmetric tetromino yields four.
func uniqueRotations(base Shape) []Shape {
	rotations := []Shape{base}
	current := base
	for {
		current = current.rotateClockwise()
		if containsShape(rotations, current) {
			break
		}
		rotations = append(rotations, current)
	}
	return rotations
}

func containsShape(shapes []Shape, s Shape) bool {
	for _, existing := range shapes {
		if existing.Equal(s) {
			return true
		}
	}
	return false
}

// Lookup returns the entry for id, or false if no such entry exists.
func (l *Library) Lookup(id string) (*Entry, bool) {
	e, ok := l.entries[id]
	return e, ok
}

// IDs returns every shape id in the library, in definition order.
func (l *Library) IDs() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Len returns the number of entries in the library.
func (l *Library) Len() int { return len(l.entries) }

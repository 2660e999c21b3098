// Package config loads shape-definition palettes and generator tuning
// knobs from YAML, the way a CLI needs them at startup. It is a thin
// convenience layer around shapes.Build and generator.Options: the core
// packages stay agnostic to where their inputs came from.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rybkr/polypuzzle/internal/board"
	"github.com/rybkr/polypuzzle/internal/errs"
	"github.com/rybkr/polypuzzle/internal/shapes"
)

// shapeDoc mirrors the YAML document shape: a list of id/name/cells
// entries, where cells is a list of [row, col] pairs.
type shapeDoc struct {
	Shapes []shapeEntry `yaml:"shapes"`
}

type shapeEntry struct {
	ID    string  `yaml:"id"`
	Name  string  `yaml:"name"`
	Cells [][]int `yaml:"cells"`
}

// defaultShapesYAML is the embedded palette used whenever no file path is
// supplied: a square, a 3-cell line, an L-tetromino, and a 5-cell plus.
const defaultShapesYAML = `
shapes:
  - id: square-4
    name: Square
    cells: [[0,0],[0,1],[1,0],[1,1]]
  - id: line-3
    name: Line
    cells: [[0,0],[0,1],[0,2]]
  - id: l-4
    name: L-Tetromino
    cells: [[0,0],[1,0],[2,0],[2,1]]
  - id: cross-5
    name: Plus
    cells: [[0,1],[1,0],[1,1],[1,2],[2,1]]
`

// LoadShapeDefinitions parses a YAML shape-definition document at path, or
// the embedded default palette if path is empty.
func LoadShapeDefinitions(path string) ([]shapes.Definition, error) {
	var data []byte
	if path == "" {
		data = []byte(defaultShapesYAML)
	} else {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, errs.New(errs.InvalidConfig, fmt.Sprintf("reading shape definitions: %v", err))
		}
	}

	var doc shapeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.New(errs.InvalidConfig, fmt.Sprintf("parsing shape definitions: %v", err))
	}
	if len(doc.Shapes) == 0 {
		return nil, errs.New(errs.InvalidConfig, "shape definition document has no shapes")
	}

	defs := make([]shapes.Definition, len(doc.Shapes))
	for i, entry := range doc.Shapes {
		if entry.ID == "" || len(entry.Cells) == 0 {
			return nil, errs.New(errs.InvalidConfig, fmt.Sprintf("shape at index %d is missing an id or cells", i))
		}
		cells := make([]board.Cell, len(entry.Cells))
		for j, pair := range entry.Cells {
			if len(pair) != 2 {
				return nil, errs.New(errs.InvalidConfig, fmt.Sprintf("shape %q cell %d is not a [row, col] pair", entry.ID, j))
			}
			cells[j] = board.Cell{Row: pair[0], Col: pair[1]}
		}
		defs[i] = shapes.Definition{ID: entry.ID, Name: entry.Name, Cells: cells}
	}
	return defs, nil
}

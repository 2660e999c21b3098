package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rybkr/polypuzzle/internal/board"
	"github.com/rybkr/polypuzzle/internal/generator"
	"github.com/rybkr/polypuzzle/internal/solver"
)

// cellDTO is the JSON form of a single board.CellState.
type cellDTO struct {
	Kind  string `json:"kind"`
	Color string `json:"color,omitempty"`
}

// gridDTO is the JSON form of a board.Grid: dimensions plus a flat,
// row-major cell list.
type gridDTO struct {
	Rows  int       `json:"rows"`
	Cols  int       `json:"cols"`
	Cells []cellDTO `json:"cells"`
}

func kindToString(k board.StateKind) string {
	switch k {
	case board.Blocked:
		return "blocked"
	case board.Locked:
		return "locked"
	case board.Filled:
		return "filled"
	default:
		return "empty"
	}
}

func stringToKind(s string) (board.StateKind, error) {
	switch s {
	case "empty", "":
		return board.Empty, nil
	case "blocked":
		return board.Blocked, nil
	case "locked":
		return board.Locked, nil
	case "filled":
		return board.Filled, nil
	default:
		return board.Empty, fmt.Errorf("unknown cell kind %q", s)
	}
}

func gridToDTO(g *board.Grid) gridDTO {
	dto := gridDTO{Rows: g.Rows, Cols: g.Cols, Cells: make([]cellDTO, 0, g.Rows*g.Cols)}
	g.Each(func(_ board.Cell, state board.CellState) {
		dto.Cells = append(dto.Cells, cellDTO{Kind: kindToString(state.Kind), Color: string(state.Color)})
	})
	return dto
}

func dtoToGrid(dto gridDTO) (*board.Grid, error) {
	if dto.Rows <= 0 || dto.Cols <= 0 {
		return nil, fmt.Errorf("grid rows/cols must be positive")
	}
	if len(dto.Cells) != dto.Rows*dto.Cols {
		return nil, fmt.Errorf("grid has %d cells, expected %d", len(dto.Cells), dto.Rows*dto.Cols)
	}
	grid := board.NewGrid(dto.Rows, dto.Cols)
	for i, cell := range dto.Cells {
		kind, err := stringToKind(cell.Kind)
		if err != nil {
			return nil, err
		}
		grid.Set(board.CellFromIndex(i, dto.Cols), board.CellState{Kind: kind, Color: board.Color(cell.Color)})
	}
	return grid, nil
}

// puzzleDTO is the JSON form of a generator.Puzzle.
type puzzleDTO struct {
	Grid         gridDTO                    `json:"grid"`
	Colors       []string                   `json:"colors"`
	Strategy     string                     `json:"strategy"`
	ShapeCounts  map[string]map[string]int  `json:"shape_counts"`
	Requirements map[string]requirementsDTO `json:"requirements"`
}

type requirementsDTO struct {
	Rows []int `json:"rows"`
	Cols []int `json:"cols"`
}

func puzzleToDTO(p *generator.Puzzle) puzzleDTO {
	colors := make([]string, len(p.Colors))
	shapeCounts := make(map[string]map[string]int, len(p.Colors))
	reqs := make(map[string]requirementsDTO, len(p.Colors))
	for i, c := range p.Colors {
		colors[i] = string(c)
		shapeCounts[string(c)] = p.ShapeCounts[c]
		reqs[string(c)] = requirementsDTO{Rows: p.Requirements.Rows[c], Cols: p.Requirements.Cols[c]}
	}
	return puzzleDTO{
		Grid:         gridToDTO(p.Grid),
		Colors:       colors,
		Strategy:     p.Strategy,
		ShapeCounts:  shapeCounts,
		Requirements: reqs,
	}
}

// resultDTO is the JSON form of a solver.Result.
type resultDTO struct {
	Success       bool          `json:"success"`
	Kind          string        `json:"kind,omitempty"`
	Message       string        `json:"message,omitempty"`
	SolutionCount int           `json:"solution_count"`
	Solutions     []solutionDTO `json:"solutions,omitempty"`
}

type solutionDTO struct {
	Cells map[string][][2]int `json:"cells"`
}

func resultToDTO(r *solver.Result) resultDTO {
	dto := resultDTO{
		Success:       r.Success,
		Kind:          string(r.Kind),
		Message:       r.Message,
		SolutionCount: len(r.Solutions),
	}
	for _, sol := range r.Solutions {
		cells := make(map[string][][2]int, len(sol.Cells))
		for color, cs := range sol.Cells {
			pairs := make([][2]int, len(cs))
			for i, c := range cs {
				pairs[i] = [2]int{c.Row, c.Col}
			}
			cells[string(color)] = pairs
		}
		dto.Solutions = append(dto.Solutions, solutionDTO{Cells: cells})
	}
	return dto
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(path, data, 0644)
}

func readGridFile(path string) (*board.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var dto gridDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}
	return dtoToGrid(dto)
}

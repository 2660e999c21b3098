package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/sirupsen/logrus"

	"github.com/rybkr/polypuzzle/internal/board"
	"github.com/rybkr/polypuzzle/internal/config"
	"github.com/rybkr/polypuzzle/internal/shapes"
	"github.com/rybkr/polypuzzle/internal/solver"
)

var (
	solveGridPath string
	solveDefs     string
	solveMode     string
	solveShapes   string
	solveTimeout  time.Duration
	solveOutput   string
)

func init() {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a puzzle against row/column requirements",
		RunE:  runSolve,
	}
	cmd.Flags().StringVar(&solveGridPath, "puzzle", "", "Path to a JSON file with a grid and requirements (required)")
	cmd.Flags().StringVar(&solveDefs, "defs", "", "Path to a shape-definition YAML file (default: embedded palette)")
	cmd.Flags().StringVar(&solveMode, "mode", "free", `"free" (--shapes is a comma list of enabled ids) or "exact" (--shapes is color:id:count,...)`)
	cmd.Flags().StringVar(&solveShapes, "shapes", "", "Shape selection; format depends on --mode")
	cmd.Flags().DurationVar(&solveTimeout, "timeout", 10*time.Second, "Solve timeout")
	cmd.Flags().StringVarP(&solveOutput, "output", "o", "", "Output file (default: stdout)")
	_ = cmd.MarkFlagRequired("puzzle")
	rootCmd.AddCommand(cmd)
}

// puzzleInputDTO is the solve input shape: a grid plus the per-color
// requirements the solution must match exactly. (fit reads a bare grid via
// readGridFile instead.)
type puzzleInputDTO struct {
	Grid         gridDTO                    `json:"grid"`
	Requirements map[string]requirementsDTO `json:"requirements,omitempty"`
}

func readPuzzleInput(path string) (*board.Grid, solver.Requirements, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, solver.Requirements{}, err
	}
	var dto puzzleInputDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, solver.Requirements{}, err
	}
	grid, err := dtoToGrid(dto.Grid)
	if err != nil {
		return nil, solver.Requirements{}, err
	}
	reqs := solver.Requirements{Rows: map[board.Color][]int{}, Cols: map[board.Color][]int{}}
	for color, r := range dto.Requirements {
		reqs.Rows[board.Color(color)] = r.Rows
		reqs.Cols[board.Color(color)] = r.Cols
	}
	return grid, reqs, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cliLog.WithFields(logrus.Fields{"puzzle": solveGridPath, "mode": solveMode}).Infof("solve: starting")

	grid, reqs, err := readPuzzleInput(solveGridPath)
	if err != nil {
		return err
	}
	defs, err := config.LoadShapeDefinitions(solveDefs)
	if err != nil {
		return err
	}
	lib, err := shapes.Build(defs)
	if err != nil {
		return err
	}

	opts := solver.DefaultOptions()
	opts.Logger = cliLog
	s := solver.New(lib, grid, opts)
	ctx, cancel := context.WithTimeout(context.Background(), solveTimeout)
	defer cancel()

	var result *solver.Result
	switch solveMode {
	case "free":
		ids := splitNonEmpty(solveShapes, ",")
		cliLog.Debugf("solve: running SolveCounts with %d enabled shape ids", len(ids))
		result, err = s.SolveCounts(ctx, reqs, ids)
	case "exact":
		counts, parseErr := parseColorShapeCounts(solveShapes)
		if parseErr != nil {
			return parseErr
		}
		cliLog.Debugf("solve: running SolveExactCounts for %d colors", len(counts))
		result, err = s.SolveExactCounts(ctx, reqs, counts)
	default:
		return fmt.Errorf("unknown mode %q (want free or exact)", solveMode)
	}
	if err != nil {
		return err
	}

	cliLog.WithFields(logrus.Fields{"success": result.Success, "solutions": len(result.Solutions)}).Infof("solve: done")
	return writeJSON(solveOutput, resultToDTO(result))
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseColorShapeCounts parses "color:id:count,color:id:count,..." into a
// per-color shape-id multiset.
func parseColorShapeCounts(s string) (map[board.Color]map[string]int, error) {
	out := make(map[board.Color]map[string]int)
	for _, entry := range splitNonEmpty(s, ",") {
		fields := strings.Split(entry, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("invalid shape entry %q, want color:id:count", entry)
		}
		color := board.Color(fields[0])
		id := fields[1]
		count, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("invalid count in %q: %w", entry, err)
		}
		if out[color] == nil {
			out[color] = make(map[string]int)
		}
		out[color][id] += count
	}
	return out, nil
}

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/sirupsen/logrus"

	"github.com/rybkr/polypuzzle/internal/board"
	"github.com/rybkr/polypuzzle/internal/config"
	"github.com/rybkr/polypuzzle/internal/generator"
	"github.com/rybkr/polypuzzle/internal/shapes"
)

var (
	genDefs     string
	genRows     int
	genCols     int
	genColors   string
	genBlockers bool
	genLocks    bool
	genTimeout  time.Duration
	genSeed     int64
	genOutput   string
)

func init() {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a solvable polyomino-cover puzzle",
		RunE:  runGenerate,
	}
	cmd.Flags().StringVar(&genDefs, "defs", "", "Path to a shape-definition YAML file (default: embedded palette)")
	cmd.Flags().IntVar(&genRows, "rows", 8, "Grid row count")
	cmd.Flags().IntVar(&genCols, "cols", 8, "Grid column count")
	cmd.Flags().StringVar(&genColors, "colors", "A,B", "Comma-separated color list")
	cmd.Flags().BoolVar(&genBlockers, "blockers", false, "Enable blocker cells")
	cmd.Flags().BoolVar(&genLocks, "locks", false, "Enable locked cells")
	cmd.Flags().DurationVar(&genTimeout, "timeout", generator.DefaultTimeout, "Generation timeout")
	cmd.Flags().Int64Var(&genSeed, "seed", 0, "Random seed (0 = time-seeded)")
	cmd.Flags().StringVarP(&genOutput, "output", "o", "", "Output file (default: stdout)")
	rootCmd.AddCommand(cmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cliLog.WithFields(logrus.Fields{"rows": genRows, "cols": genCols, "colors": genColors}).Infof("generate: starting")

	defs, err := config.LoadShapeDefinitions(genDefs)
	if err != nil {
		return err
	}
	lib, err := shapes.Build(defs)
	if err != nil {
		return err
	}
	cliLog.Debugf("generate: shape library built")

	colors := make([]board.Color, 0)
	for _, c := range strings.Split(genColors, ",") {
		if c = strings.TrimSpace(c); c != "" {
			colors = append(colors, board.Color(c))
		}
	}
	if len(colors) == 0 {
		return fmt.Errorf("at least one color is required")
	}

	opts := &generator.Options{
		Rows:     genRows,
		Cols:     genCols,
		Colors:   colors,
		Blockers: genBlockers,
		Locks:    genLocks,
		Timeout:  genTimeout,
		Seed:     genSeed,
	}

	gen := generator.New(lib, opts)
	ctx, cancel := context.WithTimeout(context.Background(), genTimeout+time.Second)
	defer cancel()

	cliLog.Debugf("generate: running generator pipeline")
	puzzle, err := gen.Generate(ctx)
	if err != nil {
		return err
	}

	cliLog.WithFields(logrus.Fields{"strategy": puzzle.Strategy}).Infof("generate: done")
	return writeJSON(genOutput, puzzleToDTO(puzzle))
}

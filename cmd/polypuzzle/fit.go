package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/sirupsen/logrus"

	"github.com/rybkr/polypuzzle/internal/config"
	"github.com/rybkr/polypuzzle/internal/shapes"
	"github.com/rybkr/polypuzzle/internal/solver"
)

var (
	fitGridPath string
	fitDefs     string
	fitPieces   string
	fitTimeout  time.Duration
	fitOutput   string
)

func init() {
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Find an arrangement that places every requested piece with no overlap",
		RunE:  runFit,
	}
	cmd.Flags().StringVar(&fitGridPath, "grid", "", "Path to a JSON grid file (required)")
	cmd.Flags().StringVar(&fitDefs, "defs", "", "Path to a shape-definition YAML file (default: embedded palette)")
	cmd.Flags().StringVar(&fitPieces, "pieces", "", "Comma-separated id:count pairs, e.g. square-4:4,line-3:2")
	cmd.Flags().DurationVar(&fitTimeout, "timeout", 10*time.Second, "Fit timeout")
	cmd.Flags().StringVarP(&fitOutput, "output", "o", "", "Output file (default: stdout)")
	_ = cmd.MarkFlagRequired("grid")
	rootCmd.AddCommand(cmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	cliLog.WithFields(logrus.Fields{"grid": fitGridPath, "pieces": fitPieces}).Infof("fit: starting")

	grid, err := readGridFile(fitGridPath)
	if err != nil {
		return err
	}
	defs, err := config.LoadShapeDefinitions(fitDefs)
	if err != nil {
		return err
	}
	lib, err := shapes.Build(defs)
	if err != nil {
		return err
	}
	counts, err := parseShapeCounts(fitPieces)
	if err != nil {
		return err
	}
	cliLog.Debugf("fit: running FitAllPieces")

	opts := solver.DefaultOptions()
	opts.Logger = cliLog
	s := solver.New(lib, grid, opts)
	ctx, cancel := context.WithTimeout(context.Background(), fitTimeout)
	defer cancel()

	result, err := s.FitAllPieces(ctx, counts)
	if err != nil {
		return err
	}

	cliLog.WithFields(logrus.Fields{"success": result.Success}).Infof("fit: done")
	return writeJSON(fitOutput, resultToDTO(result))
}

// parseShapeCounts parses "id:count,id:count,..." into a shape-id multiset.
func parseShapeCounts(s string) (map[string]int, error) {
	out := make(map[string]int)
	for _, entry := range splitNonEmpty(s, ",") {
		fields := strings.Split(entry, ":")
		if len(fields) != 2 {
			return nil, fmt.Errorf("invalid piece entry %q, want id:count", entry)
		}
		count, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("invalid count in %q: %w", entry, err)
		}
		out[fields[0]] += count
	}
	return out, nil
}

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rybkr/polypuzzle/internal/board"
	"github.com/rybkr/polypuzzle/internal/errs"
	"github.com/rybkr/polypuzzle/internal/generator"
)

// generatorDoc mirrors a YAML document of generator defaults. Blockers and
// Locks are pointers so an omitted field can be told apart from an
// explicit false and fall back to generator.DefaultOptions instead of
// silently disabling it.
type generatorDoc struct {
	Rows       int      `yaml:"rows"`
	Cols       int      `yaml:"cols"`
	Colors     []string `yaml:"colors"`
	Blockers   *bool    `yaml:"blockers"`
	Locks      *bool    `yaml:"locks"`
	ShapePool  []string `yaml:"shape_pool"`
	TimeoutSec float64  `yaml:"timeout_seconds"`
	Seed       int64    `yaml:"seed"`
}

// LoadGeneratorDefaults parses generator tuning knobs from path, applying
// generator.DefaultOptions for any omitted field. An empty path returns
// the defaults unchanged.
func LoadGeneratorDefaults(path string) (*generator.Options, error) {
	defaults := generator.DefaultOptions()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New(errs.InvalidConfig, fmt.Sprintf("reading generator defaults: %v", err))
	}

	var doc generatorDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.New(errs.InvalidConfig, fmt.Sprintf("parsing generator defaults: %v", err))
	}

	opts := &generator.Options{
		Rows:      defaults.Rows,
		Cols:      defaults.Cols,
		Colors:    defaults.Colors,
		Blockers:  defaults.Blockers,
		Locks:     defaults.Locks,
		ShapePool: doc.ShapePool,
		Timeout:   defaults.Timeout,
		Seed:      doc.Seed,
	}
	if doc.Blockers != nil {
		opts.Blockers = *doc.Blockers
	}
	if doc.Locks != nil {
		opts.Locks = *doc.Locks
	}
	if doc.Rows != 0 {
		opts.Rows = doc.Rows
	}
	if doc.Cols != 0 {
		opts.Cols = doc.Cols
	}
	if doc.Colors != nil {
		colors := make([]board.Color, len(doc.Colors))
		for i, c := range doc.Colors {
			colors[i] = board.Color(c)
		}
		opts.Colors = colors
	}
	if doc.TimeoutSec > 0 {
		opts.Timeout = time.Duration(doc.TimeoutSec * float64(time.Second))
	}

	if opts.Rows <= 0 || opts.Cols <= 0 {
		return nil, errs.New(errs.InvalidConfig, "rows and cols must be positive")
	}
	if len(opts.Colors) == 0 {
		return nil, errs.New(errs.InvalidConfig, "colors must not be empty")
	}

	return opts, nil
}

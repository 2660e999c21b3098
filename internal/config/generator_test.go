package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rybkr/polypuzzle/internal/generator"
)

func TestLoadGeneratorDefaultsEmptyPath(t *testing.T) {
	opts, err := LoadGeneratorDefaults("")
	if err != nil {
		t.Fatalf("LoadGeneratorDefaults failed: %v", err)
	}
	if opts.Rows <= 0 || opts.Cols <= 0 {
		t.Fatalf("default options have non-positive dimensions: %+v", opts)
	}
	if len(opts.Colors) == 0 {
		t.Fatalf("default options have no colors")
	}
}

func writeYAML(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "generator.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

func TestLoadGeneratorDefaultsAppliesBlockersAndLocksDefaultsWhenOmitted(t *testing.T) {
	path := writeYAML(t, "rows: 10\ncols: 10\ncolors: [A, B]\n")

	opts, err := LoadGeneratorDefaults(path)
	if err != nil {
		t.Fatalf("LoadGeneratorDefaults failed: %v", err)
	}
	want := generator.DefaultOptions()
	if opts.Blockers != want.Blockers {
		t.Fatalf("Blockers = %v, want default %v", opts.Blockers, want.Blockers)
	}
	if opts.Locks != want.Locks {
		t.Fatalf("Locks = %v, want default %v", opts.Locks, want.Locks)
	}
}

func TestLoadGeneratorDefaultsHonorsExplicitBlockersAndLocks(t *testing.T) {
	path := writeYAML(t, "rows: 10\ncols: 10\ncolors: [A, B]\nblockers: false\nlocks: true\n")

	opts, err := LoadGeneratorDefaults(path)
	if err != nil {
		t.Fatalf("LoadGeneratorDefaults failed: %v", err)
	}
	if opts.Blockers {
		t.Fatalf("Blockers = true, want explicit false to be honored")
	}
	if !opts.Locks {
		t.Fatalf("Locks = false, want explicit true to be honored")
	}
}

package config

import (
	"errors"
	"testing"

	"github.com/rybkr/polypuzzle/internal/errs"
)

func TestLoadShapeDefinitionsEmbeddedDefault(t *testing.T) {
	defs, err := LoadShapeDefinitions("")
	if err != nil {
		t.Fatalf("LoadShapeDefinitions failed: %v", err)
	}
	want := map[string]int{"square-4": 4, "line-3": 3, "l-4": 4, "cross-5": 5}
	if len(defs) != len(want) {
		t.Fatalf("got %d shapes, want %d", len(defs), len(want))
	}
	for _, def := range defs {
		n, ok := want[def.ID]
		if !ok {
			t.Errorf("unexpected shape id %q", def.ID)
			continue
		}
		if len(def.Cells) != n {
			t.Errorf("%q has %d cells, want %d", def.ID, len(def.Cells), n)
		}
	}
}

func TestLoadShapeDefinitionsMissingFile(t *testing.T) {
	_, err := LoadShapeDefinitions("/nonexistent/shapes.yaml")
	var tagged *errs.Error
	if !errors.As(err, &tagged) || tagged.Kind != errs.InvalidConfig {
		t.Fatalf("err = %v, want an InvalidConfig *errs.Error", err)
	}
}

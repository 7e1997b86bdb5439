// Package resource locates the catalog seed a server starts with.
package resource

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/amerihn/conference-event-planner/catalog"
	"go.uber.org/zap"
)

// Source names where a seed came from.
type Source string

const (
	SourceInline  Source = "config"
	SourceFile    Source = "file"
	SourceBuiltin Source = "builtin"
)

// SeedLoader reads a catalog seed from a JSON file of the form
// {"venue": [...], "av": [...], "meals": [...]}.
type SeedLoader struct {
	Path string
}

// NewLoader creates a SeedLoader for the given file path.
func NewLoader(path string) *SeedLoader {
	return &SeedLoader{Path: path}
}

// Load reads and validates the seed file.
func (l *SeedLoader) Load() (catalog.Seed, error) {
	var seed catalog.Seed
	if err := loadJSONObject(l.Path, &seed); err != nil {
		return catalog.Seed{}, err
	}
	if seed.Empty() {
		return catalog.Seed{}, fmt.Errorf("resource: %s holds no catalog items", l.Path)
	}
	if err := seed.Validate(); err != nil {
		return catalog.Seed{}, fmt.Errorf("resource: %s: %w", l.Path, err)
	}
	return seed, nil
}

// Resolve picks the seed: an inline seed wins, then the seed file, then the
// built-in catalogs.
func Resolve(inline catalog.Seed, path string, logger *zap.Logger) (catalog.Seed, Source, error) {
	var (
		seed catalog.Seed
		src  Source
	)
	switch {
	case !inline.Empty():
		if err := inline.Validate(); err != nil {
			return catalog.Seed{}, "", fmt.Errorf("resource: inline catalogs: %w", err)
		}
		seed, src = inline, SourceInline
	case path != "":
		s, err := NewLoader(path).Load()
		if err != nil {
			return catalog.Seed{}, "", err
		}
		seed, src = s, SourceFile
	default:
		seed, src = catalog.DefaultSeed(), SourceBuiltin
	}
	logger.Info("catalog seed loaded",
		zap.String("source", string(src)),
		zap.Int("venue", len(seed.Venue)),
		zap.Int("av", len(seed.AV)),
		zap.Int("meals", len(seed.Meals)),
	)
	return seed, src, nil
}

func loadJSONObject[T any](path string, out *T) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("resource: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("resource: parse %s: %w", path, err)
	}
	return nil
}

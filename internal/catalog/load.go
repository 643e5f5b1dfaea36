package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Reference file names, as served under data/.
const (
	FileFighters         = "fighters.json"
	FileArchetypes       = "archetypes.json"
	FilePrimaryWeapons   = "primaryWeapons.json"
	FileSecondaryWeapons = "secondaryWeapons.json"
	FileMounts           = "mounts.json"
	FileBlessings        = "divineBlessings.json"
	FileExtraRunemarks   = "extraRunemarks.json"
	FileRules            = "rules.json"
)

// Files lists every required reference file.
var Files = []string{
	FileFighters, FileArchetypes, FilePrimaryWeapons, FileSecondaryWeapons,
	FileMounts, FileBlessings, FileExtraRunemarks, FileRules,
}

// Source yields the raw bytes of a reference file. Implementations return an
// error wrapping ErrMissingFile when the file does not exist.
type Source interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads reference files from a local directory.
type DirSource string

func (d DirSource) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(string(d), name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, name)
		}
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// Load fetches all eight reference files concurrently and builds a Catalog.
// Any missing or unparsable file fails the whole load.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	var d Data
	targets := map[string]any{
		FileFighters:         &d.Fighters,
		FileArchetypes:       &d.Archetypes,
		FilePrimaryWeapons:   &d.PrimaryWeapons,
		FileSecondaryWeapons: &d.SecondaryWeapons,
		FileMounts:           &d.Mounts,
		FileBlessings:        &d.Blessings,
		FileExtraRunemarks:   &d.ExtraRunemarks,
		FileRules:            &d.Rules,
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range Files {
		out := targets[name]
		g.Go(func() error {
			raw, err := src.ReadFile(gctx, name)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(raw, out); err != nil {
				return fmt.Errorf("%w: parsing %s: %v", ErrInvalidData, name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading reference data: %w", err)
	}

	c, err := New(d)
	if err != nil {
		return nil, fmt.Errorf("loading reference data: %w", err)
	}

	slog.Info("loaded reference data",
		"fighters", len(d.Fighters),
		"archetypes", len(d.Archetypes),
		"primaryWeapons", len(d.PrimaryWeapons),
		"secondaryWeapons", len(d.SecondaryWeapons),
		"mounts", len(d.Mounts),
		"blessings", len(d.Blessings),
		"extraRunemarks", len(d.ExtraRunemarks))
	return c, nil
}

// LoadDir is Load over a DirSource.
func LoadDir(ctx context.Context, dir string) (*Catalog, error) {
	return Load(ctx, DirSource(dir))
}

package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pefman/warcry-anvil/internal/game"
)

var ErrNotFound = errors.New("store: build not found")

const recordExt = ".yaml"

// Record is a persisted build: the selection fields plus when it was saved.
// It encodes as a flat key: value block.
type Record struct {
	game.Selection `yaml:",inline"`
	SavedAt        time.Time `json:"savedAt,omitempty" yaml:"savedAt,omitempty"`
}

// EncodeRecord renders rec as YAML.
func EncodeRecord(rec Record) ([]byte, error) {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode build record: %w", err)
	}
	return data, nil
}

// DecodeRecord parses a YAML build record. JSON is accepted as well, being
// a subset of YAML. Unknown keys are ignored.
func DecodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode build record: %w", err)
	}
	return rec, nil
}

// Store keeps named builds in memory and, when dir is set, mirrors them to
// one file per build. Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	dir    string
	builds map[string]Record
}

// New returns a store rooted at dir. An empty dir keeps builds in memory only.
func New(dir string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create build dir: %w", err)
		}
	}
	return &Store{dir: dir, builds: map[string]Record{}}, nil
}

// Key maps a build name to its storage key: letters, digits, dash and
// underscore survive, anything else becomes a dash.
func Key(name string) string {
	b := make([]rune, 0, len(name))
	for _, r := range strings.TrimSpace(name) {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b = append(b, r)
		} else {
			b = append(b, '-')
		}
	}
	out := string(b)
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	out = strings.Trim(out, "-")
	if out == "" {
		out = "build"
	}
	return out
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+recordExt)
}

// Save stores sel under name, replacing any earlier build of the same key.
func (s *Store) Save(name string, sel game.Selection) (Record, error) {
	key := Key(name)
	rec := Record{Selection: sel, SavedAt: time.Now().UTC().Truncate(time.Second)}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir != "" {
		if err := s.write(key, rec); err != nil {
			return Record{}, err
		}
	}
	s.builds[key] = rec
	return rec, nil
}

// write replaces the build file atomically.
func (s *Store) write(key string, rec Record) error {
	data, err := EncodeRecord(rec)
	if err != nil {
		return err
	}
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write build %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write build %s: %w", key, err)
	}
	return nil
}

// Get returns the build saved under name, loading it from disk if it is
// not yet in memory.
func (s *Store) Get(name string) (Record, error) {
	key := Key(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.builds[key]; ok {
		return rec, nil
	}
	if s.dir == "" {
		return Record{}, ErrNotFound
	}
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("read build %s: %w", key, err)
	}
	rec, err := DecodeRecord(data)
	if err != nil {
		return Record{}, fmt.Errorf("build %s: %w", key, err)
	}
	s.builds[key] = rec
	return rec, nil
}

// List returns the keys of every saved build, sorted.
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.builds))
	for k := range s.builds {
		keys = append(keys, k)
	}
	if s.dir != "" {
		entries, err := os.ReadDir(s.dir)
		if err != nil {
			return nil, fmt.Errorf("list builds: %w", err)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, recordExt) {
				continue
			}
			if k := strings.TrimSuffix(name, recordExt); !slices.Contains(keys, k) {
				keys = append(keys, k)
			}
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Delete removes the build saved under name.
func (s *Store) Delete(name string) error {
	key := Key(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	_, inMemory := s.builds[key]
	delete(s.builds, key)
	if s.dir == "" {
		if !inMemory {
			return ErrNotFound
		}
		return nil
	}
	err := os.Remove(s.path(key))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if !inMemory {
			return ErrNotFound
		}
		return nil
	case err != nil:
		return fmt.Errorf("delete build %s: %w", key, err)
	}
	return nil
}

// Package artifact loads compiled contract metadata from a build directory.
//
// Artifacts are keyed by file name only: "ERC20.sol" is looked up as
// "ERC20.json". One family of artifacts is stored under a prefixed name, so a
// miss is retried once with the configured prefix ("ERC20" + "Detailed.json").
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when neither the plain nor the prefixed key exists.
var ErrNotFound = errors.New("compiled metadata not found")

// Metadata is the part of a build artifact the tree needs.
type Metadata struct {
	Source     string `json:"source"`
	SourcePath string `json:"sourcePath"`
}

// Store resolves a short file name to its metadata.
type Store interface {
	Lookup(name string) (Metadata, error)
}

// Options configures a DirStore.
type Options struct {
	Dir            string
	Extension      string
	FallbackPrefix string
}

// DirStore reads artifacts from a directory of JSON files.
type DirStore struct {
	dir    string
	ext    string
	prefix string
}

// NewDirStore returns a DirStore; Extension defaults to ".json".
func NewDirStore(opts Options) *DirStore {
	ext := opts.Extension
	if ext == "" {
		ext = ".json"
	}
	return &DirStore{dir: opts.Dir, ext: ext, prefix: opts.FallbackPrefix}
}

// Key derives the artifact file name for a source file name.
func (s *DirStore) Key(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + s.ext
}

// Lookup loads the artifact for name. A miss on both keys wraps ErrNotFound;
// an artifact that exists but does not decode is reported as is.
func (s *DirStore) Lookup(name string) (Metadata, error) {
	key := s.Key(name)
	meta, err := s.read(key)
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		return meta, err
	}
	if s.prefix == "" {
		return Metadata{}, fmt.Errorf("%s: %w (tried %s)", name, ErrNotFound, key)
	}
	fallback := s.prefix + key
	meta, err = s.read(fallback)
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		return meta, err
	}
	return Metadata{}, fmt.Errorf("%s: %w (tried %s, %s)", name, ErrNotFound, key, fallback)
}

func (s *DirStore) read(key string) (Metadata, error) {
	path := filepath.Join(s.dir, key)
	raw, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, err
	}
	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Metadata{}, fmt.Errorf("%s: failed to decode artifact: %w", path, err)
	}
	return meta, nil
}

// MapStore is an in-memory Store keyed by file name, handy for tests and for
// callers that already hold decoded artifacts.
type MapStore map[string]Metadata

func (m MapStore) Lookup(name string) (Metadata, error) {
	meta, ok := m[name]
	if !ok {
		return Metadata{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return meta, nil
}

package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the decoded soltree.toml. Relative directories are resolved
// against the directory holding the manifest by Resolve.
type Config struct {
	Source    SourceConfig   `toml:"source"`
	Artifacts ArtifactConfig `toml:"artifacts"`
	Tree      TreeConfig     `toml:"tree"`
	Output    OutputConfig   `toml:"output"`
}

// SourceConfig describes where contract sources live.
type SourceConfig struct {
	Dir       string `toml:"dir"`
	Extension string `toml:"extension"`
	Marker    string `toml:"marker"`
}

// ArtifactConfig describes the compiled metadata store.
type ArtifactConfig struct {
	Dir            string `toml:"dir"`
	Extension      string `toml:"extension"`
	FallbackPrefix string `toml:"fallback_prefix"`
	CacheSize      int    `toml:"cache_size"`
}

// TreeConfig controls the emitted tree shape.
type TreeConfig struct {
	RootLabel  string `toml:"root_label"`
	TrimPrefix string `toml:"trim_prefix"`
	MaxDepth   int    `toml:"max_depth"`
}

// OutputConfig controls where and how the tree is written.
type OutputConfig struct {
	Path   string `toml:"path"`
	Format string `toml:"format"`
}

var (
	// ErrSourceDirMissing indicates that [source].dir is set but empty.
	ErrSourceDirMissing = errors.New("empty [source].dir")
	// ErrArtifactDirMissing indicates that [artifacts].dir is set but empty.
	ErrArtifactDirMissing = errors.New("empty [artifacts].dir")
)

// DefaultConfig matches the layout of an installed openzeppelin-solidity package.
func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{
			Dir:       "node_modules/openzeppelin-solidity/contracts",
			Extension: ".sol",
			Marker:    "openzeppelin-solidity/",
		},
		Artifacts: ArtifactConfig{
			Dir:            "node_modules/openzeppelin-solidity/build/contracts",
			Extension:      ".json",
			FallbackPrefix: "ERC20",
		},
		Tree: TreeConfig{
			RootLabel:  "contracts",
			TrimPrefix: "contracts/",
			MaxDepth:   64,
		},
		Output: OutputConfig{
			Path:   "src/assets/static/json/openzeppelin.json",
			Format: "json",
		},
	}
}

// LoadConfig decodes a manifest on top of DefaultConfig. Keys that are present
// but blank are rejected for the two directories; other blank values keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if meta.IsDefined("source", "dir") && strings.TrimSpace(cfg.Source.Dir) == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrSourceDirMissing)
	}
	if meta.IsDefined("artifacts", "dir") && strings.TrimSpace(cfg.Artifacts.Dir) == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrArtifactDirMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Tree.MaxDepth < 0 {
		return Config{}, fmt.Errorf("%s: [tree].max_depth must not be negative", path)
	}
	if cfg.Artifacts.CacheSize < 0 {
		return Config{}, fmt.Errorf("%s: [artifacts].cache_size must not be negative", path)
	}
	return cfg.Resolve(filepath.Dir(path)), nil
}

// LoadProjectConfig finds soltree.toml starting at startDir and loads it.
// Without a manifest the defaults are resolved against startDir.
func LoadProjectConfig(startDir string) (Config, string, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		base, absErr := filepath.Abs(startDir)
		if absErr != nil {
			return Config{}, "", fmt.Errorf("failed to resolve start directory: %w", absErr)
		}
		return DefaultConfig().Resolve(base), "", nil
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return Config{}, manifestPath, err
	}
	return cfg, manifestPath, nil
}

// Resolve anchors relative directories at base.
func (c Config) Resolve(base string) Config {
	c.Source.Dir = anchor(base, c.Source.Dir)
	c.Artifacts.Dir = anchor(base, c.Artifacts.Dir)
	c.Output.Path = anchor(base, c.Output.Path)
	return c
}

func anchor(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, filepath.FromSlash(p))
}

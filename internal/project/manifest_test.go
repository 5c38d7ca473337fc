package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, data string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write %s: %v", ManifestName, err)
	}
	return path
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, `# test manifest
[source]
dir = "vendor/contracts"

[artifacts]
fallback_prefix = "ERC721"
cache_size = 32

[output]
path = "out/tree.mp"
format = "msgpack"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if want := filepath.Join(root, "vendor", "contracts"); cfg.Source.Dir != want {
		t.Fatalf("cfg.Source.Dir = %q, want %q", cfg.Source.Dir, want)
	}
	if cfg.Source.Extension != ".sol" {
		t.Fatalf("cfg.Source.Extension = %q, want .sol", cfg.Source.Extension)
	}
	if cfg.Artifacts.FallbackPrefix != "ERC721" {
		t.Fatalf("cfg.Artifacts.FallbackPrefix = %q, want ERC721", cfg.Artifacts.FallbackPrefix)
	}
	if cfg.Artifacts.CacheSize != 32 {
		t.Fatalf("cfg.Artifacts.CacheSize = %d, want 32", cfg.Artifacts.CacheSize)
	}
	if want := filepath.Join(root, "node_modules", "openzeppelin-solidity", "build", "contracts"); cfg.Artifacts.Dir != want {
		t.Fatalf("cfg.Artifacts.Dir = %q, want %q", cfg.Artifacts.Dir, want)
	}
	if cfg.Output.Format != "msgpack" {
		t.Fatalf("cfg.Output.Format = %q, want msgpack", cfg.Output.Format)
	}
	if cfg.Tree.RootLabel != "contracts" || cfg.Tree.MaxDepth != 64 {
		t.Fatalf("tree defaults lost: %+v", cfg.Tree)
	}
}

func TestLoadConfigRejectsBlankDir(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[artifacts]\ndir = \"  \"\n")
	_, err := LoadConfig(path)
	if !errors.Is(err, ErrArtifactDirMissing) {
		t.Fatalf("LoadConfig error = %v, want %v", err, ErrArtifactDirMissing)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[tree]\nroot = \"x\"\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoadProjectConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[tree]\nroot_label = \"lib\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfg, manifest, err := LoadProjectConfig(nested)
	if err != nil {
		t.Fatalf("LoadProjectConfig: %v", err)
	}
	if manifest != filepath.Join(root, ManifestName) {
		t.Fatalf("manifest = %q, want %q", manifest, filepath.Join(root, ManifestName))
	}
	if cfg.Tree.RootLabel != "lib" {
		t.Fatalf("cfg.Tree.RootLabel = %q, want lib", cfg.Tree.RootLabel)
	}
}

func TestLoadProjectConfigWithoutManifest(t *testing.T) {
	root := t.TempDir()
	cfg, manifest, err := LoadProjectConfig(root)
	if err != nil {
		t.Fatalf("LoadProjectConfig: %v", err)
	}
	if manifest != "" {
		t.Fatalf("manifest = %q, want empty", manifest)
	}
	if want := filepath.Join(root, "src", "assets", "static", "json", "openzeppelin.json"); cfg.Output.Path != want {
		t.Fatalf("cfg.Output.Path = %q, want %q", cfg.Output.Path, want)
	}
}

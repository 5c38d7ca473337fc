package scan

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("pragma solidity ^0.4.24;\n"), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestListSourceFiles(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "contracts")
	for _, rel := range []string{
		"token/ERC20/ERC20.sol",
		"math/SafeMath.sol",
		"Migrations.sol",
		"README.md",
		".git/ignored.sol",
		"mocks/.hidden/Skip.sol",
	} {
		writeFile(t, filepath.Join(dir, filepath.FromSlash(rel)))
	}

	got, err := ListSourceFiles(dir, ".sol")
	if err != nil {
		t.Fatalf("ListSourceFiles: %v", err)
	}
	want := []string{
		"contracts/Migrations.sol",
		"contracts/math/SafeMath.sol",
		"contracts/token/ERC20/ERC20.sol",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ListSourceFiles = %q, want %q", got, want)
	}
}

func TestListSourceFilesTrailingSlash(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "A.sol"))

	got, err := ListSourceFiles(filepath.Join(root, "src")+string(filepath.Separator), ".sol")
	if err != nil {
		t.Fatalf("ListSourceFiles: %v", err)
	}
	if len(got) != 1 || got[0] != "src/A.sol" {
		t.Fatalf("ListSourceFiles = %q, want [src/A.sol]", got)
	}
}

func TestListSourceFilesMissingDir(t *testing.T) {
	if _, err := ListSourceFiles(filepath.Join(t.TempDir(), "absent"), ".sol"); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestListSourceFilesNotADir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.sol")
	writeFile(t, path)
	if _, err := ListSourceFiles(path, ".sol"); err == nil {
		t.Fatalf("expected error for a regular file")
	}
}

package emit

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type doc struct {
	Name     string `json:"name" msgpack:"name"`
	Source   string `json:"source" msgpack:"source"`
	Children []doc  `json:"children,omitempty" msgpack:"children,omitempty"`
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
	}{
		{"", FormatJSON},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"msgpack", FormatMsgpack},
		{" mp ", FormatMsgpack},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseFormat(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if _, err := ParseFormat("yaml"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("ParseFormat(yaml) error = %v, want ErrUnknownFormat", err)
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "static", "json", "tree.json")
	in := doc{Name: "contracts", Children: []doc{{Name: "A.sol", Source: "a < b && c > d"}}}
	if err := Write(path, in, FormatJSON); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := `{"name":"contracts","source":"","children":[{"name":"A.sol","source":"a < b && c > d"}]}`
	if string(data) != want {
		t.Fatalf("output = %s, want %s", data, want)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("output dir has %d entries, want 1 (temp file left behind?)", len(entries))
	}
}

func TestWriteMsgpack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.mp")
	in := doc{Name: "contracts", Children: []doc{{Name: "A.sol"}}}
	if err := Write(path, in, FormatMsgpack); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var out doc
	if err := msgpack.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Name != "contracts" || len(out.Children) != 1 || out.Children[0].Name != "A.sol" {
		t.Fatalf("decoded = %+v", out)
	}
}

func TestWriteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := Write(path, doc{Name: "fresh"}, FormatJSON); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "fresh") {
		t.Fatalf("output = %s, want fresh document", data)
	}
}

func TestWriteFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// A regular file where a directory is expected makes MkdirAll fail.
	if err := Write(filepath.Join(blocker, "tree.json"), doc{}, FormatJSON); err == nil {
		t.Fatalf("expected error when the output directory cannot be created")
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	var sb strings.Builder
	if err := Encode(&sb, doc{}, Format("xml")); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("Encode error = %v, want ErrUnknownFormat", err)
	}
}

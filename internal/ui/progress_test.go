package ui

import (
	"fmt"
	"strings"
	"testing"

	"soltree/internal/tree"
)

func newModel(files ...string) *progressModel {
	return NewProgressModel("build", files, nil).(*progressModel)
}

func TestApplyEventCounts(t *testing.T) {
	m := newModel("contracts/A.sol", "contracts/B.sol")
	m.applyEvent(tree.Event{File: "contracts/A.sol", Status: tree.StatusWorking})
	m.applyEvent(tree.Event{File: "contracts/A.sol", Status: tree.StatusDone, Edges: 3})
	m.applyEvent(tree.Event{File: "contracts/B.sol", Status: tree.StatusError})
	m.applyEvent(tree.Event{File: "contracts/B.sol", Status: tree.StatusError})
	m.applyEvent(tree.Event{File: "contracts/Unknown.sol", Status: tree.StatusDone})

	if m.settled != 2 || m.failed != 1 || m.edges != 3 {
		t.Fatalf("settled=%d failed=%d edges=%d, want 2 1 3", m.settled, m.failed, m.edges)
	}
}

func TestRecentKeepsLastRows(t *testing.T) {
	var files []string
	for i := range visibleRows + 3 {
		files = append(files, fmt.Sprintf("contracts/F%d.sol", i))
	}
	m := newModel(files...)
	for _, f := range files {
		m.applyEvent(tree.Event{File: f, Status: tree.StatusDone})
	}
	if len(m.recent) != visibleRows {
		t.Fatalf("recent = %d rows, want %d", len(m.recent), visibleRows)
	}
	if m.recent[len(m.recent)-1] != len(files)-1 {
		t.Fatalf("last recent = %d, want %d", m.recent[len(m.recent)-1], len(files)-1)
	}

	m.applyEvent(tree.Event{File: files[len(files)-2], Status: tree.StatusDone})
	if m.recent[len(m.recent)-1] != len(files)-2 || len(m.recent) != visibleRows {
		t.Fatalf("recent after touch = %v", m.recent)
	}
}

func TestViewMentionsMissing(t *testing.T) {
	m := newModel("contracts/A.sol")
	m.applyEvent(tree.Event{File: "contracts/A.sol", Status: tree.StatusError})
	m.done = true
	view := m.View()
	for _, want := range []string{"done: build", "1/1 files", "1 without metadata", "contracts/A.sol"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View missing %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"contracts/A.sol", 0, "contracts/A.sol"},
		{"contracts/A.sol", 40, "contracts/A.sol"},
		{"contracts/token/ERC20.sol", 10, "contrac..."},
		{"contracts", 2, "co"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

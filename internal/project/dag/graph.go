// Package dag checks the direct import graph of a source tree: imports of
// files that are not part of it, and files that sit on an import cycle.
package dag

import (
	"fmt"
	"slices"
	"strings"

	"soltree/internal/diag"
)

type Graph struct {
	Edges   [][]FileID // Edges[from] = []to
	Indeg   []int      // in-degree over present files only
	Present []bool     // the file is in the source tree, not only imported
}

// BuildGraph links every present file to its imports. Self imports and
// repeated imports are dropped. Imports of paths that are not present are
// reported through r and left out of the in-degrees.
func BuildGraph(idx FileIndex, metas []FileMeta, r diag.Reporter) Graph {
	n := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]FileID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
	}
	imports := make([][]string, n)
	for _, meta := range metas {
		id, ok := idx.NameToID[meta.Path]
		if !ok {
			continue
		}
		if g.Present[int(id)] {
			diag.Warn(r, diag.ProjDuplicatePath, meta.Path, "file declared more than once")
			continue
		}
		g.Present[int(id)] = true
		imports[int(id)] = meta.Imports
	}

	for from := range n {
		if !g.Present[from] {
			continue
		}
		seen := make(map[FileID]struct{}, len(imports[from]))
		for _, dep := range imports[from] {
			to, ok := idx.NameToID[dep]
			if !ok || int(to) == from {
				continue
			}
			if _, dup := seen[to]; dup {
				continue
			}
			seen[to] = struct{}{}
			if !g.Present[int(to)] {
				diag.Warn(r, diag.ProjMissingImport, idx.IDToName[from],
					fmt.Sprintf("imports %s, which is not in the source tree", dep))
				continue
			}
			g.Edges[from] = append(g.Edges[from], to)
			g.Indeg[int(to)]++
		}
		slices.Sort(g.Edges[from])
	}
	return g
}

// ReportCycles reports every file left over by the topological sort.
func ReportCycles(idx FileIndex, topo *Topo, r diag.Reporter) {
	if topo == nil || !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[int(id)])
	}
	summary := strings.Join(names, ", ")
	for _, name := range names {
		diag.Warn(r, diag.ProjImportCycle, name, "file is part of an import cycle among: "+summary)
	}
}

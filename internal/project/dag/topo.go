package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

type Topo struct {
	Order   []FileID   // importers before the files they import
	Batches [][]FileID // layers of files with no pending importer
	Cyclic  bool
	Cycles  []FileID // files that never reached in-degree zero
}

// ToposortKahn sorts the present files of g. Files on a cycle, and files only
// reachable through one, are left out of Order and listed in Cycles.
func ToposortKahn(g Graph) *Topo {
	n := len(g.Edges)
	indeg := slices.Clone(g.Indeg)
	topo := &Topo{Order: make([]FileID, 0, n)}

	active := 0
	current := make([]FileID, 0, n)
	for i := range n {
		if !g.Present[i] {
			continue
		}
		active++
		if indeg[i] == 0 {
			current = append(current, toFileID(i))
		}
	}

	for len(current) > 0 {
		batch := slices.Clone(current)
		topo.Batches = append(topo.Batches, batch)

		var next []FileID
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			for _, to := range g.Edges[int(id)] {
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) != active {
		topo.Cyclic = true
		for i := range n {
			if g.Present[i] && indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, toFileID(i))
			}
		}
	}
	return topo
}

// DependencyOrder returns Order reversed: every file after the files it
// imports.
func (t *Topo) DependencyOrder() []FileID {
	out := slices.Clone(t.Order)
	slices.Reverse(out)
	return out
}

func toFileID(i int) FileID {
	id, err := safecast.Conv[FileID](i)
	if err != nil {
		panic(fmt.Errorf("file id overflow: %w", err))
	}
	return id
}

package dag

import (
	"sort"
)

// FileID numbers files of the import graph in path order.
type FileID uint32

// FileMeta is one source file and the resolved paths of its direct imports.
type FileMeta struct {
	Path    string
	Imports []string
}

type FileIndex struct {
	NameToID map[string]FileID
	IDToName []string
}

// BuildIndex collects every path that is declared or imported, sorts them and
// numbers them in that order.
func BuildIndex(metas []FileMeta) FileIndex {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Path != "" {
			uniq[meta.Path] = struct{}{}
		}
		for _, dep := range meta.Imports {
			if dep != "" {
				uniq[dep] = struct{}{}
			}
		}
	}

	paths := make([]string, 0, len(uniq))
	for path := range uniq {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	nameToID := make(map[string]FileID, len(paths))
	for i, path := range paths {
		nameToID[path] = FileID(i)
	}
	return FileIndex{NameToID: nameToID, IDToName: paths}
}

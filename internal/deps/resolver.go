// Package deps resolves the transitive imports of a contract source file.
package deps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"soltree/internal/artifact"
	"soltree/internal/diag"
	"soltree/internal/project"
	"soltree/internal/trace"
)

// DefaultMaxDepth bounds recursion when Options.MaxDepth is zero.
const DefaultMaxDepth = 64

// Edge is a resolved reference from one file to another. Its identity for
// deduplication is Path.
type Edge struct {
	FileName string `json:"fileName" msgpack:"fileName"`
	Path     string `json:"absolutePath" msgpack:"absolutePath"`
}

// Options configures a Resolver.
type Options struct {
	Store artifact.Store
	// Marker cuts artifact origin paths down to repository-relative paths.
	Marker string
	// TrimPrefix is the root directory segment removed from displayed paths.
	TrimPrefix string
	MaxDepth   int
	Reporter   diag.Reporter
}

// Resolver walks import statements through the artifact store. A Resolver
// holds no per-file state and can be reused for every file of a build.
type Resolver struct {
	store    artifact.Store
	marker   string
	trim     int
	maxDepth int
	reporter diag.Reporter
}

func NewResolver(opts Options) *Resolver {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Resolver{
		store:    opts.Store,
		marker:   opts.Marker,
		trim:     len(opts.TrimPrefix),
		maxDepth: depth,
		reporter: reporter,
	}
}

// traversal is the state of one top-level resolution: every path seen so far,
// and the chain of files currently being expanded.
type traversal struct {
	root      string
	visited   map[string]struct{}
	resolving map[string]struct{}
	chain     []string
}

// ResolveFile returns the display-ready dependency list of the file whose
// metadata is meta and whose repository-relative path is ownPath.
func (r *Resolver) ResolveFile(ctx context.Context, meta artifact.Metadata, ownPath string) []Edge {
	edges := r.Resolve(ctx, meta, ownPath)
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = Edge{FileName: e.FileName, Path: project.TrimDisplayPrefix(e.Path, r.trim)}
	}
	return out
}

// Resolve returns the transitive dependencies of ownPath with repository
// relative paths: direct imports first, then the closure of each direct
// import in turn. Each path appears once.
func (r *Resolver) Resolve(ctx context.Context, meta artifact.Metadata, ownPath string) []Edge {
	tr := &traversal{
		root:      ownPath,
		visited:   make(map[string]struct{}),
		resolving: make(map[string]struct{}),
	}
	return r.resolve(ctx, tr, meta, ownPath)
}

func (r *Resolver) resolve(ctx context.Context, tr *traversal, meta artifact.Metadata, ownPath string) []Edge {
	key := project.CanonicalKey(ownPath)
	tr.resolving[key] = struct{}{}
	tr.chain = append(tr.chain, ownPath)
	defer func() {
		delete(tr.resolving, key)
		tr.chain = tr.chain[:len(tr.chain)-1]
	}()

	literals, skipped := ExtractImports(meta.Source)
	for _, line := range skipped {
		diag.Warn(r.reporter, diag.ProjImportNoLiteral, ownPath,
			fmt.Sprintf("line %d: import without a quoted path", line))
	}

	var edges []Edge
	for _, lit := range literals {
		resolved := project.ResolveDependencyPath(lit, ownPath)
		depKey := project.CanonicalKey(resolved)
		if _, seen := tr.visited[depKey]; seen {
			continue
		}
		tr.visited[depKey] = struct{}{}
		edges = append(edges, Edge{FileName: project.BaseName(lit), Path: resolved})
	}
	if len(edges) == 0 {
		return edges
	}

	t := trace.FromContext(ctx)
	direct := edges
	for _, dep := range direct {
		if _, onStack := tr.resolving[project.CanonicalKey(dep.Path)]; onStack {
			r.reportCycle(tr, dep.Path)
			continue
		}
		if len(tr.chain) >= r.maxDepth {
			diag.Warn(r.reporter, diag.ProjDepthExceeded, tr.root,
				fmt.Sprintf("import chain deeper than %d at %s; %s not expanded", r.maxDepth, ownPath, dep.Path))
			continue
		}
		depMeta, err := r.store.Lookup(dep.FileName)
		if err != nil {
			r.reportLookup(ownPath, dep.FileName, err)
			continue
		}
		span := trace.Begin(t, trace.ScopeDep, "dep:"+dep.FileName, trace.CurrentSpan(ctx))
		depPath := project.LocalPath(depMeta.SourcePath, r.marker)
		nested := r.resolve(trace.WithSpan(ctx, span.ID()), tr, depMeta, depPath)
		span.WithExtra("edges", fmt.Sprint(len(nested))).End("")
		edges = append(edges, nested...)
	}
	return edges
}

func (r *Resolver) reportCycle(tr *traversal, target string) {
	start := 0
	targetKey := project.CanonicalKey(target)
	for i, p := range tr.chain {
		if project.CanonicalKey(p) == targetKey {
			start = i
			break
		}
	}
	cycle := append(append([]string(nil), tr.chain[start:]...), target)
	diag.Warn(r.reporter, diag.ProjImportCycle, tr.root,
		"import cycle: "+strings.Join(cycle, " -> "))
}

func (r *Resolver) reportLookup(importer, name string, err error) {
	if errors.Is(err, artifact.ErrNotFound) {
		diag.Warn(r.reporter, diag.IOMetadataNotFound, importer, err.Error())
		return
	}
	diag.Error(r.reporter, diag.IOArtifactDecode, importer, err.Error())
}

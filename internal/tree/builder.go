package tree

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"soltree/internal/artifact"
	"soltree/internal/deps"
	"soltree/internal/diag"
	"soltree/internal/project"
	"soltree/internal/trace"
)

// ErrNoSources is returned by Build when there is nothing to put in the tree.
var ErrNoSources = errors.New("no source files")

// Options configures a Builder.
type Options struct {
	Store    artifact.Store
	Resolver *deps.Resolver
	// Extension marks the segments that are files, e.g. ".sol".
	Extension string
	// RootLabel replaces the name of the first segment of every path.
	RootLabel string
	// Marker cuts artifact origin paths down to repository-relative paths.
	Marker   string
	Reporter diag.Reporter
	Progress ProgressSink
}

// Builder assembles one tree. Its state (path map, parent stack, id counter)
// is reset at the start of every Build call.
type Builder struct {
	opts Options

	wrapper *Dir
	nodes   map[string]Node
	stack   []string
	next    int
}

func NewBuilder(opts Options) *Builder {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	if opts.RootLabel == "" {
		opts.RootLabel = "contracts"
	}
	return &Builder{opts: opts}
}

// Build creates the tree for paths, in input order. Every path must be slash
// separated and start with the source root directory; that first segment is
// shared by all paths and renamed to RootLabel.
func (b *Builder) Build(ctx context.Context, paths []string) (*Dir, error) {
	b.reset()
	t := trace.FromContext(ctx)
	span := trace.Begin(t, trace.ScopePhase, "build", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span.ID())

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			span.End("canceled")
			return nil, err
		}
		if p == "" {
			continue
		}
		if err := b.insert(ctx, p); err != nil {
			span.End(err.Error())
			return nil, err
		}
	}

	if len(b.wrapper.Children) == 0 {
		span.End("empty")
		return nil, ErrNoSources
	}
	root, ok := b.wrapper.Children[0].(*Dir)
	if !ok {
		span.End("root is a file")
		return nil, fmt.Errorf("tree root %q is a file", b.wrapper.Children[0].NodeName())
	}
	span.WithExtra("nodes", fmt.Sprint(b.next)).End("")
	return root, nil
}

func (b *Builder) reset() {
	b.wrapper = &Dir{Children: []Node{}}
	b.nodes = map[string]Node{"": b.wrapper}
	b.stack = []string{""}
	b.next = 0
}

// insert walks one path. Segment i is keyed by "/" plus segments 1..i, so the
// first segment of every path maps to the same root key "/".
func (b *Builder) insert(ctx context.Context, p string) error {
	segments := strings.Split(p, "/")
	defer func() { b.stack = b.stack[:1] }()

	for i := range segments {
		key := "/" + strings.Join(segments[1:i+1], "/")
		if existing, ok := b.nodes[key]; ok {
			if _, isFile := existing.(*File); isFile && i == len(segments)-1 {
				diag.Warn(b.opts.Reporter, diag.ProjDuplicatePath, p, "source path listed more than once")
			}
			b.stack = append(b.stack, key)
			continue
		}

		parent, ok := b.nodes[b.stack[len(b.stack)-1]].(*Dir)
		if !ok {
			diag.Warn(b.opts.Reporter, diag.ProjPathConflict, p,
				fmt.Sprintf("%s is a file and cannot contain %s", strings.Join(segments[:i], "/"), segments[i]))
			return nil
		}

		id, err := b.nextID()
		if err != nil {
			return err
		}
		var node Node
		if project.HasExtension(key, b.opts.Extension) {
			node = b.newFile(ctx, p, segments[i], id)
		} else {
			name := segments[i]
			if i == 0 {
				name = b.opts.RootLabel
			}
			node = &Dir{Name: name, ID: id, Toggled: i == 0, Children: []Node{}}
		}
		parent.Children = append(parent.Children, node)
		b.nodes[key] = node
		b.stack = append(b.stack, key)
	}
	return nil
}

func (b *Builder) nextID() (NodeID, error) {
	id, err := safecast.Conv[NodeID](b.next)
	if err != nil {
		return 0, fmt.Errorf("node id overflow: %w", err)
	}
	b.next++
	return id, nil
}

// newFile looks up the file's metadata and resolves its dependencies. A
// missing artifact still yields a node, with the input path and no source.
func (b *Builder) newFile(ctx context.Context, inputPath, name string, id NodeID) *File {
	t := trace.FromContext(ctx)
	span := trace.Begin(t, trace.ScopeFile, "file:"+name, trace.CurrentSpan(ctx))
	b.progress(Event{File: inputPath, Status: StatusWorking})

	file := &File{Name: name, ID: id, Path: inputPath, Dependencies: []deps.Edge{}}
	if b.opts.Store == nil {
		b.progress(Event{File: inputPath, Status: StatusError})
		span.End("no artifact store")
		return file
	}
	meta, err := b.opts.Store.Lookup(name)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			diag.Warn(b.opts.Reporter, diag.IOMetadataNotFound, inputPath, err.Error())
		} else {
			diag.Error(b.opts.Reporter, diag.IOArtifactDecode, inputPath, err.Error())
		}
		b.progress(Event{File: inputPath, Status: StatusError})
		span.End("metadata missing")
		return file
	}

	file.Source = meta.Source
	file.Path = project.LocalPath(meta.SourcePath, b.opts.Marker)
	if b.opts.Resolver != nil {
		resolved := b.opts.Resolver.ResolveFile(trace.WithSpan(ctx, span.ID()), meta, file.Path)
		file.Dependencies = append(file.Dependencies, resolved...)
	}
	b.progress(Event{File: inputPath, Status: StatusDone, Edges: len(file.Dependencies)})
	span.WithExtra("edges", fmt.Sprint(len(file.Dependencies))).End("")
	return file
}

func (b *Builder) progress(ev Event) {
	if b.opts.Progress != nil {
		b.opts.Progress.OnEvent(ev)
	}
}

// Package tree turns a flat list of source paths into the nested document the
// contract browser renders.
package tree

import "soltree/internal/deps"

// NodeID numbers nodes in creation order, starting at zero.
type NodeID uint32

// Node is either a *Dir or a *File.
type Node interface {
	NodeID() NodeID
	NodeName() string
	isNode()
}

// Dir is a directory. Only the root is toggled (expanded by default).
type Dir struct {
	Name     string `json:"name" msgpack:"name"`
	ID       NodeID `json:"id" msgpack:"id"`
	Toggled  bool   `json:"toggled" msgpack:"toggled"`
	Children []Node `json:"children" msgpack:"children"`
}

// File is a source file with its resolved dependencies.
type File struct {
	Name         string      `json:"name" msgpack:"name"`
	ID           NodeID      `json:"id" msgpack:"id"`
	Source       string      `json:"source" msgpack:"source"`
	Path         string      `json:"path" msgpack:"path"`
	Dependencies []deps.Edge `json:"dependencies" msgpack:"dependencies"`
}

func (d *Dir) NodeID() NodeID { return d.ID }

func (d *Dir) NodeName() string { return d.Name }

func (*Dir) isNode() {}

func (f *File) NodeID() NodeID { return f.ID }

func (f *File) NodeName() string { return f.Name }

func (*File) isNode() {}

// Walk visits n and its descendants depth first, parents before children.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	if d, ok := n.(*Dir); ok {
		for _, child := range d.Children {
			Walk(child, fn)
		}
	}
}

// Stats counts the nodes of a tree.
type Stats struct {
	Dirs  int
	Files int
	Edges int
}

// Count returns the Stats of the tree rooted at n.
func Count(n Node) Stats {
	var s Stats
	Walk(n, func(n Node) {
		switch v := n.(type) {
		case *Dir:
			s.Dirs++
		case *File:
			s.Files++
			s.Edges += len(v.Dependencies)
		}
	})
	return s
}

// Package peg implements a parsing-expression-grammar combinator engine.
// Callers assemble a tree of parser nodes, wrap it in a Grammar and match
// input text against it. Alternatives are tried in order and the first
// success wins; failed attempts backtrack by restoring the scanner offset.
package peg

// Attrs holds the attributes shared by every parser node.
type Attrs struct {
	// Name is the capture label. Named nodes produce entries in the
	// match tree; unnamed nodes match silently.
	Name string
	// InErrors controls whether the node may be reported in error
	// diagnostics when it fails at the furthest reached offset.
	InErrors bool
	// InMatchTree controls whether the node may contribute entries to
	// produced match trees.
	InMatchTree bool
}

// Node is a parser expression. Parse attempts a match at the context's
// current scanner offset and returns the number of runes consumed, or -1
// on failure. A failed Parse leaves both the scanner offset and the
// current match frame unchanged.
type Node interface {
	Parse(ctx *Context) int

	// Children returns the direct child nodes, including separators.
	Children() []Node

	// Replace rewires every direct child equal to old to point at with,
	// preserving position and order.
	Replace(old, with Node)

	// Attrs returns the node's mutable attributes.
	Attrs() *Attrs

	String() string

	clone(seen map[Node]Node) Node
}

// Clone returns an independent deep copy of a node graph. Shared and
// cyclic references are preserved in the copy.
func Clone(n Node) Node {
	if n == nil {
		return nil
	}
	return n.clone(map[Node]Node{})
}

type base struct {
	attrs Attrs
}

func newBase() base {
	return base{attrs: Attrs{InErrors: true, InMatchTree: true}}
}

func (b *base) Attrs() *Attrs { return &b.attrs }

// Name returns the node's capture label, if any.
func (b *base) Name() string { return b.attrs.Name }

// SetName sets the node's capture label.
func (b *base) SetName(name string) { b.attrs.Name = name }

func cloneNode(seen map[Node]Node, n Node) Node {
	if n == nil {
		return nil
	}
	if c, ok := seen[n]; ok {
		return c
	}
	return n.clone(seen)
}

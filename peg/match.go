package peg

import (
	"fmt"
	"strings"
)

// Match is one node of a match tree produced by a successful parse.
type Match struct {
	Name     string
	Node     Node
	Scanner  *Scanner
	Start    int
	Length   int
	Children []*Match
}

// Text returns the input text covered by the match.
func (m *Match) Text() string {
	return m.Scanner.Text(m.Start, m.Start+m.Length)
}

// End returns the offset just past the match.
func (m *Match) End() int { return m.Start + m.Length }

// Find returns the first descendant (depth first, including m itself)
// with the given name, or nil.
func (m *Match) Find(name string) *Match {
	if m.Name == name {
		return m
	}
	for _, c := range m.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits m and all descendants depth first.
func (m *Match) Walk(fn func(*Match)) {
	fn(m)
	for _, c := range m.Children {
		c.Walk(fn)
	}
}

// MatchHandler observes a match during event dispatch.
type MatchHandler func(*Match)

// Result is the immutable outcome of one top-level match attempt.
// Length is the consumed rune count, or exactly -1 on failure.
type Result struct {
	Grammar       *Grammar
	Scanner       *Scanner
	Start         int
	Length        int
	Root          *Match
	ErrorPos      int
	ChildErrorPos int
	Errors        []Node
}

// Success reports whether the attempt matched.
func (r *Result) Success() bool { return r.Length >= 0 }

// Matches returns the named sub-matches captured by the attempt.
func (r *Result) Matches() []*Match {
	if r.Root == nil {
		return nil
	}
	return r.Root.Children
}

// Text returns the consumed input text.
func (r *Result) Text() string {
	if !r.Success() {
		return ""
	}
	return r.Scanner.Text(r.Start, r.Start+r.Length)
}

// ErrorMessage renders the furthest-failure diagnostics, in the form
// "expected one of a, b at line:col".
func (r *Result) ErrorMessage() string {
	if r.ErrorPos < 0 {
		if r.Success() {
			return ""
		}
		return "no match"
	}
	line, col := r.Scanner.LineCol(r.ErrorPos)
	if len(r.Errors) == 0 {
		return fmt.Sprintf("no match at %d:%d", line, col)
	}
	names := make([]string, len(r.Errors))
	for i, n := range r.Errors {
		names[i] = n.String()
	}
	return fmt.Sprintf("expected one of %s at %d:%d", strings.Join(names, ", "), line, col)
}

// TriggerPreMatch dispatches pre-match notifications over the entire
// match tree. It is guaranteed to complete before any match handler
// runs; callers invoke it before TriggerMatch.
func (r *Result) TriggerPreMatch() {
	if r.Root == nil || r.Grammar == nil {
		return
	}
	r.Root.Walk(func(m *Match) {
		for _, h := range r.Grammar.preHandlers[m.Name] {
			h(m)
		}
	})
}

// TriggerMatch dispatches match notifications over the entire tree.
func (r *Result) TriggerMatch() {
	if r.Root == nil || r.Grammar == nil {
		return
	}
	r.Root.Walk(func(m *Match) {
		for _, h := range r.Grammar.matchHandlers[m.Name] {
			h(m)
		}
	})
}

// Collection is an ordered list of matches gathered by repeated
// matching over one input.
type Collection struct {
	Items []*Match
}

// Len returns the number of collected matches.
func (c *Collection) Len() int { return len(c.Items) }

// At returns the i-th collected match.
func (c *Collection) At(i int) *Match { return c.Items[i] }

// Named returns all collected matches carrying the given name.
func (c *Collection) Named(name string) []*Match {
	var out []*Match
	for _, m := range c.Items {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

func dedupeNodes(nodes []Node) []Node {
	seen := make(map[Node]bool, len(nodes))
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

package peg

import (
	"errors"
	"sync"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("pegmatch.peg")

var (
	// ErrNoRule is returned when a grammar has no inner rule.
	ErrNoRule = errors.New("peg: grammar has no rule")

	// ErrNilScanner is returned when a nil scanner is passed where
	// input is required.
	ErrNilScanner = errors.New("peg: nil scanner")
)

// Grammar is the root of a parser node tree and drives matching against
// it. A Grammar used as a sub-rule inside another grammar behaves like a
// plain named wrapper.
type Grammar struct {
	Unary

	// Separator is the default inter-item separator for sequence and
	// repeat nodes that do not carry their own.
	Separator Node

	// CaseSensitive selects exact rune comparison. Default true.
	CaseSensitive bool

	// AllowPartial accepts matches that do not consume the whole input.
	AllowPartial bool

	// Trace logs rule entry and exit during matching.
	Trace bool

	// Optimizations selects the structural rewrite passes applied by
	// Initialize.
	Optimizations OptimizeFlags

	// MatchEvents enables pre-match and match dispatch over the match
	// tree after a successful attempt.
	MatchEvents bool

	initOnce    sync.Once
	descendants []Node

	preHandlers   map[string][]MatchHandler
	matchHandlers map[string][]MatchHandler
}

// New creates a grammar with the given name and inner rule. The rule
// may be nil and set later, before the first match.
func New(name string, inner Node) *Grammar {
	g := &Grammar{
		Unary:         Unary{base: newBase(), Inner: inner},
		CaseSensitive: true,
		Optimizations: OptimizeAll,
		MatchEvents:   true,
	}
	g.attrs.Name = name
	return g
}

// OnPreMatch registers a handler invoked for every match named name
// during the pre-match phase. The pre-match phase over the whole tree
// completes before any OnMatch handler runs.
func (g *Grammar) OnPreMatch(name string, h MatchHandler) {
	if g.preHandlers == nil {
		g.preHandlers = make(map[string][]MatchHandler)
	}
	g.preHandlers[name] = append(g.preHandlers[name], h)
}

// OnMatch registers a handler invoked for every match named name during
// the match phase.
func (g *Grammar) OnMatch(name string, h MatchHandler) {
	if g.matchHandlers == nil {
		g.matchHandlers = make(map[string][]MatchHandler)
	}
	g.matchHandlers[name] = append(g.matchHandlers[name], h)
}

// Initialize runs the optimizer passes over the node tree. It executes
// exactly once per grammar; later calls are no-ops. Match auto-invokes
// it, so an explicit call is only needed as a warm-up.
func (g *Grammar) Initialize() {
	g.initOnce.Do(g.initialize)
}

// SetTerminals clears the error and match-tree contribution of every
// reachable node whose name is in names. The nodes keep matching; they
// just stop appearing in diagnostics and match trees.
func (g *Grammar) SetTerminals(names ...string) {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	for _, n := range collectDescendants(g) {
		attrs := n.Attrs()
		if set[attrs.Name] {
			attrs.InErrors = false
			attrs.InMatchTree = false
		}
	}
}

// FindNode returns the first reachable node with the given name, or nil.
func (g *Grammar) FindNode(name string) Node {
	for _, n := range collectDescendants(g) {
		if n.Attrs().Name == name {
			return n
		}
	}
	return nil
}

// Match matches input against the grammar from offset zero.
func (g *Grammar) Match(input string) (*Result, error) {
	return g.MatchScanner(NewScanner(input))
}

// MatchScanner matches from the scanner's current offset. The scanner
// is left just past the consumed text on success, and at its entry
// offset on failure.
func (g *Grammar) MatchScanner(s *Scanner) (*Result, error) {
	return g.match(s, g.AllowPartial)
}

func (g *Grammar) match(s *Scanner, allowPartial bool) (*Result, error) {
	if s == nil {
		return nil, ErrNilScanner
	}
	if g.Inner == nil {
		return nil, ErrNoRule
	}
	g.Initialize()
	ctx := NewContext(s, g)
	ctx.allowPartial = allowPartial
	g.Parse(ctx)
	res := ctx.result
	if res.Success() && g.MatchEvents {
		res.TriggerPreMatch()
		res.TriggerMatch()
	}
	return res, nil
}

// Matches scans input for all non-overlapping matches, skipping
// offsets where the grammar does not match.
func (g *Grammar) Matches(input string) (*Collection, error) {
	return g.MatchesScanner(NewScanner(input))
}

// MatchesScanner repeatedly matches from the scanner's current offset,
// advancing one rune past unmatchable offsets, until end of input.
// Partial matches are accepted regardless of AllowPartial; a scan is by
// nature a best-effort walk over the input.
func (g *Grammar) MatchesScanner(s *Scanner) (*Collection, error) {
	if s == nil {
		return nil, ErrNilScanner
	}
	col := &Collection{}
	for !s.AtEnd() {
		res, err := g.match(s, true)
		if err != nil {
			return nil, err
		}
		if res.Success() {
			col.Items = append(col.Items, res.Matches()...)
			if res.Length > 0 {
				continue
			}
		}
		if _, ok := s.Advance(1); !ok {
			break
		}
	}
	return col, nil
}

// Parse implements Node. The first grammar reached in a context runs
// the root parse driver; any grammar nested deeper parses as an
// ordinary named wrapper.
func (g *Grammar) Parse(ctx *Context) int {
	if !ctx.takeRoot() {
		return g.Unary.Parse(ctx)
	}
	return g.parseRoot(ctx)
}

// parseRoot performs one root-level attempt: partial-match gating,
// furthest-failure aggregation and result publication.
func (g *Grammar) parseRoot(ctx *Context) int {
	start := ctx.Scanner.Pos()
	ctx.traceEnter(g)

	ctx.PushFrame()
	length := g.Inner.Parse(ctx)
	children := ctx.PopFrame()

	end := ctx.Scanner.Pos()
	if length >= 0 && !ctx.allowPartial && !ctx.Scanner.AtEnd() {
		ctx.Scanner.SetPos(start)
		length = -1
	}

	errPos, childErrPos := -1, -1
	var errNodes []Node
	if length < 0 || end == ctx.errPos {
		errPos = ctx.errPos
		childErrPos = ctx.childErrPos
		errNodes = dedupeNodes(ctx.errNodes)
	}

	ctx.traceLeave(g, length)

	root := &Match{
		Name:     g.attrs.Name,
		Node:     g,
		Scanner:  ctx.Scanner,
		Start:    start,
		Length:   length,
		Children: children,
	}
	ctx.result = &Result{
		Grammar:       g,
		Scanner:       ctx.Scanner,
		Start:         start,
		Length:        length,
		Root:          root,
		ErrorPos:      errPos,
		ChildErrorPos: childErrPos,
		Errors:        errNodes,
	}
	return length
}

func (g *Grammar) Children() []Node {
	var items []Node
	if g.Inner != nil {
		items = append(items, g.Inner)
	}
	if g.Separator != nil {
		items = append(items, g.Separator)
	}
	return items
}

func (g *Grammar) Replace(old, with Node) {
	if g.Inner == old {
		g.Inner = with
	}
	if g.Separator == old {
		g.Separator = with
	}
}

func (g *Grammar) String() string {
	if g.attrs.Name != "" {
		return g.attrs.Name
	}
	return "(grammar)"
}

func (g *Grammar) clone(seen map[Node]Node) Node {
	cp := New(g.attrs.Name, nil)
	cp.attrs = g.attrs
	cp.CaseSensitive = g.CaseSensitive
	cp.AllowPartial = g.AllowPartial
	cp.Trace = g.Trace
	cp.Optimizations = g.Optimizations
	cp.MatchEvents = g.MatchEvents
	seen[g] = cp
	cp.Inner = cloneNode(seen, g.Inner)
	cp.Separator = cloneNode(seen, g.Separator)
	for name, hs := range g.preHandlers {
		for _, h := range hs {
			cp.OnPreMatch(name, h)
		}
	}
	for name, hs := range g.matchHandlers {
		for _, h := range hs {
			cp.OnMatch(name, h)
		}
	}
	return cp
}

// Clone returns an independent deep copy of the grammar and its node
// tree, with a fresh initialization guard.
func (g *Grammar) Clone() *Grammar {
	return Clone(g).(*Grammar)
}

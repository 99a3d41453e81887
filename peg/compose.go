package peg

// Unary wraps exactly one inner node, typically to attach a capture
// label without changing matching behavior. Inner may be set after
// construction, which is how recursive rules are tied together.
type Unary struct {
	base
	Inner Node
}

// NewUnary creates an unnamed wrapper around inner.
func NewUnary(inner Node) *Unary {
	return &Unary{base: newBase(), Inner: inner}
}

// Named creates a wrapper carrying a capture label.
func Named(name string, inner Node) *Unary {
	u := NewUnary(inner)
	u.attrs.Name = name
	return u
}

func (u *Unary) Parse(ctx *Context) int {
	if u.Inner == nil {
		return 0
	}
	if u.attrs.Name == "" || !u.attrs.InMatchTree {
		return u.Inner.Parse(ctx)
	}
	start := ctx.Scanner.Pos()
	ctx.traceEnter(u)
	ctx.PushFrame()
	length := u.Inner.Parse(ctx)
	children := ctx.PopFrame()
	ctx.traceLeave(u, length)
	if length < 0 {
		return -1
	}
	ctx.addMatch(&Match{
		Name:     u.attrs.Name,
		Node:     u,
		Scanner:  ctx.Scanner,
		Start:    start,
		Length:   length,
		Children: children,
	})
	return length
}

func (u *Unary) Children() []Node {
	if u.Inner == nil {
		return nil
	}
	return []Node{u.Inner}
}

func (u *Unary) Replace(old, with Node) {
	if u.Inner == old {
		u.Inner = with
	}
}

func (u *Unary) String() string {
	if u.attrs.Name != "" {
		return u.attrs.Name
	}
	return "(unary)"
}

func (u *Unary) clone(seen map[Node]Node) Node {
	cp := &Unary{base: u.base}
	seen[u] = cp
	cp.Inner = cloneNode(seen, u.Inner)
	return cp
}

// Sequence requires all items to match in order, consuming input
// cumulatively. A separator, if configured on the node or as the
// grammar default, is attempted between items; a separator that does
// not match is skipped.
type Sequence struct {
	base
	Items     []Node
	Separator Node
}

// NewSeq creates a sequence of items.
func NewSeq(items ...Node) *Sequence {
	return &Sequence{base: newBase(), Items: items}
}

func (s *Sequence) Parse(ctx *Context) int {
	start := ctx.Scanner.Pos()
	named := s.attrs.Name != "" && s.attrs.InMatchTree
	if named {
		ctx.PushFrame()
	}
	mark := ctx.frameMark()
	total := 0
	for i, item := range s.Items {
		if i > 0 {
			total += parseSeparator(ctx, s.Separator)
		}
		length := item.Parse(ctx)
		if length < 0 {
			if pos := ctx.Scanner.Pos(); pos > start {
				ctx.recordChildError(pos)
			}
			ctx.Scanner.SetPos(start)
			ctx.truncateFrame(mark)
			if named {
				ctx.PopFrame()
			}
			return -1
		}
		total += length
	}
	if named {
		children := ctx.PopFrame()
		ctx.addMatch(&Match{
			Name:     s.attrs.Name,
			Node:     s,
			Scanner:  ctx.Scanner,
			Start:    start,
			Length:   total,
			Children: children,
		})
	}
	return total
}

func (s *Sequence) Children() []Node {
	items := s.Items
	if s.Separator != nil {
		items = append(append([]Node{}, items...), s.Separator)
	}
	return items
}

func (s *Sequence) Replace(old, with Node) {
	for i, item := range s.Items {
		if item == old {
			s.Items[i] = with
		}
	}
	if s.Separator == old {
		s.Separator = with
	}
}

func (s *Sequence) String() string {
	if s.attrs.Name != "" {
		return s.attrs.Name
	}
	return "(sequence)"
}

func (s *Sequence) clone(seen map[Node]Node) Node {
	cp := &Sequence{base: s.base}
	seen[s] = cp
	cp.Items = make([]Node, len(s.Items))
	for i, item := range s.Items {
		cp.Items[i] = cloneNode(seen, item)
	}
	cp.Separator = cloneNode(seen, s.Separator)
	return cp
}

// Alternation tries items in order; the first success wins.
type Alternation struct {
	base
	Items []Node
}

// NewAlt creates an ordered choice between items.
func NewAlt(items ...Node) *Alternation {
	return &Alternation{base: newBase(), Items: items}
}

func (a *Alternation) Parse(ctx *Context) int {
	start := ctx.Scanner.Pos()
	named := a.attrs.Name != "" && a.attrs.InMatchTree
	if named {
		ctx.PushFrame()
	}
	for _, item := range a.Items {
		length := item.Parse(ctx)
		if length < 0 {
			continue
		}
		if named {
			children := ctx.PopFrame()
			ctx.addMatch(&Match{
				Name:     a.attrs.Name,
				Node:     a,
				Scanner:  ctx.Scanner,
				Start:    start,
				Length:   length,
				Children: children,
			})
		}
		return length
	}
	if named {
		ctx.PopFrame()
	}
	return -1
}

func (a *Alternation) Children() []Node { return a.Items }

func (a *Alternation) Replace(old, with Node) {
	for i, item := range a.Items {
		if item == old {
			a.Items[i] = with
		}
	}
}

func (a *Alternation) String() string {
	if a.attrs.Name != "" {
		return a.attrs.Name
	}
	return "(alternation)"
}

func (a *Alternation) clone(seen map[Node]Node) Node {
	cp := &Alternation{base: a.base}
	seen[a] = cp
	cp.Items = make([]Node, len(a.Items))
	for i, item := range a.Items {
		cp.Items[i] = cloneNode(seen, item)
	}
	return cp
}

// Repeat matches its inner node between Min and Max times. Max < 0
// means unbounded.
type Repeat struct {
	base
	Inner     Node
	Min, Max  int
	Separator Node
}

// NewRepeat creates a repetition of inner with the given bounds.
func NewRepeat(inner Node, min, max int) *Repeat {
	return &Repeat{base: newBase(), Inner: inner, Min: min, Max: max}
}

// Optional matches inner zero or one time.
func Optional(inner Node) *Repeat { return NewRepeat(inner, 0, 1) }

// ZeroOrMore matches inner any number of times.
func ZeroOrMore(inner Node) *Repeat { return NewRepeat(inner, 0, -1) }

// OneOrMore matches inner at least once.
func OneOrMore(inner Node) *Repeat { return NewRepeat(inner, 1, -1) }

func (r *Repeat) Parse(ctx *Context) int {
	start := ctx.Scanner.Pos()
	named := r.attrs.Name != "" && r.attrs.InMatchTree
	if named {
		ctx.PushFrame()
	}
	outer := ctx.frameMark()
	count := 0
	total := 0
	for r.Max < 0 || count < r.Max {
		pos := ctx.Scanner.Pos()
		mark := ctx.frameMark()
		sep := 0
		if count > 0 {
			sep = parseSeparator(ctx, r.Separator)
		}
		length := r.Inner.Parse(ctx)
		if length < 0 {
			ctx.Scanner.SetPos(pos)
			ctx.truncateFrame(mark)
			break
		}
		if length == 0 && sep == 0 {
			// A zero-width iteration would repeat forever.
			break
		}
		total += sep + length
		count++
	}
	if count < r.Min {
		if pos := ctx.Scanner.Pos(); pos > start {
			ctx.recordChildError(pos)
		}
		ctx.Scanner.SetPos(start)
		ctx.truncateFrame(outer)
		if named {
			ctx.PopFrame()
		}
		return -1
	}
	if named {
		children := ctx.PopFrame()
		ctx.addMatch(&Match{
			Name:     r.attrs.Name,
			Node:     r,
			Scanner:  ctx.Scanner,
			Start:    start,
			Length:   total,
			Children: children,
		})
	}
	return total
}

func (r *Repeat) Children() []Node {
	var items []Node
	if r.Inner != nil {
		items = append(items, r.Inner)
	}
	if r.Separator != nil {
		items = append(items, r.Separator)
	}
	return items
}

func (r *Repeat) Replace(old, with Node) {
	if r.Inner == old {
		r.Inner = with
	}
	if r.Separator == old {
		r.Separator = with
	}
}

func (r *Repeat) String() string {
	if r.attrs.Name != "" {
		return r.attrs.Name
	}
	return "(repeat)"
}

func (r *Repeat) clone(seen map[Node]Node) Node {
	cp := &Repeat{base: r.base, Min: r.Min, Max: r.Max}
	seen[r] = cp
	cp.Inner = cloneNode(seen, r.Inner)
	cp.Separator = cloneNode(seen, r.Separator)
	return cp
}

// parseSeparator attempts the effective separator at the current offset.
// Separator failures are silent and consume nothing.
func parseSeparator(ctx *Context, own Node) int {
	sep := own
	if sep == nil {
		sep = ctx.separator
	}
	if sep == nil {
		return 0
	}
	pos := ctx.Scanner.Pos()
	mark := ctx.frameMark()
	ctx.suppress++
	length := sep.Parse(ctx)
	ctx.suppress--
	if length < 0 {
		ctx.Scanner.SetPos(pos)
		ctx.truncateFrame(mark)
		return 0
	}
	return length
}

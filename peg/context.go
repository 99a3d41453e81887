package peg

// Context carries the ephemeral state of a single top-level match
// attempt: the scanner, a stack of match frames, and the furthest
// failure reached so far. A fresh Context is created per Match call.
type Context struct {
	Scanner *Scanner

	frames      [][]*Match
	errNodes    []Node
	errPos      int
	childErrPos int

	root         bool
	allowPartial bool
	result       *Result
	grammar      *Grammar
	separator    Node
	fold         bool
	suppress     int
	depth        int
	trace        bool
}

// NewContext creates a context for one match attempt against g.
func NewContext(s *Scanner, g *Grammar) *Context {
	ctx := &Context{
		Scanner:     s,
		errPos:      -1,
		childErrPos: -1,
		root:        true,
		grammar:     g,
	}
	if g != nil {
		ctx.separator = g.Separator
		ctx.fold = !g.CaseSensitive
		ctx.trace = g.Trace
	}
	ctx.PushFrame()
	return ctx
}

// PushFrame opens a new match frame. Matches emitted while the frame is
// open become children of the node that popped it.
func (c *Context) PushFrame() {
	c.frames = append(c.frames, nil)
}

// PopFrame closes the current frame and returns its matches.
func (c *Context) PopFrame() []*Match {
	top := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	return top
}

func (c *Context) addMatch(m *Match) {
	if c.suppress > 0 {
		return
	}
	c.frames[len(c.frames)-1] = append(c.frames[len(c.frames)-1], m)
}

// frameMark returns a checkpoint of the current frame, for truncation
// when an attempt is abandoned.
func (c *Context) frameMark() int {
	return len(c.frames[len(c.frames)-1])
}

func (c *Context) truncateFrame(mark int) {
	top := c.frames[len(c.frames)-1]
	if mark < len(top) {
		c.frames[len(c.frames)-1] = top[:mark]
	}
}

// emit records a leaf match for a named terminal.
func (c *Context) emit(n Node, start, length int) {
	attrs := n.Attrs()
	if attrs.Name == "" || !attrs.InMatchTree {
		return
	}
	c.addMatch(&Match{
		Name:    attrs.Name,
		Node:    n,
		Scanner: c.Scanner,
		Start:   start,
		Length:  length,
	})
}

// recordError notes that n failed at the current offset. Only failures
// at the furthest reached offset are kept; an earlier offset is
// ignored, a further one resets the list.
func (c *Context) recordError(n Node) {
	if c.suppress > 0 || !n.Attrs().InErrors {
		return
	}
	pos := c.Scanner.Pos()
	if pos < c.errPos {
		return
	}
	if pos > c.errPos {
		c.errPos = pos
		c.errNodes = c.errNodes[:0]
	}
	c.errNodes = append(c.errNodes, n)
}

// recordChildError notes how far a failing descendant reached inside a
// composite node before the composite backtracked.
func (c *Context) recordChildError(pos int) {
	if pos > c.childErrPos {
		c.childErrPos = pos
	}
}

// ErrorPos returns the furthest failure offset, or -1.
func (c *Context) ErrorPos() int { return c.errPos }

// ChildErrorPos returns the furthest descendant failure offset, or -1.
func (c *Context) ChildErrorPos() int { return c.childErrPos }

// takeRoot consumes the root flag. The first grammar node parsed in a
// context acts as the parse driver; nested grammars parse as plain
// wrappers.
func (c *Context) takeRoot() bool {
	if !c.root {
		return false
	}
	c.root = false
	return true
}

func (c *Context) traceEnter(n Node) {
	if !c.trace {
		return
	}
	log.Debugf("%*s> %s at %d", c.depth*2, "", n.String(), c.Scanner.Pos())
	c.depth++
}

func (c *Context) traceLeave(n Node, length int) {
	if !c.trace {
		return
	}
	c.depth--
	if length < 0 {
		log.Debugf("%*s< %s: no match", c.depth*2, "", n.String())
	} else {
		log.Debugf("%*s< %s: %d", c.depth*2, "", n.String(), length)
	}
}

package peg

import (
	"fmt"
	"sort"
	"unicode"
)

// Char matches a single literal rune.
type Char struct {
	base
	Rune rune
}

// NewChar creates a terminal matching exactly one rune.
func NewChar(r rune) *Char {
	return &Char{base: newBase(), Rune: r}
}

func (c *Char) Parse(ctx *Context) int {
	r, ok := ctx.Scanner.Peek()
	if ok && ctx.runeEq(r, c.Rune) {
		start := ctx.Scanner.Pos()
		ctx.Scanner.Advance(1)
		ctx.emit(c, start, 1)
		return 1
	}
	ctx.recordError(c)
	return -1
}

func (c *Char) Children() []Node { return nil }
func (c *Char) Replace(old, with Node) {}

func (c *Char) String() string {
	if c.attrs.Name != "" {
		return c.attrs.Name
	}
	return fmt.Sprintf("%q", c.Rune)
}

func (c *Char) clone(seen map[Node]Node) Node {
	cp := *c
	seen[c] = &cp
	return &cp
}

// CharRange matches a single rune within an inclusive range.
type CharRange struct {
	base
	Lo, Hi rune
}

// NewRange creates a terminal matching any rune in [lo, hi].
func NewRange(lo, hi rune) *CharRange {
	return &CharRange{base: newBase(), Lo: lo, Hi: hi}
}

func (c *CharRange) Parse(ctx *Context) int {
	r, ok := ctx.Scanner.Peek()
	if ok && c.contains(ctx, r) {
		start := ctx.Scanner.Pos()
		ctx.Scanner.Advance(1)
		ctx.emit(c, start, 1)
		return 1
	}
	ctx.recordError(c)
	return -1
}

func (c *CharRange) contains(ctx *Context, r rune) bool {
	if r >= c.Lo && r <= c.Hi {
		return true
	}
	if ctx.fold {
		f := swapCase(r)
		return f >= c.Lo && f <= c.Hi
	}
	return false
}

func (c *CharRange) Children() []Node { return nil }
func (c *CharRange) Replace(old, with Node) {}

func (c *CharRange) String() string {
	if c.attrs.Name != "" {
		return c.attrs.Name
	}
	return fmt.Sprintf("%q…%q", c.Lo, c.Hi)
}

func (c *CharRange) clone(seen map[Node]Node) Node {
	cp := *c
	seen[c] = &cp
	return &cp
}

// CharSet matches a single rune from a set, or from its complement when
// Inverted is set.
type CharSet struct {
	base
	Inverted bool
	set      map[rune]bool
}

// NewSet creates a terminal matching any rune present in chars.
func NewSet(chars string) *CharSet {
	s := &CharSet{base: newBase(), set: make(map[rune]bool)}
	for _, r := range chars {
		s.set[r] = true
	}
	return s
}

// NewNotSet creates a terminal matching any rune not present in chars.
func NewNotSet(chars string) *CharSet {
	s := NewSet(chars)
	s.Inverted = true
	return s
}

func newSetFromRunes(runes map[rune]bool, inverted bool) *CharSet {
	return &CharSet{base: newBase(), Inverted: inverted, set: runes}
}

// Add includes a rune in the set.
func (c *CharSet) Add(r rune) { c.set[r] = true }

// Has reports whether the set itself contains r, ignoring inversion.
func (c *CharSet) Has(r rune) bool { return c.set[r] }

// Runes returns the set's members in sorted order.
func (c *CharSet) Runes() []rune {
	runes := make([]rune, 0, len(c.set))
	for r := range c.set {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return runes
}

func (c *CharSet) Parse(ctx *Context) int {
	r, ok := ctx.Scanner.Peek()
	if ok && c.contains(ctx, r) {
		start := ctx.Scanner.Pos()
		ctx.Scanner.Advance(1)
		ctx.emit(c, start, 1)
		return 1
	}
	ctx.recordError(c)
	return -1
}

func (c *CharSet) contains(ctx *Context, r rune) bool {
	in := c.set[r]
	if !in && ctx.fold {
		in = c.set[swapCase(r)]
	}
	return in != c.Inverted
}

func (c *CharSet) Children() []Node { return nil }
func (c *CharSet) Replace(old, with Node) {}

func (c *CharSet) String() string {
	if c.attrs.Name != "" {
		return c.attrs.Name
	}
	runes := c.Runes()
	text := make([]byte, 0, len(runes)+4)
	text = append(text, '[')
	if c.Inverted {
		text = append(text, '^')
	}
	for _, r := range runes {
		text = append(text, string(r)...)
	}
	text = append(text, ']')
	return string(text)
}

func (c *CharSet) clone(seen map[Node]Node) Node {
	cp := *c
	cp.set = make(map[rune]bool, len(c.set))
	for r := range c.set {
		cp.set[r] = true
	}
	seen[c] = &cp
	return &cp
}

// Literal matches a fixed string of runes.
type Literal struct {
	base
	Text string
}

// NewLiteral creates a terminal matching text rune for rune.
func NewLiteral(text string) *Literal {
	return &Literal{base: newBase(), Text: text}
}

func (l *Literal) Parse(ctx *Context) int {
	start := ctx.Scanner.Pos()
	for _, want := range l.Text {
		r, ok := ctx.Scanner.Peek()
		if !ok || !ctx.runeEq(r, want) {
			ctx.recordError(l)
			ctx.Scanner.SetPos(start)
			return -1
		}
		ctx.Scanner.Advance(1)
	}
	length := ctx.Scanner.Pos() - start
	ctx.emit(l, start, length)
	return length
}

func (l *Literal) Children() []Node { return nil }
func (l *Literal) Replace(old, with Node) {}

func (l *Literal) String() string {
	if l.attrs.Name != "" {
		return l.attrs.Name
	}
	return fmt.Sprintf("%q", l.Text)
}

func (l *Literal) clone(seen map[Node]Node) Node {
	cp := *l
	seen[l] = &cp
	return &cp
}

// AnyChar matches any single rune.
type AnyChar struct {
	base
}

// NewAny creates a terminal matching any one rune.
func NewAny() *AnyChar {
	return &AnyChar{base: newBase()}
}

func (a *AnyChar) Parse(ctx *Context) int {
	if ctx.Scanner.AtEnd() {
		ctx.recordError(a)
		return -1
	}
	start := ctx.Scanner.Pos()
	ctx.Scanner.Advance(1)
	ctx.emit(a, start, 1)
	return 1
}

func (a *AnyChar) Children() []Node { return nil }
func (a *AnyChar) Replace(old, with Node) {}

func (a *AnyChar) String() string {
	if a.attrs.Name != "" {
		return a.attrs.Name
	}
	return "."
}

func (a *AnyChar) clone(seen map[Node]Node) Node {
	cp := *a
	seen[a] = &cp
	return &cp
}

func swapCase(r rune) rune {
	if unicode.IsUpper(r) {
		return unicode.ToLower(r)
	}
	if unicode.IsLower(r) {
		return unicode.ToUpper(r)
	}
	return r
}

// runeEq compares two runes, folding case when the grammar is
// case-insensitive.
func (c *Context) runeEq(a, b rune) bool {
	if a == b {
		return true
	}
	return c.fold && unicode.ToLower(a) == unicode.ToLower(b)
}

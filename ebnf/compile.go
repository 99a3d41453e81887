// Package ebnf compiles EBNF grammar definitions into peg grammars.
// Definitions use the notation of golang.org/x/exp/ebnf: productions
// end with a period, alternatives use |, { } repeats, [ ] is optional
// and "a" … "z" denotes a character range.
package ebnf

import (
	"fmt"
	"io"
	"os"

	exp "golang.org/x/exp/ebnf"

	"github.com/dhamidi/pegmatch/peg"
)

// Compile parses an EBNF definition and builds a grammar rooted at the
// start production. Rule references become shared nodes, so recursive
// definitions produce cyclic parser graphs; the grammar's optimizer
// deals with left recursion on first use.
func Compile(filename string, src io.Reader, start string) (*peg.Grammar, error) {
	defs, err := exp.Parse(filename, src)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	c := &compiler{defs: defs, rules: make(map[string]*peg.Unary)}
	root, err := c.rule(start)
	if err != nil {
		return nil, err
	}
	return peg.New(start, root), nil
}

// CompileFile compiles an EBNF definition from a file.
func CompileFile(filename, start string) (*peg.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return Compile(filename, f, start)
}

type compiler struct {
	defs  exp.Grammar
	rules map[string]*peg.Unary
}

// rule returns the shared node for a production, creating it on first
// use. The wrapper is registered before its body is compiled so that
// self-references resolve to the same node.
func (c *compiler) rule(name string) (*peg.Unary, error) {
	if u, ok := c.rules[name]; ok {
		return u, nil
	}
	prod, ok := c.defs[name]
	if !ok || prod.Expr == nil {
		return nil, fmt.Errorf("production %q not found in grammar", name)
	}
	u := peg.Named(name, nil)
	c.rules[name] = u
	body, err := c.expr(prod.Expr)
	if err != nil {
		return nil, err
	}
	u.Inner = body
	return u, nil
}

func (c *compiler) expr(e exp.Expression) (peg.Node, error) {
	switch e := e.(type) {
	case *exp.Token:
		return c.token(e)
	case *exp.Range:
		return c.charRange(e)
	case *exp.Name:
		return c.rule(e.String)
	case *exp.Group:
		return c.expr(e.Body)
	case *exp.Option:
		body, err := c.expr(e.Body)
		if err != nil {
			return nil, err
		}
		return peg.Optional(body), nil
	case *exp.Repetition:
		body, err := c.expr(e.Body)
		if err != nil {
			return nil, err
		}
		return peg.ZeroOrMore(body), nil
	case exp.Sequence:
		items, err := c.exprs(e)
		if err != nil {
			return nil, err
		}
		if len(items) == 1 {
			return items[0], nil
		}
		return peg.NewSeq(items...), nil
	case exp.Alternative:
		items, err := c.exprs(e)
		if err != nil {
			return nil, err
		}
		if len(items) == 1 {
			return items[0], nil
		}
		return peg.NewAlt(items...), nil
	default:
		return nil, fmt.Errorf("unsupported grammar expression %T", e)
	}
}

func (c *compiler) exprs(list []exp.Expression) ([]peg.Node, error) {
	items := make([]peg.Node, len(list))
	for i, e := range list {
		item, err := c.expr(e)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

func (c *compiler) token(t *exp.Token) (peg.Node, error) {
	runes := []rune(t.String)
	if len(runes) == 0 {
		return nil, fmt.Errorf("empty token literal")
	}
	if len(runes) == 1 {
		return peg.NewChar(runes[0]), nil
	}
	return peg.NewLiteral(t.String), nil
}

func (c *compiler) charRange(r *exp.Range) (peg.Node, error) {
	lo := []rune(r.Begin.String)
	hi := []rune(r.End.String)
	if len(lo) != 1 || len(hi) != 1 {
		return nil, fmt.Errorf("range bounds must be single characters, got %q … %q", r.Begin.String, r.End.String)
	}
	return peg.NewRange(lo[0], hi[0]), nil
}

package peg

// OptimizeFlags selects the structural rewrite passes run by
// Initialize. All passes preserve the recognized language: for any
// input, success, failure and consumed length are unchanged.
type OptimizeFlags uint

const (
	// OptimizeCharSets merges alternations of unnamed character
	// terminals into at most two character sets.
	OptimizeCharSets OptimizeFlags = 1 << iota

	// OptimizeTrimUnary removes unnamed pass-through wrappers.
	OptimizeTrimUnary

	// OptimizeTrimSingle replaces single-item sequences and
	// alternations with their only child.
	OptimizeTrimSingle

	// OptimizeRecursion rewrites left-recursive rules into bounded
	// repetition so matching cannot recurse forever on them.
	OptimizeRecursion
)

// OptimizeAll enables every rewrite pass.
const OptimizeAll = OptimizeCharSets | OptimizeTrimUnary | OptimizeTrimSingle | OptimizeRecursion

// initialize runs the one-shot rewrite passes. The reachable node set
// is computed once and shared by all passes.
func (g *Grammar) initialize() {
	if g.Inner == nil {
		return
	}
	g.descendants = collectDescendants(g)
	nodes := g.descendants
	if g.Optimizations&OptimizeCharSets != 0 {
		g.mergeCharSets(nodes)
	}
	if g.Optimizations&OptimizeTrimUnary != 0 {
		g.trimUnary(nodes)
	}
	if g.Optimizations&OptimizeTrimSingle != 0 {
		g.trimSingleItems(nodes)
	}
	if g.Optimizations&OptimizeRecursion != 0 {
		g.fixRecursion(nodes)
	}
	g.warnLeftRecursion()
}

// Descendants returns every node reachable from root, excluding root
// itself. The walk tolerates cyclic graphs.
func Descendants(root Node) []Node {
	return collectDescendants(root)
}

// collectDescendants returns every node reachable from root, excluding
// root itself. The walk tolerates cycles.
func collectDescendants(root Node) []Node {
	var nodes []Node
	seen := map[Node]bool{root: true}
	queue := append([]Node{}, root.Children()...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == nil || seen[n] {
			continue
		}
		seen[n] = true
		nodes = append(nodes, n)
		queue = append(queue, n.Children()...)
	}
	return nodes
}

// replaceAll rewires every parent of old to point at with instead,
// preserving child order.
func (g *Grammar) replaceAll(nodes []Node, old, with Node) {
	g.Replace(old, with)
	for _, n := range nodes {
		if n != with {
			n.Replace(old, with)
		}
	}
}

// mergeCharSets collapses alternations of more than two unnamed
// character terminals into at most two character sets: the union of
// the non-inverted characters first, then the union of the inverted
// ones. Ranges are expanded to individual runes, trading memory for
// a single set probe at match time.
func (g *Grammar) mergeCharSets(nodes []Node) {
	for _, n := range nodes {
		alt, ok := n.(*Alternation)
		if !ok || len(alt.Items) <= 2 {
			continue
		}
		if !charTerminalsOnly(alt.Items) {
			continue
		}
		plain := make(map[rune]bool)
		inverted := make(map[rune]bool)
		for _, item := range alt.Items {
			switch t := item.(type) {
			case *Char:
				plain[t.Rune] = true
			case *CharRange:
				for r := t.Lo; r <= t.Hi; r++ {
					plain[r] = true
				}
			case *CharSet:
				into := plain
				if t.Inverted {
					into = inverted
				}
				for r := range t.set {
					into[r] = true
				}
			}
		}
		alt.Items = alt.Items[:0]
		if len(plain) > 0 {
			alt.Items = append(alt.Items, newSetFromRunes(plain, false))
		}
		if len(inverted) > 0 {
			alt.Items = append(alt.Items, newSetFromRunes(inverted, true))
		}
	}
}

func charTerminalsOnly(items []Node) bool {
	for _, item := range items {
		if item.Attrs().Name != "" {
			return false
		}
		switch item.(type) {
		case *Char, *CharRange, *CharSet:
		default:
			return false
		}
	}
	return true
}

// trimUnary flattens unnamed plain wrappers introduced by combinator
// convenience syntax. Only the exact Unary kind is trimmed; grammars
// and other specializations are left alone.
func (g *Grammar) trimUnary(nodes []Node) {
	for _, n := range nodes {
		u, ok := n.(*Unary)
		if !ok || u.attrs.Name != "" || u.Inner == nil {
			continue
		}
		g.replaceAll(nodes, u, u.Inner)
	}
}

// trimSingleItems replaces a sequence or alternation holding exactly
// one child with that child. A capture label on the removed node
// survives on a fresh wrapper.
func (g *Grammar) trimSingleItems(nodes []Node) {
	for _, n := range nodes {
		var child Node
		switch t := n.(type) {
		case *Sequence:
			if len(t.Items) == 1 {
				child = t.Items[0]
			}
		case *Alternation:
			if len(t.Items) == 1 {
				child = t.Items[0]
			}
		default:
			continue
		}
		if child == nil {
			continue
		}
		attrs := n.Attrs()
		if attrs.Name != "" {
			w := Named(attrs.Name, child)
			w.attrs.InErrors = attrs.InErrors
			w.attrs.InMatchTree = attrs.InMatchTree
			g.replaceAll(nodes, n, w)
		} else {
			g.replaceAll(nodes, n, child)
		}
	}
}

// fixRecursion rewrites direct left recursion into bounded repetition:
// a rule of the form target = target tail | base becomes base tail*,
// which recognizes the same language without recursing at a fixed
// offset. Left-recursive rules with no base alternative cannot
// terminate and are only reported.
func (g *Grammar) fixRecursion(nodes []Node) {
	for _, n := range nodes {
		if u, ok := n.(*Unary); ok {
			if alt, ok := u.Inner.(*Alternation); ok {
				g.rewriteLeftRecursion(u, alt)
			}
		}
	}
	for _, n := range nodes {
		if alt, ok := n.(*Alternation); ok {
			g.rewriteLeftRecursion(alt, alt)
		}
	}
}

func (g *Grammar) rewriteLeftRecursion(target Node, alt *Alternation) {
	var bases, tails []Node
	for _, item := range alt.Items {
		if item == target {
			// target = target | ... : the bare self-alternative can
			// never match first and is dropped.
			continue
		}
		if seq, ok := item.(*Sequence); ok && len(seq.Items) > 0 && seq.Items[0] == target {
			rest := seq.Items[1:]
			switch len(rest) {
			case 0:
				continue
			case 1:
				tails = append(tails, rest[0])
			default:
				tails = append(tails, NewSeq(append([]Node{}, rest...)...))
			}
			continue
		}
		bases = append(bases, item)
	}
	if len(tails) == 0 {
		return
	}
	if len(bases) == 0 {
		log.Warningf("grammar %q: rule %s is left-recursive with no base alternative", g.Name(), target.String())
		return
	}
	rewritten := NewSeq(oneOf(bases), ZeroOrMore(oneOf(tails)))
	if u, ok := target.(*Unary); ok {
		u.Inner = rewritten
		return
	}
	alt.Items = []Node{rewritten}
}

func oneOf(items []Node) Node {
	if len(items) == 1 {
		return items[0]
	}
	return NewAlt(items...)
}

// warnLeftRecursion reports rules that can re-enter themselves without
// consuming input. Such cycles recurse forever at match time; they are
// a grammar defect the engine documents rather than masks.
func (g *Grammar) warnLeftRecursion() {
	if g.Inner == nil {
		return
	}
	nullable := make(map[Node]int)
	state := make(map[Node]int)
	var visit func(n Node)
	visit = func(n Node) {
		switch state[n] {
		case 1:
			log.Warningf("grammar %q: %s can recurse without consuming input", g.Name(), n.String())
			return
		case 2:
			return
		}
		state[n] = 1
		for _, next := range firstReachable(n, nullable) {
			visit(next)
		}
		state[n] = 2
	}
	visit(g.Inner)
}

// firstReachable returns the nodes that may be attempted at the same
// input offset as n.
func firstReachable(n Node, memo map[Node]int) []Node {
	switch t := n.(type) {
	case *Unary:
		if t.Inner == nil {
			return nil
		}
		return []Node{t.Inner}
	case *Grammar:
		if t.Inner == nil {
			return nil
		}
		return []Node{t.Inner}
	case *Repeat:
		if t.Inner == nil {
			return nil
		}
		return []Node{t.Inner}
	case *Alternation:
		return t.Items
	case *Sequence:
		var out []Node
		for _, item := range t.Items {
			out = append(out, item)
			if !isNullable(item, memo) {
				break
			}
		}
		return out
	default:
		return nil
	}
}

// isNullable reports whether a node can succeed without consuming
// input. Cyclic queries resolve to false, which terminates the
// analysis without claiming nullability it cannot prove.
func isNullable(n Node, memo map[Node]int) bool {
	switch memo[n] {
	case 1: // being computed
		return false
	case 2:
		return false
	case 3:
		return true
	}
	memo[n] = 1
	result := false
	switch t := n.(type) {
	case *Literal:
		result = len(t.Text) == 0
	case *Unary:
		result = t.Inner == nil || isNullable(t.Inner, memo)
	case *Grammar:
		result = t.Inner == nil || isNullable(t.Inner, memo)
	case *Repeat:
		result = t.Min == 0 || t.Inner == nil || isNullable(t.Inner, memo)
	case *Sequence:
		result = true
		for _, item := range t.Items {
			if !isNullable(item, memo) {
				result = false
				break
			}
		}
	case *Alternation:
		for _, item := range t.Items {
			if isNullable(item, memo) {
				result = true
				break
			}
		}
	}
	if result {
		memo[n] = 3
	} else {
		memo[n] = 2
	}
	return result
}

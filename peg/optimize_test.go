package peg

import (
	"fmt"
	"testing"
)

func TestOptimize_MergeCharTerminals(t *testing.T) {
	alt := NewAlt(NewChar('a'), NewRange('c', 'e'), NewSet("xy"))
	g := New("g", alt)
	g.Initialize()

	if len(alt.Items) != 1 {
		t.Fatalf("expected a single merged set, got %d items", len(alt.Items))
	}
	set, ok := alt.Items[0].(*CharSet)
	if !ok {
		t.Fatalf("expected a CharSet, got %T", alt.Items[0])
	}
	if set.Inverted {
		t.Error("merged set should not be inverted")
	}

	want := map[rune]bool{'a': true, 'c': true, 'd': true, 'e': true, 'x': true, 'y': true}
	for r := rune(' '); r <= 'z'; r++ {
		res, err := g.Match(string(r))
		if err != nil {
			t.Fatalf("match %q: %v", r, err)
		}
		if res.Success() != want[r] {
			t.Errorf("rune %q: match = %v, want %v", r, res.Success(), want[r])
		}
	}
}

func TestOptimize_MergeKeepsInvertedBranchLast(t *testing.T) {
	alt := NewAlt(NewChar('a'), NewChar('b'), NewNotSet("xy"))
	g := New("g", alt)
	g.Initialize()

	if len(alt.Items) != 2 {
		t.Fatalf("expected two merged sets, got %d items", len(alt.Items))
	}
	first, ok := alt.Items[0].(*CharSet)
	if !ok || first.Inverted {
		t.Errorf("first item should be the non-inverted set, got %s", alt.Items[0])
	}
	second, ok := alt.Items[1].(*CharSet)
	if !ok || !second.Inverted {
		t.Errorf("second item should be the inverted set, got %s", alt.Items[1])
	}
	if !second.Has('x') || !second.Has('y') {
		t.Error("inverted set should hold the union of inverted characters")
	}
}

func TestOptimize_MergeSkipsNamedChildren(t *testing.T) {
	alt := NewAlt(Named("a", NewChar('a')), NewChar('b'), NewChar('c'))
	g := New("g", alt)
	g.Initialize()

	if len(alt.Items) != 3 {
		t.Errorf("alternation with named children must not be merged, got %d items", len(alt.Items))
	}
}

func TestOptimize_MergeSkipsSmallAlternations(t *testing.T) {
	alt := NewAlt(NewChar('a'), NewChar('b'))
	g := New("g", alt)
	g.Initialize()

	if len(alt.Items) != 2 {
		t.Errorf("two-item alternation must not be merged, got %d items", len(alt.Items))
	}
}

func TestOptimize_TrimUnary(t *testing.T) {
	inner := NewChar('a')
	seq := NewSeq(NewUnary(inner), NewChar('b'))
	g := New("g", seq)
	g.Initialize()

	if seq.Items[0] != Node(inner) {
		t.Errorf("unnamed wrapper should be replaced by its inner node, got %T", seq.Items[0])
	}

	res, err := g.Match("ab")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !res.Success() {
		t.Errorf("expected success after trimming: %s", res.ErrorMessage())
	}
}

func TestOptimize_TrimUnaryKeepsNamed(t *testing.T) {
	u := Named("keep", NewChar('a'))
	seq := NewSeq(u, NewChar('b'))
	g := New("g", seq)
	g.Initialize()

	if seq.Items[0] != Node(u) {
		t.Errorf("named wrapper must survive trimming, got %T", seq.Items[0])
	}
}

func TestOptimize_TrimSingleItem(t *testing.T) {
	inner := NewChar('x')
	alt := NewAlt(inner)
	seq := NewSeq(alt, NewChar('!'))
	g := New("g", seq)
	g.Initialize()

	if seq.Items[0] != Node(inner) {
		t.Errorf("single-item alternation should be replaced by its child, got %T", seq.Items[0])
	}
}

func TestOptimize_TrimSingleItemKeepsName(t *testing.T) {
	alt := NewAlt(NewChar('x'))
	alt.SetName("only")
	g := New("g", NewSeq(alt, NewChar('!')))
	g.Initialize()

	res, err := g.Match("x!")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !res.Success() {
		t.Fatalf("expected success: %s", res.ErrorMessage())
	}
	if res.Root.Find("only") == nil {
		t.Error("capture label must survive single-item trimming")
	}
}

func TestOptimize_InitializeIsOneShot(t *testing.T) {
	alt := NewAlt(NewChar('a'), NewChar('b'), NewChar('c'))
	g := New("g", alt)
	g.Initialize()
	after := len(alt.Items)
	g.Initialize()
	if len(alt.Items) != after {
		t.Errorf("second Initialize changed the tree: %d items, was %d", len(alt.Items), after)
	}

	for _, input := range []string{"a", "b", "c", "d"} {
		res, err := g.Match(input)
		if err != nil {
			t.Fatalf("match %q: %v", input, err)
		}
		if res.Success() != (input != "d") {
			t.Errorf("input %q: match = %v", input, res.Success())
		}
	}
}

func TestOptimize_LeftRecursionRewrite(t *testing.T) {
	u := Named("expr", nil)
	u.Inner = NewAlt(NewSeq(u, NewChar('a')), NewChar('b'))
	g := New("g", u)

	tests := []struct {
		input  string
		length int
	}{
		{"b", 1},
		{"ba", 2},
		{"baaa", 4},
		{"c", -1},
		{"ab", -1},
	}
	for _, tt := range tests {
		res, err := g.Match(tt.input)
		if err != nil {
			t.Fatalf("match %q: %v", tt.input, err)
		}
		if res.Length != tt.length {
			t.Errorf("input %q: length %d, want %d", tt.input, res.Length, tt.length)
		}
	}
}

func TestOptimize_LeftRecursionWithoutBaseDoesNotHang(t *testing.T) {
	u := Named("a", nil)
	u.Inner = u
	g := New("g", u)
	g.Initialize()
}

// buildIdentGrammar assembles a fresh identifier grammar so that each
// optimization flag combination rewrites its own tree.
func buildIdentGrammar(flags OptimizeFlags) *Grammar {
	head := NewAlt(NewRange('a', 'z'), NewRange('A', 'Z'), NewChar('_'))
	tail := NewAlt(NewRange('a', 'z'), NewRange('0', '9'), NewChar('_'))
	g := New("ident", NewSeq(NewUnary(head), ZeroOrMore(tail)))
	g.AllowPartial = true
	g.Optimizations = flags
	return g
}

func TestOptimize_PreservesLanguage(t *testing.T) {
	inputs := []string{"", "abc", "a1_", "1abc", "_x", "Z9z", "!", "a!"}

	for flags := OptimizeFlags(0); flags <= OptimizeAll; flags++ {
		plain := buildIdentGrammar(0)
		optimized := buildIdentGrammar(flags)
		for _, input := range inputs {
			want, err := plain.Match(input)
			if err != nil {
				t.Fatalf("match %q: %v", input, err)
			}
			got, err := optimized.Match(input)
			if err != nil {
				t.Fatalf("match %q: %v", input, err)
			}
			if got.Success() != want.Success() || got.Length != want.Length {
				t.Errorf("flags %04b input %q: length %d, want %d", flags, input, got.Length, want.Length)
			}
		}
	}
}

func TestDescendants_ToleratesCycles(t *testing.T) {
	u := Named("expr", nil)
	u.Inner = NewSeq(NewChar('('), u, NewChar(')'))
	g := New("g", u)

	nodes := Descendants(g)
	if len(nodes) != 4 {
		t.Errorf("expected 4 reachable nodes, got %d", len(nodes))
	}
	counts := make(map[Node]int)
	for _, n := range nodes {
		counts[n]++
	}
	for n, c := range counts {
		if c > 1 {
			t.Errorf("node %s listed %d times", fmt.Sprint(n), c)
		}
	}
}

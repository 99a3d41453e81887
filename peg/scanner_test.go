package peg

import "testing"

func TestScanner_Advance(t *testing.T) {
	s := NewScanner("abc")
	if s.AtEnd() {
		t.Fatal("fresh scanner should not be at end")
	}
	pos, ok := s.Advance(2)
	if !ok || pos != 2 {
		t.Fatalf("advance(2) = %d, %v", pos, ok)
	}
	if _, ok := s.Advance(2); ok {
		t.Error("advancing past end must fail")
	}
	if s.Pos() != 2 {
		t.Errorf("failed advance must not move the cursor, at %d", s.Pos())
	}
	if _, ok := s.Advance(1); !ok {
		t.Error("advancing to exactly the end must succeed")
	}
	if !s.AtEnd() {
		t.Error("scanner should be at end")
	}
}

func TestScanner_RuneOffsets(t *testing.T) {
	s := NewScanner("héllo")
	if s.Len() != 5 {
		t.Errorf("length in runes = %d, want 5", s.Len())
	}
	s.SetPos(1)
	r, ok := s.Peek()
	if !ok || r != 'é' {
		t.Errorf("peek at offset 1 = %q, %v", r, ok)
	}
	if got := s.Text(1, 3); got != "él" {
		t.Errorf("text(1,3) = %q", got)
	}
}

func TestScanner_LineCol(t *testing.T) {
	s := NewScanner("ab\ncd\ne")
	tests := []struct {
		pos, line, col int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{6, 3, 1},
	}
	for _, tt := range tests {
		line, col := s.LineCol(tt.pos)
		if line != tt.line || col != tt.col {
			t.Errorf("lineCol(%d) = %d:%d, want %d:%d", tt.pos, line, col, tt.line, tt.col)
		}
	}
}

func TestMatch_Text(t *testing.T) {
	g := New("g", Named("word", OneOrMore(NewRange('a', 'z'))))
	g.AllowPartial = true
	res, err := g.Match("hello world")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !res.Success() {
		t.Fatalf("expected success: %s", res.ErrorMessage())
	}
	word := res.Root.Find("word")
	if word == nil {
		t.Fatal("expected word capture")
	}
	if word.Text() != "hello" {
		t.Errorf("word text = %q, want %q", word.Text(), "hello")
	}
	if word.End() != 5 {
		t.Errorf("word end = %d, want 5", word.End())
	}
}

func TestCollection_Named(t *testing.T) {
	g := New("g", NewAlt(
		Named("digit", NewRange('0', '9')),
		Named("letter", NewRange('a', 'z')),
	))
	col, err := g.Matches("a1b")
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	if col.Len() != 3 {
		t.Fatalf("expected 3 matches, got %d", col.Len())
	}
	if len(col.Named("digit")) != 1 || len(col.Named("letter")) != 2 {
		t.Errorf("unexpected breakdown: digits %d, letters %d",
			len(col.Named("digit")), len(col.Named("letter")))
	}
}

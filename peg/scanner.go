package peg

// Scanner is a cursor over input text. Offsets are rune offsets.
type Scanner struct {
	runes []rune
	pos   int
}

// NewScanner creates a scanner positioned at the start of text.
func NewScanner(text string) *Scanner {
	return &Scanner{runes: []rune(text)}
}

// Pos returns the current offset.
func (s *Scanner) Pos() int { return s.pos }

// SetPos seeks to the given offset.
func (s *Scanner) SetPos(pos int) { s.pos = pos }

// Len returns the total input length.
func (s *Scanner) Len() int { return len(s.runes) }

// AtEnd reports whether the scanner has reached end of input.
func (s *Scanner) AtEnd() bool { return s.pos >= len(s.runes) }

// Peek returns the rune at the current offset without advancing.
func (s *Scanner) Peek() (rune, bool) {
	if s.pos >= len(s.runes) {
		return 0, false
	}
	return s.runes[s.pos], true
}

// Advance moves the cursor forward by n runes and returns the new
// offset. It reports false, without moving, when fewer than n runes
// remain.
func (s *Scanner) Advance(n int) (int, bool) {
	if s.pos+n > len(s.runes) {
		return s.pos, false
	}
	s.pos += n
	return s.pos, true
}

// Text returns the input between two offsets, clamped to the input.
func (s *Scanner) Text(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s.runes) {
		end = len(s.runes)
	}
	if start >= end {
		return ""
	}
	return string(s.runes[start:end])
}

// LineCol converts an offset into a 1-based line and column.
func (s *Scanner) LineCol(pos int) (line, col int) {
	line, col = 1, 1
	if pos > len(s.runes) {
		pos = len(s.runes)
	}
	for i := 0; i < pos; i++ {
		if s.runes[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

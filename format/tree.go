package format

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dhamidi/pegmatch/peg"
)

// TreeEncoder renders a match tree as an indented text outline, one
// match per line.
type TreeEncoder struct {
	w      io.Writer
	result *peg.Result
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(result *peg.Result) error {
	e.result = result
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	r := e.result
	if !r.Success() {
		fmt.Fprintf(&buf, "%s: %s\n", r.Grammar.Name(), r.ErrorMessage())
		return buf.Bytes(), nil
	}
	for _, m := range r.Matches() {
		writeMatch(&buf, m, 0)
	}
	return buf.Bytes(), nil
}

func writeMatch(buf *bytes.Buffer, m *peg.Match, depth int) {
	fmt.Fprintf(buf, "%*s%s [%d..%d) %q\n", depth*2, "", m.Name, m.Start, m.End(), m.Text())
	for _, c := range m.Children {
		writeMatch(buf, c, depth+1)
	}
}

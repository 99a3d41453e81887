package langserver

import (
	"testing"

	"github.com/dhamidi/pegmatch/peg"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	g := peg.New("pair", peg.NewSeq(
		peg.OneOrMore(peg.NewRange('a', 'z')),
		peg.NewChar('='),
		peg.OneOrMore(peg.NewRange('0', '9')),
	))
	return New(g, "test")
}

func TestDiagnosticsFor_CleanDocument(t *testing.T) {
	s := newTestServer(t)
	diagnostics := s.diagnosticsFor("port=8080")
	if diagnostics == nil {
		t.Fatal("diagnostics must be non-nil so stale entries get cleared")
	}
	if len(diagnostics) != 0 {
		t.Errorf("expected no diagnostics, got %d", len(diagnostics))
	}
}

func TestDiagnosticsFor_ParseFailure(t *testing.T) {
	s := newTestServer(t)
	diagnostics := s.diagnosticsFor("port=x")
	if len(diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(diagnostics))
	}
	d := diagnostics[0]
	if d.Message == "" {
		t.Error("diagnostic should carry an error message")
	}
	if d.Range.Start.Line != 0 || d.Range.Start.Character != 5 {
		t.Errorf("diagnostic at %d:%d, want 0:5", d.Range.Start.Line, d.Range.Start.Character)
	}
}

package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/pegmatch/peg"
)

func matchDigits(t *testing.T, input string) *peg.Result {
	t.Helper()
	g := peg.New("number", peg.Named("digits", peg.OneOrMore(peg.NewRange('0', '9'))))
	res, err := g.Match(input)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	return res
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(matchDigits(t, "42")); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var data struct {
		Grammar string `json:"grammar"`
		Success bool   `json:"success"`
		Length  int    `json:"length"`
		Matches []struct {
			Name string `json:"name"`
			Text string `json:"text"`
		} `json:"matches"`
	}
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if data.Grammar != "number" || !data.Success || data.Length != 2 {
		t.Errorf("unexpected result header: %+v", data)
	}
	if len(data.Matches) != 1 || data.Matches[0].Name != "digits" || data.Matches[0].Text != "42" {
		t.Errorf("unexpected matches: %+v", data.Matches)
	}
}

func TestJSONEncoder_Failure(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(matchDigits(t, "4x")); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var data struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if data.Success {
		t.Error("expected failure")
	}
	if data.Error == "" {
		t.Error("expected an error message")
	}
}

func TestTreeEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTreeEncoder(&buf).Encode(matchDigits(t, "42")); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `digits [0..2) "42"`) {
		t.Errorf("unexpected tree output:\n%s", out)
	}
}

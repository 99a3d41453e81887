package ebnf

import (
	"strings"
	"testing"
)

func TestCompile_Digits(t *testing.T) {
	g, err := Compile("test", strings.NewReader(`
		digits = digit { digit } .
		digit = "0" … "9" .
	`), "digits")
	if err != nil {
		t.Fatalf("compile grammar: %v", err)
	}

	res, err := g.Match("123")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !res.Success() || res.Length != 3 {
		t.Errorf("expected full match of length 3, got %d (%s)", res.Length, res.ErrorMessage())
	}

	res, err = g.Match("12x")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if res.Success() {
		t.Error("expected failure on trailing garbage")
	}
}

func TestCompile_NamedCaptures(t *testing.T) {
	g, err := Compile("test", strings.NewReader(`
		pair = key "=" value .
		key = letter { letter } .
		value = digit { digit } .
		letter = "a" … "z" .
		digit = "0" … "9" .
	`), "pair")
	if err != nil {
		t.Fatalf("compile grammar: %v", err)
	}
	g.SetTerminals("letter", "digit")

	res, err := g.Match("port=8080")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !res.Success() {
		t.Fatalf("expected success: %s", res.ErrorMessage())
	}
	key := res.Root.Find("key")
	value := res.Root.Find("value")
	if key == nil || key.Text() != "port" {
		t.Errorf("key = %v", key)
	}
	if value == nil || value.Text() != "8080" {
		t.Errorf("value = %v", value)
	}
}

func TestCompile_RecursiveGrammar(t *testing.T) {
	g, err := Compile("test", strings.NewReader(`
		list = "(" { item } ")" .
		item = list | digit .
		digit = "0" … "9" .
	`), "list")
	if err != nil {
		t.Fatalf("compile grammar: %v", err)
	}

	for _, input := range []string{"()", "(12)", "(1(2(3))4)"} {
		res, err := g.Match(input)
		if err != nil {
			t.Fatalf("match %q: %v", input, err)
		}
		if !res.Success() {
			t.Errorf("expected %q to match: %s", input, res.ErrorMessage())
		}
	}

	res, err := g.Match("(1(2)")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if res.Success() {
		t.Error("expected unbalanced input to fail")
	}
}

func TestCompile_LeftRecursionTerminates(t *testing.T) {
	g, err := Compile("test", strings.NewReader(`
		expr = expr "+" num | num .
		num = "0" … "9" .
	`), "expr")
	if err != nil {
		t.Fatalf("compile grammar: %v", err)
	}

	res, err := g.Match("1+2+3")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !res.Success() || res.Length != 5 {
		t.Errorf("expected full match of length 5, got %d (%s)", res.Length, res.ErrorMessage())
	}
}

func TestCompile_UnknownStart(t *testing.T) {
	_, err := Compile("test", strings.NewReader(`digit = "0" … "9" .`), "number")
	if err == nil {
		t.Fatal("expected an error for an unknown start production")
	}
}

func TestCompile_SyntaxError(t *testing.T) {
	_, err := Compile("test", strings.NewReader(`digit = `), "digit")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
}

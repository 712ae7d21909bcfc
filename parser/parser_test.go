package parser

import (
	"testing"

	"reactivesheet/ast"
)

func parseSExpr(t *testing.T, src string) string {
	t.Helper()
	expr, errs := ParseExpr(src)
	if len(errs) > 0 {
		t.Fatalf("parse %q: %v", src, errs)
	}
	return ast.SExpr(expr)
}

func TestLiterals(t *testing.T) {
	cases := map[string]string{
		`5`:       "5",
		`"string"`: `"string"`,
		`[1,2,3]`: "[1, 2, 3]",
		`{b: 2, a: 1}`: "{a: 1, b: 2}",
	}
	for src, want := range cases {
		if got := parseSExpr(t, src); got != want {
			t.Errorf("parse %q = %q, want %q", src, got, want)
		}
	}
}

func TestArithmetic(t *testing.T) {
	cases := map[string]string{
		"1+2":     "(+ 1 2)",
		"1-2":     "(- 1 2)",
		"1*2":     "(* 1 2)",
		"-1":      "(negate 1)",
		"--1":     "(negate (negate 1))",
		"1*2+3":   "(+ (* 1 2) 3)",
		"1+2*3":   "(+ 1 (* 2 3))",
	}
	for src, want := range cases {
		if got := parseSExpr(t, src); got != want {
			t.Errorf("parse %q = %q, want %q", src, got, want)
		}
	}
}

func TestFieldAccess(t *testing.T) {
	cases := map[string]string{
		"a.b":     "(.b a)",
		"a.b.c":   "(.c (.b a))",
		"a.b*2":   "(* (.b a) 2)",
		"2*a.b":   "(* 2 (.b a))",
	}
	for src, want := range cases {
		if got := parseSExpr(t, src); got != want {
			t.Errorf("parse %q = %q, want %q", src, got, want)
		}
	}
}

func TestCallAndLambda(t *testing.T) {
	got := parseSExpr(t, "fold(lambda(a,x): a + x, 0, A)")
	want := "(fold (lambda (a, x) (+ a x)) 0 A)"
	if got != want {
		t.Errorf("parse lambda call = %q, want %q", got, want)
	}
}

func TestLet(t *testing.T) {
	got := parseSExpr(t, "let x: 1, y: 2: x + y")
	want := "(let ((x 1) (y 2)) (+ x y))"
	if got != want {
		t.Errorf("parse let = %q, want %q", got, want)
	}
}

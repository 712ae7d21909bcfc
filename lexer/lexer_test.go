package lexer

import (
	"testing"

	"reactivesheet/token"
)

func TestNextToken(t *testing.T) {
	input := `A1 + -3 * "hi", [1,2].field $B2 let lambda`

	want := []token.Token{
		{Type: token.NAME, Literal: "A1"},
		{Type: token.PLUS, Literal: "+"},
		{Type: token.MINUS, Literal: "-"},
		{Type: token.INT, Literal: "3"},
		{Type: token.ASTERISK, Literal: "*"},
		{Type: token.STRING, Literal: "hi"},
		{Type: token.COMMA, Literal: ","},
		{Type: token.LBRACKET, Literal: "["},
		{Type: token.INT, Literal: "1"},
		{Type: token.COMMA, Literal: ","},
		{Type: token.INT, Literal: "2"},
		{Type: token.RBRACKET, Literal: "]"},
		{Type: token.DOT, Literal: "."},
		{Type: token.NAME, Literal: "field"},
		{Type: token.NAME, Literal: "$B2"},
		{Type: token.LET, Literal: "let"},
		{Type: token.LAMBDA, Literal: "lambda"},
		{Type: token.EOF, Literal: ""},
	}

	l := New(input)
	for i, expected := range want {
		tok := l.NextToken()
		if tok.Type != expected.Type || tok.Literal != expected.Literal {
			t.Fatalf("token %d: got %+v, want %+v", i, tok, expected)
		}
	}
}

func TestIllegalByte(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("got %+v, want ILLEGAL", tok)
	}
}

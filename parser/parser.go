// Package parser builds an ast.Expr tree from a token stream using
// Pratt-style precedence climbing, in the same registerPrefix/
// registerInfix style as the lexer/token pipeline it sits on top of.
package parser

import (
	"strconv"

	"reactivesheet/ast"
	"reactivesheet/langerr"
	"reactivesheet/lexer"
	"reactivesheet/token"
)

// Precedence levels. Only LOWEST through POSTFIX are used; the spec's
// "odd/even trick" for associativity collapses here to a single
// left-associative binary parse loop, since every binary operator in
// this grammar is left-associative.
const (
	LOWEST = iota
	SUM     // + -
	PRODUCT // *
	PREFIX  // unary -
	POSTFIX // .name
)

var precedences = map[token.Type]int{
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.DOT:      POSTFIX,
}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(left ast.Expr) ast.Expr
)

// Parser consumes a Lexer and produces a single ast.Expr, collecting
// every error encountered rather than stopping at the first one.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	errors []*langerr.Error

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{}
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.NAME, p.parseNameOrCall)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.LBRACKET, p.parseListLiteral)
	p.registerPrefix(token.LBRACE, p.parseRecordLiteral)
	p.registerPrefix(token.MINUS, p.parsePrefixNegate)
	p.registerPrefix(token.LAMBDA, p.parseLambdaLiteral)
	p.registerPrefix(token.LET, p.parseLet)

	p.infixParseFns = map[token.Type]infixParseFn{}
	p.registerInfix(token.PLUS, p.parseInfixOperator)
	p.registerInfix(token.MINUS, p.parseInfixOperator)
	p.registerInfix(token.ASTERISK, p.parseInfixOperator)
	p.registerInfix(token.DOT, p.parseFieldAccess)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t token.Type, fn infixParseFn)   { p.infixParseFns[t] = fn }

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseExpr parses a single top-level expression and reports a parse
// error if the token stream has unconsumed trailing tokens.
func ParseExpr(src string) (ast.Expr, []*langerr.Error) {
	p := New(lexer.New(src))
	expr := p.parseExpression(LOWEST)
	if p.cur.Type != token.EOF {
		p.errorf("unexpected trailing token %q", p.cur.Literal)
	}
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	return expr, nil
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, langerr.Newf(format, args...))
}

func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix := p.prefixParseFns[p.cur.Type]
	if prefix == nil {
		p.errorf("no prefix parse function for %q", p.cur.Literal)
		p.nextToken()
		return &ast.Literal{Value: ast.UnitLit{}}
	}
	left := prefix()

	// Every prefix and infix parse function leaves cur on the first token
	// after what it consumed, so the next operator (if any) is in cur.
	for precedence < p.curPrecedence() {
		infix := p.infixParseFns[p.cur.Type]
		if infix == nil {
			return left
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIntegerLiteral() ast.Expr {
	n, err := strconv.ParseInt(p.cur.Literal, 10, 64)
	if err != nil {
		p.errorf("invalid integer literal %q", p.cur.Literal)
	}
	lit := &ast.Literal{Value: ast.IntLit{Value: n}}
	p.nextToken()
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expr {
	lit := &ast.Literal{Value: ast.StringLit{Value: p.cur.Literal}}
	p.nextToken()
	return lit
}

// parseNameOrCall handles both the bare `Name(n)` production and, when
// the name is immediately followed by `(`, the `Call(Name(n), args)`
// production.
func (p *Parser) parseNameOrCall() ast.Expr {
	name := p.cur.Literal
	if p.peek.Type != token.LPAREN {
		p.nextToken()
		return &ast.Name{Name: name}
	}
	p.nextToken() // consume name, cur is now '('
	args := p.parseArgList(token.RPAREN)
	return &ast.Call{Callee: &ast.Name{Name: name}, Args: args}
}

// parseArgList expects cur to be the opening delimiter and consumes
// through the matching end token.
func (p *Parser) parseArgList(end token.Type) []ast.Expr {
	var args []ast.Expr
	p.nextToken() // consume opening delimiter
	if p.cur.Type == end {
		p.nextToken()
		return args
	}
	args = append(args, p.parseExpression(LOWEST))
	for p.cur.Type == token.COMMA {
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}
	if p.cur.Type != end {
		p.errorf("expected %q, got %q", end, p.cur.Literal)
	} else {
		p.nextToken()
	}
	return args
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken() // consume '('
	expr := p.parseExpression(LOWEST)
	if p.cur.Type != token.RPAREN {
		p.errorf("expected ')', got %q", p.cur.Literal)
	} else {
		p.nextToken()
	}
	return expr
}

func (p *Parser) parseListLiteral() ast.Expr {
	elements := p.parseArgList(token.RBRACKET)
	return &ast.Literal{Value: ast.ListLit{Elements: elements}}
}

func (p *Parser) parseRecordLiteral() ast.Expr {
	p.nextToken() // consume '{'
	var fields []ast.RecordField
	if p.cur.Type == token.RBRACE {
		p.nextToken()
		return &ast.Literal{Value: ast.RecordLit{Fields: fields}}
	}
	fields = append(fields, p.parseRecordField())
	for p.cur.Type == token.COMMA {
		p.nextToken()
		fields = append(fields, p.parseRecordField())
	}
	if p.cur.Type != token.RBRACE {
		p.errorf("expected '}', got %q", p.cur.Literal)
	} else {
		p.nextToken()
	}
	return &ast.Literal{Value: ast.RecordLit{Fields: fields}}
}

func (p *Parser) parseRecordField() ast.RecordField {
	name := p.cur.Literal
	if p.cur.Type != token.NAME {
		p.errorf("expected field name, got %q", p.cur.Literal)
	}
	p.nextToken()
	if p.cur.Type != token.COLON {
		p.errorf("expected ':', got %q", p.cur.Literal)
	} else {
		p.nextToken()
	}
	value := p.parseExpression(LOWEST)
	return ast.RecordField{Name: name, Value: value}
}

func (p *Parser) parsePrefixNegate() ast.Expr {
	p.nextToken() // consume '-'
	operand := p.parseExpression(PREFIX)
	return ast.NewCall("negate", operand)
}

func (p *Parser) parseInfixOperator(left ast.Expr) ast.Expr {
	op := p.cur.Literal
	precedence := precedences[p.cur.Type]
	p.nextToken()
	right := p.parseExpression(precedence)
	return ast.NewCall(op, left, right)
}

func (p *Parser) parseFieldAccess(left ast.Expr) ast.Expr {
	p.nextToken() // consume '.'
	field := p.cur.Literal
	if p.cur.Type != token.NAME {
		p.errorf("expected field name after '.', got %q", p.cur.Literal)
	}
	p.nextToken()
	return &ast.FieldAccess{Target: left, Field: field}
}

// parseLambdaLiteral parses `lambda(p1, p2): body`.
func (p *Parser) parseLambdaLiteral() ast.Expr {
	p.nextToken() // consume 'lambda'
	if p.cur.Type != token.LPAREN {
		p.errorf("expected '(' after lambda, got %q", p.cur.Literal)
		return &ast.Literal{Value: ast.UnitLit{}}
	}
	p.nextToken() // consume '('
	var params []string
	if p.cur.Type != token.RPAREN {
		params = append(params, p.parseParamName())
		for p.cur.Type == token.COMMA {
			p.nextToken()
			params = append(params, p.parseParamName())
		}
	}
	if p.cur.Type != token.RPAREN {
		p.errorf("expected ')', got %q", p.cur.Literal)
	} else {
		p.nextToken()
	}
	if p.cur.Type != token.COLON {
		p.errorf("expected ':' after lambda parameters, got %q", p.cur.Literal)
	} else {
		p.nextToken()
	}
	body := p.parseExpression(LOWEST)
	return &ast.Literal{Value: ast.LambdaLit{Params: params, Body: body}}
}

func (p *Parser) parseParamName() string {
	name := p.cur.Literal
	if p.cur.Type != token.NAME {
		p.errorf("expected parameter name, got %q", p.cur.Literal)
	}
	p.nextToken()
	return name
}

// parseLet parses `let n1: e1, n2: e2: body`, reusing the record field
// syntax `name: expr` for each binding.
func (p *Parser) parseLet() ast.Expr {
	p.nextToken() // consume 'let'
	var bindings []ast.Binding
	field := p.parseRecordField()
	bindings = append(bindings, ast.Binding{Name: field.Name, Expr: field.Value})
	for p.cur.Type == token.COMMA {
		p.nextToken()
		field = p.parseRecordField()
		bindings = append(bindings, ast.Binding{Name: field.Name, Expr: field.Value})
	}
	if p.cur.Type != token.COLON {
		p.errorf("expected ':' before let body, got %q", p.cur.Literal)
	} else {
		p.nextToken()
	}
	body := p.parseExpression(LOWEST)
	return &ast.Let{Bindings: bindings, Body: body}
}

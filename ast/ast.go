// Package ast defines the expression tree built by the parser and
// evaluated by the interpreter.
//
// Literal is deliberately generic over "things written directly in source"
// (LiteralValue), not over fully evaluated runtime values: a list literal's
// elements are themselves expressions, not values, because they still need
// to be evaluated in whatever scope the literal appears in. The interpreter
// also builds synthetic Literal nodes to embed an already-evaluated value
// back into the tree (see interpreter.valueToExpr) when closure capture
// substitutes a captured value into a lambda body.
package ast

// Expr is any node in the expression tree.
type Expr interface {
	exprNode()
}

// Literal wraps a directly-constructed value: an int, a string, a list, a
// record, or a lambda.
type Literal struct {
	Value LiteralValue
}

func (*Literal) exprNode() {}

// Name is a bare identifier. Resolution (local scope, builtin, cell, or
// forced cell reference via a leading '$') happens in the interpreter.
type Name struct {
	Name string
}

func (*Name) exprNode() {}

// Call applies Callee to Args. The parser only ever produces calls whose
// callee is a Name (operators and named functions), but the interpreter
// does not assume that: Callee is evaluated like any other expression and
// must produce a Function value.
type Call struct {
	Callee Expr
	Args   []Expr
}

func (*Call) exprNode() {}

// FieldAccess is the postfix `.name` production; it reads a field directly
// off a record rather than going through the builtin table.
type FieldAccess struct {
	Target Expr
	Field  string
}

func (*FieldAccess) exprNode() {}

// Binding is one `name: expr` pair inside a Let.
type Binding struct {
	Name string
	Expr Expr
}

// Let evaluates its Bindings in order inside a fresh child scope, each one
// visible to the bindings after it, then evaluates Body in that scope.
type Let struct {
	Bindings []Binding
	Body     Expr
}

func (*Let) exprNode() {}

// LiteralValue is the set of shapes a Literal can hold.
type LiteralValue interface {
	literalValue()
}

// UnitLit is the literal of no value; it has no source syntax and only
// arises from embedding an evaluated Unit back into the tree.
type UnitLit struct{}

func (UnitLit) literalValue() {}

type IntLit struct {
	Value int64
}

func (IntLit) literalValue() {}

type StringLit struct {
	Value string
}

func (StringLit) literalValue() {}

// BoolLit has no source syntax either (booleans only ever arise from
// comparisons and the boolean builtins); it exists so that an evaluated
// Boolean can be embedded back into the tree by the interpreter.
type BoolLit struct {
	Value bool
}

func (BoolLit) literalValue() {}

type ListLit struct {
	Elements []Expr
}

func (ListLit) literalValue() {}

// RecordField is one `name: expr` pair inside a record literal.
type RecordField struct {
	Name  string
	Value Expr
}

// RecordLit holds its fields in source order; evaluation builds the
// sorted-key runtime Record, with a later field overwriting an earlier one
// of the same name.
type RecordLit struct {
	Fields []RecordField
}

func (RecordLit) literalValue() {}

// LambdaLit is produced both by the `lambda(params): body` syntax and by
// the interpreter re-embedding an already-closed lambda value.
type LambdaLit struct {
	Params []string
	Body   Expr
}

func (LambdaLit) literalValue() {}

// BuiltinLit embeds an already-resolved builtin function value back into
// the tree; it has no source syntax of its own.
type BuiltinLit struct {
	Name string
}

func (BuiltinLit) literalValue() {}

// NewCall builds a Call(Name(name), args) node, the shape every operator and
// named function invocation parses to.
func NewCall(name string, args ...Expr) *Call {
	return &Call{Callee: &Name{Name: name}, Args: args}
}

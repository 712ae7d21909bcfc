package interpreter

import (
	"reactivesheet/ast"
	"reactivesheet/value"
)

// captureClosure rewrites body so it needs no environment pointer:
// every free Name not shadowed by params or a nested lambda/let is
// replaced with a Literal holding its current value from s, embedded
// back into the tree via valueToExpr. This is the substitution the
// design notes call "closures without environment pointers" — the
// returned expression is self-contained and can be evaluated later in a
// fresh, parent-less scope.
func captureClosure(body ast.Expr, params []string, s *scope) ast.Expr {
	bound := map[string]bool{}
	for _, p := range params {
		bound[p] = true
	}
	return substitute(body, bound, s)
}

func substitute(e ast.Expr, bound map[string]bool, s *scope) ast.Expr {
	switch n := e.(type) {
	case *ast.Literal:
		return &ast.Literal{Value: substituteLiteral(n.Value, bound, s)}
	case *ast.Name:
		if bound[n.Name] {
			return n
		}
		if len(n.Name) > 0 && n.Name[0] == '$' {
			// Forced cell references are resolved at evaluation time
			// against the sheet, not against the lexical scope; they are
			// never free variables to capture.
			return n
		}
		v, ok := s.lookup(n.Name)
		if !ok {
			// Not a local at all — a builtin or cell name, resolved the
			// same way at call time regardless of where the lambda ends
			// up being invoked from.
			return n
		}
		return valueToExpr(v)
	case *ast.Call:
		callee := substitute(n.Callee, bound, s)
		args := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = substitute(a, bound, s)
		}
		return &ast.Call{Callee: callee, Args: args}
	case *ast.FieldAccess:
		return &ast.FieldAccess{Target: substitute(n.Target, bound, s), Field: n.Field}
	case *ast.Let:
		childBound := cloneBound(bound)
		bindings := make([]ast.Binding, len(n.Bindings))
		for i, b := range n.Bindings {
			bindings[i] = ast.Binding{Name: b.Name, Expr: substitute(b.Expr, childBound, s)}
			childBound[b.Name] = true
		}
		return &ast.Let{Bindings: bindings, Body: substitute(n.Body, childBound, s)}
	default:
		return e
	}
}

func substituteLiteral(v ast.LiteralValue, bound map[string]bool, s *scope) ast.LiteralValue {
	switch lv := v.(type) {
	case ast.ListLit:
		elems := make([]ast.Expr, len(lv.Elements))
		for i, el := range lv.Elements {
			elems[i] = substitute(el, bound, s)
		}
		return ast.ListLit{Elements: elems}
	case ast.RecordLit:
		fields := make([]ast.RecordField, len(lv.Fields))
		for i, f := range lv.Fields {
			fields[i] = ast.RecordField{Name: f.Name, Value: substitute(f.Value, bound, s)}
		}
		return ast.RecordLit{Fields: fields}
	case ast.LambdaLit:
		nested := cloneBound(bound)
		for _, p := range lv.Params {
			nested[p] = true
		}
		return ast.LambdaLit{Params: lv.Params, Body: substitute(lv.Body, nested, s)}
	default:
		return v
	}
}

func cloneBound(bound map[string]bool) map[string]bool {
	out := make(map[string]bool, len(bound)+1)
	for k, v := range bound {
		out[k] = v
	}
	return out
}

// valueToExpr embeds an already-evaluated value back into the tree as a
// Literal, the inverse of evalLiteral.
func valueToExpr(v value.Value) ast.Expr {
	return &ast.Literal{Value: valueToLiteral(v)}
}

func valueToLiteral(v value.Value) ast.LiteralValue {
	switch val := v.(type) {
	case value.Unit:
		return ast.UnitLit{}
	case value.Integer:
		return ast.IntLit{Value: val.Value}
	case value.String:
		return ast.StringLit{Value: val.Value}
	case value.Boolean:
		return ast.BoolLit{Value: val.Value}
	case value.List:
		elems := make([]ast.Expr, len(val.Elements))
		for i, el := range val.Elements {
			elems[i] = valueToExpr(el)
		}
		return ast.ListLit{Elements: elems}
	case value.Record:
		fields := make([]ast.RecordField, 0, len(val.Keys()))
		for _, k := range val.Keys() {
			fv, _ := val.Get(k)
			fields = append(fields, ast.RecordField{Name: k, Value: valueToExpr(fv)})
		}
		return ast.RecordLit{Fields: fields}
	case value.Function:
		if val.Lambda != nil {
			return ast.LambdaLit{Params: val.Lambda.Params, Body: val.Lambda.Body}
		}
		return ast.BuiltinLit{Name: val.Builtin}
	default:
		return ast.UnitLit{}
	}
}

// Package interpreter evaluates ast.Expr trees against a sheet, tracking
// every cell read and every push performed along the way so the caller
// (the sheet) can update its dependency graph.
package interpreter

import (
	"reactivesheet/ast"
	"reactivesheet/builtin"
	"reactivesheet/langerr"
	"reactivesheet/value"
)

// CellReader is the read-only view of sheet state the interpreter needs:
// looking up another cell's current value by name. The sheet package
// implements this; the interpreter never imports sheet, keeping the
// dependency edge one-directional. found is false only when no cell by
// that name exists; a cell that exists but evaluated to an error reports
// found=true with a non-nil err, which the interpreter turns into a
// propagated error.
type CellReader interface {
	CellValue(name string) (v value.Value, err *langerr.Error, found bool)
}

// Result is everything a single top-level evaluation produces: the
// value or error, and the read/push sets the sheet folds into its
// dependency graph.
type Result struct {
	Value  value.Value
	Err    *langerr.Error
	Reads  map[string]struct{}
	Pushes map[string][]value.Value
}

// scope is one frame of the lexical-scope stack; frames are parent-linked
// only for lookup during ordinary evaluation. Lambda bodies never link to
// the defining scope (see callLambda) because closure capture has
// already substituted every free name by the time a LambdaLit is stored
// in a Value.
type scope struct {
	parent *scope
	vars   map[string]value.Value
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: map[string]value.Value{}}
}

func (s *scope) lookup(name string) (value.Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *scope) set(name string, v value.Value) {
	s.vars[name] = v
}

// ctx is the per-call evaluation context threaded through every Eval
// call for one top-level evaluation.
type ctx struct {
	sheet  CellReader
	inbox  []value.Value
	reads  map[string]struct{}
	pushes map[string][]value.Value
	scope  *scope
}

// Eval evaluates expr against sheet with the given inbox (the cell's
// current pushed-value sequence, per §3) and returns the full Result.
// Eval never panics on a malformed expression; every failure mode is
// reported as Result.Err.
func Eval(expr ast.Expr, sheet CellReader, inbox []value.Value) Result {
	c := &ctx{
		sheet:  sheet,
		inbox:  inbox,
		reads:  map[string]struct{}{},
		pushes: map[string][]value.Value{},
		scope:  newScope(nil),
	}
	v, err := c.eval(expr)
	return Result{Value: v, Err: err, Reads: c.reads, Pushes: c.pushes}
}

func (c *ctx) eval(expr ast.Expr) (value.Value, *langerr.Error) {
	switch n := expr.(type) {
	case *ast.Literal:
		return c.evalLiteral(n.Value)
	case *ast.Name:
		return c.evalName(n.Name)
	case *ast.Call:
		return c.evalCall(n)
	case *ast.FieldAccess:
		return c.evalFieldAccess(n)
	case *ast.Let:
		return c.evalLet(n)
	default:
		return nil, langerr.Newf("unknown expression node %T", expr)
	}
}

// evalName implements the five-step resolution order from §4.4: forced
// cell reference, lexical scope, builtin, implicit cell reference,
// unknown name.
func (c *ctx) evalName(name string) (value.Value, *langerr.Error) {
	if len(name) > 0 && name[0] == '$' {
		cellName := name[1:]
		c.reads[cellName] = struct{}{}
		v, cellErr, found := c.sheet.CellValue(cellName)
		if !found {
			return nil, langerr.Newf("Unknown cell name %s", cellName)
		}
		if cellErr != nil {
			return nil, langerr.Newf("Error in read cell %s", cellName)
		}
		return v, nil
	}
	if v, ok := c.scope.lookup(name); ok {
		return v, nil
	}
	if builtin.Lookup(name) {
		return value.Function{Builtin: name}, nil
	}
	if v, cellErr, found := c.sheet.CellValue(name); found {
		c.reads[name] = struct{}{}
		if cellErr != nil {
			return nil, langerr.Newf("Error in read cell %s", name)
		}
		return v, nil
	}
	return nil, langerr.Newf("Unknown name %s", name)
}

func (c *ctx) evalFieldAccess(n *ast.FieldAccess) (value.Value, *langerr.Error) {
	target, err := c.eval(n.Target)
	if err != nil {
		return nil, err
	}
	rec, ok := target.(value.Record)
	if !ok {
		return nil, langerr.New("field access on non-record value")
	}
	v, ok := rec.Get(n.Field)
	if !ok {
		return nil, langerr.Newf("missing field %s", n.Field)
	}
	return v, nil
}

func (c *ctx) evalLet(n *ast.Let) (value.Value, *langerr.Error) {
	child := newScope(c.scope)
	saved := c.scope
	c.scope = child
	defer func() { c.scope = saved }()

	for _, b := range n.Bindings {
		v, err := c.eval(b.Expr)
		if err != nil {
			return nil, err
		}
		child.set(b.Name, v)
	}
	return c.eval(n.Body)
}

func (c *ctx) evalLiteral(v ast.LiteralValue) (value.Value, *langerr.Error) {
	switch lv := v.(type) {
	case ast.UnitLit:
		return value.Unit{}, nil
	case ast.IntLit:
		return value.Integer{Value: lv.Value}, nil
	case ast.StringLit:
		return value.String{Value: lv.Value}, nil
	case ast.BoolLit:
		return value.Boolean{Value: lv.Value}, nil
	case ast.ListLit:
		elems := make([]value.Value, 0, len(lv.Elements))
		for _, e := range lv.Elements {
			ev, err := c.eval(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, ev)
		}
		return value.List{Elements: elems}, nil
	case ast.RecordLit:
		rec := value.NewRecord()
		for _, f := range lv.Fields {
			fv, err := c.eval(f.Value)
			if err != nil {
				return nil, err
			}
			rec.Set(f.Name, fv)
		}
		return *rec, nil
	case ast.LambdaLit:
		body := captureClosure(lv.Body, lv.Params, c.scope)
		return value.Function{Lambda: &value.Lambda{Params: lv.Params, Body: body}}, nil
	case ast.BuiltinLit:
		return value.Function{Builtin: lv.Name}, nil
	default:
		return nil, langerr.Newf("unknown literal %T", v)
	}
}

func (c *ctx) evalCall(n *ast.Call) (value.Value, *langerr.Error) {
	// Lazy builtins dispatch on the raw argument expressions before the
	// callee value even needs to be a Function in the ordinary sense;
	// they are still reached through a Name callee like any other call.
	if name, ok := n.Callee.(*ast.Name); ok && builtin.IsLazy(name.Name) {
		return c.evalLazyBuiltin(name.Name, n.Args)
	}

	fn, err := c.eval(n.Callee)
	if err != nil {
		return nil, err
	}
	f, ok := fn.(value.Function)
	if !ok {
		return nil, langerr.New("call target is not a function")
	}

	args := make([]value.Value, 0, len(n.Args))
	for _, a := range n.Args {
		av, err := c.eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, av)
	}

	if f.Lambda != nil {
		return c.callLambda(f.Lambda, args)
	}
	return c.callBuiltin(f.Builtin, args)
}

// callLambda runs the body in a fresh scope populated only with the
// parameter bindings, with no lexical link to the caller's scope: the
// body was already made self-contained by closure capture.
func (c *ctx) callLambda(l *value.Lambda, args []value.Value) (value.Value, *langerr.Error) {
	if len(args) != len(l.Params) {
		return nil, langerr.Newf("lambda expects %d arguments, got %d", len(l.Params), len(args))
	}
	fresh := newScope(nil)
	for i, p := range l.Params {
		fresh.set(p, args[i])
	}
	saved := c.scope
	c.scope = fresh
	defer func() { c.scope = saved }()
	return c.eval(l.Body)
}

func (c *ctx) evalLazyBuiltin(tag string, args []ast.Expr) (value.Value, *langerr.Error) {
	switch tag {
	case builtin.And:
		if len(args) != 2 {
			return nil, langerr.Newf("and expects 2 arguments, got %d", len(args))
		}
		l, err := c.evalBool(args[0])
		if err != nil {
			return nil, err
		}
		if !l {
			return value.Boolean{Value: false}, nil
		}
		r, err := c.evalBool(args[1])
		if err != nil {
			return nil, err
		}
		return value.Boolean{Value: r}, nil
	case builtin.Or:
		if len(args) != 2 {
			return nil, langerr.Newf("or expects 2 arguments, got %d", len(args))
		}
		l, err := c.evalBool(args[0])
		if err != nil {
			return nil, err
		}
		if l {
			return value.Boolean{Value: true}, nil
		}
		r, err := c.evalBool(args[1])
		if err != nil {
			return nil, err
		}
		return value.Boolean{Value: r}, nil
	case builtin.If:
		if len(args) != 3 {
			return nil, langerr.Newf("if expects 3 arguments, got %d", len(args))
		}
		cond, err := c.evalBool(args[0])
		if err != nil {
			return nil, err
		}
		if cond {
			return c.eval(args[1])
		}
		return c.eval(args[2])
	default:
		return nil, langerr.Newf("unknown lazy builtin %s", tag)
	}
}

func (c *ctx) evalBool(e ast.Expr) (bool, *langerr.Error) {
	v, err := c.eval(e)
	if err != nil {
		return false, err
	}
	b, ok := v.(value.Boolean)
	if !ok {
		return false, langerr.New("expected a boolean operand")
	}
	return b.Value, nil
}

func (c *ctx) callBuiltin(tag string, args []value.Value) (value.Value, *langerr.Error) {
	switch tag {
	case builtin.Add, builtin.Sub, builtin.Mul:
		return evalArith(tag, args)
	case builtin.Negate:
		return evalNegate(args)
	case builtin.Index:
		return evalIndex(args)
	case builtin.Dot:
		return evalDot(args)
	case builtin.Lt, builtin.Gt, builtin.Le, builtin.Ge:
		return evalCompare(tag, args)
	case builtin.Eq:
		return evalEquals(args)
	case builtin.Not:
		return evalNot(args)
	case builtin.Push:
		return c.evalPush(args)
	case builtin.Read:
		return c.evalRead(args)
	case builtin.Map:
		return c.evalMap(args)
	case builtin.Fold:
		return c.evalFold(args)
	case builtin.Filter:
		return c.evalFilter(args)
	default:
		return nil, langerr.Newf("unknown builtin %s", tag)
	}
}

func twoIntegers(args []value.Value) (int64, int64, *langerr.Error) {
	if len(args) != 2 {
		return 0, 0, langerr.Newf("expected 2 integer arguments, got %d", len(args))
	}
	l, ok := args[0].(value.Integer)
	if !ok {
		return 0, 0, langerr.New("expected an integer argument")
	}
	r, ok := args[1].(value.Integer)
	if !ok {
		return 0, 0, langerr.New("expected an integer argument")
	}
	return l.Value, r.Value, nil
}

func evalArith(tag string, args []value.Value) (value.Value, *langerr.Error) {
	l, r, err := twoIntegers(args)
	if err != nil {
		return nil, err
	}
	switch tag {
	case builtin.Add:
		return value.Integer{Value: l + r}, nil
	case builtin.Sub:
		return value.Integer{Value: l - r}, nil
	default:
		return value.Integer{Value: l * r}, nil
	}
}

func evalNegate(args []value.Value) (value.Value, *langerr.Error) {
	if len(args) != 1 {
		return nil, langerr.Newf("negate expects 1 argument, got %d", len(args))
	}
	i, ok := args[0].(value.Integer)
	if !ok {
		return nil, langerr.New("negate expects an integer argument")
	}
	return value.Integer{Value: -i.Value}, nil
}

func evalIndex(args []value.Value) (value.Value, *langerr.Error) {
	if len(args) != 2 {
		return nil, langerr.Newf("index expects 2 arguments, got %d", len(args))
	}
	switch collection := args[0].(type) {
	case value.List:
		i, ok := args[1].(value.Integer)
		if !ok {
			return nil, langerr.New("index into a list expects an integer")
		}
		if i.Value < 0 || int(i.Value) >= len(collection.Elements) {
			return nil, langerr.Newf("index %d out of bounds", i.Value)
		}
		return collection.Elements[i.Value], nil
	case value.Record:
		k, ok := args[1].(value.String)
		if !ok {
			return nil, langerr.New("index into a record expects a string")
		}
		v, ok := collection.Get(k.Value)
		if !ok {
			return nil, langerr.Newf("missing key %s", k.Value)
		}
		return v, nil
	default:
		return nil, langerr.New("index expects a list or record")
	}
}

func evalDot(args []value.Value) (value.Value, *langerr.Error) {
	if len(args) != 2 {
		return nil, langerr.Newf("dot expects 2 arguments, got %d", len(args))
	}
	rec, ok := args[0].(value.Record)
	if !ok {
		return nil, langerr.New("dot expects a record")
	}
	k, ok := args[1].(value.String)
	if !ok {
		return nil, langerr.New("dot expects a string key")
	}
	v, ok := rec.Get(k.Value)
	if !ok {
		return nil, langerr.Newf("missing key %s", k.Value)
	}
	return v, nil
}

func evalCompare(tag string, args []value.Value) (value.Value, *langerr.Error) {
	l, r, err := twoIntegers(args)
	if err != nil {
		return nil, err
	}
	var result bool
	switch tag {
	case builtin.Lt:
		result = l < r
	case builtin.Gt:
		result = l > r
	case builtin.Le:
		result = l <= r
	case builtin.Ge:
		result = l >= r
	}
	return value.Boolean{Value: result}, nil
}

func evalEquals(args []value.Value) (value.Value, *langerr.Error) {
	if len(args) != 2 {
		return nil, langerr.Newf("== expects 2 arguments, got %d", len(args))
	}
	switch l := args[0].(type) {
	case value.Integer:
		r, ok := args[1].(value.Integer)
		if !ok {
			return nil, langerr.New("== expects matching operand types")
		}
		return value.Boolean{Value: l.Value == r.Value}, nil
	case value.String:
		r, ok := args[1].(value.String)
		if !ok {
			return nil, langerr.New("== expects matching operand types")
		}
		return value.Boolean{Value: l.Value == r.Value}, nil
	case value.Boolean:
		r, ok := args[1].(value.Boolean)
		if !ok {
			return nil, langerr.New("== expects matching operand types")
		}
		return value.Boolean{Value: l.Value == r.Value}, nil
	default:
		return nil, langerr.New("== is only defined for integers, strings, and booleans")
	}
}

func evalNot(args []value.Value) (value.Value, *langerr.Error) {
	if len(args) != 1 {
		return nil, langerr.Newf("not expects 1 argument, got %d", len(args))
	}
	b, ok := args[0].(value.Boolean)
	if !ok {
		return nil, langerr.New("not expects a boolean argument")
	}
	return value.Boolean{Value: !b.Value}, nil
}

// evalPush appends value to the outgoing pushes for target; it
// deliberately does not touch c.reads (§4.4: push does not record a
// read of the target).
func (c *ctx) evalPush(args []value.Value) (value.Value, *langerr.Error) {
	if len(args) != 2 {
		return nil, langerr.Newf("push expects 2 arguments, got %d", len(args))
	}
	target, ok := args[0].(value.String)
	if !ok {
		return nil, langerr.New("push expects a string target")
	}
	c.pushes[target.Value] = append(c.pushes[target.Value], args[1])
	return value.Unit{}, nil
}

func (c *ctx) evalRead(args []value.Value) (value.Value, *langerr.Error) {
	if len(args) != 0 {
		return nil, langerr.Newf("read expects 0 arguments, got %d", len(args))
	}
	elems := make([]value.Value, len(c.inbox))
	copy(elems, c.inbox)
	return value.List{Elements: elems}, nil
}

func asFunction(v value.Value) (value.Function, *langerr.Error) {
	f, ok := v.(value.Function)
	if !ok {
		return value.Function{}, langerr.New("expected a function argument")
	}
	return f, nil
}

func (c *ctx) applyFunction(f value.Function, args []value.Value) (value.Value, *langerr.Error) {
	if f.Lambda != nil {
		return c.callLambda(f.Lambda, args)
	}
	return c.callBuiltin(f.Builtin, args)
}

func (c *ctx) evalMap(args []value.Value) (value.Value, *langerr.Error) {
	if len(args) != 2 {
		return nil, langerr.Newf("map expects 2 arguments, got %d", len(args))
	}
	f, err := asFunction(args[0])
	if err != nil {
		return nil, err
	}
	switch coll := args[1].(type) {
	case value.List:
		out := make([]value.Value, len(coll.Elements))
		for i, el := range coll.Elements {
			v, err := c.applyFunction(f, []value.Value{el})
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return value.List{Elements: out}, nil
	case value.Record:
		out := value.NewRecord()
		for _, k := range coll.Keys() {
			v, _ := coll.Get(k)
			mapped, err := c.applyFunction(f, []value.Value{value.String{Value: k}, v})
			if err != nil {
				return nil, err
			}
			out.Set(k, mapped)
		}
		return *out, nil
	default:
		return nil, langerr.New("map expects a list or record")
	}
}

func (c *ctx) evalFold(args []value.Value) (value.Value, *langerr.Error) {
	if len(args) != 3 {
		return nil, langerr.Newf("fold expects 3 arguments, got %d", len(args))
	}
	f, err := asFunction(args[0])
	if err != nil {
		return nil, err
	}
	acc := args[1]
	switch coll := args[2].(type) {
	case value.List:
		for _, el := range coll.Elements {
			acc, err = c.applyFunction(f, []value.Value{acc, el})
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	case value.Record:
		for _, k := range coll.Keys() {
			v, _ := coll.Get(k)
			acc, err = c.applyFunction(f, []value.Value{acc, value.String{Value: k}, v})
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	default:
		return nil, langerr.New("fold expects a list or record")
	}
}

// evalFilter implements the record branch directly from the spec's
// description (keys preserved, predicate receives (k, v)); the original
// implementation left this branch unwritten.
func (c *ctx) evalFilter(args []value.Value) (value.Value, *langerr.Error) {
	if len(args) != 2 {
		return nil, langerr.Newf("filter expects 2 arguments, got %d", len(args))
	}
	f, err := asFunction(args[0])
	if err != nil {
		return nil, err
	}
	switch coll := args[1].(type) {
	case value.List:
		var out []value.Value
		for _, el := range coll.Elements {
			keep, err := c.applyFunctionBool(f, []value.Value{el})
			if err != nil {
				return nil, err
			}
			if keep {
				out = append(out, el)
			}
		}
		return value.List{Elements: out}, nil
	case value.Record:
		out := value.NewRecord()
		for _, k := range coll.Keys() {
			v, _ := coll.Get(k)
			keep, err := c.applyFunctionBool(f, []value.Value{value.String{Value: k}, v})
			if err != nil {
				return nil, err
			}
			if keep {
				out.Set(k, v)
			}
		}
		return *out, nil
	default:
		return nil, langerr.New("filter expects a list or record")
	}
}

func (c *ctx) applyFunctionBool(f value.Function, args []value.Value) (bool, *langerr.Error) {
	v, err := c.applyFunction(f, args)
	if err != nil {
		return false, err
	}
	b, ok := v.(value.Boolean)
	if !ok {
		return false, langerr.New("filter predicate must return a boolean")
	}
	return b.Value, nil
}

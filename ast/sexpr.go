package ast

import (
	"sort"
	"strconv"
	"strings"
)

// SExpr renders e in the stable debug format used by tests and by the
// demo binary: bare identifiers for names, parenthesized prefix notation
// for calls, `(.field target)` for field access, and
// `(let ((n1 e1) (n2 e2)) body)` for let.
func SExpr(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *Literal:
		writeLiteralValue(b, n.Value)
	case *Name:
		b.WriteString(n.Name)
	case *Call:
		b.WriteByte('(')
		writeExpr(b, n.Callee)
		for _, arg := range n.Args {
			b.WriteByte(' ')
			writeExpr(b, arg)
		}
		b.WriteByte(')')
	case *FieldAccess:
		b.WriteString("(.")
		b.WriteString(n.Field)
		b.WriteByte(' ')
		writeExpr(b, n.Target)
		b.WriteByte(')')
	case *Let:
		b.WriteString("(let (")
		for i, bind := range n.Bindings {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte('(')
			b.WriteString(bind.Name)
			b.WriteByte(' ')
			writeExpr(b, bind.Expr)
			b.WriteByte(')')
		}
		b.WriteString(") ")
		writeExpr(b, n.Body)
		b.WriteByte(')')
	default:
		b.WriteString("<unknown expr>")
	}
}

func writeLiteralValue(b *strings.Builder, v LiteralValue) {
	switch lv := v.(type) {
	case UnitLit:
		b.WriteString("()")
	case IntLit:
		b.WriteString(strconv.FormatInt(lv.Value, 10))
	case StringLit:
		b.WriteByte('"')
		b.WriteString(lv.Value)
		b.WriteByte('"')
	case BoolLit:
		if lv.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case ListLit:
		b.WriteByte('[')
		for i, el := range lv.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, el)
		}
		b.WriteByte(']')
	case RecordLit:
		fields := make([]RecordField, len(lv.Fields))
		copy(fields, lv.Fields)
		sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
		b.WriteByte('{')
		for i, f := range fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			writeExpr(b, f.Value)
		}
		b.WriteByte('}')
	case LambdaLit:
		b.WriteString("(lambda (")
		b.WriteString(strings.Join(lv.Params, ", "))
		b.WriteString(") ")
		writeExpr(b, lv.Body)
		b.WriteByte(')')
	case BuiltinLit:
		b.WriteString("(builtin ")
		b.WriteString(lv.Name)
		b.WriteByte(')')
	default:
		b.WriteString("<unknown literal>")
	}
}

package interpreter

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"reactivesheet/langerr"
	"reactivesheet/parser"
	"reactivesheet/value"
)

func evalSrc(t *testing.T, src string, sheet CellReader, inbox []value.Value) Result {
	t.Helper()
	expr, errs := parser.ParseExpr(src)
	if len(errs) > 0 {
		t.Fatalf("parse %q: %v", src, errs)
	}
	return Eval(expr, sheet, inbox)
}

func sortedReads(r Result) []string {
	out := make([]string, 0, len(r.Reads))
	for k := range r.Reads {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestArithmeticPrecedence(t *testing.T) {
	r := evalSrc(t, "1 + 2 * 3", emptySheet{}, nil)
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	if diff := cmp.Diff(value.Integer{Value: 7}, r.Value); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestLazyIfShortCircuits(t *testing.T) {
	r := evalSrc(t, "if(1 == 1, 10, nonexistent)", emptySheet{}, nil)
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	if diff := cmp.Diff(value.Integer{Value: 10}, r.Value); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestReadReturnsInbox(t *testing.T) {
	inbox := []value.Value{value.Integer{Value: 7}, value.Integer{Value: 8}}
	r := evalSrc(t, "read()", emptySheet{}, inbox)
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	want := value.List{Elements: inbox}
	if diff := cmp.Diff(want, r.Value); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestPushRecordsNoRead(t *testing.T) {
	r := evalSrc(t, `push("T", 1)`, emptySheet{}, nil)
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	if len(r.Reads) != 0 {
		t.Errorf("push recorded reads: %v", sortedReads(r))
	}
	want := map[string][]value.Value{"T": {value.Integer{Value: 1}}}
	if diff := cmp.Diff(want, r.Pushes); diff != "" {
		t.Errorf("pushes mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterOnRecord(t *testing.T) {
	r := evalSrc(t, `filter(lambda(k,v): v, {a: 1 == 1, b: 1 == 2})`, emptySheet{}, nil)
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	rec, ok := r.Value.(value.Record)
	if !ok {
		t.Fatalf("expected a record, got %T", r.Value)
	}
	if got, want := rec.Keys(), []string{"a"}; len(got) != len(want) || got[0] != want[0] {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

// emptySheet is a CellReader with no cells, used for tests that never
// reference a cell by name.
type emptySheet struct{}

func (emptySheet) CellValue(name string) (value.Value, *langerr.Error, bool) {
	return nil, nil, false
}

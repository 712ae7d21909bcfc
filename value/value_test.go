package value

import "testing"

func TestRecordKeySortedInsertOrderIndependent(t *testing.T) {
	r := NewRecord()
	r.Set("b", Integer{Value: 2})
	r.Set("a", Integer{Value: 1})

	if got, want := r.Inspect(), "{a: 1, b: 2}"; got != want {
		t.Errorf("Inspect() = %q, want %q", got, want)
	}
	if got, want := r.Keys(), []string{"a", "b"}; !equalStrings(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestRecordSetOverwritesPreservesOrder(t *testing.T) {
	r := NewRecord()
	r.Set("a", Integer{Value: 1})
	r.Set("b", Integer{Value: 2})
	r.Set("a", Integer{Value: 99})

	if got, want := r.Inspect(), "{a: 99, b: 2}"; got != want {
		t.Errorf("Inspect() = %q, want %q", got, want)
	}
}

func TestListInspect(t *testing.T) {
	l := List{Elements: []Value{Integer{Value: 1}, String{Value: "x"}, Boolean{Value: true}}}
	if got, want := l.Inspect(), `[1, "x", true]`; got != want {
		t.Errorf("Inspect() = %q, want %q", got, want)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package sheet

import (
	"testing"

	"reactivesheet/langerr"
)

func inspect(t *testing.T, s *Sheet, id string) string {
	t.Helper()
	v, ok := s.GetCellValue(id)
	if !ok {
		t.Fatalf("cell %s not found", id)
	}
	if v == nil {
		err, _ := s.GetCellError(id)
		return "ERROR:" + err.Error()
	}
	return v.Inspect()
}

func TestScenarioS1(t *testing.T) {
	s := New()
	s.AddCell("A1", "5")
	s.AddCell("A2", "-A1 - -3")
	s.AddCell("A3", "{x: A1, y: A2}")

	if got := inspect(t, s, "A1"); got != "5" {
		t.Errorf("A1 = %s, want 5", got)
	}
	if got := inspect(t, s, "A2"); got != "-2" {
		t.Errorf("A2 = %s, want -2", got)
	}
	if got := inspect(t, s, "A3"); got != "{x: 5, y: -2}" {
		t.Errorf("A3 = %s, want {x: 5, y: -2}", got)
	}

	s.UpdateCell("A1", "-2")
	if got := inspect(t, s, "A1"); got != "-2" {
		t.Errorf("A1 = %s, want -2", got)
	}
	if got := inspect(t, s, "A2"); got != "5" {
		t.Errorf("A2 = %s, want 5", got)
	}
	if got := inspect(t, s, "A3"); got != "{x: -2, y: 5}" {
		t.Errorf("A3 = %s, want {x: -2, y: 5}", got)
	}
}

func TestScenarioS2Cycle(t *testing.T) {
	s := New()
	s.AddCell("A", "1")
	s.AddCell("B", "A + 1")
	s.UpdateCell("A", "B")

	for _, id := range []string{"A", "B"} {
		_, ok := s.GetCellValue(id)
		if !ok {
			t.Fatalf("cell %s missing", id)
		}
		err, _ := s.GetCellError(id)
		if err == nil || err.Error() != langerr.Circular {
			t.Errorf("%s error = %v, want %s", id, err, langerr.Circular)
		}
	}

	s.UpdateCell("A", "10")
	if got := inspect(t, s, "A"); got != "10" {
		t.Errorf("A = %s, want 10", got)
	}
	if got := inspect(t, s, "B"); got != "11" {
		t.Errorf("B = %s, want 11", got)
	}
}

// TestCycleScopeExcludesOffCycleRead guards against stamping a cell that
// a cycle member merely reads in passing: X is read by B but is not
// itself part of the A<->B cycle, so it must keep its own value.
func TestCycleScopeExcludesOffCycleRead(t *testing.T) {
	s := New()
	s.AddCell("X", "7")
	s.AddCell("A", "1")
	s.AddCell("B", "A + X")
	s.UpdateCell("A", "B")

	for _, id := range []string{"A", "B"} {
		err, _ := s.GetCellError(id)
		if err == nil || err.Error() != langerr.Circular {
			t.Errorf("%s error = %v, want %s", id, err, langerr.Circular)
		}
	}
	if got := inspect(t, s, "X"); got != "7" {
		t.Errorf("X = %s, want 7 (must not be stamped circular)", got)
	}
}

func TestScenarioS3Fold(t *testing.T) {
	s := New()
	s.AddCell("A", "[1,2,3,4]")
	s.AddCell("B", "fold(lambda(a,x): a + x, 0, A)")

	if got := inspect(t, s, "B"); got != "10" {
		t.Errorf("B = %s, want 10", got)
	}

	s.UpdateCell("A", "[5,5]")
	if got := inspect(t, s, "B"); got != "10" {
		t.Errorf("B = %s, want 10", got)
	}
}

func TestScenarioS4Push(t *testing.T) {
	s := New()
	s.AddCell("W", `push("T", 7)`)
	s.AddCell("T", "read()")

	// The first evaluation of W does not apply its pushes (open design
	// question (a)); T only sees them once W is updated.
	if got := inspect(t, s, "T"); got != "[]" {
		t.Errorf("T = %s, want []", got)
	}

	s.UpdateCell("W", `push("T", 7)`)
	if got := inspect(t, s, "T"); got != "[7]" {
		t.Errorf("T = %s, want [7]", got)
	}

	s.UpdateCell("W", `push("T", 8)`)
	if got := inspect(t, s, "T"); got != "[8]" {
		t.Errorf("T = %s, want [8]", got)
	}

	s.UpdateCell("W", "0")
	if got := inspect(t, s, "T"); got != "[]" {
		t.Errorf("T = %s, want []", got)
	}
}

func TestScenarioS5FieldAccess(t *testing.T) {
	s := New()
	s.AddCell("A", "{k: 1}")
	s.AddCell("B", "A.k + A.m")

	_, ok := s.GetCellValue("B")
	if !ok {
		t.Fatalf("cell B missing")
	}
	err, _ := s.GetCellError("B")
	if err == nil {
		t.Fatalf("expected B to error on missing field")
	}

	s.UpdateCell("A", "{k: 1, m: 2}")
	if got := inspect(t, s, "B"); got != "3" {
		t.Errorf("B = %s, want 3", got)
	}
}

func TestScenarioS6ShortCircuit(t *testing.T) {
	s := New()
	s.AddCell("A", "if(1 == 1, 10, missing)")
	if got := inspect(t, s, "A"); got != "10" {
		t.Errorf("A = %s, want 10", got)
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"A1", "_x", "foo_bar"}
	invalid := []string{"", "1A", "$A1", "a-b"}
	for _, n := range valid {
		if !ValidateName(n) {
			t.Errorf("ValidateName(%q) = false, want true", n)
		}
	}
	for _, n := range invalid {
		if ValidateName(n) {
			t.Errorf("ValidateName(%q) = true, want false", n)
		}
	}
}

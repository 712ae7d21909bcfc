// sheetdemo is a minimal, non-interactive walkthrough of the engine: it
// builds a few cells, prints their values and ASTs, edits one, and
// prints the result again. It exists to exercise the Sheet surface end
// to end; the interactive front-end is out of scope for this module.
package main

import (
	"fmt"

	"reactivesheet/sheet"
)

func main() {
	s := sheet.New()

	s.AddCell("A1", "5")
	s.AddCell("A2", "-A1 - -3")
	s.AddCell("A3", "{x: A1, y: A2}")

	printCell(s, "A1")
	printCell(s, "A2")
	printCell(s, "A3")

	fmt.Println("update A1 to -2")
	s.UpdateCell("A1", "-2")

	printCell(s, "A1")
	printCell(s, "A2")
	printCell(s, "A3")
}

func printCell(s *sheet.Sheet, id string) {
	text, _ := s.GetCellText(id)
	expr, _ := s.GetASTSExpr(id)
	v, ok := s.GetCellValue(id)
	if !ok || v == nil {
		err, _ := s.GetCellError(id)
		fmt.Printf("%s = %q -> %s : error: %s\n", id, text, expr, err)
		return
	}
	fmt.Printf("%s = %q -> %s : %s\n", id, text, expr, v.Inspect())
}

// Package sheet is the engine: cell storage, the dependency graph
// maintained by observing evaluation, and the propagation algorithm that
// recomputes affected cells in order while detecting cycles.
package sheet

import (
	"regexp"
	"sort"

	"reactivesheet/ast"
	"reactivesheet/graph"
	"reactivesheet/interpreter"
	"reactivesheet/langerr"
	"reactivesheet/parser"
	"reactivesheet/value"
)

// nameRE is the CellId production from the data model: it rejects the
// leading '$' that the lexer otherwise allows in its Name production,
// since '$' is meaningful only inside expressions, never as a cell's own
// identity.
var nameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateName reports whether s is a legal cell name. Callers must
// check this themselves before calling AddCell; AddCell does not
// validate it a second time.
func ValidateName(s string) bool {
	return nameRE.MatchString(s)
}

// Cell is one named slot: its source text, its parsed tree (nil if
// parsing failed), and its current value or error.
type Cell struct {
	Name   string
	Text   string
	Parsed ast.Expr
	Value  value.Value
	Err    *langerr.Error

	// pendingPushes holds the outgoing pushes from this cell's most
	// recent evaluation until recompute folds them into the sheet's
	// push bookkeeping.
	pendingPushes map[string][]value.Value
}

// Sheet holds every cell plus the bidirectional dependency bookkeeping
// described by the data model: read_relations, and the writer/target
// push-bookkeeping pair, kept as logical inverses of one another.
type Sheet struct {
	cells map[string]*Cell

	// readRelations relates read cell -> reader: Insert(read, reader)
	// records that `reader`'s last evaluation referenced `read`.
	readRelations *graph.BiRelation[string, string]

	// writerToTargets[writer] is the set of cells writer most recently
	// pushed into.
	writerToTargets map[string]map[string]struct{}

	// targetInboxes[target][writer] is the sequence of values writer
	// pushed on its last evaluation, as read by target.
	targetInboxes map[string]map[string][]value.Value
}

func New() *Sheet {
	return &Sheet{
		cells:           map[string]*Cell{},
		readRelations:   graph.NewBiRelation[string, string](),
		writerToTargets: map[string]map[string]struct{}{},
		targetInboxes:   map[string]map[string][]value.Value{},
	}
}

// CellValue implements interpreter.CellReader.
func (s *Sheet) CellValue(name string) (value.Value, *langerr.Error, bool) {
	c, ok := s.cells[name]
	if !ok {
		return nil, nil, false
	}
	return c.Value, c.Err, true
}

// AddCell creates a new cell named name with the given source text and
// performs its first evaluation with an empty inbox. It returns false if
// a cell with that name already exists. Per the open design question
// this first evaluation does not apply any outgoing pushes to other
// cells' inboxes — those only take effect starting with the next
// update_cell that reaches this cell, matching the source behavior the
// spec asks implementations to follow.
func (s *Sheet) AddCell(name, text string) bool {
	if _, exists := s.cells[name]; exists {
		return false
	}
	c := &Cell{Name: name, Text: text}
	s.cells[name] = c
	s.evaluate(c)
	return true
}

// UpdateCell replaces a cell's text and runs the propagation loop,
// returning every cell id recomputed during this call (including id
// itself). It is a no-op returning nil if id is unknown.
func (s *Sheet) UpdateCell(id, text string) []string {
	c, ok := s.cells[id]
	if !ok {
		return nil
	}
	c.Text = text

	queue := graph.NewDedupQueue[string]()
	visited := map[string]struct{}{}
	recomputedSet := map[string]struct{}{}
	var recomputed []string
	mark := func(ids ...string) {
		for _, i := range ids {
			if _, already := recomputedSet[i]; !already {
				recomputedSet[i] = struct{}{}
				recomputed = append(recomputed, i)
			}
		}
	}

	queue.Push(id)
	for {
		cur, ok := queue.Pop()
		if !ok {
			break
		}
		_, alreadyVisited := visited[cur]
		visited[cur] = struct{}{}

		if !alreadyVisited {
			affected := s.recompute(cur)
			mark(cur)
			for _, next := range affected {
				queue.Push(next)
			}
			continue
		}

		cycle, cyclic := s.cyclicDependencyPath(cur)
		if !cyclic {
			affected := s.recompute(cur)
			mark(cur)
			for _, next := range affected {
				queue.Push(next)
			}
			continue
		}

		// Every cell actually on the cycle is stamped, not just cur:
		// cur is merely the one whose re-entry into the queue exposed
		// the cycle, but I1/I3 apply to every participant equally. A
		// cell cur merely reads on its way to the cycle (without being
		// part of it) is left alone.
		for _, member := range cycle {
			cell := s.cells[member]
			cell.Value = nil
			cell.Err = langerr.New(langerr.Circular)
		}
		mark(cycle...)
		mark(cur)
	}
	return recomputed
}

// recompute performs one cell's recomputation step (§4.7): drop inbound
// read edges, rebuild the inbox, re-evaluate, update push bookkeeping,
// and return every cell that must now be enqueued (push-dependents
// before read-dependents, per the ordering guarantee).
func (s *Sheet) recompute(id string) []string {
	cell := s.cells[id]

	s.readRelations.DeleteWithRight(id)
	s.evaluate(cell)

	affected := s.updatePushBookkeeping(id)

	pushDependents := make([]string, 0, len(affected))
	for _, target := range affected {
		if _, ok := s.cells[target]; ok {
			pushDependents = append(pushDependents, target)
		}
	}
	sort.Strings(pushDependents)

	readDependents := s.readRelations.RightsOf(id)
	sort.Strings(readDependents)

	return append(pushDependents, readDependents...)
}

// evaluate parses text and runs it through the
// interpreter, writing the result directly onto cell and inserting the
// new read edges into readRelations. It does not touch push
// bookkeeping; callers that care about that (recompute) handle it
// separately so AddCell's first evaluation can skip it.
func (s *Sheet) evaluate(cell *Cell) {
	parsed, perr := parser.ParseExpr(cell.Text)
	if perr != nil {
		cell.Parsed = nil
		cell.Value = nil
		cell.Err = perr[0]
		cell.pendingPushes = nil
		return
	}
	cell.Parsed = parsed

	inbox := s.inboxFor(cell.Name)
	result := interpreter.Eval(parsed, s, inbox)

	cell.Value = result.Value
	cell.Err = result.Err
	cell.pendingPushes = result.Pushes

	for r := range result.Reads {
		s.readRelations.Insert(r, cell.Name)
	}
}

// inboxFor concatenates every writer's push-sequence into target,
// ordered by writer CellId, per §3 and the push-cell-ordering design
// note.
func (s *Sheet) inboxFor(target string) []value.Value {
	writers := s.targetInboxes[target]
	if len(writers) == 0 {
		return nil
	}
	ids := make([]string, 0, len(writers))
	for w := range writers {
		ids = append(ids, w)
	}
	sort.Strings(ids)

	var inbox []value.Value
	for _, w := range ids {
		inbox = append(inbox, writers[w]...)
	}
	return inbox
}

// updatePushBookkeeping applies step 6 of §4.7's recomputation
// algorithm and returns every target writer pushed into on this or its
// previous evaluation, whether or not that target's inbox changed, so
// the caller can enqueue them.
func (s *Sheet) updatePushBookkeeping(writer string) []string {
	cell := s.cells[writer]
	newPushes := cell.pendingPushes
	cell.pendingPushes = nil

	oldTargets := s.writerToTargets[writer]

	allTargets := map[string]struct{}{}
	for t := range oldTargets {
		allTargets[t] = struct{}{}
	}
	for t := range newPushes {
		allTargets[t] = struct{}{}
	}

	newTargetSet := map[string]struct{}{}
	for t := range newPushes {
		newTargetSet[t] = struct{}{}
	}
	s.writerToTargets[writer] = newTargetSet

	affected := make([]string, 0, len(allTargets))
	for t := range allTargets {
		affected = append(affected, t)
		values, has := newPushes[t]
		if has && len(values) > 0 {
			if s.targetInboxes[t] == nil {
				s.targetInboxes[t] = map[string][]value.Value{}
			}
			s.targetInboxes[t][writer] = values
		} else {
			if writers := s.targetInboxes[t]; writers != nil {
				delete(writers, writer)
				if len(writers) == 0 {
					delete(s.targetInboxes, t)
				}
			}
		}
	}
	return affected
}

// reachableSet runs a full BFS from start (not included in the result)
// following next, and returns every cell reached.
func reachableSet(start string, next func(string) []string) map[string]struct{} {
	queue := graph.NewDedupQueue[string]()
	visited := map[string]struct{}{}

	for _, n := range next(start) {
		queue.Push(n)
	}
	for {
		cur, ok := queue.Pop()
		if !ok {
			return visited
		}
		if _, seen := visited[cur]; seen {
			continue
		}
		visited[cur] = struct{}{}
		for _, n := range next(cur) {
			queue.Push(n)
		}
	}
}

// cyclicDependencyPath decides whether id is on a read-dependency cycle
// and, if so, names every cell on that cycle. It is only invoked when
// id is being re-visited within a single propagation sweep. id is on a
// cycle iff it is reachable from itself by repeatedly following "what
// this cell reads" (readRelations.LeftsOf); the cycle's membership is
// exactly the cells that are both depended on by id and depend on id,
// i.e. the intersection of id's descendants (what it reads, transitively)
// and its ancestors (what reads it, transitively). A cell that id merely
// reads on its way toward the cycle, without the cycle reading back
// through it, sits in descendants but not ancestors and is excluded.
func (s *Sheet) cyclicDependencyPath(id string) ([]string, bool) {
	descendants := reachableSet(id, s.readRelations.LeftsOf)
	if _, cyclic := descendants[id]; !cyclic {
		return nil, false
	}

	ancestors := reachableSet(id, s.readRelations.RightsOf)

	members := make([]string, 0, len(descendants))
	for m := range descendants {
		if _, onCycle := ancestors[m]; onCycle {
			members = append(members, m)
		}
	}
	return members, true
}

func (s *Sheet) GetCellValue(id string) (value.Value, bool) {
	c, ok := s.cells[id]
	if !ok {
		return nil, false
	}
	return c.Value, true
}

func (s *Sheet) GetCellError(id string) (*langerr.Error, bool) {
	c, ok := s.cells[id]
	if !ok {
		return nil, false
	}
	return c.Err, true
}

func (s *Sheet) GetCellText(id string) (string, bool) {
	c, ok := s.cells[id]
	if !ok {
		return "", false
	}
	return c.Text, true
}

func (s *Sheet) GetCellName(id string) (string, bool) {
	c, ok := s.cells[id]
	if !ok {
		return "", false
	}
	return c.Name, true
}

// GetASTSExpr renders a cell's parsed tree in the stable debug format;
// it returns false if the cell is unknown or failed to parse.
func (s *Sheet) GetASTSExpr(id string) (string, bool) {
	c, ok := s.cells[id]
	if !ok || c.Parsed == nil {
		return "", false
	}
	return ast.SExpr(c.Parsed), true
}

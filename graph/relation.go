// Package graph provides the two generic data structures the sheet's
// recomputation scheduler is built on: a many-to-many bidirectional
// relation and a deduplicating FIFO queue.
package graph

// BiRelation is a multi-valued relation between L and R, indexable from
// either side. Insert is idempotent; duplicate (l, r) pairs coalesce.
type BiRelation[L comparable, R comparable] struct {
	rightsOf map[L]map[R]struct{}
	leftsOf  map[R]map[L]struct{}
}

func NewBiRelation[L comparable, R comparable]() *BiRelation[L, R] {
	return &BiRelation[L, R]{
		rightsOf: map[L]map[R]struct{}{},
		leftsOf:  map[R]map[L]struct{}{},
	}
}

func (m *BiRelation[L, R]) Insert(l L, r R) {
	if m.rightsOf[l] == nil {
		m.rightsOf[l] = map[R]struct{}{}
	}
	m.rightsOf[l][r] = struct{}{}
	if m.leftsOf[r] == nil {
		m.leftsOf[r] = map[L]struct{}{}
	}
	m.leftsOf[r][l] = struct{}{}
}

// RightsOf returns every r such that (l, r) was inserted.
func (m *BiRelation[L, R]) RightsOf(l L) []R {
	rights := m.rightsOf[l]
	out := make([]R, 0, len(rights))
	for r := range rights {
		out = append(out, r)
	}
	return out
}

// LeftsOf returns every l such that (l, r) was inserted.
func (m *BiRelation[L, R]) LeftsOf(r R) []L {
	lefts := m.leftsOf[r]
	out := make([]L, 0, len(lefts))
	for l := range lefts {
		out = append(out, l)
	}
	return out
}

// DeleteWithRight removes every pair (*, r).
func (m *BiRelation[L, R]) DeleteWithRight(r R) {
	for l := range m.leftsOf[r] {
		delete(m.rightsOf[l], r)
		if len(m.rightsOf[l]) == 0 {
			delete(m.rightsOf, l)
		}
	}
	delete(m.leftsOf, r)
}

// DeleteWithLeft removes every pair (l, *).
func (m *BiRelation[L, R]) DeleteWithLeft(l L) {
	for r := range m.rightsOf[l] {
		delete(m.leftsOf[r], l)
		if len(m.leftsOf[r]) == 0 {
			delete(m.leftsOf, r)
		}
	}
	delete(m.rightsOf, l)
}

package sat

// Minimizer shrinks a freshly learnt clause before it is asserted. It
// implements two independent techniques, both applied after first-UIP
// analysis has already produced an asserting clause:
//
//   - recursive self-subsumption: a literal is redundant if every literal
//     in its reason clause is either already in the learnt clause, fixed
//     at level 0, or itself recursively redundant.
//   - extended binary resolution: a literal q is redundant if a binary
//     clause (not q or r) exists with r already in the learnt clause.
type Minimizer struct {
	trail *Trail
	arena *Arena

	stack []Literal // scratch for the recursive-redundancy DFS
}

func NewMinimizer(trail *Trail, arena *Arena) *Minimizer {
	return &Minimizer{trail: trail, arena: arena}
}

func abstractLevel(lvl int) uint64 {
	return 1 << uint(lvl&63)
}

// Minimize drops every literal from learnt (learnt[0] is the asserting
// literal and is never touched) whose reason is subsumed by the rest of
// the clause. depthBudget bounds the recursion: ctsat only recurses
// without limit when the clause's LBD is small (lbd <= maxFullLBD),
// otherwise it only looks one level deep.
func (m *Minimizer) Minimize(learnt []Literal, lbd uint32, maxFullLBD uint32) []Literal {
	if len(learnt) <= 1 {
		return learnt
	}

	var abstraction uint64
	for _, l := range learnt {
		abstraction |= abstractLevel(m.trail.Level(l.VarID()))
	}

	unlimited := lbd <= maxFullLBD
	m.trail.seen.Clear()
	for _, l := range learnt {
		m.trail.seen.Add(l.VarID())
	}

	out := learnt[:1]
	for _, l := range learnt[1:] {
		reason := m.trail.Reason(l.VarID())
		redundant := false
		if reason != CRefUndef {
			depth := 1
			if unlimited {
				depth = -1 // unlimited
			}
			redundant = m.isRedundant(reason, l, abstraction, depth)
		}
		if !redundant {
			out = append(out, l)
		}
	}
	return out
}

// isRedundant runs the recursive self-subsumption check rooted at the
// reason clause of lit. depthBudget < 0 means unlimited depth; depthBudget
// == 0 stops the recursion and treats the literal as not redundant.
func (m *Minimizer) isRedundant(reason CRef, lit Literal, abstraction uint64, depthBudget int) bool {
	if depthBudget == 0 {
		return false
	}
	clause := m.arena.Deref(reason)
	for i := 1; i < clause.Len(); i++ {
		q := clause.Lit(i)
		if q == lit {
			continue
		}
		v := q.VarID()
		if m.trail.seen.Contains(v) {
			continue
		}
		lvl := m.trail.Level(v)
		if lvl == 0 {
			// fixed at the root: always subsumed.
			continue
		}
		if abstraction&abstractLevel(lvl) == 0 {
			// this level doesn't appear anywhere in the learnt clause, so
			// q can't be resolved away: bail without touching seen.
			return false
		}
		qReason := m.trail.Reason(v)
		if qReason == CRefUndef {
			return false
		}
		nextBudget := depthBudget
		if nextBudget > 0 {
			nextBudget--
		}
		if !m.isRedundant(qReason, q, abstraction, nextBudget) {
			return false
		}
		m.trail.seen.Add(v)
		m.stack = append(m.stack, q)
	}
	return true
}

// ExtendedBinaryResolution drops a literal q from learnt when a binary
// clause (not q or r) is on file with r already present in learnt: the
// resolvent of learnt with that binary clause on q is learnt minus q.
func (m *Minimizer) ExtendedBinaryResolution(learnt []Literal, binaryClausesOf func(Literal) []Literal) []Literal {
	if len(learnt) <= 1 {
		return learnt
	}
	inClause := make(map[Literal]bool, len(learnt))
	for _, l := range learnt {
		inClause[l] = true
	}
	out := learnt[:1]
	for _, l := range learnt[1:] {
		drop := false
		for _, r := range binaryClausesOf(l.Opposite()) {
			if inClause[r] {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, l)
		}
	}
	return out
}

// Vivifier shrinks existing clauses (learnt or original) by trial-assigning
// the negation of each of their literals and running a reduced propagation
// pass between each: if that derives a conflict before every literal has
// been tried, the literals tried so far already force the clause, so the
// rest are redundant and can be dropped. It never mutates the clause
// itself; Solver.vivifyRecent installs the result.
type Vivifier struct {
	trail *Trail
	prop  *Propagator
}

func NewVivifier(trail *Trail, prop *Propagator) *Vivifier {
	return &Vivifier{trail: trail, prop: prop}
}

// Vivify returns a (possibly) shrunk copy of lits and whether it differs
// from the input. It only ever removes literals; it never reorders or adds
// any, so callers may assume the first surviving literal's identity is
// meaningless (the caller recomputes LBD and re-derives watches itself).
func (vi *Vivifier) Vivify(lits []Literal) ([]Literal, bool) {
	if len(lits) <= 2 {
		return lits, false
	}

	trailRecord := vi.trail.Len()
	headRecord := vi.prop.SimpleHead()
	vi.prop.ResetSimpleHead(trailRecord)
	defer func() {
		vi.trail.ShrinkTo(trailRecord)
		vi.prop.ResetSimpleHead(headRecord)
	}()

	kept := make([]Literal, 0, len(lits))
	dropped := false
	for _, l := range lits {
		switch vi.trail.Value(l) {
		case True:
			// Already satisfied elsewhere: nothing to shrink, and trying to
			// vivify further could corrupt the implication graph.
			return lits, false
		case False:
			dropped = true
			continue
		}
		kept = append(kept, l)
		vi.prop.SimpleUncheckEnqueue(l.Opposite(), CRefUndef)
		if vi.prop.SimplePropagate() != CRefUndef {
			return append([]Literal(nil), kept...), true
		}
	}
	if dropped {
		return append([]Literal(nil), kept...), true
	}
	return lits, false
}

package sat

import "testing"

func newVivifyFixture(nvars int) (*Trail, *Arena, *Propagator) {
	tr := NewTrail()
	arena := NewArena(16)
	prop := NewPropagator(tr, arena)
	for i := 0; i < nvars; i++ {
		tr.NewVar()
		prop.NewVar()
	}
	return tr, arena, prop
}

func TestVivifyDropsLiteralsImpliedByThePrefix(t *testing.T) {
	tr, arena, prop := newVivifyFixture(4)

	// var 1 is fixed false at level 0, and (0 or 1) is on file: trying
	// not-0 as the first trial assignment immediately falsifies that
	// binary clause, so every literal after the first is redundant.
	tr.Assign(NegativeLiteral(1), CRefUndef)
	ref := arena.Alloc([]Literal{PositiveLiteral(0), PositiveLiteral(1)}, false)
	prop.AttachClause(ref)

	vi := NewVivifier(tr, prop)
	trailLenBefore := tr.Len()
	shrunk, changed := vi.Vivify([]Literal{PositiveLiteral(0), PositiveLiteral(2), PositiveLiteral(3)})
	if !changed {
		t.Fatalf("expected Vivify to shrink the clause")
	}
	if len(shrunk) != 1 || shrunk[0] != PositiveLiteral(0) {
		t.Fatalf("expected [0], got %v", shrunk)
	}
	if tr.Len() != trailLenBefore {
		t.Fatalf("expected vivification's trial assignments to be fully retracted, trail len = %d want %d", tr.Len(), trailLenBefore)
	}
}

func TestVivifyDropsAlreadyFalseLiterals(t *testing.T) {
	tr, _, prop := newVivifyFixture(3)
	tr.Assign(NegativeLiteral(0), CRefUndef) // var 0 fixed false at level 0

	vi := NewVivifier(tr, prop)
	shrunk, changed := vi.Vivify([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)})
	if !changed {
		t.Fatalf("expected Vivify to drop the already-false literal")
	}
	want := []Literal{PositiveLiteral(1), PositiveLiteral(2)}
	if len(shrunk) != len(want) {
		t.Fatalf("expected %v, got %v", want, shrunk)
	}
	for i := range want {
		if shrunk[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, shrunk)
		}
	}
}

func TestVivifyLeavesAnUnshrinkableClauseUntouched(t *testing.T) {
	tr, _, prop := newVivifyFixture(3)
	vi := NewVivifier(tr, prop)

	lits := []Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}
	shrunk, changed := vi.Vivify(lits)
	if changed {
		t.Fatalf("expected no shrink with no clauses on file, got %v", shrunk)
	}
}

func TestExtendedBinaryResolutionDropsLiteralSubsumedByABinaryClause(t *testing.T) {
	tr := NewTrail()
	arena := NewArena(16)
	for i := 0; i < 3; i++ {
		tr.NewVar()
	}
	m := NewMinimizer(tr, arena)

	// binary clause (not 1 or 2): resolving it against a learnt clause
	// containing both 1 and 2 drops 1.
	binOf := func(l Literal) []Literal {
		if l == NegativeLiteral(1) {
			return []Literal{PositiveLiteral(2)}
		}
		return nil
	}

	learnt := []Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}
	out := m.ExtendedBinaryResolution(learnt, binOf)
	if len(out) != 2 || out[0] != PositiveLiteral(0) || out[1] != PositiveLiteral(2) {
		t.Fatalf("expected [0 2], got %v", out)
	}
}

package sat

import "testing"

func TestTrailBacktrackUndoesAssignmentsAndCallsHook(t *testing.T) {
	tr := NewTrail()
	for i := 0; i < 3; i++ {
		tr.NewVar()
	}

	tr.Assign(PositiveLiteral(0), CRefUndef)
	tr.NewDecisionLevel()
	tr.Assign(PositiveLiteral(1), CRefUndef)
	tr.NewDecisionLevel()
	tr.Assign(PositiveLiteral(2), CRefUndef)

	if tr.DecisionLevel() != 2 {
		t.Fatalf("expected decision level 2, got %d", tr.DecisionLevel())
	}

	var undone []int
	tr.Backtrack(1, func(v int) { undone = append(undone, v) })

	if tr.DecisionLevel() != 1 {
		t.Fatalf("expected decision level 1 after backtrack, got %d", tr.DecisionLevel())
	}
	if len(undone) != 1 || undone[0] != 2 {
		t.Fatalf("expected only var 2 undone, got %v", undone)
	}
	if tr.VarValue(1) != True {
		t.Fatalf("var 1 should still be assigned after backtracking to its level")
	}
	if tr.VarValue(2) != Unknown {
		t.Fatalf("var 2 should be unassigned after backtrack")
	}
}

func TestComputeLBDCountsDistinctLevels(t *testing.T) {
	tr := NewTrail()
	for i := 0; i < 4; i++ {
		tr.NewVar()
	}
	tr.Assign(PositiveLiteral(0), CRefUndef) // level 0
	tr.NewDecisionLevel()
	tr.Assign(PositiveLiteral(1), CRefUndef) // level 1
	tr.Assign(PositiveLiteral(2), CRefUndef) // level 1
	tr.NewDecisionLevel()
	tr.Assign(PositiveLiteral(3), CRefUndef) // level 2

	lbd := tr.ComputeLBD([]Literal{PositiveLiteral(1), PositiveLiteral(2), PositiveLiteral(3)})
	if lbd != 2 {
		t.Fatalf("expected LBD 2, got %d", lbd)
	}
}

func TestBacktrackChronoPreservesLowerLevelLiteralsAboveTheBoundary(t *testing.T) {
	tr := NewTrail()
	for i := 0; i < 4; i++ {
		tr.NewVar()
	}

	tr.NewDecisionLevel()
	tr.Assign(PositiveLiteral(0), CRefUndef) // level 1, decision
	tr.NewDecisionLevel()
	tr.Assign(PositiveLiteral(1), CRefUndef) // level 2, decision
	// a literal physically on the trail at level 2 but implied no higher
	// than level 1, as chronological backtracking's enqueue selection
	// would produce.
	tr.AssignAt(PositiveLiteral(2), CRefUndef, 1)
	tr.NewDecisionLevel()
	tr.Assign(PositiveLiteral(3), CRefUndef) // level 3, decision

	var undone []int
	tr.BacktrackChrono(1, func(v int) { undone = append(undone, v) })

	if tr.DecisionLevel() != 1 {
		t.Fatalf("expected decision level 1, got %d", tr.DecisionLevel())
	}
	for _, v := range []int{1, 3} {
		if tr.VarValue(v) != Unknown {
			t.Fatalf("var %d should have been undone", v)
		}
	}
	if tr.VarValue(2) != True || tr.Level(2) != 1 {
		t.Fatalf("var 2 should survive at level 1, got value %v level %d", tr.VarValue(2), tr.Level(2))
	}
	if tr.VarValue(0) != True {
		t.Fatalf("var 0 should still be assigned")
	}
	found := false
	for i := 0; i < tr.Len(); i++ {
		if tr.At(i).VarID() == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("var 2's literal should still be on the trail")
	}
	for _, v := range undone {
		if v == 0 || v == 2 {
			t.Fatalf("undone should not include var %d", v)
		}
	}
}

func TestLockedReportsWhetherClauseIsAVariablesReason(t *testing.T) {
	arena := NewArena(4)
	tr := NewTrail()
	tr.NewVar()
	tr.NewVar()

	ref := arena.Alloc([]Literal{PositiveLiteral(0), PositiveLiteral(1)}, false)
	tr.NewDecisionLevel() // level-0 assignments survive Backtrack(0)
	tr.Assign(PositiveLiteral(0), ref)

	if !tr.Locked(arena, ref) {
		t.Fatalf("expected clause to be locked: it is var 0's reason")
	}

	tr.Backtrack(0, nil)
	if tr.Locked(arena, ref) {
		t.Fatalf("expected clause to be unlocked once its variable is unassigned")
	}
}

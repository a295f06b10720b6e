package sat

import "testing"

// TestAnalyzeResolvesToFirstUIPClause builds a small two-level implication
// graph and checks that Analyze produces the expected first-UIP clause and
// backtrack level. Minimization is disabled so the result only reflects the
// resolution walk itself.
func TestAnalyzeResolvesToFirstUIPClause(t *testing.T) {
	tr := NewTrail()
	for i := 0; i < 5; i++ {
		tr.NewVar()
	}
	arena := NewArena(16)
	m := NewMinimizer(tr, arena)
	a := NewAnalyzer(tr, arena, m)
	for i := 0; i < 5; i++ {
		a.NewVar()
	}
	a.CcminMode = 0

	// reason clauses carry the propagated literal at index 0.
	c1 := arena.Alloc([]Literal{PositiveLiteral(2), NegativeLiteral(0)}, false)
	c2 := arena.Alloc([]Literal{PositiveLiteral(3), NegativeLiteral(1), NegativeLiteral(2)}, false)
	c3 := arena.Alloc([]Literal{PositiveLiteral(4), NegativeLiteral(1), NegativeLiteral(3)}, false)
	c4 := arena.Alloc([]Literal{NegativeLiteral(3), NegativeLiteral(4)}, true)

	tr.NewDecisionLevel()
	tr.Assign(PositiveLiteral(0), CRefUndef) // level 1 decision
	tr.Assign(PositiveLiteral(2), c1)        // level 1, forced by c1

	tr.NewDecisionLevel()
	tr.Assign(PositiveLiteral(1), CRefUndef) // level 2 decision
	tr.Assign(PositiveLiteral(3), c2)        // level 2, forced by c2
	tr.Assign(PositiveLiteral(4), c3)        // level 2, forced by c3

	conflict, extra := a.Analyze(c4)

	if len(extra) != 0 {
		t.Fatalf("expected no extra clauses in first-UIP mode, got %d", len(extra))
	}
	if len(conflict.Literals) != 2 || conflict.Literals[0] != NegativeLiteral(1) || conflict.Literals[1] != NegativeLiteral(2) {
		t.Fatalf("expected [not 1, not 2], got %v", conflict.Literals)
	}
	if conflict.LBD != 2 {
		t.Fatalf("expected LBD 2, got %d", conflict.LBD)
	}
	if conflict.BacktrackLevel != 1 {
		t.Fatalf("expected backtrack level 1, got %d", conflict.BacktrackLevel)
	}
	if conflict.Chrono {
		t.Fatalf("expected a non-chronological backtrack for a conflict this shallow")
	}
}

func TestShouldRunConflictCoreGatesOnTheSlidingWindow(t *testing.T) {
	a := NewAnalyzer(NewTrail(), NewArena(4), nil)

	if !a.shouldRunConflictCore(10) {
		t.Fatalf("expected conflict-core to run while the window is still filling")
	}

	for i := 0; i < levelWindowSize; i++ {
		a.pushLevelWindow(10)
	}
	if len(a.levelWindow) != levelWindowSize {
		t.Fatalf("expected window capped at %d entries, got %d", levelWindowSize, len(a.levelWindow))
	}
	if !a.shouldRunConflictCore(10) {
		t.Fatalf("expected conflict-core to run when the level matches the window average")
	}
	if a.shouldRunConflictCore(10 + levelDiffThreshold + 1) {
		t.Fatalf("expected conflict-core to be skipped far from the window average")
	}
}

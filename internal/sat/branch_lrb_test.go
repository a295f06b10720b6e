package sat

import "testing"

func almostEqual(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}

func TestLRBOnUnassignedRewardsParticipationAndAlmostConflicted(t *testing.T) {
	b := NewLRBBranch()
	b.NewVar(true)
	b.NewVar(true)

	b.OnAssigned(0) // assignedAt[0] = 0

	for i := 0; i < 3; i++ {
		b.OnConflictFound() // conflictCount -> 3, stepSize nudged down by stepSizeDec each time
	}
	b.OnVarBumped(0)
	b.OnVarBumped(0)
	b.OnLearntCreated([]int{0})

	b.OnUnassigned(0, True)

	// age = 3, reward = (participated + almostConflicted) / age = (2+1)/3 = 1
	// q = (1 - stepSize) * 0 + stepSize * 1 = stepSize
	wantStepSize := 0.4 - 3*1e-6
	if got := b.order.Score(0); !almostEqual(got, wantStepSize, 1e-9) {
		t.Fatalf("expected score %v, got %v", wantStepSize, got)
	}
}

func TestLRBAntiExplorationDecaysIdleScoreOnPick(t *testing.T) {
	b := NewLRBBranch()
	b.NewVar(true)
	b.NewVar(true)

	b.order.SetScore(0, 10)
	b.conflictCount = 5

	lit := b.PickBranchLiteral(func(int) LBool { return Unknown })
	if lit.VarID() != 0 {
		t.Fatalf("expected var 0 to be picked (highest score even after decay), got var %d", lit.VarID())
	}

	want := 10 * 0.7737809375 // 0.95^5
	if got := b.order.Score(0); !almostEqual(got, want, 1e-6) {
		t.Fatalf("expected decayed score %v, got %v", want, got)
	}
	if b.canceled[0] != 5 {
		t.Fatalf("expected canceled[0] to be stamped to conflictCount 5, got %d", b.canceled[0])
	}
}

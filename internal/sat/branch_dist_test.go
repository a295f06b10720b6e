package sat

import "testing"

func TestDistBranchBumpsByDecayingPerDepthIncrement(t *testing.T) {
	b := NewDistBranch(0.5)
	b.NewVar(true)
	b.NewVar(true)
	b.NewVar(true)

	depth := map[int]int{0: 1, 1: 2, 2: 2}
	b.OnConflictDistances(depth)

	if got := b.order.Score(0); got != 1 {
		t.Fatalf("expected depth-1 var to be bumped by 1, got %v", got)
	}
	if got := b.order.Score(1); got != 2 {
		t.Fatalf("expected depth-2 var to be bumped by 2, got %v", got)
	}
	if got := b.order.Score(2); got != 2 {
		t.Fatalf("expected depth-2 var to be bumped by 2, got %v", got)
	}
	if b.distInc != 2 {
		t.Fatalf("expected distInc to carry over as the deepest level's increment (2), got %v", b.distInc)
	}
}

func TestDistBranchRescalesWhenScoresOverflowThreshold(t *testing.T) {
	b := NewDistBranch(0.5)
	b.NewVar(true)
	b.order.SetScore(0, 2e100)
	b.distInc = 1

	b.OnConflictDistances(map[int]int{0: 1})

	if got := b.order.Score(0); got >= 1e100 {
		t.Fatalf("expected rescale to bring score below 1e100, got %v", got)
	}
	if b.distInc >= 1 {
		t.Fatalf("expected distInc to be rescaled down alongside scores, got %v", b.distInc)
	}
}

package connector

import (
	"testing"

	"github.com/nyxsat/cdsat/internal/sat"
)

func TestCommitFirstResultWins(t *testing.T) {
	c := New(2)
	c.Commit(sat.Sat, []bool{true, false})
	c.Commit(sat.Unsat, nil) // should be ignored, Sat already committed

	if c.Status() != SatStatus {
		t.Fatalf("got %v, want SatStatus", c.Status())
	}
	if got := c.Model(); len(got) != 2 || !got[0] {
		t.Fatalf("got model %v", got)
	}
}

func TestAbortOnlyTakesEffectBeforeAResult(t *testing.T) {
	c := New(1)
	c.Commit(sat.Unsat, nil)
	c.Abort()

	if c.Status() != UnsatStatus {
		t.Fatalf("abort must not override an already-committed result, got %v", c.Status())
	}
}

func TestShouldStopReflectsStatus(t *testing.T) {
	c := New(1)
	if c.ShouldStop() {
		t.Fatalf("fresh connector should not report stop")
	}
	c.Abort()
	if !c.ShouldStop() {
		t.Fatalf("expected ShouldStop after Abort")
	}
}

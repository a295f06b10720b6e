package sat

import "testing"

func TestArenaCompactDropsDeletedClausesAndRewritesHandles(t *testing.T) {
	a := NewArena(4)
	r1 := a.Alloc([]Literal{PositiveLiteral(0), PositiveLiteral(1)}, false)
	r2 := a.Alloc([]Literal{PositiveLiteral(2), PositiveLiteral(3)}, false)
	r3 := a.Alloc([]Literal{PositiveLiteral(4), PositiveLiteral(5)}, false)

	a.Free(r2)
	if got := a.GarbageFrac(); got <= 0 {
		t.Fatalf("expected non-zero garbage fraction after Free, got %v", got)
	}

	var fr1, fr3 CRef
	rec := recorderRelocator{apply: func(relocate func(CRef) CRef) {
		fr1 = relocate(r1)
		fr3 = relocate(r3)
	}}
	a.Compact(rec)

	if a.Len() != 2 {
		t.Fatalf("expected 2 live clauses after compaction, got %d", a.Len())
	}
	if got := a.Deref(fr1).Lit(0); got != PositiveLiteral(0) {
		t.Fatalf("relocated clause 1 lost its literals: got %v", got)
	}
	if got := a.Deref(fr3).Lit(0); got != PositiveLiteral(4) {
		t.Fatalf("relocated clause 3 lost its literals: got %v", got)
	}
}

type recorderRelocator struct {
	apply func(relocate func(CRef) CRef)
}

func (r recorderRelocator) RelocRefs(relocate func(CRef) CRef) { r.apply(relocate) }

package exchange

import "testing"

func TestRingRoundTripsARecord(t *testing.T) {
	r := NewRing(64)
	pos := r.Alloc([]int32{1, 2, 3})

	if !r.IsValid(pos) {
		t.Fatalf("expected record at %d to be valid", pos)
	}
	got := r.Get(pos)
	want := []int32{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRingUnwrittenPositionIsInvalid(t *testing.T) {
	r := NewRing(64)
	if r.IsValid(0) {
		t.Fatalf("expected an empty ring to report position 0 as not yet written")
	}
}

func TestRingWrapsWhenRecordWouldOverflowCapacity(t *testing.T) {
	r := NewRing(64)
	var last Pos
	for i := 0; i < 40; i++ {
		last = r.Alloc([]int32{int32(i), int32(i)})
	}
	if !r.IsValid(last) {
		t.Fatalf("expected the most recent record to remain valid after wraparound")
	}
	got := r.Get(last)
	if got[0] != 39 || got[1] != 39 {
		t.Fatalf("got %v, want [39 39]", got)
	}
}

func TestRingNextPosWalksSequentialRecords(t *testing.T) {
	r := NewRing(64)
	p0 := r.Alloc([]int32{7})
	p1 := r.Alloc([]int32{8, 9})

	if r.NextPos(p0) != p1 {
		t.Fatalf("NextPos(%d) = %d, want %d", p0, r.NextPos(p0), p1)
	}
}

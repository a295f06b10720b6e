package exchange

import (
	"testing"

	"github.com/nyxsat/cdsat/internal/sat"
)

func lits(vs ...int) []sat.Literal {
	out := make([]sat.Literal, len(vs))
	for i, v := range vs {
		out[i] = sat.PositiveLiteral(v)
	}
	return out
}

func TestSimpleExchangerRoundTripsAClauseBetweenTwoRings(t *testing.T) {
	ringA := NewRing(256)
	ringB := NewRing(256)

	exA := NewSimpleExchanger(ringA, []*Ring{ringB}, 10, 8)
	exB := NewSimpleExchanger(ringB, []*Ring{ringA}, 10, 8)

	// A fresh exchanger starts reading each peer where that peer's ring
	// ended when the exchanger was built; nothing has been exported since.
	if _, ok := exB.TryImport(); ok {
		t.Fatalf("expected no import before anything was exported")
	}

	exA.Export(lits(1, 2, 3), 2)

	got, ok := exB.TryImport()
	if !ok {
		t.Fatalf("expected exB to see the clause exA exported")
	}
	if len(got) != 3 || got[0] != sat.PositiveLiteral(1) {
		t.Fatalf("got %v", got)
	}
}

func TestSimpleExchangerDropsClausesAboveTheGate(t *testing.T) {
	ringA := NewRing(256)
	ringB := NewRing(256)
	exA := NewSimpleExchanger(ringA, []*Ring{ringB}, 2, 8)
	exB := NewSimpleExchanger(ringB, []*Ring{ringA}, 2, 8)
	exB.TryImport() // nothing exported yet

	exA.Export(lits(1, 2, 3), 5) // LBD too high, gated out

	if _, ok := exB.TryImport(); ok {
		t.Fatalf("expected the high-LBD clause to be filtered at export")
	}
}

func TestConflictGatedExchangerPromotesParkedImportAfterMaxAge(t *testing.T) {
	ringA := NewRing(256)
	ringB := NewRing(256)
	exA := NewSimpleExchanger(ringA, nil, 10, 8)
	exB := NewConflictGatedExchanger(ringB, []*Ring{ringA}, 10, 8, 2)

	exA.Export(lits(4, 5), 1)

	seen := false
	for i := 0; i < 3; i++ {
		if _, ok := exB.TryImport(); ok {
			seen = true
			break
		}
	}
	if !seen {
		t.Fatalf("expected the parked clause to eventually be promoted")
	}
}

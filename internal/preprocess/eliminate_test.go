package preprocess

import (
	"testing"

	"github.com/nyxsat/cdsat/internal/sat"
)

func TestReconstructForcesEliminatedVariableWhenNeeded(t *testing.T) {
	db := NewEliminatedClauseDatabase()
	// Variable 2 was eliminated; it only ever appeared positively, in a
	// clause with variable 0 (false in the reduced model) as the other
	// literal. Reconstruction must set var 2 true to satisfy it.
	db.Record(2,
		[][]sat.Literal{{sat.PositiveLiteral(0), sat.PositiveLiteral(2)}},
		nil,
	)

	model := []bool{false, true, false}
	db.Reconstruct(model)

	if !model[2] {
		t.Fatalf("expected variable 2 to be forced true, got %v", model)
	}
}

func TestReconstructLeavesEliminatedVariableFalseWhenAlreadySatisfied(t *testing.T) {
	db := NewEliminatedClauseDatabase()
	// Here the other literal in the clause (var 0 = true) already
	// satisfies it, so var 2 is free to keep its default value.
	db.Record(2,
		[][]sat.Literal{{sat.PositiveLiteral(0), sat.PositiveLiteral(2)}},
		nil,
	)

	model := []bool{true, true, false}
	db.Reconstruct(model)

	if model[2] {
		t.Fatalf("expected variable 2 to stay false, got %v", model)
	}
}

func TestReconstructProcessesRecordsInReverseOrder(t *testing.T) {
	db := NewEliminatedClauseDatabase()
	// Var 0 eliminated first, var 1 second (referencing var 0). Since
	// reconstruction must walk records in reverse, var 1 is resolved
	// before var 0, using var 0's default (false) value.
	db.Record(0, nil, nil)
	db.Record(1,
		[][]sat.Literal{{sat.PositiveLiteral(0), sat.PositiveLiteral(1)}},
		nil,
	)

	model := []bool{false, false}
	db.Reconstruct(model)

	if !model[1] {
		t.Fatalf("expected variable 1 forced true against var 0's default, got %v", model)
	}
}

// Package preprocess holds the bookkeeping a variable-elimination
// preprocessing pass needs to hand a solved-but-reduced model back to the
// original formula: the clauses an eliminated variable used to appear in,
// kept around so a final value for that variable can be reconstructed
// once the reduced formula is solved.
package preprocess

import "github.com/nyxsat/cdsat/internal/sat"

// EliminatedRecord is one variable's elimination: every original clause
// that contained it positively, and every one that contained it
// negatively, with everything else (the literal itself, and the
// resolvents added in its place) already folded into the clauses given to
// the solver.
type EliminatedRecord struct {
	Var         int
	PosClauses  [][]sat.Literal
	NegClauses  [][]sat.Literal
}

// EliminatedClauseDatabase stores eliminated variables in the order they
// were removed, so reconstruction can walk them in reverse: the last
// variable eliminated is the first one whose original clauses must be
// satisfied again.
type EliminatedClauseDatabase struct {
	records []EliminatedRecord
}

func NewEliminatedClauseDatabase() *EliminatedClauseDatabase {
	return &EliminatedClauseDatabase{}
}

func (db *EliminatedClauseDatabase) Record(v int, posClauses, negClauses [][]sat.Literal) {
	db.records = append(db.records, EliminatedRecord{Var: v, PosClauses: posClauses, NegClauses: negClauses})
}

func (db *EliminatedClauseDatabase) Len() int { return len(db.records) }

func clauseSatisfied(cl []sat.Literal, model []bool) bool {
	for _, l := range cl {
		if l.VarID() >= len(model) {
			continue // a variable outside the model contributes nothing
		}
		if l.IsPositive() == model[l.VarID()] {
			return true
		}
	}
	return false
}

// Reconstruct extends model (indexed by every original variable, not just
// the ones the reduced formula kept) with a value for every eliminated
// variable: false unless one of its positive clauses would otherwise be
// left unsatisfied, in which case true.
func (db *EliminatedClauseDatabase) Reconstruct(model []bool) {
	for i := len(db.records) - 1; i >= 0; i-- {
		rec := db.records[i]
		model[rec.Var] = false
		for _, cl := range rec.PosClauses {
			if !clauseSatisfied(cl, model) {
				model[rec.Var] = true
				break
			}
		}
		if model[rec.Var] {
			continue
		}
		for _, cl := range rec.NegClauses {
			if !clauseSatisfied(cl, model) {
				model[rec.Var] = false
				break
			}
		}
	}
}

package sat

// VSIDSBranch is the classic variable-state independent decaying sum
// heuristic: every variable touched during conflict analysis gets its
// score bumped by a shared increment, and the increment itself grows over
// time (decay-by-growing-the-increment, rescaled before it overflows).
type VSIDSBranch struct {
	order *VarOrder
}

func NewVSIDSBranch(decay float64) *VSIDSBranch {
	return &VSIDSBranch{order: NewVarOrder(decay, true)}
}

func (b *VSIDSBranch) NewVar(initPhase bool) {
	b.order.AddVar(0, initPhase)
}

func (b *VSIDSBranch) PickBranchLiteral(value func(int) LBool) Literal {
	for {
		v, ok := b.order.Pop()
		if !ok {
			return Undef0
		}
		if value(v) != Unknown {
			continue
		}
		switch b.order.phases[v] {
		case False:
			return NegativeLiteral(v)
		default:
			return PositiveLiteral(v)
		}
	}
}

func (b *VSIDSBranch) OnAssigned(v int)              {}
func (b *VSIDSBranch) OnVarBumped(v int)             { b.order.BumpScore(v) }
func (b *VSIDSBranch) OnUnassigned(v int, val LBool) { b.order.Reinsert(v, val) }
func (b *VSIDSBranch) OnConflictFound()              { b.order.DecayScores() }
func (b *VSIDSBranch) OnConflictResolved(uint32)     {}
func (b *VSIDSBranch) OnLearntCreated([]int)         {}
func (b *VSIDSBranch) OnConflictDistances(map[int]int) {}
func (b *VSIDSBranch) OnRestart()                    {}

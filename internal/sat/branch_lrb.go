package sat

import "math"

// antiExplorationDecay is the per-conflict activity decay LRB applies to
// variables while they sit unassigned: 0.95^age, applied lazily either
// when the variable is reassigned or, if it's still waiting on the heap,
// the next time it would be popped.
const antiExplorationDecay = 0.95

// LRBBranch is Learning Rate Branching: instead of a fixed bump, each
// variable's score is an exponential moving average of a reward computed
// when it is unassigned: how often it (or a clause it barely missed
// joining) participated in a conflict's resolution, divided by how long it
// had been assigned. Scores start moving fast (stepSize near 0.4) and slow
// down toward stepSizeMin as the search progresses. Unassigned variables
// also decay toward zero the longer they sit idle (anti-exploration), so
// stale high scores from early in the search don't dominate forever.
type LRBBranch struct {
	order *VarOrder

	participated     []uint32
	almostConflicted []uint32
	assignedAt       []int
	canceled         []int
	conflictCount    int
	stepSize         float64
	stepSizeMin      float64
	stepSizeDec      float64
}

func NewLRBBranch() *LRBBranch {
	return &LRBBranch{
		order:       NewVarOrder(1, true), // LRB doesn't use the VSIDS-style decay path
		stepSize:    0.4,
		stepSizeMin: 0.06,
		stepSizeDec: 1e-6,
	}
}

func (b *LRBBranch) NewVar(initPhase bool) {
	b.order.AddVar(0, initPhase)
	b.participated = append(b.participated, 0)
	b.almostConflicted = append(b.almostConflicted, 0)
	b.assignedAt = append(b.assignedAt, 0)
	b.canceled = append(b.canceled, 0)
}

// decayIdle applies the anti-exploration penalty owed for v having sat
// unassigned since b.canceled[v], then stamps canceled[v] up to date so
// the penalty is never applied twice for the same idle span.
func (b *LRBBranch) decayIdle(v int) {
	age := b.conflictCount - b.canceled[v]
	if age <= 0 {
		return
	}
	decay := math.Pow(antiExplorationDecay, float64(age))
	b.order.SetScore(v, b.order.Score(v)*decay)
	b.canceled[v] = b.conflictCount
}

func (b *LRBBranch) PickBranchLiteral(value func(int) LBool) Literal {
	for {
		v, ok := b.order.Peek()
		if !ok {
			return Undef0
		}
		b.decayIdle(v)
		v, _ = b.order.Pop()
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

func (b *LRBBranch) OnAssigned(v int) {
	b.assignedAt[v] = b.conflictCount
	b.participated[v] = 0
	b.almostConflicted[v] = 0
	b.decayIdle(v)
}

func (b *LRBBranch) OnVarBumped(v int) {
	b.participated[v]++
}

func (b *LRBBranch) OnLearntCreated(almostConflicted []int) {
	for _, v := range almostConflicted {
		b.almostConflicted[v]++
	}
}

func (b *LRBBranch) OnConflictDistances(map[int]int) {}

func (b *LRBBranch) OnUnassigned(v int, val LBool) {
	age := b.conflictCount - b.assignedAt[v]
	if age > 0 {
		reward := float64(b.participated[v]+b.almostConflicted[v]) / float64(age)
		q := (1-b.stepSize)*b.order.Score(v) + b.stepSize*reward
		b.order.SetScore(v, q)
	}
	b.canceled[v] = b.conflictCount
	b.order.Reinsert(v, val)
}

func (b *LRBBranch) OnConflictFound() {
	b.conflictCount++
	if b.stepSize > b.stepSizeMin {
		b.stepSize -= b.stepSizeDec
	}
}

func (b *LRBBranch) OnConflictResolved(uint32) {}
func (b *LRBBranch) OnRestart()                {}

package sat

// DistBranch is the distance heuristic: instead of bumping every variable
// in the learnt clause by the same amount, it weights the bump by how many
// propagation-chain hops separate the variable from the conflict (collected
// by Analyzer.collectDistances, a dedicated trail walk run once per
// conflict independently of first-UIP resolution). Variables deep in the
// chain that produced the conflict get a bigger push than ones only
// incidentally involved. The per-depth increment itself decays as depth
// grows within a single conflict, and carries over (still decaying) across
// conflicts, rescaled alongside the scores whenever either grows too large.
type DistBranch struct {
	order *VarOrder

	distDecay float64
	distInc   float64
}

func NewDistBranch(decay float64) *DistBranch {
	return &DistBranch{order: NewVarOrder(decay, true), distDecay: decay, distInc: 1}
}

func (b *DistBranch) NewVar(initPhase bool) { b.order.AddVar(0, initPhase) }

func (b *DistBranch) PickBranchLiteral(value func(int) LBool) Literal {
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

func (b *DistBranch) OnAssigned(v int) {}

// OnVarBumped is a no-op for distance: the actual score movement happens
// once per conflict in OnConflictDistances, not per touched variable.
func (b *DistBranch) OnVarBumped(v int) {}

func (b *DistBranch) OnLearntCreated([]int) {}

// OnConflictDistances bumps every variable v in depth by a per-depth
// increment that itself decays as depth grows within this call, mirroring
// how VSIDS's scoreInc grows across conflicts: levelIncs[0] is the
// increment carried over from the previous call, and each deeper level
// divides the previous one by distDecay.
func (b *DistBranch) OnConflictDistances(depth map[int]int) {
	if len(depth) == 0 {
		return
	}
	maxDepth := 0
	for _, d := range depth {
		if d > maxDepth {
			maxDepth = d
		}
	}
	levelIncs := make([]float64, maxDepth)
	levelIncs[0] = b.distInc
	for i := 1; i < maxDepth; i++ {
		levelIncs[i] = levelIncs[i-1] / b.distDecay
	}

	rescale := false
	for v, d := range depth {
		b.order.BumpScoreRaw(v, levelIncs[d-1])
		if b.order.Score(v) > 1e100 {
			rescale = true
		}
	}
	b.distInc = levelIncs[maxDepth-1]

	if rescale {
		b.order.RescaleBy(1e-100)
		b.distInc *= 1e-100
	}
}

func (b *DistBranch) OnUnassigned(v int, val LBool) { b.order.Reinsert(v, val) }
func (b *DistBranch) OnConflictFound()              { b.order.DecayScores() }
func (b *DistBranch) OnConflictResolved(uint32)     {}
func (b *DistBranch) OnRestart()                    {}

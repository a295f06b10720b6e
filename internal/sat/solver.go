package sat

// Exchanger is the narrow interface a Solver needs from a clause-exchange
// fabric: export a freshly learnt clause, and try to pull in whatever
// another solver thread has published since the last check. A nil
// Exchanger is a valid, fully local solver.
type Exchanger interface {
	Export(lits []Literal, lbd uint32)
	TryImport() (lits []Literal, ok bool)
}

// Result is the outcome of a Solve call.
type Result int

const (
	Unknown_ Result = iota
	Sat
	Unsat
)

// Stats accumulates run counters a CLI or exchanger-aware driver reports.
type Stats struct {
	Conflicts    int
	Decisions    int
	Propagations int
	Restarts     int
	Reductions   int
	Imported     int
	Exported     int
}

// Solver is a single-threaded CDCL engine: the clause database, the
// implication graph, unit propagation, conflict analysis, clause
// minimization, and the pluggable branch/restart/reduce policies, wired
// together into the search loop in Solve.
type Solver struct {
	Opt Options

	trail     *Trail
	arena     *Arena
	prop      *Propagator
	analyzer  *Analyzer
	minimizer *Minimizer
	vivifier  *Vivifier
	branch    Branch
	restart   Restart
	reduce    Reduce

	clauseInc float64

	problemClauses []CRef
	learntClauses  []CRef

	unsat bool

	Model []bool

	Stats Stats

	Exchanger Exchanger
}

func NewSolver(opt Options) *Solver {
	trail := NewTrail()
	arena := NewArena(1024)
	prop := NewPropagator(trail, arena)
	minimizer := NewMinimizer(trail, arena)
	analyzer := NewAnalyzer(trail, arena, minimizer)
	analyzer.Mode = opt.AnalyzeMode
	analyzer.ChronoThreshold = opt.ChronoThreshold
	analyzer.ConflToChrono = opt.ConflToChrono
	analyzer.CcminMode = opt.CcminMode
	analyzer.MaxFullLBDMinimize = opt.MaxFullLBDMinimize

	branch := NewBranch(opt.Branch, opt.VarDecay)

	var usingLRB func() bool
	if mb, ok := branch.(*MixedBranch); ok {
		usingLRB = func() bool { return mb.usingLRB }
	}

	s := &Solver{
		Opt:       opt,
		trail:     trail,
		arena:     arena,
		prop:      prop,
		analyzer:  analyzer,
		minimizer: minimizer,
		vivifier:  NewVivifier(trail, prop),
		branch:    branch,
		restart:   NewRestart(opt.Restart, usingLRB, opt.LubyRestartFirst, opt.LubyRestartInc),
		reduce:    NewReduce(opt.Reduce, arena, trail),
		clauseInc: 1,
	}
	if cr, ok := s.reduce.(*ChanseokOhReduce); ok {
		cr.LocalReduceFirst = opt.LocalReduceFirst
		cr.LocalReduceInc = opt.LocalReduceInc
		cr.nextLocalReduce = opt.LocalReduceFirst
	}

	analyzer.SetBumpHook(branch.OnVarBumped)
	analyzer.SetDistanceHook(branch.OnConflictDistances)
	analyzer.SetLearntCreatedHook(branch.OnLearntCreated)
	analyzer.SetBinaryClausesHook(prop.BinaryClausesOf)

	return s
}

// AddVariable introduces a new boolean variable and returns its id.
func (s *Solver) AddVariable() int {
	v := s.trail.NewVar()
	s.prop.NewVar()
	s.analyzer.NewVar()
	s.branch.NewVar(true)
	return v
}

func (s *Solver) NumVariables() int { return s.trail.NumVars() }

func (s *Solver) VarValue(v int) LBool  { return s.trail.VarValue(v) }
func (s *Solver) Value(l Literal) LBool { return s.trail.Value(l) }

// AddClause adds a problem clause. It returns false if the clause is
// trivially false (a conflict at level 0 was detected), at which point the
// solver is permanently unsatisfiable.
func (s *Solver) AddClause(lits []Literal) bool {
	if s.unsat {
		return false
	}
	lits = simplifyClauseLits(s.trail, lits)
	if lits == nil {
		return true // tautology: drop it, it's always satisfied
	}
	if len(lits) == 0 {
		s.unsat = true
		return false
	}
	if len(lits) == 1 {
		if s.trail.Value(lits[0]) == False {
			s.unsat = true
			return false
		}
		if s.trail.Value(lits[0]) == Unknown {
			s.trail.Assign(lits[0], CRefUndef)
			s.branch.OnAssigned(lits[0].VarID())
			if s.prop.Propagate() != CRefUndef {
				s.unsat = true
				return false
			}
		}
		return true
	}
	ref := s.arena.Alloc(lits, false)
	s.prop.AttachClause(ref)
	s.problemClauses = append(s.problemClauses, ref)
	return true
}

// simplifyClauseLits removes duplicate and level-0-false literals and
// reports a tautology (a literal and its negation both present, or one of
// its literals already true at level 0) by returning nil.
func simplifyClauseLits(trail *Trail, lits []Literal) []Literal {
	seen := map[Literal]bool{}
	out := lits[:0]
	for _, l := range lits {
		if seen[l.Opposite()] {
			return nil
		}
		if seen[l] {
			continue
		}
		if trail.DecisionLevel() == 0 {
			switch trail.Value(l) {
			case True:
				return nil
			case False:
				continue
			}
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

func (s *Solver) newDecisionLevel() { s.trail.NewDecisionLevel() }

func (s *Solver) backtrackTo(level int, chrono bool) {
	onUnassign := func(v int) {
		s.branch.OnUnassigned(v, s.trail.VarValue(v))
	}
	if chrono {
		s.trail.BacktrackChrono(level, onUnassign)
		return
	}
	s.trail.Backtrack(level, onUnassign)
}

func (s *Solver) bumpClauseActivity(ref CRef) {
	c := s.arena.Deref(ref)
	c.BumpActivity(float32(s.clauseInc))
	if c.Activity() > 1e30 {
		for _, r := range s.learntClauses {
			cl := s.arena.Deref(r)
			cl.activity *= 1e-30
		}
		s.clauseInc *= 1e-30
	}
}

func (s *Solver) decayClauseActivity() {
	s.clauseInc /= s.Opt.ClauseDecay
}

func (s *Solver) recordLearnt(conflict Conflict) CRef {
	ref := s.arena.Alloc(append([]Literal(nil), conflict.Literals...), true)
	c := s.arena.Deref(ref)
	c.SetLBD(conflict.LBD)
	s.prop.AttachClause(ref)
	s.learntClauses = append(s.learntClauses, ref)
	s.reduce.AddClause(ref, conflict.LBD)
	s.bumpClauseActivity(ref)

	lit := c.Lit(0)
	if s.trail.Value(lit) == Unknown {
		s.trail.Assign(lit, ref)
		s.branch.OnAssigned(lit.VarID())
	}
	if s.Exchanger != nil && conflict.LBD <= s.Opt.MaxExportLBD && len(conflict.Literals) <= s.Opt.MaxExportSize {
		s.Exchanger.Export(append([]Literal(nil), conflict.Literals...), conflict.LBD)
		s.Stats.Exported++
	}
	return ref
}

// vivifyRecent shrinks a bounded batch of the most recently learnt clauses
// right after a restart, when the trail is back at decision level 0 (only
// root assignments remain) and vivification's trial assignments start
// from there.
func (s *Solver) vivifyRecent() {
	if s.unsat {
		return
	}
	const batch = 32
	n := len(s.learntClauses)
	start := n - batch
	if start < 0 {
		start = 0
	}
	write := start
	for i := start; i < n; i++ {
		ref := s.learntClauses[i]
		if s.trail.Locked(s.arena, ref) {
			s.learntClauses[write] = ref
			write++
			continue
		}
		c := s.arena.Deref(ref)
		lits := make([]Literal, c.Len())
		for j := range lits {
			lits[j] = c.Lit(j)
		}
		shrunk, changed := s.vivifier.Vivify(lits)
		if !changed {
			s.learntClauses[write] = ref
			write++
			continue
		}

		s.prop.DetachClause(ref)
		s.arena.Free(ref)

		if len(shrunk) == 0 {
			s.unsat = true
			return
		}
		if len(shrunk) == 1 {
			if s.trail.Value(shrunk[0]) == False {
				s.unsat = true
				return
			}
			if s.trail.Value(shrunk[0]) == Unknown {
				s.trail.Assign(shrunk[0], CRefUndef)
				s.branch.OnAssigned(shrunk[0].VarID())
				if s.prop.Propagate() != CRefUndef {
					s.unsat = true
					return
				}
			}
			continue
		}

		newRef := s.arena.Alloc(shrunk, true)
		nc := s.arena.Deref(newRef)
		// The trail holds only level-0 assignments at this point
		// (vivification only runs right after a restart), so there's no
		// decision-level spread to measure yet; the clause's own length is
		// the tightest LBD upper bound.
		nc.SetLBD(uint32(len(shrunk)))
		s.prop.AttachClause(newRef)
		s.reduce.AddClause(newRef, nc.LBD())
		s.learntClauses[write] = newRef
		write++
	}
	s.learntClauses = s.learntClauses[:write]
	s.maybeCompact()
}

func (s *Solver) maybeCompact() {
	if s.arena.GarbageFrac() < s.Opt.CompactGarbageFrac {
		return
	}
	roots := []Relocator{s.prop}
	if r, ok := s.reduce.(Relocator); ok {
		roots = append(roots, r)
	}
	s.arena.Compact(roots...)
}

func (s *Solver) importFromExchanger() {
	// Imports are only taken at decision level 0, so every literal found
	// true or false below is fixed for good.
	if s.Exchanger == nil || s.trail.DecisionLevel() != 0 {
		return
	}
	for {
		lits, ok := s.Exchanger.TryImport()
		if !ok {
			break
		}
		translated := make([]Literal, 0, len(lits))
		satisfied := false
		for _, l := range lits {
			switch s.trail.Value(l) {
			case True:
				satisfied = true
			case False:
				continue
			default:
				translated = append(translated, l)
			}
		}
		if satisfied || len(translated) == 0 {
			continue
		}
		if len(translated) == 1 {
			if s.trail.Value(translated[0]) == Unknown {
				s.trail.Assign(translated[0], CRefUndef)
				s.branch.OnAssigned(translated[0].VarID())
			}
			continue
		}
		ref := s.arena.Alloc(translated, true)
		c := s.arena.Deref(ref)
		c.SetLBD(uint32(len(translated)))
		c.SetProtected(true)
		s.prop.AttachClause(ref)
		s.learntClauses = append(s.learntClauses, ref)
		s.reduce.AddClause(ref, c.LBD())
		s.Stats.Imported++
	}
}

// Solve runs the CDCL search loop until the formula is proven satisfiable
// or unsatisfiable, or stop returns true (checked at the top of every
// search-loop iteration, before each propagation round, so a caller can
// implement time limits or cross-thread abort signals).
func (s *Solver) Solve(stop func() bool) Result {
	if s.unsat {
		return Unsat
	}
	for {
		if stop != nil && stop() {
			return Unknown_
		}
		confl := s.prop.Propagate()
		if confl != CRefUndef {
			s.Stats.Conflicts++
			s.branch.OnConflictFound()
			s.reduce.NotifyConflictResolved()

			if s.trail.DecisionLevel() == 0 {
				s.unsat = true
				return Unsat
			}

			conflict, extra := s.analyzer.Analyze(confl)
			s.restart.NotifyConflict(conflict.LBD)
			s.branch.OnConflictResolved(conflict.LBD)
			s.reduce.ClauseUsedInConflict(confl)

			for _, ec := range extra {
				s.backtrackTo(ec.BacktrackLevel, false)
				s.recordLearnt(ec)
			}
			s.backtrackTo(conflict.BacktrackLevel, conflict.Chrono)
			s.decayClauseActivity()
			if len(conflict.Literals) == 1 {
				if s.trail.Value(conflict.Literals[0]) == Unknown {
					s.trail.Assign(conflict.Literals[0], CRefUndef)
					s.branch.OnAssigned(conflict.Literals[0].VarID())
				}
			} else {
				s.recordLearnt(conflict)
			}
			continue
		}

		s.importFromExchanger()

		if s.trail.Len() == s.NumVariables() {
			s.saveModel()
			return Sat
		}

		if s.restart.ShouldRestart() {
			s.restart.NotifyRestart()
			s.branch.OnRestart()
			s.Stats.Restarts++
			s.backtrackTo(0, false)
			s.vivifyRecent()
			continue
		}

		if s.reduce.Run(func(ref CRef) {
			s.prop.DetachClause(ref)
			s.arena.Free(ref)
		}) {
			s.Stats.Reductions++
			s.maybeCompact()
		}

		lit := s.branch.PickBranchLiteral(s.trail.VarValue)
		if lit == Undef0 {
			s.saveModel()
			return Sat
		}
		s.Stats.Decisions++
		s.newDecisionLevel()
		s.trail.Assign(lit, CRefUndef)
		s.branch.OnAssigned(lit.VarID())
	}
}

func (s *Solver) saveModel() {
	s.Model = make([]bool, s.NumVariables())
	for v := 0; v < s.NumVariables(); v++ {
		s.Model[v] = s.trail.VarValue(v) == True
	}
}

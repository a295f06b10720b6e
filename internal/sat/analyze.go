package sat

// AnalyzeMode selects which conflict-analysis variant Analyzer runs. All
// three share the same resolution walk over the implication graph; they
// differ in when they stop and what backtrack level they report.
type AnalyzeMode int

const (
	// FirstUIP stops at the first unique implication point at the
	// conflict's decision level: the classic MiniSat/Glucose clause.
	FirstUIP AnalyzeMode = iota
	// MultiUIP keeps resolving past the first UIP at the conflict level:
	// the clause at each UIP it passes, starting with the first, is
	// returned as an extra asserting clause, up to MaxExtraUIPs of them,
	// and the clause at the UIP where it stops is the main result. No
	// length filter is applied to the extras. MaxExtraUIPs is 0 unless
	// set, and with 0 MultiUIP returns the first-UIP clause and no extras.
	MultiUIP
	// LevelAware runs the first-UIP walk and, when the recent conflict
	// levels make it look worthwhile, an extra conflict-core resolution
	// pass whose clause replaces the first-UIP one if it is asserting and
	// strictly shorter. Chronological backtracking is decided the same
	// way in every mode.
	LevelAware
)

// Conflict is the result of one conflict analysis: an asserting clause (its
// first literal implied true once BacktrackLevel is reached), its LBD, and
// the level to backtrack to.
type Conflict struct {
	Literals       []Literal
	LBD            uint32
	BacktrackLevel int
	Chrono         bool
}

// levelWindowSize bounds the level-aware extension's sliding window of
// recent conflict levels; levelDiffThreshold is how close the current
// conflict level must be to that window's average before a conflict-core
// pass is worth running when the window is already full.
const (
	levelWindowSize     = 50
	levelDiffThreshold  = 4
)

// Analyzer walks the implication graph backward from a conflicting clause
// to build a learnt clause. It owns its own seen-set (distinct from the
// Minimizer's, which runs afterward over the result).
type Analyzer struct {
	trail     *Trail
	arena     *Arena
	minimizer *Minimizer

	Mode              AnalyzeMode
	MaxExtraUIPs      int
	ChronoThreshold   int
	ConflToChrono     int
	CcminMode         int // 0: off, 1: depth-1 only, 2: full LBD-gated recursion
	MaxFullLBDMinimize uint32

	seen    []bool
	touched []int

	// distSeen/distTmp/pathCs back collectDistances' own trail walk, kept
	// separate from seen/touched since it runs before the main resolution
	// loop and over a different (usually larger) set of variables.
	distSeen ResetSet
	distTmp  []int
	pathCs   []int

	// ccSeen backs the level-aware extension's conflict-core resolution,
	// which needs its own seen-set since it can run interleaved with
	// (logically after) the main walk's seen bookkeeping has already been
	// torn down.
	ccSeen      ResetSet
	levelWindow []int

	conflictCount int

	bumpVar          func(v int)                  // branch heuristic hook, called once per seen var
	distanceHook     func(depth map[int]int)       // branch heuristic hook for the distance walk
	learntCreatedHook func(almostConflicted []int) // branch heuristic hook (LRB's almost_conflicted)
	binaryClausesOf  func(Literal) []Literal        // propagator hook for extended binary resolution
}

func NewAnalyzer(trail *Trail, arena *Arena, minimizer *Minimizer) *Analyzer {
	return &Analyzer{
		trail:              trail,
		arena:              arena,
		minimizer:          minimizer,
		MaxFullLBDMinimize: 30,
		ChronoThreshold:    100,
		ConflToChrono:      4000,
		CcminMode:          2,
	}
}

func (a *Analyzer) NewVar() {
	a.seen = append(a.seen, false)
	a.distSeen.Expand()
	a.ccSeen.Expand()
	a.distTmp = append(a.distTmp, 0)
	a.pathCs = append(a.pathCs, 0)
}

func (a *Analyzer) SetBumpHook(f func(v int))                      { a.bumpVar = f }
func (a *Analyzer) SetDistanceHook(f func(depth map[int]int))      { a.distanceHook = f }
func (a *Analyzer) SetLearntCreatedHook(f func(almostConflicted []int)) { a.learntCreatedHook = f }
func (a *Analyzer) SetBinaryClausesHook(f func(Literal) []Literal) { a.binaryClausesOf = f }

func (a *Analyzer) mark(v int) {
	if !a.seen[v] {
		a.seen[v] = true
		a.touched = append(a.touched, v)
		if a.bumpVar != nil {
			a.bumpVar(v)
		}
	}
}

// markOnly records v as seen without invoking the bump hook: used by the
// almost-conflicted walk, which marks variables purely to avoid
// double-counting them, not to credit them with a conflict-analysis bump.
func (a *Analyzer) markOnly(v int) {
	if !a.seen[v] {
		a.seen[v] = true
		a.touched = append(a.touched, v)
	}
}

func (a *Analyzer) clear() {
	for _, v := range a.touched {
		a.seen[v] = false
	}
	a.touched = a.touched[:0]
}

// collectDistances walks the trail backward from confl itself (not the
// first-UIP resolution path) collecting, for every variable on a
// propagation chain feeding the conflict, how many reason-clause hops
// separate it from the conflicting assignment. Grounded on the distance
// heuristic's own dedicated trail walk, independent of first-UIP
// resolution: variables deep in the chain that produced the conflict get
// reported with a larger depth than ones only incidentally involved.
//
// pathCs[lvl] tracks how many of the currently-seen variables still sit at
// decision level lvl; once it drops to zero for a level, that level's
// frontier is exhausted and the variable that emptied it is reported
// without expanding its reason further (it's the level's own UIP).
func (a *Analyzer) collectDistances(confl CRef) {
	if a.distanceHook == nil {
		return
	}
	a.distSeen.Clear()

	c := a.arena.Deref(confl)
	minLevel := a.trail.DecisionLevel()
	maxDepth := 1
	for i := 0; i < c.Len(); i++ {
		v := c.Lit(i).VarID()
		lvl := a.trail.Level(v)
		if lvl <= 0 {
			continue
		}
		a.distSeen.Add(v)
		a.distTmp[v] = 1
		a.pathCs[lvl]++
		if lvl < minLevel {
			minLevel = lvl
		}
	}
	if minLevel == a.trail.DecisionLevel() && c.Len() > 0 && a.pathCs[minLevel] == 0 {
		return // conflict clause only has level-0 literals: nothing to do
	}

	limit := a.trail.LevelStart(minLevel)
	var involved []int
	for i := a.trail.Len() - 1; i >= limit; i-- {
		v := a.trail.At(i).VarID()
		if !a.distSeen.Contains(v) {
			continue
		}
		lvl := a.trail.Level(v)
		a.pathCs[lvl]--
		if a.pathCs[lvl] != 0 {
			reason := a.trail.Reason(v)
			rc := a.arena.Deref(reason)
			reasonVarLevel := a.distTmp[v] + 1
			if reasonVarLevel > maxDepth {
				maxDepth = reasonVarLevel
			}
			if rc.Len() == 2 && a.trail.Value(rc.Lit(0)) == False {
				rc.Swap(0, 1)
			}
			for j := 1; j < rc.Len(); j++ {
				v1 := rc.Lit(j).VarID()
				lvl1 := a.trail.Level(v1)
				if lvl1 <= 0 {
					continue
				}
				if lvl1 < minLevel {
					minLevel = lvl1
					limit = a.trail.LevelStart(minLevel)
				}
				if a.distSeen.Contains(v1) {
					if a.distTmp[v1] < reasonVarLevel {
						a.distTmp[v1] = reasonVarLevel
					}
				} else {
					a.distTmp[v1] = reasonVarLevel
					a.distSeen.Add(v1)
					a.pathCs[lvl1]++
				}
			}
		}
		involved = append(involved, v)
	}

	if len(involved) == 0 {
		return
	}
	depth := make(map[int]int, len(involved))
	for _, v := range involved {
		depth[v] = a.distTmp[v]
	}
	a.distanceHook(depth)
}

// collectAlmostConflicted walks every literal in the finished learnt
// clause, in reverse, and marks seen every variable in its reason clause
// that the main resolution walk didn't already touch: those are LRB's
// almost_conflicted variables, resolved away during analysis but never
// themselves part of the asserting clause.
func (a *Analyzer) collectAlmostConflicted(learnt []Literal) []int {
	if a.learntCreatedHook == nil {
		return nil
	}
	a.markOnly(learnt[0].VarID())
	var almost []int
	for i := len(learnt) - 1; i >= 0; i-- {
		v := learnt[i].VarID()
		reason := a.trail.Reason(v)
		if reason == CRefUndef {
			continue
		}
		c := a.arena.Deref(reason)
		for j := 0; j < c.Len(); j++ {
			lv := c.Lit(j).VarID()
			if a.seen[lv] {
				continue
			}
			a.markOnly(lv)
			almost = append(almost, lv)
		}
	}
	return almost
}

// pushLevelWindow records conflictLevel in the bounded sliding window the
// level-aware extension keys its conflict-core decision on.
func (a *Analyzer) pushLevelWindow(conflictLevel int) {
	a.levelWindow = append(a.levelWindow, conflictLevel)
	if len(a.levelWindow) > levelWindowSize {
		a.levelWindow = a.levelWindow[1:]
	}
}

func (a *Analyzer) levelWindowAvg() float64 {
	if len(a.levelWindow) == 0 {
		return 0
	}
	sum := 0
	for _, l := range a.levelWindow {
		sum += l
	}
	return float64(sum) / float64(len(a.levelWindow))
}

// shouldRunConflictCore reports whether the level-aware extension should
// pay for an extra conflict-core resolution pass this conflict: always
// while the window is still filling, and afterward only when the current
// conflict level sits close to the recent average (a sign the search
// isn't thrashing between wildly different depths, where conflict-core's
// shorter-but-not-always-asserting candidate is more likely to pay off).
func (a *Analyzer) shouldRunConflictCore(conflictLevel int) bool {
	if len(a.levelWindow) < levelWindowSize {
		return true
	}
	diff := a.levelWindowAvg() - float64(conflictLevel)
	if diff < 0 {
		diff = -diff
	}
	return diff <= levelDiffThreshold
}

// conflictCoreResolve runs a resolution pass starting at confl that, unlike
// the main first-UIP walk, stops expanding through any clause containing a
// literal assigned at a decision level strictly between 0 and
// conflictLevel instead of resolving past it. The resulting clause may or
// may not be asserting; ok reports whether the walk produced one worth
// considering at all: it needs at least one skipped clause and more than
// one resolvent, not all of them binary, which filters out runs that
// degenerate to the first-UIP clause anyway.
func (a *Analyzer) conflictCoreResolve(confl CRef, conflictLevel int) (lits []Literal, ok bool) {
	a.ccSeen.Clear()

	var out []Literal
	p := Undef0
	cref := confl
	pathC := 0
	index := a.trail.Len()
	skipped, resolvents, binResolvents := 0, 0, 0

	for {
		c := a.arena.Deref(cref)
		if p != Undef0 && c.Len() == 2 && a.trail.Value(c.Lit(0)) == False {
			c.Swap(0, 1)
		}

		use := true
		if cref != confl {
			for i := 0; i < c.Len(); i++ {
				v := c.Lit(i).VarID()
				lvl := a.trail.Level(v)
				if !a.ccSeen.Contains(v) && lvl < conflictLevel && lvl > 0 {
					out = append(out, p.Opposite())
					skipped++
					use = false
					break
				}
			}
		}

		if use {
			resolvents++
			if c.Len() == 2 {
				binResolvents++
			}
			start := 0
			if p != Undef0 {
				start = 1
			}
			for j := start; j < c.Len(); j++ {
				v := c.Lit(j).VarID()
				lvl := a.trail.Level(v)
				if !a.ccSeen.Contains(v) && lvl > 0 {
					a.ccSeen.Add(v)
					if lvl >= conflictLevel {
						pathC++
					}
				}
			}
		}
		if pathC == 0 {
			break
		}

		var v int
		for {
			index--
			if index < 0 {
				return nil, false
			}
			v = a.trail.At(index).VarID()
			if a.ccSeen.Contains(v) && a.trail.Level(v) >= conflictLevel {
				break
			}
		}
		p = a.trail.At(index)
		cref = a.trail.Reason(v)
		pathC--
		if cref == CRefUndef {
			break
		}
	}

	if !(skipped > 0 && resolvents > 1 && resolvents > binResolvents) {
		return nil, false
	}
	if a.trail.Reason(p.VarID()) == CRefUndef {
		out = append(out, p.Opposite())
	}
	origC := a.arena.Deref(confl)
	for i := 0; i < origC.Len(); i++ {
		l := origC.Lit(i)
		lvl := a.trail.Level(l.VarID())
		if lvl > 0 && lvl < conflictLevel {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// asserting reports whether lits qualifies as an asserting clause (exactly
// one literal at or above conflictLevel) and, if so, moves that literal to
// index 0 so it matches every other asserting clause's convention.
func asserting(lits []Literal, trail *Trail, conflictLevel int) bool {
	count, idx := 0, -1
	for i, l := range lits {
		if trail.Level(l.VarID()) >= conflictLevel {
			count++
			idx = i
		}
	}
	if count != 1 {
		return false
	}
	lits[0], lits[idx] = lits[idx], lits[0]
	return true
}

// Analyze resolves confl back to an asserting clause. extra carries any
// additional asserting clauses produced by MultiUIP mode (nil otherwise).
func (a *Analyzer) Analyze(confl CRef) (result Conflict, extra []Conflict) {
	defer a.clear()

	a.conflictCount++
	a.collectDistances(confl)
	origConfl := confl

	currentLevel := a.trail.DecisionLevel()
	learnt := []Literal{Undef0}
	backtrackLevel := 0
	pathC := 0
	trailIdx := a.trail.Len() - 1
	p := Undef0
	uipsSeen := 0

	for {
		c := a.arena.Deref(confl)
		start := 0
		if p != Undef0 {
			start = 1
		}
		for j := start; j < c.Len(); j++ {
			q := c.Lit(j)
			v := q.VarID()
			if a.seen[v] {
				continue
			}
			lvl := a.trail.Level(v)
			if lvl == 0 {
				continue
			}
			a.mark(v)
			if lvl >= currentLevel {
				pathC++
			} else {
				learnt = append(learnt, q)
				if lvl > backtrackLevel {
					backtrackLevel = lvl
				}
			}
		}

		for !a.seen[a.trail.At(trailIdx).VarID()] {
			trailIdx--
		}
		p = a.trail.At(trailIdx)
		vid := p.VarID()
		a.seen[vid] = false
		pathC--
		trailIdx--

		if pathC <= 0 {
			uipsSeen++
			if a.Mode != MultiUIP || uipsSeen > a.MaxExtraUIPs || trailIdx < 0 {
				break
			}
			// Emit the clause at this UIP as an extra learnt clause, then
			// keep resolving through its reason to look for a deeper UIP.
			partial := append([]Literal{p.Opposite()}, learnt[1:]...)
			lbd := a.trail.ComputeLBD(partial)
			bt := backtrackLevel
			extra = append(extra, Conflict{Literals: partial, LBD: lbd, BacktrackLevel: bt})
			pathC = 0
		}
		confl = a.trail.Reason(vid)
		if confl == CRefUndef {
			break
		}
	}
	learnt[0] = p.Opposite()

	lbd := a.trail.ComputeLBD(learnt)
	switch a.CcminMode {
	case 0:
		// minimization disabled.
	case 1:
		learnt = a.minimizer.Minimize(learnt, lbd, 0)
	default:
		learnt = a.minimizer.Minimize(learnt, lbd, a.MaxFullLBDMinimize)
	}
	if a.binaryClausesOf != nil {
		learnt = a.minimizer.ExtendedBinaryResolution(learnt, a.binaryClausesOf)
	}
	lbd = a.trail.ComputeLBD(learnt)

	if almost := a.collectAlmostConflicted(learnt); a.learntCreatedHook != nil {
		a.learntCreatedHook(almost)
	}

	// recompute the backtrack level from the surviving tail literals.
	backtrackLevel = 0
	for _, l := range learnt[1:] {
		if lvl := a.trail.Level(l.VarID()); lvl > backtrackLevel {
			backtrackLevel = lvl
		}
	}

	if a.Mode == LevelAware && a.shouldRunConflictCore(currentLevel) {
		if cc, ok := a.conflictCoreResolve(origConfl, currentLevel); ok && asserting(cc, a.trail, currentLevel) {
			if len(cc) < len(learnt) {
				learnt = cc
				lbd = a.trail.ComputeLBD(learnt)
				backtrackLevel = 0
				for _, l := range learnt[1:] {
					if lvl := a.trail.Level(l.VarID()); lvl > backtrackLevel {
						backtrackLevel = lvl
					}
				}
			}
		}
	}
	if a.Mode == LevelAware {
		a.pushLevelWindow(currentLevel)
	}

	chrono := a.ChronoThreshold > 0 &&
		a.conflictCount > a.ConflToChrono &&
		currentLevel-backtrackLevel > a.ChronoThreshold
	if chrono {
		backtrackLevel = currentLevel - 1
	}

	return Conflict{Literals: learnt, LBD: lbd, BacktrackLevel: backtrackLevel, Chrono: chrono}, extra
}

// Undef0 is a sentinel literal (no variable has this id) used internally to
// mark "no literal processed yet" in the analysis loop.
const Undef0 Literal = -1

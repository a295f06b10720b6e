package sat

// Options configures one Solver instance. DefaultOptions returns the
// standard settings; NewSolver uses every field as given, so a field left
// zero is not replaced by its default.
type Options struct {
	Branch  BranchName
	Restart RestartName
	Reduce  ReduceName

	AnalyzeMode AnalyzeMode

	VarDecay   float64
	ClauseDecay float64

	// ChronoThreshold is how many levels the gap between the conflict
	// level and a learnt clause's computed backtrack level must exceed
	// before the solver backtracks chronologically (one level) instead;
	// 0 disables chronological backtracking.
	ChronoThreshold int
	// ConflToChrono is the warm-up period: chronological backtracking
	// never fires before this many conflicts, so the branching heuristic
	// gets a chance to settle on a sane trail shape first.
	ConflToChrono int

	// CcminMode selects how aggressively learnt clauses are minimized:
	// 0 disables minimization entirely, 1 runs only the depth-1
	// (non-recursive) self-subsumption check, 2 runs the full
	// LBD-gated recursive minimizer (the default).
	CcminMode int

	MaxFullLBDMinimize uint32

	LocalReduceFirst int
	LocalReduceInc   int

	LubyRestartFirst int
	LubyRestartInc   float64

	// MaxExportSize/MaxExportLBD bound which learnt clauses get pushed to
	// peer threads through the exchange fabric.
	MaxExportSize int
	MaxExportLBD  uint32

	CompactGarbageFrac float64
}

func DefaultOptions() Options {
	return Options{
		Branch:             BranchVSIDS,
		Restart:            RestartGlucose,
		Reduce:             ReduceChanseokOh,
		AnalyzeMode:        FirstUIP,
		VarDecay:           0.95,
		ClauseDecay:        0.999,
		ChronoThreshold:    100,
		ConflToChrono:      4000,
		CcminMode:          2,
		MaxFullLBDMinimize: 30,
		LocalReduceFirst:   2000,
		LocalReduceInc:     300,
		LubyRestartFirst:   100,
		LubyRestartInc:     2,
		MaxExportSize:      64,
		MaxExportLBD:       30,
		CompactGarbageFrac: 0.2,
	}
}

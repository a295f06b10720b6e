package sat

import "sort"

// Reduce decides which learnt clauses to delete to keep the clause
// database from growing without bound. It is told about every learnt
// clause as it is created and every time one of them is the clause found
// in conflict, and is asked once per search-loop round that ends without a
// conflict (before the next decision) whether it wants to run a reduction
// pass.
type Reduce interface {
	AddClause(ref CRef, lbd uint32)
	ClauseUsedInConflict(ref CRef)
	NotifyConflictResolved()
	// Run asks the policy to delete whatever it judges safe to delete,
	// via remove, and reports whether it actually ran a pass.
	Run(remove func(CRef)) bool
}

type ReduceName string

const (
	ReduceChanseokOh ReduceName = "chanseok-oh"
	ReduceGlucose    ReduceName = "glucose"
)

func NewReduce(name ReduceName, arena *Arena, trail *Trail) Reduce {
	if name == ReduceGlucose {
		return NewGlucoseReduce(arena, trail)
	}
	return NewChanseokOhReduce(arena, trail)
}

// ChanseokOhReduce implements the three-tier scheme from Chanseok Oh's
// "Improving SAT Solvers by Exploiting Empirical Characteristics of CDCL":
// clauses with LBD <= coreLBDCut are kept forever (tierCore), clauses with
// LBD <= tier2LBDCut survive as long as they keep being used as a conflict
// reason (tierTier2), and everything else is reduced by activity on a
// regular schedule like a classic MiniSat clause database (tierLocal).
type ChanseokOhReduce struct {
	arena *Arena
	trail *Trail

	CoreLBDCut   uint32
	Tier2LBDCut  uint32
	Tier2TTL     int
	LocalReduceFirst int
	LocalReduceInc   int

	local         []CRef
	tier2         []CRef
	tier2LastUsed map[CRef]int

	conflictCount   int
	nextLocalReduce int
}

func NewChanseokOhReduce(arena *Arena, trail *Trail) *ChanseokOhReduce {
	return &ChanseokOhReduce{
		arena:            arena,
		trail:            trail,
		CoreLBDCut:       3,
		Tier2LBDCut:      6,
		Tier2TTL:         30000,
		LocalReduceFirst: 2000,
		LocalReduceInc:   300,
		tier2LastUsed:    map[CRef]int{},
		nextLocalReduce:  2000,
	}
}

func (r *ChanseokOhReduce) AddClause(ref CRef, lbd uint32) {
	c := r.arena.Deref(ref)
	switch {
	case lbd <= r.CoreLBDCut:
		c.SetTier(tierCore)
	case lbd <= r.Tier2LBDCut:
		c.SetTier(tierTier2)
		r.tier2 = append(r.tier2, ref)
		r.tier2LastUsed[ref] = r.conflictCount
	default:
		c.SetTier(tierLocal)
		r.local = append(r.local, ref)
	}
}

func (r *ChanseokOhReduce) ClauseUsedInConflict(ref CRef) {
	if r.arena.Deref(ref).Tier() == tierTier2 {
		r.tier2LastUsed[ref] = r.conflictCount
	}
}

func (r *ChanseokOhReduce) NotifyConflictResolved() { r.conflictCount++ }

func (r *ChanseokOhReduce) RelocRefs(relocate func(CRef) CRef) {
	relocAll(&r.local, relocate)
	relocAll(&r.tier2, relocate)
	fresh := make(map[CRef]int, len(r.tier2LastUsed))
	for ref, t := range r.tier2LastUsed {
		if nr := relocate(ref); nr != CRefUndef {
			fresh[nr] = t
		}
	}
	r.tier2LastUsed = fresh
}

func relocAll(refs *[]CRef, relocate func(CRef) CRef) {
	out := (*refs)[:0]
	for _, r := range *refs {
		if nr := relocate(r); nr != CRefUndef {
			out = append(out, nr)
		}
	}
	*refs = out
}

func (r *ChanseokOhReduce) Run(remove func(CRef)) bool {
	ran := false

	// age out tier2 clauses nobody has used in a while.
	live := r.tier2[:0]
	for _, ref := range r.tier2 {
		c := r.arena.Deref(ref)
		if c.IsDeleted() {
			continue
		}
		if r.conflictCount-r.tier2LastUsed[ref] > r.Tier2TTL && !r.trail.Locked(r.arena, ref) {
			remove(ref)
			delete(r.tier2LastUsed, ref)
			ran = true
			continue
		}
		live = append(live, ref)
	}
	r.tier2 = live

	if r.conflictCount < r.nextLocalReduce {
		return ran
	}
	r.nextLocalReduce = r.conflictCount + r.LocalReduceInc
	ran = true

	alive := r.local[:0]
	for _, ref := range r.local {
		if !r.arena.Deref(ref).IsDeleted() {
			alive = append(alive, ref)
		}
	}
	r.local = alive

	sort.Slice(r.local, func(i, j int) bool {
		return r.arena.Deref(r.local[i]).Activity() < r.arena.Deref(r.local[j]).Activity()
	})
	half := len(r.local) / 2
	kept := r.local[:0]
	for i, ref := range r.local {
		c := r.arena.Deref(ref)
		if i < half && !r.trail.Locked(r.arena, ref) && !c.IsProtected() {
			remove(ref)
			continue
		}
		kept = append(kept, ref)
	}
	r.local = kept
	return ran
}

// GlucoseReduce is the original single-tier Glucose reduce policy: every
// learnt clause with LBD above 2 lives in one bucket, sorted by LBD with
// activity breaking ties, and the policy deletes the worse (high-LBD) half
// first after 2000 conflicts and then every 300 conflicts.
type GlucoseReduce struct {
	arena *Arena
	trail *Trail

	learnts         []CRef
	conflictCount   int
	nextReduce      int
	reduceInc       int
}

func NewGlucoseReduce(arena *Arena, trail *Trail) *GlucoseReduce {
	return &GlucoseReduce{arena: arena, trail: trail, nextReduce: 2000, reduceInc: 300}
}

func (r *GlucoseReduce) AddClause(ref CRef, lbd uint32) {
	r.arena.Deref(ref).SetTier(tierCore)
	if lbd > 2 {
		r.learnts = append(r.learnts, ref)
	}
}

func (r *GlucoseReduce) ClauseUsedInConflict(CRef) {}
func (r *GlucoseReduce) NotifyConflictResolved()   { r.conflictCount++ }

func (r *GlucoseReduce) RelocRefs(relocate func(CRef) CRef) {
	relocAll(&r.learnts, relocate)
}

func (r *GlucoseReduce) Run(remove func(CRef)) bool {
	if r.conflictCount < r.nextReduce {
		return false
	}
	r.nextReduce = r.conflictCount + r.reduceInc

	alive := r.learnts[:0]
	for _, ref := range r.learnts {
		if !r.arena.Deref(ref).IsDeleted() {
			alive = append(alive, ref)
		}
	}
	r.learnts = alive

	sort.Slice(r.learnts, func(i, j int) bool {
		ci, cj := r.arena.Deref(r.learnts[i]), r.arena.Deref(r.learnts[j])
		if ci.LBD() != cj.LBD() {
			return ci.LBD() > cj.LBD()
		}
		return ci.Activity() < cj.Activity()
	})
	half := len(r.learnts) / 2
	kept := r.learnts[:0]
	for i, ref := range r.learnts {
		c := r.arena.Deref(ref)
		if i < half && c.LBD() > 2 && !r.trail.Locked(r.arena, ref) && !c.IsProtected() {
			remove(ref)
			continue
		}
		kept = append(kept, ref)
	}
	r.learnts = kept
	return true
}

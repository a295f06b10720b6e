package sat

// binWatch is a binary clause's other literal plus its CRef, filed under
// the negation of the literal that must go false to trigger it (so it is
// visited when that negation is propagated as true). Binary clauses are by far
// the most common reason during propagation, so they get their own table
// instead of sharing the general watcher list.
type binWatch struct {
	other  Literal
	ref    CRef
}

// watcher is an entry in the general (3+-literal) watch list: ref is the
// clause, blocker is a literal that, if already true, lets propagation
// skip dereferencing the clause entirely.
type watcher struct {
	ref     CRef
	blocker Literal
}

// Propagator runs unit propagation (BCP) over two watched literals per
// clause, plus the binary fast path described above.
type Propagator struct {
	trail *Trail
	arena *Arena

	watchers    [][]watcher
	binWatchers [][]binWatch

	simpleQHead int // propagation head used by SimplePropagate (vivification)
}

func NewPropagator(trail *Trail, arena *Arena) *Propagator {
	return &Propagator{trail: trail, arena: arena}
}

func (p *Propagator) NewVar() {
	p.watchers = append(p.watchers, nil, nil)
	p.binWatchers = append(p.binWatchers, nil, nil)
}

func litIndex(l Literal) int { return int(l) }

// AttachClause registers the clause's watched literals (its first two
// slots) in the watch lists. Binary clauses only ever use the fast table.
func (p *Propagator) AttachClause(ref CRef) {
	c := p.arena.Deref(ref)
	if c.Len() == 2 {
		p.watchBinary(c.Lit(0).Opposite(), c.Lit(1), ref)
		p.watchBinary(c.Lit(1).Opposite(), c.Lit(0), ref)
		return
	}
	p.watch(c.Lit(0).Opposite(), ref, c.Lit(1))
	p.watch(c.Lit(1).Opposite(), ref, c.Lit(0))
}

func (p *Propagator) watchBinary(on Literal, other Literal, ref CRef) {
	i := litIndex(on)
	p.binWatchers[i] = append(p.binWatchers[i], binWatch{other: other, ref: ref})
}

func (p *Propagator) watch(on Literal, ref CRef, blocker Literal) {
	i := litIndex(on)
	p.watchers[i] = append(p.watchers[i], watcher{ref: ref, blocker: blocker})
}

// DetachClause removes a clause from whichever watch table holds it.
// Called when a clause is deleted by the reduce policy.
func (p *Propagator) DetachClause(ref CRef) {
	c := p.arena.Deref(ref)
	if c.Len() == 2 {
		p.unwatchBinary(c.Lit(0).Opposite(), ref)
		p.unwatchBinary(c.Lit(1).Opposite(), ref)
		return
	}
	p.unwatch(c.Lit(0).Opposite(), ref)
	p.unwatch(c.Lit(1).Opposite(), ref)
}

func (p *Propagator) unwatchBinary(on Literal, ref CRef) {
	i := litIndex(on)
	ws := p.binWatchers[i]
	for j, w := range ws {
		if w.ref == ref {
			ws[j] = ws[len(ws)-1]
			p.binWatchers[i] = ws[:len(ws)-1]
			return
		}
	}
}

func (p *Propagator) unwatch(on Literal, ref CRef) {
	i := litIndex(on)
	ws := p.watchers[i]
	for j, w := range ws {
		if w.ref == ref {
			ws[j] = ws[len(ws)-1]
			p.watchers[i] = ws[:len(ws)-1]
			return
		}
	}
}

func (p *Propagator) enqueue(l Literal, reason CRef) bool {
	switch p.trail.Value(l) {
	case True:
		return true
	case False:
		return false
	}
	p.trail.Assign(l, reason)
	return true
}

// enqueueAt is enqueue but assigns l at an explicit level instead of the
// trail's current decision level: chronological backtracking can leave the
// trail sitting above the level a freshly propagated literal is actually
// implied at, since that level is only as high as the clause's other
// (falsified) literals force it to be.
func (p *Propagator) enqueueAt(l Literal, reason CRef, level int) bool {
	switch p.trail.Value(l) {
	case True:
		return true
	case False:
		return false
	}
	p.trail.AssignAt(l, reason, level)
	return true
}

// Propagate drains the trail's pending queue, returning the conflicting
// clause (or CRefUndef if the queue emptied without conflict).
func (p *Propagator) Propagate() CRef {
	for p.trail.HasPending() {
		lit := p.trail.NextPending()
		falseLit := lit.Opposite()

		for _, bw := range p.binWatchers[litIndex(lit)] {
			if p.trail.Value(bw.other) == False {
				return bw.ref
			}
			if p.trail.Value(bw.other) == Unknown {
				// a reason clause carries its implied literal at index 0,
				// which analysis, minimization and Locked all rely on.
				if c := p.arena.Deref(bw.ref); c.Lit(0) != bw.other {
					c.Swap(0, 1)
				}
				p.enqueueAt(bw.other, bw.ref, p.trail.Level(lit.VarID()))
			}
		}

		ws := p.watchers[litIndex(lit)]
		keep := ws[:0]
		for i := 0; i < len(ws); i++ {
			w := ws[i]
			if p.trail.Value(w.blocker) == True {
				keep = append(keep, w)
				continue
			}
			c := p.arena.Deref(w.ref)
			// make falseLit the second literal
			if c.Lit(0) == falseLit {
				c.Swap(0, 1)
			}
			first := c.Lit(0)
			newW := watcher{ref: w.ref, blocker: first}
			if first != w.blocker && p.trail.Value(first) == True {
				keep = append(keep, newW)
				continue
			}
			found := false
			for k := 2; k < c.Len(); k++ {
				if p.trail.Value(c.Lit(k)) != False {
					c.Swap(1, k)
					p.watch(c.Lit(1).Opposite(), w.ref, first)
					found = true
					break
				}
			}
			if found {
				continue
			}
			keep = append(keep, newW)
			if p.trail.Value(first) == False {
				// conflict: copy remaining watchers back, propagate queue
				// stays where it is so the caller can start analysis.
				for j := i + 1; j < len(ws); j++ {
					keep = append(keep, ws[j])
				}
				p.watchers[litIndex(lit)] = keep
				return w.ref
			}
			maxLevel := 0
			for k := 1; k < c.Len(); k++ {
				if lvl := p.trail.Level(c.Lit(k).VarID()); lvl > maxLevel {
					maxLevel = lvl
				}
			}
			p.enqueueAt(first, w.ref, maxLevel)
		}
		p.watchers[litIndex(lit)] = keep
	}
	return CRefUndef
}

// SimpleUncheckEnqueue force-assigns l without a propagation-queue round
// trip; used by vivification, which drives propagation one literal at a
// time against a speculative clause.
func (p *Propagator) SimpleUncheckEnqueue(l Literal, reason CRef) {
	p.trail.Assign(l, reason)
}

// SimplePropagate is a reduced propagation pass used only by vivification:
// it only needs to detect a conflict, not build blockers or reorder
// watches, so it walks the same tables without mutating them.
func (p *Propagator) SimplePropagate() CRef {
	for p.simpleQHead < p.trail.Len() {
		lit := p.trail.At(p.simpleQHead)
		p.simpleQHead++
		falseLit := lit.Opposite()

		for _, bw := range p.binWatchers[litIndex(lit)] {
			if p.trail.Value(bw.other) == False {
				return bw.ref
			}
			if p.trail.Value(bw.other) == Unknown {
				p.trail.Assign(bw.other, bw.ref)
			}
		}
		for _, w := range p.watchers[litIndex(lit)] {
			c := p.arena.Deref(w.ref)
			if c.Lit(0) == falseLit {
				c.Swap(0, 1)
			}
			if p.trail.Value(c.Lit(0)) == True {
				continue
			}
			unit := true
			for k := 1; k < c.Len(); k++ {
				if p.trail.Value(c.Lit(k)) != False {
					unit = false
					break
				}
			}
			if unit {
				if p.trail.Value(c.Lit(0)) == False {
					return w.ref
				}
				p.trail.Assign(c.Lit(0), w.ref)
			}
		}
	}
	return CRefUndef
}

// RelocRefs rewrites every CRef held in the watch tables after a
// compaction. Watch entries whose clause was deleted (and so isn't being
// relocated) are simply dropped.
func (p *Propagator) RelocRefs(relocate func(CRef) CRef) {
	for i, ws := range p.watchers {
		kept := ws[:0]
		for _, w := range ws {
			if nr := relocate(w.ref); nr != CRefUndef {
				w.ref = nr
				kept = append(kept, w)
			}
		}
		p.watchers[i] = kept
	}
	for i, ws := range p.binWatchers {
		kept := ws[:0]
		for _, w := range ws {
			if nr := relocate(w.ref); nr != CRefUndef {
				w.ref = nr
				kept = append(kept, w)
			}
		}
		p.binWatchers[i] = kept
	}
}

// ResetSimpleHead rewinds the vivification propagation head to record,
// mirroring Trail.ShrinkTo: vivification never backtracks through
// the real trail, it only discards the speculative tail it pushed.
func (p *Propagator) ResetSimpleHead(record int) {
	p.simpleQHead = record
}

// SimpleHead returns the current vivification propagation head, so a
// caller can restore it after a speculative run.
func (p *Propagator) SimpleHead() int {
	return p.simpleQHead
}

// BinaryClausesOf returns, for every binary clause on file containing l,
// the clause's other literal. Used by extended binary resolution: a
// clause (l or r) means r is a candidate resolvent partner for l.
func (p *Propagator) BinaryClausesOf(l Literal) []Literal {
	bw := p.binWatchers[litIndex(l.Opposite())]
	out := make([]Literal, len(bw))
	for i, w := range bw {
		out[i] = w.other
	}
	return out
}

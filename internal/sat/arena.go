package sat

// CRef is an opaque handle to a clause stored in an Arena. It stays valid
// across calls that do not compact the arena. CRef is its own named type,
// so the compiler keeps it apart from a Literal at a call site even though
// both count up from 0.
type CRef int32

// CRefUndef is returned by lookups that find no clause.
const CRefUndef CRef = -1

// mark tiers used by the reduce policies (ChanseokOh keeps three; Glucose
// only ever uses tierCore).
const (
	tierLocal uint8 = iota
	tierTier2
	tierCore
)

const (
	flagDeleted uint8 = 1 << iota
	flagLearnt
	flagProtected
	flagExported
	flagTouched
)

// Clause is a clause's arena-resident state: its literals plus whatever a
// branch/restart/reduce/exchange policy needs to attach to it. Everything
// that isn't the literals themselves lives in fixed-size fields so a Clause
// never needs a second allocation once built.
type Clause struct {
	literals []Literal
	activity float32
	lbd      uint32
	tier     uint8
	flags    uint8
}

func newClause(lits []Literal, learnt bool) Clause {
	c := Clause{literals: lits}
	if learnt {
		c.flags |= flagLearnt
	}
	return c
}

func (c *Clause) Len() int              { return len(c.literals) }
func (c *Clause) Lit(i int) Literal     { return c.literals[i] }
func (c *Clause) Literals() []Literal   { return c.literals }
func (c *Clause) SetLit(i int, l Literal) { c.literals[i] = l }
func (c *Clause) IsLearnt() bool        { return c.flags&flagLearnt != 0 }
func (c *Clause) IsDeleted() bool       { return c.flags&flagDeleted != 0 }
func (c *Clause) IsProtected() bool     { return c.flags&flagProtected != 0 }
func (c *Clause) SetProtected(v bool)   { c.setFlag(flagProtected, v) }
func (c *Clause) IsTouched() bool       { return c.flags&flagTouched != 0 }
func (c *Clause) SetTouched(v bool)     { c.setFlag(flagTouched, v) }
func (c *Clause) IsExported() bool      { return c.flags&flagExported != 0 }
func (c *Clause) SetExported(v bool)    { c.setFlag(flagExported, v) }
func (c *Clause) LBD() uint32           { return c.lbd }
func (c *Clause) SetLBD(v uint32)       { c.lbd = v }
func (c *Clause) Tier() uint8           { return c.tier }
func (c *Clause) SetTier(t uint8)       { c.tier = t }
func (c *Clause) Activity() float32     { return c.activity }
func (c *Clause) BumpActivity(by float32) { c.activity += by }

func (c *Clause) setFlag(f uint8, v bool) {
	if v {
		c.flags |= f
	} else {
		c.flags &^= f
	}
}

// Swap exchanges two literals in place; propagation relies on this to move
// a newly-falsified watch to slot 1 and a fresh candidate to slot 0.
func (c *Clause) Swap(i, j int) {
	c.literals[i], c.literals[j] = c.literals[j], c.literals[i]
}

// Arena owns every clause's backing storage. Clauses are addressed through
// CRef so that a compaction pass can move live clauses around and have
// every root (watch lists, the trail's reasons, reduce tiers, the
// exchanger's pending queues) rewrite its handles rather than chase
// dangling pointers.
type Arena struct {
	clauses []Clause
	wasted  int
}

func NewArena(capacityHint int) *Arena {
	return &Arena{clauses: make([]Clause, 0, capacityHint)}
}

// Alloc stores lits (which the arena takes ownership of) as a new clause
// and returns its handle.
func (a *Arena) Alloc(lits []Literal, learnt bool) CRef {
	a.clauses = append(a.clauses, newClause(lits, learnt))
	return CRef(len(a.clauses) - 1)
}

func (a *Arena) Deref(r CRef) *Clause {
	return &a.clauses[r]
}

// Free marks a clause dead. Its slot is not reused until the next Compact;
// Len()/wasted-fraction accounting lets the reduce policy decide when a
// compaction is worth the root-rewrite cost.
func (a *Arena) Free(r CRef) {
	c := &a.clauses[r]
	if c.flags&flagDeleted != 0 {
		return
	}
	c.flags |= flagDeleted
	c.literals = nil
	a.wasted++
}

func (a *Arena) Len() int { return len(a.clauses) }

// GarbageFrac is the fraction of allocated slots that are dead. Callers
// compact once this crosses a configured threshold (ctsat recompacts at a
// wasted-to-live ratio rather than on every reduce).
func (a *Arena) GarbageFrac() float64 {
	if len(a.clauses) == 0 {
		return 0
	}
	return float64(a.wasted) / float64(len(a.clauses))
}

// Relocator is implemented by every root that holds CRefs which must
// survive a compaction: watch lists, the trail's per-variable reasons,
// reduce-policy tiers, and an exchanger's pending-import queues.
type Relocator interface {
	RelocRefs(relocate func(CRef) CRef)
}

// Compact drops dead clauses and hands every live one a new, dense CRef.
// It rewrites its own clauses slice first, then asks each root to
// translate the CRefs it is holding through the returned mapping function.
func (a *Arena) Compact(roots ...Relocator) {
	fresh := make([]Clause, 0, len(a.clauses)-a.wasted)
	fwd := make([]CRef, len(a.clauses))
	for old := range a.clauses {
		c := &a.clauses[old]
		if c.flags&flagDeleted != 0 {
			fwd[old] = CRefUndef
			continue
		}
		fwd[old] = CRef(len(fresh))
		fresh = append(fresh, *c)
	}
	a.clauses = fresh
	a.wasted = 0

	relocate := func(old CRef) CRef {
		if old == CRefUndef {
			return CRefUndef
		}
		return fwd[old]
	}
	for _, r := range roots {
		r.RelocRefs(relocate)
	}
}

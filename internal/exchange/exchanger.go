package exchange

import "github.com/nyxsat/cdsat/internal/sat"

// encode packs a clause as [lbd, lit0, lit1, ...] so it fits the ring's
// flat int32 word stream.
func encode(lits []sat.Literal, lbd uint32) []int32 {
	words := make([]int32, 0, len(lits)+1)
	words = append(words, int32(lbd))
	for _, l := range lits {
		words = append(words, int32(l))
	}
	return words
}

func decode(words []int32) ([]sat.Literal, uint32) {
	lbd := uint32(words[0])
	lits := make([]sat.Literal, len(words)-1)
	for i, w := range words[1:] {
		lits[i] = sat.Literal(w)
	}
	return lits, lbd
}

// Name identifies a configured exchanger kind.
type Name string

const (
	None          Name = "none"
	Simple        Name = "simple"
	ConflictGated Name = "conflict-gated"
)

// NoExchanger is a solver.Exchanger that never exports or imports anything;
// it's what a single-threaded run (or a thread configured out of the
// fabric) wires in so the solver's Exchanger field is never nil-checked
// inline.
type NoExchanger struct{}

func (NoExchanger) Export([]sat.Literal, uint32)        {}
func (NoExchanger) TryImport() ([]sat.Literal, bool)    { return nil, false }

// SimpleExchanger exports every clause that passes an LBD/size gate to its
// own ring, and imports by round-robining a read cursor over every peer's
// ring, translating nothing itself — the owning Solver.importFromExchanger
// does the level-0 translation against its own assignment.
type SimpleExchanger struct {
	Own   *Ring
	Peers []*Ring

	MaxExportLBD  uint32
	MaxExportSize int

	cursors []Pos
	next    int
}

func NewSimpleExchanger(own *Ring, peers []*Ring, maxExportLBD uint32, maxExportSize int) *SimpleExchanger {
	e := &SimpleExchanger{
		Own:           own,
		Peers:         peers,
		MaxExportLBD:  maxExportLBD,
		MaxExportSize: maxExportSize,
		cursors:       make([]Pos, len(peers)),
	}
	// a fresh reader starts at whatever each peer has already published,
	// not at position 0, so it doesn't replay history.
	for i, peer := range peers {
		e.cursors[i] = peer.EndPos()
	}
	return e
}

func (e *SimpleExchanger) Export(lits []sat.Literal, lbd uint32) {
	if lbd > e.MaxExportLBD || len(lits) > e.MaxExportSize {
		return
	}
	e.Own.Alloc(encode(lits, lbd))
}

func (e *SimpleExchanger) TryImport() ([]sat.Literal, bool) {
	if len(e.Peers) == 0 {
		return nil, false
	}
	for tries := 0; tries < len(e.Peers); tries++ {
		i := e.next
		e.next = (e.next + 1) % len(e.Peers)
		peer := e.Peers[i]
		if !peer.IsValid(e.cursors[i]) {
			continue
		}
		lits, lbd := decode(peer.Get(e.cursors[i]))
		e.cursors[i] = peer.NextPos(e.cursors[i])
		_ = lbd
		return lits, true
	}
	return nil, false
}

// ConflictGatedExchanger delays admitting an imported clause until it has
// survived maxAge TryImport rounds unused; this approximates ctsat's
// ConflictExchange, which only promotes a parked import once the solver's
// conflict analysis actually resolves through it, by aging out imports
// that accumulate without being of any use instead.
type ConflictGatedExchanger struct {
	Own   *Ring
	Peers []*Ring

	MaxExportLBD  uint32
	MaxExportSize int
	MaxAge        int

	cursors []Pos
	next    int
	parked  []parkedClause
}

type parkedClause struct {
	lits []sat.Literal
	age  int
}

func NewConflictGatedExchanger(own *Ring, peers []*Ring, maxExportLBD uint32, maxExportSize, maxAge int) *ConflictGatedExchanger {
	e := &ConflictGatedExchanger{
		Own:           own,
		Peers:         peers,
		MaxExportLBD:  maxExportLBD,
		MaxExportSize: maxExportSize,
		MaxAge:        maxAge,
		cursors:       make([]Pos, len(peers)),
	}
	for i, peer := range peers {
		e.cursors[i] = peer.EndPos()
	}
	return e
}

func (e *ConflictGatedExchanger) Export(lits []sat.Literal, lbd uint32) {
	if lbd > e.MaxExportLBD || len(lits) > e.MaxExportSize {
		return
	}
	e.Own.Alloc(encode(lits, lbd))
}

func (e *ConflictGatedExchanger) fill() {
	for i, peer := range e.Peers {
		for peer.IsValid(e.cursors[i]) {
			lits, _ := decode(peer.Get(e.cursors[i]))
			e.cursors[i] = peer.NextPos(e.cursors[i])
			e.parked = append(e.parked, parkedClause{lits: lits})
		}
	}
}

// TryImport promotes the oldest parked clause once it's had a chance to
// prove useful, and drops anything that's aged out.
func (e *ConflictGatedExchanger) TryImport() ([]sat.Literal, bool) {
	e.fill()

	kept := e.parked[:0]
	var promoted []sat.Literal
	for _, pc := range e.parked {
		pc.age++
		if promoted == nil && pc.age >= e.MaxAge {
			promoted = pc.lits
			continue
		}
		if pc.age > e.MaxAge*4 {
			continue // aged out, never used
		}
		kept = append(kept, pc)
	}
	e.parked = kept

	if promoted != nil {
		return promoted, true
	}
	return nil, false
}

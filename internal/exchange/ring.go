// Package exchange implements the in-process clause-exchange fabric that
// lets parallel solver threads share learnt clauses without a mutex on the
// hot path: a lock-free ring buffer for storage, and a handful of import
// policies that decide which borrowed clauses are worth keeping.
package exchange

import "sync/atomic"

// Ring is a single-writer, multi-reader lock-free ring buffer of int32
// words. Each record is stored as a header word (the record's total size
// in words, including the header) followed by its payload words. A header
// of -1 means "not written yet" (the position past the end of everything
// written so far); a header of 0 is a wrap marker meaning "the real data
// starts over at word 0".
//
// The writer publishes a record by writing its payload first and the
// header word last, with a release store; readers load the header with an
// acquire load before trusting the payload is complete. This is the same
// contract as a single-producer ring allocator with in-place tombstones:
// no record is ever moved, and a reader that's lagging simply stops when
// it hits an unwritten header.
type Ring struct {
	data []int32

	writeLocked int32 // 0/1, spin-CAS guarded; only the ring's one writer touches this
	writeEnd    int32 // atomic: one past the last fully-published record
}

// Pos addresses one record in the ring.
type Pos int32

// NewRing allocates a ring with capacity for at least nWords int32 words.
func NewRing(nWords int) *Ring {
	if nWords < 64 {
		nWords = 64
	}
	r := &Ring{data: make([]int32, nWords)}
	r.data[0] = -1
	return r
}

func (r *Ring) Capacity() int { return len(r.data) }

func (r *Ring) posSafe(pos Pos) Pos {
	if atomic.LoadInt32(&r.data[pos]) == 0 {
		return 0
	}
	return pos
}

// IsValid reports whether a full record has been published at pos.
func (r *Ring) IsValid(pos Pos) bool {
	return atomic.LoadInt32(&r.data[r.posSafe(pos)]) != -1
}

// NextPos returns the position right after the record at pos. Only valid
// to call when IsValid(pos) is true.
func (r *Ring) NextPos(pos Pos) Pos {
	safe := r.posSafe(pos)
	size := atomic.LoadInt32(&r.data[safe])
	return safe + Pos(size)
}

// EndPos returns the position one past the most recently published
// record: where a fresh reader should start if it wants to see only new
// clauses.
func (r *Ring) EndPos() Pos { return Pos(atomic.LoadInt32(&r.writeEnd)) }

// WordsToEnd returns how many words separate pos from the writer's
// current position, accounting for wraparound.
func (r *Ring) WordsToEnd(pos Pos) int {
	end := atomic.LoadInt32(&r.writeEnd)
	if end < int32(pos) {
		return len(r.data) - int(pos) + int(end)
	}
	return int(end) - int(pos)
}

// Alloc publishes payload as a new record and returns its position. It is
// safe to call concurrently with readers, but only ever from one writer
// goroutine at a time (the exchanger wraps this per solver-thread owner).
func (r *Ring) Alloc(payload []int32) Pos {
	addSize := int32(len(payload) + 1)
	if int(addSize) > len(r.data) {
		panic("exchange: record larger than ring capacity")
	}

	for !atomic.CompareAndSwapInt32(&r.writeLocked, 0, 1) {
		// single writer; this only spins against itself if Alloc is
		// mistakenly called from more than one goroutine.
	}

	start := atomic.LoadInt32(&r.writeEnd)
	if int32(len(r.data))-start <= addSize {
		atomic.StoreInt32(&r.data[0], -1)
		atomic.StoreInt32(&r.data[start], 0) // wrap marker, release
		start = 0
	}

	atomic.StoreInt32(&r.data[start+addSize], -1)
	atomic.StoreInt32(&r.writeEnd, start+addSize)
	atomic.StoreInt32(&r.writeLocked, 0)

	copy(r.data[start+1:start+addSize], payload)
	atomic.StoreInt32(&r.data[start], addSize) // release: publishes the record

	return Pos(start)
}

// Get returns the payload words of the record at pos. Only valid to call
// when IsValid(pos) is true.
func (r *Ring) Get(pos Pos) []int32 {
	safe := r.posSafe(pos)
	size := atomic.LoadInt32(&r.data[safe])
	return r.data[safe+1 : safe+size]
}

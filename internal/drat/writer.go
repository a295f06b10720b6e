// Package drat writes binary DRAT unsatisfiability proofs: a stream of
// clause additions and deletions that an external proof checker can
// replay to certify an Unsat verdict.
package drat

import (
	"bufio"
	"io"

	"github.com/nyxsat/cdsat/internal/sat"
)

const (
	tagAdd    = 0x61 // 'a'
	tagDelete = 0x64 // 'd'
)

// Writer emits the binary DRAT format: each record is a tag byte followed
// by every literal encoded as (lit+2) in little-endian base-128 with a
// continuation bit, terminated by a zero byte.
type Writer struct {
	w   *bufio.Writer
	buf []byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// AddClause records that lits was learnt (or is a previously eliminated
// clause being reintroduced by the preprocessor's reconstruction pass).
func (dw *Writer) AddClause(lits []sat.Literal) error {
	return dw.record(tagAdd, lits)
}

// DeleteClause records that lits is no longer needed to derive the empty
// clause: a DRAT checker is allowed to forget it.
func (dw *Writer) DeleteClause(lits []sat.Literal) error {
	return dw.record(tagDelete, lits)
}

func (dw *Writer) record(tag byte, lits []sat.Literal) error {
	if err := dw.w.WriteByte(tag); err != nil {
		return err
	}
	for _, l := range lits {
		dw.writeLit(l)
	}
	return dw.w.WriteByte(0)
}

// writeLit encodes l's own non-negative 2v+s wire value, offset by 2 so
// that no encoded literal is the 0 byte that terminates a record, as an
// unsigned base-128 varint.
func (dw *Writer) writeLit(l sat.Literal) {
	u := uint64(l) + 2
	for u >= 0x80 {
		dw.buf = append(dw.buf[:0], byte(u)|0x80)
		dw.w.Write(dw.buf)
		u >>= 7
	}
	dw.buf = append(dw.buf[:0], byte(u))
	dw.w.Write(dw.buf)
}

func (dw *Writer) Flush() error { return dw.w.Flush() }

package drat

import (
	"bufio"
	"fmt"
	"io"

	"github.com/nyxsat/cdsat/internal/sat"
)

// Record is one decoded DRAT entry, used by tests and by any future proof
// verifier built on this package.
type Record struct {
	Deletion bool
	Literals []sat.Literal
}

// ReadAll decodes every record from r, in order. It exists primarily so
// this package's own tests can verify Writer's output without depending on
// an external proof checker.
func ReadAll(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	var records []Record
	for {
		tag, err := br.ReadByte()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		if tag != tagAdd && tag != tagDelete {
			return nil, fmt.Errorf("drat: unknown record tag 0x%02x", tag)
		}
		var lits []sat.Literal
		for {
			u, err := readVarint(br)
			if err != nil {
				return nil, err
			}
			if u == 0 {
				break
			}
			lits = append(lits, sat.Literal(int(u)-2))
		}
		records = append(records, Record{Deletion: tag == tagDelete, Literals: lits})
	}
}

// readVarint decodes one base-128 varint, returning the raw wire value
// (l.toInt()+2, or 0 for the record terminator) with no further decoding:
// the caller subtracts the +2 offset itself once it knows 0 isn't meant.
func readVarint(br *bufio.Reader) (uint64, error) {
	var u uint64
	var shift uint
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		u |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return u, nil
}

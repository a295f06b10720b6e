package drat

import (
	"bytes"
	"testing"

	"github.com/nyxsat/cdsat/internal/sat"
)

func TestWriterRoundTripsAddAndDeleteRecords(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	add := []sat.Literal{sat.PositiveLiteral(0), sat.NegativeLiteral(4)}
	del := []sat.Literal{sat.NegativeLiteral(2)}

	if err := w.AddClause(add); err != nil {
		t.Fatal(err)
	}
	if err := w.DeleteClause(del); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	records, err := ReadAll(&buf)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Deletion || len(records[0].Literals) != 2 {
		t.Fatalf("record 0: %+v", records[0])
	}
	if records[0].Literals[0] != add[0] || records[0].Literals[1] != add[1] {
		t.Fatalf("record 0 literals: got %v, want %v", records[0].Literals, add)
	}
	if !records[1].Deletion || records[1].Literals[0] != del[0] {
		t.Fatalf("record 1: %+v", records[1])
	}
}

// TestWriterEncodesLitPlusTwo pins the wire encoding to lit.toInt()+2 in
// plain (non-zigzag) base-128, matching the DRAT writer this format is
// grounded on: variable 0's positive literal is Literal(0), so it must
// encode to the single byte 2.
func TestWriterEncodesLitPlusTwo(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.AddClause([]sat.Literal{sat.PositiveLiteral(0)}); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	got := buf.Bytes()
	want := []byte{tagAdd, 2, 0}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

// Package dimacs loads DIMACS CNF problem files (optionally gzipped) and
// the .models fixture files used in tests, on top of the rhartert/dimacs
// line-level reader.
package dimacs

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/rhartert/dimacs"

	"github.com/nyxsat/cdsat/internal/sat"
)

// Builder is anything that can receive a parsed CNF formula one clause at
// a time; *sat.Solver satisfies it.
type Builder interface {
	AddVariable() int
	AddClause([]sat.Literal) bool
}

func openReader(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			file.Close()
			return nil, err
		}
	}
	return rc, nil
}

// LoadInto parses filename and feeds every clause to b.
func LoadInto(filename string, gzipped bool, b Builder) error {
	r, err := openReader(filename, gzipped)
	if err != nil {
		return fmt.Errorf("dimacs: opening %q: %w", filename, err)
	}
	defer r.Close()
	return dimacs.ReadBuilder(r, &solverBuilder{b: b})
}

// ParseClauses parses filename into a flat variable count and clause list,
// for callers (the preprocessor, the parallel driver) that need the
// formula before any particular solver exists.
func ParseClauses(filename string, gzipped bool) (numVars int, clauses [][]sat.Literal, err error) {
	r, err := openReader(filename, gzipped)
	if err != nil {
		return 0, nil, fmt.Errorf("dimacs: opening %q: %w", filename, err)
	}
	defer r.Close()

	cb := &collectBuilder{}
	if err := dimacs.ReadBuilder(r, cb); err != nil {
		return 0, nil, err
	}
	return cb.numVars, cb.clauses, nil
}

func toLiteral(v int) sat.Literal {
	if v < 0 {
		return sat.NegativeLiteral(-v - 1)
	}
	return sat.PositiveLiteral(v - 1)
}

type solverBuilder struct {
	b Builder
}

func (s *solverBuilder) Problem(problem string, nVars, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("dimacs: unsupported problem type %q", problem)
	}
	for i := 0; i < nVars; i++ {
		s.b.AddVariable()
	}
	return nil
}

func (s *solverBuilder) Clause(raw []int) error {
	clause := make([]sat.Literal, len(raw))
	for i, l := range raw {
		clause[i] = toLiteral(l)
	}
	s.b.AddClause(clause)
	return nil
}

func (s *solverBuilder) Comment(string) error { return nil }

type collectBuilder struct {
	numVars int
	clauses [][]sat.Literal
}

func (c *collectBuilder) Problem(problem string, nVars, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("dimacs: unsupported problem type %q", problem)
	}
	c.numVars = nVars
	c.clauses = make([][]sat.Literal, 0, nClauses)
	return nil
}

func (c *collectBuilder) Clause(raw []int) error {
	clause := make([]sat.Literal, len(raw))
	for i, l := range raw {
		clause[i] = toLiteral(l)
	}
	c.clauses = append(c.clauses, clause)
	return nil
}

func (c *collectBuilder) Comment(string) error { return nil }

// ReadModels returns the list of models contained in a .models fixture
// file, which reuses the DIMACS clause-line syntax (one model per line,
// each a list of signed literals ending in an implicit newline).
func ReadModels(filename string) ([][]bool, error) {
	r, err := openReader(filename, false)
	if err != nil {
		return nil, fmt.Errorf("dimacs: opening %q: %w", filename, err)
	}
	defer r.Close()

	mb := &modelBuilder{}
	if err := dimacs.ReadBuilder(r, mb); err != nil {
		return nil, err
	}
	return mb.models, nil
}

type modelBuilder struct {
	models [][]bool
}

func (b *modelBuilder) Problem(string, int, int) error {
	return fmt.Errorf("dimacs: model files should not have a problem line")
}

func (b *modelBuilder) Comment(string) error { return nil }

func (b *modelBuilder) Clause(raw []int) error {
	model := make([]bool, len(raw))
	for i, l := range raw {
		model[i] = l > 0
	}
	b.models = append(b.models, model)
	return nil
}

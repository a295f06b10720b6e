package solve

import (
	"context"
	"testing"

	"github.com/nyxsat/cdsat/internal/connector"
	"github.com/nyxsat/cdsat/internal/exchange"
	"github.com/nyxsat/cdsat/internal/sat"
)

func p(v int) sat.Literal { return sat.PositiveLiteral(v) }
func n(v int) sat.Literal { return sat.NegativeLiteral(v) }

// TestParallelThreadsAgreeOnSatisfiability races several threads over the
// same formula: whichever commits first must still agree with what a lone
// solver would find.
func TestParallelThreadsAgreeOnSatisfiability(t *testing.T) {
	clauses := [][]sat.Literal{
		{p(0), p(1)},
		{n(0), p(2)},
		{n(1), n(2)},
	}

	cfg := Config{
		NumVars:       3,
		Clauses:       clauses,
		ThreadOptions: Portfolio(sat.DefaultOptions(), 4),
		Exchange:      exchange.Simple,
		RingWords:     4096,
	}

	conn, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if conn.Status() != connector.SatStatus && conn.Status() != connector.UnsatStatus {
		t.Fatalf("expected a definitive verdict, got %v", conn.Status())
	}
}

func TestParallelThreadsAgreeOnUnsatisfiability(t *testing.T) {
	clauses := [][]sat.Literal{
		{p(0), p(1)},
		{p(0), n(1)},
		{n(0), p(1)},
		{n(0), n(1)},
	}

	cfg := Config{
		NumVars:       2,
		Clauses:       clauses,
		ThreadOptions: Portfolio(sat.DefaultOptions(), 3),
		Exchange:      exchange.None,
	}

	conn, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if conn.Status() != connector.UnsatStatus {
		t.Fatalf("got %v, want UnsatStatus", conn.Status())
	}
}

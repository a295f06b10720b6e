// Package solve wires a parsed CNF instance, a set of per-thread solver
// configurations, the clause-exchange fabric, and the connector that picks
// a winner, into one parallel portfolio search.
package solve

import (
	"context"
	"strconv"

	"github.com/hashicorp/go-hclog"
	gometrics "github.com/hashicorp/go-metrics"
	"golang.org/x/sync/errgroup"

	"github.com/nyxsat/cdsat/internal/connector"
	"github.com/nyxsat/cdsat/internal/exchange"
	"github.com/nyxsat/cdsat/internal/sat"
)

// Config describes one parallel solve: the formula, how many threads race
// on it, each thread's solver options (a portfolio diversifies these), and
// which clause-exchange policy links them.
type Config struct {
	NumVars int
	Clauses [][]sat.Literal

	ThreadOptions []sat.Options // len(ThreadOptions) == number of threads
	Exchange      exchange.Name
	RingWords     int

	Logger hclog.Logger

	// Metrics receives per-thread search counters as each thread finishes.
	// Nil disables emission entirely.
	Metrics *gometrics.Metrics
}

// Run races len(cfg.ThreadOptions) solver threads over the same formula
// and returns once the connector has a verdict (or ctx is cancelled).
func Run(ctx context.Context, cfg Config) (*connector.Connector, error) {
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	n := len(cfg.ThreadOptions)
	conn := connector.New(n)

	rings := make([]*exchange.Ring, n)
	if cfg.Exchange != exchange.None {
		words := cfg.RingWords
		if words == 0 {
			words = 1 << 16
		}
		for i := range rings {
			rings[i] = exchange.NewRing(words)
		}
	}

	stopWatch := connector.WatchSignals(conn, cfg.Logger)
	defer stopWatch()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			log := cfg.Logger.With("thread", i)
			s := buildSolver(cfg, i, rings)

			stop := func() bool {
				if conn.ShouldStop() {
					return true
				}
				select {
				case <-gctx.Done():
					return true
				default:
					return false
				}
			}

			log.Debug("thread starting search")
			res := s.Solve(stop)
			log.Debug("thread finished", "result", res, "conflicts", s.Stats.Conflicts, "decisions", s.Stats.Decisions)
			reportStats(cfg.Metrics, i, s.Stats)
			conn.Commit(res, s.Model)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return conn, err
	}
	return conn, nil
}

// reportStats pushes one thread's terminal search counters into m as
// labeled gauges, so a long-running portfolio can be scraped the same way
// the rest of the fleet is.
func reportStats(m *gometrics.Metrics, thread int, st sat.Stats) {
	if m == nil {
		return
	}
	labels := []gometrics.Label{{Name: "thread", Value: strconv.Itoa(thread)}}
	m.SetGaugeWithLabels([]string{"cdsat", "solver", "conflicts"}, float32(st.Conflicts), labels)
	m.SetGaugeWithLabels([]string{"cdsat", "solver", "decisions"}, float32(st.Decisions), labels)
	m.SetGaugeWithLabels([]string{"cdsat", "solver", "propagations"}, float32(st.Propagations), labels)
	m.SetGaugeWithLabels([]string{"cdsat", "solver", "restarts"}, float32(st.Restarts), labels)
	m.SetGaugeWithLabels([]string{"cdsat", "solver", "reductions"}, float32(st.Reductions), labels)
	m.SetGaugeWithLabels([]string{"cdsat", "solver", "imported"}, float32(st.Imported), labels)
	m.SetGaugeWithLabels([]string{"cdsat", "solver", "exported"}, float32(st.Exported), labels)
}

func buildSolver(cfg Config, thread int, rings []*exchange.Ring) *sat.Solver {
	s := sat.NewSolver(cfg.ThreadOptions[thread])
	for i := 0; i < cfg.NumVars; i++ {
		s.AddVariable()
	}
	for _, cl := range cfg.Clauses {
		s.AddClause(cl)
	}

	if cfg.Exchange == exchange.None || len(rings) <= 1 {
		s.Exchanger = exchange.NoExchanger{}
		return s
	}

	peers := make([]*exchange.Ring, 0, len(rings)-1)
	for i, r := range rings {
		if i != thread {
			peers = append(peers, r)
		}
	}
	maxLBD := cfg.ThreadOptions[thread].MaxExportLBD
	maxSize := cfg.ThreadOptions[thread].MaxExportSize
	switch cfg.Exchange {
	case exchange.ConflictGated:
		s.Exchanger = exchange.NewConflictGatedExchanger(rings[thread], peers, maxLBD, maxSize, 4)
	default:
		s.Exchanger = exchange.NewSimpleExchanger(rings[thread], peers, maxLBD, maxSize)
	}
	return s
}

// Portfolio returns a diversified set of per-thread options derived from
// base: the well-known trick of not running identical configurations on
// every thread, since identical threads mostly duplicate each other's
// work. Thread 0 always keeps base unchanged.
func Portfolio(base sat.Options, n int) []sat.Options {
	variants := []sat.BranchName{sat.BranchVSIDS, sat.BranchLRB, sat.BranchDist, sat.BranchMixed}
	restarts := []sat.RestartName{sat.RestartGlucose, sat.RestartLuby, sat.RestartMixed}

	opts := make([]sat.Options, n)
	for i := 0; i < n; i++ {
		o := base
		if i > 0 {
			o.Branch = variants[i%len(variants)]
			o.Restart = restarts[i%len(restarts)]
		}
		opts[i] = o
	}
	return opts
}

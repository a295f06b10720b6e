// Command cdsat runs the parallel CDCL solver against a DIMACS CNF
// instance, printing a MiniSat-style "c "-prefixed report and, on a
// satisfiable result, the model.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/hashicorp/go-hclog"
	gometrics "github.com/hashicorp/go-metrics"
	"github.com/spf13/cobra"

	"github.com/nyxsat/cdsat/internal/config"
	"github.com/nyxsat/cdsat/internal/connector"
	"github.com/nyxsat/cdsat/internal/dimacs"
	"github.com/nyxsat/cdsat/internal/drat"
	"github.com/nyxsat/cdsat/internal/exchange"
	"github.com/nyxsat/cdsat/internal/solve"
)

func main() {
	exitCode := 1
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:   "cdsat <instance.cnf>",
		Short: "parallel CDCL SAT solver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.InstanceFile = args[0]
			code, err := run(cfg)
			exitCode = code
			return err
		},
	}
	config.Bind(cmd.Flags(), cfg)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}

// run reports progress on stdout and returns a SAT-competition exit code
// (10 = sat, 20 = unsat, 0 = unknown/aborted) alongside any hard error.
func run(cfg *config.Config) (int, error) {
	log := hclog.New(&hclog.LoggerOptions{
		Name:       "cdsat",
		Level:      hclog.LevelFromString(cfg.LogLevel),
		JSONFormat: cfg.LogJSON,
	})

	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			return 1, fmt.Errorf("creating cpu profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return 1, fmt.Errorf("starting cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	sink := gometrics.NewInmemSink(10*time.Second, time.Minute)
	m, err := gometrics.New(gometrics.DefaultConfig("cdsat"), sink)
	if err != nil {
		return 1, fmt.Errorf("initializing metrics: %w", err)
	}

	numVars, clauses, err := dimacs.ParseClauses(cfg.InstanceFile, cfg.Gzipped)
	if err != nil {
		return 1, fmt.Errorf("parsing instance: %w", err)
	}

	base, err := cfg.SolverOptions()
	if err != nil {
		return 1, err
	}

	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}

	var dratWriter *drat.Writer
	var dratFile *os.File
	if cfg.DRATPath != "" {
		dratFile, err = os.Create(cfg.DRATPath)
		if err != nil {
			return 1, fmt.Errorf("creating drat proof file: %w", err)
		}
		defer dratFile.Close()
		dratWriter = drat.NewWriter(dratFile)
		defer dratWriter.Flush()
	}

	solveCfg := solve.Config{
		NumVars:       numVars,
		Clauses:       clauses,
		ThreadOptions: solve.Portfolio(base, threads),
		Exchange:      cfg.ExchangeName(),
		Logger:        log,
		Metrics:       m,
	}
	if solveCfg.Exchange == "" {
		solveCfg.Exchange = exchange.Simple
	}

	fmt.Printf("c variables:  %d\n", numVars)
	fmt.Printf("c clauses:    %d\n", len(clauses))

	start := time.Now()
	conn, err := solve.Run(context.Background(), solveCfg)
	elapsed := time.Since(start)
	if err != nil {
		return 1, fmt.Errorf("solving: %w", err)
	}

	status := conn.Status()
	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c status:     %s\n", status.String())

	if status == connector.SatStatus {
		printModel(conn.Model())
	}
	if dratWriter != nil && status == connector.UnsatStatus {
		dratWriter.AddClause(nil) // the empty clause: the formula is unsatisfiable
	}

	if cfg.MemProfile != "" {
		f, err := os.Create(cfg.MemProfile)
		if err != nil {
			return 1, fmt.Errorf("creating mem profile: %w", err)
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return 1, fmt.Errorf("writing mem profile: %w", err)
		}
	}

	switch status {
	case connector.UnsatStatus:
		return 20, nil // SAT competition exit codes: 20 = UNSAT
	case connector.SatStatus:
		return 10, nil // 10 = SAT
	default:
		return 0, nil
	}
}

func printModel(model []bool) {
	fmt.Print("v")
	for v, val := range model {
		if val {
			fmt.Printf(" %d", v+1)
		} else {
			fmt.Printf(" -%d", v+1)
		}
	}
	fmt.Println(" 0")
}

// Package config defines the solver's command-line surface: a flat struct
// bound to cobra/pflag, translated into the per-package Options types at
// startup.
package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"

	"github.com/nyxsat/cdsat/internal/exchange"
	"github.com/nyxsat/cdsat/internal/sat"
)

// Config is every user-facing knob, flattened into one struct so binding
// it to pflag (and, from there, to a future config file) is mechanical.
type Config struct {
	InstanceFile string
	Gzipped      bool

	Threads  int
	Branch   string
	Restart  string
	Reduce   string
	Analyze  string
	Exchange string

	VarDecay        float64
	ClauseDecay     float64
	ChronoThreshold int
	ConflToChrono   int
	CcminMode       int
	ReduceFirst     int
	ReduceInc       int

	LubyRestartFirst int
	LubyRestartInc   float64

	MaxExportSize int
	MaxExportLBD  uint32

	DRATPath string

	CPUProfile string
	MemProfile string
	LogLevel   string
	LogJSON    bool
}

// Bind registers every Config field as a flag on fs: MiniSat-style short
// names for the profiling flags (cpuprof/memprof), descriptive long flags
// for everything else.
func Bind(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.Gzipped, "gzip", false, "treat the instance file as gzip-compressed")
	fs.IntVar(&cfg.Threads, "threads", 1, "number of parallel solver threads")
	fs.StringVar(&cfg.Branch, "branch", string(sat.BranchVSIDS), "branching heuristic: vsids|lrb|dist|mixed")
	fs.StringVar(&cfg.Restart, "restart", string(sat.RestartGlucose), "restart policy: luby|glucose|mixed")
	fs.StringVar(&cfg.Reduce, "reduce", string(sat.ReduceChanseokOh), "clause reduction policy: chanseok-oh|glucose")
	fs.StringVar(&cfg.Analyze, "analyze", "first-uip", "conflict analysis mode: first-uip|multi-uip|level-aware")
	fs.StringVar(&cfg.Exchange, "exchange", string(exchange.Simple), "clause exchange policy: none|simple|conflict-gated")

	fs.Float64Var(&cfg.VarDecay, "var-decay", 0.95, "variable activity decay factor")
	fs.Float64Var(&cfg.ClauseDecay, "clause-decay", 0.999, "clause activity decay factor")
	fs.IntVar(&cfg.ChronoThreshold, "chrono-threshold", 100, "backjump length in levels above which backtracking is chronological (0 disables)")
	fs.IntVar(&cfg.ConflToChrono, "confl-to-chrono", 4000, "conflicts before chronological backtracking can fire")
	fs.IntVar(&cfg.CcminMode, "ccmin-mode", 2, "learnt clause minimization: 0 off, 1 depth-1, 2 full recursive")
	fs.IntVar(&cfg.ReduceFirst, "reduce-first", 2000, "conflicts before the first local-tier reduction")
	fs.IntVar(&cfg.ReduceInc, "reduce-inc", 300, "conflicts added to the reduce schedule each round")

	fs.IntVar(&cfg.LubyRestartFirst, "luby-restart-first", 100, "base Luby restart interval, in conflicts")
	fs.Float64Var(&cfg.LubyRestartInc, "luby-restart-inc", 2, "Luby restart sequence growth factor")

	fs.IntVar(&cfg.MaxExportSize, "max-export-size", 64, "max learnt clause length shared with peer threads")
	fs.Uint32Var(&cfg.MaxExportLBD, "max-export-lbd", 30, "max learnt clause LBD shared with peer threads")

	fs.StringVar(&cfg.DRATPath, "drat", "", "write a DRAT unsatisfiability proof to this path")

	fs.StringVar(&cfg.CPUProfile, "cpuprof", "", "write a pprof CPU profile to this path")
	fs.StringVar(&cfg.MemProfile, "memprof", "", "write a pprof heap profile to this path")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "log level: trace|debug|info|warn|error")
	fs.BoolVar(&cfg.LogJSON, "log-json", false, "emit structured JSON logs instead of text")
}

func (c *Config) BranchName() sat.BranchName     { return sat.BranchName(c.Branch) }
func (c *Config) RestartName() sat.RestartName   { return sat.RestartName(c.Restart) }
func (c *Config) ReduceName() sat.ReduceName     { return sat.ReduceName(c.Reduce) }
func (c *Config) ExchangeName() exchange.Name    { return exchange.Name(c.Exchange) }

func (c *Config) AnalyzeMode() (sat.AnalyzeMode, error) {
	switch c.Analyze {
	case "first-uip", "":
		return sat.FirstUIP, nil
	case "multi-uip":
		return sat.MultiUIP, nil
	case "level-aware":
		return sat.LevelAware, nil
	default:
		return 0, fmt.Errorf("config: unknown analyze mode %q", c.Analyze)
	}
}

// validate reports every malformed flag value at once, rather than making
// the user fix them one run at a time.
func (c *Config) validate() error {
	var result *multierror.Error

	switch c.BranchName() {
	case sat.BranchVSIDS, sat.BranchLRB, sat.BranchDist, sat.BranchMixed:
	default:
		result = multierror.Append(result, fmt.Errorf("config: unknown branch heuristic %q", c.Branch))
	}

	switch c.RestartName() {
	case sat.RestartLuby, sat.RestartGlucose, sat.RestartMixed:
	default:
		result = multierror.Append(result, fmt.Errorf("config: unknown restart policy %q", c.Restart))
	}

	switch c.ReduceName() {
	case sat.ReduceChanseokOh, sat.ReduceGlucose:
	default:
		result = multierror.Append(result, fmt.Errorf("config: unknown reduce policy %q", c.Reduce))
	}

	switch c.ExchangeName() {
	case exchange.None, exchange.Simple, exchange.ConflictGated:
	default:
		result = multierror.Append(result, fmt.Errorf("config: unknown exchange policy %q", c.Exchange))
	}

	if _, err := c.AnalyzeMode(); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// SolverOptions translates Config into the sat.Options for thread 0 of the
// portfolio; solve.Portfolio diversifies the rest.
func (c *Config) SolverOptions() (sat.Options, error) {
	opt := sat.DefaultOptions()
	if err := c.validate(); err != nil {
		return opt, err
	}

	opt.Branch = c.BranchName()
	opt.Restart = c.RestartName()
	opt.Reduce = c.ReduceName()
	opt.VarDecay = c.VarDecay
	opt.ClauseDecay = c.ClauseDecay
	opt.ChronoThreshold = c.ChronoThreshold
	opt.ConflToChrono = c.ConflToChrono
	opt.CcminMode = c.CcminMode
	opt.LocalReduceFirst = c.ReduceFirst
	opt.LocalReduceInc = c.ReduceInc
	opt.LubyRestartFirst = c.LubyRestartFirst
	opt.LubyRestartInc = c.LubyRestartInc
	opt.MaxExportSize = c.MaxExportSize
	opt.MaxExportLBD = c.MaxExportLBD

	mode, _ := c.AnalyzeMode() // already checked by validate
	opt.AnalyzeMode = mode
	return opt, nil
}

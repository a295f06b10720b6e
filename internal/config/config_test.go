package config

import (
	"strings"
	"testing"
)

func TestSolverOptionsAcceptsDefaults(t *testing.T) {
	cfg := &Config{Branch: "vsids", Restart: "glucose", Reduce: "chanseok-oh", Analyze: "first-uip", Exchange: "simple"}
	if _, err := cfg.SolverOptions(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSolverOptionsReportsEveryBadFieldAtOnce(t *testing.T) {
	cfg := &Config{Branch: "bogus", Restart: "bogus", Reduce: "chanseok-oh", Analyze: "first-uip", Exchange: "simple"}
	_, err := cfg.SolverOptions()
	if err == nil {
		t.Fatal("expected an error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "branch") || !strings.Contains(msg, "restart") {
		t.Fatalf("expected both branch and restart complaints, got: %s", msg)
	}
}

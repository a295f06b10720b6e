package connector

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
)

// WatchSignals aborts c when the process receives SIGINT or SIGXCPU (the
// latter fires when a cgroup or ulimit CPU-time budget runs out, which is
// how a batch scheduler usually kills a long-running solve). The returned
// func stops watching and must be called once the race is over.
func WatchSignals(c *Connector, log hclog.Logger) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGXCPU)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			log.Warn("aborting on signal", "signal", sig.String())
			c.Abort()
		case <-done:
		}
	}()

	return func() {
		close(done)
		signal.Stop(sigCh)
	}
}

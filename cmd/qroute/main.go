// Command qroute computes a round trip through a set of countries by
// encoding it as a QUBO and sampling it on a quantum annealer (D-Wave SAPI)
// or a local sampler.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.WithError(err).Error("qroute failed")
		stop()
		os.Exit(1)
	}
}

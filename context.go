package buildtool

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

// InterruptibleContext returns a context which is canceled on SIGINT or
// SIGTERM. Canceling aborts the running fetch or child process, after which
// deferred cleanup (e.g. removing the staging directory) runs as usual. Once
// the context is done, signals regain their default behavior, so a second
// interrupt terminates the program immediately.
func InterruptibleContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case s := <-sig:
			log.Warn("canceling", "signal", s)
		case <-ctx.Done():
		}
		signal.Stop(sig)
		cancel()
	}()
	return ctx, cancel
}

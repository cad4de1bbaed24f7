//go:build !windows

package daemon

import (
	"os"
	"syscall"
)

// ShutdownSignals lists the signals that stop gmd gracefully.
func ShutdownSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}

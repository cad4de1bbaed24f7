//go:build windows

package daemon

import "os"

// ShutdownSignals lists the signals that stop gmd gracefully. Only Ctrl+C
// is delivered reliably on Windows.
func ShutdownSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

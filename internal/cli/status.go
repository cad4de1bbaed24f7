package cli

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/goatminify/goatminify/internal/api"
	"github.com/goatminify/goatminify/internal/daemon"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Long: `Query the gmd daemon configured by daemon.host and daemon.port.

Shows whether the daemon is reachable, its uptime and which minification
engines it has loaded.

Examples:
  gm status
  gm status --json`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(GetProjectRoot())
	if err != nil {
		return err
	}

	client := NewClient(cfg)
	health, err := client.Health()
	if err != nil {
		cliErr := ErrDaemonNotRunning(cfg.Daemon.Address())
		cliErr.Cause = err
		return cliErr
	}

	if IsJSONOutput() {
		return outputFor(cmd).JSON(health)
	}

	// Only known when gmd serves this project from the same machine.
	running, pid := daemon.NewStateManager(GetProjectRoot()).IsRunning()
	if !running {
		pid = 0
	}
	printStatus(cmd.OutOrStdout(), client.BaseURL(), pid, health)
	return nil
}

func printStatus(w io.Writer, url string, pid int, health *api.HealthResponse) {
	fmt.Fprintln(w, "GoatMinify Daemon")
	fmt.Fprintln(w, "=================")
	fmt.Fprintf(w, "  Address:  %s\n", url)
	fmt.Fprintf(w, "  Status:   %s\n", health.Status)
	fmt.Fprintf(w, "  Uptime:   %s\n", formatDuration(health.UptimeSeconds))
	if pid > 0 {
		fmt.Fprintf(w, "  PID:      %d\n", pid)
	}

	if health.Engines == nil {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Engines:")
	if !health.Engines.Enabled {
		fmt.Fprintln(w, "  Disabled (basic minification only)")
		return
	}
	families := make([]string, 0, len(health.Engines.Loaded))
	for f := range health.Engines.Loaded {
		families = append(families, f)
	}
	sort.Strings(families)
	for _, f := range families {
		state := "not loaded"
		if health.Engines.Loaded[f] {
			state = "loaded"
		}
		fmt.Fprintf(w, "  %-5s %s\n", f+":", state)
	}
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", seconds)
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

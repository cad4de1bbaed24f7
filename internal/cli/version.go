package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// VersionInfo contains build information for the version command
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version, build commit, build date, Go version, and platform information.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersionInfo()
		if IsJSONOutput() {
			return printVersionJSON(cmd.OutOrStdout(), info)
		}
		return printVersionText(cmd.OutOrStdout(), info)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func currentVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		Commit:    BuildCommit,
		Date:      BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

func printVersionJSON(w io.Writer, info VersionInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal version info: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printVersionText(w io.Writer, info VersionInfo) error {
	fmt.Fprintf(w, "GoatMinify %s\n", info.Version)
	fmt.Fprintf(w, "  Commit:     %s\n", info.Commit)
	fmt.Fprintf(w, "  Built:      %s\n", info.Date)
	fmt.Fprintf(w, "  Go version: %s\n", info.GoVersion)
	fmt.Fprintf(w, "  OS/Arch:    %s/%s\n", info.OS, info.Arch)
	return nil
}

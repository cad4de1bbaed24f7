package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goatminify/goatminify/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a project configuration",
	Long: `Initialize GoatMinify in a project by creating a .goatminify directory
with a default config.yaml.

Project settings override the global config (~/.config/goatminify/config.yaml),
and GOATMINIFY_* environment variables override both.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(GetProjectRoot(), cmd.OutOrStdout(), cmd.ErrOrStderr(), IsJSONOutput())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// InitResult represents the result of an init operation for JSON output
type InitResult struct {
	Success     bool   `json:"success"`
	ProjectRoot string `json:"project_root"`
	ConfigPath  string `json:"config_path"`
	Message     string `json:"message,omitempty"`
}

// runInit creates the project config under projectRoot. An existing config
// is left untouched and reported on stderr.
func runInit(projectRoot string, stdout, stderr io.Writer, jsonOutput bool) error {
	info, err := os.Stat(projectRoot)
	if err != nil || !info.IsDir() {
		return ErrInvalidProjectRoot(projectRoot)
	}

	loader := config.NewLoader(projectRoot)
	result := InitResult{ProjectRoot: projectRoot, ConfigPath: loader.ConfigPath()}

	if loader.Exists() {
		result.Message = fmt.Sprintf("GoatMinify already initialized at %s", loader.ProjectDirPath())
		if jsonOutput {
			return writeInitJSON(stdout, result)
		}
		fmt.Fprintf(stderr, "%s\n", result.Message)
		return nil
	}

	if _, err := loader.Init(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	result.Success = true
	result.Message = "Initialized GoatMinify successfully"
	if jsonOutput {
		return writeInitJSON(stdout, result)
	}

	fmt.Fprintf(stdout, "Initialized GoatMinify in %s\n", loader.ProjectDirPath())
	return nil
}

func writeInitJSON(w io.Writer, result InitResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

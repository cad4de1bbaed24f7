package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version     = "0.3.0"
	BuildCommit = "unknown"
	BuildDate   = "unknown"

	jsonOutput  bool
	verbose     bool
	projectRoot string
)

var rootCmd = &cobra.Command{
	Use:   "gm",
	Short: "GoatMinify - content-aware minification for pasted code",
	Long: `GoatMinify detects what kind of text it is given (JavaScript, JSON, CSS,
HTML, SVG, XML, Markdown, YAML, TOML or plain text) and minifies it at one of
four levels, from whitespace trimming to full engine minification.

A leading license or banner comment is always preserved, and when an engine
rejects its input the text is still minified with the basic rules.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Version is read here so ldflags values set
// by main are reported by --version.
func Execute() error {
	rootCmd.Version = Version
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&projectRoot, "project", "p", "", "Project root directory (default: current directory)")
	cobra.OnInitialize(initProjectRoot)
}

func initProjectRoot() {
	if projectRoot == "" {
		var err error
		projectRoot, err = os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to get current directory: %v\n", err)
			os.Exit(1)
		}
	}
}

func GetProjectRoot() string {
	return projectRoot
}

func IsJSONOutput() bool {
	return jsonOutput
}

func IsVerbose() bool {
	return verbose
}

package cli

import (
	"github.com/goatminify/goatminify/internal/api"
	"github.com/goatminify/goatminify/internal/detect"
	"github.com/goatminify/goatminify/internal/output"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect [file]",
	Short: "Report the detected content type",
	Long: `Detect the content type of a file or stdin without minifying it.

Also reports whether the content already looks minified.

Examples:
  gm detect config.yaml
  pbpaste | gm detect --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(GetProjectRoot())
	if err != nil {
		return err
	}

	in, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	d := detect.New(detect.WithSampleSize(cfg.Detection.SampleSize))
	t := d.Detect(in.Content, in.Hint())
	resp := api.NewDetectResponse(t, d.Table(), detect.LooksMinified(in.Content, in.Hint()))

	out := outputFor(cmd)
	if IsJSONOutput() {
		return out.JSON(resp)
	}

	mode := output.FormatNormal
	if IsVerbose() {
		mode = output.FormatVerbose
	}
	out.Result(output.NewFormatter(mode).FormatDetect(resp) + "\n")
	return nil
}

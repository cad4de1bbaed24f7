package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// OutputFormatter writes status messages to stderr and results to stdout,
// so minified text piped from stdout is never mixed with chatter.
type OutputFormatter struct {
	out    io.Writer
	errOut io.Writer
}

// NewOutputFormatter creates a new OutputFormatter with default stdout/stderr
func NewOutputFormatter() *OutputFormatter {
	return &OutputFormatter{
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// NewOutputFormatterWithWriters creates an OutputFormatter with custom writers
func NewOutputFormatterWithWriters(out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{
		out:    out,
		errOut: errOut,
	}
}

// outputFor returns a formatter bound to cmd's writers.
func outputFor(cmd *cobra.Command) *OutputFormatter {
	return NewOutputFormatterWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// Success prints a success message to stderr
func (o *OutputFormatter) Success(format string, args ...any) {
	fmt.Fprintf(o.errOut, "[OK] %s\n", fmt.Sprintf(format, args...))
}

// Info prints an informational message to stderr
func (o *OutputFormatter) Info(format string, args ...any) {
	fmt.Fprintf(o.errOut, "%s\n", fmt.Sprintf(format, args...))
}

// Warn prints a warning message with a warning prefix
func (o *OutputFormatter) Warn(format string, args ...any) {
	fmt.Fprintf(o.errOut, "[WARN] %s\n", fmt.Sprintf(format, args...))
}

// Error prints an error message with an error prefix
func (o *OutputFormatter) Error(format string, args ...any) {
	fmt.Fprintf(o.errOut, "[ERROR] %s\n", fmt.Sprintf(format, args...))
}

// Result writes s verbatim to stdout
func (o *OutputFormatter) Result(s string) {
	io.WriteString(o.out, s)
}

// JSON outputs data as formatted JSON
func (o *OutputFormatter) JSON(data any) error {
	encoder := json.NewEncoder(o.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Table prints rows under headers in aligned columns
func (o *OutputFormatter) Table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(o.out, 0, 0, 2, ' ', 0)

	if len(headers) > 0 {
		fmt.Fprintln(w, strings.Join(headers, "\t"))
		separators := make([]string, len(headers))
		for i, h := range headers {
			separators[i] = strings.Repeat("-", len(h))
		}
		fmt.Fprintln(w, strings.Join(separators, "\t"))
	}

	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	w.Flush()
}

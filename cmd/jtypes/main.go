package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"jtypes/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "jtypes",
	Short: "Java-like type representation and subtyping queries",
	Long: `jtypes answers subtyping, erasure, capture and supertype queries over a
classpath of declaration manifests.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  openSession,
	PersistentPostRunE: closeSession,
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(subtypeCmd)
	rootCmd.AddCommand(erasureCmd)
	rootCmd.AddCommand(supertypesCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(classpathCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to jtypes.toml (default: nearest one above the working directory)")
	flags.StringArray("classpath", nil, "declaration manifest to load (repeatable; .toml, .jtc or .msgpack)")
	flags.Bool("no-bootstrap", false, "do not load the embedded java.lang/java.util core")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "", "trace storage mode (stream|ring|both)")
	flags.Bool("strict-arity", false, "reject generic types used without arguments")
	flags.Int("max-depth", 0, "recursion guard for a single query (0: configured default)")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
}

// main executes the root command. Any error exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

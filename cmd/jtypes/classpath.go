package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"jtypes/internal/classpath"
)

var classpathCmd = &cobra.Command{
	Use:   "classpath",
	Short: "Inspect and compile declaration manifests",
}

var classpathCompileCmd = &cobra.Command{
	Use:         "compile SRC.toml DST.jtc",
	Short:       "Compile a TOML manifest to the binary manifest format",
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{"registry": "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := classpath.Compile(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
		return nil
	},
}

var classpathListCmd = &cobra.Command{
	Use:   "list [PREFIX]",
	Short: "List the classes of the loaded classpath",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionFrom(cmd)
		if err != nil {
			return err
		}
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		names := s.table.Names()
		slices.Sort(names)
		out := cmd.OutOrStdout()
		for _, n := range names {
			if strings.HasPrefix(n, prefix) {
				fmt.Fprintln(out, n)
			}
		}
		return nil
	},
}

func init() {
	classpathCmd.AddCommand(classpathCompileCmd)
	classpathCmd.AddCommand(classpathListCmd)
}

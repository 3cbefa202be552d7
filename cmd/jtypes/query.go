package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jtypes/internal/typeexpr"
	"jtypes/internal/types"
)

var subtypeTypeVars []string

func init() {
	subtypeCmd.Flags().StringArrayVar(&subtypeTypeVars, "tvar", nil, "declare a type variable, e.g. 'K extends Comparable<K>' (repeatable)")
	for _, c := range []*cobra.Command{erasureCmd, supertypesCmd, captureCmd} {
		c.Flags().StringArray("tvar", nil, "declare a type variable (repeatable)")
	}
}

var subtypeCmd = &cobra.Command{
	Use:   "subtype S T",
	Short: "Report whether S is a subtype of T",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionFrom(cmd)
		if err != nil {
			return err
		}
		scope, err := declareTypeVars(s.registry, subtypeTypeVars)
		if err != nil {
			return err
		}
		src, err := s.registry.Parse(args[0], scope)
		if err != nil {
			return err
		}
		dst, err := s.registry.Parse(args[1], scope)
		if err != nil {
			return err
		}
		conv, err := s.registry.CheckSubtype(src, dst)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <: %s: %s\n", s.registry.String(src), s.registry.String(dst), verdict(conv))
		return nil
	},
}

var erasureCmd = &cobra.Command{
	Use:   "erasure T",
	Short: "Print the erasure of T",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, id, err := parseQueryType(cmd, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s.registry.String(s.registry.Erasure(id)))
		return nil
	},
}

var supertypesCmd = &cobra.Command{
	Use:   "supertypes T",
	Short: "List every supertype of T, T included",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, id, err := parseQueryType(cmd, args[0])
		if err != nil {
			return err
		}
		set, err := s.registry.SuperTypeSet(id)
		if err != nil {
			return err
		}
		names := make([]string, 0, set.Len())
		for _, t := range set.Sorted() {
			names = append(names, s.registry.String(t))
		}
		out := cmd.OutOrStdout()
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		fmt.Fprintln(out, dimText.Sprintf("%d type(s)", len(names)))
		return nil
	},
}

var captureCmd = &cobra.Command{
	Use:   "capture T",
	Short: "Apply capture conversion to T and print the captured variables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, id, err := parseQueryType(cmd, args[0])
		if err != nil {
			return err
		}
		r := s.registry
		captured, err := r.Capture(id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, r.String(captured))
		for _, a := range r.TypeArgs(captured) {
			if !r.IsCaptured(a) {
				continue
			}
			fmt.Fprintf(out, "  %s\n    upper: %s\n    lower: %s\n",
				r.SimpleString(a), r.String(r.UpperBound(a)), r.String(r.LowerBound(a)))
		}
		return nil
	},
}

func parseQueryType(cmd *cobra.Command, src string) (*session, types.TypeID, error) {
	s, err := sessionFrom(cmd)
	if err != nil {
		return nil, types.NoTypeID, err
	}
	tvars, err := cmd.Flags().GetStringArray("tvar")
	if err != nil {
		return nil, types.NoTypeID, err
	}
	scope, err := declareTypeVars(s.registry, tvars)
	if err != nil {
		return nil, types.NoTypeID, err
	}
	id, err := s.registry.Parse(src, scope)
	if err != nil {
		return nil, types.NoTypeID, err
	}
	return s, id, nil
}

// declareTypeVars declares every --tvar together so bounds may refer to each
// other.
func declareTypeVars(r *types.Registry, decls []string) (types.Scope, error) {
	scope := types.Scope{}
	if len(decls) == 0 {
		return scope, nil
	}
	params := make([]typeexpr.TypeParam, 0, len(decls))
	for _, d := range decls {
		p, err := typeexpr.ParseTypeParam(strings.TrimSpace(d))
		if err != nil {
			return nil, fmt.Errorf("--tvar %q: %w", d, err)
		}
		params = append(params, p)
	}
	if _, err := r.DeclareTypeVars(params, scope); err != nil {
		return nil, err
	}
	return scope, nil
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"jtypes/internal/diag"
	"jtypes/internal/diagfmt"
	"jtypes/internal/source"
	"jtypes/internal/typeexpr"
	"jtypes/internal/types"
)

// batchFile is the FileID batch diagnostics are reported against; Start and
// End hold the line number.
const batchFile source.FileID = 1

var (
	batchJobs   int
	batchFormat string
)

func init() {
	batchCmd.Flags().IntVarP(&batchJobs, "jobs", "j", 0, "parallel workers (0: GOMAXPROCS)")
	batchCmd.Flags().StringVar(&batchFormat, "diagnostics", "short", "diagnostics format (short|json)")
}

var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Evaluate one 'S <: T' query per line in parallel",
	Long: `Reads FILE (- for stdin). Each non-empty line not starting with # is a
query "S <: T". Lines "tvar K extends Bound" declare type variables visible
to every query of the file. Results are printed as an aligned table; the
exit status is 1 when any line could not be evaluated.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

type batchQuery struct {
	Line int
	Src  string
	Dst  string
}

type batchResult struct {
	Query batchQuery
	Conv  types.Convertibility
	S, T  string
	Err   error
}

func lineSpan(line int) source.Span { return source.LineSpan(batchFile, line) }

// parseBatch splits the batch input into type variable declarations and
// queries. Malformed lines are reported and skipped.
func parseBatch(rd io.Reader, rep diag.Reporter) ([]typeexpr.TypeParam, []batchQuery, error) {
	var (
		params  []typeexpr.TypeParam
		queries []batchQuery
	)
	sc := bufio.NewScanner(rd)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if i := strings.Index(text, "#"); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
		if text == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(text, "tvar "); ok {
			p, err := typeexpr.ParseTypeParam(strings.TrimSpace(rest))
			if err != nil {
				diag.ReportError(rep, diag.TypSyntax, lineSpan(line), err.Error()).Emit()
				continue
			}
			params = append(params, p)
			continue
		}
		src, dst, ok := strings.Cut(text, "<:")
		src, dst = strings.TrimSpace(src), strings.TrimSpace(dst)
		if !ok || src == "" || dst == "" {
			diag.ReportError(rep, diag.IOBatchSyntax, lineSpan(line), fmt.Sprintf("expected 'S <: T', got %q", text)).Emit()
			continue
		}
		queries = append(queries, batchQuery{Line: line, Src: src, Dst: dst})
	}
	return params, queries, sc.Err()
}

func runBatch(cmd *cobra.Command, args []string) error {
	s, err := sessionFrom(cmd)
	if err != nil {
		return err
	}
	maxDiags, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	bag := diag.NewBag(maxDiags)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	var rd io.Reader = cmd.InOrStdin()
	path := args[0]
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		rd = f
	}
	params, queries, err := parseBatch(rd, rep)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	failed := bag.Len()
	scope := types.Scope{}
	if len(params) > 0 {
		if _, err := s.registry.DeclareTypeVars(params, scope); err != nil {
			return fmt.Errorf("%s: type variables: %w", path, err)
		}
	}

	results, err := evalBatch(cmd.Context(), s.registry, scope, queries, batchJobs)
	if err != nil {
		return err
	}
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
			diag.ReportError(rep, codeFor(res.Err), lineSpan(res.Query.Line), res.Err.Error()).Emit()
		case res.Conv == types.UncheckedWarning:
			diag.ReportWarning(rep, diag.TypUncheckedConvert, lineSpan(res.Query.Line),
				fmt.Sprintf("unchecked conversion from %s to %s", res.S, res.T)).Emit()
		}
	}

	width := 0
	if f, ok := cmd.OutOrStdout().(*os.File); ok && isTerminal(f) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = w
		}
	}
	renderBatch(cmd.OutOrStdout(), results, width)

	bag.Sort()
	loc := diagfmt.LocatorFunc(func(sp source.Span) (diagfmt.Location, bool) {
		if sp.File != batchFile {
			return diagfmt.Location{}, false
		}
		return diagfmt.Location{Path: path, Line: sp.Start, Column: 1}, true
	})
	switch batchFormat {
	case "json":
		err = diagfmt.JSON(cmd.ErrOrStderr(), bag, loc, diagfmt.JSONOpts{IncludeNotes: true})
	default:
		err = diagfmt.Short(cmd.ErrOrStderr(), bag, loc, diagfmt.ShortOpts{Color: s.color, IncludeNotes: true})
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("batch: %d line(s) failed", failed)
	}
	return nil
}

// evalBatch answers every query on a bounded worker pool. Each worker writes
// only its own result slot.
func evalBatch(ctx context.Context, r *types.Registry, scope types.Scope, queries []batchQuery, jobs int) ([]batchResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]batchResult, len(queries))
	if len(queries) == 0 {
		return results, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(queries)))
	for i, q := range queries {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = evalQuery(r, scope, q)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func evalQuery(r *types.Registry, scope types.Scope, q batchQuery) batchResult {
	res := batchResult{Query: q, S: q.Src, T: q.Dst}
	src, err := r.Parse(q.Src, scope)
	if err != nil {
		res.Err = err
		return res
	}
	dst, err := r.Parse(q.Dst, scope)
	if err != nil {
		res.Err = err
		return res
	}
	res.S, res.T = r.String(src), r.String(dst)
	res.Conv, res.Err = r.CheckSubtype(src, dst)
	return res
}

// codeFor maps core errors to diagnostic codes.
func codeFor(err error) diag.Code {
	var (
		arity  *types.TypeArityError
		bound  *types.InvalidBoundError
		unres  *types.UnresolvedSymbolError
		syntax *typeexpr.SyntaxError
	)
	switch {
	case errors.As(err, &syntax):
		return diag.TypSyntax
	case errors.As(err, &arity):
		return diag.TypArity
	case errors.As(err, &bound):
		return diag.TypInvalidBound
	case errors.As(err, &unres):
		return diag.TypUnresolvedSymbol
	case errors.Is(err, types.ErrDepthExceeded):
		return diag.TypDepthExceeded
	case errors.Is(err, types.ErrNotClassType):
		return diag.TypNotClassType
	}
	return diag.UnknownCode
}

func renderBatch(w io.Writer, results []batchResult, width int) {
	header := [3]string{"LINE", "S", "T"}
	cols := [3]int{len(header[0]), len(header[1]), len(header[2])}
	rows := make([][3]string, len(results))
	for i, res := range results {
		rows[i] = [3]string{fmt.Sprintf("%d", res.Query.Line), res.S, res.T}
	}
	// the type columns share what is left after the line column and verdict
	typeWidth := 0
	if width > 0 {
		typeWidth = max((width-cols[0]-len("not a subtype")-6)/2, 8)
	}
	for i := range rows {
		rows[i][1], rows[i][2] = clip(rows[i][1], typeWidth), clip(rows[i][2], typeWidth)
		for c, cell := range rows[i] {
			cols[c] = max(cols[c], stringWidth(cell))
		}
	}
	fmt.Fprintf(w, "%s  %s  %s  %s\n", pad(header[0], cols[0]), pad(header[1], cols[1]), pad(header[2], cols[2]), "VERDICT")
	for i, res := range results {
		v := verdictNo.Sprint("error")
		if res.Err == nil {
			v = verdict(res.Conv)
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n", pad(rows[i][0], cols[0]), pad(rows[i][1], cols[1]), pad(rows[i][2], cols[2]), v)
	}
}

package infer

import (
	"fmt"
	"strings"

	"jtypes/internal/diag"
	"jtypes/internal/types"
)

// DiagLogger reports observations as diagnostics. Registry, when set, is
// used to render candidate signatures in notes.
type DiagLogger struct {
	Reporter diag.Reporter
	Registry *types.Registry
}

func (l DiagLogger) AmbiguityError(site Site, candidates []Candidate) {
	b := diag.ReportError(l.Reporter, diag.InfAmbiguousCall, site.Span,
		fmt.Sprintf("ambiguous call %s: %d candidates apply", site.Expr, len(candidates)))
	if l.Registry != nil {
		for _, c := range candidates {
			b.WithNote(site.Span, "candidate "+c.Signature(l.Registry))
		}
	}
	b.Emit()
}

func (l DiagLogger) NoCompileTimeDeclaration(site Site) {
	diag.ReportError(l.Reporter, diag.InfNoCompileTimeDecl, site.Span,
		"no compile-time declaration for "+site.Expr).Emit()
}

func (l DiagLogger) FallbackInvocation(site Site, reason string) {
	msg := "fallback invocation type for " + site.Expr
	if reason = strings.TrimSpace(reason); reason != "" {
		msg += ": " + reason
	}
	diag.ReportWarning(l.Reporter, diag.InfFallbackInvocation, site.Span, msg).Emit()
}

func (l DiagLogger) NoApplicableCandidates(site Site) {
	diag.ReportInfo(l.Reporter, diag.InfNoApplicableCandidate, site.Span,
		"no applicable candidates for "+site.Expr).Emit()
}

package infer

import (
	"context"
	"strconv"

	"jtypes/internal/trace"
	"jtypes/internal/types"
)

// Phase is the applicability phase a candidate was accepted in.
type Phase uint8

const (
	PhaseNone Phase = iota
	// PhaseStrict accepts arguments that are subtypes of the parameters.
	PhaseStrict
	// PhaseLoose also accepts unchecked conversions.
	PhaseLoose
)

func (p Phase) String() string {
	switch p {
	case PhaseStrict:
		return "strict"
	case PhaseLoose:
		return "loose"
	}
	return "none"
}

// Selection is the outcome of Select.
type Selection struct {
	Candidate Candidate
	Phase     Phase
	// Unchecked is set when the chosen candidate needs an unchecked
	// conversion for at least one argument.
	Unchecked bool
	OK        bool
}

// Selector picks the most specific applicable candidate for a list of
// argument types. Argument types are checked against parameter types as
// given; callers instantiate generic signatures before selection.
type Selector struct {
	Types *types.Registry
	Log   Logger
}

func (s Selector) log() Logger {
	if s.Log == nil {
		return Nop
	}
	return s.Log
}

// Select runs the strict phase, then the loose one. The first phase with
// any applicable candidate decides: a unique most specific candidate wins,
// otherwise the site is ambiguous.
func (s Selector) Select(ctx context.Context, site Site, candidates []Candidate, args []types.TypeID) Selection {
	sp, _ := trace.BeginContext(ctx, trace.ScopeQuery, "select")
	sp.WithExtra("site", site.Expr).WithExtra("candidates", strconv.Itoa(len(candidates)))
	out := s.selectPhases(site, candidates, args)
	sp.WithExtra("phase", out.Phase.String()).End(out.Candidate.Name)
	return out
}

func (s Selector) selectPhases(site Site, candidates []Candidate, args []types.TypeID) Selection {
	log := s.log()
	if len(candidates) == 0 {
		log.NoCompileTimeDeclaration(site)
		return Selection{}
	}
	for _, phase := range []Phase{PhaseStrict, PhaseLoose} {
		applicable := s.applicable(candidates, args, phase)
		if len(applicable) == 0 {
			continue
		}
		best := s.mostSpecific(applicable)
		if len(best) != 1 {
			log.AmbiguityError(site, best)
			log.NoCompileTimeDeclaration(site)
			return Selection{Phase: phase}
		}
		sel := Selection{Candidate: best[0], Phase: phase, OK: true}
		if phase == PhaseLoose {
			sel.Unchecked = true
			log.FallbackInvocation(site, "unchecked conversion in arguments of "+best[0].Signature(s.Types))
		}
		return sel
	}
	log.NoApplicableCandidates(site)
	log.NoCompileTimeDeclaration(site)
	return Selection{}
}

func (s Selector) applicable(candidates []Candidate, args []types.TypeID, phase Phase) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if len(c.Params) != len(args) {
			continue
		}
		ok := true
		for i, a := range args {
			if !s.accepts(a, c.Params[i], phase) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, c)
		}
	}
	return out
}

func (s Selector) accepts(arg, param types.TypeID, phase Phase) bool {
	conv := s.Types.Convertibility(arg, param)
	if phase == PhaseStrict {
		return conv.IsSubtype()
	}
	return conv.IsConvertible()
}

// mostSpecific keeps the candidates no other candidate is strictly more
// specific than.
func (s Selector) mostSpecific(candidates []Candidate) []Candidate {
	if len(candidates) < 2 {
		return candidates
	}
	var out []Candidate
	for i, c := range candidates {
		beaten := false
		for j, d := range candidates {
			if i != j && s.moreSpecific(d, c) && !s.moreSpecific(c, d) {
				beaten = true
				break
			}
		}
		if !beaten {
			out = append(out, c)
		}
	}
	return out
}

// moreSpecific reports whether every parameter of a is a subtype of the
// matching parameter of b.
func (s Selector) moreSpecific(a, b Candidate) bool {
	for i := range a.Params {
		if !s.Types.IsSubtype(a.Params[i], b.Params[i]) {
			return false
		}
	}
	return true
}

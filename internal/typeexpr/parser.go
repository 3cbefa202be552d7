package typeexpr

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError reports a malformed type expression.
type SyntaxError struct {
	Src string
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("typeexpr: %s at offset %d in %q", e.Msg, e.Pos, e.Src)
}

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokIdent
	tokLAngle
	tokRAngle
	tokComma
	tokDot
	tokQuestion
	tokAmp
	tokLBracket
	tokRBracket
)

type token struct {
	kind tokKind
	text string
	pos  int
}

type parser struct {
	src  string
	toks []token
	pos  int
}

// Parse parses a full type expression, including intersections.
func Parse(src string) (*Expr, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	e, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return e, nil
}

// MustParse is Parse for fixtures; it panics on malformed input.
func MustParse(src string) *Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

// ParseTypeParam parses "T", "T extends A" or "T extends A & B".
func ParseTypeParam(src string) (TypeParam, error) {
	p, err := newParser(src)
	if err != nil {
		return TypeParam{}, err
	}
	name := p.next()
	if name.kind != tokIdent || name.text == "extends" || name.text == "super" {
		return TypeParam{}, p.errorf(name.pos, "expected type parameter name")
	}
	tp := TypeParam{Name: name.text}
	if p.peek().kind == tokIdent && p.peek().text == "extends" {
		p.next()
		bound, err := p.parseType()
		if err != nil {
			return TypeParam{}, err
		}
		if bound.Kind == KindIntersection {
			tp.Bounds = bound.Members
		} else {
			tp.Bounds = []*Expr{bound}
		}
	}
	if err := p.expectEOF(); err != nil {
		return TypeParam{}, err
	}
	return tp, nil
}

func newParser(src string) (*parser, error) {
	p := &parser{src: src}
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
			continue
		case isIdentStart(r):
			start := i
			for i < len(src) {
				r, size = utf8.DecodeRuneInString(src[i:])
				if !isIdentPart(r) {
					break
				}
				i += size
			}
			p.toks = append(p.toks, token{kind: tokIdent, text: src[start:i], pos: start})
			continue
		}
		kind, ok := punct[r]
		if !ok {
			return nil, p.errorf(i, fmt.Sprintf("unexpected character %q", r))
		}
		p.toks = append(p.toks, token{kind: kind, text: string(r), pos: i})
		i += size
	}
	p.toks = append(p.toks, token{kind: tokEOF, pos: len(src)})
	return p, nil
}

var punct = map[rune]tokKind{
	'<': tokLAngle,
	'>': tokRAngle,
	',': tokComma,
	'.': tokDot,
	'?': tokQuestion,
	'&': tokAmp,
	'[': tokLBracket,
	']': tokRBracket,
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(pos int, msg string) error {
	return &SyntaxError{Src: p.src, Pos: pos, Msg: msg}
}

func (p *parser) expect(kind tokKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, p.errorf(t.pos, "expected "+what)
	}
	return t, nil
}

func (p *parser) expectEOF() error {
	if t := p.peek(); t.kind != tokEOF {
		return p.errorf(t.pos, fmt.Sprintf("unexpected %q", t.text))
	}
	return nil
}

func (p *parser) parseType() (*Expr, error) {
	first, err := p.parseMember()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokAmp {
		return first, nil
	}
	members := []*Expr{first}
	for p.peek().kind == tokAmp {
		amp := p.next()
		m, err := p.parseMember()
		if err != nil {
			return nil, err
		}
		if m.Kind == KindWildcard {
			return nil, p.errorf(amp.pos, "wildcard cannot be an intersection member")
		}
		members = append(members, m)
	}
	if first.Kind == KindWildcard {
		return nil, p.errorf(0, "wildcard cannot be an intersection member")
	}
	return &Expr{Kind: KindIntersection, Members: members}, nil
}

func (p *parser) parseMember() (*Expr, error) {
	if p.peek().kind == tokQuestion {
		return p.parseWildcard()
	}
	ref, err := p.parseReference()
	if err != nil {
		return nil, err
	}
	if err := p.parseDims(ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func (p *parser) parseWildcard() (*Expr, error) {
	p.next()
	w := &Expr{Kind: KindWildcard}
	t := p.peek()
	if t.kind != tokIdent || (t.text != "extends" && t.text != "super") {
		return w, nil
	}
	p.next()
	if t.text == "extends" {
		w.Bound = BoundExtends
	} else {
		w.Bound = BoundSuper
	}
	bound, err := p.parseReference()
	if err != nil {
		return nil, err
	}
	if err := p.parseDims(bound); err != nil {
		return nil, err
	}
	w.Elem = bound
	return w, nil
}

func (p *parser) parseReference() (*Expr, error) {
	id, err := p.expect(tokIdent, "type name")
	if err != nil {
		return nil, err
	}
	parts := []string{id.text}
	var outer *Expr
	for {
		if p.peek().kind == tokLAngle {
			e := &Expr{Kind: KindName, Name: strings.Join(parts, "."), Outer: outer}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			e.Args = args
			if p.peek().kind != tokDot {
				return e, nil
			}
			p.next()
			id, err := p.expect(tokIdent, "member type name")
			if err != nil {
				return nil, err
			}
			outer = e
			parts = []string{id.text}
			continue
		}
		if p.peek().kind != tokDot {
			break
		}
		p.next()
		id, err := p.expect(tokIdent, "name segment")
		if err != nil {
			return nil, err
		}
		parts = append(parts, id.text)
	}
	return &Expr{Kind: KindName, Name: strings.Join(parts, "."), Outer: outer}, nil
}

func (p *parser) parseArgs() ([]*Expr, error) {
	open := p.next()
	var args []*Expr
	for {
		arg, err := p.parseMember()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch t := p.next(); t.kind {
		case tokComma:
			continue
		case tokRAngle:
			return args, nil
		default:
			return nil, p.errorf(t.pos, fmt.Sprintf("unclosed type arguments opened at offset %d", open.pos))
		}
	}
}

func (p *parser) parseDims(e *Expr) error {
	for p.peek().kind == tokLBracket {
		p.next()
		if _, err := p.expect(tokRBracket, "']'"); err != nil {
			return err
		}
		e.Dims++
	}
	return nil
}

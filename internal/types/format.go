package types

import (
	"strings"

	"jtypes/internal/trace"
)

// String renders id with qualified class names, e.g.
// java.util.Map<java.lang.String, ? extends java.lang.Number>.
func (r *Registry) String(id TypeID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stringLocked(id, true)
}

// SimpleString renders id with simple class names.
func (r *Registry) SimpleString(id TypeID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stringLocked(id, false)
}

func (r *Registry) stringLocked(id TypeID, qualified bool) string {
	var sb strings.Builder
	r.writeLocked(&sb, id, qualified)
	return sb.String()
}

func (r *Registry) writeLocked(sb *strings.Builder, id TypeID, qualified bool) {
	t, ok := r.lookupLocked(id)
	if !ok {
		sb.WriteString("<invalid>")
		return
	}
	switch t.Kind {
	case KindPrimitive:
		sb.WriteString(t.Prim.String())
	case KindClass:
		info := r.classes[t.Payload]
		sym := r.syms[t.Symbol]
		name := r.names.MustLookup(sym.Name)
		if info.Outer != NoTypeID {
			r.writeLocked(sb, info.Outer, qualified)
			sb.WriteByte('.')
			name = simpleName(name)
		} else if !qualified {
			name = simpleName(name)
		}
		sb.WriteString(name)
		if len(info.Args) > 0 {
			sb.WriteByte('<')
			for i, a := range info.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				r.writeLocked(sb, a, qualified)
			}
			sb.WriteByte('>')
		}
	case KindArray:
		r.writeLocked(sb, t.Elem, qualified)
		for range t.Dims {
			sb.WriteString("[]")
		}
	case KindWildcard:
		sb.WriteByte('?')
		switch t.Bound {
		case BoundExtends:
			sb.WriteString(" extends ")
			r.writeLocked(sb, t.Elem, qualified)
		case BoundSuper:
			sb.WriteString(" super ")
			r.writeLocked(sb, t.Elem, qualified)
		case BoundUnbounded:
		}
	case KindTypeVar:
		info, _ := r.varLocked(id)
		sb.WriteString(r.names.MustLookup(info.Name))
	case KindIntersection:
		for i, m := range r.inters[t.Payload] {
			if i > 0 {
				sb.WriteString(" & ")
			}
			r.writeLocked(sb, m, qualified)
		}
	case KindNull:
		sb.WriteString("null")
	case KindError:
		sb.WriteString("<error>")
	case KindUnresolved:
		sb.WriteString("<unresolved>")
	case KindInvalid:
		sb.WriteString("<invalid>")
	}
}

func simpleName(name string) string {
	if i := strings.LastIndexAny(name, ".$"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func (r *Registry) traceCapture(from, to TypeID, why string) {
	if !r.traceEnabled() {
		return
	}
	trace.Point(r.tracer, trace.ScopeWalk, "capture:"+why, r.String(from)+" -> "+r.String(to))
}

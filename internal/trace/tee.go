package trace

import "errors"

type nopTracer struct{}

func (nopTracer) Emit(*Event) {}
func (nopTracer) Flush() error { return nil }
func (nopTracer) Close() error { return nil }
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop drops every event. Registries without a tracer use it.
var Nop Tracer = nopTracer{}

// tee copies each event to several tracers. Its level is the most verbose
// of its members so that spans are opened whenever any member wants them;
// each member still applies its own filter.
type tee struct {
	tracers []Tracer
	level   Level
}

// Tee combines tracers. Disabled members are dropped; no members yields
// Nop and a single member is returned as is.
func Tee(tracers ...Tracer) Tracer {
	var live []Tracer
	level := LevelOff
	for _, t := range tracers {
		if t == nil || !t.Enabled() {
			continue
		}
		live = append(live, t)
		level = max(level, t.Level())
	}
	switch len(live) {
	case 0:
		return Nop
	case 1:
		return live[0]
	}
	return &tee{tracers: live, level: level}
}

// Emit hands every member its own copy: stream tracers stamp fields in place.
func (t *tee) Emit(ev *Event) {
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *tee) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

func (t *tee) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

func (t *tee) Level() Level { return t.level }
func (t *tee) Enabled() bool { return true }

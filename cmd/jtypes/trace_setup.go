package main

import (
	"fmt"

	"jtypes/internal/config"
	"jtypes/internal/trace"
)

// setupTracing creates the tracer described by the configuration. Level off
// yields the nop tracer.
func setupTracing(cfg config.Config) (trace.Tracer, error) {
	tc := cfg.TraceConfig()
	if tc.Level == trace.LevelOff {
		return trace.Nop, nil
	}
	tracer, err := trace.New(tc)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	return tracer, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jtypes/internal/classpath"
	"jtypes/internal/config"
	"jtypes/internal/symbols"
	"jtypes/internal/testkit"
	"jtypes/internal/trace"
	"jtypes/internal/types"
)

// session is the state shared by the query commands of one invocation.
type session struct {
	cfg      config.Config
	tracer   trace.Tracer
	registry *types.Registry
	table    *symbols.Table
	color    bool
}

type sessionKey struct{}

// sessionFrom returns the session opened by the root pre-run hook.
func sessionFrom(cmd *cobra.Command) (*session, error) {
	s, ok := cmd.Context().Value(sessionKey{}).(*session)
	if !ok || s == nil {
		return nil, errors.New("no session: command must run under the jtypes root")
	}
	return s, nil
}

// needsRegistry lists the commands that do not load a classpath.
func needsRegistry(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["registry"] == "none" {
			return false
		}
	}
	return true
}

func openSession(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if v, _ := flags.GetBool("strict-arity"); v {
		cfg.Session.StrictArity = true
	}
	if v, _ := flags.GetInt("max-depth"); v > 0 {
		cfg.Session.MaxDepth = v
	}
	if v, _ := flags.GetString("trace-level"); v != "" {
		cfg.Trace.Level = v
	}
	if v, _ := flags.GetString("trace-mode"); v != "" {
		cfg.Trace.Mode = v
	}
	if v, _ := flags.GetString("trace"); v != "" {
		cfg.Trace.Output = v
		if cfg.Trace.Level == "off" {
			cfg.Trace.Level = "detail"
		}
	}
	if extra, _ := flags.GetStringArray("classpath"); len(extra) > 0 {
		cfg.Classpath.Manifests = append(cfg.Classpath.Manifests, extra...)
	}
	if v, _ := flags.GetBool("no-bootstrap"); v {
		cfg.Classpath.Bootstrap = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	useColor, err := colorMode(cmd)
	if err != nil {
		return err
	}
	color.NoColor = !useColor

	s := &session{cfg: cfg, tracer: trace.Nop, color: useColor}
	tracer, err := setupTracing(cfg)
	if err != nil {
		return err
	}
	s.tracer = tracer

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = trace.WithTracer(ctx, tracer)
	if needsRegistry(cmd) {
		var sp *trace.Span
		sp, ctx = trace.BeginContext(ctx, trace.ScopeSession, "load-classpath")
		sp.WithExtra("manifests", strconv.Itoa(len(cfg.Classpath.Manifests)))
		s.table, s.registry, err = buildRegistry(cfg, tracer)
		sp.End("")
		if err != nil {
			_ = tracer.Close()
			return err
		}
	}
	ctx = context.WithValue(ctx, sessionKey{}, s)
	cmd.SetContext(ctx)
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	return config.Discover(wd)
}

func buildRegistry(cfg config.Config, tracer trace.Tracer) (*symbols.Table, *types.Registry, error) {
	opts := classpath.Options{Bootstrap: cfg.Classpath.Bootstrap}
	if cfg.Classpath.Cache {
		cache, err := classpath.OpenCache("jtypes")
		if err != nil {
			trace.Error(tracer, "classpath-cache", err.Error())
		} else {
			opts.Cache = cache
		}
	}
	tab, err := classpath.Load(cfg.Classpath.Manifests, opts)
	if err != nil {
		return nil, nil, err
	}
	r, err := types.NewRegistry(tab, cfg.RegistryOptions(tracer))
	if err != nil {
		return nil, nil, err
	}
	return tab, r, nil
}

func closeSession(cmd *cobra.Command, _ []string) error {
	s, err := sessionFrom(cmd)
	if err != nil {
		return nil
	}
	var errs []error
	if s.cfg.Session.Debug && s.registry != nil {
		if err := testkit.CheckRegistryInvariants(s.registry); err != nil {
			errs = append(errs, fmt.Errorf("registry invariants: %w", err))
		}
	}
	if ring, ok := trace.Ring(s.tracer); ok && s.cfg.Trace.Mode == "ring" {
		if err := ring.Dump(cmd.ErrOrStderr(), trace.FormatText); err != nil {
			errs = append(errs, fmt.Errorf("trace: dump: %w", err))
		}
	}
	// Close flushes buffered stream output.
	if err := s.tracer.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
	}
	return errors.Join(errs...)
}

// colorMode resolves --color against the terminal state of stdout.
func colorMode(cmd *cobra.Command) (bool, error) {
	flag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(flag) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto", "":
		return isTerminal(os.Stdout), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", flag)
}

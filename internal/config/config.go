// Package config loads jtypes.toml, the session configuration shared by the
// command line and embedding tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"jtypes/internal/trace"
	"jtypes/internal/types"
)

// FileName is the configuration file looked up by Find.
const FileName = "jtypes.toml"

// Session tunes the type registry.
type Session struct {
	StrictArity bool `toml:"strict_arity"`
	MaxDepth    int  `toml:"max_depth"`
	Debug       bool `toml:"debug"`
}

// Trace selects the tracer. Empty strings mean the defaults.
type Trace struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Output string `toml:"output"`
	Format string `toml:"format"`
	Ring   int    `toml:"ring_size"`
}

// Classpath lists declaration manifests. Relative paths are resolved against
// the directory of the configuration file.
type Classpath struct {
	Manifests []string `toml:"manifests"`
	Bootstrap bool     `toml:"bootstrap"`
	Cache     bool     `toml:"cache"`
}

// Config is the decoded jtypes.toml.
type Config struct {
	Session   Session   `toml:"session"`
	Trace     Trace     `toml:"trace"`
	Classpath Classpath `toml:"classpath"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

var (
	// ErrUnknownKey reports a key the decoder did not consume.
	ErrUnknownKey = errors.New("unknown configuration key")
	// ErrInvalid reports a value outside its domain.
	ErrInvalid = errors.New("invalid configuration value")
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Session: Session{MaxDepth: types.DefaultMaxDepth},
		Trace: Trace{
			Level:  "off",
			Mode:   "stream",
			Output: "stderr",
			Format: "auto",
			Ring:   trace.DefaultRingSize,
		},
		Classpath: Classpath{Bootstrap: true},
	}
}

// Load decodes path over the defaults. Keys missing from the file keep their
// default value; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	if meta.IsDefined("session", "max_depth") && cfg.Session.MaxDepth <= 0 {
		return Config{}, fmt.Errorf("%s: %w: session.max_depth must be positive", path, ErrInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	dir := filepath.Dir(path)
	for i, m := range cfg.Classpath.Manifests {
		if !filepath.IsAbs(m) {
			cfg.Classpath.Manifests[i] = filepath.Join(dir, m)
		}
	}
	return cfg, nil
}

// Validate checks the trace settings and the depth guard.
func (c Config) Validate() error {
	if c.Session.MaxDepth < 0 {
		return fmt.Errorf("%w: session.max_depth must not be negative", ErrInvalid)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("%w: trace.level: %v", ErrInvalid, err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("%w: trace.mode: %v", ErrInvalid, err)
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		return fmt.Errorf("%w: trace.format: %v", ErrInvalid, err)
	}
	if c.Trace.Ring < 0 {
		return fmt.Errorf("%w: trace.ring_size must not be negative", ErrInvalid)
	}
	return nil
}

// Find walks up from startDir to locate jtypes.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest jtypes.toml above startDir, or the defaults.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// RegistryOptions maps the session section onto registry options.
func (c Config) RegistryOptions(t trace.Tracer) types.Options {
	return types.Options{
		StrictArity: c.Session.StrictArity,
		MaxDepth:    c.Session.MaxDepth,
		Tracer:      t,
	}
}

// TraceConfig maps the trace section onto a tracer configuration. Validate
// must have succeeded.
func (c Config) TraceConfig() trace.Config {
	level, _ := trace.ParseLevel(c.Trace.Level)
	mode, _ := trace.ParseMode(c.Trace.Mode)
	format, _ := trace.ParseFormat(c.Trace.Format)
	out := trace.Config{
		Level:    level,
		Mode:     mode,
		Format:   format,
		RingSize: c.Trace.Ring,
	}
	switch c.Trace.Output {
	case "", "stderr":
	default:
		out.OutputPath = c.Trace.Output
	}
	return out
}

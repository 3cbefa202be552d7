package classpath

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"

	"jtypes/internal/symbols"
)

// Extensions recognised by LoadFile.
const (
	ExtTOML   = ".toml"
	ExtBinary = ".jtc"
)

// DecodeTOML reads a TOML manifest. Keys the manifest layout does not know
// are rejected, so that a misspelt "implements" does not silently vanish.
func DecodeTOML(r io.Reader, name string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.NewDecoder(r).Decode(&m)
	if err != nil {
		return nil, fmt.Errorf("classpath: %s: %w", name, err)
	}
	if !meta.IsDefined("class") {
		return nil, fmt.Errorf("classpath: %s: no [[class]] entries", name)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("classpath: %s: unknown keys %s", name, strings.Join(keys, ", "))
	}
	if m.Name == "" {
		m.Name = name
	}
	return &m, nil
}

// DecodeBinary reads a MessagePack manifest written by EncodeBinary.
func DecodeBinary(r io.Reader, name string) (*Manifest, error) {
	var m Manifest
	if err := msgpack.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("classpath: %s: %w", name, err)
	}
	if m.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: %s has schema %d", ErrSchema, name, m.Schema)
	}
	if m.Name == "" {
		m.Name = name
	}
	return &m, nil
}

// EncodeBinary writes m as MessagePack, stamping the schema version.
func EncodeBinary(w io.Writer, m *Manifest) error {
	out := *m
	out.Schema = SchemaVersion
	return msgpack.NewEncoder(w).Encode(&out)
}

// LoadFile decodes a manifest, picking the encoding from the extension.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("classpath: %w", err)
	}
	return decodeBytes(data, path)
}

func decodeBytes(data []byte, path string) (*Manifest, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtTOML:
		return DecodeTOML(bytes.NewReader(data), path)
	case ExtBinary, ".msgpack":
		return DecodeBinary(bytes.NewReader(data), path)
	default:
		return nil, fmt.Errorf("classpath: %s: unknown manifest extension", path)
	}
}

// Compile converts a TOML manifest into its binary form.
func Compile(src, dst string) error {
	m, err := LoadFile(src)
	if err != nil {
		return err
	}
	if _, err := m.Table(); err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("classpath: %w", err)
	}
	if err := EncodeBinary(f, m); err != nil {
		_ = f.Close()
		return fmt.Errorf("classpath: %s: %w", dst, err)
	}
	return f.Close()
}

// Options select what Load puts on the classpath.
type Options struct {
	// Bootstrap adds the embedded core library first.
	Bootstrap bool
	// Cache, when set, memoises decoded TOML manifests.
	Cache *Cache
}

// Load merges the manifests at paths into one validated table. Later
// manifests may not redeclare a name.
func Load(paths []string, opts Options) (*symbols.Table, error) {
	t := symbols.NewTable(symbols.Hints{Classes: 64})
	if opts.Bootstrap {
		m, err := bootstrap()
		if err != nil {
			return nil, err
		}
		if err := m.AddTo(t); err != nil {
			return nil, err
		}
	}
	for _, p := range paths {
		m, err := opts.Cache.Load(p)
		if err != nil {
			return nil, err
		}
		if err := m.AddTo(t); err != nil {
			return nil, err
		}
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("classpath: %w", err)
	}
	return t, nil
}

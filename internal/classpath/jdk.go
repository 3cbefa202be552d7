package classpath

import (
	"bytes"
	_ "embed"
	"sync"

	"jtypes/internal/symbols"
)

//go:embed jdk.toml
var jdkManifest []byte

var bootstrap = sync.OnceValues(func() (*Manifest, error) {
	return DecodeTOML(bytes.NewReader(jdkManifest), "jdk")
})

// JDK returns a fresh table holding the embedded core library.
func JDK() (*symbols.Table, error) {
	m, err := bootstrap()
	if err != nil {
		return nil, err
	}
	return m.Table()
}

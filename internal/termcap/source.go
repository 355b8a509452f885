package termcap

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed termcap.src
var bundled []byte

// Bundled returns the capability source compiled into the binary.
func Bundled() []byte {
	return bundled
}

// LoadSource reads a capability source from path. An empty path selects the
// bundled source.
func LoadSource(path string) ([]byte, error) {
	if path == "" {
		return bundled, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read capability source: %w", err)
	}
	return data, nil
}

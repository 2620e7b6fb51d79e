package knowledge

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// platformsFile is the on-disk layout of a custom platform table.
//
//	platforms:
//	  - name: PADARIA REAL
//	    label: Padaria Real
//	    pattern: '\bPADARIA\s*REAL\b'
//	    category: alimentacao
//	    subcategory: alimentacao-padaria
type platformsFile struct {
	Platforms []Platform `yaml:"platforms"`
}

// LoadPlatforms decodes a YAML platform table, keeping file order.
func LoadPlatforms(r io.Reader) ([]Platform, error) {
	var f platformsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode platforms: %w", err)
	}
	for i, p := range f.Platforms {
		if p.Name == "" || p.Pattern == "" {
			return nil, fmt.Errorf("platform at index %d: name and pattern are required", i)
		}
	}
	return f.Platforms, nil
}

// NewWithFile builds a knowledge base whose custom platforms from path are
// consulted before the built-in table. An empty path yields the defaults.
func NewWithFile(path string) (*Base, error) {
	if path == "" {
		return New(DefaultPlatforms())
	}

	f, err := os.Open(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open platforms file: %w", err)
	}
	defer func() { _ = f.Close() }()

	custom, err := LoadPlatforms(f)
	if err != nil {
		return nil, err
	}

	platforms := make([]Platform, 0, len(custom)+len(DefaultPlatforms()))
	platforms = append(platforms, custom...)
	platforms = append(platforms, DefaultPlatforms()...)
	return New(platforms)
}

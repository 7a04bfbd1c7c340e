package consent

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type manifestDocument struct {
	Manifest Manifest `yaml:"cookie-manifest"`
}

// LoadManifest reads and validates a manifest file. YAML and JSON are both
// accepted (see ParseManifest).
func LoadManifest(fsys afero.Fs, path string) (Manifest, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return ParseManifest(data)
}

// ParseManifest decodes a manifest given either as a top-level list of
// categories or as an object with a "cookie-manifest" list, then validates it.
// An empty document is an empty manifest.
func ParseManifest(data []byte) (Manifest, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if len(doc.Content) == 0 {
		return Manifest{}, nil
	}

	root := doc.Content[0]
	var m Manifest
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
	case yaml.MappingNode:
		var wrapped manifestDocument
		if err := root.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
		m = wrapped.Manifest
	default:
		return nil, fmt.Errorf("%w: expected a list of categories", ErrInvalidManifest)
	}

	if m == nil {
		m = Manifest{}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

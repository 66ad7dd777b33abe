// Package epochs loads the per-package epoch table. Epochs are rare and an
// absent entry always means epoch 0, but a malformed file is fatal: silently
// rendering epoch 0 everywhere would corrupt every versioned dependency.
package epochs

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidEpochFile is returned when an epoch file exists but cannot be
// parsed or contains an invalid epoch value.
var ErrInvalidEpochFile = errors.New("invalid epoch file")

// Table maps package names (case-sensitive, exact match) to epochs.
type Table map[string]int

// epoch files are YAML documents with a single top-level "epochs" mapping:
//
//	epochs:
//	  python-oslo.config: 1
type epochFile struct {
	Epochs map[string]int `yaml:"epochs"`
}

// Load reads an epoch table from path. An empty path yields an empty table,
// not an error.
func Load(path string) (Table, error) {
	if path == "" {
		return Table{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading epoch file: %w", err)
	}

	var parsed epochFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidEpochFile, path, err)
	}
	if parsed.Epochs == nil {
		return nil, fmt.Errorf("%w: %s: missing 'epochs' mapping", ErrInvalidEpochFile, path)
	}
	for name, epoch := range parsed.Epochs {
		if epoch < 0 {
			return nil, fmt.Errorf("%w: %s: negative epoch %d for %q",
				ErrInvalidEpochFile, path, epoch, name)
		}
	}

	return Table(parsed.Epochs), nil
}

// Lookup returns the epoch for name, defaulting to 0. It never fails.
func (t Table) Lookup(name string) int {
	return t[name]
}

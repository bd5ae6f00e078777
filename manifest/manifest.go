// Package manifest handles forthdb.toml runtime configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a forthdb.toml configuration.
type Manifest struct {
	Database Database `toml:"database"`
	VM       VM       `toml:"vm"`

	// Dir is the directory the manifest was loaded from (set at load time).
	Dir string `toml:"-"`
}

// Database configures the backing engine.
type Database struct {
	Path   string `toml:"path"`
	Engine string `toml:"engine"`
}

// VM configures interpreter limits.
type VM struct {
	StackSize int `toml:"stack-size"`
}

// Default returns the configuration used when no forthdb.toml exists.
func Default() *Manifest {
	return &Manifest{
		Database: Database{Path: "forth.db", Engine: "sqlite"},
		VM:       VM{StackSize: 256},
	}
}

// Load parses forthdb.toml from the given directory. A missing file is not
// an error: the defaults apply.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "forthdb.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m := Default()
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	if m.Database.Path == "" {
		m.Database.Path = "forth.db"
	}
	if m.Database.Engine == "" {
		m.Database.Engine = "sqlite"
	}
	if m.VM.StackSize <= 0 {
		m.VM.StackSize = 256
	}
	return m, nil
}

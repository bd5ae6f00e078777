package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	m, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "forth.db", m.Database.Path)
	require.Equal(t, "sqlite", m.Database.Engine)
	require.Equal(t, 256, m.VM.StackSize)
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	contents := `
[database]
path = "words.db"
engine = "duckdb"

[vm]
stack-size = 64
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "forthdb.toml"), []byte(contents), 0o644))

	m, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "words.db", m.Database.Path)
	require.Equal(t, "duckdb", m.Database.Engine)
	require.Equal(t, 64, m.VM.StackSize)
	require.NotEmpty(t, m.Dir)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	contents := `
[database]
path = "only-path.db"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "forthdb.toml"), []byte(contents), 0o644))

	m, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "only-path.db", m.Database.Path)
	require.Equal(t, "sqlite", m.Database.Engine)
	require.Equal(t, 256, m.VM.StackSize)
}

func TestLoadBadToml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "forthdb.toml"), []byte("[database\n"), 0o644))
	_, err := Load(dir)
	require.Error(t, err)
}

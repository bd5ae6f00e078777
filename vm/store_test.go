package vm

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(SQLiteDialect, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreSaveLoad(t *testing.T) {
	s := openTestStore(t)

	p := NewProgram()
	p.Emit(OpDup, 0, 0, 0)
	p.Emit(OpMultiply, 0, 0, 0)
	p.Emit(OpReturn, 0, 0, 0)

	require.NoError(t, s.Save("square", p))

	got, err := s.Load("square")
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestStoreLoadMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Load("nope")
	require.ErrorIs(t, err, ErrUnknownWord)
}

func TestStoreSaveOverwrites(t *testing.T) {
	s := openTestStore(t)

	old := NewProgram()
	old.Emit(OpInteger, 1, 0, 0)
	old.Emit(OpAdd, 0, 0, 0)
	old.Emit(OpReturn, 0, 0, 0)
	require.NoError(t, s.Save("inc", old))

	replacement := NewProgram()
	replacement.Emit(OpInteger, 2, 0, 0)
	replacement.Emit(OpAdd, 0, 0, 0)
	replacement.Emit(OpReturn, 0, 0, 0)
	require.NoError(t, s.Save("inc", replacement))

	// Overwrite semantics: exactly one row per name, holding the newest.
	words, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, words, 1)
	require.Equal(t, "inc", words[0].Name)
	require.Equal(t, replacement, words[0].Program)
}

func TestStoreLoadAllNameOrder(t *testing.T) {
	s := openTestStore(t)

	p := NewProgram()
	p.Emit(OpInteger, 1, 0, 0)
	p.Emit(OpReturn, 0, 0, 0)
	for _, name := range []string{"zebra", "apple", "mango"} {
		require.NoError(t, s.Save(name, p))
	}

	words, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, words, 3)
	require.Equal(t, "apple", words[0].Name)
	require.Equal(t, "mango", words[1].Name)
	require.Equal(t, "zebra", words[2].Name)
}

func TestStoreLoadAllSkipsCorruptBlob(t *testing.T) {
	s := openTestStore(t)

	p := NewProgram()
	p.Emit(OpInteger, 7, 0, 0)
	p.Emit(OpReturn, 0, 0, 0)
	require.NoError(t, s.Save("good", p))

	_, err := s.DB().Exec(SQLiteDialect.UpsertSQL, "broken", []byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(t, err)

	words, err := s.LoadAll()
	require.NoError(t, err, "one corrupt blob must not abort the load")
	require.Len(t, words, 1)
	require.Equal(t, "good", words[0].Name)
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forth.db")

	s, err := OpenStore(SQLiteDialect, path)
	require.NoError(t, err)
	p := NewProgram()
	p.Emit(OpInteger, 3, 0, 0)
	p.Emit(OpReturn, 0, 0, 0)
	require.NoError(t, s.Save("three", p))
	require.NoError(t, s.Close())

	s, err = OpenStore(SQLiteDialect, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load("three")
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestOpenStoreBadPath(t *testing.T) {
	_, err := OpenStore(SQLiteDialect, filepath.Join(t.TempDir(), "no", "such", "dir", "x.db"))
	require.ErrorIs(t, err, ErrBackingStore)
}

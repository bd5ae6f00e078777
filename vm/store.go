package vm

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/tliron/commonlog"
)

// ---------------------------------------------------------------------------
// Persistence store
// ---------------------------------------------------------------------------

const createWordsTable = `CREATE TABLE IF NOT EXISTS forth_words (
	name TEXT PRIMARY KEY,
	bytecode BLOB
)`

// Store holds the single backing-engine connection for the VM's lifetime.
// It both persists compiled words and hosts their prepared statements.
type Store struct {
	db  *sql.DB
	d   Dialect
	log commonlog.Logger
}

// StoredWord is one persisted definition, already deserialized.
type StoredWord struct {
	Name    string
	Program *Program
}

// OpenStore opens the backing engine at path and ensures the words table
// exists. Failure here is fatal to the VM; the handle is released before
// returning an error.
func OpenStore(d Dialect, path string) (*Store, error) {
	db, err := sql.Open(d.Driver, path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s database %q: %v", ErrBackingStore, d.Name, path, err)
	}
	// The VM is single-threaded and in-memory databases are per
	// connection, so exactly one connection must be used.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: opening %s database %q: %v", ErrBackingStore, d.Name, path, err)
	}
	if _, err := db.Exec(createWordsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: creating words table: %v", ErrBackingStore, err)
	}

	return &Store{db: db, d: d, log: commonlog.GetLogger("forthdb.store")}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the connection so compiled words can prepare statements on it.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Save serializes prog and upserts it keyed by name. Unlike in-memory
// shadowing, persistence overwrites: one row per name.
func (s *Store) Save(name string, prog *Program) error {
	data, err := MarshalProgram(prog)
	if err != nil {
		return fmt.Errorf("%w: serializing %q: %v", ErrBackingStore, name, err)
	}
	if _, err := s.db.Exec(s.d.UpsertSQL, name, data); err != nil {
		return fmt.Errorf("%w: saving %q: %v", ErrBackingStore, name, err)
	}
	return nil
}

// Load fetches and deserializes one word.
func (s *Store) Load(name string) (*Program, error) {
	var data []byte
	err := s.db.QueryRow("SELECT bytecode FROM forth_words WHERE name = ?", name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWord, name)
		}
		return nil, fmt.Errorf("%w: loading %q: %v", ErrBackingStore, name, err)
	}
	prog, err := UnmarshalProgram(data)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", name, err)
	}
	return prog, nil
}

// LoadAll enumerates every stored word in name order. A blob that fails to
// deserialize is skipped with a warning; the rest still load.
func (s *Store) LoadAll() ([]StoredWord, error) {
	rows, err := s.db.Query("SELECT name, bytecode FROM forth_words ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("%w: enumerating words: %v", ErrBackingStore, err)
	}
	defer rows.Close()

	var words []StoredWord
	for rows.Next() {
		var name string
		var data []byte
		if err := rows.Scan(&name, &data); err != nil {
			return nil, fmt.Errorf("%w: scanning word row: %v", ErrBackingStore, err)
		}
		prog, err := UnmarshalProgram(data)
		if err != nil {
			s.log.Warningf("skipping word %q: %s", name, err.Error())
			continue
		}
		words = append(words, StoredWord{Name: name, Program: prog})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: enumerating words: %v", ErrBackingStore, err)
	}
	return words, nil
}

package vm

import (
	"fmt"

	_ "github.com/marcboeker/go-duckdb" // duckdb database/sql driver
	_ "modernc.org/sqlite"              // sqlite database/sql driver
)

// Dialect pins the engine-specific corners of the translated SQL. Numeric
// semantics are integer-only with truncating division, so each engine must
// supply whatever operator spelling gives that result.
type Dialect struct {
	Name   string
	Driver string

	// Placeholder renders the n-th (1-based) bound parameter. Numbered
	// placeholders are required because one parameter may appear in
	// several expressions (dup).
	Placeholder func(n int) string

	// Div renders truncating integer division of a by b.
	Div func(a, b string) string

	// PrintExpr renders x as decimal text with a trailing space.
	PrintExpr func(x string) string

	// CharExpr renders x as the character with that code point.
	CharExpr func(x string) string

	// UpsertSQL is the overwrite-by-name statement for the words table.
	UpsertSQL string
}

// SQLiteDialect is the default backing engine. Integer `/` already
// truncates on SQLite when both operands are integers.
var SQLiteDialect = Dialect{
	Name:        "sqlite",
	Driver:      "sqlite",
	Placeholder: func(n int) string { return fmt.Sprintf("?%d", n) },
	Div:         func(a, b string) string { return fmt.Sprintf("(%s / %s)", a, b) },
	PrintExpr:   func(x string) string { return fmt.Sprintf("printf('%%d ', %s)", x) },
	CharExpr:    func(x string) string { return fmt.Sprintf("char(%s)", x) },
	UpsertSQL:   "INSERT OR REPLACE INTO forth_words (name, bytecode) VALUES (?1, ?2)",
}

// DuckDBDialect is the alternate engine. DuckDB's `/` is float division;
// `//` is its integer division.
var DuckDBDialect = Dialect{
	Name:        "duckdb",
	Driver:      "duckdb",
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	Div:         func(a, b string) string { return fmt.Sprintf("(%s // %s)", a, b) },
	PrintExpr:   func(x string) string { return fmt.Sprintf("printf('%%d ', %s)", x) },
	CharExpr:    func(x string) string { return fmt.Sprintf("chr(%s)", x) },
	UpsertSQL:   "INSERT OR REPLACE INTO forth_words (name, bytecode) VALUES ($1, $2)",
}

// DialectFor maps a configured engine name to its dialect.
func DialectFor(engine string) (Dialect, error) {
	switch engine {
	case "", "sqlite":
		return SQLiteDialect, nil
	case "duckdb":
		return DuckDBDialect, nil
	default:
		return Dialect{}, fmt.Errorf("unknown engine %q (want sqlite or duckdb)", engine)
	}
}

package vm

import (
	"database/sql"
	"fmt"
	"io"
)

// CompiledWord is a colon definition after translation: the instruction
// list it was compiled from, the execution plan, and the reusable prepared
// statement that actually runs it.
type CompiledWord struct {
	Name    string
	Program *Program
	Plan    *Plan

	stmt *sql.Stmt
}

// newCompiledWord translates prog and prepares its statement on db. Any
// failure here is a compile-translation failure: no word comes to exist.
func newCompiledWord(name string, prog *Program, db *sql.DB, d Dialect) (*CompiledWord, error) {
	plan, err := Translate(prog, d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	stmt, err := db.Prepare(plan.SQL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: preparing %q: %v", name, ErrTranslate, plan.SQL, err)
	}
	return &CompiledWord{Name: name, Program: prog, Plan: plan, stmt: stmt}, nil
}

// Run binds the word's parameters by popping the data stack, steps the
// prepared statement once, writes output columns to out, and pushes result
// columns back. The statement is reusable immediately afterwards.
func (cw *CompiledWord) Run(stack *Stack, out io.Writer) error {
	args := make([]any, cw.Plan.NumArgs)
	for _, argIdx := range cw.Plan.Pops {
		v, err := stack.Pop()
		if err != nil {
			return fmt.Errorf("%w in %s", err, cw.Name)
		}
		if argIdx > 0 {
			args[argIdx-1] = v
		}
	}

	dests := make([]any, len(cw.Plan.Cols))
	for i, kind := range cw.Plan.Cols {
		if kind == colOutput {
			dests[i] = new(sql.NullString)
		} else {
			dests[i] = new(sql.NullInt64)
		}
	}

	if err := cw.stmt.QueryRow(args...).Scan(dests...); err != nil {
		return fmt.Errorf("%w: executing %s: %v", ErrBackingStore, cw.Name, err)
	}

	for i, kind := range cw.Plan.Cols {
		if kind == colOutput {
			s := dests[i].(*sql.NullString)
			// A NULL column can only come from integer division by
			// zero inside the statement.
			if !s.Valid {
				return fmt.Errorf("%w in %s", ErrDivisionByZero, cw.Name)
			}
			if _, err := io.WriteString(out, s.String); err != nil {
				return err
			}
			continue
		}
		v := dests[i].(*sql.NullInt64)
		if !v.Valid {
			return fmt.Errorf("%w in %s", ErrDivisionByZero, cw.Name)
		}
		if err := stack.Push(v.Int64); err != nil {
			return fmt.Errorf("%w in %s", err, cw.Name)
		}
	}
	return nil
}

// Close releases the prepared statement.
func (cw *CompiledWord) Close() error {
	if cw.stmt == nil {
		return nil
	}
	return cw.stmt.Close()
}

package vm

import (
	"fmt"
	"strconv"
)

// ---------------------------------------------------------------------------
// Word compiler
// ---------------------------------------------------------------------------

// compileState tracks where the VM is between Interpreting and Compiling.
// wantName is the one-token window right after `:`.
type compileState uint8

const (
	stateInterpreting compileState = iota
	stateWantName
	stateCompiling
)

// compiler is the definition-in-progress. The program is exclusively owned
// here while accumulating; on success ownership passes to the new word and
// the store, on failure it is discarded.
type compiler struct {
	state compileState
	name  string
	prog  *Program
}

func (c *compiler) reset() {
	c.state = stateInterpreting
	c.name = ""
	c.prog = nil
}

// startDefinition handles `:`. Nested definitions are not supported.
func (vm *VM) startDefinition() error {
	if vm.comp.state != stateInterpreting {
		vm.comp.reset()
		return fmt.Errorf("%w: nested definition", ErrTranslate)
	}
	vm.comp.state = stateWantName
	return nil
}

// compileToken routes one token while a definition is open.
func (vm *VM) compileToken(tok string) error {
	c := &vm.comp

	if c.state == stateWantName {
		if _, err := strconv.ParseInt(tok, 10, 64); err == nil {
			c.reset()
			return fmt.Errorf("%w: numeric word name %q", ErrTranslate, tok)
		}
		c.name = tok
		c.prog = NewProgram()
		c.state = stateCompiling
		return nil
	}

	if tok == ";" {
		return vm.endDefinition()
	}

	if v, err := strconv.ParseInt(tok, 10, 64); err == nil {
		c.prog.Emit(OpInteger, v, 0, 0)
		return nil
	}

	if w, ok := vm.dict.Find(tok); ok {
		switch w.Kind {
		case WordImmediate:
			return vm.callPrimitive(w.Prim)
		case WordPrimitive:
			if op, ok := opcodeForPrim(w.Prim); ok {
				c.prog.Emit(op, 0, 0, 0)
				return nil
			}
		}
	}

	// Unknown names and compiled words alike become an inert marker;
	// this compiler does not compose nested definitions.
	c.prog.Emit(OpCallWord, 0, 0, 0)
	return nil
}

// endDefinition translates the accumulated program, persists it, and
// registers the new word. Order matters: nothing is registered unless both
// translation and the save succeed, and a failed definition leaves the VM
// interpreting with no trace of the word.
func (vm *VM) endDefinition() error {
	c := &vm.comp
	name, prog := c.name, c.prog
	c.reset()

	prog.Emit(OpReturn, 0, 0, 0)

	cw, err := newCompiledWord(name, prog, vm.store.DB(), vm.dialect)
	if err != nil {
		return err
	}
	if err := vm.store.Save(name, prog); err != nil {
		cw.Close()
		return err
	}
	vm.dict.Register(Word{Name: name, Kind: WordCompiled, Compiled: cw})
	vm.log.Debugf("compiled word %q: %s", name, cw.Plan.SQL)
	return nil
}

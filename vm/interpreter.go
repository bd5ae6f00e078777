package vm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Execution engine
// ---------------------------------------------------------------------------

// tokenize splits a line on whitespace. A token beginning with `\` starts
// a comment that consumes the remainder of the line.
func tokenize(line string) []string {
	fields := strings.Fields(line)
	for i, f := range fields {
		if strings.HasPrefix(f, `\`) {
			return fields[:i]
		}
	}
	return fields
}

// nextToken advances the line cursor. Immediates like `(` use it to
// consume tokens out of band.
func (vm *VM) nextToken() (string, bool) {
	if vm.tpos >= len(vm.tokens) {
		return "", false
	}
	tok := vm.tokens[vm.tpos]
	vm.tpos++
	return tok, true
}

// EvalLine processes one source line token by token. Errors are collected
// per token and joined; a failing token never aborts the rest of the line.
// Compilation state carries across lines, so a definition may span several
// calls.
func (vm *VM) EvalLine(line string) error {
	vm.tokens = tokenize(line)
	vm.tpos = 0

	var errs []error
	for {
		tok, ok := vm.nextToken()
		if !ok {
			break
		}
		if err := vm.evalToken(tok); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// evalToken routes one token: compiler while a definition is open, then
// literal push, then dictionary dispatch, then UnknownWord.
func (vm *VM) evalToken(tok string) error {
	if vm.comp.state != stateInterpreting {
		return vm.compileToken(tok)
	}

	if v, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return vm.stack.Push(v)
	}

	w, ok := vm.dict.Find(tok)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWord, tok)
	}
	switch w.Kind {
	case WordPrimitive, WordImmediate:
		return vm.callPrimitive(w.Prim)
	case WordCompiled:
		return w.Compiled.Run(vm.stack, vm.out)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownWord, tok)
	}
}

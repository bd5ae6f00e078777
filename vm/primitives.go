package vm

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Primitive library
//
// Primitives are identified by PrimID and dispatched through a switch, so
// dictionary entries stay plain data. They run synchronously against the
// shared stack; none of them touches the backing engine.
// ---------------------------------------------------------------------------

// PrimID names a native operation.
type PrimID uint8

const (
	PrimAdd PrimID = iota + 1
	PrimSubtract
	PrimMultiply
	PrimDivide
	PrimDup
	PrimDrop
	PrimSwap
	PrimOver
	PrimDot
	PrimEmit
	PrimShowStack
	PrimColon // immediate: start a definition
	PrimParen // immediate: skip a stack-effect comment
)

// registerPrimitives installs the fixed native vocabulary.
func (vm *VM) registerPrimitives() {
	prims := []struct {
		name string
		kind WordKind
		id   PrimID
	}{
		{"+", WordPrimitive, PrimAdd},
		{"-", WordPrimitive, PrimSubtract},
		{"*", WordPrimitive, PrimMultiply},
		{"/", WordPrimitive, PrimDivide},
		{"dup", WordPrimitive, PrimDup},
		{"drop", WordPrimitive, PrimDrop},
		{"swap", WordPrimitive, PrimSwap},
		{"over", WordPrimitive, PrimOver},
		{".", WordPrimitive, PrimDot},
		{"emit", WordPrimitive, PrimEmit},
		{".s", WordPrimitive, PrimShowStack},
		{":", WordImmediate, PrimColon},
		{"(", WordImmediate, PrimParen},
	}
	for _, p := range prims {
		vm.dict.Register(Word{Name: p.name, Kind: p.kind, Prim: p.id})
	}
}

// opcodeForPrim maps a primitive to the opcode emitted for it inside a
// definition. Primitives without a translatable opcode (like .s) return
// false and compile to a CALL_WORD marker instead.
func opcodeForPrim(id PrimID) (Opcode, bool) {
	switch id {
	case PrimAdd:
		return OpAdd, true
	case PrimSubtract:
		return OpSubtract, true
	case PrimMultiply:
		return OpMultiply, true
	case PrimDivide:
		return OpDivide, true
	case PrimDup:
		return OpDup, true
	case PrimDrop:
		return OpDrop, true
	case PrimSwap:
		return OpSwap, true
	case PrimOver:
		return OpOver, true
	case PrimDot:
		return OpPrint, true
	case PrimEmit:
		return OpEmit, true
	default:
		return 0, false
	}
}

// callPrimitive executes one native word.
func (vm *VM) callPrimitive(id PrimID) error {
	switch id {
	case PrimAdd:
		return vm.binaryOp("+", func(a, b int64) int64 { return a + b })
	case PrimSubtract:
		return vm.binaryOp("-", func(a, b int64) int64 { return a - b })
	case PrimMultiply:
		return vm.binaryOp("*", func(a, b int64) int64 { return a * b })
	case PrimDivide:
		return vm.primDivide()
	case PrimDup:
		return vm.primDup()
	case PrimDrop:
		_, err := vm.popIn("drop")
		return err
	case PrimSwap:
		return vm.primSwap()
	case PrimOver:
		return vm.primOver()
	case PrimDot:
		v, err := vm.popIn(".")
		if err != nil {
			return err
		}
		fmt.Fprintf(vm.out, "%d ", v)
		return nil
	case PrimEmit:
		v, err := vm.popIn("emit")
		if err != nil {
			return err
		}
		fmt.Fprintf(vm.out, "%c", rune(v))
		return nil
	case PrimShowStack:
		vm.primShowStack()
		return nil
	case PrimColon:
		return vm.startDefinition()
	case PrimParen:
		vm.skipParenComment()
		return nil
	default:
		return fmt.Errorf("%w: primitive %d", ErrUnknownWord, id)
	}
}

func (vm *VM) popIn(word string) (int64, error) {
	v, err := vm.stack.Pop()
	if err != nil {
		return 0, fmt.Errorf("%w in %s", err, word)
	}
	return v, nil
}

// binaryOp checks depth before mutating so a half-applied operator never
// eats an operand.
func (vm *VM) binaryOp(word string, f func(a, b int64) int64) error {
	if vm.stack.Depth() < 2 {
		return fmt.Errorf("%w in %s", ErrStackUnderflow, word)
	}
	b, _ := vm.stack.Pop()
	a, _ := vm.stack.Pop()
	return vm.stack.Push(f(a, b))
}

// primDivide reports division by zero after consuming only the divisor,
// leaving the dividend in place.
func (vm *VM) primDivide() error {
	if vm.stack.Depth() < 2 {
		return fmt.Errorf("%w in /", ErrStackUnderflow)
	}
	b, _ := vm.stack.Pop()
	if b == 0 {
		return fmt.Errorf("%w in /", ErrDivisionByZero)
	}
	a, _ := vm.stack.Pop()
	return vm.stack.Push(a / b)
}

func (vm *VM) primDup() error {
	if vm.stack.Depth() < 1 {
		return fmt.Errorf("%w in dup", ErrStackUnderflow)
	}
	v, _ := vm.stack.Pop()
	vm.stack.Push(v)
	return vm.stack.Push(v)
}

func (vm *VM) primSwap() error {
	if vm.stack.Depth() < 2 {
		return fmt.Errorf("%w in swap", ErrStackUnderflow)
	}
	b, _ := vm.stack.Pop()
	a, _ := vm.stack.Pop()
	vm.stack.Push(b)
	return vm.stack.Push(a)
}

func (vm *VM) primOver() error {
	if vm.stack.Depth() < 2 {
		return fmt.Errorf("%w in over", ErrStackUnderflow)
	}
	b, _ := vm.stack.Pop()
	a, _ := vm.stack.Pop()
	vm.stack.Push(a)
	vm.stack.Push(b)
	return vm.stack.Push(a)
}

// primShowStack writes `<depth> top .. bottom `.
func (vm *VM) primShowStack() {
	cells := vm.stack.Contents()
	fmt.Fprintf(vm.out, "<%d> ", len(cells))
	for i := len(cells) - 1; i >= 0; i-- {
		fmt.Fprintf(vm.out, "%d ", cells[i])
	}
}

// skipParenComment consumes tokens through the closing paren, or to the
// end of the line when the comment is unterminated.
func (vm *VM) skipParenComment() {
	for {
		tok, ok := vm.nextToken()
		if !ok || tok == ")" || strings.HasSuffix(tok, ")") {
			return
		}
	}
}

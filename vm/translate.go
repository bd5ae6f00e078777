package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Opcode translator
//
// A program is lowered to exactly one SELECT whose columns are, in order,
// the output expressions (PRINT/EMIT/CALL_WORD) followed by the leftover
// value expressions. Values the program needs from below its own
// definition become bound parameters, popped off the data stack when the
// word runs. Stack-shaping opcodes (DROP/SWAP/OVER, and the duplication
// half of DUP) never reach the engine: they only rearrange the expression
// stack at translation time.
// ---------------------------------------------------------------------------

// colKind distinguishes the two column roles in a translated statement.
type colKind uint8

const (
	colOutput colKind = iota + 1 // written to the VM's output stream
	colResult                    // pushed back onto the data stack
)

// callWordText is the placeholder a CALL_WORD marker produces. Nested
// compiled-word calls are not composed; the marker is deliberately inert.
const callWordText = "[call] "

// Plan is the executable form of a translated program: the SQL text plus
// the stack shape around it.
type Plan struct {
	SQL     string
	Pops    []int // per run-time pop in order: 1-based arg index, 0 = discard
	NumArgs int
	Cols    []colKind
}

type translator struct {
	exprs   []string // expression stack, last entry is top
	nparams int      // parameters allocated so far, in pop order
	cols    []string
	kinds   []colKind
}

// marker is an interim stand-in for parameter ord; real placeholders are
// substituted once the set of used parameters is known.
func marker(ord int) string {
	return fmt.Sprintf("{p%d}", ord)
}

// pop takes the top expression, allocating a fresh bound parameter when
// the program reaches below its own values.
func (t *translator) pop() string {
	if n := len(t.exprs); n > 0 {
		e := t.exprs[n-1]
		t.exprs = t.exprs[:n-1]
		return e
	}
	t.nparams++
	return marker(t.nparams)
}

func (t *translator) push(e string) {
	t.exprs = append(t.exprs, e)
}

func (t *translator) output(sql string) {
	t.cols = append(t.cols, sql)
	t.kinds = append(t.kinds, colOutput)
}

// Translate lowers prog to a Plan under dialect d. It fails on an empty
// program, on a program with no projectable opcode or no columns at all,
// and on opcodes it does not know (which only occur in corrupt persisted
// bytecode).
func Translate(prog *Program, d Dialect) (*Plan, error) {
	if prog == nil || prog.Len() == 0 {
		return nil, fmt.Errorf("%w: empty program", ErrTranslate)
	}

	t := &translator{}
	projected := false

walk:
	for _, ins := range prog.Code {
		if ins.Op.Info().Projectable {
			projected = true
		}
		switch ins.Op {
		case OpInteger:
			t.push(strconv.FormatInt(ins.P1, 10))
		case OpAdd, OpSubtract, OpMultiply:
			b := t.pop()
			a := t.pop()
			t.push(fmt.Sprintf("(%s %s %s)", a, arithOperator(ins.Op), b))
		case OpDivide:
			b := t.pop()
			a := t.pop()
			t.push(d.Div(a, b))
		case OpPrint:
			t.output(d.PrintExpr(t.pop()))
		case OpEmit:
			t.output(d.CharExpr(t.pop()))
		case OpDup:
			x := t.pop()
			t.push(x)
			t.push(x)
		case OpDrop:
			t.pop()
		case OpSwap:
			b := t.pop()
			a := t.pop()
			t.push(b)
			t.push(a)
		case OpOver:
			b := t.pop()
			a := t.pop()
			t.push(a)
			t.push(b)
			t.push(a)
		case OpCallWord:
			t.output("'" + callWordText + "'")
		case OpReturn:
			break walk
		default:
			return nil, fmt.Errorf("%w: unknown opcode 0x%02X", ErrTranslate, uint8(ins.Op))
		}
	}

	// Leftover expressions become result columns, bottom first, so the
	// caller can push them back in stack order.
	kinds := append([]colKind{}, t.kinds...)
	cols := append([]string{}, t.cols...)
	for _, e := range t.exprs {
		cols = append(cols, e)
		kinds = append(kinds, colResult)
	}

	// A program made only of stack-shaping opcodes rearranges caller
	// values without computing or emitting anything; its leftover
	// parameters alone are not a statement worth preparing.
	if !projected {
		return nil, fmt.Errorf("%w: program projects no expressions", ErrTranslate)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: program projects no columns", ErrTranslate)
	}

	sql := "SELECT " + strings.Join(cols, ", ")

	// Number only the parameters that survived into the statement;
	// the rest are dropped values the word consumes without using.
	pops := make([]int, t.nparams)
	arg := 0
	for ord := 1; ord <= t.nparams; ord++ {
		m := marker(ord)
		if !strings.Contains(sql, m) {
			continue
		}
		arg++
		pops[ord-1] = arg
		sql = strings.ReplaceAll(sql, m, d.Placeholder(arg))
	}

	return &Plan{SQL: sql, Pops: pops, NumArgs: arg, Cols: kinds}, nil
}

func arithOperator(op Opcode) string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	}
	return "?"
}

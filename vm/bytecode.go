package vm

import (
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// ---------------------------------------------------------------------------
// Opcode definitions
// ---------------------------------------------------------------------------

// Opcode represents a single abstract instruction emitted by the compiler.
type Opcode uint8

const (
	OpInteger Opcode = 0x01 // push literal (P1 = value)

	// Arithmetic
	OpAdd      Opcode = 0x10
	OpSubtract Opcode = 0x11
	OpMultiply Opcode = 0x12
	OpDivide   Opcode = 0x13 // truncating integer division

	// Output
	OpPrint Opcode = 0x20 // render as decimal text plus trailing space
	OpEmit  Opcode = 0x21 // render as a character code

	// Stack shaping
	OpDup  Opcode = 0x30
	OpDrop Opcode = 0x31
	OpSwap Opcode = 0x32
	OpOver Opcode = 0x33

	OpCallWord Opcode = 0x40 // placeholder marker, never a real call
	OpReturn   Opcode = 0x50 // end of definition
)

// OpcodeInfo holds metadata about an opcode.
type OpcodeInfo struct {
	Name        string // human-readable name
	Projectable bool   // contributes an expression to the translated statement
}

var opcodeTable = map[Opcode]OpcodeInfo{
	OpInteger:  {"INTEGER", true},
	OpAdd:      {"ADD", true},
	OpSubtract: {"SUBTRACT", true},
	OpMultiply: {"MULTIPLY", true},
	OpDivide:   {"DIVIDE", true},
	OpPrint:    {"PRINT", true},
	OpEmit:     {"EMIT", true},
	OpDup:      {"DUP", true},
	OpDrop:     {"DROP", false},
	OpSwap:     {"SWAP", false},
	OpOver:     {"OVER", false},
	OpCallWord: {"CALL_WORD", true},
	OpReturn:   {"RETURN", false},
}

// Info returns metadata for the opcode.
func (op Opcode) Info() OpcodeInfo {
	if info, ok := opcodeTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN_%02X", uint8(op))}
}

func (op Opcode) String() string {
	return op.Info().Name
}

// ---------------------------------------------------------------------------
// Instructions and programs
// ---------------------------------------------------------------------------

// Instruction is one abstract operation with up to three integer operands.
// Field tags use keyasint so the persisted encoding stays compact and
// stable across builds.
type Instruction struct {
	Op Opcode `cbor:"1,keyasint"`
	P1 int64  `cbor:"2,keyasint,omitempty"`
	P2 int64  `cbor:"3,keyasint,omitempty"`
	P3 int64  `cbor:"4,keyasint,omitempty"`
}

// ProgramVersion is the current persisted encoding version.
const ProgramVersion = 1

// Program is the ordered instruction list produced while compiling one
// definition. It is append-only during compilation and must not be mutated
// after it has been handed to the translator.
type Program struct {
	Version uint8         `cbor:"1,keyasint"`
	Code    []Instruction `cbor:"2,keyasint"`
}

// NewProgram creates an empty program at the current encoding version.
func NewProgram() *Program {
	return &Program{Version: ProgramVersion}
}

// Emit appends one instruction.
func (p *Program) Emit(op Opcode, p1, p2, p3 int64) {
	p.Code = append(p.Code, Instruction{Op: op, P1: p1, P2: p2, P3: p3})
}

// Len returns the instruction count.
func (p *Program) Len() int {
	return len(p.Code)
}

// Disassemble renders the program one instruction per line.
func (p *Program) Disassemble() string {
	var b strings.Builder
	for i, ins := range p.Code {
		fmt.Fprintf(&b, "%4d  %s", i, ins.Op)
		if ins.Op == OpInteger {
			fmt.Fprintf(&b, " %d", ins.P1)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Wire encoding
// ---------------------------------------------------------------------------

// cborEncMode uses canonical options so the same program always serializes
// to the same bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vm: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalProgram serializes a Program to CBOR bytes.
func MarshalProgram(p *Program) ([]byte, error) {
	return cborEncMode.Marshal(p)
}

// UnmarshalProgram deserializes a Program from CBOR bytes, rejecting
// payloads written by an unknown encoding version.
func UnmarshalProgram(data []byte) (*Program, error) {
	var p Program
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialize, err)
	}
	if p.Version != ProgramVersion {
		return nil, fmt.Errorf("%w: unsupported program version %d", ErrDeserialize, p.Version)
	}
	return &p, nil
}

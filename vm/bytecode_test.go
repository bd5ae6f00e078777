package vm

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestOpcodeInfo(t *testing.T) {
	tests := []struct {
		op          Opcode
		name        string
		projectable bool
	}{
		{OpInteger, "INTEGER", true},
		{OpAdd, "ADD", true},
		{OpSubtract, "SUBTRACT", true},
		{OpMultiply, "MULTIPLY", true},
		{OpDivide, "DIVIDE", true},
		{OpPrint, "PRINT", true},
		{OpEmit, "EMIT", true},
		{OpDup, "DUP", true},
		{OpDrop, "DROP", false},
		{OpSwap, "SWAP", false},
		{OpOver, "OVER", false},
		{OpCallWord, "CALL_WORD", true},
		{OpReturn, "RETURN", false},
	}
	for _, tt := range tests {
		info := tt.op.Info()
		if info.Name != tt.name {
			t.Errorf("%s: Name = %q, want %q", tt.op, info.Name, tt.name)
		}
		if info.Projectable != tt.projectable {
			t.Errorf("%s: Projectable = %v, want %v", tt.op, info.Projectable, tt.projectable)
		}
	}
}

func TestOpcodeStringUnknown(t *testing.T) {
	got := Opcode(0xEE).String()
	if got != "UNKNOWN_EE" {
		t.Errorf("String = %q, want UNKNOWN_EE", got)
	}
}

func TestProgramRoundTrip(t *testing.T) {
	p := NewProgram()
	p.Emit(OpInteger, -42, 0, 0)
	p.Emit(OpDup, 0, 0, 0)
	p.Emit(OpMultiply, 0, 0, 0)
	p.Emit(OpPrint, 0, 0, 0)
	p.Emit(OpReturn, 0, 0, 0)

	data, err := MarshalProgram(p)
	if err != nil {
		t.Fatalf("MarshalProgram returned error: %v", err)
	}
	got, err := UnmarshalProgram(data)
	if err != nil {
		t.Fatalf("UnmarshalProgram returned error: %v", err)
	}
	if !reflect.DeepEqual(p, got) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, p)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	p := NewProgram()
	p.Emit(OpInteger, 7, 0, 0)
	p.Emit(OpReturn, 0, 0, 0)

	a, _ := MarshalProgram(p)
	b, _ := MarshalProgram(p)
	if !reflect.DeepEqual(a, b) {
		t.Error("canonical encoding produced different bytes for the same program")
	}
}

func TestUnmarshalGarbage(t *testing.T) {
	_, err := UnmarshalProgram([]byte{0xde, 0xad, 0xbe, 0xef})
	if !errors.Is(err, ErrDeserialize) {
		t.Fatalf("err = %v, want ErrDeserialize", err)
	}
}

func TestUnmarshalBadVersion(t *testing.T) {
	p := &Program{Version: 99}
	p.Emit(OpReturn, 0, 0, 0)
	data, err := MarshalProgram(p)
	if err != nil {
		t.Fatalf("MarshalProgram returned error: %v", err)
	}
	_, err = UnmarshalProgram(data)
	if !errors.Is(err, ErrDeserialize) {
		t.Fatalf("err = %v, want ErrDeserialize for unsupported version", err)
	}
}

func TestDisassemble(t *testing.T) {
	p := NewProgram()
	p.Emit(OpInteger, 3, 0, 0)
	p.Emit(OpAdd, 0, 0, 0)

	text := p.Disassemble()
	if !strings.Contains(text, "INTEGER 3") {
		t.Errorf("disassembly missing literal operand: %q", text)
	}
	if !strings.Contains(text, "ADD") {
		t.Errorf("disassembly missing ADD: %q", text)
	}
}

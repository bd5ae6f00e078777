package vm

import "errors"

// Error taxonomy. Everything except ErrBackingStore at startup is
// recoverable: the VM stays usable after reporting.
var (
	ErrStackUnderflow = errors.New("stack underflow")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrDivisionByZero = errors.New("division by zero")
	ErrUnknownWord    = errors.New("unknown word")
	ErrTranslate      = errors.New("translation failed")
	ErrDeserialize    = errors.New("bad bytecode")
	ErrBackingStore   = errors.New("backing store failure")
)

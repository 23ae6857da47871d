package cpu

import (
	"errors"

	"github.com/ezrec/vm8085/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted             = errors.New(f("cpu halted"))
	ErrAddressRange       = errors.New(f("address out of range"))
	ErrInstructionUnknown = errors.New(f("unknown instruction"))

	// Instruction decode errors
	ErrOpcodeImm = errors.New(f("immediate count mismatch"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrLabelInvalid    = errors.New(f("label invalid"))
	ErrOpcodeMissing   = errors.New(f("opcode missing"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOperandCount    = errors.New(f("wrong number of operands"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrPairInvalid     = errors.New(f("register pair invalid"))
	ErrMovMemory       = errors.New(f("mov m,m is hlt"))
	ErrDirectiveSyntax = errors.New(f("directive syntax"))
)

// ErrAddress reports a memory access outside of the configured memory.
type ErrAddress struct {
	Addr int // Offending address.
	Size int // Memory size at the time of access.
}

func (err ErrAddress) Error() string {
	return f("address 0x%04x outside memory of %d bytes", err.Addr, err.Size)
}

func (err ErrAddress) Unwrap() error {
	return ErrAddressRange
}

// ErrOpcode reports an opcode byte that matches no instruction class.
type ErrOpcode uint8

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x", uint8(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

func (eo ErrOpcode) Unwrap() error {
	return ErrInstructionUnknown
}

// ErrExecute wraps a failure raised while executing a decoded instruction.
type ErrExecute struct {
	Pc   uint16
	Code Code
	Err  error
}

func (err *ErrExecute) Error() string {
	return f("%04x: %v: %v", err.Pc, err.Code, err.Err)
}

func (err *ErrExecute) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrValueRange reports an operand that does not fit its encoding.
type ErrValueRange struct {
	Value uint32
	Bits  int
}

func (err ErrValueRange) Error() string {
	return f("0x%x does not fit in %d bits", err.Value, err.Bits)
}

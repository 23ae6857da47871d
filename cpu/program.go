package cpu

import (
	"iter"
)

// Link is a 16-bit operand awaiting a label address.
type Link struct {
	Offset int    // Byte offset of the little-endian word in Opcode.Bytes.
	Label  string // Label to resolve.
}

// Opcode represents a line of assembled code with its source location and generated bytes.
type Opcode struct {
	LineNo int
	Addr   int
	Words  []string
	Bytes  []uint8
	Links  []Link
}

// Program is an assembled program.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode whose bytes cover addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Addr && int(addr) < op.Addr+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr) - op.Addr,
			}
			break
		}
	}

	return
}

// Binary returns the memory image of the program, starting at address 0.
// Gaps left by .org are zero filled.
func (prog *Program) Binary() (bins []uint8) {
	var size int
	for _, op := range prog.Opcodes {
		size = max(size, op.Addr+len(op.Bytes))
	}

	bins = make([]uint8, size)
	for addr, data := range prog.Codes() {
		copy(bins[addr:], data)
	}

	return
}

// Codes iterates over the address and bytes of every non-empty opcode.
func (prog *Program) Codes() iter.Seq2[int, []uint8] {
	return func(yield func(addr int, data []uint8) bool) {
		for _, op := range prog.Opcodes {
			if len(op.Bytes) == 0 {
				continue
			}
			if !yield(op.Addr, op.Bytes) {
				return
			}
		}
	}
}

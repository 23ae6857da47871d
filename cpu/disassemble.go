package cpu

import (
	"iter"
)

// Disassemble iterates over a memory image loaded at origin, yielding the
// address and decoded instruction of each opcode. Bytes that do not decode,
// or whose immediates run past the end of data, are yielded as a Code with
// an invalid class and render as ".db".
func Disassemble(data []uint8, origin int) iter.Seq2[int, Code] {
	return func(yield func(addr int, code Code) bool) {
		for n := 0; n < len(data); {
			opcode := data[n]
			code := Code{Class: -1, Opcode: opcode}

			class, err := Decode(opcode)
			if err == nil && n+class.Size() <= len(data) {
				code.Class = class
				code.Immediates = data[n+1 : n+class.Size()]
			}

			if !yield(origin+n, code) {
				return
			}

			if code.Class.Valid() {
				n += code.Size()
			} else {
				n++
			}
		}
	}
}

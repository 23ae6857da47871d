// Package cpu implements the microprocessor, assembler and disassembler for
// an 8085 instruction subset.
//
// The CPU consists of seven 8-bit registers (A, B, C, D, E, H, L), a 16-bit
// program counter and stack pointer, four flags (Z, S, P, CY) and a flat,
// bounds-checked memory. Register pairs BC, DE and HL are views over their
// halves. Instructions are classified by masked opcode patterns, and each
// Step executes exactly one instruction or fails without changing state.
//
// The assembler accepts Intel mnemonics, labels, equates, and compile-time
// $(...) expression evaluation.
package cpu

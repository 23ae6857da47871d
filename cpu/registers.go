package cpu

import (
	"fmt"
)

// Registers is the register file.
// Pairs BC, DE and HL have no storage of their own.
type Registers struct {
	A, B, C, D, E, H, L uint8

	PC uint16 // Program counter.
	SP uint16 // Stack pointer.
}

// Get returns the register selected by a 3-bit code.
// REG_M is not a register; it is resolved by the Cpu through memory.
func (regs *Registers) Get(reg CodeReg) uint8 {
	switch reg {
	case REG_B:
		return regs.B
	case REG_C:
		return regs.C
	case REG_D:
		return regs.D
	case REG_E:
		return regs.E
	case REG_H:
		return regs.H
	case REG_L:
		return regs.L
	case REG_A:
		return regs.A
	}

	panic(fmt.Sprintf("register %v has no storage", reg))
}

// Set writes the register selected by a 3-bit code.
func (regs *Registers) Set(reg CodeReg, value uint8) {
	switch reg {
	case REG_B:
		regs.B = value
	case REG_C:
		regs.C = value
	case REG_D:
		regs.D = value
	case REG_E:
		regs.E = value
	case REG_H:
		regs.H = value
	case REG_L:
		regs.L = value
	case REG_A:
		regs.A = value
	default:
		panic(fmt.Sprintf("register %v has no storage", reg))
	}
}

// Pair returns the 16-bit value of a register pair.
func (regs *Registers) Pair(rp CodePair) uint16 {
	switch rp {
	case PAIR_BC:
		return (uint16(regs.B) << 8) | uint16(regs.C)
	case PAIR_DE:
		return (uint16(regs.D) << 8) | uint16(regs.E)
	case PAIR_HL:
		return (uint16(regs.H) << 8) | uint16(regs.L)
	case PAIR_SP:
		return regs.SP
	}

	panic(fmt.Sprintf("unknown register pair %v", rp))
}

// SetPair writes both halves of a register pair.
func (regs *Registers) SetPair(rp CodePair, value uint16) {
	hi := uint8(value >> 8)
	lo := uint8(value & 0xff)

	switch rp {
	case PAIR_BC:
		regs.B, regs.C = hi, lo
	case PAIR_DE:
		regs.D, regs.E = hi, lo
	case PAIR_HL:
		regs.H, regs.L = hi, lo
	case PAIR_SP:
		regs.SP = value
	default:
		panic(fmt.Sprintf("unknown register pair %v", rp))
	}
}

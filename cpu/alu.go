package cpu

// complement returns the two's complement of a subtrahend, keeping the
// ninth bit so that a zero subtrahend still produces a carry out.
func complement(value uint) uint {
	return (value ^ 0xff) + 1
}

// add returns a + value (+ carry) and updates Z, S, P and CY.
func (fl *Flags) add(a, value uint8, carry bool) uint8 {
	sum := uint(a) + uint(value)
	if carry {
		sum++
	}

	fl.UpdateZSP(uint8(sum))
	fl.CY = sum > 0xff

	return uint8(sum)
}

// sub returns a - value (- borrow) and updates Z, S, P and CY, where CY
// set means a borrow occurred.
func (fl *Flags) sub(a, value uint8, borrow bool) uint8 {
	// Subtracting 0xff plus a borrow is subtracting 256.
	if borrow && value == 0xff {
		fl.UpdateZSP(a)
		fl.CY = true
		return a
	}

	subtrahend := uint(value)
	if borrow {
		subtrahend++
	}

	sum := uint(a) + complement(subtrahend)

	fl.UpdateZSP(uint8(sum))
	fl.CY = sum <= 0xff

	return uint8(sum)
}

// logic updates Z, S and P from a bitwise result and clears CY.
func (fl *Flags) logic(result uint8) uint8 {
	fl.UpdateZSP(result)
	fl.CY = false

	return result
}

// inc returns value + 1, leaving CY untouched.
func (fl *Flags) inc(value uint8) uint8 {
	cy := fl.CY
	value = fl.add(value, 1, false)
	fl.CY = cy

	return value
}

// dec returns value - 1, leaving CY untouched.
func (fl *Flags) dec(value uint8) uint8 {
	cy := fl.CY
	value = fl.sub(value, 1, false)
	fl.CY = cy

	return value
}

// rotate performs RLC, RRC, RAL or RAR on a, updating only CY.
func (fl *Flags) rotate(class CodeClass, a uint8) (output uint8) {
	var carry uint8
	if fl.CY {
		carry = 1
	}

	switch class {
	case OP_RLC:
		output = (a << 1) | (a >> 7)
		fl.CY = (a & 0x80) != 0
	case OP_RRC:
		output = (a >> 1) | (a << 7)
		fl.CY = (a & 0x01) != 0
	case OP_RAL:
		output = (a << 1) | carry
		fl.CY = (a & 0x80) != 0
	case OP_RAR:
		output = (a >> 1) | (carry << 7)
		fl.CY = (a & 0x01) != 0
	default:
		panic("not a rotate")
	}

	return
}

// doAlu performs the accumulator operation of class with value.
func (cpu *Cpu) doAlu(class CodeClass, value uint8) {
	regs := &cpu.Registers
	fl := &cpu.Flags

	switch class {
	case OP_ADD, OP_ADI:
		regs.A = fl.add(regs.A, value, false)
	case OP_ADC, OP_ACI:
		regs.A = fl.add(regs.A, value, fl.CY)
	case OP_SUB, OP_SUI:
		regs.A = fl.sub(regs.A, value, false)
	case OP_SBB, OP_SBI:
		regs.A = fl.sub(regs.A, value, fl.CY)
	case OP_ANA, OP_ANI:
		regs.A = fl.logic(regs.A & value)
	case OP_XRA, OP_XRI:
		regs.A = fl.logic(regs.A ^ value)
	case OP_ORA, OP_ORI:
		regs.A = fl.logic(regs.A | value)
	case OP_CMP, OP_CPI:
		fl.sub(regs.A, value, false)
	default:
		panic("not an alu operation")
	}
}

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

var _cpu_defines = map[string]string{
	"FLAG_S":  fmt.Sprintf("0x%02x", FLAG_S),
	"FLAG_Z":  fmt.Sprintf("0x%02x", FLAG_Z),
	"FLAG_P":  fmt.Sprintf("0x%02x", FLAG_P),
	"FLAG_CY": fmt.Sprintf("0x%02x", FLAG_CY),
}

// Cpu is the simulation context for the processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Registers Registers // Register file.
	Flags     Flags     // Flag register.
	Memory    *Memory   // Memory, exclusively owned.
	Halted    bool      // Set by HLT; terminal.

	Ticks int // Executed instruction counter.
}

// NewCpu creates a new CPU with a specifically sized memory.
func NewCpu(ramSize int) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: NewMemory(ramSize),
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := &cpu.Registers
	for _, reg := range []CodeReg{REG_A, REG_B, REG_C, REG_D, REG_E, REG_H, REG_L} {
		text += fmt.Sprintf("% 5s: %02X\n", reg, regs.Get(reg))
	}
	for _, rp := range []CodePair{PAIR_BC, PAIR_DE, PAIR_HL, PAIR_SP} {
		text += fmt.Sprintf("% 5s: %04X\n", rp, regs.Pair(rp))
	}
	text += fmt.Sprintf("% 5s: %04X\n", "pc", regs.PC)
	text += fmt.Sprintf("% 5s: %02X %v\n", "flags", cpu.Flags.Byte(), cpu.Flags.String())
	text += fmt.Sprintf("% 5s: %v\n", "halt", cpu.Halted)

	return
}

// Reset the CPU state.
// - Clears the registers, flags and memory.
// - Zeros the tick counter.
// - Leaves the halted state.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers = Registers{}
	cpu.Flags = Flags{}
	cpu.Memory.Reset()
	cpu.Halted = false
	cpu.Ticks = 0
}

// Load copies a program image into memory at addr.
func (cpu *Cpu) Load(addr int, data []uint8) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: load %d bytes at %04x", len(data), addr)
	}

	return cpu.Memory.Load(addr, data)
}

// FetchCode fetches and decodes the instruction at PC, with its immediates.
// No state is modified.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	pc := int(cpu.Registers.PC)

	opcode, err := cpu.Memory.Read(pc)
	if err != nil {
		return
	}

	class, err := Decode(opcode)
	if err != nil {
		return
	}

	code = Code{Class: class, Opcode: opcode}
	for n := range class.Size() - 1 {
		var imm uint8
		imm, err = cpu.Memory.Read(pc + 1 + n)
		if err != nil {
			return
		}
		code.Immediates = append(code.Immediates, imm)
	}

	return
}

// Step executes a single instruction.
func (cpu *Cpu) Step() (err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	return cpu.Execute(code)
}

// Execute executes a single decoded instruction at PC.
// On error, no state has been modified.
func (cpu *Cpu) Execute(code Code) (err error) {
	if cpu.Halted {
		return ErrHalted
	}

	defer func() {
		if err != nil {
			err = &ErrExecute{Pc: cpu.Registers.PC, Code: code, Err: err}
		}
	}()

	// The opcode must decode to the class, so MOV cannot carry 0x76.
	if class, derr := Decode(code.Opcode); derr != nil || class != code.Class {
		return ErrOpcode(code.Opcode)
	}

	if len(code.Immediates) != code.Size()-1 {
		return ErrOpcodeImm
	}

	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.Registers.PC, code)
	}

	regs := &cpu.Registers
	fl := &cpu.Flags
	mem := cpu.Memory

	switch class := code.Class; class {
	case OP_NOP:
		// pass
	case OP_HLT:
		cpu.Halted = true
	case OP_MOV:
		var val uint8
		val, err = cpu.getValue(code.Src())
		if err != nil {
			return
		}
		err = cpu.setValue(code.Dest(), val)
	case OP_MVI:
		err = cpu.setValue(code.Dest(), code.Imm8())
	case OP_LDA:
		var val uint8
		val, err = mem.Read(int(code.Imm16()))
		if err != nil {
			return
		}
		regs.A = val
	case OP_STA:
		err = mem.Write(int(code.Imm16()), regs.A)
	case OP_LHLD:
		var val uint16
		val, err = mem.ReadWord(int(code.Imm16()))
		if err != nil {
			return
		}
		regs.SetPair(PAIR_HL, val)
	case OP_SHLD:
		err = mem.WriteWord(int(code.Imm16()), regs.Pair(PAIR_HL))
	case OP_LXI:
		regs.SetPair(code.Pair(), code.Imm16())
	case OP_LDAX:
		var val uint8
		val, err = mem.Read(int(regs.Pair(code.Pair())))
		if err != nil {
			return
		}
		regs.A = val
	case OP_STAX:
		err = mem.Write(int(regs.Pair(code.Pair())), regs.A)
	case OP_XCHG:
		hl, de := regs.Pair(PAIR_HL), regs.Pair(PAIR_DE)
		regs.SetPair(PAIR_HL, de)
		regs.SetPair(PAIR_DE, hl)
	case OP_XTHL:
		sp := int(regs.SP)
		var val uint16
		val, err = mem.ReadWord(sp)
		if err != nil {
			return
		}
		err = mem.WriteWord(sp, regs.Pair(PAIR_HL))
		if err != nil {
			return
		}
		regs.SetPair(PAIR_HL, val)
	case OP_ADD, OP_ADC, OP_SUB, OP_SBB, OP_ANA, OP_XRA, OP_ORA, OP_CMP:
		var val uint8
		val, err = cpu.getValue(code.Src())
		if err != nil {
			return
		}
		cpu.doAlu(class, val)
	case OP_ADI, OP_ACI, OP_SUI, OP_SBI, OP_ANI, OP_XRI, OP_ORI, OP_CPI:
		cpu.doAlu(class, code.Imm8())
	case OP_INR, OP_DCR:
		dest := code.Dest()
		var val uint8
		val, err = cpu.getValue(dest)
		if err != nil {
			return
		}
		// Flags are staged so a failed store leaves them untouched.
		staged := *fl
		if class == OP_INR {
			val = staged.inc(val)
		} else {
			val = staged.dec(val)
		}
		err = cpu.setValue(dest, val)
		if err != nil {
			return
		}
		*fl = staged
	case OP_INX:
		rp := code.Pair()
		regs.SetPair(rp, regs.Pair(rp)+1)
	case OP_DCX:
		rp := code.Pair()
		regs.SetPair(rp, regs.Pair(rp)-1)
	case OP_DAD:
		sum := uint32(regs.Pair(PAIR_HL)) + uint32(regs.Pair(code.Pair()))
		fl.CY = sum > 0xffff
		regs.SetPair(PAIR_HL, uint16(sum))
	case OP_RLC, OP_RRC, OP_RAL, OP_RAR:
		regs.A = fl.rotate(class, regs.A)
	case OP_CMA:
		regs.A = ^regs.A
	case OP_CMC:
		fl.CY = !fl.CY
	case OP_STC:
		fl.CY = true
	default:
		return ErrOpcode(code.Opcode)
	}

	if err != nil {
		return
	}

	regs.PC += uint16(code.Size())
	cpu.Ticks += 1

	return
}

// getValue reads the register, or the memory at HL, selected by reg.
func (cpu *Cpu) getValue(reg CodeReg) (value uint8, err error) {
	if reg == REG_M {
		return cpu.Memory.Read(int(cpu.Registers.Pair(PAIR_HL)))
	}

	value = cpu.Registers.Get(reg)
	return
}

// setValue writes the register, or the memory at HL, selected by reg.
func (cpu *Cpu) setValue(reg CodeReg, value uint8) (err error) {
	if reg == REG_M {
		return cpu.Memory.Write(int(cpu.Registers.Pair(PAIR_HL)), value)
	}

	cpu.Registers.Set(reg, value)
	return
}

package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// newTestCpu creates a CPU with program loaded at address 0.
func newTestCpu(t *testing.T, program ...uint8) (cpu *Cpu) {
	cpu = NewCpu(RAM_SIZE)
	assert.NoError(t, cpu.Load(0, program))
	return
}

func TestCpu_New(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(RAM_SIZE)
	assert.Equal(Registers{}, cpu.Registers)
	assert.Equal(Flags{}, cpu.Flags)
	assert.False(cpu.Halted)
	assert.Equal(RAM_SIZE, cpu.Memory.Len())
	assert.Equal(0, cpu.Ticks)
}

func TestCpu_ScenarioHalt(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 0x76)

	assert.NoError(cpu.Step())
	assert.True(cpu.Halted)
	assert.Equal(uint16(1), cpu.Registers.PC)

	err := cpu.Step()
	assert.ErrorIs(err, ErrHalted)
	assert.Equal(uint16(1), cpu.Registers.PC)
	assert.True(cpu.Halted)
	assert.Equal(1, cpu.Ticks)
}

func TestCpu_ScenarioMviAdi(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 0x3e, 0x0f, 0xc6, 0x30, 0x76)
	for range 3 {
		assert.NoError(cpu.Step())
	}

	assert.Equal(uint8(0x3f), cpu.Registers.A)
	assert.Equal(uint16(5), cpu.Registers.PC)
	assert.True(cpu.Halted)
	assert.False(cpu.Flags.CY)
	assert.False(cpu.Flags.Z)
}

func TestCpu_ScenarioStaLda(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 0x3e, 0x7a, 0x32, 0x00, 0x10, 0x3a, 0x00, 0x10, 0x76)
	for !cpu.Halted {
		if !assert.NoError(cpu.Step()) {
			return
		}
	}

	assert.Equal(uint8(0x7a), cpu.Registers.A)
	value, err := cpu.Memory.Read(0x1000)
	assert.NoError(err)
	assert.Equal(uint8(0x7a), value)
	assert.Equal(4, cpu.Ticks)
}

func TestCpu_ScenarioDadOverflow(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 0x39)
	cpu.Registers.SetPair(PAIR_HL, 0x1234)
	cpu.Registers.SP = 0xffff
	cpu.Flags = Flags{Z: true, S: true}

	assert.NoError(cpu.Step())
	assert.Equal(uint16(0x1233), cpu.Registers.Pair(PAIR_HL))
	assert.Equal(Flags{Z: true, S: true, CY: true}, cpu.Flags)
}

func TestCpu_ScenarioSbbBorrowEdge(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 0x98)
	cpu.Registers.A = 0x12
	cpu.Registers.B = 0xff
	cpu.Flags.CY = true

	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x12), cpu.Registers.A)
	assert.True(cpu.Flags.CY)
	assert.False(cpu.Flags.Z)
	assert.Equal(uint8(0x05), cpu.Flags.Byte())
}

type cpuCase struct {
	name    string
	program []uint8
	setup   func(cpu *Cpu)
	check   func(assert *assert.Assertions, cpu *Cpu)
	pc      uint16
	flags   int // Expected flag byte, or -1 to skip.
}

func runCases(t *testing.T, table []cpuCase) {
	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			cpu := newTestCpu(t, entry.program...)
			if entry.setup != nil {
				entry.setup(cpu)
			}

			err := cpu.Step()
			if !assert.NoError(err) {
				return
			}

			entry.check(assert, cpu)
			assert.Equal(entry.pc, cpu.Registers.PC)
			if entry.flags >= 0 {
				assert.Equal(uint8(entry.flags), cpu.Flags.Byte(), "flags %v", cpu.Flags)
			}
		})
	}
}

func memAt(cpu *Cpu, addr int) uint8 {
	value, _ := cpu.Memory.Read(addr)
	return value
}

func TestCpu_Control(t *testing.T) {
	runCases(t, []cpuCase{
		{"nop", []uint8{0x00}, nil, func(assert *assert.Assertions, cpu *Cpu) {
			assert.False(cpu.Halted)
		}, 1, 0},
		{"hlt", []uint8{0x76}, nil, func(assert *assert.Assertions, cpu *Cpu) {
			assert.True(cpu.Halted)
		}, 1, 0},
	})
}

func TestCpu_DataTransfer(t *testing.T) {
	runCases(t, []cpuCase{
		{"mov c,h", []uint8{0x4c}, func(cpu *Cpu) {
			cpu.Registers.H = 0x12
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x12), cpu.Registers.C)
		}, 1, 0},
		{"mov m,a", []uint8{0x77}, func(cpu *Cpu) {
			cpu.Registers.A = 0x33
			cpu.Registers.SetPair(PAIR_HL, 0x1234)
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x33), memAt(cpu, 0x1234))
		}, 1, 0},
		{"mov b,m", []uint8{0x46}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_HL, 0x3333)
			cpu.Memory.Write(0x3333, 0x11)
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x11), cpu.Registers.B)
		}, 1, 0},
		{"mvi d", []uint8{0x16, 0xf2}, nil, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0xf2), cpu.Registers.D)
		}, 2, 0},
		{"mvi m", []uint8{0x36, 0xe3}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_HL, 0x3412)
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0xe3), memAt(cpu, 0x3412))
		}, 2, 0},
		{"lda", []uint8{0x3a, 0x19, 0x4f}, func(cpu *Cpu) {
			cpu.Memory.Write(0x4f19, 0x5a)
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x5a), cpu.Registers.A)
		}, 3, 0},
		{"sta", []uint8{0x32, 0x5f, 0xba}, func(cpu *Cpu) {
			cpu.Registers.A = 0xb9
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0xb9), memAt(cpu, 0xba5f))
		}, 3, 0},
		{"lhld", []uint8{0x2a, 0x01, 0x01}, func(cpu *Cpu) {
			cpu.Memory.Write(0x0101, 0x45)
			cpu.Memory.Write(0x0102, 0x7f)
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint16(0x7f45), cpu.Registers.Pair(PAIR_HL))
		}, 3, 0},
		{"shld", []uint8{0x22, 0xf2, 0xde}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_HL, 0x0123)
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x23), memAt(cpu, 0xdef2))
			assert.Equal(uint8(0x01), memAt(cpu, 0xdef3))
		}, 3, 0},
		{"lxi bc", []uint8{0x01, 0xc9, 0x09}, nil, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint16(0x09c9), cpu.Registers.Pair(PAIR_BC))
		}, 3, 0},
		{"lxi sp", []uint8{0x31, 0xfe, 0xca}, nil, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint16(0xcafe), cpu.Registers.SP)
		}, 3, 0},
		{"ldax de", []uint8{0x1a}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_DE, 0x5f6e)
			cpu.Memory.Write(0x5f6e, 0xd4)
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0xd4), cpu.Registers.A)
		}, 1, 0},
		{"stax bc", []uint8{0x02}, func(cpu *Cpu) {
			cpu.Registers.A = 0x10
			cpu.Registers.SetPair(PAIR_BC, 0x0800)
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x10), memAt(cpu, 0x0800))
		}, 1, 0},
		{"xchg", []uint8{0xeb}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_HL, 0x1234)
			cpu.Registers.SetPair(PAIR_DE, 0x5678)
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint16(0x5678), cpu.Registers.Pair(PAIR_HL))
			assert.Equal(uint16(0x1234), cpu.Registers.Pair(PAIR_DE))
		}, 1, 0},
		{"xthl", []uint8{0xe3}, func(cpu *Cpu) {
			cpu.Registers.SP = 0x40f1
			cpu.Memory.Write(0x40f1, 0x40)
			cpu.Registers.SetPair(PAIR_HL, 0x1234)
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint16(0x0040), cpu.Registers.Pair(PAIR_HL))
			assert.Equal(uint8(0x34), memAt(cpu, 0x40f1))
			assert.Equal(uint8(0x12), memAt(cpu, 0x40f2))
		}, 1, 0},
	})
}

func TestCpu_Arithmetic(t *testing.T) {
	runCases(t, []cpuCase{
		{"add d", []uint8{0x82}, func(cpu *Cpu) {
			cpu.Registers.A = 0x2e
			cpu.Registers.D = 0x6c
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x9a), cpu.Registers.A)
		}, 1, 0x84},
		{"add m", []uint8{0x86}, func(cpu *Cpu) {
			cpu.Registers.A = 0xf0
			cpu.Registers.SetPair(PAIR_HL, 0x2000)
			cpu.Memory.Write(0x2000, 0x10)
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x00), cpu.Registers.A)
		}, 1, 0x45},
		{"adi", []uint8{0xc6, 0x42}, func(cpu *Cpu) {
			cpu.Registers.A = 0x14
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x56), cpu.Registers.A)
		}, 2, 0x04},
		{"adc c", []uint8{0x89}, func(cpu *Cpu) {
			cpu.Registers.A = 0x42
			cpu.Registers.C = 0x3d
			cpu.Flags.CY = true
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x80), cpu.Registers.A)
		}, 1, 0x80},
		{"adc c max", []uint8{0x89}, func(cpu *Cpu) {
			cpu.Registers.A = 0x42
			cpu.Registers.C = 0xff
			cpu.Flags.CY = true
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x42), cpu.Registers.A)
		}, 1, 0x05},
		{"aci", []uint8{0xce, 0x42}, func(cpu *Cpu) {
			cpu.Registers.A = 0x14
			cpu.Flags.CY = true
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x57), cpu.Registers.A)
		}, 2, 0x00},
		{"sub a", []uint8{0x97}, func(cpu *Cpu) {
			cpu.Registers.A = 0x3e
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x00), cpu.Registers.A)
		}, 1, 0x44},
		{"sub a zero", []uint8{0x97}, nil, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x00), cpu.Registers.A)
		}, 1, 0x44},
		{"sub b borrow", []uint8{0x90}, func(cpu *Cpu) {
			cpu.Registers.A = 0x01
			cpu.Registers.B = 0x02
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0xff), cpu.Registers.A)
		}, 1, 0x85},
		{"sui", []uint8{0xd6, 0x01}, func(cpu *Cpu) {
			cpu.Registers.A = 0x09
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x08), cpu.Registers.A)
		}, 2, 0x00},
		{"sbb b", []uint8{0x98}, func(cpu *Cpu) {
			cpu.Registers.A = 0x04
			cpu.Registers.B = 0x02
			cpu.Flags.CY = true
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x01), cpu.Registers.A)
		}, 1, 0x00},
		{"sbb b max", []uint8{0x98}, func(cpu *Cpu) {
			cpu.Registers.A = 0x12
			cpu.Registers.B = 0xff
			cpu.Flags.CY = true
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x12), cpu.Registers.A)
		}, 1, 0x05},
		{"sbi", []uint8{0xde, 0x02}, func(cpu *Cpu) {
			cpu.Registers.A = 0x04
			cpu.Flags.CY = true
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x01), cpu.Registers.A)
		}, 2, 0x00},
		{"inr c", []uint8{0x0c}, func(cpu *Cpu) {
			cpu.Registers.C = 0x99
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x9a), cpu.Registers.C)
		}, 1, 0x84},
		{"inr m", []uint8{0x34}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_HL, 0x0200)
			cpu.Memory.Write(0x0200, 0xff)
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x00), memAt(cpu, 0x0200))
		}, 1, 0x44},
		{"dcr h", []uint8{0x25}, func(cpu *Cpu) {
			cpu.Registers.H = 0x00
			cpu.Flags.CY = true
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0xff), cpu.Registers.H)
		}, 1, 0x85},
		{"inx de", []uint8{0x13}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_DE, 0x01ff)
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint16(0x0200), cpu.Registers.Pair(PAIR_DE))
		}, 1, 0x00},
		{"inx sp wrap", []uint8{0x33}, func(cpu *Cpu) {
			cpu.Registers.SP = 0xffff
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint16(0x0000), cpu.Registers.SP)
		}, 1, 0x00},
		{"dcx hl", []uint8{0x2b}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_HL, 0x9800)
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint16(0x97ff), cpu.Registers.Pair(PAIR_HL))
		}, 1, 0x00},
		{"dcx bc wrap", []uint8{0x0b}, func(cpu *Cpu) {
			cpu.Flags.CY = true
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint16(0xffff), cpu.Registers.Pair(PAIR_BC))
		}, 1, 0x01},
		{"dad sp", []uint8{0x39}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_HL, 0x1234)
			cpu.Registers.SP = 0xffff
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint16(0x1233), cpu.Registers.Pair(PAIR_HL))
		}, 1, 0x01},
		{"dad hl", []uint8{0x29}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_HL, 0x1234)
			cpu.Flags.CY = true
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint16(0x2468), cpu.Registers.Pair(PAIR_HL))
		}, 1, 0x00},
	})
}

func TestCpu_Logical(t *testing.T) {
	runCases(t, []cpuCase{
		{"ana b", []uint8{0xa0}, func(cpu *Cpu) {
			cpu.Registers.A = 0xfc
			cpu.Registers.B = 0x0f
			cpu.Flags.CY = true
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x0c), cpu.Registers.A)
		}, 1, 0x04},
		{"xra a", []uint8{0xaf}, func(cpu *Cpu) {
			cpu.Registers.A = 0x5a
			cpu.Flags.CY = true
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x00), cpu.Registers.A)
		}, 1, 0x44},
		{"ora m", []uint8{0xb6}, func(cpu *Cpu) {
			cpu.Registers.A = 0x80
			cpu.Registers.SetPair(PAIR_HL, 0x0100)
			cpu.Memory.Write(0x0100, 0x01)
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x81), cpu.Registers.A)
		}, 1, 0x84},
		{"cmp e equal", []uint8{0xbb}, func(cpu *Cpu) {
			cpu.Registers.A = 0x0a
			cpu.Registers.E = 0x0a
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x0a), cpu.Registers.A)
		}, 1, 0x44},
		{"cmp e less", []uint8{0xbb}, func(cpu *Cpu) {
			cpu.Registers.A = 0x02
			cpu.Registers.E = 0x05
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x02), cpu.Registers.A)
		}, 1, 0x81},
		{"ani", []uint8{0xe6, 0x0f}, func(cpu *Cpu) {
			cpu.Registers.A = 0x3a
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x0a), cpu.Registers.A)
		}, 2, 0x04},
		{"xri", []uint8{0xee, 0xff}, func(cpu *Cpu) {
			cpu.Registers.A = 0x0f
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0xf0), cpu.Registers.A)
		}, 2, 0x84},
		{"ori", []uint8{0xf6, 0x00}, func(cpu *Cpu) {
			cpu.Flags.CY = true
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x00), cpu.Registers.A)
		}, 2, 0x44},
		{"cpi greater", []uint8{0xfe, 0x40}, func(cpu *Cpu) {
			cpu.Registers.A = 0x4a
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x4a), cpu.Registers.A)
		}, 2, 0x04},
		{"rlc", []uint8{0x07}, func(cpu *Cpu) {
			cpu.Registers.A = 0xf2
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0xe5), cpu.Registers.A)
		}, 1, 0x01},
		{"rrc", []uint8{0x0f}, func(cpu *Cpu) {
			cpu.Registers.A = 0xf2
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x79), cpu.Registers.A)
		}, 1, 0x00},
		{"ral", []uint8{0x17}, func(cpu *Cpu) {
			cpu.Registers.A = 0xb5
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0x6a), cpu.Registers.A)
		}, 1, 0x01},
		{"rar", []uint8{0x1f}, func(cpu *Cpu) {
			cpu.Registers.A = 0x6a
			cpu.Flags.CY = true
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0xb5), cpu.Registers.A)
		}, 1, 0x00},
		{"cma", []uint8{0x2f}, func(cpu *Cpu) {
			cpu.Registers.A = 0x51
			cpu.Flags.SetByte(0xc5)
		}, func(assert *assert.Assertions, cpu *Cpu) {
			assert.Equal(uint8(0xae), cpu.Registers.A)
		}, 1, 0xc5},
		{"cmc", []uint8{0x3f}, func(cpu *Cpu) {
			cpu.Flags.SetByte(0xc5)
		}, func(assert *assert.Assertions, cpu *Cpu) {
		}, 1, 0xc4},
		{"stc", []uint8{0x37}, func(cpu *Cpu) {
			cpu.Flags.SetByte(0x44)
		}, func(assert *assert.Assertions, cpu *Cpu) {
		}, 1, 0x45},
	})
}

func TestCpu_IncDecPreserveCarry(t *testing.T) {
	assert := assert.New(t)

	for _, class := range []CodeClass{OP_INR, OP_DCR} {
		for _, reg := range []CodeReg{REG_B, REG_C, REG_D, REG_E, REG_H, REG_L, REG_M, REG_A} {
			for _, cy := range []bool{false, true} {
				cpu := newTestCpu(t, MakeCodeDest(class, reg).Bytes()...)
				cpu.Registers.SetPair(PAIR_HL, 0x0100)
				cpu.Flags.CY = cy

				assert.NoError(cpu.Step())
				assert.Equal(cy, cpu.Flags.CY, "%v %v cy=%v", class, reg, cy)
			}
		}
	}
}

func TestCpu_ErrorUnknown(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 0xff)
	err := cpu.Step()
	assert.ErrorIs(err, ErrInstructionUnknown)
	assert.Equal(ErrOpcode(0xff), err)
	assert.Equal(uint16(0), cpu.Registers.PC)
	assert.False(cpu.Halted)
	assert.Equal(0, cpu.Ticks)
}

func TestCpu_ErrorFetch(t *testing.T) {
	assert := assert.New(t)

	// PC beyond the end of memory.
	cpu := NewCpu(16)
	cpu.Registers.PC = 16
	assert.ErrorIs(cpu.Step(), ErrAddressRange)
	assert.Equal(uint16(16), cpu.Registers.PC)

	// Immediates run past the end of memory.
	cpu = NewCpu(16)
	cpu.Registers.A = 0x99
	cpu.Memory.Write(14, 0x3a) // LDA with only one address byte in memory
	cpu.Memory.Write(15, 0x00)
	cpu.Registers.PC = 14
	err := cpu.Step()
	assert.ErrorIs(err, ErrAddressRange)

	var ea ErrAddress
	assert.True(errors.As(err, &ea))
	assert.Equal(16, ea.Addr)
	assert.Equal(uint16(14), cpu.Registers.PC)
	assert.Equal(uint8(0x99), cpu.Registers.A)
}

func TestCpu_ErrorExecuteAtomic(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name    string
		program []uint8
		setup   func(cpu *Cpu)
	}{
		{"lda", []uint8{0x3a, 0xff, 0xff}, nil},
		{"sta", []uint8{0x32, 0x00, 0xfa}, nil},
		{"lhld", []uint8{0x2a, 0xff, 0xf9}, nil},
		{"shld", []uint8{0x22, 0xff, 0xf9}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_HL, 0xbeef)
		}},
		{"mov m,a", []uint8{0x77}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_HL, 0xffff)
		}},
		{"mov a,m", []uint8{0x7e}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_HL, 0xffff)
		}},
		{"add m", []uint8{0x86}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_HL, 0xffff)
		}},
		{"inr m", []uint8{0x34}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_HL, 0xfa00)
			cpu.Flags.CY = true
		}},
		{"mvi m", []uint8{0x36, 0x12}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_HL, 0xfa00)
		}},
		{"ldax bc", []uint8{0x0a}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_BC, 0xfa00)
		}},
		{"stax de", []uint8{0x12}, func(cpu *Cpu) {
			cpu.Registers.SetPair(PAIR_DE, 0xfa00)
		}},
		{"xthl", []uint8{0xe3}, func(cpu *Cpu) {
			cpu.Registers.SP = RAM_SIZE - 1
			cpu.Registers.SetPair(PAIR_HL, 0x1234)
		}},
	}

	for _, entry := range table {
		cpu := newTestCpu(t, entry.program...)
		cpu.Registers.A = 0x5a
		if entry.setup != nil {
			entry.setup(cpu)
		}
		cpu.Memory.Write(RAM_SIZE-1, 0xa5)

		regs := cpu.Registers
		flags := cpu.Flags
		before, _ := cpu.Memory.Slice(0, RAM_SIZE)

		err := cpu.Step()
		assert.ErrorIs(err, ErrAddressRange, entry.name)

		var ee *ErrExecute
		if assert.True(errors.As(err, &ee), entry.name) {
			assert.Equal(uint16(0), ee.Pc, entry.name)
			assert.Equal(entry.program[0], ee.Code.Opcode, entry.name)
		}

		after, _ := cpu.Memory.Slice(0, RAM_SIZE)
		assert.Equal(regs, cpu.Registers, entry.name)
		assert.Equal(flags, cpu.Flags, entry.name)
		assert.Equal(before, after, entry.name)
		assert.Equal(0, cpu.Ticks, entry.name)
	}
}

func TestCpu_Execute(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(RAM_SIZE)

	err := cpu.Execute(Code{Class: OP_MVI, Opcode: 0x3e})
	assert.ErrorIs(err, ErrOpcodeImm)
	assert.Contains(err.Error(), "immediate count mismatch")
	assert.Equal(uint16(0), cpu.Registers.PC)

	err = cpu.Execute(Code{Class: 77, Opcode: 0xff})
	assert.ErrorIs(err, ErrInstructionUnknown)

	assert.NoError(cpu.Execute(MakeCodeDest(OP_MVI, REG_A, 0x42)))
	assert.Equal(uint8(0x42), cpu.Registers.A)
	assert.Equal(uint16(2), cpu.Registers.PC)

	cpu.Halted = true
	assert.ErrorIs(cpu.Execute(MakeCode(OP_NOP)), ErrHalted)
}

func TestCpu_ExecuteMismatch(t *testing.T) {
	assert := assert.New(t)

	table := []Code{
		{Class: OP_NOP, Opcode: 0xff},
		{Class: OP_NOP, Opcode: 0x76},
		{Class: OP_MOV, Opcode: 0x76},
		{Class: OP_ADD, Opcode: 0x90},
		{Class: OP_LDA, Opcode: 0x32, Immediates: []uint8{0x00, 0x10}},
	}

	for _, code := range table {
		cpu := NewCpu(RAM_SIZE)
		cpu.Registers.A = 0x12

		err := cpu.Execute(code)
		assert.ErrorIs(err, ErrInstructionUnknown, "%v", code)

		var ee *ErrExecute
		if assert.True(errors.As(err, &ee)) {
			assert.Equal(code.Opcode, ee.Code.Opcode)
		}
		assert.Equal(Registers{A: 0x12}, cpu.Registers)
		assert.False(cpu.Halted)
		assert.Equal(0, cpu.Ticks)
	}
}

func TestCpu_PcWrap(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(0x10000)
	cpu.Registers.PC = 0xffff
	assert.NoError(cpu.Step()) // NOP at 0xffff
	assert.Equal(uint16(0), cpu.Registers.PC)

	// A three byte instruction at 0xfffe cannot fetch its last byte.
	cpu.Registers.PC = 0xfffe
	cpu.Memory.Write(0xfffe, 0x21)
	err := cpu.Step()
	assert.ErrorIs(err, ErrAddressRange)
	assert.Equal(uint16(0xfffe), cpu.Registers.PC)
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, 0x3e, 0x01, 0x76)
	for !cpu.Halted {
		assert.NoError(cpu.Step())
	}

	cpu.Reset()
	assert.Equal(Registers{}, cpu.Registers)
	assert.Equal(Flags{}, cpu.Flags)
	assert.False(cpu.Halted)
	assert.Equal(0, cpu.Ticks)
	assert.Equal(uint8(0), memAt(cpu, 0))
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(16)
	cpu.Registers.A = 0xab
	cpu.Registers.SetPair(PAIR_HL, 0x1234)
	cpu.Flags.CY = true

	text := cpu.String()
	assert.Contains(text, "    a: AB\n")
	assert.Contains(text, "   hl: 1234\n")
	assert.Contains(text, "flags: 01 szpC\n")
	assert.Contains(text, " halt: false\n")
}

func TestCpu_Defines(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(16)
	defines := map[string]string{}
	for key, value := range cpu.Defines() {
		defines[key] = value
	}

	assert.Equal("0x80", defines["FLAG_S"])
	assert.Equal("0x40", defines["FLAG_Z"])
	assert.Equal("0x04", defines["FLAG_P"])
	assert.Equal("0x01", defines["FLAG_CY"])
}

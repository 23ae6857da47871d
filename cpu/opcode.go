package cpu

import (
	"fmt"
	"strings"
)

// CodeReg is a 3-bit register-or-memory operand code.
type CodeReg int

//go:generate go tool stringer -linecomment -type=CodeReg
const (
	REG_B = CodeReg(0b000) // b
	REG_C = CodeReg(0b001) // c
	REG_D = CodeReg(0b010) // d
	REG_E = CodeReg(0b011) // e
	REG_H = CodeReg(0b100) // h
	REG_L = CodeReg(0b101) // l
	REG_M = CodeReg(0b110) // m
	REG_A = CodeReg(0b111) // a
)

// CodePair is a 2-bit register pair code, tagged with 0b1000 so that it
// never shares a value with a CodeReg.
type CodePair int

//go:generate go tool stringer -linecomment -type=CodePair
const (
	PAIR_BC = CodePair(0b1000) // bc
	PAIR_DE = CodePair(0b1001) // de
	PAIR_HL = CodePair(0b1010) // hl
	PAIR_SP = CodePair(0b1011) // sp
)

// CodeClass is the instruction class selected by an opcode.
type CodeClass int

//go:generate go tool stringer -linecomment -type=CodeClass
const (
	OP_NOP  = CodeClass(iota) // nop
	OP_HLT                    // hlt
	OP_MOV                    // mov
	OP_MVI                    // mvi
	OP_LDA                    // lda
	OP_STA                    // sta
	OP_LHLD                   // lhld
	OP_SHLD                   // shld
	OP_LXI                    // lxi
	OP_LDAX                   // ldax
	OP_STAX                   // stax
	OP_XCHG                   // xchg
	OP_XTHL                   // xthl
	OP_ADD                    // add
	OP_ADC                    // adc
	OP_SUB                    // sub
	OP_SBB                    // sbb
	OP_ADI                    // adi
	OP_ACI                    // aci
	OP_SUI                    // sui
	OP_SBI                    // sbi
	OP_INR                    // inr
	OP_DCR                    // dcr
	OP_INX                    // inx
	OP_DCX                    // dcx
	OP_DAD                    // dad
	OP_ANA                    // ana
	OP_XRA                    // xra
	OP_ORA                    // ora
	OP_CMP                    // cmp
	OP_ANI                    // ani
	OP_XRI                    // xri
	OP_ORI                    // ori
	OP_CPI                    // cpi
	OP_RLC                    // rlc
	OP_RRC                    // rrc
	OP_RAL                    // ral
	OP_RAR                    // rar
	OP_CMA                    // cma
	OP_CMC                    // cmc
	OP_STC                    // stc
)

// CodeShape describes which operands an instruction class embeds or carries.
type CodeShape int

const (
	SHAPE_NONE       = CodeShape(iota) // no operands
	SHAPE_DEST_SRC                     // dest, src
	SHAPE_DEST                         // dest
	SHAPE_DEST_IMM8                    // dest, imm8
	SHAPE_SRC                          // src
	SHAPE_IMM8                         // imm8
	SHAPE_ADDR                         // addr16
	SHAPE_PAIR                         // rp
	SHAPE_PAIR_IMM16                   // rp, imm16
)

// decode is one entry of the classification table.
type decode struct {
	Mask  uint8
	Bits  uint8
	Class CodeClass
	Shape CodeShape
	Size  int
}

// decodeTable is tried in order; the first match wins. HLT must precede
// MOV, whose pattern also covers 0x76.
var decodeTable = [...]decode{
	{0xff, 0x00, OP_NOP, SHAPE_NONE, 1},
	{0xff, 0x76, OP_HLT, SHAPE_NONE, 1},
	{0xc0, 0x40, OP_MOV, SHAPE_DEST_SRC, 1},
	{0xc7, 0x06, OP_MVI, SHAPE_DEST_IMM8, 2},
	{0xff, 0x3a, OP_LDA, SHAPE_ADDR, 3},
	{0xff, 0x32, OP_STA, SHAPE_ADDR, 3},
	{0xff, 0x2a, OP_LHLD, SHAPE_ADDR, 3},
	{0xff, 0x22, OP_SHLD, SHAPE_ADDR, 3},
	{0xcf, 0x01, OP_LXI, SHAPE_PAIR_IMM16, 3},
	{0xef, 0x0a, OP_LDAX, SHAPE_PAIR, 1},
	{0xef, 0x02, OP_STAX, SHAPE_PAIR, 1},
	{0xff, 0xeb, OP_XCHG, SHAPE_NONE, 1},
	{0xff, 0xe3, OP_XTHL, SHAPE_NONE, 1},
	{0xf8, 0x80, OP_ADD, SHAPE_SRC, 1},
	{0xf8, 0x88, OP_ADC, SHAPE_SRC, 1},
	{0xf8, 0x90, OP_SUB, SHAPE_SRC, 1},
	{0xf8, 0x98, OP_SBB, SHAPE_SRC, 1},
	{0xff, 0xc6, OP_ADI, SHAPE_IMM8, 2},
	{0xff, 0xce, OP_ACI, SHAPE_IMM8, 2},
	{0xff, 0xd6, OP_SUI, SHAPE_IMM8, 2},
	{0xff, 0xde, OP_SBI, SHAPE_IMM8, 2},
	{0xc7, 0x04, OP_INR, SHAPE_DEST, 1},
	{0xc7, 0x05, OP_DCR, SHAPE_DEST, 1},
	{0xcf, 0x03, OP_INX, SHAPE_PAIR, 1},
	{0xcf, 0x0b, OP_DCX, SHAPE_PAIR, 1},
	{0xcf, 0x09, OP_DAD, SHAPE_PAIR, 1},
	{0xf8, 0xa0, OP_ANA, SHAPE_SRC, 1},
	{0xf8, 0xa8, OP_XRA, SHAPE_SRC, 1},
	{0xf8, 0xb0, OP_ORA, SHAPE_SRC, 1},
	{0xf8, 0xb8, OP_CMP, SHAPE_SRC, 1},
	{0xff, 0xe6, OP_ANI, SHAPE_IMM8, 2},
	{0xff, 0xee, OP_XRI, SHAPE_IMM8, 2},
	{0xff, 0xf6, OP_ORI, SHAPE_IMM8, 2},
	{0xff, 0xfe, OP_CPI, SHAPE_IMM8, 2},
	{0xff, 0x07, OP_RLC, SHAPE_NONE, 1},
	{0xff, 0x0f, OP_RRC, SHAPE_NONE, 1},
	{0xff, 0x17, OP_RAL, SHAPE_NONE, 1},
	{0xff, 0x1f, OP_RAR, SHAPE_NONE, 1},
	{0xff, 0x2f, OP_CMA, SHAPE_NONE, 1},
	{0xff, 0x3f, OP_CMC, SHAPE_NONE, 1},
	{0xff, 0x37, OP_STC, SHAPE_NONE, 1},
}

// classTable indexes decodeTable by class.
var classTable = func() (table [len(decodeTable)]*decode) {
	for n := range decodeTable {
		entry := &decodeTable[n]
		table[entry.Class] = entry
	}
	return
}()

// Decode classifies an opcode byte.
func Decode(opcode uint8) (class CodeClass, err error) {
	for _, entry := range decodeTable {
		if (opcode & entry.Mask) == entry.Bits {
			class = entry.Class
			return
		}
	}

	err = ErrOpcode(opcode)
	return
}

// Valid returns true if the class is a known instruction class.
func (class CodeClass) Valid() bool {
	return class >= 0 && int(class) < len(classTable)
}

// Size returns the encoded length, in bytes, of the instruction class.
func (class CodeClass) Size() int {
	return classTable[class].Size
}

// Shape returns the operand shape of the instruction class.
func (class CodeClass) Shape() CodeShape {
	return classTable[class].Shape
}

// Bits returns the fixed opcode bits of the instruction class.
func (class CodeClass) Bits() uint8 {
	return classTable[class].Bits
}

// Src extracts the 3-bit source operand code.
func Src(opcode uint8) CodeReg {
	return CodeReg(opcode & 0x07)
}

// Dest extracts the 3-bit destination operand code.
func Dest(opcode uint8) CodeReg {
	return CodeReg((opcode & 0x38) >> 3)
}

// Pair extracts the 2-bit register pair code.
func Pair(opcode uint8) CodePair {
	return CodePair(((opcode & 0x30) >> 4) | 0b1000)
}

// Code is a decoded instruction with its trailing immediate bytes.
type Code struct {
	Class      CodeClass
	Opcode     uint8
	Immediates []uint8
}

// MakeCode creates an instruction with no embedded operand fields.
func MakeCode(class CodeClass, imms ...uint8) Code {
	return Code{Class: class, Opcode: class.Bits(), Immediates: imms}
}

// MakeCodeMov creates a MOV instruction.
func MakeCodeMov(dest, src CodeReg) Code {
	return Code{Class: OP_MOV, Opcode: OP_MOV.Bits() | (uint8(dest&7) << 3) | uint8(src&7)}
}

// MakeCodeDest creates an instruction with an embedded destination (MVI, INR, DCR).
func MakeCodeDest(class CodeClass, dest CodeReg, imms ...uint8) Code {
	return Code{Class: class, Opcode: class.Bits() | (uint8(dest&7) << 3), Immediates: imms}
}

// MakeCodeSrc creates an instruction with an embedded source (ADD ... CMP).
func MakeCodeSrc(class CodeClass, src CodeReg) Code {
	return Code{Class: class, Opcode: class.Bits() | uint8(src&7)}
}

// MakeCodePair creates an instruction with an embedded register pair.
func MakeCodePair(class CodeClass, rp CodePair, imms ...uint8) Code {
	return Code{Class: class, Opcode: class.Bits() | (uint8(rp&3) << 4), Immediates: imms}
}

// Size returns the encoded length of the instruction.
func (code Code) Size() int {
	return code.Class.Size()
}

// Bytes returns the encoded instruction.
func (code Code) Bytes() []uint8 {
	return append([]uint8{code.Opcode}, code.Immediates...)
}

// Src returns the source operand code.
func (code Code) Src() CodeReg {
	return Src(code.Opcode)
}

// Dest returns the destination operand code.
func (code Code) Dest() CodeReg {
	return Dest(code.Opcode)
}

// Pair returns the register pair operand code.
func (code Code) Pair() CodePair {
	return Pair(code.Opcode)
}

// Imm8 returns the 8-bit immediate.
func (code Code) Imm8() uint8 {
	return code.Immediates[0]
}

// Imm16 returns the little-endian 16-bit immediate or address.
func (code Code) Imm16() uint16 {
	return uint16(code.Immediates[0]) | (uint16(code.Immediates[1]) << 8)
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	if !code.Class.Valid() {
		return fmt.Sprintf(".db 0x%02x", code.Opcode)
	}

	var args []string
	if len(code.Immediates) == code.Size()-1 {
		switch code.Class.Shape() {
		case SHAPE_DEST_SRC:
			args = []string{code.Dest().String(), code.Src().String()}
		case SHAPE_DEST:
			args = []string{code.Dest().String()}
		case SHAPE_DEST_IMM8:
			args = []string{code.Dest().String(), fmt.Sprintf("0x%02x", code.Imm8())}
		case SHAPE_SRC:
			args = []string{code.Src().String()}
		case SHAPE_IMM8:
			args = []string{fmt.Sprintf("0x%02x", code.Imm8())}
		case SHAPE_ADDR:
			args = []string{fmt.Sprintf("0x%04x", code.Imm16())}
		case SHAPE_PAIR:
			args = []string{code.Pair().String()}
		case SHAPE_PAIR_IMM16:
			args = []string{code.Pair().String(), fmt.Sprintf("0x%04x", code.Imm16())}
		}
	} else {
		args = []string{fmt.Sprintf("imm:%#v", code.Immediates)}
	}

	if len(args) == 0 {
		return code.Class.String()
	}

	return code.Class.String() + " " + strings.Join(args, ",")
}

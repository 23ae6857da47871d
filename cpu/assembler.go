// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":   "0x0",
	"RAM_SIZE": fmt.Sprintf("%#x", RAM_SIZE),
}

// Assembler is a single pass, link-at-end assembler for the 8085 subset.
//
// Numbers are hexadecimal unless they carry a 0x prefix or an H suffix, both
// of which are also hexadecimal; any other base must be written with $(...).
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.

	addr int // Address of the next emitted byte.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// mnemonicMap maps mnemonics to instruction classes.
var mnemonicMap = func() map[string]CodeClass {
	mnemonics := make(map[string]CodeClass, len(decodeTable))
	for _, entry := range decodeTable {
		mnemonics[entry.Class.String()] = entry.Class
	}
	return mnemonics
}()

// regMap is a map of register names to register codes.
var regMap = map[string]CodeReg{
	"b": REG_B,
	"c": REG_C,
	"d": REG_D,
	"e": REG_E,
	"h": REG_H,
	"l": REG_L,
	"m": REG_M,
	"a": REG_A,
}

// pairMap is a map of register pair names to pair codes.
var pairMap = map[string]CodePair{
	"b":  PAIR_BC,
	"bc": PAIR_BC,
	"d":  PAIR_DE,
	"de": PAIR_DE,
	"h":  PAIR_HL,
	"hl": PAIR_HL,
	"sp": PAIR_SP,
}

var (
	reLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reChar  = regexp.MustCompile(`'\\?[^']'`)
	reParen = regexp.MustCompile(`\$\([^\$]*\)`)
)

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	digits := strings.ToLower(word)
	switch {
	case strings.HasPrefix(digits, "0x"):
		digits = digits[2:]
	case strings.HasSuffix(digits, "h"):
		digits = digits[:len(digits)-1]
	}

	v64, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = uint32(v64)
	return
}

// imm8 returns the value of a word that must fit in a byte.
func (asm *Assembler) imm8(word string) (value uint8, err error) {
	v32, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v32 > 0xff {
		err = ErrValueRange{Value: v32, Bits: 8}
		return
	}

	value = uint8(v32)
	return
}

// imm16 returns the little-endian bytes of a word that must fit in 16 bits.
// A word that is not a number but is a valid label is left for linking.
func (asm *Assembler) imm16(word string, offset int) (imms []uint8, links []Link, err error) {
	v32, err := asm.valueOf(word)
	if err != nil {
		if !reLabel.MatchString(word) {
			return
		}
		err = nil
		imms = []uint8{0, 0}
		links = []Link{{Offset: offset, Label: word}}
		return
	}

	if v32 > 0xffff {
		err = ErrValueRange{Value: v32, Bits: 16}
		return
	}

	imms = []uint8{uint8(v32 & 0xff), uint8(v32 >> 8)}
	return
}

// register returns the register code of a word.
func (asm *Assembler) register(word string) (reg CodeReg, err error) {
	reg, ok := regMap[strings.ToLower(word)]
	if !ok {
		err = ErrRegisterInvalid
	}

	return
}

// pair returns the register pair code of a word.
func (asm *Assembler) pair(word string) (rp CodePair, err error) {
	rp, ok := pairMap[strings.ToLower(word)]
	if !ok {
		err = ErrPairInvalid
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	err = nil
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// charEval replaces 'x' character literals with their hex value.
func charEval(line string) string {
	return reChar.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%#x", str[0])
	})
}

// parseLine expands a single line, defines its labels and equates, and
// returns its mnemonic followed by its operands.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%#x", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	fields := strings.Fields(line)

	// .equ CONST VALUE
	if len(fields) > 0 && fields[0] == ".equ" {
		if len(fields) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[fields[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[fields[1]] = fields[2]
		return
	}

	for len(fields) > 0 && strings.HasSuffix(fields[0], ":") {
		label := fields[0][:len(fields[0])-1]
		if !reLabel.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.addr

		line = strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		fields = strings.Fields(line)
	}

	if len(fields) == 0 {
		return
	}

	words = []string{fields[0]}
	operands := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
	if len(operands) == 0 {
		return
	}

	for _, word := range strings.Split(operands, ",") {
		word = strings.TrimSpace(word)
		if len(word) == 0 || strings.ContainsAny(word, " \t") {
			err = ErrOperandCount
			if strings.HasPrefix(words[0], ".") {
				err = ErrDirectiveSyntax
			}
			return
		}

		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			word = equate
		}

		words = append(words, word)
	}

	return
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.addr = 0
	asm.Opcode = asm.Opcode[:0]
	asm.Label = make(map[string]int, 16)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		// Character literals may hold a ';'.
		text_comment := strings.SplitN(charEval(text), ";", 2)
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		for _, link := range op.Links {
			addr, ok := asm.Label[link.Label]
			if !ok {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				err = ErrLabelMissing(link.Label)
				return
			}
			op.Bytes[link.Offset] = uint8(addr & 0xff)
			op.Bytes[link.Offset+1] = uint8((addr >> 8) & 0xff)
		}
	}

	prog = &Program{
		Opcodes: append([]Opcode(nil), asm.Opcode...),
	}

	return
}

// parseDirective evaluates .org, .db and .dw.
func (asm *Assembler) parseDirective(directive string, args []string) (data []uint8, links []Link, err error) {
	if len(args) == 0 {
		err = ErrDirectiveSyntax
		return
	}

	switch directive {
	case ".org":
		if len(args) != 1 {
			err = ErrDirectiveSyntax
			return
		}
		var v32 uint32
		v32, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if v32 > 0xffff {
			err = ErrValueRange{Value: v32, Bits: 16}
			return
		}
		asm.addr = int(v32)
	case ".db":
		for _, arg := range args {
			var value uint8
			value, err = asm.imm8(arg)
			if err != nil {
				return
			}
			data = append(data, value)
		}
	case ".dw":
		for _, arg := range args {
			var imms []uint8
			var imm_links []Link
			imms, imm_links, err = asm.imm16(arg, len(data))
			if err != nil {
				return
			}
			data = append(data, imms...)
			links = append(links, imm_links...)
		}
	default:
		err = ErrDirectiveSyntax
	}

	return
}

// parseInstruction encodes a mnemonic and its operands.
func (asm *Assembler) parseInstruction(class CodeClass, args []string) (data []uint8, links []Link, err error) {
	need := map[CodeShape]int{
		SHAPE_NONE:       0,
		SHAPE_DEST_SRC:   2,
		SHAPE_DEST:       1,
		SHAPE_DEST_IMM8:  2,
		SHAPE_SRC:        1,
		SHAPE_IMM8:       1,
		SHAPE_ADDR:       1,
		SHAPE_PAIR:       1,
		SHAPE_PAIR_IMM16: 2,
	}[class.Shape()]

	if len(args) != need {
		err = ErrOperandCount
		return
	}

	var code Code
	var reg CodeReg
	var rp CodePair
	var imm uint8
	var imms []uint8

	switch class.Shape() {
	case SHAPE_NONE:
		code = MakeCode(class)
	case SHAPE_DEST_SRC:
		var src CodeReg
		reg, err = asm.register(args[0])
		if err != nil {
			return
		}
		src, err = asm.register(args[1])
		if err != nil {
			return
		}
		if reg == REG_M && src == REG_M {
			err = ErrMovMemory
			return
		}
		code = MakeCodeMov(reg, src)
	case SHAPE_DEST:
		reg, err = asm.register(args[0])
		if err != nil {
			return
		}
		code = MakeCodeDest(class, reg)
	case SHAPE_DEST_IMM8:
		reg, err = asm.register(args[0])
		if err != nil {
			return
		}
		imm, err = asm.imm8(args[1])
		if err != nil {
			return
		}
		code = MakeCodeDest(class, reg, imm)
	case SHAPE_SRC:
		reg, err = asm.register(args[0])
		if err != nil {
			return
		}
		code = MakeCodeSrc(class, reg)
	case SHAPE_IMM8:
		imm, err = asm.imm8(args[0])
		if err != nil {
			return
		}
		code = MakeCode(class, imm)
	case SHAPE_ADDR:
		imms, links, err = asm.imm16(args[0], 1)
		if err != nil {
			return
		}
		code = MakeCode(class, imms...)
	case SHAPE_PAIR:
		rp, err = asm.pair(args[0])
		if err != nil {
			return
		}
		if (class == OP_LDAX || class == OP_STAX) && rp != PAIR_BC && rp != PAIR_DE {
			err = ErrPairInvalid
			return
		}
		code = MakeCodePair(class, rp)
	case SHAPE_PAIR_IMM16:
		rp, err = asm.pair(args[0])
		if err != nil {
			return
		}
		imms, links, err = asm.imm16(args[1], 1)
		if err != nil {
			return
		}
		code = MakeCodePair(class, rp, imms...)
	}

	data = code.Bytes()
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	var data []uint8
	var links []Link
	if strings.HasPrefix(mnemonic, ".") {
		data, links, err = asm.parseDirective(mnemonic, args)
	} else {
		class, ok := mnemonicMap[mnemonic]
		if !ok {
			err = ErrOpcodeInvalid
			return
		}
		data, links, err = asm.parseInstruction(class, args)
	}
	if err != nil {
		return
	}

	if len(data) == 0 {
		return
	}

	if end := asm.addr + len(data); end > 0x10000 {
		err = ErrValueRange{Value: uint32(end - 1), Bits: 16}
		return
	}

	asm.Opcode = append(asm.Opcode, Opcode{
		LineNo: lineno,
		Addr:   asm.addr,
		Words:  words,
		Bytes:  data,
		Links:  links,
	})
	asm.addr += len(data)

	return
}

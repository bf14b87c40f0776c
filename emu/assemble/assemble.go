/*
 * tinyvm - Line assembler for the tinyvm instruction set.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package assemble

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

/*
   One instruction per line, '#' starts a comment, no labels. Branch and
   jump targets are program counter deltas: "b r1, -3" branches back three
   words when r1 is non-zero. The ".word" directive emits a raw word, which
   is also the only way to write an intentionally illegal instruction.

     yield | cpuid | debug | time
     sw rA, rD          store rD at data[rA]
     lw rD, rA          load data[rA] into rD
     lwi rD, rA         load instructions[rA] into rD
     lo rD, imm         low byte, sign-extended
     hi rD, imm         high byte only
     decr|incr|not|popcnt|clz|ctz|rnd|mov rD[, rS]
     add|sub|mul|mulh|divu|divs|modu|mods|and|or|xor|sl|srl|sra rD, rS
     cmp.FLAGS rL, rR   FLAGS from l, e, g, plus s for signed
     b rR, delta        delta in 2..129 or -128..-1
     j delta            delta in 2..2049 or -2048..-1
     jr rR, offset      offset in -128..127
     jrh rR, imm        high byte from imm, low byte from rR
     .word value
*/

var specialMap = map[string]uint16{
	"yield": 0x102A,
	"cpuid": 0x102B,
	"debug": 0x102C,
	"time":  0x102D,
}

var unaryMap = map[string]uint16{
	"decr":   0x8,
	"incr":   0x9,
	"not":    0xA,
	"popcnt": 0xB,
	"clz":    0xC,
	"ctz":    0xD,
	"rnd":    0xE,
	"mov":    0xF,
}

var binaryMap = map[string]uint16{
	"add":  0x0,
	"sub":  0x1,
	"mul":  0x2,
	"mulh": 0x3,
	"divu": 0x4,
	"divs": 0x5,
	"modu": 0x6,
	"mods": 0x7,
	"and":  0x8,
	"or":   0x9,
	"xor":  0xA,
	"sl":   0xB,
	"srl":  0xC,
	"sra":  0xD,
}

// Program assembles a whole source text, skipping blank and comment lines.
func Program(src string) ([]uint16, error) {
	var words []uint16
	for number, line := range strings.Split(src, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		word, err := Instruction(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", number+1, err)
		}
		words = append(words, word)
	}
	return words, nil
}

// MustProgram is Program for hand-written sources, mostly in tests.
func MustProgram(src string) []uint16 {
	words, err := Program(src)
	if err != nil {
		panic(err)
	}
	return words
}

// Instruction assembles a single statement into one word.
func Instruction(line string) (uint16, error) {
	trimmed := strings.TrimSpace(line)
	mnemonic, rest := trimmed, ""
	if i := strings.IndexFunc(trimmed, unicode.IsSpace); i >= 0 {
		mnemonic, rest = trimmed[:i], trimmed[i+1:]
	}
	mnemonic = strings.ToLower(mnemonic)
	operands := splitOperands(rest)

	if word, ok := specialMap[mnemonic]; ok {
		if len(operands) != 0 {
			return 0, fmt.Errorf("%s takes no operands", mnemonic)
		}
		return word, nil
	}
	if function, ok := unaryMap[mnemonic]; ok {
		return assembleUnary(mnemonic, function, operands)
	}
	if function, ok := binaryMap[mnemonic]; ok {
		return assembleBinary(mnemonic, function, operands)
	}
	if flags, ok := strings.CutPrefix(mnemonic, "cmp."); ok {
		return assembleCompare(flags, operands)
	}

	switch mnemonic {
	case "sw":
		return assembleMemory(0x2000, mnemonic, operands)
	case "lw":
		return assembleMemory(0x2100, mnemonic, operands)
	case "lwi":
		return assembleMemory(0x2200, mnemonic, operands)
	case "lo", "hi":
		return assembleLoadImm(mnemonic, operands)
	case "b":
		return assembleBranch(operands)
	case "j":
		return assembleJump(operands)
	case "jr":
		return assembleJumpReg(operands)
	case "jrh":
		return assembleJumpRegHigh(operands)
	case ".word":
		if len(operands) != 1 {
			return 0, fmt.Errorf(".word takes one value")
		}
		return parseImm(operands[0], 0xFFFF)
	}
	return 0, fmt.Errorf("unknown mnemonic %q", mnemonic)
}

func splitOperands(rest string) []string {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil
	}
	parts := strings.Split(rest, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseRegister(operand string) (uint16, error) {
	name := strings.ToLower(operand)
	if !strings.HasPrefix(name, "r") {
		return 0, fmt.Errorf("expected register, got %q", operand)
	}
	number, err := strconv.ParseUint(name[1:], 10, 16)
	if err != nil || number > 15 {
		return 0, fmt.Errorf("bad register %q", operand)
	}
	return uint16(number), nil
}

// parseImm accepts decimal and hex values; negative values are truncated
// two's-complement into the field.
func parseImm(operand string, mask uint16) (uint16, error) {
	value, err := strconv.ParseInt(operand, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad immediate %q", operand)
	}
	if value > int64(mask) || value < -(int64(mask)+1)/2 {
		return 0, fmt.Errorf("immediate %q out of range", operand)
	}
	return uint16(value) & mask, nil
}

func assembleMemory(base uint16, mnemonic string, operands []string) (uint16, error) {
	if len(operands) != 2 {
		return 0, fmt.Errorf("%s takes two registers", mnemonic)
	}
	first, err := parseRegister(operands[0])
	if err != nil {
		return 0, err
	}
	second, err := parseRegister(operands[1])
	if err != nil {
		return 0, err
	}
	// sw names the address register first, the loads name the data
	// register first.
	if mnemonic == "sw" {
		return base | first<<4 | second, nil
	}
	return base | second<<4 | first, nil
}

func assembleLoadImm(mnemonic string, operands []string) (uint16, error) {
	if len(operands) != 2 {
		return 0, fmt.Errorf("%s takes a register and an immediate", mnemonic)
	}
	register, err := parseRegister(operands[0])
	if err != nil {
		return 0, err
	}
	value, err := parseImm(operands[1], 0x00FF)
	if err != nil {
		return 0, err
	}
	base := uint16(0x3000)
	if mnemonic == "hi" {
		base = 0x4000
	}
	return base | register<<8 | value, nil
}

func assembleUnary(mnemonic string, function uint16, operands []string) (uint16, error) {
	var dst, src uint16
	var err error
	switch len(operands) {
	case 1:
		// Single operand: source and destination coincide.
		dst, err = parseRegister(operands[0])
		src = dst
	case 2:
		dst, err = parseRegister(operands[0])
		if err == nil {
			src, err = parseRegister(operands[1])
		}
	default:
		return 0, fmt.Errorf("%s takes one or two registers", mnemonic)
	}
	if err != nil {
		return 0, err
	}
	return 0x5000 | function<<8 | src<<4 | dst, nil
}

func assembleBinary(mnemonic string, function uint16, operands []string) (uint16, error) {
	if len(operands) != 2 {
		return 0, fmt.Errorf("%s takes two registers", mnemonic)
	}
	dst, err := parseRegister(operands[0])
	if err != nil {
		return 0, err
	}
	src, err := parseRegister(operands[1])
	if err != nil {
		return 0, err
	}
	return 0x6000 | function<<8 | src<<4 | dst, nil
}

func assembleCompare(flags string, operands []string) (uint16, error) {
	if len(operands) != 2 {
		return 0, fmt.Errorf("cmp takes two registers")
	}
	lhs, err := parseRegister(operands[0])
	if err != nil {
		return 0, err
	}
	rhs, err := parseRegister(operands[1])
	if err != nil {
		return 0, err
	}
	word := uint16(0x8000) | lhs<<4 | rhs
	for _, flag := range flags {
		switch flag {
		case 'l':
			word |= 0x0800
		case 'e':
			word |= 0x0400
		case 'g':
			word |= 0x0200
		case 's':
			word |= 0x0100
		default:
			return 0, fmt.Errorf("bad compare flag %q", flag)
		}
	}
	return word, nil
}

func assembleBranch(operands []string) (uint16, error) {
	if len(operands) != 2 {
		return 0, fmt.Errorf("b takes a register and a delta")
	}
	register, err := parseRegister(operands[0])
	if err != nil {
		return 0, err
	}
	delta, err := strconv.ParseInt(operands[1], 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad delta %q", operands[1])
	}
	word := uint16(0x9000) | register<<8
	switch {
	case delta >= 2 && delta <= 129:
		return word | uint16(delta-2), nil
	case delta >= -128 && delta <= -1:
		return word | 0x0080 | uint16(-delta-1), nil
	}
	return 0, fmt.Errorf("branch delta %d out of range", delta)
}

func assembleJump(operands []string) (uint16, error) {
	if len(operands) != 1 {
		return 0, fmt.Errorf("j takes a delta")
	}
	delta, err := strconv.ParseInt(operands[0], 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad delta %q", operands[0])
	}
	switch {
	case delta >= 2 && delta <= 2049:
		return 0xA000 | uint16(delta-2), nil
	case delta >= -2048 && delta <= -1:
		return 0xA800 | uint16(-delta-1), nil
	}
	return 0, fmt.Errorf("jump delta %d out of range", delta)
}

func assembleJumpReg(operands []string) (uint16, error) {
	if len(operands) != 2 {
		return 0, fmt.Errorf("jr takes a register and an offset")
	}
	register, err := parseRegister(operands[0])
	if err != nil {
		return 0, err
	}
	offset, err := strconv.ParseInt(operands[1], 0, 32)
	if err != nil || offset < -128 || offset > 127 {
		return 0, fmt.Errorf("bad offset %q", operands[1])
	}
	return 0xB000 | register<<8 | uint16(offset)&0x00FF, nil
}

func assembleJumpRegHigh(operands []string) (uint16, error) {
	if len(operands) != 2 {
		return 0, fmt.Errorf("jrh takes a register and an immediate")
	}
	register, err := parseRegister(operands[0])
	if err != nil {
		return 0, err
	}
	value, err := parseImm(operands[1], 0x00FF)
	if err != nil {
		return 0, err
	}
	return 0xC000 | register<<8 | value, nil
}

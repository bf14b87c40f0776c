/*
 * tinyvm - 16-bit virtual machine core.
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

package vm

import (
	"fmt"
	"math/bits"
	"os"

	"github.com/BenWiederhake/tinyvm/emu/rng"
	"github.com/BenWiederhake/tinyvm/emu/segment"
)

/*
   The machine has 16 word-sized registers, a word-sized program counter, one
   instruction segment and one data segment of 65536 words each, plus the
   64-bit step counter that the time instruction reads. There is no other
   state visible to guest code. Instructions are one word and decode by
   the top nibble:

      0x0  illegal                  0x8  compare
      0x1  special (yield, cpuid,   0x9  branch (conditional, relative)
           debug-dump, time)        0xA  jump by immediate (relative)
      0x2  memory load/store        0xB  jump to register
      0x3  load immediate low       0xC  jump to register, high byte
      0x4  load immediate high      0xD  illegal
      0x5  unary functions          0xE  illegal
      0x6  binary functions         0xF  illegal
      0x7  illegal

   Guest code has no I/O. Its only channel to the host is the yield
   instruction, which surfaces register 0 through the step result.
*/

// Number of registers in the register file.
const NumRegisters = 16

// Gates the debug-dump printer; guests cannot observe the difference.
var dumpOnDebug = os.Getenv("TINYVM_DUMP_ON_DEBUG") != ""

type StepKind int

const (
	// Nothing to report, the host should keep stepping.
	Continue StepKind = iota
	// The guest executed a debug-dump; hosts may inspect state and resume.
	DebugDump
	// The guest hit an unassigned encoding. PC and time are unchanged.
	IllegalInstruction
	// The guest cooperatively paused and handed over a value.
	Yield
)

// StepResult is what a single fetch-decode-execute cycle reports back.
// Value carries the raw word for IllegalInstruction and the yielded value
// for Yield; it is zero otherwise.
type StepResult struct {
	Kind  StepKind
	Value uint16
}

func (r StepResult) String() string {
	switch r.Kind {
	case Continue:
		return "Continue"
	case DebugDump:
		return "DebugDump"
	case IllegalInstruction:
		return fmt.Sprintf("IllegalInstruction(0x%04x)", r.Value)
	case Yield:
		return fmt.Sprintf("Yield(0x%04x)", r.Value)
	}
	return fmt.Sprintf("StepResult(%d, 0x%04x)", int(r.Kind), r.Value)
}

// VirtualMachine owns its two segments and register file exclusively.
type VirtualMachine struct {
	registers          [NumRegisters]uint16
	programCounter     uint16
	time               uint64
	instructions       *segment.Segment
	data               *segment.Segment
	deterministicSoFar bool
	dumpedInputMemory  bool
}

func New(instructions, data *segment.Segment) *VirtualMachine {
	return &VirtualMachine{
		instructions:       instructions,
		data:               data,
		deterministicSoFar: true,
	}
}

func (m *VirtualMachine) Registers() [NumRegisters]uint16 {
	return m.registers
}

func (m *VirtualMachine) Register(index int) uint16 {
	return m.registers[index]
}

func (m *VirtualMachine) SetRegister(index int, value uint16) {
	m.registers[index] = value
}

func (m *VirtualMachine) ProgramCounter() uint16 {
	return m.programCounter
}

func (m *VirtualMachine) SetProgramCounter(value uint16) {
	m.programCounter = value
}

// Time counts successfully executed steps. Illegal instructions are not
// steps and leave it unchanged.
func (m *VirtualMachine) Time() uint64 {
	return m.time
}

func (m *VirtualMachine) Instructions() *segment.Segment {
	return m.instructions
}

func (m *VirtualMachine) Data() *segment.Segment {
	return m.data
}

func (m *VirtualMachine) SetDataWord(index, value uint16) {
	m.data[index] = value
}

// WasDeterministicSoFar reports whether the machine has never executed the
// rnd instruction. Monotone: once false, false forever.
func (m *VirtualMachine) WasDeterministicSoFar() bool {
	return m.deterministicSoFar
}

// Reset zeroes the data segment, registers and program counter. Time, the
// instruction segment and the determinism flag are left alone.
func (m *VirtualMachine) Reset() {
	*m.data = segment.Segment{}
	m.registers = [NumRegisters]uint16{}
	m.programCounter = 0
}

// Step runs one fetch-decode-execute cycle. The program counter advances by
// one word unless the instruction was a jump, a taken branch, or illegal.
func (m *VirtualMachine) Step() StepResult {
	instruction := m.instructions[m.programCounter]
	incrementPCAsUsual := true
	var result StepResult
	switch instruction & 0xF000 {
	// 0x0000 unassigned
	case 0x1000:
		result = m.stepSpecial(instruction)
	case 0x2000:
		result = m.stepMemory(instruction)
	case 0x3000:
		result = m.stepLoadImmLow(instruction)
	case 0x4000:
		result = m.stepLoadImmHigh(instruction)
	case 0x5000:
		result = m.stepUnary(instruction)
	case 0x6000:
		result = m.stepBinary(instruction)
	// 0x7000 unassigned
	case 0x8000:
		result = m.stepCompare(instruction)
	case 0x9000:
		result = m.stepBranch(instruction, &incrementPCAsUsual)
	case 0xA000:
		incrementPCAsUsual = false
		result = m.stepJumpImm(instruction)
	case 0xB000:
		incrementPCAsUsual = false
		result = m.stepJumpReg(instruction)
	case 0xC000:
		incrementPCAsUsual = false
		result = m.stepJumpRegHigh(instruction)
	// 0xD000, 0xE000, 0xF000 unassigned
	default:
		result = StepResult{Kind: IllegalInstruction, Value: instruction}
	}

	if result.Kind == IllegalInstruction {
		// Illegal attempts freeze the machine: no PC change, no time.
		return result
	}
	if incrementPCAsUsual {
		m.programCounter++
	}
	m.time++
	return result
}

func (m *VirtualMachine) stepSpecial(instruction uint16) StepResult {
	switch instruction & 0x0FFF {
	case 0x02A:
		// Yield. The PC still advances, so the guest resumes after it.
		return StepResult{Kind: Yield, Value: m.registers[0]}
	case 0x02B:
		// CPUID. Feature word in r0 for query 0, zeros for anything else.
		if m.registers[0] == 0x0000 {
			m.registers[0] = 0x8000
		} else {
			m.registers[0] = 0x0000
		}
		m.registers[1] = 0x0000
		m.registers[2] = 0x0000
		m.registers[3] = 0x0000
		return StepResult{Kind: Continue}
	case 0x02C:
		m.maybeDumpState()
		return StepResult{Kind: DebugDump}
	case 0x02D:
		// Time. 64-bit counter into r0..r3, most significant word first.
		m.registers[0] = uint16(m.time >> 48)
		m.registers[1] = uint16(m.time >> 32)
		m.registers[2] = uint16(m.time >> 16)
		m.registers[3] = uint16(m.time)
		return StepResult{Kind: Continue}
	}
	return StepResult{Kind: IllegalInstruction, Value: instruction}
}

func (m *VirtualMachine) stepMemory(instruction uint16) StepResult {
	memoryCommand := (instruction & 0x0F00) >> 8
	registerAddress := (instruction & 0x00F0) >> 4
	registerData := instruction & 0x000F
	address := m.registers[registerAddress]

	switch memoryCommand {
	case 0:
		m.data[address] = m.registers[registerData]
	case 1:
		m.registers[registerData] = m.data[address]
	case 2:
		m.registers[registerData] = m.instructions[address]
	default:
		return StepResult{Kind: IllegalInstruction, Value: instruction}
	}
	return StepResult{Kind: Continue}
}

func (m *VirtualMachine) stepLoadImmLow(instruction uint16) StepResult {
	register := (instruction & 0x0F00) >> 8
	data := signExtendByte(instruction & 0x00FF)
	m.registers[register] = data
	return StepResult{Kind: Continue}
}

func (m *VirtualMachine) stepLoadImmHigh(instruction uint16) StepResult {
	register := (instruction & 0x0F00) >> 8
	data := (instruction & 0x00FF) << 8
	m.registers[register] = (m.registers[register] & 0x00FF) | data
	return StepResult{Kind: Continue}
}

func (m *VirtualMachine) stepUnary(instruction uint16) StepResult {
	function := (instruction & 0x0F00) >> 8
	source := m.registers[(instruction&0x00F0)>>4]
	destination := &m.registers[instruction&0x000F]

	switch function {
	case 0b1000: // decr
		*destination = source - 1
	case 0b1001: // incr
		*destination = source + 1
	case 0b1010: // not
		*destination = ^source
	case 0b1011: // popcnt
		*destination = uint16(bits.OnesCount16(source))
	case 0b1100: // clz
		*destination = uint16(bits.LeadingZeros16(source))
	case 0b1101: // ctz
		*destination = uint16(bits.TrailingZeros16(source))
	case 0b1110: // rnd, never larger than the argument
		m.deterministicSoFar = false
		*destination = rng.UpToIncluding(source)
	case 0b1111: // mov
		*destination = source
	default:
		return StepResult{Kind: IllegalInstruction, Value: instruction}
	}
	return StepResult{Kind: Continue}
}

func (m *VirtualMachine) stepBinary(instruction uint16) StepResult {
	function := (instruction & 0x0F00) >> 8
	source := m.registers[(instruction&0x00F0)>>4]
	destination := &m.registers[instruction&0x000F]

	switch function {
	case 0b0000: // add
		*destination = source + *destination
	case 0b0001: // sub
		*destination = source - *destination
	case 0b0010: // mul, low word
		*destination = source * *destination
	case 0b0011: // mulh, high word of the unsigned widening product
		*destination = uint16((uint32(source) * uint32(*destination)) >> 16)
	case 0b0100: // div.u, x/0 = 0xFFFF
		if *destination == 0 {
			*destination = 0xFFFF
		} else {
			*destination = source / *destination
		}
	case 0b0101: // div.s, x/0 = 0x7FFF, 0x8000/0xFFFF = 0x8000
		if *destination == 0 {
			*destination = 0x7FFF
		} else {
			*destination = uint16(int16(source) / int16(*destination))
		}
	case 0b0110: // mod.u, x%0 = 0
		if *destination == 0 {
			*destination = 0x0000
		} else {
			*destination = source % *destination
		}
	case 0b0111: // mod.s, x%0 = 0
		if *destination == 0 {
			*destination = 0x0000
		} else {
			*destination = uint16(int16(source) % int16(*destination))
		}
	case 0b1000: // and
		*destination &= source
	case 0b1001: // or
		*destination |= source
	case 0b1010: // xor
		*destination ^= source
	case 0b1011: // sl, shifts of 16 or more clear the result
		if *destination >= 16 {
			*destination = 0
		} else {
			*destination = source << *destination
		}
	case 0b1100: // srl, shifts of 16 or more clear the result
		if *destination >= 16 {
			*destination = 0
		} else {
			*destination = source >> *destination
		}
	case 0b1101: // sra, shifts of 16 or more leave only the sign
		if *destination >= 16 {
			if source&0x8000 != 0 {
				*destination = 0xFFFF
			} else {
				*destination = 0
			}
		} else {
			*destination = uint16(int16(source) >> *destination)
		}
	default:
		return StepResult{Kind: IllegalInstruction, Value: instruction}
	}
	return StepResult{Kind: Continue}
}

func (m *VirtualMachine) stepCompare(instruction uint16) StepResult {
	flagL := instruction&0x0800 != 0
	flagE := instruction&0x0400 != 0
	flagG := instruction&0x0200 != 0
	flagS := instruction&0x0100 != 0
	registerLhs := (instruction & 0x00F0) >> 4
	registerRhs := instruction & 0x000F

	var lhs, rhs int32
	if flagS {
		lhs = int32(int16(m.registers[registerLhs]))
		rhs = int32(int16(m.registers[registerRhs]))
	} else {
		lhs = int32(m.registers[registerLhs])
		rhs = int32(m.registers[registerRhs])
	}
	if registerLhs == registerRhs {
		// Colliding operands compare against zero, not against themselves.
		rhs = 0
	}
	if (flagL && lhs < rhs) || (flagE && lhs == rhs) || (flagG && lhs > rhs) {
		m.registers[registerRhs] = 1
	} else {
		m.registers[registerRhs] = 0
	}
	return StepResult{Kind: Continue}
}

func (m *VirtualMachine) stepBranch(instruction uint16, incrementPCAsUsual *bool) StepResult {
	register := (instruction & 0x0F00) >> 8
	if m.registers[register] != 0 {
		*incrementPCAsUsual = false
		offset := instruction & 0x007F
		if instruction&0x0080 == 0 {
			m.programCounter += 2 + offset
		} else {
			m.programCounter -= 1 + offset
		}
	}
	return StepResult{Kind: Continue}
}

func (m *VirtualMachine) stepJumpImm(instruction uint16) StepResult {
	offset := instruction & 0x07FF
	if instruction&0x0800 == 0 {
		m.programCounter += 2 + offset
	} else {
		m.programCounter -= 1 + offset
	}
	return StepResult{Kind: Continue}
}

func (m *VirtualMachine) stepJumpReg(instruction uint16) StepResult {
	register := (instruction & 0x0F00) >> 8
	offset := signExtendByte(instruction & 0x00FF)
	m.programCounter = m.registers[register] + offset
	return StepResult{Kind: Continue}
}

func (m *VirtualMachine) stepJumpRegHigh(instruction uint16) StepResult {
	register := (instruction & 0x0F00) >> 8
	byteHigh := (instruction & 0x00FF) << 8
	byteLow := m.registers[register] & 0x00FF
	m.programCounter = byteHigh | byteLow
	return StepResult{Kind: Continue}
}

func signExtendByte(value uint16) uint16 {
	return uint16(int16(int8(uint8(value))))
}

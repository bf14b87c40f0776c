/*
 * tinyvm - Debug-dump printing.
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

import "fmt"

// maybeDumpState prints the machine state when TINYVM_DUMP_ON_DEBUG is set.
// The data segment prefix is printed on the first dump only, gated by the
// one-shot latch, so loops over debug-dump stay readable.
func (m *VirtualMachine) maybeDumpState() {
	if !dumpOnDebug {
		return
	}
	fmt.Printf("=== BEGIN DEBUG DUMP ===  Time: %08X\n", m.time)
	fmt.Printf("PC: %04X (byte offset %05X)\n", m.programCounter, 2*uint32(m.programCounter))
	fmt.Print("  Insns after debug:")
	for i := uint16(1); i < 9; i++ {
		fmt.Printf(" %04X", m.instructions[m.programCounter+i])
	}
	fmt.Println()
	fmt.Print("Regs:")
	for i, value := range m.registers {
		fmt.Printf(" %04X", value)
		if i == 7 {
			fmt.Print("    ")
		}
	}
	fmt.Println()
	if !m.dumpedInputMemory {
		m.dumpedInputMemory = true
		fmt.Println("Input data segment, first 64 words:")
		for row := 0; row < 8; row++ {
			for col := 0; col < 8; col++ {
				fmt.Printf(" %04X", m.data[uint16(row*8+col)])
			}
			fmt.Println()
		}
	}
	fmt.Println("=== END DEBUG DUMP ===")
}

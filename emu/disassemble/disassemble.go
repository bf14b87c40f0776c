/*
 * tinyvm - Instruction word rendering.
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

package disassemble

import "fmt"

// Mnemonics match what emu/assemble accepts, so a rendered word normally
// assembles back to itself. Unassigned encodings render as ".word", and a
// compare without any selected relation as "cmp.never".

var unaryNames = [8]string{"decr", "incr", "not", "popcnt", "clz", "ctz", "rnd", "mov"}

var binaryNames = [14]string{
	"add", "sub", "mul", "mulh", "divu", "divs", "modu", "mods",
	"and", "or", "xor", "sl", "srl", "sra",
}

// Disassemble renders a single instruction word.
func Disassemble(word uint16) string {
	switch word & 0xF000 {
	case 0x1000:
		switch word {
		case 0x102A:
			return "yield"
		case 0x102B:
			return "cpuid"
		case 0x102C:
			return "debug"
		case 0x102D:
			return "time"
		}
	case 0x2000:
		registerAddress := (word & 0x00F0) >> 4
		registerData := word & 0x000F
		switch (word & 0x0F00) >> 8 {
		case 0:
			return fmt.Sprintf("sw r%d, r%d", registerAddress, registerData)
		case 1:
			return fmt.Sprintf("lw r%d, r%d", registerData, registerAddress)
		case 2:
			return fmt.Sprintf("lwi r%d, r%d", registerData, registerAddress)
		}
	case 0x3000:
		return fmt.Sprintf("lo r%d, 0x%02X", (word&0x0F00)>>8, word&0x00FF)
	case 0x4000:
		return fmt.Sprintf("hi r%d, 0x%02X", (word&0x0F00)>>8, word&0x00FF)
	case 0x5000:
		function := (word & 0x0F00) >> 8
		if function >= 8 {
			return fmt.Sprintf("%s r%d, r%d", unaryNames[function-8], word&0x000F, (word&0x00F0)>>4)
		}
	case 0x6000:
		function := (word & 0x0F00) >> 8
		if function < 14 {
			return fmt.Sprintf("%s r%d, r%d", binaryNames[function], word&0x000F, (word&0x00F0)>>4)
		}
	case 0x8000:
		flags := ""
		if word&0x0800 != 0 {
			flags += "l"
		}
		if word&0x0400 != 0 {
			flags += "e"
		}
		if word&0x0200 != 0 {
			flags += "g"
		}
		if word&0x0100 != 0 {
			flags += "s"
		}
		if flags == "" {
			flags = "never"
		}
		return fmt.Sprintf("cmp.%s r%d, r%d", flags, (word&0x00F0)>>4, word&0x000F)
	case 0x9000:
		delta := int(word&0x007F) + 2
		if word&0x0080 != 0 {
			delta = -int(word&0x007F) - 1
		}
		return fmt.Sprintf("b r%d, %d", (word&0x0F00)>>8, delta)
	case 0xA000:
		delta := int(word&0x07FF) + 2
		if word&0x0800 != 0 {
			delta = -int(word&0x07FF) - 1
		}
		return fmt.Sprintf("j %d", delta)
	case 0xB000:
		return fmt.Sprintf("jr r%d, %d", (word&0x0F00)>>8, int(int8(uint8(word&0x00FF))))
	case 0xC000:
		return fmt.Sprintf("jrh r%d, 0x%02X", (word&0x0F00)>>8, word&0x00FF)
	}
	return fmt.Sprintf(".word 0x%04X", word)
}

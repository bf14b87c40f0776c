/*
 * tinyvm - Hexadecimal formatting helpers.
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

package hex

import "strings"

var hexMap = "0123456789ABCDEF"

// Format a 16-bit word as four hex digits.
func FormatWord(str *strings.Builder, word uint16) {
	shift := 12
	for i := 0; i < 4; i++ {
		str.WriteByte(hexMap[(word>>shift)&0xf])
		shift -= 4
	}
}

// Format a sequence of words, optionally separated by spaces.
func FormatWords(str *strings.Builder, space bool, words []uint16) {
	for _, word := range words {
		FormatWord(str, word)
		if space {
			str.WriteByte(' ')
		}
	}
}

// Format a 64-bit counter as sixteen hex digits, most significant first.
func FormatLong(str *strings.Builder, full uint64) {
	shift := 60
	for i := 0; i < 16; i++ {
		str.WriteByte(hexMap[(full>>shift)&0xf])
		shift -= 4
	}
}

func FormatByte(str *strings.Builder, data byte) {
	str.WriteByte(hexMap[(data>>4)&0xf])
	str.WriteByte(hexMap[data&0xf])
}

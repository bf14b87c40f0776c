/*
 * tinyvm - Random number source for the rnd instruction.
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

package rng

import (
	"crypto/rand"
	"encoding/binary"
	"io"
)

var source io.Reader = rand.Reader

// SetSource replaces the randomness source, returning the previous one.
// Tests use this to make the rnd instruction reproducible.
func SetSource(r io.Reader) io.Reader {
	previous := source
	source = r
	return previous
}

// UpToIncluding returns a uniform value in [0, upperBound], inclusive.
// A 64-bit draw reduced mod (upperBound+1) biases any value by at most
// (2^16)/(2^64), far below anything observable.
func UpToIncluding(upperBound uint16) uint16 {
	var buf [8]byte
	// If the system RNG fails, nothing sensible can continue.
	if _, err := io.ReadFull(source, buf[:]); err != nil {
		panic("cannot satisfy rnd instruction: " + err.Error())
	}
	value := binary.BigEndian.Uint64(buf[:])
	return uint16(value % (uint64(upperBound) + 1))
}

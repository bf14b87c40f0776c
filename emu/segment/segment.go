/*
 * tinyvm - Word addressed memory segments.
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

package segment

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	hex "github.com/BenWiederhake/tinyvm/util/hex"
)

const (
	// Number of words in a segment.
	Words = 1 << 16
	// Exact size of a segment image on disk, two bytes per word.
	FileBytes = 2 * Words
)

// Segment is a 65536 word memory region. Every uint16 address is valid, so
// reads and writes cannot fail and wrap implicitly with the index type.
type Segment [Words]uint16

func NewZeroed() *Segment {
	return &Segment{}
}

// FromPrefix copies a short word sequence into the low addresses, leaving
// the remainder zero.
func FromPrefix(prefix []uint16) *Segment {
	if len(prefix) > Words {
		panic(fmt.Sprintf("prefix does not fit a segment, expected %d words or less, actual %d", Words, len(prefix)))
	}
	seg := NewZeroed()
	copy(seg[:], prefix)
	return seg
}

// FromBytes decodes a 131072 byte image as big-endian words.
func FromBytes(image []byte) (*Segment, error) {
	if len(image) != FileBytes {
		return nil, fmt.Errorf("wrong segment length, expected %d, got %d instead", FileBytes, len(image))
	}
	seg := NewZeroed()
	for i := 0; i < Words; i++ {
		seg[i] = binary.BigEndian.Uint16(image[2*i:])
	}
	return seg, nil
}

// LoadFile reads a segment image from disk.
func LoadFile(fileName string) (*Segment, error) {
	image, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	seg, err := FromBytes(image)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return seg, nil
}

func (s *Segment) Equal(other *Segment) bool {
	return *s == *other
}

// String renders the segment with runs of four or more identical words
// collapsed, keeping dumps of mostly-zero segments readable.
func (s *Segment) String() string {
	var str strings.Builder
	str.WriteString("Segment { backing: [")
	hex.FormatWord(&str, s[0])
	lastWord := s[0]
	repetitions := 0
	for _, word := range s[1:] {
		if word == lastWord {
			repetitions++
			continue
		}
		closeRepetitions(&str, lastWord, repetitions)
		repetitions = 0
		str.WriteString(", ")
		hex.FormatWord(&str, word)
		lastWord = word
	}
	closeRepetitions(&str, lastWord, repetitions)
	str.WriteString("] }")
	return str.String()
}

func closeRepetitions(str *strings.Builder, lastWord uint16, repetitions int) {
	if repetitions < 4 {
		for i := 0; i < repetitions; i++ {
			str.WriteString(", ")
			hex.FormatWord(str, lastWord)
		}
		return
	}
	fmt.Fprintf(str, ", <elided %d repetitions>", repetitions)
}

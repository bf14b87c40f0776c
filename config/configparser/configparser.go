/*
 * tinyvm - Run-control file parser.
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

package configparser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

/* Run-control file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * <line> := <keyword> <whitespace> <value>
 * <keyword> ::= <string>
 * <value> ::= rest of the line, trimmed
 *
 * Keywords are registered by the program before loading; an unregistered
 * keyword is an error naming the offending line.
 */

// Handler applies one keyword's value.
type Handler func(value string) error

var handlers = map[string]Handler{}

// Register should be called before LoadFile, typically from main.
func Register(keyword string, fn Handler) {
	handlers[strings.ToLower(keyword)] = fn
}

// LoadFile reads and applies a run-control file.
func LoadFile(fileName string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()
	return Load(file)
}

// Load reads and applies run-control lines.
func Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		keyword, value := line, ""
		if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
			keyword, value = line[:i], line[i+1:]
		}
		fn, ok := handlers[strings.ToLower(keyword)]
		if !ok {
			return fmt.Errorf("line %d: unknown keyword %q", lineNumber, keyword)
		}
		if err := fn(strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("line %d: %s: %w", lineNumber, keyword, err)
		}
	}
	return scanner.Err()
}

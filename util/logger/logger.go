/*
 * tinyvm - Log message handler.
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

package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogHandler writes single line records to an optional log file. Records at
// Info and above are mirrored to stderr; Debug records reach stderr only when
// the debug flag is set.
type LogHandler struct {
	out   io.Writer
	mu    *sync.Mutex
	attrs []slog.Attr
	level slog.Level
	debug bool
}

func NewHandler(file io.Writer, level slog.Level, debug bool) *LogHandler {
	return &LogHandler{
		out:   file,
		mu:    &sync.Mutex{},
		level: level,
		debug: debug,
	}
}

func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &LogHandler{out: h.out, mu: h.mu, attrs: merged, level: h.level, debug: h.debug}
}

func (h *LogHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	strs := []string{
		r.Time.Format("2006/01/02 15:04:05"),
		r.Level.String() + ":",
		r.Message,
	}
	for _, a := range h.attrs {
		strs = append(strs, a.Value.String())
	}
	if r.NumAttrs() != 0 {
		r.Attrs(func(a slog.Attr) bool {
			strs = append(strs, a.Value.String())
			return true
		})
	}
	b := []byte(strings.Join(strs, " ") + "\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}
	if h.debug || r.Level > slog.LevelDebug {
		_, err = os.Stderr.Write(b)
	}
	return err
}

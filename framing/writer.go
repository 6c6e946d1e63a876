/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package framing

import (
	"io"
)

// Writer composes tagged, length-prefixed envelopes into an underlying
// stream, reusing a scratch buffer across calls.
type Writer struct {
	dst   io.Writer
	batch []byte
}

// NewWriter wraps dst for envelope writes.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst}
}

// WriteMessage encodes one envelope and flushes it immediately.
func (w *Writer) WriteMessage(mtype byte, payload []byte) error {
	buf, err := Encode(nil, mtype, payload)
	if err != nil {
		return err
	}
	_, werr := w.dst.Write(buf)
	return werr
}

// Queue appends one envelope to the pending batch without writing it.
func (w *Writer) Queue(mtype byte, payload []byte) error {
	buf, err := Encode(w.batch, mtype, payload)
	if err != nil {
		return err
	}
	w.batch = buf
	return nil
}

// Flush writes and clears the queued batch, used to pipeline several
// messages (e.g. Parse + Execute + Sync) in a single write syscall.
func (w *Writer) Flush() error {
	if len(w.batch) == 0 {
		return nil
	}
	_, err := w.dst.Write(w.batch)
	w.batch = w.batch[:0]
	return err
}

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

package gelerr

import (
	"fmt"
	"runtime"
	"strings"
)

// Error extends the standard error with a stable kind tag and a cause chain.
type Error interface {
	error

	// Kind returns the stable kind tag for this error.
	Kind() CodeError
	// Is compares e with err: by trace when both carry one, else by kind
	// when both are classified, else by message, case-insensitively. An err
	// that is not a gelerr error is compared by its Error() text.
	Is(err error) bool
	// HasKind reports whether e or any of its causes carries kind.
	HasKind(kind CodeError) bool
	// Add appends causes to this error's chain.
	Add(causes ...error)
	// Causes returns the direct cause chain in the order the causes were added.
	Causes() []error
	// Trace returns "file:line" of where the error was constructed.
	Trace() string
}

type gelError struct {
	kind   CodeError
	msg    string
	causes []error
	trace  string
}

// New constructs an Error with the given kind, message, and optional causes.
func New(kind CodeError, msg string, causes ...error) Error {
	e := &gelError{
		kind:   kind,
		msg:    msg,
		causes: make([]error, 0, len(causes)),
		trace:  callerTrace(2),
	}
	e.Add(causes...)
	return e
}

// Newf is New with fmt.Sprintf-style message formatting.
func Newf(kind CodeError, format string, args ...interface{}) Error {
	return New(kind, fmt.Sprintf(format, args...))
}

func callerTrace(skip int) string {
	if _, file, line, ok := runtime.Caller(skip); ok {
		return fmt.Sprintf("%s:%d", file, line)
	}
	return ""
}

func (e *gelError) Error() string {
	if len(e.causes) == 0 {
		return e.msg
	}

	var b strings.Builder
	b.WriteString(e.msg)
	for _, c := range e.causes {
		b.WriteString(": ")
		b.WriteString(c.Error())
	}
	return b.String()
}

func (e *gelError) Kind() CodeError {
	return e.kind
}

func (e *gelError) Trace() string {
	return e.trace
}

func (e *gelError) Causes() []error {
	return e.causes
}

func (e *gelError) Add(causes ...error) {
	for _, c := range causes {
		if c != nil {
			e.causes = append(e.causes, c)
		}
	}
}

func (e *gelError) HasKind(kind CodeError) bool {
	if e.kind == kind {
		return true
	}
	for _, c := range e.causes {
		if g, ok := c.(Error); ok && g.HasKind(kind) {
			return true
		}
	}
	return false
}

func (e *gelError) Is(err error) bool {
	if err == nil {
		return false
	}

	if g, ok := err.(*gelError); ok {
		if e.trace != "" && g.trace != "" {
			return e.trace == g.trace
		}
		if e.kind != UnknownError && g.kind != UnknownError {
			return e.kind == g.kind
		}
		return strings.EqualFold(e.msg, g.msg)
	}

	return strings.EqualFold(e.Error(), err.Error())
}

// Kind extracts the CodeError of err if it implements Error, else UnknownError.
func Kind(err error) CodeError {
	if g, ok := err.(Error); ok {
		return g.Kind()
	}
	return UnknownError
}

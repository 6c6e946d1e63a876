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

// Package gelerr provides the stable kind-tagged error type shared by every
// layer of the client: transport, framing, codec, protocol, and config.
//
// Every error carries a numeric Kind (a CodeError, similar in spirit to an
// HTTP status code) plus an optional chain of causes. Kinds are partitioned
// into per-layer ranges so that a caller can tell which layer produced an
// error without string-matching its message.
package gelerr

import (
	"math"
	"strconv"
)

// CodeError is a stable, numeric error-kind tag. Zero means "unclassified".
type CodeError uint16

const (
	// UnknownError is the fallback kind when no specific kind applies.
	UnknownError CodeError = 0
)

// Per-layer code ranges, mirroring the teacher's MinPkgXxx convention but
// re-scoped to this module's five layers.
const (
	MinTransport CodeError = 100
	MinFraming   CodeError = 200
	MinCodec     CodeError = 300
	MinProtocol  CodeError = 400
	MinConfig    CodeError = 500
)

// ParseCodeError clamps an arbitrary integer into the CodeError range.
func ParseCodeError(i int64) CodeError {
	switch {
	case i < 0:
		return UnknownError
	case i >= int64(math.MaxUint16):
		return CodeError(math.MaxUint16)
	default:
		return CodeError(i)
	}
}

// Uint16 returns the raw numeric kind.
func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

// String renders the numeric kind.
func (c CodeError) String() string {
	return strconv.Itoa(int(c))
}

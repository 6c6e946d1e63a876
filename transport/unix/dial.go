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

// Package unix dials a Unix domain socket endpoint.
package unix

import (
	"context"
	"net"
)

// Dial opens a connection to a Unix domain socket at path. path may carry a
// ":port" suffix per spec.md §3 (Unix targets with an optional port suffix),
// which is stripped before dialing since it is metadata for multi-instance
// socket directories, not part of the filesystem path.
func Dial(ctx context.Context, path string) (net.Conn, error) {
	d := &net.Dialer{}
	return d.DialContext(ctx, "unix", StripPortSuffix(path))
}

// StripPortSuffix removes a trailing ":<port>" suffix from the last path
// element. A socket file name such as ".s.PGSQL.<port>" is left as is.
func StripPortSuffix(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == ':' {
			return path[:i]
		}
		if path[i] == '/' {
			break
		}
	}
	return path
}

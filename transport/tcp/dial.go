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

// Package tcp dials a TCP endpoint and applies keepalive policy.
package tcp

import (
	"context"
	"net"
	"time"
)

// KeepAlive is the TCP keepalive policy applied to a dialed connection.
type KeepAlive struct {
	Enabled bool
	Period  time.Duration
}

// Dial opens a TCP connection to addr, applying ka if enabled.
func Dial(ctx context.Context, addr string, connectTimeout time.Duration, ka KeepAlive) (net.Conn, error) {
	d := &net.Dialer{Timeout: connectTimeout}
	if ka.Enabled {
		d.KeepAlive = ka.Period
	} else {
		d.KeepAlive = -1
	}

	return d.DialContext(ctx, "tcp", addr)
}

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

// Package transport resolves a connection target and opens a bidirectional
// byte stream over TCP or a Unix domain socket, optionally TLS-protected
// (direct or opportunistic STARTTLS), matching spec.md §4.1.
package transport

import (
	"time"

	"github.com/sabouaram/gelclient/tlspolicy"
	"github.com/sabouaram/gelclient/transport/tcp"
)

// Mode selects when the TLS handshake runs relative to Connect.
type Mode uint8

const (
	// NoTls never negotiates TLS.
	NoTls Mode = iota
	// Tls negotiates TLS immediately as part of Connect.
	Tls
	// StartTls defers the TLS handshake until SecureUpgrade is called.
	StartTls
)

// Endpoint identifies where to dial, either already resolved to a concrete
// address or left to be resolved once per Connect call.
type Endpoint struct {
	// TCPAddr is set for a Resolved TCP endpoint ("host:port").
	TCPAddr string
	// UnixPath is set for a Resolved Unix domain socket endpoint.
	UnixPath string

	// Host/Port describe an Unresolved endpoint; when TCPAddr is empty,
	// each Connect dials Host:Port without storing it back into TCPAddr.
	// Interface is carried but not used when dialing.
	Host      string
	Port      uint16
	Interface string
}

// IsUnix reports whether this endpoint names a Unix domain socket.
func (e Endpoint) IsUnix() bool {
	return e.UnixPath != ""
}

// Target is a connection endpoint plus the TLS parameters to apply to it.
type Target struct {
	Endpoint Endpoint
	Mode     Mode
	Policy   tlspolicy.Policy

	ConnectTimeout time.Duration
	KeepAlive      tcp.KeepAlive

	// IgnoreMissingTLSCloseNotify downgrades a truncated TLS shutdown to a
	// clean EOF on read. Re-opens truncation-attack surface for protocols
	// without an implicit length; opt in only for platforms/servers that
	// routinely close without close_notify (spec.md §4.1).
	IgnoreMissingTLSCloseNotify bool
}

// sniHost is the hostname the TLS policy should compute the SNI against.
func (t Target) sniHost() string {
	if t.Endpoint.IsUnix() {
		return ""
	}
	if t.Endpoint.Host != "" {
		return t.Endpoint.Host
	}
	return addrHost(t.Endpoint.TCPAddr)
}

func addrHost(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}

// TrySetTLS attaches params to the target unless the target is a Unix
// socket, in which case the attempt is silently rejected (spec.md §3:
// "Unix targets cannot carry TLS parameters").
func (t *Target) TrySetTLS(mode Mode, policy tlspolicy.Policy) (applied bool) {
	if t.Endpoint.IsUnix() {
		return false
	}
	t.Mode = mode
	t.Policy = policy
	return true
}

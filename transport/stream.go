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

package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	gelerr "github.com/sabouaram/gelclient/gelerr"
	"github.com/sabouaram/gelclient/transport/tcp"
	"github.com/sabouaram/gelclient/transport/unix"
)

// Stream is a bidirectional byte stream to the server, optionally
// TLS-protected. Not safe for concurrent use by multiple goroutines.
type Stream interface {
	net.Conn

	// IsConnected reports whether the underlying socket is still open.
	IsConnected() bool
	// SecureUpgrade runs the deferred TLS handshake for a StartTls target.
	// Idempotent in the sense that a second call fails with SslAlreadyUpgraded.
	SecureUpgrade(ctx context.Context) error
}

type stream struct {
	mu        sync.Mutex
	raw       net.Conn
	target    Target
	upgraded  bool
	connected bool
}

// Connect resolves t if necessary, opens the transport (TCP or Unix), and
// performs the TLS handshake immediately when t.Mode == Tls.
func Connect(ctx context.Context, t Target) (Stream, error) {
	raw, err := dial(ctx, t)
	if err != nil {
		return nil, gelerr.New(gelerr.Io, "dial failed", err)
	}

	s := &stream{raw: raw, target: t, connected: true}

	if t.Mode == Tls {
		if err := s.SecureUpgrade(ctx); err != nil {
			_ = raw.Close()
			return nil, err
		}
	}

	return s, nil
}

func dial(ctx context.Context, t Target) (net.Conn, error) {
	if t.Endpoint.IsUnix() {
		return unix.Dial(ctx, t.Endpoint.UnixPath)
	}

	addr := t.Endpoint.TCPAddr
	if addr == "" {
		addr = net.JoinHostPort(t.Endpoint.Host, strconv.Itoa(int(t.Endpoint.Port)))
	}

	return tcp.Dial(ctx, addr, t.ConnectTimeout, t.KeepAlive)
}

func (s *stream) SecureUpgrade(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.upgraded {
		return gelerr.New(gelerr.SslAlreadyUpgraded, "tls handshake already performed")
	}

	sni := s.target.sniHost()
	cfg := s.target.Policy.Build(sni)
	if s.target.Policy.SNIOverride != "" {
		cfg.ServerName = s.target.Policy.SNIOverride
	}

	tlsConn := tls.Client(s.raw, cfg)

	done := make(chan error, 1)
	go func() { done <- tlsConn.HandshakeContext(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			return normalizeHandshakeErr(err)
		}
	case <-ctx.Done():
		_ = s.raw.Close()
		return gelerr.New(gelerr.Io, "tls handshake timed out", ctx.Err())
	}

	s.raw = tlsConn
	s.upgraded = true
	return nil
}

func normalizeHandshakeErr(err error) gelerr.Error {
	return gelerr.New(gelerr.TlsInvalidProtocolData, "tls handshake failed", err)
}

func (s *stream) Read(b []byte) (int, error) {
	n, err := s.raw.Read(b)
	if err != nil && s.shouldTreatAsCleanEOF(err) {
		return n, io.EOF
	}
	return n, err
}

// shouldTreatAsCleanEOF implements IgnoreMissingTLSCloseNotify: a truncated
// TLS shutdown (no close_notify) is reported by crypto/tls as
// io.ErrUnexpectedEOF; downgrade it to a clean EOF when opted in.
func (s *stream) shouldTreatAsCleanEOF(err error) bool {
	if !s.target.IgnoreMissingTLSCloseNotify {
		return false
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || strings.Contains(err.Error(), "unexpected EOF")
}

func (s *stream) Write(b []byte) (int, error) { return s.raw.Write(b) }

func (s *stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return s.raw.Close()
}

func (s *stream) LocalAddr() net.Addr  { return s.raw.LocalAddr() }
func (s *stream) RemoteAddr() net.Addr { return s.raw.RemoteAddr() }

func (s *stream) SetDeadline(t time.Time) error      { return s.raw.SetDeadline(t) }
func (s *stream) SetReadDeadline(t time.Time) error  { return s.raw.SetReadDeadline(t) }
func (s *stream) SetWriteDeadline(t time.Time) error { return s.raw.SetWriteDeadline(t) }

func (s *stream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

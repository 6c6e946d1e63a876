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

package protocol_test

import (
	"context"
	"net"
	"time"

	"github.com/sabouaram/gelclient/framing"
	"github.com/sabouaram/gelclient/framing/message"
)

// fakeStream adapts one end of an in-memory net.Pipe to transport.Stream.
type fakeStream struct {
	net.Conn
}

func (f *fakeStream) IsConnected() bool { return true }

func (f *fakeStream) SecureUpgrade(ctx context.Context) error { return nil }

// testServer plays the server side of the wire protocol against a script
// of steps, each of which reads zero-or-one frontend messages and writes
// zero-or-more backend messages.
type testServer struct {
	r       *framing.Reader
	w       *framing.Writer
	version message.ProtocolVersion
}

func newTestServer(conn net.Conn) *testServer {
	return &testServer{
		r:       framing.NewReader(conn),
		w:       framing.NewWriter(conn),
		version: message.ProtocolVersion{Major: 2, Minor: 0},
	}
}

// readFrontend decodes the next client-to-server message using the table
// for the version currently in effect on this fake connection.
func (s *testServer) readFrontend() (message.Message, error) {
	env, err := s.r.Next()
	if err != nil {
		return nil, err
	}
	return message.Decode(message.TableFor(s.version), env.MType, env.Payload)
}

func (s *testServer) write(m message.Message) error {
	return s.w.WriteMessage(m.Tag(), m.Encode())
}

// newPipe returns a client-facing fakeStream and the raw server-side
// net.Conn, connected back to back.
func newPipe() (*fakeStream, net.Conn) {
	client, server := net.Pipe()
	_ = client.SetDeadline(time.Time{})
	_ = server.SetDeadline(time.Time{})
	return &fakeStream{Conn: client}, server
}

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

package protocol

import (
	"context"
	"sync"

	"github.com/sabouaram/gelclient/framing"
	"github.com/sabouaram/gelclient/framing/message"
	"github.com/sabouaram/gelclient/gellog"
	"github.com/sabouaram/gelclient/transport"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// clientMajor/clientMinor is the highest protocol version this client
// proposes during the handshake (spec.md §4.1).
const (
	clientMajor uint16 = 2
	clientMinor uint16 = 0
)

// ProposedVersion is the protocol version this client proposes on its
// first ClientHandshake, before any downgrade negotiation. Callers that
// must resolve a DatabaseBranch before connecting (spec.md §4.5) use this
// as the version their first attempt is made under.
func ProposedVersion() message.ProtocolVersion {
	return message.ProtocolVersion{Major: clientMajor, Minor: clientMinor}
}

// Params carries the connect-time parameters the handshake and
// authentication exchange need.
type Params struct {
	User     string
	Password string
	Database string
	Branch   string

	// Extra are additional ClientHandshake connection parameters, such as
	// an explicit "secret_key" or client-library version string.
	Extra map[string][]byte
}

// Conn is one authenticated connection to a server, tracking the protocol
// state machine across its lifetime. Not safe for concurrent use: the wire
// protocol is strictly request/response, so callers serialize their own
// access (spec.md §4.1).
type Conn struct {
	mu sync.Mutex

	stream transport.Stream
	r      *framing.Reader
	w      *framing.Writer
	log    gellog.Logger

	version message.ProtocolVersion
	state   State
	txn     message.TxnState

	serverKey [32]byte
	settings  map[string][]byte

	// pending holds a message already read off the wire but not yet
	// consumed by the next protocol phase (e.g. the reply to
	// ClientHandshake, read before we know whether it's a downgrade or the
	// start of authentication).
	pending message.Message
}

// Connect opens the handshake and authentication exchange over stream and
// returns a Conn ready to accept queries in StateIdle.
func Connect(ctx context.Context, stream transport.Stream, p Params, log gellog.Logger) (*Conn, error) {
	if log == nil {
		log = gellog.Discard()
	}

	c := &Conn{
		stream: stream,
		r:      framing.NewReader(stream),
		w:      framing.NewWriter(stream),
		log:    log,
		state:  StateConnecting,
	}

	if err := c.handshake(ctx, p); err != nil {
		return nil, err
	}

	c.state = StateAuthenticating
	if err := c.authenticate(ctx, p); err != nil {
		return nil, err
	}

	if err := c.awaitReady(); err != nil {
		return nil, err
	}

	c.state = StateIdle
	c.log.WithFields(gellog.Fields{"txn": string(c.txn)}).Info("connection ready")
	return c, nil
}

// State returns the connection's current lifecycle state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TxnState returns the transaction sub-state from the most recent
// ReadyForCommand.
func (c *Conn) TxnState() message.TxnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.txn
}

// ProtocolVersion returns the negotiated protocol version.
func (c *Conn) ProtocolVersion() message.ProtocolVersion {
	return c.version
}

// ServerSetting returns a parameter reported via ParameterStatus, if any.
func (c *Conn) ServerSetting(name string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.settings[name]
	return v, ok
}

// Close sends Terminate and closes the underlying stream.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return nil
	}
	c.state = StateClosing

	_ = c.w.WriteMessage(message.Terminate{}.Tag(), message.Terminate{}.Encode())
	err := c.stream.Close()
	c.state = StateClosed
	return err
}

func (c *Conn) writeMessage(m message.Message) error {
	return c.asError(c.w.WriteMessage(m.Tag(), m.Encode()))
}

func (c *Conn) queueMessage(m message.Message) error {
	return c.asError(c.w.Queue(m.Tag(), m.Encode()))
}

func (c *Conn) flush() error {
	return c.asError(c.w.Flush())
}

// readMessage reads and decodes the next backend message. The decode table
// is fixed regardless of protocol version: only frontend message shapes
// (Parse/Execute) vary with version (spec.md §4.1, §9).
func (c *Conn) readMessage() (message.Message, error) {
	env, err := c.r.Next()
	if err != nil {
		return nil, c.asError(err)
	}
	m, err := message.Decode(message.Backend, env.MType, env.Payload)
	if err != nil {
		return nil, c.asError(err)
	}
	return m, nil
}

// nextMessage returns a message already stashed in c.pending, if any,
// otherwise reads the next one off the wire.
func (c *Conn) nextMessage() (message.Message, error) {
	if c.pending != nil {
		m := c.pending
		c.pending = nil
		return m, nil
	}
	return c.readMessage()
}

// recordParameter folds a ParameterStatus into the connection's known
// server settings.
func (c *Conn) recordParameter(name, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settings == nil {
		c.settings = make(map[string][]byte)
	}
	c.settings[string(name)] = value
}

func (c *Conn) asError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(gelerr.Error); ok {
		return err
	}
	return gelerr.New(gelerr.Io, "protocol i/o error", err)
}

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

	"github.com/sabouaram/gelclient/framing/message"
	"github.com/sabouaram/gelclient/protocol/sasl"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// authenticate drives the Authentication* exchange that follows a
// successful handshake, including a full SCRAM-SHA-256 round trip when the
// server requires SASL (spec.md §4.1, §8 scenario 2).
func (c *Conn) authenticate(ctx context.Context, p Params) error {
	m, err := c.nextMessage()
	if err != nil {
		return err
	}

	switch auth := m.(type) {
	case message.AuthenticationOk:
		return nil
	case message.AuthenticationSASL:
		return c.runScramSHA256(ctx, auth, p)
	case message.ErrorResponse:
		return serverError(auth)
	default:
		return gelerr.Newf(gelerr.UnexpectedState, "unexpected message %T during authentication", m)
	}
}

func (c *Conn) runScramSHA256(ctx context.Context, offer message.AuthenticationSASL, p Params) error {
	if !hasMethod(offer.Methods, sasl.MethodScramSHA256) {
		return gelerr.Newf(gelerr.AuthFailed, "server did not offer %s, only %v", sasl.MethodScramSHA256, offer.Methods)
	}

	client, err := sasl.NewScramSHA256(p.User, p.Password)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return c.asError(err)
	}

	if err := c.writeMessage(message.AuthenticationSASLInitialResponse{
		Method:   sasl.MethodScramSHA256,
		SASLData: []byte(client.ClientFirstMessage()),
	}); err != nil {
		return err
	}

	m, err := c.readMessage()
	if err != nil {
		return err
	}
	cont, ok := m.(message.AuthenticationSASLContinue)
	if !ok {
		if errResp, isErr := m.(message.ErrorResponse); isErr {
			return serverError(errResp)
		}
		return gelerr.Newf(gelerr.UnexpectedState, "expected SASLContinue, got %T", m)
	}

	clientFinal, err := client.HandleServerFirstMessage(string(cont.SASLData))
	if err != nil {
		return err
	}

	if err := c.writeMessage(message.AuthenticationSASLResponse{SASLData: []byte(clientFinal)}); err != nil {
		return err
	}

	m, err = c.readMessage()
	if err != nil {
		return err
	}
	final, ok := m.(message.AuthenticationSASLFinal)
	if !ok {
		if errResp, isErr := m.(message.ErrorResponse); isErr {
			return serverError(errResp)
		}
		return gelerr.Newf(gelerr.UnexpectedState, "expected SASLFinal, got %T", m)
	}

	if err := client.HandleServerFinalMessage(string(final.SASLData)); err != nil {
		return err
	}

	m, err = c.readMessage()
	if err != nil {
		return err
	}
	if _, ok := m.(message.AuthenticationOk); !ok {
		if errResp, isErr := m.(message.ErrorResponse); isErr {
			return serverError(errResp)
		}
		return gelerr.Newf(gelerr.UnexpectedState, "expected AuthenticationOk, got %T", m)
	}

	return nil
}

func hasMethod(methods []string, want string) bool {
	for _, m := range methods {
		if m == want {
			return true
		}
	}
	return false
}

func serverError(e message.ErrorResponse) error {
	return gelerr.Newf(gelerr.ServerError, "server error 0x%08x: %s", e.Code, string(e.Message))
}

// awaitReady drains ServerKeyData/ParameterStatus/StateDataDescription
// messages until ReadyForCommand marks the connection Idle (spec.md §4.1,
// step 3). The server key and parameters are stored on the Conn; a
// StateDataDescription is read and dropped.
func (c *Conn) awaitReady() error {
	for {
		m, err := c.nextMessage()
		if err != nil {
			return err
		}

		switch v := m.(type) {
		case message.ServerKeyData:
			c.mu.Lock()
			c.serverKey = v.Data
			c.mu.Unlock()
		case message.ParameterStatus:
			c.recordParameter(v.Name, v.Value)
		case message.StateDataDescription:
			// Dropped: the Conn has no field for the state descriptor.
		case message.ReadyForCommand:
			c.mu.Lock()
			c.txn = v.State
			c.mu.Unlock()
			return nil
		case message.ErrorResponse:
			return serverError(v)
		default:
			return gelerr.Newf(gelerr.UnexpectedState, "unexpected message %T before ReadyForCommand", m)
		}
	}
}

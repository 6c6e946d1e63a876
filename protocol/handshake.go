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

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// handshake negotiates the protocol version, retrying at most once at a
// lower version the server proposes (spec.md §4.1: "handshake downgrade
// bounded to one retry").
func (c *Conn) handshake(ctx context.Context, p Params) error {
	major, minor := clientMajor, clientMinor
	retried := false

	for {
		if err := ctx.Err(); err != nil {
			return c.asError(err)
		}

		req := message.ClientHandshake{
			Major:  major,
			Minor:  minor,
			Params: c.handshakeParams(p),
		}
		if err := c.writeMessage(req); err != nil {
			return err
		}

		resp, err := c.readMessage()
		if err != nil {
			return err
		}

		sh, isDowngrade := resp.(message.ServerHandshake)
		if !isDowngrade {
			c.version = message.ProtocolVersion{Major: major, Minor: minor}
			return c.handleNonHandshakeFirstReply(resp)
		}

		if retried {
			return gelerr.Newf(gelerr.UnsupportedProtocolVersion,
				"server proposed %d.%d after a handshake retry was already spent", sh.Major, sh.Minor)
		}
		if sh.Major > major || (sh.Major == major && sh.Minor > minor) {
			return gelerr.Newf(gelerr.UnsupportedProtocolVersion,
				"server proposed %d.%d, higher than this client's %d.%d", sh.Major, sh.Minor, major, minor)
		}

		major, minor = sh.Major, sh.Minor
		retried = true
	}
}

func (c *Conn) handshakeParams(p Params) map[string][]byte {
	params := make(map[string][]byte, len(p.Extra)+3)
	for k, v := range p.Extra {
		params[k] = v
	}
	if p.User != "" {
		params["user"] = []byte(p.User)
	}
	if p.Database != "" {
		params["database"] = []byte(p.Database)
	}
	if p.Branch != "" {
		params["branch"] = []byte(p.Branch)
	}
	return params
}

// handleNonHandshakeFirstReply stashes the first post-handshake message so
// authenticate() does not need to issue a redundant read.
func (c *Conn) handleNonHandshakeFirstReply(first message.Message) error {
	c.pending = first
	return nil
}

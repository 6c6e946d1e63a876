/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package database

import (
	"fmt"

	"github.com/sabouaram/gelclient/config"
	"github.com/sabouaram/gelclient/framing/message"
	"github.com/sabouaram/gelclient/protocol"
	"github.com/sabouaram/gelclient/transport"
)

// targetFromConfig builds the transport.Target a Connect call dials,
// always negotiating TLS immediately over TCP and never over a Unix
// socket (the server does not offer TLS on its Unix listener).
func targetFromConfig(cfg config.Config) (transport.Target, error) {
	t := transport.Target{
		ConnectTimeout: cfg.ConnectTimeout,
		KeepAlive:      cfg.KeepAlive,
	}

	if cfg.UnixPath != "" {
		t.Endpoint = transport.Endpoint{UnixPath: cfg.UnixPath}
		return t, nil
	}

	t.Endpoint = transport.Endpoint{Host: cfg.Host, Port: cfg.Port}

	policy, err := cfg.TLS.Policy()
	if err != nil {
		return transport.Target{}, err
	}
	t.TrySetTLS(transport.Tls, policy)

	return t, nil
}

// clientProposedVersion is the protocol version this connection's first
// handshake attempt proposes, used to resolve an ambiguous
// database-or-branch selector before any byte is sent (spec.md §4.5,
// Open Question ii).
func clientProposedVersion() (major, minor uint16) {
	v := protocol.ProposedVersion()
	return v.Major, v.Minor
}

func formatVersion(v message.ProtocolVersion) string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

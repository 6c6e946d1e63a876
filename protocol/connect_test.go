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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/gelclient/framing/message"
	"github.com/sabouaram/gelclient/gelerr"
	"github.com/sabouaram/gelclient/protocol"
)

var _ = Describe("Connect", func() {
	It("retries once at the server's proposed lower version, then proceeds without SASL", func() {
		client, server := newPipe()
		defer client.Close()

		errs := make(chan error, 1)
		go func() {
			errs <- runDowngradeThenOkServer(server)
		}()

		conn, err := protocol.Connect(context.Background(), client, protocol.Params{
			User:     "admin",
			Password: "irrelevant",
			Database: "main",
		}, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(conn.ProtocolVersion()).To(Equal(message.ProtocolVersion{Major: 1, Minor: 0}))
		Expect(conn.State()).To(Equal(protocol.StateIdle))
		Expect(conn.TxnState()).To(Equal(message.TxnNotInTransaction))

		v, ok := conn.ServerSetting("server_version")
		Expect(ok).To(BeTrue())
		Expect(string(v)).To(Equal("6.0"))

		Expect(<-errs).NotTo(HaveOccurred())
	})

	It("fails when the server proposes a second, different version after the one retry", func() {
		client, server := newPipe()
		defer client.Close()

		errs := make(chan error, 1)
		go func() {
			errs <- runDoubleDowngradeServer(server)
		}()

		_, err := protocol.Connect(context.Background(), client, protocol.Params{User: "admin"}, nil)
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.UnsupportedProtocolVersion))

		<-errs
	})

	It("completes a full SCRAM-SHA-256 exchange end to end", func() {
		client, server := newPipe()
		defer client.Close()

		errs := make(chan error, 1)
		go func() {
			errs <- runScramServer(server, "admin", "hunter2")
		}()

		conn, err := protocol.Connect(context.Background(), client, protocol.Params{
			User:     "admin",
			Password: "hunter2",
			Database: "main",
		}, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(conn.State()).To(Equal(protocol.StateIdle))
		Expect(<-errs).NotTo(HaveOccurred())
	})

	It("fails authentication when the client password does not match", func() {
		client, server := newPipe()
		defer client.Close()

		errs := make(chan error, 1)
		go func() {
			errs <- runScramServer(server, "admin", "correct-password")
		}()

		_, err := protocol.Connect(context.Background(), client, protocol.Params{
			User:     "admin",
			Password: "wrong-password",
			Database: "main",
		}, nil)

		Expect(err).To(HaveOccurred())
		<-errs
	})
})


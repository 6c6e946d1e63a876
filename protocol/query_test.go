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
	"fmt"
	"net"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/gelclient/framing/message"
	"github.com/sabouaram/gelclient/gelerr"
	"github.com/sabouaram/gelclient/protocol"
)

// connectNoAuth completes a handshake + no-SASL authentication and returns
// a ready Conn, leaving the server goroutine positioned to serve whatever
// comes next.
func connectNoAuth(conn net.Conn) (*testServer, error) {
	s := newTestServer(conn)

	m, err := s.readFrontend()
	if err != nil {
		return nil, err
	}
	if _, ok := m.(message.ClientHandshake); !ok {
		return nil, fmt.Errorf("expected ClientHandshake, got %T", m)
	}
	if err := s.write(message.AuthenticationOk{}); err != nil {
		return nil, err
	}
	if err := s.write(message.ReadyForCommand{State: message.TxnNotInTransaction}); err != nil {
		return nil, err
	}
	return s, nil
}

var _ = Describe("Execute", func() {
	It("runs one query to completion and enforces cardinality One", func() {
		client, server := newPipe()
		defer client.Close()

		errs := make(chan error, 1)
		go func() {
			errs <- runSingleRowQueryServer(server)
		}()

		conn, err := protocol.Connect(context.Background(), client, protocol.Params{User: "admin"}, nil)
		Expect(err).NotTo(HaveOccurred())

		result, err := conn.Execute(context.Background(), protocol.QueryRequest{
			Command:             "select 7*8",
			OutputFormat:        message.FormatBinary,
			ExpectedCardinality: message.CardinalityOne,
			Capabilities:        message.CapabilityAll,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Rows).To(HaveLen(1))
		Expect(conn.State()).To(Equal(protocol.StateIdle))

		Expect(<-errs).NotTo(HaveOccurred())
	})

	It("reports NoDataError when a mandatory cardinality gets zero rows", func() {
		client, server := newPipe()
		defer client.Close()

		errs := make(chan error, 1)
		go func() {
			errs <- runZeroRowQueryServer(server)
		}()

		conn, err := protocol.Connect(context.Background(), client, protocol.Params{User: "admin"}, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = conn.Execute(context.Background(), protocol.QueryRequest{
			Command:             "select <int64>{} limit 0",
			OutputFormat:        message.FormatBinary,
			ExpectedCardinality: message.CardinalityOne,
			Capabilities:        message.CapabilityAll,
		})

		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.NoDataError))
		Expect(conn.State()).To(Equal(protocol.StateIdle))

		Expect(<-errs).NotTo(HaveOccurred())
	})

	It("recovers to Idle via Sync after a server-side parse error", func() {
		client, server := newPipe()
		defer client.Close()

		errs := make(chan error, 1)
		go func() {
			errs <- runParseErrorServer(server)
		}()

		conn, err := protocol.Connect(context.Background(), client, protocol.Params{User: "admin"}, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = conn.Execute(context.Background(), protocol.QueryRequest{
			Command:             "select 1 +",
			OutputFormat:        message.FormatBinary,
			ExpectedCardinality: message.CardinalityOne,
			Capabilities:        message.CapabilityAll,
		})

		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.ServerError))
		Expect(conn.State()).To(Equal(protocol.StateIdle))
		Expect(conn.TxnState()).To(Equal(message.TxnNotInTransaction))

		Expect(<-errs).NotTo(HaveOccurred())
	})
})

func runSingleRowQueryServer(conn net.Conn) error {
	defer conn.Close()
	s, err := connectNoAuth(conn)
	if err != nil {
		return err
	}

	if err := expectParseThenSync(s); err != nil {
		return err
	}
	if err := s.write(message.CommandDataDescription{ExpectedCardinality: message.CardinalityOne}); err != nil {
		return err
	}
	if err := s.write(message.ReadyForCommand{State: message.TxnNotInTransaction}); err != nil {
		return err
	}

	if err := expectExecuteThenSync(s); err != nil {
		return err
	}
	if err := s.write(message.Data{Elements: [][]byte{{0, 0, 0, 0, 0, 0, 0, 56}}}); err != nil {
		return err
	}
	if err := s.write(message.CommandComplete{Status: []byte("SELECT")}); err != nil {
		return err
	}
	return s.write(message.ReadyForCommand{State: message.TxnNotInTransaction})
}

func runZeroRowQueryServer(conn net.Conn) error {
	defer conn.Close()
	s, err := connectNoAuth(conn)
	if err != nil {
		return err
	}

	if err := expectParseThenSync(s); err != nil {
		return err
	}
	if err := s.write(message.CommandDataDescription{ExpectedCardinality: message.CardinalityOne}); err != nil {
		return err
	}
	if err := s.write(message.ReadyForCommand{State: message.TxnNotInTransaction}); err != nil {
		return err
	}

	if err := expectExecuteThenSync(s); err != nil {
		return err
	}
	if err := s.write(message.CommandComplete{Status: []byte("SELECT")}); err != nil {
		return err
	}
	return s.write(message.ReadyForCommand{State: message.TxnNotInTransaction})
}

func runParseErrorServer(conn net.Conn) error {
	defer conn.Close()
	s, err := connectNoAuth(conn)
	if err != nil {
		return err
	}

	if err := expectParseThenSync(s); err != nil {
		return err
	}
	if err := s.write(message.ErrorResponse{Severity: 120, Code: 0x02000000, Message: []byte("syntax error")}); err != nil {
		return err
	}
	// The queued Sync guarantees exactly one ReadyForCommand, even though
	// the command it accompanied failed.
	return s.write(message.ReadyForCommand{State: message.TxnNotInTransaction})
}

func expectParseThenSync(s *testServer) error {
	m, err := s.readFrontend()
	if err != nil {
		return err
	}
	if _, ok := m.(message.Parse2); !ok {
		return fmt.Errorf("expected Parse2, got %T", m)
	}
	m, err = s.readFrontend()
	if err != nil {
		return err
	}
	if _, ok := m.(message.Sync); !ok {
		return fmt.Errorf("expected Sync after Parse2, got %T", m)
	}
	return nil
}

func expectExecuteThenSync(s *testServer) error {
	m, err := s.readFrontend()
	if err != nil {
		return err
	}
	if _, ok := m.(message.Execute2); !ok {
		return fmt.Errorf("expected Execute2, got %T", m)
	}
	m, err = s.readFrontend()
	if err != nil {
		return err
	}
	if _, ok := m.(message.Sync); !ok {
		return fmt.Errorf("expected Sync after Execute2, got %T", m)
	}
	return nil
}

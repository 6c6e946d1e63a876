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

package message_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/gelclient/framing/message"
	"github.com/sabouaram/gelclient/gelerr"
)

var _ = Describe("Backend dispatch", func() {
	It("rejects an unknown tag as UnexpectedMessage without needing a resync", func() {
		_, err := message.Decode(message.Backend, 'Q', nil)
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.UnexpectedMessage))
	})

	It("round-trips ServerHandshake", func() {
		m := message.ServerHandshake{Major: 2, Minor: 0}
		got, err := message.Decode(message.Backend, message.TagServerHandshake, m.Encode())
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(message.Message(m)))
	})

	It("round-trips ReadyForCommand and exposes the transaction sub-state", func() {
		m := message.ReadyForCommand{State: message.TxnInTransaction}
		got, err := message.Decode(message.Backend, message.TagReadyForCommand, m.Encode())
		Expect(err).ToNot(HaveOccurred())
		rfc, ok := got.(message.ReadyForCommand)
		Expect(ok).To(BeTrue())
		Expect(rfc.State).To(Equal(message.TxnInTransaction))
	})

	It("round-trips ErrorResponse", func() {
		m := message.ErrorResponse{
			Code:    0x05010000,
			Message: []byte("syntax error"),
		}
		got, err := message.Decode(message.Backend, message.TagErrorResponse, m.Encode())
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(message.Message(m)))
	})

	It("round-trips CommandDataDescription with its input/output UUIDs", func() {
		m := message.CommandDataDescription{
			ExpectedCardinality: message.CardinalityOne,
		}
		m.InputTypeID[0] = 0xAA
		m.OutputTypeID[0] = 0xBB
		got, err := message.Decode(message.Backend, message.TagCommandDataDescription, m.Encode())
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(message.Message(m)))
	})
})

var _ = Describe("Authentication sub-tag dispatch", func() {
	DescribeTable("peeks auth_status before selecting the concrete decoder",
		func(encoded []byte, expected message.Message) {
			got, err := message.Decode(message.Backend, message.TagAuthentication, encoded)
			Expect(err).ToNot(HaveOccurred())
			Expect(got).To(Equal(expected))
		},
		Entry("Ok", message.AuthenticationOk{}.Encode(), message.AuthenticationOk{}),
		Entry("SASL", message.AuthenticationSASL{Methods: []string{"SCRAM-SHA-256"}}.Encode(),
			message.AuthenticationSASL{Methods: []string{"SCRAM-SHA-256"}}),
		Entry("SASLContinue", message.AuthenticationSASLContinue{SASLData: []byte("r=abc")}.Encode(),
			message.AuthenticationSASLContinue{SASLData: []byte("r=abc")}),
		Entry("SASLFinal", message.AuthenticationSASLFinal{SASLData: []byte("v=xyz")}.Encode(),
			message.AuthenticationSASLFinal{SASLData: []byte("v=xyz")}),
	)

	It("rejects an unrecognized auth_status", func() {
		b := []byte{0xff, 0xff, 0xff, 0xff}
		_, err := message.Decode(message.Backend, message.TagAuthentication, b)
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.UnexpectedMessage))
	})
})

var _ = Describe("Parse / Parse2 table selection", func() {
	It("selects Frontend (no input_language) under protocol version 1", func() {
		v := message.ProtocolVersion{Major: 1, Minor: 0}
		Expect(v.HasInputLanguage()).To(BeFalse())
		table := message.TableFor(v)

		p := message.Parse{Command: []byte("select 1")}
		got, err := message.Decode(table, message.TagParse, p.Encode())
		Expect(err).ToNot(HaveOccurred())
		_, isV1 := got.(message.Parse)
		Expect(isV1).To(BeTrue())
	})

	It("selects Frontend2 (with input_language) under protocol version 2", func() {
		v := message.ProtocolVersion{Major: 2, Minor: 0}
		Expect(v.HasInputLanguage()).To(BeTrue())
		table := message.TableFor(v)

		p := message.Parse2{
			Parse:         message.Parse{Command: []byte("select 1")},
			InputLanguage: message.LanguageEdgeQL,
		}
		got, err := message.Decode(table, message.TagParse, p.Encode())
		Expect(err).ToNot(HaveOccurred())
		p2, isV2 := got.(message.Parse2)
		Expect(isV2).To(BeTrue())
		Expect(p2.InputLanguage).To(Equal(message.LanguageEdgeQL))
		Expect(p2.Command).To(Equal([]byte("select 1")))
	})
})

var _ = Describe("Cardinality", func() {
	It("treats NoResult, AtMostOne and Many as optional", func() {
		Expect(message.CardinalityNoResult.Optional()).To(BeTrue())
		Expect(message.CardinalityAtMostOne.Optional()).To(BeTrue())
		Expect(message.CardinalityMany.Optional()).To(BeTrue())
	})

	It("treats One and AtLeastOne as mandatory", func() {
		Expect(message.CardinalityOne.Optional()).To(BeFalse())
		Expect(message.CardinalityAtLeastOne.Optional()).To(BeFalse())
	})
})

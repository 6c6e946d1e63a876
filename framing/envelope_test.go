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

package framing_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/gelclient/framing"
	"github.com/sabouaram/gelclient/gelerr"
)

var _ = Describe("Envelope", func() {
	It("round-trips a tagged payload through Encode and Reader.Next", func() {
		payload := []byte("SELECT 7*8")
		buf, err := framing.Encode(nil, 'P', payload)
		Expect(err).ToNot(HaveOccurred())

		r := framing.NewReader(bytes.NewReader(buf))
		env, err := r.Next()
		Expect(err).ToNot(HaveOccurred())
		Expect(env.MType).To(Equal(byte('P')))
		Expect(env.Payload).To(Equal(payload))
	})

	It("computes mlen inclusive of itself and exclusive of mtype", func() {
		env := framing.Envelope{MType: 'D', Payload: []byte("abcd")}
		Expect(env.MLen()).To(Equal(uint32(8)))
	})

	It("fails MessageTooShort when mlen is below 4", func() {
		var short [5]byte
		short[0] = 'Z'
		// mlen = 1, which is below the minimum of 4.
		short[4] = 1
		r := framing.NewReader(bytes.NewReader(short[:]))
		_, err := r.Next()
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.MessageTooShort))
	})

	It("consumes exactly mlen+1 bytes and leaves the stream in sync for the next read", func() {
		first, err := framing.Encode(nil, 'S', []byte("hello"))
		Expect(err).ToNot(HaveOccurred())
		second, err := framing.Encode(nil, 'Z', []byte("I"))
		Expect(err).ToNot(HaveOccurred())

		r := framing.NewReader(bytes.NewReader(append(first, second...)))

		env1, err := r.Next()
		Expect(err).ToNot(HaveOccurred())
		Expect(env1.MType).To(Equal(byte('S')))

		env2, err := r.Next()
		Expect(err).ToNot(HaveOccurred())
		Expect(env2.MType).To(Equal(byte('Z')))
		Expect(env2.Payload).To(Equal([]byte("I")))
	})
})

var _ = Describe("Writer", func() {
	It("writes immediately via WriteMessage", func() {
		var out bytes.Buffer
		w := framing.NewWriter(&out)
		Expect(w.WriteMessage('X', nil)).To(Succeed())
		Expect(out.Len()).To(Equal(framing.HeaderLen))
	})

	It("batches Queue calls until Flush pipelines them in one write", func() {
		var out bytes.Buffer
		w := framing.NewWriter(&out)
		Expect(w.Queue('P', []byte("a"))).To(Succeed())
		Expect(w.Queue('J', []byte("bc"))).To(Succeed())
		Expect(w.Queue('Q', nil)).To(Succeed())
		Expect(out.Len()).To(Equal(0))

		Expect(w.Flush()).To(Succeed())

		r := framing.NewReader(&out)
		e1, err := r.Next()
		Expect(err).ToNot(HaveOccurred())
		Expect(e1.MType).To(Equal(byte('P')))
		e2, err := r.Next()
		Expect(err).ToNot(HaveOccurred())
		Expect(e2.MType).To(Equal(byte('J')))
		e3, err := r.Next()
		Expect(err).ToNot(HaveOccurred())
		Expect(e3.MType).To(Equal(byte('Q')))
	})
})

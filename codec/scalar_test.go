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

package codec_test

import (
	"github.com/google/uuid"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/gelclient/codec"
	"github.com/sabouaram/gelclient/gelerr"
)

var _ = Describe("Scalar codecs", func() {
	It("round-trips bool", func() {
		v, err := codec.DecodeBool(codec.EncodeBool(true))
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(BeTrue())
	})

	It("rejects a bool byte other than 0x00/0x01", func() {
		_, err := codec.DecodeBool([]byte{0x02})
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.InvalidBool))
	})

	It("round-trips int16/int32/int64", func() {
		i16, err := codec.DecodeInt16(codec.EncodeInt16(-1234))
		Expect(err).ToNot(HaveOccurred())
		Expect(i16).To(Equal(int16(-1234)))

		i32, err := codec.DecodeInt32(codec.EncodeInt32(-123456789))
		Expect(err).ToNot(HaveOccurred())
		Expect(i32).To(Equal(int32(-123456789)))

		i64, err := codec.DecodeInt64(codec.EncodeInt64(-123456789012345))
		Expect(err).ToNot(HaveOccurred())
		Expect(i64).To(Equal(int64(-123456789012345)))
	})

	It("round-trips float32/float64", func() {
		f32, err := codec.DecodeFloat32(codec.EncodeFloat32(3.5))
		Expect(err).ToNot(HaveOccurred())
		Expect(f32).To(Equal(float32(3.5)))

		f64, err := codec.DecodeFloat64(codec.EncodeFloat64(2.71828))
		Expect(err).ToNot(HaveOccurred())
		Expect(f64).To(Equal(2.71828))
	})

	It("round-trips a valid utf-8 string and rejects invalid bytes", func() {
		s, err := codec.DecodeString(codec.EncodeString("select 7*8"))
		Expect(err).ToNot(HaveOccurred())
		Expect(s).To(Equal("select 7*8"))

		_, err = codec.DecodeString([]byte{0xff, 0xfe})
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.InvalidUtf8))
	})

	It("round-trips json with its leading format byte", func() {
		got, err := codec.DecodeJSON(codec.EncodeJSON([]byte(`{"a":1}`)))
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal([]byte(`{"a":1}`)))

		_, err = codec.DecodeJSON([]byte{0x02, '{', '}'})
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.InvalidJsonFormat))
	})

	It("round-trips a uuid", func() {
		id := uuid.New()
		got, err := codec.DecodeUUID(codec.EncodeUUID(id))
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(id))
	})

	It("flags extra bytes after a fixed-width scalar", func() {
		buf := append(codec.EncodeInt32(1), 0x00)
		_, err := codec.DecodeInt32(buf)
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.ExtraData))
	})

	It("flags missing bytes before a fixed-width scalar", func() {
		_, err := codec.DecodeInt64([]byte{0x00, 0x01})
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.Underflow))
	})
})

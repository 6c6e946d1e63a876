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
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/gelclient/codec"
	"github.com/sabouaram/gelclient/gelerr"
)

var _ = Describe("Decimal and bigint codecs", func() {
	It("round-trips a decimal value and renders its string form", func() {
		d := codec.Decimal{Negative: true, Weight: 1, Scale: 2, Digits: []uint16{12, 3400}}
		got, err := codec.DecodeDecimal(codec.EncodeDecimal(d))
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(d))
		Expect(got.String()).To(Equal("-1234.00"))
	})

	It("rejects a sign field other than 0x0000/0x4000", func() {
		buf := codec.EncodeDecimal(codec.Decimal{Digits: []uint16{1}})
		buf[5] = 0x01
		_, err := codec.DecodeDecimal(buf)
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.BadSign))
	})

	It("round-trips a bigint through math/big.Int", func() {
		v, ok := new(big.Int).SetString("-123456789012345678901234567890", 10)
		Expect(ok).To(BeTrue())

		got, err := codec.DecodeBigInt(codec.EncodeBigInt(v))
		Expect(err).ToNot(HaveOccurred())
		Expect(got.Cmp(v)).To(Equal(0))
	})

	It("round-trips a zero bigint", func() {
		got, err := codec.DecodeBigInt(codec.EncodeBigInt(big.NewInt(0)))
		Expect(err).ToNot(HaveOccurred())
		Expect(got.Sign()).To(Equal(0))
	})

	It("rejects a bigint whose dscale is non-zero", func() {
		buf := codec.EncodeDecimal(codec.Decimal{Scale: 2, Digits: []uint16{5}})
		_, err := codec.DecodeBigInt(buf)
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.NonZeroReservedBytes))
	})
})

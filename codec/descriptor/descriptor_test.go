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

package descriptor_test

import (
	"encoding/binary"

	"github.com/google/uuid"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/gelclient/codec/descriptor"
	"github.com/sabouaram/gelclient/gelerr"
)

// block is a tiny builder mirroring the wire layout Decode expects, used
// only to construct fixtures for these tests.
type block struct {
	buf []byte
}

func (b *block) u8(v byte)      { b.buf = append(b.buf, v) }
func (b *block) u16(v uint16)   { b.buf = binary.BigEndian.AppendUint16(b.buf, v) }
func (b *block) i32(v int32)    { b.buf = binary.BigEndian.AppendUint32(b.buf, uint32(v)) }
func (b *block) uuid(id uuid.UUID) { b.buf = append(b.buf, id[:]...) }
func (b *block) lstring(s string) {
	b.buf = binary.BigEndian.AppendUint32(b.buf, uint32(len(s)))
	b.buf = append(b.buf, s...)
}

func (b *block) baseScalar(id uuid.UUID) {
	b.u8(byte(descriptor.KindBaseScalar))
	b.uuid(id)
}

func (b *block) scalar(id uuid.UUID, base descriptor.TypePos) {
	b.u8(byte(descriptor.KindScalar))
	b.uuid(id)
	b.u16(uint16(base))
}

var _ = Describe("Decode", func() {
	int64Type := uuid.MustParse("00000000-0000-0000-0000-0000000000ff")

	It("decodes a base scalar descriptor", func() {
		b := &block{}
		b.baseScalar(int64Type)

		forest, err := descriptor.Decode(b.buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(forest).To(HaveLen(1))

		base, ok := forest[0].(descriptor.BaseScalarDescriptor)
		Expect(ok).To(BeTrue())
		Expect(base.TypeID).To(Equal(int64Type))
	})

	It("decodes a scalar descriptor referencing its base by position", func() {
		custom := uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
		b := &block{}
		b.baseScalar(int64Type) // pos 0
		b.scalar(custom, 0)     // pos 1

		forest, err := descriptor.Decode(b.buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(forest).To(HaveLen(2))

		scalar, ok := forest[1].(descriptor.ScalarDescriptor)
		Expect(ok).To(BeTrue())
		Expect(scalar.BasePos).To(Equal(descriptor.TypePos(0)))
	})

	It("decodes an object descriptor's field layout", func() {
		b := &block{}
		b.baseScalar(int64Type) // pos 0

		b.u8(byte(descriptor.KindObject))
		b.uuid(uuid.MustParse("00000000-0000-0000-0000-0000000000bb"))
		b.u16(1) // one field
		b.u8(0)  // flags: not implicit, not link property
		b.u8(0)  // cardinality placeholder
		b.lstring("id")
		b.u16(0) // references pos 0

		forest, err := descriptor.Decode(b.buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(forest).To(HaveLen(2))

		obj, ok := forest[1].(descriptor.ObjectDescriptor)
		Expect(ok).To(BeTrue())
		Expect(obj.Fields).To(HaveLen(1))
		Expect(obj.Fields[0].Name).To(Equal("id"))
		Expect(obj.Fields[0].Pos).To(Equal(descriptor.TypePos(0)))
	})

	It("fails with Underflow on a truncated block", func() {
		_, err := descriptor.Decode([]byte{byte(descriptor.KindBaseScalar), 0x01})
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.Underflow))
	})

	It("fails with Underflow when a named tuple is cut off right after its field count", func() {
		b := &block{}
		b.u8(byte(descriptor.KindNamedTuple))
		b.uuid(uuid.MustParse("00000000-0000-0000-0000-0000000000dd"))
		b.u16(2) // claims two fields, but none follow

		_, err := descriptor.Decode(b.buf)
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.Underflow))
	})

	It("fails with Underflow when an object field's name is cut off mid-string", func() {
		b := &block{}
		b.u8(byte(descriptor.KindObject))
		b.uuid(uuid.MustParse("00000000-0000-0000-0000-0000000000ee"))
		b.u16(1) // one field
		b.u8(0)  // flags
		b.u8(0)  // cardinality
		b.buf = binary.BigEndian.AppendUint32(b.buf, 10) // name length 10, but no name bytes follow

		_, err := descriptor.Decode(b.buf)
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.Underflow))
	})

	It("fails with Underflow when an array is cut off mid-dimension", func() {
		b := &block{}
		b.u8(byte(descriptor.KindArray))
		b.uuid(uuid.MustParse("00000000-0000-0000-0000-0000000000ff"))
		b.u16(0) // element position
		b.u16(2) // claims two dimensions, but none follow

		_, err := descriptor.Decode(b.buf)
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.Underflow))
	})
})

var _ = Describe("CheckScalar", func() {
	int64Type := uuid.MustParse("00000000-0000-0000-0000-0000000000ff")
	strType := uuid.MustParse("00000000-0000-0000-0000-0000000000ee")

	It("accepts a BaseScalar whose id matches the expected type", func() {
		b := &block{}
		b.baseScalar(int64Type)
		forest, err := descriptor.Decode(b.buf)
		Expect(err).ToNot(HaveOccurred())

		Expect(descriptor.CheckScalar(forest, 0, int64Type, 1)).To(Succeed())
	})

	It("fails DescriptorMismatch when the BaseScalar id differs", func() {
		b := &block{}
		b.baseScalar(int64Type)
		forest, err := descriptor.Decode(b.buf)
		Expect(err).ToNot(HaveOccurred())

		err = descriptor.CheckScalar(forest, 0, strType, 1)
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.DescriptorMismatch))
	})

	It("recurses through a Scalar to its base when protocol version < 2", func() {
		custom := uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
		b := &block{}
		b.baseScalar(int64Type) // pos 0
		b.scalar(custom, 0)     // pos 1

		forest, err := descriptor.Decode(b.buf)
		Expect(err).ToNot(HaveOccurred())

		Expect(descriptor.CheckScalar(forest, 1, int64Type, 1)).To(Succeed())
	})

	It("accepts a Scalar directly by its own id under protocol version >= 2", func() {
		custom := uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
		b := &block{}
		b.baseScalar(int64Type) // pos 0
		b.scalar(custom, 0)     // pos 1

		forest, err := descriptor.Decode(b.buf)
		Expect(err).ToNot(HaveOccurred())

		Expect(descriptor.CheckScalar(forest, 1, custom, 2)).To(Succeed())
	})

	It("accepts Enumeration descriptors without validating members", func() {
		b := &block{}
		b.u8(byte(descriptor.KindEnumeration))
		b.uuid(uuid.MustParse("00000000-0000-0000-0000-0000000000cc"))
		b.u16(1)
		b.lstring("red")

		forest, err := descriptor.Decode(b.buf)
		Expect(err).ToNot(HaveOccurred())

		Expect(descriptor.CheckScalar(forest, 0, uuid.New(), 2)).To(Succeed())
	})
})

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

package descriptor

import (
	"encoding/binary"

	"github.com/google/uuid"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

type reader struct {
	buf []byte
	pos int
}

func (r *reader) fail(kind gelerr.CodeError, msg string) error {
	return gelerr.New(kind, msg)
}

func (r *reader) need(n int) bool { return r.pos+n <= len(r.buf) }

func (r *reader) u8() byte {
	v := r.buf[r.pos]
	r.pos++
	return v
}

func (r *reader) u16() uint16 {
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v
}

func (r *reader) i32() int32 {
	v := int32(binary.BigEndian.Uint32(r.buf[r.pos:]))
	r.pos += 4
	return v
}

func (r *reader) uuid() uuid.UUID {
	var id uuid.UUID
	copy(id[:], r.buf[r.pos:r.pos+16])
	r.pos += 16
	return id
}

func (r *reader) lstring() (string, error) {
	if !r.need(4) {
		return "", r.fail(gelerr.Underflow, "descriptor block truncated before string length")
	}
	n := int(binary.BigEndian.Uint32(r.buf[r.pos:]))
	r.pos += 4
	if n < 0 || !r.need(n) {
		return "", r.fail(gelerr.Underflow, "descriptor block truncated before string data")
	}
	s := string(r.buf[r.pos : r.pos+n])
	r.pos += n
	return s, nil
}

// Decode walks a CommandDataDescription's raw descriptor block and returns
// the resulting Forest, one Descriptor per arrival-ordered TypePos
// (spec.md §4.3: "the client receives a CommandDataDescription containing
// ... a codec walks the descriptor forest").
func Decode(block []byte) (Forest, error) {
	r := &reader{buf: block}
	var forest Forest

	for r.pos < len(r.buf) {
		if !r.need(1) {
			return nil, r.fail(gelerr.Underflow, "descriptor block truncated before kind byte")
		}
		kind := Kind(r.u8())

		if !r.need(16) {
			return nil, r.fail(gelerr.Underflow, "descriptor block truncated before type id")
		}
		id := r.uuid()

		switch kind {
		case KindBaseScalar:
			forest = append(forest, BaseScalarDescriptor{TypeID: id})

		case KindScalar:
			if !r.need(2) {
				return nil, r.fail(gelerr.Underflow, "scalar descriptor truncated")
			}
			forest = append(forest, ScalarDescriptor{TypeID: id, BasePos: TypePos(r.u16())})

		case KindEnumeration:
			if !r.need(2) {
				return nil, r.fail(gelerr.Underflow, "enumeration descriptor truncated")
			}
			n := int(r.u16())
			members := make([]string, 0, n)
			for i := 0; i < n; i++ {
				name, err := r.lstring()
				if err != nil {
					return nil, err
				}
				members = append(members, name)
			}
			forest = append(forest, EnumerationDescriptor{TypeID: id, Members: members})

		case KindRange:
			if !r.need(2) {
				return nil, r.fail(gelerr.Underflow, "range descriptor truncated")
			}
			forest = append(forest, RangeDescriptor{TypeID: id, ElementPos: TypePos(r.u16())})

		case KindTuple:
			if !r.need(2) {
				return nil, r.fail(gelerr.Underflow, "tuple descriptor truncated")
			}
			n := int(r.u16())
			positions := make([]TypePos, 0, n)
			for i := 0; i < n; i++ {
				if !r.need(2) {
					return nil, r.fail(gelerr.Underflow, "tuple descriptor truncated mid-element")
				}
				positions = append(positions, TypePos(r.u16()))
			}
			forest = append(forest, TupleDescriptor{TypeID: id, ElementPositions: positions})

		case KindNamedTuple:
			if !r.need(2) {
				return nil, r.fail(gelerr.Underflow, "named tuple descriptor truncated")
			}
			n := int(r.u16())
			fields := make([]NamedTupleField, 0, n)
			for i := 0; i < n; i++ {
				name, err := r.lstring()
				if err != nil {
					return nil, err
				}
				if !r.need(2) {
					return nil, r.fail(gelerr.Underflow, "named tuple descriptor truncated mid-field")
				}
				fields = append(fields, NamedTupleField{Name: name, Pos: TypePos(r.u16())})
			}
			forest = append(forest, NamedTupleDescriptor{TypeID: id, Fields: fields})

		case KindArray:
			if !r.need(4) {
				return nil, r.fail(gelerr.Underflow, "array descriptor truncated")
			}
			elem := TypePos(r.u16())
			n := int(r.u16())
			dims := make([]int32, 0, n)
			for i := 0; i < n; i++ {
				if !r.need(4) {
					return nil, r.fail(gelerr.Underflow, "array descriptor truncated mid-dimension")
				}
				dims = append(dims, r.i32())
			}
			forest = append(forest, ArrayDescriptor{TypeID: id, ElementPos: elem, Dims: dims})

		case KindSet:
			if !r.need(2) {
				return nil, r.fail(gelerr.Underflow, "set descriptor truncated")
			}
			forest = append(forest, SetDescriptor{TypeID: id, ElementPos: TypePos(r.u16())})

		case KindObject, KindInputShape:
			if !r.need(2) {
				return nil, r.fail(gelerr.Underflow, "object descriptor truncated")
			}
			n := int(r.u16())
			fields := make([]ObjectField, 0, n)
			for i := 0; i < n; i++ {
				if !r.need(2) {
					return nil, r.fail(gelerr.Underflow, "object descriptor truncated mid-field")
				}
				flags := r.u8()
				cardinality := r.u8()
				name, err := r.lstring()
				if err != nil {
					return nil, err
				}
				if !r.need(2) {
					return nil, r.fail(gelerr.Underflow, "object descriptor truncated mid-field")
				}
				pos := TypePos(r.u16())
				fields = append(fields, ObjectField{
					Name:         name,
					Pos:          pos,
					Implicit:     flags&0x01 != 0,
					LinkProperty: flags&0x02 != 0,
					Cardinality:  cardinality,
				})
			}
			forest = append(forest, ObjectDescriptor{TypeID: id, ShapeKind: kind, Fields: fields})

		default:
			return nil, gelerr.Newf(gelerr.DescriptorMismatch, "unknown descriptor kind 0x%x", byte(kind))
		}
	}

	return forest, nil
}

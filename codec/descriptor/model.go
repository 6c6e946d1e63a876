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

// Package descriptor models the type descriptor forest a CommandDataDescription
// carries: a dense arena of variants indexed by TypePos, walked to bind
// argument encoders and row decoders to a caller's requested Go types.
package descriptor

import "github.com/google/uuid"

// TypePos is a dense index into a Forest, assigned in the order descriptors
// arrive on the wire.
type TypePos uint16

// Kind discriminates the descriptor variants carried in a type descriptor
// block.
type Kind byte

const (
	KindSet         Kind = 0x00
	KindObject      Kind = 0x01
	KindBaseScalar  Kind = 0x02
	KindScalar      Kind = 0x03
	KindTuple       Kind = 0x04
	KindNamedTuple  Kind = 0x05
	KindArray       Kind = 0x06
	KindEnumeration Kind = 0x07
	KindInputShape  Kind = 0x08
	KindRange       Kind = 0x09
)

// Descriptor is one node of the type descriptor forest.
type Descriptor interface {
	Kind() Kind
	ID() uuid.UUID
}

// BaseScalarDescriptor is a leaf describing a server built-in scalar type
// (std::int64, std::str, ...).
type BaseScalarDescriptor struct {
	TypeID uuid.UUID
}

func (d BaseScalarDescriptor) Kind() Kind      { return KindBaseScalar }
func (d BaseScalarDescriptor) ID() uuid.UUID   { return d.TypeID }

// ScalarDescriptor describes a user-defined scalar, derived from BasePos.
type ScalarDescriptor struct {
	TypeID  uuid.UUID
	BasePos TypePos
}

func (d ScalarDescriptor) Kind() Kind    { return KindScalar }
func (d ScalarDescriptor) ID() uuid.UUID { return d.TypeID }

// EnumerationDescriptor describes an enum type and its member labels.
type EnumerationDescriptor struct {
	TypeID  uuid.UUID
	Members []string
}

func (d EnumerationDescriptor) Kind() Kind    { return KindEnumeration }
func (d EnumerationDescriptor) ID() uuid.UUID { return d.TypeID }

// RangeDescriptor describes a std::range<T> over the scalar at ElementPos.
type RangeDescriptor struct {
	TypeID     uuid.UUID
	ElementPos TypePos
}

func (d RangeDescriptor) Kind() Kind    { return KindRange }
func (d RangeDescriptor) ID() uuid.UUID { return d.TypeID }

// TupleDescriptor describes an unnamed tuple's element positions, in order.
// Supplemented from original_source (gel-db-protocol); spec.md names only
// the four scalar-adjacent variants above.
type TupleDescriptor struct {
	TypeID           uuid.UUID
	ElementPositions []TypePos
}

func (d TupleDescriptor) Kind() Kind    { return KindTuple }
func (d TupleDescriptor) ID() uuid.UUID { return d.TypeID }

// NamedTupleDescriptor describes a tuple whose elements carry field names.
type NamedTupleDescriptor struct {
	TypeID uuid.UUID
	Fields []NamedTupleField
}

type NamedTupleField struct {
	Name string
	Pos  TypePos
}

func (d NamedTupleDescriptor) Kind() Kind    { return KindNamedTuple }
func (d NamedTupleDescriptor) ID() uuid.UUID { return d.TypeID }

// ArrayDescriptor describes a std::array<T, N> (or unbounded array) over
// the scalar at ElementPos. Dims holds each declared dimension length, -1
// meaning unbounded.
type ArrayDescriptor struct {
	TypeID     uuid.UUID
	ElementPos TypePos
	Dims       []int32
}

func (d ArrayDescriptor) Kind() Kind    { return KindArray }
func (d ArrayDescriptor) ID() uuid.UUID { return d.TypeID }

// SetDescriptor describes a multi-valued result column over ElementPos.
type SetDescriptor struct {
	TypeID     uuid.UUID
	ElementPos TypePos
}

func (d SetDescriptor) Kind() Kind    { return KindSet }
func (d SetDescriptor) ID() uuid.UUID { return d.TypeID }

// ObjectField is one property/link slot of an ObjectDescriptor.
type ObjectField struct {
	Name           string
	Pos            TypePos
	Implicit       bool
	LinkProperty   bool
	Cardinality    byte
}

// ObjectDescriptor describes an object type's shape: its named fields and
// their element positions. Supplemented from original_source; spec.md's
// minimum variant set does not name it explicitly but §4.3's descriptor
// forest requires it to express query result shapes. ShapeKind is either
// KindObject (output shape) or KindInputShape (argument shape); the two
// share field layout on the wire.
type ObjectDescriptor struct {
	TypeID    uuid.UUID
	ShapeKind Kind
	Fields    []ObjectField
}

func (d ObjectDescriptor) Kind() Kind    { return d.ShapeKind }
func (d ObjectDescriptor) ID() uuid.UUID { return d.TypeID }

// Forest is the dense arena of descriptors bound to one CommandDataDescription,
// indexed by TypePos in arrival order.
type Forest []Descriptor

// At resolves the descriptor at pos, or ok=false if pos is out of range.
func (f Forest) At(pos TypePos) (Descriptor, bool) {
	if int(pos) >= len(f) {
		return nil, false
	}
	return f[pos], true
}

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

// Package codec encodes and decodes the scalar wire values bound to a type
// descriptor forest (spec.md §4.3): fixed-layout network-byte-order values
// with exact-size checks on decode.
package codec

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

func exactSize(buf []byte, n int, what string) error {
	if len(buf) < n {
		return gelerr.Newf(gelerr.Underflow, "%s: need %d bytes, got %d", what, n, len(buf))
	}
	if len(buf) > n {
		return gelerr.Newf(gelerr.ExtraData, "%s: expected exactly %d bytes, got %d", what, n, len(buf))
	}
	return nil
}

// DecodeBool decodes a 1-byte boolean, 0x00 or 0x01.
func DecodeBool(buf []byte) (bool, error) {
	if err := exactSize(buf, 1, "bool"); err != nil {
		return false, err
	}
	switch buf[0] {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, gelerr.Newf(gelerr.InvalidBool, "bool byte must be 0x00 or 0x01, got 0x%02x", buf[0])
	}
}

// EncodeBool encodes a boolean into its 1-byte wire form.
func EncodeBool(v bool) []byte {
	if v {
		return []byte{0x01}
	}
	return []byte{0x00}
}

// DecodeInt16 decodes a big-endian signed 16-bit integer.
func DecodeInt16(buf []byte) (int16, error) {
	if err := exactSize(buf, 2, "int16"); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(buf)), nil
}

// EncodeInt16 encodes v into its big-endian wire form.
func EncodeInt16(v int16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(v))
	return b
}

// DecodeInt32 decodes a big-endian signed 32-bit integer.
func DecodeInt32(buf []byte) (int32, error) {
	if err := exactSize(buf, 4, "int32"); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(buf)), nil
}

// EncodeInt32 encodes v into its big-endian wire form.
func EncodeInt32(v int32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b
}

// DecodeInt64 decodes a big-endian signed 64-bit integer.
func DecodeInt64(buf []byte) (int64, error) {
	if err := exactSize(buf, 8, "int64"); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(buf)), nil
}

// EncodeInt64 encodes v into its big-endian wire form.
func EncodeInt64(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

// DecodeFloat32 decodes a big-endian IEEE-754 single-precision float.
func DecodeFloat32(buf []byte) (float32, error) {
	if err := exactSize(buf, 4, "float32"); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(buf)), nil
}

// EncodeFloat32 encodes v into its big-endian wire form.
func EncodeFloat32(v float32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, math.Float32bits(v))
	return b
}

// DecodeFloat64 decodes a big-endian IEEE-754 double-precision float.
func DecodeFloat64(buf []byte) (float64, error) {
	if err := exactSize(buf, 8, "float64"); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf)), nil
}

// EncodeFloat64 encodes v into its big-endian wire form.
func EncodeFloat64(v float64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, math.Float64bits(v))
	return b
}

// DecodeString validates buf as UTF-8 and returns it as a string; the
// conversion copies the bytes.
func DecodeString(buf []byte) (string, error) {
	if !utf8.Valid(buf) {
		return "", gelerr.New(gelerr.InvalidUtf8, "string value is not valid utf-8")
	}
	return string(buf), nil
}

// EncodeString returns the UTF-8 bytes of v.
func EncodeString(v string) []byte {
	return []byte(v)
}

// DecodeBytes borrows buf unchanged; the bytes scalar carries no
// additional structure.
func DecodeBytes(buf []byte) []byte {
	return buf
}

// EncodeBytes returns v unchanged.
func EncodeBytes(v []byte) []byte {
	return v
}

// jsonWireFormat is the leading byte Gel prefixes onto encoded JSON values.
const jsonWireFormat = 0x01

// DecodeJSON strips the leading format byte and validates the remainder as
// UTF-8 JSON text.
func DecodeJSON(buf []byte) ([]byte, error) {
	if len(buf) < 1 {
		return nil, gelerr.New(gelerr.Underflow, "json value missing format byte")
	}
	if buf[0] != jsonWireFormat {
		return nil, gelerr.Newf(gelerr.InvalidJsonFormat, "unsupported json wire format 0x%02x", buf[0])
	}
	rest := buf[1:]
	if !utf8.Valid(rest) {
		return nil, gelerr.New(gelerr.InvalidUtf8, "json value is not valid utf-8")
	}
	return rest, nil
}

// EncodeJSON prepends the format byte to the JSON text in v.
func EncodeJSON(v []byte) []byte {
	out := make([]byte, 0, len(v)+1)
	out = append(out, jsonWireFormat)
	out = append(out, v...)
	return out
}

// DecodeUUID decodes 16 raw bytes into a uuid.UUID.
func DecodeUUID(buf []byte) (uuid.UUID, error) {
	if err := exactSize(buf, 16, "uuid"); err != nil {
		return uuid.UUID{}, err
	}
	var id uuid.UUID
	copy(id[:], buf)
	return id, nil
}

// EncodeUUID returns v's 16 raw bytes.
func EncodeUUID(v uuid.UUID) []byte {
	out := make([]byte, 16)
	copy(out, v[:])
	return out
}

// DecodeConfigMemory decodes a std::cfg::memory value, a byte count.
func DecodeConfigMemory(buf []byte) (int64, error) {
	return DecodeInt64(buf)
}

// EncodeConfigMemory encodes a std::cfg::memory value.
func EncodeConfigMemory(bytes int64) []byte {
	return EncodeInt64(bytes)
}

// DecodeEnumValue returns the raw enum label. Validation against the
// descriptor's member list (spec.md §4.3) is the caller's responsibility;
// an enum value is accepted at the wire layer regardless of whether it is
// a member the client build knows about.
func DecodeEnumValue(buf []byte) (string, error) {
	return DecodeString(buf)
}

// EncodeEnumValue encodes an enum label verbatim.
func EncodeEnumValue(label string) []byte {
	return EncodeString(label)
}

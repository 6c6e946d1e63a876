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

package codec

import (
	"encoding/binary"
	"math/big"
	"strings"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// decimalSignPositive and decimalSignNegative are the only two valid
// values of a numeric scalar's sign field (spec.md §4.3).
const (
	decimalSignPositive uint16 = 0x0000
	decimalSignNegative uint16 = 0x4000
)

// Decimal is the base-10000 digit-group representation std::decimal and
// std::bigint share on the wire.
type Decimal struct {
	Negative bool
	Weight   int16
	Scale    uint16
	Digits   []uint16
}

// DecodeDecimal decodes a std::decimal value.
func DecodeDecimal(buf []byte) (Decimal, error) {
	return decodeNumeric(buf)
}

// EncodeDecimal encodes d back to its wire form.
func EncodeDecimal(d Decimal) []byte {
	return encodeNumeric(d)
}

// DecodeBigInt decodes a std::bigint value: identical wire shape to
// std::decimal, but Scale must be 0 (spec.md §4.3: "big-int: as decimal but
// dscale must be 0").
func DecodeBigInt(buf []byte) (*big.Int, error) {
	d, err := decodeNumeric(buf)
	if err != nil {
		return nil, err
	}
	if d.Scale != 0 {
		return nil, gelerr.Newf(gelerr.NonZeroReservedBytes, "bigint dscale must be 0, got %d", d.Scale)
	}
	return d.bigInt(), nil
}

// EncodeBigInt encodes v as a std::bigint value.
func EncodeBigInt(v *big.Int) []byte {
	return encodeNumeric(decimalFromBigInt(v))
}

func decodeNumeric(buf []byte) (Decimal, error) {
	if len(buf) < 8 {
		return Decimal{}, gelerr.New(gelerr.Underflow, "numeric value truncated before header")
	}
	ndigits := binary.BigEndian.Uint16(buf[0:2])
	weight := int16(binary.BigEndian.Uint16(buf[2:4]))
	sign := binary.BigEndian.Uint16(buf[4:6])
	scale := binary.BigEndian.Uint16(buf[6:8])

	if sign != decimalSignPositive && sign != decimalSignNegative {
		return Decimal{}, gelerr.Newf(gelerr.BadSign, "numeric sign must be 0x0000 or 0x4000, got 0x%04x", sign)
	}

	rest := buf[8:]
	if err := exactSize(rest, int(ndigits)*2, "numeric digits"); err != nil {
		return Decimal{}, err
	}

	digits := make([]uint16, ndigits)
	for i := range digits {
		digits[i] = binary.BigEndian.Uint16(rest[i*2 : i*2+2])
	}

	return Decimal{
		Negative: sign == decimalSignNegative,
		Weight:   weight,
		Scale:    scale,
		Digits:   digits,
	}, nil
}

func encodeNumeric(d Decimal) []byte {
	b := make([]byte, 8+len(d.Digits)*2)
	binary.BigEndian.PutUint16(b[0:2], uint16(len(d.Digits)))
	binary.BigEndian.PutUint16(b[2:4], uint16(d.Weight))
	if d.Negative {
		binary.BigEndian.PutUint16(b[4:6], decimalSignNegative)
	} else {
		binary.BigEndian.PutUint16(b[4:6], decimalSignPositive)
	}
	binary.BigEndian.PutUint16(b[6:8], d.Scale)
	for i, dig := range d.Digits {
		binary.BigEndian.PutUint16(b[8+i*2:8+i*2+2], dig)
	}
	return b
}

var base10000 = big.NewInt(10000)

// bigInt reconstructs the integer value of d, assuming Scale == 0.
func (d Decimal) bigInt() *big.Int {
	val := new(big.Int)
	for _, dig := range d.Digits {
		val.Mul(val, base10000)
		val.Add(val, big.NewInt(int64(dig)))
	}
	if trailing := int(d.Weight) - (len(d.Digits) - 1); trailing > 0 {
		pow := new(big.Int).Exp(base10000, big.NewInt(int64(trailing)), nil)
		val.Mul(val, pow)
	}
	if d.Negative {
		val.Neg(val)
	}
	return val
}

func decimalFromBigInt(v *big.Int) Decimal {
	if v.Sign() == 0 {
		return Decimal{Digits: []uint16{0}, Weight: 0}
	}

	mag := new(big.Int).Abs(v)
	var digits []uint16
	for mag.Sign() != 0 {
		q, r := new(big.Int).QuoRem(mag, base10000, new(big.Int))
		digits = append([]uint16{uint16(r.Int64())}, digits...)
		mag = q
	}

	return Decimal{
		Negative: v.Sign() < 0,
		Weight:   int16(len(digits) - 1),
		Scale:    0,
		Digits:   digits,
	}
}

// String renders d in plain decimal notation, honoring Scale for the
// fractional digit count.
func (d Decimal) String() string {
	var sb strings.Builder
	if d.Negative {
		sb.WriteByte('-')
	}

	intVal := d.bigInt()
	if d.Negative {
		intVal.Neg(intVal)
	}

	if d.Scale == 0 {
		sb.WriteString(intVal.String())
		return sb.String()
	}

	s := intVal.String()
	scale := int(d.Scale)
	if len(s) <= scale {
		s = strings.Repeat("0", scale-len(s)+1) + s
	}
	sb.WriteString(s[:len(s)-scale])
	sb.WriteByte('.')
	sb.WriteString(s[len(s)-scale:])
	return sb.String()
}

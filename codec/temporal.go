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

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// microsPerDay is the span of one local-time value, exclusive upper bound.
const microsPerDay = 86_400_000_000

// Duration is a std::duration value: microseconds only, no calendar
// component (spec.md §4.3: "duration: i64 micros, u32 days==0, u32
// months==0").
type Duration struct {
	Micros int64
}

// DecodeDuration decodes a std::duration value, rejecting a calendar
// component that must always be zero for this variant.
func DecodeDuration(buf []byte) (Duration, error) {
	if err := exactSize(buf, 16, "duration"); err != nil {
		return Duration{}, err
	}
	micros := int64(binary.BigEndian.Uint64(buf[0:8]))
	days := binary.BigEndian.Uint32(buf[8:12])
	months := binary.BigEndian.Uint32(buf[12:16])
	if days != 0 || months != 0 {
		return Duration{}, gelerr.New(gelerr.NonZeroReservedBytes, "duration days/months must be zero")
	}
	return Duration{Micros: micros}, nil
}

// EncodeDuration encodes a std::duration value.
func EncodeDuration(d Duration) []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[0:8], uint64(d.Micros))
	return b
}

// RelativeDuration is a std::cal::relative_duration value, carrying a
// calendar component alongside its microsecond offset.
type RelativeDuration struct {
	Micros int64
	Days   int32
	Months int32
}

// DecodeRelativeDuration decodes a std::cal::relative_duration value.
func DecodeRelativeDuration(buf []byte) (RelativeDuration, error) {
	if err := exactSize(buf, 16, "relative_duration"); err != nil {
		return RelativeDuration{}, err
	}
	return RelativeDuration{
		Micros: int64(binary.BigEndian.Uint64(buf[0:8])),
		Days:   int32(binary.BigEndian.Uint32(buf[8:12])),
		Months: int32(binary.BigEndian.Uint32(buf[12:16])),
	}, nil
}

// EncodeRelativeDuration encodes a std::cal::relative_duration value.
func EncodeRelativeDuration(d RelativeDuration) []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[0:8], uint64(d.Micros))
	binary.BigEndian.PutUint32(b[8:12], uint32(d.Days))
	binary.BigEndian.PutUint32(b[12:16], uint32(d.Months))
	return b
}

// DateDuration is a std::cal::date_duration value: calendar-only, its
// microsecond field must always be zero.
type DateDuration struct {
	Days   int32
	Months int32
}

// DecodeDateDuration decodes a std::cal::date_duration value.
func DecodeDateDuration(buf []byte) (DateDuration, error) {
	if err := exactSize(buf, 16, "date_duration"); err != nil {
		return DateDuration{}, err
	}
	micros := int64(binary.BigEndian.Uint64(buf[0:8]))
	if micros != 0 {
		return DateDuration{}, gelerr.New(gelerr.NonZeroReservedBytes, "date_duration micros must be zero")
	}
	return DateDuration{
		Days:   int32(binary.BigEndian.Uint32(buf[8:12])),
		Months: int32(binary.BigEndian.Uint32(buf[12:16])),
	}, nil
}

// EncodeDateDuration encodes a std::cal::date_duration value.
func EncodeDateDuration(d DateDuration) []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint32(b[8:12], uint32(d.Days))
	binary.BigEndian.PutUint32(b[12:16], uint32(d.Months))
	return b
}

// DecodeLocalDate decodes a std::cal::local_date value: days since the
// Postgres epoch (2000-01-01).
func DecodeLocalDate(buf []byte) (int32, error) {
	return DecodeInt32(buf)
}

// EncodeLocalDate encodes a std::cal::local_date value.
func EncodeLocalDate(daysSincePGEpoch int32) []byte {
	return EncodeInt32(daysSincePGEpoch)
}

// DecodeLocalTime decodes a std::cal::local_time value: microseconds
// since midnight, in [0, 86_400_000_000).
func DecodeLocalTime(buf []byte) (int64, error) {
	micros, err := DecodeInt64(buf)
	if err != nil {
		return 0, err
	}
	if micros < 0 || micros >= microsPerDay {
		return 0, gelerr.Newf(gelerr.InvalidDate, "local_time micros %d out of range [0, %d)", micros, microsPerDay)
	}
	return micros, nil
}

// EncodeLocalTime encodes a std::cal::local_time value.
func EncodeLocalTime(microsSinceMidnight int64) []byte {
	return EncodeInt64(microsSinceMidnight)
}

// DecodeDateTime decodes a std::datetime or std::cal::local_datetime
// value: microseconds since the Postgres epoch.
func DecodeDateTime(buf []byte) (int64, error) {
	return DecodeInt64(buf)
}

// EncodeDateTime encodes a std::datetime or std::cal::local_datetime value.
func EncodeDateTime(microsSincePGEpoch int64) []byte {
	return EncodeInt64(microsSincePGEpoch)
}

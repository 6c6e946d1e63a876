/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package duration

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseString parses s as a Duration. Quotes and space characters anywhere
// in s are stripped first (other whitespace is not) so DSN/env values copied from a shell or a config
// file round-trip cleanly. A leading "Nd" component (signed, before any
// other unit) is consumed as whole days; the remainder, if any, is handed
// to time.ParseDuration.
func parseString(s string) (Duration, error) {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, fmt.Errorf("duration: empty duration string")
	}

	neg := false
	rest := s
	switch rest[0] {
	case '-':
		neg = true
		rest = rest[1:]
	case '+':
		rest = rest[1:]
	}
	if rest == "" {
		return 0, fmt.Errorf("duration: %q has no digits", s)
	}

	var days int64
	if idx := strings.IndexByte(rest, 'd'); idx >= 0 {
		n, err := strconv.ParseInt(rest[:idx], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("duration: invalid day count in %q: %w", s, err)
		}
		days = n
		rest = rest[idx+1:]
	}

	var base time.Duration
	if rest != "" {
		b, err := time.ParseDuration(rest)
		if err != nil {
			return 0, fmt.Errorf("duration: %w", err)
		}
		base = b
	}

	total := time.Duration(days)*24*time.Hour + base
	if neg {
		total = -total
	}
	return Duration(total), nil
}

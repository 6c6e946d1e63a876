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
	"github.com/google/uuid"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// CheckScalar implements the descriptor check algorithm (spec.md §4.3):
//  1. Resolve the descriptor at pos.
//  2. If Scalar with a base_type_pos, recurse on the base.
//  3. If protoVersion >= 2 and the Scalar's id matches expected, accept.
//  4. Else if BaseScalar with matching id, accept.
//  5. Else fail DescriptorMismatch.
//
// Enumeration descriptors are accepted for string/enum bindings without
// validating members against a compile-time enum; an unknown variant is
// only an error once actually decoded.
func CheckScalar(forest Forest, pos TypePos, expected uuid.UUID, protoMajor uint16) error {
	desc, ok := forest.At(pos)
	if !ok {
		return gelerr.Newf(gelerr.DescriptorMismatch, "type position %d out of range", pos)
	}

	if _, isEnum := desc.(EnumerationDescriptor); isEnum {
		return nil
	}

	if scalar, isScalar := desc.(ScalarDescriptor); isScalar {
		if protoMajor >= 2 && scalar.TypeID == expected {
			return nil
		}
		return CheckScalar(forest, scalar.BasePos, expected, protoMajor)
	}

	if base, isBase := desc.(BaseScalarDescriptor); isBase {
		if base.TypeID == expected {
			return nil
		}
		return gelerr.Newf(gelerr.DescriptorMismatch, "expected %s, got %s", expected, base.TypeID)
	}

	return gelerr.Newf(gelerr.DescriptorMismatch, "descriptor at position %d is neither scalar nor enumeration", pos)
}

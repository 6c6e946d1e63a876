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

package message

// ProtocolVersion is the negotiated (major, minor) pair from the handshake.
// Parse2/Execute2 drop the input_language field below version 2 (spec.md
// §4.1): "Under protocol version <2, the Parse2/Execute2 messages omit
// input_language and the client must not send it."
type ProtocolVersion struct {
	Major uint16
	Minor uint16
}

// AtLeast reports whether v is >= major.minor.
func (v ProtocolVersion) AtLeast(major, minor uint16) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// HasInputLanguage reports whether Parse/Execute carry input_language under v.
func (v ProtocolVersion) HasInputLanguage() bool {
	return v.AtLeast(2, 0)
}

// InputLanguage selects the query language of a Parse/Execute request.
type InputLanguage byte

const (
	LanguageNone   InputLanguage = 0
	LanguageEdgeQL InputLanguage = 'E'
	LanguageSQL    InputLanguage = 'S'
)

// IoFormat selects how the server encodes result rows.
type IoFormat byte

const (
	FormatBinary       IoFormat = 'b'
	FormatJSON         IoFormat = 'j'
	FormatJSONElements IoFormat = 'J'
	FormatNone         IoFormat = 'n'
)

// Cardinality bounds the expected row count of a query (spec.md §4.1).
type Cardinality byte

const (
	CardinalityNoResult   Cardinality = 0x6e
	CardinalityAtMostOne  Cardinality = 0x6f
	CardinalityOne        Cardinality = 0x41
	CardinalityMany       Cardinality = 0x6d
	CardinalityAtLeastOne Cardinality = 0x4d
)

// Optional reports whether zero rows is a valid outcome for c.
func (c Cardinality) Optional() bool {
	switch c {
	case CardinalityNoResult, CardinalityAtMostOne, CardinalityMany:
		return true
	default:
		return false
	}
}

// TxnState is the transaction sub-state carried on every ReadyForCommand.
type TxnState byte

const (
	TxnNotInTransaction TxnState = 'I'
	TxnInTransaction    TxnState = 'T'
	TxnInFailedTxn      TxnState = 'E'
)

// Capability is a bit in the u64 capability mask passed verbatim on
// Parse/Execute (spec.md §4.1: "modifications, DDL, session config,
// transaction ops").
type Capability uint64

const (
	CapModifications Capability = 1 << iota
	CapDDL
	CapPersistentConfig
	CapSystemConfig
	CapTransaction
	CapSessionConfig
	CapSetGlobal
)

// CapabilityAll is the default mask offered when a client imposes no
// restriction on what the server is allowed to execute.
const CapabilityAll Capability = ^Capability(0)

// CompilationFlags is the u64 compilation-flags mask passed verbatim on
// Parse/Execute alongside the capability mask.
type CompilationFlags uint64

const (
	FlagInjectOutputTypeIDs CompilationFlags = 1 << iota
	FlagInjectOutputTypeNames
	FlagInjectOutputObjectIDs
	FlagImplicitLimit
)

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

package gelerr

// Transport kinds (spec.md §7).
const (
	Io CodeError = MinTransport + iota
	Utf8
	TlsInvalidCertificateForName
	TlsCertificateRevoked
	TlsCertificateExpired
	TlsInvalidIssuer
	TlsInvalidProtocolData
	SslAlreadyUpgraded
)

// Framing kinds.
const (
	MessageTooShort CodeError = MinFraming + iota
	MessageTooLarge
	UnexpectedMessage
	UnsupportedProtocolVersion
)

// Codec kinds.
const (
	Underflow CodeError = MinCodec + iota
	ExtraData
	InvalidUtf8
	InvalidJsonFormat
	InvalidBool
	BadSign
	NonZeroReservedBytes
	InvalidDate
	DescriptorMismatch
	ExtraEnumValue
)

// Protocol kinds.
const (
	AuthFailed CodeError = MinProtocol + iota
	ServerError
	UnexpectedState
	NoDataError
	CardinalityViolation
)

// Configuration kinds.
const (
	MultipleCompound CodeError = MinConfig + iota
	ExclusiveOptions
	InvalidTlsSecurity
	InvalidDuration
	FileNotFound
	InvalidDSN
	InvalidCredentialsFile
)

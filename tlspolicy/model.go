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

// Package tlspolicy builds the *tls.Config a connection dials with: server
// verification mode, root/client CA pools, ALPN, and the IP-literal SNI
// rewrite the server-verify step needs.
package tlspolicy

import (
	"crypto/tls"
	"crypto/x509"
)

// ServerVerify selects how strictly the client validates the server's certificate.
type ServerVerify uint8

const (
	// Default is VerifyFull unless a pinned root certificate is present,
	// in which case it behaves as IgnoreHostname.
	Default ServerVerify = iota
	VerifyFull
	IgnoreHostname
	Insecure
)

// RootSource selects where the trust store's root certificates come from.
type RootSource uint8

const (
	RootSystem RootSource = iota
	RootSystemPlusAdditional
	RootWebpki
	RootWebpkiPlusAdditional
	RootCustomOnly
)

// alpnProtocols is always advertised, regardless of policy.
var alpnProtocols = []string{"edgedb-binary", "gel-binary"}

// Policy is the immutable set of inputs used to build a *tls.Config for a dial.
type Policy struct {
	Verify       ServerVerify
	RootSource   RootSource
	RootCAs      []*x509.Certificate
	ClientCAs    []*x509.Certificate
	Certificates []tls.Certificate
	MinVersion   uint16
	MaxVersion   uint16
	SNIOverride  string
}

// effectiveVerify resolves Default against whether a pinned root cert is present.
func (p Policy) effectiveVerify() ServerVerify {
	if p.Verify != Default {
		return p.Verify
	}
	if len(p.RootCAs) > 0 {
		return IgnoreHostname
	}
	return VerifyFull
}

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

package tlspolicy

import (
	"crypto/x509"
	"errors"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// Normalize maps a crypto/tls or crypto/x509 handshake failure onto one of
// the stable kinds from spec.md §4.1, so callers never branch on which
// crypto backend produced the failure.
func Normalize(err error) gelerr.Error {
	if err == nil {
		return nil
	}

	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return gelerr.New(gelerr.TlsInvalidCertificateForName, "certificate not valid for name", err)
	}

	var unknownAuth x509.UnknownAuthorityError
	if errors.As(err, &unknownAuth) {
		return gelerr.New(gelerr.TlsInvalidIssuer, "unknown certificate issuer", err)
	}

	var invalid x509.CertificateInvalidError
	if errors.As(err, &invalid) {
		switch invalid.Reason {
		case x509.Expired:
			return gelerr.New(gelerr.TlsCertificateExpired, "certificate expired", err)
		default:
			return gelerr.New(gelerr.TlsInvalidIssuer, "certificate invalid", err)
		}
	}

	return gelerr.New(gelerr.TlsInvalidProtocolData, "tls protocol error", err)
}

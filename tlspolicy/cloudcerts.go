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
	"encoding/pem"
	"sync"
)

// cloudCertPEM maps a bundle name to the PEM roots for managed cloud
// deployments of the server. Parsed once per process, lazily, and kept
// immutable thereafter (spec.md §5, "Shared resources"). The map has no
// entries, so CloudRootCA returns nil for every name.
var cloudCertPEM = map[string]string{}

var (
	cloudCertOnce  sync.Once
	cloudCertPool  map[string][]*x509.Certificate
	cloudCertMutex sync.RWMutex
)

// CloudRootCA returns the parsed root certificates for a named cloud
// certificate bundle, parsing lazily on first use.
func CloudRootCA(name string) []*x509.Certificate {
	cloudCertOnce.Do(func() {
		cloudCertMutex.Lock()
		defer cloudCertMutex.Unlock()

		cloudCertPool = make(map[string][]*x509.Certificate, len(cloudCertPEM))
		for bundle, pem := range cloudCertPEM {
			cloudCertPool[bundle] = ParsePEMBundle(pem)
		}
	})

	cloudCertMutex.RLock()
	defer cloudCertMutex.RUnlock()

	return cloudCertPool[name]
}

// ParsePEMBundle decodes every CERTIFICATE block in pemData, skipping
// anything else (private keys, CSRs) and any block that fails to parse.
func ParsePEMBundle(pemData string) []*x509.Certificate {
	var (
		res  []*x509.Certificate
		rest = []byte(pemData)
		blk  *pem.Block
	)

	for {
		blk, rest = pem.Decode(rest)
		if blk == nil {
			break
		}
		if blk.Type != "CERTIFICATE" {
			continue
		}
		if c, err := x509.ParseCertificate(blk.Bytes); err == nil {
			res = append(res, c)
		}
	}

	return res
}

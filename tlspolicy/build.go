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
	"crypto/tls"
	"crypto/x509"
)

// Build constructs the *tls.Config used to dial host, applying the IP-literal
// SNI rewrite (spec.md §4.1) and the resolved verify mode.
func (p Policy) Build(host string) *tls.Config {
	sni := ServerName(host, p.SNIOverride)

	cfg := &tls.Config{
		ServerName:   sni,
		NextProtos:   append([]string(nil), alpnProtocols...),
		Certificates: p.Certificates,
		MinVersion:   p.MinVersion,
		MaxVersion:   p.MaxVersion,
	}

	if len(p.RootCAs) > 0 {
		pool := x509.NewCertPool()
		for _, c := range p.RootCAs {
			pool.AddCert(c)
		}
		cfg.RootCAs = pool
	}

	if len(p.ClientCAs) > 0 {
		pool := x509.NewCertPool()
		for _, c := range p.ClientCAs {
			pool.AddCert(c)
		}
		cfg.ClientCAs = pool
		cfg.ClientAuth = tls.VerifyClientCertIfGiven
	}

	switch p.effectiveVerify() {
	case Insecure:
		cfg.InsecureSkipVerify = true
	case IgnoreHostname:
		cfg.InsecureSkipVerify = true
		cfg.VerifyPeerCertificate = verifyChainIgnoringHostname(cfg)
	default: // VerifyFull
	}

	return cfg
}

// verifyChainIgnoringHostname builds a VerifyPeerCertificate callback that
// validates the certificate chain against cfg.RootCAs without checking that
// the leaf's name matches cfg.ServerName.
func verifyChainIgnoringHostname(cfg *tls.Config) func([][]byte, [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if len(rawCerts) == 0 {
			return nil
		}

		leaf, err := x509.ParseCertificate(rawCerts[0])
		if err != nil {
			return err
		}

		inter := x509.NewCertPool()
		for _, raw := range rawCerts[1:] {
			if c, e := x509.ParseCertificate(raw); e == nil {
				inter.AddCert(c)
			}
		}

		opts := x509.VerifyOptions{
			Roots:         cfg.RootCAs,
			Intermediates: inter,
		}

		_, err = leaf.Verify(opts)
		return err
	}
}

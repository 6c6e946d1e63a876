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

package config

import (
	"os"

	"github.com/sabouaram/gelclient/tlspolicy"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// buildPolicy bridges DSN/credentials-file/environment TLS fields into a
// tlspolicy.Policy, the way the teacher's tls component bridged its own
// JSON config into a *tls.Config (config/components/tls/default.go).
func buildPolicy(o TLSOptions) (tlspolicy.Policy, error) {
	if o.CA != "" && o.CAFile != "" {
		return tlspolicy.Policy{}, gelerr.New(gelerr.ExclusiveOptions, "tls_ca and tls_ca_file are mutually exclusive")
	}

	p := tlspolicy.Policy{SNIOverride: o.ServerName}

	verify, err := parseTLSSecurity(o.Security, o.CA != "" || o.CAFile != "")
	if err != nil {
		return tlspolicy.Policy{}, err
	}
	p.Verify = verify

	pemData := o.CA
	if o.CAFile != "" {
		raw, rerr := os.ReadFile(o.CAFile)
		if rerr != nil {
			return tlspolicy.Policy{}, gelerr.New(gelerr.FileNotFound, "tls_ca_file not found", rerr)
		}
		pemData = string(raw)
	}

	if pemData != "" {
		p.RootSource = tlspolicy.RootCustomOnly
		p.RootCAs = tlspolicy.ParsePEMBundle(pemData)
	} else {
		p.RootSource = tlspolicy.RootSystem
	}

	return p, nil
}

// parseTLSSecurity maps the DSN/credentials-file tls_security string onto
// a tlspolicy.ServerVerify, applying spec.md §4.5's pinned-certificate
// Default behavior.
func parseTLSSecurity(v string, pinned bool) (tlspolicy.ServerVerify, error) {
	switch v {
	case "", "default":
		if pinned {
			return tlspolicy.IgnoreHostname, nil
		}
		return tlspolicy.Default, nil
	case "strict":
		return tlspolicy.VerifyFull, nil
	case "no_host_verification":
		return tlspolicy.IgnoreHostname, nil
	case "insecure":
		return tlspolicy.Insecure, nil
	default:
		return 0, gelerr.Newf(gelerr.InvalidTlsSecurity, "unknown tls_security %q", v)
	}
}


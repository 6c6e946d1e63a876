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
	"net"
	"strings"
)

// hostForIPDomain is the vendor domain under which a synthetic per-IP SNI
// hostname is minted, since the TLS client-hello cannot present a bare IP
// literal as an SNI value.
const hostForIPDomain = "host-for-ip.gel.cloud"

// ServerName resolves the SNI name to present for host, honoring an explicit
// override and rewriting IP literals into the synthetic per-IP form.
func ServerName(host, override string) string {
	if override != "" {
		return override
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return host
	}

	rewritten := strings.NewReplacer(".", "-", ":", "-", "%", "-").Replace(host)
	if strings.HasPrefix(rewritten, "-") {
		rewritten = "i" + rewritten
	}

	return rewritten + "." + hostForIPDomain
}

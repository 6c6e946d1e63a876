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

package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/gelclient/config"
	"github.com/sabouaram/gelclient/gelerr"
	"github.com/sabouaram/gelclient/tlspolicy"
)

const testCert = `-----BEGIN CERTIFICATE-----
MIIBhTCCASugAwIBAgIQIaCzoVYpKJgTzjNwZLXCYjAKBggqhkjOPQQDAjASMRAw
DgYDVQQKEwdnZWxjbGllbnQwHhcNMjAwMTAxMDAwMDAwWhcNMzAwMTAxMDAwMDAw
WjASMRAwDgYDVQQKEwdnZWxjbGllbnQwWTATBgcqhkjOPQIBBggqhkjOPQMBBwNC
AASBS3v4ovn0TpwQGQ/PJOe/ilBsVYgGfwMEGdGl2m9zW1/0P/f8tAm65Y0lr/8y
b1uV9c0fSj4tHjqa8xf2KZwuo0IwQDAOBgNVHQ8BAf8EBAMCAqQwDwYDVR0TAQH/
BAUwAwEB/zAdBgNVHQ4EFgQU5C1KjrNx1Kf3RS2XLH24RYJv+04wCgYIKoZIzj0E
AwIDSAAwRQIgGa9C1u65NfVvgZ0hwjqIH2O2v6sBOqzSyWQ1Vb8TVaUCIQD1Q6Pz
aB6Dk4K0X2YfnTOLiR5RjT3sAmQJbErPnLbUHw==
-----END CERTIFICATE-----`

var _ = Describe("TLSOptions.Policy", func() {
	It("defaults to full verification against the system root pool", func() {
		policy, err := config.TLSOptions{}.Policy()
		Expect(err).NotTo(HaveOccurred())
		Expect(policy.RootSource).To(Equal(tlspolicy.RootSystem))
		Expect(policy.Verify).To(Equal(tlspolicy.Default))
	})

	It("downgrades default verification to IgnoreHostname once a CA is pinned", func() {
		policy, err := config.TLSOptions{CA: testCert}.Policy()
		Expect(err).NotTo(HaveOccurred())
		Expect(policy.Verify).To(Equal(tlspolicy.IgnoreHostname))
		Expect(policy.RootSource).To(Equal(tlspolicy.RootCustomOnly))
	})

	It("maps tls_security strict to full verification even when pinned", func() {
		policy, err := config.TLSOptions{CA: testCert, Security: "strict"}.Policy()
		Expect(err).NotTo(HaveOccurred())
		Expect(policy.Verify).To(Equal(tlspolicy.VerifyFull))
	})

	It("rejects an unrecognized tls_security value", func() {
		_, err := config.TLSOptions{Security: "whatever"}.Policy()
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.InvalidTlsSecurity))
	})

	It("rejects CA and CAFile given together", func() {
		_, err := config.TLSOptions{CA: testCert, CAFile: "/some/path"}.Policy()
		Expect(err).To(HaveOccurred())
		Expect(gelerr.Kind(err)).To(Equal(gelerr.ExclusiveOptions))
	})
})

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

// Package sasl implements the SCRAM-SHA-256 client side of the SASL
// authentication exchange (spec.md §4.1, RFC 5802/7677).
package sasl

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// MethodScramSHA256 is the only SASL mechanism this client offers.
const MethodScramSHA256 = "SCRAM-SHA-256"

const defaultIterations = 4096

// ScramSHA256 drives one client-side SCRAM-SHA-256 exchange. Not safe for
// concurrent use; a connection runs at most one exchange at a time.
type ScramSHA256 struct {
	username string
	password string

	clientNonce string
	authMessage string
	saltedPass  []byte

	done bool
}

// NewScramSHA256 starts a new exchange for username/password.
func NewScramSHA256(username, password string) (*ScramSHA256, error) {
	nonce, err := randomNonce(24)
	if err != nil {
		return nil, gelerr.New(gelerr.AuthFailed, "sasl: failed to generate client nonce", err)
	}
	return &ScramSHA256{username: username, password: password, clientNonce: nonce}, nil
}

func randomNonce(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawStdEncoding.EncodeToString(buf), nil
}

// ClientFirstMessageBare returns the "n=<user>,r=<nonce>" part of the
// client-first-message, without the GS2 header.
func (s *ScramSHA256) ClientFirstMessageBare() string {
	return fmt.Sprintf("n=%s,r=%s", escapeSaslName(s.username), s.clientNonce)
}

// ClientFirstMessage returns the full GS2 header plus bare message.
func (s *ScramSHA256) ClientFirstMessage() string {
	return "n,," + s.ClientFirstMessageBare()
}

// HandleServerFirstMessage consumes the server's "r=...,s=...,i=..." reply
// and returns the client-final-message to send back as the SASL response.
func (s *ScramSHA256) HandleServerFirstMessage(serverFirst string) (string, error) {
	fields, err := parseFields(serverFirst)
	if err != nil {
		return "", err
	}

	serverNonce, ok := fields["r"]
	if !ok || !strings.HasPrefix(serverNonce, s.clientNonce) {
		return "", gelerr.New(gelerr.AuthFailed, "sasl: server nonce does not extend client nonce")
	}

	saltB64, ok := fields["s"]
	if !ok {
		return "", gelerr.New(gelerr.AuthFailed, "sasl: server-first-message missing salt")
	}
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return "", gelerr.New(gelerr.AuthFailed, "sasl: salt is not valid base64", err)
	}

	iterStr, ok := fields["i"]
	if !ok {
		return "", gelerr.New(gelerr.AuthFailed, "sasl: server-first-message missing iteration count")
	}
	iterations := defaultIterations
	if n, perr := parsePositiveInt(iterStr); perr == nil {
		iterations = n
	}

	s.saltedPass = pbkdf2.Key([]byte(s.password), salt, iterations, sha256.Size, sha256.New)

	channelBinding := base64.StdEncoding.EncodeToString([]byte("n,,"))
	clientFinalWithoutProof := fmt.Sprintf("c=%s,r=%s", channelBinding, serverNonce)

	s.authMessage = s.ClientFirstMessageBare() + "," + serverFirst + "," + clientFinalWithoutProof

	clientKey := hmacSum(s.saltedPass, []byte("Client Key"))
	storedKey := sha256.Sum256(clientKey)
	clientSignature := hmacSum(storedKey[:], []byte(s.authMessage))
	clientProof := xorBytes(clientKey, clientSignature)

	clientFinal := clientFinalWithoutProof + ",p=" + base64.StdEncoding.EncodeToString(clientProof)
	return clientFinal, nil
}

// HandleServerFinalMessage verifies the server's "v=..." signature, proving
// the server also knows the shared secret.
func (s *ScramSHA256) HandleServerFinalMessage(serverFinal string) error {
	fields, err := parseFields(serverFinal)
	if err != nil {
		return err
	}

	if errMsg, ok := fields["e"]; ok {
		return gelerr.Newf(gelerr.AuthFailed, "sasl: server reported error %q", errMsg)
	}

	vb64, ok := fields["v"]
	if !ok {
		return gelerr.New(gelerr.AuthFailed, "sasl: server-final-message missing verifier")
	}
	gotSig, err := base64.StdEncoding.DecodeString(vb64)
	if err != nil {
		return gelerr.New(gelerr.AuthFailed, "sasl: server signature is not valid base64", err)
	}

	serverKey := hmacSum(s.saltedPass, []byte("Server Key"))
	wantSig := hmacSum(serverKey, []byte(s.authMessage))

	if subtle.ConstantTimeCompare(gotSig, wantSig) != 1 {
		return gelerr.New(gelerr.AuthFailed, "sasl: server signature mismatch")
	}

	s.done = true
	return nil
}

// Done reports whether the server's final signature has been verified.
func (s *ScramSHA256) Done() bool { return s.done }

func hmacSum(key, msg []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(msg)
	return h.Sum(nil)
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// escapeSaslName escapes ',' and '=' per RFC 5802 §5.1's saslname grammar.
func escapeSaslName(name string) string {
	r := strings.NewReplacer("=", "=3D", ",", "=2C")
	return r.Replace(name)
}

func parseFields(msg string) (map[string]string, error) {
	fields := make(map[string]string)
	for _, part := range strings.Split(msg, ",") {
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, gelerr.Newf(gelerr.AuthFailed, "sasl: malformed attribute %q", part)
		}
		fields[kv[0]] = kv[1]
	}
	return fields, nil
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, gelerr.Newf(gelerr.AuthFailed, "sasl: %q is not a positive integer", s)
		}
		n = n*10 + int(r-'0')
	}
	if n <= 0 {
		return 0, gelerr.Newf(gelerr.AuthFailed, "sasl: %q is not a positive integer", s)
	}
	return n, nil
}

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

package protocol_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net"
	"regexp"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/sabouaram/gelclient/framing/message"
)

var clientNonceRe = regexp.MustCompile(`r=([^,]+)`)

func hmacSum(key, msg []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(msg)
	return h.Sum(nil)
}

// runDowngradeThenOkServer expects one ClientHandshake at {2,0}, proposes
// {1,0}, expects a retried ClientHandshake at {1,0}, then completes
// authentication without SASL.
func runDowngradeThenOkServer(conn net.Conn) error {
	defer conn.Close()
	s := newTestServer(conn)
	s.version = message.ProtocolVersion{Major: 1, Minor: 0}

	m, err := s.readFrontend()
	if err != nil {
		return err
	}
	first, ok := m.(message.ClientHandshake)
	if !ok || first.Major != 2 || first.Minor != 0 {
		return fmt.Errorf("unexpected first handshake: %#v", m)
	}
	if err := s.write(message.ServerHandshake{Major: 1, Minor: 0}); err != nil {
		return err
	}

	m, err = s.readFrontend()
	if err != nil {
		return err
	}
	second, ok := m.(message.ClientHandshake)
	if !ok || second.Major != 1 || second.Minor != 0 {
		return fmt.Errorf("unexpected retried handshake: %#v", m)
	}

	if err := s.write(message.AuthenticationOk{}); err != nil {
		return err
	}
	if err := s.write(message.ParameterStatus{Name: []byte("server_version"), Value: []byte("6.0")}); err != nil {
		return err
	}
	return s.write(message.ReadyForCommand{State: message.TxnNotInTransaction})
}

// runDoubleDowngradeServer proposes a second, different version after the
// client already spent its one retry, which the client must reject.
func runDoubleDowngradeServer(conn net.Conn) error {
	defer conn.Close()
	s := newTestServer(conn)

	if _, err := s.readFrontend(); err != nil {
		return err
	}
	if err := s.write(message.ServerHandshake{Major: 1, Minor: 0}); err != nil {
		return err
	}

	if _, err := s.readFrontend(); err != nil {
		return err
	}
	return s.write(message.ServerHandshake{Major: 0, Minor: 13})
}

// runScramServer drives a real RFC-5802-style SCRAM-SHA-256 exchange
// against whatever password the client authenticates with, succeeding only
// when it matches wantPassword.
func runScramServer(conn net.Conn, username, wantPassword string) error {
	defer conn.Close()
	s := newTestServer(conn)

	if _, err := s.readFrontend(); err != nil {
		return err
	}
	if err := s.write(message.AuthenticationSASL{Methods: []string{"SCRAM-SHA-256"}}); err != nil {
		return err
	}

	m, err := s.readFrontend()
	if err != nil {
		return err
	}
	initial, ok := m.(message.AuthenticationSASLInitialResponse)
	if !ok {
		return fmt.Errorf("expected SASLInitialResponse, got %T", m)
	}

	clientFirst := string(initial.SASLData)
	clientFirstBare := clientFirst[strings.Index(clientFirst, "n="):]
	nonceMatch := clientNonceRe.FindStringSubmatch(clientFirstBare)
	if nonceMatch == nil {
		return fmt.Errorf("malformed client-first-message: %q", clientFirst)
	}
	serverNonce := nonceMatch[1] + "server-extension"

	salt := []byte("integration-test-salt")
	iterations := 4096
	saltedPass := pbkdf2.Key([]byte(wantPassword), salt, iterations, sha256.Size, sha256.New)

	serverFirst := fmt.Sprintf("r=%s,s=%s,i=%d", serverNonce, base64.StdEncoding.EncodeToString(salt), iterations)
	if err := s.write(message.AuthenticationSASLContinue{SASLData: []byte(serverFirst)}); err != nil {
		return err
	}

	m, err = s.readFrontend()
	if err != nil {
		return err
	}
	resp, ok := m.(message.AuthenticationSASLResponse)
	if !ok {
		return fmt.Errorf("expected SASLResponse, got %T", m)
	}

	clientFinal := string(resp.SASLData)
	withoutProofEnd := strings.Index(clientFinal, ",p=")
	if withoutProofEnd < 0 {
		return fmt.Errorf("malformed client-final-message: %q", clientFinal)
	}
	clientFinalWithoutProof := clientFinal[:withoutProofEnd]
	gotProofB64 := clientFinal[withoutProofEnd+len(",p="):]
	gotProof, err := base64.StdEncoding.DecodeString(gotProofB64)
	if err != nil {
		return err
	}

	authMessage := clientFirstBare + "," + serverFirst + "," + clientFinalWithoutProof
	clientKey := hmacSum(saltedPass, []byte("Client Key"))
	storedKey := sha256.Sum256(clientKey)
	wantSig := hmacSum(storedKey[:], []byte(authMessage))
	wantProof := make([]byte, len(clientKey))
	for i := range clientKey {
		wantProof[i] = clientKey[i] ^ wantSig[i]
	}

	if !hmac.Equal(gotProof, wantProof) {
		return s.write(message.ErrorResponse{Severity: 120, Code: 0x01000000, Message: []byte("authentication failed")})
	}

	serverKey := hmacSum(saltedPass, []byte("Server Key"))
	verifier := hmacSum(serverKey, []byte(authMessage))
	if err := s.write(message.AuthenticationSASLFinal{SASLData: []byte("v=" + base64.StdEncoding.EncodeToString(verifier))}); err != nil {
		return err
	}
	if err := s.write(message.AuthenticationOk{}); err != nil {
		return err
	}
	return s.write(message.ReadyForCommand{State: message.TxnNotInTransaction})
}

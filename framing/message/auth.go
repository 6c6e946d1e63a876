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

package message

import (
	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// AuthenticationOk ends the authentication exchange successfully.
type AuthenticationOk struct{}

func (m AuthenticationOk) Tag() byte { return TagAuthentication }
func (m AuthenticationOk) Encode() []byte {
	b := &builder{}
	b.u32(AuthStatusOk)
	return b.buf
}

// AuthenticationSASL announces the server's offered SASL mechanisms.
type AuthenticationSASL struct {
	Methods []string
}

func (m AuthenticationSASL) Tag() byte { return TagAuthentication }
func (m AuthenticationSASL) Encode() []byte {
	b := &builder{}
	b.u32(AuthStatusSASL)
	b.u32(uint32(len(m.Methods)))
	for _, meth := range m.Methods {
		b.lstring([]byte(meth))
	}
	return b.buf
}

// AuthenticationSASLContinue carries one server SCRAM message.
type AuthenticationSASLContinue struct {
	SASLData []byte
}

func (m AuthenticationSASLContinue) Tag() byte { return TagAuthentication }
func (m AuthenticationSASLContinue) Encode() []byte {
	b := &builder{}
	b.u32(AuthStatusSASLContinue)
	b.lstring(m.SASLData)
	return b.buf
}

// AuthenticationSASLFinal carries the server's final SCRAM verifier.
type AuthenticationSASLFinal struct {
	SASLData []byte
}

func (m AuthenticationSASLFinal) Tag() byte { return TagAuthentication }
func (m AuthenticationSASLFinal) Encode() []byte {
	b := &builder{}
	b.u32(AuthStatusSASLFinal)
	b.lstring(m.SASLData)
	return b.buf
}

// decodeAuthentication peeks the auth_status sub-tag before selecting the
// final decoder (spec.md §4.2: "the framer must peek the secondary
// discriminator before selecting the final decoder").
func decodeAuthentication(c *cursor) (Message, error) {
	status := c.u32()
	switch status {
	case AuthStatusOk:
		return AuthenticationOk{}, c.extraOk()
	case AuthStatusSASL:
		n := int(c.u32())
		var methods []string
		if n > 0 {
			methods = make([]string, 0, n)
			for i := 0; i < n; i++ {
				methods = append(methods, string(c.lstring()))
			}
		}
		return AuthenticationSASL{Methods: methods}, c.extraOk()
	case AuthStatusSASLContinue:
		return AuthenticationSASLContinue{SASLData: c.lstring()}, c.extraOk()
	case AuthStatusSASLFinal:
		return AuthenticationSASLFinal{SASLData: c.lstring()}, c.extraOk()
	default:
		return nil, gelerr.Newf(gelerr.UnexpectedMessage, "unknown auth_status 0x%x", status)
	}
}

// AuthenticationSASLInitialResponse is the client's chosen mechanism plus
// its first SCRAM client message.
type AuthenticationSASLInitialResponse struct {
	Method   string
	SASLData []byte
}

func (m AuthenticationSASLInitialResponse) Tag() byte { return TagSASLInitial }
func (m AuthenticationSASLInitialResponse) Encode() []byte {
	b := &builder{}
	b.lstring([]byte(m.Method))
	b.lstring(m.SASLData)
	return b.buf
}

func decodeSASLInitial(c *cursor) (Message, error) {
	m := AuthenticationSASLInitialResponse{Method: string(c.lstring()), SASLData: c.lstring()}
	return m, c.extraOk()
}

// AuthenticationSASLResponse carries a subsequent client SCRAM message.
type AuthenticationSASLResponse struct {
	SASLData []byte
}

func (m AuthenticationSASLResponse) Tag() byte { return TagSASLResponse }
func (m AuthenticationSASLResponse) Encode() []byte {
	b := &builder{}
	b.lstring(m.SASLData)
	return b.buf
}

func decodeSASLResponse(c *cursor) (Message, error) {
	return AuthenticationSASLResponse{SASLData: c.lstring()}, c.extraOk()
}

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

// ServerKeyData carries an opaque cancellation key. May arrive before any
// ReadyForCommand (spec.md §4.1, step 3).
type ServerKeyData struct {
	Data [32]byte
}

func (m ServerKeyData) Tag() byte { return TagServerKeyData }
func (m ServerKeyData) Encode() []byte {
	b := &builder{}
	b.raw(m.Data[:])
	return b.buf
}

func decodeServerKeyData(c *cursor) (Message, error) {
	var m ServerKeyData
	copy(m.Data[:], c.bytes(32))
	return m, c.extraOk()
}

// ParameterStatus reports a server-side session parameter. May arrive
// before any ReadyForCommand.
type ParameterStatus struct {
	Name  []byte
	Value []byte
}

func (m ParameterStatus) Tag() byte { return TagParameterStatus }
func (m ParameterStatus) Encode() []byte {
	b := &builder{}
	b.lstring(m.Name)
	b.lstring(m.Value)
	return b.buf
}

func decodeParameterStatus(c *cursor) (Message, error) {
	return ParameterStatus{Name: c.lstring(), Value: c.lstring()}, c.extraOk()
}

// StateDataDescription announces the type descriptor of the session state
// blob the client must echo back on subsequent requests. May arrive before
// any ReadyForCommand.
type StateDataDescription struct {
	TypeID     [16]byte
	DescriptorData []byte
}

func (m StateDataDescription) Tag() byte { return TagStateDataDescription }
func (m StateDataDescription) Encode() []byte {
	b := &builder{}
	b.raw(m.TypeID[:])
	b.lstring(m.DescriptorData)
	return b.buf
}

func decodeStateDataDescription(c *cursor) (Message, error) {
	var m StateDataDescription
	copy(m.TypeID[:], c.bytes(16))
	m.DescriptorData = c.lstring()
	return m, c.extraOk()
}

// ReadyForCommand marks the connection Idle again and carries the
// transaction sub-state (spec.md §4.1: tracked "from every ReadyForCommand").
type ReadyForCommand struct {
	Headers []Header
	State   TxnState
}

func (m ReadyForCommand) Tag() byte { return TagReadyForCommand }
func (m ReadyForCommand) Encode() []byte {
	b := &builder{}
	encodeHeaders(b, m.Headers)
	b.u8(byte(m.State))
	return b.buf
}

func decodeReadyForCommand(c *cursor) (Message, error) {
	hs := decodeHeaders(c)
	state := TxnState(c.u8())
	return ReadyForCommand{Headers: hs, State: state}, c.extraOk()
}

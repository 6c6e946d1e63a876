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

// Parse is the pre-version-2 compile request: no input_language field
// (spec.md §4.1: "Under protocol version <2, the Parse2/Execute2 messages
// omit input_language and the client must not send it").
type Parse struct {
	Headers             []Header
	OutputFormat        IoFormat
	ExpectedCardinality Cardinality
	Command             []byte
	StateTypeID         [16]byte
	StateData           []byte
	Capabilities        Capability
	CompilationFlags    CompilationFlags
	ImplicitLimit       uint64
}

func (m Parse) Tag() byte { return TagParse }

func (m Parse) encodeBody(b *builder) {
	encodeHeaders(b, m.Headers)
	b.u64(uint64(m.Capabilities))
	b.u64(uint64(m.CompilationFlags))
	b.u64(m.ImplicitLimit)
	b.u8(byte(m.OutputFormat))
	b.u8(byte(m.ExpectedCardinality))
	b.lstring(m.Command)
	b.raw(m.StateTypeID[:])
	b.lstring(m.StateData)
}

func (m Parse) Encode() []byte {
	b := &builder{}
	m.encodeBody(b)
	return b.buf
}

func decodeParseBody(c *cursor) Parse {
	var m Parse
	m.Headers = decodeHeaders(c)
	m.Capabilities = Capability(c.u64())
	m.CompilationFlags = CompilationFlags(c.u64())
	m.ImplicitLimit = c.u64()
	m.OutputFormat = IoFormat(c.u8())
	m.ExpectedCardinality = Cardinality(c.u8())
	m.Command = c.lstring()
	copy(m.StateTypeID[:], c.bytes(16))
	m.StateData = c.lstring()
	return m
}

func decodeParse(c *cursor) (Message, error) {
	m := decodeParseBody(c)
	return m, c.extraOk()
}

// Parse2 is the version-2+ compile request, adding InputLanguage.
type Parse2 struct {
	Parse
	InputLanguage InputLanguage
}

func (m Parse2) Tag() byte { return TagParse }

func (m Parse2) Encode() []byte {
	b := &builder{}
	b.u8(byte(m.InputLanguage))
	m.Parse.encodeBody(b)
	return b.buf
}

func decodeParse2(c *cursor) (Message, error) {
	lang := InputLanguage(c.u8())
	body := decodeParseBody(c)
	return Parse2{Parse: body, InputLanguage: lang}, c.extraOk()
}

// Execute is the pre-version-2 execute request.
type Execute struct {
	Headers             []Header
	OutputFormat        IoFormat
	ExpectedCardinality Cardinality
	Command             []byte
	InputTypeID         [16]byte
	OutputTypeID        [16]byte
	Arguments           []byte
	StateTypeID         [16]byte
	StateData           []byte
	Capabilities        Capability
	CompilationFlags    CompilationFlags
	ImplicitLimit       uint64
}

func (m Execute) Tag() byte { return TagExecute }

func (m Execute) encodeBody(b *builder) {
	encodeHeaders(b, m.Headers)
	b.u64(uint64(m.Capabilities))
	b.u64(uint64(m.CompilationFlags))
	b.u64(m.ImplicitLimit)
	b.u8(byte(m.OutputFormat))
	b.u8(byte(m.ExpectedCardinality))
	b.lstring(m.Command)
	b.raw(m.StateTypeID[:])
	b.lstring(m.StateData)
	b.raw(m.InputTypeID[:])
	b.raw(m.OutputTypeID[:])
	b.lstring(m.Arguments)
}

func (m Execute) Encode() []byte {
	b := &builder{}
	m.encodeBody(b)
	return b.buf
}

func decodeExecuteBody(c *cursor) Execute {
	var m Execute
	m.Headers = decodeHeaders(c)
	m.Capabilities = Capability(c.u64())
	m.CompilationFlags = CompilationFlags(c.u64())
	m.ImplicitLimit = c.u64()
	m.OutputFormat = IoFormat(c.u8())
	m.ExpectedCardinality = Cardinality(c.u8())
	m.Command = c.lstring()
	copy(m.StateTypeID[:], c.bytes(16))
	m.StateData = c.lstring()
	copy(m.InputTypeID[:], c.bytes(16))
	copy(m.OutputTypeID[:], c.bytes(16))
	m.Arguments = c.lstring()
	return m
}

func decodeExecute(c *cursor) (Message, error) {
	return decodeExecuteBody(c), c.extraOk()
}

// Execute2 is the version-2+ execute request, adding InputLanguage.
type Execute2 struct {
	Execute
	InputLanguage InputLanguage
}

func (m Execute2) Tag() byte { return TagExecute }

func (m Execute2) Encode() []byte {
	b := &builder{}
	b.u8(byte(m.InputLanguage))
	m.Execute.encodeBody(b)
	return b.buf
}

func decodeExecute2(c *cursor) (Message, error) {
	lang := InputLanguage(c.u8())
	body := decodeExecuteBody(c)
	return Execute2{Execute: body, InputLanguage: lang}, c.extraOk()
}

// CommandDataDescription binds the input and output descriptor blocks and
// their UUIDs for a just-parsed command (spec.md §4.1, step 5).
type CommandDataDescription struct {
	Headers             []Header
	Capabilities        Capability
	ExpectedCardinality Cardinality
	InputTypeID         [16]byte
	InputTypeDescriptor []byte
	OutputTypeID        [16]byte
	OutputTypeDescriptor []byte
}

func (m CommandDataDescription) Tag() byte { return TagCommandDataDescription }
func (m CommandDataDescription) Encode() []byte {
	b := &builder{}
	encodeHeaders(b, m.Headers)
	b.u64(uint64(m.Capabilities))
	b.u8(byte(m.ExpectedCardinality))
	b.raw(m.InputTypeID[:])
	b.lstring(m.InputTypeDescriptor)
	b.raw(m.OutputTypeID[:])
	b.lstring(m.OutputTypeDescriptor)
	return b.buf
}

func decodeCommandDataDescription(c *cursor) (Message, error) {
	var m CommandDataDescription
	m.Headers = decodeHeaders(c)
	m.Capabilities = Capability(c.u64())
	m.ExpectedCardinality = Cardinality(c.u8())
	copy(m.InputTypeID[:], c.bytes(16))
	m.InputTypeDescriptor = c.lstring()
	copy(m.OutputTypeID[:], c.bytes(16))
	m.OutputTypeDescriptor = c.lstring()
	return m, c.extraOk()
}

// Data carries one result row as a sequence of length-prefixed element
// buffers, handed to the codec layer for decoding against a bound
// descriptor.
type Data struct {
	Elements [][]byte
}

func (m Data) Tag() byte { return TagData }
func (m Data) Encode() []byte {
	b := &builder{}
	b.u16(uint16(len(m.Elements)))
	for _, e := range m.Elements {
		b.lstring(e)
	}
	return b.buf
}

func decodeData(c *cursor) (Message, error) {
	n := int(c.u16())
	var els [][]byte
	if n > 0 {
		els = make([][]byte, 0, n)
		for i := 0; i < n; i++ {
			els = append(els, c.lstring())
		}
	}
	return Data{Elements: els}, c.extraOk()
}

// CommandComplete marks the end of a result set or of a dump stream.
type CommandComplete struct {
	Headers          []Header
	Capabilities     Capability
	Status           []byte
	StateTypeID      [16]byte
	StateData        []byte
}

func (m CommandComplete) Tag() byte { return TagCommandComplete }
func (m CommandComplete) Encode() []byte {
	b := &builder{}
	encodeHeaders(b, m.Headers)
	b.u64(uint64(m.Capabilities))
	b.lstring(m.Status)
	b.raw(m.StateTypeID[:])
	b.lstring(m.StateData)
	return b.buf
}

func decodeCommandComplete(c *cursor) (Message, error) {
	var m CommandComplete
	m.Headers = decodeHeaders(c)
	m.Capabilities = Capability(c.u64())
	m.Status = c.lstring()
	copy(m.StateTypeID[:], c.bytes(16))
	m.StateData = c.lstring()
	return m, c.extraOk()
}

// ErrorAttribute is one key/value entry of an ErrorResponse's attribute map.
type ErrorAttribute struct {
	Code  uint16
	Value []byte
}

// ErrorResponse reports a server-side failure. Sync recovers the
// connection to Idle afterward (spec.md §8, scenario 4).
type ErrorResponse struct {
	Severity   byte
	Code       uint32
	Message    []byte
	Attributes []ErrorAttribute
}

func (m ErrorResponse) Tag() byte { return TagErrorResponse }
func (m ErrorResponse) Encode() []byte {
	b := &builder{}
	b.u8(m.Severity)
	b.u32(m.Code)
	b.lstring(m.Message)
	b.u16(uint16(len(m.Attributes)))
	for _, a := range m.Attributes {
		b.u16(a.Code)
		b.lstring(a.Value)
	}
	return b.buf
}

func decodeErrorResponse(c *cursor) (Message, error) {
	var m ErrorResponse
	m.Severity = c.u8()
	m.Code = c.u32()
	m.Message = c.lstring()
	n := int(c.u16())
	if n > 0 {
		m.Attributes = make([]ErrorAttribute, 0, n)
		for i := 0; i < n; i++ {
			m.Attributes = append(m.Attributes, ErrorAttribute{Code: c.u16(), Value: c.lstring()})
		}
	}
	return m, c.extraOk()
}

// Sync requests a ReadyForCommand, flushing any pipelined error state.
type Sync struct{}

func (m Sync) Tag() byte      { return TagSync }
func (m Sync) Encode() []byte { return nil }

func decodeSync(c *cursor) (Message, error) {
	return Sync{}, c.extraOk()
}

// Terminate closes the connection gracefully.
type Terminate struct{}

func (m Terminate) Tag() byte      { return TagTerminate }
func (m Terminate) Encode() []byte { return nil }

func decodeTerminate(c *cursor) (Message, error) {
	return Terminate{}, c.extraOk()
}

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

// decoder turns a borrowed payload into a Message.
type decoder func(c *cursor) (Message, error)

// Backend maps tag byte to decoder for server-to-client messages. The 'R'
// entry peeks the auth_status sub-tag before producing a concrete
// Authentication* value (spec.md §4.2).
var Backend = map[byte]decoder{
	TagServerHandshake:        decodeServerHandshake,
	TagAuthentication:         decodeAuthentication,
	TagServerKeyData:          decodeServerKeyData,
	TagParameterStatus:        decodeParameterStatus,
	TagStateDataDescription:   decodeStateDataDescription,
	TagReadyForCommand:        decodeReadyForCommand,
	TagCommandDataDescription: decodeCommandDataDescription,
	TagData:                   decodeData,
	TagCommandComplete:        decodeCommandComplete,
	TagErrorResponse:          decodeErrorResponse,
	TagDumpHeader:             decodeDumpHeader,
	TagDumpBlock:              decodeDumpBlock,
	TagRestoreReady:           decodeRestoreReady,
}

// Frontend maps tag byte to decoder for client-to-server messages under
// protocol version < 2 (Parse/Execute omit input_language).
var Frontend = map[byte]decoder{
	TagClientHandshake: decodeClientHandshake,
	TagSASLInitial:     decodeSASLInitial,
	TagSASLResponse:    decodeSASLResponse,
	TagParse:           decodeParse,
	TagExecute:         decodeExecute,
	TagSync:            decodeSync,
	TagTerminate:       decodeTerminate,
	TagDumpRequest:     decodeDump,
	TagRestoreRequest:  decodeRestore,
	TagRestoreBlock:    decodeRestoreBlock,
	TagRestoreEof:      decodeRestoreEof,
}

// Frontend2 is Frontend with Parse/Execute replaced by their version >= 2
// counterparts carrying InputLanguage (spec.md §4.1).
var Frontend2 = func() map[byte]decoder {
	t := make(map[byte]decoder, len(Frontend))
	for k, v := range Frontend {
		t[k] = v
	}
	t[TagParse] = decodeParse2
	t[TagExecute] = decodeExecute2
	return t
}()

// TableFor selects the frontend message-group table for the negotiated
// protocol version.
func TableFor(v ProtocolVersion) map[byte]decoder {
	if v.HasInputLanguage() {
		return Frontend2
	}
	return Frontend
}

// Decode dispatches payload through table by its leading tag byte. Unknown
// tags are reported as UnexpectedMessage without losing synchronization:
// the caller already consumed exactly mlen+1 bytes via framing.Reader
// before calling Decode (spec.md §4.2).
func Decode(table map[byte]decoder, mtype byte, payload []byte) (Message, error) {
	dec, ok := table[mtype]
	if !ok {
		return nil, gelerr.Newf(gelerr.UnexpectedMessage, "unknown message tag %q", mtype)
	}
	return dec(newCursor(payload))
}

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

// Backend (server-to-client) tags.
const (
	TagServerHandshake        byte = 'v'
	TagAuthentication         byte = 'R'
	TagServerKeyData          byte = 'K'
	TagParameterStatus        byte = 'S'
	TagStateDataDescription   byte = 's'
	TagReadyForCommand        byte = 'Z'
	TagCommandDataDescription byte = 'T'
	TagData                   byte = 'D'
	TagCommandComplete        byte = 'C'
	TagErrorResponse          byte = 'E'
	TagDumpHeader             byte = '@'
	TagDumpBlock              byte = '='
	TagRestoreReady           byte = 'Y'
)

// Frontend (client-to-server) tags. Dump/Restore blocks reuse '=' in their
// own direction; they never collide with TagDumpBlock because the two run
// in disjoint sub-streams (spec.md §4.2, §9).
const (
	TagClientHandshake byte = 'V'
	TagSASLInitial     byte = 'p'
	TagSASLResponse    byte = 'r'
	TagParse           byte = 'P'
	TagExecute         byte = 'J'
	TagSync            byte = 'Q'
	TagTerminate       byte = 'X'
	TagDumpRequest     byte = 'U'
	TagRestoreRequest  byte = 'W'
	TagRestoreBlock    byte = '='
	TagRestoreEof      byte = 'F'
)

// Authentication sub-tags, carried as the first u32 of an 'R' payload
// (spec.md §4.2: "authentication messages share 'R' and switch on a
// four-byte auth_status sub-tag").
const (
	AuthStatusOk             uint32 = 0x00
	AuthStatusSASL           uint32 = 0x0A
	AuthStatusSASLContinue   uint32 = 0x0B
	AuthStatusSASLFinal      uint32 = 0x0C
)

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

package protocol

import (
	"context"

	"github.com/sabouaram/gelclient/framing/message"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// DumpResult is the schema header plus object-data blocks of one dump
// sub-stream (spec.md §4.1, step 8).
type DumpResult struct {
	Header message.DumpHeader
	Blocks []message.DumpBlock
}

// Dump requests a full schema-and-data dump, reading the sub-stream to
// completion.
func (c *Conn) Dump(ctx context.Context) (*DumpResult, error) {
	c.mu.Lock()
	if c.state != StateIdle {
		st := c.state
		c.mu.Unlock()
		return nil, gelerr.Newf(gelerr.UnexpectedState, "connection is %s, not idle", st)
	}
	c.state = StateBusy
	c.mu.Unlock()

	result, err := c.runDump(ctx)

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()

	return result, err
}

func (c *Conn) runDump(ctx context.Context) (*DumpResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, c.asError(err)
	}

	if err := c.queueMessage(message.Dump{}); err != nil {
		return nil, err
	}
	if err := c.queueMessage(message.Sync{}); err != nil {
		return nil, err
	}
	if err := c.flush(); err != nil {
		return nil, err
	}

	m, err := c.readMessage()
	if err != nil {
		return nil, c.recoverWithSync(err)
	}
	header, ok := m.(message.DumpHeader)
	if !ok {
		if errResp, isErr := m.(message.ErrorResponse); isErr {
			return nil, c.recoverWithSync(serverError(errResp))
		}
		return nil, c.recoverWithSync(gelerr.Newf(gelerr.UnexpectedState, "expected DumpHeader, got %T", m))
	}

	result := &DumpResult{Header: header}
	for {
		m, err := c.readMessage()
		if err != nil {
			return nil, c.recoverWithSync(err)
		}

		switch v := m.(type) {
		case message.DumpBlock:
			result.Blocks = append(result.Blocks, v)
		case message.CommandComplete:
			// Sync's ReadyForCommand still follows; fall through to drain it.
		case message.ReadyForCommand:
			c.mu.Lock()
			c.txn = v.State
			c.mu.Unlock()
			return result, nil
		case message.ErrorResponse:
			return nil, c.recoverWithSync(serverError(v))
		default:
			return nil, c.recoverWithSync(gelerr.Newf(gelerr.UnexpectedState, "unexpected message %T during dump", m))
		}
	}
}

// Restore streams header and blocks back to the server, ending with
// RestoreEof, and waits for the server's final CommandComplete (spec.md
// §4.1, step 8).
func (c *Conn) Restore(ctx context.Context, jobs uint16, dumpHeaderPayload []byte, blocks [][]byte) error {
	c.mu.Lock()
	if c.state != StateIdle {
		st := c.state
		c.mu.Unlock()
		return gelerr.Newf(gelerr.UnexpectedState, "connection is %s, not idle", st)
	}
	c.state = StateBusy
	c.mu.Unlock()

	err := c.runRestore(ctx, jobs, dumpHeaderPayload, blocks)

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()

	return err
}

func (c *Conn) runRestore(ctx context.Context, jobs uint16, dumpHeaderPayload []byte, blocks [][]byte) error {
	if err := ctx.Err(); err != nil {
		return c.asError(err)
	}

	if err := c.writeMessage(message.Restore{Jobs: jobs, DumpHeaderPayload: dumpHeaderPayload}); err != nil {
		return err
	}

	m, err := c.readMessage()
	if err != nil {
		return c.recoverWithSync(err)
	}
	if _, ok := m.(message.RestoreReady); !ok {
		if errResp, isErr := m.(message.ErrorResponse); isErr {
			return c.recoverWithSync(serverError(errResp))
		}
		return c.recoverWithSync(gelerr.Newf(gelerr.UnexpectedState, "expected RestoreReady, got %T", m))
	}

	for _, b := range blocks {
		if err := ctx.Err(); err != nil {
			return c.asError(err)
		}
		if err := c.writeMessage(message.RestoreBlock{BlockData: b}); err != nil {
			return err
		}
	}
	if err := c.writeMessage(message.RestoreEof{}); err != nil {
		return err
	}
	if err := c.writeMessage(message.Sync{}); err != nil {
		return err
	}

	for {
		m, err := c.readMessage()
		if err != nil {
			return err
		}
		switch v := m.(type) {
		case message.CommandComplete:
			// ReadyForCommand still follows.
		case message.ReadyForCommand:
			c.mu.Lock()
			c.txn = v.State
			c.mu.Unlock()
			return nil
		case message.ErrorResponse:
			return c.recoverWithSync(serverError(v))
		default:
			return gelerr.Newf(gelerr.UnexpectedState, "unexpected message %T during restore", m)
		}
	}
}

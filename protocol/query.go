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

// QueryRequest describes one parse+execute cycle.
type QueryRequest struct {
	Command             string
	OutputFormat         message.IoFormat
	ExpectedCardinality  message.Cardinality
	Capabilities         message.Capability
	CompilationFlags     message.CompilationFlags
	ImplicitLimit        uint64
	Language             message.InputLanguage
	Arguments            []byte
	StateTypeID          [16]byte
	StateData            []byte
}

// QueryResult is the outcome of one executed command.
type QueryResult struct {
	Descriptor *message.CommandDataDescription
	Rows       []message.Data
	Status     []byte
	StateTypeID [16]byte
	StateData  []byte
}

// Execute runs one Parse+Execute+Sync cycle (spec.md §4.1, §8 scenario 3),
// taking the connection Idle -> Busy -> Idle. On a server-side error it
// still sends Sync to recover the connection (spec.md §8, scenario 4)
// before returning the error.
func (c *Conn) Execute(ctx context.Context, req QueryRequest) (*QueryResult, error) {
	c.mu.Lock()
	if c.state != StateIdle {
		st := c.state
		c.mu.Unlock()
		return nil, gelerr.Newf(gelerr.UnexpectedState, "connection is %s, not idle", st)
	}
	c.state = StateBusy
	c.mu.Unlock()

	result, err := c.runQuery(ctx, req)

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()

	return result, err
}

func (c *Conn) runQuery(ctx context.Context, req QueryRequest) (*QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, c.asError(err)
	}

	lang := req.Language
	if lang == 0 {
		lang = message.LanguageEdgeQL
	}

	base := message.Parse{
		OutputFormat:        req.OutputFormat,
		ExpectedCardinality: req.ExpectedCardinality,
		Command:             []byte(req.Command),
		StateTypeID:         req.StateTypeID,
		StateData:           req.StateData,
		Capabilities:        req.Capabilities,
		CompilationFlags:    req.CompilationFlags,
		ImplicitLimit:       req.ImplicitLimit,
	}

	var parseMsg message.Message = base
	if c.version.HasInputLanguage() {
		parseMsg = message.Parse2{Parse: base, InputLanguage: lang}
	}

	if err := c.queueMessage(parseMsg); err != nil {
		return nil, err
	}
	if err := c.queueMessage(message.Sync{}); err != nil {
		return nil, err
	}
	if err := c.flush(); err != nil {
		return nil, err
	}

	desc, err := c.readCommandDataDescription()
	if err != nil {
		return nil, c.recoverWithSync(err)
	}

	execBase := message.Execute{
		OutputFormat:        req.OutputFormat,
		ExpectedCardinality: req.ExpectedCardinality,
		Command:             []byte(req.Command),
		InputTypeID:         desc.InputTypeID,
		OutputTypeID:        desc.OutputTypeID,
		Arguments:           req.Arguments,
		StateTypeID:         req.StateTypeID,
		StateData:           req.StateData,
		Capabilities:        req.Capabilities,
		CompilationFlags:    req.CompilationFlags,
		ImplicitLimit:       req.ImplicitLimit,
	}

	var execMsg message.Message = execBase
	if c.version.HasInputLanguage() {
		execMsg = message.Execute2{Execute: execBase, InputLanguage: lang}
	}

	if err := c.queueMessage(execMsg); err != nil {
		return nil, err
	}
	if err := c.queueMessage(message.Sync{}); err != nil {
		return nil, err
	}
	if err := c.flush(); err != nil {
		return nil, err
	}

	result := &QueryResult{Descriptor: desc}
	for {
		m, err := c.readMessage()
		if err != nil {
			return nil, c.recoverWithSync(err)
		}

		switch v := m.(type) {
		case message.Data:
			result.Rows = append(result.Rows, v)
		case message.CommandComplete:
			result.Status = v.Status
			result.StateTypeID = v.StateTypeID
			result.StateData = v.StateData
		case message.ReadyForCommand:
			c.mu.Lock()
			c.txn = v.State
			c.mu.Unlock()
			return c.enforceCardinality(req.ExpectedCardinality, result)
		case message.ErrorResponse:
			return nil, c.recoverWithSync(serverError(v))
		default:
			return nil, c.recoverWithSync(gelerr.Newf(gelerr.UnexpectedState, "unexpected message %T during execute", m))
		}
	}
}

// readCommandDataDescription reads the CommandDataDescription reply to
// Parse and then drains through the ReadyForCommand that acknowledges the
// Sync queued alongside it, so the stream is correctly positioned for the
// Execute that follows.
func (c *Conn) readCommandDataDescription() (*message.CommandDataDescription, error) {
	var desc *message.CommandDataDescription
	for {
		m, err := c.readMessage()
		if err != nil {
			return nil, err
		}
		switch v := m.(type) {
		case message.CommandDataDescription:
			desc = &v
		case message.ReadyForCommand:
			c.mu.Lock()
			c.txn = v.State
			c.mu.Unlock()
			if desc == nil {
				return nil, gelerr.New(gelerr.UnexpectedState, "ReadyForCommand arrived before CommandDataDescription")
			}
			return desc, nil
		case message.ErrorResponse:
			return nil, serverError(v)
		default:
			return nil, gelerr.Newf(gelerr.UnexpectedState, "unexpected message %T while parsing", m)
		}
	}
}

// recoverWithSync drains up to the ReadyForCommand that the Sync already
// queued alongside the failed Parse/Execute guarantees, returning the
// connection to Idle after a mid-cycle failure (spec.md §8, scenario 4),
// then returns the original error.
func (c *Conn) recoverWithSync(original error) error {
	for {
		m, err := c.readMessage()
		if err != nil {
			return original
		}
		if rfc, ok := m.(message.ReadyForCommand); ok {
			c.mu.Lock()
			c.txn = rfc.State
			c.mu.Unlock()
			return original
		}
	}
}

func (c *Conn) enforceCardinality(card message.Cardinality, result *QueryResult) (*QueryResult, error) {
	if len(result.Rows) == 0 && !card.Optional() {
		return nil, gelerr.Newf(gelerr.NoDataError, "query declared cardinality %v but returned no rows", card)
	}
	if card == message.CardinalityAtMostOne || card == message.CardinalityOne {
		if len(result.Rows) > 1 {
			return nil, gelerr.Newf(gelerr.CardinalityViolation, "query declared cardinality %v but returned %d rows", card, len(result.Rows))
		}
	}
	return result, nil
}

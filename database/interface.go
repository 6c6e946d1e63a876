/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package database is the top-level facade: it takes a resolved
// config.Config, dials the transport, and holds one protocol.Conn behind
// explicit Connect/Close calls plus a graceful-shutdown helper. It does
// not reconnect on its own: calls made without a live connection fail.
package database

import (
	"context"

	"github.com/sabouaram/gelclient/config"
	"github.com/sabouaram/gelclient/protocol"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// Database is the client-facing handle on one logical connection. Unlike
// the teacher's gorm-backed Database, GetDB()/SetDb() are gone: there is
// no pooled *sql.DB equivalent here, one Conn per Database (spec.md's
// Non-goals rule out a client pool).
type Database interface {
	// Connect dials the transport and runs the handshake+authentication
	// exchange, replacing any previous live connection.
	Connect(ctx context.Context) error
	// Close tears down the live connection, if any.
	Close() error

	// WaitNotify blocks until ctx is cancelled or the process receives
	// SIGINT/SIGTERM/SIGQUIT, then closes the connection and calls cancel.
	WaitNotify(ctx context.Context, cancel context.CancelFunc)

	// Execute runs one query to completion on the live connection.
	Execute(ctx context.Context, req protocol.QueryRequest) (*protocol.QueryResult, error)
	// Dump reads a full schema+data dump from the live connection.
	Dump(ctx context.Context) (*protocol.DumpResult, error)
	// Restore replays a dump produced by Dump.
	Restore(ctx context.Context, jobs uint16, dumpHeader []byte, blocks [][]byte) error

	// CheckConn reports whether the connection is open and Idle.
	CheckConn() gelerr.Error

	Config() config.Config

	StatusInfo() (name string, release string, protocolVersion string)
	StatusHealth() error
}

// New checks that cfg names a host or a unix path and returns a Database
// handle; it does not connect —
// call Connect before issuing any query (spec.md §4.4: Connecting is a
// distinct state from having never dialed at all).
func New(cfg config.Config) (Database, gelerr.Error) {
	if cfg.Host == "" && cfg.UnixPath == "" {
		return nil, gelerr.New(gelerr.MultipleCompound, "config has neither a host nor a unix path")
	}

	return &database{cfg: cfg}, nil
}

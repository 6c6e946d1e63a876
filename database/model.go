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

package database

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/sabouaram/gelclient/config"
	"github.com/sabouaram/gelclient/gellog"
	"github.com/sabouaram/gelclient/protocol"
	"github.com/sabouaram/gelclient/transport"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// database is the sole implementation of Database. The live *protocol.Conn
// lives behind an atomic.Value so StatusHealth/StatusInfo can read it
// without blocking a concurrent Connect/Close, mirroring the teacher's own
// atomic.Value-guarded *gorm.DB handle.
type database struct {
	m sync.Mutex

	cfg config.Config
	log gellog.Logger

	conn atomic.Value // holds *protocol.Conn, possibly nil-valued through connHolder
}

// connHolder lets atomic.Value carry a possibly-nil *protocol.Conn: the
// zero value of the interface itself cannot be stored twice with
// different concrete nilness, so every Store wraps the pointer.
type connHolder struct {
	c *protocol.Conn
}

func (d *database) currentConn() *protocol.Conn {
	if v, ok := d.conn.Load().(connHolder); ok {
		return v.c
	}
	return nil
}

func (d *database) Connect(ctx context.Context) error {
	d.m.Lock()
	defer d.m.Unlock()

	if old := d.currentConn(); old != nil {
		_ = old.Close()
	}

	target, err := targetFromConfig(d.cfg)
	if err != nil {
		return err
	}

	stream, err := transport.Connect(ctx, target)
	if err != nil {
		return err
	}

	major, _ := clientProposedVersion()
	database, branch := d.cfg.DatabaseBranch.BranchForConnect(major)

	params := protocol.Params{
		User:     d.cfg.User,
		Password: d.cfg.Password,
		Database: database,
		Branch:   branch,
	}
	if d.cfg.SecretKey != "" {
		params.Extra = map[string][]byte{"secret_key": []byte(d.cfg.SecretKey)}
	}

	conn, err := protocol.Connect(ctx, stream, params, d.log)
	if err != nil {
		_ = stream.Close()
		return err
	}

	d.conn.Store(connHolder{c: conn})
	return nil
}

func (d *database) Close() error {
	d.m.Lock()
	defer d.m.Unlock()

	c := d.currentConn()
	if c == nil {
		return nil
	}
	d.conn.Store(connHolder{})
	return c.Close()
}

// WaitNotify blocks until ctx is cancelled or the process receives
// SIGINT/SIGTERM/SIGQUIT, matching the teacher's own graceful-shutdown
// idiom for long-lived connections.
func (d *database) WaitNotify(ctx context.Context, cancel context.CancelFunc) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sig)

	select {
	case <-ctx.Done():
	case <-sig:
	}

	_ = d.Close()
	if cancel != nil {
		cancel()
	}
}

func (d *database) Execute(ctx context.Context, req protocol.QueryRequest) (*protocol.QueryResult, error) {
	c := d.currentConn()
	if c == nil {
		return nil, gelerr.New(gelerr.UnexpectedState, "not connected")
	}
	return c.Execute(ctx, req)
}

func (d *database) Dump(ctx context.Context) (*protocol.DumpResult, error) {
	c := d.currentConn()
	if c == nil {
		return nil, gelerr.New(gelerr.UnexpectedState, "not connected")
	}
	return c.Dump(ctx)
}

func (d *database) Restore(ctx context.Context, jobs uint16, dumpHeader []byte, blocks [][]byte) error {
	c := d.currentConn()
	if c == nil {
		return gelerr.New(gelerr.UnexpectedState, "not connected")
	}
	return c.Restore(ctx, jobs, dumpHeader, blocks)
}

func (d *database) CheckConn() gelerr.Error {
	c := d.currentConn()
	if c == nil {
		return gelerr.New(gelerr.UnexpectedState, "not connected")
	}
	if c.State() != protocol.StateIdle {
		return gelerr.Newf(gelerr.UnexpectedState, "connection is %s, not idle", c.State())
	}
	return nil
}

func (d *database) Config() config.Config {
	return d.cfg
}

func (d *database) StatusInfo() (name string, release string, protocolVersion string) {
	c := d.currentConn()
	if c == nil {
		return "gelclient", "", ""
	}
	v, _ := c.ServerSetting("server_version")
	return "gelclient", string(v), formatVersion(c.ProtocolVersion())
}

func (d *database) StatusHealth() error {
	if err := d.CheckConn(); err != nil {
		return err
	}
	return nil
}

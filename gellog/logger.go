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

// Package gellog provides structured, leveled logging of connection and
// protocol lifecycle events (connect, handshake, auth, parse, execute,
// sync, error recovery), backed by logrus.
package gellog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	loglvl "github.com/sabouaram/gelclient/gellog/level"
)

// Logger is the structured logger handed to every layer of the client.
//
// Not safe for concurrent field mutation on the same *entry* — obtain a
// fresh child via WithFields/WithError for each goroutine's log call.
type Logger interface {
	SetLevel(lvl loglvl.Level)
	SetOutput(w io.Writer)

	WithFields(f Fields) Logger
	WithError(err error) Logger

	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

type logger struct {
	log *logrus.Logger
	ent *logrus.Entry
}

// New returns a Logger writing to stderr at InfoLevel, matching the
// teacher's hookstderr default sink.
func New() Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(loglvl.InfoLevel.Logrus())
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return &logger{log: l, ent: logrus.NewEntry(l)}
}

func (g *logger) SetLevel(lvl loglvl.Level) {
	g.log.SetLevel(lvl.Logrus())
}

func (g *logger) SetOutput(w io.Writer) {
	g.log.SetOutput(w)
}

func (g *logger) WithFields(f Fields) Logger {
	return &logger{log: g.log, ent: g.ent.WithFields(logrus.Fields(f))}
}

func (g *logger) WithError(err error) Logger {
	return &logger{log: g.log, ent: g.ent.WithError(err)}
}

func (g *logger) Debug(msg string) { g.ent.Debug(msg) }
func (g *logger) Info(msg string)  { g.ent.Info(msg) }
func (g *logger) Warn(msg string)  { g.ent.Warn(msg) }
func (g *logger) Error(msg string) { g.ent.Error(msg) }

// Discard returns a Logger that writes nowhere, for tests that do not
// want connection-lifecycle noise.
func Discard() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &logger{log: l, ent: logrus.NewEntry(l)}
}

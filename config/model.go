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

// Package config resolves connection parameters from explicit options, a
// DSN string, environment variables, or a credentials file into a single
// immutable Config (spec.md §4.5).
package config

import (
	"time"

	"github.com/sabouaram/gelclient/tlspolicy"
	"github.com/sabouaram/gelclient/transport/tcp"
)

// BranchKind tags which of the four database-or-branch variants a Config
// carries.
type BranchKind uint8

const (
	// BranchDefault means neither database nor branch was given; the
	// wire sentinel "__default__" is sent so the server picks its own
	// default at connect time.
	BranchDefault BranchKind = iota
	BranchDatabase
	BranchBranch
	// BranchAmbiguous is used when a source (DSN path segment, env var,
	// credentials file) did not distinguish database from branch.
	BranchAmbiguous
)

const wireDefaultSentinel = "__default__"

// DatabaseBranch is the four-way variant selecting the database-or-branch
// target. Resolved against the server's protocol version at connect time
// (spec.md §4.5).
type DatabaseBranch struct {
	Kind BranchKind
	Name string
}

// Database returns the effective database name, defaulting to edgedb when
// no database-or-branch selector was ever given.
func (d DatabaseBranch) Database() string {
	switch d.Kind {
	case BranchDatabase:
		return d.Name
	case BranchDefault:
		return defaultDatabaseName
	default:
		return ""
	}
}

// BranchForConnect decides the effective (database, branch) pair to send
// on the wire for a connection attempt proposing protocol version major.
// Ambiguous names are treated as a branch from protocol 2 onward, else as
// a database (spec.md §4.5, Open Question ii — no second-attempt retry
// against the other interpretation).
func (d DatabaseBranch) BranchForConnect(major uint16) (database, branch string) {
	switch d.Kind {
	case BranchDatabase:
		return d.Name, ""
	case BranchBranch:
		return "", d.Name
	case BranchAmbiguous:
		if major >= 2 {
			return "", d.Name
		}
		return d.Name, ""
	default:
		return wireDefaultSentinel, ""
	}
}

// ToDSNSegment renders the path segment to_dsn_url round-trips through.
func (d DatabaseBranch) ToDSNSegment() string {
	if d.Kind == BranchDefault {
		return ""
	}
	return d.Name
}

// TLSOptions carries the TLS-relevant fields a DSN, credentials file, or
// environment layer can supply, resolved into a tlspolicy.Policy by
// Resolve.
type TLSOptions struct {
	// Security is one of "default", "strict", "no_host_verification",
	// "insecure" (spec.md §4.5 DSN grammar, tls_security).
	Security string
	// CA is inline PEM; CAFile is a path. Mutually exclusive.
	CA     string
	CAFile string
	// ServerName overrides SNI, taking precedence over the IP-literal
	// rewrite (spec.md §4.1).
	ServerName string
}

// Config is the immutable, validated result of a resolution pass, in the
// form database.New takes (spec.md §3: "Connection configuration...
// Immutable after build").
type Config struct {
	Host string
	Port uint16
	// UnixPath is set instead of Host/Port for a Unix-domain target.
	UnixPath string

	User     string
	Password string
	SecretKey string

	DatabaseBranch DatabaseBranch

	TLS TLSOptions

	WaitUntilAvailable time.Duration
	ConnectTimeout     time.Duration
	KeepAlive          tcp.KeepAlive

	ServerSettings map[string]string
}

// defaultPort is the standard server port (spec.md §4.5).
const defaultPort uint16 = 5656

// defaultDatabaseName is the name DatabaseBranch.Database reports for
// BranchDefault; BranchForConnect sends the wire sentinel for that kind
// instead.
const defaultDatabaseName = "edgedb"

// Policy builds the tlspolicy.Policy this Config's TLS options describe.
func (o TLSOptions) Policy() (tlspolicy.Policy, error) {
	return buildPolicy(o)
}

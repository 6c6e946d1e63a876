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

package config

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sabouaram/gelclient/duration"
	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// knownQueryParams are the DSN query parameters this resolver understands
// directly; everything else must live under the server_settings_ prefix
// or validation fails (spec.md §4.5 DSN grammar).
var knownQueryParams = map[string]bool{
	"user": true, "password": true, "secret_key": true,
	"database": true, "branch": true,
	"tls_security": true, "tls_ca": true, "tls_ca_file": true,
	"tls_server_name": true, "wait_until_available": true, "port": true,
}

const serverSettingsPrefix = "server_settings_"

// dsnFields is the raw, unvalidated result of splitting a gel:// URL into
// its components, before Resolver folds it into a Config.
type dsnFields struct {
	host     string
	port     uint16
	hasPort  bool
	user     string
	password string
	hasAuth  bool
	path     string

	tls TLSOptions

	secretKey          string
	database           string
	branch             string
	waitUntilAvailable time.Duration
	hasWait            bool

	serverSettings map[string]string
}

// parseDSN splits a "gel://[user[:password]@]host[:port][/db_or_branch][?k=v&...]"
// URL (spec.md §4.5) into its component fields.
func parseDSN(dsn string) (dsnFields, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return dsnFields{}, gelerr.New(gelerr.InvalidDSN, "malformed dsn", err)
	}
	if u.Scheme != "gel" && u.Scheme != "edgedb" {
		return dsnFields{}, gelerr.Newf(gelerr.InvalidDSN, "unsupported dsn scheme %q", u.Scheme)
	}

	f := dsnFields{
		host:           u.Hostname(),
		path:           strings.TrimPrefix(u.Path, "/"),
		serverSettings: map[string]string{},
	}

	if u.User != nil {
		f.hasAuth = true
		f.user = u.User.Username()
		f.password, _ = u.User.Password()
	}

	if p := u.Port(); p != "" {
		n, perr := strconv.ParseUint(p, 10, 16)
		if perr != nil {
			return dsnFields{}, gelerr.New(gelerr.InvalidDSN, "invalid dsn port", perr)
		}
		f.port = uint16(n)
		f.hasPort = true
	}

	q := u.Query()
	for key, values := range q {
		if len(values) == 0 {
			continue
		}
		v := values[0]

		if strings.HasPrefix(key, serverSettingsPrefix) {
			f.serverSettings[strings.TrimPrefix(key, serverSettingsPrefix)] = v
			continue
		}
		if !knownQueryParams[key] {
			return dsnFields{}, gelerr.Newf(gelerr.InvalidDSN, "unrecognized dsn parameter %q", key)
		}

		switch key {
		case "user":
			f.hasAuth = true
			f.user = v
		case "password":
			f.hasAuth = true
			f.password = v
		case "secret_key":
			f.secretKey = v
		case "database":
			f.database = v
		case "branch":
			f.branch = v
		case "tls_security":
			f.tls.Security = v
		case "tls_ca":
			f.tls.CA = v
		case "tls_ca_file":
			f.tls.CAFile = v
		case "tls_server_name":
			f.tls.ServerName = v
		case "wait_until_available":
			d, derr := duration.Parse(v)
			if derr != nil {
				return dsnFields{}, gelerr.New(gelerr.InvalidDuration, "invalid wait_until_available", derr)
			}
			f.waitUntilAvailable = d.Time()
			f.hasWait = true
		case "port":
			n, perr := strconv.ParseUint(v, 10, 16)
			if perr != nil {
				return dsnFields{}, gelerr.New(gelerr.InvalidDSN, "invalid dsn port query param", perr)
			}
			f.port = uint16(n)
			f.hasPort = true
		}
	}

	if f.database != "" && f.branch != "" {
		return dsnFields{}, gelerr.New(gelerr.ExclusiveOptions, "database and branch are mutually exclusive")
	}
	if f.tls.CA != "" && f.tls.CAFile != "" {
		return dsnFields{}, gelerr.New(gelerr.ExclusiveOptions, "tls_ca and tls_ca_file are mutually exclusive")
	}

	return f, nil
}

// ToDSNURL round-trips a Config back to a DSN string. Lossy for
// file-backed CA material (spec.md §4.5's "to_dsn_url()" property) and for
// port omission when it equals the default. A database or branch name is
// written as the path segment, so it parses back as BranchAmbiguous; a
// UnixPath is written in the host position and parses back as a host.
func ToDSNURL(c Config) string {
	var b strings.Builder
	b.WriteString("gel://")

	if c.User != "" || c.Password != "" {
		if c.Password != "" {
			b.WriteString(url.UserPassword(c.User, c.Password).String())
		} else {
			b.WriteString(url.User(c.User).String())
		}
		b.WriteString("@")
	}

	if c.UnixPath != "" {
		b.WriteString(url.QueryEscape(c.UnixPath))
	} else {
		b.WriteString(c.Host)
		if c.Port != 0 && c.Port != defaultPort {
			b.WriteString(":")
			b.WriteString(strconv.Itoa(int(c.Port)))
		}
	}

	if seg := c.DatabaseBranch.ToDSNSegment(); seg != "" {
		b.WriteString("/")
		b.WriteString(seg)
	}

	q := url.Values{}
	if c.TLS.Security != "" && c.TLS.Security != "default" {
		q.Set("tls_security", c.TLS.Security)
	}
	if c.TLS.ServerName != "" {
		q.Set("tls_server_name", c.TLS.ServerName)
	}
	if c.TLS.CA != "" {
		q.Set("tls_ca", c.TLS.CA)
	}
	if c.SecretKey != "" {
		q.Set("secret_key", c.SecretKey)
	}
	if c.WaitUntilAvailable != 0 {
		q.Set("wait_until_available", c.WaitUntilAvailable.String())
	}
	for k, v := range c.ServerSettings {
		q.Set(serverSettingsPrefix+k, v)
	}
	if encoded := q.Encode(); encoded != "" {
		b.WriteString("?")
		b.WriteString(encoded)
	}

	return b.String()
}

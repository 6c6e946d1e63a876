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
	spfvpr "github.com/spf13/viper"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// envFields mirrors dsnFields, but sourced from the GEL_* environment
// variables (spec.md §3.1's expanded enumeration) via spf13/viper, the
// way the teacher's config components bind their own settings.
type envFields struct {
	dsn             string
	credentialsFile string
	instance        string

	host     string
	hasHost  bool
	port     uint16
	hasPort  bool
	database string
	branch   string
	user     string
	password string
	secretKey string

	tls TLSOptions

	waitUntilAvailable string
}

// envKeys are the exact GEL_* variables the resolver binds (spec.md
// §3.1, from gel-dsn/src/gel/config.rs). GEL_CLIENT_SECURITY is bound but
// not read.
var envKeys = []string{
	"GEL_DSN", "GEL_CREDENTIALS_FILE", "GEL_INSTANCE",
	"GEL_HOST", "GEL_PORT", "GEL_DATABASE", "GEL_BRANCH",
	"GEL_USER", "GEL_PASSWORD", "GEL_SECRET_KEY",
	"GEL_TLS_CA", "GEL_TLS_CA_FILE", "GEL_TLS_SECURITY", "GEL_TLS_SERVER_NAME",
	"GEL_CLIENT_SECURITY", "GEL_WAIT_UNTIL_AVAILABLE",
}

// readEnv binds the GEL_* variables through a fresh viper instance so
// callers can inject process environment deterministically in tests
// without mutating os.Environ.
func readEnv(v *spfvpr.Viper) (envFields, error) {
	if v == nil {
		v = spfvpr.New()
		v.AutomaticEnv()
	}
	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}

	f := envFields{
		dsn:             v.GetString("GEL_DSN"),
		credentialsFile: v.GetString("GEL_CREDENTIALS_FILE"),
		instance:        v.GetString("GEL_INSTANCE"),
		host:            v.GetString("GEL_HOST"),
		database:        v.GetString("GEL_DATABASE"),
		branch:          v.GetString("GEL_BRANCH"),
		user:            v.GetString("GEL_USER"),
		password:        v.GetString("GEL_PASSWORD"),
		secretKey:       v.GetString("GEL_SECRET_KEY"),
		waitUntilAvailable: v.GetString("GEL_WAIT_UNTIL_AVAILABLE"),
	}
	f.hasHost = f.host != ""

	f.tls.CA = v.GetString("GEL_TLS_CA")
	f.tls.CAFile = v.GetString("GEL_TLS_CA_FILE")
	f.tls.Security = v.GetString("GEL_TLS_SECURITY")
	f.tls.ServerName = v.GetString("GEL_TLS_SERVER_NAME")

	if p := v.GetString("GEL_PORT"); p != "" {
		f.port = uint16(v.GetUint("GEL_PORT"))
		f.hasPort = true
	}

	if f.database != "" && f.branch != "" {
		return envFields{}, gelerr.New(gelerr.ExclusiveOptions, "GEL_DATABASE and GEL_BRANCH are mutually exclusive")
	}
	if f.tls.CA != "" && f.tls.CAFile != "" {
		return envFields{}, gelerr.New(gelerr.ExclusiveOptions, "GEL_TLS_CA and GEL_TLS_CA_FILE are mutually exclusive")
	}

	return f, nil
}

// anySet reports whether GEL_DSN, GEL_CREDENTIALS_FILE, GEL_INSTANCE,
// GEL_HOST or GEL_USER was populated, distinguishing "environment layer
// absent" from "environment layer present"; the other variables alone do
// not count.
func (f envFields) anySet() bool {
	return f.dsn != "" || f.credentialsFile != "" || f.instance != "" || f.hasHost || f.user != ""
}

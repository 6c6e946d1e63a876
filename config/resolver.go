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
	"os"
	"time"

	spfvpr "github.com/spf13/viper"

	"github.com/sabouaram/gelclient/duration"
	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// Options are the explicit, programmatic connection options a caller can
// pass directly, taking precedence over every other source (spec.md
// §4.5: "the first non-empty of (in order): explicit options, DSN
// string,...").
type Options struct {
	DSN             string
	CredentialsFile string
	// CredentialsData, when set, is used instead of reading
	// CredentialsFile from disk (spec.md §6: the resolver itself never
	// walks the filesystem for credentials files, only reads one given
	// to it).
	CredentialsData []byte

	Host     string
	Port     uint16
	UnixPath string

	User     string
	Password string
	SecretKey string

	Database string
	Branch   string

	TLS TLSOptions

	WaitUntilAvailable time.Duration
	ConnectTimeout     time.Duration
}

// Resolver builds a Config from the sources named in Options plus the
// environment, applying spec.md §4.5's precedence and exclusivity rules.
type Resolver struct {
	// Viper, when set, is used instead of a fresh environment-bound
	// instance — lets callers and tests inject variables without
	// mutating the process environment.
	Viper *spfvpr.Viper
}

// Resolve builds an immutable Config from opts, falling back through the
// environment when opts leaves a source unset (spec.md §4.5).
func (r Resolver) Resolve(opts Options) (Config, error) {
	if err := validateExclusive(opts); err != nil {
		return Config{}, err
	}

	env, err := readEnv(r.Viper)
	if err != nil {
		return Config{}, err
	}

	compoundCount := 0
	if opts.DSN != "" {
		compoundCount++
	}
	if opts.CredentialsFile != "" || len(opts.CredentialsData) > 0 {
		compoundCount++
	}
	if hasExplicitHost(opts) {
		compoundCount++
	}
	if compoundCount > 1 {
		return Config{}, gelerr.New(gelerr.MultipleCompound, "explicit host/port, dsn, and credentials file are mutually exclusive")
	}

	switch {
	case hasExplicitHost(opts):
		return fromExplicit(opts)
	case opts.DSN != "":
		return fromDSN(opts)
	case env.dsn != "":
		return fromEnvDSN(env, opts)
	case len(opts.CredentialsData) > 0:
		return fromCredentialsBytes(opts.CredentialsData, opts)
	case opts.CredentialsFile != "":
		return fromCredentialsFile(opts.CredentialsFile, opts)
	case env.credentialsFile != "":
		return fromCredentialsFile(env.credentialsFile, opts)
	case env.anySet():
		return fromEnvFields(env, opts)
	default:
		return Config{}, gelerr.New(gelerr.MultipleCompound, "no connection source given: set Options, GEL_DSN, GEL_INSTANCE, GEL_CREDENTIALS_FILE, or GEL_HOST")
	}
}

func hasExplicitHost(opts Options) bool {
	return opts.Host != "" || opts.UnixPath != ""
}

func validateExclusive(opts Options) error {
	if opts.Database != "" && opts.Branch != "" {
		return gelerr.New(gelerr.ExclusiveOptions, "database and branch are mutually exclusive")
	}
	if opts.CredentialsFile != "" && len(opts.CredentialsData) > 0 {
		return gelerr.New(gelerr.ExclusiveOptions, "credentials and credentials_file are mutually exclusive")
	}
	if opts.TLS.CA != "" && opts.TLS.CAFile != "" {
		return gelerr.New(gelerr.ExclusiveOptions, "tls_ca and tls_ca_file are mutually exclusive")
	}
	return nil
}

func fromExplicit(opts Options) (Config, error) {
	cfg := Config{
		Host:               opts.Host,
		Port:               orDefaultPort(opts.Port),
		UnixPath:           opts.UnixPath,
		User:               opts.User,
		Password:           opts.Password,
		SecretKey:          opts.SecretKey,
		DatabaseBranch:     databaseBranchOf(opts.Database, opts.Branch),
		TLS:                opts.TLS,
		WaitUntilAvailable: opts.WaitUntilAvailable,
		ConnectTimeout:     opts.ConnectTimeout,
		ServerSettings:     map[string]string{},
	}
	return cfg, nil
}

func fromDSN(opts Options) (Config, error) {
	f, err := parseDSN(opts.DSN)
	if err != nil {
		return Config{}, err
	}
	return buildFromDSNFields(f, opts)
}

func fromEnvDSN(env envFields, opts Options) (Config, error) {
	f, err := parseDSN(env.dsn)
	if err != nil {
		return Config{}, err
	}
	return buildFromDSNFields(f, opts)
}

func buildFromDSNFields(f dsnFields, opts Options) (Config, error) {
	cfg := Config{
		Host:               f.host,
		Port:               orDefaultPort(orPort(opts.Port, f.port)),
		User:               coalesce(opts.User, f.user),
		Password:           coalesce(opts.Password, f.password),
		SecretKey:          coalesce(opts.SecretKey, f.secretKey),
		DatabaseBranch:     databaseBranchOf(coalesce(opts.Database, f.database), coalesce(opts.Branch, f.branch)),
		TLS:                mergeTLS(opts.TLS, f.tls),
		WaitUntilAvailable: orDuration(opts.WaitUntilAvailable, f.waitUntilAvailable),
		ConnectTimeout:     opts.ConnectTimeout,
		ServerSettings:     f.serverSettings,
	}
	// The DSN path segment names a target without saying whether it's a
	// database or a branch; ?database=/?branch=, and any explicit
	// Options override, take precedence over it.
	if f.path != "" && f.database == "" && f.branch == "" && opts.Database == "" && opts.Branch == "" {
		cfg.DatabaseBranch = DatabaseBranch{Kind: BranchAmbiguous, Name: f.path}
	}
	return cfg, nil
}

func fromCredentialsBytes(data []byte, opts Options) (Config, error) {
	cf, err := parseCredentials(data)
	if err != nil {
		return Config{}, err
	}
	return buildFromCredentials(cf, opts)
}

func fromCredentialsFile(path string, opts Options) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, gelerr.New(gelerr.FileNotFound, "credentials file not found", err)
	}
	cf, err := parseCredentials(data)
	if err != nil {
		return Config{}, err
	}
	return buildFromCredentials(cf, opts)
}

func buildFromCredentials(cf credentialsFile, opts Options) (Config, error) {
	cfg := Config{
		User:               coalesce(opts.User, strOf(cf.User)),
		Password:           coalesce(opts.Password, strOf(cf.Password)),
		SecretKey:          coalesce(opts.SecretKey, strOf(cf.SecretKey)),
		WaitUntilAvailable: opts.WaitUntilAvailable,
		ConnectTimeout:     opts.ConnectTimeout,
		ServerSettings:     map[string]string{},
	}

	cfg.Host = coalesce(opts.Host, strOf(cf.Host))
	if cf.Port != nil {
		cfg.Port = *cf.Port
	}
	cfg.Port = orDefaultPort(orPort(opts.Port, cfg.Port))

	cfg.DatabaseBranch = databaseBranchOf(coalesce(opts.Database, strOf(cf.Database)), coalesce(opts.Branch, strOf(cf.Branch)))

	tls := TLSOptions{
		CA:         strOf(cf.TLSCA),
		Security:   strOf(cf.TLSSecurity),
		ServerName: strOf(cf.TLSServerName),
	}
	cfg.TLS = mergeTLS(opts.TLS, tls)

	return cfg, nil
}

func fromEnvFields(env envFields, opts Options) (Config, error) {
	cfg := Config{
		Host:               coalesce(opts.Host, env.host),
		Port:               orDefaultPort(orPort(opts.Port, env.port)),
		User:               coalesce(opts.User, env.user),
		Password:           coalesce(opts.Password, env.password),
		SecretKey:          coalesce(opts.SecretKey, env.secretKey),
		DatabaseBranch:     databaseBranchOf(coalesce(opts.Database, env.database), coalesce(opts.Branch, env.branch)),
		TLS:                mergeTLS(opts.TLS, env.tls),
		ConnectTimeout:     opts.ConnectTimeout,
		ServerSettings:     map[string]string{},
	}

	if opts.WaitUntilAvailable != 0 {
		cfg.WaitUntilAvailable = opts.WaitUntilAvailable
	} else if env.waitUntilAvailable != "" {
		d, err := duration.Parse(env.waitUntilAvailable)
		if err != nil {
			return Config{}, gelerr.New(gelerr.InvalidDuration, "invalid GEL_WAIT_UNTIL_AVAILABLE", err)
		}
		cfg.WaitUntilAvailable = d.Time()
	}

	return cfg, nil
}

func databaseBranchOf(database, branch string) DatabaseBranch {
	switch {
	case database != "":
		return DatabaseBranch{Kind: BranchDatabase, Name: database}
	case branch != "":
		return DatabaseBranch{Kind: BranchBranch, Name: branch}
	default:
		return DatabaseBranch{Kind: BranchDefault}
	}
}

func mergeTLS(explicit, fallback TLSOptions) TLSOptions {
	return TLSOptions{
		Security:   coalesce(explicit.Security, fallback.Security),
		CA:         coalesce(explicit.CA, fallback.CA),
		CAFile:     coalesce(explicit.CAFile, fallback.CAFile),
		ServerName: coalesce(explicit.ServerName, fallback.ServerName),
	}
}

func coalesce(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}

func orDefaultPort(p uint16) uint16 {
	if p == 0 {
		return defaultPort
	}
	return p
}

func orPort(preferred, fallback uint16) uint16 {
	if preferred != 0 {
		return preferred
	}
	return fallback
}

func orDuration(preferred, fallback time.Duration) time.Duration {
	if preferred != 0 {
		return preferred
	}
	return fallback
}

func strOf(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

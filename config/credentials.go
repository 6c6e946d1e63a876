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
	"encoding/json"

	gelerr "github.com/sabouaram/gelclient/gelerr"
)

// credentialsFile is the on-disk JSON schema (spec.md §4.5 "Credentials
// file (JSON)"). Fields are pointers so a present-but-zero value (e.g.
// port 0) can be told apart from an absent key during strict validation.
type credentialsFile struct {
	User         *string  `json:"user"`
	Host         *string  `json:"host"`
	Port         *uint16  `json:"port"`
	Password     *string  `json:"password"`
	SecretKey    *string  `json:"secret_key"`
	Database     *string  `json:"database"`
	Branch       *string  `json:"branch"`
	TLSCA        *string  `json:"tls_ca"`
	TLSSecurity  *string  `json:"tls_security"`
	TLSServerName *string `json:"tls_server_name"`
	Warnings     []string `json:"warnings"`
}

// parseCredentials decodes a credentials-file payload, rejecting any key
// it does not recognize (spec.md §4.5: "Unknown keys: rejected.").
func parseCredentials(raw []byte) (credentialsFile, error) {
	var known map[string]json.RawMessage
	if err := json.Unmarshal(raw, &known); err != nil {
		return credentialsFile{}, gelerr.New(gelerr.InvalidCredentialsFile, "malformed credentials file", err)
	}

	for k := range known {
		if !credentialsKeys[k] {
			return credentialsFile{}, gelerr.Newf(gelerr.InvalidCredentialsFile, "unknown credentials key %q", k)
		}
	}

	var cf credentialsFile
	if err := json.Unmarshal(raw, &cf); err != nil {
		return credentialsFile{}, gelerr.New(gelerr.InvalidCredentialsFile, "malformed credentials file", err)
	}

	if cf.Port != nil && *cf.Port == 0 {
		return credentialsFile{}, gelerr.New(gelerr.InvalidCredentialsFile, "credentials port must be non-zero")
	}

	if cf.Database != nil && cf.Branch != nil {
		return credentialsFile{}, gelerr.New(gelerr.ExclusiveOptions, "database and branch are mutually exclusive")
	}

	return cf, nil
}

var credentialsKeys = map[string]bool{
	"user": true, "host": true, "port": true, "password": true,
	"secret_key": true, "database": true, "branch": true,
	"tls_ca": true, "tls_security": true, "tls_server_name": true,
	"warnings": true,
}

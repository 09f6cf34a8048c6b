/*
Copyright The zShield Marketplace Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package console

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/cli/sanitize"
)

// Timestamper is a function capable of producing a timestamp. It can be
// overridden for testing so that token expiry checks are predictable.
var Timestamper = time.Now

// expirySkew is subtracted from a token's lifetime so a token cannot go
// stale between the freshness check and the request that uses it.
const expirySkew = 30 * time.Second

// TokenProvider yields a valid access token for an outbound call.
type TokenProvider interface {
	Token() (string, error)
}

// Credential is an access token plus its decoded expiry. It is owned
// exclusively by the TokenSource and replaced wholesale on re-login.
type Credential struct {
	Token  string
	Expiry time.Time
}

// TokenSource caches the current credential and re-logs in when it has
// expired or cannot be decoded. It is safe to consult before every
// outbound request; a fresh cached token costs no network call.
//
// A concurrent caller must add its own mutual exclusion around Token; the
// pipeline is strictly sequential so none is taken here.
type TokenSource struct {
	client   *Client
	clientID string
	secret   string

	cred *Credential
}

// NewTokenSource builds a TokenSource for the given client credentials.
// The secret is registered with the sanitizer immediately so it can never
// reach a log line.
func NewTokenSource(client *Client, clientID, secret string) *TokenSource {
	sanitize.Register(secret)
	return &TokenSource{client: client, clientID: clientID, secret: secret}
}

// Token returns a valid access token, logging in only when the cached one
// is missing, expired, or malformed.
func (t *TokenSource) Token() (string, error) {
	if t.cred != nil && Timestamper().Add(expirySkew).Before(t.cred.Expiry) {
		return t.cred.Token, nil
	}

	token, err := t.client.Login(t.clientID, t.secret)
	if err != nil {
		return "", err
	}
	sanitize.Register(token)

	// A token whose expiry cannot be decoded still authenticates; it will
	// simply force a login before the next call.
	expiry, _ := tokenExpiry(token)
	t.cred = &Credential{Token: token, Expiry: expiry}
	return token, nil
}

// tokenExpiry decodes the exp claim from the second segment of a JWT-form
// token. Any decoding failure is reported so the caller treats the token
// as already expired.
func tokenExpiry(token string) (time.Time, error) {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return time.Time{}, errors.Errorf("token has %d segments, want 3", len(segments))
	}

	seg := segments[1]
	if pad := len(seg) % 4; pad != 0 {
		seg += strings.Repeat("=", 4-pad)
	}
	payload, err := base64.URLEncoding.DecodeString(seg)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "decoding token claims")
	}

	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return time.Time{}, errors.Wrap(err, "parsing token claims")
	}
	if claims.Exp == 0 {
		return time.Time{}, errors.New("token claims carry no exp field")
	}
	return time.Unix(claims.Exp, 0), nil
}

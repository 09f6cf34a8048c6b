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

/*Package console is the HTTP adapter for the zShield console API.

It owns every request/response shape the client depends on, so a change in
the console's wire format is a compile-time concern here rather than a
runtime property-access failure somewhere above.
*/
package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/ZimperiumBrian/zShieldMarketplace/internal/version"
)

// DefaultHTTPTimeout is the default HTTP timeout for console calls.
var DefaultHTTPTimeout = time.Minute * 2

// maxErrorBody bounds how much of an error response body is surfaced in
// diagnostics.
const maxErrorBody = 512

// Client is a zShield console client.
type Client struct {
	// HTTPTimeout is the timeout on console HTTP connections.
	HTTPTimeout time.Duration
	// Transport is the round tripper used for console calls.
	Transport http.RoundTripper

	// Base URL for the console.
	baseURL *url.URL
}

// NewClient creates a new console client. Host must be a scheme-qualified
// URL; a trailing slash is tolerated and stripped.
func NewClient(host string) (*Client, error) {
	u, err := ServerURL(host)
	if err != nil {
		return nil, err
	}
	return &Client{
		HTTPTimeout: DefaultHTTPTimeout,
		Transport:   http.DefaultTransport,
		baseURL:     u,
	}, nil
}

// SetTransport sets a custom Transport. Defaults to http.DefaultTransport.
func (c *Client) SetTransport(tr http.RoundTripper) *Client {
	c.Transport = tr
	return c
}

// ServerURL validates and normalizes the console base URL.
func ServerURL(host string) (*url.URL, error) {
	if host == "" {
		return nil, errors.New("console URL must not be empty")
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid console URL %q", host)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("console URL %q must include an http or https scheme", host)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u, nil
}

// url constructs an absolute URL from a console-relative path.
func (c *Client) url(path string) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimPrefix(path, "/")
	return u.String()
}

// Get performs an authenticated GET and decodes the JSON response into dest.
func (c *Client) Get(path, token string, dest interface{}) error {
	return c.call(http.MethodGet, path, token, "", nil, dest)
}

// Post performs an authenticated POST with a JSON body and decodes the
// response into dest.
func (c *Client) Post(path, token string, body, dest interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "failed to encode request body")
	}
	return c.call(http.MethodPost, path, token, "application/json", bytes.NewReader(data), dest)
}

// Upload performs an authenticated multipart POST carrying the file at
// filePath plus a JSON document part, and decodes the response into dest.
func (c *Client) Upload(path, token, filePath string, doc []byte, dest interface{}) error {
	f, err := os.Open(filePath)
	if err != nil {
		return errors.Wrapf(err, "cannot open %s for upload", filePath)
	}
	defer f.Close()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	part, err := w.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return errors.Wrapf(err, "cannot read %s", filePath)
	}
	if err := w.WriteField("json", string(doc)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return c.call(http.MethodPost, path, token, w.FormDataContentType(), buf, dest)
}

// call is the low-level primitive for executing console operations.
func (c *Client) call(method, path, token, contentType string, body io.Reader, dest interface{}) error {
	req, err := http.NewRequest(method, c.url(path), body)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", version.GetUserAgent())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{
		Timeout:   c.HTTPTimeout,
		Transport: c.Transport,
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "console call %s %s failed", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "reading response from %s", path)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       Snippet(data, maxErrorBody),
			URL:        req.URL,
		}
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Errorf("failed to parse JSON response from %s: %s", path, Snippet(data, maxErrorBody))
	}
	return nil
}

// HTTPError is an error caused by an unexpected HTTP status code. The
// StatusCode will not necessarily be a 4xx or 5xx; any unexpected code is
// reported this way.
type HTTPError struct {
	StatusCode int
	Body       string
	URL        *url.URL
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("console returned %d for %s: %s", e.StatusCode, e.URL.Path, e.Body)
}

// Snippet renders a bounded, printable prefix of a response body for
// diagnostics. Binary content is rendered as a quoted string so control
// bytes stay readable.
func Snippet(b []byte, max int) string {
	if len(b) > max {
		b = b[:max]
	}
	s := strings.TrimSpace(string(b))
	if utf8.ValidString(s) {
		return s
	}
	return fmt.Sprintf("%q", s)
}

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
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// DebugTransport logs each request and response at debug level. Output
// passes through the CLI's sanitizing formatter, so registered secrets
// never reach the terminal even in debug mode.
type DebugTransport struct {
	Next http.RoundTripper
}

// NewDebugTransport wraps next with request/response logging.
func NewDebugTransport(next http.RoundTripper) *DebugTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &DebugTransport{Next: next}
}

// RoundTrip implements http.RoundTripper.
func (t *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	logrus.Debugf("-> %s %s", req.Method, req.URL.Path)

	resp, err := t.Next.RoundTrip(req)
	if err != nil {
		logrus.Debugf("<- %s %s failed after %s: %s", req.Method, req.URL.Path, time.Since(start).Round(time.Millisecond), err)
		return nil, err
	}

	logrus.Debugf("<- %s %s %d (%s)", req.Method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	return resp, nil
}

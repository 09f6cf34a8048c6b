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

/*Package sanitize keeps secret material out of diagnostic output.

Components that handle the client secret, access tokens or signed download
URLs register them here before the first log line that could mention them.
Everything routed through the logrus formatter installed by the CLI is
masked against the registry.
*/
package sanitize

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const hiddenSecretValue = "[HIDDEN]"

// minSecretLen guards against registering values so short that masking
// them would shred unrelated output.
const minSecretLen = 4

// Registry holds the set of strings that must never appear in output.
type Registry struct {
	mu      sync.RWMutex
	secrets []string
}

// DefaultRegistry is the process-wide registry used by the CLI.
var DefaultRegistry = &Registry{}

// Register adds values to the registry. Empty and very short values are
// ignored.
func (r *Registry) Register(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range values {
		if len(v) < minSecretLen {
			continue
		}
		r.secrets = append(r.secrets, v)
	}
}

// Hide replaces every registered secret occurring in s with `[HIDDEN]`.
func (r *Registry) Hide(s string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sec := range r.secrets {
		s = strings.ReplaceAll(s, sec, hiddenSecretValue)
	}
	return s
}

// Register adds values to the default registry.
func Register(values ...string) { DefaultRegistry.Register(values...) }

// Hide masks s against the default registry.
func Hide(s string) string { return DefaultRegistry.Hide(s) }

// TruncateURL reduces a signed URL to its host and a bounded path prefix,
// suitable for diagnostics. The query string, which carries the signature,
// is dropped entirely.
func TruncateURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return hiddenSecretValue
	}
	p := u.Path
	if len(p) > 24 {
		p = p[:24] + "..."
	}
	return fmt.Sprintf("%s%s", u.Host, p)
}

// Formatter wraps another logrus formatter and masks its output.
type Formatter struct {
	Next     logrus.Formatter
	Registry *Registry
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(e *logrus.Entry) ([]byte, error) {
	next := f.Next
	if next == nil {
		next = &logrus.TextFormatter{}
	}
	reg := f.Registry
	if reg == nil {
		reg = DefaultRegistry
	}
	b, err := next.Format(e)
	if err != nil {
		return nil, err
	}
	return []byte(reg.Hide(string(b))), nil
}

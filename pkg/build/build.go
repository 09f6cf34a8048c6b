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

/*Package build drives a protection job from submission to the download
descriptor.

State labels in poll responses are advisory; the presence of a download
URL is the authoritative completion signal. FAILED and ERROR labels are
immediately fatal. Polling runs at a fixed interval with no backoff so a
job's poll count is a function of its duration alone.
*/
package build

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/console"
)

// Monitor submits protection jobs and polls them to completion.
type Monitor struct {
	Client *console.Client
	Tokens console.TokenProvider

	// PollInterval is the fixed wait between status polls.
	PollInterval time.Duration
	// MaxWait bounds the whole job, wall-clock from submission start.
	MaxWait time.Duration

	// Now and Sleep can be overridden for testing.
	Now   func() time.Time
	Sleep func(time.Duration)

	// start marks when Submit began; MaxWait is wall-clock from here, so
	// a slow upload eats into the polling budget.
	start time.Time
}

// New returns a Monitor with the given polling bounds.
func New(client *console.Client, tokens console.TokenProvider, pollInterval, maxWait time.Duration) *Monitor {
	return &Monitor{
		Client:       client,
		Tokens:       tokens,
		PollInterval: pollInterval,
		MaxWait:      maxWait,
		Now:          time.Now,
		Sleep:        time.Sleep,
	}
}

// Submit uploads the binary at filePath with the given protection request
// and returns the console's build id.
func (m *Monitor) Submit(filePath string, request []byte) (string, error) {
	m.start = m.Now()
	token, err := m.Tokens.Token()
	if err != nil {
		return "", err
	}
	id, err := m.Client.SubmitBuild(token, filePath, request)
	if err != nil {
		return "", err
	}
	logrus.Infof("submitted %s as build %s", filePath, id)
	return id, nil
}

// AwaitCompletion polls the build until it completes, fails, or the
// configured maximum wait elapses. On completion it fetches and returns
// the authoritative download descriptor through the separate descriptor
// call.
func (m *Monitor) AwaitCompletion(buildID string) (*console.Download, error) {
	start := m.start
	if start.IsZero() {
		start = m.Now()
	}
	deadline := start.Add(m.MaxWait)

	for {
		token, err := m.Tokens.Token()
		if err != nil {
			return nil, err
		}
		status, err := m.Client.GetBuild(token, buildID)
		if err != nil {
			return nil, err
		}

		// The download URL, not the state label, is what proves success.
		if status.ProtectedURL != "" {
			logrus.Infof("build %s complete", buildID)
			return m.Client.GetDownload(token, buildID)
		}

		switch status.State {
		case console.StateFailed, console.StateError:
			body, _ := json.Marshal(status)
			return nil, errors.Errorf("build %s reached state %s: %s", buildID, status.State, body)
		}

		if !m.Now().Before(deadline) {
			return nil, errors.Errorf("build %s did not finish within %s", buildID, m.MaxWait)
		}

		logrus.Debugf("build %s is %s, polling again in %s", buildID, status.State, m.PollInterval)
		m.Sleep(m.PollInterval)
	}
}

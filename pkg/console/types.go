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

// Build states reported by the console. The labels are advisory for
// success detection; only FAILED and ERROR are acted on directly.
const (
	StatePending = "PENDING"
	StateRunning = "RUNNING"
	StateFailed  = "FAILED"
	StateError   = "ERROR"
)

// loginRequest is the body of POST /auth/login.
type loginRequest struct {
	ClientID string `json:"clientId"`
	Secret   string `json:"secret"`
}

// loginResponse is the body returned by POST /auth/login.
type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

// Team is a read-only projection of a console team record.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// teamPage is the paginated wrapper GET /teams responds with.
type teamPage struct {
	Content []Team `json:"content"`
}

// TeamRef scopes a group to a team.
type TeamRef struct {
	ID string `json:"id"`
}

// Group is a read-only projection of a console policy group record. A nil
// Team means the group is global.
type Group struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Team *TeamRef `json:"team,omitempty"`
}

// submitResponse is the body returned by POST /builds/protect.
type submitResponse struct {
	BuildID string `json:"buildId"`
}

// BuildStatus is the body returned by GET /builds/{id}. ProtectedURL being
// non-empty is the authoritative completion signal.
type BuildStatus struct {
	State        string `json:"state"`
	ProtectedURL string `json:"protectedUrl,omitempty"`
}

// Download locates the protected artifact. The URL is signed and
// time-limited; treat it as a secret.
type Download struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

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
	"fmt"

	"github.com/pkg/errors"
)

// Login exchanges API credentials for an access token. A response without
// an access token is a configuration or service fault, never retried.
func (c *Client) Login(clientID, secret string) (string, error) {
	var resp loginResponse
	if err := c.Post("auth/login", "", loginRequest{ClientID: clientID, Secret: secret}, &resp); err != nil {
		return "", errors.Wrap(err, "login failed")
	}
	if resp.AccessToken == "" {
		return "", errors.New("login response did not contain an access token; check client id and secret")
	}
	return resp.AccessToken, nil
}

// ListTeams fetches the full team listing. The console pages teams, but
// resolution works on the complete first page the console returns for the
// listing call.
func (c *Client) ListTeams(token string) ([]Team, error) {
	var page teamPage
	if err := c.Get("teams", token, &page); err != nil {
		return nil, errors.Wrap(err, "listing teams")
	}
	return page.Content, nil
}

// ListGroups fetches the flat group listing.
func (c *Client) ListGroups(token string) ([]Group, error) {
	var groups []Group
	if err := c.Get("groups", token, &groups); err != nil {
		return nil, errors.Wrap(err, "listing groups")
	}
	return groups, nil
}

// SubmitBuild uploads the binary at filePath together with the protection
// request document and returns the new build id.
func (c *Client) SubmitBuild(token, filePath string, doc []byte) (string, error) {
	var resp submitResponse
	if err := c.Upload("builds/protect", token, filePath, doc, &resp); err != nil {
		return "", errors.Wrap(err, "submitting build")
	}
	if resp.BuildID == "" {
		return "", errors.New("submission response did not contain a build id")
	}
	return resp.BuildID, nil
}

// GetBuild fetches the current status of a build.
func (c *Client) GetBuild(token, id string) (*BuildStatus, error) {
	var status BuildStatus
	if err := c.Get(fmt.Sprintf("builds/%s", id), token, &status); err != nil {
		return nil, errors.Wrapf(err, "fetching status of build %s", id)
	}
	return &status, nil
}

// GetDownload fetches the authoritative download descriptor for a
// completed build. Completion and possession of the descriptor are
// separate facts; the console exposes them through separate calls.
func (c *Client) GetDownload(token, id string) (*Download, error) {
	var dl Download
	if err := c.Get(fmt.Sprintf("builds/%s/protected", id), token, &dl); err != nil {
		return nil, errors.Wrapf(err, "fetching download descriptor for build %s", id)
	}
	if dl.URL == "" {
		return nil, errors.Errorf("download descriptor for build %s has no URL", id)
	}
	return &dl, nil
}

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

package action

import (
	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/console"
	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/resolve"
)

// ListTeams is the action for 'zshield teams'. It shows the live team
// catalog the resolver works against.
type ListTeams struct {
	cfg *Configuration
}

// NewListTeams creates a new ListTeams object with the given configuration.
func NewListTeams(cfg *Configuration) *ListTeams {
	return &ListTeams{cfg: cfg}
}

// Run fetches the team listing.
func (l *ListTeams) Run() ([]console.Team, error) {
	token, err := l.cfg.Tokens.Token()
	if err != nil {
		return nil, err
	}
	return l.cfg.Client.ListTeams(token)
}

// ListGroups is the action for 'zshield groups'. With a team name set it
// narrows the listing to groups assignable for that team: its own plus
// the global ones.
type ListGroups struct {
	cfg *Configuration

	Team string
}

// NewListGroups creates a new ListGroups object with the given configuration.
func NewListGroups(cfg *Configuration) *ListGroups {
	return &ListGroups{cfg: cfg}
}

// Run fetches the group listing, optionally narrowed to a team.
func (l *ListGroups) Run() ([]console.Group, error) {
	token, err := l.cfg.Tokens.Token()
	if err != nil {
		return nil, err
	}
	groups, err := l.cfg.Client.ListGroups(token)
	if err != nil {
		return nil, err
	}
	if l.Team == "" {
		return groups, nil
	}

	teamID, err := resolve.New(l.cfg.Client, l.cfg.Tokens).Team(l.Team)
	if err != nil {
		return nil, err
	}
	var out []console.Group
	for _, g := range groups {
		if g.Team == nil || g.Team.ID == teamID {
			out = append(out, g)
		}
	}
	return out, nil
}

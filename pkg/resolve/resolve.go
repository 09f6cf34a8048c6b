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

/*Package resolve turns the human-readable team and group names a pipeline
is configured with into console-side identifiers.

Listings are fetched on every call so resolution always reflects live
server state; nothing is cached across calls.
*/
package resolve

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/console"
)

// Resolver resolves names against the console using live listings.
type Resolver struct {
	Client *console.Client
	Tokens console.TokenProvider
}

// New returns a Resolver over the given client and token source.
func New(client *console.Client, tokens console.TokenProvider) *Resolver {
	return &Resolver{Client: client, Tokens: tokens}
}

// Team resolves a team name to its id. Matching is exact and
// case-sensitive. The console enforces team-name uniqueness, so the first
// exact match wins.
func (r *Resolver) Team(name string) (string, error) {
	token, err := r.Tokens.Token()
	if err != nil {
		return "", err
	}
	teams, err := r.Client.ListTeams(token)
	if err != nil {
		return "", err
	}

	for _, t := range teams {
		if t.Name == name {
			return t.ID, nil
		}
	}

	names := make([]string, 0, len(teams))
	for _, t := range teams {
		names = append(names, t.Name)
	}
	return "", errors.Errorf("team %q not found; teams visible to this client: %s", name, strings.Join(names, ", "))
}

// Group resolves a group name to its id within the given team.
//
// Among exact name matches, a group scoped to the target team takes strict
// precedence over a global group. More than one candidate in whichever
// tier applies is ambiguous and always fatal; the resolver never guesses.
func (r *Resolver) Group(name, teamID string) (string, error) {
	token, err := r.Tokens.Token()
	if err != nil {
		return "", err
	}
	groups, err := r.Client.ListGroups(token)
	if err != nil {
		return "", err
	}

	var matches []console.Group
	for _, g := range groups {
		if g.Name == name {
			matches = append(matches, g)
		}
	}
	if len(matches) == 0 {
		names := make([]string, 0, len(groups))
		for _, g := range groups {
			names = append(names, g.Name)
		}
		return "", errors.Errorf("group %q not found; groups visible to this client: %s", name, strings.Join(names, ", "))
	}

	var scoped, global []console.Group
	for _, g := range matches {
		switch {
		case g.Team != nil && g.Team.ID == teamID:
			scoped = append(scoped, g)
		case g.Team == nil:
			global = append(global, g)
		}
	}

	switch {
	case len(scoped) == 1:
		return scoped[0].ID, nil
	case len(scoped) > 1:
		return "", errors.Errorf("group name %q is ambiguous: %d groups with that name are scoped to the team; disambiguate on the console", name, len(scoped))
	case len(global) == 1:
		return global[0].ID, nil
	case len(global) > 1:
		return "", errors.Errorf("group name %q is ambiguous: %d global groups carry that name; disambiguate on the console", name, len(global))
	}

	return "", errors.Errorf("group %q exists but is neither scoped to the team nor global; it cannot be assigned from here", name)
}

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

package main

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/action"
	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/cli"
)

const groupsDesc = `
List the policy groups visible to this API client.

With --team, the listing narrows to groups assignable for that team: the
team's own groups plus the global ones. A group with an empty TEAM column
is global.
`

func newGroupsCmd(settings *cli.EnvSettings, out io.Writer) *cobra.Command {
	var team string

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "list the policy groups visible to this API client",
		Long:  groupsDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Validate(); err != nil {
				return err
			}

			cfg := new(action.Configuration)
			if err := cfg.Init(settings); err != nil {
				return err
			}
			l := action.NewListGroups(cfg)
			l.Team = team

			groups, err := l.Run()
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("ID", "NAME", "TEAM")
			for _, g := range groups {
				team := ""
				if g.Team != nil {
					team = g.Team.ID
				}
				table.AddRow(g.ID, g.Name, team)
			}
			fmt.Fprintln(out, table)
			return nil
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "narrow the listing to groups assignable for this team")
	return cmd
}

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

func newTeamsCmd(settings *cli.EnvSettings, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "list the teams visible to this API client",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Validate(); err != nil {
				return err
			}

			cfg := new(action.Configuration)
			if err := cfg.Init(settings); err != nil {
				return err
			}

			teams, err := action.NewListTeams(cfg).Run()
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("ID", "NAME")
			for _, t := range teams {
				table.AddRow(t.ID, t.Name)
			}
			fmt.Fprintln(out, table)
			return nil
		},
	}
}

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
	"time"

	"github.com/spf13/cobra"

	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/action"
	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/cli"
)

const protectDesc = `
Submit a binary for protection and download the hardened result.

The file pattern must match exactly one local binary. Team and group names
are resolved against the console on every run; a group scoped to the team
takes precedence over a global group with the same name, and any ambiguity
aborts the run.

An optional policy document (JSON or YAML) can be supplied inline with
--policy or from a file with --policy-file; the inline document wins when
both are set. The resolved team and group ids always overwrite any ids the
document carries.

On success the command prints the build id and the local path of the
protected artifact as key=value lines for pipeline consumption.
`

func newProtectCmd(settings *cli.EnvSettings, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "protect",
		Short: "submit a binary for protection and download the result",
		Long:  protectDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.ValidateProtect(); err != nil {
				return err
			}

			cfg := new(action.Configuration)
			if err := cfg.Init(settings); err != nil {
				return err
			}

			p := action.NewProtect(cfg)
			p.FilePattern = settings.FilePattern
			p.Team = settings.Team
			p.Group = settings.Group
			p.PolicyInline = settings.Policy
			p.PolicyFile = settings.PolicyFile
			p.PollInterval = time.Duration(settings.PollInterval) * time.Second
			p.MaxWait = time.Duration(settings.MaxWait) * time.Minute
			p.OutputDir = settings.OutputDir

			res, err := p.Run()
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "build_id=%s\n", res.BuildID)
			fmt.Fprintf(out, "protected_file=%s\n", res.ProtectedFile)
			return nil
		},
	}

	settings.AddProtectFlags(cmd.Flags())
	return cmd
}

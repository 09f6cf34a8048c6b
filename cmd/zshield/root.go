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
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/cli"
	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/cli/sanitize"
)

const globalUsage = `The zShield pipeline client.

zshield drives the zShield app-hardening console from an automated build
pipeline: it authenticates with API credentials, resolves team and group
names, submits a binary for protection, waits for the job to finish and
downloads the protected artifact.

Every setting can come from a ZSHIELD_* environment variable or be
overridden with a flag, so the tool works unattended in CI.
`

func newRootCmd(out io.Writer) *cobra.Command {
	settings := cli.New()

	cmd := &cobra.Command{
		Use:          "zshield",
		Short:        "drive zShield app protection from a build pipeline",
		Long:         globalUsage,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// Mask registered secrets on every log line, even in debug mode.
			logrus.SetFormatter(&sanitize.Formatter{Next: &logrus.TextFormatter{DisableTimestamp: true}})
			if settings.Debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	settings.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newProtectCmd(settings, out),
		newTeamsCmd(settings, out),
		newGroupsCmd(settings, out),
		newVersionCmd(out),
	)
	return cmd
}

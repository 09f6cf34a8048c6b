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

/*Package action holds the implementation of every zshield CLI verb.

Each action is a struct configured by the caller and executed through its
Run method, sharing a Configuration that owns the console client and the
credential cache.
*/
package action

import (
	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/cli"
	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/console"
)

// Configuration injects the dependencies that all actions share.
type Configuration struct {
	// Client talks to the zShield console.
	Client *console.Client

	// Tokens is the credential cache consulted before every call.
	Tokens console.TokenProvider
}

// Init wires the configuration from CLI settings. The token source is the
// only shared mutable state in the pipeline; it is constructed once here
// and threaded through every component that makes authenticated calls.
func (cfg *Configuration) Init(settings *cli.EnvSettings) error {
	client, err := console.NewClient(settings.ConsoleURL)
	if err != nil {
		return err
	}
	if settings.Debug {
		client.SetTransport(console.NewDebugTransport(client.Transport))
	}

	cfg.Client = client
	cfg.Tokens = console.NewTokenSource(client, settings.ClientID, settings.ClientSecret)
	return nil
}

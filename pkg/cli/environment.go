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

/*Package cli describes the operating environment for the zShield CLI.

Settings are read from ZSHIELD_* environment variables first so the tool
drops into CI pipelines without flags; every value can then be overridden
on the command line.
*/
package cli

import (
	"net/url"
	"os"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
)

// EnvSettings describes all of the environment settings.
type EnvSettings struct {
	// ConsoleURL is the scheme-qualified base URL of the zShield console.
	ConsoleURL string
	// ClientID identifies the API client used for login.
	ClientID string
	// ClientSecret authenticates the API client. Never logged.
	ClientSecret string
	// FilePattern is a glob that must resolve to exactly one local binary.
	FilePattern string
	// Team is the human-readable team name to protect under.
	Team string
	// Group is the human-readable policy group name.
	Group string
	// Policy is an inline policy document (JSON or YAML).
	Policy string
	// PolicyFile is a path to a policy document. Inline takes precedence.
	PolicyFile string
	// PollInterval is the fixed wait between status polls, in seconds.
	PollInterval int
	// MaxWait bounds the whole protection job, in minutes.
	MaxWait int
	// OutputDir is where the protected artifact is written.
	OutputDir string
	// Debug indicates whether the client is running in debug mode.
	Debug bool
}

// New builds settings from the process environment.
func New() *EnvSettings {
	env := &EnvSettings{
		ConsoleURL:   os.Getenv("ZSHIELD_CONSOLE_URL"),
		ClientID:     os.Getenv("ZSHIELD_CLIENT_ID"),
		ClientSecret: os.Getenv("ZSHIELD_CLIENT_SECRET"),
		FilePattern:  os.Getenv("ZSHIELD_FILE_PATTERN"),
		Team:         os.Getenv("ZSHIELD_TEAM"),
		Group:        os.Getenv("ZSHIELD_GROUP"),
		Policy:       os.Getenv("ZSHIELD_POLICY"),
		PolicyFile:   os.Getenv("ZSHIELD_POLICY_FILE"),
		PollInterval: cast.ToInt(envOr("ZSHIELD_POLL_INTERVAL", "30")),
		MaxWait:      cast.ToInt(envOr("ZSHIELD_MAX_WAIT", "60")),
		OutputDir:    envOr("ZSHIELD_OUTPUT_DIR", "."),
	}
	env.Debug, _ = strconv.ParseBool(os.Getenv("ZSHIELD_DEBUG"))
	return env
}

// AddFlags binds flags to the given flagset.
func (s *EnvSettings) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&s.ConsoleURL, "console-url", s.ConsoleURL, "base URL of the zShield console")
	fs.StringVar(&s.ClientID, "client-id", s.ClientID, "API client id used for login")
	fs.StringVar(&s.ClientSecret, "client-secret", s.ClientSecret, "API client secret used for login")
	fs.BoolVar(&s.Debug, "debug", s.Debug, "enable verbose output")
}

// AddProtectFlags binds the protection-run flags to the given flagset.
func (s *EnvSettings) AddProtectFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&s.FilePattern, "file", "f", s.FilePattern, "glob matching exactly one binary to protect")
	fs.StringVar(&s.Team, "team", s.Team, "team name owning the app")
	fs.StringVar(&s.Group, "group", s.Group, "policy group name")
	fs.StringVar(&s.Policy, "policy", s.Policy, "inline policy document (JSON or YAML)")
	fs.StringVar(&s.PolicyFile, "policy-file", s.PolicyFile, "path to a policy document; --policy wins if both are set")
	fs.IntVar(&s.PollInterval, "poll-interval", s.PollInterval, "seconds between status polls")
	fs.IntVar(&s.MaxWait, "max-wait", s.MaxWait, "minutes to wait for protection to finish")
	fs.StringVarP(&s.OutputDir, "output-dir", "o", s.OutputDir, "directory to write the protected artifact to")
}

// Validate reports every configuration problem at once so an operator can
// fix a broken pipeline in one pass.
func (s *EnvSettings) Validate() error {
	var result *multierror.Error

	if s.ConsoleURL == "" {
		result = multierror.Append(result, errors.New("console URL is required (--console-url or ZSHIELD_CONSOLE_URL)"))
	} else if u, err := url.Parse(s.ConsoleURL); err != nil || u.Scheme != "http" && u.Scheme != "https" {
		result = multierror.Append(result, errors.Errorf("console URL %q must be scheme-qualified (http or https)", s.ConsoleURL))
	}
	if s.ClientID == "" {
		result = multierror.Append(result, errors.New("client id is required"))
	}
	if s.ClientSecret == "" {
		result = multierror.Append(result, errors.New("client secret is required"))
	}
	if s.PollInterval <= 0 {
		result = multierror.Append(result, errors.Errorf("poll interval must be positive, got %d", s.PollInterval))
	}
	if s.MaxWait <= 0 {
		result = multierror.Append(result, errors.Errorf("max wait must be positive, got %d", s.MaxWait))
	}

	return result.ErrorOrNil()
}

// ValidateProtect checks the settings only the protect command needs.
func (s *EnvSettings) ValidateProtect() error {
	var result *multierror.Error

	if err := s.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if s.FilePattern == "" {
		result = multierror.Append(result, errors.New("file pattern is required"))
	}
	if s.Team == "" {
		result = multierror.Append(result, errors.New("team name is required"))
	}
	if s.Group == "" {
		result = multierror.Append(result, errors.New("group name is required"))
	}

	return result.ErrorOrNil()
}

func envOr(name, def string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return def
}

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
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ZimperiumBrian/zShieldMarketplace/internal/fileutil"
	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/build"
	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/fetcher"
	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/policy"
	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/resolve"
)

// Protect is the action for protecting a single binary end to end.
//
// It provides the implementation of 'zshield protect': locate the binary,
// resolve team and group names, build the protection request, submit,
// poll to completion, and download the protected artifact. Every step is
// strictly sequential and any fatal condition aborts the whole run.
type Protect struct {
	cfg *Configuration

	FilePattern  string
	Team         string
	Group        string
	PolicyInline string
	PolicyFile   string
	PollInterval time.Duration
	MaxWait      time.Duration
	OutputDir    string
}

// Result carries the two outputs of a successful protection run.
type Result struct {
	BuildID       string
	ProtectedFile string
}

// NewProtect creates a new Protect object with the given configuration.
func NewProtect(cfg *Configuration) *Protect {
	return &Protect{cfg: cfg, OutputDir: "."}
}

// Run executes the protection pipeline.
func (p *Protect) Run() (*Result, error) {
	file, err := fileutil.MatchOne(p.FilePattern)
	if err != nil {
		return nil, err
	}
	logrus.Infof("protecting %s", file)

	r := resolve.New(p.cfg.Client, p.cfg.Tokens)
	teamID, err := r.Team(p.Team)
	if err != nil {
		return nil, err
	}
	groupID, err := r.Group(p.Group, teamID)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("resolved team %q to %s, group %q to %s", p.Team, teamID, p.Group, groupID)

	doc, err := policy.Load(p.PolicyInline, p.PolicyFile)
	if err != nil {
		return nil, err
	}
	request, err := policy.Build(teamID, groupID, doc)
	if err != nil {
		return nil, err
	}

	monitor := build.New(p.cfg.Client, p.cfg.Tokens, p.PollInterval, p.MaxWait)
	buildID, err := monitor.Submit(file, request)
	if err != nil {
		return nil, err
	}
	download, err := monitor.AwaitCompletion(buildID)
	if err != nil {
		return nil, err
	}

	path, err := fetcher.New().Fetch(download, p.OutputDir)
	if err != nil {
		return nil, err
	}

	return &Result{BuildID: buildID, ProtectedFile: path}, nil
}

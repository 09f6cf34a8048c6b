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

package sanitize

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryHide(t *testing.T) {
	r := &Registry{}
	r.Register("s3cr3t-token", "hunter22")

	out := r.Hide("login with s3cr3t-token and hunter22 please")
	assert.Equal(t, "login with [HIDDEN] and [HIDDEN] please", out)
}

func TestRegistryIgnoresShortValues(t *testing.T) {
	r := &Registry{}
	r.Register("", "ab")

	// Nothing registered, so nothing masked.
	assert.Equal(t, "abc", r.Hide("abc"))
}

func TestTruncateURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"short path",
			"https://cdn.example.com/a/b?sig=verysecret",
			"cdn.example.com/a/b",
		},
		{
			"long path truncated",
			"https://cdn.example.com/protected/artifacts/0123456789abcdef?sig=verysecret",
			"cdn.example.com/protected/artifacts/012...",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateURL(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "verysecret")
		})
	}
}

func TestFormatterMasksLogLines(t *testing.T) {
	reg := &Registry{}
	reg.Register("tok-abcdef")

	log := logrus.New()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetFormatter(&Formatter{Registry: reg})

	log.Infof("using token %s", "tok-abcdef")

	require.NotEmpty(t, buf.String())
	assert.NotContains(t, buf.String(), "tok-abcdef")
	assert.Contains(t, buf.String(), "[HIDDEN]")
}

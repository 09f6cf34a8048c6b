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
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:")
}

func TestProtectCmdRequiresSettings(t *testing.T) {
	t.Setenv("ZSHIELD_CONSOLE_URL", "")
	_, err := runCmd(t, "protect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "console URL is required")
}

func TestProtectCmdEndToEnd(t *testing.T) {
	// Minimal happy-path console: one team, one global group, a job that
	// completes on the first poll.
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"accessToken":"tok-for-cli-test"}`)
	})
	mux.HandleFunc("/teams", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"content":[{"id":"t1","name":"Apps"}]}`)
	})
	mux.HandleFunc("/groups", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"id":"g1","name":"Default Group"}]`)
	})
	mux.HandleFunc("/builds/protect", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"buildId":"b1"}`)
	})
	mux.HandleFunc("/builds/b1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"state":"RUNNING","protectedUrl":"http://%s/signed"}`, r.Host)
	})
	mux.HandleFunc("/builds/b1/protected", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"name":"app_protected.apk","url":"http://%s/signed"}`, r.Host)
	})
	mux.HandleFunc("/signed", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(append([]byte("PK\x03\x04"), make([]byte, 2048)...))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	workDir := t.TempDir()
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "app.apk"), []byte("PK\x03\x04x"), 0644))

	out, err := runCmd(t, "protect",
		"--console-url", srv.URL,
		"--client-id", "id",
		"--client-secret", "cli-test-secret",
		"--file", filepath.Join(workDir, "*.apk"),
		"--team", "Apps",
		"--group", "Default Group",
		"--poll-interval", "1",
		"--max-wait", "1",
		"--output-dir", outDir,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "build_id=b1")
	assert.Contains(t, out, "protected_file="+filepath.Join(outDir, "app_protected.apk"))
}

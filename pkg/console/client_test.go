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

package console

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerURL(t *testing.T) {
	tests := []struct {
		host string
		want string
		err  bool
	}{
		{host: "https://console.example.com", want: "https://console.example.com"},
		{host: "https://console.example.com/", want: "https://console.example.com"},
		{host: "https://console.example.com/api/", want: "https://console.example.com/api"},
		{host: "console.example.com", err: true},
		{host: "ftp://console.example.com", err: true},
		{host: "", err: true},
	}
	for _, tt := range tests {
		u, err := ServerURL(tt.host)
		if tt.err {
			if err == nil {
				t.Errorf("ServerURL(%q): expected error, got %s", tt.host, u)
			}
			continue
		}
		if err != nil {
			t.Errorf("ServerURL(%q): %s", tt.host, err)
			continue
		}
		if u.String() != tt.want {
			t.Errorf("ServerURL(%q) = %s, want %s", tt.host, u, tt.want)
		}
	}
}

func TestGetSetsAuthAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("User-Agent"), "zshield/")
		fmt.Fprint(w, `{"content":[{"id":"t1","name":"Apps"}]}`)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	teams, err := c.ListTeams("tok-123")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "t1", teams[0].ID)
	assert.Equal(t, "Apps", teams[0].Name)
}

func TestCallSurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"no such tenant"}`)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.ListGroups("tok")
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "no such tenant")
	assert.Contains(t, err.Error(), "403")
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "client-1", req["clientId"])
		assert.Equal(t, "shhh-secret", req["secret"])
		fmt.Fprint(w, `{"accessToken":"tok-xyz"}`)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	tok, err := c.Login("client-1", "shhh-secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-xyz", tok)
}

func TestLoginMissingTokenIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"somethingElse":"x"}`)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.Login("client-1", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not contain an access token")
}

func TestSubmitBuildUploadsMultipart(t *testing.T) {
	binary := filepath.Join(t.TempDir(), "app.apk")
	require.NoError(t, os.WriteFile(binary, []byte("PK\x03\x04fake"), 0644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/builds/protect", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "app.apk", hdr.Filename)

		assert.JSONEq(t, `{"teamId":"t1"}`, r.FormValue("json"))
		fmt.Fprint(w, `{"buildId":"b1"}`)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	id, err := c.SubmitBuild("tok", binary, []byte(`{"teamId":"t1"}`))
	require.NoError(t, err)
	assert.Equal(t, "b1", id)
}

func TestSnippet(t *testing.T) {
	long := make([]byte, 2048)
	for i := range long {
		long[i] = 'a'
	}
	if got := Snippet(long, 512); len(got) != 512 {
		t.Errorf("Snippet did not truncate: got %d bytes", len(got))
	}
	if got := Snippet([]byte("  plain text \n"), 512); got != "plain text" {
		t.Errorf("Snippet(%q) = %q", "  plain text \n", got)
	}
	if got := Snippet([]byte{0xff, 0xfe, 0x01}, 512); got == string([]byte{0xff, 0xfe, 0x01}) {
		t.Errorf("Snippet left binary bytes unquoted: %q", got)
	}
}

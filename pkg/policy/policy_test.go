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

package policy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInjectsIdentifiers(t *testing.T) {
	data, err := Build("t1", "g1", nil)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "t1", out["teamId"])
	assert.Equal(t, "g1", out["groupId"])
}

func TestBuildOverwritesIdentifiersInOverride(t *testing.T) {
	doc := Document{
		"teamId":  "sneaky-team",
		"groupId": "sneaky-group",
		"shield":  map[string]interface{}{"antiTampering": true},
	}

	data, err := Build("t1", "g1", doc)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "t1", out["teamId"])
	assert.Equal(t, "g1", out["groupId"])
	assert.Equal(t, map[string]interface{}{"antiTampering": true}, out["shield"])

	// The caller's document must be left alone.
	assert.Equal(t, "sneaky-team", doc["teamId"])
}

func TestBuildRejectsEmptyIdentifiers(t *testing.T) {
	_, err := Build("", "g1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestLoadPrecedence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(file, []byte("source: file\n"), 0644))

	t.Run("inline wins over file", func(t *testing.T) {
		doc, err := Load(`{"source":"inline"}`, file)
		require.NoError(t, err)
		assert.Equal(t, "inline", doc["source"])
	})

	t.Run("file wins over default", func(t *testing.T) {
		doc, err := Load("", file)
		require.NoError(t, err)
		assert.Equal(t, "file", doc["source"])
	})

	t.Run("default when nothing supplied", func(t *testing.T) {
		doc, err := Load("", "")
		require.NoError(t, err)
		assert.Empty(t, doc)
	})
}

func TestLoadAcceptsYAMLAndJSON(t *testing.T) {
	yamlDoc, err := Load("shield:\n  level: strict\n", "")
	require.NoError(t, err)
	jsonDoc, err := Load(`{"shield":{"level":"strict"}}`, "")
	require.NoError(t, err)
	assert.Equal(t, yamlDoc, jsonDoc)
}

func TestLoadMalformedDocumentIsFatal(t *testing.T) {
	_, err := Load(`{"unterminated":`, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing inline policy")
}

func TestLoadMissingFileIsFatal(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

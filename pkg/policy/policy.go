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

/*Package policy assembles the protection request document sent alongside
the binary.

The document is free-form apart from two injected fields: teamId and
groupId are always set from the resolved identifiers, overwriting anything
a caller-supplied document carries. Override precedence is inline document
over file over the built-in default; the file-first variant seen in older
tooling is deliberately not supported.
*/
package policy

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/mitchellh/copystructure"
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
	"sigs.k8s.io/yaml"
)

// requestSchema is the structural contract every outgoing protection
// request must satisfy after identifier injection.
const requestSchema = `{
  "type": "object",
  "required": ["teamId", "groupId"],
  "properties": {
    "teamId": {"type": "string", "minLength": 1},
    "groupId": {"type": "string", "minLength": 1}
  }
}`

// Document is a free-form protection policy document.
type Document map[string]interface{}

// Default returns the built-in policy document. It is empty: the console
// applies its own protection defaults when the request carries none.
func Default() Document {
	return Document{}
}

// Load picks the policy source and parses it. An inline document takes
// precedence over a file path; with neither, the built-in default is
// returned. Documents may be JSON or YAML.
func Load(inline, file string) (Document, error) {
	switch {
	case strings.TrimSpace(inline) != "":
		doc, err := parse([]byte(inline))
		return doc, errors.Wrap(err, "parsing inline policy")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "reading policy file %s", file)
		}
		doc, err := parse(data)
		return doc, errors.Wrapf(err, "parsing policy file %s", file)
	}
	return Default(), nil
}

func parse(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// Build injects the resolved identifiers into a copy of doc and returns
// the encoded protection request. The input document is never mutated.
func Build(teamID, groupID string, doc Document) ([]byte, error) {
	if doc == nil {
		doc = Default()
	}

	copied, err := copystructure.Copy(map[string]interface{}(doc))
	if err != nil {
		return nil, errors.Wrap(err, "copying policy document")
	}
	out := copied.(map[string]interface{})

	// Unconditional: resolved identifiers always win over the document.
	out["teamId"] = teamID
	out["groupId"] = groupID

	data, err := json.Marshal(out)
	if err != nil {
		return nil, errors.Wrap(err, "encoding protection request")
	}
	if err := validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

// validate checks the encoded request against the embedded schema.
func validate(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(requestSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return errors.Wrap(err, "validating protection request")
	}
	if !result.Valid() {
		var sb strings.Builder
		for _, e := range result.Errors() {
			sb.WriteString("\n- ")
			sb.WriteString(e.String())
		}
		return errors.Errorf("protection request is invalid:%s", sb.String())
	}
	return nil
}

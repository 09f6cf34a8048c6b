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

package fileutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// AtomicWriteFile atomically (as atomic as os.Rename allows) writes a file
// to disk. The temp file lives in the destination directory so the rename
// never crosses a device boundary.
func AtomicWriteFile(filename string, reader io.Reader, mode os.FileMode) error {
	tempFile, err := os.CreateTemp(filepath.Split(filename))
	if err != nil {
		return err
	}
	tempName := tempFile.Name()

	if _, err := io.Copy(tempFile, reader); err != nil {
		tempFile.Close() // return value is ignored as we are already on error path
		os.Remove(tempName)
		return err
	}

	if err := tempFile.Close(); err != nil {
		os.Remove(tempName)
		return err
	}

	if err := os.Chmod(tempName, mode); err != nil {
		os.Remove(tempName)
		return err
	}

	return os.Rename(tempName, filename)
}

// MatchOne resolves a glob pattern to exactly one regular file. Wildcards
// may appear in any path component; a `*` never crosses a separator.
// Anything other than exactly one match is a configuration error.
func MatchOne(pattern string) (string, error) {
	g, err := glob.Compile(filepath.ToSlash(pattern), '/')
	if err != nil {
		return "", errors.Wrapf(err, "invalid file pattern %q", pattern)
	}

	root := globRoot(pattern)
	var matches []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if g.Match(filepath.ToSlash(p)) {
			matches = append(matches, p)
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, "listing %s for pattern %q", root, pattern)
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", errors.Errorf("no file matches %q", pattern)
	}
	return "", errors.Errorf("pattern %q must match exactly one file, matched %d: %s", pattern, len(matches), strings.Join(matches, ", "))
}

// globRoot is the longest pattern prefix holding no glob metacharacters,
// used as the walk root.
func globRoot(pattern string) string {
	slashed := filepath.ToSlash(pattern)
	meta := strings.IndexAny(slashed, `*?[{\`)
	if meta == -1 {
		return filepath.Dir(pattern)
	}
	slash := strings.LastIndex(slashed[:meta], "/")
	switch {
	case slash < 0:
		return "."
	case slash == 0:
		return string(filepath.Separator)
	}
	return filepath.FromSlash(slashed[:slash])
}

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

/*Package fetcher downloads the protected artifact from its signed URL and
validates it structurally before declaring success.

Every check fails closed: wrong content type, bad magic bytes or an
implausibly small payload abort the run rather than hand a broken artifact
to the pipeline.
*/
package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ZimperiumBrian/zShieldMarketplace/internal/fileutil"
	"github.com/ZimperiumBrian/zShieldMarketplace/internal/version"
	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/cli/sanitize"
	"github.com/ZimperiumBrian/zShieldMarketplace/pkg/console"
)

const (
	// maxRedirects bounds how far a signed URL may bounce.
	maxRedirects = 10
	// MinArtifactSize is the smallest plausible protected binary. Anything
	// under it is treated as an error wrapper, ZIP magic or not.
	MinArtifactSize = 1024
	// diagPrefix is how much of a rejected payload is surfaced.
	diagPrefix = 256

	zipMagic = "PK"
)

// DefaultTimeout is the default timeout for artifact downloads.
var DefaultTimeout = 10 * time.Minute

// Fetcher downloads protected artifacts.
type Fetcher struct {
	// Timeout for the whole download.
	Timeout time.Duration
}

// New returns a Fetcher with default settings.
func New() *Fetcher {
	return &Fetcher{Timeout: DefaultTimeout}
}

// Fetch downloads the artifact named by dl into destDir and returns the
// local path. The signed URL is fetched directly, never through an
// ambient proxy: proxy rewriting invalidates the URL's signature.
func (f *Fetcher) Fetch(dl *console.Download, destDir string) (string, error) {
	sanitize.Register(dl.URL)
	logrus.Infof("downloading protected artifact from %s", sanitize.TruncateURL(dl.URL))

	client := &http.Client{
		Timeout: f.Timeout,
		Transport: &http.Transport{
			Proxy:              nil,
			DisableCompression: true,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.Errorf("signed URL redirected more than %d times", maxRedirects)
			}
			return nil
		},
	}

	req, err := http.NewRequest(http.MethodGet, dl.URL, nil)
	if err != nil {
		return "", errors.Wrap(err, "invalid download URL")
	}
	req.Header.Set("User-Agent", version.GetUserAgent())

	resp, err := client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "downloading protected artifact")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, diagPrefix))
		return "", errors.Errorf("artifact download returned %d: %s", resp.StatusCode, console.Snippet(body, diagPrefix))
	}

	// An auth or redirect page served with a 2xx is still a failure.
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(ct, "html") || strings.Contains(ct, "xml") {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, diagPrefix))
		return "", errors.Errorf("artifact download returned a markup document (%s) instead of a binary: %s", ct, console.Snippet(body, diagPrefix))
	}

	// The descriptor name is server input; only its base name is trusted,
	// so a hostile name cannot steer the write outside destDir.
	name := filepath.Base(dl.Name)
	if name == "." || name == ".." || name == "/" {
		name = path.Base(req.URL.Path)
	}
	dest := filepath.Join(destDir, name)

	// Serialize writes against other pipeline runs sharing the directory.
	lockPath := dest + ".lock"
	lock := flock.New(lockPath)
	if err := lock.Lock(); err != nil {
		return "", errors.Wrapf(err, "locking %s", dest)
	}
	defer func() {
		lock.Unlock()
		os.Remove(lockPath)
	}()

	if err := fileutil.AtomicWriteFile(dest, resp.Body, 0644); err != nil {
		return "", errors.Wrapf(err, "writing %s", dest)
	}

	if err := validateArtifact(dest); err != nil {
		return "", err
	}
	return dest, nil
}

// validateArtifact applies the structural sanity checks to a downloaded
// file: ZIP local-file-header magic and a minimum-size heuristic for
// truncated or wrapped downloads.
func validateArtifact(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "reopening %s for validation", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	head := make([]byte, diagPrefix)
	n, _ := f.Read(head)
	head = head[:n]

	if n < len(zipMagic) || string(head[:len(zipMagic)]) != zipMagic {
		return errors.Errorf("%s is not a ZIP archive (starts with %s)", path, printablePrefix(head))
	}
	if info.Size() < MinArtifactSize {
		return errors.Errorf("%s is implausibly small (%d bytes); refusing to treat it as a protected artifact", path, info.Size())
	}
	return nil
}

// printablePrefix renders the first bytes of a rejected file for
// diagnostics, escaping anything unprintable.
func printablePrefix(b []byte) string {
	if len(b) > 32 {
		b = b[:32]
	}
	return fmt.Sprintf("%q", string(b))
}

// Package setup provisions the per-user skillkit workspace: configuration
// directory, skill directory, and a starter config file. Running it again
// is a no-op that reports what already exists.
package setup

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const starterConfig = `# skillkit configuration
# Environment variables take precedence over values in this file.

# alphavantage_api_key: ""
# alphavantage_base_url: https://www.alphavantage.co/query
# timedtext_base_url: https://timedtext.googleapis.com/v1

# skill_dirs:
#   - ./skills
`

// Result reports what a setup run did.
type Result struct {
	// Created lists paths provisioned by this run
	Created []string
	// Existing lists paths that were already in place and left untouched
	Existing []string
}

// Run provisions the workspace rooted at configDir. Idempotent: existing
// directories and files are detected and never overwritten.
func Run(configDir string) (*Result, error) {
	result := &Result{}

	dirs := []string{
		configDir,
		filepath.Join(configDir, "skills"),
	}
	for _, dir := range dirs {
		created, err := ensureDir(dir)
		if err != nil {
			return nil, err
		}
		result.record(dir, created)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	created, err := ensureFile(configPath, []byte(starterConfig))
	if err != nil {
		return nil, err
	}
	result.record(configPath, created)

	return result, nil
}

func (r *Result) record(path string, created bool) {
	if created {
		r.Created = append(r.Created, path)
	} else {
		r.Existing = append(r.Existing, path)
	}
}

func ensureDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, errors.Errorf("%s exists but is not a directory", dir)
		}
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, errors.Wrapf(err, "failed to stat %s", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, errors.Wrapf(err, "failed to create %s", dir)
	}
	return true, nil
}

func ensureFile(path string, content []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, errors.Wrapf(err, "failed to stat %s", path)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, errors.Wrapf(err, "failed to write %s", path)
	}
	return true, nil
}

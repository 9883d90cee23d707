// Package skill discovers SKILL.md manifests. A skill package is a
// directory holding a SKILL.md with YAML frontmatter (name, description)
// plus whatever scripts or assets it ships.
package skill

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

const manifestFileName = "SKILL.md"

// Manifest is a parsed SKILL.md.
type Manifest struct {
	Name        string
	Description string
	Path        string
	Metadata    map[string]interface{}
	Content     string
}

// Discovery handles skill discovery from configured directories
type Discovery struct {
	skillDirs []string
}

// Option is a function that configures a Discovery
type Option func(*Discovery)

// WithSkillDirs sets the directories to scan
func WithSkillDirs(dirs ...string) Option {
	return func(d *Discovery) {
		d.skillDirs = dirs
	}
}

// NewDiscovery creates a new skill discovery instance
func NewDiscovery(opts ...Option) *Discovery {
	d := &Discovery{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover scans the configured directories for skill manifests. Missing
// directories are skipped silently; a malformed manifest fails the scan so
// a broken skill never vanishes without a trace. Results are sorted by name
// with earlier directories winning name collisions.
func (d *Discovery) Discover() ([]Manifest, error) {
	seen := make(map[string]bool)
	var manifests []Manifest

	for _, dir := range d.skillDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "failed to read skill directory %s", dir)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			manifestPath := filepath.Join(dir, entry.Name(), manifestFileName)
			if _, err := os.Stat(manifestPath); err != nil {
				continue
			}

			manifest, err := ParseManifest(manifestPath)
			if err != nil {
				return nil, err
			}
			if manifest.Name == "" {
				manifest.Name = entry.Name()
			}
			if seen[manifest.Name] {
				continue
			}
			seen[manifest.Name] = true
			manifests = append(manifests, *manifest)
		}
	}

	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].Name < manifests[j].Name
	})
	return manifests, nil
}

// ParseManifest reads a SKILL.md and extracts its frontmatter and body.
func ParseManifest(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}

	markdown := goldmark.New(goldmark.WithExtensions(meta.Meta))
	pctx := parser.NewContext()

	var buf bytes.Buffer
	if err := markdown.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrapf(err, "failed to parse manifest %s", path)
	}

	metadata := meta.Get(pctx)
	manifest := &Manifest{
		Path:     path,
		Metadata: metadata,
		Content:  string(content),
	}
	if name, ok := metadata["name"].(string); ok {
		manifest.Name = name
	}
	if desc, ok := metadata["description"].(string); ok {
		manifest.Description = desc
	}

	return manifest, nil
}

package skill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, dir, name, manifest string) {
	t.Helper()
	skillDir := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(skillDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(manifest), 0o644))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "market-data", `---
name: market-data
description: Fetch quotes and statements
---

# Market Data

Usage notes.
`)
	writeSkill(t, dir, "subtitle-dl", `---
name: subtitle-dl
description: Download subtitle tracks
---
`)

	// A directory without a manifest is not a skill
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "not-a-skill"), 0o755))

	discovery := NewDiscovery(WithSkillDirs(dir))
	manifests, err := discovery.Discover()
	require.NoError(t, err)
	require.Len(t, manifests, 2)

	// Sorted by name
	assert.Equal(t, "market-data", manifests[0].Name)
	assert.Equal(t, "Fetch quotes and statements", manifests[0].Description)
	assert.Equal(t, "subtitle-dl", manifests[1].Name)
}

func TestDiscover_MissingDirSkipped(t *testing.T) {
	discovery := NewDiscovery(WithSkillDirs(filepath.Join(t.TempDir(), "nope")))
	manifests, err := discovery.Discover()
	require.NoError(t, err)
	assert.Empty(t, manifests)
}

func TestDiscover_NameFallsBackToDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "anonymous", "# No frontmatter here\n")

	discovery := NewDiscovery(WithSkillDirs(dir))
	manifests, err := discovery.Discover()
	require.NoError(t, err)
	require.Len(t, manifests, 1)
	assert.Equal(t, "anonymous", manifests[0].Name)
}

func TestDiscover_EarlierDirWinsCollision(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeSkill(t, first, "dupe", "---\nname: dupe\ndescription: from first\n---\n")
	writeSkill(t, second, "dupe", "---\nname: dupe\ndescription: from second\n---\n")

	discovery := NewDiscovery(WithSkillDirs(first, second))
	manifests, err := discovery.Discover()
	require.NoError(t, err)
	require.Len(t, manifests, 1)
	assert.Equal(t, "from first", manifests[0].Description)
}

func TestListRecord(t *testing.T) {
	manifests := []Manifest{
		{Name: "a", Description: "first", Path: "/skills/a/SKILL.md"},
		{Name: "b", Description: "second", Path: "/skills/b/SKILL.md"},
	}

	rec, err := ListRecord(manifests)
	require.NoError(t, err)
	assert.Equal(t, ListColumns, rec.Table.Columns)
	require.Len(t, rec.Table.Rows, 2)
	assert.Equal(t, []string{"a", "first", "/skills/a/SKILL.md"}, rec.Table.Rows[0])
}

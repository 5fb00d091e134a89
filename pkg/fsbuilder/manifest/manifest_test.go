package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linsomniac/fsbuilder/pkg/fsbuilder"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeManifest(t, "site.yaml", `
items:
  - name: app config
    dest: /etc/app/app.conf
    state: copy
    content: "port = 8080\n"
  - dest: /var/lib/app
    state: directory
    mode: "0750"
`)

	m, err := Load(path)
	require.NoError(t, err)
	require.Len(t, m.Entries, 2)

	first := m.Entries[0]
	assert.Equal(t, "app config", first.Name)
	assert.Equal(t, fsbuilder.StateCopy, first.Params.State)
	assert.Equal(t, "/etc/app/app.conf", first.Params.Dest)
	require.NotNil(t, first.Params.Content)
	assert.Equal(t, "port = 8080\n", *first.Params.Content)
	assert.Equal(t, OnErrorFail, first.OnError)

	second := m.Entries[1]
	assert.Empty(t, second.Name)
	assert.Equal(t, fsbuilder.StateDirectory, second.Params.State)
	assert.Equal(t, "0750", second.Params.Mode)
}

func TestLoadYAMLDefaultsMerge(t *testing.T) {
	path := writeManifest(t, "site.yaml", `
defaults:
  owner: app
  mode: "0640"
  backup: true
items:
  - dest: /etc/app/a.conf
    state: copy
    content: "a\n"
  - dest: /etc/app/b.conf
    state: copy
    content: "b\n"
    mode: "0600"
`)

	m, err := Load(path)
	require.NoError(t, err)
	require.Len(t, m.Entries, 2)

	a := m.Entries[0].Params
	assert.Equal(t, "app", a.Owner)
	assert.Equal(t, "0640", a.Mode)
	assert.True(t, a.Backup)

	// Item keys win over defaults.
	b := m.Entries[1].Params
	assert.Equal(t, "app", b.Owner)
	assert.Equal(t, "0600", b.Mode)
}

func TestLoadYAMLEngineDefaultsApply(t *testing.T) {
	path := writeManifest(t, "site.yaml", `
items:
  - dest: /etc/app/a.conf
    content: "a\n"
`)

	m, err := Load(path)
	require.NoError(t, err)
	p := m.Entries[0].Params
	assert.Equal(t, fsbuilder.StateTemplate, p.State, "engine default state applies when unset")
	assert.True(t, p.Follow)
	assert.Equal(t, fsbuilder.DefaultMarker, p.Marker)
}

func TestLoadTOML(t *testing.T) {
	path := writeManifest(t, "site.toml", `
[defaults]
mode = "0644"

[[items]]
name = "motd"
dest = "/etc/app/motd"
state = "copy"
content = "welcome\n"

[[items]]
dest = "/tmp/old-cache"
state = "absent"
on_error = "continue"
`)

	m, err := Load(path)
	require.NoError(t, err)
	require.Len(t, m.Entries, 2)

	assert.Equal(t, "motd", m.Entries[0].Name)
	assert.Equal(t, "0644", m.Entries[0].Params.Mode)
	assert.Equal(t, fsbuilder.StateAbsent, m.Entries[1].Params.State)
	assert.Equal(t, OnErrorContinue, m.Entries[1].OnError)
}

func TestLoadWhenCondition(t *testing.T) {
	path := writeManifest(t, "site.yaml", `
items:
  - dest: /etc/app/a.conf
    state: copy
    content: "a\n"
    when: false
  - dest: /etc/app/b.conf
    state: copy
    content: "b\n"
`)

	m, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, m.Entries[0].When)
	assert.False(t, *m.Entries[0].When)
	assert.Nil(t, m.Entries[1].When)
}

func TestLoadInvalidOnError(t *testing.T) {
	path := writeManifest(t, "site.yaml", `
items:
  - dest: /etc/app/a.conf
    state: copy
    content: "a\n"
    on_error: retry
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid on_error")
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeManifest(t, "site.json", `{"items": []}`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported manifest format")
}

func TestLoadNoItems(t *testing.T) {
	path := writeManifest(t, "site.yaml", `defaults: {mode: "0644"}`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no items")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestManifestValidate(t *testing.T) {
	path := writeManifest(t, "site.yaml", `
items:
  - dest: /etc/app/a.conf
    state: copy
    content: "a\n"
  - name: missing dest
    state: copy
    content: "b\n"
  - dest: /etc/app/c
    state: link
`)

	m, err := Load(path)
	require.NoError(t, err)

	errs := m.Validate()
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "item 2")
	assert.Contains(t, errs[0].Error(), "'dest' is required")
	assert.Contains(t, errs[1].Error(), "item 3")
	assert.Contains(t, errs[1].Error(), "'src' is required")
}

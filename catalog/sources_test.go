package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSourcePreservesKeyCase(t *testing.T) {
	path := writeSettings(t, t.TempDir(), "settings.yaml", `
servers:
  - id: srv
    url: https://api.example.com
    headers:
      Authorization: Bearer ${api_key}
`)

	src, err := LoadSource(path)
	require.NoError(t, err)

	servers := src.Data["servers"].([]interface{})
	headers := servers[0].(map[string]interface{})["headers"].(map[string]interface{})
	assert.Contains(t, headers, "Authorization")
}

func TestLoadSourceAcceptsJSON(t *testing.T) {
	path := writeSettings(t, t.TempDir(), "settings.json",
		`{"prompts": [{"id": "p", "name": "P"}]}`)

	src, err := LoadSource(path)
	require.NoError(t, err)
	assert.Contains(t, src.Data, "prompts")
}

func TestLoadSourcesSkipsMissingAndBroken(t *testing.T) {
	dir := t.TempDir()
	good := writeSettings(t, dir, "good.yaml", `prompts: []`)
	broken := writeSettings(t, dir, "broken.yaml", "prompts: [\n  {")

	sources := LoadSources([]string{
		filepath.Join(dir, "absent.yaml"),
		broken,
		good,
	})

	require.Len(t, sources, 1)
	assert.Equal(t, "good.yaml", sources[0].Name)
}

func TestWatcherPublishesInitialCatalog(t *testing.T) {
	dir := t.TempDir()
	path := writeSettings(t, dir, "settings.yaml", `
prompts:
  - id: hello
`)

	snap := NewSnapshot()
	w, err := WatchSettings([]string{path}, snap, nil)
	require.NoError(t, err)
	defer w.Close()

	_, ok := snap.Catalog().Prompt("hello")
	assert.True(t, ok, "initial load publishes before watching starts")

	writeSettings(t, dir, "settings.yaml", `
prompts:
  - id: hello
  - id: second
`)
	w.Reload()
	_, ok = snap.Catalog().Prompt("second")
	assert.True(t, ok)
}

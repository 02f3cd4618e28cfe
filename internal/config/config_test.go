package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadNearestWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, `
[diagnostics]
max = 10

[render]
enable_sections = true

[lsp]
debounce_ms = 0
`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := LoadNearest(nested)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, 10, cfg.Diagnostics.Max)
	assert.True(t, cfg.Render.EnableSections)
	assert.Equal(t, 0, cfg.LSP.DebounceMS)
	assert.Equal(t, 64, cfg.Gateway.QueueSize, "unset keys keep defaults")
}

func TestLoadNearestWithoutFile(t *testing.T) {
	cfg, err := LoadNearest(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "[render]\ncolour = true\n", "unknown keys: render.colour"},
		{"negative max", "[diagnostics]\nmax = -1\n", "[diagnostics].max"},
		{"zero queue", "[gateway]\nqueue_size = 0\n", "[gateway].queue_size"},
		{"bad level", "[trace]\nlevel = \"loud\"\n", "[trace].level"},
		{"syntax", "[render\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

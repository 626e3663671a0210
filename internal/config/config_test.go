package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidledwards/ped/internal/config"
)

func TestLoadFallsBackToDefaultWhenNoPedrc(t *testing.T) {
	home := t.TempDir()
	cfg, err := config.Load(home)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Settings, cfg.Settings)
	assert.Equal(t, "", cfg.Path())
}

func TestLoadDecodesFirstMatchOnSearchPath(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, ".pedrc"), []byte(`
[settings]
spotlight = false
tab_size = 8

[colors]
red = 1

[theme]
comment = "red"

[bindings]
"C-x C-s" = "save"
`), 0o644))

	cfg, err := config.Load(home)
	require.NoError(t, err)
	assert.False(t, cfg.Settings.Spotlight)
	assert.Equal(t, 8, cfg.Settings.TabSize)
	assert.Equal(t, 1, cfg.Colors["red"])
	assert.Equal(t, "red", cfg.Theme["comment"])
	assert.Equal(t, "save", cfg.Bindings["C-x C-s"])
}

func TestLoadRejectsMalformedPedrc(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, ".pedrc"), []byte("not valid toml [[["), 0o644))

	_, err := config.Load(home)
	require.Error(t, err)
}

func TestLoadAllSyntaxMergesDirectoriesByName(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ".ped", "syntax")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rust.toml"), []byte(`
name = "rust"
file_pattern = "\\.rs$"
default_color = "plain"

[[rules]]
pattern = "/\\*.*?\\*/"
color = "comment"
precedence = 1
`), 0o644))

	defs, err := config.LoadAllSyntax(home)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "rust", defs[0].Name)
	assert.Len(t, defs[0].Rules, 1)
	assert.Equal(t, "comment", defs[0].Rules[0].Color)
}

func TestLoadSyntaxMissingDirReturnsEmpty(t *testing.T) {
	defs, err := config.LoadSyntax(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, defs)
}

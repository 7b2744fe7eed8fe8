package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	cfg, err := config.Load(config.LoadInput{WorkDir: work, Env: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, config.BackendJSON, cfg.Backend)
	assert.Equal(t, "todos", cfg.Collection)
	assert.Equal(t, "classic", cfg.Theme)
	assert.Equal(t, work, cfg.DataDirAbs)
	assert.Equal(t, filepath.Join(work, "tada.db"), cfg.SQLitePath())
	assert.Empty(t, cfg.Sources.Global)
	assert.Empty(t, cfg.Sources.Project)
}

func TestLoadPrecedence(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	xdg := t.TempDir()
	writeFile(t, filepath.Join(xdg, "tada", "config.toml"), `
backend = "sqlite"
collection = "global"
theme = "neon"
log_level = "info"
`)
	writeFile(t, filepath.Join(work, ".tada.toml"), `
collection = "project"
data_dir = "data"
`)
	env := map[string]string{
		"XDG_CONFIG_HOME": xdg,
		"TADA_THEME":      "mono",
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDir:   work,
		Env:       env,
		Overrides: config.Overrides{LogLevel: "debug"},
	})
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Backend, "from global")
	assert.Equal(t, "project", cfg.Collection, "project beats global")
	assert.Equal(t, "mono", cfg.Theme, "env beats files")
	assert.Equal(t, "debug", cfg.LogLevel, "flags beat env")
	assert.Equal(t, filepath.Join(work, "data"), cfg.DataDirAbs)
	assert.Equal(t, filepath.Join(xdg, "tada", "config.toml"), cfg.Sources.Global)
	assert.Equal(t, filepath.Join(work, ".tada.toml"), cfg.Sources.Project)
}

func TestLoadExplicitConfigMustExist(t *testing.T) {
	t.Parallel()

	_, err := config.Load(config.LoadInput{
		WorkDir:    t.TempDir(),
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		Env:        map[string]string{},
	})
	require.Error(t, err)
}

func TestLoadExplicitConfigReplacesProjectFile(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	writeFile(t, filepath.Join(work, ".tada.toml"), `collection = "project"`)
	explicit := filepath.Join(t.TempDir(), "alt.toml")
	writeFile(t, explicit, `collection = "explicit"`)

	cfg, err := config.Load(config.LoadInput{WorkDir: work, ConfigPath: explicit, Env: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.Collection)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"UnknownKey":     `colour = "red"`,
		"BadBackend":     `backend = "redis"`,
		"BadTheme":       `theme = "sparkly"`,
		"BadLevel":       `log_level = "loud"`,
		"EmptyName":      `collection = "  "`,
		"NotTOML":        `backend = `,
		"WrongValueType": `no_color = "yes"`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			work := t.TempDir()
			writeFile(t, filepath.Join(work, ".tada.toml"), content)
			_, err := config.Load(config.LoadInput{WorkDir: work, Env: map[string]string{}})
			require.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestNoColorFromEnvAndFlag(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	cfg, err := config.Load(config.LoadInput{WorkDir: work, Env: map[string]string{"NO_COLOR": ""}})
	require.NoError(t, err)
	assert.True(t, cfg.NoColor)

	off := false
	cfg, err = config.Load(config.LoadInput{
		WorkDir:   work,
		Env:       map[string]string{"NO_COLOR": "1"},
		Overrides: config.Overrides{NoColor: &off},
	})
	require.NoError(t, err)
	assert.False(t, cfg.NoColor)
}

func TestHomeExpansion(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cfg, err := config.Load(config.LoadInput{
		WorkDir: t.TempDir(),
		Env:     map[string]string{"HOME": home},
		Overrides: config.Overrides{
			DataDir: "~/todos",
			LogFile: "~/.tada/tada.log",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "todos"), cfg.DataDirAbs)
	assert.Equal(t, filepath.Join(home, ".tada", "tada.log"), cfg.LogFile)
}

func TestEnvMap(t *testing.T) {
	t.Parallel()

	env := config.EnvMap([]string{"A=1", "B=x=y", "BROKEN"})
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y"}, env)
}

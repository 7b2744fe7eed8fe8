// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/idilsaglam/todo/internal/logging"
	"github.com/idilsaglam/todo/internal/ui"
)

// Backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Default values.
const (
	DefaultBackend    = BackendJSON
	DefaultDataDir    = "."
	DefaultCollection = "todos"
	DefaultTheme      = "classic"
	DefaultLogLevel   = "warn"

	ProjectFileName = ".tada.toml"
	SQLiteFileName  = "tada.db"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds the full configuration for tada.
type Config struct {
	Backend    string `toml:"backend"`
	DataDir    string `toml:"data_dir"`
	Collection string `toml:"collection"`
	Theme      string `toml:"theme"`
	LogLevel   string `toml:"log_level"`
	LogFile    string `toml:"log_file"`
	NoColor    bool   `toml:"no_color"`

	// Resolved (computed, not serialized)
	DataDirAbs string  `toml:"-"`
	Sources    Sources `toml:"-"`
}

// Sources tracks which config files were loaded (for diagnostics).
type Sources struct {
	Global  string
	Project string
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Backend:    DefaultBackend,
		DataDir:    DefaultDataDir,
		Collection: DefaultCollection,
		Theme:      DefaultTheme,
		LogLevel:   DefaultLogLevel,
	}
}

// Overrides are command-line values. Empty strings and nil mean "not set".
type Overrides struct {
	Backend    string
	DataDir    string
	Collection string
	Theme      string
	LogLevel   string
	LogFile    string
	NoColor    *bool
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDir    string            // if empty, os.Getwd() is used
	ConfigPath string            // --config flag value
	Env        map[string]string // environment variables
	Overrides  Overrides
}

// Load resolves configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/tada/config.toml or ~/.config/tada/config.toml)
// 3. Project config (.tada.toml in the working directory), or the explicit --config file
// 4. TADA_* environment variables (and NO_COLOR)
// 5. CLI overrides.
func Load(in LoadInput) (Config, error) {
	workDir := in.WorkDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := Default()

	if p := globalPath(in.Env); p != "" {
		loaded, err := decodeFile(p, &cfg, false)
		if err != nil {
			return Config{}, err
		}
		if loaded {
			cfg.Sources.Global = p
		}
	}

	projectPath, required := in.ConfigPath, true
	if projectPath == "" {
		projectPath, required = filepath.Join(workDir, ProjectFileName), false
	}
	loaded, err := decodeFile(projectPath, &cfg, required)
	if err != nil {
		return Config{}, err
	}
	if loaded {
		cfg.Sources.Project = projectPath
	}

	applyEnv(&cfg, in.Env)
	applyOverrides(&cfg, in.Overrides)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	cfg.DataDir = expandHome(cfg.DataDir, in.Env)
	if filepath.IsAbs(cfg.DataDir) {
		cfg.DataDirAbs = filepath.Clean(cfg.DataDir)
	} else {
		cfg.DataDirAbs = filepath.Join(workDir, cfg.DataDir)
	}
	cfg.LogFile = expandHome(cfg.LogFile, in.Env)
	return cfg, nil
}

// SQLitePath is the database file used by the sqlite backend.
func (c Config) SQLitePath() string {
	return filepath.Join(c.DataDirAbs, SQLiteFileName)
}

// Validate checks the values that later stages rely on.
func Validate(c Config) error {
	if !slices.Contains([]string{BackendJSON, BackendSQLite, BackendMemory}, c.Backend) {
		return fmt.Errorf("%w: backend %q (want json, sqlite or memory)", ErrInvalid, c.Backend)
	}
	if strings.TrimSpace(c.Collection) == "" {
		return fmt.Errorf("%w: collection name is empty", ErrInvalid)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("%w: data_dir is empty", ErrInvalid)
	}
	if !slices.Contains(ui.Themes, strings.ToLower(c.Theme)) {
		return fmt.Errorf("%w: theme %q (want one of %s)", ErrInvalid, c.Theme, strings.Join(ui.Themes, ", "))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// globalPath is $XDG_CONFIG_HOME/tada/config.toml, else ~/.config/tada/config.toml.
func globalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "tada", "config.toml")
	}
	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "tada", "config.toml")
	}
	return ""
}

// decodeFile overlays the keys present in path onto cfg. A missing file is
// only an error when required.
func decodeFile(path string, cfg *Config, required bool) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return false, nil
		}
		return false, fmt.Errorf("config %s: %w", path, err)
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return false, fmt.Errorf("%w: %s: unknown keys: %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	return true, nil
}

func applyEnv(cfg *Config, env map[string]string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(env[key]); v != "" {
			*dst = v
		}
	}
	set(&cfg.Backend, "TADA_BACKEND")
	set(&cfg.DataDir, "TADA_DATA_DIR")
	set(&cfg.Collection, "TADA_COLLECTION")
	set(&cfg.Theme, "TADA_THEME")
	set(&cfg.LogLevel, "TADA_LOG_LEVEL")
	set(&cfg.LogFile, "TADA_LOG_FILE")
	if _, ok := env["NO_COLOR"]; ok {
		cfg.NoColor = true
	}
}

func applyOverrides(cfg *Config, o Overrides) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Backend, o.Backend)
	set(&cfg.DataDir, o.DataDir)
	set(&cfg.Collection, o.Collection)
	set(&cfg.Theme, o.Theme)
	set(&cfg.LogLevel, o.LogLevel)
	set(&cfg.LogFile, o.LogFile)
	if o.NoColor != nil {
		cfg.NoColor = *o.NoColor
	}
}

func expandHome(p string, env map[string]string) string {
	home := env["HOME"]
	if home == "" {
		return p
	}
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	return p
}

// EnvMap turns os.Environ-style pairs into a map.
func EnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo/internal/config"
	"github.com/idilsaglam/todo/internal/controller"
	"github.com/idilsaglam/todo/internal/logging"
	"github.com/idilsaglam/todo/internal/store"
	"github.com/idilsaglam/todo/internal/store/jsonstore"
	"github.com/idilsaglam/todo/internal/store/sqlitestore"
	"github.com/idilsaglam/todo/internal/todos"
	"github.com/idilsaglam/todo/internal/ui"
	"github.com/idilsaglam/todo/internal/view"
)

// app is one wired Store → Model → Controller → Screen stack.
type app struct {
	cfg     config.Config
	log     *log.Logger
	backend store.Backend
	json    *jsonstore.Backend // set for the json backend, for watching
	todos   *todos.Model
	screen  *view.Screen
	ctrl    *controller.Controller
	closers []io.Closer
}

func loadConfig(opts *RootOptions, env Env) (config.Config, error) {
	vars := env.Vars
	if vars == nil {
		vars = config.EnvMap(os.Environ())
	}
	in := config.LoadInput{
		WorkDir:    env.WorkDir,
		ConfigPath: opts.ConfigPath,
		Env:        vars,
		Overrides: config.Overrides{
			Backend:    opts.Backend,
			DataDir:    opts.DataDir,
			Collection: opts.Collection,
			Theme:      opts.Theme,
			LogLevel:   opts.LogLevel,
			LogFile:    opts.LogFile,
		},
	}
	if opts.NoColor {
		in.Overrides.NoColor = &opts.NoColor
	}
	cfg, err := config.Load(in)
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return config.Config{}, &usageError{msg: err.Error()}
		}
		return config.Config{}, fail("config", err)
	}
	return cfg, nil
}

// openApp loads configuration and wires the stack. Logs go to logOut, or
// to the configured log file when toFile is set.
func openApp(opts *RootOptions, env Env, toFile bool) (*app, error) {
	cfg, err := loadConfig(opts, env)
	if err != nil {
		return nil, err
	}
	if err := ui.SetTheme(cfg.Theme); err != nil {
		return nil, &usageError{msg: err.Error()}
	}
	if cfg.NoColor {
		ui.DisableColor()
	}

	a := &app{cfg: cfg}
	lopts := logging.DefaultOptions()
	lopts.Level, _ = logging.ParseLevel(cfg.LogLevel)
	if toFile {
		logger, closer, err := logging.OpenFile(cfg.LogFile, lopts)
		if err != nil {
			return nil, fail("log", err)
		}
		a.log = logger
		a.closers = append(a.closers, closer)
	} else {
		a.log = logging.New(env.Stderr, lopts)
	}

	switch cfg.Backend {
	case config.BackendSQLite:
		b, err := sqlitestore.Open(cfg.SQLitePath())
		if err != nil {
			a.Close()
			return nil, fail("open", err)
		}
		a.backend = b
	case config.BackendMemory:
		a.backend = store.NewMemory()
	default:
		a.json = jsonstore.New(cfg.DataDirAbs)
		a.backend = a.json
	}
	a.closers = append(a.closers, a.backend)

	st, err := store.Open(a.backend, cfg.Collection, store.WithLogger(a.log.WithPrefix("store")))
	if err != nil {
		a.Close()
		return nil, fail("open", err)
	}
	a.todos = todos.New(st)
	a.screen = view.NewScreen(a.log.WithPrefix("view"))
	a.ctrl = controller.New(a.todos, a.screen, a.log.WithPrefix("controller"))
	a.log.Debug("opened", "backend", cfg.Backend, "collection", cfg.Collection, "dir", cfg.DataDirAbs)
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn("close", "err", err)
		}
	}
	a.closers = nil
}

// exists reports whether id is in the collection.
func (a *app) exists(id int64) (bool, error) {
	found, err := a.todos.ReadID(id)
	if err != nil {
		return false, fail("load", err)
	}
	return len(found) > 0, nil
}

func (a *app) requireItem(w io.Writer, id int64) error {
	ok, err := a.exists(id)
	if err != nil {
		return err
	}
	if !ok {
		ui.Fail(w, fmt.Sprintf("no item #%d", id))
		ui.Hint(w, "run `todo ls` to see valid ids")
		return silentUsage
	}
	return nil
}

// Package cli is the todo command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idilsaglam/todo/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DataDir    string
	Backend    string
	Collection string
	Theme      string
	LogLevel   string
	LogFile    string
	NoColor    bool
}

func (o *RootOptions) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigPath, "config", "c", "", "config file (default .tada.toml in the working directory)")
	fs.StringVar(&o.DataDir, "data-dir", "", "directory holding the collections")
	fs.StringVar(&o.Backend, "backend", "", "storage backend (json|sqlite|memory)")
	fs.StringVar(&o.Collection, "collection", "", "collection name")
	fs.StringVar(&o.Theme, "theme", "", "theme (classic|neon|mono)")
	fs.StringVar(&o.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	fs.StringVar(&o.LogFile, "log-file", "", "log file for the interactive UI")
	fs.BoolVar(&o.NoColor, "no-color", false, "disable colors")
}

// Env is the process environment a command runs in.
type Env struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Vars    map[string]string
	WorkDir string // empty means os.Getwd
}

// usageError is a mistake in how the command was invoked (exit 2).
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// silentUsage has already been reported to the user.
var silentUsage = &usageError{}

// NewRootCommand creates the root command.
func NewRootCommand(env Env) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "todo",
		Short: "todo - a tiny todo list",
		Long: `todo keeps a list of short todo items in a local collection.

Run "todo ui" for the interactive list, or use the subcommands below.`,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return silentUsage
		},
	}
	cmd.SetOut(env.Stdout)
	cmd.SetErr(env.Stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})
	opts.bind(cmd.PersistentFlags())

	cmd.AddCommand(
		newAddCommand(opts, env),
		newListCommand(opts, env),
		newDoneCommand(opts, env, true),
		newDoneCommand(opts, env, false),
		newEditCommand(opts, env),
		newRemoveCommand(opts, env),
		newClearCompletedCommand(opts, env),
		newToggleAllCommand(opts, env),
		newResetCommand(opts, env),
		newUICommand(opts, env),
		newConfigCommand(opts, env),
		newCollectionsCommand(opts, env),
	)
	return cmd
}

// Run executes args and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, env Env) int {
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	if env.Stderr == nil {
		env.Stderr = os.Stderr
	}
	cmd := NewRootCommand(env)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return ExitOK
	}

	var ue *usageError
	if errors.As(err, &ue) {
		if ue != silentUsage {
			ui.Fail(env.Stderr, ue.msg)
		}
		return ExitUsage
	}
	var fe *failure
	if errors.As(err, &fe) {
		ui.Fail(env.Stderr, fe.Error())
		return ExitError
	}
	// Cobra's own errors (unknown command, missing args) are usage errors.
	ui.Fail(env.Stderr, err.Error())
	return ExitUsage
}

// failure is a runtime error (exit 1).
type failure struct {
	op  string
	err error
}

func (f *failure) Error() string { return f.op + ": " + f.err.Error() }
func (f *failure) Unwrap() error { return f.err }

func fail(op string, err error) error {
	return &failure{op: op, err: err}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("unknown subcommand: %s", args[0])
	}
	return nil
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todo/internal/controller"
	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/store"
	"github.com/idilsaglam/todo/internal/tui"
	"github.com/idilsaglam/todo/internal/ui"
)

// withApp opens the stack on the All route, runs fn and closes it.
func withApp(opts *RootOptions, env Env, fn func(a *app) error) error {
	a, err := openApp(opts, env, false)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.ctrl.SetView(""); err != nil {
		return fail("load", err)
	}
	return fn(a)
}

func parseID(op, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, usagef("%s: not a number: %s", op, s)
	}
	if id <= 0 {
		return 0, usagef("%s: invalid id: %d", op, id)
	}
	return id, nil
}

func parseFilter(s string) (model.Filter, error) {
	for _, f := range model.Filters() {
		if strings.EqualFold(s, f.String()) {
			return f, nil
		}
	}
	return model.All, usagef("ls: unknown filter %q (want all, active or completed)", s)
}

func newAddCommand(opts *RootOptions, env Env) *cobra.Command {
	return &cobra.Command{
		Use:     "add <title...>",
		Short:   "Add a new item (title can be multiple words)",
		Example: `  todo add "Buy milk"`,
		Args:    minArgs(1, "todo add <title...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return usagef("add: empty title")
			}
			return withApp(opts, env, func(a *app) error {
				if err := a.ctrl.Handle(controller.NewTodo{Title: title}); err != nil {
					return fail("save", err)
				}
				// The add repaints the All route, newest last.
				added := a.screen.Entries[len(a.screen.Entries)-1]
				ui.OK(env.Stdout, fmt.Sprintf("added #%d", added.ID))
				return nil
			})
		},
	}
}

func newListCommand(opts *RootOptions, env Env) *cobra.Command {
	var (
		filter string
		group  bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFilter(filter)
			if err != nil {
				return err
			}
			a, err := openApp(opts, env, false)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.ctrl.SetView(f.Route()); err != nil {
				return fail("load", err)
			}
			fmt.Fprintln(env.Stdout, listPanel(a.screen, group))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "route to show (all|active|completed)")
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func newDoneCommand(opts *RootOptions, env Env, done bool) *cobra.Command {
	use, short, verb := "done", "Mark an item completed", "completed"
	if !done {
		use, short, verb = "undo", "Mark an item active again", "reopened"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  exactArgs(1, "todo "+use+" <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(use, args[0])
			if err != nil {
				return err
			}
			return withApp(opts, env, func(a *app) error {
				if err := a.requireItem(env.Stderr, id); err != nil {
					return err
				}
				if err := a.ctrl.Handle(controller.ItemToggle{ID: id, Completed: done}); err != nil {
					return fail("save", err)
				}
				ui.OK(env.Stdout, fmt.Sprintf("%s #%d", verb, id))
				return nil
			})
		},
	}
}

func newEditCommand(opts *RootOptions, env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <title...>",
		Short: "Rename an item (a blank title removes it)",
		Args:  minArgs(2, "todo edit <id> <title...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("edit", args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")
			return withApp(opts, env, func(a *app) error {
				if err := a.requireItem(env.Stderr, id); err != nil {
					return err
				}
				if err := a.ctrl.Handle(controller.ItemEdit{ID: id}); err != nil {
					return fail("load", err)
				}
				if err := a.ctrl.Handle(controller.ItemEditDone{ID: id, Title: title}); err != nil {
					return fail("save", err)
				}
				if strings.TrimSpace(title) == "" {
					ui.OK(env.Stdout, fmt.Sprintf("removed #%d", id))
				} else {
					ui.OK(env.Stdout, fmt.Sprintf("renamed #%d", id))
				}
				return nil
			})
		},
	}
}

func newRemoveCommand(opts *RootOptions, env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an item",
		Args:  exactArgs(1, "todo rm <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("rm", args[0])
			if err != nil {
				return err
			}
			return withApp(opts, env, func(a *app) error {
				if err := a.requireItem(env.Stderr, id); err != nil {
					return err
				}
				if err := a.ctrl.Handle(controller.ItemRemove{ID: id}); err != nil {
					return fail("save", err)
				}
				ui.OK(env.Stdout, fmt.Sprintf("removed #%d", id))
				return nil
			})
		},
	}
}

func newClearCompletedCommand(opts *RootOptions, env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove every completed item",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, env, func(a *app) error {
				n := a.screen.CompletedCount
				if err := a.ctrl.Handle(controller.RemoveCompleted{}); err != nil {
					return fail("save", err)
				}
				ui.OK(env.Stdout, fmt.Sprintf("cleared %d completed", n))
				return nil
			})
		},
	}
}

func newToggleAllCommand(opts *RootOptions, env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-all",
		Short: "Complete every item, or reopen them all when all are completed",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, env, func(a *app) error {
				completed := !a.screen.AllChecked
				if err := a.ctrl.Handle(controller.ToggleAll{Completed: completed}); err != nil {
					return fail("save", err)
				}
				if completed {
					ui.OK(env.Stdout, "marked all completed")
				} else {
					ui.OK(env.Stdout, "marked all active")
				}
				return nil
			})
		},
	}
}

func newResetCommand(opts *RootOptions, env Env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every item in the collection",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return usagef("reset: refusing without --yes")
			}
			return withApp(opts, env, func(a *app) error {
				if err := a.todos.RemoveAll(); err != nil {
					return fail("save", err)
				}
				ui.OK(env.Stdout, "reset "+a.cfg.Collection)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	return cmd
}

func newUICommand(opts *RootOptions, env Env) *cobra.Command {
	var route string
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive list",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, env, true)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.ctrl.SetView(route); err != nil {
				return fail("load", err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			topts := tui.Options{Logger: a.log.WithPrefix("tui")}
			if a.json != nil {
				changes, err := a.json.Watch(ctx, a.cfg.Collection)
				if err != nil {
					a.log.Warn("watch disabled", "err", err)
				} else {
					topts.Changes = changes
				}
			}
			if err := tui.Run(a.ctrl, a.screen, topts); err != nil {
				return fail("ui", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&route, "route", "", "starting route (#/, #/active or #/completed)")
	return cmd
}

func newConfigCommand(opts *RootOptions, env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, env)
			if err != nil {
				return err
			}
			if cfg.Sources.Global != "" {
				fmt.Fprintf(env.Stdout, "# global: %s\n", cfg.Sources.Global)
			}
			if cfg.Sources.Project != "" {
				fmt.Fprintf(env.Stdout, "# project: %s\n", cfg.Sources.Project)
			}
			fmt.Fprintf(env.Stdout, "# data: %s\n", cfg.DataDirAbs)
			if err := toml.NewEncoder(env.Stdout).Encode(cfg); err != nil {
				return fail("config", err)
			}
			return nil
		},
	}
}

func newCollectionsCommand(opts *RootOptions, env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "List the collections in the data directory (current one starred)",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts, env, false)
			if err != nil {
				return err
			}
			defer a.Close()
			lister, ok := a.backend.(store.Lister)
			if !ok {
				return fail("collections", fmt.Errorf("backend %s cannot list collections", a.cfg.Backend))
			}
			names, err := lister.Names()
			if err != nil {
				return fail("collections", err)
			}
			for _, name := range names {
				mark := " "
				if name == a.cfg.Collection {
					mark = "*"
				}
				fmt.Fprintf(env.Stdout, "%s %s\n", mark, name)
			}
			return nil
		},
	}
}

package cli

import (
	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/ui"
	"github.com/idilsaglam/todo/internal/view"
)

// listPanel renders the screen the way `todo ls` prints it.
func listPanel(s *view.Screen, group bool) string {
	th := ui.Current()
	total := s.ActiveCount + s.CompletedCount

	lines := []string{
		ui.Header(s.ActiveCount, s.CompletedCount),
		th.Muted.Render(ui.ProgressBar(s.CompletedCount, total, 28)),
		ui.FilterBar(s.Filter),
		"",
	}
	if group {
		lines = append(lines, groupLines(s.Entries)...)
	} else {
		lines = append(lines, ui.Show(s.Entries, -1)...)
	}

	if s.ContentVisible {
		footer := ui.ItemCounter(s.ActiveCount)
		if s.ClearVisible {
			footer += "  " + th.Muted.Render(ui.ClearCompletedButton(s.CompletedCount))
		}
		lines = append(lines, "", footer)
	}
	lines = append(lines, "", th.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	return ui.Panel(lines)
}

func groupLines(entries []model.Todo) []string {
	var pending, done []model.Todo
	for _, t := range entries {
		if t.Completed {
			done = append(done, t)
		} else {
			pending = append(pending, t)
		}
	}
	th := ui.Current()
	section := func(title string, items []model.Todo) []string {
		lines := []string{th.Accent.Render(title)}
		if len(items) == 0 {
			return append(lines, th.Muted.Render("(none)"))
		}
		return append(lines, ui.Show(items, -1)...)
	}

	lines := section("Pending", pending)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

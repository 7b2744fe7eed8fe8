package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/idilsaglam/todo/internal/model"
)

const maxTitleWidth = 80

// Entry renders one todo on a single line: checkbox, title, id.
func Entry(t model.Todo, selected bool) string {
	th := Current()
	box := th.Muted.Render(th.BoxUnchecked)
	title := truncate(t.Title)
	if t.Completed {
		box = th.Success.Render(th.BoxChecked)
		title = th.Done.Render(title)
	}
	prefix := "  "
	if selected {
		prefix = th.Selected.Render(">") + " "
	}
	return fmt.Sprintf("%s%s %s %s", prefix, box, title, th.Muted.Render("#"+strconv.FormatInt(t.ID, 10)))
}

// Show renders the list. cursor is the selected index, or -1.
func Show(entries []model.Todo, cursor int) []string {
	if len(entries) == 0 {
		return []string{Current().Muted.Render("no items")}
	}
	out := make([]string, 0, len(entries))
	for i, t := range entries {
		out = append(out, Entry(t, i == cursor))
	}
	return out
}

// ItemCounter says how many todos are left.
func ItemCounter(active int) string {
	plural := "s"
	if active == 1 {
		plural = ""
	}
	return Current().Title.Render(strconv.Itoa(active)) + " item" + plural + " left"
}

// ClearCompletedButton is the clear-completed label, empty when nothing is completed.
func ClearCompletedButton(completed int) string {
	if completed > 0 {
		return "Clear completed"
	}
	return ""
}

// FilterBar lists the routes with the selected one highlighted.
func FilterBar(selected model.Filter) string {
	th := Current()
	parts := make([]string, 0, 3)
	for _, f := range model.Filters() {
		if f == selected {
			parts = append(parts, th.Accent.Render("["+f.String()+"]"))
		} else {
			parts = append(parts, th.Muted.Render(f.String()))
		}
	}
	return strings.Join(parts, " ")
}

// Header is the title line with live counts.
func Header(active, completed int) string {
	th := Current()
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		th.Title.Render("Todos"),
		th.Success.Render(th.SymDone), completed,
		th.Pending.Render(th.SymPending), active,
		th.Accent.Render("Total"), active+completed,
	)
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxTitleWidth {
		return string(r[:maxTitleWidth-3]) + "..."
	}
	return s
}

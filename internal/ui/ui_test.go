package ui

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo/internal/model"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

func withTheme(t *testing.T, name string) {
	t.Helper()
	prev := current
	require.NoError(t, SetTheme(name))
	t.Cleanup(func() { current = prev })
}

func TestItemCounterPlural(t *testing.T) {
	withTheme(t, "mono")

	assert.Equal(t, "0 items left", stripANSI(ItemCounter(0)))
	assert.Equal(t, "1 item left", stripANSI(ItemCounter(1)))
	assert.Equal(t, "12 items left", stripANSI(ItemCounter(12)))
}

func TestClearCompletedButton(t *testing.T) {
	assert.Equal(t, "", ClearCompletedButton(0))
	assert.Equal(t, "Clear completed", ClearCompletedButton(3))
}

func TestShowRendersEveryEntry(t *testing.T) {
	withTheme(t, "mono")

	lines := Show([]model.Todo{
		{ID: 10, Title: "Buy milk"},
		{ID: 11, Title: "Walk dog", Completed: true},
	}, 1)
	require.Len(t, lines, 2)
	assert.Equal(t, "  [ ] Buy milk #10", stripANSI(lines[0]))
	assert.Equal(t, "> [x] Walk dog #11", stripANSI(lines[1]))
}

func TestShowEmpty(t *testing.T) {
	withTheme(t, "mono")

	assert.Equal(t, []string{"no items"}, Show(nil, -1))
}

func TestEntryTruncatesLongTitles(t *testing.T) {
	withTheme(t, "mono")

	line := stripANSI(Entry(model.Todo{ID: 1, Title: strings.Repeat("é", 200)}, false))
	assert.Contains(t, line, strings.Repeat("é", maxTitleWidth-3)+"...")
	assert.NotContains(t, line, strings.Repeat("é", maxTitleWidth))
}

func TestFilterBarHighlightsSelection(t *testing.T) {
	withTheme(t, "mono")

	assert.Equal(t, "All [Active] Completed", stripANSI(FilterBar(model.Active)))
}

func TestHeader(t *testing.T) {
	withTheme(t, "mono")

	assert.Equal(t, "Todos  x 1  - 2  Total 3", stripANSI(Header(2, 1)))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1), "zero total and tiny width are clamped")
}

func TestPanelFramesLines(t *testing.T) {
	withTheme(t, "mono")

	out := stripANSI(Panel([]string{"a", "bb"}))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "+"))
	assert.Contains(t, lines[1], "| a")
	assert.Contains(t, lines[2], "| bb")
}

func TestSetThemeRejectsUnknown(t *testing.T) {
	withTheme(t, "neon")

	require.Error(t, SetTheme("sparkly"))
	assert.Equal(t, "neon", Current().Name)
}

func TestDisableColorKeepsSymbols(t *testing.T) {
	withTheme(t, "neon")

	DisableColor()
	assert.Equal(t, "◼", Current().BoxChecked)
	assert.Equal(t, "neon", Current().Name)
}

func TestStatusLines(t *testing.T) {
	withTheme(t, "mono")

	var buf bytes.Buffer
	OK(&buf, "added")
	Fail(&buf, "nope")
	Hint(&buf, "run `todo ls`")
	assert.Equal(t, "x added\n✖ nope\nHint: run `todo ls`\n", stripANSI(buf.String()))
}

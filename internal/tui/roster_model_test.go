package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/rollcall/internal/roster"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestRosterModel(t *testing.T, n int) *RosterViewModel {
	t.Helper()
	return NewRosterViewModel(context.Background(), roster.Synthetic(n, 7))
}

func TestRosterViewModel_Initial(t *testing.T) {
	m := newTestRosterModel(t, 100)

	assert.Equal(t, ViewStateList, m.State())
	assert.Len(t, m.Records(), 100)
	assert.Equal(t, 100, m.Summary().Total)
	assert.Equal(t, roster.SortByName, m.SortBy())
	assert.Nil(t, m.Init())

	for i := 1; i < len(m.Records()); i++ {
		assert.LessOrEqual(t, m.Records()[i-1].Name, m.Records()[i].Name)
	}

	view := m.View()
	assert.Contains(t, view, "Total")
	assert.Contains(t, view, "Rows 1–20 of 100")
	assert.Contains(t, view, "sort: name")
}

func TestRosterViewModel_Filter(t *testing.T) {
	m := newTestRosterModel(t, 100)

	m.Update(runes("/"))
	m.Update(runes("teacher"))
	assert.Len(t, m.Records(), 100, "filter applies on enter")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.Records(), 5)
	for _, r := range m.Records() {
		assert.Equal(t, roster.RoleTeacher, r.Role)
	}
	assert.Equal(t, 5, m.Summary().Total)
	assert.Contains(t, m.View(), `filter: "teacher"`)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.Records(), 100, "esc clears the filter")
}

func TestRosterViewModel_FilterNoMatches(t *testing.T) {
	m := newTestRosterModel(t, 10)

	m.Update(runes("/"))
	m.Update(runes("zzzz"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, m.Records())
	assert.Contains(t, m.View(), "No records match")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewStateList, m.State(), "no detail view without records")
}

func TestRosterViewModel_SortCycle(t *testing.T) {
	m := newTestRosterModel(t, 50)

	m.Update(runes("s"))
	assert.Equal(t, roster.SortByClass, m.SortBy())
	for i := 1; i < len(m.Records()); i++ {
		assert.LessOrEqual(t, m.Records()[i-1].Class, m.Records()[i].Class)
	}

	m.Update(runes("s"))
	m.Update(runes("s"))
	m.Update(runes("s"))
	assert.Equal(t, roster.SortByName, m.SortBy())
}

func TestRosterViewModel_NavigationAndDetail(t *testing.T) {
	m := newTestRosterModel(t, 100)

	m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 99, m.List().Selected())
	assert.Contains(t, m.View(), "Rows 81–100 of 100")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewStateDetail, m.State())
	last := m.Records()[99]
	view := m.View()
	assert.Contains(t, view, "ROSTER RECORD")
	assert.Contains(t, view, last.ID)
	assert.Contains(t, view, last.Name)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewStateList, m.State())

	_, cmd := m.Update(runes("q"))
	assert.Equal(t, ViewStateQuitting, m.State())
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestRosterViewModel_Resize(t *testing.T) {
	m := newTestRosterModel(t, 100)

	m.Update(tea.WindowSizeMsg{Width: 160, Height: 50})
	assert.Equal(t, 40, m.List().Height())
	assert.Equal(t, 160, m.List().Width())

	m.Update(tea.WindowSizeMsg{Width: 40, Height: 8})
	assert.Equal(t, minHeight, m.List().Height())
}

func TestRosterViewModel_Loading(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		m := NewRosterViewModelWithLoading(context.Background(), func(context.Context) ([]roster.Record, error) {
			return roster.Synthetic(30, 1), nil
		})
		assert.Equal(t, ViewStateLoading, m.State())
		assert.NotNil(t, m.Init())
		assert.Contains(t, m.View(), "Loading roster")

		msg := m.fetchCmd()
		m.Update(msg)
		assert.Equal(t, ViewStateList, m.State())
		assert.Len(t, m.Records(), 30)
	})

	t.Run("failure", func(t *testing.T) {
		boom := errors.New("disk on fire")
		m := NewRosterViewModelWithLoading(context.Background(), func(context.Context) ([]roster.Record, error) {
			return nil, boom
		})

		_, cmd := m.Update(m.fetchCmd())
		assert.Equal(t, ViewStateError, m.State())
		assert.ErrorIs(t, m.Err(), boom)
		assert.NotNil(t, cmd)
		assert.Contains(t, m.View(), "disk on fire")
	})
}

func TestRosterViewModel_Export(t *testing.T) {
	t.Run("writes filtered roster", func(t *testing.T) {
		m := newTestRosterModel(t, 60)
		path := filepath.Join(t.TempDir(), "exports", "roster.csv")
		m.SetExportPath(path)

		m.Update(runes("/"))
		m.Update(runes("student"))
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		_, cmd := m.Update(runes("e"))
		require.NotNil(t, cmd)
		m.Update(cmd())

		assert.Contains(t, m.View(), "Exported 57 records")

		written, err := roster.Load(path)
		require.NoError(t, err)
		assert.Equal(t, m.Records(), written)
	})

	t.Run("disabled without path", func(t *testing.T) {
		m := newTestRosterModel(t, 5)
		_, cmd := m.Update(runes("e"))
		assert.Nil(t, cmd)
		assert.Contains(t, m.View(), "Export disabled")
	})

	t.Run("failure reported", func(t *testing.T) {
		m := newTestRosterModel(t, 5)
		m.SetExportPath(t.TempDir())
		_, cmd := m.Update(runes("e"))
		require.NotNil(t, cmd)
		m.Update(cmd())
		assert.Contains(t, m.View(), "Export failed")
	})
}

func TestRenderHelpers(t *testing.T) {
	assert.Equal(t, "12,345", formatCount(12345))
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.Equal(t, "ab", truncate("abcdef", 2))

	assert.Contains(t, RenderRosterSummary(nil, 80), "No roster loaded")

	s := roster.Summarize(roster.Synthetic(2000, 3))
	cards := RenderRosterSummary(s, 300)
	assert.Contains(t, cards, "2,000")

	narrow := RenderRosterSummary(s, 40)
	assert.Greater(t, strings.Count(narrow, "\n"), strings.Count(cards, "\n"), "narrow widths stack the cards")

	row := renderRecord(roster.Record{ID: "S1", Name: "A", Role: roster.RoleStudent}, false)
	assert.True(t, strings.HasPrefix(row, "S1 "))
}

func TestDetectOutputMode(t *testing.T) {
	assert.Equal(t, OutputModePlain, DetectOutputMode(true, false, true))
	assert.Equal(t, OutputModePlain, DetectOutputMode(true, true, false))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, OutputModePlain, DetectOutputMode(true, false, false))

	force, no := ColorFlags("always")
	assert.True(t, force)
	assert.False(t, no)
	force, no = ColorFlags("never")
	assert.False(t, force)
	assert.True(t, no)
	force, no = ColorFlags("auto")
	assert.False(t, force)
	assert.False(t, no)
}

package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/rollcall/internal/logging"
	"github.com/rshade/rollcall/internal/roster"
	"github.com/rshade/rollcall/internal/tui/listview"
)

// rosterChromeHeight is the rows taken by stat cards, table header, status and help.
const rosterChromeHeight = 10

// RosterFetcher loads roster records. It should honor ctx cancellation.
type RosterFetcher func(ctx context.Context) ([]roster.Record, error)

// Messages for RosterViewModel.
type (
	rosterLoadedMsg struct {
		records []roster.Record
		err     error
	}

	exportDoneMsg struct {
		path  string
		count int
		err   error
	}
)

// RosterViewModel is the Bubble Tea model for browsing a roster.
type RosterViewModel struct {
	ctx context.Context

	// View state
	state      ViewState
	allRecords []roster.Record // Source of truth
	records    []roster.Record // Filtered/sorted for display

	// Interactive components
	list      *listview.Model[roster.Record]
	listOpts  []listview.Option
	textInput textinput.Model

	// Display configuration
	width      int
	height     int
	sortBy     roster.SortField
	showFilter bool

	// Loading state
	loading  *LoadingState
	fetchCmd tea.Cmd

	summary    *roster.Summary
	exportPath string
	status     string

	err error
}

// NewRosterViewModel creates a model showing records.
func NewRosterViewModel(ctx context.Context, records []roster.Record, opts ...listview.Option) *RosterViewModel {
	m := newRosterViewModel(ctx, opts)
	m.state = ViewStateList
	m.setRecords(records)
	return m
}

// NewRosterViewModelWithLoading creates a model that shows a spinner until fetcher returns.
func NewRosterViewModelWithLoading(
	ctx context.Context,
	fetcher RosterFetcher,
	opts ...listview.Option,
) *RosterViewModel {
	m := newRosterViewModel(ctx, opts)
	m.state = ViewStateLoading
	m.loading = NewLoadingState()
	m.fetchCmd = func() tea.Msg {
		records, err := fetcher(ctx)
		return rosterLoadedMsg{records: records, err: err}
	}
	return m
}

func newRosterViewModel(ctx context.Context, opts []listview.Option) *RosterViewModel {
	m := &RosterViewModel{
		ctx:       ctx,
		listOpts:  opts,
		textInput: newRosterTextInput(),
		summary:   roster.Summarize(nil),
		width:     defaultWidth,
		height:    defaultHeight,
	}
	m.list = listview.NewModel(nil, m.listHeight(), m.width, renderRecord, m.listOpts...)
	return m
}

// newRosterTextInput creates the filter input.
func newRosterTextInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Filter by name, id, role, class or email..."
	ti.CharLimit = filterInputCharLimit
	ti.Width = filterInputWidth
	return ti
}

// SetExportPath enables the export key; the filtered roster is written there as CSV.
func (m *RosterViewModel) SetExportPath(path string) {
	m.exportPath = path
}

// Init starts loading, if the model was created with a fetcher.
func (m *RosterViewModel) Init() tea.Cmd {
	if m.state == ViewStateLoading {
		return tea.Batch(m.loading.Init(), m.fetchCmd)
	}
	return nil
}

// Update handles messages and updates the model state.
func (m *RosterViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.listHeight())
		return m, nil
	case rosterLoadedMsg:
		return m.handleLoadingComplete(msg)
	case exportDoneMsg:
		m.handleExportDone(msg)
		return m, nil
	}

	if m.showFilter {
		return m.handleFilterInput(msg)
	}

	switch m.state {
	case ViewStateLoading:
		return m, m.loading.Update(msg)
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateQuitting, ViewStateError:
		return m.handleQuitUpdate(msg)
	default:
		return m, nil
	}
}

func (m *RosterViewModel) handleLoadingComplete(msg rosterLoadedMsg) (tea.Model, tea.Cmd) {
	logger := logging.FromContext(m.ctx)
	if msg.err != nil {
		logger.Error().Str("component", "tui").Err(msg.err).Msg("roster load failed")
		m.err = msg.err
		m.state = ViewStateError
		return m, tea.Quit
	}
	logger.Debug().Str("component", "tui").Int("records", len(msg.records)).Msg("roster loaded")
	m.state = ViewStateList
	m.setRecords(msg.records)
	return m, nil
}

func (m *RosterViewModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter, keyEsc:
			m.showFilter = false
			m.textInput.Blur()
			m.applyFilter()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *RosterViewModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEnter:
			if len(m.records) > 0 {
				m.state = ViewStateDetail
			}
			return m, nil
		case keySlash:
			m.showFilter = true
			return m, m.textInput.Focus()
		case keyS:
			m.cycleSort()
			return m, nil
		case keyE:
			return m, m.exportCmd()
		case keyEsc:
			if m.textInput.Value() != "" {
				m.textInput.SetValue("")
				m.applyFilter()
			}
			return m, nil
		}
	}

	_, cmd := m.list.Update(msg)
	return m, cmd
}

func (m *RosterViewModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEsc:
			m.state = ViewStateList
			return m, nil
		}
	}
	return m, nil
}

func (m *RosterViewModel) handleQuitUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *RosterViewModel) handleExportDone(msg exportDoneMsg) {
	logger := logging.FromContext(m.ctx)
	if msg.err != nil {
		logger.Warn().Str("component", "tui").Err(msg.err).Str("path", msg.path).Msg("roster export failed")
		m.status = "Export failed: " + msg.err.Error()
		return
	}
	logger.Info().Str("component", "tui").Int("records", msg.count).Str("path", msg.path).Msg("roster exported")
	m.status = fmt.Sprintf("Exported %s records to %s", formatCount(msg.count), msg.path)
}

// exportCmd writes the filtered, sorted roster to exportPath off the UI goroutine.
func (m *RosterViewModel) exportCmd() tea.Cmd {
	if m.exportPath == "" {
		m.status = "Export disabled (start with --export FILE)"
		return nil
	}
	path := m.exportPath
	records := append([]roster.Record(nil), m.records...)
	return func() tea.Msg {
		return exportDoneMsg{path: path, count: len(records), err: exportCSV(path, records)}
	}
}

func exportCSV(path string, records []roster.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = roster.WriteCSV(f, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// setRecords replaces the source records and recomputes the display.
func (m *RosterViewModel) setRecords(records []roster.Record) {
	m.allRecords = records
	m.applyFilter()
}

// applyFilter filters records by the text input value, then sorts and redisplays.
func (m *RosterViewModel) applyFilter() {
	m.records = append([]roster.Record(nil), roster.Filter(m.allRecords, m.textInput.Value())...)
	m.summary = roster.Summarize(m.records)
	m.applySort()
	m.rebuildList()
}

// cycleSort cycles through the available sort fields.
func (m *RosterViewModel) cycleSort() {
	m.sortBy = m.sortBy.Next()
	m.applySort()
	m.rebuildList()
}

func (m *RosterViewModel) applySort() {
	roster.Sort(m.records, m.sortBy)
}

// rebuildList hands the current records to the list and moves the selection to the top.
func (m *RosterViewModel) rebuildList() {
	m.list.SetItems(m.records)
	m.list.SetSelected(0)
}

func (m *RosterViewModel) listHeight() int {
	return max(m.height-rosterChromeHeight, minHeight)
}

// State returns the current view state.
func (m *RosterViewModel) State() ViewState {
	return m.state
}

// Records returns the filtered, sorted records on display.
func (m *RosterViewModel) Records() []roster.Record {
	return m.records
}

// Summary returns counts over the displayed records.
func (m *RosterViewModel) Summary() *roster.Summary {
	return m.summary
}

// SortBy returns the active sort field.
func (m *RosterViewModel) SortBy() roster.SortField {
	return m.sortBy
}

// List returns the underlying list component.
func (m *RosterViewModel) List() *listview.Model[roster.Record] {
	return m.list
}

// Err returns the load error, if any.
func (m *RosterViewModel) Err() error {
	return m.err
}

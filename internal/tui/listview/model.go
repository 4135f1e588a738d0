package listview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/rollcall/internal/cache"
	"github.com/rshade/rollcall/internal/window"
)

const (
	// rowExtent is the height of one list row; offsets are measured in rows.
	rowExtent = 1

	// wheelRows is how far one mouse wheel notch scrolls.
	wheelRows = 3
)

// RenderFunc renders one item. selected is true for the highlighted row.
type RenderFunc[T any] func(item T, selected bool) string

// rowKey identifies a rendered row in the cache.
type rowKey struct {
	index    int
	selected bool
}

// Option customizes a Model.
type Option func(*options)

type options struct {
	overscan int
	keys     KeyMap
	cache    cache.Options
}

// WithOverscan sets how many rows beyond the viewport are pre-rendered on each side.
func WithOverscan(rows int) Option {
	return func(o *options) { o.overscan = max(rows, 0) }
}

// WithKeyMap replaces the navigation bindings.
func WithKeyMap(km KeyMap) Option {
	return func(o *options) { o.keys = km }
}

// WithRowCache configures the rendered-row cache.
func WithRowCache(opts cache.Options) Option {
	return func(o *options) { o.cache = opts }
}

// Model is a virtually scrolled list. Only rows inside the current window are
// rendered; the selection is always kept fully on screen.
type Model[T any] struct {
	items  []T
	render RenderFunc[T]
	keys   KeyMap

	tracker *window.Tracker
	rows    *cache.Store[rowKey, string]

	selected int
	height   int
	width    int
}

// NewModel creates a list showing items in a viewport of height rows.
// A non-positive height is treated as one row until the first resize.
func NewModel[T any](items []T, height, width int, render RenderFunc[T], opts ...Option) *Model[T] {
	o := options{
		overscan: window.DefaultOverscan,
		keys:     DefaultKeyMap(),
		cache:    cache.Options{Enabled: true, MaxEntries: cache.DefaultMaxEntries},
	}
	for _, opt := range opts {
		opt(&o)
	}

	height = max(height, 1)
	engine := window.MustEngine(window.Config{
		ItemExtent:     rowExtent,
		ViewportExtent: float64(height),
		Overscan:       o.overscan,
	})
	// Item count is never negative here, so NewTracker cannot fail.
	tracker, _ := window.NewTracker(engine, len(items))

	rows, err := cache.NewStore[rowKey, string](o.cache)
	if err != nil {
		rows, _ = cache.NewStore[rowKey, string](cache.Options{})
	}

	return &Model[T]{
		items:   items,
		render:  render,
		keys:    o.keys,
		tracker: tracker,
		rows:    rows,
		height:  height,
		width:   width,
	}
}

// Init initializes the model (required for tea.Model interface).
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys, mouse wheel and resize messages.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKeyMsg(msg)
	case tea.MouseMsg:
		m.handleMouseMsg(msg)
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

func (m *Model[T]) handleKeyMsg(msg tea.KeyMsg) {
	if len(m.items) == 0 {
		return
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.SetSelected(m.selected - 1)
	case key.Matches(msg, m.keys.Down):
		m.SetSelected(m.selected + 1)
	case key.Matches(msg, m.keys.PageUp):
		m.SetSelected(m.selected - m.height)
	case key.Matches(msg, m.keys.PageDown):
		m.SetSelected(m.selected + m.height)
	case key.Matches(msg, m.keys.Home):
		m.SetSelected(0)
	case key.Matches(msg, m.keys.End):
		m.SetSelected(len(m.items) - 1)
	}
}

// handleMouseMsg scrolls the view without moving the selection.
//
//nolint:exhaustive // Only wheel events scroll.
func (m *Model[T]) handleMouseMsg(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.tracker.ScrollBy(-wheelRows * rowExtent)
	case tea.MouseButtonWheelDown:
		m.tracker.ScrollBy(wheelRows * rowExtent)
	}
}

// View renders the rows currently in the viewport. Overscan rows are rendered
// into the cache but not emitted.
func (m *Model[T]) View() string {
	w := m.tracker.Current()
	if w.Empty() {
		return ""
	}

	from, to := m.VisibleFrom(), m.VisibleTo()
	var sb strings.Builder
	for i := range w.Indices() {
		line := m.row(i)
		if i < from || i >= to {
			continue
		}
		if i > from {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}

	m.rows.Prune(func(k rowKey) bool { return w.Contains(k.index) })
	return sb.String()
}

// row returns the rendered line for index, from the cache when possible.
func (m *Model[T]) row(index int) string {
	selected := index == m.selected
	return m.rows.GetOrCompute(rowKey{index: index, selected: selected}, func() string {
		return m.render(m.items[index], selected)
	})
}

// SetSize updates the viewport. A width change invalidates rendered rows.
func (m *Model[T]) SetSize(width, height int) {
	height = max(height, 1)
	if width != m.width {
		m.rows.Clear()
	}
	m.width = width
	m.height = height
	// height is a positive integer, which always makes a valid viewport.
	_ = m.tracker.Resize(float64(height))
	m.tracker.EnsureVisible(m.selected)
}

// SetItems replaces the list contents, keeping the selection index in range.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.rows.Clear()
	_ = m.tracker.SetItemCount(len(items))
	m.SetSelected(m.selected)
}

// SetSelected moves the selection, capped to valid bounds, and scrolls it into view.
func (m *Model[T]) SetSelected(index int) {
	if len(m.items) == 0 {
		m.selected = 0
		return
	}
	m.selected = min(max(index, 0), len(m.items)-1)
	m.tracker.EnsureVisible(m.selected)
}

// ItemCount returns the total number of items in the list.
func (m *Model[T]) ItemCount() int {
	return len(m.items)
}

// Selected returns the currently selected item index.
func (m *Model[T]) Selected() int {
	return m.selected
}

// GetSelectedItem returns the currently selected item, or nil if the list is empty.
func (m *Model[T]) GetSelectedItem() *T {
	if len(m.items) == 0 || m.selected < 0 || m.selected >= len(m.items) {
		return nil
	}
	return &m.items[m.selected]
}

// VisibleFrom returns the first row on screen (inclusive).
func (m *Model[T]) VisibleFrom() int {
	if len(m.items) == 0 {
		return 0
	}
	return int(m.tracker.Offset() / rowExtent)
}

// VisibleTo returns the row after the last one on screen (exclusive).
func (m *Model[T]) VisibleTo() int {
	return min(m.VisibleFrom()+m.height, len(m.items))
}

// Window returns the materialized window, overscan included.
func (m *Model[T]) Window() window.Window {
	return m.tracker.Current()
}

// Meta returns scroll position metadata for a status line.
func (m *Model[T]) Meta() window.Meta {
	return m.tracker.Meta()
}

// CachedRows returns how many rendered rows are held.
func (m *Model[T]) CachedRows() int {
	return m.rows.Len()
}

// Keys returns the active bindings, for help rendering.
func (m *Model[T]) Keys() KeyMap {
	return m.keys
}

// Height returns the viewport height.
func (m *Model[T]) Height() int {
	return m.height
}

// Width returns the viewport width.
func (m *Model[T]) Width() int {
	return m.width
}

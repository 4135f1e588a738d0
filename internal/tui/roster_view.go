package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/rollcall/internal/roster"
)

// Table column widths.
const (
	colWidthID    = 9
	colWidthName  = 24
	colWidthRole  = 8
	colWidthClass = 10
	colWidthEmail = 36
)

// formatCount renders n with thousands separators ("12,345").
func formatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= len(truncateSuffix) {
		return s[:width]
	}
	return s[:width-len(truncateSuffix)] + truncateSuffix
}

func formatRow(id, name, role, class, email string) string {
	return fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s",
		colWidthID, truncate(id, colWidthID),
		colWidthName, truncate(name, colWidthName),
		colWidthRole, truncate(role, colWidthRole),
		colWidthClass, truncate(class, colWidthClass),
		colWidthEmail, truncate(email, colWidthEmail),
	)
}

// renderRecord formats a single record for list display.
func renderRecord(r roster.Record, selected bool) string {
	row := formatRow(r.ID, r.Name, string(r.Role), r.Class, r.Email)
	if selected {
		return SelectedStyle.Render(row)
	}
	return row
}

// View renders the current view.
func (m *RosterViewModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateError:
		return ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	case ViewStateLoading:
		return RenderLoading(m.loading)
	case ViewStateDetail:
		if r := m.list.GetSelectedItem(); r != nil {
			return RenderRecordDetail(*r, m.width)
		}
		return "No record selected."
	case ViewStateList:
		return m.renderListView()
	default:
		return ""
	}
}

func (m *RosterViewModel) renderListView() string {
	sections := []string{
		RenderRosterSummary(m.summary, m.width),
		TableHeaderStyle.Render(formatRow("ID", "Name", "Role", "Class", "Email")),
	}

	if len(m.records) == 0 {
		sections = append(sections, InfoStyle.Render("No records match the filter."))
	} else {
		sections = append(sections, m.list.View())
	}

	sections = append(sections, m.renderStatusLine())
	if m.showFilter {
		sections = append(sections, LabelStyle.Render("Filter: ")+m.textInput.View())
	}
	if m.status != "" {
		sections = append(sections, InfoStyle.Render(m.status))
	}
	sections = append(sections,
		SubtleStyle.Render("[/] Filter  [s] Sort  [e] Export  [↑↓/jk] Navigate  [Enter] Details  [q] Quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatusLine shows the visible rows, page and sort field.
func (m *RosterViewModel) renderStatusLine() string {
	meta := m.list.Meta()
	if meta.FirstVisible < 0 {
		return SubtleStyle.Render(fmt.Sprintf("0 records · sort: %s", m.sortBy))
	}

	status := fmt.Sprintf("Rows %s–%s of %s · page %d/%d · %.0f%% · sort: %s",
		formatCount(m.list.VisibleFrom()+1),
		formatCount(m.list.VisibleTo()),
		formatCount(m.list.ItemCount()),
		meta.CurrentPage, meta.TotalPages,
		meta.PercentScrolled,
		m.sortBy,
	)
	if q := m.textInput.Value(); q != "" && !m.showFilter {
		status += fmt.Sprintf(" · filter: %q", q)
	}
	return SubtleStyle.Render(status)
}

// RenderRosterSummary renders the stat cards for a roster summary.
func RenderRosterSummary(summary *roster.Summary, width int) string {
	if summary == nil {
		return InfoStyle.Render("No roster loaded.")
	}

	ratio := "n/a"
	if spt := summary.StudentsPerTeacher(); spt > 0 {
		ratio = message.NewPrinter(language.English).Sprintf("%.1f", spt)
	}

	largest := "n/a"
	if class, n := summary.LargestClass(); n > 0 {
		largest = fmt.Sprintf("%s (%s)", class, formatCount(n))
	}

	cards := []string{
		statCard("Total", formatCount(summary.Total)),
		statCard("Students", formatCount(summary.ByRole[roster.RoleStudent])),
		statCard("Teachers", formatCount(summary.ByRole[roster.RoleTeacher])),
		statCard("Admins", formatCount(summary.ByRole[roster.RoleAdmin])),
		statCard("Per teacher", ratio),
		statCard("Largest class", largest),
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if width > 0 && lipgloss.Width(row) > width {
		// Too narrow for one row of cards: stack them in two rows.
		half := len(cards) / 2
		row = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[:half]...),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[half:]...),
		)
	}
	return row
}

func statCard(label, value string) string {
	return CardStyle.Render(LabelStyle.Render(label) + "\n" + ValueStyle.Render(value))
}

// RenderRecordDetail renders a detailed view of a single record.
func RenderRecordDetail(r roster.Record, width int) string {
	var content strings.Builder
	content.WriteString(HeaderStyle.Render("ROSTER RECORD"))
	content.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			value = "—"
		}
		content.WriteString(LabelStyle.Render(fmt.Sprintf("%-7s", label+":")))
		content.WriteString(" ")
		content.WriteString(ValueStyle.Render(value))
		content.WriteString("\n")
	}
	field("ID", r.ID)
	field("Name", r.Name)
	field("Role", string(r.Role))
	field("Class", r.Class)
	field("Email", r.Email)

	content.WriteString(SubtleStyle.Render("\n[Esc] Back to list  [q] Quit"))

	return BoxStyle.Width(max(width-borderPadding, 0)).Render(content.String())
}

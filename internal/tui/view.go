package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/timetable/internal/dateutil"
	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/llm"
	"github.com/javiermolinar/timetable/internal/scheduler"
	"github.com/javiermolinar/timetable/internal/session"
)

const (
	fallbackWidth  = 80
	fallbackHeight = 30
)

// View renders the grid and, when a modal is open, the modal over it.
func (m Model) View() string {
	width, height := m.width, m.height
	if width <= 0 || height <= 0 {
		width, height = fallbackWidth, fallbackHeight
	}

	base := m.renderApp(width)
	modal := m.renderModal()
	if modal == "" {
		return base
	}

	overlay := m.overlay
	overlay.SetActive(true)
	return overlay.Render(base, width, height, modal)
}

func (m Model) renderApp(width int) string {
	var body string
	if m.machine == nil || m.machine.State() == scheduler.StateIdle {
		body = m.styles.HelpStyle.Render("Grid closed. Press o to open today, q to quit.")
	} else {
		body = m.renderGrid(m.cellWidth(width))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		body,
		"",
		m.renderStatus(),
		m.styles.HelpStyle.Render(m.helpText()),
	)
	return m.styles.AppStyle.Render(content)
}

func (m Model) renderHeader() string {
	parts := []string{m.styles.TitleStyle.Render("Timetable")}
	if m.machine != nil && !m.machine.Anchor().IsZero() {
		parts = append(parts, m.styles.HeaderStyle.Render(dateutil.FormatDay(m.machine.Anchor())))
	}
	if name := m.config.Mentee.Name; name != "" {
		parts = append(parts, m.styles.HeaderStyle.Render(name))
	}
	parts = append(parts, m.styles.BadgeStyle.Render(m.stateName()))
	if m.machine != nil && m.machine.Pending() {
		parts = append(parts, m.styles.HelpStyle.Render(m.machine.PendingOp().String()+"..."))
	}
	return strings.Join(parts, m.styles.HeaderStyle.Render("  "))
}

// cellWidth fits six cells and the hour column into the terminal.
func (m Model) cellWidth(width int) int {
	if m.width <= 0 {
		return defaultCellWidth
	}
	w := (width - 4 - hourColumnWidth) / cellsPerRow
	return min(max(w, minCellWidth), maxCellWidth)
}

// renderGrid draws the planner day as 20 hour rows of six cells.
func (m Model) renderGrid(w int) string {
	sessions := m.machine.Sessions()
	alt := alternating(sessions)

	var rows []string

	header := []string{m.styles.HourStyle.Render("")}
	for c := 0; c < cellsPerRow; c++ {
		header = append(header, m.styles.MinuteHeadStyle.Width(w).Render(fmt.Sprintf(":%02d", c*grid.SlotMinutes)))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for r := 0; r < grid.SlotsPerDay/cellsPerRow; r++ {
		cells := []string{m.styles.HourStyle.Render(grid.SlotID(r * cellsPerRow))}
		for c := 0; c < cellsPerRow; c++ {
			cells = append(cells, m.renderCell(r*cellsPerRow+c, w, alt))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return strings.Join(rows, "\n")
}

func (m Model) renderCell(idx, w int, alt map[int64]bool) string {
	slotID := grid.SlotID(idx)
	state := m.machine.State()

	text := "·"
	style := m.styles.EmptyCellStyle
	if (idx/cellsPerRow)%2 == 1 {
		style = m.styles.EmptyCellAltStyle
	}

	if s, ok := m.sync.SessionAt(slotID); ok {
		start, _ := grid.SlotIndex(s.StartSlot)
		text = labelChunk(s.ContentLabel, idx-start, w)
		style = m.styles.SessionStyle(s.Color, alt[s.ID], !s.HasTask())
	}

	if state == scheduler.StateSelectEnd {
		start, err := grid.SlotIndex(m.machine.Selection().Start)
		if err == nil && idx >= start && idx <= m.cursor {
			style = m.styles.SelectionStyle
			if idx == start {
				style = m.styles.StartMarkStyle
			}
		}
	}

	if idx == m.cursor && m.gridInteractive() {
		style = m.styles.CursorStyle
		if text == "·" {
			text = "▸"
		}
	}

	return style.Width(w).MaxWidth(w).Render(text)
}

// gridInteractive reports whether the cursor is live.
func (m Model) gridInteractive() bool {
	if m.panel != panelNone {
		return false
	}
	switch m.machine.State() {
	case scheduler.StateOverlayOpen, scheduler.StateSelectStart, scheduler.StateSelectEnd:
		return true
	}
	return false
}

// alternating marks sessions that touch a previous session of the same
// color so the two render in different shades.
func alternating(sessions []session.Session) map[int64]bool {
	alt := make(map[int64]bool, len(sessions))
	for i := 1; i < len(sessions); i++ {
		prev, cur := sessions[i-1], sessions[i]
		if prev.EndSlot == cur.StartSlot && prev.Color == cur.Color {
			alt[cur.ID] = !alt[prev.ID]
		}
	}
	return alt
}

// labelChunk returns the part of label shown in the offset-th cell of a
// session, so the label reads continuously across cells.
func labelChunk(label string, offset, w int) string {
	if offset < 0 || w <= 0 {
		return ""
	}
	return ansi.Cut(label, offset*w, (offset+1)*w)
}

func (m Model) renderStatus() string {
	if m.statusMsg == "" || m.now().After(m.statusTime) {
		return m.styles.StatusStyle.Render(" ")
	}
	if m.statusWarn {
		return m.styles.WarningStyle.Render(m.statusMsg)
	}
	return m.styles.StatusStyle.Render(m.statusMsg)
}

func (m Model) helpText() string {
	switch m.panel {
	case panelInit:
		return "enter create  q quit"
	case panelNewTask:
		return "enter add  esc cancel"
	case panelSummary:
		return "c copy  esc close"
	}
	if m.machine == nil {
		return "q quit"
	}
	switch m.machine.State() {
	case scheduler.StateIdle:
		return "o open  q quit"
	case scheduler.StateOverlayOpen:
		return "←↑↓→ move  enter edit  a add session  n new task  [ ] day  t today  s summary  S coach  esc close  q quit"
	case scheduler.StateInputModal:
		return "↑↓ task  ←→ color  enter pick cells  esc cancel"
	case scheduler.StateSelectStart:
		return "←↑↓→ move  enter first cell  esc cancel"
	case scheduler.StateSelectEnd:
		return "←↑↓→ move  enter last cell  esc cancel"
	case scheduler.StateEditModal:
		return "↑↓ task  ←→ color  enter save  d delete  esc cancel"
	}
	return ""
}

// renderModal returns the modal for the current state, or "".
func (m Model) renderModal() string {
	var lines []string
	switch m.panel {
	case panelInit:
		lines = m.initLines()
	case panelNewTask:
		lines = m.newTaskLines()
	case panelSummary:
		lines = m.summaryLines()
	default:
		if m.machine == nil {
			return ""
		}
		switch m.machine.State() {
		case scheduler.StateInputModal:
			lines = m.pickerLines("New study session", "")
		case scheduler.StateEditModal:
			lines = m.editLines()
		default:
			return ""
		}
	}
	return m.styles.ModalStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) pickerLines(title, meta string) []string {
	s := m.styles
	lines := []string{s.ModalTitleStyle.Render(title)}
	if meta != "" {
		lines = append(lines, s.ModalMetaStyle.Render(meta))
	}
	lines = append(lines, "")

	tasks := m.machine.Tasks()
	if len(tasks) == 0 {
		lines = append(lines, s.ModalMetaStyle.Render("No tasks for this day. Press esc, then n to add one."))
		return lines
	}

	for i, t := range tasks {
		label := t.Title
		if t.Subject != "" {
			label = fmt.Sprintf("%s  [%s]", t.Title, t.Subject)
		}
		style := s.ModalItemStyle
		if i == m.pickTask {
			style = s.ModalItemActiveStyle
		}
		lines = append(lines, style.Render(label))
	}

	lines = append(lines, "", m.colorRow())
	return lines
}

func (m Model) colorRow() string {
	var swatches []string
	for i, c := range session.Colors() {
		label := string(c)
		if i == m.pickColor {
			label = "[" + label + "]"
		}
		swatches = append(swatches, m.styles.SwatchStyle(c).Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, swatches...)
}

func (m Model) editLines() []string {
	edit := m.machine.Edit()
	s := edit.Session

	meta := fmt.Sprintf("%s-%s  %s  %s", s.StartSlot, s.EndSlot, s.ContentLabel, llm.FormatDuration(s.Minutes()))
	if !s.HasTask() {
		meta += "  (task deleted)"
	}

	return m.pickerLines("Edit session", meta)
}

func (m Model) newTaskLines() []string {
	anchor := ""
	if m.machine != nil {
		anchor = dateutil.FormatDay(m.machine.Anchor())
	}
	return []string{
		m.styles.ModalTitleStyle.Render("New task for " + anchor),
		"",
		m.taskInput.View(),
	}
}

func (m Model) summaryLines() []string {
	if m.summary == nil {
		return []string{m.styles.ModalMetaStyle.Render("No summary")}
	}
	text := strings.TrimRight(m.summary.Text(), "\n")
	lines := strings.Split(text, "\n")
	out := []string{m.styles.ModalTitleStyle.Render(lines[0])}
	for _, line := range lines[1:] {
		out = append(out, m.styles.ModalBodyStyle.Render(line))
	}
	return out
}

func (m Model) initLines() []string {
	s := m.styles
	lines := []string{s.ModalTitleStyle.Render("Welcome to Timetable"), ""}
	if m.initState.ConfigMissing {
		lines = append(lines, s.ModalBodyStyle.Render("Config will be created at "+m.initState.ConfigPath))
	}
	if m.initState.DBMissing {
		lines = append(lines, s.ModalBodyStyle.Render("Database will be created at "+m.initState.DBPath))
	}
	return lines
}

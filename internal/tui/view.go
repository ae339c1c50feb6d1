package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/box-planner/internal/grid"
	"github.com/kingrea/box-planner/internal/roster"
	"github.com/kingrea/box-planner/internal/store"
)

const (
	baseCellWidth = 24
	baseCellLines = 4
)

// palette holds the colours for one theme preference.
type palette struct {
	accent lipgloss.TerminalColor
	title  lipgloss.TerminalColor
	border lipgloss.TerminalColor
	muted  lipgloss.TerminalColor
	text   lipgloss.TerminalColor
}

var (
	darkPalette = palette{
		accent: lipgloss.Color("#5B8DEF"),
		title:  lipgloss.Color("#FF6B6B"),
		border: lipgloss.Color("#444444"),
		muted:  lipgloss.Color("#888888"),
		text:   lipgloss.Color("#AAAAAA"),
	}
	lightPalette = palette{
		accent: lipgloss.Color("#1F4FBF"),
		title:  lipgloss.Color("#C0392B"),
		border: lipgloss.Color("#BBBBBB"),
		muted:  lipgloss.Color("#666666"),
		text:   lipgloss.Color("#333333"),
	}
	systemPalette = palette{
		accent: lipgloss.AdaptiveColor{Light: "#1F4FBF", Dark: "#5B8DEF"},
		title:  lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"},
		border: lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#444444"},
		muted:  lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"},
		text:   lipgloss.AdaptiveColor{Light: "#333333", Dark: "#AAAAAA"},
	}
)

func paletteFor(theme string) palette {
	switch strings.ToLower(theme) {
	case store.ThemeDark:
		return darkPalette
	case store.ThemeLight:
		return lightPalette
	default:
		return systemPalette
	}
}

// View renders the whole screen.
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	pal := paletteFor(a.session.Settings().ThemePreference)
	width := a.width
	if width <= 0 {
		width = 120
	}
	leftWidth := max(24, width/3)
	rightWidth := width - leftWidth - 4

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(pal.title).
		MarginBottom(1).
		Render("▦ BOX PLANNER")

	leftBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.paneBorder(pal, focusRoster)).
		Padding(0, 1).
		Width(leftWidth).
		Render(a.roster.View())

	var right string
	if a.focus == focusNote {
		right = lipgloss.JoinVertical(lipgloss.Left, a.renderDetails(pal), "", a.editor.View())
	} else {
		right = lipgloss.JoinVertical(lipgloss.Left, a.renderGrid(pal), "", a.renderDetails(pal))
	}
	rightBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.paneBorder(pal, focusGrid)).
		Padding(0, 1).
		Width(max(20, rightWidth)).
		Render(right)

	sections := []string{header, lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)}
	if logPanel := a.renderLogPanel(pal); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(pal.muted).
		MarginTop(1).
		Render(a.statusMsg + "\n" + a.keyHints())
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) paneBorder(pal palette, pane focus) lipgloss.TerminalColor {
	if a.focus == pane || (pane == focusGrid && a.focus == focusNote) {
		return pal.accent
	}
	return pal.border
}

func (a *App) keyHints() string {
	switch a.focus {
	case focusGrid:
		return "arrows move · p/enter place · 1-3 then a-c place directly · esc back · +/- zoom"
	case focusNote:
		return "ctrl+s save · esc close"
	default:
		return "enter select · tab grid · u unplace · n note · +/- zoom · t theme · a auto-save · x export · q quit"
	}
}

// cellSize scales the base cell dimensions by the view scale.
func (a *App) cellSize() (int, int) {
	scale := a.session.ViewScale()
	width := int(math.Round(baseCellWidth * scale))
	lines := int(math.Round(baseCellLines * scale))
	return max(10, width), max(1, lines)
}

func (a *App) renderGrid(pal palette) string {
	cellWidth, cellLines := a.cellSize()
	selected, hasSelection := a.session.Selected()
	rows := make([]string, 0, 3)
	for _, row := range grid.Standard() {
		cells := make([]string, 0, 3)
		for _, box := range row {
			cells = append(cells, a.renderCell(pal, box, cellWidth, cellLines, selected, hasSelection))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	axis := lipgloss.NewStyle().Foreground(pal.muted).
		Render("↑ performance (1 high, 3 low) · → potential (A high, C low)")
	return lipgloss.JoinVertical(lipgloss.Left, append(rows, axis)...)
}

func (a *App) renderCell(pal palette, box grid.Box, width, lines int, selected roster.Employee, hasSelection bool) string {
	occupants := a.session.Occupants(box.Cell)
	head := lipgloss.NewStyle().Bold(true).Foreground(pal.accent).
		Render(truncate(fmt.Sprintf("%s %s", box.Cell, box.Label), width-2))
	body := make([]string, 0, lines)
	for i, emp := range occupants {
		if i == lines-1 && len(occupants) > lines {
			body = append(body, lipgloss.NewStyle().Foreground(pal.muted).
				Render(fmt.Sprintf("+%d more", len(occupants)-i)))
			break
		}
		style := lipgloss.NewStyle().Foreground(pal.text)
		if color, ok := a.session.DepartmentColor(emp); ok {
			style = style.Foreground(lipgloss.Color(color))
		}
		if hasSelection && emp.UserID == selected.UserID {
			style = style.Bold(true).Underline(true)
		}
		body = append(body, style.Render(truncate(emp.DisplayName(), width-2)))
	}
	for len(body) < lines {
		body = append(body, "")
	}

	border := pal.border
	if a.focus == focusGrid && a.cursorCell() == box.Cell {
		border = pal.accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width).
		Render(head + "\n" + strings.Join(body, "\n"))
}

func (a *App) renderDetails(pal palette) string {
	emp, ok := a.session.Selected()
	if !ok {
		emp, ok = a.highlighted()
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(pal.accent).Render("Details")
	if !ok {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			lipgloss.NewStyle().Foreground(pal.muted).Render("No employee highlighted."))
	}
	cell := "unplaced"
	if c, placed := a.session.CellOf(emp.UserID); placed {
		cell = string(c)
		if box, ok := grid.Lookup(c); ok {
			cell = fmt.Sprintf("%s · %s", c, box.Label)
		}
	}
	note, _, _ := a.session.Note(emp.UserID)
	if first, _, found := strings.Cut(note, "\n"); found {
		note = first + " …"
	}
	rows := [][2]string{
		{"Name", emp.DisplayName()},
		{"ID", emp.UserID},
		{"Position", emp.CurrentPosition},
		{"Temp position", emp.CurrentTempPosition.Or("-")},
		{"PR group", emp.PRGroup2025},
		{"PR 2024", ratingText(emp.PR2024)},
		{"9-Box 2024", emp.User9Box2024.Or("-")},
		{"Department", emp.Department.Or("-")},
		{"Cell", cell},
		{"Notes", orDash(note)},
	}
	label := lipgloss.NewStyle().Foreground(pal.muted).Width(14)
	value := lipgloss.NewStyle().Foreground(pal.text)
	lines := []string{title}
	for _, row := range rows {
		lines = append(lines, label.Render(row[0])+value.Render(row[1]))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderLogPanel(pal palette) string {
	if a.journal == nil {
		return ""
	}
	lines, total := a.journal.Tail(journalLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.journal.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(pal.accent).
		Render(fmt.Sprintf("LOG · %s (%d)", fileName, total))
	body := lipgloss.NewStyle().
		Foreground(pal.text).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(pal.border).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

func ratingText(v roster.OptFloat) string {
	if !v.Present() {
		return "-"
	}
	return v.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// internal/tui/app.go
//
// This is the planner TUI. It follows The Elm Architecture like any
// bubbletea program:
//
// 1. Model: App, which wraps a session.Session
// 2. Update: key presses become session operations
// 3. View: roster list, 3x3 grid, details and the journal tail
//
// All session mutation happens inside Update, so the session needs no locks.

package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/kingrea/box-planner/internal/config"
	"github.com/kingrea/box-planner/internal/grid"
	"github.com/kingrea/box-planner/internal/logbook"
	"github.com/kingrea/box-planner/internal/logging"
	"github.com/kingrea/box-planner/internal/roster"
	"github.com/kingrea/box-planner/internal/session"
	"github.com/kingrea/box-planner/internal/store"
)

// focus says which pane receives navigation keys.
type focus int

const (
	focusRoster focus = iota // roster list
	focusGrid                // grid cursor, placing the selected employee
	focusNote                // note editor
)

const journalLines = 6

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithSession injects a prepared session instead of opening one from config.
func WithSession(s *session.Session) AppOption {
	return func(a *App) {
		if s != nil {
			a.session = s
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) AppOption {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithJournal sets the logbook shown in the log panel.
func WithJournal(book *logbook.Logbook) AppOption {
	return func(a *App) {
		a.journal = book
	}
}

// WithExportPath overrides where the export key writes the roster.
func WithExportPath(path string) AppOption {
	return func(a *App) {
		a.exportPath = path
	}
}

// App is the main application model.
type App struct {
	session    *session.Session
	journal    *logbook.Logbook
	logger     *slog.Logger
	exportPath string
	runID      string

	focus    focus
	roster   list.Model
	editor   textarea.Model
	noteFor  string
	cursor   [2]int
	pendRow  int
	quitting bool

	statusMsg string
	width     int
	height    int
}

// employeeItem implements list.Item for roster rows.
type employeeItem struct {
	emp  roster.Employee
	cell grid.Cell
}

func (i employeeItem) Title() string { return i.emp.DisplayName() }

func (i employeeItem) Description() string {
	parts := []string{i.emp.UserID, i.emp.CurrentPosition}
	if i.cell != "" {
		parts = append(parts, "in "+string(i.cell))
	} else {
		parts = append(parts, "unplaced")
	}
	return strings.Join(parts, " · ")
}

func (i employeeItem) FilterValue() string { return i.emp.DisplayName() + " " + i.emp.UserID }

// NewApp opens the planner for cfg. Without WithSession it builds file
// stores from cfg, opens a session and loads the configured roster.
func NewApp(cfg *config.Config, opts ...AppOption) (*App, error) {
	rosterList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	rosterList.Title = "Roster"
	rosterList.SetShowStatusBar(false)
	rosterList.SetFilteringEnabled(false)
	rosterList.SetShowHelp(false)

	editor := textarea.New()
	editor.Placeholder = "Notes for this employee..."
	editor.ShowLineNumbers = false
	editor.CharLimit = 0

	app := &App{
		logger:  logging.Discard(),
		roster:  rosterList,
		editor:  editor,
		cursor:  [2]int{1, 1},
		pendRow: -1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.runID = uuid.NewString()
	app.logger = app.logger.With("run", app.runID)
	if app.session == nil {
		if cfg == nil {
			return nil, errors.New("tui: config or session required")
		}
		if app.journal == nil {
			if book, err := logbook.New(cfg.JournalPath()); err == nil {
				app.journal = book
			} else {
				app.logger.Warn("journal unavailable", "err", err)
			}
		}
		app.session = session.Open(session.Deps{
			Notes:    store.NewFileNoteStore(cfg.NotesDir()),
			Settings: store.NewFileSettingsStore(cfg.SettingsPath()),
			Journal:  app.journal,
			Logger:   app.logger,
		})
		report := app.session.LoadRoster(cfg.RosterPath())
		app.statusMsg = loadStatus(report)
	}
	if app.exportPath == "" && cfg != nil {
		app.exportPath = cfg.ExportPath()
	}
	app.journal.Info("Session opened · run %s · %d employees from %s", app.runID[:8], len(app.session.Roster()), app.session.Source())
	app.refreshRoster()
	return app, nil
}

func loadStatus(report session.LoadReport) string {
	switch {
	case report.Err != nil:
		return fmt.Sprintf("Could not load %s, showing sample data: %v", report.Path, report.Err)
	case report.Sample:
		return fmt.Sprintf("%s has no employees, showing sample data", report.Path)
	default:
		return fmt.Sprintf("Loaded %d employees (%d placed)", report.Loaded, report.Placed)
	}
}

// Session exposes the underlying session.
func (a *App) Session() *session.Session { return a.session }

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.quitting = true
			return a, tea.Quit
		}
		switch a.focus {
		case focusNote:
			return a.updateNote(msg)
		case focusGrid:
			return a.updateGrid(msg)
		default:
			if model, cmd, handled := a.updateRosterKeys(msg); handled {
				return model, cmd
			}
		}
	}

	if a.focus == focusNote {
		var cmd tea.Cmd
		a.editor, cmd = a.editor.Update(msg)
		return a, cmd
	}
	var cmd tea.Cmd
	a.roster, cmd = a.roster.Update(msg)
	return a, cmd
}

func (a *App) updateRosterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		a.quitting = true
		return a, tea.Quit, true
	case "enter":
		a.selectHighlighted()
		return a, nil, true
	case "tab":
		a.focus = focusGrid
		a.statusMsg = "Browsing the grid"
		return a, nil, true
	case "u":
		a.unplaceHighlighted()
		return a, nil, true
	case "n":
		return a, a.openNote(), true
	case "+", "=":
		a.zoom(a.session.ZoomIn)
		return a, nil, true
	case "-", "_":
		a.zoom(a.session.ZoomOut)
		return a, nil, true
	case "t":
		a.cycleTheme()
		return a, nil, true
	case "a":
		a.toggleAutoSave()
		return a, nil, true
	case "x":
		a.export()
		return a, nil, true
	}
	return a, nil, false
}

func (a *App) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		a.quitting = true
		return a, tea.Quit
	case "esc", "tab":
		a.leaveGrid()
		return a, nil
	case "up", "k":
		a.moveCursor(-1, 0)
	case "down", "j":
		a.moveCursor(1, 0)
	case "left", "h":
		a.moveCursor(0, -1)
	case "right", "l":
		a.moveCursor(0, 1)
	case "enter", "p":
		a.placeAtCursor()
	case "1", "2", "3":
		a.pendRow = int(key[0] - '1')
		a.statusMsg = fmt.Sprintf("Row %s, now press a, b or c", key)
	case "a", "b", "c":
		if a.pendRow < 0 {
			a.statusMsg = "Type the row (1-3) before the column"
			return a, nil
		}
		a.cursor = [2]int{a.pendRow, int(key[0] - 'a')}
		a.pendRow = -1
		a.placeAtCursor()
	case "+", "=":
		a.zoom(a.session.ZoomIn)
	case "-", "_":
		a.zoom(a.session.ZoomOut)
	}
	return a, nil
}

func (a *App) updateNote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		a.saveNote()
		a.closeNote()
		return a, nil
	case "esc":
		if a.session.Settings().AutoSaveEnabled {
			a.saveNote()
		} else {
			a.statusMsg = "Note discarded"
		}
		a.closeNote()
		return a, nil
	}
	var cmd tea.Cmd
	a.editor, cmd = a.editor.Update(msg)
	return a, cmd
}

func (a *App) highlighted() (roster.Employee, bool) {
	item, ok := a.roster.SelectedItem().(employeeItem)
	if !ok {
		return roster.Employee{}, false
	}
	return item.emp, true
}

func (a *App) selectHighlighted() {
	emp, ok := a.highlighted()
	if !ok {
		a.statusMsg = "Roster is empty"
		return
	}
	if err := a.session.Select(emp.UserID); err != nil {
		a.statusMsg = err.Error()
		return
	}
	if cell, placed := a.session.CellOf(emp.UserID); placed {
		if box, ok := grid.Lookup(cell); ok {
			a.cursor = [2]int{box.Row, box.Col}
		}
	}
	a.focus = focusGrid
	a.pendRow = -1
	a.statusMsg = fmt.Sprintf("Placing %s: arrows + p, or type a cell like 2b", emp.DisplayName())
}

func (a *App) leaveGrid() {
	a.session.ClearSelection()
	a.focus = focusRoster
	a.pendRow = -1
	a.statusMsg = ""
}

func (a *App) moveCursor(dr, dc int) {
	a.pendRow = -1
	a.cursor[0] = clamp(a.cursor[0]+dr, 0, 2)
	a.cursor[1] = clamp(a.cursor[1]+dc, 0, 2)
}

func (a *App) cursorCell() grid.Cell {
	box, _ := grid.At(a.cursor[0], a.cursor[1])
	return box.Cell
}

func (a *App) placeAtCursor() {
	cell := a.cursorCell()
	emp, err := a.session.PlaceSelected(cell)
	if errors.Is(err, session.ErrNoSelection) {
		a.statusMsg = "Select an employee with enter first"
		return
	}
	if err != nil {
		a.statusMsg = err.Error()
		return
	}
	box, _ := grid.Lookup(cell)
	a.statusMsg = fmt.Sprintf("Placed %s in %s (%s)", emp.DisplayName(), cell, box.Label)
	a.focus = focusRoster
	a.refreshRoster()
}

func (a *App) unplaceHighlighted() {
	emp, ok := a.highlighted()
	if !ok {
		return
	}
	cell, placed := a.session.CellOf(emp.UserID)
	if !placed {
		a.statusMsg = fmt.Sprintf("%s is not placed", emp.DisplayName())
		return
	}
	a.session.Unplace(emp.UserID)
	a.statusMsg = fmt.Sprintf("Removed %s from %s", emp.DisplayName(), cell)
	a.refreshRoster()
}

func (a *App) openNote() tea.Cmd {
	emp, ok := a.highlighted()
	if !ok {
		return nil
	}
	text, _, err := a.session.Note(emp.UserID)
	if err != nil {
		// Keep the editor closed so a save cannot replace the unread note.
		a.statusMsg = fmt.Sprintf("Could not read note: %v", err)
		return nil
	}
	a.noteFor = emp.UserID
	a.editor.SetValue(text)
	a.focus = focusNote
	a.statusMsg = fmt.Sprintf("Editing note for %s · ctrl+s save · esc close", emp.DisplayName())
	return a.editor.Focus()
}

func (a *App) saveNote() {
	if a.noteFor == "" {
		return
	}
	if err := a.session.SaveNote(a.noteFor, a.editor.Value()); err != nil {
		a.statusMsg = fmt.Sprintf("Save failed: %v", err)
		return
	}
	a.statusMsg = fmt.Sprintf("Saved note for %s", a.noteFor)
}

func (a *App) closeNote() {
	a.editor.Blur()
	a.editor.Reset()
	a.noteFor = ""
	a.focus = focusRoster
}

func (a *App) zoom(step func() error) {
	if err := step(); err != nil {
		a.statusMsg = fmt.Sprintf("Settings not saved: %v", err)
		return
	}
	a.statusMsg = fmt.Sprintf("View scale %.1fx", a.session.ViewScale())
	a.resize()
}

func (a *App) cycleTheme() {
	theme, err := a.session.CycleTheme()
	if err != nil {
		a.statusMsg = fmt.Sprintf("Settings not saved: %v", err)
		return
	}
	a.statusMsg = "Theme: " + theme
}

func (a *App) toggleAutoSave() {
	enabled := !a.session.Settings().AutoSaveEnabled
	if err := a.session.SetAutoSave(enabled); err != nil {
		a.statusMsg = fmt.Sprintf("Settings not saved: %v", err)
		return
	}
	if enabled {
		a.statusMsg = "Auto-save on: esc saves notes"
	} else {
		a.statusMsg = "Auto-save off: esc discards notes"
	}
}

func (a *App) export() {
	if a.exportPath == "" {
		a.statusMsg = "No export path configured"
		return
	}
	if err := a.session.ExportRoster(a.exportPath); err != nil {
		a.statusMsg = fmt.Sprintf("Export failed: %v", err)
		return
	}
	a.statusMsg = "Exported roster to " + a.exportPath
}

// refreshRoster rebuilds list items, keeping the highlighted row.
func (a *App) refreshRoster() {
	idx := a.roster.Index()
	employees := a.session.Roster()
	items := make([]list.Item, len(employees))
	for i, emp := range employees {
		cell, _ := a.session.CellOf(emp.UserID)
		items[i] = employeeItem{emp: emp, cell: cell}
	}
	a.roster.SetItems(items)
	if len(items) > 0 {
		a.roster.Select(clamp(idx, 0, len(items)-1))
	}
}

func (a *App) resize() {
	if a.width <= 0 {
		return
	}
	leftWidth := max(24, a.width/3)
	a.roster.SetSize(max(20, leftWidth-4), max(6, a.height-journalLines-10))
	a.editor.SetWidth(max(20, a.width-leftWidth-8))
	a.editor.SetHeight(max(3, a.height/4))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

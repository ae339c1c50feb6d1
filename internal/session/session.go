// Package session is the explicit context every planner operation runs
// against: the loaded roster, the grid placements, the current selection and
// the user's settings, plus the stores they persist through.
//
// A Session is single-threaded. The TUI only touches it from Update.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kingrea/box-planner/internal/grid"
	"github.com/kingrea/box-planner/internal/logbook"
	"github.com/kingrea/box-planner/internal/logging"
	"github.com/kingrea/box-planner/internal/roster"
	"github.com/kingrea/box-planner/internal/store"
)

var (
	// ErrUnknownEmployee is returned for ids that are not in the roster.
	ErrUnknownEmployee = errors.New("session: unknown employee")
	// ErrNoSelection is returned by PlaceSelected with nothing selected.
	ErrNoSelection = errors.New("session: no employee selected")
)

// Deps are the collaborators a Session persists and reports through. Nil
// stores fall back to in-memory ones; a nil journal is silent.
type Deps struct {
	Notes    store.NoteStore
	Settings store.SettingsStore
	Journal  *logbook.Logbook
	Logger   *slog.Logger
}

// Session holds all mutable planner state.
type Session struct {
	employees []roster.Employee
	byID      map[string]int
	source    string

	grid     *grid.Engine
	selected string

	settings      store.AppSettings
	notes         store.NoteStore
	settingsStore store.SettingsStore
	journal       *logbook.Logbook
	logger        *slog.Logger
}

// Open loads settings and returns an empty session. Unreadable settings are
// logged and replaced by defaults; the broken document is left on disk.
func Open(deps Deps) *Session {
	s := &Session{
		byID:          map[string]int{},
		grid:          grid.New(),
		notes:         deps.Notes,
		settingsStore: deps.Settings,
		journal:       deps.Journal,
		logger:        deps.Logger,
	}
	if s.notes == nil {
		s.notes = store.NewMemoryNoteStore()
	}
	if s.settingsStore == nil {
		s.settingsStore = store.NewMemorySettingsStore()
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}

	settings, err := s.settingsStore.GetSettings()
	if err != nil {
		s.logger.Warn("settings unavailable, using defaults", "err", err)
		s.journal.Warn("Settings · load failed, using defaults: %v", err)
		s.settings = store.DefaultSettings()
		return s
	}
	s.settings = settings
	if settings.ViewScale == nil {
		s.logger.Info("view scale not set, storing default", "scale", store.DefaultViewScale)
		s.settings = settings.WithScale(store.DefaultViewScale)
		_ = s.persistSettings()
	}
	return s
}

// Roster returns a copy of the employees in file order.
func (s *Session) Roster() []roster.Employee {
	out := make([]roster.Employee, len(s.employees))
	copy(out, s.employees)
	return out
}

// Source describes where the roster came from (a path, or "sample").
func (s *Session) Source() string { return s.source }

// Employee looks up id. With duplicate ids the first row wins.
func (s *Session) Employee(id string) (roster.Employee, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return roster.Employee{}, false
	}
	return s.employees[idx], true
}

// SetRoster replaces the roster and clears placements and selection.
func (s *Session) SetRoster(employees []roster.Employee, source string) {
	s.employees = append([]roster.Employee(nil), employees...)
	s.byID = make(map[string]int, len(employees))
	for i, emp := range s.employees {
		if _, dup := s.byID[emp.UserID]; dup {
			s.logger.Warn("duplicate user id in roster", "id", emp.UserID, "row", i+1)
			continue
		}
		s.byID[emp.UserID] = i
	}
	s.source = source
	s.grid = grid.New()
	s.selected = ""
	s.logger.Info("roster set", "source", source, "employees", len(employees))
}

// LoadReport summarises LoadRoster.
type LoadReport struct {
	Path   string
	Loaded int
	Sample bool
	Placed int
	Err    error
}

// LoadRoster decodes path and seeds placements from the 9-box labels. When
// the file cannot be decoded or holds no rows, the sample roster is used
// instead and the report says so.
func (s *Session) LoadRoster(path string) LoadReport {
	report := LoadReport{Path: path}
	employees, err := roster.DecodeFile(path)
	switch {
	case err != nil:
		report.Err = err
		s.logger.Warn("roster load failed, using sample", "path", path, "err", err)
		s.journal.Warn("Roster · %s unreadable, using sample data: %v", path, err)
	case len(employees) == 0:
		s.logger.Warn("roster empty, using sample", "path", path)
		s.journal.Warn("Roster · %s has no rows, using sample data", path)
	}
	if err != nil || len(employees) == 0 {
		report.Sample = true
		s.SetRoster(roster.Sample(), "sample")
	} else {
		s.SetRoster(employees, path)
		s.journal.Info("Roster · loaded %d employees from %s", len(employees), path)
	}
	report.Loaded = len(s.employees)
	report.Placed = s.SeedFromLabels()
	return report
}

// SeedFromLabels places every employee whose 2025 label (or, failing that,
// 2024 label) is a standard cell code. It returns the number placed.
func (s *Session) SeedFromLabels() int {
	placed := 0
	for i, emp := range s.employees {
		if s.byID[emp.UserID] != i {
			continue
		}
		label, ok := emp.User9Box2025.Get()
		if !ok {
			label, ok = emp.User9Box2024.Get()
		}
		if !ok {
			continue
		}
		cell, err := grid.ParseCell(label)
		if err != nil {
			continue
		}
		s.grid.Assign(emp.UserID, cell)
		placed++
	}
	return placed
}

// ExportRoster writes the roster to path; the extension picks CSV or XLSX.
func (s *Session) ExportRoster(path string) error {
	if err := roster.EncodeFile(path, s.employees); err != nil {
		s.journal.Error("Roster · export to %s failed: %v", path, err)
		return err
	}
	s.journal.Info("Roster · exported %d employees to %s", len(s.employees), path)
	return nil
}

// Select marks id as the employee the next PlaceSelected applies to.
func (s *Session) Select(id string) error {
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEmployee, id)
	}
	s.selected = id
	return nil
}

// Selected returns the selected employee, if any.
func (s *Session) Selected() (roster.Employee, bool) {
	if s.selected == "" {
		return roster.Employee{}, false
	}
	return s.Employee(s.selected)
}

// ClearSelection drops the current selection.
func (s *Session) ClearSelection() { s.selected = "" }

// PlaceSelected assigns the selected employee to cell and clears the
// selection.
func (s *Session) PlaceSelected(cell grid.Cell) (roster.Employee, error) {
	emp, ok := s.Selected()
	if !ok {
		return roster.Employee{}, ErrNoSelection
	}
	if err := s.Place(emp.UserID, cell); err != nil {
		return roster.Employee{}, err
	}
	s.selected = ""
	return emp, nil
}

// Place assigns id to cell, moving it out of any previous cell.
func (s *Session) Place(id string, cell grid.Cell) error {
	emp, ok := s.Employee(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEmployee, id)
	}
	from, _ := s.grid.CellOf(id)
	s.grid.Assign(id, cell)
	s.journal.Placement(id, emp.DisplayName(), string(from), string(cell))
	s.logger.Debug("placed", "id", id, "from", from, "to", cell)
	return nil
}

// Unplace removes id from the grid. Unplaced ids are ignored.
func (s *Session) Unplace(id string) {
	from, ok := s.grid.CellOf(id)
	if !ok {
		return
	}
	s.grid.Unassign(id)
	name := id
	if emp, ok := s.Employee(id); ok {
		name = emp.DisplayName()
	}
	s.journal.Placement(id, name, string(from), "")
}

// CellOf reports where id is placed.
func (s *Session) CellOf(id string) (grid.Cell, bool) {
	return s.grid.CellOf(id)
}

// Occupants returns the employees in cell in placement order.
func (s *Session) Occupants(cell grid.Cell) []roster.Employee {
	ids := s.grid.OccupantsOf(cell)
	out := make([]roster.Employee, 0, len(ids))
	for _, id := range ids {
		if emp, ok := s.Employee(id); ok {
			out = append(out, emp)
		}
	}
	return out
}

// Placements returns a copy of the grid mapping.
func (s *Session) Placements() map[grid.Cell][]string {
	return s.grid.Snapshot()
}

// Unplaced returns roster employees with no cell, in roster order.
func (s *Session) Unplaced() []roster.Employee {
	var out []roster.Employee
	for i, emp := range s.employees {
		if s.byID[emp.UserID] != i {
			continue
		}
		if _, ok := s.grid.CellOf(emp.UserID); !ok {
			out = append(out, emp)
		}
	}
	return out
}

// SaveNote stores text as id's note.
func (s *Session) SaveNote(id, text string) error {
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEmployee, id)
	}
	if err := s.notes.PutNote(id, text); err != nil {
		s.logger.Error("save note failed", "id", id, "err", err)
		s.journal.Error("Notes · save for %s failed: %v", id, err)
		return err
	}
	s.journal.Info("Notes · saved note for %s (%d chars)", id, len([]rune(text)))
	return nil
}

// Note returns id's stored note. When nothing was saved yet, the roster's
// Notes column is offered as the starting text with ok=false.
func (s *Session) Note(id string) (string, bool, error) {
	text, ok, err := s.notes.GetNote(id)
	if err != nil {
		s.logger.Warn("load note failed", "id", id, "err", err)
		return "", false, err
	}
	if ok {
		return text, true, nil
	}
	if emp, found := s.Employee(id); found {
		return emp.Notes.Or(""), false, nil
	}
	return "", false, nil
}

// Settings returns a copy of the current settings.
func (s *Session) Settings() store.AppSettings {
	return s.settings.Clone()
}

// ViewScale returns the current zoom factor.
func (s *Session) ViewScale() float64 {
	return s.settings.Scale()
}

// SetViewScale clamps v to the zoom range and saves it.
func (s *Session) SetViewScale(v float64) error {
	v = store.ClampScale(v)
	if s.settings.ViewScale != nil && *s.settings.ViewScale == v {
		return nil
	}
	s.settings = s.settings.WithScale(v)
	s.journal.Info("Settings · view scale %.1fx", v)
	return s.persistSettings()
}

// ZoomIn and ZoomOut step the view scale.
func (s *Session) ZoomIn() error  { return s.SetViewScale(s.ViewScale() + store.ViewScaleStep) }
func (s *Session) ZoomOut() error { return s.SetViewScale(s.ViewScale() - store.ViewScaleStep) }

// SetTheme stores the theme preference verbatim.
func (s *Session) SetTheme(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("session: theme is required")
	}
	s.settings = s.settings.Clone()
	s.settings.ThemePreference = name
	s.journal.Info("Settings · theme %s", name)
	return s.persistSettings()
}

// CycleTheme advances system → light → dark and returns the new theme.
func (s *Session) CycleTheme() (string, error) {
	next := store.NextTheme(s.settings.ThemePreference)
	return next, s.SetTheme(next)
}

// SetAutoSave toggles saving notes when the editor closes.
func (s *Session) SetAutoSave(enabled bool) error {
	s.settings = s.settings.Clone()
	s.settings.AutoSaveEnabled = enabled
	s.journal.Info("Settings · auto-save %t", enabled)
	return s.persistSettings()
}

// SetDepartmentColor maps a department to a colour like "#FF8800". An
// empty colour removes the mapping.
func (s *Session) SetDepartmentColor(department, color string) error {
	department = strings.TrimSpace(department)
	if department == "" {
		return fmt.Errorf("session: department is required")
	}
	color = strings.TrimSpace(color)
	if color != "" && !isHexColor(color) {
		return fmt.Errorf("session: %q is not a #RGB or #RRGGBB colour", color)
	}
	s.settings = s.settings.Clone()
	if color == "" {
		delete(s.settings.DepartmentColors, department)
	} else {
		s.settings.DepartmentColors[department] = strings.ToUpper(color)
	}
	s.journal.Info("Settings · department %s colour %q", department, color)
	return s.persistSettings()
}

// DepartmentColor returns the colour for an employee's department.
func (s *Session) DepartmentColor(emp roster.Employee) (string, bool) {
	dept, ok := emp.Department.Get()
	if !ok {
		return "", false
	}
	color, ok := s.settings.DepartmentColors[dept]
	return color, ok
}

func (s *Session) persistSettings() error {
	if err := s.settingsStore.PutSettings(s.settings); err != nil {
		s.logger.Error("save settings failed", "err", err)
		s.journal.Error("Settings · save failed: %v", err)
		return err
	}
	return nil
}

func isHexColor(v string) bool {
	if !strings.HasPrefix(v, "#") || (len(v) != 4 && len(v) != 7) {
		return false
	}
	for _, c := range v[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

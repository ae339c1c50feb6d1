package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/box-planner/internal/config"
	"github.com/kingrea/box-planner/internal/grid"
	"github.com/kingrea/box-planner/internal/logbook"
	"github.com/kingrea/box-planner/internal/roster"
	"github.com/kingrea/box-planner/internal/session"
	"github.com/kingrea/box-planner/internal/store"
)

func testRoster() []roster.Employee {
	return []roster.Employee{
		{UserID: "u1", FirstName: "Ada", LastName: "Lovelace", CurrentPosition: "Engineer", User9Box2024: roster.SomeString("1A"), Department: roster.SomeString("Engineering")},
		{UserID: "u2", FirstName: "Alan", LastName: "Turing", CurrentPosition: "Engineer", PR2024: roster.SomeFloat(4)},
	}
}

func newTestApp(t *testing.T, opts ...AppOption) *App {
	t.Helper()
	book, err := logbook.New(filepath.Join(t.TempDir(), "journal.log"))
	if err != nil {
		t.Fatalf("logbook: %v", err)
	}
	sess := session.Open(session.Deps{
		Notes:    store.NewMemoryNoteStore(),
		Settings: store.NewMemorySettingsStore(),
		Journal:  book,
	})
	sess.SetRoster(testRoster(), "test")
	sess.SeedFromLabels()
	baseOpts := []AppOption{WithSession(sess), WithJournal(book)}
	app, err := NewApp(nil, append(baseOpts, opts...)...)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	app = send(t, app, tea.WindowSizeMsg{Width: 140, Height: 48})
	return app
}

func send(t *testing.T, app *App, msgs ...tea.Msg) *App {
	t.Helper()
	for _, msg := range msgs {
		model, _ := app.Update(msg)
		next, ok := model.(*App)
		if !ok {
			t.Fatalf("unexpected model type: %T", model)
		}
		app = next
	}
	return app
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keys(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, runes(string(r)))
	}
	return msgs
}

type unreadableNotes struct {
	puts int
}

func (n *unreadableNotes) PutNote(id, text string) error {
	n.puts++
	return nil
}

func (n *unreadableNotes) GetNote(id string) (string, bool, error) {
	return "", false, errors.New("permission denied")
}

func TestOpenNoteReportsReadFailure(t *testing.T) {
	notes := &unreadableNotes{}
	sess := session.Open(session.Deps{
		Notes:    notes,
		Settings: store.NewMemorySettingsStore(),
	})
	sess.SetRoster(testRoster(), "test")
	app := newTestApp(t, WithSession(sess))

	app = send(t, app, runes("n"))
	if app.focus != focusRoster {
		t.Fatalf("focus = %d, editor should stay closed", app.focus)
	}
	if !strings.Contains(app.statusMsg, "Could not read note") || !strings.Contains(app.statusMsg, "permission denied") {
		t.Fatalf("status = %q", app.statusMsg)
	}
	app = send(t, app, tea.KeyMsg{Type: tea.KeyCtrlS})
	if notes.puts != 0 {
		t.Fatalf("note was written %d times after a failed read", notes.puts)
	}
}

func TestTwoKeyCellEntryPlacesSelected(t *testing.T) {
	app := newTestApp(t)
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.focus != focusGrid {
		t.Fatalf("enter should move focus to the grid, got %d", app.focus)
	}
	if sel, ok := app.session.Selected(); !ok || sel.UserID != "u1" {
		t.Fatalf("selected = %+v %v, want u1", sel, ok)
	}
	app = send(t, app, keys("3c")...)
	if cell, _ := app.session.CellOf("u1"); cell != "3C" {
		t.Fatalf("u1 in %q, want 3C", cell)
	}
	if app.focus != focusRoster {
		t.Fatalf("placing should return focus to the roster")
	}
	if _, ok := app.session.Selected(); ok {
		t.Fatalf("selection should clear after placing")
	}
	if !strings.Contains(app.statusMsg, "Placed Ada Lovelace in 3C") {
		t.Fatalf("status = %q", app.statusMsg)
	}
}

func TestArrowNavigationAndPlaceKey(t *testing.T) {
	app := newTestApp(t)
	app = send(t, app, tea.KeyMsg{Type: tea.KeyDown})
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if sel, ok := app.session.Selected(); !ok || sel.UserID != "u2" {
		t.Fatalf("selected = %+v, want u2", sel)
	}
	// u2 is unplaced so the cursor starts in the centre.
	app = send(t, app, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, runes("p"))
	if cell, _ := app.session.CellOf("u2"); cell != "1C" {
		t.Fatalf("u2 in %q, want 1C", cell)
	}
}

func TestGridEscapeCancelsSelection(t *testing.T) {
	app := newTestApp(t)
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEsc})
	if app.focus != focusRoster {
		t.Fatalf("esc should return to roster")
	}
	if _, ok := app.session.Selected(); ok {
		t.Fatalf("esc should clear selection")
	}
	if cell, _ := app.session.CellOf("u1"); cell != "1A" {
		t.Fatalf("u1 moved to %q", cell)
	}
}

func TestColumnWithoutRowIsIgnored(t *testing.T) {
	app := newTestApp(t)
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEnter}, runes("b"))
	if cell, _ := app.session.CellOf("u1"); cell != "1A" {
		t.Fatalf("u1 moved to %q", cell)
	}
	if app.focus != focusGrid {
		t.Fatalf("should stay on the grid")
	}
}

func TestUnplaceHighlighted(t *testing.T) {
	app := newTestApp(t)
	app = send(t, app, runes("u"))
	if _, ok := app.session.CellOf("u1"); ok {
		t.Fatalf("u1 should be unplaced")
	}
	if len(app.session.Placements()) != 0 {
		t.Fatalf("grid should be empty: %v", app.session.Placements())
	}
	item := app.roster.SelectedItem().(employeeItem)
	if item.cell != "" || !strings.Contains(item.Description(), "unplaced") {
		t.Fatalf("roster item not refreshed: %+v", item)
	}
}

func TestNoteEditorSavesWithCtrlS(t *testing.T) {
	app := newTestApp(t)
	app = send(t, app, runes("n"))
	if app.focus != focusNote {
		t.Fatalf("n should open the note editor")
	}
	app = send(t, app, keys("ready for 1A")...)
	app = send(t, app, tea.KeyMsg{Type: tea.KeyCtrlS})
	if app.focus != focusRoster {
		t.Fatalf("ctrl+s should close the editor")
	}
	text, ok, err := app.session.Note("u1")
	if err != nil || !ok || text != "ready for 1A" {
		t.Fatalf("note = %q %v %v", text, ok, err)
	}
}

func TestNoteEditorEscapeRespectsAutoSave(t *testing.T) {
	app := newTestApp(t)
	app = send(t, app, runes("n"))
	app = send(t, app, keys("draft")...)
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok, _ := app.session.Note("u1"); ok {
		t.Fatalf("esc without auto-save should discard")
	}

	app = send(t, app, runes("a"))
	if !app.session.Settings().AutoSaveEnabled {
		t.Fatalf("a should enable auto-save")
	}
	app = send(t, app, runes("n"))
	app = send(t, app, keys("kept")...)
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if text, ok, _ := app.session.Note("u1"); !ok || text != "kept" {
		t.Fatalf("auto-save note = %q %v", text, ok)
	}
}

func TestZoomAndThemeKeys(t *testing.T) {
	app := newTestApp(t)
	app = send(t, app, runes("+"), runes("+"))
	if got := app.session.ViewScale(); got != 1.2 {
		t.Fatalf("scale = %v, want 1.2", got)
	}
	app = send(t, app, keys("-------------------")...)
	if got := app.session.ViewScale(); got != store.MinViewScale {
		t.Fatalf("scale = %v, want clamp to %v", got, store.MinViewScale)
	}
	app = send(t, app, runes("t"))
	if got := app.session.Settings().ThemePreference; got != store.ThemeLight {
		t.Fatalf("theme = %s, want light", got)
	}
}

func TestExportKeyWritesRoster(t *testing.T) {
	out := filepath.Join(t.TempDir(), "export", "roster.csv")
	app := newTestApp(t, WithExportPath(out))
	app = send(t, app, runes("x"))
	got, err := roster.DecodeFile(out)
	if err != nil {
		t.Fatalf("decode export: %v (status %q)", err, app.statusMsg)
	}
	if len(got) != 2 {
		t.Fatalf("exported %d rows, want 2", len(got))
	}
}

func TestQuitKey(t *testing.T) {
	app := newTestApp(t)
	_, cmd := app.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q should quit")
	}
}

func TestViewRendersGridAndDetails(t *testing.T) {
	app := newTestApp(t)
	view := app.View()
	for _, want := range []string{"BOX PLANNER", "1A High Perf", "3C Low Perf", "Ada Lovelace", "Details", "LOG · journal.log"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestNewAppFromConfigFallsBackToSample(t *testing.T) {
	projectDir := t.TempDir()
	t.Setenv(config.HomeEnv, "")
	if err := config.InitDataDir(projectDir); err != nil {
		t.Fatalf("init data dir: %v", err)
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if app.session.Source() != "sample" {
		t.Fatalf("source = %s, want sample", app.session.Source())
	}
	if !strings.Contains(app.statusMsg, "sample data") {
		t.Fatalf("status = %q", app.statusMsg)
	}
	if cell, _ := app.session.CellOf("1"); cell != grid.Cell("1A") {
		t.Fatalf("sample employee 1 in %q, want 1A", cell)
	}
	if _, err := os.Stat(cfg.JournalPath()); err != nil {
		t.Fatalf("journal should be written on open: %v", err)
	}
}

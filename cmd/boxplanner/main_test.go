package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/box-planner/internal/config"
	"github.com/kingrea/box-planner/internal/roster"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeCSV(t *testing.T, dir string, employees []roster.Employee) string {
	t.Helper()
	path := filepath.Join(dir, "employees.csv")
	if err := roster.EncodeFile(path, employees); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestCheckPrintsSummary(t *testing.T) {
	path := writeCSV(t, t.TempDir(), roster.Sample())
	out, err := run(t, "", "check", path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, want := range []string{"2 employees (csv)", "with a rating: 2", "placed by 9-box label: 2", "1A High Perf / High Pot", "2B Med Perf / Med Pot"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckReportsParseErrorsWithValidationCode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(path, []byte("User ID\nu1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "", "check", path)
	var coded *exitError
	if !errors.As(err, &coded) || coded.code != exitValidation {
		t.Fatalf("err = %v, want validation exit code", err)
	}
	var schema *roster.SchemaError
	if !errors.As(err, &schema) {
		t.Fatalf("err = %v, want SchemaError", err)
	}
}

func TestConvertCSVToXLSX(t *testing.T) {
	dir := t.TempDir()
	in := writeCSV(t, dir, roster.Sample())
	out := filepath.Join(dir, "converted.xlsx")
	if _, err := run(t, "", "convert", in, out); err != nil {
		t.Fatalf("convert: %v", err)
	}
	got, err := roster.DecodeFile(out)
	if err != nil {
		t.Fatalf("decode xlsx: %v", err)
	}
	if len(got) != 2 || got[1].UserID != "2" {
		t.Fatalf("converted roster = %+v", got)
	}
}

func TestNoteSetAndGet(t *testing.T) {
	project := t.TempDir()
	t.Setenv(config.HomeEnv, "")
	if _, err := run(t, "", "--project", project, "note", "set", "u1", "ready", "for", "1A"); err != nil {
		t.Fatalf("note set: %v", err)
	}
	out, err := run(t, "", "--project", project, "note", "get", "u1")
	if err != nil {
		t.Fatalf("note get: %v", err)
	}
	if strings.TrimSpace(out) != "ready for 1A" {
		t.Fatalf("note get = %q", out)
	}

	if _, err := run(t, "line one\nline two\n", "--project", project, "note", "set", "u1", "-"); err != nil {
		t.Fatalf("note set from stdin: %v", err)
	}
	out, _ = run(t, "", "--project", project, "note", "get", "u1")
	if out != "line one\nline two\n" {
		t.Fatalf("note get = %q", out)
	}

	_, err = run(t, "", "--project", project, "note", "get", "missing")
	var coded *exitError
	if !errors.As(err, &coded) || coded.code != exitValidation {
		t.Fatalf("missing note err = %v", err)
	}
}

func TestUsePersistsRosterPath(t *testing.T) {
	project := t.TempDir()
	path := writeCSV(t, t.TempDir(), roster.Sample())
	if _, err := run(t, "", "--project", project, "use", path); err != nil {
		t.Fatalf("use: %v", err)
	}
	cfg, err := config.NewConfig(project)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.RosterPath() != path {
		t.Fatalf("roster path = %s, want %s", cfg.RosterPath(), path)
	}
}

package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/box-planner/internal/grid"
	"github.com/kingrea/box-planner/internal/roster"
	"github.com/kingrea/box-planner/internal/session"
	"github.com/kingrea/box-planner/internal/store"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Decode a roster file and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, err := roster.DecodeFile(args[0])
			if err != nil {
				return withCode(exitValidation, err)
			}
			writeSummary(cmd.OutOrStdout(), args[0], employees)
			return nil
		},
	}
}

// writeSummary prints counts and the placements the 9-box labels imply.
func writeSummary(w io.Writer, path string, employees []roster.Employee) {
	sess := session.Open(session.Deps{})
	sess.SetRoster(employees, path)
	placed := sess.SeedFromLabels()

	rated := 0
	for _, emp := range employees {
		if _, ok := emp.LatestRating(); ok {
			rated++
		}
	}
	fmt.Fprintf(w, "%s: %d employees (%s)\n", path, len(employees), roster.FormatFor(path))
	fmt.Fprintf(w, "  with a rating: %d\n", rated)
	fmt.Fprintf(w, "  placed by 9-box label: %d\n", placed)

	placements := sess.Placements()
	cells := make([]string, 0, len(placements))
	for cell := range placements {
		cells = append(cells, string(cell))
	}
	sort.Strings(cells)
	for _, cell := range cells {
		box, _ := grid.Lookup(grid.Cell(cell))
		fmt.Fprintf(w, "    %s %-22s %d\n", cell, box.Label, len(placements[grid.Cell(cell)]))
	}
	if unplaced := sess.Unplaced(); len(unplaced) > 0 {
		fmt.Fprintf(w, "  unplaced: %d\n", len(unplaced))
	}
}

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Re-encode a roster between CSV and XLSX",
		Long:  "Reads <in> and writes <out>. The file extension (.csv, .xlsx) picks each format.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, err := roster.DecodeFile(args[0])
			if err != nil {
				return withCode(exitValidation, err)
			}
			if err := roster.EncodeFile(args[1], employees); err != nil {
				return withCode(exitIO, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d employees to %s\n", len(employees), args[1])
			return nil
		},
	}
}

func newNoteCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Read or write an employee's note",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <id>",
			Short: "Print the saved note",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				notes, err := noteStore(opts)
				if err != nil {
					return err
				}
				text, ok, err := notes.GetNote(args[0])
				if err != nil {
					return withCode(exitIO, err)
				}
				if !ok {
					return withCode(exitValidation, fmt.Errorf("no note saved for %s", args[0]))
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <id> <text...>",
			Short: "Save a note; pass - to read the text from stdin",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				notes, err := noteStore(opts)
				if err != nil {
					return err
				}
				text := strings.Join(args[1:], " ")
				if text == "-" {
					data, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return withCode(exitIO, fmt.Errorf("read stdin: %w", err))
					}
					text = strings.TrimRight(string(data), "\n")
				}
				if err := notes.PutNote(args[0], text); err != nil {
					return withCode(exitIO, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved note for %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func noteStore(opts *rootOptions) (*store.FileNoteStore, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return store.NewFileNoteStore(cfg.NotesDir()), nil
}

func newUseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "use <file>",
		Short: "Make <file> the project's default roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveArg(args[0])
			if _, err := roster.DecodeFile(path); err != nil {
				return withCode(exitValidation, err)
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if err := cfg.SetRoster(path); err != nil {
				return withCode(exitIO, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "roster set to %s in %s\n", path, cfg.ProjectConfigPath())
			return nil
		},
	}
}

func resolveArg(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

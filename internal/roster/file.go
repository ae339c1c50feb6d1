package roster

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format selects a tabular encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFor infers the format from a file extension, defaulting to CSV.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// DecodeFile reads a roster from disk, choosing the codec by extension.
func DecodeFile(path string) ([]Employee, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roster: open %s: %w", path, err)
	}
	defer f.Close()
	if FormatFor(path) == FormatXLSX {
		return DecodeXLSX(f)
	}
	return Decode(bufio.NewReader(f))
}

// EncodeFile writes employees to path, creating parent directories. The
// file is written to a temporary sibling first and renamed into place.
func EncodeFile(path string, employees []Employee) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("roster: ensure dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("roster: create temp: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	w := bufio.NewWriter(tmp)
	if FormatFor(path) == FormatXLSX {
		err = EncodeXLSX(w, employees)
	} else {
		err = Encode(w, employees)
	}
	if err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("roster: write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("roster: close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("roster: replace %s: %w", path, err)
	}
	return nil
}

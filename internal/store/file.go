package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const noteExt = ".json"

type noteDocument struct {
	Notes string `json:"notes"`
}

// FileNoteStore writes <dir>/<key>.json per employee. The directory is
// created on first write.
type FileNoteStore struct {
	dir string
}

// NewFileNoteStore returns a note store rooted at dir.
func NewFileNoteStore(dir string) *FileNoteStore {
	return &FileNoteStore{dir: dir}
}

// Dir returns the notes directory.
func (s *FileNoteStore) Dir() string { return s.dir }

// Path returns the document path for id.
func (s *FileNoteStore) Path(id string) (string, error) {
	key, err := SafeKey(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key+noteExt), nil
}

func (s *FileNoteStore) PutNote(id, text string) error {
	path, err := s.Path(id)
	if err != nil {
		return storeErr("put note", id, err)
	}
	data, err := json.MarshalIndent(noteDocument{Notes: text}, "", "  ")
	if err != nil {
		return storeErr("put note", id, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return storeErr("put note", id, err)
	}
	return nil
}

func (s *FileNoteStore) GetNote(id string) (string, bool, error) {
	path, err := s.Path(id)
	if err != nil {
		return "", false, storeErr("get note", id, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, storeErr("get note", id, err)
	}
	var doc noteDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", false, storeErr("get note", id, fmt.Errorf("parse %s: %w", path, err))
	}
	return doc.Notes, true, nil
}

// FileSettingsStore keeps settings in a single JSON file.
type FileSettingsStore struct {
	path string
}

// NewFileSettingsStore returns a settings store backed by path.
func NewFileSettingsStore(path string) *FileSettingsStore {
	return &FileSettingsStore{path: path}
}

// Path returns the settings file location.
func (s *FileSettingsStore) Path() string { return s.path }

func (s *FileSettingsStore) PutSettings(settings AppSettings) error {
	if err := settings.Validate(); err != nil {
		return storeErr("put settings", "", err)
	}
	settings = settings.Clone()
	settings.applyDefaults()
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return storeErr("put settings", "", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return storeErr("put settings", "", err)
	}
	return nil
}

func (s *FileSettingsStore) GetSettings() (AppSettings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return AppSettings{}, storeErr("get settings", "", err)
	}
	var settings AppSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return AppSettings{}, storeErr("get settings", "", fmt.Errorf("parse %s: %w", s.path, err))
	}
	if err := settings.Validate(); err != nil {
		return AppSettings{}, storeErr("get settings", "", err)
	}
	settings.applyDefaults()
	return settings, nil
}

// SafeKey turns an id into a file name component. Letters, digits, '-',
// '_' and '.' pass through; every other byte becomes %XX, so keys never
// contain separators. "." and ".." are escaped as well.
func SafeKey(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: empty id", ErrInvalidKey)
	}
	if id == "." || id == ".." {
		return strings.Repeat("%2E", len(id)), nil
	}
	var b strings.Builder
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '.':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String(), nil
}

func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

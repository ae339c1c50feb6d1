package store

// MemoryNoteStore is a NoteStore held in a map.
type MemoryNoteStore struct {
	notes map[string]string
}

// NewMemoryNoteStore returns an empty in-memory note store.
func NewMemoryNoteStore() *MemoryNoteStore {
	return &MemoryNoteStore{notes: map[string]string{}}
}

func (s *MemoryNoteStore) PutNote(id, text string) error {
	if _, err := SafeKey(id); err != nil {
		return storeErr("put note", id, err)
	}
	s.notes[id] = text
	return nil
}

func (s *MemoryNoteStore) GetNote(id string) (string, bool, error) {
	text, ok := s.notes[id]
	return text, ok, nil
}

// MemorySettingsStore is a SettingsStore held in memory.
type MemorySettingsStore struct {
	settings *AppSettings
}

// NewMemorySettingsStore returns a store with nothing saved yet.
func NewMemorySettingsStore() *MemorySettingsStore {
	return &MemorySettingsStore{}
}

func (s *MemorySettingsStore) PutSettings(settings AppSettings) error {
	if err := settings.Validate(); err != nil {
		return storeErr("put settings", "", err)
	}
	saved := settings.Clone()
	saved.applyDefaults()
	s.settings = &saved
	return nil
}

func (s *MemorySettingsStore) GetSettings() (AppSettings, error) {
	if s.settings == nil {
		return DefaultSettings(), nil
	}
	return s.settings.Clone(), nil
}

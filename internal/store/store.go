// Package store persists notes and settings as one JSON document per key.
// Callers see only the NoteStore and SettingsStore contracts; a missing
// document is a normal state and never surfaces as an error.
package store

import (
	"errors"
	"fmt"
)

// NoteStore keeps one free-text note per employee id.
type NoteStore interface {
	// PutNote overwrites the note for id.
	PutNote(id, text string) error
	// GetNote returns the note and whether one exists. An empty stored note
	// is reported as present.
	GetNote(id string) (string, bool, error)
}

// SettingsStore keeps the single settings document.
type SettingsStore interface {
	PutSettings(AppSettings) error
	// GetSettings returns DefaultSettings when nothing was stored yet.
	GetSettings() (AppSettings, error)
}

// ErrInvalidKey is returned for ids that cannot name a document.
var ErrInvalidKey = errors.New("invalid key")

// StoreError reports a failed read or write of an existing or new document.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op, key string, err error) error {
	return &StoreError{Op: op, Key: key, Err: err}
}

var (
	_ NoteStore     = (*FileNoteStore)(nil)
	_ NoteStore     = (*MemoryNoteStore)(nil)
	_ SettingsStore = (*FileSettingsStore)(nil)
	_ SettingsStore = (*MemorySettingsStore)(nil)
)

// Package repository держит в памяти список заметок и записи открытой заметки
// и синхронизирует их с локальным хранилищем: после каждой мутации состояние
// перечитывается из БД.
package repository

import (
	"context"
	"errors"
	"unicode/utf8"

	"jotpad_go/data"
	"jotpad_go/models"
)

// PreviewLength - сколько символов последней записи попадает в превью заметки.
const PreviewLength = 40

var (
	ErrEmptyTitle     = errors.New("note title must not be empty")
	ErrDuplicateTitle = data.ErrDuplicateTitle
	ErrNoteNotFound   = errors.New("note not found")
	ErrEntryNotFound  = errors.New("entry not found")
	ErrEmptyEntry     = errors.New("entry text must not be empty")
	ErrInvalidTag     = models.ErrInvalidTag
	ErrNoteNotLoaded  = errors.New("no note is loaded")
)

// Store - операции хранилища, которые нужны репозиториям.
type Store interface {
	CreateNote(ctx context.Context, note *models.Note) error
	GetNoteByID(ctx context.Context, id string) (*models.Note, error)
	GetAllNotes(ctx context.Context) ([]models.Note, error)
	UpdateNote(ctx context.Context, note *models.Note) error
	UpdateNotePreview(ctx context.Context, id string, preview *string) error
	SetNotePinned(ctx context.Context, id string, pinned bool) error
	DeleteNote(ctx context.Context, id string) error

	CreateEntry(ctx context.Context, entry *models.NoteEntry) error
	GetEntryByID(ctx context.Context, id string) (*models.NoteEntry, error)
	GetEntriesByNote(ctx context.Context, noteID string) ([]models.NoteEntry, error)
	GetLastEntry(ctx context.Context, noteID string) (*models.NoteEntry, error)
	UpdateEntryText(ctx context.Context, id, text string) error
	SetEntryPinned(ctx context.Context, id string, pinned bool) error
	DeleteEntry(ctx context.Context, id string) error

	RenameTag(ctx context.Context, oldName, newName string) (int, error)
	DeleteTag(ctx context.Context, name string) (int, error)
}

// Preview обрезает текст до PreviewLength символов и добавляет "...", если текст длиннее.
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= PreviewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:PreviewLength]) + "..."
}

func previewOf(entry *models.NoteEntry) *string {
	if entry == nil {
		return nil
	}
	p := Preview(entry.Text)
	return &p
}

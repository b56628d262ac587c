package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"jotpad_go/logger"
	"jotpad_go/models"

	"github.com/google/uuid"
)

const entriesModule = "entries"

// EntryRepository - записи одной открытой заметки ("переписка").
// В превью заметки кэшируется только текст последней записи.
type EntryRepository struct {
	store Store
	notes *NoteRepository
	log   logger.ILogger
	now   func() time.Time

	mu      sync.RWMutex
	noteID  string
	entries []models.NoteEntry
}

// NewEntryRepository создает репозиторий записей. notes может быть nil,
// тогда список заметок после изменения превью не перечитывается.
func NewEntryRepository(store Store, notes *NoteRepository, log logger.ILogger) *EntryRepository {
	return &EntryRepository{
		store: store,
		notes: notes,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Load открывает заметку и загружает ее записи по возрастанию времени.
func (r *EntryRepository) Load(ctx context.Context, noteID string) error {
	note, err := r.store.GetNoteByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note == nil {
		return ErrNoteNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.noteID = noteID
	return r.reloadLocked(ctx)
}

func (r *EntryRepository) reloadLocked(ctx context.Context) error {
	entries, err := r.store.GetEntriesByNote(ctx, r.noteID)
	if err != nil {
		r.log.Error(entriesModule, "Failed to load entries", map[string]interface{}{"note_id": r.noteID, "error": err})
		return err
	}
	r.entries = entries
	return nil
}

// NoteID возвращает ID открытой заметки.
func (r *EntryRepository) NoteID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.noteID
}

// List возвращает копию записей по возрастанию времени.
func (r *EntryRepository) List() []models.NoteEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.NoteEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Pinned возвращает закрепленные записи в том же порядке.
func (r *EntryRepository) Pinned() []models.NoteEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.NoteEntry{}
	for _, e := range r.entries {
		if e.Pinned {
			out = append(out, e)
		}
	}
	return out
}

// Add добавляет запись и обновляет превью заметки.
func (r *EntryRepository) Add(ctx context.Context, text string) (*models.NoteEntry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyEntry
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.noteID == "" {
		return nil, ErrNoteNotLoaded
	}

	entry := &models.NoteEntry{
		ID:        uuid.NewString(),
		NoteID:    r.noteID,
		Text:      text,
		Timestamp: r.now(),
	}
	if err := r.store.CreateEntry(ctx, entry); err != nil {
		r.log.Error(entriesModule, "Failed to add entry", map[string]interface{}{"note_id": r.noteID, "error": err})
		return nil, err
	}
	if err := r.setPreviewLocked(ctx, previewOf(entry)); err != nil {
		return nil, err
	}
	if err := r.reloadLocked(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

// Edit меняет текст записи. Превью обновляется, только если это последняя запись.
func (r *EntryRepository) Edit(ctx context.Context, id, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyEntry
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ownedLocked(ctx, id); err != nil {
		return err
	}

	wasLast, err := r.isLastLocked(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.UpdateEntryText(ctx, id, text); err != nil {
		return r.mapStoreErr("edit entry", id, err)
	}
	if wasLast {
		p := Preview(text)
		if err := r.setPreviewLocked(ctx, &p); err != nil {
			return err
		}
	}
	return r.reloadLocked(ctx)
}

// Delete удаляет запись. Если она была последней, превью берется у новой последней записи
// (или очищается, если записей не осталось).
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ownedLocked(ctx, id); err != nil {
		return err
	}

	wasLast, err := r.isLastLocked(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.DeleteEntry(ctx, id); err != nil {
		return r.mapStoreErr("delete entry", id, err)
	}
	if wasLast {
		last, err := r.store.GetLastEntry(ctx, r.noteID)
		if err != nil {
			return err
		}
		if err := r.setPreviewLocked(ctx, previewOf(last)); err != nil {
			return err
		}
	}
	return r.reloadLocked(ctx)
}

// TogglePin закрепляет или открепляет одну запись, остальные не затрагиваются.
func (r *EntryRepository) TogglePin(ctx context.Context, id string, pinned bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ownedLocked(ctx, id); err != nil {
		return err
	}
	if err := r.store.SetEntryPinned(ctx, id, pinned); err != nil {
		return r.mapStoreErr("pin entry", id, err)
	}
	return r.reloadLocked(ctx)
}

// ownedLocked проверяет, что запись существует и принадлежит открытой заметке.
func (r *EntryRepository) ownedLocked(ctx context.Context, id string) error {
	if r.noteID == "" {
		return ErrNoteNotLoaded
	}
	entry, err := r.store.GetEntryByID(ctx, id)
	if err != nil {
		return err
	}
	if entry == nil || entry.NoteID != r.noteID {
		return ErrEntryNotFound
	}
	return nil
}

func (r *EntryRepository) isLastLocked(ctx context.Context, id string) (bool, error) {
	last, err := r.store.GetLastEntry(ctx, r.noteID)
	if err != nil {
		return false, err
	}
	return last != nil && last.ID == id, nil
}

// setPreviewLocked пишет превью в БД и перечитывает список заметок.
func (r *EntryRepository) setPreviewLocked(ctx context.Context, preview *string) error {
	if err := r.store.UpdateNotePreview(ctx, r.noteID, preview); err != nil {
		r.log.Error(entriesModule, "Failed to update note preview", map[string]interface{}{"note_id": r.noteID, "error": err})
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoteNotFound
		}
		return err
	}
	if r.notes != nil {
		return r.notes.Load(ctx)
	}
	return nil
}

func (r *EntryRepository) mapStoreErr(op, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEntryNotFound
	}
	r.log.Error(entriesModule, "Store operation failed", map[string]interface{}{"op": op, "entry_id": id, "error": err})
	return fmt.Errorf("%s: %w", op, err)
}

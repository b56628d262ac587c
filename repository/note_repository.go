package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"jotpad_go/logger"
	"jotpad_go/models"

	"github.com/google/uuid"
)

const notesModule = "notes"

// NoteRepository - список заметок в памяти (боковая панель).
type NoteRepository struct {
	store Store
	log   logger.ILogger

	mu        sync.RWMutex
	notes     []models.Note
	sortOrder string
}

func NewNoteRepository(store Store, log logger.ILogger) *NoteRepository {
	return &NoteRepository{store: store, log: log, sortOrder: models.SortNewest}
}

// SetSortOrder меняет порядок сортировки и пересортировывает загруженный список.
func (r *NoteRepository) SetSortOrder(order string) {
	switch order {
	case models.SortNewest, models.SortOldest, models.SortTitle:
	default:
		order = models.SortNewest
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sortOrder = order
	sortNotes(r.notes, order)
}

// Load перечитывает все заметки и пересчитывает превью по последней записи каждой заметки.
func (r *NoteRepository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reloadLocked(ctx)
}

// reloadLocked - полная перезагрузка: один запрос за списком и по одному на превью каждой заметки.
func (r *NoteRepository) reloadLocked(ctx context.Context) error {
	notes, err := r.store.GetAllNotes(ctx)
	if err != nil {
		r.log.Error(notesModule, "Failed to load notes", map[string]interface{}{"error": err})
		return err
	}
	for i := range notes {
		last, err := r.store.GetLastEntry(ctx, notes[i].ID)
		if err != nil {
			r.log.Error(notesModule, "Failed to load note preview", map[string]interface{}{"note_id": notes[i].ID, "error": err})
			return err
		}
		notes[i].Content = previewOf(last)
	}
	sortNotes(notes, r.sortOrder)
	r.notes = notes
	return nil
}

// List возвращает копию списка: сначала закрепленные, затем по выбранному порядку.
func (r *NoteRepository) List() []models.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Note, len(r.notes))
	copy(out, r.notes)
	return out
}

// Pinned возвращает только закрепленные заметки.
func (r *NoteRepository) Pinned() []models.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Note
	for _, n := range r.notes {
		if n.Pinned {
			out = append(out, n)
		}
	}
	return out
}

// Get ищет заметку в загруженном списке.
func (r *NoteRepository) Get(id string) (models.Note, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.notes {
		if n.ID == id {
			return n, true
		}
	}
	return models.Note{}, false
}

// IsDuplicateTitle проверяет заголовок по загруженному списку без учета регистра.
// excludeID - заметка, которая сейчас редактируется.
func (r *NoteRepository) IsDuplicateTitle(title, excludeID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.duplicateLocked(title, excludeID)
}

func (r *NoteRepository) duplicateLocked(title, excludeID string) bool {
	title = strings.TrimSpace(title)
	for _, n := range r.notes {
		if n.ID != excludeID && strings.EqualFold(strings.TrimSpace(n.Title), title) {
			return true
		}
	}
	return false
}

// Create создает заметку. Пустой заголовок и дубликат заголовка отклоняются.
func (r *NoteRepository) Create(ctx context.Context, title string, tags []models.Tag) (*models.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	tags, err := models.NormalizeTags(tags)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.duplicateLocked(title, "") {
		return nil, ErrDuplicateTitle
	}

	note := &models.Note{ID: uuid.NewString(), Title: title, Tags: tags}
	if err := r.store.CreateNote(ctx, note); err != nil {
		if !errors.Is(err, ErrDuplicateTitle) {
			r.log.Error(notesModule, "Failed to create note", map[string]interface{}{"title": title, "error": err})
		}
		return nil, err
	}
	if err := r.reloadLocked(ctx); err != nil {
		return nil, err
	}
	return note, nil
}

// Update меняет заголовок и теги заметки.
func (r *NoteRepository) Update(ctx context.Context, id, title string, tags []models.Tag) (*models.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	tags, err := models.NormalizeTags(tags)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.duplicateLocked(title, id) {
		return nil, ErrDuplicateTitle
	}

	note, err := r.store.GetNoteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	note.Title = title
	note.Tags = tags
	if err := r.store.UpdateNote(ctx, note); err != nil {
		return nil, r.mapStoreErr("update note", id, err)
	}
	if err := r.reloadLocked(ctx); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete удаляет заметку вместе с ее записями.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.DeleteNote(ctx, id); err != nil {
		return r.mapStoreErr("delete note", id, err)
	}
	return r.reloadLocked(ctx)
}

// TogglePin закрепляет или открепляет заметку.
func (r *NoteRepository) TogglePin(ctx context.Context, id string, pinned bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.SetNotePinned(ctx, id, pinned); err != nil {
		return r.mapStoreErr("pin note", id, err)
	}
	return r.reloadLocked(ctx)
}

// Tags возвращает глобальный набор тегов: объединение по всем заметкам
// без учета регистра, цвет берется у первого встреченного тега.
func (r *NoteRepository) Tags() []models.Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	tags := []models.Tag{}
	for _, n := range r.notes {
		for _, t := range n.Tags {
			key := strings.ToLower(t.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			tags = append(tags, t)
		}
	}
	return tags
}

// Filter возвращает заметки с указанным тегом. Пустой тег - все заметки.
func (r *NoteRepository) Filter(tag string) []models.Note {
	if strings.TrimSpace(tag) == "" {
		return r.List()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Note{}
	for _, n := range r.notes {
		if n.HasTag(tag) {
			out = append(out, n)
		}
	}
	return out
}

// RenameTag переименовывает тег во всех заметках.
func (r *NoteRepository) RenameTag(ctx context.Context, oldName, newName string) (int, error) {
	if strings.TrimSpace(oldName) == "" || strings.TrimSpace(newName) == "" {
		return 0, ErrInvalidTag
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	touched, err := r.store.RenameTag(ctx, oldName, newName)
	if err != nil {
		r.log.Error(notesModule, "Failed to rename tag", map[string]interface{}{"tag": oldName, "error": err})
		return 0, err
	}
	return touched, r.reloadLocked(ctx)
}

// DeleteTag удаляет тег из всех заметок.
func (r *NoteRepository) DeleteTag(ctx context.Context, name string) (int, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ErrInvalidTag
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	touched, err := r.store.DeleteTag(ctx, name)
	if err != nil {
		r.log.Error(notesModule, "Failed to delete tag", map[string]interface{}{"tag": name, "error": err})
		return 0, err
	}
	return touched, r.reloadLocked(ctx)
}

func (r *NoteRepository) mapStoreErr(op, id string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrNoteNotFound
	case errors.Is(err, ErrDuplicateTitle):
		return err
	}
	r.log.Error(notesModule, "Store operation failed", map[string]interface{}{"op": op, "note_id": id, "error": err})
	return fmt.Errorf("%s: %w", op, err)
}

func sortNotes(notes []models.Note, order string) {
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i], notes[j]
		if a.Pinned != b.Pinned {
			return bool(a.Pinned)
		}
		switch order {
		case models.SortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		case models.SortTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}

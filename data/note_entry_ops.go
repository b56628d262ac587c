package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jotpad_go/models"
)

const entryColumns = `id, note_id, text, timestamp, pinned`

// CreateEntry добавляет запись в заметку. Поля entry.NoteID и entry.Timestamp должны быть установлены,
// время приводится к UTC.
func (s *Store) CreateEntry(ctx context.Context, entry *models.NoteEntry) error {
	entry.Timestamp = entry.Timestamp.UTC()
	query := `INSERT INTO note_entries (id, note_id, text, timestamp, pinned)
	          VALUES (:id, :note_id, :text, :timestamp, :pinned)`
	if _, err := s.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("CreateEntry: ошибка вставки записи в заметку ID %s: %w", entry.NoteID, err)
	}
	s.log.Debug(storeModule, "Entry created", map[string]interface{}{"note_id": entry.NoteID, "entry_id": entry.ID})
	return nil
}

// GetEntryByID извлекает запись по ID. Возвращает nil, nil если записи нет.
func (s *Store) GetEntryByID(ctx context.Context, id string) (*models.NoteEntry, error) {
	entry := &models.NoteEntry{}
	query := `SELECT ` + entryColumns + ` FROM note_entries WHERE id = ?`
	if err := s.db.GetContext(ctx, entry, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("GetEntryByID: ошибка получения записи ID %s: %w", id, err)
	}
	return entry, nil
}

// GetEntriesByNote извлекает все записи заметки по возрастанию времени.
func (s *Store) GetEntriesByNote(ctx context.Context, noteID string) ([]models.NoteEntry, error) {
	entries := []models.NoteEntry{}
	query := `SELECT ` + entryColumns + ` FROM note_entries WHERE note_id = ? ORDER BY timestamp ASC, rowid ASC`
	if err := s.db.SelectContext(ctx, &entries, query, noteID); err != nil {
		return nil, fmt.Errorf("GetEntriesByNote: ошибка получения записей заметки ID %s: %w", noteID, err)
	}
	return entries, nil
}

// GetLastEntry возвращает самую свежую запись заметки или nil, если записей нет.
func (s *Store) GetLastEntry(ctx context.Context, noteID string) (*models.NoteEntry, error) {
	entry := &models.NoteEntry{}
	query := `SELECT ` + entryColumns + ` FROM note_entries WHERE note_id = ? ORDER BY timestamp DESC, rowid DESC LIMIT 1`
	if err := s.db.GetContext(ctx, entry, query, noteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("GetLastEntry: ошибка получения последней записи заметки ID %s: %w", noteID, err)
	}
	return entry, nil
}

// UpdateEntryText меняет текст записи.
func (s *Store) UpdateEntryText(ctx context.Context, id, text string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE note_entries SET text = ? WHERE id = ?`, text, id)
	if err != nil {
		return fmt.Errorf("UpdateEntryText: ошибка обновления записи ID %s: %w", id, err)
	}
	if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
		return sql.ErrNoRows // Не найдено для обновления
	}
	return nil
}

// SetEntryPinned закрепляет или открепляет запись.
func (s *Store) SetEntryPinned(ctx context.Context, id string, pinned bool) error {
	result, err := s.db.ExecContext(ctx, `UPDATE note_entries SET pinned = ? WHERE id = ?`, models.BoolFromInt(pinned), id)
	if err != nil {
		return fmt.Errorf("SetEntryPinned: ошибка обновления записи ID %s: %w", id, err)
	}
	if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteEntry удаляет одну запись.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM note_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("DeleteEntry: ошибка удаления записи ID %s: %w", id, err)
	}
	if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
		return sql.ErrNoRows // Не найдено для удаления
	}
	return nil
}

// CountEntries возвращает число записей заметки.
func (s *Store) CountEntries(ctx context.Context, noteID string) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM note_entries WHERE note_id = ?`, noteID); err != nil {
		return 0, fmt.Errorf("CountEntries: ошибка подсчета записей заметки ID %s: %w", noteID, err)
	}
	return count, nil
}

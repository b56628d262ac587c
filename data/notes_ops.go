package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"jotpad_go/models"

	"github.com/jmoiron/sqlx"
)

const noteColumns = `id, title, content, created_at, updated_at, tags, pinned`

// CreateNote создает новую заметку.
// Проверка уникальности заголовка выполняется в той же транзакции, что и вставка.
func (s *Store) CreateNote(ctx context.Context, note *models.Note) error {
	if err := note.UpdateJsonProperties(); err != nil {
		return fmt.Errorf("CreateNote: ошибка обновления JSON свойств: %w", err)
	}
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		taken, err := titleTaken(ctx, tx, note.Title, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateTitle
		}

		query := `INSERT INTO notes (id, title, content, created_at, updated_at, tags, pinned)
		          VALUES (:id, :title, :content, :created_at, :updated_at, :tags, :pinned)`
		if _, err := tx.NamedExecContext(ctx, query, note); err != nil {
			return fmt.Errorf("CreateNote: ошибка вставки заметки: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info(storeModule, "Note created", map[string]interface{}{"note_id": note.ID})
	return nil
}

// GetNoteByID извлекает заметку по ее ID. Возвращает nil, nil если заметки нет.
func (s *Store) GetNoteByID(ctx context.Context, id string) (*models.Note, error) {
	note := &models.Note{}
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = ?`
	err := s.db.GetContext(ctx, note, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Не найдено
		}
		return nil, fmt.Errorf("GetNoteByID: ошибка получения заметки ID %s: %w", id, err)
	}
	if err := note.LoadJsonProperties(); err != nil {
		return nil, fmt.Errorf("GetNoteByID: ошибка загрузки JSON свойств для заметки ID %s: %w", id, err)
	}
	return note, nil
}

// GetAllNotes извлекает все заметки в порядке создания.
func (s *Store) GetAllNotes(ctx context.Context) ([]models.Note, error) {
	notes := []models.Note{}
	query := `SELECT ` + noteColumns + ` FROM notes ORDER BY created_at ASC, rowid ASC`
	if err := s.db.SelectContext(ctx, &notes, query); err != nil {
		return nil, fmt.Errorf("GetAllNotes: ошибка получения всех заметок: %w", err)
	}
	for i := range notes {
		if err := notes[i].LoadJsonProperties(); err != nil {
			s.log.Warn(storeModule, "Broken tags JSON, note returned without tags", map[string]interface{}{
				"note_id": notes[i].ID, "error": err.Error(),
			})
		}
	}
	return notes, nil
}

// UpdateNote обновляет заголовок и теги заметки.
func (s *Store) UpdateNote(ctx context.Context, note *models.Note) error {
	if err := note.UpdateJsonProperties(); err != nil {
		return fmt.Errorf("UpdateNote: ошибка обновления JSON свойств для заметки ID %s: %w", note.ID, err)
	}
	note.UpdatedAt = time.Now().UTC()

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		taken, err := titleTaken(ctx, tx, note.Title, note.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateTitle
		}

		query := `UPDATE notes SET title = :title, tags = :tags, updated_at = :updated_at WHERE id = :id`
		result, err := tx.NamedExecContext(ctx, query, note)
		if err != nil {
			return fmt.Errorf("UpdateNote: ошибка обновления заметки ID %s: %w", note.ID, err)
		}
		if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
			return sql.ErrNoRows // Не найдено для обновления
		}
		return nil
	})
}

// UpdateNotePreview сохраняет превью заметки (nil - превью нет).
func (s *Store) UpdateNotePreview(ctx context.Context, id string, preview *string) error {
	query := `UPDATE notes SET content = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, preview, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("UpdateNotePreview: ошибка обновления превью заметки ID %s: %w", id, err)
	}
	if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetNotePinned закрепляет или открепляет заметку.
func (s *Store) SetNotePinned(ctx context.Context, id string, pinned bool) error {
	query := `UPDATE notes SET pinned = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, models.BoolFromInt(pinned), id)
	if err != nil {
		return fmt.Errorf("SetNotePinned: ошибка обновления заметки ID %s: %w", id, err)
	}
	if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteNote удаляет заметку вместе со всеми ее записями.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	var removedEntries int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM note_entries WHERE note_id = ?`, id)
		if err != nil {
			return fmt.Errorf("DeleteNote: ошибка удаления записей заметки ID %s: %w", id, err)
		}
		removedEntries, _ = result.RowsAffected()

		result, err = tx.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("DeleteNote: ошибка удаления заметки ID %s: %w", id, err)
		}
		if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
			return sql.ErrNoRows // Не найдено для удаления
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info(storeModule, "Note deleted", map[string]interface{}{"note_id": id, "entries": removedEntries})
	return nil
}

// TitleExists проверяет, занят ли заголовок другой заметкой (без учета регистра).
func (s *Store) TitleExists(ctx context.Context, title, excludeID string) (bool, error) {
	return titleTaken(ctx, s.db, title, excludeID)
}

// titleTaken сравнивает заголовки в Go: lower() в SQLite работает только с ASCII.
func titleTaken(ctx context.Context, q sqlx.QueryerContext, title, excludeID string) (bool, error) {
	var rows []struct {
		ID    string `db:"id"`
		Title string `db:"title"`
	}
	if err := sqlx.SelectContext(ctx, q, &rows, `SELECT id, title FROM notes WHERE id <> ?`, excludeID); err != nil {
		return false, fmt.Errorf("titleTaken: ошибка получения заголовков: %w", err)
	}
	title = strings.TrimSpace(title)
	for _, r := range rows {
		if strings.EqualFold(strings.TrimSpace(r.Title), title) {
			return true, nil
		}
	}
	return false, nil
}

package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jotpad_go/models"

	"github.com/jmoiron/sqlx"
)

// ExportAll собирает полную резервную копию: все заметки, все записи и настройки.
func (s *Store) ExportAll(ctx context.Context) (*models.BackupData, error) {
	notes, err := s.GetAllNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportAll: %w", err)
	}
	entries := []models.NoteEntry{}
	query := `SELECT ` + entryColumns + ` FROM note_entries ORDER BY note_id, timestamp ASC, rowid ASC`
	if err := s.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("ExportAll: ошибка получения записей: %w", err)
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportAll: %w", err)
	}
	return &models.BackupData{
		Notes:     notes,
		Entries:   entries,
		Settings:  settings,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ImportAll восстанавливает данные из бэкапа в одной транзакции (upsert по ID).
// Заметки, чей заголовок совпадает с другой существующей заметкой или чьи теги невалидны,
// пропускаются вместе с записями. Теги нормализуются так же, как при создании заметки.
func (s *Store) ImportAll(ctx context.Context, backup *models.BackupData) (*models.RestoreResult, error) {
	result := &models.RestoreResult{}
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		imported := make(map[string]bool, len(backup.Notes))
		for i := range backup.Notes {
			note := backup.Notes[i]
			note.Title = strings.TrimSpace(note.Title)
			if note.ID == "" || note.Title == "" {
				result.SkippedNotes++
				continue
			}
			taken, err := titleTaken(ctx, tx, note.Title, note.ID)
			if err != nil {
				return err
			}
			if taken {
				s.log.Warn(storeModule, "Backup note skipped: duplicate title", map[string]interface{}{"note_id": note.ID, "title": note.Title})
				result.SkippedNotes++
				continue
			}
			tags, err := models.NormalizeTags(note.Tags)
			if err != nil {
				s.log.Warn(storeModule, "Backup note skipped: invalid tags", map[string]interface{}{"note_id": note.ID, "error": err.Error()})
				result.SkippedNotes++
				continue
			}
			note.Tags = tags
			if err := note.UpdateJsonProperties(); err != nil {
				return fmt.Errorf("ImportAll: ошибка сериализации тегов заметки ID %s: %w", note.ID, err)
			}
			if note.CreatedAt.IsZero() {
				note.CreatedAt = time.Now().UTC()
			}
			if note.UpdatedAt.IsZero() {
				note.UpdatedAt = note.CreatedAt
			}
			// Время хранится текстом, ORDER BY корректен только в UTC
			note.CreatedAt = note.CreatedAt.UTC()
			note.UpdatedAt = note.UpdatedAt.UTC()
			query := `INSERT INTO notes (id, title, content, created_at, updated_at, tags, pinned)
			          VALUES (:id, :title, :content, :created_at, :updated_at, :tags, :pinned)
			          ON CONFLICT(id) DO UPDATE SET title = excluded.title, content = excluded.content,
			            updated_at = excluded.updated_at, tags = excluded.tags, pinned = excluded.pinned`
			if _, err := tx.NamedExecContext(ctx, query, &note); err != nil {
				return fmt.Errorf("ImportAll: ошибка вставки заметки ID %s: %w", note.ID, err)
			}
			imported[note.ID] = true
			result.Notes++
		}

		for i := range backup.Entries {
			entry := backup.Entries[i]
			if !imported[entry.NoteID] || entry.ID == "" {
				continue
			}
			if entry.Timestamp.IsZero() {
				entry.Timestamp = time.Now()
			}
			entry.Timestamp = entry.Timestamp.UTC()
			query := `INSERT INTO note_entries (id, note_id, text, timestamp, pinned)
			          VALUES (:id, :note_id, :text, :timestamp, :pinned)
			          ON CONFLICT(id) DO UPDATE SET note_id = excluded.note_id, text = excluded.text,
			            timestamp = excluded.timestamp, pinned = excluded.pinned`
			if _, err := tx.NamedExecContext(ctx, query, &entry); err != nil {
				return fmt.Errorf("ImportAll: ошибка вставки записи ID %s: %w", entry.ID, err)
			}
			result.Entries++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if backup.Settings != nil {
		if err := s.SaveSettings(ctx, backup.Settings); err != nil {
			return nil, fmt.Errorf("ImportAll: %w", err)
		}
	}
	s.log.Info(storeModule, "Backup restored", map[string]interface{}{
		"notes": result.Notes, "entries": result.Entries, "skipped": result.SkippedNotes,
	})
	return result, nil
}

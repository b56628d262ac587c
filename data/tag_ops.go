package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jotpad_go/models"

	"github.com/jmoiron/sqlx"
)

// RenameTag переименовывает тег во всех заметках. Если в заметке уже есть тег
// с новым именем, переименованный тег сливается с ним.
// Возвращает число измененных заметок.
func (s *Store) RenameTag(ctx context.Context, oldName, newName string) (int, error) {
	newName = strings.TrimSpace(newName)
	return s.rewriteTags(ctx, "RenameTag", func(tags []models.Tag) ([]models.Tag, bool) {
		changed := false
		out := make([]models.Tag, 0, len(tags))
		for _, t := range tags {
			if strings.EqualFold(t.Name, oldName) {
				t.Name = newName
				changed = true
			}
			if containsTag(out, t.Name) {
				continue
			}
			out = append(out, t)
		}
		return out, changed
	})
}

// DeleteTag удаляет тег из всех заметок. Возвращает число измененных заметок.
func (s *Store) DeleteTag(ctx context.Context, name string) (int, error) {
	return s.rewriteTags(ctx, "DeleteTag", func(tags []models.Tag) ([]models.Tag, bool) {
		out := make([]models.Tag, 0, len(tags))
		for _, t := range tags {
			if !strings.EqualFold(t.Name, name) {
				out = append(out, t)
			}
		}
		return out, len(out) != len(tags)
	})
}

// rewriteTags проходит по всем заметкам в одной транзакции и перезаписывает теги,
// если fn сообщила об изменении.
func (s *Store) rewriteTags(ctx context.Context, op string, fn func([]models.Tag) ([]models.Tag, bool)) (int, error) {
	touched := 0
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var notes []models.Note
		if err := tx.SelectContext(ctx, &notes, `SELECT `+noteColumns+` FROM notes`); err != nil {
			return fmt.Errorf("%s: ошибка получения заметок: %w", op, err)
		}
		now := time.Now().UTC()
		for i := range notes {
			note := &notes[i]
			if err := note.LoadJsonProperties(); err != nil {
				continue
			}
			tags, changed := fn(note.Tags)
			if !changed {
				continue
			}
			note.Tags = tags
			if err := note.UpdateJsonProperties(); err != nil {
				return fmt.Errorf("%s: ошибка сериализации тегов заметки ID %s: %w", op, note.ID, err)
			}
			if _, err := tx.ExecContext(ctx, `UPDATE notes SET tags = ?, updated_at = ? WHERE id = ?`, note.TagsJson, now, note.ID); err != nil {
				return fmt.Errorf("%s: ошибка обновления заметки ID %s: %w", op, note.ID, err)
			}
			touched++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info(storeModule, "Tags rewritten", map[string]interface{}{"op": op, "notes": touched})
	return touched, nil
}

func containsTag(tags []models.Tag, name string) bool {
	for _, t := range tags {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

package models

import "time"

// NoteEntry представляет одну запись ("сообщение") внутри заметки.
// Записи заметки упорядочены по Timestamp по возрастанию.
type NoteEntry struct {
	ID        string      `json:"id" db:"id"`
	NoteID    string      `json:"note_id" db:"note_id"`
	Text      string      `json:"text" db:"text"`
	Timestamp time.Time   `json:"timestamp" db:"timestamp"`
	Pinned    BoolFromInt `json:"pinned" db:"pinned"`
}

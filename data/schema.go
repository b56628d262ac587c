package data

// GetMainSchema возвращает SQL-схему локальной БД.
// Порядок важен: note_entries ссылается на notes.
func GetMainSchema() string {
	return NotesTable() + NoteEntriesTable() + AppSettingsTable()
}

func NotesTable() string {
	return `
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    tags TEXT DEFAULT '[]',
    pinned INTEGER DEFAULT 0
);
`
}

func NoteEntriesTable() string {
	return `
CREATE TABLE IF NOT EXISTS note_entries (
    id TEXT PRIMARY KEY,
    note_id TEXT NOT NULL,
    text TEXT NOT NULL,
    timestamp DATETIME NOT NULL,
    pinned INTEGER DEFAULT 0,
    FOREIGN KEY (note_id) REFERENCES notes(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_note_entries_note ON note_entries(note_id, timestamp);
`
}

// AppSettingsTable - key/value таблица, настройки приложения лежат под ключом 'app'.
func AppSettingsTable() string {
	return `
CREATE TABLE IF NOT EXISTS app_settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL
);
`
}

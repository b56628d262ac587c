package data

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"jotpad_go/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Драйвер SQLite, импортируется для побочных эффектов (регистрации драйвера)
)

const storeModule = "store"

// ErrDuplicateTitle - заметка с таким заголовком (без учета регистра) уже существует.
var ErrDuplicateTitle = errors.New("note with this title already exists")

// Store - адаптер над встроенной SQLite базой: заметки, записи, настройки.
type Store struct {
	db  *sqlx.DB
	log logger.ILogger
}

// resolveDbPath определяет путь к файлу БД.
// Относительный путь считается от текущей рабочей директории, родительская папка создается.
func resolveDbPath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		currentWorkDir, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current working directory: %w", err)
		}
		path = filepath.Join(currentWorkDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return path, nil
}

// Open открывает (или создает) файл БД и применяет схему.
func Open(path string, log logger.ILogger) (*Store, error) {
	dataSourceName, err := resolveDbPath(path)
	if err != nil {
		return nil, err
	}
	log.Info(storeModule, "Using database file", map[string]interface{}{"path": dataSourceName})

	db, err := sqlx.Connect("sqlite3", dataSourceName+"?_foreign_keys=on") // Включаем поддержку внешних ключей
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	// SQLite сериализует запись сам, одно соединение избавляет от "database is locked".
	db.SetMaxOpenConns(1)

	s := &Store{db: db, log: log}
	if err = s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(GetMainSchema()); err != nil {
		return fmt.Errorf("failed to execute main schema: %w", err)
	}
	s.log.Info(storeModule, "Database schema applied successfully", nil)

	// Обновляем схему для баз, созданных до появления закреплений и тегов
	if err := s.ensureColumn("notes", "tags", `ALTER TABLE notes ADD COLUMN tags TEXT DEFAULT '[]'`); err != nil {
		return fmt.Errorf("failed to upgrade notes schema: %w", err)
	}
	if err := s.ensureColumn("notes", "pinned", `ALTER TABLE notes ADD COLUMN pinned INTEGER DEFAULT 0`); err != nil {
		return fmt.Errorf("failed to upgrade notes schema: %w", err)
	}
	if err := s.ensureColumn("note_entries", "pinned", `ALTER TABLE note_entries ADD COLUMN pinned INTEGER DEFAULT 0`); err != nil {
		return fmt.Errorf("failed to upgrade note_entries schema: %w", err)
	}
	return nil
}

// ensureColumn добавляет колонку, если ее нет в таблице.
func (s *Store) ensureColumn(table, column, alter string) error {
	var exists bool
	err := s.db.Get(&exists, `SELECT COUNT(*) > 0 FROM pragma_table_info(?) WHERE name = ?`, table, column)
	if err != nil {
		return fmt.Errorf("ensureColumn: ошибка проверки колонки %s.%s: %w", table, column, err)
	}
	if exists {
		return nil
	}
	if _, err = s.db.Exec(alter); err != nil {
		return fmt.Errorf("ensureColumn: ошибка добавления колонки %s.%s: %w", table, column, err)
	}
	s.log.Info(storeModule, "Column added", map[string]interface{}{"table": table, "column": column})
	return nil
}

// Ping проверяет соединение с БД.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close закрывает соединение с БД.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx выполняет fn в транзакции. Откат происходит при любой ошибке.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("не удалось начать транзакцию: %w", err)
	}
	defer tx.Rollback() // Откатываем, если что-то пошло не так

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("не удалось зафиксировать транзакцию: %w", err)
	}
	return nil
}

package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// DefaultTagColor используется, если у тега не задан цвет.
const DefaultTagColor = "#808080"

// ErrInvalidTag - у тега пустое имя.
var ErrInvalidTag = errors.New("tag name must not be empty")

// Tag представляет собой цветную метку заметки. Идентичность тега - имя без учета регистра.
type Tag struct {
	Name  string `json:"name" validate:"required,max=64"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// Note представляет собой заметку в системе.
// Content хранит превью - текст последней записи заметки.
type Note struct {
	ID        string      `json:"id" db:"id"`
	Title     string      `json:"title" db:"title"`
	Content   *string     `json:"content,omitempty" db:"content"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
	TagsJson  string      `json:"-" db:"tags"`
	Pinned    BoolFromInt `json:"pinned" db:"pinned"`

	Tags []Tag `json:"tags" db:"-"`
}

// UpdateJsonProperties сериализует Tags в JSON строку.
func (n *Note) UpdateJsonProperties() error {
	if n.Tags == nil {
		n.Tags = []Tag{}
	}
	tagBytes, err := json.Marshal(n.Tags)
	if err != nil {
		return err
	}
	n.TagsJson = string(tagBytes)
	return nil
}

// LoadJsonProperties десериализует TagsJson в Tags.
func (n *Note) LoadJsonProperties() error {
	if n.TagsJson == "" {
		n.TagsJson = "[]"
	}
	if err := json.Unmarshal([]byte(n.TagsJson), &n.Tags); err != nil {
		n.Tags = []Tag{}
		return err
	}
	if n.Tags == nil {
		n.Tags = []Tag{}
	}
	return nil
}

// HasTag проверяет, есть ли у заметки тег с указанным именем (без учета регистра).
func (n *Note) HasTag(name string) bool {
	for _, t := range n.Tags {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// Preview возвращает текст превью или пустую строку.
func (n *Note) Preview() string {
	if n.Content == nil {
		return ""
	}
	return *n.Content
}

// NormalizeTags обрезает пробелы, подставляет цвет по умолчанию и убирает дубли
// без учета регистра (остается первый). Тег с пустым именем - ErrInvalidTag.
func NormalizeTags(tags []Tag) ([]Tag, error) {
	out := make([]Tag, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			return nil, ErrInvalidTag
		}
		key := strings.ToLower(t.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		if t.Color == "" {
			t.Color = DefaultTagColor
		}
		out = append(out, t)
	}
	return out, nil
}

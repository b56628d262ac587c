// Package export сериализует заметку с записями в JSON, простой текст или Markdown.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"jotpad_go/models"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON     Format = "json"
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
)

// TimestampLayout - формат времени записи в txt и md.
const TimestampLayout = "2006-01-02 15:04:05"

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat принимает json, txt/text, md/markdown без учета регистра.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "txt", "text":
		return FormatText, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

type document struct {
	Note    models.Note        `json:"note"`
	Entries []models.NoteEntry `json:"entries"`
}

type frontMatter struct {
	Title   string   `yaml:"title"`
	Tags    []string `yaml:"tags"`
	Created string   `yaml:"created"`
	Updated string   `yaml:"updated"`
	Pinned  bool     `yaml:"pinned,omitempty"`
}

// Render возвращает представление заметки в формате f. Результат зависит только от входа.
func Render(note models.Note, entries []models.NoteEntry, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return renderJSON(note, entries)
	case FormatText:
		return renderText(note, entries), nil
	case FormatMarkdown:
		return renderMarkdown(note, entries)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

func renderJSON(note models.Note, entries []models.NoteEntry) ([]byte, error) {
	if entries == nil {
		entries = []models.NoteEntry{}
	}
	if note.Tags == nil {
		note.Tags = []models.Tag{}
	}
	out, err := json.MarshalIndent(document{Note: note, Entries: entries}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("renderJSON: %w", err)
	}
	return append(out, '\n'), nil
}

func renderText(note models.Note, entries []models.NoteEntry) []byte {
	var buf bytes.Buffer
	buf.WriteString(note.Title)
	buf.WriteString("\n")
	buf.WriteString("Tags: ")
	buf.WriteString(strings.Join(tagNames(note.Tags), ", "))
	buf.WriteString("\n\n")
	for _, e := range entries {
		stamp := "[" + e.Timestamp.Format(TimestampLayout) + "] "
		fmt.Fprintf(&buf, "%s%s\n", stamp, indentLines(e.Text, strings.Repeat(" ", len(stamp))))
	}
	return buf.Bytes()
}

func renderMarkdown(note models.Note, entries []models.NoteEntry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	fm := frontMatter{
		Title:   note.Title,
		Tags:    tagNames(note.Tags),
		Created: note.CreatedAt.Format(time.RFC3339),
		Updated: note.UpdatedAt.Format(time.RFC3339),
		Pinned:  bool(note.Pinned),
	}
	if err := encoder.Encode(fm); err != nil {
		return nil, fmt.Errorf("renderMarkdown: failed to encode frontmatter: %w", err)
	}
	encoder.Close()
	buf.WriteString("---\n\n")

	fmt.Fprintf(&buf, "# %s\n\n", note.Title)
	buf.WriteString("## Entries\n\n")
	for _, e := range entries {
		fmt.Fprintf(&buf, "- **%s** %s\n", e.Timestamp.Format(TimestampLayout), indentLines(e.Text, "  "))
	}
	return buf.Bytes(), nil
}

// indentLines сдвигает строки многострочной записи на indent, чтобы они
// оставались внутри своей строки [ts] или пункта списка.
func indentLines(text, indent string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\n", "\n"+indent)
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

// FileName строит имя файла из заголовка: остаются только буквы и цифры.
func FileName(title string, f Format) string {
	base := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, title)
	if base == "" {
		base = "note"
	}
	return base + f.Extension()
}

// WriteFile сохраняет экспорт в dir и возвращает путь к файлу.
func WriteFile(dir string, note models.Note, entries []models.NoteEntry, f Format) (string, error) {
	content, err := Render(note, entries, f)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("WriteFile: failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, FileName(note.Title, f))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("WriteFile: %w", err)
	}
	return path, nil
}

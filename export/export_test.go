package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jotpad_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleNote() (models.Note, []models.NoteEntry) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	note := models.Note{
		ID:        "n1",
		Title:     "Trip: Rome!",
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
		Tags:      []models.Tag{{Name: "travel", Color: "#00ff00"}, {Name: "2024", Color: "#808080"}},
	}
	entries := []models.NoteEntry{
		{ID: "e1", NoteID: "n1", Text: "book flights", Timestamp: created.Add(time.Minute)},
		{ID: "e2", NoteID: "n1", Text: "pack", Timestamp: created.Add(2 * time.Minute)},
	}
	return note, entries
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "TXT": FormatText, "text": FormatText, "md": FormatMarkdown, " Markdown ": FormatMarkdown} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRenderMarkdown(t *testing.T) {
	note, entries := sampleNote()
	out, err := Render(note, entries, FormatMarkdown)
	require.NoError(t, err)
	text := string(out)

	assert.Equal(t, 1, strings.Count(text, "\n## "))
	assert.Contains(t, text, "# Trip: Rome!\n")
	assert.Contains(t, text, "- **2024-01-02 03:05:05** book flights\n")
	assert.Contains(t, text, "- **2024-01-02 03:06:05** pack\n")
	assert.Equal(t, 2, strings.Count(text, "\n- **"))

	parts := strings.SplitN(text, "---", 3)
	require.Len(t, parts, 3)
	var fm frontMatter
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, "Trip: Rome!", fm.Title)
	assert.Equal(t, []string{"travel", "2024"}, fm.Tags)
	assert.Equal(t, "2024-01-02T03:04:05Z", fm.Created)
}

func TestRenderText(t *testing.T) {
	note, entries := sampleNote()
	out, err := Render(note, entries, FormatText)
	require.NoError(t, err)
	want := "Trip: Rome!\nTags: travel, 2024\n\n" +
		"[2024-01-02 03:05:05] book flights\n" +
		"[2024-01-02 03:06:05] pack\n"
	assert.Equal(t, want, string(out))
}

func TestRenderJSON(t *testing.T) {
	note, entries := sampleNote()
	out, err := Render(note, entries, FormatJSON)
	require.NoError(t, err)

	var doc struct {
		Note    models.Note        `json:"note"`
		Entries []models.NoteEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "n1", doc.Note.ID)
	assert.Len(t, doc.Note.Tags, 2)
	assert.Len(t, doc.Entries, 2)

	again, err := Render(note, entries, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, out, again)

	empty, err := Render(models.Note{ID: "x", Title: "x"}, nil, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(empty), `"entries": []`)

	_, err = Render(note, entries, Format("pdf"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "TripRome.md", FileName("Trip: Rome!", FormatMarkdown))
	assert.Equal(t, "Заметка1.txt", FileName("Заметка #1", FormatText))
	assert.Equal(t, "note.json", FileName("?!/", FormatJSON))
}

func TestWriteFile(t *testing.T) {
	note, entries := sampleNote()
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := WriteFile(dir, note, entries, FormatText)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "TripRome.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "Trip: Rome!\n"))
}

func TestMultilineEntryStaysInsideItsLine(t *testing.T) {
	note, _ := sampleNote()
	entries := []models.NoteEntry{
		{ID: "e1", Text: "first line\r\nsecond line", Timestamp: time.Date(2024, 1, 2, 3, 5, 5, 0, time.UTC)},
	}

	md, err := Render(note, entries, FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, string(md), "- **2024-01-02 03:05:05** first line\n  second line\n")
	assert.Equal(t, 1, strings.Count(string(md), "\n- **"))

	txt, err := Render(note, entries, FormatText)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(txt),
		"[2024-01-02 03:05:05] first line\n"+strings.Repeat(" ", 22)+"second line\n"))
}

package repository

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jotpad_go/data"
	"jotpad_go/logger"
	"jotpad_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) (*data.Store, *NoteRepository) {
	t.Helper()
	store, err := data.Open(filepath.Join(t.TempDir(), "jotpad.db"), logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	notes := NewNoteRepository(store, logger.NewNopLogger())
	require.NoError(t, notes.Load(context.Background()))
	return store, notes
}

// openNote создает заметку и репозиторий записей с управляемыми часами.
func openNote(t *testing.T, store *data.Store, notes *NoteRepository, title string) (*models.Note, *EntryRepository) {
	t.Helper()
	ctx := context.Background()
	note, err := notes.Create(ctx, title, nil)
	require.NoError(t, err)

	entries := NewEntryRepository(store, notes, logger.NewNopLogger())
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	entries.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	require.NoError(t, entries.Load(ctx, note.ID))
	return note, entries
}

func previewOfNote(t *testing.T, notes *NoteRepository, id string) string {
	t.Helper()
	n, ok := notes.Get(id)
	require.True(t, ok)
	return n.Preview()
}

func TestPreviewTruncation(t *testing.T) {
	assert.Equal(t, "short", Preview("short"))
	exact := strings.Repeat("a", PreviewLength)
	assert.Equal(t, exact, Preview(exact))
	long := strings.Repeat("б", PreviewLength+5)
	assert.Equal(t, strings.Repeat("б", PreviewLength)+"...", Preview(long))
}

func TestCreateRejectsDuplicateTitle(t *testing.T) {
	_, notes := newTestRepos(t)
	ctx := context.Background()

	_, err := notes.Create(ctx, "Shopping", nil)
	require.NoError(t, err)

	_, err = notes.Create(ctx, "shopping", nil)
	assert.ErrorIs(t, err, ErrDuplicateTitle)
	assert.True(t, notes.IsDuplicateTitle("SHOPPING ", ""))

	_, err = notes.Create(ctx, "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Len(t, notes.List(), 1)
}

func TestUpdateAllowsSameTitleForEditedNote(t *testing.T) {
	_, notes := newTestRepos(t)
	ctx := context.Background()
	a, err := notes.Create(ctx, "Alpha", nil)
	require.NoError(t, err)
	_, err = notes.Create(ctx, "Beta", nil)
	require.NoError(t, err)

	updated, err := notes.Update(ctx, a.ID, "ALPHA", []models.Tag{{Name: "x"}})
	require.NoError(t, err)
	assert.Equal(t, "ALPHA", updated.Title)
	assert.Equal(t, models.DefaultTagColor, updated.Tags[0].Color)

	_, err = notes.Update(ctx, a.ID, "beta", nil)
	assert.ErrorIs(t, err, ErrDuplicateTitle)

	_, err = notes.Update(ctx, "missing", "Gamma", nil)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestListPinnedFirstThenSortOrder(t *testing.T) {
	_, notes := newTestRepos(t)
	ctx := context.Background()
	first, _ := notes.Create(ctx, "b-first", nil)
	time.Sleep(2 * time.Millisecond)
	second, _ := notes.Create(ctx, "c-second", nil)
	time.Sleep(2 * time.Millisecond)
	third, _ := notes.Create(ctx, "a-third", nil)

	titles := func() []string {
		var out []string
		for _, n := range notes.List() {
			out = append(out, n.Title)
		}
		return out
	}

	assert.Equal(t, []string{third.Title, second.Title, first.Title}, titles())

	require.NoError(t, notes.TogglePin(ctx, first.ID, true))
	assert.Equal(t, []string{first.Title, third.Title, second.Title}, titles())
	assert.Len(t, notes.Pinned(), 1)

	notes.SetSortOrder(models.SortOldest)
	assert.Equal(t, []string{first.Title, second.Title, third.Title}, titles())

	notes.SetSortOrder(models.SortTitle)
	assert.Equal(t, []string{first.Title, third.Title, second.Title}, titles())

	require.NoError(t, notes.TogglePin(ctx, first.ID, false))
	assert.Equal(t, []string{third.Title, first.Title, second.Title}, titles())
}

func TestGlobalTagsFirstSeenColorWins(t *testing.T) {
	_, notes := newTestRepos(t)
	ctx := context.Background()
	notes.SetSortOrder(models.SortOldest)

	_, err := notes.Create(ctx, "One", []models.Tag{{Name: "Work", Color: "#ff0000"}, {Name: "work", Color: "#000000"}})
	require.NoError(t, err)
	_, err = notes.Create(ctx, "Two", []models.Tag{{Name: "WORK", Color: "#00ff00"}, {Name: "home", Color: "#0000ff"}})
	require.NoError(t, err)

	tags := notes.Tags()
	require.Len(t, tags, 2)
	assert.Equal(t, models.Tag{Name: "Work", Color: "#ff0000"}, tags[0])
	assert.Equal(t, models.Tag{Name: "home", Color: "#0000ff"}, tags[1])

	assert.Len(t, notes.Filter("work"), 2)
	assert.Len(t, notes.Filter("HOME"), 1)
	assert.Len(t, notes.Filter(""), 2)

	_, err = notes.Create(ctx, "Three", []models.Tag{{Name: " "}})
	assert.ErrorIs(t, err, ErrInvalidTag)
}

func TestTagRenameAndDeleteCascade(t *testing.T) {
	_, notes := newTestRepos(t)
	ctx := context.Background()
	_, err := notes.Create(ctx, "One", []models.Tag{{Name: "todo", Color: "#ff0000"}})
	require.NoError(t, err)
	_, err = notes.Create(ctx, "Two", []models.Tag{{Name: "TODO", Color: "#00ff00"}})
	require.NoError(t, err)

	touched, err := notes.RenameTag(ctx, "todo", "tasks")
	require.NoError(t, err)
	assert.Equal(t, 2, touched)
	assert.Len(t, notes.Filter("tasks"), 2)
	assert.Empty(t, notes.Filter("todo"))

	touched, err = notes.DeleteTag(ctx, "Tasks")
	require.NoError(t, err)
	assert.Equal(t, 2, touched)
	assert.Empty(t, notes.Tags())

	_, err = notes.RenameTag(ctx, "", "x")
	assert.ErrorIs(t, err, ErrInvalidTag)
}

func TestDeleteNoteCascadesEntries(t *testing.T) {
	store, notes := newTestRepos(t)
	ctx := context.Background()
	note, entries := openNote(t, store, notes, "Doomed")
	_, err := entries.Add(ctx, "one")
	require.NoError(t, err)
	_, err = entries.Add(ctx, "two")
	require.NoError(t, err)

	require.NoError(t, notes.Delete(ctx, note.ID))

	left, err := store.GetEntriesByNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	_, ok := notes.Get(note.ID)
	assert.False(t, ok)

	assert.ErrorIs(t, notes.Delete(ctx, note.ID), ErrNoteNotFound)
}

func TestAddEntryUpdatesPreview(t *testing.T) {
	store, notes := newTestRepos(t)
	ctx := context.Background()
	note, entries := openNote(t, store, notes, "Chat")

	_, err := entries.Add(ctx, "hello there")
	require.NoError(t, err)
	assert.Equal(t, "hello there", previewOfNote(t, notes, note.ID))

	long := strings.Repeat("x", 50)
	_, err = entries.Add(ctx, long)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 40)+"...", previewOfNote(t, notes, note.ID))

	stored, err := store.GetNoteByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 40)+"...", stored.Preview())

	_, err = entries.Add(ctx, "  ")
	assert.ErrorIs(t, err, ErrEmptyEntry)
}

func TestEditOnlyLastEntryRefreshesPreview(t *testing.T) {
	store, notes := newTestRepos(t)
	ctx := context.Background()
	note, entries := openNote(t, store, notes, "Edits")

	first, err := entries.Add(ctx, "first")
	require.NoError(t, err)
	last, err := entries.Add(ctx, "last")
	require.NoError(t, err)

	require.NoError(t, entries.Edit(ctx, first.ID, "first edited"))
	assert.Equal(t, "last", previewOfNote(t, notes, note.ID))
	assert.Equal(t, "first edited", entries.List()[0].Text)

	require.NoError(t, entries.Edit(ctx, last.ID, "last edited"))
	assert.Equal(t, "last edited", previewOfNote(t, notes, note.ID))

	assert.ErrorIs(t, entries.Edit(ctx, "missing", "x"), ErrEntryNotFound)
}

func TestDeleteLastEntryRecomputesPreview(t *testing.T) {
	store, notes := newTestRepos(t)
	ctx := context.Background()
	note, entries := openNote(t, store, notes, "Deletes")

	first, _ := entries.Add(ctx, "first")
	second, _ := entries.Add(ctx, "second")

	require.NoError(t, entries.Delete(ctx, second.ID))
	assert.Equal(t, "first", previewOfNote(t, notes, note.ID))

	require.NoError(t, entries.Delete(ctx, first.ID))
	assert.Equal(t, "", previewOfNote(t, notes, note.ID))
	assert.Empty(t, entries.List())

	stored, err := store.GetNoteByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Content)
}

func TestTogglePinEntryIsolated(t *testing.T) {
	store, notes := newTestRepos(t)
	ctx := context.Background()
	_, entries := openNote(t, store, notes, "Pins")

	a, _ := entries.Add(ctx, "a")
	b, _ := entries.Add(ctx, "b")
	c, _ := entries.Add(ctx, "c")

	require.NoError(t, entries.TogglePin(ctx, b.ID, true))
	pinned := entries.Pinned()
	require.Len(t, pinned, 1)
	assert.Equal(t, b.ID, pinned[0].ID)

	list := entries.List()
	assert.False(t, bool(list[0].Pinned))
	assert.True(t, bool(list[1].Pinned))
	assert.False(t, bool(list[2].Pinned))

	require.NoError(t, entries.TogglePin(ctx, c.ID, true))
	require.NoError(t, entries.TogglePin(ctx, b.ID, false))
	pinned = entries.Pinned()
	require.Len(t, pinned, 1)
	assert.Equal(t, c.ID, pinned[0].ID)
	assert.Equal(t, a.ID, entries.List()[0].ID)
}

func TestEntryFromOtherNoteIsRejected(t *testing.T) {
	store, notes := newTestRepos(t)
	ctx := context.Background()
	_, one := openNote(t, store, notes, "One")
	_, two := openNote(t, store, notes, "Two")

	foreign, err := one.Add(ctx, "mine")
	require.NoError(t, err)

	assert.ErrorIs(t, two.Delete(ctx, foreign.ID), ErrEntryNotFound)
	assert.ErrorIs(t, two.TogglePin(ctx, foreign.ID, true), ErrEntryNotFound)
	assert.Len(t, one.List(), 1)
}

func TestLoadMissingNote(t *testing.T) {
	store, notes := newTestRepos(t)
	entries := NewEntryRepository(store, notes, logger.NewNopLogger())
	assert.ErrorIs(t, entries.Load(context.Background(), "missing"), ErrNoteNotFound)

	_, err := entries.Add(context.Background(), "text")
	assert.ErrorIs(t, err, ErrNoteNotLoaded)
}

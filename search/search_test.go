package search

import (
	"testing"

	"jotpad_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(texts ...string) []models.NoteEntry {
	out := make([]models.NoteEntry, len(texts))
	for i, t := range texts {
		out[i] = models.NoteEntry{ID: string(rune('a' + i)), Text: t}
	}
	return out
}

func TestFilterCaseInsensitive(t *testing.T) {
	list := entries("abcdef", "xyz", "ABCxyz")

	got := Filter(list, "abc")
	require.Len(t, got, 2)
	assert.Equal(t, "abcdef", got[0].Text)
	assert.Equal(t, "ABCxyz", got[1].Text)

	assert.Len(t, Filter(list, ""), 3)
	assert.Len(t, Filter(list, "   "), 3)
	assert.Empty(t, Filter(list, "nope"))
}

func TestHighlightMarksEveryOccurrence(t *testing.T) {
	segs := Highlight("Go go GO!", "go")
	assert.Equal(t, []Segment{
		{Text: "Go", Marked: true},
		{Text: " "},
		{Text: "go", Marked: true},
		{Text: " "},
		{Text: "GO", Marked: true},
		{Text: "!"},
	}, segs)
}

func TestHighlightEmptyQueryReturnsOriginal(t *testing.T) {
	assert.Equal(t, []Segment{{Text: "Hello"}}, Highlight("Hello", ""))
	assert.Equal(t, []Segment{{Text: "Hello"}}, Highlight("Hello", "zzz"))
}

func TestFindMatchesUnicodeAndNonOverlapping(t *testing.T) {
	text := "Привет, ПРИВЕТ"
	spans := FindMatches(text, "привет")
	require.Len(t, spans, 2)
	assert.Equal(t, "Привет", text[spans[0][0]:spans[0][1]])
	assert.Equal(t, "ПРИВЕТ", text[spans[1][0]:spans[1][1]])

	assert.Equal(t, [][2]int{{0, 2}, {2, 4}}, FindMatches("aaaa", "aa"))
}

func TestHighlightHTMLEscapes(t *testing.T) {
	got := HighlightHTML("<b>tag</b> TAG", "tag")
	assert.Equal(t, "&lt;b&gt;<mark>tag</mark>&lt;/b&gt; <mark>TAG</mark>", got)
}

func TestNavigatorCycles(t *testing.T) {
	nav := NewNavigator()
	count := nav.Search(entries("abcdef", "xyz", "ABCxyz"), "abc")
	require.Equal(t, 2, count)
	assert.Equal(t, 0, nav.Index())

	cur, ok := nav.Current()
	require.True(t, ok)
	assert.Equal(t, 0, cur.EntryIndex)

	m, ok := nav.Next()
	require.True(t, ok)
	assert.Equal(t, 1, nav.Index())
	assert.Equal(t, 2, m.EntryIndex)
	assert.Equal(t, "c", m.EntryID)

	nav.Next()
	assert.Equal(t, 0, nav.Index())

	nav.Prev()
	assert.Equal(t, 1, nav.Index())
}

func TestNavigatorOrderWithinEntry(t *testing.T) {
	nav := NewNavigator()
	nav.Search(entries("a-a", "a"), "A")
	matches := nav.Matches()
	require.Len(t, matches, 3)
	assert.Equal(t, Match{EntryID: "a", EntryIndex: 0, Start: 0, End: 1}, matches[0])
	assert.Equal(t, Match{EntryID: "a", EntryIndex: 0, Start: 2, End: 3}, matches[1])
	assert.Equal(t, Match{EntryID: "b", EntryIndex: 1, Start: 0, End: 1}, matches[2])
}

func TestNavigatorResetAndEmptyQuery(t *testing.T) {
	nav := NewNavigator()
	nav.Search(entries("abc"), "abc")
	require.Equal(t, 1, nav.Len())

	nav.Reset()
	assert.Equal(t, -1, nav.Index())
	assert.Zero(t, nav.Len())
	assert.Empty(t, nav.Query())
	_, ok := nav.Next()
	assert.False(t, ok)

	nav.Search(entries("abc"), "abc")
	assert.Zero(t, nav.Search(entries("abc"), " "))
	assert.Equal(t, -1, nav.Index())

	assert.Zero(t, nav.Search(entries("abc"), "zzz"))
	_, ok = nav.Current()
	assert.False(t, ok)
}

func TestQueryIsTrimmed(t *testing.T) {
	assert.Equal(t, []Segment{{Text: "x"}, {Text: "abc", Marked: true}, {Text: "x"}}, Highlight("xabcx", " abc"))
	assert.Len(t, Filter(entries("xabcx"), " abc "), 1)
}

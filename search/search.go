// Package search ищет подстроку в записях заметки без учета регистра,
// размечает совпадения для подсветки и ведет навигацию по ним.
package search

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"jotpad_go/models"
)

// Segment - кусок текста записи. Marked - это совпадение с запросом.
type Segment struct {
	Text   string `json:"text"`
	Marked bool   `json:"marked"`
}

// Match - одно совпадение. Start и End - байтовые смещения в тексте записи.
type Match struct {
	EntryID    string `json:"entryId"`
	EntryIndex int    `json:"entryIndex"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

// normalize обрезает пробелы по краям. Запрос из одних пробелов считается пустым.
func normalize(query string) []rune {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	return []rune(query)
}

// Filter возвращает записи, в тексте которых встречается query.
// Пустой запрос возвращает все записи. Пробелы по краям query отбрасываются:
// " abc" ищется как "abc", в том числе внутри слов.
func Filter(entries []models.NoteEntry, query string) []models.NoteEntry {
	q := normalize(query)
	if q == nil {
		out := make([]models.NoteEntry, len(entries))
		copy(out, entries)
		return out
	}
	out := []models.NoteEntry{}
	for _, e := range entries {
		if _, _, ok := next(e.Text, 0, q); ok {
			out = append(out, e)
		}
	}
	return out
}

// FindMatches возвращает непересекающиеся совпадения query в text слева направо.
func FindMatches(text, query string) [][2]int {
	q := normalize(query)
	if q == nil {
		return nil
	}
	var spans [][2]int
	for pos := 0; pos < len(text); {
		start, end, ok := next(text, pos, q)
		if !ok {
			break
		}
		spans = append(spans, [2]int{start, end})
		pos = end
	}
	return spans
}

// Highlight делит text на сегменты, помечая каждое совпадение.
// При пустом запросе возвращается один непомеченный сегмент с исходным текстом.
// Как и в Filter, query обрезается по краям, поэтому " abc" подсветит "abc" внутри "xabcx".
func Highlight(text, query string) []Segment {
	spans := FindMatches(text, query)
	if len(spans) == 0 {
		return []Segment{{Text: text}}
	}
	segments := make([]Segment, 0, 2*len(spans)+1)
	pos := 0
	for _, s := range spans {
		if s[0] > pos {
			segments = append(segments, Segment{Text: text[pos:s[0]]})
		}
		segments = append(segments, Segment{Text: text[s[0]:s[1]], Marked: true})
		pos = s[1]
	}
	if pos < len(text) {
		segments = append(segments, Segment{Text: text[pos:]})
	}
	return segments
}

// HighlightHTML экранирует текст и оборачивает совпадения в <mark>.
func HighlightHTML(text, query string) string {
	var b strings.Builder
	for _, seg := range Highlight(text, query) {
		if seg.Marked {
			b.WriteString("<mark>")
			b.WriteString(html.EscapeString(seg.Text))
			b.WriteString("</mark>")
			continue
		}
		b.WriteString(html.EscapeString(seg.Text))
	}
	return b.String()
}

// next ищет первое совпадение q в text, начиная с байта from.
func next(text string, from int, q []rune) (int, int, bool) {
	for i := from; i < len(text); {
		if end, ok := matchAt(text, i, q); ok {
			return i, end, true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return 0, 0, false
}

// matchAt сравнивает q с text посимвольно с позиции i и возвращает конец совпадения.
func matchAt(text string, i int, q []rune) (int, bool) {
	for _, qr := range q {
		if i >= len(text) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.ToLower(r) != unicode.ToLower(qr) {
			return 0, false
		}
		i += size
	}
	return i, true
}

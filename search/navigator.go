package search

import (
	"sync"

	"jotpad_go/models"
)

// Navigator хранит состояние поиска в открытой заметке:
// все совпадения в порядке документа и индекс активного.
type Navigator struct {
	mu      sync.Mutex
	query   string
	matches []Match
	current int
}

func NewNavigator() *Navigator {
	return &Navigator{current: -1}
}

// Search собирает совпадения query по записям (порядок записей, затем смещение)
// и делает активным первое. Пустой запрос сбрасывает состояние.
func (n *Navigator) Search(entries []models.NoteEntry, query string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetLocked()
	if normalize(query) == nil {
		return 0
	}
	n.query = query
	for i, e := range entries {
		for _, s := range FindMatches(e.Text, query) {
			n.matches = append(n.matches, Match{EntryID: e.ID, EntryIndex: i, Start: s[0], End: s[1]})
		}
	}
	if len(n.matches) > 0 {
		n.current = 0
	}
	return len(n.matches)
}

// Next делает активным следующее совпадение, после последнего - первое.
func (n *Navigator) Next() (Match, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.matches) == 0 {
		return Match{}, false
	}
	n.current = (n.current + 1) % len(n.matches)
	return n.matches[n.current], true
}

// Prev делает активным предыдущее совпадение, перед первым - последнее.
func (n *Navigator) Prev() (Match, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.matches) == 0 {
		return Match{}, false
	}
	n.current = (n.current - 1 + len(n.matches)) % len(n.matches)
	return n.matches[n.current], true
}

// Current возвращает активное совпадение - то, к которому нужно прокрутить.
func (n *Navigator) Current() (Match, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current < 0 {
		return Match{}, false
	}
	return n.matches[n.current], true
}

// Index возвращает индекс активного совпадения или -1.
func (n *Navigator) Index() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *Navigator) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.matches)
}

func (n *Navigator) Query() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.query
}

// Matches возвращает копию всех совпадений.
func (n *Navigator) Matches() []Match {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Match, len(n.matches))
	copy(out, n.matches)
	return out
}

// Reset выключает поиск.
func (n *Navigator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetLocked()
}

func (n *Navigator) resetLocked() {
	n.query = ""
	n.matches = nil
	n.current = -1
}

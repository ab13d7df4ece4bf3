package cache

// Entity is anything with a stable identifier, used for de-duplication
// across overlapping paginated windows.
type Entity interface {
	EntityID() string
}

// Page is one cached, merged result window for a filter key. Items keep
// the server return order (creation time descending); each id appears at
// most once. NextOffset is meaningful only while HasMore is true.
type Page[T Entity] struct {
	Items      []T
	NextOffset int
	HasMore    bool
}

// NewPage builds a page from a raw gateway result. A short page (fewer
// items than requested) signals exhaustion, even when it carried items;
// an empty offset-0 page is the terminal "no records" state.
func NewPage[T Entity](items []T, offset, limit int) Page[T] {
	if len(items) < limit {
		return Page[T]{Items: items}
	}
	return Page[T]{Items: items, NextOffset: offset + limit, HasMore: true}
}

// dedupeByID drops later occurrences of an id, preserving the position
// of the first.
func dedupeByID[T Entity](items []T) []T {
	seen := make(map[string]struct{}, len(items))
	out := items[:0:0]
	for _, item := range items {
		id := item.EntityID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, item)
	}
	return out
}

// containsID reports whether any item carries the given id.
func containsID[T Entity](items []T, id string) bool {
	for _, item := range items {
		if item.EntityID() == id {
			return true
		}
	}
	return false
}

package cache

// Store is a keyed cache of paginated list results. The key identifies
// the filter criteria excluding offset; pages fetched at different
// offsets merge into one entry per key.
//
// A Store is owned by the event loop: every method must be called from
// the same goroutine. Network fetches run elsewhere and re-enter through
// Resolve/Fail with the Token issued by BeginFetch.
type Store[K comparable, T Entity] struct {
	entries  map[K]*entry[T]
	inflight map[fetchArgs[K]]struct{}
	seq      map[K]uint64
}

type entry[T Entity] struct {
	page  Page[T]
	stale bool
}

type fetchArgs[K comparable] struct {
	key    K
	offset int
}

// Token ties a resolving fetch back to the request that issued it, so
// stale responses can be fenced off.
type Token[K comparable] struct {
	Key    K
	Offset int
	seq    uint64
}

// NewStore creates an empty store.
func NewStore[K comparable, T Entity]() *Store[K, T] {
	return &Store[K, T]{
		entries:  make(map[K]*entry[T]),
		inflight: make(map[fetchArgs[K]]struct{}),
		seq:      make(map[K]uint64),
	}
}

// BeginFetch registers an outgoing fetch. It returns ok=false when an
// identical request is already in flight, coalescing duplicate
// round-trips. Each accepted fetch bumps the key's sequence; older
// outstanding fetches for the same key will be discarded on resolve.
func (s *Store[K, T]) BeginFetch(key K, offset int) (Token[K], bool) {
	args := fetchArgs[K]{key: key, offset: offset}
	if _, dup := s.inflight[args]; dup {
		return Token[K]{}, false
	}

	s.inflight[args] = struct{}{}
	s.seq[key]++
	return Token[K]{Key: key, Offset: offset, seq: s.seq[key]}, true
}

// Resolve merges a fetched page into the entry for the token's key and
// reports whether the merge was applied. A fetch that resolves after a
// newer fetch was issued for the same key is discarded, keeping merges
// ordered by issue time rather than completion time.
//
// Merge rule: an offset-0 page replaces the item list (refetch after
// external change); a later page is appended and the whole list is
// de-duplicated by id, first occurrence winning. NextOffset/HasMore are
// always taken from the incoming page.
func (s *Store[K, T]) Resolve(t Token[K], page Page[T]) bool {
	delete(s.inflight, fetchArgs[K]{key: t.Key, offset: t.Offset})

	if t.seq != s.seq[t.Key] {
		return false
	}

	e, ok := s.entries[t.Key]
	if !ok || t.Offset == 0 {
		s.entries[t.Key] = &entry[T]{page: page}
		return true
	}

	merged := append(append([]T(nil), e.page.Items...), page.Items...)
	e.page.Items = dedupeByID(merged)
	e.page.NextOffset = page.NextOffset
	e.page.HasMore = page.HasMore
	e.stale = false
	return true
}

// Fail releases the in-flight slot for a fetch that errored. The last
// good page for the key is preserved.
func (s *Store[K, T]) Fail(t Token[K]) {
	delete(s.inflight, fetchArgs[K]{key: t.Key, offset: t.Offset})
}

// Get returns the merged page for a key, if resident.
func (s *Store[K, T]) Get(key K) (Page[T], bool) {
	e, ok := s.entries[key]
	if !ok {
		return Page[T]{}, false
	}
	return e.page, true
}

// Contains reports whether the entry for key is resident and holds the
// given entity id.
func (s *Store[K, T]) Contains(key K, id string) bool {
	e, ok := s.entries[key]
	return ok && containsID(e.page.Items, id)
}

// Fetching reports whether any fetch for the key is in flight.
func (s *Store[K, T]) Fetching(key K) bool {
	for args := range s.inflight {
		if args.key == key {
			return true
		}
	}
	return false
}

// Keys returns every resident key.
func (s *Store[K, T]) Keys() []K {
	keys := make([]K, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

// Update mutates a resident entry in place and returns an undo closure
// restoring the pre-mutation page. Only the mutation coordinator may
// write speculative data through this.
func (s *Store[K, T]) Update(key K, fn func(*Page[T])) (undo func(), ok bool) {
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}

	snapshot := e.page
	snapshot.Items = append([]T(nil), e.page.Items...)

	fn(&e.page)

	return func() {
		if cur, still := s.entries[key]; still {
			cur.page = snapshot
		}
	}, true
}

// MarkStale flags a resident entry for refetch without discarding its
// data.
func (s *Store[K, T]) MarkStale(key K) {
	if e, ok := s.entries[key]; ok {
		e.stale = true
	}
}

// MarkStaleContaining flags every resident entry holding the given id.
func (s *Store[K, T]) MarkStaleContaining(id string) {
	for _, e := range s.entries {
		if containsID(e.page.Items, id) {
			e.stale = true
		}
	}
}

// StaleKeys returns the keys flagged for refetch, skipping those with a
// fetch already in flight.
func (s *Store[K, T]) StaleKeys() []K {
	var keys []K
	for k, e := range s.entries {
		if e.stale && !s.Fetching(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Clear drops every entry and forgets all in-flight fetches; used at
// session teardown. Outstanding fetches resolve into nothing: their
// sequence check fails against the reset counters.
func (s *Store[K, T]) Clear() {
	s.entries = make(map[K]*entry[T])
	s.inflight = make(map[fetchArgs[K]]struct{})
	for k := range s.seq {
		s.seq[k]++
	}
}

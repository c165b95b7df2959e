package store

import (
	"errors"
	"slices"
	"sync"
)

// ErrNotFound is wrapped by every entity-specific not-found error.
var ErrNotFound = errors.New("not found")

// Entity is implemented by the values kept in a Store. WithID returns a copy
// carrying the given id; Clone returns a copy that shares no mutable memory.
type Entity[T any] interface {
	EntityID() int64
	WithID(id int64) T
	Clone() T
}

// Store is an in-memory, id-indexed collection. Ids come from a counter that
// starts at 0 and only ever grows, so a deleted id is never handed out again.
type Store[T Entity[T]] struct {
	notFound error

	mu    sync.RWMutex
	next  int64
	items map[int64]T
}

// New returns an empty store. notFound is returned by Read, Update and Delete
// for absent ids; pass nil to use ErrNotFound.
func New[T Entity[T]](notFound error) *Store[T] {
	if notFound == nil {
		notFound = ErrNotFound
	}
	return &Store[T]{
		notFound: notFound,
		items:    make(map[int64]T),
	}
}

func (s *Store[T]) Create(v T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	item := v.WithID(id)
	s.items[id] = item
	return item.Clone()
}

// All returns every stored entity ordered by id, which is also insertion order.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.items[id].Clone())
	}
	return out
}

func (s *Store[T]) Read(id int64) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, s.notFound
	}
	return item.Clone(), nil
}

// Update replaces the whole record stored under id. The id carried by v is
// ignored.
func (s *Store[T]) Update(id int64, v T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		var zero T
		return zero, s.notFound
	}
	item := v.WithID(id)
	s.items[id] = item
	return item.Clone(), nil
}

func (s *Store[T]) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return s.notFound
	}
	delete(s.items, id)
	return nil
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

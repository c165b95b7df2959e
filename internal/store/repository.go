package store

import (
	"context"
	"encoding/json"

	"mcqbank/internal/audit"
)

// CRUD is the operation set every entity repository exposes to transports.
type CRUD[T any] interface {
	Create(ctx context.Context, v T) T
	All(ctx context.Context) []T
	Read(ctx context.Context, id int64) (T, error)
	Update(ctx context.Context, id int64, v T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Repository couples a Store with an audit trail. Audit failures never fail
// the operation that produced them.
type Repository[T Entity[T]] struct {
	kind  string
	store *Store[T]
	audit audit.Recorder
}

func NewRepository[T Entity[T]](kind string, notFound error, rec audit.Recorder) *Repository[T] {
	return &Repository[T]{
		kind:  kind,
		store: New[T](notFound),
		audit: audit.OrNop(rec),
	}
}

func (r *Repository[T]) Kind() string { return r.kind }

func (r *Repository[T]) Create(ctx context.Context, v T) T {
	out := r.store.Create(v)
	r.record(ctx, audit.ActionCreated, out.EntityID(), out)
	return out
}

func (r *Repository[T]) All(_ context.Context) []T {
	return r.store.All()
}

func (r *Repository[T]) Read(_ context.Context, id int64) (T, error) {
	return r.store.Read(id)
}

func (r *Repository[T]) Update(ctx context.Context, id int64, v T) (T, error) {
	out, err := r.store.Update(id, v)
	if err != nil {
		return out, err
	}
	r.record(ctx, audit.ActionUpdated, id, out)
	return out, nil
}

func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	if err := r.store.Delete(id); err != nil {
		return err
	}
	r.record(ctx, audit.ActionDeleted, id, nil)
	return nil
}

func (r *Repository[T]) Len() int {
	return r.store.Len()
}

func (r *Repository[T]) record(ctx context.Context, action string, id int64, v any) {
	var payload map[string]any
	if v != nil {
		payload = fieldsOf(v)
	}
	_ = r.audit.Record(ctx, audit.NewEvent(action, r.kind, id, payload))
}

func fieldsOf(v any) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}

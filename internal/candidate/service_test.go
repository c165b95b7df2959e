package candidate

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestCandidateTestScenario(t *testing.T) {
	ctx := context.Background()
	repo := NewTestRepository(nil)

	first := repo.Create(ctx, CandidateTest{CandidateID: 0, TestID: 0})
	if first.ID != 0 {
		t.Fatalf("expected id 0, got %d", first.ID)
	}
	second := repo.Create(ctx, CandidateTest{CandidateID: 0, TestID: 1})
	if second.ID != 1 {
		t.Fatalf("expected id 1, got %d", second.ID)
	}

	updated, err := repo.Update(ctx, 0, CandidateTest{CandidateID: 1, TestID: 1})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := CandidateTest{ID: 0, CandidateID: 1, TestID: 1}
	if updated != want {
		t.Fatalf("update: got %+v want %+v", updated, want)
	}

	got, err := repo.Read(ctx, 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != want {
		t.Fatalf("read after update: got %+v want %+v", got, want)
	}
}

func TestCandidateTestAcceptsDanglingReferences(t *testing.T) {
	ctx := context.Background()
	candidates := NewRepository(nil)
	assignments := NewTestRepository(nil)

	ct := assignments.Create(ctx, CandidateTest{CandidateID: 404, TestID: 500})
	if ct.CandidateID != 404 || ct.TestID != 500 {
		t.Fatalf("unexpected assignment: %+v", ct)
	}
	if _, err := candidates.Read(ctx, 404); !errors.Is(err, ErrCandidateNotFound) {
		t.Fatalf("expected candidate 404 to be absent, got %v", err)
	}
}

func TestCandidateAllAfterCreatesAndDeletes(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(nil)

	names := []string{"Ada", "Grace", "Linus", "Ken"}
	for _, n := range names {
		repo.Create(ctx, Candidate{Name: n})
	}
	for _, id := range []int64{0, 2} {
		if err := repo.Delete(ctx, id); err != nil {
			t.Fatalf("delete %d: %v", id, err)
		}
	}

	want := []Candidate{{ID: 1, Name: "Grace"}, {ID: 3, Name: "Ken"}}
	if got := repo.All(ctx); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

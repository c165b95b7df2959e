package seed

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"mcqbank/internal/candidate"
	"mcqbank/internal/fixedtest"
	"mcqbank/internal/question"
)

func newTargets() Targets {
	return Targets{
		Questions:      question.NewRepository(nil),
		Collections:    question.NewCollectionRepository(nil),
		Tests:          fixedtest.NewRepository(nil),
		Candidates:     candidate.NewRepository(nil),
		CandidateTests: candidate.NewTestRepository(nil),
	}
}

func TestSampleMatchesBuiltInData(t *testing.T) {
	ctx := context.Background()
	fx, err := Sample()
	if err != nil {
		t.Fatalf("sample: %v", err)
	}

	to := newTargets()
	sum := Apply(ctx, fx, to)
	if sum != (Summary{Collections: 2, Questions: 2, Tests: 1}) {
		t.Fatalf("unexpected summary: %s", sum)
	}

	q, err := to.Questions.Read(ctx, 1)
	if err != nil {
		t.Fatalf("read question 1: %v", err)
	}
	want := question.Question{
		ID:            1,
		CollectionIDs: []int64{0, 1},
		Stem:          "The answer is b?",
		Options:       []string{"A", "B", "C", "D"},
		CorrectAnswer: 1,
	}
	if !reflect.DeepEqual(q, want) {
		t.Fatalf("got %+v want %+v", q, want)
	}

	test, err := to.Tests.Read(ctx, 0)
	if err != nil {
		t.Fatalf("read test 0: %v", err)
	}
	if test.Name != "Test 1" || test.PassMark != 1 || !reflect.DeepEqual(test.QuestionIDs, []int64{0, 1}) {
		t.Fatalf("unexpected test: %+v", test)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("questions:\n  - stem: x\n    answer: 2\n"))
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	fx, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("decode empty: %v", err)
	}
	if sum := Apply(context.Background(), fx, newTargets()); sum != (Summary{}) {
		t.Fatalf("expected nothing applied, got %s", sum)
	}
}

func TestLoadFileWithCandidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	body := `candidates:
  - name: Ada
  - name: Grace
candidate_tests:
  - candidate_id: 1
    test_id: 0
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fx, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ctx := context.Background()
	to := newTargets()
	to.Tests = nil
	sum := Apply(ctx, fx, to)
	if sum.Candidates != 2 || sum.CandidateTests != 1 {
		t.Fatalf("unexpected summary: %s", sum)
	}

	ct, err := to.CandidateTests.Read(ctx, 0)
	if err != nil {
		t.Fatalf("read candidate test: %v", err)
	}
	if ct != (candidate.CandidateTest{ID: 0, CandidateID: 1, TestID: 0}) {
		t.Fatalf("unexpected candidate test: %+v", ct)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

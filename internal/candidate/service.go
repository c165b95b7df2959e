package candidate

import (
	"fmt"

	"mcqbank/internal/audit"
	"mcqbank/internal/store"
)

var (
	ErrCandidateNotFound     = fmt.Errorf("candidate %w", store.ErrNotFound)
	ErrCandidateTestNotFound = fmt.Errorf("candidate test %w", store.ErrNotFound)
)

const (
	KindCandidate     = "candidate"
	KindCandidateTest = "candidate_test"
)

type Candidate struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (c Candidate) EntityID() int64 { return c.ID }

func (c Candidate) WithID(id int64) Candidate {
	c.ID = id
	return c
}

func (c Candidate) Clone() Candidate { return c }

// CandidateTest assigns a fixed test to a candidate. Both ids are stored
// without checking that they exist.
type CandidateTest struct {
	ID          int64 `json:"id"`
	CandidateID int64 `json:"candidate_id"`
	TestID      int64 `json:"test_id"`
}

func (ct CandidateTest) EntityID() int64 { return ct.ID }

func (ct CandidateTest) WithID(id int64) CandidateTest {
	ct.ID = id
	return ct
}

func (ct CandidateTest) Clone() CandidateTest { return ct }

type (
	Repository     = store.Repository[Candidate]
	TestRepository = store.Repository[CandidateTest]
)

func NewRepository(rec audit.Recorder) *Repository {
	return store.NewRepository[Candidate](KindCandidate, ErrCandidateNotFound, rec)
}

func NewTestRepository(rec audit.Recorder) *TestRepository {
	return store.NewRepository[CandidateTest](KindCandidateTest, ErrCandidateTestNotFound, rec)
}

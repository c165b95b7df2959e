package fixedtest

import (
	"fmt"
	"slices"

	"mcqbank/internal/audit"
	"mcqbank/internal/store"
)

var ErrTestNotFound = fmt.Errorf("fixed test %w", store.ErrNotFound)

const Kind = "fixed_test"

// FixedTest is an ordered selection of questions with a pass mark. The
// question ids are stored as given.
type FixedTest struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	QuestionIDs []int64 `json:"question_ids"`
	PassMark    int     `json:"pass_mark"`
}

func (t FixedTest) EntityID() int64 { return t.ID }

func (t FixedTest) WithID(id int64) FixedTest {
	c := t.Clone()
	c.ID = id
	return c
}

func (t FixedTest) Clone() FixedTest {
	t.QuestionIDs = slices.Clone(t.QuestionIDs)
	return t
}

type Repository = store.Repository[FixedTest]

func NewRepository(rec audit.Recorder) *Repository {
	return store.NewRepository[FixedTest](Kind, ErrTestNotFound, rec)
}

package question

import (
	"fmt"
	"slices"

	"mcqbank/internal/audit"
	"mcqbank/internal/store"
)

var (
	ErrQuestionNotFound   = fmt.Errorf("question %w", store.ErrNotFound)
	ErrCollectionNotFound = fmt.Errorf("question collection %w", store.ErrNotFound)
)

const (
	KindQuestion   = "mcq_question"
	KindCollection = "question_collection"
)

// Question is a multiple-choice question. CorrectAnswer indexes Options and
// CollectionIDs reference collections; neither is checked.
type Question struct {
	ID            int64    `json:"id"`
	CollectionIDs []int64  `json:"collection_ids"`
	Stem          string   `json:"stem"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

func (q Question) EntityID() int64 { return q.ID }

func (q Question) WithID(id int64) Question {
	c := q.Clone()
	c.ID = id
	return c
}

func (q Question) Clone() Question {
	q.CollectionIDs = slices.Clone(q.CollectionIDs)
	q.Options = slices.Clone(q.Options)
	return q
}

type Collection struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (c Collection) EntityID() int64 { return c.ID }

func (c Collection) WithID(id int64) Collection {
	c.ID = id
	return c
}

func (c Collection) Clone() Collection { return c }

type (
	Repository           = store.Repository[Question]
	CollectionRepository = store.Repository[Collection]
)

func NewRepository(rec audit.Recorder) *Repository {
	return store.NewRepository[Question](KindQuestion, ErrQuestionNotFound, rec)
}

func NewCollectionRepository(rec audit.Recorder) *CollectionRepository {
	return store.NewRepository[Collection](KindCollection, ErrCollectionNotFound, rec)
}

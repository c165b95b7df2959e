package fixedtest

import (
	"context"
	"encoding/json"
	"errors"
	"math"

	"mcqbank/internal/question"
	"mcqbank/internal/store"
)

// QuestionReader resolves the questions a test references.
type QuestionReader interface {
	Read(ctx context.Context, id int64) (question.Question, error)
}

const (
	ReasonCorrect            = "correct"
	ReasonWrong              = "wrong"
	ReasonUnanswered         = "unanswered"
	ReasonMalformedPayload   = "malformed_payload"
	ReasonMalformedAnswerKey = "malformed_answer_key"
)

type QuestionScore struct {
	QuestionID int64  `json:"question_id"`
	Answered   bool   `json:"answered"`
	IsCorrect  *bool  `json:"is_correct,omitempty"`
	Earned     int    `json:"earned"`
	Reason     string `json:"reason"`
	Selected   *int   `json:"selected,omitempty"`
	Correct    int    `json:"correct"`
}

type TestScore struct {
	TestID   int64           `json:"test_id"`
	Earned   int             `json:"earned"`
	Total    int             `json:"total"`
	PassMark int             `json:"pass_mark"`
	Passed   bool            `json:"passed"`
	Missing  []int64         `json:"missing_question_ids"`
	Results  []QuestionScore `json:"results"`
}

// ScoreQuestion grades one answer payload of the form {"selected": <option
// index>} against q. A one-element array is accepted in place of the index.
func ScoreQuestion(q question.Question, payload []byte) QuestionScore {
	res := QuestionScore{QuestionID: q.ID, Correct: q.CorrectAnswer}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		res.Reason = ReasonMalformedAnswerKey
		return res
	}

	selected, status := parseSelection(payload)
	switch status {
	case ReasonUnanswered:
		res.Reason = ReasonUnanswered
		return res
	case ReasonMalformedPayload:
		res.Answered = true
		res.IsCorrect = boolPtr(false)
		res.Reason = ReasonMalformedPayload
		return res
	}

	res.Answered = true
	res.Selected = &selected
	if selected < 0 || selected >= len(q.Options) {
		res.IsCorrect = boolPtr(false)
		res.Reason = ReasonMalformedPayload
		return res
	}
	if selected == q.CorrectAnswer {
		res.IsCorrect = boolPtr(true)
		res.Earned = 1
		res.Reason = ReasonCorrect
		return res
	}
	res.IsCorrect = boolPtr(false)
	res.Reason = ReasonWrong
	return res
}

// Score grades answers, keyed by question id, against every question of t.
// Question ids that no longer resolve are listed in Missing and do not count
// towards Total. Answers for questions outside the test are ignored.
func Score(ctx context.Context, t FixedTest, questions QuestionReader, answers map[int64]json.RawMessage) (TestScore, error) {
	out := TestScore{
		TestID:   t.ID,
		PassMark: t.PassMark,
		Missing:  []int64{},
		Results:  make([]QuestionScore, 0, len(t.QuestionIDs)),
	}

	for _, qid := range t.QuestionIDs {
		q, err := questions.Read(ctx, qid)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				out.Missing = append(out.Missing, qid)
				continue
			}
			return TestScore{}, err
		}
		res := ScoreQuestion(q, answers[qid])
		out.Earned += res.Earned
		out.Total++
		out.Results = append(out.Results, res)
	}

	out.Passed = out.Earned >= out.PassMark
	return out, nil
}

func parseSelection(raw []byte) (int, string) {
	if len(raw) == 0 {
		return 0, ReasonUnanswered
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, ReasonMalformedPayload
	}
	if obj == nil {
		return 0, ReasonUnanswered
	}
	v, ok := obj["selected"]
	if !ok || v == nil {
		return 0, ReasonUnanswered
	}
	switch t := v.(type) {
	case float64:
		return optionIndex(t)
	case []interface{}:
		if len(t) == 0 {
			return 0, ReasonUnanswered
		}
		if len(t) > 1 {
			return 0, ReasonMalformedPayload
		}
		f, ok := t[0].(float64)
		if !ok {
			return 0, ReasonMalformedPayload
		}
		return optionIndex(f)
	default:
		return 0, ReasonMalformedPayload
	}
}

func optionIndex(f float64) (int, string) {
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, ReasonMalformedPayload
	}
	return int(f), ""
}

func boolPtr(v bool) *bool {
	return &v
}

// Package delivery renders the page a candidate sees for an assigned test.
package delivery

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"mcqbank/internal/candidate"
	"mcqbank/internal/fixedtest"
	"mcqbank/internal/question"
	"mcqbank/internal/store"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templateFS embed.FS

type reader[T any] interface {
	Read(ctx context.Context, id int64) (T, error)
}

// Sources are the repositories the page reads from. References between
// them are not guaranteed to resolve.
type Sources struct {
	CandidateTests reader[candidate.CandidateTest]
	Candidates     reader[candidate.Candidate]
	Tests          reader[fixedtest.FixedTest]
	Questions      reader[question.Question]
}

type Handler struct {
	src  Sources
	tmpl *template.Template
}

// QuestionView is a question without its answer key.
type QuestionView struct {
	ID      int64
	Stem    string
	Options []string
}

type Page struct {
	Title            string
	CandidateTestID  int64
	CandidateName    string
	TestName         string
	PassMark         int
	Questions        []QuestionView
	MissingQuestions int
}

func NewHandler(src Sources) *Handler {
	funcs := template.FuncMap{"add": func(a, b int) int { return a + b }}
	tmpl := template.Must(template.New("delivery").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
	return &Handler{src: src, tmpl: tmpl}
}

func (h *Handler) CandidateTest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid candidate test id", http.StatusBadRequest)
		return
	}

	page, err := h.Build(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.render(w, http.StatusNotFound, "notfound", Page{Title: "Not found", CandidateTestID: id})
			return
		}
		log.Printf("delivery: build page %d: %v", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.render(w, http.StatusOK, "base", page)
}

// Build assembles the page for one candidate test. Only a missing candidate
// test is an error; unresolved candidate, test or question ids degrade to
// placeholders.
func (h *Handler) Build(ctx context.Context, candidateTestID int64) (Page, error) {
	ct, err := h.src.CandidateTests.Read(ctx, candidateTestID)
	if err != nil {
		return Page{}, err
	}

	page := Page{
		CandidateTestID: ct.ID,
		CandidateName:   "Unknown candidate",
		TestName:        "Unknown test",
		Questions:       []QuestionView{},
	}

	if c, err := h.src.Candidates.Read(ctx, ct.CandidateID); err == nil {
		page.CandidateName = c.Name
	} else if !errors.Is(err, store.ErrNotFound) {
		return Page{}, err
	}

	test, err := h.src.Tests.Read(ctx, ct.TestID)
	switch {
	case err == nil:
		page.TestName = test.Name
		page.PassMark = test.PassMark
	case errors.Is(err, store.ErrNotFound):
		page.Title = page.TestName
		return page, nil
	default:
		return Page{}, err
	}
	page.Title = page.TestName

	for _, qid := range test.QuestionIDs {
		q, err := h.src.Questions.Read(ctx, qid)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				page.MissingQuestions++
				continue
			}
			return Page{}, err
		}
		page.Questions = append(page.Questions, QuestionView{ID: q.ID, Stem: q.Stem, Options: q.Options})
	}
	return page, nil
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, page Page) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, page); err != nil {
		log.Printf("delivery: render %s: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

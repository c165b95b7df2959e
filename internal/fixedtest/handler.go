package fixedtest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"mcqbank/internal/app/apiresp"
	"mcqbank/internal/store"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	tests     store.CRUD[FixedTest]
	questions QuestionReader
}

type testRequest struct {
	Name        string  `json:"name"`
	QuestionIDs []int64 `json:"question_ids"`
	PassMark    int     `json:"pass_mark"`
}

type scoreRequest struct {
	Answers map[int64]json.RawMessage `json:"answers"`
}

func NewHandler(tests store.CRUD[FixedTest], questions QuestionReader) *Handler {
	return &Handler{tests: tests, questions: questions}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/fixedtests", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/score", h.Score)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req testRequest
	if err := decodeStrict(r, &req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	apiresp.WriteOK(w, r, http.StatusCreated, h.tests.Create(r.Context(), req.toTest()))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	apiresp.WriteList(w, r, h.tests.All(r.Context()))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid test id")
		return
	}

	item, err := h.tests.Read(r.Context(), id)
	if err != nil {
		writeRepoError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, item)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid test id")
		return
	}

	var req testRequest
	if err := decodeStrict(r, &req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.tests.Update(r.Context(), id, req.toTest())
	if err != nil {
		writeRepoError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, item)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid test id")
		return
	}

	if err := h.tests.Delete(r.Context(), id); err != nil {
		writeRepoError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, nil)
}

// Score grades a set of answers against the test without storing them.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid test id")
		return
	}

	var req scoreRequest
	if err := decodeStrict(r, &req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	test, err := h.tests.Read(r.Context(), id)
	if err != nil {
		writeRepoError(w, r, err)
		return
	}

	result, err := Score(r.Context(), test, h.questions, req.Answers)
	if err != nil {
		log.Printf("fixedtest: score test %d: %v", id, err)
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, result)
}

func (req testRequest) toTest() FixedTest {
	return FixedTest{Name: req.Name, QuestionIDs: req.QuestionIDs, PassMark: req.PassMark}
}

func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeRepoError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrTestNotFound) {
		apiresp.WriteError(w, r, http.StatusNotFound, err.Error())
		return
	}
	apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
}

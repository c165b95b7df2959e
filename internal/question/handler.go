package question

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"mcqbank/internal/app/apiresp"
	"mcqbank/internal/store"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	questions   store.CRUD[Question]
	collections store.CRUD[Collection]
}

type apiResponse struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type questionRequest struct {
	CollectionIDs []int64  `json:"collection_ids"`
	Stem          string   `json:"stem"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

type collectionRequest struct {
	Name string `json:"name"`
}

func NewHandler(questions store.CRUD[Question], collections store.CRUD[Collection]) *Handler {
	return &Handler{questions: questions, collections: collections}
}

// Routes mounts both resources under the caller's router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/mcqquestions", func(r chi.Router) {
		r.Post("/", h.CreateQuestion)
		r.Get("/", h.ListQuestions)
		r.Get("/{id}", h.GetQuestion)
		r.Put("/{id}", h.UpdateQuestion)
		r.Delete("/{id}", h.DeleteQuestion)
	})
	r.Route("/questioncollections", func(r chi.Router) {
		r.Post("/", h.CreateCollection)
		r.Get("/", h.ListCollections)
		r.Get("/{id}", h.GetCollection)
		r.Put("/{id}", h.UpdateCollection)
		r.Delete("/{id}", h.DeleteCollection)
	})
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decodeStrict(r, &req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "invalid request body"})
		return
	}

	item := h.questions.Create(r.Context(), req.toQuestion())
	writeJSON(w, r, http.StatusCreated, apiResponse{OK: true, Data: item})
}

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	apiresp.WriteList(w, r, h.questions.All(r.Context()))
}

func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid question id")
	if !ok {
		return
	}

	item, err := h.questions.Read(r.Context(), id)
	if err != nil {
		writeRepoError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, apiResponse{OK: true, Data: item})
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid question id")
	if !ok {
		return
	}

	var req questionRequest
	if err := decodeStrict(r, &req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "invalid request body"})
		return
	}

	item, err := h.questions.Update(r.Context(), id, req.toQuestion())
	if err != nil {
		writeRepoError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, apiResponse{OK: true, Data: item})
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid question id")
	if !ok {
		return
	}

	if err := h.questions.Delete(r.Context(), id); err != nil {
		writeRepoError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, apiResponse{OK: true})
}

func (h *Handler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := decodeStrict(r, &req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "invalid request body"})
		return
	}

	item := h.collections.Create(r.Context(), Collection{Name: req.Name})
	writeJSON(w, r, http.StatusCreated, apiResponse{OK: true, Data: item})
}

func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	apiresp.WriteList(w, r, h.collections.All(r.Context()))
}

func (h *Handler) GetCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid collection id")
	if !ok {
		return
	}

	item, err := h.collections.Read(r.Context(), id)
	if err != nil {
		writeRepoError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, apiResponse{OK: true, Data: item})
}

func (h *Handler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid collection id")
	if !ok {
		return
	}

	var req collectionRequest
	if err := decodeStrict(r, &req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: "invalid request body"})
		return
	}

	item, err := h.collections.Update(r.Context(), id, Collection{Name: req.Name})
	if err != nil {
		writeRepoError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, apiResponse{OK: true, Data: item})
}

func (h *Handler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid collection id")
	if !ok {
		return
	}

	if err := h.collections.Delete(r.Context(), id); err != nil {
		writeRepoError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, apiResponse{OK: true})
}

func (req questionRequest) toQuestion() Question {
	return Question{
		CollectionIDs: req.CollectionIDs,
		Stem:          req.Stem,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
	}
}

func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func pathID(w http.ResponseWriter, r *http.Request, msg string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiResponse{OK: false, Error: msg})
		return 0, false
	}
	return id, true
}

func writeRepoError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, r, http.StatusNotFound, apiResponse{OK: false, Error: err.Error()})
	default:
		writeJSON(w, r, http.StatusInternalServerError, apiResponse{OK: false, Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, payload apiResponse) {
	apiresp.WriteLegacy(w, r, code, payload.OK, payload.Data, payload.Error)
}

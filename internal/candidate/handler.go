package candidate

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"mcqbank/internal/app/apiresp"
	"mcqbank/internal/store"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	candidates     store.CRUD[Candidate]
	candidateTests store.CRUD[CandidateTest]
}

type candidateRequest struct {
	Name string `json:"name"`
}

type candidateTestRequest struct {
	CandidateID int64 `json:"candidate_id"`
	TestID      int64 `json:"test_id"`
}

func NewHandler(candidates store.CRUD[Candidate], candidateTests store.CRUD[CandidateTest]) *Handler {
	return &Handler{candidates: candidates, candidateTests: candidateTests}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/candidates", func(r chi.Router) {
		r.Post("/", h.CreateCandidate)
		r.Get("/", h.ListCandidates)
		r.Post("/import", h.ImportCandidates)
		r.Get("/export", h.ExportCandidates)
		r.Get("/{id}", h.GetCandidate)
		r.Put("/{id}", h.UpdateCandidate)
		r.Delete("/{id}", h.DeleteCandidate)
	})
	r.Route("/candidatetests", func(r chi.Router) {
		r.Post("/", h.CreateCandidateTest)
		r.Get("/", h.ListCandidateTests)
		r.Get("/{id}", h.GetCandidateTest)
		r.Put("/{id}", h.UpdateCandidateTest)
		r.Delete("/{id}", h.DeleteCandidateTest)
	})
}

func (h *Handler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req candidateRequest
	if !decodeStrict(w, r, &req) {
		return
	}
	apiresp.WriteOK(w, r, http.StatusCreated, h.candidates.Create(r.Context(), Candidate{Name: req.Name}))
}

func (h *Handler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	apiresp.WriteList(w, r, h.candidates.All(r.Context()))
}

func (h *Handler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.candidates.Read(r.Context(), id)
	if err != nil {
		writeRepoError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, item)
}

func (h *Handler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req candidateRequest
	if !decodeStrict(w, r, &req) {
		return
	}
	item, err := h.candidates.Update(r.Context(), id, Candidate{Name: req.Name})
	if err != nil {
		writeRepoError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, item)
}

func (h *Handler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.candidates.Delete(r.Context(), id); err != nil {
		writeRepoError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, nil)
}

func (h *Handler) CreateCandidateTest(w http.ResponseWriter, r *http.Request) {
	var req candidateTestRequest
	if !decodeStrict(w, r, &req) {
		return
	}
	apiresp.WriteOK(w, r, http.StatusCreated, h.candidateTests.Create(r.Context(), req.toCandidateTest()))
}

func (h *Handler) ListCandidateTests(w http.ResponseWriter, r *http.Request) {
	apiresp.WriteList(w, r, h.candidateTests.All(r.Context()))
}

func (h *Handler) GetCandidateTest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.candidateTests.Read(r.Context(), id)
	if err != nil {
		writeRepoError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, item)
}

func (h *Handler) UpdateCandidateTest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req candidateTestRequest
	if !decodeStrict(w, r, &req) {
		return
	}
	item, err := h.candidateTests.Update(r.Context(), id, req.toCandidateTest())
	if err != nil {
		writeRepoError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, item)
}

func (h *Handler) DeleteCandidateTest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.candidateTests.Delete(r.Context(), id); err != nil {
		writeRepoError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, nil)
}

// ImportCandidates accepts a multipart "file" field holding a CSV or, when the
// filename ends in .xlsx, an Excel workbook.
func (h *Handler) ImportCandidates(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	importer := ImportCSV
	if strings.HasSuffix(strings.ToLower(hdr.Filename), ".xlsx") {
		importer = ImportExcel
	}
	report, err := importer(r.Context(), h.candidates, file)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	apiresp.WriteOK(w, r, http.StatusOK, map[string]any{
		"filename": hdr.Filename,
		"report":   report,
	})
}

func (h *Handler) ExportCandidates(w http.ResponseWriter, r *http.Request) {
	b, err := ExportExcel(h.candidates.All(r.Context()))
	if err != nil {
		log.Printf("candidate: export excel: %v", err)
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="candidates.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (req candidateTestRequest) toCandidateTest() CandidateTest {
	return CandidateTest{CandidateID: req.CandidateID, TestID: req.TestID}
}

func decodeStrict(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeRepoError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrCandidateNotFound), errors.Is(err, ErrCandidateTestNotFound):
		apiresp.WriteError(w, r, http.StatusNotFound, err.Error())
	default:
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
	}
}

package question

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type mockQuestionRepo struct {
	createFn func(ctx context.Context, q Question) Question
	allFn    func(ctx context.Context) []Question
	readFn   func(ctx context.Context, id int64) (Question, error)
	updateFn func(ctx context.Context, id int64, q Question) (Question, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockQuestionRepo) Create(ctx context.Context, q Question) Question {
	return m.createFn(ctx, q)
}

func (m *mockQuestionRepo) All(ctx context.Context) []Question {
	if m.allFn == nil {
		return []Question{}
	}
	return m.allFn(ctx)
}

func (m *mockQuestionRepo) Read(ctx context.Context, id int64) (Question, error) {
	if m.readFn == nil {
		return Question{}, errors.New("not implemented")
	}
	return m.readFn(ctx, id)
}

func (m *mockQuestionRepo) Update(ctx context.Context, id int64, q Question) (Question, error) {
	if m.updateFn == nil {
		return Question{}, errors.New("not implemented")
	}
	return m.updateFn(ctx, id, q)
}

func (m *mockQuestionRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn == nil {
		return errors.New("not implemented")
	}
	return m.deleteFn(ctx, id)
}

func decodeMap(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateQuestionOK(t *testing.T) {
	h := &Handler{questions: &mockQuestionRepo{
		createFn: func(ctx context.Context, q Question) Question {
			if q.Stem != "The answer is a?" || len(q.Options) != 4 || q.CorrectAnswer != 0 {
				t.Fatalf("unexpected input: %+v", q)
			}
			q.ID = 0
			return q
		},
	}}

	payload := []byte(`{"collection_ids":[0],"stem":"The answer is a?","options":["A","B","C","D"],"correct_answer":0}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/mcqquestions", bytes.NewReader(payload))
	w := httptest.NewRecorder()

	h.CreateQuestion(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	body := decodeMap(t, w)
	if body["ok"] != true {
		t.Fatalf("expected ok=true")
	}
	data, _ := body["data"].(map[string]any)
	if data["stem"] != "The answer is a?" {
		t.Fatalf("unexpected data: %+v", data)
	}
}

func TestCreateQuestionRejectsUnknownFields(t *testing.T) {
	h := &Handler{questions: &mockQuestionRepo{
		createFn: func(ctx context.Context, q Question) Question {
			t.Fatalf("create must not be called")
			return q
		},
	}}

	payload := []byte(`{"stem":"x","difficulty":3}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/mcqquestions", bytes.NewReader(payload))
	w := httptest.NewRecorder()

	h.CreateQuestion(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetQuestionNotFound(t *testing.T) {
	h := &Handler{questions: &mockQuestionRepo{
		readFn: func(ctx context.Context, id int64) (Question, error) {
			if id != 9 {
				t.Fatalf("unexpected id: %d", id)
			}
			return Question{}, ErrQuestionNotFound
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/mcqquestions/9", nil)
	req = withParam(req, "id", "9")
	w := httptest.NewRecorder()

	h.GetQuestion(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	body := decodeMap(t, w)
	errObj, _ := body["error"].(map[string]any)
	if errObj["code"] != "not_found" {
		t.Fatalf("expected not_found code, got %+v", body["error"])
	}
}

func TestGetQuestionInvalidID(t *testing.T) {
	h := &Handler{questions: &mockQuestionRepo{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/mcqquestions/abc", nil)
	req = withParam(req, "id", "abc")
	w := httptest.NewRecorder()

	h.GetQuestion(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdateQuestionUsesPathID(t *testing.T) {
	h := &Handler{questions: &mockQuestionRepo{
		updateFn: func(ctx context.Context, id int64, q Question) (Question, error) {
			if id != 1 || q.Stem != "edited" {
				t.Fatalf("unexpected update: id=%d q=%+v", id, q)
			}
			q.ID = id
			return q, nil
		},
	}}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/mcqquestions/1", bytes.NewReader([]byte(`{"stem":"edited"}`)))
	req = withParam(req, "id", "1")
	w := httptest.NewRecorder()

	h.UpdateQuestion(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestDeleteQuestionInternalError(t *testing.T) {
	h := &Handler{questions: &mockQuestionRepo{
		deleteFn: func(ctx context.Context, id int64) error {
			return errors.New("boom")
		},
	}}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/mcqquestions/0", nil)
	req = withParam(req, "id", "0")
	w := httptest.NewRecorder()

	h.DeleteQuestion(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestRoutesCollectionLifecycle(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(NewRepository(nil), NewCollectionRepository(nil)).Routes(r)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		var rdr *bytes.Reader
		if body != "" {
			rdr = bytes.NewReader([]byte(body))
		} else {
			rdr = bytes.NewReader(nil)
		}
		req := httptest.NewRequest(method, target, rdr)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{name: "create first", method: http.MethodPost, target: "/questioncollections", body: `{"name":"collection 1"}`, wantStatus: http.StatusCreated},
		{name: "create second", method: http.MethodPost, target: "/questioncollections", body: `{"name":"collection 2"}`, wantStatus: http.StatusCreated},
		{name: "rename", method: http.MethodPut, target: "/questioncollections/1", body: `{"name":"renamed"}`, wantStatus: http.StatusOK},
		{name: "update missing", method: http.MethodPut, target: "/questioncollections/5", body: `{"name":"x"}`, wantStatus: http.StatusNotFound},
		{name: "delete first", method: http.MethodDelete, target: "/questioncollections/0", wantStatus: http.StatusOK},
		{name: "read deleted", method: http.MethodGet, target: "/questioncollections/0", wantStatus: http.StatusNotFound},
		{name: "delete again", method: http.MethodDelete, target: "/questioncollections/0", wantStatus: http.StatusNotFound},
		{name: "list", method: http.MethodGet, target: "/questioncollections", wantStatus: http.StatusOK},
	}

	for _, tc := range tests {
		w := do(tc.method, tc.target, tc.body)
		if w.Code != tc.wantStatus {
			t.Fatalf("%s: %s %s got %d want %d (%s)", tc.name, tc.method, tc.target, w.Code, tc.wantStatus, w.Body.String())
		}
	}

	w := do(http.MethodGet, "/questioncollections", "")
	var body struct {
		Data []Collection `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].ID != 1 || body.Data[0].Name != "renamed" {
		t.Fatalf("unexpected collections: %+v", body.Data)
	}
}

package apiresp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestWriteOKWithoutDataIsEmptySuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteOK(w, httptest.NewRequest(http.MethodDelete, "/x/1", nil), http.StatusOK, nil)

	body := decode(t, w)
	if body["ok"] != true {
		t.Fatalf("expected ok=true, got %+v", body)
	}
	if _, has := body["data"]; has {
		t.Fatalf("expected no data field, got %+v", body)
	}
	if _, has := body["error"]; has {
		t.Fatalf("expected no error field, got %+v", body)
	}
}

func TestWriteListReportsCount(t *testing.T) {
	w := httptest.NewRecorder()
	var items []string
	WriteList(w, httptest.NewRequest(http.MethodGet, "/x", nil), items)

	body := decode(t, w)
	data, ok := body["data"].([]any)
	if !ok || len(data) != 0 {
		t.Fatalf("expected empty array, got %#v", body["data"])
	}
	meta, _ := body["meta"].(map[string]any)
	if meta["count"] != float64(0) {
		t.Fatalf("expected count 0, got %+v", meta)
	}
}

func TestWriteErrorCodes(t *testing.T) {
	tests := []struct {
		status int
		code   string
	}{
		{http.StatusBadRequest, "invalid_request"},
		{http.StatusNotFound, "not_found"},
		{http.StatusTooManyRequests, "rate_limited"},
		{http.StatusTeapot, "error"},
	}

	for _, tc := range tests {
		w := httptest.NewRecorder()
		WriteError(w, httptest.NewRequest(http.MethodGet, "/", nil), tc.status, "")
		if w.Code != tc.status {
			t.Fatalf("expected status %d, got %d", tc.status, w.Code)
		}
		errObj, _ := decode(t, w)["error"].(map[string]any)
		if errObj["code"] != tc.code {
			t.Fatalf("status %d: expected code %s, got %+v", tc.status, tc.code, errObj)
		}
		if errObj["message"] != http.StatusText(tc.status) {
			t.Fatalf("expected default message, got %+v", errObj)
		}
	}
}

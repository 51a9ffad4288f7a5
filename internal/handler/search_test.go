package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/campushub/campushub/internal/assistant"
)

func TestGlobalSearchRejectsMissingMessage(t *testing.T) {
	h := NewSearchHandler(assistant.NewClient(assistant.Config{APIKey: "k"}), testLogger())

	for _, body := range []string{`{}`, `{"message": 42}`, `{"message": ""}`, `{"message": null}`} {
		rec := httptest.NewRecorder()
		h.GlobalSearch(rec, httptest.NewRequest("POST", "/api/global-search", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestGlobalSearchNotConfigured(t *testing.T) {
	h := NewSearchHandler(assistant.NewClient(assistant.Config{}), testLogger())

	rec := httptest.NewRecorder()
	h.GlobalSearch(rec, httptest.NewRequest("POST", "/api/global-search", strings.NewReader(`{"message":"hi"}`)))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestGlobalSearchRelaysReply(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"check the jobs page"}}]}`))
	}))
	defer upstream.Close()

	h := NewSearchHandler(assistant.NewClient(assistant.Config{APIKey: "k", BaseURL: upstream.URL}), testLogger())

	rec := httptest.NewRecorder()
	h.GlobalSearch(rec, httptest.NewRequest("POST", "/api/global-search", strings.NewReader(`{"message":"any jobs?"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["text"] != "check the jobs page" {
		t.Errorf("text = %q", resp["text"])
	}
}

func TestGlobalSearchRelaysUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer upstream.Close()

	h := NewSearchHandler(assistant.NewClient(assistant.Config{APIKey: "k", BaseURL: upstream.URL}), testLogger())

	rec := httptest.NewRecorder()
	h.GlobalSearch(rec, httptest.NewRequest("POST", "/api/global-search", strings.NewReader(`{"message":"hi"}`)))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}

	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["details"] == "" {
		t.Error("upstream details should be relayed")
	}
}

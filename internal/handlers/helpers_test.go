package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSON(w, http.StatusCreated, map[string]string{"id": "abc"})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["id"] != "abc" {
		t.Errorf("body = %v", body)
	}
}

func TestRespondError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondError(w, http.StatusBadRequest, "Question is required")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "Question is required" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 300)
	got := sanitizeErrorMessage(long)
	if len(got) != 203 {
		t.Errorf("len = %d, want 203", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("expected truncation marker")
	}

	if got := sanitizeErrorMessage("short"); got != "short" {
		t.Errorf("short message changed: %q", got)
	}
}

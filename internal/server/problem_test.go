package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriteProblem(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/feed/load", http.NoBody)
	p := StatusProblem(r, http.StatusBadGateway, ProblemType("transport-error"), "could not connect")
	p.Kind = "connection-failed"

	w := httptest.NewRecorder()
	WriteProblem(w, p)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("content-type = %q", ct)
	}
	var got Problem
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := Problem{
		Type:     "https://pkgshelf.dev/problems/transport-error",
		Title:    "Bad Gateway",
		Status:   http.StatusBadGateway,
		Detail:   "could not connect",
		Instance: "/api/v1/feed/load",
		Kind:     "connection-failed",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("problem (-want +got):\n%s", diff)
	}
}

func TestNotFound_OmitsKind(t *testing.T) {
	w := httptest.NewRecorder()
	NotFound(w, httptest.NewRequest("GET", "/api/v1/nothing", http.NoBody), "no such endpoint")

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if _, ok := body["kind"]; ok {
		t.Errorf("kind present in %v", body)
	}
	if body["type"] != ProblemTypeNotFound {
		t.Errorf("type = %v", body["type"])
	}
}

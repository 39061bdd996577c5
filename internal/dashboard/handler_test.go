package dashboard

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	return rec
}

func TestHandler_ServesAssets(t *testing.T) {
	h := Handler()
	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{path: "/", contentType: "text/html", contains: `<script src="/app.js" defer></script>`},
		{path: "/app.js", contentType: "javascript", contains: "/api/v1/feed"},
		{path: "/style.css", contentType: "text/css", contains: ".card"},
		{path: "/some/client/route", contentType: "text/html", contains: "<title>pkgshelf</title>"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, tt.contentType) {
				t.Errorf("Content-Type = %q, want %s", ct, tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestHandler_NoInlineScriptsOrStyles(t *testing.T) {
	body := get(t, Handler(), "/").Body.String()
	for _, bad := range []string{"<style", " style=", "onclick=", "onerror=", "<script>"} {
		if strings.Contains(body, bad) {
			t.Errorf("index.html contains %q, which the content security policy blocks", bad)
		}
	}
}

func TestHandler_ReservedPaths(t *testing.T) {
	h := Handler()
	for _, path := range []string{"/api/v1/feed/page", "/api/v1/ws/feed", "/healthz", "/readyz", "/metrics", "/swagger/index.html"} {
		t.Run(path, func(t *testing.T) {
			if rec := get(t, h, path); rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", rec.Code)
			}
		})
	}
}

func TestHandler_ClientTracksFeedState(t *testing.T) {
	body := get(t, Handler(), "/app.js").Body.String()
	for _, want := range []string{
		"res.data.query === $('searchInput').value",
		"/download?load=",
		"res.status === 409",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("app.js does not contain %q", want)
		}
	}
}

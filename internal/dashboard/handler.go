// Package dashboard serves the embedded browser UI.
package dashboard

import (
	"io/fs"
	"net/http"
	"strings"
)

// Handler serves the static UI. Unknown paths fall back to index.html;
// API and operational paths are never answered here.
func Handler() http.Handler {
	if distFS == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "dashboard not available (dev build)", http.StatusNotFound)
		})
	}

	sub, err := fs.Sub(distFS, "dist")
	if err != nil {
		panic("dashboard: sub filesystem: " + err.Error())
	}
	files := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reserved(r.URL.Path) {
			http.NotFound(w, r)
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/")
		if name == "" {
			name = "index.html"
		}
		if f, err := sub.Open(name); err == nil {
			f.Close()
		} else {
			r.URL.Path = "/"
		}
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	})
}

func reserved(path string) bool {
	switch path {
	case "/healthz", "/readyz", "/metrics":
		return true
	}
	return strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/swagger/")
}

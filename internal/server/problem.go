package server

import (
	"net/http"

	"github.com/goccy/go-json"
)

const problemBase = "https://pkgshelf.dev/problems/"

// Problem types served by the core routes.
const (
	ProblemTypeNotFound    = problemBase + "not-found"
	ProblemTypeInternal    = problemBase + "internal-error"
	ProblemTypeRateLimited = problemBase + "rate-limited"
)

// ProblemType returns the type URI of the named problem.
func ProblemType(name string) string {
	return problemBase + name
}

// Problem is an RFC 7807 problem details body. Kind narrows transport
// failures, for example "connection-failed".
type Problem struct {
	Type     string `json:"type" example:"https://pkgshelf.dev/problems/not-found"`
	Title    string `json:"title" example:"Not Found"`
	Status   int    `json:"status" example:"404"`
	Detail   string `json:"detail,omitempty" example:"no such endpoint"`
	Instance string `json:"instance,omitempty" example:"/api/v1/feed/nothing"`
	Kind     string `json:"kind,omitempty" example:"connection-failed"`
}

// StatusProblem builds a problem for r with the standard title of status.
func StatusProblem(r *http.Request, status int, problemType, detail string) Problem {
	return Problem{
		Type:     problemType,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteProblem writes p as application/problem+json.
func WriteProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func writeStatusProblem(w http.ResponseWriter, r *http.Request, status int, problemType, detail string) {
	WriteProblem(w, StatusProblem(r, status, problemType, detail))
}

// NotFound writes a 404 problem for r.
func NotFound(w http.ResponseWriter, r *http.Request, detail string) {
	writeStatusProblem(w, r, http.StatusNotFound, ProblemTypeNotFound, detail)
}

// InternalError writes a 500 problem for r.
func InternalError(w http.ResponseWriter, r *http.Request, detail string) {
	writeStatusProblem(w, r, http.StatusInternalServerError, ProblemTypeInternal, detail)
}

// RateLimited writes a 429 problem for r.
func RateLimited(w http.ResponseWriter, r *http.Request, detail string) {
	writeStatusProblem(w, r, http.StatusTooManyRequests, ProblemTypeRateLimited, detail)
}

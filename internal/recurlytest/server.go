// Package recurlytest runs an in-process fake of the billing API for tests
// and examples. Routes answer with canned documents and every request is
// recorded so that tests can assert how many calls were made.
package recurlytest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Recorded is one request received by the server.
type Recorded struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     string
}

// Reply is a canned response.
type Reply struct {
	Status  int
	Body    string
	Headers map[string]string
}

// Server is a fake API server.
type Server struct {
	*httptest.Server

	router chi.Router

	mu       sync.Mutex
	requests []Recorded
}

// NewServer starts a server that is closed when t finishes. Unrouted
// requests get a 404 error document.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{router: chi.NewRouter()}
	s.router.Use(s.record)
	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, NotFoundDocument)
	})
	s.Server = httptest.NewServer(s.router)
	t.Cleanup(s.Close)

	return s
}

// Handle answers method requests matching pattern with reply. Patterns use
// chi syntax, e.g. "/accounts/{code}".
func (s *Server) Handle(method, pattern string, reply Reply) {
	s.router.Method(method, pattern, reply)
}

// HandleFunc routes method requests matching pattern to fn.
func (s *Server) HandleFunc(method, pattern string, fn http.HandlerFunc) {
	s.router.Method(method, pattern, fn)
}

// ServeHTTP implements http.Handler.
func (r Reply) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")

	for name, value := range r.Headers {
		w.Header().Set(name, value)
	}

	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}

	w.WriteHeader(status)
	_, _ = io.WriteString(w, r.Body)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Recorded(nil), s.requests...)
}

// Calls counts the requests received for method and path. The query string
// is ignored.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0

	for _, req := range s.requests {
		if req.Method == method && req.Path == path {
			count++
		}
	}

	return count
}

// Last returns the most recent request.
func (s *Server) Last() (Recorded, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) == 0 {
		return Recorded{}, false
	}

	return s.requests[len(s.requests)-1], true
}

// Href returns the absolute URL of path on this server.
func (s *Server) Href(path string) string {
	return s.URL + path
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body strings.Builder

		if r.Body != nil {
			_, _ = io.Copy(&body, r.Body)
			r.Body = io.NopCloser(strings.NewReader(body.String()))
		}

		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body.String(),
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

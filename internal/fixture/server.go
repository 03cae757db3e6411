package fixture

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/jask/storyworld/internal/world"
)

// Server replays stored worlds over the generation endpoint contract.
type Server struct {
	store   *Store
	limiter *rate.Limiter
	now     func() time.Time
}

type Option func(*Server)

// WithRateLimit rejects requests beyond perSecond with 429. Zero disables it.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func NewServer(store *Store, opts ...Option) *Server {
	s := &Server{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler mounts the fixture routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleRoot)
	r.With(s.rateLimit).Post("/generate-world", s.handleGenerate)
	return r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, detail{Detail: "rate limited"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Storyworld fixture server is running!",
		"genres":  s.store.Genres(),
	})
}

type detail struct {
	Detail string `json:"detail"`
}

type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme      *string `json:"theme"`
		Genre      string  `json:"genre"`
		Complexity string  `json:"complexity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []fieldError{{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"}},
		})
		return
	}
	if body.Theme == nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []fieldError{{Loc: []string{"body", "theme"}, Msg: "Field required", Type: "missing"}},
		})
		return
	}
	// same defaults as the form
	req := world.Request{Theme: *body.Theme, Genre: world.GenreFantasy, Complexity: world.ComplexityMedium}
	if g := strings.ToLower(strings.TrimSpace(body.Genre)); g != "" {
		req.Genre = world.Genre(g)
	}
	if c := strings.ToLower(strings.TrimSpace(body.Complexity)); c != "" {
		req.Complexity = world.Complexity(c)
	}

	out, ok := s.store.Lookup(req.Genre)
	if !ok {
		writeJSON(w, http.StatusNotFound, detail{Detail: fmt.Sprintf("no fixture for genre %q", req.Genre)})
		return
	}
	out.Theme = req.Theme
	out.Genre = string(req.Genre)
	out.Complexity = string(req.Complexity)
	created := s.now().UTC().Truncate(time.Second)
	out.CreatedAt = &created
	log.Printf("fixture: served genre=%s theme=%q", req.Genre, req.Theme)
	writeJSON(w, http.StatusOK, out.Normalized())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("fixture: write response: %v", err)
	}
}

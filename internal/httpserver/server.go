// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the assessment backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Auth endpoints: /auth/* (see auth.go).
//   - Assessment, score and report endpoints (see routes_assessments.go).
//   - Live session endpoints and the websocket stream (see routes_sessions.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The websocket route sits outside the Timeout middleware; a stream would
//     otherwise be cut after the handler deadline.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/softskill/apps/go-server/internal/bank"
	"github.com/robalobadob/softskill/apps/go-server/internal/config"
	"github.com/robalobadob/softskill/apps/go-server/internal/pipeline"
	"github.com/robalobadob/softskill/apps/go-server/internal/play"
	"github.com/robalobadob/softskill/apps/go-server/internal/records"
	"github.com/robalobadob/softskill/apps/go-server/internal/store"
)

// Deps are the collaborators the server routes to.
type Deps struct {
	Config   *config.Config
	Records  *records.Store
	Sessions store.Store
	Pipeline play.Dispatcher // nil: outcomes are not recorded
	Bank     *bank.Bank      // nil: bank.Current()
}

// Server bundles router, live sessions and records.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	records  *records.Store
	sessions store.Store
	pipe     play.Dispatcher
	bank     *bank.Bank
	live     liveIndex
	http     *http.Server
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      d.Config,
		records:  d.Records,
		sessions: d.Sessions,
		pipe:     d.Pipeline,
		bank:     d.Bank,
		live:     liveIndex{byID: make(map[int64]string)},
	}
	if s.bank == nil {
		s.bank = bank.Current()
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service":   "softskill-go",
				"endpoints": []string{"/health", "/auth/*", "/assessments", "/sessions", "/scores/mine", "/reports"},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.sessions.Len()})
		})

		s.mountAuth(r)
		s.mountAssessments(r)
		s.mountSessions(r)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
		})
	})

	// Streaming, so no handler timeout.
	s.r.With(s.requireAuth()).Get("/sessions/{id}/ws", s.handleSessionWS)

	return s
}

// Start begins serving HTTP on addr. It returns nil after Shutdown.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and closes every live session.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	s.sessions.CloseAll()
	return err
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// recordedLogger logs where a finished session's pipeline run stopped.
func recordedLogger(assessmentID int64) func(pipeline.Result) {
	return func(res pipeline.Result) {
		ev := log.Debug()
		if res.Err != nil {
			ev = log.Warn().Err(res.Err)
		}
		ev.Int64("assessment", assessmentID).Str("reached", string(res.Reached)).
			Int64("scoreId", res.ScoreID).Int64("reportId", res.ReportID).Msg("outcome recorded")
	}
}

// apps/go-server/internal/httpserver/routes_sessions.go
//
// HTTP routes for live play sessions.
//   - POST   /sessions              → start (or resume) the game of a PENDING assessment
//   - GET    /sessions/{id}         → current snapshot
//   - POST   /sessions/{id}/actions → apply one player action
//   - DELETE /sessions/{id}         → abandon and tear down
//   - GET    /sessions/{id}/ws      → websocket: snapshots out, actions in
//
// Each assessment has at most one live session; starting again while it is
// live returns the same session. Outcomes are recorded by the pipeline, which
// moves the assessment to COMPLETED; the session is discarded once it has run.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/softskill/apps/go-server/internal/pipeline"
	"github.com/robalobadob/softskill/apps/go-server/internal/play"
	"github.com/robalobadob/softskill/apps/go-server/internal/records"
	"github.com/robalobadob/softskill/apps/go-server/internal/rng"
	"github.com/robalobadob/softskill/apps/go-server/internal/store"
)

type startSessionReq struct {
	AssessmentID int64 `json:"assessmentId"`
}

// liveIndex maps assessments to their live session id.
type liveIndex struct {
	mu   sync.Mutex
	byID map[int64]string
}

func (s *Server) mountSessions(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth())
		r.With(requireRole(records.RoleCandidate)).Post("/sessions", s.handleStartSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Post("/sessions/{id}/actions", s.handleAction)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
	})
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	me := userFrom(r.Context())
	a, err := s.records.AssessmentByID(r.Context(), req.AssessmentID)
	if errors.Is(err, records.ErrNotFound) || (err == nil && a.CandidateID != me.ID) {
		writeError(w, http.StatusNotFound, "assessment_not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if a.Status != records.StatusPending {
		writeError(w, http.StatusConflict, "assessment_"+string(a.Status))
		return
	}
	if a.DueDate != nil && a.DueDate.Before(time.Now()) {
		writeError(w, http.StatusConflict, "assessment_overdue")
		return
	}

	s.live.mu.Lock()
	defer s.live.mu.Unlock()
	if id, ok := s.live.byID[a.ID]; ok {
		if sess, err := s.sessions.Get(r.Context(), id); err == nil {
			if _, done := sess.Outcome(); done {
				writeError(w, http.StatusConflict, "assessment_finished")
				return
			}
			s.writeSnapshot(w, r, http.StatusOK, sess)
			return
		}
		delete(s.live.byID, a.ID)
	}

	p := play.Params{
		AssessmentID:  a.ID,
		Kind:          a.Game,
		Bank:          s.bank,
		MatchDelay:    s.cfg.MatchDelay,
		MismatchDelay: s.cfg.MismatchDelay,
		Dispatcher:    s.pipe,
		OnRecorded:    s.onRecorded(a.ID),
	}
	if s.cfg.SeedSalt != "" {
		p.Random = rng.ForAssessment(s.cfg.SeedSalt, string(a.Game), a.ID)
	}
	sess, err := play.Start(r.Context(), accessor{}, p)
	if err != nil {
		log.Warn().Err(err).Int64("assessment", a.ID).Msg("start session")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("save session")
		sess.Close()
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.live.byID[a.ID] = sess.ID
	s.writeSnapshot(w, r, http.StatusCreated, sess)
}

// session loads the path session and checks that the caller owns it.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*play.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) || (err == nil && sess.CandidateID != userFrom(r.Context()).ID) {
		writeError(w, http.StatusNotFound, "session_not_found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error")
		return nil, false
	}
	return sess, true
}

func (s *Server) writeSnapshot(w http.ResponseWriter, r *http.Request, status int, sess *play.Session) {
	snap, err := sess.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusGone, "session_closed")
		return
	}
	writeJSON(w, status, snap)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.session(w, r); ok {
		s.writeSnapshot(w, r, http.StatusOK, sess)
	}
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var a play.Action
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	snap, err := sess.Apply(r.Context(), a)
	switch {
	case errors.Is(err, play.ErrUnknownAction):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, play.ErrClosed):
		writeError(w, http.StatusGone, "session_closed")
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.forget(sess)
	w.WriteHeader(http.StatusNoContent)
}

// onRecorded logs the pipeline result and discards the finished session.
// The last snapshot has already reached every subscriber.
func (s *Server) onRecorded(assessmentID int64) func(pipeline.Result) {
	logResult := recordedLogger(assessmentID)
	return func(res pipeline.Result) {
		logResult(res)
		s.live.mu.Lock()
		id, ok := s.live.byID[assessmentID]
		delete(s.live.byID, assessmentID)
		s.live.mu.Unlock()
		if ok {
			s.sessions.Delete(context.Background(), id)
		}
	}
}

func (s *Server) forget(sess *play.Session) {
	s.live.mu.Lock()
	if s.live.byID[sess.AssessmentID] == sess.ID {
		delete(s.live.byID, sess.AssessmentID)
	}
	s.live.mu.Unlock()
	s.sessions.Delete(context.Background(), sess.ID)
}

// ------------------------------ websocket ----------------------------------

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 54 * time.Second
)

// wsMessage is what the server sends on the stream.
type wsMessage struct {
	Type     string         `json:"type"` // "snapshot" | "error"
	Snapshot *play.Snapshot `json:"snapshot,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return o == "" || o == s.cfg.ClientOrigin
		},
	}
}

// handleSessionWS streams snapshots and accepts actions on one connection.
func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade")
		return
	}
	updates, unsubscribe := sess.Subscribe()
	out := make(chan wsMessage, 4)
	done := make(chan struct{})

	go func() {
		defer close(done)
		s.wsRead(conn, sess, out)
	}()
	s.wsWrite(conn, sess, updates, out, done)
	unsubscribe()
	_ = conn.Close()
}

// wsRead applies incoming actions; errors go back to this client only.
func (s *Server) wsRead(conn *websocket.Conn, sess *play.Session, out chan<- wsMessage) {
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		var a play.Action
		if err := conn.ReadJSON(&a); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("session", sess.ID).Msg("websocket read")
			}
			return
		}
		// The resulting snapshot reaches every subscriber, this one included.
		if _, err := sess.Apply(context.Background(), a); err != nil {
			select {
			case out <- wsMessage{Type: "error", Error: err.Error()}:
			default:
			}
			if errors.Is(err, play.ErrClosed) {
				return
			}
		}
	}
}

func (s *Server) wsWrite(conn *websocket.Conn, sess *play.Session, updates <-chan play.Snapshot, out <-chan wsMessage, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	send := func(m wsMessage) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(m) == nil
	}
	if snap, err := sess.Snapshot(context.Background()); err == nil {
		if !send(wsMessage{Type: "snapshot", Snapshot: &snap}) {
			return
		}
	}
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			if !send(wsMessage{Type: "snapshot", Snapshot: &snap}) {
				return
			}
		case m := <-out:
			if !send(m) {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

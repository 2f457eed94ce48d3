// apps/go-server/internal/httpserver/routes_assessments.go
//
// Assessment, score and report endpoints.
//
// Endpoints:
//   POST /assessments       (recruiter) assign a game to a candidate by email
//   GET  /assessments/mine  candidate: assigned to me; recruiter: created by me
//   GET  /scores/mine       (candidate) my recorded scores
//   GET  /reports           (recruiter) reports addressed to me

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/softskill/apps/go-server/internal/game"
	"github.com/robalobadob/softskill/apps/go-server/internal/records"
)

type createAssessmentReq struct {
	CandidateEmail string     `json:"candidateEmail"`
	Game           string     `json:"game"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
}

func (s *Server) mountAssessments(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth())
		r.With(requireRole(records.RoleRecruiter)).Post("/assessments", s.handleCreateAssessment)
		r.Get("/assessments/mine", s.handleMyAssessments)
		r.With(requireRole(records.RoleCandidate)).Get("/scores/mine", s.handleMyScores)
		r.With(requireRole(records.RoleRecruiter)).Get("/reports", s.handleReports)
	})
}

func (s *Server) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req createAssessmentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	kind, err := game.ParseKind(req.Game)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cand, err := s.records.UserByEmail(r.Context(), req.CandidateEmail)
	if errors.Is(err, records.ErrNotFound) || (err == nil && cand.Role != records.RoleCandidate) {
		writeError(w, http.StatusNotFound, "candidate_not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	a, err := s.records.CreateAssessment(r.Context(), records.Assessment{
		HRID:        userFrom(r.Context()).ID,
		CandidateID: cand.ID,
		Game:        kind,
		DueDate:     req.DueDate,
	})
	if err != nil {
		log.Error().Err(err).Msg("create assessment")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleMyAssessments(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r.Context())
	var (
		list []records.Assessment
		err  error
	)
	if me.Role == records.RoleRecruiter {
		list, err = s.records.AssessmentsForRecruiter(r.Context(), me.ID)
	} else {
		list, err = s.records.AssessmentsForCandidate(r.Context(), me.ID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleMyScores(w http.ResponseWriter, r *http.Request) {
	list, err := s.records.ScoresForCandidate(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	list, err := s.records.ReportsForUser(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

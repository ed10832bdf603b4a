package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/abhisek/fluentplan/internal/coach"
	"github.com/abhisek/fluentplan/internal/newsletter"
	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/store"
)

const saveWarning = "Your results could not be saved. You can still read them here, but email follow-ups are unavailable."

type evaluateRequest struct {
	Responses         json.RawMessage `json:"responses"`
	CompletionSeconds float64         `json:"completionSeconds"`
}

func (req evaluateRequest) parse() (quiz.ResponseSet, error) {
	if len(req.Responses) == 0 {
		return nil, fmt.Errorf("%w: responses are required", errBadRequest)
	}
	return quiz.Parse(req.Responses)
}

type assessmentResponse struct {
	ID       string               `json:"id,omitempty"`
	Result   scoring.ResultBundle `json:"result"`
	Warnings []string             `json:"warnings"`
}

type captureRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type captureResponse struct {
	DeliveryID string `json:"deliveryId"`
	Status     string `json:"status"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// handleQuestions returns the question catalog in the order it is asked.
func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"rulesVersion": scoring.RulesVersion,
		"questions":    quiz.Catalog(),
	})
}

// handleEvaluate scores a response set without storing it.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	rs, err := req.parse()
	if err != nil {
		writeFailure(w, err)
		return
	}
	bundle, hit := s.evals.Evaluate(rs)
	s.metrics.evaluated(hit)
	writeJSON(w, http.StatusOK, bundle)
}

// handleCreateAssessment scores and stores a completed assessment. A storage
// failure does not withhold the result; it is reported as a warning.
func (s *Server) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	rs, err := req.parse()
	if err != nil {
		writeFailure(w, err)
		return
	}
	if req.CompletionSeconds < 0 {
		writeError(w, http.StatusBadRequest, "completionSeconds must not be negative")
		return
	}

	bundle, hit := s.evals.Evaluate(rs)
	s.metrics.evaluated(hit)
	resp := assessmentResponse{Result: bundle, Warnings: []string{}}

	rec := store.NewRecord(rs, bundle, time.Duration(req.CompletionSeconds*float64(time.Second)))
	if err := s.assessments.Save(r.Context(), rec); err != nil {
		s.logger.Error("save assessment", "error", err)
		resp.Warnings = append(resp.Warnings, saveWarning)
		writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.ID = rec.ID
	s.metrics.assessmentSaved(string(rec.ProfileID))
	if err := s.counter.Add(r.Context(), rec); err != nil {
		s.logger.Warn("update live segments", "id", rec.ID, "error", err)
	}
	s.logger.Info("assessment saved", "id", rec.ID, "profile", rec.ProfileID, "intensity", rec.Intensity)
	writeJSON(w, http.StatusOK, resp)
}

// handleCaptureEmail attaches an email to an assessment and queues the
// newsletter subscription.
func (s *Server) handleCaptureEmail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req captureRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, err)
		return
	}

	d, err := newsletter.CaptureEmail(r.Context(), s.assessments, s.deliveries, id, req.Email, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, newsletter.ErrInvalidEmail):
			s.metrics.captured("invalid")
		case errors.Is(err, store.ErrNotFound):
			s.metrics.captured("not_found")
		default:
			s.metrics.captured("error")
			s.logger.Error("capture email", "id", id, "error", err)
		}
		writeFailure(w, err)
		return
	}
	s.metrics.captured("queued")
	if s.outbox == nil {
		s.logger.Warn("newsletter not configured, subscription left pending", "id", id)
	}
	writeJSON(w, http.StatusOK, captureResponse{DeliveryID: d.ID, Status: string(d.Status)})
}

// handleCoach writes a coaching note for a stored assessment.
func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request) {
	if !s.coach.Enabled() {
		writeFailure(w, coach.ErrDisabled)
		return
	}
	rec, err := s.assessments.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFailure(w, err)
		return
	}
	note, err := s.coach.Compose(r.Context(), rec.Responses, rec.Result)
	if err != nil {
		s.logger.Warn("coach note failed", "id", rec.ID, "error", err)
		writeError(w, http.StatusBadGateway, "coaching note unavailable")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// handleLogin exchanges admin credentials for a token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	token, expires, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.logger.Warn("admin login rejected", "username", req.Username)
		}
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expires})
}

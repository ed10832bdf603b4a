package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/abhisek/fluentplan/internal/coach"
	"github.com/abhisek/fluentplan/internal/newsletter"
	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/store"
)

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error  string       `json:"error"`
	Issues []quiz.Issue `json:"issues,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeFailure maps a domain error to its HTTP status.
func writeFailure(w http.ResponseWriter, err error) {
	var verr *quiz.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid responses", Issues: verr.Issues})
	case errors.Is(err, errBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "assessment not found")
	case errors.Is(err, newsletter.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, coach.ErrDisabled), errors.Is(err, ErrAdminDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

var errBadRequest = errors.New("bad request")

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

// queryInt reads a non-negative integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errBadRequest, name)
	}
	return n, nil
}

// assessmentView is the JSON form of a stored assessment.
type assessmentView struct {
	ID                string                `json:"id"`
	Seq               int64                 `json:"seq"`
	Email             string                `json:"email,omitempty"`
	UserName          string                `json:"userName,omitempty"`
	Language          string                `json:"language,omitempty"`
	CustomLanguage    string                `json:"customLanguage,omitempty"`
	ProfileID         scoring.ProfileID     `json:"profileId"`
	Intensity         int                   `json:"intensityLevel"`
	TimeCommitment    int                   `json:"timeCommitment"`
	CompletionSeconds float64               `json:"completionSeconds"`
	RulesVersion      string                `json:"rulesVersion"`
	Responses         quiz.ResponseSet      `json:"responses,omitempty"`
	Result            *scoring.ResultBundle `json:"result,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

// newAssessmentView renders rec. The list view omits the answers and the
// bundle.
func newAssessmentView(rec *store.Record, detailed bool) assessmentView {
	v := assessmentView{
		ID:                rec.ID,
		Seq:               rec.Seq,
		Email:             rec.Email,
		UserName:          rec.UserName,
		Language:          rec.Language,
		CustomLanguage:    rec.CustomLanguage,
		ProfileID:         rec.ProfileID,
		Intensity:         rec.Intensity,
		TimeCommitment:    rec.TimeCommitment,
		CompletionSeconds: rec.CompletionTime.Seconds(),
		RulesVersion:      rec.RulesVersion,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
	if detailed {
		v.Responses = rec.Responses
		result := rec.Result
		v.Result = &result
	}
	return v
}

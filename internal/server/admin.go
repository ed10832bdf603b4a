package server

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/abhisek/fluentplan/internal/mail"
	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/segments"
	"github.com/abhisek/fluentplan/internal/store"
)

const defaultPageSize = 50

type listResponse struct {
	Assessments []assessmentView `json:"assessments"`
	Total       int              `json:"total"`
	Limit       int              `json:"limit"`
	Offset      int              `json:"offset"`
}

type segmentsResponse struct {
	Summary  *segments.Stats                            `json:"summary,omitempty"`
	Segments map[segments.Dimension][]segments.KeyCount `json:"segments"`
}

type analysisResponse struct {
	QuestionID string            `json:"questionId"`
	Title      string            `json:"title"`
	Buckets    []segments.Bucket `json:"buckets"`
}

// queryOpts reads the filters shared by the admin listing endpoints.
func queryOpts(r *http.Request) store.QueryOpts {
	q := r.URL.Query()
	return store.QueryOpts{
		ProfileID: scoring.ProfileID(q.Get("profile")),
		Language:  strings.ToLower(q.Get("language")),
		Email:     q.Get("email"),
	}
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil {
		writeFailure(w, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeFailure(w, err)
		return
	}
	opts := queryOpts(r)
	opts.Limit, opts.Offset = limit, offset

	recs, err := s.assessments.List(r.Context(), opts)
	if err != nil {
		s.logger.Error("list assessments", "error", err)
		writeFailure(w, err)
		return
	}
	total, err := s.assessments.Count(r.Context())
	if err != nil {
		s.logger.Error("count assessments", "error", err)
		writeFailure(w, err)
		return
	}

	resp := listResponse{
		Assessments: make([]assessmentView, 0, len(recs)),
		Total:       total,
		Limit:       limit,
		Offset:      offset,
	}
	for _, rec := range recs {
		resp.Assessments = append(resp.Assessments, newAssessmentView(rec, false))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	rec, err := s.assessments.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAssessmentView(rec, true))
}

func (s *Server) handleDeleteAssessment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.assessments.Delete(r.Context(), id); err != nil {
		writeFailure(w, err)
		return
	}
	s.logger.Info("assessment deleted", "id", id, "by", AdminUser(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// handleSegments recomputes segments from every stored record.
func (s *Server) handleSegments(w http.ResponseWriter, r *http.Request) {
	recs, err := s.assessments.List(r.Context(), queryOpts(r))
	if err != nil {
		s.logger.Error("list assessments", "error", err)
		writeFailure(w, err)
		return
	}
	summary := segments.Summary(recs)
	writeJSON(w, http.StatusOK, segmentsResponse{
		Summary:  &summary,
		Segments: ranked(segments.Segment(recs).Counts()),
	})
}

// handleLiveSegments reads the running counters without scanning the store.
func (s *Server) handleLiveSegments(w http.ResponseWriter, r *http.Request) {
	snap, err := s.counter.Snapshot(r.Context())
	if err != nil {
		s.logger.Error("read live segments", "error", err)
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, segmentsResponse{Segments: ranked(snap)})
}

func ranked(snap segments.Snapshot) map[segments.Dimension][]segments.KeyCount {
	out := make(map[segments.Dimension][]segments.KeyCount, len(segments.Dimensions))
	for _, d := range segments.Dimensions {
		out[d] = snap.Ranked(d)
	}
	return out
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	qid := mux.Vars(r)["questionID"]
	q, ok := quiz.Lookup(qid)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown question")
		return
	}
	recs, err := s.assessments.List(r.Context(), queryOpts(r))
	if err != nil {
		s.logger.Error("list assessments", "error", err)
		writeFailure(w, err)
		return
	}
	buckets, err := segments.Distribution(recs, qid)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysisResponse{QuestionID: q.ID, Title: q.Title, Buckets: buckets})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	recs, err := s.assessments.List(r.Context(), queryOpts(r))
	if err != nil {
		s.logger.Error("list assessments", "error", err)
		writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="assessments.csv"`)
	if err := segments.WriteCSV(w, recs); err != nil {
		s.logger.Error("write csv export", "error", err)
	}
}

// handleEmail renders the personalized email of an assessment, or the
// follow-up for ?days=N.
func (s *Server) handleEmail(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 0)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rec, err := s.assessments.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFailure(w, err)
		return
	}

	data := mail.FromRecord(rec)
	var tpl mail.Template
	if days == 0 {
		tpl, err = mail.Personalized(data)
	} else {
		tpl, err = mail.FollowUp(data, days)
	}
	if err != nil {
		s.logger.Error("render email", "id", rec.ID, "error", err)
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

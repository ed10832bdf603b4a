package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fluentplan/internal/coach"
	"github.com/abhisek/fluentplan/internal/llm"
	"github.com/abhisek/fluentplan/internal/logging"
	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/segments"
	"github.com/abhisek/fluentplan/internal/store"
)

const (
	testUser     = "admin"
	testPassword = "correct horse"
	testSecret   = "0123456789abcdef0123456789abcdef"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testResponses() quiz.ResponseSet {
	return quiz.ResponseSet{
		quiz.QLanguageSelection: quiz.LanguageSelection{Language: "japanese", Timeline: quiz.StudyJustStarting},
		quiz.QTimeCommitment:    quiz.Numeric(90),
		quiz.QSpeakingPriority:  quiz.SingleChoice(quiz.SpeakingInputFirst),
		quiz.QMotivation:        quiz.NewMultiChoice(quiz.MotivationEnjoyment),
	}
}

type testServer struct {
	*Server
	backend store.Backend
}

func newTestServer(t *testing.T, backend store.Backend, mutate func(*Deps)) *testServer {
	t.Helper()
	if backend == nil {
		backend = openTestStore(t)
	}
	deps := Deps{
		Backend: backend,
		Auth:    NewAuth(testUser, testPassword, testSecret, time.Hour),
		Logger:  logging.Discard(),
	}
	if mutate != nil {
		mutate(&deps)
	}
	s, err := New(Config{CacheSize: 16, CORSOrigins: []string{"https://quiz.example.com"}}, deps)
	require.NoError(t, err)
	return &testServer{Server: s, backend: backend}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	rec := ts.do(t, "POST", "/v1/admin/login", loginRequest{Username: testUser, Password: testPassword}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (ts *testServer) createAssessment(t *testing.T) string {
	t.Helper()
	rec := ts.do(t, "POST", "/v1/assessments", map[string]any{
		"responses":         testResponses(),
		"completionSeconds": 142.5,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp assessmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthAndQuestions(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	rec := ts.do(t, "GET", "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = ts.do(t, "GET", "/v1/questions", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		RulesVersion string          `json:"rulesVersion"`
		Questions    []quiz.Question `json:"questions"`
	}](t, rec)
	assert.Equal(t, scoring.RulesVersion, body.RulesVersion)
	assert.Len(t, body.Questions, len(quiz.Catalog()))
	assert.Equal(t, quiz.QLanguageSelection, body.Questions[0].ID)
}

func TestEvaluateUsesCache(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	body := map[string]any{"responses": testResponses()}

	first := ts.do(t, "POST", "/v1/evaluate", body, "")
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	second := ts.do(t, "POST", "/v1/evaluate", body, "")
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, ts.evals.Len())

	got := decode[scoring.ResultBundle](t, first)
	want := scoring.Evaluate(testResponses())
	assert.Equal(t, want.Profile.ID, got.Profile.ID)
	assert.Equal(t, want.Allocation, got.Allocation)
	assert.Equal(t, want.Intensity, got.Intensity)

	n, err := ts.backend.Assessments().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "evaluate must not persist")
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	rec := ts.do(t, "POST", "/v1/evaluate", map[string]any{"responses": map[string]any{"shoe-size": "42"}}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[errorResponse](t, rec)
	assert.Equal(t, "invalid responses", resp.Error)
	assert.NotEmpty(t, resp.Issues)

	rec = ts.do(t, "POST", "/v1/evaluate", map[string]any{"responses": map[string]any{"time-commitment": 37.5}}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, ts.evals.Len())

	rec = ts.do(t, "POST", "/v1/evaluate", map[string]any{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest("POST", "/v1/evaluate", strings.NewReader("{not json"))
	raw := httptest.NewRecorder()
	ts.Handler().ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestCreateAssessment(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	id := ts.createAssessment(t)

	stored, err := ts.backend.Assessments().Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "japanese", stored.Language)
	assert.Equal(t, 142500*time.Millisecond, stored.CompletionTime)
	assert.Equal(t, scoring.RulesVersion, stored.RulesVersion)

	snap, err := ts.counter.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap[segments.DimLanguage]["japanese"])

	rec := ts.do(t, "POST", "/v1/assessments", map[string]any{
		"responses":         testResponses(),
		"completionSeconds": -1,
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type failingAssessments struct {
	store.AssessmentRepo
}

func (failingAssessments) Save(context.Context, *store.Record) error {
	return errors.New("disk full")
}

type failingBackend struct {
	store.Backend
}

func (b failingBackend) Assessments() store.AssessmentRepo {
	return failingAssessments{b.Backend.Assessments()}
}

func TestCreateAssessmentSaveFailureStillReturnsResult(t *testing.T) {
	ts := newTestServer(t, failingBackend{openTestStore(t)}, nil)

	rec := ts.do(t, "POST", "/v1/assessments", map[string]any{"responses": testResponses()}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[assessmentResponse](t, rec)
	assert.Empty(t, resp.ID)
	assert.Equal(t, []string{saveWarning}, resp.Warnings)
	assert.NotEmpty(t, resp.Result.Profile.ID)
}

func TestCaptureEmail(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	id := ts.createAssessment(t)

	rec := ts.do(t, "POST", "/v1/assessments/"+id+"/email", captureRequest{Email: "  yuki@example.com ", Name: "Yuki"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[captureResponse](t, rec)
	assert.Equal(t, string(store.DeliveryPending), resp.Status)
	assert.NotEmpty(t, resp.DeliveryID)

	stored, err := ts.backend.Assessments().Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "yuki@example.com", stored.Email)
	assert.Equal(t, "Yuki", stored.UserName)

	pending, err := ts.backend.Deliveries().Pending(context.Background(), time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].AssessmentID)

	rec = ts.do(t, "POST", "/v1/assessments/"+id+"/email", captureRequest{Email: "not-an-email"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, "POST", "/v1/assessments/missing/email", captureRequest{Email: "a@example.com"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCoach(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		ts := newTestServer(t, nil, nil)
		id := ts.createAssessment(t)
		rec := ts.do(t, "POST", "/v1/assessments/"+id+"/coach", nil, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("note", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(
			`{"headline":"Start with listening","message":"You have the time.","focus":["Watch one show"]}`)})
		ts := newTestServer(t, nil, func(d *Deps) {
			d.Coach = coach.NewService(mock, coach.DefaultConfig())
		})
		id := ts.createAssessment(t)

		rec := ts.do(t, "POST", "/v1/assessments/"+id+"/coach", nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		note := decode[coach.Note](t, rec)
		assert.Equal(t, "Start with listening", note.Headline)
		assert.Equal(t, []string{"Watch one show"}, note.Focus)

		rec = ts.do(t, "POST", "/v1/assessments/missing/coach", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("provider failure", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
		ts := newTestServer(t, nil, func(d *Deps) {
			d.Coach = coach.NewService(mock, coach.DefaultConfig())
		})
		id := ts.createAssessment(t)
		rec := ts.do(t, "POST", "/v1/assessments/"+id+"/coach", nil, "")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestAdminLogin(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	rec := ts.do(t, "POST", "/v1/admin/login", loginRequest{Username: testUser, Password: "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, "GET", "/v1/admin/assessments", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, "GET", "/v1/admin/assessments", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := ts.login(t)
	rec = ts.do(t, "GET", "/v1/admin/assessments", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminDisabled(t *testing.T) {
	ts := newTestServer(t, nil, func(d *Deps) { d.Auth = NewAuth(testUser, "", "", 0) })

	rec := ts.do(t, "POST", "/v1/admin/login", loginRequest{Username: testUser}, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	rec = ts.do(t, "GET", "/v1/admin/segments", nil, "anything")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminReports(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	id := ts.createAssessment(t)
	ts.createAssessment(t)
	token := ts.login(t)

	rec := ts.do(t, "GET", "/v1/admin/assessments?limit=1", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listResponse](t, rec)
	assert.Equal(t, 2, list.Total)
	assert.Len(t, list.Assessments, 1)
	assert.Nil(t, list.Assessments[0].Result, "list omits the bundle")

	rec = ts.do(t, "GET", "/v1/admin/assessments?limit=-3", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, "GET", "/v1/admin/assessments/"+id, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[assessmentView](t, rec)
	assert.Equal(t, id, view.ID)
	require.NotNil(t, view.Result)
	assert.Equal(t, view.ProfileID, view.Result.Profile.ID)

	rec = ts.do(t, "GET", "/v1/admin/segments", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	segs := decode[segmentsResponse](t, rec)
	require.NotNil(t, segs.Summary)
	assert.Equal(t, 2, segs.Summary.Total)
	assert.Equal(t, []segments.KeyCount{{Key: "japanese", Count: 2}}, segs.Segments[segments.DimLanguage])

	rec = ts.do(t, "GET", "/v1/admin/segments/live", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	live := decode[segmentsResponse](t, rec)
	assert.Nil(t, live.Summary)
	assert.Equal(t, segs.Segments, live.Segments)

	rec = ts.do(t, "GET", "/v1/admin/analysis/"+quiz.QSpeakingPriority, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	analysis := decode[analysisResponse](t, rec)
	require.Len(t, analysis.Buckets, 1)
	assert.Equal(t, quiz.SpeakingInputFirst, analysis.Buckets[0].Value)
	assert.Equal(t, 100.0, analysis.Buckets[0].Percent)

	rec = ts.do(t, "GET", "/v1/admin/analysis/shoe-size", nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, "GET", "/v1/admin/export.csv", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), id)

	rec = ts.do(t, "DELETE", "/v1/admin/assessments/"+id, nil, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, "GET", "/v1/admin/assessments/"+id, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminEmails(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	id := ts.createAssessment(t)
	token := ts.login(t)

	rec := ts.do(t, "GET", "/v1/admin/emails/"+id, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	personalized := decode[map[string]string](t, rec)
	assert.Contains(t, personalized["subject"], "Japanese Immersion Roadmap")
	assert.NotEmpty(t, personalized["html"])

	rec = ts.do(t, "GET", "/v1/admin/emails/"+id+"?days=7", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	followUp := decode[map[string]string](t, rec)
	assert.Contains(t, followUp["subject"], "Week 1")

	rec = ts.do(t, "GET", "/v1/admin/emails/"+id+"?days=x", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	req := httptest.NewRequest("OPTIONS", "/v1/evaluate", nil)
	req.Header.Set("Origin", "https://quiz.example.com")
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://quiz.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("OPTIONS", "/v1/evaluate", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	ts.createAssessment(t)

	rec := ts.do(t, "GET", "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `fluentplan_http_requests_total{method="POST",route="/v1/assessments",status="200"} 1`)
	assert.Contains(t, body, "fluentplan_assessments_total")
}

func TestRunShutsDownOnCancel(t *testing.T) {
	backend := openTestStore(t)
	s, err := New(Config{Addr: "127.0.0.1:0"}, Deps{Backend: backend, Logger: logging.Discard()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

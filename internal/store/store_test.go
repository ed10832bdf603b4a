package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/scoring"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testResponses(lang string, minutes float64, speaking string) quiz.ResponseSet {
	return quiz.ResponseSet{
		quiz.QLanguageSelection: quiz.LanguageSelection{Language: lang, Timeline: quiz.StudyJustStarting},
		quiz.QTimeCommitment:    quiz.Numeric(minutes),
		quiz.QSpeakingPriority:  quiz.SingleChoice(speaking),
		quiz.QMotivation:        quiz.NewMultiChoice(quiz.MotivationEnjoyment),
	}
}

func testRecord(lang string, minutes float64, speaking string) *Record {
	rs := testResponses(lang, minutes, speaking)
	return NewRecord(rs, scoring.Evaluate(rs), 95*time.Second)
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	var fk string
	if err := s.DB().QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != "1" {
		t.Errorf("foreign_keys = %q, want '1'", fk)
	}

	var sync string
	if err := s.DB().QueryRow("PRAGMA synchronous").Scan(&sync); err != nil {
		t.Fatalf("query synchronous: %v", err)
	}
	// NORMAL = 1
	if sync != "1" {
		t.Errorf("synchronous = %q, want '1' (NORMAL)", sync)
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"assessments", "deliveries", "llm_requests", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
	}
}

func TestMigrationIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := migrate(context.Background(), s.DB()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sc, err := newSequenceCounter(s.DB())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if want := int64(i + 1); seq != want {
			t.Errorf("seq[%d] = %d, want %d", i, seq, want)
		}
	}
}

func TestNewRecordDenormalizes(t *testing.T) {
	rec := testRecord("japanese", 90, quiz.SpeakingInputFirst)

	if rec.Language != "japanese" {
		t.Errorf("Language = %q, want japanese", rec.Language)
	}
	if rec.ProfileID != rec.Result.Profile.ID {
		t.Errorf("ProfileID = %q, want %q", rec.ProfileID, rec.Result.Profile.ID)
	}
	if rec.TimeCommitment != 90 {
		t.Errorf("TimeCommitment = %d, want 90", rec.TimeCommitment)
	}
	if rec.Intensity != rec.Result.Intensity {
		t.Errorf("Intensity = %d, want %d", rec.Intensity, rec.Result.Intensity)
	}
	if rec.RulesVersion != scoring.RulesVersion {
		t.Errorf("RulesVersion = %q, want %q", rec.RulesVersion, scoring.RulesVersion)
	}
}

func TestAssessmentSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.Assessments()
	ctx := context.Background()

	rec := testRecord("spanish", 120, quiz.SpeakingSurvival)
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected ID to be assigned")
	}
	if rec.Seq != 1 {
		t.Errorf("Seq = %d, want 1", rec.Seq)
	}

	got, err := repo.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Language != "spanish" {
		t.Errorf("Language = %q, want spanish", got.Language)
	}
	if got.CompletionTime != 95*time.Second {
		t.Errorf("CompletionTime = %v, want 95s", got.CompletionTime)
	}
	if got.Result.Profile.ID != rec.Result.Profile.ID {
		t.Errorf("profile = %q, want %q", got.Result.Profile.ID, rec.Result.Profile.ID)
	}
	if got.Result.Allocation != rec.Result.Allocation {
		t.Errorf("allocation = %+v, want %+v", got.Result.Allocation, rec.Result.Allocation)
	}
	if v, _ := got.Responses.Number(quiz.QTimeCommitment); v != 120 {
		t.Errorf("time commitment answer = %v, want 120", v)
	}
	if !got.Responses.Includes(quiz.QMotivation, quiz.MotivationEnjoyment) {
		t.Error("motivation answer lost in round trip")
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
	}
}

func TestAssessmentGetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Assessments().Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAssessmentListFiltersAndOrder(t *testing.T) {
	s := openTestStore(t)
	repo := s.Assessments()
	ctx := context.Background()

	recs := []*Record{
		testRecord("spanish", 60, quiz.SpeakingInputFirst),
		testRecord("japanese", 300, quiz.SpeakingInputFirst),
		testRecord("spanish", 45, quiz.SpeakingSurvival),
	}
	for i, r := range recs {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	all, err := repo.List(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].ID != recs[2].ID {
		t.Errorf("first = %s, want newest %s", all[0].ID, recs[2].ID)
	}

	spanish, err := repo.List(ctx, QueryOpts{Language: "spanish"})
	if err != nil {
		t.Fatalf("list spanish: %v", err)
	}
	if len(spanish) != 2 {
		t.Errorf("spanish len = %d, want 2", len(spanish))
	}

	byProfile, err := repo.List(ctx, QueryOpts{ProfileID: recs[1].ProfileID})
	if err != nil {
		t.Fatalf("list by profile: %v", err)
	}
	for _, r := range byProfile {
		if r.ProfileID != recs[1].ProfileID {
			t.Errorf("profile filter returned %q", r.ProfileID)
		}
	}

	page, err := repo.List(ctx, QueryOpts{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 1 || page[0].ID != recs[1].ID {
		t.Errorf("page = %v, want [%s]", page, recs[1].ID)
	}

	tail, err := repo.List(ctx, QueryOpts{Offset: 2})
	if err != nil {
		t.Fatalf("list offset only: %v", err)
	}
	if len(tail) != 1 || tail[0].ID != recs[0].ID {
		t.Errorf("tail = %v, want [%s]", tail, recs[0].ID)
	}
}

func TestAssessmentAttachContactAndFindByEmail(t *testing.T) {
	s := openTestStore(t)
	repo := s.Assessments()
	ctx := context.Background()

	older := testRecord("french", 60, quiz.SpeakingInputFirst)
	newer := testRecord("french", 90, quiz.SpeakingInputFirst)
	for _, r := range []*Record{older, newer} {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("save: %v", err)
		}
		if err := repo.AttachContact(ctx, r.ID, "ana@example.com", "Ana"); err != nil {
			t.Fatalf("attach: %v", err)
		}
	}

	got, err := repo.FindByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != newer.ID {
		t.Errorf("found %s, want newest %s", got.ID, newer.ID)
	}
	if got.UserName != "Ana" {
		t.Errorf("UserName = %q, want Ana", got.UserName)
	}

	if _, err := repo.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := repo.AttachContact(ctx, "missing", "a@b.c", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("attach missing err = %v, want ErrNotFound", err)
	}
}

func TestAssessmentUpdateResult(t *testing.T) {
	s := openTestStore(t)
	repo := s.Assessments()
	ctx := context.Background()

	rec := testRecord("german", 60, quiz.SpeakingInputFirst)
	rec.RulesVersion = "v0.9.0"
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	bundle := scoring.Evaluate(testResponses("german", 300, quiz.SpeakingInputFirst))
	if err := repo.UpdateResult(ctx, rec.ID, bundle, scoring.RulesVersion); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RulesVersion != scoring.RulesVersion {
		t.Errorf("RulesVersion = %q, want %q", got.RulesVersion, scoring.RulesVersion)
	}
	if got.TimeCommitment != 300 {
		t.Errorf("TimeCommitment = %d, want 300", got.TimeCommitment)
	}
	if got.ProfileID != bundle.Profile.ID {
		t.Errorf("ProfileID = %q, want %q", got.ProfileID, bundle.Profile.ID)
	}
}

func TestAssessmentCountAndDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.Assessments()
	ctx := context.Background()

	a := testRecord("italian", 60, quiz.SpeakingInputFirst)
	b := testRecord("italian", 60, quiz.SpeakingInputFirst)
	for _, r := range []*Record{a, b} {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
	n, _ = repo.Count(ctx)
	if n != 1 {
		t.Errorf("count after delete = %d, want 1", n)
	}
}

func TestDeliveryOutbox(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := testRecord("korean", 60, quiz.SpeakingInputFirst)
	if err := s.Assessments().Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	out := s.Deliveries()
	now := time.Now().UTC()
	first := &Delivery{AssessmentID: rec.ID, Email: "a@example.com"}
	later := &Delivery{AssessmentID: rec.ID, Email: "b@example.com", NextAttempt: now.Add(time.Hour)}
	for _, d := range []*Delivery{first, later} {
		if err := out.Enqueue(ctx, d); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	if first.Status != DeliveryPending {
		t.Errorf("status = %q, want pending", first.Status)
	}

	due, err := out.Pending(ctx, now.Add(time.Second), 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(due) != 1 || due[0].ID != first.ID {
		t.Fatalf("due = %v, want only %s", due, first.ID)
	}

	// A retry moves the delivery into the future.
	if err := out.MarkFailed(ctx, first.ID, errors.New("rate limited"), now.Add(2*time.Hour)); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	due, _ = out.Pending(ctx, now.Add(time.Second), 10)
	if len(due) != 0 {
		t.Errorf("due after retry = %d, want 0", len(due))
	}

	due, _ = out.Pending(ctx, now.Add(3*time.Hour), 10)
	if len(due) != 2 {
		t.Fatalf("due later = %d, want 2", len(due))
	}
	if due[0].ID != later.ID {
		t.Errorf("oldest due = %s, want %s", due[0].ID, later.ID)
	}
	if due[1].Attempts != 1 || due[1].LastError != "rate limited" {
		t.Errorf("retried delivery = %+v", due[1])
	}

	if err := out.MarkDelivered(ctx, later.ID, "sub_123"); err != nil {
		t.Fatalf("mark delivered: %v", err)
	}
	if err := out.MarkFailed(ctx, first.ID, errors.New("invalid email"), time.Time{}); err != nil {
		t.Fatalf("mark permanently failed: %v", err)
	}
	due, _ = out.Pending(ctx, now.Add(24*time.Hour), 10)
	if len(due) != 0 {
		t.Errorf("due after completion = %d, want 0", len(due))
	}

	if err := out.MarkDelivered(ctx, "missing", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing err = %v, want ErrNotFound", err)
	}
}

func TestDeliveriesCascadeOnDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := testRecord("portuguese", 60, quiz.SpeakingInputFirst)
	if err := s.Assessments().Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Deliveries().Enqueue(ctx, &Delivery{AssessmentID: rec.ID, Email: "x@example.com"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := s.Assessments().Delete(ctx, rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM deliveries").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("deliveries = %d, want 0", n)
	}
}

func TestAppendLLMRequestSharesSequence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Assessments().Save(ctx, testRecord("spanish", 60, quiz.SpeakingInputFirst)); err != nil {
		t.Fatalf("save: %v", err)
	}
	err := s.Events().AppendLLMRequest(ctx, LLMRequestEvent{
		Provider:     "mock",
		Model:        "mock-model",
		Purpose:      "coach-note",
		InputTokens:  120,
		OutputTokens: 80,
		LatencyMs:    15,
		Success:      true,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	var seq int64
	var success int
	if err := s.DB().QueryRow("SELECT seq, success FROM llm_requests").Scan(&seq, &success); err != nil {
		t.Fatalf("query: %v", err)
	}
	if seq != 2 {
		t.Errorf("seq = %d, want 2", seq)
	}
	if success != 1 {
		t.Errorf("success = %d, want 1", success)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(dir, "custom", "plan.db")
		t.Setenv("FLUENTPLAN_DB", want)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatalf("DefaultDBPath: %v", err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("xdg data home", func(t *testing.T) {
		t.Setenv("FLUENTPLAN_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatalf("DefaultDBPath: %v", err)
		}
		if want := filepath.Join(dir, "fluentplan", "fluentplan.db"); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestOpenBackendUnknownDriver(t *testing.T) {
	_, err := OpenBackend(context.Background(), Config{Driver: "postgres"})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	_, err = OpenBackend(context.Background(), Config{Driver: DriverMongoDB})
	if err == nil {
		t.Fatal("expected error for mongodb without URI")
	}
}

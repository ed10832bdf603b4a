package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/scoring"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: not found")

// Record is one completed assessment: the raw answers, the bundle they
// produced and the contact details captured afterwards. Language, Intensity,
// ProfileID and TimeCommitment are denormalized from Responses and Result so
// backends can filter on them.
type Record struct {
	ID             string
	Seq            int64
	Email          string
	UserName       string
	Language       string
	CustomLanguage string
	Intensity      int
	ProfileID      scoring.ProfileID
	TimeCommitment int
	CompletionTime time.Duration
	Responses      quiz.ResponseSet
	Result         scoring.ResultBundle
	RulesVersion   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewRecord builds an unsaved record from an evaluation.
func NewRecord(rs quiz.ResponseSet, result scoring.ResultBundle, completion time.Duration) *Record {
	r := &Record{
		Responses:      rs.Clone(),
		CompletionTime: completion,
		RulesVersion:   scoring.RulesVersion,
	}
	r.setResult(result)
	if sel, ok := rs.Language(quiz.QLanguageSelection); ok {
		r.Language = sel.Language
		r.CustomLanguage = sel.CustomLanguage
	}
	return r
}

func (r *Record) setResult(result scoring.ResultBundle) {
	r.Result = result
	r.ProfileID = result.Profile.ID
	r.Intensity = result.Intensity
	r.TimeCommitment = result.Allocation.TotalMinutes
}

// LanguageSelection returns the learner's language answer.
func (r *Record) LanguageSelection() quiz.LanguageSelection {
	sel, _ := r.Responses.Language(quiz.QLanguageSelection)
	return sel
}

// QueryOpts filters and pages List. Zero fields do not filter.
type QueryOpts struct {
	Limit     int
	Offset    int
	ProfileID scoring.ProfileID
	Language  string
	Email     string
}

// AssessmentRepo persists assessment records.
type AssessmentRepo interface {
	// Save assigns ID, Seq and timestamps, then inserts rec.
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	// List returns records newest first.
	List(ctx context.Context, opts QueryOpts) ([]*Record, error)
	// FindByEmail returns the newest record for email.
	FindByEmail(ctx context.Context, email string) (*Record, error)
	AttachContact(ctx context.Context, id, email, name string) error
	UpdateResult(ctx context.Context, id string, result scoring.ResultBundle, version string) error
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}

// DeliveryStatus is the state of a newsletter outbox entry.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryFailed    DeliveryStatus = "failed"
)

// Delivery is a queued newsletter subscription for a captured email.
type Delivery struct {
	ID           string
	AssessmentID string
	Email        string
	Status       DeliveryStatus
	Attempts     int
	SubscriberID string
	LastError    string
	NextAttempt  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DeliveryRepo is the newsletter outbox.
type DeliveryRepo interface {
	Enqueue(ctx context.Context, d *Delivery) error
	// Pending returns up to limit pending deliveries whose next attempt is
	// due at now, oldest first.
	Pending(ctx context.Context, now time.Time, limit int) ([]*Delivery, error)
	MarkDelivered(ctx context.Context, id, subscriberID string) error
	// MarkFailed records an attempt. A zero retryAt marks the delivery as
	// permanently failed.
	MarkFailed(ctx context.Context, id string, cause error, retryAt time.Time) error
}

// LLMRequestEvent records a single LLM API call.
type LLMRequestEvent struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	CostUSD      float64 // zero when the model has no known price
	Success      bool
	ErrorMessage string
}

// EventRepo appends audit events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEvent) error
}

// Backend bundles the repositories of one storage backend.
type Backend interface {
	Assessments() AssessmentRepo
	Deliveries() DeliveryRepo
	Events() EventRepo
	Close() error
}

package newsletter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/fluentplan/internal/store"
)

// Outbox delivers queued subscriptions. Each pending delivery is tried once
// per pass; transient failures are rescheduled with exponential backoff and
// rejections or exhausted deliveries are marked failed.
type Outbox struct {
	deliveries  store.DeliveryRepo
	assessments store.AssessmentRepo
	subscriber  Subscriber
	logger      *slog.Logger

	batch       int
	interval    time.Duration
	maxAttempts int
	retry       RetryConfig
	now         func() time.Time
	warnOnce    sync.Once
}

// OutboxOption configures an Outbox.
type OutboxOption func(*Outbox)

// WithBatchSize sets how many deliveries one pass handles.
func WithBatchSize(n int) OutboxOption {
	return func(o *Outbox) { o.batch = n }
}

// WithInterval sets the pause between passes in Run.
func WithInterval(d time.Duration) OutboxOption {
	return func(o *Outbox) { o.interval = d }
}

// WithMaxAttempts sets how many attempts a delivery gets before it is
// marked failed.
func WithMaxAttempts(n int) OutboxOption {
	return func(o *Outbox) { o.maxAttempts = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) OutboxOption {
	return func(o *Outbox) { o.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) OutboxOption {
	return func(o *Outbox) { o.now = now }
}

// NewOutbox creates an outbox worker. A nil subscriber leaves every delivery
// pending.
func NewOutbox(deliveries store.DeliveryRepo, assessments store.AssessmentRepo, sub Subscriber, opts ...OutboxOption) *Outbox {
	o := &Outbox{
		deliveries:  deliveries,
		assessments: assessments,
		subscriber:  sub,
		logger:      slog.Default(),
		batch:       25,
		interval:    time.Minute,
		maxAttempts: 6,
		retry: RetryConfig{
			InitialWait: time.Minute,
			MaxWait:     6 * time.Hour,
			Multiplier:  4,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// PassStats counts the outcomes of one pass.
type PassStats struct {
	Delivered int
	Retried   int
	Failed    int
}

// RunOnce processes one batch of due deliveries.
func (o *Outbox) RunOnce(ctx context.Context) (PassStats, error) {
	var st PassStats
	if o.subscriber == nil {
		o.warnOnce.Do(func() {
			o.logger.Warn("newsletter not configured; subscriptions stay queued")
		})
		return st, nil
	}

	due, err := o.deliveries.Pending(ctx, o.now(), o.batch)
	if err != nil {
		return st, err
	}
	for _, d := range due {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		switch err := o.deliver(ctx, d); {
		case err == nil:
			st.Delivered++
		case errors.Is(err, errRescheduled):
			st.Retried++
		case errors.Is(err, errAbandoned):
			st.Failed++
		default:
			return st, err
		}
	}
	return st, nil
}

var (
	errRescheduled = errors.New("rescheduled")
	errAbandoned   = errors.New("abandoned")
)

func (o *Outbox) deliver(ctx context.Context, d *store.Delivery) error {
	log := o.logger.With("delivery", d.ID, "assessment", d.AssessmentID)

	rec, err := o.assessments.Get(ctx, d.AssessmentID)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("assessment gone; dropping subscription")
		return o.abandon(ctx, d, err)
	}
	if err != nil {
		return err
	}
	sub := NewSubscription(rec)
	sub.Email = d.Email

	res, err := o.subscriber.Subscribe(ctx, sub)
	if err == nil {
		log.Info("subscribed", "subscriber", res.SubscriberID, "already_subscribed", res.AlreadySubscribed)
		if err := o.deliveries.MarkDelivered(ctx, d.ID, res.SubscriberID); err != nil {
			return err
		}
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if !Transient(err) || d.Attempts+1 >= o.maxAttempts {
		log.Error("subscription failed", "error", err, "attempts", d.Attempts+1)
		return o.abandon(ctx, d, err)
	}

	retryAt := o.now().Add(o.backoff(d.Attempts, err))
	log.Warn("subscription deferred", "error", err, "retry_at", retryAt)
	if err := o.deliveries.MarkFailed(ctx, d.ID, err, retryAt); err != nil {
		return err
	}
	return errRescheduled
}

func (o *Outbox) abandon(ctx context.Context, d *store.Delivery, cause error) error {
	if err := o.deliveries.MarkFailed(ctx, d.ID, cause, time.Time{}); err != nil {
		return err
	}
	return errAbandoned
}

func (o *Outbox) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	return Backoff(o.retry, attempt)
}

// Run drains the outbox every interval until ctx is canceled.
func (o *Outbox) Run(ctx context.Context) error {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		st, err := o.RunOnce(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil:
			o.logger.Error("outbox pass failed", "error", err)
		case st != (PassStats{}):
			o.logger.Info("outbox pass", "delivered", st.Delivered, "retried", st.Retried, "failed", st.Failed)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// String implements fmt.Stringer.
func (s PassStats) String() string {
	return fmt.Sprintf("%d delivered, %d retried, %d failed", s.Delivered, s.Retried, s.Failed)
}

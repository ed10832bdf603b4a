package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const deliveriesTable = "deliveries"

var deliveryColumns = []string{
	"id", "assessment_id", "email", "status", "attempts", "subscriber_id",
	"last_error", "next_attempt_at", "created_at", "updated_at",
}

// deliveryRepo implements DeliveryRepo on SQLite.
type deliveryRepo struct {
	db *sql.DB
}

func (r *deliveryRepo) Enqueue(ctx context.Context, d *Delivery) error {
	now := time.Now().UTC()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = DeliveryPending
	}
	if d.NextAttempt.IsZero() {
		d.NextAttempt = now
	}
	d.CreatedAt, d.UpdatedAt = now, now

	query, args := builder().Insert(deliveriesTable).
		Columns(deliveryColumns...).
		Values(
			d.ID, d.AssessmentID, d.Email, string(d.Status), d.Attempts, d.SubscriberID,
			d.LastError, d.NextAttempt.UnixMilli(), now.UnixMilli(), now.UnixMilli(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("enqueue delivery: %w", err)
	}
	return nil
}

func (r *deliveryRepo) Pending(ctx context.Context, now time.Time, limit int) ([]*Delivery, error) {
	b := builder()
	sel := b.Select(deliveryColumns...).
		From(b.Table(deliveriesTable)).
		Where(entsql.And(
			entsql.EQ("status", string(DeliveryPending)),
			entsql.LTE("next_attempt_at", now.UnixMilli()),
		)).
		OrderBy("next_attempt_at", "created_at")
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending deliveries: %w", err)
	}
	defer rows.Close()

	var out []*Delivery
	for rows.Next() {
		var (
			d                     Delivery
			status                string
			next, created, update int64
		)
		if err := rows.Scan(
			&d.ID, &d.AssessmentID, &d.Email, &status, &d.Attempts, &d.SubscriberID,
			&d.LastError, &next, &created, &update,
		); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		d.Status = DeliveryStatus(status)
		d.NextAttempt = time.UnixMilli(next).UTC()
		d.CreatedAt = time.UnixMilli(created).UTC()
		d.UpdatedAt = time.UnixMilli(update).UTC()
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (r *deliveryRepo) MarkDelivered(ctx context.Context, id, subscriberID string) error {
	query, args := builder().Update(deliveriesTable).
		Set("status", string(DeliveryDelivered)).
		Set("subscriber_id", subscriberID).
		Set("last_error", "").
		Add("attempts", 1).
		Set("updated_at", time.Now().UTC().UnixMilli()).
		Where(entsql.EQ("id", id)).
		Query()
	return r.exec(ctx, "mark delivered", id, query, args)
}

func (r *deliveryRepo) MarkFailed(ctx context.Context, id string, cause error, retryAt time.Time) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	upd := builder().Update(deliveriesTable).
		Set("last_error", msg).
		Add("attempts", 1).
		Set("updated_at", time.Now().UTC().UnixMilli())
	if retryAt.IsZero() {
		upd.Set("status", string(DeliveryFailed))
	} else {
		upd.Set("status", string(DeliveryPending)).
			Set("next_attempt_at", retryAt.UnixMilli())
	}
	query, args := upd.Where(entsql.EQ("id", id)).Query()
	return r.exec(ctx, "mark failed", id, query, args)
}

func (r *deliveryRepo) exec(ctx context.Context, op, id, query string, args []any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
	}
	return nil
}

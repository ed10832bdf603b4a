package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/fluentplan/internal/scoring"
)

const assessmentsTable = "assessments"

var assessmentColumns = []string{
	"id", "seq", "email", "user_name", "language", "custom_language",
	"profile_id", "intensity", "time_commitment", "completion_ms",
	"responses", "result", "rules_version", "created_at", "updated_at",
}

// assessmentRepo implements AssessmentRepo on SQLite.
type assessmentRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *assessmentRepo) Save(ctx context.Context, rec *Record) error {
	responses, err := json.Marshal(rec.Responses)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = now
	}

	query, args := builder().Insert(assessmentsTable).
		Columns(assessmentColumns...).
		Values(
			id, seqNum, rec.Email, rec.UserName, rec.Language, rec.CustomLanguage,
			string(rec.ProfileID), rec.Intensity, rec.TimeCommitment, rec.CompletionTime.Milliseconds(),
			string(responses), string(result), rec.RulesVersion, created.UnixMilli(), now.UnixMilli(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}

	rec.ID = id
	rec.Seq = seqNum
	rec.CreatedAt = time.UnixMilli(created.UnixMilli()).UTC()
	rec.UpdatedAt = time.UnixMilli(now.UnixMilli()).UTC()
	return nil
}

func (r *assessmentRepo) Get(ctx context.Context, id string) (*Record, error) {
	query, args := r.selector().
		Where(entsql.EQ("id", id)).
		Query()
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("get assessment %s: %w", id, err)
	}
	return rec, nil
}

func (r *assessmentRepo) List(ctx context.Context, opts QueryOpts) ([]*Record, error) {
	sel := r.selector().OrderBy(entsql.Desc("seq"))
	if opts.ProfileID != "" {
		sel.Where(entsql.EQ("profile_id", string(opts.ProfileID)))
	}
	if opts.Language != "" {
		sel.Where(entsql.EQ("language", opts.Language))
	}
	if opts.Email != "" {
		sel.Where(entsql.EQ("email", opts.Email))
	}
	switch {
	case opts.Limit > 0:
		sel.Limit(opts.Limit)
	case opts.Offset > 0:
		// SQLite only accepts OFFSET after a LIMIT.
		sel.Limit(-1)
	}
	if opts.Offset > 0 {
		sel.Offset(opts.Offset)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list assessments: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *assessmentRepo) FindByEmail(ctx context.Context, email string) (*Record, error) {
	recs, err := r.List(ctx, QueryOpts{Email: email, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("find assessment by email: %w", ErrNotFound)
	}
	return recs[0], nil
}

func (r *assessmentRepo) AttachContact(ctx context.Context, id, email, name string) error {
	query, args := builder().Update(assessmentsTable).
		Set("email", email).
		Set("user_name", name).
		Set("updated_at", time.Now().UTC().UnixMilli()).
		Where(entsql.EQ("id", id)).
		Query()
	return r.execOne(ctx, "attach contact", id, query, args)
}

func (r *assessmentRepo) UpdateResult(ctx context.Context, id string, result scoring.ResultBundle, version string) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	query, args := builder().Update(assessmentsTable).
		Set("result", string(data)).
		Set("rules_version", version).
		Set("profile_id", string(result.Profile.ID)).
		Set("intensity", result.Intensity).
		Set("time_commitment", result.Allocation.TotalMinutes).
		Set("updated_at", time.Now().UTC().UnixMilli()).
		Where(entsql.EQ("id", id)).
		Query()
	return r.execOne(ctx, "update result", id, query, args)
}

func (r *assessmentRepo) Count(ctx context.Context) (int, error) {
	b := builder()
	query, args := b.Select(entsql.Count("*")).From(b.Table(assessmentsTable)).Query()
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assessments: %w", err)
	}
	return n, nil
}

func (r *assessmentRepo) Delete(ctx context.Context, id string) error {
	query, args := builder().Delete(assessmentsTable).
		Where(entsql.EQ("id", id)).
		Query()
	return r.execOne(ctx, "delete assessment", id, query, args)
}

func (r *assessmentRepo) selector() *entsql.Selector {
	b := builder()
	return b.Select(assessmentColumns...).From(b.Table(assessmentsTable))
}

// execOne runs a statement that must touch exactly one assessment.
func (r *assessmentRepo) execOne(ctx context.Context, op, id, query string, args []any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec                  Record
		profile              string
		completionMs         int64
		responses, result    string
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&rec.ID, &rec.Seq, &rec.Email, &rec.UserName, &rec.Language, &rec.CustomLanguage,
		&profile, &rec.Intensity, &rec.TimeCommitment, &completionMs,
		&responses, &result, &rec.RulesVersion, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(responses), &rec.Responses); err != nil {
		return nil, fmt.Errorf("unmarshal responses: %w", err)
	}
	if err := json.Unmarshal([]byte(result), &rec.Result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	rec.ProfileID = scoring.ProfileID(profile)
	rec.CompletionTime = time.Duration(completionMs) * time.Millisecond
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	rec.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &rec, nil
}

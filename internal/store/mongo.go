package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abhisek/fluentplan/internal/scoring"
)

// MongoStore is the hosted backend. Collections mirror the SQLite tables.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ Backend = (*MongoStore)(nil)

// OpenMongo connects to uri, verifies the connection and ensures indexes on
// database name.
func OpenMongo(ctx context.Context, uri, name string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	s := &MongoStore{client: client, db: client.Database(name)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(assessmentsTable).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "seq", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "profileId", Value: 1}}},
		{Keys: bson.D{{Key: "language", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create assessment indexes: %w", err)
	}
	_, err = s.db.Collection(deliveriesTable).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "nextAttemptAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create delivery indexes: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Assessments() AssessmentRepo {
	return &mongoAssessmentRepo{
		collection: s.db.Collection(assessmentsTable),
		counters:   s.db.Collection("counters"),
	}
}

func (s *MongoStore) Deliveries() DeliveryRepo {
	return &mongoDeliveryRepo{collection: s.db.Collection(deliveriesTable)}
}

func (s *MongoStore) Events() EventRepo {
	return &mongoEventRepo{
		collection: s.db.Collection("llm_requests"),
		counters:   s.db.Collection("counters"),
	}
}

// nextSeq increments the shared counter document, creating it on first use.
func nextSeq(ctx context.Context, counters *mongo.Collection) (int64, error) {
	var doc struct {
		Value int64 `bson:"value"`
	}
	err := counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "global_sequence"},
		bson.M{"$inc": bson.M{"value": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return doc.Value, nil
}

// assessmentDoc is the stored form of a Record. Answers are a tagged union,
// so they keep their JSON wire form.
type assessmentDoc struct {
	ID             string               `bson:"_id"`
	Seq            int64                `bson:"seq"`
	Email          string               `bson:"email"`
	UserName       string               `bson:"userName"`
	Language       string               `bson:"language"`
	CustomLanguage string               `bson:"customLanguage,omitempty"`
	ProfileID      string               `bson:"profileId"`
	Intensity      int                  `bson:"intensity"`
	TimeCommitment int                  `bson:"timeCommitment"`
	CompletionMs   int64                `bson:"completionMs"`
	Responses      string               `bson:"responses"`
	Result         scoring.ResultBundle `bson:"result"`
	RulesVersion   string               `bson:"rulesVersion"`
	CreatedAt      time.Time            `bson:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
}

func (d *assessmentDoc) record() (*Record, error) {
	rec := &Record{
		ID:             d.ID,
		Seq:            d.Seq,
		Email:          d.Email,
		UserName:       d.UserName,
		Language:       d.Language,
		CustomLanguage: d.CustomLanguage,
		ProfileID:      scoring.ProfileID(d.ProfileID),
		Intensity:      d.Intensity,
		TimeCommitment: d.TimeCommitment,
		CompletionTime: time.Duration(d.CompletionMs) * time.Millisecond,
		Result:         d.Result,
		RulesVersion:   d.RulesVersion,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
	if err := json.Unmarshal([]byte(d.Responses), &rec.Responses); err != nil {
		return nil, fmt.Errorf("unmarshal responses: %w", err)
	}
	return rec, nil
}

type mongoAssessmentRepo struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

func (r *mongoAssessmentRepo) Save(ctx context.Context, rec *Record) error {
	responses, err := json.Marshal(rec.Responses)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}
	seq, err := nextSeq(ctx, r.counters)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.Seq = seq
	rec.UpdatedAt = now

	doc := assessmentDoc{
		ID:             rec.ID,
		Seq:            seq,
		Email:          rec.Email,
		UserName:       rec.UserName,
		Language:       rec.Language,
		CustomLanguage: rec.CustomLanguage,
		ProfileID:      string(rec.ProfileID),
		Intensity:      rec.Intensity,
		TimeCommitment: rec.TimeCommitment,
		CompletionMs:   rec.CompletionTime.Milliseconds(),
		Responses:      string(responses),
		Result:         rec.Result,
		RulesVersion:   rec.RulesVersion,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      now,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}
	return nil
}

func (r *mongoAssessmentRepo) Get(ctx context.Context, id string) (*Record, error) {
	var doc assessmentDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get assessment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment %s: %w", id, err)
	}
	return doc.record()
}

func (r *mongoAssessmentRepo) List(ctx context.Context, opts QueryOpts) ([]*Record, error) {
	filter := bson.M{}
	if opts.ProfileID != "" {
		filter["profileId"] = string(opts.ProfileID)
	}
	if opts.Language != "" {
		filter["language"] = opts.Language
	}
	if opts.Email != "" {
		filter["email"] = opts.Email
	}

	find := options.Find().SetSort(bson.D{{Key: "seq", Value: -1}})
	if opts.Limit > 0 {
		find.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		find.SetSkip(int64(opts.Offset))
	}

	cursor, err := r.collection.Find(ctx, filter, find)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []assessmentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	out := make([]*Record, 0, len(docs))
	for i := range docs {
		rec, err := docs[i].record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *mongoAssessmentRepo) FindByEmail(ctx context.Context, email string) (*Record, error) {
	recs, err := r.List(ctx, QueryOpts{Email: email, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("find assessment by email: %w", ErrNotFound)
	}
	return recs[0], nil
}

func (r *mongoAssessmentRepo) AttachContact(ctx context.Context, id, email, name string) error {
	return r.update(ctx, "attach contact", id, bson.M{
		"email":     email,
		"userName":  name,
		"updatedAt": time.Now().UTC(),
	})
}

func (r *mongoAssessmentRepo) UpdateResult(ctx context.Context, id string, result scoring.ResultBundle, version string) error {
	return r.update(ctx, "update result", id, bson.M{
		"result":         result,
		"rulesVersion":   version,
		"profileId":      string(result.Profile.ID),
		"intensity":      result.Intensity,
		"timeCommitment": result.Allocation.TotalMinutes,
		"updatedAt":      time.Now().UTC(),
	})
}

func (r *mongoAssessmentRepo) update(ctx context.Context, op, id string, set bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
	}
	return nil
}

func (r *mongoAssessmentRepo) Count(ctx context.Context) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count assessments: %w", err)
	}
	return int(n), nil
}

func (r *mongoAssessmentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete assessment %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete assessment %s: %w", id, ErrNotFound)
	}
	return nil
}

type deliveryDoc struct {
	ID           string    `bson:"_id"`
	AssessmentID string    `bson:"assessmentId"`
	Email        string    `bson:"email"`
	Status       string    `bson:"status"`
	Attempts     int       `bson:"attempts"`
	SubscriberID string    `bson:"subscriberId"`
	LastError    string    `bson:"lastError"`
	NextAttempt  time.Time `bson:"nextAttemptAt"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type mongoDeliveryRepo struct {
	collection *mongo.Collection
}

func (r *mongoDeliveryRepo) Enqueue(ctx context.Context, d *Delivery) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
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

	_, err := r.collection.InsertOne(ctx, deliveryDoc{
		ID:           d.ID,
		AssessmentID: d.AssessmentID,
		Email:        d.Email,
		Status:       string(d.Status),
		Attempts:     d.Attempts,
		SubscriberID: d.SubscriberID,
		LastError:    d.LastError,
		NextAttempt:  d.NextAttempt,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("enqueue delivery: %w", err)
	}
	return nil
}

func (r *mongoDeliveryRepo) Pending(ctx context.Context, now time.Time, limit int) ([]*Delivery, error) {
	find := options.Find().SetSort(bson.D{{Key: "nextAttemptAt", Value: 1}, {Key: "createdAt", Value: 1}})
	if limit > 0 {
		find.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, bson.M{
		"status":        string(DeliveryPending),
		"nextAttemptAt": bson.M{"$lte": now},
	}, find)
	if err != nil {
		return nil, fmt.Errorf("query pending deliveries: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []deliveryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("query pending deliveries: %w", err)
	}
	out := make([]*Delivery, 0, len(docs))
	for _, d := range docs {
		out = append(out, &Delivery{
			ID:           d.ID,
			AssessmentID: d.AssessmentID,
			Email:        d.Email,
			Status:       DeliveryStatus(d.Status),
			Attempts:     d.Attempts,
			SubscriberID: d.SubscriberID,
			LastError:    d.LastError,
			NextAttempt:  d.NextAttempt.UTC(),
			CreatedAt:    d.CreatedAt.UTC(),
			UpdatedAt:    d.UpdatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *mongoDeliveryRepo) MarkDelivered(ctx context.Context, id, subscriberID string) error {
	return r.update(ctx, "mark delivered", id, bson.M{
		"$set": bson.M{
			"status":       string(DeliveryDelivered),
			"subscriberId": subscriberID,
			"lastError":    "",
			"updatedAt":    time.Now().UTC(),
		},
		"$inc": bson.M{"attempts": 1},
	})
}

func (r *mongoDeliveryRepo) MarkFailed(ctx context.Context, id string, cause error, retryAt time.Time) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	set := bson.M{
		"status":    string(DeliveryFailed),
		"lastError": msg,
		"updatedAt": time.Now().UTC(),
	}
	if !retryAt.IsZero() {
		set["status"] = string(DeliveryPending)
		set["nextAttemptAt"] = retryAt
	}
	return r.update(ctx, "mark failed", id, bson.M{
		"$set": set,
		"$inc": bson.M{"attempts": 1},
	})
}

func (r *mongoDeliveryRepo) update(ctx context.Context, op, id string, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
	}
	return nil
}

type mongoEventRepo struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

func (r *mongoEventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEvent) error {
	seq, err := nextSeq(ctx, r.counters)
	if err != nil {
		return err
	}
	_, err = r.collection.InsertOne(ctx, bson.M{
		"seq":          seq,
		"provider":     data.Provider,
		"model":        data.Model,
		"purpose":      data.Purpose,
		"inputTokens":  data.InputTokens,
		"outputTokens": data.OutputTokens,
		"latencyMs":    data.LatencyMs,
		"costUsd":      data.CostUSD,
		"success":      data.Success,
		"errorMessage": data.ErrorMessage,
		"createdAt":    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// Package newsletter subscribes captured emails to the Beehiiv newsletter,
// carrying the assessment as subscriber custom fields.
package newsletter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/store"
)

// DefaultBaseURL is the Beehiiv API root.
const DefaultBaseURL = "https://api.beehiiv.com"

// Config holds the Beehiiv credentials.
type Config struct {
	APIKey        string        `mapstructure:"api_key"`
	PublicationID string        `mapstructure:"publication_id"`
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether both credentials are set.
func (c Config) Enabled() bool {
	return c.APIKey != "" && c.PublicationID != ""
}

// Subscription is one subscribe request.
type Subscription struct {
	Email        string
	CustomFields map[string]any
}

// Result is the outcome of a successful subscribe.
type Result struct {
	SubscriberID      string
	AlreadySubscribed bool
}

// Subscriber adds an email to the newsletter.
type Subscriber interface {
	Subscribe(ctx context.Context, s Subscription) (Result, error)
}

// Client talks to the Beehiiv subscriptions API.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	publicationID string
}

// NewClient creates a Beehiiv client from cfg.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       strings.TrimRight(base, "/"),
		apiKey:        cfg.APIKey,
		publicationID: cfg.PublicationID,
	}
}

type subscribeRequest struct {
	Email              string         `json:"email"`
	ReactivateExisting bool           `json:"reactivate_existing"`
	SendWelcomeEmail   bool           `json:"send_welcome_email"`
	CustomFields       map[string]any `json:"custom_fields,omitempty"`
}

type subscribeResponse struct {
	ID   string `json:"id"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
	Message string `json:"message"`
}

// Subscribe creates the subscription. An existing subscriber (409) counts as
// success.
func (c *Client) Subscribe(ctx context.Context, s Subscription) (Result, error) {
	body, err := json.Marshal(subscribeRequest{
		Email:              s.Email,
		ReactivateExisting: false,
		SendWelcomeEmail:   true,
		CustomFields:       s.CustomFields,
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal subscription: %w", err)
	}

	url := fmt.Sprintf("%s/v2/publications/%s/subscriptions", c.baseURL, c.publicationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, &ErrUnavailable{Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var out subscribeResponse
	_ = json.Unmarshal(raw, &out)

	switch {
	case resp.StatusCode == http.StatusConflict:
		return Result{AlreadySubscribed: true}, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return Result{}, &ErrRateLimit{RetryAfter: retryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode >= 500:
		return Result{}, &ErrUnavailable{Err: fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg := out.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return Result{}, &APIError{Status: resp.StatusCode, Message: msg}
	}

	id := out.Data.ID
	if id == "" {
		id = out.ID
	}
	return Result{SubscriberID: id}, nil
}

func retryAfter(h string) time.Duration {
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

// NewSubscription builds the subscribe request for a stored assessment.
// Missing answers are reported as "unknown".
func NewSubscription(rec *store.Record) Subscription {
	rs := rec.Responses
	single := func(id string) string {
		if v, ok := rs.Single(id); ok {
			return v
		}
		return "unknown"
	}

	name := rec.UserName
	if name == "" {
		name = "Anonymous"
	}
	profile, title := string(rec.Result.Profile.ID), rec.Result.Profile.Title
	if profile == "" {
		profile, title = "unknown", "Unknown"
	}
	sel := rec.LanguageSelection()
	language, timeline := sel.Language, sel.Timeline
	if language == "" {
		language = "unknown"
	}
	if timeline == "" {
		timeline = "unknown"
	}
	motivation := strings.Join(rs.Multi(quiz.QMotivation), ", ")
	if motivation == "" {
		motivation = "unknown"
	}

	return Subscription{
		Email: rec.Email,
		CustomFields: map[string]any{
			"user_name":             name,
			"learner_profile":       profile,
			"learner_profile_title": title,
			"time_commitment":       rec.TimeCommitment,
			"intensity_level":       rec.Intensity,
			"selected_language":     language,
			"custom_language":       sel.CustomLanguage,
			"timeline":              timeline,
			"motivation":            motivation,
			"capability_level":      single(quiz.QCapabilityLevel),
			"speaking_priority":     single(quiz.QSpeakingPriority),
			"current_method":        single(quiz.QCurrentMethod),
			"accent_priority":       single(quiz.QAccentPriority),
			"content_consumption":   single(quiz.QContentConsumption),
			"vocabulary_system":     single(quiz.QVocabularySystem),
			"learning_obstacles":    single(quiz.QLearningObstacles),
			"lifestyle":             single(quiz.QLifestyle),
			"assessment_date":       rec.CreatedAt.UTC().Format(time.RFC3339),
			"total_questions":       len(quiz.Catalog()),
			"completion_seconds":    int(rec.CompletionTime.Seconds()),
		},
	}
}

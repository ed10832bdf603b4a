package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/fluentplan/internal/llm"
	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/scoring"
)

// ErrDisabled is returned by Compose when no LLM provider is configured.
var ErrDisabled = errors.New("coach: no LLM provider configured")

const maxFocus = 4

// Service writes coaching notes. The zero value and a Service built with a
// nil provider are valid and always report ErrDisabled.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a coaching service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Enabled reports whether Compose can reach a model.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

type noteOutput struct {
	Headline string   `json:"headline"`
	Message  string   `json:"message"`
	Focus    []string `json:"focus"`
}

// Compose asks the model for a note about an evaluated assessment. The
// bundle is passed through as context only; nothing in it is recomputed.
func (s *Service) Compose(ctx context.Context, rs quiz.ResponseSet, bundle scoring.ResultBundle) (*Note, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	ctx = llm.WithPurpose(ctx, "coach-note")
	tone := ToneFor(rs)

	req := llm.UserPrompt(systemPrompt(tone), buildUserMessage(rs, bundle))
	req.Schema = NoteSchema
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("coach note: %w", err)
	}

	var out noteOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse coach note: %w", err)
	}

	note := &Note{
		Headline: strings.TrimSpace(out.Headline),
		Message:  strings.TrimSpace(out.Message),
		Tone:     tone,
		Model:    resp.Model,
	}
	for _, f := range out.Focus {
		if f = strings.TrimSpace(f); f != "" && len(note.Focus) < maxFocus {
			note.Focus = append(note.Focus, f)
		}
	}
	if tone == TonePlan {
		note.Message = ""
	}
	if note.Headline == "" {
		return nil, fmt.Errorf("parse coach note: empty headline")
	}
	return note, nil
}

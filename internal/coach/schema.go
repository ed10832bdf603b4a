package coach

import "github.com/abhisek/fluentplan/internal/llm"

// NoteSchema is the structured output requested from the model.
var NoteSchema = &llm.Schema{
	Name:        "coach-note",
	Description: "A short personal coaching note for a language learner",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"description": "One-line headline, at most 12 words",
			},
			"message": map[string]any{
				"type":        "string",
				"description": "3-5 sentence note; empty string when only a plan was requested",
			},
			"focus": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2-4 concrete actions for the coming week (5-12 words each)",
			},
		},
		"required":             []any{"headline", "message", "focus"},
		"additionalProperties": false,
	},
}

package segments

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/store"
)

var csvHeader = []string{
	"id", "email", "name", "language", "custom_language", "profile",
	"intensity", "time_commitment", "completion_seconds", "created_at",
}

// WriteCSV writes one row per record: the fixed columns followed by one
// column per catalog question. Multiple-choice answers are joined with ", ".
func WriteCSV(w io.Writer, records []*store.Record) error {
	catalog := quiz.Catalog()
	header := append([]string{}, csvHeader...)
	for _, q := range catalog {
		header = append(header, q.ID)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.ID,
			rec.Email,
			rec.UserName,
			rec.Language,
			rec.CustomLanguage,
			string(rec.ProfileID),
			strconv.Itoa(rec.Intensity),
			strconv.Itoa(rec.TimeCommitment),
			strconv.FormatFloat(rec.CompletionTime.Seconds(), 'f', 0, 64),
			rec.CreatedAt.UTC().Format(time.RFC3339),
		}
		for _, q := range catalog {
			row = append(row, csvAnswer(rec.Responses[q.ID]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvAnswer(a quiz.Answer) string {
	switch v := a.(type) {
	case quiz.SingleChoice:
		return string(v)
	case quiz.MultiChoice:
		return strings.Join(v, ", ")
	case quiz.Numeric:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case quiz.LanguageSelection:
		if v.CustomLanguage != "" {
			return v.Language + ":" + v.CustomLanguage + " (" + v.Timeline + ")"
		}
		return v.Language + " (" + v.Timeline + ")"
	default:
		return ""
	}
}

// backupRecord is the JSON backup form of a store.Record.
type backupRecord struct {
	ID                string               `json:"id"`
	Email             string               `json:"email,omitempty"`
	UserName          string               `json:"userName,omitempty"`
	Responses         quiz.ResponseSet     `json:"responses"`
	Result            scoring.ResultBundle `json:"result"`
	RulesVersion      string               `json:"rulesVersion"`
	CompletionSeconds float64              `json:"completionSeconds"`
	CreatedAt         time.Time            `json:"createdAt"`
}

// WriteJSON writes records as an indented JSON array that ReadJSON accepts.
func WriteJSON(w io.Writer, records []*store.Record) error {
	out := make([]backupRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, backupRecord{
			ID:                rec.ID,
			Email:             rec.Email,
			UserName:          rec.UserName,
			Responses:         rec.Responses,
			Result:            rec.Result,
			RulesVersion:      rec.RulesVersion,
			CompletionSeconds: rec.CompletionTime.Seconds(),
			CreatedAt:         rec.CreatedAt.UTC(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ReadJSON decodes a backup written by WriteJSON. Denormalized fields are
// derived again from the responses and stored result.
func ReadJSON(r io.Reader) ([]*store.Record, error) {
	var in []backupRecord
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	out := make([]*store.Record, 0, len(in))
	for i, b := range in {
		if b.Responses == nil {
			return nil, fmt.Errorf("backup entry %d: missing responses", i)
		}
		rec := store.NewRecord(b.Responses, b.Result, time.Duration(b.CompletionSeconds*float64(time.Second)))
		rec.ID = b.ID
		rec.Email = b.Email
		rec.UserName = b.UserName
		rec.RulesVersion = b.RulesVersion
		rec.CreatedAt = b.CreatedAt
		out = append(out, rec)
	}
	return out, nil
}

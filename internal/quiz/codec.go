package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes an empty set as [] rather than null.
func (m MultiChoice) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(m))
}

// UnmarshalJSON decodes a JSON array and normalizes it.
func (m *MultiChoice) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*m = NewMultiChoice(values...)
	return nil
}

// MarshalJSON encodes the set as an object keyed by question ID. Keys are
// emitted in sorted order, so equal sets encode to identical bytes.
func (r ResponseSet) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r))
	for id, a := range r {
		if a == nil {
			continue
		}
		out[id] = a
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an object keyed by question ID. The answer variant
// is picked from the JSON shape: string, array, number or object. A null
// value leaves the question unanswered.
func (r *ResponseSet) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode responses: %w", err)
	}
	set := make(ResponseSet, len(raw))
	for id, msg := range raw {
		a, err := decodeAnswer(msg)
		if err != nil {
			return fmt.Errorf("decode answer %q: %w", id, err)
		}
		if a != nil {
			set[id] = a
		}
	}
	*r = set
	return nil
}

func decodeAnswer(msg json.RawMessage) (Answer, error) {
	msg = bytes.TrimSpace(msg)
	if len(msg) == 0 {
		return nil, nil
	}
	switch c := msg[0]; {
	case c == 'n':
		return nil, nil
	case c == '"':
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, err
		}
		return SingleChoice(s), nil
	case c == '[':
		var m MultiChoice
		if err := json.Unmarshal(msg, &m); err != nil {
			return nil, err
		}
		return m, nil
	case c == '{':
		var sel LanguageSelection
		if err := json.Unmarshal(msg, &sel); err != nil {
			return nil, err
		}
		return sel, nil
	case c == '-' || (c >= '0' && c <= '9'):
		var f float64
		if err := json.Unmarshal(msg, &f); err != nil {
			return nil, err
		}
		return Numeric(f), nil
	default:
		return nil, fmt.Errorf("unsupported answer value %s", msg)
	}
}

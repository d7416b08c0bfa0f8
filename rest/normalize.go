package rest

import (
	"encoding/json"
	"strings"
)

// Outcome tags how a response body was turned into a value. Making every
// branch a named case keeps the tolerance auditable: the interesting
// outcomes (Extracted, Fallback) are logged distinctly from a legitimately
// empty body so silent data loss is visible operationally.
type Outcome int

const (
	// OutcomeParsed: the whole body parsed as JSON.
	OutcomeParsed Outcome = iota
	// OutcomeEmpty: the body was empty or whitespace-only; the fallback was
	// returned as a valid "no data" result.
	OutcomeEmpty
	// OutcomeExtracted: a JSON value was recovered from a body that carried
	// extraneous non-JSON text around it.
	OutcomeExtracted
	// OutcomeFallback: the body was non-empty but no JSON could be recovered
	// (garbage or truncated); the fallback was returned.
	OutcomeFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomeParsed:
		return "parsed"
	case OutcomeEmpty:
		return "empty"
	case OutcomeExtracted:
		return "extracted"
	default:
		return "fallback"
	}
}

// Normalize turns a raw HTTP body into a usable value. Pure and
// deterministic; never returns an error. The three parse attempts, in order:
//
//  1. the whole body parses as JSON: return it. An explicit JSON null is a
//     valid "no data" value and is returned as nil with OutcomeParsed;
//     coercing nil to an empty list is the list-shaped call sites' job.
//  2. the body is empty or whitespace-only: return fallback.
//  3. the body contains a JSON value embedded in extraneous text: extract
//     from the first opening bracket to the last matching closer and parse
//     that. A truncated body with no matching closer yields the fallback,
//     never an error.
func Normalize(body string, fallback any) (any, Outcome) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return fallback, OutcomeEmpty
	}
	var value any
	if err := json.Unmarshal([]byte(trimmed), &value); err == nil {
		return value, OutcomeParsed
	}
	if extracted, ok := extractEmbedded(trimmed); ok {
		return extracted, OutcomeExtracted
	}
	return fallback, OutcomeFallback
}

// extractEmbedded locates the first opening bracket and the last closer of
// the same kind, then tries to parse the span between them.
func extractEmbedded(s string) (any, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return nil, false
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return nil, false
	}
	var value any
	if err := json.Unmarshal([]byte(s[start:end+1]), &value); err != nil {
		return nil, false
	}
	return value, true
}

// ExtractMessage pulls a human-readable error message out of a failure body:
// a message or error field when the body is object-shaped, else the raw text,
// else a generic description.
func ExtractMessage(body string) string {
	value, _ := Normalize(body, nil)
	if obj, ok := value.(map[string]any); ok {
		if msg, ok := obj["message"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := obj["error"].(string); ok && msg != "" {
			return msg
		}
	}
	if trimmed := strings.TrimSpace(body); trimmed != "" {
		return trimmed
	}
	return "request failed"
}

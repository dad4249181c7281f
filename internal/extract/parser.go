package extract

import (
	"encoding/json"
	"strings"
)

// DecodeRecord parses the model's reply into one loosely-typed record
// (single-receipt task). Any parse failure or shape mismatch is
// CodeMalformedResponse.
func DecodeRecord(raw string) (map[string]interface{}, error) {
	clean := stripCodeFence(raw)

	var parsed interface{}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, &Error{Code: CodeMalformedResponse, Message: "unmarshal model JSON", Cause: err}
	}

	obj, ok := parsed.(map[string]interface{})
	if !ok {
		return nil, &Error{Code: CodeMalformedResponse, Message: "model output is not a JSON object"}
	}
	return obj, nil
}

// DecodeRecords parses the model's reply into a sequence of loosely-typed
// records (bulk-statement task). The parsed value must be a JSON array;
// anything else is CodeMalformedResponse, never coerced. Individual
// elements stay untyped here; all field typing happens in normalization.
func DecodeRecords(raw string) ([]interface{}, error) {
	clean := stripCodeFence(raw)

	var parsed interface{}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, &Error{Code: CodeMalformedResponse, Message: "unmarshal model JSON", Cause: err}
	}

	seq, ok := parsed.([]interface{})
	if !ok {
		return nil, &Error{Code: CodeMalformedResponse, Message: "model output is not a JSON array"}
	}
	return seq, nil
}

// stripCodeFence removes a surrounding Markdown code fence (``` or
// ```json) if the model ignored the no-Markdown instruction. The text in
// between is returned as-is for strict JSON parsing.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Drop the first line (``` or ```json).
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	} else {
		return s
	}

	// Remove the trailing fence if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}

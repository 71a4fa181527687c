package evaluations

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"star-backend/internal/interview"
)

// Result is a parsed evaluation. It marshals back to the bytes the model returned.
type Result struct {
	raw json.RawMessage
}

// Raw returns the evaluation JSON exactly as received.
func (r Result) Raw() []byte {
	return r.raw
}

// MarshalJSON implements json.Marshaler.
func (r Result) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.raw, nil
}

// Rubric decodes the scored part of the result.
func (r Result) Rubric() (Rubric, error) {
	var rub Rubric
	dec := json.NewDecoder(bytes.NewReader(r.raw))
	dec.UseNumber()
	if err := dec.Decode(&rub); err != nil {
		return Rubric{}, fmt.Errorf("decode rubric: %w", err)
	}
	return rub, nil
}

// InterpretResponse parses raw as exactly one JSON object. Markdown fences
// and surrounding prose are rejected.
func InterpretResponse(raw string) (Result, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Result{}, interview.ErrEmptyResponse
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	var obj map[string]json.RawMessage
	if err := dec.Decode(&obj); err != nil {
		return Result{}, fmt.Errorf("%w: %v", interview.ErrMalformedJSON, err)
	}
	if obj == nil {
		return Result{}, fmt.Errorf("%w: null", interview.ErrMalformedJSON)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("%w: trailing data after object", interview.ErrMalformedJSON)
	}
	return Result{raw: json.RawMessage(trimmed)}, nil
}

// InterpretResponseLenient strips one surrounding markdown code fence before
// parsing and reports whether it did.
func InterpretResponseLenient(raw string) (Result, bool, error) {
	body, stripped := stripFence(raw)
	res, err := InterpretResponse(body)
	return res, stripped, err
}

func stripFence(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return raw, false
	}
	s = strings.TrimSuffix(s[3:], "```")
	// Drop an info string such as "json" on the opening line.
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:]
	}
	return strings.TrimSpace(s), true
}

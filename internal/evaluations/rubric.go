package evaluations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ScoredDimension is one row of the scored assessment. Score is kept raw so
// that quoted or fractional values can be told apart from integer literals.
type ScoredDimension struct {
	Dimension     string          `json:"dimension"`
	Score         json.RawMessage `json:"score"`
	Justification string          `json:"justification"`
}

// Rubric is the scored assessment section of an evaluation.
type Rubric struct {
	ScoredAssessment struct {
		Dimensions []ScoredDimension `json:"dimensions"`
	} `json:"scoredAssessment"`
}

// Validate checks that the rubric has every dimension for company, in order,
// each with an integer score between 1 and 5 and a justification.
func (r Rubric) Validate(company string) error {
	want := Dimensions(company)
	got := r.ScoredAssessment.Dimensions
	if len(got) != len(want) {
		return fmt.Errorf("expected %d scored dimensions, got %d", len(want), len(got))
	}
	for i, d := range got {
		if strings.TrimSpace(d.Dimension) != want[i] {
			return fmt.Errorf("dimension %d: expected %q, got %q", i+1, want[i], d.Dimension)
		}
		score, err := integerScore(d.Score)
		if err != nil {
			return fmt.Errorf("dimension %q: %w", want[i], err)
		}
		if score < 1 || score > 5 {
			return fmt.Errorf("dimension %q: score %d out of range 1-5", want[i], score)
		}
		if strings.TrimSpace(d.Justification) == "" {
			return fmt.Errorf("dimension %q: missing justification", want[i])
		}
	}
	return nil
}

// integerScore accepts only an unquoted JSON integer literal.
func integerScore(raw json.RawMessage) (int64, error) {
	lit := bytes.TrimSpace(raw)
	if len(lit) == 0 {
		return 0, fmt.Errorf("missing score")
	}
	n, err := strconv.ParseInt(string(lit), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("score %s is not an integer", lit)
	}
	return n, nil
}
